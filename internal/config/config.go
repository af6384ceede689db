// Package config loads shell settings from defaults, an optional config
// file and SKYDRAGON_* environment variables.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// EnvPrefix is the prefix of environment overrides (SKYDRAGON_LOG_LEVEL, ...).
const EnvPrefix = "SKYDRAGON"

// Keys.
const (
	KeyLogLevel        = "log_level"
	KeyLogFile         = "log_file"
	KeyCatalogDB       = "catalog_db"
	KeySplashLoad      = "splash.load"
	KeySplashTotal     = "splash.total"
	KeySkipSplash      = "splash.skip"
	KeyReferralBaseURL = "referral_base_url"
	KeyUserID          = "user_id"
	KeyFeedURL         = "feed.url"
	KeyFeedSecret      = "feed.secret"
	KeyFeedTokenTTL    = "feed.token_ttl"
	KeyMetricsAddr     = "metrics_addr"
)

// Config holds the resolved settings.
type Config struct {
	LogLevel string
	LogFile  string

	// CatalogDB is the SQLite catalog path. Empty uses the built-in catalog.
	CatalogDB string

	SplashLoad  time.Duration
	SplashTotal time.Duration
	SkipSplash  bool

	ReferralBaseURL string
	UserID          string

	// FeedURL enables the backend notification feed when set.
	FeedURL      string
	FeedSecret   string
	FeedTokenTTL time.Duration

	// MetricsAddr enables the /metrics endpoint when set.
	MetricsAddr string
}

// New returns a viper instance with defaults and environment bindings.
func New() *viper.Viper {
	v := viper.New()
	v.SetDefault(KeyLogLevel, "info")
	v.SetDefault(KeyLogFile, "skydragon.log")
	v.SetDefault(KeyCatalogDB, "")
	v.SetDefault(KeySplashLoad, 500*time.Millisecond)
	v.SetDefault(KeySplashTotal, 2500*time.Millisecond)
	v.SetDefault(KeySkipSplash, false)
	v.SetDefault(KeyReferralBaseURL, "https://t.me/SkyDragonVPNBot")
	v.SetDefault(KeyUserID, "")
	v.SetDefault(KeyFeedURL, "")
	v.SetDefault(KeyFeedSecret, "")
	v.SetDefault(KeyFeedTokenTTL, 24*time.Hour)
	v.SetDefault(KeyMetricsAddr, "")

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// Load reads path (when non-empty) into v and resolves the settings.
func Load(v *viper.Viper, path string) (Config, error) {
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	cfg := Config{
		LogLevel:        v.GetString(KeyLogLevel),
		LogFile:         v.GetString(KeyLogFile),
		CatalogDB:       v.GetString(KeyCatalogDB),
		SplashLoad:      v.GetDuration(KeySplashLoad),
		SplashTotal:     v.GetDuration(KeySplashTotal),
		SkipSplash:      v.GetBool(KeySkipSplash),
		ReferralBaseURL: v.GetString(KeyReferralBaseURL),
		UserID:          v.GetString(KeyUserID),
		FeedURL:         v.GetString(KeyFeedURL),
		FeedSecret:      v.GetString(KeyFeedSecret),
		FeedTokenTTL:    v.GetDuration(KeyFeedTokenTTL),
		MetricsAddr:     v.GetString(KeyMetricsAddr),
	}
	return cfg, cfg.Validate()
}

// Validate checks settings that depend on each other.
func (c Config) Validate() error {
	if c.SplashLoad < 0 || c.SplashTotal < 0 {
		return errors.New("splash durations must not be negative")
	}
	if c.SplashTotal < c.SplashLoad {
		return fmt.Errorf("splash.total (%s) is shorter than splash.load (%s)", c.SplashTotal, c.SplashLoad)
	}
	if c.FeedURL != "" && c.FeedSecret == "" {
		return errors.New("feed.secret is required when feed.url is set")
	}
	return nil
}

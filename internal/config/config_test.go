package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(New(), "")
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, 500*time.Millisecond, cfg.SplashLoad)
	assert.Equal(t, 2500*time.Millisecond, cfg.SplashTotal)
	assert.Equal(t, "https://t.me/SkyDragonVPNBot", cfg.ReferralBaseURL)
	assert.Empty(t, cfg.FeedURL)
	assert.Empty(t, cfg.MetricsAddr)
}

func TestLoadFileAndEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "skydragon.yaml")
	content := `
log_level: debug
catalog_db: /tmp/catalog.db
splash:
  load: 100ms
  total: 1s
feed:
  url: ws://localhost:9000/feed
  secret: from-file
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	t.Setenv("SKYDRAGON_FEED_SECRET", "from-env")
	t.Setenv("SKYDRAGON_USER_ID", "42")

	cfg, err := Load(New(), path)
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "/tmp/catalog.db", cfg.CatalogDB)
	assert.Equal(t, 100*time.Millisecond, cfg.SplashLoad)
	assert.Equal(t, time.Second, cfg.SplashTotal)
	assert.Equal(t, "ws://localhost:9000/feed", cfg.FeedURL)
	assert.Equal(t, "from-env", cfg.FeedSecret)
	assert.Equal(t, "42", cfg.UserID)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{name: "ok", cfg: Config{SplashLoad: time.Second, SplashTotal: 2 * time.Second}},
		{name: "total before load", cfg: Config{SplashLoad: 2 * time.Second, SplashTotal: time.Second}, wantErr: true},
		{name: "negative", cfg: Config{SplashLoad: -time.Second}, wantErr: true},
		{name: "feed without secret", cfg: Config{FeedURL: "ws://x"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(New(), filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

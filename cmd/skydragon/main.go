package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/mmynk/skydragon/internal/config"
)

type cli struct {
	v          *viper.Viper
	configPath string
	cfg        config.Config
}

func newRootCommand() *cobra.Command {
	c := &cli{v: config.New()}

	root := &cobra.Command{
		Use:           "skydragon",
		Short:         "SkyDragon VPN terminal shell",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(c.v, c.configPath)
			if err != nil {
				return err
			}
			c.cfg = cfg
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runShell(cmd.Context(), c.cfg)
		},
	}

	flags := root.PersistentFlags()
	flags.StringVarP(&c.configPath, "config", "c", "", "Config file (yaml, json or toml)")
	flags.String("log-level", "info", "Log level: debug, info, warn, error")
	flags.String("log-file", "skydragon.log", "File the shell logs to")
	flags.String("catalog-db", "", "SQLite catalog path (built-in catalog when empty)")
	flags.String("user-id", "", "User ID used in referral links")
	flags.String("feed-url", "", "Websocket URL of the backend notification feed")
	flags.String("metrics-addr", "", "Serve Prometheus metrics on this address")
	flags.Bool("skip-splash", false, "Go straight to the home screen")

	for key, flag := range map[string]string{
		config.KeyLogLevel:    "log-level",
		config.KeyLogFile:     "log-file",
		config.KeyCatalogDB:   "catalog-db",
		config.KeyUserID:      "user-id",
		config.KeyFeedURL:     "feed-url",
		config.KeyMetricsAddr: "metrics-addr",
		config.KeySkipSplash:  "skip-splash",
	} {
		_ = c.v.BindPFlag(key, flags.Lookup(flag))
	}

	root.AddCommand(newCatalogCommand(c))
	return root
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCommand().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mmynk/skydragon/internal/storage"
	"github.com/mmynk/skydragon/internal/storage/sqlite"
)

func newCatalogCommand(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Inspect or seed the service catalog",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List the tiers of the configured catalog",
		RunE: func(cmd *cobra.Command, args []string) error {
			source, err := openCatalog(c.cfg.CatalogDB)
			if err != nil {
				return err
			}
			defer source.Close()

			tiers, err := source.LoadCatalog(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%-4s %-12s %8s  %-10s %-10s %s\n", "ID", "NAME", "PRICE", "PERIOD", "DEVICES", "FEATURES")
			for _, t := range tiers {
				fmt.Fprintf(out, "%-4d %-12s %8d  %-10s %-10s %s\n",
					t.ID, t.Name, t.Price, t.PeriodLabel, t.DeviceLimitLabel(), strings.Join(t.Features, ", "))
			}
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "seed",
		Short: "Write the built-in catalog into the SQLite catalog",
		RunE: func(cmd *cobra.Command, args []string) error {
			if c.cfg.CatalogDB == "" {
				return errors.New("--catalog-db is required")
			}
			store, err := sqlite.New(c.cfg.CatalogDB)
			if err != nil {
				return err
			}
			defer store.Close()

			tiers, err := storage.DefaultCatalog().LoadCatalog(cmd.Context())
			if err != nil {
				return err
			}
			if err := store.SeedCatalog(cmd.Context(), tiers); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Seeded %d tiers into %s\n", len(tiers), c.cfg.CatalogDB)
			return nil
		},
	})
	return cmd
}

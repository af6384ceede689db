// Package sqlite provides a SQLite-backed implementation of storage.CatalogSource.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite" // Pure Go SQLite driver (no CGO)

	"github.com/mmynk/skydragon/internal/models"
	"github.com/mmynk/skydragon/internal/storage"
)

// Ensure CatalogStore implements storage.CatalogSource
var _ storage.CatalogSource = (*CatalogStore)(nil)

// CatalogStore reads the tier catalog from a SQLite database.
type CatalogStore struct {
	db *sql.DB
}

// New creates a new CatalogStore with the given database path.
// It creates the parent directories and runs migrations automatically.
func New(dbPath string) (*CatalogStore, error) {
	// Create parent directory if it doesn't exist
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	// Open database with pure Go driver
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Enable foreign keys
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	// Run migrations
	if err := runMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return &CatalogStore{db: db}, nil
}

// Close closes the database connection.
func (s *CatalogStore) Close() error {
	return s.db.Close()
}

// LoadCatalog retrieves every tier with its features, in display order.
func (s *CatalogStore) LoadCatalog(ctx context.Context) ([]models.ServiceTier, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT service_id, name, duration_days, price, period_label, popular,
		        device_limit, dragon_power, color_tag
		 FROM services ORDER BY position, service_id`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list services: %w", err)
	}
	defer rows.Close()

	var tiers []models.ServiceTier
	index := make(map[int]int)
	for rows.Next() {
		var tier models.ServiceTier
		var popular int
		if err := rows.Scan(&tier.ID, &tier.Name, &tier.DurationDays, &tier.Price, &tier.PeriodLabel,
			&popular, &tier.DeviceLimit, &tier.DragonPower, &tier.ColorTag); err != nil {
			return nil, fmt.Errorf("failed to scan service: %w", err)
		}
		tier.Popular = popular != 0
		index[tier.ID] = len(tiers)
		tiers = append(tiers, tier)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate services: %w", err)
	}

	featureRows, err := s.db.QueryContext(ctx,
		"SELECT service_id, feature FROM service_features ORDER BY service_id, position",
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list features: %w", err)
	}
	defer featureRows.Close()

	for featureRows.Next() {
		var serviceID int
		var feature string
		if err := featureRows.Scan(&serviceID, &feature); err != nil {
			return nil, fmt.Errorf("failed to scan feature: %w", err)
		}
		if i, ok := index[serviceID]; ok {
			tiers[i].Features = append(tiers[i].Features, feature)
		}
	}
	if err := featureRows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate features: %w", err)
	}

	return tiers, nil
}

// SeedCatalog replaces the stored catalog with tiers, in the given order.
// Every tier is validated before anything is written.
func (s *CatalogStore) SeedCatalog(ctx context.Context, tiers []models.ServiceTier) error {
	for _, tier := range tiers {
		if err := tier.Validate(); err != nil {
			return err
		}
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM service_features"); err != nil {
		return fmt.Errorf("failed to clear features: %w", err)
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM services"); err != nil {
		return fmt.Errorf("failed to clear services: %w", err)
	}

	for pos, tier := range tiers {
		popular := 0
		if tier.Popular {
			popular = 1
		}
		_, err = tx.ExecContext(ctx,
			`INSERT INTO services (service_id, name, duration_days, price, period_label, popular,
			                       device_limit, dragon_power, color_tag, position)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			tier.ID, tier.Name, tier.DurationDays, tier.Price, tier.PeriodLabel, popular,
			tier.DeviceLimit, tier.DragonPower, tier.ColorTag, pos,
		)
		if err != nil {
			return fmt.Errorf("failed to insert service %d: %w", tier.ID, err)
		}

		for i, feature := range tier.Features {
			_, err = tx.ExecContext(ctx,
				"INSERT INTO service_features (service_id, position, feature) VALUES (?, ?, ?)",
				tier.ID, i, feature,
			)
			if err != nil {
				return fmt.Errorf("failed to insert feature: %w", err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

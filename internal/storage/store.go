// Package storage provides the catalog source boundary of the shell.
package storage

import (
	"context"

	"github.com/mmynk/skydragon/internal/models"
)

// CatalogSource defines the interface for loading the tier catalog.
// This abstraction allows swapping the catalog backend (built-in, SQLite, ...)
// without changing the session store.
type CatalogSource interface {
	// LoadCatalog returns the purchasable tiers in display order.
	LoadCatalog(ctx context.Context) ([]models.ServiceTier, error)

	// Close releases any resources held by the source.
	Close() error
}

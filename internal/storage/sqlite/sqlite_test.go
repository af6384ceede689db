package sqlite

import (
	"context"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/mmynk/skydragon/internal/models"
	"github.com/mmynk/skydragon/internal/storage"
)

func TestCatalogStore(t *testing.T) {
	// Create temp directory for test database
	tempDir, err := os.MkdirTemp("", "skydragon-test-*")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}
	defer os.RemoveAll(tempDir)

	dbPath := filepath.Join(tempDir, "nested", "catalog.db")
	store, err := New(dbPath)
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	defer store.Close()

	ctx := context.Background()

	t.Run("empty database has empty catalog", func(t *testing.T) {
		tiers, err := store.LoadCatalog(ctx)
		if err != nil {
			t.Fatalf("LoadCatalog failed: %v", err)
		}
		if len(tiers) != 0 {
			t.Errorf("Expected no tiers, got %d", len(tiers))
		}
	})

	t.Run("SeedCatalog round-trips the default catalog", func(t *testing.T) {
		want, _ := storage.DefaultCatalog().LoadCatalog(ctx)
		if err := store.SeedCatalog(ctx, want); err != nil {
			t.Fatalf("SeedCatalog failed: %v", err)
		}

		got, err := store.LoadCatalog(ctx)
		if err != nil {
			t.Fatalf("LoadCatalog failed: %v", err)
		}
		if !reflect.DeepEqual(got, want) {
			t.Errorf("LoadCatalog mismatch\n got: %+v\nwant: %+v", got, want)
		}
	})

	t.Run("SeedCatalog replaces previous tiers and keeps order", func(t *testing.T) {
		tiers := []models.ServiceTier{
			{ID: 9, Name: "Late", Price: 50, PeriodLabel: "1 day", DurationDays: 1},
			{ID: 2, Name: "Early", Price: 70, PeriodLabel: "2 days", DurationDays: 2, Features: []string{"a", "b"}},
		}
		if err := store.SeedCatalog(ctx, tiers); err != nil {
			t.Fatalf("SeedCatalog failed: %v", err)
		}

		got, err := store.LoadCatalog(ctx)
		if err != nil {
			t.Fatalf("LoadCatalog failed: %v", err)
		}
		if len(got) != 2 {
			t.Fatalf("Expected 2 tiers, got %d", len(got))
		}
		if got[0].ID != 9 || got[1].ID != 2 {
			t.Errorf("Expected seed order [9 2], got [%d %d]", got[0].ID, got[1].ID)
		}
		if !reflect.DeepEqual(got[1].Features, []string{"a", "b"}) {
			t.Errorf("Features = %v, want [a b]", got[1].Features)
		}
	})

	t.Run("SeedCatalog rejects invalid tiers without writing", func(t *testing.T) {
		err := store.SeedCatalog(ctx, []models.ServiceTier{
			{ID: 5, Name: "Fine", Price: 10, DurationDays: 1},
			{ID: 6, Name: "Broken", Price: 0, DurationDays: 1},
		})
		if err == nil {
			t.Fatal("Expected validation error")
		}

		got, err := store.LoadCatalog(ctx)
		if err != nil {
			t.Fatalf("LoadCatalog failed: %v", err)
		}
		if len(got) != 2 {
			t.Errorf("Expected previous catalog to survive, got %d tiers", len(got))
		}
	})
}

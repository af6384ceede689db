package main

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCatalogSeedAndList(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "catalog.db")

	var out bytes.Buffer
	root := newRootCommand()
	root.SetOut(&out)
	root.SetArgs([]string{"catalog", "seed", "--catalog-db", dbPath})
	require.NoError(t, root.Execute())
	assert.Contains(t, out.String(), "Seeded 4 tiers")

	out.Reset()
	root = newRootCommand()
	root.SetOut(&out)
	root.SetArgs([]string{"catalog", "list", "--catalog-db", dbPath})
	require.NoError(t, root.Execute())
	assert.Contains(t, out.String(), "Valdrim")
	assert.Contains(t, out.String(), "unlimited")
}

func TestCatalogSeedRequiresPath(t *testing.T) {
	root := newRootCommand()
	root.SetOut(&bytes.Buffer{})
	root.SetArgs([]string{"catalog", "seed"})
	assert.Error(t, root.Execute())
}

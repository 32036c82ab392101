package main

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/bookshelf/internal/database"
	"github.com/mrlokans/bookshelf/internal/database/books"
)

func TestSeed(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "demo.db")

	require.NoError(t, seed(ctx, path, true, zerolog.Nop()))
	require.NoError(t, seed(ctx, path, true, zerolog.Nop()))

	db, err := database.NewDatabase(path)
	require.NoError(t, err)
	defer db.Close()

	repo := books.NewRepository(db.DB, db.Tracker)
	count, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(len(demoBooks())), count, "a fresh seed replaces the previous one")

	categories, err := repo.ListDistinctCategories(ctx)
	require.NoError(t, err)
	assert.Contains(t, categories, "Poetry")
}

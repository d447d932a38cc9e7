package database_test

import (
	"bytes"
	"context"
	"testing"

	"printstudio/internal/apperrors"
	"printstudio/internal/config"
	"printstudio/internal/database"
	"printstudio/internal/logging"
	"printstudio/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpen_SQLite(t *testing.T) {
	ctx := context.Background()
	cfg := config.DatabaseConfig{
		Driver:       config.DriverSQLite,
		DSN:          "file:database_open_test?mode=memory&cache=shared",
		MaxOpenConns: 1,
	}

	set, closeFn, err := database.Open(ctx, cfg, logging.Discard())
	require.NoError(t, err)
	defer closeFn(ctx)

	require.NoError(t, set.Categories.Create(ctx, &models.Category{Name: "Arte", Slug: "arte"}))
	all, err := set.Categories.GetAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestOpen_UnknownDriver(t *testing.T) {
	_, _, err := database.Open(context.Background(), config.DatabaseConfig{Driver: "oracle"}, logging.Discard())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported database driver")
}

func TestOpen_SQLiteLogsFailuresButNotMisses(t *testing.T) {
	ctx := context.Background()
	var out bytes.Buffer
	cfg := config.DatabaseConfig{Driver: config.DriverSQLite, DSN: "file:database_log_test?mode=memory&cache=shared"}

	set, closeFn, err := database.Open(ctx, cfg, logging.NewWithWriter(&out, "info"))
	require.NoError(t, err)
	defer closeFn(ctx)
	out.Reset()

	_, err = set.Users.GetByUsername(ctx, "ghost")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	_, err = set.Categories.GetBySlug(ctx, "free-slug")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	assert.NotContains(t, out.String(), "record not found")

	require.NoError(t, set.Categories.Create(ctx, &models.Category{ID: "c1", Name: "Arte", Slug: "arte"}))
	err = set.Categories.Create(ctx, &models.Category{ID: "c2", Name: "ARTE", Slug: "arte"})
	assert.ErrorIs(t, err, apperrors.ErrConflict)
	assert.Contains(t, out.String(), "INSERT INTO")
}

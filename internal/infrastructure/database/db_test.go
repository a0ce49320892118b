package database

import (
	"context"
	"database/sql"
	"errors"
	"io/fs"
	"testing"
	"time"

	"recipe-assistant/internal/infrastructure/config"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func withMockDB(t *testing.T) sqlmock.Sqlmock {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)

	prev := openDB
	openDB = func(driverName, dsn string) (*sql.DB, error) {
		assert.Equal(t, "pgx", driverName)
		return db, nil
	}
	t.Cleanup(func() {
		openDB = prev
		_ = db.Close()
	})
	return mock
}

func TestConnect_AppliesPoolOptions(t *testing.T) {
	mock := withMockDB(t)
	mock.ExpectPing()

	db, err := Connect(context.Background(), &config.DatabaseConfig{
		URL:          "postgres://localhost/recipes",
		MaxOpenConns: 7,
		PingTimeout:  time.Second,
	})
	require.NoError(t, err)
	assert.Equal(t, 7, db.Stats().MaxOpenConnections)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestConnect_PingFailure(t *testing.T) {
	mock := withMockDB(t)
	mock.ExpectPing().WillReturnError(errors.New("connection refused"))

	_, err := Connect(context.Background(), &config.DatabaseConfig{URL: "postgres://localhost/recipes"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ping database")
}

func TestConnect_EmptyURL(t *testing.T) {
	_, err := Connect(context.Background(), &config.DatabaseConfig{URL: "  "})
	require.Error(t, err)
}

func TestRunMigrations_NilDB(t *testing.T) {
	assert.NoError(t, RunMigrations(context.Background(), nil))
}

func TestMigrationsEmbedded(t *testing.T) {
	entries, err := fs.ReadDir(migrationFiles, "migrations")
	require.NoError(t, err)

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	assert.Equal(t, []string{"00001_create_favorites.sql", "00002_create_recipes.sql"}, names)
}

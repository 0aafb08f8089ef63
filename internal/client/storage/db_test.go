package storage

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func tableExists(t *testing.T, db *sql.DB, name string) bool {
	t.Helper()
	var n int
	err := db.QueryRow(`SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name=?`, name).Scan(&n)
	require.NoError(t, err)
	return n > 0
}

func TestInitDatabase_CreatesCredentialsTable(t *testing.T) {
	ctx := context.Background()
	dsn := filepath.Join(t.TempDir(), "fittrack.db")

	db, err := InitDatabase(ctx, dsn)
	require.NoError(t, err)
	defer db.Close()

	require.True(t, tableExists(t, db, "goose_db_version"))
	require.True(t, tableExists(t, db, "credentials"))
}

func TestRunMigrations_IsIdempotent(t *testing.T) {
	ctx := context.Background()
	dsn := filepath.Join(t.TempDir(), "fittrack.db")

	db, err := sql.Open("sqlite", dsn)
	require.NoError(t, err)
	defer db.Close()

	require.NoError(t, RunMigrations(ctx, db))
	require.NoError(t, RunMigrations(ctx, db))
	require.True(t, tableExists(t, db, "credentials"))
}

func TestInitDatabase_PersistsAcrossReopen(t *testing.T) {
	ctx := context.Background()
	dsn := filepath.Join(t.TempDir(), "fittrack.db")

	db, err := InitDatabase(ctx, dsn)
	require.NoError(t, err)
	_, err = db.ExecContext(ctx, `INSERT INTO credentials(key, value) VALUES ('token', 'abc123')`)
	require.NoError(t, err)
	require.NoError(t, db.Close())

	db, err = InitDatabase(ctx, dsn)
	require.NoError(t, err)
	defer db.Close()

	var got string
	require.NoError(t, db.QueryRowContext(ctx, `SELECT value FROM credentials WHERE key = 'token'`).Scan(&got))
	require.Equal(t, "abc123", got)
}

func TestInitDatabase_CreatesParentDirectory(t *testing.T) {
	ctx := context.Background()
	dsn := filepath.Join(t.TempDir(), "nested", "state", "fittrack.db")

	db, err := InitDatabase(ctx, dsn)
	require.NoError(t, err)
	defer db.Close()

	require.True(t, tableExists(t, db, "credentials"))
}

func TestInitDatabase_InMemoryKeepsSchemaAcrossUse(t *testing.T) {
	ctx := context.Background()

	db, err := InitDatabase(ctx, ":memory:")
	require.NoError(t, err)
	defer db.Close()

	require.Equal(t, 1, db.Stats().MaxOpenConnections)

	tx, err := db.BeginTx(ctx, nil)
	require.NoError(t, err)
	_, err = tx.ExecContext(ctx, `INSERT INTO credentials(key, value) VALUES ('token', 'abc123')`)
	require.NoError(t, err)
	require.NoError(t, tx.Commit())

	var got string
	require.NoError(t, db.QueryRowContext(ctx, `SELECT value FROM credentials WHERE key = 'token'`).Scan(&got))
	require.Equal(t, "abc123", got)
	require.True(t, tableExists(t, db, "credentials"))
}

func TestInitDatabase_FilePathIsNotPinned(t *testing.T) {
	db, err := InitDatabase(context.Background(), filepath.Join(t.TempDir(), "fittrack.db"))
	require.NoError(t, err)
	defer db.Close()

	require.Equal(t, 0, db.Stats().MaxOpenConnections)
}

func TestIsFilePath(t *testing.T) {
	require.True(t, isFilePath("fittrack.db"))
	require.True(t, isFilePath("/var/lib/fittrack/f.db"))
	require.False(t, isFilePath(":memory:"))
	require.False(t, isFilePath("file:creds?mode=memory&cache=shared"))
	require.False(t, isFilePath(""))
}

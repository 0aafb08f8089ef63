package credentials

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"

	_ "modernc.org/sqlite"
)

func setupDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Exec(`
CREATE TABLE credentials (
  key   TEXT PRIMARY KEY,
  value TEXT NOT NULL
);`)
	require.NoError(t, err)
	return db
}

func TestSQLiteStore_SetThenGet(t *testing.T) {
	r := NewSQLiteStore(setupDB(t))
	ctx := context.Background()

	require.NoError(t, r.Set(ctx, "token", "abc123"))

	v, ok, err := r.Get(ctx, "token")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "abc123", v)
}

func TestSQLiteStore_GetMissing_IsAbsentNotError(t *testing.T) {
	r := NewSQLiteStore(setupDB(t))

	v, ok, err := r.Get(context.Background(), "user")
	require.NoError(t, err)
	require.False(t, ok)
	require.Empty(t, v)
}

func TestSQLiteStore_SetOverwrites(t *testing.T) {
	r := NewSQLiteStore(setupDB(t))
	ctx := context.Background()

	require.NoError(t, r.Set(ctx, "token", "old"))
	require.NoError(t, r.Set(ctx, "token", "new"))

	v, _, err := r.Get(ctx, "token")
	require.NoError(t, err)
	require.Equal(t, "new", v)
}

func TestSQLiteStore_Remove_IsIdempotent(t *testing.T) {
	r := NewSQLiteStore(setupDB(t))
	ctx := context.Background()

	require.NoError(t, r.Set(ctx, "token", "abc"))
	require.NoError(t, r.Remove(ctx, "token"))

	_, ok, err := r.Get(ctx, "token")
	require.NoError(t, err)
	require.False(t, ok)

	require.NoError(t, r.Remove(ctx, "token"))
}

func TestSQLiteStore_KeysAreIndependent(t *testing.T) {
	r := NewSQLiteStore(setupDB(t))
	ctx := context.Background()

	require.NoError(t, r.Set(ctx, "token", "abc"))
	require.NoError(t, r.Set(ctx, "user", `{"id":"1"}`))
	require.NoError(t, r.Remove(ctx, "user"))

	v, ok, err := r.Get(ctx, "token")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "abc", v)
}

func TestSQLiteStore_ClosedDB_ErrorsWrapped(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteStore(db)
	ctx := context.Background()
	require.NoError(t, db.Close())

	_, _, err := r.Get(ctx, "token")
	require.ErrorContains(t, err, "failed to get credential[token]")

	err = r.Set(ctx, "token", "v")
	require.ErrorContains(t, err, "failed to set credential[token]")

	err = r.Remove(ctx, "token")
	require.ErrorContains(t, err, "failed to remove credential[token]")
}

func TestSQLiteStore_DriverErrorsAreSurfaced(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	r := NewSQLiteStore(db)
	ctx := context.Background()
	diskErr := errors.New("disk I/O error")

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT value FROM credentials WHERE key = ?`)).
		WithArgs("user").
		WillReturnError(diskErr)
	mock.ExpectExec(`INSERT INTO credentials`).
		WithArgs("user", "{}").
		WillReturnError(diskErr)
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM credentials WHERE key = ?`)).
		WithArgs("user").
		WillReturnError(diskErr)

	_, ok, err := r.Get(ctx, "user")
	require.ErrorIs(t, err, diskErr)
	require.False(t, ok)

	require.ErrorIs(t, r.Set(ctx, "user", "{}"), diskErr)
	require.ErrorIs(t, r.Remove(ctx, "user"), diskErr)

	require.NoError(t, mock.ExpectationsWereMet())
}

package db

import (
	"context"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenSQLiteCreatesSchema(t *testing.T) {
	ctx := context.Background()
	dbh, err := Open(ctx, DriverSQLite, ":memory:")
	require.NoError(t, err)
	defer dbh.Close()

	for _, table := range []string{"users", "courses", "course_students", "questions", "answers", "event_log"} {
		var n int
		err := dbh.GetContext(ctx, &n, `SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name=?`, table)
		require.NoError(t, err)
		assert.Equal(t, 1, n, "table %s", table)
	}

	// idempotent
	require.NoError(t, ensureSchema(ctx, dbh, DriverSQLite))
}

func TestOpenUnknownDriver(t *testing.T) {
	_, err := Open(context.Background(), Driver("oracle"), "")
	assert.EqualError(t, err, "unsupported driver: oracle")
}

func TestIsUniqueViolation(t *testing.T) {
	ctx := context.Background()
	dbh, err := Open(ctx, DriverSQLite, ":memory:")
	require.NoError(t, err)
	defer dbh.Close()

	_, err = dbh.ExecContext(ctx, `INSERT INTO courses (id,name,created_by,created_at) VALUES ('c1','A','t1',1)`)
	require.NoError(t, err)
	_, err = dbh.ExecContext(ctx, `INSERT INTO courses (id,name,created_by,created_at) VALUES ('c1','B','t1',2)`)
	require.Error(t, err)
	assert.True(t, IsUniqueViolation(err))

	assert.True(t, IsUniqueViolation(&pgconn.PgError{Code: "23505"}))
	assert.False(t, IsUniqueViolation(&pgconn.PgError{Code: "23503"}))
	assert.False(t, IsUniqueViolation(nil))
}

package auth

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/mind-engage/mindengage-quiz/internal/db"
)

func newTestStore(t *testing.T) *UserStore {
	t.Helper()
	dbh, err := db.Open(context.Background(), db.DriverSQLite, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { dbh.Close() })
	s := NewUserStore(dbh)
	s.cost = bcrypt.MinCost
	return s
}

func TestRegisterAndAuthenticate(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	u, err := s.Register(ctx, NewUser{Email: " Ada@Example.com ", Password: "correct horse", FirstName: "Ada", LastName: "L", Role: "teacher"})
	require.NoError(t, err)
	assert.NotEmpty(t, u.ID)
	assert.Equal(t, "ada@example.com", u.Email)
	assert.NotEqual(t, "correct horse", u.PasswordHash)

	_, err = s.Register(ctx, NewUser{Email: "ada@example.com", Password: "another one", Role: "student"})
	assert.ErrorIs(t, err, ErrEmailTaken)

	got, err := s.Authenticate(ctx, "ADA@example.com", "correct horse")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)
	assert.Equal(t, "teacher", got.Role)

	_, err = s.Authenticate(ctx, "ada@example.com", "wrong")
	assert.ErrorIs(t, err, ErrBadCredentials)
	_, err = s.Authenticate(ctx, "nobody@example.com", "correct horse")
	assert.ErrorIs(t, err, ErrBadCredentials)

	byID, err := s.Get(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ada", byID.FirstName)
	_, err = s.Get(ctx, "missing")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestResolveStudents(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	stu, err := s.Register(ctx, NewUser{Email: "stu@example.com", Password: "secret1", Role: "student", StudentID: "S-1"})
	require.NoError(t, err)
	tch, err := s.Register(ctx, NewUser{Email: "t@example.com", Password: "secret1", Role: "teacher", StudentID: "T-1"})
	require.NoError(t, err)

	got, err := s.ResolveStudents(ctx, []string{"S-1", stu.ID, "T-1", tch.ID, "nobody"})
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"S-1": stu.ID, stu.ID: stu.ID}, got)

	empty, err := s.ResolveStudents(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

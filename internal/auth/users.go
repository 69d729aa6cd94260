// Package auth manages user accounts: registration, password login and lookup.
package auth

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"golang.org/x/crypto/bcrypt"

	"github.com/mind-engage/mindengage-quiz/internal/db"
)

var (
	ErrEmailTaken     = errors.New("email already registered")
	ErrBadCredentials = errors.New("invalid email or password")
	ErrUserNotFound   = errors.New("user not found")
)

type User struct {
	ID           string `json:"id" db:"id"`
	Email        string `json:"email" db:"email"`
	PasswordHash string `json:"-" db:"password_hash"`
	FirstName    string `json:"first_name" db:"first_name"`
	LastName     string `json:"last_name" db:"last_name"`
	Role         string `json:"role" db:"role"`
	StudentID    string `json:"student_id,omitempty" db:"student_id"`
	Institution  string `json:"institution,omitempty" db:"institution"`
	CreatedAt    int64  `json:"created_at" db:"created_at"`
}

type NewUser struct {
	Email       string `json:"email" validate:"required,email"`
	Password    string `json:"password" validate:"required,min=6"`
	FirstName   string `json:"first_name" validate:"notblank"`
	LastName    string `json:"last_name" validate:"notblank"`
	Role        string `json:"role" validate:"required,oneof=student teacher"`
	StudentID   string `json:"student_id" validate:"required_if=Role student"`
	Institution string `json:"institution"`
}

type UserStore struct {
	db   *sqlx.DB
	cost int
}

func NewUserStore(dbh *sqlx.DB) *UserStore {
	return &UserStore{db: dbh, cost: bcrypt.DefaultCost}
}

const userCols = `id,email,password_hash,first_name,last_name,role,student_id,institution,created_at`

// Register hashes the password and stores a new user. Emails are compared
// case-insensitively.
func (s *UserStore) Register(ctx context.Context, nu NewUser) (User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(nu.Password), s.cost)
	if err != nil {
		return User{}, fmt.Errorf("hash password: %w", err)
	}
	u := User{
		ID:           uuid.NewString(),
		Email:        strings.ToLower(strings.TrimSpace(nu.Email)),
		PasswordHash: string(hash),
		FirstName:    strings.TrimSpace(nu.FirstName),
		LastName:     strings.TrimSpace(nu.LastName),
		Role:         nu.Role,
		StudentID:    strings.TrimSpace(nu.StudentID),
		Institution:  strings.TrimSpace(nu.Institution),
		CreatedAt:    time.Now().Unix(),
	}

	var n int
	if err := s.db.GetContext(ctx, &n, s.db.Rebind(`SELECT COUNT(*) FROM users WHERE email=?`), u.Email); err != nil {
		return User{}, err
	}
	if n > 0 {
		return User{}, ErrEmailTaken
	}
	_, err = s.db.NamedExecContext(ctx, `INSERT INTO users (`+userCols+`)
		VALUES (:id,:email,:password_hash,:first_name,:last_name,:role,:student_id,:institution,:created_at)`, u)
	if db.IsUniqueViolation(err) {
		return User{}, ErrEmailTaken
	}
	if err != nil {
		return User{}, err
	}
	return u, nil
}

func (s *UserStore) Authenticate(ctx context.Context, email, password string) (User, error) {
	var u User
	err := s.db.GetContext(ctx, &u, s.db.Rebind(`SELECT `+userCols+` FROM users WHERE email=?`),
		strings.ToLower(strings.TrimSpace(email)))
	if errors.Is(err, sql.ErrNoRows) {
		return User{}, ErrBadCredentials
	}
	if err != nil {
		return User{}, err
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
		return User{}, ErrBadCredentials
	}
	return u, nil
}

func (s *UserStore) Get(ctx context.Context, id string) (User, error) {
	var u User
	err := s.db.GetContext(ctx, &u, s.db.Rebind(`SELECT `+userCols+` FROM users WHERE id=?`), id)
	if errors.Is(err, sql.ErrNoRows) {
		return User{}, ErrUserNotFound
	}
	return u, err
}

// ResolveStudents maps each identifier to the account id of the student it
// names, matching the account id first and the school student id second.
// Unknown identifiers and non-student accounts are left out.
func (s *UserStore) ResolveStudents(ctx context.Context, ids []string) (map[string]string, error) {
	out := map[string]string{}
	if len(ids) == 0 {
		return out, nil
	}
	query, args, err := sqlx.In(`SELECT id, student_id FROM users
		WHERE role='student' AND (id IN (?) OR student_id IN (?))`, ids, ids)
	if err != nil {
		return nil, err
	}
	var rows []struct {
		ID        string `db:"id"`
		StudentID string `db:"student_id"`
	}
	if err := s.db.SelectContext(ctx, &rows, s.db.Rebind(query), args...); err != nil {
		return nil, err
	}
	want := make(map[string]bool, len(ids))
	for _, id := range ids {
		want[id] = true
	}
	for _, r := range rows {
		if want[r.StudentID] && r.StudentID != "" {
			out[r.StudentID] = r.ID
		}
	}
	for _, r := range rows {
		if want[r.ID] {
			out[r.ID] = r.ID
		}
	}
	return out, nil
}

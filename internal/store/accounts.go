package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/erazemk/najdeno/internal/apperr"
	"github.com/erazemk/najdeno/internal/model"
)

// Accounts persists account records. It is the only place an account's
// role is read from.
type Accounts struct {
	DB *sql.DB
}

// Create stores a new account.
func (s *Accounts) Create(ctx context.Context, id, email, displayName string, role model.Role) (*model.Account, error) {
	_, err := s.DB.ExecContext(ctx,
		`INSERT INTO accounts (id, email, display_name, role) VALUES (?, ?, ?, ?)`,
		id, email, displayName, role,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("account %s: %w", email, apperr.ErrConflict)
		}
		return nil, fmt.Errorf("creating account: %w", err)
	}
	return s.Get(ctx, id)
}

// Get returns an account by ID.
func (s *Accounts) Get(ctx context.Context, id string) (*model.Account, error) {
	return s.getBy(ctx, "id", id)
}

// GetByEmail returns an account by email.
func (s *Accounts) GetByEmail(ctx context.Context, email string) (*model.Account, error) {
	return s.getBy(ctx, "email", email)
}

func (s *Accounts) getBy(ctx context.Context, column, value string) (*model.Account, error) {
	a := &model.Account{}
	err := s.DB.QueryRowContext(ctx,
		`SELECT id, email, display_name, role, created_at FROM accounts WHERE `+column+` = ?`, value,
	).Scan(&a.ID, &a.Email, &a.DisplayName, &a.Role, &a.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("account %s: %w", value, apperr.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("getting account: %w", err)
	}
	return a, nil
}

// CountAdmins returns the number of admin accounts.
func (s *Accounts) CountAdmins(ctx context.Context) (int, error) {
	var n int
	err := s.DB.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM accounts WHERE role = ?`, model.RoleAdmin,
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("counting admins: %w", err)
	}
	return n, nil
}

// isUniqueViolation reports whether err is a UNIQUE or PRIMARY KEY
// constraint failure.
func isUniqueViolation(err error) bool {
	var serr *sqlite.Error
	if !errors.As(err, &serr) {
		return false
	}
	switch serr.Code() {
	case sqlite3.SQLITE_CONSTRAINT_UNIQUE, sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY:
		return true
	}
	return false
}

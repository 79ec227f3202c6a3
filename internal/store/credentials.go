package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/erazemk/najdeno/internal/apperr"
)

// Credential is a login secret held by the identity provider.
type Credential struct {
	AccountID    string
	Email        string
	PasswordHash string
}

// CreateCredential stores a password hash for a new subject.
func CreateCredential(ctx context.Context, db *sql.DB, accountID, email, passwordHash string) error {
	_, err := db.ExecContext(ctx,
		`INSERT INTO credentials (account_id, email, password_hash) VALUES (?, ?, ?)`,
		accountID, email, passwordHash,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("email %s already registered: %w", email, apperr.ErrConflict)
		}
		return fmt.Errorf("creating credential: %w", err)
	}
	return nil
}

// GetCredentialByEmail returns the credential registered for email.
func GetCredentialByEmail(ctx context.Context, db *sql.DB, email string) (*Credential, error) {
	c := &Credential{}
	err := db.QueryRowContext(ctx,
		`SELECT account_id, email, password_hash FROM credentials WHERE email = ?`, email,
	).Scan(&c.AccountID, &c.Email, &c.PasswordHash)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("credential %s: %w", email, apperr.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("getting credential: %w", err)
	}
	return c, nil
}

// DeleteCredential removes a subject's credential.
func DeleteCredential(ctx context.Context, db *sql.DB, accountID string) error {
	_, err := db.ExecContext(ctx, `DELETE FROM credentials WHERE account_id = ?`, accountID)
	if err != nil {
		return fmt.Errorf("deleting credential: %w", err)
	}
	return nil
}

// RevokeSession adds a session token's JTI to the revocation list.
func RevokeSession(ctx context.Context, db *sql.DB, jti string, expiresAt time.Time) error {
	_, err := db.ExecContext(ctx,
		`INSERT OR IGNORE INTO revoked_tokens (jti, expires_at) VALUES (?, ?)`,
		jti, expiresAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("revoking session: %w", err)
	}

	// Expired tokens fail validation anyway, so their revocations can go.
	_, _ = db.ExecContext(ctx,
		`DELETE FROM revoked_tokens WHERE expires_at < ?`, time.Now().UTC(),
	)

	return nil
}

// IsSessionRevoked checks if a session token's JTI has been revoked.
func IsSessionRevoked(ctx context.Context, db *sql.DB, jti string) (bool, error) {
	var count int
	err := db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM revoked_tokens WHERE jti = ?`, jti,
	).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("checking session revocation: %w", err)
	}
	return count > 0, nil
}

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/erazemk/najdeno/internal/apperr"
)

// Uploads records which account uploaded each media locator.
type Uploads struct {
	DB *sql.DB
}

// Record stores accountID as the uploader of locator.
func (s *Uploads) Record(ctx context.Context, locator, accountID string) error {
	_, err := s.DB.ExecContext(ctx,
		`INSERT INTO media_uploads (locator, account_id) VALUES (?, ?)`,
		locator, accountID,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("upload %s: %w", locator, apperr.ErrConflict)
		}
		return fmt.Errorf("recording upload: %w", err)
	}
	return nil
}

// Uploader returns the account that uploaded locator.
func (s *Uploads) Uploader(ctx context.Context, locator string) (string, error) {
	var accountID string
	err := s.DB.QueryRowContext(ctx,
		`SELECT account_id FROM media_uploads WHERE locator = ?`, locator,
	).Scan(&accountID)
	if errors.Is(err, sql.ErrNoRows) {
		return "", fmt.Errorf("upload %s: %w", locator, apperr.ErrNotFound)
	}
	if err != nil {
		return "", fmt.Errorf("getting upload: %w", err)
	}
	return accountID, nil
}

// Forget drops the record for locator. Missing records are not an error.
func (s *Uploads) Forget(ctx context.Context, locator string) error {
	_, err := s.DB.ExecContext(ctx, `DELETE FROM media_uploads WHERE locator = ?`, locator)
	if err != nil {
		return fmt.Errorf("forgetting upload: %w", err)
	}
	return nil
}

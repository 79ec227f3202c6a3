// Package identity is the local identity provider: it owns login
// credentials and session tokens. It knows nothing about roles or items.
package identity

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/erazemk/najdeno/internal/apperr"
	"github.com/erazemk/najdeno/internal/store"
)

// MinPasswordLength is the shortest accepted password.
const MinPasswordLength = 8

// Provider authenticates credentials and issues session tokens.
type Provider struct {
	DB       *sql.DB
	Secret   string
	TokenTTL time.Duration

	// Cost is the bcrypt cost. Zero means bcrypt.DefaultCost.
	Cost int
}

// ValidatePassword checks a password against the provider's rules.
func ValidatePassword(password string) error {
	if len(password) < MinPasswordLength {
		return apperr.Invalid("password", "password must be at least %d characters", MinPasswordLength)
	}
	return nil
}

// Register stores credentials for a new subject and returns the subject ID.
func (p *Provider) Register(ctx context.Context, email, password string) (string, error) {
	if err := ValidatePassword(password); err != nil {
		return "", err
	}

	hash, err := p.hashPassword(password)
	if err != nil {
		return "", err
	}

	subject := uuid.NewString()
	if err := store.CreateCredential(ctx, p.DB, subject, email, hash); err != nil {
		return "", err
	}
	return subject, nil
}

// Forget removes a subject's credentials.
func (p *Provider) Forget(ctx context.Context, subject string) error {
	return store.DeleteCredential(ctx, p.DB, subject)
}

// Authenticate checks email and password and returns a session token.
func (p *Provider) Authenticate(ctx context.Context, email, password string) (string, error) {
	cred, err := store.GetCredentialByEmail(ctx, p.DB, email)
	if errors.Is(err, apperr.ErrNotFound) {
		return "", fmt.Errorf("invalid credentials: %w", apperr.ErrAuth)
	}
	if err != nil {
		return "", err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(cred.PasswordHash), []byte(password)); err != nil {
		slog.Warn("login failed", "email", email)
		return "", fmt.Errorf("invalid credentials: %w", apperr.ErrAuth)
	}

	return GenerateToken(p.Secret, cred.AccountID, p.ttl())
}

// Validate parses a session token and rejects revoked sessions.
func (p *Provider) Validate(ctx context.Context, token string) (*Claims, error) {
	claims, err := ParseToken(p.Secret, token)
	if err != nil {
		return nil, fmt.Errorf("%v: %w", err, apperr.ErrAuth)
	}

	if claims.ID != "" {
		revoked, err := store.IsSessionRevoked(ctx, p.DB, claims.ID)
		if err != nil {
			return nil, err
		}
		if revoked {
			return nil, fmt.Errorf("session revoked: %w", apperr.ErrAuth)
		}
	}
	return claims, nil
}

// Subject returns the subject of a valid, unrevoked session token.
func (p *Provider) Subject(ctx context.Context, token string) (string, error) {
	claims, err := p.Validate(ctx, token)
	if err != nil {
		return "", err
	}
	return claims.Subject, nil
}

// SignOut revokes the session behind token.
func (p *Provider) SignOut(ctx context.Context, token string) error {
	claims, err := p.Validate(ctx, token)
	if err != nil {
		return err
	}

	expiresAt := time.Now().Add(p.ttl())
	if claims.ExpiresAt != nil {
		expiresAt = claims.ExpiresAt.Time
	}
	return store.RevokeSession(ctx, p.DB, claims.ID, expiresAt)
}

func (p *Provider) hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), p.cost())
	if err != nil {
		return "", fmt.Errorf("hashing password: %w", err)
	}
	return string(hash), nil
}

func (p *Provider) cost() int {
	if p.Cost == 0 {
		return bcrypt.DefaultCost
	}
	return p.Cost
}

func (p *Provider) ttl() time.Duration {
	if p.TokenTTL == 0 {
		return DefaultTokenTTL
	}
	return p.TokenTTL
}

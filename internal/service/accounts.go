package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"unicode"

	"github.com/erazemk/najdeno/internal/apperr"
	"github.com/erazemk/najdeno/internal/model"
	"github.com/erazemk/najdeno/internal/policy"
)

// IdentityProvider authenticates credentials and manages sessions. It never
// decides roles.
type IdentityProvider interface {
	Register(ctx context.Context, email, password string) (string, error)
	Forget(ctx context.Context, subject string) error
	Authenticate(ctx context.Context, email, password string) (string, error)
	Subject(ctx context.Context, token string) (string, error)
	SignOut(ctx context.Context, token string) error
}

// AccountRepository persists accounts.
type AccountRepository interface {
	Create(ctx context.Context, id, email, displayName string, role model.Role) (*model.Account, error)
	Get(ctx context.Context, id string) (*model.Account, error)
}

// AccountService registers accounts and resolves session tokens to actors.
type AccountService struct {
	Identity IdentityProvider
	Accounts AccountRepository

	// Domain is the institutional email suffix, e.g. "@sahyadri.edu.in".
	Domain string
}

// Register creates a user account. Emails outside Domain are rejected
// before the identity provider is contacted; the provider's own errors
// (weak password, taken email) are returned unchanged.
func (s *AccountService) Register(ctx context.Context, email, password, displayName string) (*model.Account, error) {
	if err := policy.CheckDomain(email, s.Domain); err != nil {
		return nil, err
	}
	email = policy.NormalizeEmail(email)

	displayName = strings.TrimSpace(displayName)
	if displayName == "" {
		displayName = nameFromEmail(email)
	}

	subject, err := s.Identity.Register(ctx, email, password)
	if err != nil {
		return nil, err
	}

	account, err := s.Accounts.Create(ctx, subject, email, displayName, model.RoleUser)
	if err != nil {
		if ferr := s.Identity.Forget(ctx, subject); ferr != nil {
			slog.Error("failed to forget orphaned credentials", "subject", subject, "error", ferr)
		}
		return nil, err
	}

	slog.Info("account registered", "account", account.ID, "email", account.Email)
	return account, nil
}

// Authenticate returns a session token for valid credentials.
func (s *AccountService) Authenticate(ctx context.Context, email, password string) (string, error) {
	if email == "" || password == "" {
		return "", apperr.Invalid("credentials", "email and password required")
	}
	return s.Identity.Authenticate(ctx, policy.NormalizeEmail(email), password)
}

// SignOut ends the session behind token.
func (s *AccountService) SignOut(ctx context.Context, token string) error {
	return s.Identity.SignOut(ctx, token)
}

// Actor resolves a session token to its account. An empty token is the
// anonymous actor (nil, nil). The role always comes from the account store.
func (s *AccountService) Actor(ctx context.Context, token string) (*model.Account, error) {
	if token == "" {
		return nil, nil
	}

	subject, err := s.Identity.Subject(ctx, token)
	if err != nil {
		return nil, err
	}

	account, err := s.Accounts.Get(ctx, subject)
	if errors.Is(err, apperr.ErrNotFound) {
		return nil, fmt.Errorf("no account for session: %w", apperr.ErrAuth)
	}
	if err != nil {
		return nil, err
	}
	return account, nil
}

// nameFromEmail turns "ana.novak@uni.edu" into "Ana Novak".
func nameFromEmail(email string) string {
	local, _, _ := strings.Cut(email, "@")
	parts := strings.FieldsFunc(local, func(r rune) bool {
		return r == '.' || r == '_' || r == '-' || r == '+'
	})
	if len(parts) == 0 {
		return "User"
	}
	for i, p := range parts {
		runes := []rune(p)
		runes[0] = unicode.ToUpper(runes[0])
		parts[i] = string(runes)
	}
	return strings.Join(parts, " ")
}

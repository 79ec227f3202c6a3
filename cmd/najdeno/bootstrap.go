package main

import (
	"context"
	"crypto/rand"
	"fmt"
	"log/slog"
	"math/big"

	"github.com/erazemk/najdeno/internal/model"
	"github.com/erazemk/najdeno/internal/policy"
)

type credentialRegistrar interface {
	Register(ctx context.Context, email, password string) (string, error)
	Forget(ctx context.Context, subject string) error
}

type adminAccounts interface {
	Create(ctx context.Context, id, email, displayName string, role model.Role) (*model.Account, error)
	CountAdmins(ctx context.Context) (int, error)
}

// bootstrapAdmin creates the first admin account when none exists and
// returns its generated password. Registration never grants admin, so this
// is the only way to get one.
func bootstrapAdmin(ctx context.Context, ids credentialRegistrar, accounts adminAccounts, email string) (bool, string, error) {
	n, err := accounts.CountAdmins(ctx)
	if err != nil {
		return false, "", err
	}
	if n > 0 {
		return false, "", nil
	}

	password, err := generatePassword(16)
	if err != nil {
		return false, "", fmt.Errorf("generating password: %w", err)
	}

	email = policy.NormalizeEmail(email)
	subject, err := ids.Register(ctx, email, password)
	if err != nil {
		return false, "", fmt.Errorf("registering admin credentials: %w", err)
	}

	if _, err := accounts.Create(ctx, subject, email, "Administrator", model.RoleAdmin); err != nil {
		if ferr := ids.Forget(ctx, subject); ferr != nil {
			slog.Error("failed to forget admin credentials", "subject", subject, "error", ferr)
		}
		return false, "", fmt.Errorf("creating admin account: %w", err)
	}

	slog.Info("admin account created", "email", email)
	return true, password, nil
}

// printAdminCredentials prints the bootstrap admin's login to stdout.
func printAdminCredentials(email, password string) {
	fmt.Println("Admin account created:")
	fmt.Printf("  Email:    %s\n", email)
	fmt.Printf("  Password: %s\n", password)
	fmt.Println()
	fmt.Println("Save this password, it cannot be recovered.")
	fmt.Println()
}

// generatePassword creates a random password of the given length.
func generatePassword(length int) (string, error) {
	const charset = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789!@#$%&*"
	result := make([]byte, length)
	for i := range result {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(charset))))
		if err != nil {
			return "", err
		}
		result[i] = charset[n.Int64()]
	}
	return string(result), nil
}

package apperr

import (
	"context"
	"errors"
	"fmt"
	"testing"
)

func TestErrorKinds(t *testing.T) {
	tests := []struct {
		name string
		err  error
		kind error
	}{
		{"validation", Invalid("domain", "email must end with %s", "@uni.edu"), ErrValidation},
		{"transition", &TransitionError{From: "found", To: "lost"}, ErrTransition},
		{"storage", &StorageError{Op: "remove", Locator: "bogus"}, ErrStorage},
		{"wrapped", fmt.Errorf("creating item: %w", Invalid("title", "title required")), ErrValidation},
	}

	for _, tt := range tests {
		if !errors.Is(tt.err, tt.kind) {
			t.Errorf("%s: errors.Is(%v, %v) = false", tt.name, tt.err, tt.kind)
		}
	}
}

func TestStorageErrorKeepsCause(t *testing.T) {
	err := &StorageError{Op: "upload", Err: context.Canceled}
	if !errors.Is(err, context.Canceled) {
		t.Error("expected cause to be reachable")
	}
	if !errors.Is(err, ErrStorage) {
		t.Error("expected ErrStorage")
	}
	if got := err.Error(); got != "media upload: context canceled" {
		t.Errorf("unexpected message %q", got)
	}
}

func TestValidationErrorField(t *testing.T) {
	var ve *ValidationError
	err := fmt.Errorf("register: %w", Invalid("domain", "wrong domain"))
	if !errors.As(err, &ve) {
		t.Fatal("expected ValidationError")
	}
	if ve.Field != "domain" {
		t.Errorf("expected field 'domain', got %q", ve.Field)
	}
	if (&ValidationError{Field: "date"}).Error() != "invalid date" {
		t.Error("expected default message")
	}
}

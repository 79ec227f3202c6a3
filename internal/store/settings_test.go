package store

import (
	"context"
	"errors"
	"testing"

	"github.com/erazemk/najdeno/internal/db"
)

func TestSigningKeyGeneratesAndPersists(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	key1, err := SigningKey(ctx, database)
	if err != nil {
		t.Fatal(err)
	}
	if len(key1) != 64 { // 32 bytes = 64 hex chars
		t.Fatalf("expected 64 hex chars, got %d", len(key1))
	}

	key2, err := SigningKey(ctx, database)
	if err != nil {
		t.Fatal(err)
	}
	if key1 != key2 {
		t.Fatalf("expected same key, got %q and %q", key1, key2)
	}
}

func TestGetOrCreateSettingGenerateError(t *testing.T) {
	database := db.NewTestDB(t)
	boom := errors.New("boom")

	_, err := GetOrCreateSetting(context.Background(), database, "k", func() (string, error) {
		return "", boom
	})
	if !errors.Is(err, boom) {
		t.Errorf("expected generate error, got %v", err)
	}
}

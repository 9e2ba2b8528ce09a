package store

import (
	"context"
	"testing"

	"github.com/erazemk/sredstva/internal/db"
)

func TestGetSigningKey_GeneratesAndPersists(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	key1, err := GetSigningKey(ctx, database)
	if err != nil {
		t.Fatal(err)
	}
	if len(key1) != 64 { // 32 bytes = 64 hex chars
		t.Fatalf("expected 64 hex chars, got %d", len(key1))
	}

	key2, err := GetSigningKey(ctx, database)
	if err != nil {
		t.Fatal(err)
	}
	if key1 != key2 {
		t.Fatalf("expected same key, got %q and %q", key1, key2)
	}
}

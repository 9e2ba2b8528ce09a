package auth

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/erazemk/sredstva/internal/db"
)

func testRevoker(t *testing.T, r Revoker) {
	t.Helper()
	ctx := context.Background()
	jti := uuid.NewString()

	revoked, err := r.IsRevoked(ctx, jti)
	if err != nil {
		t.Fatalf("IsRevoked: %v", err)
	}
	if revoked {
		t.Fatal("expected fresh token not to be revoked")
	}

	if err := r.Revoke(ctx, jti, time.Now().Add(time.Hour)); err != nil {
		t.Fatalf("Revoke: %v", err)
	}

	revoked, err = r.IsRevoked(ctx, jti)
	if err != nil {
		t.Fatalf("IsRevoked: %v", err)
	}
	if !revoked {
		t.Error("expected token to be revoked")
	}
}

func TestSQLRevoker(t *testing.T) {
	testRevoker(t, &SQLRevoker{DB: db.NewTestDB(t)})
}

func TestRedisRevoker(t *testing.T) {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		t.Skip("REDIS_ADDR not set")
	}

	client := redis.NewClient(&redis.Options{Addr: addr, Password: os.Getenv("REDIS_PASSWORD")})
	t.Cleanup(func() { client.Close() })
	if err := client.Ping(context.Background()).Err(); err != nil {
		t.Skipf("redis unavailable: %v", err)
	}

	testRevoker(t, &RedisRevoker{Client: client})
}

func TestRedisRevokerSkipsExpired(t *testing.T) {
	// No client is needed: expired tokens never reach Redis.
	r := &RedisRevoker{}
	if err := r.Revoke(context.Background(), "old", time.Now().Add(-time.Minute)); err != nil {
		t.Errorf("expected nil for expired token, got %v", err)
	}
}

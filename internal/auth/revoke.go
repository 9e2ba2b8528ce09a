package auth

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/erazemk/sredstva/internal/store"
)

// Revoker tracks logged-out tokens until they expire.
type Revoker interface {
	Revoke(ctx context.Context, jti string, expiresAt time.Time) error
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

// SQLRevoker keeps revocations in the revoked_tokens table.
type SQLRevoker struct {
	DB *sql.DB
}

// Revoke implements Revoker.
func (r *SQLRevoker) Revoke(ctx context.Context, jti string, expiresAt time.Time) error {
	return store.RevokeToken(ctx, r.DB, jti, expiresAt)
}

// IsRevoked implements Revoker.
func (r *SQLRevoker) IsRevoked(ctx context.Context, jti string) (bool, error) {
	return store.IsTokenRevoked(ctx, r.DB, jti)
}

// RedisKeyPrefix namespaces revocation keys.
const RedisKeyPrefix = "sredstva:revoked:"

// RedisRevoker keeps revocations in Redis with a TTL matching the token's
// remaining lifetime.
type RedisRevoker struct {
	Client *redis.Client
}

// Revoke implements Revoker. Tokens that have already expired are not stored.
func (r *RedisRevoker) Revoke(ctx context.Context, jti string, expiresAt time.Time) error {
	ttl := time.Until(expiresAt)
	if ttl <= 0 {
		return nil
	}
	if err := r.Client.Set(ctx, RedisKeyPrefix+jti, "1", ttl).Err(); err != nil {
		return fmt.Errorf("revoking token: %w", err)
	}
	return nil
}

// IsRevoked implements Revoker.
func (r *RedisRevoker) IsRevoked(ctx context.Context, jti string) (bool, error) {
	err := r.Client.Get(ctx, RedisKeyPrefix+jti).Err()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("checking token revocation: %w", err)
	}
	return true, nil
}

package store

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
)

const signingKeySetting = "signing_key"

// GetSigningKey returns the token signing key stored in the database,
// generating and storing one on first use. INSERT OR IGNORE followed by a
// re-SELECT keeps concurrent first starts consistent.
func GetSigningKey(ctx context.Context, db DBTX) (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generating signing key: %w", err)
	}

	_, err := db.ExecContext(ctx,
		`INSERT OR IGNORE INTO settings (key, value) VALUES (?, ?)`,
		signingKeySetting, hex.EncodeToString(buf),
	)
	if err != nil {
		return "", fmt.Errorf("storing signing key: %w", err)
	}

	var key string
	err = db.QueryRowContext(ctx,
		`SELECT value FROM settings WHERE key = ?`, signingKeySetting,
	).Scan(&key)
	if err != nil {
		return "", fmt.Errorf("querying signing key: %w", err)
	}

	return key, nil
}

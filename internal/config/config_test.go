package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// clearEnv blanks every variable Load reads so the host environment does not
// leak into tests.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"SECRET_KEY", "DATABASE_URL", "CSRF_ENABLED", "ADDR", "LOG_PATH",
		"REDIS_ADDR", "REDIS_PASSWORD", "ADMIN_EMAIL",
	} {
		t.Setenv(key, "")
	}
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load("", "")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	assert.True(t, cfg.CSRFEnabled)
	assert.Equal(t, "sredstva.sqlite3", cfg.DatabaseURL)
	assert.Equal(t, ":8080", cfg.Addr)
}

func TestLoadPrecedence(t *testing.T) {
	clearEnv(t)

	yamlPath := writeFile(t, "sredstva.yaml", `
database_url: sqlite:///var/lib/sredstva.db
addr: ":9000"
csrf_enabled: false
admin_email: yaml@example.com
`)
	envPath := writeFile(t, ".env", "ADDR=:9100\nREDIS_ADDR=localhost:6379\nADMIN_EMAIL=dotenv@example.com\n")
	t.Setenv("ADMIN_EMAIL", "env@example.com")

	cfg, err := Load(yamlPath, envPath)
	require.NoError(t, err)
	assert.Equal(t, "sqlite:///var/lib/sredstva.db", cfg.DatabaseURL, "from yaml")
	assert.False(t, cfg.CSRFEnabled, "from yaml")
	assert.Equal(t, ":9100", cfg.Addr, "dotenv overrides yaml")
	assert.Equal(t, "localhost:6379", cfg.RedisAddr, "from dotenv")
	assert.Equal(t, "env@example.com", cfg.AdminEmail, "environment wins")
}

func TestLoadMissingEnvFile(t *testing.T) {
	clearEnv(t)

	_, err := Load("", filepath.Join(t.TempDir(), "missing.env"))
	assert.NoError(t, err)
}

func TestLoadMissingConfigFile(t *testing.T) {
	clearEnv(t)

	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"), "")
	assert.Error(t, err)
}

func TestLoadUnknownYAMLField(t *testing.T) {
	clearEnv(t)

	path := writeFile(t, "bad.yaml", "datbase_url: typo.db\n")
	_, err := Load(path, "")
	assert.Error(t, err)
}

func TestLoadCSRFEnabled(t *testing.T) {
	clearEnv(t)

	t.Setenv("CSRF_ENABLED", "false")
	cfg, err := Load("", "")
	require.NoError(t, err)
	assert.False(t, cfg.CSRFEnabled)

	t.Setenv("CSRF_ENABLED", "maybe")
	_, err = Load("", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "CSRF_ENABLED")
}

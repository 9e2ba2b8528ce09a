package main

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erazemk/sredstva/internal/config"
	"github.com/erazemk/sredstva/internal/db"
	"github.com/erazemk/sredstva/internal/model"
	"github.com/erazemk/sredstva/internal/store"
)

func TestGeneratePassword(t *testing.T) {
	a, err := generatePassword(16)
	require.NoError(t, err)
	b, err := generatePassword(16)
	require.NoError(t, err)

	assert.Len(t, a, 16)
	assert.NotEqual(t, a, b)
	assert.NoError(t, model.ValidatePassword(a))

	_, err = generatePassword(4)
	assert.Error(t, err)
}

func TestLevelRouter(t *testing.T) {
	var stdout, stderr bytes.Buffer
	logger := slog.New(newLevelRouter(&stdout, &stderr)).With("component", "test")

	logger.Debug("hidden")
	logger.Info("started")
	logger.Warn("slow")
	logger.Error("failed")

	assert.NotContains(t, stdout.String(), "hidden")
	assert.Contains(t, stdout.String(), "started")
	assert.Contains(t, stdout.String(), "slow")
	assert.NotContains(t, stdout.String(), "failed")
	assert.Contains(t, stderr.String(), "failed")
	assert.Contains(t, stderr.String(), "component=test")
}

func runInit(t *testing.T, dbPath string) string {
	t.Helper()

	buf := &bytes.Buffer{}
	cmd := NewInitCommand(&RootOptions{cfg: config.Default()})
	cmd.SetOut(buf)
	cmd.SetArgs([]string{"--db", dbPath, "--email", "Root@Example.com"})
	require.NoError(t, cmd.Execute())
	return buf.String()
}

func TestInitCommand(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "assets.sqlite3")

	output := runInit(t, dbPath)
	assert.Contains(t, output, "Admin account created")
	assert.Contains(t, output, "Root@Example.com")

	database, err := db.Open(dbPath)
	require.NoError(t, err)
	defer database.Close()

	user, err := store.GetUserByEmail(context.Background(), database, "root@example.com")
	require.NoError(t, err)
	require.NotNil(t, user)
	assert.Equal(t, model.RoleAdmin, user.Role)
	assert.True(t, user.Active)
}

func TestInitCommandRefusesExistingDatabase(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "assets.sqlite3")
	runInit(t, dbPath)

	cmd := NewInitCommand(&RootOptions{cfg: config.Default()})
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"--db", dbPath})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")
}

func TestInitDatabaseRejectsBadEmail(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "assets.sqlite3")

	_, _, err := initDatabase(context.Background(), dbPath, "not-an-email")
	require.Error(t, err)

	_, statErr := os.Stat(dbPath)
	assert.True(t, os.IsNotExist(statErr))
}

func TestExportCommandCSV(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "assets.sqlite3")
	runInit(t, dbPath)

	database, err := db.Open(dbPath)
	require.NoError(t, err)
	ctx := context.Background()
	cat, err := store.CreateCategory(ctx, database, "Laptops")
	require.NoError(t, err)
	loc, err := store.CreateLocation(ctx, database, "Bldg A", "101")
	require.NoError(t, err)
	_, err = store.CreateAsset(ctx, database, store.AssetFields{
		Tag:        "IT-0001",
		Name:       "ThinkPad X1",
		CategoryID: cat.ID,
		LocationID: loc.ID,
		Status:     model.AssetStatusNew,
	}, nil)
	require.NoError(t, err)
	database.Close()

	outFile := filepath.Join(dir, "out.csv")
	cmd := NewExportCommand(&RootOptions{cfg: config.Default()})
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"csv", "--db", dbPath, "--out", outFile})
	require.NoError(t, cmd.Execute())

	data, err := os.ReadFile(outFile)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("\xef\xbb\xbf")))
	assert.Contains(t, string(data), "IT-0001")
	assert.Contains(t, string(data), "ThinkPad X1")
}

func TestExportCommandPDFToStdout(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "assets.sqlite3")
	runInit(t, dbPath)

	buf := &bytes.Buffer{}
	cmd := NewExportCommand(&RootOptions{cfg: config.Default()})
	cmd.SetOut(buf)
	cmd.SetArgs([]string{"pdf", "--db", dbPath, "--out", "-"})
	require.NoError(t, cmd.Execute())

	assert.True(t, strings.HasPrefix(buf.String(), "%PDF-"))
}

func TestExportCommandUnknownFormat(t *testing.T) {
	cmd := NewExportCommand(&RootOptions{cfg: config.Default()})
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"xlsx"})

	assert.Error(t, cmd.Execute())
}

func TestRootCommandUsesConfigFile(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "from-config.sqlite3")
	cfgPath := filepath.Join(dir, "sredstva.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("database_url: sqlite://"+dbPath+"\nadmin_email: ops@example.com\n"), 0o600))

	buf := &bytes.Buffer{}
	cmd := NewRootCommand()
	cmd.SetOut(buf)
	cmd.SetArgs([]string{"--config", cfgPath, "--env-file", "", "init"})
	require.NoError(t, cmd.Execute())

	assert.Contains(t, buf.String(), "ops@example.com")
	_, err := os.Stat(dbPath)
	assert.NoError(t, err)
}

func TestVersionCommand(t *testing.T) {
	buf := &bytes.Buffer{}
	cmd := NewRootCommand()
	cmd.SetOut(buf)
	cmd.SetArgs([]string{"version"})
	require.NoError(t, cmd.Execute())

	assert.Equal(t, "sredstva dev\n", buf.String())
}

func TestRootOptionsCloseAfterFailedCommand(t *testing.T) {
	dir := t.TempDir()
	logPath := filepath.Join(dir, "sredstva.log")
	dbPath := filepath.Join(dir, "assets.sqlite3")
	runInit(t, dbPath)
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	opts := &RootOptions{}
	cmd := newRootCommand(opts)
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"--env-file", "", "--log", logPath, "init", "--db", dbPath})

	require.Error(t, cmd.Execute())
	require.NotNil(t, opts.closeLog, "log file stays open until Close")

	opts.Close()
	assert.Nil(t, opts.closeLog)
	opts.Close()

	_, err := os.Stat(logPath)
	assert.NoError(t, err)
}

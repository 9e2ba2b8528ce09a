package db

import (
	"database/sql"
	"fmt"
	"net/url"
	"strings"

	_ "modernc.org/sqlite"
)

// pragmas are applied by the driver on every new connection, so pooled
// connections all enforce foreign keys and share the busy timeout.
var pragmas = []string{
	"foreign_keys(1)",
	"busy_timeout(5000)",
	"journal_mode(WAL)",
	"synchronous(NORMAL)",
}

// Open opens a SQLite database connection. The argument may be a bare path,
// "sqlite://path", "sqlite:path" or a "file:" DSN.
func Open(databaseURL string) (*sql.DB, error) {
	dsn, err := DSN(databaseURL)
	if err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("connecting to database: %w", err)
	}

	return db, nil
}

// splitURL strips a recognized scheme from a database URL and separates the
// file path from its query options.
func splitURL(databaseURL string) (path, query string, err error) {
	path = strings.TrimSpace(databaseURL)
	switch {
	case path == "":
		return "", "", fmt.Errorf("database url is empty")
	case strings.HasPrefix(path, "sqlite://"):
		path = strings.TrimPrefix(path, "sqlite://")
	case strings.HasPrefix(path, "sqlite:"):
		path = strings.TrimPrefix(path, "sqlite:")
	case strings.HasPrefix(path, "file:"):
		path = strings.TrimPrefix(path, "file:")
	}

	if i := strings.IndexByte(path, '?'); i >= 0 {
		path, query = path[:i], path[i+1:]
	}
	if path == "" {
		return "", "", fmt.Errorf("database url %q has no path", databaseURL)
	}
	return path, query, nil
}

// FilePath returns the database file named by a database URL.
func FilePath(databaseURL string) (string, error) {
	path, _, err := splitURL(databaseURL)
	return path, err
}

// DSN converts a database URL into a modernc.org/sqlite DSN. Transactions are
// started with BEGIN IMMEDIATE so that read-check-write sequences hold the
// write lock from the first statement.
func DSN(databaseURL string) (string, error) {
	path, query, err := splitURL(databaseURL)
	if err != nil {
		return "", err
	}

	params, err := url.ParseQuery(query)
	if err != nil {
		return "", fmt.Errorf("parsing database url options: %w", err)
	}
	for _, p := range pragmas {
		params.Add("_pragma", p)
	}
	if params.Get("_txlock") == "" {
		params.Set("_txlock", "immediate")
	}
	if params.Get("_time_format") == "" {
		params.Set("_time_format", "sqlite")
	}

	return "file:" + path + "?" + params.Encode(), nil
}

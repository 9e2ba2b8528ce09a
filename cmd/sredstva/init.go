package main

import (
	"context"
	"crypto/rand"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"math/big"
	"os"

	"github.com/spf13/cobra"

	"github.com/erazemk/sredstva/internal/db"
	"github.com/erazemk/sredstva/internal/model"
	"github.com/erazemk/sredstva/internal/service"
	"github.com/erazemk/sredstva/internal/store"
)

// NewInitCommand creates a fresh database with one admin account.
func NewInitCommand(root *RootOptions) *cobra.Command {
	var dbURL, email string

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create the database and the first admin account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if dbURL == "" {
				dbURL = root.cfg.DatabaseURL
			}
			if email == "" {
				email = root.cfg.AdminEmail
			}

			path, err := db.FilePath(dbURL)
			if err != nil {
				return err
			}
			if _, err := os.Stat(path); err == nil {
				return fmt.Errorf("database %s already exists", path)
			}

			database, password, err := initDatabase(cmd.Context(), dbURL, email)
			if err != nil {
				return err
			}
			database.Close()

			printInitResult(cmd.OutOrStdout(), path, email, password)
			return nil
		},
	}

	cmd.Flags().StringVarP(&dbURL, "db", "d", "", "database url (default: from config)")
	cmd.Flags().StringVarP(&email, "email", "e", "", "admin email (default: from config)")

	return cmd
}

// initDatabase creates a new database, ensures the schema and creates the
// admin user. On failure the partially created file is removed.
func initDatabase(ctx context.Context, databaseURL, adminEmail string) (*sql.DB, string, error) {
	if err := model.ValidateEmail(model.NormalizeEmail(adminEmail)); err != nil {
		return nil, "", fmt.Errorf("admin email: %w", err)
	}
	path, err := db.FilePath(databaseURL)
	if err != nil {
		return nil, "", err
	}

	database, err := db.Open(databaseURL)
	if err != nil {
		return nil, "", fmt.Errorf("opening database: %w", err)
	}

	fail := func(err error) (*sql.DB, string, error) {
		database.Close()
		os.Remove(path)
		return nil, "", err
	}

	if err := db.EnsureSchema(database); err != nil {
		return fail(fmt.Errorf("ensuring schema: %w", err))
	}

	password, err := generatePassword(16)
	if err != nil {
		return fail(fmt.Errorf("generating password: %w", err))
	}

	hash, err := service.HashPassword(password)
	if err != nil {
		return fail(err)
	}

	if _, err := store.CreateUser(ctx, database, "Administrator", model.NormalizeEmail(adminEmail), hash, model.RoleAdmin); err != nil {
		return fail(fmt.Errorf("creating admin user: %w", err))
	}

	return database, password, nil
}

// printInitResult prints the database initialization result.
func printInitResult(w io.Writer, dbPath, email, password string) {
	fmt.Fprintf(w, "Database created: %s\n", dbPath)
	fmt.Fprintln(w, "Schema initialized.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Admin account created:")
	fmt.Fprintf(w, "  Email:    %s\n", email)
	fmt.Fprintf(w, "  Password: %s\n", password)
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Save this password, it cannot be recovered.")
	fmt.Fprintln(w, "The admin can change it after logging in.")
}

// generatePassword creates a random password of the given length.
func generatePassword(length int) (string, error) {
	if length < model.MinPasswordLength {
		return "", errors.New("password length below minimum")
	}
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

package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"github.com/erazemk/sredstva/internal/api"
	"github.com/erazemk/sredstva/internal/auth"
	"github.com/erazemk/sredstva/internal/config"
	"github.com/erazemk/sredstva/internal/db"
	"github.com/erazemk/sredstva/internal/store"
)

// NewServeCommand runs the HTTP API.
func NewServeCommand(root *RootOptions) *cobra.Command {
	var addr, dbURL string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := root.cfg
			if addr != "" {
				cfg.Addr = addr
			}
			if dbURL != "" {
				cfg.DatabaseURL = dbURL
			}
			return serve(cmd, cfg)
		},
	}

	cmd.Flags().StringVarP(&addr, "addr", "a", "", "listen address (default: from config)")
	cmd.Flags().StringVarP(&dbURL, "db", "d", "", "database url (default: from config)")

	return cmd
}

func serve(cmd *cobra.Command, cfg config.Config) error {
	ctx := cmd.Context()
	addr, databaseURL := cfg.Addr, cfg.DatabaseURL

	path, err := db.FilePath(databaseURL)
	if err != nil {
		return err
	}

	// Auto-init on first run.
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		database, password, err := initDatabase(ctx, databaseURL, cfg.AdminEmail)
		if err != nil {
			slog.Error("failed to initialize database", "error", err)
			return err
		}
		database.Close()

		printInitResult(cmd.OutOrStdout(), path, cfg.AdminEmail, password)
		fmt.Fprintln(cmd.OutOrStdout())
	}

	database, err := db.Open(databaseURL)
	if err != nil {
		slog.Error("failed to open database", "error", err)
		return err
	}
	defer database.Close()

	if err := db.EnsureSchema(database); err != nil {
		slog.Error("failed to ensure database schema", "error", err)
		return err
	}
	slog.Info("database ready", "path", path)

	if n, err := store.PurgeExpiredTokens(ctx, database, time.Now()); err != nil {
		slog.Warn("failed to purge expired tokens", "error", err)
	} else if n > 0 {
		slog.Info("purged expired revoked tokens", "count", n)
	}

	secret := cfg.SecretKey
	if secret == "" {
		secret, err = store.GetSigningKey(ctx, database)
		if err != nil {
			slog.Error("failed to get signing key", "error", err)
			return err
		}
	}

	var revoker auth.Revoker = &auth.SQLRevoker{DB: database}
	if cfg.RedisAddr != "" {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
		})
		defer client.Close()

		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		err := client.Ping(pingCtx).Err()
		cancel()
		if err != nil {
			slog.Error("failed to connect to redis", "addr", cfg.RedisAddr, "error", err)
			return err
		}
		revoker = &auth.RedisRevoker{Client: client}
		slog.Info("token revocation backed by redis", "addr", cfg.RedisAddr)
	}

	router := api.NewRouter(database, api.Options{
		JWTSecret:   secret,
		Revoker:     revoker,
		CSRFEnabled: cfg.CSRFEnabled,
	})

	server := &http.Server{
		Addr:              addr,
		Handler:           api.LoggingMiddleware(router),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	// Graceful shutdown on SIGINT/SIGTERM.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	go func() {
		sig := <-quit
		slog.Info("shutdown signal received", "signal", sig.String())

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("server forced to shutdown", "error", err)
		}
	}()

	slog.Info("server started", "addr", addr, "csrf", cfg.CSRFEnabled)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("server error", "error", err)
		return err
	}

	slog.Info("server stopped, closing database")
	return nil
}

package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/scancart/scancart/internal/database"
	"github.com/scancart/scancart/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API server",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := database.Open(cfg.DBPath)
		if err != nil {
			return fmt.Errorf("open database: %w", err)
		}
		defer db.Close()

		srv, err := server.New(cmd.Context(), db, server.Config{
			BackupDir:        cfg.BackupDir,
			BackupPassphrase: cfg.BackupPassphrase,
			Remote:           cfg.Remote,
			ProductBaseURL:   cfg.ProductBaseURL,
			GeminiAPIKey:     cfg.GeminiAPIKey,
		}, logger)
		if err != nil {
			return fmt.Errorf("build server: %w", err)
		}
		defer srv.Close()

		srv.Initialize()

		httpServer := &http.Server{
			Addr:         ":" + cfg.Port,
			Handler:      srv.Router(),
			ReadTimeout:  5 * time.Second,
			WriteTimeout: 30 * time.Second,
			IdleTimeout:  120 * time.Second,
		}

		errCh := make(chan error, 1)
		go func() {
			logger.Info("server listening", "port", cfg.Port, "db", cfg.DBPath)
			if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				errCh <- err
			}
		}()

		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

		select {
		case err := <-errCh:
			return fmt.Errorf("server error: %w", err)
		case <-quit:
		}

		logger.Info("shutting down")
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(ctx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		return nil
	},
}

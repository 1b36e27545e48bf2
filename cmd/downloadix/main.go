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

	"github.com/spf13/cobra"

	"github.com/1nis/Downloadix/internal/cleanup"
	"github.com/1nis/Downloadix/internal/config"
	"github.com/1nis/Downloadix/internal/download"
	"github.com/1nis/Downloadix/internal/server"
)

const shutdownTimeout = 30 * time.Second

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "downloadix",
		Short:         "Media download service for YouTube, X/Twitter, TikTok, and Instagram",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			configFile, _ := cmd.Flags().GetString("config")
			listenAddr, _ := cmd.Flags().GetString("listen")
			return serve(cmd.Context(), configFile, listenAddr)
		},
	}

	root.Flags().StringP("config", "c", config.DefaultSettingsFile, "Path to the settings file")
	root.Flags().StringP("listen", "l", "", "Listen address (overrides the settings file)")
	return root
}

func serve(ctx context.Context, configFile, listenAddr string) error {
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	settings, err := config.NewSettings(configFile)
	if err != nil {
		return fmt.Errorf("load settings: %w", err)
	}
	if listenAddr == "" {
		listenAddr = settings.ListenAddr()
	}

	srv := server.New(settings, download.NewYTDLPBackend(), logger)

	janitor := &cleanup.Janitor{
		Dir:    settings.DownloadFolder,
		Logger: logger,
	}
	go janitor.Run(ctx)

	httpServer := &http.Server{
		Addr:         listenAddr,
		Handler:      srv.Routes(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 0, // progress streams stay open indefinitely
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server starting", "addr", listenAddr, "downloads", settings.DownloadFolder())
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server: %w", err)
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	logger.Info("server exited")
	return nil
}

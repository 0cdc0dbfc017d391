package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/lexicard-dev/lexicard/internal/mockserver"
)

func serveMockCmd() *cobra.Command {
	var (
		addr    string
		gateway string
		verbose bool
	)

	cmd := &cobra.Command{
		Use:   "serve-mock",
		Short: "Run an in-memory login service and gateway",
		Long: `Serve-mock runs a single HTTP server exposing both the login
endpoint (POST /login) and the gateway (GET /ws). It keeps all rooms
and games in memory, which is enough to develop and test clients
against.

Examples:
  lexicard serve-mock
  lexicard serve-mock --addr=:18080`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServeMock(addr, gateway, verbose)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":18080", "Address to listen on")
	cmd.Flags().StringVar(&gateway, "gateway", "", "Gateway URL to advertise in login responses")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Debug logging")

	return cmd
}

func runServeMock(addr, gateway string, verbose bool) error {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	srv := &http.Server{
		Addr:    addr,
		Handler: mockserver.New(logger, gateway).Router(),
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("mock server listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

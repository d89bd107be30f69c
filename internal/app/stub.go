package app

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

	"github.com/aussiebroadwan/kyc/internal/stubapi"
	"github.com/aussiebroadwan/kyc/pkg/slogx"
)

const shutdownGracePeriod = 10 * time.Second

// StubServer runs the development upstream until interrupted.
type StubServer struct {
	cfg    Config
	logger *slog.Logger
	server *http.Server
}

func NewStubServer(cfg Config) (*StubServer, error) {
	logger := slogx.New(slogx.Config{
		Service: "kyc-stub",
		Version: BuildVersion,
		Env:     cfg.Env,
		Level:   cfg.LogLevel,
		Format:  cfg.LogFormat,
	})

	api, err := stubapi.New(stubapi.Options{
		Version:       BuildVersion,
		Logger:        logger,
		KeyPassphrase: cfg.StubKeyPassphrase,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize stub api: %w", err)
	}

	return &StubServer{
		cfg:    cfg,
		logger: logger,
		server: &http.Server{
			Addr:              cfg.StubAddr,
			Handler:           api,
			ReadHeaderTimeout: 3 * time.Second,
		},
	}, nil
}

// Run blocks until ctx is done, a shutdown signal arrives or the server fails.
func (s *StubServer) Run(ctx context.Context) error {
	s.logger.Info("stub api starting", "addr", s.cfg.StubAddr, "version", BuildVersion)

	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- s.server.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(shutdown)

	select {
	case err := <-serverErrors:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case sig := <-shutdown:
		s.logger.Info("shutdown signal received", "signal", sig)
	case <-ctx.Done():
	}

	if err := s.Shutdown(); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	return nil
}

// Shutdown gives outstanding requests a grace period to finish.
func (s *StubServer) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownGracePeriod)
	defer cancel()

	if err := s.server.Shutdown(ctx); err != nil {
		s.logger.Error("graceful server shutdown failed", "error", err)
		if err := s.server.Close(); err != nil {
			s.logger.Error("error closing server", "error", err)
		}
		return err
	}

	s.logger.Info("stub api stopped")
	return nil
}

package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
)

const defaultShutdownTimeout = 10 // seconds

type serverConfig struct {
	shutdownTimeout time.Duration
	logger          zerolog.Logger
	stop            <-chan struct{}
}

type Option func(*serverConfig)

func WithShutdownTimeout(timeout time.Duration) Option {
	return func(c *serverConfig) {
		c.shutdownTimeout = timeout
	}
}

func WithLogger(logger zerolog.Logger) Option {
	return func(c *serverConfig) {
		c.logger = logger
	}
}

// WithStopChannel позволяет остановить сервер закрытием канала,
// не дожидаясь сигнала от операционной системы
func WithStopChannel(stop <-chan struct{}) Option {
	return func(c *serverConfig) {
		c.stop = stop
	}
}

// Start запускает сервер и блокируется до получения SIGINT/SIGTERM,
// после чего пытается завершить сервер, дав активным запросам время на завершение
func Start(server *http.Server, opts ...Option) error {
	cfg := serverConfig{
		shutdownTimeout: time.Second * defaultShutdownTimeout,
		logger:          zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	shutdown := make(chan os.Signal, 1)
	failure := make(chan error, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(shutdown)

	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			failure <- err
		}
	}()
	cfg.logger.Info().
		Str("addr", server.Addr).
		Dur("shutdown_timeout", cfg.shutdownTimeout).
		Msg("Server started")

	select {
	case err := <-failure:
		return fmt.Errorf("failed to listen and serve due to: %w", err)
	case <-shutdown:
	case <-cfg.stop:
	}
	return stopGracefully(server, &cfg)
}

func stopGracefully(server *http.Server, cfg *serverConfig) error {
	ctx, cancel := context.WithTimeout(context.Background(), cfg.shutdownTimeout)
	defer cancel()

	cfg.logger.Info().Msg("Stopping the server...")
	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed due to: %w", err)
	}
	cfg.logger.Info().Msg("Stopped the server successfully")
	return nil
}

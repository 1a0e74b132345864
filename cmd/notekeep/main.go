package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/tobibamidele/notekeep"
	"github.com/tobibamidele/notekeep/config"
	"github.com/tobibamidele/notekeep/logging"
	"go.uber.org/zap"
)

func main() {
	envFile := flag.String("env-file", "", "load environment variables from this file before reading config")
	flag.Parse()

	var files []string
	if *envFile != "" {
		files = append(files, *envFile)
	}

	cfg, err := config.Load(files...)
	if err != nil {
		fmt.Fprintln(os.Stderr, "failed to load config:", err)
		os.Exit(1)
	}

	logger, err := logging.New(cfg.Environment)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer logger.Sync()

	if err := run(cfg, logger); err != nil {
		logger.Error("Server exited with error", zap.Error(err))
		os.Exit(1)
	}
	logger.Info("Server exited gracefully")
}

func run(cfg *config.Config, logger *zap.Logger) error {
	logger.Info("Starting",
		zap.String("env", cfg.Environment),
		zap.String("database", string(cfg.Database.Type)),
	)

	app, err := notekeep.New(cfg, logger)
	if err != nil {
		return err
	}
	defer app.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	return listenAndServe(ctx, app.Handler(), cfg.Server, logger)
}

func listenAndServe(ctx context.Context, handler http.Handler, cfg config.ServerConfig, logger *zap.Logger) error {
	srv := &http.Server{
		Addr:         net.JoinHostPort("", cfg.Port),
		Handler:      handler,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		ErrorLog:     zap.NewStdLog(logger),
	}

	serverErrCh := make(chan error, 1)

	go func() {
		logger.Info("Listening on address", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErrCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		logger.Info("Shutting down gracefully")

		ctxShutDown, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(ctxShutDown)
	case err := <-serverErrCh:
		return err
	}
}

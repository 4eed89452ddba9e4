package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"social-app-go/internal/app"
	"social-app-go/pkg/logger"
)

const shutdownTimeout = 5 * time.Second

func main() {
	log := logger.NewFromEnv()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, log)
	stop()

	os.Exit(code)
}

func run(ctx context.Context, log logger.Logger) int {
	application, err := app.New(ctx, log)
	if err != nil {
		log.Critical("social-app: init failed", "err", err)
		return 1
	}

	srv := application.HTTPServer()
	served := make(chan error, 1)
	go func() {
		log.Info("http: listening", "addr", srv.Addr)
		served <- srv.ListenAndServe()
	}()

	code := 0
	select {
	case <-ctx.Done():
		log.Info("social-app: stopping", "cause", context.Cause(ctx))
	case err := <-served:
		if !errors.Is(err, http.ErrServerClosed) {
			log.Critical("http: serve failed", "addr", srv.Addr, "err", err)
			code = 1
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("http: shutdown incomplete", "err", err)
		code = 1
	}
	if err := application.Close(); err != nil {
		log.Error("social-app: releasing resources failed", "err", err)
		code = 1
	}

	log.Info("social-app: stopped", "exit_code", code)
	return code
}

// Command swt-relyingparty is a demo application protected by the SWT
// middleware. It accepts tokens in the Authorization header, in the
// WS-Federation sign-in post and in the FedAuth session cookie.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/auth0/go-swt-middleware/internal/config"
	"github.com/auth0/go-swt-middleware/keys"
)

func main() {
	if err := run(); err != nil {
		_, _ = os.Stderr.WriteString("swt-relyingparty: " + err.Error() + "\n")
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if err := cfg.ValidateRelyingParty(); err != nil {
		return err
	}

	logger, err := newLogger(cfg.Observability)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	reg, err := keys.Load(context.Background(), cfg.RelyingParty.KeyFile)
	if err != nil {
		return err
	}

	handler, err := newRouter(deps{
		config:   cfg.RelyingParty,
		keys:     reg,
		logger:   logger,
		registry: prometheus.DefaultRegisterer,
		gatherer: prometheus.DefaultGatherer,
		tracer:   otel.Tracer("github.com/auth0/go-swt-middleware/cmd/swt-relyingparty"),
	})
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              cfg.RelyingParty.ListenAddr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("swt-relyingparty listening",
			zap.String("addr", cfg.RelyingParty.ListenAddr),
			zap.Strings("audiences", cfg.RelyingParty.Audiences),
			zap.Strings("keyed_audiences", reg.Audiences()))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func newLogger(cfg config.ObservabilityConfig) (*zap.Logger, error) {
	zcfg := zap.NewProductionConfig()
	if cfg.LogFormat == "text" {
		zcfg = zap.NewDevelopmentConfig()
	}
	level, err := zapcore.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	zcfg.Level = zap.NewAtomicLevelAt(level)
	return zcfg.Build()
}

// Command swt-sts is a demo security token service. It authenticates users
// with HTTP basic auth and answers WS-Federation passive sign-in requests
// with signed SWTs.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	swtmiddleware "github.com/auth0/go-swt-middleware"
	"github.com/auth0/go-swt-middleware/internal/config"
	"github.com/auth0/go-swt-middleware/issuer"
	"github.com/auth0/go-swt-middleware/keys"
	"github.com/auth0/go-swt-middleware/scope"
)

func main() {
	log := logrus.New()
	log.SetFormatter(&logrus.JSONFormatter{})

	if err := run(log); err != nil {
		log.WithError(err).Fatal("swt-sts stopped")
	}
}

func run(log *logrus.Logger) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if err := cfg.ValidateIssuer(); err != nil {
		return err
	}
	if level, err := logrus.ParseLevel(cfg.Observability.LogLevel); err == nil {
		log.SetLevel(level)
	}
	if cfg.Observability.LogFormat == "text" {
		log.SetFormatter(&logrus.TextFormatter{})
	}

	users, err := loadUsers(cfg.Issuer.UsersFile)
	if err != nil {
		return err
	}

	router, err := newRouter(cfg.Issuer, users, log)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              cfg.Issuer.ListenAddr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		log.WithFields(logrus.Fields{
			"addr":   cfg.Issuer.ListenAddr,
			"issuer": cfg.Issuer.Name,
			"users":  len(users),
		}).Info("swt-sts listening")
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

func newRouter(cfg config.IssuerConfig, users userStore, log logrus.FieldLogger) (*mux.Router, error) {
	scopeOpts := []scope.Option{}
	if cfg.SigningKey != "" {
		scopeOpts = append(scopeOpts, scope.WithSigningKey([]byte(cfg.SigningKey)))
	}
	if cfg.KeyFile != "" {
		reg, err := keys.Load(context.Background(), cfg.KeyFile)
		if err != nil {
			return nil, err
		}
		scopeOpts = append(scopeOpts, scope.WithKeyResolver(reg))
	}
	scopes, err := scope.NewResolver(scopeOpts...)
	if err != nil {
		return nil, err
	}

	logger := swtmiddleware.NewLogrusLogger(log)
	service, err := issuer.New(
		issuer.WithIssuerName(cfg.Name),
		issuer.WithTokenLifetime(cfg.TokenLifetime),
		issuer.WithScopeResolver(scopes),
		issuer.WithLogger(logger),
	)
	if err != nil {
		return nil, err
	}

	handler, err := issuer.NewHandler(service, users.basicAuthPrincipal,
		issuer.WithChallenge(`Basic realm="`+cfg.Name+`"`),
		issuer.WithHandlerLogger(logger),
	)
	if err != nil {
		return nil, err
	}

	r := mux.NewRouter()
	r.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	}).Methods(http.MethodGet)
	r.Handle("/", handler).Methods(http.MethodGet, http.MethodPost)
	return r, nil
}

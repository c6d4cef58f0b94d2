package main

import (
	"encoding/json"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	swtmiddleware "github.com/auth0/go-swt-middleware"
	"github.com/auth0/go-swt-middleware/internal/config"
	"github.com/auth0/go-swt-middleware/keys"
	"github.com/auth0/go-swt-middleware/token"
	"github.com/auth0/go-swt-middleware/validator"
)

const sessionCookie = "FedAuth"

type deps struct {
	config   config.RelyingPartyConfig
	keys     keys.Resolver
	logger   *zap.Logger
	registry prometheus.Registerer
	gatherer prometheus.Gatherer
	tracer   trace.Tracer
}

func newRouter(d deps) (http.Handler, error) {
	var issuers validator.IssuerNameRegistry = validator.PassthroughIssuers{}
	if len(d.config.TrustedIssuers) > 0 {
		issuers = validator.TrustedIssuers(d.config.TrustedIssuers)
	}

	v, err := validator.New(
		validator.WithKeyResolver(d.keys),
		validator.WithAudiences(d.config.Audiences),
		validator.WithAllowedClockSkew(d.config.ClockSkew),
		validator.WithIssuerNameRegistry(issuers),
	)
	if err != nil {
		return nil, err
	}

	metrics, err := swtmiddleware.NewPrometheusMetrics(d.registry)
	if err != nil {
		return nil, err
	}

	mw, err := swtmiddleware.New(
		swtmiddleware.WithValidator(v),
		swtmiddleware.WithTokenExtractor(swtmiddleware.MultiTokenExtractor(
			swtmiddleware.AuthHeaderTokenExtractor,
			swtmiddleware.FormPostTokenExtractor,
			swtmiddleware.CookieTokenExtractor(sessionCookie),
		)),
		swtmiddleware.WithValidateOnOptions(false),
		swtmiddleware.WithLogger(swtmiddleware.NewZapLogger(d.logger)),
		swtmiddleware.WithTracer(swtmiddleware.NewOpenTelemetryTracer(d.tracer)),
		swtmiddleware.WithMetrics(metrics),
	)
	if err != nil {
		return nil, err
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("ok"))
	})
	r.Handle("/metrics", promhttp.HandlerFor(d.gatherer, promhttp.HandlerOpts{}))

	r.Group(func(r chi.Router) {
		r.Use(mw.CheckSWT)
		r.Post("/", signInCallback(d.logger))
		r.Get("/api/whoami", whoami)
	})

	return r, nil
}

// signInCallback runs after the middleware accepted the posted envelope. It
// keeps the token in a session cookie and sends the browser back to the
// address it started from.
func signInCallback(logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		wire, err := token.ParseEnvelope(r.PostForm.Get("wresult"))
		if err != nil {
			http.Error(w, "bad sign-in response", http.StatusBadRequest)
			return
		}

		claims := swtmiddleware.MustGetClaims[*validator.ValidatedClaims](r.Context())
		http.SetCookie(w, &http.Cookie{
			Name:     sessionCookie,
			Value:    token.EncodeCompact(wire),
			Path:     "/",
			Expires:  claims.ExpiresOn,
			HttpOnly: true,
			Secure:   r.TLS != nil,
			SameSite: http.SameSiteLaxMode,
		})
		logger.Info("session established",
			zap.String("name", claims.Name()),
			zap.String("issuer", claims.Issuer),
			zap.String("token_id", claims.ID))

		http.Redirect(w, r, localTarget(r.PostForm.Get("wctx")), http.StatusFound)
	}
}

// localTarget returns target when it is a path on this site, and the
// whoami page otherwise. Browsers read a backslash as a slash.
func localTarget(target string) string {
	const fallback = "/api/whoami"
	if target == "" || target[0] != '/' {
		return fallback
	}
	normalized := strings.ReplaceAll(target, "\\", "/")
	if strings.HasPrefix(normalized, "//") {
		return fallback
	}
	u, err := url.Parse(normalized)
	if err != nil || u.Scheme != "" || u.Host != "" {
		return fallback
	}
	return target
}

type whoamiResponse struct {
	Name      string        `json:"name"`
	Issuer    string        `json:"issuer"`
	Audience  string        `json:"audience"`
	ExpiresOn time.Time     `json:"expires_on"`
	Roles     []string      `json:"roles,omitempty"`
	Claims    []token.Claim `json:"claims"`
}

func whoami(w http.ResponseWriter, r *http.Request) {
	claims, err := swtmiddleware.GetClaims[*validator.ValidatedClaims](r.Context())
	if err != nil {
		http.Error(w, "no claims", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(whoamiResponse{
		Name:      claims.Name(),
		Issuer:    claims.Issuer,
		Audience:  claims.Audience,
		ExpiresOn: claims.ExpiresOn,
		Roles:     claims.Roles(),
		Claims:    claims.Claims,
	})
}

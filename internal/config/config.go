// Package config loads the settings shared by the demo issuer and relying
// party binaries from the environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

// Config is the complete application configuration.
type Config struct {
	Issuer        IssuerConfig
	RelyingParty  RelyingPartyConfig
	Observability ObservabilityConfig
}

// IssuerConfig configures the token issuer (STS).
type IssuerConfig struct {
	Name          string        `validate:"required"`
	TokenLifetime time.Duration `validate:"gt=0"`
	// SigningKey is used for every relying party without an entry in KeyFile.
	SigningKey string `validate:"required_without=KeyFile"`
	KeyFile    string
	UsersFile  string
	ListenAddr string `validate:"required"`
}

// RelyingPartyConfig configures the protected demo application.
type RelyingPartyConfig struct {
	Audiences []string      `validate:"min=1,dive,required"`
	ClockSkew time.Duration `validate:"gte=0"`
	KeyFile   string        `validate:"required"`
	// TrustedIssuers maps raw issuer values to canonical names. Empty means
	// every issuer is accepted under its own name.
	TrustedIssuers map[string]string
	ListenAddr     string `validate:"required"`
}

// ObservabilityConfig holds logging configuration.
type ObservabilityConfig struct {
	LogLevel  string `validate:"oneof=debug info warn error"`
	LogFormat string `validate:"oneof=json text"`
}

var validate = validator.New()

// Load reads a .env file when one exists and builds the configuration from
// the environment.
func Load() (*Config, error) {
	_ = godotenv.Load(".env")

	trusted, err := parseIssuers(getEnv("SWT_TRUSTED_ISSUERS", ""))
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Issuer: IssuerConfig{
			Name:          getEnv("SWT_ISSUER_NAME", "sts.example.local"),
			TokenLifetime: getEnvAsDuration("SWT_TOKEN_LIFETIME", 2*time.Hour),
			SigningKey:    getEnv("SWT_SIGNING_KEY", ""),
			KeyFile:       getEnv("SWT_KEY_FILE", ""),
			UsersFile:     getEnv("STS_USERS_FILE", "users.yaml"),
			ListenAddr:    getEnv("STS_LISTEN_ADDR", ":8080"),
		},
		RelyingParty: RelyingPartyConfig{
			Audiences:      getEnvAsList("SWT_AUDIENCES"),
			ClockSkew:      getEnvAsDuration("SWT_CLOCK_SKEW", 5*time.Minute),
			KeyFile:        getEnv("SWT_KEY_FILE", ""),
			TrustedIssuers: trusted,
			ListenAddr:     getEnv("RP_LISTEN_ADDR", ":8081"),
		},
		Observability: ObservabilityConfig{
			LogLevel:  getEnv("LOG_LEVEL", "info"),
			LogFormat: getEnv("LOG_FORMAT", "json"),
		},
	}

	return cfg, nil
}

// ValidateIssuer checks the settings the issuer binary needs.
func (c *Config) ValidateIssuer() error {
	return check(c.Issuer, c.Observability)
}

// ValidateRelyingParty checks the settings the relying party binary needs.
func (c *Config) ValidateRelyingParty() error {
	return check(c.RelyingParty, c.Observability)
}

func check(sections ...any) error {
	for _, s := range sections {
		if err := validate.Struct(s); err != nil {
			var fieldErrs validator.ValidationErrors
			if errors.As(err, &fieldErrs) {
				return fmt.Errorf("config validation failed: %s", describe(fieldErrs))
			}
			return fmt.Errorf("config validation failed: %w", err)
		}
	}
	return nil
}

func describe(errs validator.ValidationErrors) string {
	msgs := make([]string, 0, len(errs))
	for _, e := range errs {
		switch e.Tag() {
		case "required", "required_without":
			msgs = append(msgs, fmt.Sprintf("%s is required", e.Namespace()))
		case "min":
			msgs = append(msgs, fmt.Sprintf("%s needs at least %s entries", e.Namespace(), e.Param()))
		case "oneof":
			msgs = append(msgs, fmt.Sprintf("%s must be one of [%s]", e.Namespace(), e.Param()))
		default:
			msgs = append(msgs, fmt.Sprintf("%s failed %s", e.Namespace(), e.Tag()))
		}
	}
	return strings.Join(msgs, "; ")
}

// parseIssuers reads "raw=name,raw2=name2". A bare entry maps to itself.
func parseIssuers(s string) (map[string]string, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	out := make(map[string]string)
	for _, entry := range strings.Split(s, ",") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		raw, name, _ := strings.Cut(entry, "=")
		raw = strings.TrimSpace(raw)
		if raw == "" {
			return nil, fmt.Errorf("invalid SWT_TRUSTED_ISSUERS entry %q", entry)
		}
		out[raw] = strings.TrimSpace(name)
	}
	return out, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := time.ParseDuration(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsList(key string) []string {
	var out []string
	for _, v := range strings.Split(os.Getenv(key), ",") {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const EnvPrefix = ""

const (
	AppEnvDev  = "development"
	AppEnvProd = "production"
)

// Environment variable names, exported for tests and tooling.
const (
	EnvAppEnv     = "STOREFRONT_APP_ENV"
	EnvLogLevel   = "STOREFRONT_LOG_LEVEL"
	EnvAPIBaseURL = "STOREFRONT_API_BASE_URL"
	EnvStubPort   = "STOREFRONT_STUB_PORT"
)

type Config struct {
	App  AppConfig
	API  APIConfig
	Stub StubConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.API.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"STOREFRONT_APP_ENV" default:"development"`
	LogLevel     string `envconfig:"STOREFRONT_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"STOREFRONT_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

// APIConfig locates the remote cart API.
type APIConfig struct {
	BaseURL string        `envconfig:"STOREFRONT_API_BASE_URL" required:"true"`
	Timeout time.Duration `envconfig:"STOREFRONT_API_TIMEOUT" default:"10s"`
}

func (a APIConfig) validate() error {
	parsed, err := url.Parse(a.BaseURL)
	if err != nil {
		return fmt.Errorf("invalid api base url: %w", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return fmt.Errorf("api base url must be http or https, got %q", a.BaseURL)
	}
	return nil
}

// StubConfig configures the local stub cart backend.
type StubConfig struct {
	Port string `envconfig:"STOREFRONT_STUB_PORT" default:"8080"`
}

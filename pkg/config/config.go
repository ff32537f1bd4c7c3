package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const EnvPrefix = "GREENHOUSE"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

type Config struct {
	App           AppConfig
	API           APIConfig
	Google        GoogleConfig
	Store         StoreConfig
	Notifications NotificationsConfig
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
	Env      string `envconfig:"GREENHOUSE_APP_ENV" default:"dev"`
	LogLevel string `envconfig:"GREENHOUSE_LOG_LEVEL" default:"info"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

// APIConfig points the gateway at the backend. BaseURL is the build-time
// environment flag the deployment chooses between local and hosted.
type APIConfig struct {
	BaseURL string `envconfig:"GREENHOUSE_API_BASE_URL" default:"http://localhost:8000"`
}

func (a APIConfig) validate() error {
	base := strings.TrimSpace(a.BaseURL)
	if base == "" {
		return fmt.Errorf("api base url is required")
	}
	if !strings.HasPrefix(base, "http://") && !strings.HasPrefix(base, "https://") {
		return fmt.Errorf("api base url must be http(s), got %q", base)
	}
	return nil
}

type GoogleConfig struct {
	ClientID string `envconfig:"GREENHOUSE_GOOGLE_CLIENT_ID"`
}

// StoreConfig locates the durable local store that stands in for the
// browser's localStorage.
type StoreConfig struct {
	Path string `envconfig:"GREENHOUSE_STORE_PATH" default:"greenhouse.db"`
}

type NotificationsConfig struct {
	PollInterval time.Duration `envconfig:"GREENHOUSE_NOTIFICATION_POLL_INTERVAL" default:"30s"`
}

package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

type Config struct {
	Env        string     `yaml:"env" env:"ENV" env-default:"local"`
	HTTPServer HTTPServer `yaml:"http_server"`
	Backend    Backend    `yaml:"backend"`
	Session    Session    `yaml:"session"`
	UI         UI         `yaml:"ui"`
	CORS       CORS       `yaml:"cors"`
	CSRF       CSRF       `yaml:"csrf"`
}

type HTTPServer struct {
	Address     string        `yaml:"address" env:"HTTP_SERVER_ADDRESS" env-default:"0.0.0.0:8080"`
	Timeout     time.Duration `yaml:"timeout" env-default:"5s"`
	IdleTimeout time.Duration `yaml:"idle_timeout" env-default:"120s"`
}

// Backend points at the REST API the pages are built on. PublicURL is the
// browser-reachable origin used for generated PDF links.
type Backend struct {
	BaseURL   string        `yaml:"base_url" env:"BACKEND_BASE_URL" env-default:"http://127.0.0.1:8000"`
	PublicURL string        `yaml:"public_url" env:"BACKEND_PUBLIC_URL"`
	Timeout   time.Duration `yaml:"timeout" env:"BACKEND_TIMEOUT" env-default:"0s"`
}

type Session struct {
	Driver     string        `yaml:"driver" env:"SESSION_DRIVER" env-default:"bolt"`
	Path       string        `yaml:"path" env:"SESSION_PATH" env-default:"./data/sessions.db"`
	DSN        string        `yaml:"dsn" env:"SESSION_DSN"`
	CookieName string        `yaml:"cookie_name" env:"SESSION_COOKIE" env-default:"achievebot_sid"`
	Secret     string        `yaml:"secret" env:"SESSION_SECRET"`
	TTL        time.Duration `yaml:"ttl" env:"SESSION_TTL" env-default:"168h"`
}

type UI struct {
	FallbackOnError bool          `yaml:"fallback_on_error" env:"UI_FALLBACK_ON_ERROR" env-default:"true"`
	ToastDuration   time.Duration `yaml:"toast_duration" env:"UI_TOAST_DURATION" env-default:"3s"`
}

type CORS struct {
	AllowedOrigins []string `yaml:"allowed_origins" env:"CORS_ALLOWED_ORIGINS" env-separator:","`
}

type CSRF struct {
	Enabled bool   `yaml:"enabled" env:"CSRF_ENABLED" env-default:"true"`
	Key     string `yaml:"key" env:"CSRF_KEY"`
	Secure  bool   `yaml:"secure" env:"CSRF_SECURE" env-default:"false"`
}

// Load reads the YAML file at CONFIG_PATH (./config/local.yaml by default),
// lets the environment override it and validates the result. A .env file in
// the working directory is applied to the environment first when present.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "./config/local.yaml"
	}

	var config Config
	if _, err := os.Stat(configPath); err == nil {
		if err := cleanenv.ReadConfig(configPath, &config); err != nil {
			return nil, fmt.Errorf("read config %s: %w", configPath, err)
		}
	} else if err := cleanenv.ReadEnv(&config); err != nil {
		return nil, fmt.Errorf("read env: %w", err)
	}

	if err := config.validate(); err != nil {
		return nil, err
	}
	return &config, nil
}

func MustLoad() *Config {
	config, err := Load()
	if err != nil {
		log.Fatalf("cannot load config: %v", err)
	}
	return config
}

func (c *Config) validate() error {
	if c.Backend.BaseURL == "" {
		return errors.New("backend.base_url is required")
	}
	if c.Session.Secret == "" {
		return errors.New("session.secret is required")
	}
	switch c.Session.Driver {
	case "bolt", "sqlite":
		if c.Session.Path == "" {
			return fmt.Errorf("session.path is required for driver %s", c.Session.Driver)
		}
	case "postgres":
		if c.Session.DSN == "" {
			return errors.New("session.dsn is required for driver postgres")
		}
	default:
		return fmt.Errorf("unknown session.driver %q", c.Session.Driver)
	}
	if c.CSRF.Enabled && len(c.CSRF.Key) != 32 {
		return errors.New("csrf.key must be 32 bytes when csrf is enabled")
	}
	return nil
}

// PublicBackendURL falls back to BaseURL when no public origin is configured.
func (c *Config) PublicBackendURL() string {
	if c.Backend.PublicURL != "" {
		return c.Backend.PublicURL
	}
	return c.Backend.BaseURL
}

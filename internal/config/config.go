// Package config handles loading and parsing application configuration.
// It supports two sources (in priority order):
//  1. An environment variable:  CONFIG_PATH=/path/to/config.yaml
//  2. A command-line flag:      --config=/path/to/config.yaml
//
// Two shapes live here: Config for the students REST API and AdminConfig
// for the admin panel. Both are read by cleanenv, so every field can also
// be overridden by its env:"..." variable.
package config

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config is the configuration of the students REST API.
//
// env-required:"true" means the app refuses to start if that value is
// missing.
type Config struct {
	// Env controls log format and verbosity.
	// Valid values: "dev", "staging", "prod"
	Env string `yaml:"env" env:"ENV" env-required:"true"`

	// StoragePath is the filesystem path to the SQLite .db file.
	StoragePath string `yaml:"storage_path" env:"STORAGE_PATH" env-required:"true"`

	HTTPServer `yaml:"http_server"`
}

// HTTPServer holds settings specific to the HTTP server.
// Nested under http_server: in the YAML file.
type HTTPServer struct {
	// Addr is the TCP address the server listens on, e.g. "localhost:8082".
	Addr string `yaml:"address" env:"HTTP_SERVER_ADDR" env-required:"true"`
}

// AdminConfig is the configuration of the admin panel.
type AdminConfig struct {
	Env string `yaml:"env" env:"ENV" env-default:"dev"`

	HTTPServer `yaml:"http_server"`

	Backend Backend `yaml:"backend"`

	// PageSize is the fixed number of students shown per table page.
	PageSize int `yaml:"page_size" env:"PAGE_SIZE" env-default:"5"`

	// LoginURL is where the browser is sent when the API answers 401/403.
	LoginURL string `yaml:"login_url" env:"LOGIN_URL" env-default:"/login.html"`

	Session Session `yaml:"session"`
}

// Backend locates the students REST API.
type Backend struct {
	// BaseURL is the API origin, e.g. "http://localhost:8082".
	BaseURL string `yaml:"base_url" env:"BACKEND_BASE_URL" env-required:"true"`

	Timeout time.Duration `yaml:"timeout" env:"BACKEND_TIMEOUT" env-default:"10s"`
}

// Session configures the admin panel session cookie.
type Session struct {
	Lifetime   time.Duration `yaml:"lifetime" env:"SESSION_LIFETIME" env-default:"12h"`
	CookieName string        `yaml:"cookie_name" env:"SESSION_COOKIE_NAME" env-default:"students_admin"`
	Secure     bool          `yaml:"secure" env:"SESSION_SECURE" env-default:"false"`
}

// Load reads the API config at path.
func Load(path string) (*Config, error) {
	var cfg Config
	if err := read(path, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadAdmin reads the admin panel config at path and checks the values
// cleanenv cannot express as tags.
func LoadAdmin(path string) (*AdminConfig, error) {
	var cfg AdminConfig
	if err := read(path, &cfg); err != nil {
		return nil, err
	}
	if cfg.PageSize <= 0 {
		return nil, fmt.Errorf("config: page_size must be positive, got %d", cfg.PageSize)
	}
	if cfg.Backend.Timeout <= 0 {
		return nil, fmt.Errorf("config: backend.timeout must be positive, got %s", cfg.Backend.Timeout)
	}
	return &cfg, nil
}

// MustLoad reads, validates, and returns the API config. It exits the
// process on failure.
func MustLoad() *Config {
	cfg, err := Load(mustPath())
	if err != nil {
		log.Fatalf("cannot read config: %s", err.Error())
	}
	return cfg
}

// MustLoadAdmin is MustLoad for the admin panel.
func MustLoadAdmin() *AdminConfig {
	cfg, err := LoadAdmin(mustPath())
	if err != nil {
		log.Fatalf("cannot read config: %s", err.Error())
	}
	return cfg
}

func read(path string, cfg any) error {
	if path == "" {
		return errors.New("config: path is empty")
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return fmt.Errorf("config: file does not exist: %s", path)
	}
	if err := cleanenv.ReadConfig(path, cfg); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return nil
}

func mustPath() string {
	configPath := os.Getenv("CONFIG_PATH")

	if configPath == "" {
		flags := flag.String("config", "", "Path to the configuration YAML file")
		flag.Parse()
		configPath = *flags
	}

	if configPath == "" {
		log.Fatal("config path is not set: use --config flag or CONFIG_PATH env var")
	}
	return configPath
}

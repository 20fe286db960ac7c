package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config is the global application configuration
var Config = Default()

// LoadAppConfig loads .env, then the first config file found (CONFIG_PATH,
// config.yml, ./configs/config.yml), applies defaults and environment
// overrides, validates and stores the result in Config.
func LoadAppConfig() error {
	_ = godotenv.Load()

	paths := []string{"config.yml", "./configs/config.yml"}
	if p := os.Getenv("CONFIG_PATH"); p != "" {
		paths = []string{p}
	}
	var err error
	for _, p := range paths {
		var cfg AppConfig
		cfg, err = LoadFromFile(p)
		if err == nil {
			Config = cfg
			return nil
		}
		if !errors.Is(err, os.ErrNotExist) {
			return err
		}
	}
	return err
}

// LoadFromFile parses and validates a single config file.
func LoadFromFile(path string) (AppConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return AppConfig{}, err
	}
	return Parse(data)
}

// Parse decodes YAML bytes into a validated AppConfig. Metrics are enabled
// unless the document sets metrics.enabled explicitly.
func Parse(data []byte) (AppConfig, error) {
	cfg := AppConfig{Metrics: MetricsConfig{Enabled: true}}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return AppConfig{}, fmt.Errorf("parse config: %w", err)
	}
	applyDefaults(&cfg)
	if err := applyEnv(&cfg); err != nil {
		return AppConfig{}, err
	}
	if err := Validate(cfg); err != nil {
		return AppConfig{}, err
	}
	return cfg, nil
}

// Validate checks struct-tag constraints on every section.
func Validate(cfg AppConfig) error {
	v := validator.New()
	if err := v.Struct(cfg); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// applyEnv layers environment overrides on top of the file.
func applyEnv(cfg *AppConfig) error {
	if v := os.Getenv("PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid PORT: %q", v)
		}
		cfg.Server.Port = port
	}
	if v := os.Getenv("FEED_TIMEOUT_SECONDS"); v != "" {
		sec, err := strconv.Atoi(v)
		if err != nil || sec <= 0 {
			return fmt.Errorf("invalid FEED_TIMEOUT_SECONDS: %q", v)
		}
		cfg.Feeds.TimeoutSeconds = sec
	}
	if v := os.Getenv("STOPS_FILE"); v != "" {
		cfg.Stations.StopsFile = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	return nil
}

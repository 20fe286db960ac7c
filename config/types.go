package config

import "time"

// ServerConfig contains server configuration
type ServerConfig struct {
	Port int `yaml:"port" validate:"gt=0,lte=65535"`
}

// Endpoint is one upstream GTFS-Realtime trip-updates feed.
// URL may also be a local file path.
type Endpoint struct {
	Name string `yaml:"name" validate:"required"`
	URL  string `yaml:"url" validate:"required"`
}

// FeedsConfig contains upstream feed configuration
type FeedsConfig struct {
	TimeoutSeconds int        `yaml:"timeoutSeconds" validate:"gt=0"`
	MaxConcurrent  int        `yaml:"maxConcurrent" validate:"gt=0"`
	UserAgent      string     `yaml:"userAgent"`
	Endpoints      []Endpoint `yaml:"endpoints" validate:"required,min=1,dive"`
}

// Timeout returns the per-endpoint fetch timeout.
func (f FeedsConfig) Timeout() time.Duration {
	return time.Duration(f.TimeoutSeconds) * time.Second
}

// URLs returns the endpoint URLs in configured order.
func (f FeedsConfig) URLs() []string {
	out := make([]string, 0, len(f.Endpoints))
	for _, e := range f.Endpoints {
		out = append(out, e.URL)
	}
	return out
}

// ArrivalsConfig controls the aggregation window and result sizes
type ArrivalsConfig struct {
	HorizonMinutes        int `yaml:"horizonMinutes" validate:"gt=0"`
	MaxPerRoutePerStation int `yaml:"maxPerRoutePerStation" validate:"gt=0"`
	DefaultLimit          int `yaml:"defaultLimit" validate:"gt=0"`
}

type StationsConfig struct {
	StopsFile string `yaml:"stopsFile"`
}

type MetricsConfig struct {
	Enabled bool `yaml:"enabled"`
}

type LoggingConfig struct {
	Level string `yaml:"level" validate:"omitempty,oneof=debug info warn error"`
}

// AppConfig is the root configuration structure
type AppConfig struct {
	Server   ServerConfig   `yaml:"server"`
	Feeds    FeedsConfig    `yaml:"feeds"`
	Arrivals ArrivalsConfig `yaml:"arrivals"`
	Stations StationsConfig `yaml:"stations"`
	Metrics  MetricsConfig  `yaml:"metrics"`
	Logging  LoggingConfig  `yaml:"logging"`
}

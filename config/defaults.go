package config

// MTA subway GTFS-Realtime feeds. No API key is required.
var defaultEndpoints = []Endpoint{
	{Name: "ace", URL: "https://api-endpoint.mta.info/Dataservice/mtagtfsfeeds/nyct%2Fgtfs-ace"},
	{Name: "bdfm", URL: "https://api-endpoint.mta.info/Dataservice/mtagtfsfeeds/nyct%2Fgtfs-bdfm"},
	{Name: "g", URL: "https://api-endpoint.mta.info/Dataservice/mtagtfsfeeds/nyct%2Fgtfs-g"},
	{Name: "jz", URL: "https://api-endpoint.mta.info/Dataservice/mtagtfsfeeds/nyct%2Fgtfs-jz"},
	{Name: "l", URL: "https://api-endpoint.mta.info/Dataservice/mtagtfsfeeds/nyct%2Fgtfs-l"},
	{Name: "nqrw", URL: "https://api-endpoint.mta.info/Dataservice/mtagtfsfeeds/nyct%2Fgtfs-nqrw"},
	{Name: "si", URL: "https://api-endpoint.mta.info/Dataservice/mtagtfsfeeds/nyct%2Fgtfs-si"},
}

const (
	DefaultPort                  = 8000
	DefaultTimeoutSeconds        = 10
	DefaultMaxConcurrent         = 4
	DefaultHorizonMinutes        = 60
	DefaultMaxPerRoutePerStation = 5
	DefaultLimit                 = 3
	DefaultStopsFile             = "data/stops.txt"
	DefaultUserAgent             = "mta-arrivals/1.0"
)

// Default returns a configuration that works without any config.yml.
func Default() AppConfig {
	cfg := AppConfig{Metrics: MetricsConfig{Enabled: true}}
	applyDefaults(&cfg)
	return cfg
}

// applyDefaults fills zero values.
func applyDefaults(cfg *AppConfig) {
	if cfg.Server.Port == 0 {
		cfg.Server.Port = DefaultPort
	}
	if cfg.Feeds.TimeoutSeconds == 0 {
		cfg.Feeds.TimeoutSeconds = DefaultTimeoutSeconds
	}
	if cfg.Feeds.MaxConcurrent == 0 {
		cfg.Feeds.MaxConcurrent = DefaultMaxConcurrent
	}
	if cfg.Feeds.UserAgent == "" {
		cfg.Feeds.UserAgent = DefaultUserAgent
	}
	if len(cfg.Feeds.Endpoints) == 0 {
		cfg.Feeds.Endpoints = append([]Endpoint(nil), defaultEndpoints...)
	}
	if cfg.Arrivals.DefaultLimit == 0 {
		cfg.Arrivals.DefaultLimit = DefaultLimit
	}
	if cfg.Arrivals.HorizonMinutes == 0 {
		cfg.Arrivals.HorizonMinutes = DefaultHorizonMinutes
	}
	if cfg.Arrivals.MaxPerRoutePerStation == 0 {
		cfg.Arrivals.MaxPerRoutePerStation = DefaultMaxPerRoutePerStation
	}
	if cfg.Stations.StopsFile == "" {
		cfg.Stations.StopsFile = DefaultStopsFile
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
}

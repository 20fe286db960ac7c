package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"

	"github.com/theoremus-urban-solutions/mta-arrivals/arrivals"
	"github.com/theoremus-urban-solutions/mta-arrivals/config"
	"github.com/theoremus-urban-solutions/mta-arrivals/gtfsrt"
	"github.com/theoremus-urban-solutions/mta-arrivals/internal/logging"
	"github.com/theoremus-urban-solutions/mta-arrivals/metrics"
	"github.com/theoremus-urban-solutions/mta-arrivals/server"
	"github.com/theoremus-urban-solutions/mta-arrivals/stations"
)

func main() {
	mode := flag.String("mode", "serve", "serve|oneshot")
	configPath := flag.String("config", "", "config file (overrides CONFIG_PATH)")
	feeds := flag.String("feeds", "", "comma-separated feed URLs or files (overrides config)")
	route := flag.String("route", "R", "oneshot: route to show")
	stops := flag.String("stops", "R44N,R44S", "oneshot: comma-separated stop ids")
	n := flag.Int("n", 3, "oneshot: trains per stop")
	flag.Parse()

	cfg, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	logging.Init(cfg.Logging.Level)
	defer logging.Sync()
	logger := logging.Logger()

	endpoints := cfg.Feeds.URLs()
	if *feeds != "" {
		endpoints = splitList(*feeds)
	}

	var collector *metrics.Collector
	if cfg.Metrics.Enabled && *mode == "serve" {
		collector = metrics.NewCollector(cfg.Arrivals.HorizonMinutes)
	}

	clientOpts := gtfsrt.ClientOptions{
		Timeout:       cfg.Feeds.Timeout(),
		MaxConcurrent: cfg.Feeds.MaxConcurrent,
		UserAgent:     cfg.Feeds.UserAgent,
	}
	var svcOpts []arrivals.ServiceOption
	if collector != nil {
		clientOpts.Observer = collector
		svcOpts = append(svcOpts, arrivals.WithObserver(collector))
	}
	client := gtfsrt.NewClient(clientOpts, logger)
	svc := arrivals.NewService(client, endpoints, arrivals.Options{
		HorizonMinutes: cfg.Arrivals.HorizonMinutes,
		MaxPerRoute:    cfg.Arrivals.MaxPerRoutePerStation,
	}, logger, svcOpts...)

	dir := stations.Load(cfg.Stations.StopsFile, logger)

	switch *mode {
	case "serve":
		if err := serve(cfg, dir, svc, collector, logger); err != nil {
			logger.Errorw("server stopped", "error", err)
			logging.Sync()
			os.Exit(1)
		}
	case "oneshot":
		printNextTrains(context.Background(), os.Stdout, svc, dir, *route, splitList(*stops), *n)
	default:
		fmt.Fprintf(os.Stderr, "unknown mode %q\n", *mode)
		os.Exit(2)
	}
}

func serve(cfg config.AppConfig, dir *stations.Directory, svc *arrivals.Service, collector *metrics.Collector, logger *zap.SugaredLogger) error {
	if collector != nil {
		collector.SetStations(dir.Len())
	}
	srv := server.New(dir, svc, collector, server.Options{
		Port:           cfg.Server.Port,
		HorizonMinutes: cfg.Arrivals.HorizonMinutes,
		DefaultLimit:   cfg.Arrivals.DefaultLimit,
	}, logger)
	return srv.HandleGracefulShutdown(srv.Start())
}

// loadConfig falls back to defaults plus environment when no config file
// exists.
func loadConfig(path string) (config.AppConfig, error) {
	if path != "" {
		if err := os.Setenv("CONFIG_PATH", path); err != nil {
			return config.AppConfig{}, err
		}
	}
	err := config.LoadAppConfig()
	if errors.Is(err, os.ErrNotExist) && path == "" {
		cfg, perr := config.Parse(nil)
		if perr != nil {
			return config.AppConfig{}, perr
		}
		config.Config = cfg
		return cfg, nil
	}
	if err != nil {
		return config.AppConfig{}, err
	}
	return config.Config, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

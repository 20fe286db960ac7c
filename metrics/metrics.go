package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector owns a private registry. It implements gtfsrt.Observer and
// arrivals.Observer.
type Collector struct {
	reg *prometheus.Registry

	FeedFetches     *prometheus.CounterVec
	FeedDuration    *prometheus.HistogramVec
	TripUpdates     *prometheus.CounterVec
	SkippedEntities prometheus.Counter
	Predictions     prometheus.Gauge

	HTTPRequests *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec

	HorizonMinutes prometheus.Gauge
	Stations       prometheus.Gauge
}

func NewCollector(horizonMinutes int) *Collector {
	reg := prometheus.NewRegistry()

	c := &Collector{
		reg: reg,
		FeedFetches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "arrivals_feed_fetches_total",
			Help: "Upstream feed fetches by endpoint and outcome (ok, fetch_error, decode_error).",
		}, []string{"endpoint", "outcome"}),
		FeedDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "arrivals_feed_fetch_duration_seconds",
			Help:    "Time to fetch and decode one upstream feed.",
			Buckets: prometheus.ExponentialBuckets(0.01, 2, 12),
		}, []string{"endpoint"}),
		TripUpdates: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "arrivals_trip_updates_decoded_total",
			Help: "Trip updates decoded per endpoint.",
		}, []string{"endpoint"}),
		SkippedEntities: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "arrivals_feed_entities_skipped_total",
			Help: "Malformed feed entities skipped during decoding.",
		}),
		Predictions: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "arrivals_predictions",
			Help: "Predictions produced by the most recent aggregation.",
		}),
		HTTPRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "arrivals_http_requests_total",
			Help: "HTTP requests by route template and status code.",
		}, []string{"route", "code"}),
		HTTPDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "arrivals_http_request_duration_seconds",
			Help:    "HTTP request latency by route template.",
			Buckets: prometheus.DefBuckets,
		}, []string{"route"}),
		HorizonMinutes: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "arrivals_horizon_minutes",
			Help: "Configured lookahead horizon in minutes.",
		}),
		Stations: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "arrivals_directory_stops",
			Help: "Stop ids known to the station directory.",
		}),
	}

	reg.MustRegister(
		c.FeedFetches, c.FeedDuration, c.TripUpdates, c.SkippedEntities, c.Predictions,
		c.HTTPRequests, c.HTTPDuration, c.HorizonMinutes, c.Stations,
	)

	c.HorizonMinutes.Set(float64(horizonMinutes))

	return c
}

func (c *Collector) ObserveFetch(endpoint, outcome string, elapsed time.Duration, tripUpdates int) {
	c.FeedFetches.WithLabelValues(endpoint, outcome).Inc()
	c.FeedDuration.WithLabelValues(endpoint).Observe(elapsed.Seconds())
	c.TripUpdates.WithLabelValues(endpoint).Add(float64(tripUpdates))
}

func (c *Collector) ObserveSkippedEntity() { c.SkippedEntities.Inc() }

func (c *Collector) ObservePredictions(n int) { c.Predictions.Set(float64(n)) }

func (c *Collector) ObserveRequest(route string, code int, elapsed time.Duration) {
	c.HTTPRequests.WithLabelValues(route, strconv.Itoa(code)).Inc()
	c.HTTPDuration.WithLabelValues(route).Observe(elapsed.Seconds())
}

func (c *Collector) SetStations(n int) { c.Stations.Set(float64(n)) }

func (c *Collector) Registry() *prometheus.Registry { return c.reg }

func (c *Collector) Handler() http.Handler { return promhttp.HandlerFor(c.reg, promhttp.HandlerOpts{}) }

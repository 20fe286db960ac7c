package arrivals

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/theoremus-urban-solutions/mta-arrivals/gtfsrt"
)

// Source fetches trip updates from a set of endpoints. *gtfsrt.Client
// satisfies it.
type Source interface {
	FetchAll(ctx context.Context, endpoints []string) []gtfsrt.Result
}

// Observer is told how many predictions each whole-network aggregation
// produced.
type Observer interface {
	ObservePredictions(n int)
}

// Service runs the fetch, decode and aggregate pipeline on every call.
// Nothing is cached between calls.
type Service struct {
	source    Source
	endpoints []string
	opts      Options
	now       func() time.Time
	observer  Observer
	logger    *zap.SugaredLogger
}

type ServiceOption func(*Service)

// WithClock replaces time.Now, mainly for tests.
func WithClock(now func() time.Time) ServiceOption {
	return func(s *Service) { s.now = now }
}

func WithObserver(o Observer) ServiceOption {
	return func(s *Service) { s.observer = o }
}

func NewService(source Source, endpoints []string, opts Options, logger *zap.SugaredLogger, options ...ServiceOption) *Service {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	s := &Service{
		source:    source,
		endpoints: endpoints,
		opts:      opts.withDefaults(),
		now:       time.Now,
		logger:    logger,
	}
	for _, o := range options {
		o(s)
	}
	return s
}

// Options returns the effective defaults of the service.
func (s *Service) Options() Options { return s.opts }

func (s *Service) tripUpdates(ctx context.Context) []gtfsrt.TripUpdate {
	return gtfsrt.Collect(s.source.FetchAll(ctx, s.endpoints), s.logger)
}

// aggregateAll reports its total to the observer. RouteArrivals bypasses it.
func (s *Service) aggregateAll(updates []gtfsrt.TripUpdate, opts Options) map[string][]Prediction {
	out := Aggregate(updates, s.now().Unix(), opts)
	if s.observer != nil {
		n := 0
		for _, list := range out {
			n += len(list)
		}
		s.observer.ObservePredictions(n)
	}
	return out
}

// NextTrainsPerStation returns predictions for every stop. Non-positive
// arguments use the service defaults.
func (s *Service) NextTrainsPerStation(ctx context.Context, horizonMinutes, maxPerRoute int) map[string][]Prediction {
	opts := s.opts
	if horizonMinutes > 0 {
		opts.HorizonMinutes = horizonMinutes
	}
	if maxPerRoute > 0 {
		opts.MaxPerRoute = maxPerRoute
	}
	return s.aggregateAll(s.tripUpdates(ctx), opts)
}

// StationArrivals returns the predictions for one stop id, or an empty slice.
func (s *Service) StationArrivals(ctx context.Context, stopID string, horizonMinutes int) []Prediction {
	list := s.NextTrainsPerStation(ctx, horizonMinutes, 0)[stopID]
	if list == nil {
		return []Prediction{}
	}
	return list
}

// RouteArrivals aggregates only the trip updates of routeID.
func (s *Service) RouteArrivals(ctx context.Context, routeID string, horizonMinutes int) map[string][]Prediction {
	opts := s.opts
	if horizonMinutes > 0 {
		opts.HorizonMinutes = horizonMinutes
	}
	var filtered []gtfsrt.TripUpdate
	for _, tu := range s.tripUpdates(ctx) {
		if tu.RouteID == routeID {
			filtered = append(filtered, tu)
		}
	}
	return Aggregate(filtered, s.now().Unix(), opts)
}

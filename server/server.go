package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/theoremus-urban-solutions/mta-arrivals/arrivals"
	"github.com/theoremus-urban-solutions/mta-arrivals/metrics"
	"github.com/theoremus-urban-solutions/mta-arrivals/stations"
)

// Arrivals is the part of arrivals.Service the handlers need.
type Arrivals interface {
	StationArrivals(ctx context.Context, stopID string, horizonMinutes int) []arrivals.Prediction
	RouteArrivals(ctx context.Context, routeID string, horizonMinutes int) map[string][]arrivals.Prediction
}

// DefaultLimit is the number of arrivals returned when a request has no limit.
const DefaultLimit = 3

// Options configure the server. Non-positive HorizonMinutes and DefaultLimit
// fall back to the defaults.
type Options struct {
	Port           int
	HorizonMinutes int
	DefaultLimit   int
}

type Server struct {
	directory *stations.Directory
	arrivals  Arrivals
	metrics   *metrics.Collector
	opts      Options
	validate  *validator.Validate
	logger    *zap.SugaredLogger

	router     *mux.Router
	httpServer *http.Server
}

// New builds the router. collector may be nil, in which case /metrics is not
// registered and requests are not counted.
func New(dir *stations.Directory, svc Arrivals, collector *metrics.Collector, opts Options, logger *zap.SugaredLogger) *Server {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	if opts.HorizonMinutes <= 0 {
		opts.HorizonMinutes = arrivals.DefaultHorizonMinutes
	}
	if opts.DefaultLimit <= 0 {
		opts.DefaultLimit = DefaultLimit
	}
	s := &Server{
		directory: dir,
		arrivals:  svc,
		metrics:   collector,
		opts:      opts,
		validate:  validator.New(),
		logger:    logger,
	}
	s.router = s.routes()
	return s
}

func (s *Server) routes() *mux.Router {
	r := mux.NewRouter()
	r.Use(s.instrument)

	// search must be registered before the {stop_id} routes
	r.HandleFunc("/stations/search", s.handleSearch).Methods(http.MethodGet)
	r.HandleFunc("/stations", s.handleAllStations).Methods(http.MethodGet)
	r.HandleFunc("/stations/{stop_id}", s.handleStationInfo).Methods(http.MethodGet)
	r.HandleFunc("/stations/{stop_id}/arrivals", s.handleStationArrivals).Methods(http.MethodGet)
	r.HandleFunc("/routes/{route_id}/arrivals", s.handleRouteArrivals).Methods(http.MethodGet)
	r.HandleFunc("/api/health", s.handleHealth).Methods(http.MethodGet)
	if s.metrics != nil {
		r.Handle("/metrics", s.metrics.Handler()).Methods(http.MethodGet)
	}

	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, errorResponse{Detail: "Not Found"})
	})
	return r
}

// Handler returns the routed handler, mainly for tests.
func (s *Server) Handler() http.Handler { return s.router }

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (rec *statusRecorder) WriteHeader(code int) {
	rec.status = code
	rec.ResponseWriter.WriteHeader(code)
}

func (s *Server) instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		route := r.URL.Path
		if cur := mux.CurrentRoute(r); cur != nil {
			if tpl, err := cur.GetPathTemplate(); err == nil {
				route = tpl
			}
		}
		elapsed := time.Since(start)
		if s.metrics != nil {
			s.metrics.ObserveRequest(route, rec.status, elapsed)
		}
		s.logger.Debugw("request", "method", r.Method, "route", route, "status", rec.status, "elapsed", elapsed)
	})
}

// Start listens in the background. A listener failure is returned on errc.
func (s *Server) Start() <-chan error {
	addr := fmt.Sprintf(":%d", s.opts.Port)
	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	errc := make(chan error, 1)
	go func() {
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errc <- err
		}
		close(errc)
	}()
	s.logger.Infow("server listening", "addr", addr)
	return errc
}

func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer == nil {
		return nil
	}
	return s.httpServer.Shutdown(ctx)
}

// HandleGracefulShutdown blocks until SIGINT, SIGTERM or a listener failure,
// then drains connections for up to ten seconds.
func (s *Server) HandleGracefulShutdown(errc <-chan error) error {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigs)

	select {
	case sig := <-sigs:
		s.logger.Infow("shutdown signal received", "signal", sig.String())
	case err, ok := <-errc:
		if ok && err != nil {
			return fmt.Errorf("listen: %w", err)
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := s.Shutdown(ctx); err != nil {
		s.logger.Errorw("server shutdown error", "error", err)
		return err
	}
	s.logger.Info("server shut down successfully")
	return nil
}

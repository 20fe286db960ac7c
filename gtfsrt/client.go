package gtfsrt

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Fetch outcomes reported to an Observer.
const (
	OutcomeOK          = "ok"
	OutcomeFetchError  = "fetch_error"
	OutcomeDecodeError = "decode_error"
)

// Observer receives per-endpoint fetch statistics. The metrics package
// provides the Prometheus implementation.
type Observer interface {
	ObserveFetch(endpoint, outcome string, elapsed time.Duration, tripUpdates int)
	ObserveSkippedEntity()
}

// DefaultMaxBodyBytes caps one feed response. MTA feeds are a few MiB.
const DefaultMaxBodyBytes = 64 << 20

var errBodyTooLarge = errors.New("response body exceeds size limit")

type ClientOptions struct {
	Timeout       time.Duration // per endpoint; defaults to 10s
	MaxConcurrent int           // defaults to one goroutine per endpoint
	MaxBodyBytes  int64         // defaults to DefaultMaxBodyBytes
	UserAgent     string
	HTTPClient    *http.Client
	Observer      Observer
}

// Client fetches GTFS-RT trip-update feeds from HTTP URLs or local files.
type Client struct {
	httpClient *http.Client
	decoder    *Decoder
	opts       ClientOptions
	logger     *zap.SugaredLogger
}

// NewClient creates a new GTFS-RT client
func NewClient(opts ClientOptions, logger *zap.SugaredLogger) *Client {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 10 * time.Second
	}
	if opts.MaxBodyBytes <= 0 {
		opts.MaxBodyBytes = DefaultMaxBodyBytes
	}
	hc := opts.HTTPClient
	if hc == nil {
		hc = &http.Client{}
	}
	dec := NewDecoder(logger)
	if opts.Observer != nil {
		obs := opts.Observer
		dec.OnSkip = func(*EntityParseError) { obs.ObserveSkippedEntity() }
	}
	return &Client{httpClient: hc, decoder: dec, opts: opts, logger: logger}
}

// Fetch returns the raw protobuf bytes of one endpoint. Anything that is not
// an http(s) URL is read from the local filesystem.
func (c *Client) Fetch(ctx context.Context, endpoint string) ([]byte, error) {
	if !strings.HasPrefix(endpoint, "http://") && !strings.HasPrefix(endpoint, "https://") {
		b, err := os.ReadFile(endpoint)
		if err != nil {
			return nil, &FetchError{Endpoint: endpoint, Err: err}
		}
		return b, nil
	}

	ctx, cancel := context.WithTimeout(ctx, c.opts.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, &FetchError{Endpoint: endpoint, Err: err}
	}
	req.Header.Set("Accept", "application/x-protobuf")
	if c.opts.UserAgent != "" {
		req.Header.Set("User-Agent", c.opts.UserAgent)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &FetchError{Endpoint: endpoint, Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, &FetchError{
			Endpoint:   endpoint,
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("unexpected status %s", resp.Status),
		}
	}

	b, err := io.ReadAll(io.LimitReader(resp.Body, c.opts.MaxBodyBytes+1))
	if err != nil {
		return nil, &FetchError{Endpoint: endpoint, Err: err}
	}
	if int64(len(b)) > c.opts.MaxBodyBytes {
		return nil, &FetchError{Endpoint: endpoint, Err: errBodyTooLarge}
	}
	return b, nil
}

// FetchOne fetches and decodes a single endpoint.
func (c *Client) FetchOne(ctx context.Context, endpoint string) Result {
	start := time.Now()
	res := Result{Endpoint: endpoint}

	raw, err := c.Fetch(ctx, endpoint)
	if err == nil {
		res.Updates, err = c.decoder.Decode(raw)
	}
	res.Err = err

	if c.opts.Observer != nil {
		c.opts.Observer.ObserveFetch(endpoint, outcomeOf(err), time.Since(start), len(res.Updates))
	}
	return res
}

// FetchAll fetches every endpoint concurrently. It never fails as a whole:
// each endpoint's outcome is reported in the Result at the same index.
func (c *Client) FetchAll(ctx context.Context, endpoints []string) []Result {
	results := make([]Result, len(endpoints))

	var g errgroup.Group
	if c.opts.MaxConcurrent > 0 {
		g.SetLimit(c.opts.MaxConcurrent)
	}
	for i, ep := range endpoints {
		i, ep := i, ep
		g.Go(func() error {
			results[i] = c.FetchOne(ctx, ep)
			return nil
		})
	}
	_ = g.Wait()

	return results
}

// Collect concatenates the trip updates of successful results and logs the
// failures.
func Collect(results []Result, logger *zap.SugaredLogger) []TripUpdate {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	var all []TripUpdate
	for _, r := range results {
		if !r.OK() {
			logger.Warnw("feed unavailable", "endpoint", r.Endpoint, "error", r.Err)
			continue
		}
		all = append(all, r.Updates...)
	}
	return all
}

func outcomeOf(err error) string {
	var derr *DecodeError
	switch {
	case err == nil:
		return OutcomeOK
	case errors.As(err, &derr):
		return OutcomeDecodeError
	default:
		return OutcomeFetchError
	}
}

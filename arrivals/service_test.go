package arrivals

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/theoremus-urban-solutions/mta-arrivals/gtfsrt"
)

type fakeSource struct {
	results []gtfsrt.Result
	calls   int
	got     []string
}

func (f *fakeSource) FetchAll(_ context.Context, endpoints []string) []gtfsrt.Result {
	f.calls++
	f.got = endpoints
	return f.results
}

type countingObserver struct{ last int }

func (c *countingObserver) ObservePredictions(n int) { c.last = n }

func fixedClock(epoch int64) func() time.Time {
	return func() time.Time { return time.Unix(epoch, 0) }
}

func newTestService(src Source, opts ...ServiceOption) *Service {
	opts = append([]ServiceOption{WithClock(fixedClock(1000))}, opts...)
	return NewService(src, []string{"ace", "nqrw", "broken"}, Options{}, nil, opts...)
}

func sampleResults() []gtfsrt.Result {
	return []gtfsrt.Result{
		{Endpoint: "ace", Updates: []gtfsrt.TripUpdate{
			trip("a1", "A", stop("A27N", 1100), stop("A28N", 1300)),
			trip("c1", "C", stop("A27N", 1200)),
		}},
		{Endpoint: "nqrw", Updates: []gtfsrt.TripUpdate{
			trip("r1", "R", stop("R44N", 1500)),
			trip("r2", "R", stop("R44N", 1150), stop("R44S", 5000)),
		}},
		{Endpoint: "broken", Err: &gtfsrt.DecodeError{Length: 3, Err: errors.New("bad")}},
	}
}

func TestService_NextTrainsPerStation(t *testing.T) {
	src := &fakeSource{results: sampleResults()}
	obs := &countingObserver{}
	svc := newTestService(src, WithObserver(obs))

	out := svc.NextTrainsPerStation(context.Background(), 0, 0)

	assert.Equal(t, 1, src.calls)
	assert.Equal(t, []string{"ace", "nqrw", "broken"}, src.got)
	assert.Equal(t, []int64{1100, 1200}, arrivalTimes(out["A27N"]))
	assert.Equal(t, []int64{1150, 1500}, arrivalTimes(out["R44N"]))
	assert.NotContains(t, out, "R44S")
	assert.Equal(t, 5, obs.last)
}

func TestService_HorizonOverride(t *testing.T) {
	src := &fakeSource{results: sampleResults()}
	svc := newTestService(src)

	out := svc.NextTrainsPerStation(context.Background(), 90, 1)

	assert.Equal(t, []int64{1150, 5000}, append(arrivalTimes(out["R44N"]), arrivalTimes(out["R44S"])...))
}

func TestService_StationArrivals(t *testing.T) {
	svc := newTestService(&fakeSource{results: sampleResults()})

	list := svc.StationArrivals(context.Background(), "R44N", 60)
	require.Len(t, list, 2)
	assert.Equal(t, "r2", list[0].TripID)
	assert.Equal(t, int64(2), list[0].MinutesAway)

	none := svc.StationArrivals(context.Background(), "UNKNOWN", 60)
	assert.NotNil(t, none)
	assert.Empty(t, none)
}

func TestService_RouteArrivals(t *testing.T) {
	svc := newTestService(&fakeSource{results: sampleResults()})

	out := svc.RouteArrivals(context.Background(), "A", 60)

	assert.Len(t, out, 2)
	for _, list := range out {
		for _, p := range list {
			assert.Equal(t, "A", p.Route)
		}
	}
	assert.Empty(t, svc.RouteArrivals(context.Background(), "Z", 60))
}

func TestService_RouteArrivalsLeavesObserverAlone(t *testing.T) {
	obs := &countingObserver{last: -1}
	svc := newTestService(&fakeSource{results: sampleResults()}, WithObserver(obs))

	svc.RouteArrivals(context.Background(), "A", 60)
	assert.Equal(t, -1, obs.last)

	svc.NextTrainsPerStation(context.Background(), 0, 0)
	assert.Equal(t, 5, obs.last)

	svc.RouteArrivals(context.Background(), "C", 60)
	assert.Equal(t, 5, obs.last)
}

func TestService_AllFeedsDown(t *testing.T) {
	src := &fakeSource{results: []gtfsrt.Result{
		{Endpoint: "ace", Err: &gtfsrt.FetchError{Endpoint: "ace", StatusCode: 503}},
	}}
	svc := newTestService(src)

	assert.Empty(t, svc.NextTrainsPerStation(context.Background(), 0, 0))
}

func TestService_Defaults(t *testing.T) {
	svc := NewService(&fakeSource{}, nil, Options{}, nil)
	assert.Equal(t, Options{HorizonMinutes: DefaultHorizonMinutes, MaxPerRoute: DefaultMaxPerRoute}, svc.Options())
}

package arrivals

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/theoremus-urban-solutions/mta-arrivals/gtfsrt"
)

var defaultOpts = Options{HorizonMinutes: DefaultHorizonMinutes, MaxPerRoute: DefaultMaxPerRoute}

func ptr[T any](v T) *T { return &v }

func stop(id string, arrival int64) gtfsrt.StopTimeUpdate {
	return gtfsrt.StopTimeUpdate{StopID: id, ArrivalTime: ptr(arrival)}
}

func trip(id, route string, stops ...gtfsrt.StopTimeUpdate) gtfsrt.TripUpdate {
	return gtfsrt.TripUpdate{TripID: id, RouteID: route, StopUpdates: stops}
}

func arrivalTimes(list []Prediction) []int64 {
	out := make([]int64, 0, len(list))
	for _, p := range list {
		out = append(out, p.ArrivalTime)
	}
	return out
}

func TestAggregate_PerRouteCap(t *testing.T) {
	var updates []gtfsrt.TripUpdate
	for i, at := range []int64{1600, 1100, 1500, 1200, 1400, 1300} {
		updates = append(updates, trip(string(rune('a'+i)), "R", stop("A", at)))
	}

	out := Aggregate(updates, 1000, Options{HorizonMinutes: 60, MaxPerRoute: 5})

	require.Contains(t, out, "A")
	assert.Equal(t, []int64{1100, 1200, 1300, 1400, 1500}, arrivalTimes(out["A"]))
}

func TestAggregate_WindowBoundaries(t *testing.T) {
	const now = 1000
	cutoff := int64(now + 60*60)
	updates := []gtfsrt.TripUpdate{
		trip("t1", "1",
			stop("S", now),      // exactly now: excluded
			stop("S", now-30),   // past
			stop("S", now+1),    // just after now
			stop("S", cutoff),   // exactly cutoff: included
			stop("S", cutoff+1), // beyond horizon
		),
	}

	out := Aggregate(updates, now, Options{HorizonMinutes: 60, MaxPerRoute: 10})

	assert.Equal(t, []int64{now + 1, cutoff}, arrivalTimes(out["S"]))
	for _, p := range out["S"] {
		assert.Greater(t, p.ArrivalTime, int64(now))
		assert.LessOrEqual(t, p.ArrivalTime, cutoff)
	}
}

func TestAggregate_MinutesAwayIsFloored(t *testing.T) {
	updates := []gtfsrt.TripUpdate{
		trip("t1", "Q", stop("Q01", 1059), stop("Q02", 1060), stop("Q03", 1119), stop("Q04", 1120), stop("Q05", 1001)),
	}

	out := Aggregate(updates, 1000, defaultOpts)

	want := map[string]int64{"Q01": 0, "Q02": 1, "Q03": 1, "Q04": 2, "Q05": 0}
	for stopID, minutes := range want {
		require.Len(t, out[stopID], 1, stopID)
		p := out[stopID][0]
		assert.Equal(t, minutes, p.MinutesAway, stopID)
		assert.Equal(t, (p.ArrivalTime-1000)/60, p.MinutesAway)
	}
}

func TestAggregate_MergesRoutesChronologically(t *testing.T) {
	var updates []gtfsrt.TripUpdate
	// six frequent 4 trains and two 5 trains sharing a platform
	for i := int64(0); i < 6; i++ {
		updates = append(updates, trip("4-"+string(rune('a'+i)), "4", stop("631N", 1100+i*60)))
	}
	updates = append(updates,
		trip("5-a", "5", stop("631N", 1130)),
		trip("5-b", "5", stop("631N", 1800)),
	)

	out := Aggregate(updates, 1000, Options{HorizonMinutes: 60, MaxPerRoute: 3})

	list := out["631N"]
	assert.Equal(t, []int64{1100, 1130, 1160, 1220, 1800}, arrivalTimes(list))

	perRoute := map[string]int{}
	for i, p := range list {
		perRoute[p.Route]++
		if i > 0 {
			assert.LessOrEqual(t, list[i-1].ArrivalTime, p.ArrivalTime)
		}
	}
	assert.Equal(t, 3, perRoute["4"])
	assert.Equal(t, 2, perRoute["5"])
}

func TestAggregate_CapIsPerStation(t *testing.T) {
	var updates []gtfsrt.TripUpdate
	for i := int64(0); i < 4; i++ {
		updates = append(updates, trip("l"+string(rune('a'+i)), "L", stop("L01", 1100+i), stop("L02", 1200+i)))
	}

	out := Aggregate(updates, 1000, Options{HorizonMinutes: 60, MaxPerRoute: 2})

	assert.Len(t, out["L01"], 2)
	assert.Len(t, out["L02"], 2)
}

func TestAggregate_NoArrivalContributesNothing(t *testing.T) {
	updates := []gtfsrt.TripUpdate{
		{
			TripID:  "dep-only",
			RouteID: "G",
			StopUpdates: []gtfsrt.StopTimeUpdate{
				{StopID: "G22", DepartureTime: ptr(int64(1200))},
				{StopID: "G24", Delay: ptr(int32(30))},
			},
		},
	}

	out := Aggregate(updates, 1000, defaultOpts)
	assert.Empty(t, out)
}

func TestAggregate_OmitsEmptyStations(t *testing.T) {
	updates := []gtfsrt.TripUpdate{
		trip("t1", "A", stop("PAST", 900), stop("FUTURE", 1100), stop("FAR", 99999)),
	}

	out := Aggregate(updates, 1000, defaultOpts)

	assert.Equal(t, []string{"FUTURE"}, keys(out))
	for _, list := range out {
		assert.NotEmpty(t, list)
	}
}

func TestAggregate_PredictionFields(t *testing.T) {
	dir := 0
	updates := []gtfsrt.TripUpdate{
		{
			TripID:      "trip-9",
			RouteID:     "N",
			DirectionID: &dir,
			StopUpdates: []gtfsrt.StopTimeUpdate{
				{StopID: "R01N", ArrivalTime: ptr(int64(1300)), Delay: ptr(int32(120))},
				{StopID: "R03N", ArrivalTime: ptr(int64(1400))},
			},
		},
		trip("trip-10", "W", stop("R01N", 1350)),
	}

	out := Aggregate(updates, 1000, defaultOpts)

	first := out["R01N"][0]
	assert.Equal(t, Prediction{Route: "N", ArrivalTime: 1300, MinutesAway: 5, TripID: "trip-9", DirectionID: &dir, Delay: 120}, first)

	noDelay := out["R03N"][0]
	assert.Equal(t, int32(0), noDelay.Delay)

	noDirection := out["R01N"][1]
	assert.Nil(t, noDirection.DirectionID)
}

func TestAggregate_TiesKeepInputOrder(t *testing.T) {
	updates := []gtfsrt.TripUpdate{
		trip("first", "A", stop("X", 1200)),
		trip("second", "C", stop("X", 1200)),
		trip("third", "A", stop("X", 1200)),
		trip("early", "E", stop("X", 1100)),
	}

	out := Aggregate(updates, 1000, defaultOpts)

	ids := []string{}
	for _, p := range out["X"] {
		ids = append(ids, p.TripID)
	}
	assert.Equal(t, []string{"early", "first", "third", "second"}, ids)
}

func TestAggregate_DefaultOptions(t *testing.T) {
	var updates []gtfsrt.TripUpdate
	for i := int64(0); i < 7; i++ {
		updates = append(updates, trip("t"+string(rune('a'+i)), "7", stop("701N", 1000+60*59+i)))
	}
	updates = append(updates, trip("late", "7", stop("702N", 1000+60*61)))

	out := Aggregate(updates, 1000, defaultOpts)

	assert.Len(t, out["701N"], DefaultMaxPerRoute)
	assert.NotContains(t, out, "702N")
}

func TestAggregate_ZeroHorizonIsEmptyWindow(t *testing.T) {
	updates := []gtfsrt.TripUpdate{
		trip("a", "R", stop("A", 1100)),
		trip("b", "R", stop("A", 1200)),
	}

	for _, horizon := range []int{0, -10} {
		out := Aggregate(updates, 1000, Options{HorizonMinutes: horizon, MaxPerRoute: 5})
		assert.NotNil(t, out)
		assert.Empty(t, out, "horizon %d", horizon)
	}
}

func TestAggregate_ZeroCapKeepsNothing(t *testing.T) {
	updates := []gtfsrt.TripUpdate{
		trip("a", "R", stop("A", 1100)),
		trip("b", "N", stop("B", 1200)),
	}

	for _, maxPerRoute := range []int{0, -1} {
		out := Aggregate(updates, 1000, Options{HorizonMinutes: 60, MaxPerRoute: maxPerRoute})
		assert.NotNil(t, out)
		assert.Empty(t, out, "cap %d", maxPerRoute)
	}
}

func TestAggregate_Empty(t *testing.T) {
	assert.Empty(t, Aggregate(nil, 1000, defaultOpts))
}

func keys(m map[string][]Prediction) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}

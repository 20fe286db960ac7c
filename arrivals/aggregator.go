package arrivals

import (
	"slices"

	"github.com/theoremus-urban-solutions/mta-arrivals/gtfsrt"
)

const (
	DefaultHorizonMinutes = 60
	DefaultMaxPerRoute    = 5
)

// Prediction is one upcoming arrival of a trip at a stop.
type Prediction struct {
	Route       string `json:"route"`
	ArrivalTime int64  `json:"arrival_time"`
	MinutesAway int64  `json:"minutes_away"`
	TripID      string `json:"trip_id"`
	DirectionID *int   `json:"direction_id"`
	Delay       int32  `json:"delay"`
}

// Options bound the aggregation. Aggregate uses them as given; NewService
// fills zero values with the defaults.
type Options struct {
	HorizonMinutes int
	MaxPerRoute    int
}

func (o Options) withDefaults() Options {
	if o.HorizonMinutes <= 0 {
		o.HorizonMinutes = DefaultHorizonMinutes
	}
	if o.MaxPerRoute <= 0 {
		o.MaxPerRoute = DefaultMaxPerRoute
	}
	return o
}

// routeGroups holds one stop's predictions split by route. order records
// routes in first-seen order so the merge does not depend on map iteration.
type routeGroups struct {
	order   []string
	byRoute map[string][]Prediction
}

func newRouteGroups() *routeGroups {
	return &routeGroups{byRoute: map[string][]Prediction{}}
}

func (g *routeGroups) add(route string, p Prediction) {
	if _, ok := g.byRoute[route]; !ok {
		g.order = append(g.order, route)
	}
	g.byRoute[route] = append(g.byRoute[route], p)
}

// Aggregate groups every qualifying stop-time update by stop id.
//
// An update qualifies when it has an arrival time with now < arrival <= cutoff,
// cutoff being now + HorizonMinutes*60. Each (stop, route) list is sorted by
// arrival and cut to MaxPerRoute before the routes of a stop are merged and
// sorted again. Both sorts are stable. Stops without predictions are absent,
// so a non-positive horizon or cap yields an empty map.
func Aggregate(updates []gtfsrt.TripUpdate, now int64, opts Options) map[string][]Prediction {
	if opts.HorizonMinutes <= 0 || opts.MaxPerRoute <= 0 {
		return map[string][]Prediction{}
	}
	cutoff := now + int64(opts.HorizonMinutes)*60

	stopOrder := []string{}
	stops := map[string]*routeGroups{}

	for _, trip := range updates {
		for _, su := range trip.StopUpdates {
			if su.ArrivalTime == nil {
				continue
			}
			arrival := *su.ArrivalTime
			if arrival <= now || arrival > cutoff {
				continue
			}

			var delay int32
			if su.Delay != nil {
				delay = *su.Delay
			}

			groups, ok := stops[su.StopID]
			if !ok {
				groups = newRouteGroups()
				stops[su.StopID] = groups
				stopOrder = append(stopOrder, su.StopID)
			}
			groups.add(trip.RouteID, Prediction{
				Route:       trip.RouteID,
				ArrivalTime: arrival,
				MinutesAway: (arrival - now) / 60,
				TripID:      trip.TripID,
				DirectionID: trip.DirectionID,
				Delay:       delay,
			})
		}
	}

	out := make(map[string][]Prediction, len(stops))
	for _, stopID := range stopOrder {
		groups := stops[stopID]
		var merged []Prediction
		for _, route := range groups.order {
			list := groups.byRoute[route]
			slices.SortStableFunc(list, byArrival)
			if len(list) > opts.MaxPerRoute {
				list = list[:opts.MaxPerRoute]
			}
			merged = append(merged, list...)
		}
		slices.SortStableFunc(merged, byArrival)
		out[stopID] = merged
	}
	return out
}

func byArrival(a, b Prediction) int {
	switch {
	case a.ArrivalTime < b.ArrivalTime:
		return -1
	case a.ArrivalTime > b.ArrivalTime:
		return 1
	}
	return 0
}

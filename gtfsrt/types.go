package gtfsrt

// TripUpdate is one trip's real-time state as reported by a feed.
// StopUpdates keeps the order the feed used, which is not necessarily
// chronological.
type TripUpdate struct {
	TripID      string
	RouteID     string
	DirectionID *int // 0 or 1, nil when the feed omits it
	StopUpdates []StopTimeUpdate
}

// StopTimeUpdate is the predicted timing of one stop within a trip.
// Every field except StopID is optional.
type StopTimeUpdate struct {
	StopID        string
	ArrivalTime   *int64 // epoch seconds
	DepartureTime *int64 // epoch seconds
	Delay         *int32 // seconds, taken from the arrival event
	StopSequence  *uint32
}

// Result is the outcome of fetching and decoding one endpoint.
// Exactly one of Updates and Err is meaningful.
type Result struct {
	Endpoint string
	Updates  []TripUpdate
	Err      error
}

func (r Result) OK() bool { return r.Err == nil }

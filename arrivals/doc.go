// Package arrivals turns decoded trip updates into per-station arrival
// predictions.
//
// Aggregate is the pure core: it keeps stop-time updates whose arrival falls
// in (now, now+horizon], caps each route at each stop, then merges the routes
// of a stop back into one chronological list. Service wires Aggregate to a
// feed source and a clock for the query surfaces.
package arrivals

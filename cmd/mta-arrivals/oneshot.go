package main

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/theoremus-urban-solutions/mta-arrivals/arrivals"
	"github.com/theoremus-urban-solutions/mta-arrivals/stations"
)

type stationArrivals interface {
	NextTrainsPerStation(ctx context.Context, horizonMinutes, maxPerRoute int) map[string][]arrivals.Prediction
}

// printNextTrains runs one pipeline pass and prints up to n trains of route
// for each stop id.
func printNextTrains(ctx context.Context, w io.Writer, svc stationArrivals, dir *stations.Directory, route string, stopIDs []string, n int) {
	all := svc.NextTrainsPerStation(ctx, 0, 0)

	title := "requested stops"
	if len(stopIDs) > 0 {
		if name, ok := dir.NameOf(stopIDs[0]); ok {
			title = name
		}
	}
	fmt.Fprintf(w, "Next %s trains at %s:\n", route, title)

	for _, stopID := range stopIDs {
		name, ok := dir.NameOf(stopID)
		if !ok {
			name = stopID
		}
		fmt.Fprintf(w, "\n%s - %s (%s):\n", name, directionLabel(stopID), stopID)

		shown := 0
		for _, p := range all[stopID] {
			if p.Route != route || shown >= n {
				continue
			}
			fmt.Fprintf(w, "  %s train: %d minutes away\n", p.Route, p.MinutesAway)
			shown++
		}
		if shown == 0 {
			fmt.Fprintf(w, "  No %s trains found in next hour\n", route)
		}
	}
}

func directionLabel(stopID string) string {
	switch {
	case strings.HasSuffix(stopID, "N"):
		return "Northbound"
	case strings.HasSuffix(stopID, "S"):
		return "Southbound"
	default:
		return "Both directions"
	}
}

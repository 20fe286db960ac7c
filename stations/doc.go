/*
Package stations maps stop ids to station names and back.

The directory is built once from a GTFS stops.txt file (plain CSV or inside a
GTFS zip) and is read-only afterwards. Several stop ids usually share one name:
the platforms and directions of a single physical station.

	dir := stations.Load("data/stops.txt", logger)
	name, ok := dir.NameOf("R44N")      // "86 St", true
	matches := dir.Search("86 st")      // {"86 St": ["R44", "R44N", "R44S"], ...}

A missing or unreadable file yields an empty directory and a warning, never an
error. Reload builds a complete replacement table and publishes it with one
atomic pointer swap, so readers never take a lock.
*/
package stations

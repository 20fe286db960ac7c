// Package gtfsrt fetches and decodes GTFS-Realtime trip-update feeds.
//
// Decoder turns the raw protobuf bytes of one FeedMessage into TripUpdate
// records. A broken envelope fails the whole message with a *DecodeError; a
// broken entity inside a good envelope is logged and skipped.
//
// Client fetches many endpoints concurrently, each under its own timeout, and
// reports one Result per endpoint. Collect merges the successes:
//
//	client := gtfsrt.NewClient(gtfsrt.ClientOptions{Timeout: 10 * time.Second}, logger)
//	results := client.FetchAll(ctx, urls)
//	updates := gtfsrt.Collect(results, logger)
package gtfsrt

// Package feedtest builds GTFS-Realtime FeedMessage bytes for tests.
package feedtest

import (
	"testing"

	gtfsrtpb "github.com/MobilityData/gtfs-realtime-bindings/golang/gtfs"
	"google.golang.org/protobuf/encoding/protowire"
	"google.golang.org/protobuf/proto"
)

// Stop describes one stop-time update. Nil times are left out of the message.
type Stop struct {
	ID        string
	Arrival   *int64
	Departure *int64
	Delay     *int32
	Sequence  *uint32
}

// Trip describes one trip-update entity.
type Trip struct {
	ID        string
	Route     string
	Direction *uint32
	Stops     []Stop
}

func At(epoch int64) *int64 { return &epoch }

func Delay(sec int32) *int32 { return &sec }

func Seq(n uint32) *uint32 { return &n }

func Direction(d uint32) *uint32 { return &d }

// Header returns a valid FULL_DATASET header.
func Header() *gtfsrtpb.FeedHeader {
	inc := gtfsrtpb.FeedHeader_FULL_DATASET
	return &gtfsrtpb.FeedHeader{
		GtfsRealtimeVersion: proto.String("2.0"),
		Incrementality:      &inc,
		Timestamp:           proto.Uint64(1700000000),
	}
}

// Entity converts a Trip into a FeedEntity whose id is the trip id.
func Entity(trip Trip) *gtfsrtpb.FeedEntity {
	stus := make([]*gtfsrtpb.TripUpdate_StopTimeUpdate, 0, len(trip.Stops))
	for _, s := range trip.Stops {
		stu := &gtfsrtpb.TripUpdate_StopTimeUpdate{
			StopId:       proto.String(s.ID),
			StopSequence: s.Sequence,
		}
		if s.Arrival != nil || s.Delay != nil {
			stu.Arrival = &gtfsrtpb.TripUpdate_StopTimeEvent{Time: s.Arrival, Delay: s.Delay}
		}
		if s.Departure != nil {
			stu.Departure = &gtfsrtpb.TripUpdate_StopTimeEvent{Time: s.Departure}
		}
		stus = append(stus, stu)
	}
	desc := &gtfsrtpb.TripDescriptor{
		TripId:      proto.String(trip.ID),
		DirectionId: trip.Direction,
	}
	if trip.Route != "" {
		desc.RouteId = proto.String(trip.Route)
	}
	return &gtfsrtpb.FeedEntity{
		Id: proto.String(trip.ID),
		TripUpdate: &gtfsrtpb.TripUpdate{
			Trip:           desc,
			StopTimeUpdate: stus,
		},
	}
}

// Build marshals a FeedMessage holding one entity per trip.
func Build(t testing.TB, trips ...Trip) []byte {
	t.Helper()
	entities := make([]*gtfsrtpb.FeedEntity, 0, len(trips))
	for _, tr := range trips {
		entities = append(entities, Entity(tr))
	}
	return Marshal(t, &gtfsrtpb.FeedMessage{Header: Header(), Entity: entities})
}

func Marshal(t testing.TB, m proto.Message) []byte {
	t.Helper()
	b, err := proto.Marshal(m)
	if err != nil {
		t.Fatalf("marshal feed: %v", err)
	}
	return b
}

// AppendRawEntity appends an entity field with arbitrary payload bytes,
// which lets tests plant a malformed entity inside a valid envelope.
func AppendRawEntity(msg, payload []byte) []byte {
	msg = protowire.AppendTag(msg, 2, protowire.BytesType)
	return protowire.AppendBytes(msg, payload)
}

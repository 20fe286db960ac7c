package gtfsrt

import (
	"errors"

	gtfsrtpb "github.com/MobilityData/gtfs-realtime-bindings/golang/gtfs"
	"go.uber.org/zap"
	"google.golang.org/protobuf/encoding/protowire"
	"google.golang.org/protobuf/proto"
)

// FeedMessage field numbers.
const (
	fieldHeader protowire.Number = 1
	fieldEntity protowire.Number = 2
)

var (
	errMissingHeader = errors.New("feed message has no header")
	errMissingTrip   = errors.New("trip update has no trip descriptor")
)

// Decoder converts raw FeedMessage bytes into TripUpdates.
// A Decoder holds no per-message state and is safe for concurrent use.
type Decoder struct {
	logger *zap.SugaredLogger

	// OnSkip, when set, is called for every entity dropped as malformed.
	OnSkip func(*EntityParseError)
}

func NewDecoder(logger *zap.SugaredLogger) *Decoder {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &Decoder{logger: logger}
}

// Decode parses one FeedMessage. The envelope is walked field by field so
// that each entity can be unmarshalled on its own: a broken entity is logged
// and skipped, while broken framing or header fails the whole message.
func (d *Decoder) Decode(raw []byte) ([]TripUpdate, error) {
	header, entities, err := splitEnvelope(raw)
	if err != nil {
		return nil, &DecodeError{Length: len(raw), Err: err}
	}
	var h gtfsrtpb.FeedHeader
	if err := proto.Unmarshal(header, &h); err != nil {
		return nil, &DecodeError{Length: len(raw), Err: err}
	}

	updates := make([]TripUpdate, 0, len(entities))
	for i, b := range entities {
		tu, perr := decodeEntity(i, b)
		if perr != nil {
			d.logger.Warnw("skipping malformed entity", "index", perr.Index, "entity_id", perr.EntityID, "error", perr.Err)
			if d.OnSkip != nil {
				d.OnSkip(perr)
			}
			continue
		}
		if tu != nil {
			updates = append(updates, *tu)
		}
	}
	return updates, nil
}

// splitEnvelope returns the header bytes and the raw bytes of every entity.
// Unknown fields are skipped.
func splitEnvelope(raw []byte) ([]byte, [][]byte, error) {
	var (
		header     []byte
		haveHeader bool
		entities   [][]byte
	)
	b := raw
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return nil, nil, protowire.ParseError(n)
		}
		b = b[n:]

		if typ == protowire.BytesType && (num == fieldHeader || num == fieldEntity) {
			v, m := protowire.ConsumeBytes(b)
			if m < 0 {
				return nil, nil, protowire.ParseError(m)
			}
			b = b[m:]
			if num == fieldHeader {
				header, haveHeader = v, true
			} else {
				entities = append(entities, v)
			}
			continue
		}

		m := protowire.ConsumeFieldValue(num, typ, b)
		if m < 0 {
			return nil, nil, protowire.ParseError(m)
		}
		b = b[m:]
	}
	if !haveHeader {
		return nil, nil, errMissingHeader
	}
	return header, entities, nil
}

// decodeEntity returns nil, nil for entities that carry no trip update.
func decodeEntity(index int, b []byte) (*TripUpdate, *EntityParseError) {
	var e gtfsrtpb.FeedEntity
	if err := proto.Unmarshal(b, &e); err != nil {
		return nil, &EntityParseError{Index: index, Err: err}
	}
	tu := e.GetTripUpdate()
	if tu == nil {
		return nil, nil
	}
	trip := tu.GetTrip()
	if trip == nil {
		return nil, &EntityParseError{Index: index, EntityID: e.GetId(), Err: errMissingTrip}
	}

	out := &TripUpdate{
		TripID:      trip.GetTripId(),
		RouteID:     trip.GetRouteId(),
		StopUpdates: make([]StopTimeUpdate, 0, len(tu.GetStopTimeUpdate())),
	}
	if trip.DirectionId != nil {
		dir := int(*trip.DirectionId)
		out.DirectionID = &dir
	}

	for _, stu := range tu.GetStopTimeUpdate() {
		if stu.StopId == nil {
			continue
		}
		su := StopTimeUpdate{StopID: *stu.StopId}
		if stu.Arrival != nil {
			if stu.Arrival.Time != nil {
				t := *stu.Arrival.Time
				su.ArrivalTime = &t
			}
			if stu.Arrival.Delay != nil {
				delay := *stu.Arrival.Delay
				su.Delay = &delay
			}
		}
		if stu.Departure != nil && stu.Departure.Time != nil {
			t := *stu.Departure.Time
			su.DepartureTime = &t
		}
		if stu.StopSequence != nil {
			seq := *stu.StopSequence
			su.StopSequence = &seq
		}
		out.StopUpdates = append(out.StopUpdates, su)
	}
	return out, nil
}

package gtfsrt

import "fmt"

// FetchError reports a network failure, timeout or non-200 response for one endpoint.
type FetchError struct {
	Endpoint   string
	StatusCode int // 0 when no response was received
	Err        error
}

func (e *FetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("fetch %s: HTTP %d", e.Endpoint, e.StatusCode)
	}
	return fmt.Sprintf("fetch %s: %v", e.Endpoint, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// DecodeError reports a FeedMessage envelope that could not be parsed.
type DecodeError struct {
	Length int
	Err    error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode feed message (%d bytes): %v", e.Length, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// EntityParseError reports one malformed entity inside a valid envelope.
type EntityParseError struct {
	Index    int
	EntityID string
	Err      error
}

func (e *EntityParseError) Error() string {
	if e.EntityID != "" {
		return fmt.Sprintf("entity %d (%s): %v", e.Index, e.EntityID, e.Err)
	}
	return fmt.Sprintf("entity %d: %v", e.Index, e.Err)
}

func (e *EntityParseError) Unwrap() error { return e.Err }

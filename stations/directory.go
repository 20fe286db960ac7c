package stations

import (
	"io"
	"strings"
	"sync/atomic"

	"go.uber.org/zap"
)

// table is immutable once published.
type table struct {
	names     map[string]string   // stop_id -> stop_name
	stopIDs   map[string][]string // stop_name -> stop_ids, first-seen order
	nameOrder []string            // stop_names, first-seen order
}

func newTable() *table {
	return &table{
		names:   map[string]string{},
		stopIDs: map[string][]string{},
	}
}

func (t *table) add(stopID, name string) {
	if stopID == "" {
		return
	}
	if prev, ok := t.names[stopID]; ok && prev != name {
		t.removeID(prev, stopID)
	}
	t.names[stopID] = name

	ids, ok := t.stopIDs[name]
	if !ok {
		t.nameOrder = append(t.nameOrder, name)
	}
	for _, id := range ids {
		if id == stopID {
			return
		}
	}
	t.stopIDs[name] = append(ids, stopID)
}

// removeID drops stopID from a name it no longer maps to. A name left with
// no stop ids is forgotten entirely.
func (t *table) removeID(name, stopID string) {
	ids := t.stopIDs[name]
	for i, id := range ids {
		if id == stopID {
			ids = append(ids[:i:i], ids[i+1:]...)
			break
		}
	}
	if len(ids) > 0 {
		t.stopIDs[name] = ids
		return
	}
	delete(t.stopIDs, name)
	for i, n := range t.nameOrder {
		if n == name {
			t.nameOrder = append(t.nameOrder[:i:i], t.nameOrder[i+1:]...)
			break
		}
	}
}

// StationInfo describes one platform-level stop.
type StationInfo struct {
	StopID       string   `json:"stop_id"`
	StationName  string   `json:"station_name"`
	Direction    *string  `json:"direction"`
	AllPlatforms []string `json:"all_platforms"`
}

// Directory is a concurrent-safe, read-mostly stop id / name lookup.
type Directory struct {
	path    string
	current atomic.Pointer[table]
	logger  *zap.SugaredLogger
}

// Load reads path once. Failures are logged and leave the directory empty.
func Load(path string, logger *zap.SugaredLogger) *Directory {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	d := &Directory{path: path, logger: logger}
	d.current.Store(newTable())
	if err := d.Reload(); err != nil {
		logger.Warnw("stations file unavailable, starting with an empty directory", "path", path, "error", err)
	}
	return d
}

// FromReader builds a directory from stops.txt content.
func FromReader(r io.Reader, logger *zap.SugaredLogger) (*Directory, error) {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	t, err := parseStops(r)
	if err != nil {
		return nil, err
	}
	d := &Directory{logger: logger}
	d.current.Store(t)
	return d, nil
}

// Reload re-reads the source file and swaps the new table in. On error the
// current table is kept.
func (d *Directory) Reload() error {
	if d.path == "" {
		return nil
	}
	t, err := readTable(d.path)
	if err != nil {
		return err
	}
	d.current.Store(t)
	d.logger.Infow("stations loaded", "path", d.path, "stops", len(t.names), "stations", len(t.nameOrder))
	return nil
}

func (d *Directory) table() *table { return d.current.Load() }

// NameOf returns the station name of a stop id.
func (d *Directory) NameOf(stopID string) (string, bool) {
	name, ok := d.table().names[stopID]
	return name, ok
}

// StopIDs returns every stop id that shares the exact station name.
func (d *Directory) StopIDs(name string) []string {
	return clone(d.table().stopIDs[name])
}

// Search matches station names containing query, ignoring case.
func (d *Directory) Search(query string) map[string][]string {
	t := d.table()
	q := strings.ToLower(query)
	out := map[string][]string{}
	for _, name := range t.nameOrder {
		if strings.Contains(strings.ToLower(name), q) {
			out[name] = clone(t.stopIDs[name])
		}
	}
	return out
}

// AllNames lists unique station names in file order.
func (d *Directory) AllNames() []string {
	return clone(d.table().nameOrder)
}

// Len is the number of known stop ids.
func (d *Directory) Len() int { return len(d.table().names) }

// Info describes a stop id. Direction follows the N/S suffix convention of
// the NYC subway stop ids; it is nil for stops without one.
func (d *Directory) Info(stopID string) (StationInfo, bool) {
	t := d.table()
	name, ok := t.names[stopID]
	if !ok {
		return StationInfo{}, false
	}
	info := StationInfo{
		StopID:       stopID,
		StationName:  name,
		AllPlatforms: clone(t.stopIDs[name]),
	}
	var dir string
	switch {
	case strings.HasSuffix(stopID, "N"):
		dir = "Northbound"
	case strings.HasSuffix(stopID, "S"):
		dir = "Southbound"
	}
	if dir != "" {
		info.Direction = &dir
	}
	return info, true
}

func clone(s []string) []string {
	out := make([]string, len(s))
	copy(out, s)
	return out
}

package stations

import (
	"archive/zip"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

var errNoStopsFile = errors.New("stops.txt not found in archive")

// readTable builds a table from a stops.txt file or a GTFS zip holding one.
func readTable(path string) (*table, error) {
	if strings.HasSuffix(strings.ToLower(path), ".zip") {
		return readZip(path)
	}
	return readFile(path)
}

func readFile(path string) (*table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return parseStops(f)
}

func readZip(path string) (*table, error) {
	zr, err := zip.OpenReader(path)
	if err != nil {
		return nil, err
	}
	defer zr.Close()
	for _, f := range zr.File {
		if strings.ToLower(f.Name) != "stops.txt" {
			continue
		}
		r, err := f.Open()
		if err != nil {
			return nil, err
		}
		defer r.Close()
		return parseStops(r)
	}
	return nil, errNoStopsFile
}

// parseStops reads a CSV with a header row containing stop_id and stop_name.
// Values are trimmed; rows too short to hold both columns are skipped.
func parseStops(r io.Reader) (*table, error) {
	csvr := csv.NewReader(r)
	csvr.FieldsPerRecord = -1
	head, err := csvr.Read()
	if err == io.EOF {
		return newTable(), nil
	}
	if err != nil {
		return nil, err
	}
	if len(head) > 0 {
		head[0] = strings.TrimPrefix(head[0], "\ufeff")
	}
	idx := func(col string) int {
		for i, h := range head {
			if strings.EqualFold(strings.TrimSpace(h), col) {
				return i
			}
		}
		return -1
	}
	sID := idx("stop_id")
	sN := idx("stop_name")
	if sID < 0 || sN < 0 {
		return nil, fmt.Errorf("stops file needs stop_id and stop_name columns, got %v", head)
	}

	t := newTable()
	for {
		row, err := csvr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		if sID >= len(row) || sN >= len(row) {
			continue
		}
		t.add(strings.TrimSpace(row[sID]), strings.TrimSpace(row[sN]))
	}
	return t, nil
}

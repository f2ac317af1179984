package snapshot

import (
	"crossing-delta/internal/domain"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
)

// Column names shared by snapshot and address files.
const (
	colLat      = "lat"
	colLong     = "long"
	colDistance = "distance"
	colDuration = "duration"
)

// readHeader consumes the header row and returns the index of each column.
// Every name in required must be present.
func readHeader(r *csv.Reader, path string, required ...string) (map[string]int, error) {
	header, err := r.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, &domain.ParseError{Path: path, Line: 1, Err: errors.New("missing header row")}
		}
		return nil, toParseError(path, err)
	}

	idx := make(map[string]int, len(header))
	for i, h := range header {
		// Tolerate a UTF-8 BOM written by spreadsheet exports.
		h = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
		if _, dup := idx[h]; dup {
			return nil, &domain.ParseError{Path: path, Line: 1, Column: h, Err: errors.New("duplicate column")}
		}
		idx[h] = i
	}

	for _, name := range required {
		if _, ok := idx[name]; !ok {
			return nil, &domain.ParseError{Path: path, Line: 1, Column: name, Err: errors.New("missing required column")}
		}
	}

	return idx, nil
}

// toParseError converts encoding/csv failures into domain parse errors.
func toParseError(path string, err error) error {
	var pe *csv.ParseError
	if errors.As(err, &pe) {
		return &domain.ParseError{Path: path, Line: pe.Line, Err: pe.Err}
	}
	return fmt.Errorf("read %s: %w", path, err)
}

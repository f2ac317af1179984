package snapshot

import (
	"context"
	"crossing-delta/internal/domain"
	"crossing-delta/internal/platform/obs"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
)

// CSVAddressSource reads property coordinates from a CSV file whose header
// names at least the lat and long columns. Other columns are ignored.
type CSVAddressSource struct {
	Path string
}

func NewCSVAddressSource(path string) *CSVAddressSource {
	return &CSVAddressSource{Path: path}
}

// Return all addresses in file order. Duplicates are kept.
func (s *CSVAddressSource) ListAddresses(ctx context.Context) (_ []domain.Coordinates, err error) {
	defer obs.Time(ctx, "addresses.List")(&err)

	f, err := os.Open(s.Path)
	if err != nil {
		return nil, fmt.Errorf("list addresses: %w", err)
	}
	defer f.Close()

	out, err := ReadAddresses(f, s.Path)
	if err != nil {
		return nil, fmt.Errorf("list addresses: %w", err)
	}
	return out, nil
}

// ReadAddresses decodes an address list from r. name is only used in errors.
func ReadAddresses(r io.Reader, name string) ([]domain.Coordinates, error) {
	cr := csv.NewReader(r)
	cr.ReuseRecord = true

	idx, err := readHeader(cr, name, colLat, colLong)
	if err != nil {
		return nil, err
	}

	out := make([]domain.Coordinates, 0, 256)
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, toParseError(name, err)
		}
		line, _ := cr.FieldPos(0)

		c, err := parseCoordinates(rec, idx, name, line)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}

	return out, nil
}

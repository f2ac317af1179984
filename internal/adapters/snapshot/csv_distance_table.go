package snapshot

import (
	"bufio"
	"crossing-delta/internal/domain"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

var tableColumns = []string{colLat, colLong, colDistance, colDuration}

// LoadDistanceTable reads a snapshot written by SaveDistanceTable.
// A missing file yields an empty table.
func LoadDistanceTable(path string) (*domain.DistanceTable, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return domain.NewDistanceTable(), nil
		}
		return nil, fmt.Errorf("load distance table: %w", err)
	}
	defer f.Close()

	t, err := ReadDistanceTable(f, path)
	if err != nil {
		return nil, fmt.Errorf("load distance table: %w", err)
	}
	return t, nil
}

// ReadDistanceTable decodes a snapshot from r. name is only used in errors.
func ReadDistanceTable(r io.Reader, name string) (*domain.DistanceTable, error) {
	cr := csv.NewReader(r)
	cr.ReuseRecord = true

	idx, err := readHeader(cr, name, tableColumns...)
	if err != nil {
		return nil, err
	}

	out := domain.NewDistanceTable()
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, toParseError(name, err)
		}
		line, _ := cr.FieldPos(0)

		coord, err := parseCoordinates(rec, idx, name, line)
		if err != nil {
			return nil, err
		}

		meters, err := parseInt(rec, idx, colDistance, name, line)
		if err != nil {
			return nil, err
		}
		seconds, err := parseInt(rec, idx, colDuration, name, line)
		if err != nil {
			return nil, err
		}

		if out.Has(coord) {
			return nil, &domain.ParseError{
				Path: name, Line: line,
				Err: fmt.Errorf("duplicate coordinate %s", coord),
			}
		}
		out.Put(coord, domain.TravelMeasurement{DistanceMeters: meters, DurationSeconds: seconds})
	}

	return out, nil
}

// SaveDistanceTable writes the table to path, replacing any previous
// snapshot atomically.
func SaveDistanceTable(path string, t *domain.DistanceTable) (err error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("save distance table: create dir %q: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("save distance table: create temp file: %w", err)
	}
	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmp.Name())
		}
	}()

	if err := WriteDistanceTable(tmp, t); err != nil {
		return fmt.Errorf("save distance table %q: %w", path, err)
	}
	if err := tmp.Sync(); err != nil {
		return fmt.Errorf("save distance table: sync: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("save distance table: close: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("save distance table: rename: %w", err)
	}

	return nil
}

// WriteDistanceTable encodes the table: a quoted header row, then one row
// per coordinate with unquoted numeric fields.
func WriteDistanceTable(w io.Writer, t *domain.DistanceTable) error {
	bw := bufio.NewWriter(w)

	quoted := make([]string, len(tableColumns))
	for i, c := range tableColumns {
		quoted[i] = strconv.Quote(c)
	}
	if _, err := bw.WriteString(strings.Join(quoted, ",") + "\n"); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	cw := csv.NewWriter(bw)
	rec := make([]string, len(tableColumns))
	for _, r := range t.Rows() {
		rec[0] = domain.FormatDegrees(r.Coordinates.Lat)
		rec[1] = domain.FormatDegrees(r.Coordinates.Lon)
		rec[2] = strconv.Itoa(r.Measurement.DistanceMeters)
		rec[3] = strconv.Itoa(r.Measurement.DurationSeconds)
		if err := cw.Write(rec); err != nil {
			return fmt.Errorf("write row %s: %w", r.Coordinates, err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flush rows: %w", err)
	}
	return bw.Flush()
}

func parseCoordinates(rec []string, idx map[string]int, path string, line int) (domain.Coordinates, error) {
	lat, err := parseFloat(rec, idx, colLat, path, line)
	if err != nil {
		return domain.Coordinates{}, err
	}
	lon, err := parseFloat(rec, idx, colLong, path, line)
	if err != nil {
		return domain.Coordinates{}, err
	}

	c, err := domain.NewCoordinates(lat, lon)
	if err != nil {
		return domain.Coordinates{}, &domain.ParseError{Path: path, Line: line, Err: err}
	}
	return c, nil
}

func parseFloat(rec []string, idx map[string]int, col, path string, line int) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(rec[idx[col]]), 64)
	if err != nil {
		return 0, &domain.ParseError{Path: path, Line: line, Column: col, Err: err}
	}
	return v, nil
}

func parseInt(rec []string, idx map[string]int, col, path string, line int) (int, error) {
	v, err := strconv.Atoi(strings.TrimSpace(rec[idx[col]]))
	if err != nil {
		return 0, &domain.ParseError{Path: path, Line: line, Column: col, Err: err}
	}
	return v, nil
}

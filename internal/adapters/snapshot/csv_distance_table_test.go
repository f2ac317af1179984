package snapshot

import (
	"bytes"
	"context"
	"crossing-delta/internal/domain"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func sampleTable() *domain.DistanceTable {
	t := domain.NewDistanceTable()
	t.Put(domain.Coordinates{Lat: 37.375404, Lon: -122.030125}, domain.TravelMeasurement{DistanceMeters: 1200, DurationSeconds: 180})
	t.Put(domain.Coordinates{Lat: 37.37900912345678, Lon: -122.03377711111111}, domain.TravelMeasurement{DistanceMeters: 0, DurationSeconds: 0})
	t.Put(domain.Coordinates{Lat: 0.1 + 0.2, Lon: 1e-7}, domain.TravelMeasurement{DistanceMeters: -40, DurationSeconds: -7})
	return t
}

func TestDistanceTableRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mathilda-data.csv")
	in := sampleTable()

	require.NoError(t, SaveDistanceTable(path, in))

	out, err := LoadDistanceTable(path)
	require.NoError(t, err)
	require.True(t, in.Equal(out))
	require.Equal(t, in.Rows(), out.Rows())

	// Keys must survive bit for bit so later lookups hit.
	for _, c := range in.Coordinates() {
		require.True(t, out.Has(c), "missing %s after round-trip", c)
	}
}

func TestWriteDistanceTableFormat(t *testing.T) {
	tbl := domain.NewDistanceTable()
	tbl.Put(domain.Coordinates{Lat: 1.5, Lon: -2}, domain.TravelMeasurement{DistanceMeters: 100, DurationSeconds: 50})

	var buf bytes.Buffer
	require.NoError(t, WriteDistanceTable(&buf, tbl))
	require.Equal(t, "\"lat\",\"long\",\"distance\",\"duration\"\n1.5,-2,100,50\n", buf.String())
}

func TestLoadDistanceTableMissingFile(t *testing.T) {
	out, err := LoadDistanceTable(filepath.Join(t.TempDir(), "nope.csv"))
	require.NoError(t, err)
	require.Equal(t, 0, out.Len())
}

func TestReadDistanceTableColumnOrder(t *testing.T) {
	in := "duration,extra,long,lat,distance\n50,x,1,2,100\n"

	out, err := ReadDistanceTable(strings.NewReader(in), "t.csv")
	require.NoError(t, err)

	got, ok := out.Get(domain.Coordinates{Lat: 2, Lon: 1})
	require.True(t, ok)
	require.Equal(t, domain.TravelMeasurement{DistanceMeters: 100, DurationSeconds: 50}, got)
}

func TestReadDistanceTableErrors(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		column string
		line   int
	}{
		{name: "empty file", input: "", line: 1},
		{name: "missing column", input: "lat,long,distance\n1,1,1\n", column: "duration", line: 1},
		{name: "duplicate column", input: "lat,lat,long,distance,duration\n", column: "lat", line: 1},
		{name: "bad float", input: "lat,long,distance,duration\nx,1,1,1\n", column: "lat", line: 2},
		{name: "bad int", input: "lat,long,distance,duration\n1,1,1.5,1\n", column: "distance", line: 2},
		{name: "nan coordinate", input: "lat,long,distance,duration\nNaN,1,1,1\n", line: 2},
		{name: "short row", input: "lat,long,distance,duration\n1,1,1\n", line: 2},
		{name: "duplicate row", input: "lat,long,distance,duration\n1,1,1,1\n2,2,2,2\n1,1,3,3\n", line: 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadDistanceTable(strings.NewReader(tt.input), "t.csv")

			var pe *domain.ParseError
			require.True(t, errors.As(err, &pe), "want ParseError, got %v", err)
			require.Equal(t, "t.csv", pe.Path)
			require.Equal(t, tt.line, pe.Line)
			require.Equal(t, tt.column, pe.Column)
		})
	}
}

func TestSaveDistanceTableLeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "delta.csv")

	require.NoError(t, SaveDistanceTable(path, sampleTable()))
	require.NoError(t, SaveDistanceTable(path, domain.NewDistanceTable()))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)

	out, err := LoadDistanceTable(path)
	require.NoError(t, err)
	require.Equal(t, 0, out.Len())
}

func TestFileStore(t *testing.T) {
	ctx := context.Background()
	store := NewFileStore(filepath.Join(t.TempDir(), "data"))

	empty, err := store.Load(ctx, "murphy-data")
	require.NoError(t, err)
	require.Equal(t, 0, empty.Len())

	require.NoError(t, store.Save(ctx, "murphy-data", sampleTable()))
	out, err := store.Load(ctx, "murphy-data")
	require.NoError(t, err)
	require.True(t, sampleTable().Equal(out))

	_, err = store.Load(ctx, "../escape")
	require.Error(t, err)
}

func TestMemoryStoreCopies(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	in := sampleTable()
	require.NoError(t, store.Save(ctx, "shorter", in))
	in.Put(domain.Coordinates{Lat: 9, Lon: 9}, domain.TravelMeasurement{})

	out, err := store.Load(ctx, "shorter")
	require.NoError(t, err)
	require.Equal(t, 3, out.Len())
	require.Equal(t, 1, store.Saves("shorter"))
	require.Equal(t, []string{"shorter"}, store.Names())
}

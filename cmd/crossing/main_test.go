package main

import (
	"bytes"
	"crossing-delta/internal/adapters/snapshot"
	"crossing-delta/internal/domain"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("APP_ENV", "development")
	t.Setenv("ROUTES_PATH", "")
	t.Setenv("DELTA_ALLOW_PARTIAL", "")

	var out bytes.Buffer
	cmd := NewCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func save(t *testing.T, dir, name string, rows ...domain.DistanceRow) {
	t.Helper()
	tbl := domain.NewDistanceTable()
	for _, r := range rows {
		tbl.Put(r.Coordinates, r.Measurement)
	}
	require.NoError(t, snapshot.SaveDistanceTable(filepath.Join(dir, name+".csv"), tbl))
}

func row(lat, lon float64, meters, seconds int) domain.DistanceRow {
	return domain.DistanceRow{
		Coordinates: domain.Coordinates{Lat: lat, Lon: lon},
		Measurement: domain.TravelMeasurement{DistanceMeters: meters, DurationSeconds: seconds},
	}
}

func TestOfflineStepsAndShow(t *testing.T) {
	dir := t.TempDir()
	save(t, dir, "mathilda-adjusted", row(37.38, -122.04, 500, 120), row(37.37, -122.02, 900, 200))
	save(t, dir, "fair-oaks-adjusted", row(37.38, -122.04, 700, 100), row(37.37, -122.02, 600, 150))
	save(t, dir, "murphy-data", row(37.38, -122.04, 400, 60), row(37.37, -122.02, 500, 100))

	_, err := execute(t, "shorter", "--data-dir", dir)
	require.NoError(t, err)
	_, err = execute(t, "delta", "--data-dir", dir)
	require.NoError(t, err)

	delta, err := snapshot.LoadDistanceTable(filepath.Join(dir, "delta.csv"))
	require.NoError(t, err)
	require.Equal(t, []domain.DistanceRow{row(37.38, -122.04, 100, 40), row(37.37, -122.02, 100, 50)}, delta.Rows())

	out, err := execute(t, "show", "delta", "--data-dir", dir)
	require.NoError(t, err)
	require.Contains(t, out, "37.38")
	require.Contains(t, out, "1m30s")
}

func TestCollectRequiresCredential(t *testing.T) {
	t.Setenv("GOOGLE_MAPS_API_KEY", "")
	t.Setenv("GOOGLE_MAPS_API_KEY_FILE", "")

	_, err := execute(t, "collect", "--data-dir", t.TempDir())
	var ce *domain.ConfigurationError
	require.ErrorAs(t, err, &ce)
}

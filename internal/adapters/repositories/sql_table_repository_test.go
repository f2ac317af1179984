package repositories

import (
	"context"
	"crossing-delta/internal/domain"
	"crossing-delta/internal/platform/db"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func openSQLite(t *testing.T) *SQLTableRepository {
	t.Helper()

	conn, err := db.Open(db.DriverSQLite, filepath.Join(t.TempDir(), "crossing.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	require.NoError(t, InitSchema(context.Background(), conn))
	// a second run must be harmless
	require.NoError(t, InitSchema(context.Background(), conn))

	return NewSQLTableRepository(conn, db.DriverSQLite)
}

func sample() *domain.DistanceTable {
	t := domain.NewDistanceTable()
	t.Put(domain.Coordinates{Lat: 37.3801, Lon: -122.0411}, domain.TravelMeasurement{DistanceMeters: 1200, DurationSeconds: 240})
	t.Put(domain.Coordinates{Lat: 37.37, Lon: -122.02}, domain.TravelMeasurement{DistanceMeters: -40, DurationSeconds: -9})
	return t
}

func TestSQLTableRepositoryRoundTrip(t *testing.T) {
	ctx := context.Background()
	repo := openSQLite(t)

	require.NoError(t, repo.Save(ctx, "delta", sample()))

	got, err := repo.Load(ctx, "delta")
	require.NoError(t, err)
	require.Equal(t, sample().Rows(), got.Rows())

	names, err := repo.Names(ctx)
	require.NoError(t, err)
	require.Equal(t, []string{"delta"}, names)
}

func TestSQLTableRepositorySaveReplaces(t *testing.T) {
	ctx := context.Background()
	repo := openSQLite(t)

	require.NoError(t, repo.Save(ctx, "shorter", sample()))

	small := domain.NewDistanceTable()
	small.Put(domain.Coordinates{Lat: 1, Lon: 2}, domain.TravelMeasurement{DistanceMeters: 3, DurationSeconds: 4})
	require.NoError(t, repo.Save(ctx, "shorter", small))

	got, err := repo.Load(ctx, "shorter")
	require.NoError(t, err)
	require.Equal(t, small.Rows(), got.Rows())
}

func TestSQLTableRepositoryUnknownTable(t *testing.T) {
	repo := openSQLite(t)

	got, err := repo.Load(context.Background(), "fair-oaks-data")
	require.NoError(t, err)
	require.Zero(t, got.Len())
}

func TestRebind(t *testing.T) {
	pg := &SQLTableRepository{Driver: db.DriverPostgres}
	require.Equal(t, "a = $1 AND b = $2", pg.rebind("a = ? AND b = ?"))

	lite := &SQLTableRepository{Driver: db.DriverSQLite}
	require.Equal(t, "a = ?", lite.rebind("a = ?"))
}

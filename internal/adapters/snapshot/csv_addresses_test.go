package snapshot

import (
	"context"
	"crossing-delta/internal/domain"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestReadAddresses(t *testing.T) {
	in := "OBJECTID,address,lat,long\n" +
		"1,\"100 S Mathilda Ave\",37.3781,-122.0311\n" +
		"2,\"200 Evelyn Ave\",37.3779,-122.0299\n" +
		"3,\"100 S Mathilda Ave\",37.3781,-122.0311\n"

	out, err := ReadAddresses(strings.NewReader(in), "addr.csv")
	require.NoError(t, err)
	require.Equal(t, []domain.Coordinates{
		{Lat: 37.3781, Lon: -122.0311},
		{Lat: 37.3779, Lon: -122.0299},
		{Lat: 37.3781, Lon: -122.0311},
	}, out)
}

func TestReadAddressesBadRow(t *testing.T) {
	_, err := ReadAddresses(strings.NewReader("lat,long\n37.1,abc\n"), "addr.csv")

	var pe *domain.ParseError
	require.True(t, errors.As(err, &pe))
	require.Equal(t, "long", pe.Column)
	require.Equal(t, 2, pe.Line)
}

func TestCSVAddressSource(t *testing.T) {
	path := filepath.Join(t.TempDir(), "input-address.csv")
	require.NoError(t, os.WriteFile(path, []byte("lat,long\n1,2\n3,4\n"), 0o644))

	out, err := NewCSVAddressSource(path).ListAddresses(context.Background())
	require.NoError(t, err)
	require.Len(t, out, 2)

	_, err = NewCSVAddressSource(path + ".missing").ListAddresses(context.Background())
	require.ErrorIs(t, err, os.ErrNotExist)
}

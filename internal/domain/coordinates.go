package domain

import (
	"fmt"
	"math"
	"strconv"
)

// Immutable geographic coordinates (latitude, longitude).
type Coordinates struct {
	Lat float64
	Lon float64
}

// CoordKey is the canonical text form of a Coordinates value.
// Two coordinates share a key exactly when their float values are equal.
type CoordKey string

func NewCoordinates(lat, lon float64) (Coordinates, error) {
	if math.IsNaN(lat) || math.IsInf(lat, 0) {
		return Coordinates{}, fmt.Errorf("latitude %v is not a finite number", lat)
	}
	if math.IsNaN(lon) || math.IsInf(lon, 0) {
		return Coordinates{}, fmt.Errorf("longitude %v is not a finite number", lon)
	}

	// Collapse -0 so it cannot produce a second key for the same point.
	if lat == 0 {
		lat = 0
	}
	if lon == 0 {
		lon = 0
	}

	return Coordinates{Lat: lat, Lon: lon}, nil
}

// Key returns the shortest decimal representation that parses back to the
// same float64 pair.
func (c Coordinates) Key() CoordKey {
	return CoordKey(FormatDegrees(c.Lat) + "," + FormatDegrees(c.Lon))
}

// Return coordinates as "lat,lng" for the routing API.
func (c Coordinates) String() string { return string(c.Key()) }

// FormatDegrees renders a coordinate component losslessly.
func FormatDegrees(v float64) string {
	if v == 0 {
		v = 0
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

package ports

import (
	"context"
	"crossing-delta/internal/domain"
)

// Contract for retrieving travel distance and duration between locations.
type DistanceProvider interface {
	// Return travel distance and estimated duration from one origin to a destination.
	GetDistance(ctx context.Context, origin domain.Coordinates, destination domain.Destination) (domain.TravelMeasurement, error)
}

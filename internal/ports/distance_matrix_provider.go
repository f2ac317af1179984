package ports

import (
	"context"
	"crossing-delta/internal/domain"
)

// MaxMatrixOrigins is the routing service's hard limit on origins per request.
const MaxMatrixOrigins = 25

// Extension of DistanceProvider that supports batched lookups.
type DistanceMatrixProvider interface {
	DistanceProvider
	// Return distances from up to MaxMatrixOrigins origins to one destination.
	//
	// Passing more origins is a programming error and panics. When the
	// service answers but some origins have no route, the returned map holds
	// the resolved origins and the error is a *domain.UnresolvedError.
	GetDistances(ctx context.Context, origins []domain.Coordinates, destination domain.Destination) (map[domain.CoordKey]domain.TravelMeasurement, error)
}

package ports

import (
	"context"
	"crossing-delta/internal/domain"
)

// Port: a boundary for retrieving the property coordinates to route from.
type AddressSource interface {
	// Retrieve all addresses in source order.
	ListAddresses(ctx context.Context) ([]domain.Coordinates, error)
}

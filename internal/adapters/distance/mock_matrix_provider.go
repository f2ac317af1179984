package distance

import (
	"context"
	"crossing-delta/internal/domain"
	"crossing-delta/internal/ports"
	"fmt"
)

type MockRoute struct {
	From    domain.Coordinates
	To      string
	Meters  int
	Seconds int
}

// MockCall records one GetDistances invocation.
type MockCall struct {
	Origins     []domain.Coordinates
	Destination string
}

// MockMatrixProvider answers from a fixed route list and records each call.
// Origins without a route come back as unresolved; FailOn makes the whole
// call for a destination fail.
type MockMatrixProvider struct {
	m      map[string]domain.TravelMeasurement
	Calls  []MockCall
	FailOn map[string]error
}

func NewMockMatrixProvider(routes []MockRoute) *MockMatrixProvider {
	m := make(map[string]domain.TravelMeasurement, len(routes))
	for _, r := range routes {
		m[mockKey(r.From.Key(), r.To)] = domain.TravelMeasurement{DistanceMeters: r.Meters, DurationSeconds: r.Seconds}
	}
	return &MockMatrixProvider{m: m, FailOn: map[string]error{}}
}

func mockKey(from domain.CoordKey, to string) string { return string(from) + "|" + to }

func (p *MockMatrixProvider) GetDistance(ctx context.Context, origin domain.Coordinates, destination domain.Destination) (domain.TravelMeasurement, error) {
	res, err := p.GetDistances(ctx, []domain.Coordinates{origin}, destination)
	if err != nil {
		return domain.TravelMeasurement{}, err
	}
	return res[origin.Key()], nil
}

func (p *MockMatrixProvider) GetDistances(ctx context.Context, origins []domain.Coordinates, destination domain.Destination) (map[domain.CoordKey]domain.TravelMeasurement, error) {
	if len(origins) > ports.MaxMatrixOrigins {
		panic(fmt.Sprintf("distance matrix: %d origins exceeds limit of %d", len(origins), ports.MaxMatrixOrigins))
	}

	dest := destination.Query()
	p.Calls = append(p.Calls, MockCall{
		Origins:     append([]domain.Coordinates(nil), origins...),
		Destination: dest,
	})

	if err := p.FailOn[dest]; err != nil {
		return nil, err
	}

	out := make(map[domain.CoordKey]domain.TravelMeasurement, len(origins))
	failed := map[domain.CoordKey]string{}
	for _, o := range origins {
		r, ok := p.m[mockKey(o.Key(), dest)]
		if !ok {
			failed[o.Key()] = "ZERO_RESULTS"
			continue
		}
		out[o.Key()] = r
	}

	if len(failed) > 0 {
		return out, &domain.UnresolvedError{Statuses: failed}
	}
	return out, nil
}

// Origins returns the total number of origins sent across all calls.
func (p *MockMatrixProvider) Origins() int {
	n := 0
	for _, c := range p.Calls {
		n += len(c.Origins)
	}
	return n
}

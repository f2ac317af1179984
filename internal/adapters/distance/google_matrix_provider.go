package distance

import (
	"context"
	"crossing-delta/internal/domain"
	"crossing-delta/internal/platform/obs"
	"crossing-delta/internal/ports"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"
)

const (
	DefaultBaseURL = "https://maps.googleapis.com"
	DefaultMode    = "driving"
	DefaultTimeout = 10 * time.Second
)

// GoogleMatrixProvider implements DistanceMatrixProvider using the Google
// Maps Distance Matrix API. Every call maps to exactly one HTTP request.
type GoogleMatrixProvider struct {
	session *http.Client
	apiKey  string
	baseURL string
	mode    string
}

type Option func(*GoogleMatrixProvider)

// WithBaseURL points the provider at another host, e.g. a test server.
func WithBaseURL(u string) Option {
	return func(g *GoogleMatrixProvider) { g.baseURL = strings.TrimRight(u, "/") }
}

// WithMode sets the travel mode (driving, walking, bicycling, transit).
func WithMode(mode string) Option {
	return func(g *GoogleMatrixProvider) { g.mode = mode }
}

func WithHTTPClient(c *http.Client) Option {
	return func(g *GoogleMatrixProvider) { g.session = c }
}

func NewGoogleMatrixProvider(apiKey string, opts ...Option) (*GoogleMatrixProvider, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, &domain.ConfigurationError{Key: "GOOGLE_MAPS_API_KEY", Reason: "api key is empty"}
	}

	provider := &GoogleMatrixProvider{
		session: &http.Client{Timeout: DefaultTimeout},
		apiKey:  apiKey,
		baseURL: DefaultBaseURL,
		mode:    DefaultMode,
	}
	for _, opt := range opts {
		opt(provider)
	}

	return provider, nil
}

// Delegate to the batched path with a single origin.
func (g *GoogleMatrixProvider) GetDistance(
	ctx context.Context,
	origin domain.Coordinates,
	destination domain.Destination,
) (domain.TravelMeasurement, error) {
	results, err := g.GetDistances(ctx, []domain.Coordinates{origin}, destination)
	if err != nil {
		return domain.TravelMeasurement{}, fmt.Errorf(
			"get distance %s -> %q: %w",
			origin, destination.Name, err,
		)
	}

	result, ok := results[origin.Key()]
	if !ok {
		return domain.TravelMeasurement{}, fmt.Errorf("no distance result for %s -> %q", origin, destination.Name)
	}

	return result, nil
}

// Compute distances from many origins to a single destination.
func (g *GoogleMatrixProvider) GetDistances(
	ctx context.Context,
	origins []domain.Coordinates,
	destination domain.Destination,
) (_ map[domain.CoordKey]domain.TravelMeasurement, err error) {
	if len(origins) > ports.MaxMatrixOrigins {
		panic(fmt.Sprintf("distance matrix: %d origins exceeds limit of %d", len(origins), ports.MaxMatrixOrigins))
	}

	defer obs.Time(ctx, "google.GetDistances")(&err)

	if len(origins) == 0 {
		return map[domain.CoordKey]domain.TravelMeasurement{}, nil
	}

	dest := destination.Query()
	if dest == "" {
		return nil, errors.New("destination must be non-empty")
	}

	out, err := g.fetchMatrixColumn(ctx, origins, dest)
	if err != nil {
		var ue *domain.UnresolvedError
		if errors.As(err, &ue) {
			return out, err
		}
		return nil, fmt.Errorf("fetching matrix column: %w", err)
	}

	return out, nil
}

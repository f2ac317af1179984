package distance

import (
	"context"
	"crossing-delta/internal/domain"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/tidwall/gjson"
)

// Top level statuses that point at the credential rather than the request.
var credentialStatuses = map[string]bool{
	"REQUEST_DENIED":   true,
	"OVER_DAILY_LIMIT": true,
}

// fetchMatrixColumn retrieves distance and duration from many origins to one
// destination using the Distance Matrix endpoint.
func (g *GoogleMatrixProvider) fetchMatrixColumn(
	ctx context.Context,
	origins []domain.Coordinates,
	destination string,
) (map[domain.CoordKey]domain.TravelMeasurement, error) {
	parts := make([]string, 0, len(origins))
	for _, o := range origins {
		parts = append(parts, o.String())
	}

	q := url.Values{}
	q.Set("origins", strings.Join(parts, "|"))
	q.Set("destinations", destination)
	q.Set("mode", g.mode)
	q.Set("units", "metric")
	q.Set("key", g.apiKey)
	endpoint := g.baseURL + "/maps/api/distancematrix/json?" + q.Encode()

	req, err := g.newRequest(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}

	resp, err := g.do(req)
	if err != nil {
		var he *httpStatusError
		if errors.As(err, &he) {
			return nil, &domain.ResolverError{Status: fmt.Sprintf("HTTP %d", he.Code), Err: err}
		}
		// Strip the query string so the api key never reaches the logs.
		var ue *url.Error
		if errors.As(err, &ue) {
			err = ue.Err
		}
		return nil, &domain.ResolverError{Status: "TRANSPORT", Err: err}
	}
	defer resp.Body.Close()

	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &domain.ResolverError{Status: "TRANSPORT", Err: fmt.Errorf("read matrix response: %w", err)}
	}

	return parseMatrixColumn(b, origins)
}

// parseMatrixColumn decodes a response with one row per origin and a single
// element per row.
func parseMatrixColumn(body []byte, origins []domain.Coordinates) (map[domain.CoordKey]domain.TravelMeasurement, error) {
	if !gjson.ValidBytes(body) {
		return nil, &domain.ResolverError{Status: "INVALID_RESPONSE", Err: errors.New("response is not valid JSON")}
	}

	doc := gjson.ParseBytes(body)
	status := doc.Get("status").String()
	if status != "OK" {
		msg := doc.Get("error_message").String()
		if credentialStatuses[status] {
			return nil, &domain.ConfigurationError{Key: "GOOGLE_MAPS_API_KEY", Reason: strings.TrimSpace(status + " " + msg)}
		}
		var cause error
		if msg != "" {
			cause = errors.New(msg)
		}
		return nil, &domain.ResolverError{Status: status, Err: cause}
	}

	rows := doc.Get("rows").Array()
	if len(rows) != len(origins) {
		return nil, &domain.ResolverError{
			Status: "INVALID_RESPONSE",
			Err:    fmt.Errorf("expected %d rows; got %d", len(origins), len(rows)),
		}
	}

	out := make(map[domain.CoordKey]domain.TravelMeasurement, len(origins))
	failed := make(map[domain.CoordKey]string)
	for i, origin := range origins {
		elements := rows[i].Get("elements").Array()
		if len(elements) != 1 {
			return nil, &domain.ResolverError{
				Status: "INVALID_RESPONSE",
				Err:    fmt.Errorf("row %d: expected 1 element; got %d", i, len(elements)),
			}
		}

		el := elements[0]
		if s := el.Get("status").String(); s != "OK" {
			failed[origin.Key()] = s
			continue
		}

		meters := el.Get("distance.value")
		seconds := el.Get("duration.value")
		if !meters.Exists() || !seconds.Exists() {
			failed[origin.Key()] = "MISSING_VALUE"
			continue
		}

		out[origin.Key()] = domain.TravelMeasurement{
			DistanceMeters:  int(meters.Int()),
			DurationSeconds: int(seconds.Int()),
		}
	}

	// A repeated origin may fail in one row and succeed in another.
	for k := range out {
		delete(failed, k)
	}

	if len(failed) > 0 {
		return out, &domain.UnresolvedError{Statuses: failed}
	}
	return out, nil
}

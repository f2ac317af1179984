package config

import (
	"bytes"
	"crossing-delta/internal/domain"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

type destinationFile struct {
	Name    string   `yaml:"name"`
	Lat     *float64 `yaml:"lat"`
	Long    *float64 `yaml:"long"`
	Address string   `yaml:"address"`
}

type routesFile struct {
	Goal       destinationFile   `yaml:"goal"`
	Alternates []destinationFile `yaml:"alternates"`
}

// DefaultRoutePlan routes to the Murphy Avenue parking lot through either of
// the remaining overpasses, Mathilda or Fair Oaks.
func DefaultRoutePlan() domain.RoutePlan {
	return domain.RoutePlan{
		Goal: domain.Destination{Name: "murphy", Coordinates: domain.Coordinates{Lat: 37.375404, Lon: -122.030125}},
		Alternates: []domain.Destination{
			{Name: "mathilda", Coordinates: domain.Coordinates{Lat: 37.379009, Lon: -122.033777}},
			{Name: "fair-oaks", Coordinates: domain.Coordinates{Lat: 37.374664, Lon: -122.020863}},
		},
	}
}

// LoadRoutePlan reads a YAML route plan, or returns DefaultRoutePlan when
// path is empty.
func LoadRoutePlan(path string) (domain.RoutePlan, error) {
	if path == "" {
		return DefaultRoutePlan(), nil
	}

	b, err := os.ReadFile(path)
	if err != nil {
		return domain.RoutePlan{}, fmt.Errorf("load route plan: %w", err)
	}

	plan, err := ParseRoutePlan(b)
	if err != nil {
		return domain.RoutePlan{}, fmt.Errorf("load route plan %q: %w", path, err)
	}
	return plan, nil
}

func ParseRoutePlan(b []byte) (domain.RoutePlan, error) {
	dec := yaml.NewDecoder(bytes.NewReader(b))
	dec.KnownFields(true)

	var rf routesFile
	if err := dec.Decode(&rf); err != nil && err != io.EOF {
		return domain.RoutePlan{}, fmt.Errorf("decode yaml: %w", err)
	}

	goal, err := rf.Goal.toDestination()
	if err != nil {
		return domain.RoutePlan{}, fmt.Errorf("goal: %w", err)
	}

	plan := domain.RoutePlan{Goal: goal}
	for i, a := range rf.Alternates {
		d, err := a.toDestination()
		if err != nil {
			return domain.RoutePlan{}, fmt.Errorf("alternate #%d: %w", i+1, err)
		}
		plan.Alternates = append(plan.Alternates, d)
	}

	if err := plan.Validate(); err != nil {
		return domain.RoutePlan{}, err
	}
	return plan, nil
}

func (d destinationFile) toDestination() (domain.Destination, error) {
	if d.Lat == nil || d.Long == nil {
		return domain.Destination{}, fmt.Errorf("destination %q: lat and long are required", d.Name)
	}

	c, err := domain.NewCoordinates(*d.Lat, *d.Long)
	if err != nil {
		return domain.Destination{}, fmt.Errorf("destination %q: %w", d.Name, err)
	}

	return domain.Destination{Name: d.Name, Coordinates: c, Address: d.Address}, nil
}

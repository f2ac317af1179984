package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Destination is a named routing target. When Address is set it is sent to
// the routing service verbatim instead of the coordinates.
type Destination struct {
	Name        string
	Coordinates Coordinates
	Address     string
}

// Query returns the value passed to the routing service.
func (d Destination) Query() string {
	if a := strings.TrimSpace(d.Address); a != "" {
		return a
	}
	return d.Coordinates.String()
}

// RoutePlan describes the closure scenario: every alternate is a crossing
// that stays open, Goal is where all trips end.
type RoutePlan struct {
	Goal       Destination
	Alternates []Destination
}

// Validate checks that every destination is named, names are unique and at
// least one alternate exists.
func (p RoutePlan) Validate() error {
	if len(p.Alternates) == 0 {
		return errors.New("route plan: at least one alternate destination is required")
	}

	seen := make(map[string]struct{}, len(p.Alternates)+1)
	for _, d := range p.Destinations() {
		name := strings.TrimSpace(d.Name)
		if name == "" {
			return errors.New("route plan: destination name must not be empty")
		}
		if strings.ContainsAny(name, `/\`) {
			return fmt.Errorf("route plan: destination name %q must not contain path separators", name)
		}
		if _, dup := seen[name]; dup {
			return fmt.Errorf("route plan: duplicate destination %q", name)
		}
		seen[name] = struct{}{}
	}

	return nil
}

// Destinations returns the alternates followed by the goal.
func (p RoutePlan) Destinations() []Destination {
	out := make([]Destination, 0, len(p.Alternates)+1)
	out = append(out, p.Alternates...)
	out = append(out, p.Goal)
	return out
}

// Table names used for each stage of the computation.
func DataTableName(dest string) string     { return dest + "-data" }
func AdjustedTableName(dest string) string { return dest + "-adjusted" }

const (
	ShorterTableName = "shorter"
	DeltaTableName   = "delta"
)

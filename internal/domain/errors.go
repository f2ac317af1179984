package domain

import (
	"fmt"
	"sort"
	"strings"
)

// ParseError reports a malformed snapshot or address file.
type ParseError struct {
	Path   string
	Line   int
	Column string
	Err    error
}

func (e *ParseError) Error() string {
	var b strings.Builder
	b.WriteString("parse ")
	b.WriteString(e.Path)
	if e.Line > 0 {
		fmt.Fprintf(&b, ":%d", e.Line)
	}
	if e.Column != "" {
		fmt.Fprintf(&b, " column %q", e.Column)
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *ParseError) Unwrap() error { return e.Err }

// ConfigurationError reports a missing or rejected credential or setting.
type ConfigurationError struct {
	Key    string
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("configuration %s: %s", e.Key, e.Reason)
}

// ResolverError reports a routing request that failed as a whole.
type ResolverError struct {
	Status string
	Err    error
}

func (e *ResolverError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("resolver status=%s: %v", e.Status, e.Err)
	}
	return "resolver status=" + e.Status
}

func (e *ResolverError) Unwrap() error { return e.Err }

// UnresolvedError lists origins the routing service answered without a
// route. It accompanies a partial result rather than replacing it.
type UnresolvedError struct {
	Statuses map[CoordKey]string
}

func (e *UnresolvedError) Error() string {
	keys := make([]string, 0, len(e.Statuses))
	for k, s := range e.Statuses {
		keys = append(keys, fmt.Sprintf("%s=%s", k, s))
	}
	sort.Strings(keys)
	return fmt.Sprintf("%d origins unresolved: %s", len(keys), strings.Join(keys, "; "))
}

// KeyMismatchError reports coordinates present in only one operand of a
// subtraction.
type KeyMismatchError struct {
	OnlyLeft  []Coordinates
	OnlyRight []Coordinates
}

func (e *KeyMismatchError) Error() string {
	return fmt.Sprintf(
		"key sets differ: %d only in left (%s), %d only in right (%s)",
		len(e.OnlyLeft), joinCoords(e.OnlyLeft, 5),
		len(e.OnlyRight), joinCoords(e.OnlyRight, 5),
	)
}

func joinCoords(cs []Coordinates, limit int) string {
	parts := make([]string, 0, min(len(cs), limit)+1)
	for i, c := range cs {
		if i == limit {
			parts = append(parts, "...")
			break
		}
		parts = append(parts, c.String())
	}
	return strings.Join(parts, " ")
}

package domain

// DistanceRow is one coordinate and its measurement.
type DistanceRow struct {
	Coordinates Coordinates
	Measurement TravelMeasurement
}

// DistanceTable maps coordinates to travel measurements.
//
// Keys are unique. Rows keep the order in which they were first inserted,
// which is also the order they are persisted in. Transformations (Adjust,
// Min, Subtract, Merge, Project) return new tables and never modify their
// operands. The zero value is an empty table ready to use. A DistanceTable
// is not safe for concurrent mutation.
type DistanceTable struct {
	keys []CoordKey
	rows map[CoordKey]DistanceRow
}

// NewDistanceTable returns an empty table.
func NewDistanceTable() *DistanceTable {
	return &DistanceTable{rows: make(map[CoordKey]DistanceRow)}
}

func newDistanceTableSize(n int) *DistanceTable {
	return &DistanceTable{
		keys: make([]CoordKey, 0, n),
		rows: make(map[CoordKey]DistanceRow, n),
	}
}

func (t *DistanceTable) Len() int { return len(t.keys) }

func (t *DistanceTable) Has(c Coordinates) bool {
	_, ok := t.rows[c.Key()]
	return ok
}

func (t *DistanceTable) Get(c Coordinates) (TravelMeasurement, bool) {
	r, ok := t.rows[c.Key()]
	return r.Measurement, ok
}

// Put inserts or replaces the measurement for c. Replacing keeps the
// original row position.
func (t *DistanceTable) Put(c Coordinates, m TravelMeasurement) {
	if t.rows == nil {
		t.rows = make(map[CoordKey]DistanceRow)
	}
	k := c.Key()
	if _, ok := t.rows[k]; !ok {
		t.keys = append(t.keys, k)
	}
	t.rows[k] = DistanceRow{Coordinates: c, Measurement: m}
}

// Rows returns a copy of all rows in table order.
func (t *DistanceTable) Rows() []DistanceRow {
	out := make([]DistanceRow, 0, len(t.keys))
	for _, k := range t.keys {
		out = append(out, t.rows[k])
	}
	return out
}

func (t *DistanceTable) Coordinates() []Coordinates {
	out := make([]Coordinates, 0, len(t.keys))
	for _, k := range t.keys {
		out = append(out, t.rows[k].Coordinates)
	}
	return out
}

// Equal reports whether both tables hold the same key to measurement
// mapping. Row order is ignored.
func (t *DistanceTable) Equal(o *DistanceTable) bool {
	if t.Len() != o.Len() {
		return false
	}
	for k, r := range t.rows {
		or, ok := o.rows[k]
		if !ok || or.Measurement != r.Measurement {
			return false
		}
	}
	return true
}

func (t *DistanceTable) clone() *DistanceTable {
	out := newDistanceTableSize(t.Len())
	for _, k := range t.keys {
		out.keys = append(out.keys, k)
		out.rows[k] = t.rows[k]
	}
	return out
}

// Adjust adds offset to every row.
func (t *DistanceTable) Adjust(offset TravelMeasurement) *DistanceTable {
	out := newDistanceTableSize(t.Len())
	for _, k := range t.keys {
		r := t.rows[k]
		out.Put(r.Coordinates, r.Measurement.Add(offset))
	}
	return out
}

// Min returns the union of both tables. Where both hold a coordinate, the
// distance and the duration are minimized independently.
func (t *DistanceTable) Min(o *DistanceTable) *DistanceTable {
	out := t.clone()
	for _, k := range o.keys {
		r := o.rows[k]
		if cur, ok := out.rows[k]; ok {
			out.rows[k] = DistanceRow{
				Coordinates: cur.Coordinates,
				Measurement: cur.Measurement.Min(r.Measurement),
			}
			continue
		}
		out.Put(r.Coordinates, r.Measurement)
	}
	return out
}

// Merge returns the union of both tables, preferring o on shared keys.
func (t *DistanceTable) Merge(o *DistanceTable) *DistanceTable {
	out := t.clone()
	for _, k := range o.keys {
		r := o.rows[k]
		out.Put(r.Coordinates, r.Measurement)
	}
	return out
}

// Project returns the rows for coords, in coords order. Coordinates absent
// from t are skipped.
func (t *DistanceTable) Project(coords []Coordinates) *DistanceTable {
	out := newDistanceTableSize(len(coords))
	for _, c := range coords {
		if r, ok := t.rows[c.Key()]; ok {
			out.Put(r.Coordinates, r.Measurement)
		}
	}
	return out
}

// Subtract returns t - o per coordinate. Both tables must hold exactly the
// same coordinates; otherwise a *KeyMismatchError is returned.
func (t *DistanceTable) Subtract(o *DistanceTable) (*DistanceTable, error) {
	out, mismatch := t.SubtractMatching(o)
	if mismatch != nil {
		return nil, mismatch
	}
	return out, nil
}

// SubtractMatching returns t - o over the coordinates both tables share,
// along with the coordinates found on only one side (nil when none).
// Negative results are kept as is.
func (t *DistanceTable) SubtractMatching(o *DistanceTable) (*DistanceTable, *KeyMismatchError) {
	out := newDistanceTableSize(t.Len())
	var onlyLeft, onlyRight []Coordinates

	for _, k := range t.keys {
		r := t.rows[k]
		or, ok := o.rows[k]
		if !ok {
			onlyLeft = append(onlyLeft, r.Coordinates)
			continue
		}
		out.Put(r.Coordinates, r.Measurement.Sub(or.Measurement))
	}
	for _, k := range o.keys {
		if _, ok := t.rows[k]; !ok {
			onlyRight = append(onlyRight, o.rows[k].Coordinates)
		}
	}

	if len(onlyLeft) == 0 && len(onlyRight) == 0 {
		return out, nil
	}
	return out, &KeyMismatchError{OnlyLeft: onlyLeft, OnlyRight: onlyRight}
}

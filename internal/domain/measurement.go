package domain

// Distance and travel duration for one origin to destination route.
// Values produced by Sub may be negative (distance or time saved).
type TravelMeasurement struct {
	DistanceMeters  int
	DurationSeconds int
}

func (m TravelMeasurement) Add(o TravelMeasurement) TravelMeasurement {
	return TravelMeasurement{
		DistanceMeters:  m.DistanceMeters + o.DistanceMeters,
		DurationSeconds: m.DurationSeconds + o.DurationSeconds,
	}
}

func (m TravelMeasurement) Sub(o TravelMeasurement) TravelMeasurement {
	return TravelMeasurement{
		DistanceMeters:  m.DistanceMeters - o.DistanceMeters,
		DurationSeconds: m.DurationSeconds - o.DurationSeconds,
	}
}

// Min minimizes each column independently, so the result may pair the
// distance of one route with the duration of another.
func (m TravelMeasurement) Min(o TravelMeasurement) TravelMeasurement {
	return TravelMeasurement{
		DistanceMeters:  min(m.DistanceMeters, o.DistanceMeters),
		DurationSeconds: min(m.DurationSeconds, o.DurationSeconds),
	}
}

package models

// WarningCounts accumulates non-fatal anomalies observed while building the
// stage list and running the solver. One instance is allocated per request
// and passed by pointer through stage construction and the solver call; it is
// serialized into the response at the end of the request and then discarded.
type WarningCounts struct {
	WindOutOfRange    int
	AltitudeClamped   int
	ElevationFallback int
	DatasetErrors     int
}

// ToMap serializes the counters for inclusion in a response body.
func (w *WarningCounts) ToMap() map[string]int {
	return map[string]int{
		"wind_out_of_range":  w.WindOutOfRange,
		"altitude_clamped":   w.AltitudeClamped,
		"elevation_fallback": w.ElevationFallback,
		"dataset_errors":     w.DatasetErrors,
	}
}

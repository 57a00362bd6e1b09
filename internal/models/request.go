package models

import "time"

// API constants shared across the request pipeline.
const (
	APIVersion = 1

	LatestDatasetKeyword = "latest"

	ProfileStandard = "standard_profile"
	ProfileFloat    = "float_profile"
	ProfileReverse  = "reverse_profile"

	FormatJSON = "json"
	FormatCSV  = "csv"
	FormatKML  = "kml"

	// MinimumRate is the physical floor for ascent and descent rates. Rates
	// below it are raised silently before use to avoid near-zero-rate
	// degeneracy in the solver.
	MinimumRate = 0.2
)

// PredictionRequest is the validated, typed representation of one inbound
// query. It is built once per request and never mutated afterwards. Only the
// fields required by the selected profile are populated; fields belonging to
// other profiles stay at their zero value.
type PredictionRequest struct {
	Version         int
	LaunchLatitude  float64
	LaunchLongitude float64
	LaunchDatetime  time.Time
	LaunchAltitude  float64
	Format          string
	Profile         string

	AscentRate    float64
	BurstAltitude float64   // standard only
	DescentRate   float64   // standard only
	FloatAltitude float64   // float only
	StopDatetime  time.Time // float only

	// DatasetLatest is true when the request asked for the "latest" dataset;
	// otherwise DatasetTime holds the requested instant.
	DatasetLatest bool
	DatasetTime   time.Time
}

// ClipRate applies the MinimumRate floor to an ascent or descent rate.
func ClipRate(rate float64) float64 {
	if rate < MinimumRate {
		return MinimumRate
	}
	return rate
}

// TrajectoryPoint is one solver output sample.
type TrajectoryPoint struct {
	Time      time.Time
	Latitude  float64
	Longitude float64
	Altitude  float64
}

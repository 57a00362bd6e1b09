package solver

import (
	"log"
	"time"

	"trajectory-service/internal/dataset"
	"trajectory-service/internal/models"
	"trajectory-service/internal/utils"
)

// ElevationLookup resolves ground elevation in meters at a position. Descent
// stages use it to decide where the flight ends.
type ElevationLookup func(lat, lon float64) (float64, error)

// windDrift converts the dataset's wind sample at a point into horizontal
// angular velocity.
func windDrift(ds *dataset.Dataset, warnings *models.WarningCounts) func(t time.Time, lat, lon, alt float64) (dlat, dlon float64) {
	return func(t time.Time, lat, lon, alt float64) (float64, float64) {
		u, v := ds.Wind(t, lat, lon, alt, warnings)
		return v / utils.MetersPerDegreeLatitude(), u / utils.MetersPerDegreeLongitude(lat)
	}
}

// groundLevel resolves the flight's landing elevation once, the first time a
// descent termination check runs. A failed lookup falls back to sea level and
// is counted, never surfaced.
func groundLevel(elevation ElevationLookup, warnings *models.WarningCounts) func(lat, lon float64) float64 {
	resolved := false
	ground := 0.0
	return func(lat, lon float64) float64 {
		if resolved {
			return ground
		}
		resolved = true
		if elevation == nil {
			return ground
		}
		value, err := elevation(lat, lon)
		if err != nil {
			log.Printf("Ground elevation lookup failed, terminating descent at sea level: %v", err)
			warnings.ElevationFallback++
			return ground
		}
		ground = value
		return ground
	}
}

func ascentStage(rate float64, drift func(time.Time, float64, float64, float64) (float64, float64),
	terminate TerminationFunc) Stage {
	return Stage{
		Velocity: func(t time.Time, lat, lon, alt float64) (float64, float64, float64) {
			dlat, dlon := drift(t, lat, lon, alt)
			return dlat, dlon, rate
		},
		Terminate: terminate,
	}
}

// StandardProfile builds the ascent and descent stages of a standard flight:
// rise at the ascent rate to burst altitude, then descend to ground level.
func StandardProfile(ascentRate, burstAltitude, descentRate float64, ds *dataset.Dataset,
	elevation ElevationLookup, warnings *models.WarningCounts) []Stage {
	drift := windDrift(ds, warnings)
	ground := groundLevel(elevation, warnings)

	ascent := ascentStage(ascentRate, drift, func(t time.Time, lat, lon, alt float64) bool {
		return alt >= burstAltitude
	})
	descent := Stage{
		Velocity: func(t time.Time, lat, lon, alt float64) (float64, float64, float64) {
			dlat, dlon := drift(t, lat, lon, alt)
			return dlat, dlon, -descentRate
		},
		Terminate: func(t time.Time, lat, lon, alt float64) bool {
			return alt <= ground(lat, lon)
		},
	}
	return []Stage{ascent, descent}
}

// FloatProfile builds the ascent and float stages of a float flight: rise to
// the float altitude, then drift at constant altitude until the stop instant.
func FloatProfile(ascentRate, floatAltitude float64, stop time.Time, ds *dataset.Dataset,
	warnings *models.WarningCounts) []Stage {
	drift := windDrift(ds, warnings)

	ascent := ascentStage(ascentRate, drift, func(t time.Time, lat, lon, alt float64) bool {
		return alt >= floatAltitude
	})
	float := Stage{
		Velocity: func(t time.Time, lat, lon, alt float64) (float64, float64, float64) {
			dlat, dlon := drift(t, lat, lon, alt)
			return dlat, dlon, 0
		},
		Terminate: func(t time.Time, lat, lon, alt float64) bool {
			return !t.Before(stop)
		},
	}
	return []Stage{ascent, float}
}

// ReverseProfile builds the same ascent/descent stage shapes as the standard
// profile. Run with a negated time step they integrate backward from the
// observed point down to ground level, which is the estimated launch site.
func ReverseProfile(ascentRate float64, ds *dataset.Dataset, elevation ElevationLookup,
	warnings *models.WarningCounts) []Stage {
	drift := windDrift(ds, warnings)
	ground := groundLevel(elevation, warnings)

	terminate := func(t time.Time, lat, lon, alt float64) bool {
		return alt <= ground(lat, lon)
	}
	ascent := ascentStage(ascentRate, drift, terminate)
	descent := Stage{
		Velocity: func(t time.Time, lat, lon, alt float64) (float64, float64, float64) {
			dlat, dlon := drift(t, lat, lon, alt)
			return dlat, dlon, -ascentRate
		},
		Terminate: terminate,
	}
	return []Stage{ascent, descent}
}

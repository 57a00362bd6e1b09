// Package solver integrates balloon trajectories through a sequence of
// motion stages over a resolved wind dataset.
package solver

import (
	"time"

	"github.com/pkg/errors"

	"trajectory-service/internal/models"
	"trajectory-service/internal/utils"
)

// DefaultTimeStep is the integration step in seconds. The reverse profile
// negates it; that sign inversion is the entire reverse mechanism.
const DefaultTimeStep = 60.0

// maxStageSteps bounds one stage's integration so a termination condition
// that never fires cannot loop forever (roughly two weeks at one-minute
// steps).
const maxStageSteps = 20000

// VelocityFunc returns the instantaneous velocity at a point in
// degrees-latitude/s, degrees-longitude/s, and meters/s.
type VelocityFunc func(t time.Time, lat, lon, alt float64) (dlat, dlon, dalt float64)

// TerminationFunc reports whether a stage has ended at the given point.
type TerminationFunc func(t time.Time, lat, lon, alt float64) bool

// Stage is one contiguous phase of modeled motion.
type Stage struct {
	Velocity  VelocityFunc
	Terminate TerminationFunc
}

// Solve integrates the stages in order from the given start point using
// forward Euler with a dt-second step (negative dt integrates backward in
// time). It returns one ordered point sequence per stage; each stage resumes
// from the previous stage's final point.
func Solve(start time.Time, lat, lon, alt float64, stages []Stage, dt float64) ([][]models.TrajectoryPoint, error) {
	if len(stages) == 0 {
		return nil, errors.New("no stages to integrate")
	}
	if dt == 0 {
		return nil, errors.New("time step must be non-zero")
	}

	t := start
	result := make([][]models.TrajectoryPoint, 0, len(stages))

	for _, stage := range stages {
		points := []models.TrajectoryPoint{{Time: t, Latitude: lat, Longitude: lon, Altitude: alt}}

		steps := 0
		for !stage.Terminate(t, lat, lon, alt) {
			if steps++; steps > maxStageSteps {
				return nil, errors.Errorf("stage did not terminate within %d steps", maxStageSteps)
			}

			dlat, dlon, dalt := stage.Velocity(t, lat, lon, alt)
			lat += dlat * dt
			lon = utils.NormalizeLongitude(lon + dlon*dt)
			alt += dalt * dt
			if alt < 0 {
				alt = 0
			}
			t = t.Add(time.Duration(dt * float64(time.Second)))

			points = append(points, models.TrajectoryPoint{Time: t, Latitude: lat, Longitude: lon, Altitude: alt})
		}
		result = append(result, points)
	}
	return result, nil
}

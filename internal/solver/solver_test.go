package solver

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trajectory-service/internal/dataset"
	"trajectory-service/internal/models"
)

func testDataset(t *testing.T, dsTime time.Time, u, v float32) *dataset.Dataset {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, dsTime.Format(dataset.FilenameLayout))
	require.NoError(t, dataset.WriteGridFile(path, 24, 8, 19, 36, u, v))
	ds, err := dataset.Open(dsTime, dir)
	require.NoError(t, err)
	return ds
}

func flatGround(lat, lon float64) (float64, error) { return 0, nil }

func TestSolve_StandardProfile(t *testing.T) {
	launch := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	ds := testDataset(t, launch.Truncate(time.Hour), 10, 0)
	warnings := &models.WarningCounts{}

	stages := StandardProfile(5.0, 3000.0, 6.0, ds, flatGround, warnings)
	require.Len(t, stages, 2)

	result, err := Solve(launch, 51.0, 0.5, 0.0, stages, DefaultTimeStep)
	require.NoError(t, err)
	require.Len(t, result, 2)

	ascent, descent := result[0], result[1]
	require.NotEmpty(t, ascent)
	require.NotEmpty(t, descent)

	// Ascent ends at or just above burst altitude.
	top := ascent[len(ascent)-1]
	assert.GreaterOrEqual(t, top.Altitude, 3000.0)
	// 3000 m at 5 m/s is ten minutes of one-minute steps.
	assert.Equal(t, 11, len(ascent))

	// Descent resumes at the burst point and ends on the ground.
	assert.Equal(t, top, descent[0])
	assert.Equal(t, 0.0, descent[len(descent)-1].Altitude)

	// Eastward wind pushes the balloon east the whole flight.
	landing := descent[len(descent)-1]
	assert.Greater(t, landing.Longitude, 0.5)
	assert.InDelta(t, 51.0, landing.Latitude, 1e-6)

	// Time advances monotonically through both stages.
	assert.True(t, landing.Time.After(launch))
}

func TestSolve_RateAffectsFlightDuration(t *testing.T) {
	launch := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	ds := testDataset(t, launch.Truncate(time.Hour), 0, 0)

	slow := StandardProfile(models.MinimumRate, 600.0, 5.0, ds, flatGround, &models.WarningCounts{})
	fast := StandardProfile(5.0, 600.0, 5.0, ds, flatGround, &models.WarningCounts{})

	slowResult, err := Solve(launch, 51.0, 0.5, 0.0, slow, DefaultTimeStep)
	require.NoError(t, err)
	fastResult, err := Solve(launch, 51.0, 0.5, 0.0, fast, DefaultTimeStep)
	require.NoError(t, err)

	// A floor-clipped 0.2 m/s ascent takes 50 minutes to 600 m, a 5 m/s one
	// takes two steps.
	assert.Equal(t, 51, len(slowResult[0]))
	assert.Equal(t, 3, len(fastResult[0]))
}

func TestSolve_FloatProfile(t *testing.T) {
	launch := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	stop := launch.Add(30 * time.Minute)
	ds := testDataset(t, launch.Truncate(time.Hour), 10, 5)
	warnings := &models.WarningCounts{}

	stages := FloatProfile(5.0, 1500.0, stop, ds, warnings)
	result, err := Solve(launch, 51.0, 0.5, 0.0, stages, DefaultTimeStep)
	require.NoError(t, err)
	require.Len(t, result, 2)

	float := result[1]
	require.NotEmpty(t, float)
	for _, p := range float {
		assert.InDelta(t, 1500.0, p.Altitude, 1.0)
	}
	last := float[len(float)-1]
	assert.False(t, last.Time.Before(stop))
}

func TestSolve_ReverseRunsBackwardToGround(t *testing.T) {
	observed := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	ds := testDataset(t, observed.Truncate(time.Hour), 10, 0)
	warnings := &models.WarningCounts{}

	stages := ReverseProfile(5.0, ds, flatGround, warnings)
	require.Len(t, stages, 2)

	result, err := Solve(observed, 51.0, 10.0, 1200.0, stages, -DefaultTimeStep)
	require.NoError(t, err)
	require.Len(t, result, 2)

	last := result[1]
	terminus := last[len(last)-1]
	assert.Equal(t, 0.0, terminus.Altitude)
	// Backward integration moves earlier in time and upwind (westward).
	assert.True(t, terminus.Time.Before(observed))
	assert.Less(t, terminus.Longitude, 10.0)
}

func TestSolve_Guards(t *testing.T) {
	launch := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

	_, err := Solve(launch, 51.0, 0.5, 0.0, nil, DefaultTimeStep)
	assert.Error(t, err)

	never := Stage{
		Velocity:  func(t time.Time, lat, lon, alt float64) (float64, float64, float64) { return 0, 0, 0 },
		Terminate: func(t time.Time, lat, lon, alt float64) bool { return false },
	}
	_, err = Solve(launch, 51.0, 0.5, 0.0, []Stage{never}, DefaultTimeStep)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "did not terminate")

	_, err = Solve(launch, 51.0, 0.5, 0.0, []Stage{never}, 0)
	assert.Error(t, err)
}

func TestGroundLevel_LookupFailureFallsBack(t *testing.T) {
	launch := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	ds := testDataset(t, launch.Truncate(time.Hour), 0, 0)
	warnings := &models.WarningCounts{}

	failing := func(lat, lon float64) (float64, error) {
		return 0, assert.AnError
	}
	stages := StandardProfile(5.0, 600.0, 5.0, ds, failing, warnings)
	result, err := Solve(launch, 51.0, 0.5, 0.0, stages, DefaultTimeStep)
	require.NoError(t, err)

	descent := result[1]
	assert.Equal(t, 0.0, descent[len(descent)-1].Altitude)
	assert.Equal(t, 1, warnings.ElevationFallback)
}

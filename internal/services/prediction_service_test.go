package services

import (
	"fmt"
	"net/http"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trajectory-service/internal/apierrors"
	"trajectory-service/internal/dataset"
	"trajectory-service/internal/models"
)

func datasetDir(t *testing.T, times ...time.Time) string {
	t.Helper()
	dir := t.TempDir()
	for _, dsTime := range times {
		path := filepath.Join(dir, dsTime.Format(dataset.FilenameLayout))
		require.NoError(t, dataset.WriteGridFile(path, 24, 8, 19, 36, 10, 0))
	}
	return dir
}

func flatElevation(t *testing.T) *ElevationService {
	return elevationServer(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"results":[{"elevation":0.0}]}`)
	})
}

func standardRequest() *models.PredictionRequest {
	return &models.PredictionRequest{
		Version:         models.APIVersion,
		Profile:         models.ProfileStandard,
		Format:          models.FormatJSON,
		LaunchLatitude:  52.2135,
		LaunchLongitude: 0.0964,
		LaunchAltitude:  0.0,
		LaunchDatetime:  time.Date(2024, 1, 1, 12, 30, 0, 0, time.UTC),
		AscentRate:      5.0,
		BurstAltitude:   3000.0,
		DescentRate:     5.0,
		DatasetLatest:   true,
	}
}

func TestRun_StandardProfile(t *testing.T) {
	dsTime := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	service := NewPredictionService(datasetDir(t, dsTime), flatElevation(t))

	req := standardRequest()
	warnings := &models.WarningCounts{}

	resp, err := service.Run(req, warnings)
	require.NoError(t, err)
	require.Len(t, resp.Prediction, 2)

	assert.Equal(t, "ascent", resp.Prediction[0].Stage)
	assert.Equal(t, "descent", resp.Prediction[1].Stage)
	assert.NotEmpty(t, resp.Prediction[0].Trajectory)
	assert.NotEmpty(t, resp.Prediction[1].Trajectory)

	first := resp.Prediction[0].Trajectory[0]
	assert.Equal(t, 52.2135, first.Latitude)
	assert.Equal(t, "2024-01-01T12:30:00Z", first.Datetime)

	descent := resp.Prediction[1].Trajectory
	assert.Equal(t, 0.0, descent[len(descent)-1].Altitude)

	// The echo always carries the resolved dataset's hour, even for "latest".
	assert.Equal(t, "2024-01-01T12:00:00Z", resp.Request.Dataset)
	assert.Equal(t, "2024-01-01T12:30:00Z", resp.Request.LaunchDatetime)
	assert.Equal(t, 3000.0, resp.Request.BurstAltitude)
	assert.Nil(t, resp.LaunchEstimate)

	require.NotNil(t, resp.Warnings)
	assert.Contains(t, resp.Warnings, "wind_out_of_range")
	assert.Contains(t, resp.Warnings, "elevation_fallback")
}

func TestRun_PicksNewestDataset(t *testing.T) {
	older := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	newer := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	service := NewPredictionService(datasetDir(t, older, newer), flatElevation(t))

	resp, err := service.Run(standardRequest(), &models.WarningCounts{})
	require.NoError(t, err)
	assert.Equal(t, "2024-01-01T12:00:00Z", resp.Request.Dataset)
}

func TestRun_ExplicitDataset(t *testing.T) {
	dsTime := time.Date(2024, 1, 1, 6, 0, 0, 0, time.UTC)
	service := NewPredictionService(datasetDir(t, dsTime), flatElevation(t))

	req := standardRequest()
	req.DatasetLatest = false
	req.DatasetTime = time.Date(2024, 1, 1, 6, 45, 0, 0, time.UTC)
	req.LaunchDatetime = time.Date(2024, 1, 1, 7, 0, 0, 0, time.UTC)

	resp, err := service.Run(req, &models.WarningCounts{})
	require.NoError(t, err)
	assert.Equal(t, "2024-01-01T06:00:00Z", resp.Request.Dataset)
}

func TestRun_DatasetErrors(t *testing.T) {
	service := NewPredictionService(t.TempDir(), flatElevation(t))

	_, err := service.Run(standardRequest(), &models.WarningCounts{})
	require.Error(t, err)

	apiErr := apierrors.From(err)
	assert.Equal(t, http.StatusNotFound, apiErr.StatusCode())
	assert.Equal(t, "InvalidDatasetException", apiErr.WireType())
	assert.Equal(t, "No matching dataset found.", apiErr.Error())
}

func TestRun_FloatProfileEcho(t *testing.T) {
	dsTime := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	service := NewPredictionService(datasetDir(t, dsTime), flatElevation(t))

	req := standardRequest()
	req.Profile = models.ProfileFloat
	req.FloatAltitude = 1500.0
	req.StopDatetime = time.Date(2024, 1, 1, 13, 0, 0, 0, time.UTC)

	resp, err := service.Run(req, &models.WarningCounts{})
	require.NoError(t, err)
	require.Len(t, resp.Prediction, 2)
	assert.Equal(t, "float", resp.Prediction[1].Stage)

	assert.Equal(t, 1500.0, resp.Request.FloatAltitude)
	assert.Equal(t, "2024-01-01T13:00:00Z", resp.Request.StopDatetime)
	assert.Zero(t, resp.Request.BurstAltitude)
}

func TestRun_ReverseLaunchEstimate(t *testing.T) {
	dsTime := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	service := NewPredictionService(datasetDir(t, dsTime), flatElevation(t))

	req := standardRequest()
	req.Profile = models.ProfileReverse
	req.LaunchAltitude = 1200.0
	req.BurstAltitude = 0
	req.DescentRate = 0

	resp, err := service.Run(req, &models.WarningCounts{})
	require.NoError(t, err)
	require.NotNil(t, resp.LaunchEstimate)

	last := resp.Prediction[len(resp.Prediction)-1].Trajectory
	terminus := last[len(last)-1]
	assert.Equal(t, terminus.Latitude, resp.LaunchEstimate.Latitude)
	assert.Equal(t, terminus.Longitude, resp.LaunchEstimate.Longitude)
	assert.Equal(t, 0.0, resp.LaunchEstimate.Altitude)
	// The estimate is stamped with the observed instant, not the terminus time.
	assert.Equal(t, "2024-01-01T12:30:00Z", resp.LaunchEstimate.Datetime)
}

func TestDatasetCheck(t *testing.T) {
	dsTime := time.Date(2024, 1, 1, 18, 0, 0, 0, time.UTC)
	service := NewPredictionService(datasetDir(t, dsTime), flatElevation(t))

	resp, err := service.DatasetCheck()
	require.NoError(t, err)
	assert.Equal(t, models.APIVersion, resp.Request.Version)
	assert.Equal(t, "2024-01-01T18:00:00Z", resp.Request.Dataset)
	assert.Equal(t, 0, resp.Warnings["dataset_errors"])
}

func TestDatasetCheck_EmptyDirectory(t *testing.T) {
	service := NewPredictionService(t.TempDir(), flatElevation(t))

	_, err := service.DatasetCheck()
	require.Error(t, err)
	assert.Equal(t, http.StatusNotFound, apierrors.From(err).StatusCode())
}

func TestBuildRecord(t *testing.T) {
	dsTime := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	service := NewPredictionService(datasetDir(t, dsTime), flatElevation(t))

	req := standardRequest()
	resp, err := service.Run(req, &models.WarningCounts{})
	require.NoError(t, err)

	id := uuid.New()
	record := service.BuildRecord(id, req, resp)

	assert.Equal(t, id, record.ID)
	assert.Equal(t, models.ProfileStandard, record.Profile)
	assert.Equal(t, dsTime, record.DatasetTime)
	assert.Equal(t, req.LaunchDatetime, record.LaunchDatetime)

	total := len(resp.Prediction[0].Trajectory) + len(resp.Prediction[1].Trajectory)
	assert.Equal(t, total, record.PointCount)

	descent := resp.Prediction[1].Trajectory
	landing := descent[len(descent)-1]
	assert.Equal(t, landing.Latitude, record.LandingLatitude)
	assert.Equal(t, landing.Longitude, record.LandingLongitude)
	assert.Greater(t, record.GroundTrackKm, 0.0)
}

package formats

import (
	"encoding/csv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trajectory-service/internal/models"
)

func sampleResponse() *models.PredictionResponse {
	return &models.PredictionResponse{
		Request: models.RequestEcho{
			Version:         models.APIVersion,
			LaunchDatetime:  "2024-01-01T12:30:00Z",
			LaunchLongitude: 350.5,
		},
		Prediction: []models.StagePrediction{
			{
				Stage: "ascent",
				Trajectory: []models.PathPoint{
					{Latitude: 52.0, Longitude: 350.5, Altitude: 0.0, Datetime: "2024-01-01T12:30:00Z"},
					{Latitude: 52.1, Longitude: 351.0, Altitude: 1500.0, Datetime: "2024-01-01T12:35:00Z"},
				},
			},
			{
				Stage: "descent",
				Trajectory: []models.PathPoint{
					{Latitude: 52.1, Longitude: 351.0, Altitude: 1500.0, Datetime: "2024-01-01T12:35:00Z"},
					{Latitude: 52.2, Longitude: 0.5, Altitude: 0.0, Datetime: "2024-01-01T12:40:00Z"},
				},
			},
		},
		Warnings: map[string]int{},
	}
}

func TestFixLongitudes(t *testing.T) {
	resp := sampleResponse()
	resp.LaunchEstimate = &models.PathPoint{Latitude: 52.0, Longitude: 350.5, Altitude: 0.0}

	fixed := FixLongitudes(resp)

	assert.Equal(t, -9.5, fixed.Prediction[0].Trajectory[0].Longitude)
	assert.Equal(t, -9.0, fixed.Prediction[0].Trajectory[1].Longitude)
	// Longitudes already in the eastern half are untouched.
	assert.Equal(t, 0.5, fixed.Prediction[1].Trajectory[1].Longitude)
	assert.Equal(t, -9.5, fixed.LaunchEstimate.Longitude)

	// The echoed request and the original response are left as-is.
	assert.Equal(t, 350.5, fixed.Request.LaunchLongitude)
	assert.Equal(t, 350.5, resp.Prediction[0].Trajectory[0].Longitude)
	assert.Equal(t, 350.5, resp.LaunchEstimate.Longitude)
}

func TestCSV(t *testing.T) {
	data, filename, err := CSV(sampleResponse())
	require.NoError(t, err)
	assert.Equal(t, "prediction_2024-01-01T12-30-00Z.csv", filename)

	records, err := csv.NewReader(strings.NewReader(string(data))).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 5)

	assert.Equal(t, []string{"stage", "datetime", "latitude", "longitude", "altitude"}, records[0])
	assert.Equal(t, []string{"ascent", "2024-01-01T12:30:00Z", "52.000000", "350.500000", "0.0"}, records[1])
	assert.Equal(t, "descent", records[3][0])
	assert.Equal(t, "2024-01-01T12:40:00Z", records[4][1])
}

func TestKML(t *testing.T) {
	resp := sampleResponse()
	resp.LaunchEstimate = &models.PathPoint{Latitude: 51.5, Longitude: -9.5, Altitude: 120.0}

	data, filename, err := KML(resp)
	require.NoError(t, err)
	assert.Equal(t, "prediction_2024-01-01T12-30-00Z.kml", filename)

	body := string(data)
	assert.True(t, strings.HasPrefix(body, "<?xml"))
	assert.Contains(t, body, `xmlns="http://www.opengis.net/kml/2.2"`)
	assert.Contains(t, body, "<name>ascent</name>")
	assert.Contains(t, body, "<name>descent</name>")
	assert.Contains(t, body, "<altitudeMode>absolute</altitudeMode>")
	// Coordinates are lon,lat,alt triplets.
	assert.Contains(t, body, "350.500000,52.000000,0.000000 351.000000,52.100000,1500.000000")
	assert.Contains(t, body, "<name>launch_estimate</name>")
	assert.Contains(t, body, "-9.500000,51.500000,120.000000")
}

// Package formats renders an assembled prediction response as downloadable
// CSV or KML byte streams.
package formats

import (
	"bytes"
	"encoding/csv"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"trajectory-service/internal/models"
	"trajectory-service/internal/utils"
)

// ContentTypeCSV is the media type of CSV downloads.
const ContentTypeCSV = "text/csv"

// FixLongitudes returns a copy of the response with trajectory longitudes
// converted from the internal [0, 360) range to the [-180, 180] range mapping
// tools expect. The echoed request block is left untouched.
func FixLongitudes(resp *models.PredictionResponse) *models.PredictionResponse {
	fixed := *resp
	fixed.Prediction = make([]models.StagePrediction, len(resp.Prediction))
	for i, stage := range resp.Prediction {
		points := make([]models.PathPoint, len(stage.Trajectory))
		for j, p := range stage.Trajectory {
			p.Longitude = utils.DisplayLongitude(p.Longitude)
			points[j] = p
		}
		fixed.Prediction[i] = models.StagePrediction{Stage: stage.Stage, Trajectory: points}
	}
	if resp.LaunchEstimate != nil {
		estimate := *resp.LaunchEstimate
		estimate.Longitude = utils.DisplayLongitude(estimate.Longitude)
		fixed.LaunchEstimate = &estimate
	}
	return &fixed
}

// filenameStem derives a download filename from the launch datetime.
func filenameStem(resp *models.PredictionResponse) string {
	ts := strings.ReplaceAll(resp.Request.LaunchDatetime, ":", "-")
	return "prediction_" + ts
}

// CSV renders the trajectory as one row per point across all stages.
func CSV(resp *models.PredictionResponse) (data []byte, filename string, err error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write([]string{"stage", "datetime", "latitude", "longitude", "altitude"}); err != nil {
		return nil, "", errors.Wrap(err, "could not write csv header")
	}
	for _, stage := range resp.Prediction {
		for _, p := range stage.Trajectory {
			row := []string{
				stage.Stage,
				p.Datetime,
				strconv.FormatFloat(p.Latitude, 'f', 6, 64),
				strconv.FormatFloat(p.Longitude, 'f', 6, 64),
				strconv.FormatFloat(p.Altitude, 'f', 1, 64),
			}
			if err := w.Write(row); err != nil {
				return nil, "", errors.Wrap(err, "could not write csv row")
			}
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, "", errors.Wrap(err, "could not flush csv output")
	}
	return buf.Bytes(), filenameStem(resp) + ".csv", nil
}

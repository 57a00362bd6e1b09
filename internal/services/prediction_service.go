package services

import (
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"trajectory-service/internal/apierrors"
	"trajectory-service/internal/dataset"
	"trajectory-service/internal/models"
	"trajectory-service/internal/solver"
	"trajectory-service/internal/utils"
)

// PredictionService orchestrates one prediction: it resolves the wind
// dataset, builds the profile's stage list, runs the solver, and assembles
// the labeled trajectory response.
type PredictionService struct {
	DatasetDir string
	Elevation  *ElevationService
}

// NewPredictionService creates a new PredictionService.
func NewPredictionService(datasetDir string, elevation *ElevationService) *PredictionService {
	return &PredictionService{DatasetDir: datasetDir, Elevation: elevation}
}

// Run executes a prediction for the given validated request. warnings must
// be allocated fresh for this request; it accumulates through stage
// construction and the solver call and is serialized into the response.
func (s *PredictionService) Run(req *models.PredictionRequest, warnings *models.WarningCounts) (*models.PredictionResponse, error) {
	ds, err := s.resolveDataset(req)
	if err != nil {
		return nil, err
	}

	stages, labels, err := s.buildStages(req, ds, warnings)
	if err != nil {
		return nil, err
	}

	dt := float64(solver.DefaultTimeStep)
	if req.Profile == models.ProfileReverse {
		// Reverse predictions run the standard integration backward in time.
		dt = -dt
	}

	result, err := solver.Solve(req.LaunchDatetime, req.LaunchLatitude,
		req.LaunchLongitude, req.LaunchAltitude, stages, dt)
	if err != nil {
		return nil, apierrors.PredictionFailed(err)
	}

	prediction, err := labelStages(labels, result)
	if err != nil {
		return nil, err
	}

	resp := &models.PredictionResponse{
		Request:    echoRequest(req, ds.Time),
		Prediction: prediction,
	}
	if req.Profile == models.ProfileReverse {
		// The nominal launch input was the observation point; the true launch
		// site is the trajectory's terminus.
		last := prediction[len(prediction)-1].Trajectory
		terminus := last[len(last)-1]
		resp.LaunchEstimate = &models.PathPoint{
			Latitude:  terminus.Latitude,
			Longitude: terminus.Longitude,
			Altitude:  terminus.Altitude,
			Datetime:  utils.ToRFC3339(req.LaunchDatetime),
		}
	}
	resp.Warnings = warnings.ToMap()
	return resp, nil
}

// DatasetCheck reports the most recent resolvable dataset.
func (s *PredictionService) DatasetCheck() (*models.DatasetCheckResponse, error) {
	warnings := &models.WarningCounts{}
	ds, err := dataset.OpenLatest(s.DatasetDir)
	if err != nil {
		return nil, mapDatasetError(err)
	}
	return &models.DatasetCheckResponse{
		Request: models.DatasetCheckEcho{
			Version: models.APIVersion,
			Dataset: utils.FormatDatasetHour(ds.Time),
		},
		Warnings: warnings.ToMap(),
	}, nil
}

// BuildRecord summarizes a completed prediction for the history repository.
func (s *PredictionService) BuildRecord(id uuid.UUID, req *models.PredictionRequest,
	resp *models.PredictionResponse) *models.PredictionRecord {
	record := &models.PredictionRecord{
		ID:              id,
		Profile:         req.Profile,
		Format:          req.Format,
		LaunchLatitude:  req.LaunchLatitude,
		LaunchLongitude: req.LaunchLongitude,
		LaunchAltitude:  req.LaunchAltitude,
		LaunchDatetime:  req.LaunchDatetime.UTC(),
	}
	if t, err := time.Parse(utils.DatasetHourLayout, resp.Request.Dataset); err == nil {
		record.DatasetTime = t
	}

	var prevSet bool
	var prevLat, prevLon float64
	for _, stage := range resp.Prediction {
		record.PointCount += len(stage.Trajectory)
		for _, p := range stage.Trajectory {
			if prevSet {
				record.GroundTrackKm += utils.HaversineDistance(prevLat, prevLon, p.Latitude, p.Longitude) / 1000.0
			}
			prevLat, prevLon, prevSet = p.Latitude, p.Longitude, true
		}
	}
	if prevSet {
		record.LandingLatitude = prevLat
		record.LandingLongitude = prevLon
	}
	return record
}

func (s *PredictionService) resolveDataset(req *models.PredictionRequest) (*dataset.Dataset, error) {
	var ds *dataset.Dataset
	var err error
	if req.DatasetLatest {
		ds, err = dataset.OpenLatest(s.DatasetDir)
	} else {
		ds, err = dataset.Open(req.DatasetTime, s.DatasetDir)
	}
	if err != nil {
		return nil, mapDatasetError(err)
	}
	return ds, nil
}

func mapDatasetError(err error) error {
	if errors.Is(err, dataset.ErrNotFound) {
		return apierrors.NoMatchingDataset()
	}
	return apierrors.InvalidDataset(err.Error())
}

func (s *PredictionService) buildStages(req *models.PredictionRequest, ds *dataset.Dataset,
	warnings *models.WarningCounts) ([]solver.Stage, []string, error) {
	switch req.Profile {
	case models.ProfileStandard:
		stages := solver.StandardProfile(req.AscentRate, req.BurstAltitude,
			req.DescentRate, ds, s.Elevation.Lookup, warnings)
		return stages, []string{"ascent", "descent"}, nil
	case models.ProfileFloat:
		stages := solver.FloatProfile(req.AscentRate, req.FloatAltitude,
			req.StopDatetime, ds, warnings)
		return stages, []string{"ascent", "float"}, nil
	case models.ProfileReverse:
		stages := solver.ReverseProfile(req.AscentRate, ds, s.Elevation.Lookup, warnings)
		return stages, []string{"ascent", "descent"}, nil
	default:
		// The request parser only admits known profiles; reaching this branch
		// is an invariant violation, not a user input error.
		return nil, nil, apierrors.Internal("No implementation for known profile.")
	}
}

// labelStages converts raw solver output into labeled wire-form stages. The
// label and stage counts must agree; a mismatch is an internal fault.
func labelStages(labels []string, result [][]models.TrajectoryPoint) ([]models.StagePrediction, error) {
	if len(labels) != len(result) {
		return nil, apierrors.Internal("Stage count does not match profile labels.")
	}
	prediction := make([]models.StagePrediction, 0, len(result))
	for i, leg := range result {
		stage := models.StagePrediction{
			Stage:      labels[i],
			Trajectory: make([]models.PathPoint, 0, len(leg)),
		}
		for _, p := range leg {
			stage.Trajectory = append(stage.Trajectory, models.PathPoint{
				Latitude:  p.Latitude,
				Longitude: p.Longitude,
				Altitude:  p.Altitude,
				Datetime:  utils.ToRFC3339(p.Time),
			})
		}
		prediction = append(prediction, stage)
	}
	return prediction, nil
}

// echoRequest renders the normalized request for the response body. Every
// instant is re-encoded to RFC3339 and the dataset field always carries the
// resolved dataset's hour-truncated timestamp.
func echoRequest(req *models.PredictionRequest, dsTime time.Time) models.RequestEcho {
	echo := models.RequestEcho{
		Version:         req.Version,
		LaunchLatitude:  req.LaunchLatitude,
		LaunchLongitude: req.LaunchLongitude,
		LaunchDatetime:  utils.ToRFC3339(req.LaunchDatetime),
		LaunchAltitude:  req.LaunchAltitude,
		Format:          req.Format,
		Profile:         req.Profile,
		AscentRate:      req.AscentRate,
		Dataset:         utils.FormatDatasetHour(dsTime),
	}
	switch req.Profile {
	case models.ProfileStandard:
		echo.BurstAltitude = req.BurstAltitude
		echo.DescentRate = req.DescentRate
	case models.ProfileFloat:
		echo.FloatAltitude = req.FloatAltitude
		echo.StopDatetime = utils.ToRFC3339(req.StopDatetime)
	}
	return echo
}

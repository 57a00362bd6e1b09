package services

import (
	"log"

	"trajectory-service/internal/apierrors"
	"trajectory-service/internal/metrics"
	"trajectory-service/internal/models"
	"trajectory-service/internal/params"
)

func isKnownFormat(format string) bool {
	switch format {
	case models.FormatJSON, models.FormatCSV, models.FormatKML:
		return true
	}
	return false
}

// RequestService validates and normalizes raw query parameters into a typed
// PredictionRequest, resolving the launch altitude when it is not supplied.
type RequestService struct {
	Elevation *ElevationService
	Metrics   *metrics.Metrics
}

// NewRequestService creates a new RequestService.
func NewRequestService(elevation *ElevationService, m *metrics.Metrics) *RequestService {
	return &RequestService{Elevation: elevation, Metrics: m}
}

// Parse builds the typed request. Validation failures are returned at the
// point of detection; only elevation lookup failures are swallowed (they
// default the altitude to sea level and never fail the request).
func (s *RequestService) Parse(data params.Values) (*models.PredictionRequest, error) {
	req := &models.PredictionRequest{Version: models.APIVersion}

	var err error
	req.LaunchLatitude, err = params.Float(data, "launch_latitude", func(x float64) bool {
		return -90 <= x && x <= 90
	})
	if err != nil {
		return nil, err
	}
	req.LaunchLongitude, err = params.Float(data, "launch_longitude", func(x float64) bool {
		return 0 <= x && x < 360
	})
	if err != nil {
		return nil, err
	}
	req.LaunchDatetime, err = params.Time(data, "launch_datetime", nil)
	if err != nil {
		return nil, err
	}
	req.Format, err = params.String(data, "format", models.FormatJSON, isKnownFormat)
	if err != nil {
		return nil, err
	}

	altitude, err := params.OptionalFloat(data, "launch_altitude")
	if err != nil {
		return nil, err
	}
	if altitude != nil {
		req.LaunchAltitude = *altitude
	} else {
		req.LaunchAltitude = s.resolveLaunchAltitude(req.LaunchLatitude, req.LaunchLongitude)
	}

	req.Profile, err = params.String(data, "profile", models.ProfileStandard, nil)
	if err != nil {
		return nil, err
	}
	if err := s.parseProfileFields(data, req); err != nil {
		return nil, err
	}

	req.DatasetTime, req.DatasetLatest, err = params.TimeOrKeyword(
		data, "dataset", models.LatestDatasetKeyword)
	if err != nil {
		return nil, err
	}
	return req, nil
}

// parseProfileFields extracts the fields the selected profile requires.
// Cross-field constraints read values extracted above (burst and float
// altitudes validate against the resolved launch altitude).
func (s *RequestService) parseProfileFields(data params.Values, req *models.PredictionRequest) error {
	positive := func(x float64) bool { return x > 0 }
	aboveLaunch := func(x float64) bool { return x > req.LaunchAltitude }

	var err error
	switch req.Profile {
	case models.ProfileStandard:
		if req.AscentRate, err = params.Float(data, "ascent_rate", positive); err != nil {
			return err
		}
		if req.BurstAltitude, err = params.Float(data, "burst_altitude", aboveLaunch); err != nil {
			return err
		}
		if req.DescentRate, err = params.Float(data, "descent_rate", positive); err != nil {
			return err
		}
		req.AscentRate = models.ClipRate(req.AscentRate)
		req.DescentRate = models.ClipRate(req.DescentRate)
	case models.ProfileFloat:
		if req.AscentRate, err = params.Float(data, "ascent_rate", positive); err != nil {
			return err
		}
		if req.FloatAltitude, err = params.Float(data, "float_altitude", aboveLaunch); err != nil {
			return err
		}
		req.StopDatetime, err = params.Time(data, "stop_datetime", req.LaunchDatetime.Before)
		if err != nil {
			return err
		}
		req.AscentRate = models.ClipRate(req.AscentRate)
	case models.ProfileReverse:
		if req.AscentRate, err = params.Float(data, "ascent_rate", positive); err != nil {
			return err
		}
		req.AscentRate = models.ClipRate(req.AscentRate)
	default:
		return apierrors.UnknownProfile(req.Profile)
	}
	return nil
}

// resolveLaunchAltitude queries the elevation collaborator. Any lookup
// failure defaults to sea level so an elevation outage never blocks a
// prediction.
func (s *RequestService) resolveLaunchAltitude(lat, lon float64) float64 {
	altitude, err := s.Elevation.Lookup(lat, lon)
	if err != nil {
		log.Printf("Elevation lookup failed, defaulting launch altitude to 0.0: %v", err)
		if s.Metrics != nil {
			s.Metrics.IncElevationFallback()
		}
		return 0.0
	}
	return altitude
}

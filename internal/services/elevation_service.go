package services

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/pkg/errors"

	"trajectory-service/internal/storage"
)

// ElevationService looks up ground elevation from the external elevation
// collaborator, optionally caching results in Redis. Lookup fails only for
// the fixed set of collaborator failures: unreachable endpoint, non-200
// status, unparseable body, empty result list.
type ElevationService struct {
	BaseURL string
	Client  *http.Client
	Cache   *storage.ElevationCache
}

// NewElevationService creates a new ElevationService for the given endpoint.
// cache may be nil.
func NewElevationService(baseURL string, cache *storage.ElevationCache) *ElevationService {
	return &ElevationService{
		BaseURL: baseURL,
		Client:  &http.Client{Timeout: 10 * time.Second},
		Cache:   cache,
	}
}

type elevationResponse struct {
	Results []struct {
		Elevation float64 `json:"elevation"`
	} `json:"results"`
}

// Lookup returns the ground elevation in meters at the given position.
func (s *ElevationService) Lookup(lat, lon float64) (float64, error) {
	if s.Cache != nil {
		value, ok, err := s.Cache.Get(lat, lon)
		if err != nil {
			log.Printf("Elevation cache read failed: %v", err)
		} else if ok {
			return value, nil
		}
	}

	url := fmt.Sprintf("%s/api/v1/lookup?locations=%v,%v", s.BaseURL, lat, lon)
	resp, err := s.Client.Get(url)
	if err != nil {
		return 0, errors.Wrap(err, "elevation service unreachable")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, errors.Errorf("elevation service returned status %d", resp.StatusCode)
	}

	var parsed elevationResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return 0, errors.Wrap(err, "elevation response malformed")
	}
	if len(parsed.Results) == 0 {
		return 0, errors.New("elevation response contained no results")
	}
	elevation := parsed.Results[0].Elevation

	if s.Cache != nil {
		if err := s.Cache.Set(lat, lon, elevation); err != nil {
			log.Printf("Elevation cache write failed: %v", err)
		}
	}
	return elevation, nil
}

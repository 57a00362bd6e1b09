package models

import (
	"time"

	"github.com/google/uuid"
)

// PredictionRecord is the persisted summary of one completed prediction,
// stored for the history endpoint when a database is configured.
type PredictionRecord struct {
	ID               uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Profile          string    `json:"profile"`
	Format           string    `json:"format"`
	LaunchLatitude   float64   `json:"launch_latitude"`
	LaunchLongitude  float64   `json:"launch_longitude"`
	LaunchAltitude   float64   `json:"launch_altitude"`
	LaunchDatetime   time.Time `json:"launch_datetime"`
	DatasetTime      time.Time `json:"dataset_time"`
	LandingLatitude  float64   `json:"landing_latitude"`
	LandingLongitude float64   `json:"landing_longitude"`
	PointCount       int       `json:"point_count"`
	GroundTrackKm    float64   `json:"ground_track_km"`
	CreatedAt        time.Time `gorm:"autoCreateTime" json:"created_at"`
}

package repository

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	"trajectory-service/internal/models"
)

// PredictionRepository defines methods for prediction history persistence.
type PredictionRepository interface {
	CreateRecord(record *models.PredictionRecord) error
	GetRecord(id uuid.UUID) (*models.PredictionRecord, error)
	ListRecent(limit int) ([]models.PredictionRecord, error)
}

// PredictionRepositoryImpl provides methods to interact with the
// PredictionRecord model in the database.
type PredictionRepositoryImpl struct {
	db *gorm.DB
}

// NewPredictionRepository creates a new PredictionRepositoryImpl instance
// with the provided GORM database connection.
func NewPredictionRepository(db *gorm.DB) *PredictionRepositoryImpl {
	return &PredictionRepositoryImpl{db: db}
}

// CreateRecord stores the summary of one completed prediction.
func (r *PredictionRepositoryImpl) CreateRecord(record *models.PredictionRecord) error {
	return r.db.Create(record).Error
}

// GetRecord retrieves a PredictionRecord by its ID from the database.
func (r *PredictionRepositoryImpl) GetRecord(id uuid.UUID) (*models.PredictionRecord, error) {
	var record models.PredictionRecord
	err := r.db.First(&record, "id = ?", id).Error
	return &record, err
}

// ListRecent retrieves the most recent prediction records, newest first.
func (r *PredictionRepositoryImpl) ListRecent(limit int) ([]models.PredictionRecord, error) {
	var records []models.PredictionRecord
	err := r.db.Order("created_at DESC").Limit(limit).Find(&records).Error
	return records, err
}

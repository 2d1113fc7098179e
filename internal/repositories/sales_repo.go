package repositories

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"lapak/internal/models"
)

// SalesDataRepository defines the interface for sales rollup data access.
type SalesDataRepository interface {
	GetByDate(date time.Time) (*models.SalesData, error)
	GetSince(date time.Time) ([]models.SalesData, error)
	Create(data *models.SalesData) error
}

// GORMSalesDataRepository is a GORM implementation of SalesDataRepository.
type GORMSalesDataRepository struct {
	db *gorm.DB
}

// NewGORMSalesDataRepository creates a new instance of GORMSalesDataRepository.
func NewGORMSalesDataRepository(db *gorm.DB) *GORMSalesDataRepository {
	return &GORMSalesDataRepository{
		db: db,
	}
}

// GetByDate retrieves the rollup row for a calendar date.
func (r *GORMSalesDataRepository) GetByDate(date time.Time) (*models.SalesData, error) {
	day := models.DayOf(date)
	var data models.SalesData
	if err := r.db.First(&data, "date = ?", day).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &models.NotFoundError{Resource: "sales data", ID: day.Format("2006-01-02")}
		}
		return nil, fmt.Errorf("failed to get sales data for %s: %w", day.Format("2006-01-02"), err)
	}
	return &data, nil
}

// GetSince returns rollup rows from the given date onwards, oldest first.
func (r *GORMSalesDataRepository) GetSince(date time.Time) ([]models.SalesData, error) {
	var rows []models.SalesData
	err := r.db.Where("date >= ?", models.DayOf(date)).Order("date").Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get sales data since %s: %w", date.Format("2006-01-02"), err)
	}
	return rows, nil
}

// Create inserts a new rollup row. The unique index on date rejects a
// second row for the same day.
func (r *GORMSalesDataRepository) Create(data *models.SalesData) error {
	if data.ID == "" {
		data.ID = uuid.New().String()
	}
	data.Date = models.DayOf(data.Date)
	if err := r.db.Create(data).Error; err != nil {
		return fmt.Errorf("failed to create sales data: %w", err)
	}
	return nil
}

package store

import (
	"context"

	"gorm.io/gorm"

	"clinic-app-server/internal/models"
	"clinic-app-server/internal/scheduling"
)

// GormExceptionStore implements scheduling.ExceptionStore on gorm/MySQL.
type GormExceptionStore struct {
	DB *gorm.DB
}

// NewGormExceptionStore creates a new GormExceptionStore.
func NewGormExceptionStore(db *gorm.DB) *GormExceptionStore {
	return &GormExceptionStore{DB: db}
}

func (s *GormExceptionStore) ListForDoctor(ctx context.Context, doctorID, date string) ([]models.AvailabilityException, error) {
	query := s.DB.WithContext(ctx).Where("doctor_id = ?", doctorID)
	if date != "" {
		query = query.Where("scheduled_date = ?", date)
	}
	var exceptions []models.AvailabilityException
	if err := query.Order("scheduled_date asc, scheduled_time asc").Find(&exceptions).Error; err != nil {
		return nil, wrapStoreErr(err)
	}
	return exceptions, nil
}

func (s *GormExceptionStore) Create(ctx context.Context, exc *models.AvailabilityException) error {
	return wrapStoreErr(s.DB.WithContext(ctx).Create(exc).Error)
}

func (s *GormExceptionStore) Delete(ctx context.Context, id string) error {
	result := s.DB.WithContext(ctx).Delete(&models.AvailabilityException{}, "id = ?", id)
	if result.Error != nil {
		return wrapStoreErr(result.Error)
	}
	if result.RowsAffected == 0 {
		return scheduling.ErrNotFound
	}
	return nil
}

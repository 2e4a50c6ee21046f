package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-sql-driver/mysql"
	"gorm.io/gorm"

	"clinic-app-server/internal/models"
	"clinic-app-server/internal/scheduling"
)

// mysqlDuplicateEntry is the MySQL error number for a unique-index violation.
const mysqlDuplicateEntry = 1062

// GormAppointmentStore implements scheduling.AppointmentStore on gorm/MySQL.
type GormAppointmentStore struct {
	DB *gorm.DB
}

// NewGormAppointmentStore creates a new GormAppointmentStore.
func NewGormAppointmentStore(db *gorm.DB) *GormAppointmentStore {
	return &GormAppointmentStore{DB: db}
}

func (s *GormAppointmentStore) List(ctx context.Context, filter scheduling.Filter) ([]models.Appointment, error) {
	query := s.DB.WithContext(ctx).
		Order("scheduled_date asc, scheduled_time asc")
	if filter.DoctorID != "" {
		query = query.Where("doctor_id = ?", filter.DoctorID)
	}
	if filter.PatientID != "" {
		query = query.Where("patient_id = ?", filter.PatientID)
	}
	if filter.Date != "" {
		query = query.Where("scheduled_date = ?", filter.Date)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}

	var appointments []models.Appointment
	if err := query.Find(&appointments).Error; err != nil {
		return nil, wrapStoreErr(err)
	}
	return appointments, nil
}

func (s *GormAppointmentStore) GetByID(ctx context.Context, id string) (*models.Appointment, error) {
	var appointment models.Appointment
	if err := s.DB.WithContext(ctx).First(&appointment, "id = ?", id).Error; err != nil {
		return nil, wrapStoreErr(err)
	}
	return &appointment, nil
}

func (s *GormAppointmentStore) Create(ctx context.Context, appt *models.Appointment) error {
	return wrapStoreErr(s.DB.WithContext(ctx).Create(appt).Error)
}

func (s *GormAppointmentStore) Update(ctx context.Context, appt *models.Appointment) error {
	return wrapStoreErr(s.DB.WithContext(ctx).Save(appt).Error)
}

func (s *GormAppointmentStore) Delete(ctx context.Context, id string) error {
	return wrapStoreErr(s.DB.WithContext(ctx).Delete(&models.Appointment{}, "id = ?", id).Error)
}

// wrapStoreErr translates database failures into the scheduling error
// taxonomy. A duplicate slot_key entry means a concurrent writer won the
// slot, which callers must treat exactly like a local conflict.
func wrapStoreErr(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return scheduling.ErrNotFound
	}
	var mysqlErr *mysql.MySQLError
	if errors.As(err, &mysqlErr) && mysqlErr.Number == mysqlDuplicateEntry {
		return scheduling.ErrSlotTaken
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return scheduling.ErrSlotTaken
	}
	return fmt.Errorf("%w: %v", scheduling.ErrStoreUnavailable, err)
}

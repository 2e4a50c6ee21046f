package store

import (
	"context"

	"gorm.io/gorm"

	"clinic-app-server/internal/models"
)

// GormDirectory implements scheduling.Directory over the users table.
// A lookup only succeeds when the record carries the expected role, so a
// patient id can never be booked as a doctor.
type GormDirectory struct {
	DB *gorm.DB
}

// NewGormDirectory creates a new GormDirectory.
func NewGormDirectory(db *gorm.DB) *GormDirectory {
	return &GormDirectory{DB: db}
}

func (d *GormDirectory) GetDoctor(ctx context.Context, id string) (*models.User, error) {
	return d.getByRole(ctx, id, models.RoleDoctor)
}

func (d *GormDirectory) GetPatient(ctx context.Context, id string) (*models.User, error) {
	return d.getByRole(ctx, id, models.RolePatient)
}

func (d *GormDirectory) getByRole(ctx context.Context, id string, role models.Role) (*models.User, error) {
	var user models.User
	err := d.DB.WithContext(ctx).
		Where("id = ? AND role = ?", id, role).
		First(&user).Error
	if err != nil {
		return nil, wrapStoreErr(err)
	}
	return &user, nil
}

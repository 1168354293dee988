package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"taskflow/internal/model"
)

type profileRow struct {
	UserID              string `gorm:"primaryKey"`
	Name                string
	Email               string
	WorkHoursStart      string
	WorkHoursEnd        string
	CalendarSyncEnabled bool `gorm:"default:false"`
	LastSyncDate        *time.Time
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

func (profileRow) TableName() string { return "profiles" }

// ProfileRepository persists per-user settings.
type ProfileRepository struct {
	db *gorm.DB
}

func NewProfileRepository(db *gorm.DB) *ProfileRepository {
	return &ProfileRepository{db: db}
}

// Get returns the stored profile, or the defaults when the user has never
// saved one.
func (r *ProfileRepository) Get(ctx context.Context, userID string) (model.UserProfile, error) {
	var row profileRow
	err := r.db.WithContext(ctx).First(&row, "user_id = ?", userID).Error
	switch {
	case err == nil:
		return model.UserProfile{
			UserID:              row.UserID,
			Name:                row.Name,
			Email:               row.Email,
			WorkHoursStart:      row.WorkHoursStart,
			WorkHoursEnd:        row.WorkHoursEnd,
			CalendarSyncEnabled: row.CalendarSyncEnabled,
			LastSyncDate:        row.LastSyncDate,
		}, nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return model.DefaultProfile(userID), nil
	default:
		return model.UserProfile{}, fmt.Errorf("find profile: %w", err)
	}
}

// Save upserts the profile record.
func (r *ProfileRepository) Save(ctx context.Context, profile model.UserProfile) error {
	row := profileRow{
		UserID:              profile.UserID,
		Name:                profile.Name,
		Email:               profile.Email,
		WorkHoursStart:      profile.WorkHoursStart,
		WorkHoursEnd:        profile.WorkHoursEnd,
		CalendarSyncEnabled: profile.CalendarSyncEnabled,
		LastSyncDate:        profile.LastSyncDate,
	}
	if err := r.db.WithContext(ctx).Save(&row).Error; err != nil {
		return fmt.Errorf("save profile: %w", err)
	}
	return nil
}

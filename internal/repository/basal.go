package repository

import (
	"context"
	"errors"

	"github.com/glucolog/glucolog/internal/database"
	"github.com/glucolog/glucolog/internal/domain"
	apperrors "github.com/glucolog/glucolog/internal/errors"
	"gorm.io/gorm"
)

// BasalRepository stores the per-user flat fallback doses.
type BasalRepository struct {
	db *gorm.DB
}

func NewBasalRepository(db *gorm.DB) *BasalRepository {
	return &BasalRepository{db: db}
}

// GetBasal returns the user's basal configuration; an unconfigured user
// gets the zero config, not an error.
func (r *BasalRepository) GetBasal(ctx context.Context, userID uint) (domain.BasalConfig, error) {
	var row database.BasalConfig
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.BasalConfig{UserID: userID}, nil
	}
	if err != nil {
		return domain.BasalConfig{}, apperrors.NewDatabaseError(err)
	}
	return domain.BasalConfig{
		UserID:  row.UserID,
		Morning: row.MorningUnits,
		Noon:    row.NoonUnits,
		Evening: row.EveningUnits,
		Bedtime: row.BedtimeUnits,
	}, nil
}

func (r *BasalRepository) PutBasal(ctx context.Context, cfg domain.BasalConfig) error {
	var row database.BasalConfig
	err := r.db.WithContext(ctx).
		Where("user_id = ?", cfg.UserID).
		First(&row).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return apperrors.NewDatabaseError(err)
	}
	row.UserID = cfg.UserID
	row.MorningUnits = cfg.Morning
	row.NoonUnits = cfg.Noon
	row.EveningUnits = cfg.Evening
	row.BedtimeUnits = cfg.Bedtime
	if err := r.db.WithContext(ctx).Save(&row).Error; err != nil {
		return apperrors.NewDatabaseError(err)
	}
	return nil
}

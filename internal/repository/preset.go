package repository

import (
	"context"
	"errors"

	"github.com/glucolog/glucolog/internal/database"
	"github.com/glucolog/glucolog/internal/domain"
	apperrors "github.com/glucolog/glucolog/internal/errors"
	"gorm.io/gorm"
)

// PresetRepository handles insulin-preset persistence.
type PresetRepository struct {
	db *gorm.DB
}

func NewPresetRepository(db *gorm.DB) *PresetRepository {
	return &PresetRepository{db: db}
}

func presetToDomain(row database.InsulinPreset) domain.InsulinPreset {
	return domain.InsulinPreset{
		ID:        row.ID,
		UserID:    row.UserID,
		Name:      row.Name,
		SortOrder: row.SortOrder,
		Morning:   row.MorningUnits,
		Noon:      row.NoonUnits,
		Evening:   row.EveningUnits,
		Bedtime:   row.BedtimeUnits,
		CreatedAt: row.CreatedAt,
		UpdatedAt: row.UpdatedAt,
	}
}

// ListPresets returns the user's presets in sort order. That order is
// the authoritative base-dose precedence.
func (r *PresetRepository) ListPresets(ctx context.Context, userID uint) ([]domain.InsulinPreset, error) {
	var rows []database.InsulinPreset
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("sort_order ASC, id ASC").
		Find(&rows).Error; err != nil {
		return nil, apperrors.NewDatabaseError(err)
	}
	presets := make([]domain.InsulinPreset, 0, len(rows))
	for _, row := range rows {
		presets = append(presets, presetToDomain(row))
	}
	return presets, nil
}

func (r *PresetRepository) GetPreset(ctx context.Context, userID, id uint) (*domain.InsulinPreset, error) {
	var row database.InsulinPreset
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND id = ?", userID, id).
		First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.ErrPresetNotFound
	}
	if err != nil {
		return nil, apperrors.NewDatabaseError(err)
	}
	preset := presetToDomain(row)
	return &preset, nil
}

func (r *PresetRepository) CreatePreset(ctx context.Context, preset *domain.InsulinPreset) error {
	row := database.InsulinPreset{
		UserID:       preset.UserID,
		Name:         preset.Name,
		SortOrder:    preset.SortOrder,
		MorningUnits: preset.Morning,
		NoonUnits:    preset.Noon,
		EveningUnits: preset.Evening,
		BedtimeUnits: preset.Bedtime,
	}
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		return apperrors.NewDatabaseError(err)
	}
	preset.ID = row.ID
	preset.CreatedAt = row.CreatedAt
	preset.UpdatedAt = row.UpdatedAt
	return nil
}

func (r *PresetRepository) UpdatePreset(ctx context.Context, preset *domain.InsulinPreset) error {
	result := r.db.WithContext(ctx).
		Model(&database.InsulinPreset{}).
		Where("user_id = ? AND id = ?", preset.UserID, preset.ID).
		Updates(map[string]interface{}{
			"name":          preset.Name,
			"sort_order":    preset.SortOrder,
			"morning_units": preset.Morning,
			"noon_units":    preset.Noon,
			"evening_units": preset.Evening,
			"bedtime_units": preset.Bedtime,
		})
	if result.Error != nil {
		return apperrors.NewDatabaseError(result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.ErrPresetNotFound
	}
	return nil
}

func (r *PresetRepository) DeletePreset(ctx context.Context, userID, id uint) error {
	result := r.db.WithContext(ctx).
		Where("user_id = ? AND id = ?", userID, id).
		Delete(&database.InsulinPreset{})
	if result.Error != nil {
		return apperrors.NewDatabaseError(result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.ErrPresetNotFound
	}
	return nil
}

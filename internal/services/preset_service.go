package services

import (
	"context"

	"github.com/glucolog/glucolog/internal/cache"
	"github.com/glucolog/glucolog/internal/domain"
	apperrors "github.com/glucolog/glucolog/internal/errors"
)

// PresetService handles insulin presets and the flat basal fallback.
type PresetService struct {
	presets domain.PresetRepository
	basal   domain.BasalRepository
	cache   cache.SuggestionCache
}

func NewPresetService(presets domain.PresetRepository, basal domain.BasalRepository, c cache.SuggestionCache) *PresetService {
	return &PresetService{presets: presets, basal: basal, cache: c}
}

func validatePresetInput(in domain.PresetInput) error {
	if in.Name == "" {
		return apperrors.NewFieldValidationError("name", "name is required")
	}
	for field, amount := range map[string]*float64{
		"morning": in.Morning,
		"noon":    in.Noon,
		"evening": in.Evening,
		"bedtime": in.Bedtime,
	} {
		if amount != nil && *amount < 0 {
			return apperrors.NewFieldValidationError(field, "preset units must not be negative")
		}
	}
	return nil
}

func (s *PresetService) Create(ctx context.Context, userID uint, in domain.PresetInput) (*domain.InsulinPreset, error) {
	if err := validatePresetInput(in); err != nil {
		return nil, err
	}
	preset := &domain.InsulinPreset{
		UserID:    userID,
		Name:      in.Name,
		SortOrder: in.SortOrder,
		Morning:   in.Morning,
		Noon:      in.Noon,
		Evening:   in.Evening,
		Bedtime:   in.Bedtime,
	}
	if err := s.presets.CreatePreset(ctx, preset); err != nil {
		return nil, err
	}
	s.cache.InvalidateUser(ctx, userID)
	return preset, nil
}

func (s *PresetService) List(ctx context.Context, userID uint) ([]domain.InsulinPreset, error) {
	return s.presets.ListPresets(ctx, userID)
}

func (s *PresetService) Update(ctx context.Context, userID, id uint, in domain.PresetInput) (*domain.InsulinPreset, error) {
	if err := validatePresetInput(in); err != nil {
		return nil, err
	}
	preset := &domain.InsulinPreset{
		ID:        id,
		UserID:    userID,
		Name:      in.Name,
		SortOrder: in.SortOrder,
		Morning:   in.Morning,
		Noon:      in.Noon,
		Evening:   in.Evening,
		Bedtime:   in.Bedtime,
	}
	if err := s.presets.UpdatePreset(ctx, preset); err != nil {
		return nil, err
	}
	s.cache.InvalidateUser(ctx, userID)
	return s.presets.GetPreset(ctx, userID, id)
}

func (s *PresetService) Delete(ctx context.Context, userID, id uint) error {
	if err := s.presets.DeletePreset(ctx, userID, id); err != nil {
		return err
	}
	s.cache.InvalidateUser(ctx, userID)
	return nil
}

func (s *PresetService) GetBasal(ctx context.Context, userID uint) (domain.BasalConfig, error) {
	return s.basal.GetBasal(ctx, userID)
}

func (s *PresetService) PutBasal(ctx context.Context, userID uint, cfg domain.BasalConfig) (domain.BasalConfig, error) {
	for field, amount := range map[string]float64{
		"morning": cfg.Morning,
		"noon":    cfg.Noon,
		"evening": cfg.Evening,
		"bedtime": cfg.Bedtime,
	} {
		if amount < 0 {
			return domain.BasalConfig{}, apperrors.NewFieldValidationError(field, "basal units must not be negative")
		}
	}
	cfg.UserID = userID
	if err := s.basal.PutBasal(ctx, cfg); err != nil {
		return domain.BasalConfig{}, err
	}
	s.cache.InvalidateUser(ctx, userID)
	return cfg, nil
}

package services

import (
	"context"
	"fmt"

	"github.com/glucolog/glucolog/internal/cache"
	"github.com/glucolog/glucolog/internal/domain"
	apperrors "github.com/glucolog/glucolog/internal/errors"
	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// RuleService validates and persists adjustment rules. Validation
// happens here, at write time, so the engine can assume well-formed
// rules and never needs to fail an evaluation.
type RuleService struct {
	rules   domain.RuleRepository
	presets domain.PresetRepository
	cache   cache.SuggestionCache
}

func NewRuleService(rules domain.RuleRepository, presets domain.PresetRepository, c cache.SuggestionCache) *RuleService {
	return &RuleService{rules: rules, presets: presets, cache: c}
}

// parseRuleInput normalizes and validates a submitted rule. Unknown
// enum values are rejected, never coerced.
func (s *RuleService) parseRuleInput(ctx context.Context, userID uint, in domain.RuleInput) (*domain.AdjustmentRule, error) {
	slot, err := domain.ParseTimeSlot(in.TimeSlot)
	if err != nil {
		return nil, apperrors.NewFieldValidationError("timeSlot", err.Error())
	}
	cond, err := domain.ParseConditionRef(in.Condition)
	if err != nil {
		return nil, apperrors.NewFieldValidationError("conditionType", err.Error())
	}
	cmp, err := domain.ParseComparison(in.Comparison)
	if err != nil {
		return nil, apperrors.NewFieldValidationError("comparison", err.Error())
	}
	target, err := domain.ParseTargetRef(in.Target)
	if err != nil {
		return nil, apperrors.NewFieldValidationError("targetTimeSlot", err.Error())
	}
	if err := validate.Var(in.Threshold, "min=0"); err != nil {
		return nil, apperrors.NewFieldValidationError("threshold", "threshold must not be negative")
	}
	if err := validate.Var(in.Amount, "min=-20,max=20"); err != nil {
		return nil, apperrors.NewFieldValidationError("adjustmentAmount", "adjustment amount must be between -20 and 20")
	}
	if in.PresetID != nil {
		if _, err := s.presets.GetPreset(ctx, userID, *in.PresetID); err != nil {
			return nil, apperrors.NewFieldValidationError("presetId", "preset not found")
		}
	}

	rule := &domain.AdjustmentRule{
		UserID:     userID,
		Name:       in.Name,
		TimeSlot:   slot,
		Condition:  cond,
		Threshold:  in.Threshold,
		Comparison: cmp,
		Amount:     in.Amount,
		Target:     target,
		PresetID:   in.PresetID,
	}
	if rule.Name == "" {
		rule.Name = autoName(rule)
	}
	return rule, nil
}

// autoName derives a display name when the user leaves it blank,
// e.g. "previous day bedtime >= 140: +2 units (morning)".
func autoName(r *domain.AdjustmentRule) string {
	return fmt.Sprintf("%s %s %d: %+d units (%s)",
		r.Condition.Describe(), r.Comparison.Describe(), r.Threshold,
		r.Amount, r.Target.Slot)
}

func (s *RuleService) Create(ctx context.Context, userID uint, in domain.RuleInput) (*domain.AdjustmentRule, error) {
	rule, err := s.parseRuleInput(ctx, userID, in)
	if err != nil {
		return nil, err
	}
	if err := s.rules.CreateRule(ctx, rule); err != nil {
		return nil, err
	}
	s.cache.InvalidateUser(ctx, userID)
	return rule, nil
}

func (s *RuleService) List(ctx context.Context, userID uint) ([]domain.AdjustmentRule, error) {
	return s.rules.ListRules(ctx, userID)
}

func (s *RuleService) Update(ctx context.Context, userID, id uint, in domain.RuleInput) (*domain.AdjustmentRule, error) {
	rule, err := s.parseRuleInput(ctx, userID, in)
	if err != nil {
		return nil, err
	}
	rule.ID = id
	if err := s.rules.UpdateRule(ctx, rule); err != nil {
		return nil, err
	}
	s.cache.InvalidateUser(ctx, userID)
	return s.rules.GetRule(ctx, userID, id)
}

func (s *RuleService) Delete(ctx context.Context, userID, id uint) error {
	if err := s.rules.DeleteRule(ctx, userID, id); err != nil {
		return err
	}
	s.cache.InvalidateUser(ctx, userID)
	return nil
}

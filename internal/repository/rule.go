package repository

import (
	"context"
	"errors"

	"github.com/glucolog/glucolog/internal/database"
	"github.com/glucolog/glucolog/internal/domain"
	apperrors "github.com/glucolog/glucolog/internal/errors"
	"gorm.io/gorm"
)

// RuleRepository handles adjustment-rule persistence.
type RuleRepository struct {
	db *gorm.DB
}

func NewRuleRepository(db *gorm.DB) *RuleRepository {
	return &RuleRepository{db: db}
}

// ruleToDomain normalizes the string-typed enum columns. Values that
// fail normalization are carried through verbatim so the rule fails
// Valid() and is skipped at evaluation, never misread.
func ruleToDomain(row database.AdjustmentRule) domain.AdjustmentRule {
	slot, err := domain.ParseTimeSlot(row.TimeSlot)
	if err != nil {
		slot = domain.TimeSlot(row.TimeSlot)
	}
	condDay, err := domain.ParseDayQualifier(row.ConditionDay)
	if err != nil {
		condDay = domain.DayQualifier(row.ConditionDay)
	}
	condSlot, err := domain.ParseMeasurementSlot(row.ConditionSlot)
	if err != nil {
		condSlot = domain.MeasurementSlot(row.ConditionSlot)
	}
	cmp, err := domain.ParseComparison(row.Comparison)
	if err != nil {
		cmp = domain.Comparison(row.Comparison)
	}
	targetDay, err := domain.ParseDayQualifier(row.TargetDay)
	if err != nil {
		targetDay = domain.DayQualifier(row.TargetDay)
	}
	targetSlot, err := domain.ParseTimeSlot(row.TargetSlot)
	if err != nil {
		targetSlot = domain.TimeSlot(row.TargetSlot)
	}
	return domain.AdjustmentRule{
		ID:         row.ID,
		UserID:     row.UserID,
		Name:       row.Name,
		TimeSlot:   slot,
		Condition:  domain.ConditionRef{Day: condDay, Slot: condSlot},
		Threshold:  row.Threshold,
		Comparison: cmp,
		Amount:     row.Amount,
		Target:     domain.TargetRef{Day: targetDay, Slot: targetSlot},
		PresetID:   row.PresetID,
		CreatedAt:  row.CreatedAt,
		UpdatedAt:  row.UpdatedAt,
	}
}

func ruleToRow(rule *domain.AdjustmentRule) database.AdjustmentRule {
	row := database.AdjustmentRule{
		UserID:        rule.UserID,
		Name:          rule.Name,
		TimeSlot:      string(rule.TimeSlot),
		ConditionDay:  string(rule.Condition.Day),
		ConditionSlot: string(rule.Condition.Slot),
		Threshold:     rule.Threshold,
		Comparison:    string(rule.Comparison),
		Amount:        rule.Amount,
		TargetDay:     string(rule.Target.Day),
		TargetSlot:    string(rule.Target.Slot),
		PresetID:      rule.PresetID,
	}
	row.ID = rule.ID
	return row
}

func (r *RuleRepository) ListRules(ctx context.Context, userID uint) ([]domain.AdjustmentRule, error) {
	var rows []database.AdjustmentRule
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("id ASC").
		Find(&rows).Error; err != nil {
		return nil, apperrors.NewDatabaseError(err)
	}
	rules := make([]domain.AdjustmentRule, 0, len(rows))
	for _, row := range rows {
		rules = append(rules, ruleToDomain(row))
	}
	return rules, nil
}

func (r *RuleRepository) GetRule(ctx context.Context, userID, id uint) (*domain.AdjustmentRule, error) {
	var row database.AdjustmentRule
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND id = ?", userID, id).
		First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.ErrRuleNotFound
	}
	if err != nil {
		return nil, apperrors.NewDatabaseError(err)
	}
	rule := ruleToDomain(row)
	return &rule, nil
}

func (r *RuleRepository) CreateRule(ctx context.Context, rule *domain.AdjustmentRule) error {
	row := ruleToRow(rule)
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		return apperrors.NewDatabaseError(err)
	}
	rule.ID = row.ID
	rule.CreatedAt = row.CreatedAt
	rule.UpdatedAt = row.UpdatedAt
	return nil
}

func (r *RuleRepository) UpdateRule(ctx context.Context, rule *domain.AdjustmentRule) error {
	row := ruleToRow(rule)
	result := r.db.WithContext(ctx).
		Model(&database.AdjustmentRule{}).
		Where("user_id = ? AND id = ?", rule.UserID, rule.ID).
		Updates(map[string]interface{}{
			"name":           row.Name,
			"time_slot":      row.TimeSlot,
			"condition_day":  row.ConditionDay,
			"condition_slot": row.ConditionSlot,
			"threshold":      row.Threshold,
			"comparison":     row.Comparison,
			"amount":         row.Amount,
			"target_day":     row.TargetDay,
			"target_slot":    row.TargetSlot,
			"preset_id":      row.PresetID,
		})
	if result.Error != nil {
		return apperrors.NewDatabaseError(result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.ErrRuleNotFound
	}
	return nil
}

func (r *RuleRepository) DeleteRule(ctx context.Context, userID, id uint) error {
	result := r.db.WithContext(ctx).
		Where("user_id = ? AND id = ?", userID, id).
		Delete(&database.AdjustmentRule{})
	if result.Error != nil {
		return apperrors.NewDatabaseError(result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.ErrRuleNotFound
	}
	return nil
}

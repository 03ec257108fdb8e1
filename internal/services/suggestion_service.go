package services

import (
	"context"
	"fmt"

	"github.com/glucolog/glucolog/internal/cache"
	"github.com/glucolog/glucolog/internal/domain"
	"github.com/glucolog/glucolog/internal/engine"
	apperrors "github.com/glucolog/glucolog/internal/errors"
)

// SuggestionService snapshots a user's rules, presets, basal config and
// recent measurements into memory, then runs the pure engine over the
// snapshot. The engine performs no I/O of its own.
type SuggestionService struct {
	rules   domain.RuleRepository
	entries domain.EntryRepository
	presets domain.PresetRepository
	basal   domain.BasalRepository
	cache   cache.SuggestionCache
}

func NewSuggestionService(
	rules domain.RuleRepository,
	entries domain.EntryRepository,
	presets domain.PresetRepository,
	basal domain.BasalRepository,
	c cache.SuggestionCache,
) *SuggestionService {
	return &SuggestionService{rules: rules, entries: entries, presets: presets, basal: basal, cache: c}
}

type lookupKey struct {
	date domain.Date
	slot domain.MeasurementSlot
}

// snapshotLookup indexes fetched entries for the engine. On duplicate
// (date, slot) rows the most recently created entry wins.
func snapshotLookup(entries []domain.GlucoseEntry) engine.LookupFunc {
	index := make(map[lookupKey]*domain.GlucoseEntry, len(entries))
	for i := range entries {
		e := &entries[i]
		key := lookupKey{date: e.Date, slot: e.Slot}
		if prev, ok := index[key]; ok && prev.CreatedAt.After(e.CreatedAt) {
			continue
		}
		index[key] = e
	}
	return func(date domain.Date, slot domain.MeasurementSlot) *domain.GlucoseEntry {
		return index[lookupKey{date: date, slot: slot}]
	}
}

func (s *SuggestionService) Suggest(ctx context.Context, userID uint, date domain.Date, slot domain.MeasurementSlot, glucose int) (*domain.Suggestion, error) {
	if !slot.Valid() {
		return nil, apperrors.NewFieldValidationError("timeSlot", "unknown measurement slot")
	}
	if glucose < 20 || glucose > 600 {
		return nil, apperrors.NewFieldValidationError("glucoseLevel", "glucose level must be between 20 and 600 mg/dL")
	}

	key := cache.Key(date, slot, glucose)
	if cached, ok := s.cache.Get(ctx, userID, key); ok {
		return cached, nil
	}

	rules, err := s.rules.ListRules(ctx, userID)
	if err != nil {
		return nil, err
	}
	presets, err := s.presets.ListPresets(ctx, userID)
	if err != nil {
		return nil, err
	}
	basal, err := s.basal.GetBasal(ctx, userID)
	if err != nil {
		return nil, err
	}
	// Conditions only ever reference the entry's own day or the day
	// before it, so a two-day window covers every lookup.
	entries, err := s.entries.ListEntries(ctx, userID, date.AddDays(-1), date)
	if err != nil {
		return nil, err
	}

	result := engine.Evaluate(engine.Input{
		Date:         date,
		Occasion:     slot,
		Slot:         slot.DosingSlot(),
		GlucoseValue: glucose,
		Rules:        rules,
		Presets:      presets,
		Basal:        basal,
		Lookup:       snapshotLookup(entries),
	})

	s.cache.Set(ctx, userID, key, &result)
	return &result, nil
}

// Explain returns the fired rules across all target groups, with the
// display name of each rule's linked preset for the "why this dose"
// view.
func (s *SuggestionService) Explain(ctx context.Context, userID uint, date domain.Date, slot domain.MeasurementSlot, glucose int) ([]domain.FiredRule, error) {
	suggestion, err := s.Suggest(ctx, userID, date, slot, glucose)
	if err != nil {
		return nil, err
	}
	presets, err := s.presets.ListPresets(ctx, userID)
	if err != nil {
		return nil, err
	}
	presetNames := make(map[uint]string, len(presets))
	for _, p := range presets {
		presetNames[p.ID] = p.Name
	}

	fired := make([]domain.FiredRule, 0)
	for _, group := range suggestion.Groups {
		for _, rule := range group.FiredRules {
			f := domain.FiredRule{
				RuleID: rule.ID,
				Name:   rule.Name,
				Condition: fmt.Sprintf("%s %s %d",
					rule.Condition.Describe(), rule.Comparison.Describe(), rule.Threshold),
				Delta: rule.Amount,
			}
			if rule.PresetID != nil {
				f.PresetName = presetNames[*rule.PresetID]
			}
			fired = append(fired, f)
		}
	}
	return fired, nil
}

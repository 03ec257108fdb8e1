package services

import (
	"context"
	"sort"
	"time"

	"github.com/glucolog/glucolog/internal/domain"
	apperrors "github.com/glucolog/glucolog/internal/errors"
)

// In-memory repository fakes. They mirror the storage contracts closely
// enough for service-level tests without a database.

type fakeRuleRepo struct {
	rules  map[uint]domain.AdjustmentRule
	nextID uint
	lists  int // ListRules call count, for cache assertions
}

func newFakeRuleRepo() *fakeRuleRepo {
	return &fakeRuleRepo{rules: make(map[uint]domain.AdjustmentRule), nextID: 1}
}

func (f *fakeRuleRepo) ListRules(_ context.Context, userID uint) ([]domain.AdjustmentRule, error) {
	f.lists++
	var out []domain.AdjustmentRule
	for _, r := range f.rules {
		if r.UserID == userID {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeRuleRepo) GetRule(_ context.Context, userID, id uint) (*domain.AdjustmentRule, error) {
	r, ok := f.rules[id]
	if !ok || r.UserID != userID {
		return nil, apperrors.ErrRuleNotFound
	}
	return &r, nil
}

func (f *fakeRuleRepo) CreateRule(_ context.Context, rule *domain.AdjustmentRule) error {
	rule.ID = f.nextID
	f.nextID++
	f.rules[rule.ID] = *rule
	return nil
}

func (f *fakeRuleRepo) UpdateRule(_ context.Context, rule *domain.AdjustmentRule) error {
	existing, ok := f.rules[rule.ID]
	if !ok || existing.UserID != rule.UserID {
		return apperrors.ErrRuleNotFound
	}
	f.rules[rule.ID] = *rule
	return nil
}

func (f *fakeRuleRepo) DeleteRule(_ context.Context, userID, id uint) error {
	r, ok := f.rules[id]
	if !ok || r.UserID != userID {
		return apperrors.ErrRuleNotFound
	}
	delete(f.rules, id)
	return nil
}

type fakeEntryRepo struct {
	entries map[uint]domain.GlucoseEntry
	nextID  uint
}

func newFakeEntryRepo() *fakeEntryRepo {
	return &fakeEntryRepo{entries: make(map[uint]domain.GlucoseEntry), nextID: 1}
}

func (f *fakeEntryRepo) GetEntry(_ context.Context, userID uint, date domain.Date, slot domain.MeasurementSlot) (*domain.GlucoseEntry, error) {
	var latest *domain.GlucoseEntry
	for id := range f.entries {
		e := f.entries[id]
		if e.UserID != userID || e.Date != date || e.Slot != slot {
			continue
		}
		if latest == nil || e.CreatedAt.After(latest.CreatedAt) {
			copied := e
			latest = &copied
		}
	}
	return latest, nil
}

func (f *fakeEntryRepo) GetEntryByID(_ context.Context, userID, id uint) (*domain.GlucoseEntry, error) {
	e, ok := f.entries[id]
	if !ok || e.UserID != userID {
		return nil, apperrors.ErrEntryNotFound
	}
	return &e, nil
}

func (f *fakeEntryRepo) ListEntries(_ context.Context, userID uint, from, to domain.Date) ([]domain.GlucoseEntry, error) {
	var out []domain.GlucoseEntry
	for _, e := range f.entries {
		if e.UserID != userID {
			continue
		}
		if !from.IsZero() && e.Date.Time().Before(from.Time()) {
			continue
		}
		if !to.IsZero() && e.Date.Time().After(to.Time()) {
			continue
		}
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeEntryRepo) CreateEntry(_ context.Context, entry *domain.GlucoseEntry) error {
	entry.ID = f.nextID
	f.nextID++
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now()
	}
	f.entries[entry.ID] = *entry
	return nil
}

func (f *fakeEntryRepo) UpdateEntry(_ context.Context, entry *domain.GlucoseEntry) error {
	existing, ok := f.entries[entry.ID]
	if !ok || existing.UserID != entry.UserID {
		return apperrors.ErrEntryNotFound
	}
	f.entries[entry.ID] = *entry
	return nil
}

func (f *fakeEntryRepo) DeleteEntry(_ context.Context, userID, id uint) error {
	e, ok := f.entries[id]
	if !ok || e.UserID != userID {
		return apperrors.ErrEntryNotFound
	}
	delete(f.entries, id)
	return nil
}

type fakePresetRepo struct {
	presets map[uint]domain.InsulinPreset
	nextID  uint
}

func newFakePresetRepo() *fakePresetRepo {
	return &fakePresetRepo{presets: make(map[uint]domain.InsulinPreset), nextID: 1}
}

func (f *fakePresetRepo) ListPresets(_ context.Context, userID uint) ([]domain.InsulinPreset, error) {
	var out []domain.InsulinPreset
	for _, p := range f.presets {
		if p.UserID == userID {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].SortOrder != out[j].SortOrder {
			return out[i].SortOrder < out[j].SortOrder
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (f *fakePresetRepo) GetPreset(_ context.Context, userID, id uint) (*domain.InsulinPreset, error) {
	p, ok := f.presets[id]
	if !ok || p.UserID != userID {
		return nil, apperrors.ErrPresetNotFound
	}
	return &p, nil
}

func (f *fakePresetRepo) CreatePreset(_ context.Context, preset *domain.InsulinPreset) error {
	preset.ID = f.nextID
	f.nextID++
	f.presets[preset.ID] = *preset
	return nil
}

func (f *fakePresetRepo) UpdatePreset(_ context.Context, preset *domain.InsulinPreset) error {
	existing, ok := f.presets[preset.ID]
	if !ok || existing.UserID != preset.UserID {
		return apperrors.ErrPresetNotFound
	}
	f.presets[preset.ID] = *preset
	return nil
}

func (f *fakePresetRepo) DeletePreset(_ context.Context, userID, id uint) error {
	p, ok := f.presets[id]
	if !ok || p.UserID != userID {
		return apperrors.ErrPresetNotFound
	}
	delete(f.presets, id)
	return nil
}

type fakeBasalRepo struct {
	configs map[uint]domain.BasalConfig
}

func newFakeBasalRepo() *fakeBasalRepo {
	return &fakeBasalRepo{configs: make(map[uint]domain.BasalConfig)}
}

func (f *fakeBasalRepo) GetBasal(_ context.Context, userID uint) (domain.BasalConfig, error) {
	if cfg, ok := f.configs[userID]; ok {
		return cfg, nil
	}
	return domain.BasalConfig{UserID: userID}, nil
}

func (f *fakeBasalRepo) PutBasal(_ context.Context, cfg domain.BasalConfig) error {
	f.configs[cfg.UserID] = cfg
	return nil
}

type fakeUserRepo struct {
	users map[uint]domain.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[uint]domain.User)}
}

func (f *fakeUserRepo) GetUserByToken(_ context.Context, token string) (*domain.User, error) {
	for _, u := range f.users {
		if u.APIToken == token {
			copied := u
			return &copied, nil
		}
	}
	return nil, apperrors.ErrUserNotFound
}

func (f *fakeUserRepo) GetUserByID(_ context.Context, id uint) (*domain.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, apperrors.ErrUserNotFound
	}
	return &u, nil
}

type recordingNotifier struct {
	calls []domain.Recommendation
}

func (n *recordingNotifier) SuggestionLogged(_ context.Context, _ *domain.User, _ *domain.GlucoseEntry, rec domain.Recommendation) {
	n.calls = append(n.calls, rec)
}

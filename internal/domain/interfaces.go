package domain

import (
	"context"
)

// EntryInput is the payload for creating or editing a glucose entry.
type EntryInput struct {
	Date         Date
	Slot         MeasurementSlot
	GlucoseLevel int
	Note         string
	InsulinTaken *float64
}

// RuleInput is the payload for creating or editing an adjustment rule.
// Enum fields arrive as strings and are parsed and validated before a
// rule is ever persisted.
type RuleInput struct {
	Name       string
	TimeSlot   string
	Condition  string
	Threshold  int
	Comparison string
	Amount     int
	Target     string
	PresetID   *uint
}

// PresetInput is the payload for creating or editing an insulin preset.
type PresetInput struct {
	Name      string
	SortOrder int
	Morning   *float64
	Noon      *float64
	Evening   *float64
	Bedtime   *float64
}

// EntryService handles glucose-entry operations.
type EntryService interface {
	Add(ctx context.Context, userID uint, in EntryInput) (*GlucoseEntry, *Suggestion, error)
	List(ctx context.Context, userID uint, from, to Date) ([]GlucoseEntry, error)
	Update(ctx context.Context, userID, id uint, in EntryInput) (*GlucoseEntry, error)
	Delete(ctx context.Context, userID, id uint) error
}

// RuleService handles adjustment-rule operations.
type RuleService interface {
	Create(ctx context.Context, userID uint, in RuleInput) (*AdjustmentRule, error)
	List(ctx context.Context, userID uint) ([]AdjustmentRule, error)
	Update(ctx context.Context, userID, id uint, in RuleInput) (*AdjustmentRule, error)
	Delete(ctx context.Context, userID, id uint) error
}

// PresetService handles insulin-preset and basal-config operations.
type PresetService interface {
	Create(ctx context.Context, userID uint, in PresetInput) (*InsulinPreset, error)
	List(ctx context.Context, userID uint) ([]InsulinPreset, error)
	Update(ctx context.Context, userID, id uint, in PresetInput) (*InsulinPreset, error)
	Delete(ctx context.Context, userID, id uint) error
	GetBasal(ctx context.Context, userID uint) (BasalConfig, error)
	PutBasal(ctx context.Context, userID uint, cfg BasalConfig) (BasalConfig, error)
}

// SuggestionService computes dose suggestions for a glucose value at a
// measurement occasion.
type SuggestionService interface {
	Suggest(ctx context.Context, userID uint, date Date, slot MeasurementSlot, glucose int) (*Suggestion, error)
	Explain(ctx context.Context, userID uint, date Date, slot MeasurementSlot, glucose int) ([]FiredRule, error)
}

// UserService resolves accounts for request scoping.
type UserService interface {
	GetByToken(ctx context.Context, token string) (*User, error)
}

// RuleRepository is the rule storage contract.
type RuleRepository interface {
	ListRules(ctx context.Context, userID uint) ([]AdjustmentRule, error)
	GetRule(ctx context.Context, userID, id uint) (*AdjustmentRule, error)
	CreateRule(ctx context.Context, rule *AdjustmentRule) error
	UpdateRule(ctx context.Context, rule *AdjustmentRule) error
	DeleteRule(ctx context.Context, userID, id uint) error
}

// EntryRepository is the glucose-entry storage contract.
type EntryRepository interface {
	GetEntry(ctx context.Context, userID uint, date Date, slot MeasurementSlot) (*GlucoseEntry, error)
	GetEntryByID(ctx context.Context, userID, id uint) (*GlucoseEntry, error)
	ListEntries(ctx context.Context, userID uint, from, to Date) ([]GlucoseEntry, error)
	CreateEntry(ctx context.Context, entry *GlucoseEntry) error
	UpdateEntry(ctx context.Context, entry *GlucoseEntry) error
	DeleteEntry(ctx context.Context, userID, id uint) error
}

// PresetRepository is the insulin-preset storage contract. ListPresets
// returns presets in sort order; that order is the base-dose precedence.
type PresetRepository interface {
	ListPresets(ctx context.Context, userID uint) ([]InsulinPreset, error)
	GetPreset(ctx context.Context, userID, id uint) (*InsulinPreset, error)
	CreatePreset(ctx context.Context, preset *InsulinPreset) error
	UpdatePreset(ctx context.Context, preset *InsulinPreset) error
	DeletePreset(ctx context.Context, userID, id uint) error
}

// BasalRepository stores the flat per-slot fallback doses.
type BasalRepository interface {
	GetBasal(ctx context.Context, userID uint) (BasalConfig, error)
	PutBasal(ctx context.Context, cfg BasalConfig) error
}

// UserRepository is the account storage contract.
type UserRepository interface {
	GetUserByToken(ctx context.Context, token string) (*User, error)
	GetUserByID(ctx context.Context, id uint) (*User, error)
}

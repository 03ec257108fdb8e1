package engine

import (
	"testing"
	"time"

	"github.com/glucolog/glucolog/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var anchor = domain.NewDate(2026, time.March, 1)

type mapLookup map[string]*domain.GlucoseEntry

func (m mapLookup) Glucose(date domain.Date, slot domain.MeasurementSlot) *domain.GlucoseEntry {
	return m[date.String()+"/"+string(slot)]
}

func entry(date domain.Date, slot domain.MeasurementSlot, level int) *domain.GlucoseEntry {
	return &domain.GlucoseEntry{Date: date, Slot: slot, GlucoseLevel: level}
}

func morningRule(id uint, cmp domain.Comparison, threshold, amount int) domain.AdjustmentRule {
	return domain.AdjustmentRule{
		ID:         id,
		TimeSlot:   domain.SlotMorning,
		Condition:  domain.ConditionRef{Day: domain.SameDay, Slot: domain.AfterBreakfast},
		Threshold:  threshold,
		Comparison: cmp,
		Amount:     amount,
		Target:     domain.TargetRef{Day: domain.SameDay, Slot: domain.SlotMorning},
	}
}

func morningInput(glucose int, rules []domain.AdjustmentRule, lookup MeasurementLookup) Input {
	if lookup == nil {
		lookup = mapLookup{}
	}
	return Input{
		Date:         anchor,
		Occasion:     domain.AfterBreakfast,
		Slot:         domain.SlotMorning,
		GlucoseValue: glucose,
		Rules:        rules,
		Presets: []domain.InsulinPreset{
			{ID: 1, Name: "Rapid", SortOrder: 0, Morning: fptr(4)},
		},
		Lookup: lookup,
	}
}

// Scenario: base 4u from preset, one >= 140 +2 rule, entered value 152.
func TestHighReadingRaisesDose(t *testing.T) {
	rule := morningRule(1, domain.GreaterOrEqual, 140, +2)
	got := Evaluate(morningInput(152, []domain.AdjustmentRule{rule}, nil))

	require.Len(t, got.Primary.FiredRules, 1)
	assert.Equal(t, uint(1), got.Primary.FiredRules[0].ID)
	assert.Equal(t, 4.0, got.Primary.BaseDose)
	assert.Equal(t, 6.0, got.Primary.FinalDose)
}

// Scenario: boundary-inclusive low rule, value exactly at threshold.
func TestLowBoundaryIsInclusive(t *testing.T) {
	rule := morningRule(1, domain.LessOrEqual, 70, -2)
	got := Evaluate(morningInput(70, []domain.AdjustmentRule{rule}, nil))

	require.Len(t, got.Primary.FiredRules, 1)
	assert.Equal(t, 2.0, got.Primary.FinalDose)
}

// Scenario: two matching rules stack; order in the input list is irrelevant.
func TestMatchingRulesStack(t *testing.T) {
	a := morningRule(1, domain.GreaterOrEqual, 100, -2)
	b := morningRule(2, domain.GreaterOrEqual, 100, +1)

	in := morningInput(150, []domain.AdjustmentRule{a, b}, nil)
	in.Presets[0].Morning = fptr(8)
	got := Evaluate(in)
	require.Len(t, got.Primary.FiredRules, 2)
	assert.Equal(t, 7.0, got.Primary.FinalDose)

	in = morningInput(150, []domain.AdjustmentRule{b, a}, nil)
	in.Presets[0].Morning = fptr(8)
	reversed := Evaluate(in)
	assert.Equal(t, got.Primary.FinalDose, reversed.Primary.FinalDose)
	assert.Equal(t, got.Primary.Delta, reversed.Primary.Delta)
}

// Scenario: a big negative delta can zero the dose but never below.
func TestFinalDoseNeverNegative(t *testing.T) {
	rule := morningRule(1, domain.GreaterOrEqual, 100, -5)
	in := morningInput(150, []domain.AdjustmentRule{rule}, nil)
	in.Presets[0].Morning = fptr(3)
	got := Evaluate(in)

	require.Len(t, got.Primary.FiredRules, 1)
	assert.Equal(t, 0.0, got.Primary.FinalDose)
}

// Scenario: condition references a measurement that was never recorded.
func TestMissingMeasurementNeverFires(t *testing.T) {
	rule := domain.AdjustmentRule{
		ID:         1,
		TimeSlot:   domain.SlotMorning,
		Condition:  domain.ConditionRef{Day: domain.PreviousDay, Slot: domain.MeasurementBedtime},
		Threshold:  0,
		Comparison: domain.GreaterOrEqual, // would match any recorded value
		Amount:     +2,
		Target:     domain.TargetRef{Day: domain.SameDay, Slot: domain.SlotMorning},
	}
	got := Evaluate(morningInput(152, []domain.AdjustmentRule{rule}, mapLookup{}))

	assert.Empty(t, got.Primary.FiredRules)
	assert.Equal(t, 4.0, got.Primary.FinalDose)
}

func TestPreviousDayConditionReadsYesterday(t *testing.T) {
	yesterday := anchor.AddDays(-1)
	lookup := mapLookup{
		yesterday.String() + "/" + string(domain.MeasurementBedtime): entry(yesterday, domain.MeasurementBedtime, 180),
	}
	rule := domain.AdjustmentRule{
		ID:         1,
		TimeSlot:   domain.SlotMorning,
		Condition:  domain.ConditionRef{Day: domain.PreviousDay, Slot: domain.MeasurementBedtime},
		Threshold:  160,
		Comparison: domain.GreaterOrEqual,
		Amount:     +1,
		Target:     domain.TargetRef{Day: domain.SameDay, Slot: domain.SlotMorning},
	}
	got := Evaluate(morningInput(100, []domain.AdjustmentRule{rule}, lookup))

	require.Len(t, got.Primary.FiredRules, 1)
	assert.Equal(t, 5.0, got.Primary.FinalDose)
}

// Month boundary: previous day of March 1 is February 28.
func TestPreviousDayCrossesMonthBoundary(t *testing.T) {
	feb28 := domain.NewDate(2026, time.February, 28)
	lookup := mapLookup{
		feb28.String() + "/" + string(domain.MeasurementBedtime): entry(feb28, domain.MeasurementBedtime, 200),
	}
	rule := domain.AdjustmentRule{
		ID:         1,
		TimeSlot:   domain.SlotMorning,
		Condition:  domain.ConditionRef{Day: domain.PreviousDay, Slot: domain.MeasurementBedtime},
		Threshold:  180,
		Comparison: domain.GreaterOrEqual,
		Amount:     +2,
		Target:     domain.TargetRef{Day: domain.SameDay, Slot: domain.SlotMorning},
	}
	got := Evaluate(morningInput(100, []domain.AdjustmentRule{rule}, lookup))
	require.Len(t, got.Primary.FiredRules, 1)
}

// A rule filed under another dosing slot never fires here, even when
// its condition would match.
func TestRuleScopedToItsOwnSlot(t *testing.T) {
	rule := morningRule(1, domain.GreaterOrEqual, 140, +2)
	rule.TimeSlot = domain.SlotEvening
	got := Evaluate(morningInput(200, []domain.AdjustmentRule{rule}, nil))

	assert.Empty(t, got.Primary.FiredRules)
	assert.Equal(t, 4.0, got.Primary.FinalDose)
}

func TestEvaluateIsIdempotent(t *testing.T) {
	rules := []domain.AdjustmentRule{
		morningRule(1, domain.GreaterOrEqual, 140, +2),
		morningRule(2, domain.LessOrEqual, 300, -1),
	}
	in := morningInput(152, rules, nil)
	first := Evaluate(in)
	second := Evaluate(in)
	assert.Equal(t, first, second)
}

// A same-day condition on the occasion being entered reads the value
// just entered, not storage.
func TestEnteredValueSatisfiesOwnOccasion(t *testing.T) {
	stale := mapLookup{
		anchor.String() + "/" + string(domain.AfterBreakfast): entry(anchor, domain.AfterBreakfast, 90),
	}
	rule := morningRule(1, domain.GreaterOrEqual, 140, +2)
	got := Evaluate(morningInput(152, []domain.AdjustmentRule{rule}, stale))

	require.Len(t, got.Primary.FiredRules, 1)
}

// Rules targeting another occasion land in their own group; the primary
// group still reflects only the slot being dosed.
func TestTargetGroupsAreSeparate(t *testing.T) {
	sameSlot := morningRule(1, domain.GreaterOrEqual, 140, +2)
	otherTarget := morningRule(2, domain.GreaterOrEqual, 140, +3)
	otherTarget.Target = domain.TargetRef{Day: domain.SameDay, Slot: domain.SlotEvening}

	in := morningInput(152, []domain.AdjustmentRule{sameSlot, otherTarget}, nil)
	in.Presets[0].Evening = fptr(6)
	got := Evaluate(in)

	assert.Equal(t, 6.0, got.Primary.FinalDose)
	require.Len(t, got.Groups, 2)
	assert.Equal(t, got.Primary, got.Groups[0])
	evening := got.Groups[1]
	assert.Equal(t, domain.SlotEvening, evening.TargetSlot)
	assert.Equal(t, 9.0, evening.FinalDose)
}

func TestPreviousDayTargetGetsOwnGroup(t *testing.T) {
	rule := morningRule(1, domain.GreaterOrEqual, 140, +2)
	rule.Target = domain.TargetRef{Day: domain.PreviousDay, Slot: domain.SlotBedtime}

	got := Evaluate(morningInput(152, []domain.AdjustmentRule{rule}, nil))

	require.Len(t, got.Groups, 2)
	assert.Empty(t, got.Primary.FiredRules)
	back := got.Groups[1]
	assert.Equal(t, anchor.AddDays(-1), back.TargetDate)
	assert.Equal(t, domain.SlotBedtime, back.TargetSlot)
	require.Len(t, back.FiredRules, 1)
}

// Rows with enum values outside the enumerations are skipped and
// reported, never guessed at.
func TestInvalidEnumRuleIsSkipped(t *testing.T) {
	bad := morningRule(7, domain.Comparison("以下"), 140, +2)
	good := morningRule(8, domain.GreaterOrEqual, 140, +2)
	got := Evaluate(morningInput(152, []domain.AdjustmentRule{bad, good}, nil))

	assert.Equal(t, []uint{7}, got.SkippedRuleIDs)
	require.Len(t, got.Primary.FiredRules, 1)
	assert.Equal(t, uint(8), got.Primary.FiredRules[0].ID)
}

// The dosing slot defaults to the occasion's dosing slot when unset.
func TestDosingSlotDerivedFromOccasion(t *testing.T) {
	rule := morningRule(1, domain.GreaterOrEqual, 140, +2)
	in := morningInput(152, []domain.AdjustmentRule{rule}, nil)
	in.Slot = ""
	got := Evaluate(in)

	assert.Equal(t, domain.SlotMorning, got.Primary.TargetSlot)
	require.Len(t, got.Primary.FiredRules, 1)
}

func TestFractionalPresetBasePreserved(t *testing.T) {
	rule := morningRule(1, domain.GreaterOrEqual, 140, +2)
	in := morningInput(152, []domain.AdjustmentRule{rule}, nil)
	in.Presets[0].Morning = fptr(3.5)
	got := Evaluate(in)

	assert.Equal(t, 3.5, got.Primary.BaseDose)
	assert.Equal(t, 5.5, got.Primary.FinalDose)
}

package engine

import (
	"testing"
	"time"

	"github.com/glucolog/glucolog/internal/domain"
	"github.com/stretchr/testify/assert"
)

func fptr(v float64) *float64 { return &v }

func TestBaseDoseFirstPresetInSortOrderWins(t *testing.T) {
	presets := []domain.InsulinPreset{
		{ID: 2, Name: "Rapid B", SortOrder: 1, Morning: fptr(6)},
		{ID: 1, Name: "Rapid A", SortOrder: 0, Morning: fptr(4)},
	}
	got := baseDose(presets, domain.BasalConfig{}, domain.SlotMorning)
	assert.Equal(t, 4.0, got)
}

func TestBaseDoseSkipsPresetsWithoutSlotAmount(t *testing.T) {
	presets := []domain.InsulinPreset{
		{ID: 1, SortOrder: 0, Morning: fptr(4)}, // no evening amount
		{ID: 2, SortOrder: 1, Evening: fptr(7)},
	}
	got := baseDose(presets, domain.BasalConfig{}, domain.SlotEvening)
	assert.Equal(t, 7.0, got)
}

func TestBaseDoseFallsBackToBasal(t *testing.T) {
	basal := domain.BasalConfig{Noon: 3}
	got := baseDose(nil, basal, domain.SlotNoon)
	assert.Equal(t, 3.0, got)
}

func TestBaseDoseDefaultsToZero(t *testing.T) {
	got := baseDose(nil, domain.BasalConfig{}, domain.SlotBedtime)
	assert.Equal(t, 0.0, got)
}

func TestComposeSumsDeltasAndClampsAtZero(t *testing.T) {
	date := domain.NewDate(2026, time.March, 1)
	rules := []domain.AdjustmentRule{
		{ID: 1, Amount: -2},
		{ID: 2, Amount: +1},
	}
	rec := compose(date, domain.SlotMorning, 8, rules)
	assert.Equal(t, 8.0, rec.BaseDose)
	assert.Equal(t, -1.0, rec.Delta)
	assert.Equal(t, 7.0, rec.FinalDose)

	rec = compose(date, domain.SlotMorning, 3, []domain.AdjustmentRule{{Amount: -5}})
	assert.Equal(t, 0.0, rec.FinalDose)
}

func TestComposeHasNoUpperClamp(t *testing.T) {
	date := domain.NewDate(2026, time.March, 1)
	rules := []domain.AdjustmentRule{
		{Amount: 20}, {Amount: 20}, {Amount: 20},
	}
	rec := compose(date, domain.SlotMorning, 10, rules)
	assert.Equal(t, 70.0, rec.FinalDose)
}

func TestComposePreservesFractionalBase(t *testing.T) {
	date := domain.NewDate(2026, time.March, 1)
	rec := compose(date, domain.SlotMorning, 4.5, []domain.AdjustmentRule{{Amount: 2}})
	assert.Equal(t, 4.5, rec.BaseDose)
	assert.Equal(t, 6.5, rec.FinalDose)
}

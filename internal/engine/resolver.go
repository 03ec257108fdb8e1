package engine

import (
	"github.com/glucolog/glucolog/internal/domain"
)

// MeasurementLookup is the read-only capability the engine uses to find
// stored glucose readings. Implementations return nil when no matching
// measurement exists.
type MeasurementLookup interface {
	Glucose(date domain.Date, slot domain.MeasurementSlot) *domain.GlucoseEntry
}

// LookupFunc adapts a function to the MeasurementLookup interface.
type LookupFunc func(date domain.Date, slot domain.MeasurementSlot) *domain.GlucoseEntry

func (f LookupFunc) Glucose(date domain.Date, slot domain.MeasurementSlot) *domain.GlucoseEntry {
	return f(date, slot)
}

// resolveCondition locates the glucose value a rule's condition reads.
// The day qualifier offsets the anchor date by whole calendar days, so
// month and year boundaries roll correctly. The value just entered
// satisfies a same-day reference to the occasion being entered without a
// lookup. A missing measurement resolves to ok=false: the rule simply
// does not fire.
func resolveCondition(cond domain.ConditionRef, in Input) (float64, bool) {
	date := in.Date.AddDays(cond.Day.Offset())
	if date == in.Date && cond.Slot == in.Occasion {
		return float64(in.GlucoseValue), true
	}
	entry := in.Lookup.Glucose(date, cond.Slot)
	if entry == nil {
		return 0, false
	}
	return float64(entry.GlucoseLevel), true
}

// Package engine evaluates a user's adjustment rules against a newly
// observed glucose value and composes the recommended insulin doses.
// It is a pure function over its input snapshot: no I/O, no writes, no
// shared state, so concurrent evaluations and re-runs are always safe.
package engine

import (
	"log/slog"
	"sort"

	"github.com/glucolog/glucolog/internal/domain"
)

// Input is the full evaluation context, fetched up front by the caller.
type Input struct {
	Date         domain.Date            // day of the entry being recorded
	Occasion     domain.MeasurementSlot // measurement occasion just entered
	Slot         domain.TimeSlot        // dosing occasion being computed
	GlucoseValue int                    // the value just entered, mg/dL
	Rules        []domain.AdjustmentRule
	Presets      []domain.InsulinPreset
	Basal        domain.BasalConfig
	Lookup       MeasurementLookup
}

type groupKey struct {
	date domain.Date
	slot domain.TimeSlot
}

// Evaluate runs the full pipeline: filter rules to the dosing slot,
// resolve and test each condition, group fired rules by their resolved
// target and compose one recommendation per group. The primary group is
// always (entry day, dosing slot), present even when nothing fired so
// callers can pre-fill the base dose.
func Evaluate(in Input) domain.Suggestion {
	if !in.Slot.Valid() {
		in.Slot = in.Occasion.DosingSlot()
	}

	var skipped []uint
	fired := make(map[groupKey][]domain.AdjustmentRule)

	for _, rule := range in.Rules {
		if !rule.Valid() {
			// Legacy rows outside the enumerations are never guessed at.
			slog.Warn("skipping rule with unrecognized enum values",
				"rule_id", rule.ID, "user_id", rule.UserID)
			skipped = append(skipped, rule.ID)
			continue
		}
		// A rule only ever fires for the dosing occasion it is filed
		// under, regardless of what its condition inspects.
		if rule.TimeSlot != in.Slot {
			continue
		}
		value, ok := resolveCondition(rule.Condition, in)
		if !ok {
			continue
		}
		if !conditionMatches(rule.Comparison, value, rule.Threshold) {
			continue
		}
		key := groupKey{
			date: in.Date.AddDays(rule.Target.Day.Offset()),
			slot: rule.Target.Slot,
		}
		fired[key] = append(fired[key], rule)
	}

	primaryKey := groupKey{date: in.Date, slot: in.Slot}
	if _, ok := fired[primaryKey]; !ok {
		fired[primaryKey] = nil
	}

	keys := make([]groupKey, 0, len(fired))
	for k := range fired {
		keys = append(keys, k)
	}
	sortGroupKeys(keys, primaryKey)

	groups := make([]domain.Recommendation, 0, len(keys))
	for _, k := range keys {
		base := baseDose(in.Presets, in.Basal, k.slot)
		groups = append(groups, compose(k.date, k.slot, base, fired[k]))
	}

	return domain.Suggestion{
		Primary:        groups[0],
		Groups:         groups,
		SkippedRuleIDs: skipped,
	}
}

// sortGroupKeys orders groups deterministically: primary first, then by
// date, then by slot in day order.
func sortGroupKeys(keys []groupKey, primary groupKey) {
	slotRank := map[domain.TimeSlot]int{
		domain.SlotMorning: 0,
		domain.SlotNoon:    1,
		domain.SlotEvening: 2,
		domain.SlotBedtime: 3,
	}
	sort.SliceStable(keys, func(i, j int) bool {
		a, b := keys[i], keys[j]
		if a == primary {
			return b != primary
		}
		if b == primary {
			return false
		}
		if a.date != b.date {
			return a.date.Time().Before(b.date.Time())
		}
		return slotRank[a.slot] < slotRank[b.slot]
	})
}

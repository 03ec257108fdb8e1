package engine

import (
	"math"
	"sort"

	"github.com/glucolog/glucolog/internal/domain"
)

// baseDose resolves the default dose for a slot: the first preset, in
// sort order, that defines an amount for the slot wins; otherwise the
// flat basal fallback applies (zero when unconfigured).
func baseDose(presets []domain.InsulinPreset, basal domain.BasalConfig, slot domain.TimeSlot) float64 {
	ordered := make([]domain.InsulinPreset, len(presets))
	copy(ordered, presets)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].SortOrder < ordered[j].SortOrder
	})
	for _, p := range ordered {
		if amount := p.AmountFor(slot); amount != nil {
			return *amount
		}
	}
	return basal.DoseFor(slot)
}

// compose combines a base dose with the deltas of all fired rules for
// one target group. All matching deltas sum; there is no first-match
// precedence. The final dose clamps at zero and has no upper clamp:
// individual amounts are bounded at write time but stacked rules may
// legitimately exceed any single bound. Fractional preset amounts carry
// one decimal through summation; rounding for display happens upstream.
func compose(target domain.Date, slot domain.TimeSlot, base float64, fired []domain.AdjustmentRule) domain.Recommendation {
	delta := 0
	for _, r := range fired {
		delta += r.Amount
	}
	final := base + float64(delta)
	if final < 0 {
		final = 0
	}
	return domain.Recommendation{
		TargetDate: target,
		TargetSlot: slot,
		BaseDose:   roundTenth(base),
		Delta:      float64(delta),
		FinalDose:  roundTenth(final),
		FiredRules: fired,
	}
}

func roundTenth(v float64) float64 {
	return math.Round(v*10) / 10
}

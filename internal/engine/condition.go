package engine

import (
	"github.com/glucolog/glucolog/internal/domain"
)

// conditionMatches applies a rule's comparison between a resolved
// measurement value and its threshold. Boundary semantics are exact:
// lte/gte include the threshold, lt/gt exclude it.
func conditionMatches(cmp domain.Comparison, value float64, threshold int) bool {
	t := float64(threshold)
	switch cmp {
	case domain.LessOrEqual:
		return value <= t
	case domain.Less:
		return value < t
	case domain.GreaterOrEqual:
		return value >= t
	case domain.Greater:
		return value > t
	}
	return false
}

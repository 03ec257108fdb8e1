package engine

import (
	"testing"

	"github.com/glucolog/glucolog/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestConditionBoundaries(t *testing.T) {
	tests := []struct {
		name      string
		cmp       domain.Comparison
		value     float64
		threshold int
		want      bool
	}{
		{"lte below", domain.LessOrEqual, 139, 140, true},
		{"lte at threshold", domain.LessOrEqual, 140, 140, true},
		{"lte above", domain.LessOrEqual, 141, 140, false},
		{"lt below", domain.Less, 139, 140, true},
		{"lt at threshold", domain.Less, 140, 140, false},
		{"lt above", domain.Less, 141, 140, false},
		{"gte below", domain.GreaterOrEqual, 139, 140, false},
		{"gte at threshold", domain.GreaterOrEqual, 140, 140, true},
		{"gte above", domain.GreaterOrEqual, 141, 140, true},
		{"gt below", domain.Greater, 139, 140, false},
		{"gt at threshold", domain.Greater, 140, 140, false},
		{"gt above", domain.Greater, 141, 140, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, conditionMatches(tt.cmp, tt.value, tt.threshold))
		})
	}
}

func TestConditionUnknownComparisonNeverMatches(t *testing.T) {
	assert.False(t, conditionMatches(domain.Comparison("以下"), 100, 140))
	assert.False(t, conditionMatches(domain.Comparison(""), 100, 140))
}

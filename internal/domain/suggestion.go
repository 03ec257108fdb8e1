package domain

// Recommendation is the composed dose for one (target date, dosing slot)
// group: the base dose, the summed delta of all fired rules, and the
// final non-negative dose.
type Recommendation struct {
	TargetDate Date             `json:"targetDate"`
	TargetSlot TimeSlot         `json:"targetSlot"`
	BaseDose   float64          `json:"baseDose"`
	Delta      float64          `json:"delta"`
	FinalDose  float64          `json:"finalDose"`
	FiredRules []AdjustmentRule `json:"firedRules"`
}

// Suggestion is the full engine output for one evaluation. Primary is
// the group for the slot currently being dosed on the entry's own day
// and is always present, even when no rule fired. Groups holds every
// computed group, primary first. SkippedRuleIDs lists rules whose
// persisted enum values fall outside the current enumerations; they are
// never evaluated and should be re-normalized.
type Suggestion struct {
	Primary        Recommendation   `json:"primary"`
	Groups         []Recommendation `json:"groups"`
	SkippedRuleIDs []uint           `json:"skippedRuleIds,omitempty"`
}

// FiredRule is the explanation view of one matched rule.
type FiredRule struct {
	RuleID     uint   `json:"ruleId"`
	Name       string `json:"name"`
	Condition  string `json:"condition"`
	Delta      int    `json:"delta"`
	PresetName string `json:"presetName,omitempty"`
}

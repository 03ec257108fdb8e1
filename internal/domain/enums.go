package domain

import (
	"fmt"
	"strings"
)

// TimeSlot is one of the four daily insulin dosing occasions.
type TimeSlot string

const (
	SlotMorning TimeSlot = "morning"
	SlotNoon    TimeSlot = "noon"
	SlotEvening TimeSlot = "evening"
	SlotBedtime TimeSlot = "bedtime"
)

// TimeSlots lists the dosing occasions in day order.
var TimeSlots = []TimeSlot{SlotMorning, SlotNoon, SlotEvening, SlotBedtime}

// Valid reports whether the slot is a member of the enumeration.
func (s TimeSlot) Valid() bool {
	switch s {
	case SlotMorning, SlotNoon, SlotEvening, SlotBedtime:
		return true
	}
	return false
}

// legacy synonyms carried over from imported records; the stored values
// predate the canonical enumeration and are folded on read.
var legacyTimeSlots = map[string]TimeSlot{
	"朝":   SlotMorning,
	"昼":   SlotNoon,
	"夕":   SlotEvening,
	"夜":   SlotEvening,
	"眠前":  SlotBedtime,
	"就寝前": SlotBedtime,
}

// ParseTimeSlot normalizes a stored or submitted dosing-slot string.
// Unknown values are rejected, never coerced.
func ParseTimeSlot(s string) (TimeSlot, error) {
	v := TimeSlot(strings.ToLower(strings.TrimSpace(s)))
	if v.Valid() {
		return v, nil
	}
	if legacy, ok := legacyTimeSlots[strings.TrimSpace(s)]; ok {
		return legacy, nil
	}
	return "", fmt.Errorf("unknown time slot %q", s)
}

// MeasurementSlot is one of the seven glucose-measurement occasions,
// finer grained than the dosing slots.
type MeasurementSlot string

const (
	BeforeBreakfast    MeasurementSlot = "before_breakfast"
	AfterBreakfast     MeasurementSlot = "after_breakfast"
	BeforeLunch        MeasurementSlot = "before_lunch"
	AfterLunch         MeasurementSlot = "after_lunch"
	BeforeDinner       MeasurementSlot = "before_dinner"
	AfterDinner        MeasurementSlot = "after_dinner"
	MeasurementBedtime MeasurementSlot = "bedtime"
)

// MeasurementSlots lists the measurement occasions in day order.
var MeasurementSlots = []MeasurementSlot{
	BeforeBreakfast, AfterBreakfast,
	BeforeLunch, AfterLunch,
	BeforeDinner, AfterDinner,
	MeasurementBedtime,
}

func (s MeasurementSlot) Valid() bool {
	switch s {
	case BeforeBreakfast, AfterBreakfast, BeforeLunch, AfterLunch,
		BeforeDinner, AfterDinner, MeasurementBedtime:
		return true
	}
	return false
}

// DosingSlot maps a measurement occasion to the dosing occasion it
// belongs to: breakfast readings dose the morning insulin, and so on.
func (s MeasurementSlot) DosingSlot() TimeSlot {
	switch s {
	case BeforeBreakfast, AfterBreakfast:
		return SlotMorning
	case BeforeLunch, AfterLunch:
		return SlotNoon
	case BeforeDinner, AfterDinner:
		return SlotEvening
	default:
		return SlotBedtime
	}
}

var legacyMeasurementSlots = map[string]MeasurementSlot{
	"night": MeasurementBedtime,
	"夜間":    MeasurementBedtime,
	"眠前":    MeasurementBedtime,
	"就寝前":   MeasurementBedtime,
	"朝食前":   BeforeBreakfast,
	"朝食後":   AfterBreakfast,
	"昼食前":   BeforeLunch,
	"昼食後":   AfterLunch,
	"夕食前":   BeforeDinner,
	"夕食後":   AfterDinner,
}

// ParseMeasurementSlot normalizes a stored or submitted measurement
// occasion, folding the legacy eighth value "night" into bedtime.
func ParseMeasurementSlot(s string) (MeasurementSlot, error) {
	v := MeasurementSlot(strings.ToLower(strings.TrimSpace(s)))
	if v.Valid() {
		return v, nil
	}
	if legacy, ok := legacyMeasurementSlots[strings.TrimSpace(s)]; ok {
		return legacy, nil
	}
	return "", fmt.Errorf("unknown measurement slot %q", s)
}

// Comparison is the operator a rule applies between a measured value
// and its threshold.
type Comparison string

const (
	LessOrEqual    Comparison = "lte"
	Less           Comparison = "lt"
	GreaterOrEqual Comparison = "gte"
	Greater        Comparison = "gt"
)

func (c Comparison) Valid() bool {
	switch c {
	case LessOrEqual, Less, GreaterOrEqual, Greater:
		return true
	}
	return false
}

// Describe renders the operator for rule names and explanations.
func (c Comparison) Describe() string {
	switch c {
	case LessOrEqual:
		return "<="
	case Less:
		return "<"
	case GreaterOrEqual:
		return ">="
	case Greater:
		return ">"
	}
	return string(c)
}

var legacyComparisons = map[string]Comparison{
	"以下": LessOrEqual,
	"未満": Less,
	"以上": GreaterOrEqual,
	"超":  Greater,
	"超過": Greater,
	"<=": LessOrEqual,
	"<":  Less,
	">=": GreaterOrEqual,
	">":  Greater,
}

func ParseComparison(s string) (Comparison, error) {
	v := Comparison(strings.ToLower(strings.TrimSpace(s)))
	if v.Valid() {
		return v, nil
	}
	if legacy, ok := legacyComparisons[strings.TrimSpace(s)]; ok {
		return legacy, nil
	}
	return "", fmt.Errorf("unknown comparison %q", s)
}

// DayQualifier says which calendar day, relative to the entry being
// recorded, a condition or target refers to.
type DayQualifier string

const (
	SameDay     DayQualifier = "same_day"
	PreviousDay DayQualifier = "previous_day"
)

func (d DayQualifier) Valid() bool {
	return d == SameDay || d == PreviousDay
}

// Offset is the calendar-day delta the qualifier applies to an anchor date.
func (d DayQualifier) Offset() int {
	if d == PreviousDay {
		return -1
	}
	return 0
}

var legacyDayQualifiers = map[string]DayQualifier{
	"当日": SameDay,
	"前日": PreviousDay,
}

func ParseDayQualifier(s string) (DayQualifier, error) {
	v := DayQualifier(strings.ToLower(strings.TrimSpace(s)))
	if v.Valid() {
		return v, nil
	}
	if legacy, ok := legacyDayQualifiers[strings.TrimSpace(s)]; ok {
		return legacy, nil
	}
	return "", fmt.Errorf("unknown day qualifier %q", s)
}

// ConditionRef identifies the stored measurement a rule's threshold
// check reads: a day qualifier plus a measurement occasion.
type ConditionRef struct {
	Day  DayQualifier    `json:"day"`
	Slot MeasurementSlot `json:"slot"`
}

func (c ConditionRef) Valid() bool {
	return c.Day.Valid() && c.Slot.Valid()
}

func (c ConditionRef) String() string {
	return string(c.Day) + ":" + string(c.Slot)
}

// Describe renders the reference for rule names and explanations,
// e.g. "previous day bedtime".
func (c ConditionRef) Describe() string {
	day := "same day"
	if c.Day == PreviousDay {
		day = "previous day"
	}
	return day + " " + strings.ReplaceAll(string(c.Slot), "_", " ")
}

// ParseConditionRef accepts the canonical "day:slot" encoding plus the
// legacy combined forms such as "前日眠前血糖" (previous-day bedtime glucose).
func ParseConditionRef(s string) (ConditionRef, error) {
	s = strings.TrimSpace(s)
	if day, slot, found := strings.Cut(s, ":"); found {
		d, err := ParseDayQualifier(day)
		if err != nil {
			return ConditionRef{}, err
		}
		m, err := ParseMeasurementSlot(slot)
		if err != nil {
			return ConditionRef{}, err
		}
		return ConditionRef{Day: d, Slot: m}, nil
	}
	// Legacy combined form: optional day prefix, occasion, optional 血糖 suffix.
	rest := strings.TrimSuffix(s, "血糖")
	day := SameDay
	for prefix, q := range legacyDayQualifiers {
		if strings.HasPrefix(rest, prefix) {
			day = q
			rest = strings.TrimPrefix(rest, prefix)
			break
		}
	}
	m, err := ParseMeasurementSlot(rest)
	if err != nil {
		return ConditionRef{}, fmt.Errorf("unknown condition type %q", s)
	}
	return ConditionRef{Day: day, Slot: m}, nil
}

// TargetRef identifies which dose occasion a rule's adjustment applies
// to: a day qualifier crossed with a dosing slot.
type TargetRef struct {
	Day  DayQualifier `json:"day"`
	Slot TimeSlot     `json:"slot"`
}

func (t TargetRef) Valid() bool {
	return t.Day.Valid() && t.Slot.Valid()
}

func (t TargetRef) String() string {
	return string(t.Day) + ":" + string(t.Slot)
}

func ParseTargetRef(s string) (TargetRef, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return TargetRef{}, fmt.Errorf("empty target time slot")
	}
	if day, slot, found := strings.Cut(s, ":"); found {
		d, err := ParseDayQualifier(day)
		if err != nil {
			return TargetRef{}, err
		}
		ts, err := ParseTimeSlot(slot)
		if err != nil {
			return TargetRef{}, err
		}
		return TargetRef{Day: d, Slot: ts}, nil
	}
	// Bare slot means same day.
	ts, err := ParseTimeSlot(s)
	if err != nil {
		return TargetRef{}, fmt.Errorf("unknown target time slot %q", s)
	}
	return TargetRef{Day: SameDay, Slot: ts}, nil
}

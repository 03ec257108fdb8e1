package domain

import (
	"fmt"
	"time"
)

// Date is a calendar day with no time-of-day component. Day arithmetic
// goes through time.Time so month and year boundaries roll correctly.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

func NewDate(year int, month time.Month, day int) Date {
	// Round-trip through time.Time to normalize out-of-range components.
	return DateOf(time.Date(year, month, day, 0, 0, 0, 0, time.UTC))
}

// DateOf truncates a timestamp to its calendar day.
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return Date{Year: y, Month: m, Day: d}
}

// ParseDate parses the ISO "2006-01-02" form.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return DateOf(t), nil
}

func (d Date) Time() time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC)
}

// AddDays returns the date n calendar days away.
func (d Date) AddDays(n int) Date {
	return DateOf(d.Time().AddDate(0, 0, n))
}

func (d Date) String() string {
	return d.Time().Format("2006-01-02")
}

func (d Date) IsZero() bool {
	return d == Date{}
}

// MarshalJSON encodes the date as its ISO string form.
func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.String() + `"`), nil
}

func (d *Date) UnmarshalJSON(b []byte) error {
	s := string(b)
	if len(s) < 2 || s[0] != '"' || s[len(s)-1] != '"' {
		return fmt.Errorf("invalid date %s", s)
	}
	parsed, err := ParseDate(s[1 : len(s)-1])
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// User is an account in the system; all data below it is scoped to one user.
type User struct {
	ID             uint
	CreatedAt      time.Time
	UpdatedAt      time.Time
	Email          string
	Name           string
	APIToken       string
	TelegramChatID int64 // 0 when the user has not linked a chat
}

// GlucoseEntry is one blood-glucose measurement.
type GlucoseEntry struct {
	ID           uint            `json:"id"`
	UserID       uint            `json:"-"`
	Date         Date            `json:"date"`
	Slot         MeasurementSlot `json:"slot"`
	GlucoseLevel int             `json:"glucoseLevel"` // mg/dL
	Note         string          `json:"note,omitempty"`
	InsulinTaken *float64        `json:"insulinTaken,omitempty"` // units the user reports actually injecting
	CreatedAt    time.Time       `json:"createdAt"`
	UpdatedAt    time.Time       `json:"updatedAt"`
}

// AdjustmentRule is a user-owned conditional dosing instruction: when the
// referenced measurement satisfies the comparison against the threshold,
// the amount is added to the target occasion's dose.
type AdjustmentRule struct {
	ID         uint         `json:"id"`
	UserID     uint         `json:"-"`
	Name       string       `json:"name"`
	TimeSlot   TimeSlot     `json:"timeSlot"` // dosing occasion the rule belongs to
	Condition  ConditionRef `json:"condition"`
	Threshold  int          `json:"threshold"` // mg/dL
	Comparison Comparison   `json:"comparison"`
	Amount     int          `json:"adjustmentAmount"` // signed dose delta, units
	Target     TargetRef    `json:"targetTimeSlot"`
	PresetID   *uint        `json:"presetId,omitempty"`
	CreatedAt  time.Time    `json:"createdAt"`
	UpdatedAt  time.Time    `json:"updatedAt"`
}

// Valid reports whether every enum field is a member of its enumeration.
// Persisted rules that predate the enumerations can fail this; such rules
// are skipped at evaluation time, never misinterpreted.
func (r AdjustmentRule) Valid() bool {
	return r.TimeSlot.Valid() && r.Condition.Valid() &&
		r.Comparison.Valid() && r.Target.Valid()
}

// InsulinPreset is a named insulin product configuration with optional
// per-slot default unit amounts. SortOrder is the authoritative
// precedence for base-dose resolution: the first preset defining a
// non-nil amount for a slot wins.
type InsulinPreset struct {
	ID        uint      `json:"id"`
	UserID    uint      `json:"-"`
	Name      string    `json:"name"`
	SortOrder int       `json:"sortOrder"`
	Morning   *float64  `json:"morning,omitempty"`
	Noon      *float64  `json:"noon,omitempty"`
	Evening   *float64  `json:"evening,omitempty"`
	Bedtime   *float64  `json:"bedtime,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// AmountFor returns the preset's default units for a dosing slot, or nil
// when the preset does not cover that slot.
func (p InsulinPreset) AmountFor(slot TimeSlot) *float64 {
	switch slot {
	case SlotMorning:
		return p.Morning
	case SlotNoon:
		return p.Noon
	case SlotEvening:
		return p.Evening
	case SlotBedtime:
		return p.Bedtime
	}
	return nil
}

// BasalConfig is the flat per-slot fallback dose used when no preset
// covers a slot. Zero values mean no base dose.
type BasalConfig struct {
	UserID  uint    `json:"-"`
	Morning float64 `json:"morning"`
	Noon    float64 `json:"noon"`
	Evening float64 `json:"evening"`
	Bedtime float64 `json:"bedtime"`
}

func (b BasalConfig) DoseFor(slot TimeSlot) float64 {
	switch slot {
	case SlotMorning:
		return b.Morning
	case SlotNoon:
		return b.Noon
	case SlotEvening:
		return b.Evening
	case SlotBedtime:
		return b.Bedtime
	}
	return 0
}

package models

// AvailabilitySlot is a recurring weekly availability window for a psychologist.
// It carries no concrete date; DayOfWeek follows time.Weekday numbering (Sunday = 0).
type AvailabilitySlot struct {
	DayOfWeek int    `bson:"dayOfWeek" json:"dayOfWeek"` // 0..6, Sunday = 0
	StartTime string `bson:"startTime" json:"startTime"` // "HH:MM:SS", psychologist-local wall clock
	EndTime   string `bson:"endTime" json:"endTime"`     // "HH:MM:SS", inclusive bound for coverage
}

// Psychologist is the counselor profile as seen by the booking core.
// Weekly slots and the concurrency cap are embedded so an availability check
// for N psychologists needs a single document fetch.
type Psychologist struct {
	ID                    string             `bson:"id" json:"id"`
	FullName              string             `bson:"fullName" json:"fullName"`
	IsActive              bool               `bson:"isActive" json:"isActive"`
	HasAvailability       bool               `bson:"hasAvailability" json:"hasAvailability"`
	MaxConcurrentSessions int                `bson:"maxConcurrentSessions,omitempty" json:"maxConcurrentSessions,omitempty"` // 0 means "use default"
	Timezone              string             `bson:"timezone,omitempty" json:"timezone,omitempty"`
	WeeklyAvailability    []AvailabilitySlot `bson:"weeklyAvailability" json:"weeklyAvailability"`
	FCMToken              string             `bson:"fcmToken,omitempty" json:"-"`
}

// CapacityOrDefault returns the configured concurrency cap, falling back to
// def when the profile carries none.
func (p *Psychologist) CapacityOrDefault(def int) int {
	if p.MaxConcurrentSessions > 0 {
		return p.MaxConcurrentSessions
	}
	return def
}

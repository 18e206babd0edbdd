package models

import "time"

// Booking statuses.
const (
	BookingStatusScheduled   = "scheduled"
	BookingStatusCompleted   = "completed"
	BookingStatusCancelled   = "cancelled"
	BookingStatusRescheduled = "rescheduled"
)

// Booking methods.
const (
	MethodOnline       = "online"
	MethodChat         = "chat"
	MethodOffline      = "offline"
	MethodOrganization = "organization"
)

// Booking represents a confirmed counseling booking record.
// Start and End are UTC instants; Timezone preserves the wall clock the
// client booked in.
type Booking struct {
	ID             string    `bson:"id" json:"id"`
	UserID         string    `bson:"userId" json:"userId"`
	PsychologistID string    `bson:"psychologistId" json:"psychologistId"`
	OrganizationID string    `bson:"organizationId,omitempty" json:"organizationId,omitempty"`
	StartTime      time.Time `bson:"startTime" json:"startTime"`
	EndTime        time.Time `bson:"endTime" json:"endTime"`
	Timezone       string    `bson:"timezone" json:"timezone"`
	Status         string    `bson:"status" json:"status"`
	Method         string    `bson:"method" json:"method"`
	CreatedAt      time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt      time.Time `bson:"updatedAt" json:"updatedAt"`
}

// IsMutable reports whether the booking may still be cancelled or rescheduled.
func (b *Booking) IsMutable() bool {
	return b.Status == BookingStatusScheduled || b.Status == BookingStatusRescheduled
}

// BookingRequest is the input for creating a counseling booking.
// Times are local wall clock in the given timezone.
type BookingRequest struct {
	UserID         string `json:"userId"`
	PsychologistID string `json:"psychologistId,omitempty"` // empty for organization auto-select
	OrganizationID string `json:"organizationId,omitempty"`
	Date           string `json:"date"`      // "YYYY-MM-DD"
	StartTime      string `json:"startTime"` // "HH:MM" or "HH:MM:SS"
	EndTime        string `json:"endTime"`
	Timezone       string `json:"timezone"` // IANA name, "+HH:MM"/"-HH:MM", or alias (e.g. "WIB")
	Method         string `json:"method"`
}

// RescheduleRequest carries the new local time window for an existing booking.
type RescheduleRequest struct {
	Date      string `json:"date"`
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
	Timezone  string `json:"timezone"`
}

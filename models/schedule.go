package models

import "time"

// Schedule is the generic calendar row persisted alongside every booking.
// Other features (reminders, agenda views) read this collection without
// knowing about counseling specifics.
type Schedule struct {
	ID        string    `bson:"id" json:"id"`
	UserID    string    `bson:"userId" json:"userId"`
	RefID     string    `bson:"refId" json:"refId"` // booking id
	Kind      string    `bson:"kind" json:"kind"`   // "counseling"
	Date      string    `bson:"date" json:"date"`   // local calendar date "YYYY-MM-DD"
	StartTime time.Time `bson:"startTime" json:"startTime"`
	EndTime   time.Time `bson:"endTime" json:"endTime"`
	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
}

const ScheduleKindCounseling = "counseling"

// OrgQuota tracks the remaining prepaid counseling sessions of an organization.
type OrgQuota struct {
	OrganizationID string `bson:"organizationId" json:"organizationId"`
	Remaining      int    `bson:"remaining" json:"remaining"`
}

package models

import "time"

// Chat session statuses. Completed and cancelled are terminal.
const (
	ChatStatusPending   = "pending"
	ChatStatusActive    = "active"
	ChatStatusCompleted = "completed"
	ChatStatusCancelled = "cancelled"
)

// ChatSession is a chat-based counseling session driven through a time-gated
// lifecycle: pending -> active at ScheduledAt -> completed at ScheduledAt+duration.
type ChatSession struct {
	ID             string     `bson:"id" json:"id"`
	ClientID       string     `bson:"clientId" json:"clientId"`
	PsychologistID string     `bson:"psychologistId" json:"psychologistId"`
	BookingID      string     `bson:"bookingId,omitempty" json:"bookingId,omitempty"`
	Status         string     `bson:"status" json:"status"`
	IsActive       bool       `bson:"isActive" json:"isActive"`
	ScheduledAt    time.Time  `bson:"scheduledAt" json:"scheduledAt"` // UTC
	StartedAt      *time.Time `bson:"startedAt,omitempty" json:"startedAt,omitempty"`
	EndedAt        *time.Time `bson:"endedAt,omitempty" json:"endedAt,omitempty"`
	CreatedAt      time.Time  `bson:"createdAt" json:"createdAt"`
	UpdatedAt      time.Time  `bson:"updatedAt" json:"updatedAt"`
}

// ChatMessage is a single message in a session. Automated lifecycle messages
// are stored with System set and SenderID "system".
type ChatMessage struct {
	ID        string    `bson:"id" json:"id"`
	SessionID string    `bson:"sessionId" json:"sessionId"`
	SenderID  string    `bson:"senderId" json:"senderId"`
	Content   string    `bson:"content" json:"content"`
	System    bool      `bson:"system,omitempty" json:"system,omitempty"`
	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
}

// SessionStatusEvent is broadcast on the session's realtime channel whenever
// the lifecycle state changes.
type SessionStatusEvent struct {
	SessionID string    `json:"sessionId"`
	Status    string    `json:"status"`
	At        time.Time `json:"at"`
}

package chatsessionRepo

import (
	"time"

	"mindwell/models"
)

// ChatSessionRepository persists chat sessions and their messages. State
// transitions are expressed as guarded updates: MarkActive and MarkEnded only
// match documents still in the expected prior status, so a job firing against
// an already-transitioned session is a clean no-op instead of a race.
type ChatSessionRepository interface {
	Create(session *models.ChatSession) error
	GetByID(sessionID string) (*models.ChatSession, error)
	GetByBookingID(bookingID string) (*models.ChatSession, error)
	// MarkActive flips pending -> active, stamping startedAt. Returns false
	// when the session was not pending anymore.
	MarkActive(sessionID string, at time.Time) (bool, error)
	// MarkEnded flips active -> completed, stamping endedAt. Returns false
	// when the session was not active anymore.
	MarkEnded(sessionID string, at time.Time) (bool, error)
	// MarkCancelled retires a pending or active session. Returns false when
	// the session was already terminal.
	MarkCancelled(sessionID string, at time.Time) (bool, error)
	// Reschedule moves a session back to pending at a new scheduled instant.
	Reschedule(sessionID string, scheduledAt time.Time) error
	// FindOverdue lists sessions still pending whose scheduled instant has
	// elapsed; the reconciliation sweep drains this set.
	FindOverdue(now time.Time) ([]models.ChatSession, error)
	InsertMessage(message *models.ChatMessage) error
}

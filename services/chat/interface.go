package chat

import (
	"context"
	"time"

	chatsessionRepo "mindwell/database/repository/chatsession"
	schedulerRepo "mindwell/database/repository/scheduler"
	userRepo "mindwell/database/repository/user"
	"mindwell/models"
	"mindwell/services/realtime"
	"mindwell/services/tasks"
)

// LifecycleService drives chat sessions through their time-gated lifecycle:
// pending -> active at the scheduled instant -> completed after the session
// duration. Transitions fire from delayed jobs, from lazy activation on an
// incoming token request, or from the reconciliation sweep; every path is
// idempotent through status-guarded updates.
type LifecycleService interface {
	// CreateForBooking creates (or reactivates) the chat session for a chat
	// booking and enqueues its three lifecycle jobs.
	CreateForBooking(ctx context.Context, booking *models.Booking, userFullname string) (*models.ChatSession, error)
	// ScheduleSessionJobs enqueues the pre-session notice, activation and
	// auto-end jobs, replacing any pending instances under the same keys.
	// Queue failures are logged, never propagated: a booking must not fail
	// because automation could not be scheduled.
	ScheduleSessionJobs(session *models.ChatSession, userFullname string)
	// CancelSessionJobs removes all pending lifecycle jobs of a session.
	CancelSessionJobs(sessionID string)
	// CancelSession retires a session whose booking was cancelled: it leaves
	// the pending/active lifecycle (so neither the jobs nor the sweep touch it
	// again) and its queued jobs are removed.
	CancelSession(ctx context.Context, sessionID string) error
	// SessionIDForBooking resolves the chat session created for a booking.
	SessionIDForBooking(ctx context.Context, bookingID string) (string, error)

	// Job handlers. Errors propagate so the queue can retry.
	SendInitialMessage(ctx context.Context, sessionID, userFullname string) error
	EnableChat(ctx context.Context, sessionID string) error
	AutoEndSession(ctx context.Context, sessionID string) error

	// EnsureActivated activates a pending session inline when its scheduled
	// instant has already elapsed, then returns the current session state.
	EnsureActivated(ctx context.Context, sessionID string) (*models.ChatSession, error)
	// ManualEnd ends an active session on user action and cancels the
	// pending auto-end job. Only valid from the active state.
	ManualEnd(ctx context.Context, sessionID string) error
	// RealtimeToken mints a channel-scoped capability token, lazily
	// activating the session first when it is overdue.
	RealtimeToken(ctx context.Context, sessionID, userID string) (string, *models.ChatSession, error)

	// CheckAndActivateOverdueSessions repairs sessions whose activation job
	// was dropped: it runs the enable transition and re-arms auto-end.
	CheckAndActivateOverdueSessions(ctx context.Context) (int, error)
}

// DefaultLifecycleService is the production implementation.
type DefaultLifecycleService struct {
	Sessions chatsessionRepo.ChatSessionRepository
	Bookings schedulerRepo.SchedulerRepository
	Users    userRepo.UserRepository
	Queue    tasks.JobQueue
	Realtime realtime.RealtimeService

	SessionDuration  time.Duration // active window, scheduledAt .. scheduledAt+duration
	PreSessionNotice time.Duration // greeting lead time before scheduledAt
	JWTSecret        string
}

package chat

import (
	"context"
	"fmt"
	"time"

	"mindwell/models"
	"mindwell/services/realtime"
	"mindwell/services/tasks"
	"mindwell/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const systemSender = "system"

func (svc *DefaultLifecycleService) CreateForBooking(ctx context.Context, booking *models.Booking, userFullname string) (*models.ChatSession, error) {
	// A rebooked/rescheduled chat booking reuses its session instead of
	// spawning a second one. Only a definitive miss may fall through to
	// Create: a transient lookup failure would otherwise insert a duplicate.
	existing, err := svc.Sessions.GetByBookingID(booking.ID)
	if err == nil {
		if err := svc.Sessions.Reschedule(existing.ID, booking.StartTime); err != nil {
			return nil, err
		}
		existing.Status = models.ChatStatusPending
		existing.IsActive = false
		existing.ScheduledAt = booking.StartTime
		svc.ScheduleSessionJobs(existing, userFullname)
		return existing, nil
	}
	if !utils.IsNotFound(err) {
		return nil, fmt.Errorf("look up chat session for booking %s: %w", booking.ID, err)
	}

	now := time.Now().UTC()
	session := &models.ChatSession{
		ID:             uuid.New().String(),
		ClientID:       booking.UserID,
		PsychologistID: booking.PsychologistID,
		BookingID:      booking.ID,
		Status:         models.ChatStatusPending,
		IsActive:       false,
		ScheduledAt:    booking.StartTime,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := svc.Sessions.Create(session); err != nil {
		return nil, err
	}
	svc.ScheduleSessionJobs(session, userFullname)
	return session, nil
}

func (svc *DefaultLifecycleService) ScheduleSessionJobs(session *models.ChatSession, userFullname string) {
	logger := utils.GetLogger()
	payload := models.AutomationPayload{SessionID: session.ID, UserFullname: userFullname}

	schedule := []struct {
		jobType tasks.JobType
		fireAt  time.Time
	}{
		{tasks.TypeSendInitialMessage, session.ScheduledAt.Add(-svc.PreSessionNotice)},
		{tasks.TypeEnableChat, session.ScheduledAt},
		{tasks.TypeAutoEndSession, session.ScheduledAt.Add(svc.SessionDuration)},
	}
	for _, job := range schedule {
		if err := svc.Queue.ScheduleOnce(job.jobType, payload, job.fireAt); err != nil {
			logger.Warn("failed to schedule lifecycle job, continuing without automation",
				zap.String("job", job.jobType.Key(session.ID)),
				zap.Error(err))
		}
	}
}

func (svc *DefaultLifecycleService) SessionIDForBooking(ctx context.Context, bookingID string) (string, error) {
	session, err := svc.Sessions.GetByBookingID(bookingID)
	if err != nil {
		return "", err
	}
	return session.ID, nil
}

func (svc *DefaultLifecycleService) CancelSessionJobs(sessionID string) {
	logger := utils.GetLogger()
	for _, jobType := range tasks.AllJobTypes {
		if err := svc.Queue.Cancel(jobType, sessionID); err != nil {
			logger.Warn("failed to cancel lifecycle job",
				zap.String("job", jobType.Key(sessionID)),
				zap.Error(err))
		}
	}
}

// CancelSession retires a session whose booking was cancelled. The guarded
// update moves it out of pending/active, so the sweep's FindOverdue never
// matches it and a late auto-end fire is a no-op.
func (svc *DefaultLifecycleService) CancelSession(ctx context.Context, sessionID string) error {
	now := time.Now().UTC()
	cancelled, err := svc.Sessions.MarkCancelled(sessionID, now)
	if err != nil {
		return err
	}
	if cancelled {
		svc.broadcastStatus(ctx, sessionID, models.ChatStatusCancelled, now)
	} else {
		utils.GetLogger().Debug("cancel skipped, session already terminal",
			zap.String("sessionID", sessionID))
	}
	svc.CancelSessionJobs(sessionID)
	return nil
}

// SendInitialMessage posts the automated greeting ahead of the session. No
// state change.
func (svc *DefaultLifecycleService) SendInitialMessage(ctx context.Context, sessionID, userFullname string) error {
	greeting := fmt.Sprintf(
		"Hi %s, your counseling session starts in %d minutes. Please get ready.",
		userFullname, int(svc.PreSessionNotice.Minutes()))
	return svc.postSystemMessage(sessionID, greeting)
}

// EnableChat flips a pending session to active. A session already past
// pending makes this a no-op, which keeps the job, lazy activation and
// the sweep safe to run in any order.
func (svc *DefaultLifecycleService) EnableChat(ctx context.Context, sessionID string) error {
	now := time.Now().UTC()
	activated, err := svc.Sessions.MarkActive(sessionID, now)
	if err != nil {
		return err
	}
	if !activated {
		utils.GetLogger().Debug("enable-chat skipped, session not pending",
			zap.String("sessionID", sessionID))
		return nil
	}

	if err := svc.postSystemMessage(sessionID,
		"Your counseling session has started. Feel free to share what's on your mind."); err != nil {
		utils.GetLogger().Warn("failed to post session start message",
			zap.String("sessionID", sessionID), zap.Error(err))
	}
	svc.broadcastStatus(ctx, sessionID, models.ChatStatusActive, now)
	return nil
}

// AutoEndSession ends a session when its window elapses. Guarded: a session
// no longer active (e.g. the user already ended it) is left untouched.
func (svc *DefaultLifecycleService) AutoEndSession(ctx context.Context, sessionID string) error {
	session, err := svc.Sessions.GetByID(sessionID)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	ended, err := svc.Sessions.MarkEnded(sessionID, now)
	if err != nil {
		return err
	}
	if !ended {
		utils.GetLogger().Debug("auto-end skipped, session not active",
			zap.String("sessionID", sessionID),
			zap.String("status", session.Status))
		return nil
	}
	return svc.finishSession(ctx, session, now)
}

// ManualEnd ends an active session on explicit user action and removes the
// pending auto-end job.
func (svc *DefaultLifecycleService) ManualEnd(ctx context.Context, sessionID string) error {
	session, err := svc.Sessions.GetByID(sessionID)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	ended, err := svc.Sessions.MarkEnded(sessionID, now)
	if err != nil {
		return err
	}
	if !ended {
		return utils.NewValidationError("chat session",
			fmt.Sprintf("can only be ended while active (current status %s)", session.Status))
	}

	if err := svc.Queue.Cancel(tasks.TypeAutoEndSession, sessionID); err != nil {
		utils.GetLogger().Warn("failed to cancel auto-end job",
			zap.String("sessionID", sessionID), zap.Error(err))
	}
	return svc.finishSession(ctx, session, now)
}

// EnsureActivated is the lazy-activation path: a client connecting to a
// pending session whose scheduled instant has elapsed activates it inline.
func (svc *DefaultLifecycleService) EnsureActivated(ctx context.Context, sessionID string) (*models.ChatSession, error) {
	session, err := svc.Sessions.GetByID(sessionID)
	if err != nil {
		return nil, err
	}
	if session.Status == models.ChatStatusPending && !session.ScheduledAt.After(time.Now().UTC()) {
		if err := svc.EnableChat(ctx, sessionID); err != nil {
			return nil, err
		}
		return svc.Sessions.GetByID(sessionID)
	}
	return session, nil
}

// finishSession posts the closing message, broadcasts the terminal state and
// completes the linked booking.
func (svc *DefaultLifecycleService) finishSession(ctx context.Context, session *models.ChatSession, at time.Time) error {
	if err := svc.postSystemMessage(session.ID,
		"Your counseling session has ended. Thank you for sharing today."); err != nil {
		utils.GetLogger().Warn("failed to post session end message",
			zap.String("sessionID", session.ID), zap.Error(err))
	}
	svc.broadcastStatus(ctx, session.ID, models.ChatStatusCompleted, at)

	if session.BookingID != "" {
		if err := svc.Bookings.UpdateBookingStatus(session.BookingID, models.BookingStatusCompleted); err != nil {
			return fmt.Errorf("complete booking %s: %w", session.BookingID, err)
		}
	}
	return nil
}

func (svc *DefaultLifecycleService) postSystemMessage(sessionID, content string) error {
	return svc.Sessions.InsertMessage(&models.ChatMessage{
		ID:        uuid.New().String(),
		SessionID: sessionID,
		SenderID:  systemSender,
		Content:   content,
		System:    true,
		CreatedAt: time.Now().UTC(),
	})
}

func (svc *DefaultLifecycleService) broadcastStatus(ctx context.Context, sessionID, status string, at time.Time) {
	event := models.SessionStatusEvent{SessionID: sessionID, Status: status, At: at}
	if err := svc.Realtime.Publish(ctx, realtime.SessionChannel(sessionID), "session-status", event); err != nil {
		utils.GetLogger().Warn("failed to broadcast session status",
			zap.String("sessionID", sessionID),
			zap.String("status", status),
			zap.Error(err))
	}
}

package chat

import (
	"context"
	"time"

	"mindwell/models"
	"mindwell/services/tasks"
	"mindwell/utils"

	"go.uber.org/zap"
)

// CheckAndActivateOverdueSessions is the recovery path for dropped or missed
// activation jobs: every session still pending past its scheduled instant is
// activated inline and its auto-end job re-derived from scheduledAt. Safe to
// run repeatedly; the guarded transition makes the sweep idempotent.
func (svc *DefaultLifecycleService) CheckAndActivateOverdueSessions(ctx context.Context) (int, error) {
	logger := utils.GetLogger()

	overdue, err := svc.Sessions.FindOverdue(time.Now().UTC())
	if err != nil {
		return 0, err
	}

	activated := 0
	for i := range overdue {
		session := &overdue[i]

		if err := svc.EnableChat(ctx, session.ID); err != nil {
			logger.Error("reconciliation: failed to activate overdue session",
				zap.String("sessionID", session.ID), zap.Error(err))
			continue
		}
		activated++

		// Re-arm auto-end; replace-under-key keeps at most one instance.
		payload := models.AutomationPayload{
			SessionID:    session.ID,
			UserFullname: svc.clientName(session.ClientID),
		}
		endAt := session.ScheduledAt.Add(svc.SessionDuration)
		if err := svc.Queue.ScheduleOnce(tasks.TypeAutoEndSession, payload, endAt); err != nil {
			logger.Warn("reconciliation: failed to re-schedule auto-end",
				zap.String("sessionID", session.ID), zap.Error(err))
		}
	}

	if activated > 0 {
		logger.Info("reconciliation sweep activated overdue sessions",
			zap.Int("count", activated), zap.Int("scanned", len(overdue)))
	}
	return activated, nil
}

func (svc *DefaultLifecycleService) clientName(clientID string) string {
	u, err := svc.Users.GetByID(clientID)
	if err != nil {
		return ""
	}
	return u.FullName
}

package tasks

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"time"

	"mindwell/models"
	"mindwell/utils"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// QueueName is the asynq queue all lifecycle jobs run on.
const QueueName = "default"

// MaxRetry bounds job retries; after exhaustion the job is dropped and the
// reconciliation sweep converges the session instead.
const MaxRetry = 3

// maxTimerDelay clamps how far out a job may be scheduled: the 32-bit
// millisecond timer ceiling (~24.8 days). Longer-lead bookings fire early
// and rely on the worker's status guards.
const maxTimerDelay = time.Duration(math.MaxInt32) * time.Millisecond

// JobQueue is the delayed-job port. ScheduleOnce atomically replaces any
// pending job under the same (jobType, sessionID) key; Cancel of a missing
// job is not an error.
type JobQueue interface {
	ScheduleOnce(jobType JobType, payload models.AutomationPayload, fireAt time.Time) error
	Cancel(jobType JobType, sessionID string) error
}

// AsynqJobQueue is the production JobQueue backed by asynq over Redis.
type AsynqJobQueue struct {
	client    *asynq.Client
	inspector *asynq.Inspector
}

// NewAsynqJobQueue constructs a queue using the given Redis connection options.
func NewAsynqJobQueue(redisOpts asynq.RedisClientOpt) *AsynqJobQueue {
	return &AsynqJobQueue{
		client:    asynq.NewClient(redisOpts),
		inspector: asynq.NewInspector(redisOpts),
	}
}

func (q *AsynqJobQueue) ScheduleOnce(jobType JobType, payload models.AutomationPayload, fireAt time.Time) error {
	if !jobType.Valid() {
		return fmt.Errorf("unknown job type %q", jobType)
	}
	b, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal automation payload: %w", err)
	}

	key := jobType.Key(payload.SessionID)

	// Replace-under-key: remove any pending instance before inserting.
	if err := q.removeIfExists(key); err != nil {
		return err
	}

	fireAt = clampFireAt(time.Now(), fireAt)

	task := asynq.NewTask(string(jobType), b)
	_, err = q.client.Enqueue(task,
		asynq.Queue(QueueName),
		asynq.TaskID(key),
		asynq.ProcessAt(fireAt),
		asynq.MaxRetry(MaxRetry),
	)
	if err != nil {
		return fmt.Errorf("enqueue %s: %w", key, err)
	}
	return nil
}

// clampFireAt bounds a job's fire time: an elapsed instant runs immediately
// (delay floor), and a lead time past maxTimerDelay is capped at the ceiling.
func clampFireAt(now, fireAt time.Time) time.Time {
	if fireAt.Before(now) {
		return now
	}
	if fireAt.Sub(now) > maxTimerDelay {
		return now.Add(maxTimerDelay)
	}
	return fireAt
}

func (q *AsynqJobQueue) Cancel(jobType JobType, sessionID string) error {
	return q.removeIfExists(jobType.Key(sessionID))
}

func (q *AsynqJobQueue) removeIfExists(key string) error {
	err := q.inspector.DeleteTask(QueueName, key)
	if err == nil || errors.Is(err, asynq.ErrTaskNotFound) || errors.Is(err, asynq.ErrQueueNotFound) {
		return nil
	}
	return fmt.Errorf("delete task %s: %w", key, err)
}

// Close releases the underlying connections.
func (q *AsynqJobQueue) Close() error {
	if err := q.client.Close(); err != nil {
		return err
	}
	return q.inspector.Close()
}

// NoopJobQueue is the explicit fallback when no queue backend is configured.
// Scheduling logs and succeeds; lazy activation and the reconciliation sweep
// carry the lifecycle instead.
type NoopJobQueue struct{}

func (NoopJobQueue) ScheduleOnce(jobType JobType, payload models.AutomationPayload, fireAt time.Time) error {
	utils.GetLogger().Warn("job queue not configured, skipping schedule",
		zap.String("job", jobType.Key(payload.SessionID)),
		zap.Time("fireAt", fireAt))
	return nil
}

func (NoopJobQueue) Cancel(jobType JobType, sessionID string) error {
	return nil
}

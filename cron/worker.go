package cron

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"mindwell/config"
	"mindwell/models"
	"mindwell/services/chat"
	"mindwell/services/tasks"

	"github.com/go-redis/redis/v8"
	"github.com/hibiken/asynq"
	cronv3 "github.com/robfig/cron/v3"
)

// InitAutomationWorker runs the async worker consuming chat lifecycle jobs in
// the background and returns the server for graceful shutdown.
func InitAutomationWorker(lifecycle chat.LifecycleService) *asynq.Server {
	redisOpts := asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisAutomationQueueDB,
	}

	srv := asynq.NewServer(
		redisOpts,
		asynq.Config{
			Concurrency: config.AppConfig.AutomationWorkerConcurrency,
			Queues: map[string]int{
				tasks.QueueName: 1,
			},
			RetryDelayFunc: retryDelay,
		},
	)

	mux := asynq.NewServeMux()
	mux.HandleFunc(string(tasks.TypeSendInitialMessage), handleLifecycleTask(lifecycle, tasks.TypeSendInitialMessage))
	mux.HandleFunc(string(tasks.TypeEnableChat), handleLifecycleTask(lifecycle, tasks.TypeEnableChat))
	mux.HandleFunc(string(tasks.TypeAutoEndSession), handleLifecycleTask(lifecycle, tasks.TypeAutoEndSession))

	// Start Redis health monitor
	go monitorRedisConnection()

	// Start async worker with retry logic
	go func() {
		log.Println("[AutomationWorker] starting async worker...")
		const maxAttempts = 5

		for attempts := 1; attempts <= maxAttempts; attempts++ {
			if err := srv.Run(mux); err != nil {
				log.Printf("[AutomationWorker] attempt %d/%d failed to start worker: %v", attempts, maxAttempts, err)

				if attempts == maxAttempts {
					log.Fatal("[AutomationWorker] max retry attempts reached. Exiting.")
				}
				time.Sleep(time.Duration(attempts*2) * time.Second)
			} else {
				break
			}
		}
	}()

	return srv
}

// retryDelay backs off exponentially from a 1s base. After MaxRetry
// exhaustion the job is dropped and reconciliation takes over.
func retryDelay(n int, _ error, _ *asynq.Task) time.Duration {
	return time.Duration(1<<uint(n)) * time.Second
}

func handleLifecycleTask(lifecycle chat.LifecycleService, jobType tasks.JobType) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		var p models.AutomationPayload
		if err := json.Unmarshal(task.Payload(), &p); err != nil {
			log.Printf("[AutomationWorker] invalid payload for %s: %v", task.Type(), err)
			return err
		}

		switch jobType {
		case tasks.TypeSendInitialMessage:
			return lifecycle.SendInitialMessage(ctx, p.SessionID, p.UserFullname)
		case tasks.TypeEnableChat:
			return lifecycle.EnableChat(ctx, p.SessionID)
		case tasks.TypeAutoEndSession:
			return lifecycle.AutoEndSession(ctx, p.SessionID)
		default:
			return fmt.Errorf("unknown lifecycle job type %q", jobType)
		}
	}
}

// InitReconciliationSweep schedules the periodic overdue-session scan and
// returns the cron runner for graceful shutdown.
func InitReconciliationSweep(lifecycle chat.LifecycleService) *cronv3.Cron {
	interval := config.AppConfig.ReconcileIntervalMin
	if interval <= 0 {
		interval = 1
	}

	c := cronv3.New()
	spec := fmt.Sprintf("@every %dm", interval)
	if _, err := c.AddFunc(spec, func() {
		if _, err := lifecycle.CheckAndActivateOverdueSessions(context.Background()); err != nil {
			log.Printf("[ReconciliationSweep] sweep failed: %v", err)
		}
	}); err != nil {
		log.Fatalf("[ReconciliationSweep] failed to register sweep: %v", err)
	}
	c.Start()
	return c
}

// monitorRedisConnection pings Redis periodically to detect failures at runtime.
func monitorRedisConnection() {
	client := redis.NewClient(&redis.Options{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisAutomationQueueDB,
	})

	ctx := context.Background()

	for {
		if err := client.Ping(ctx).Err(); err != nil {
			log.Printf("[AutomationWorker] Redis connection lost: %v", err)
		}
		time.Sleep(10 * time.Second)
	}
}

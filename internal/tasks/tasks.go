package tasks

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"

	"salesloop/crm/internal/config"
	"salesloop/crm/internal/email"
	"salesloop/crm/internal/services"
)

// Task types handled by the background worker.
const (
	TypeCampaignEmail = services.TypeCampaignEmail
	TypeRecordCleanup = "records:cleanup"
)

// NewClient creates an asynq client on the same Redis the cache uses.
func NewClient(rdb *redis.Client) *asynq.Client {
	return asynq.NewClient(asynq.RedisClientOpt{
		Addr:     rdb.Options().Addr,
		Password: rdb.Options().Password,
		DB:       rdb.Options().DB,
	})
}

// TaskProcessor holds the dependencies the task handlers need.
type TaskProcessor struct {
	cfg         *config.Config
	emailSender email.Sender
	records     services.IRecordService
}

// NewTaskProcessor creates a new TaskProcessor.
func NewTaskProcessor(cfg *config.Config, emailSender email.Sender, records services.IRecordService) *TaskProcessor {
	return &TaskProcessor{
		cfg:         cfg,
		emailSender: emailSender,
		records:     records,
	}
}

// HandleCampaignEmailTask delivers one campaign email.
func (p *TaskProcessor) HandleCampaignEmailTask(ctx context.Context, task *asynq.Task) error {
	var payload services.CampaignEmailPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return fmt.Errorf("campaign email: bad payload: %w: %w", err, asynq.SkipRetry)
	}

	if err := p.emailSender.Send(ctx, []string{payload.To}, payload.Subject, payload.Body); err != nil {
		return fmt.Errorf("campaign email to %s: %w", payload.To, err)
	}
	config.Logger().WithField("to", payload.To).Info("campaign email delivered")
	return nil
}

// HandleRecordCleanupTask purges imported records past the retention age.
func (p *TaskProcessor) HandleRecordCleanupTask(ctx context.Context, task *asynq.Task) error {
	deleted, err := p.records.DeleteOlderThan(ctx, p.cfg.RecordRetention)
	if err != nil {
		return fmt.Errorf("record cleanup: %w", err)
	}
	if deleted > 0 {
		config.Logger().WithField("deleted", deleted).Info("stale imported records purged")
	}
	return nil
}

// SetupServer configures the asynq worker server with the task mux.
func SetupServer(rdb *redis.Client, processor *TaskProcessor) (*asynq.Server, *asynq.ServeMux) {
	srv := asynq.NewServer(
		asynq.RedisClientOpt{
			Addr:     rdb.Options().Addr,
			Password: rdb.Options().Password,
			DB:       rdb.Options().DB,
		},
		asynq.Config{
			Concurrency: 10,
			Queues: map[string]int{
				"critical": 6,
				"default":  3,
				"low":      1,
			},
			ErrorHandler: asynq.ErrorHandlerFunc(func(ctx context.Context, task *asynq.Task, err error) {
				config.Logger().WithError(err).WithField("type", task.Type()).Error("task failed")
			}),
		},
	)

	mux := asynq.NewServeMux()
	mux.HandleFunc(TypeCampaignEmail, processor.HandleCampaignEmailTask)
	mux.HandleFunc(TypeRecordCleanup, processor.HandleRecordCleanupTask)
	return srv, mux
}

// SetupScheduler registers the periodic jobs. Record cleanup runs daily.
func SetupScheduler(rdb *redis.Client) (*asynq.Scheduler, error) {
	scheduler := asynq.NewScheduler(
		asynq.RedisClientOpt{
			Addr:     rdb.Options().Addr,
			Password: rdb.Options().Password,
			DB:       rdb.Options().DB,
		},
		nil,
	)

	if _, err := scheduler.Register("@every 24h", asynq.NewTask(TypeRecordCleanup, nil, asynq.Queue("low"))); err != nil {
		return nil, fmt.Errorf("failed to register record cleanup schedule: %w", err)
	}
	return scheduler, nil
}

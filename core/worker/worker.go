package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"guidia-api/core/config"
	"guidia-api/core/constants"
	"guidia-api/core/logger"
	meetingsvc "guidia-api/modules/meeting/service"
	notifdto "guidia-api/modules/notification/dto"

	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"
)

// Worker runs the background side of the service: the asynq consumer, the
// periodic scheduler and the shared task client.
type Worker struct {
	client    *asynq.Client
	server    *asynq.Server
	scheduler *asynq.Scheduler
	meetings  meetingsvc.MeetingServiceInterface
}

// New builds the worker from the Redis URL in cfg. The meeting service is
// set later via Bind because module wiring needs the task client first.
func New(cfg *config.Config) (*Worker, error) {
	opt, err := redis.ParseURL(cfg.Redis.URL)
	if err != nil {
		return nil, fmt.Errorf("worker: parse redis url: %w", err)
	}

	redisOpt := asynq.RedisClientOpt{
		Addr:     opt.Addr,
		Password: opt.Password,
		DB:       opt.DB,
	}

	concurrency := cfg.Scheduler.Concurrency
	if concurrency <= 0 {
		concurrency = constants.DefaultWorkerConcurrency
	}

	server := asynq.NewServer(redisOpt, asynq.Config{
		Concurrency: concurrency,
		Queues: map[string]int{
			constants.QueueScheduler:     2,
			constants.QueueNotifications: 5,
		},
		Logger: asynqLogger{},
	})

	scheduler := asynq.NewScheduler(redisOpt, &asynq.SchedulerOpts{
		Logger: asynqLogger{},
	})

	return &Worker{
		client:    asynq.NewClient(redisOpt),
		server:    server,
		scheduler: scheduler,
	}, nil
}

// Client exposes the task client for producers (notification dispatch).
func (w *Worker) Client() *asynq.Client {
	return w.client
}

// Bind attaches the meeting service the sweep handler drives.
func (w *Worker) Bind(meetings meetingsvc.MeetingServiceInterface) {
	w.meetings = meetings
}

// Start registers handlers and the periodic sweep, then starts consuming.
// The sweep entry is unique for the interval so overlapping schedulers (or a
// slow sweep) never stack duplicate runs.
func (w *Worker) Start(cfg *config.Config) error {
	mux := asynq.NewServeMux()
	mux.HandleFunc(constants.TaskCompleteElapsedMeetings, w.handleCompleteElapsed)
	mux.HandleFunc(constants.TaskDispatchNotification, w.handleDispatchNotification)

	interval := cfg.Scheduler.SweepIntervalMinutes
	if interval <= 0 {
		interval = constants.DefaultSweepIntervalMinutes
	}

	_, err := w.scheduler.Register(
		fmt.Sprintf("@every %dm", interval),
		asynq.NewTask(constants.TaskCompleteElapsedMeetings, nil),
		asynq.Queue(constants.QueueScheduler),
		asynq.Unique(time.Duration(interval)*time.Minute),
	)
	if err != nil {
		return fmt.Errorf("worker: register sweep: %w", err)
	}

	if err := w.server.Start(mux); err != nil {
		return fmt.Errorf("worker: start server: %w", err)
	}
	if err := w.scheduler.Start(); err != nil {
		w.server.Shutdown()
		return fmt.Errorf("worker: start scheduler: %w", err)
	}

	logger.Info("Worker started", "sweep_interval_minutes", interval)
	return nil
}

// Shutdown stops the scheduler and drains the server.
func (w *Worker) Shutdown() {
	w.scheduler.Shutdown()
	w.server.Shutdown()
	if err := w.client.Close(); err != nil {
		logger.Warn("Worker:Shutdown:CloseClient", "error", err)
	}
}

func (w *Worker) handleCompleteElapsed(ctx context.Context, _ *asynq.Task) error {
	if w.meetings == nil {
		return fmt.Errorf("worker: meeting service not bound")
	}

	completed, appErr := w.meetings.CompleteElapsed(ctx, time.Now())
	if appErr != nil {
		logger.Error("Worker:CompleteElapsed:Error:", appErr)
		return appErr
	}
	if completed > 0 {
		logger.Info("Worker:CompleteElapsed", "completed", completed)
	}
	return nil
}

// handleDispatchNotification is the delivery hook. Push and email transports
// hang off this handler; for now delivery is the log line.
func (w *Worker) handleDispatchNotification(_ context.Context, t *asynq.Task) error {
	var payload notifdto.DispatchPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		logger.Error("Worker:DispatchNotification:Unmarshal:Error:", err)
		return fmt.Errorf("worker: dispatch payload: %w: %w", err, asynq.SkipRetry)
	}

	logger.Info("Worker:DispatchNotification",
		"notification_id", payload.NotificationID,
		"user_id", payload.UserID,
		"reference", payload.Reference,
	)
	return nil
}

// asynqLogger adapts asynq's logging onto the shared logger.
type asynqLogger struct{}

func (asynqLogger) Debug(args ...interface{}) { logger.Debug(fmt.Sprint(args...)) }
func (asynqLogger) Info(args ...interface{})  { logger.Info(fmt.Sprint(args...)) }
func (asynqLogger) Warn(args ...interface{})  { logger.Warn(fmt.Sprint(args...)) }
func (asynqLogger) Error(args ...interface{}) { logger.Error(fmt.Sprint(args...)) }
func (asynqLogger) Fatal(args ...interface{}) { logger.Error(fmt.Sprint(args...)) }

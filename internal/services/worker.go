package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/Adeel3330/agile-next-sub002/internal/config"
	"github.com/Adeel3330/agile-next-sub002/pkg/logger"
	"github.com/hibiken/asynq"
)

var errNoProcessor = errors.New("no submission processor configured")

// Worker consumes submission notification tasks from Redis.
type Worker struct {
	server    *asynq.Server
	processor func(context.Context, *SubmissionTask) error

	mu      sync.Mutex
	wg      sync.WaitGroup
	running bool
}

// NewWorker returns nil when Redis is disabled.
func NewWorker(cfg *config.RedisConfig) *Worker {
	if !cfg.Enabled {
		return nil
	}
	concurrency := cfg.Concurrency
	if concurrency <= 0 {
		concurrency = 5
	}

	server := asynq.NewServer(redisOpt(cfg), asynq.Config{
		Concurrency: concurrency,
		Queues:      map[string]int{"default": 1},
		ErrorHandler: asynq.ErrorHandlerFunc(func(ctx context.Context, task *asynq.Task, err error) {
			retried, _ := asynq.GetRetryCount(ctx)
			logger.Warn().Err(err).Str("task", task.Type()).Int("retried", retried).Msg("Notification task failed")
		}),
	})
	return &Worker{server: server}
}

func (w *Worker) SetProcessor(processor func(context.Context, *SubmissionTask) error) {
	w.processor = processor
}

// Start runs the asynq server in the background. Calling it twice is a no-op.
func (w *Worker) Start() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.running {
		return nil
	}
	if w.processor == nil {
		return errNoProcessor
	}

	mux := asynq.NewServeMux()
	mux.HandleFunc(TaskTypeSubmission, w.handleSubmissionTask)

	w.running = true
	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		logger.Info().Msg("Notification worker started")
		if err := w.server.Run(mux); err != nil {
			logger.Error().Err(err).Msg("Notification worker stopped with error")
		}
	}()
	return nil
}

// Stop waits for in-flight tasks and shuts the server down.
func (w *Worker) Stop() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.running {
		return
	}
	w.server.Shutdown()
	w.running = false
	w.wg.Wait()
	logger.Info().Msg("Notification worker stopped")
}

// handleSubmissionTask decodes one task and hands it to the processor. A
// payload that cannot be decoded is never retried.
func (w *Worker) handleSubmissionTask(ctx context.Context, t *asynq.Task) error {
	var task SubmissionTask
	if err := json.Unmarshal(t.Payload(), &task); err != nil {
		return fmt.Errorf("decode submission task: %v: %w", err, asynq.SkipRetry)
	}
	if w.processor == nil {
		return errNoProcessor
	}

	logger.Debug().Str("form", task.Form).Uint("id", task.ID).Msg("Processing submission notification")
	return w.processor(ctx, &task)
}

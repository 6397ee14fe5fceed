package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"careerpath/career-advisor/internal/logger"
	"careerpath/career-advisor/internal/metrics"
)

// Job is one fire-and-forget task such as saving history after a response was sent.
type Job struct {
	Name string
	Run  func(ctx context.Context) error
}

type Worker interface {
	Start(ctx context.Context)
	Stop()
	Enqueue(job Job) bool
}

type worker struct {
	jobQueue    chan Job
	concurrency int
	jobTimeout  time.Duration
	wg          sync.WaitGroup

	mu      sync.RWMutex
	stopped bool
}

// NewWorker returns a worker with a bounded queue. Jobs run with jobTimeout when it is positive.
func NewWorker(concurrency, queueSize int, jobTimeout time.Duration) Worker {
	if concurrency <= 0 {
		concurrency = 1
	}
	if queueSize <= 0 {
		queueSize = 100
	}
	return &worker{
		jobQueue:    make(chan Job, queueSize),
		concurrency: concurrency,
		jobTimeout:  jobTimeout,
	}
}

// Start implements Worker.
func (w *worker) Start(ctx context.Context) {
	logger.Info().Int("concurrency", w.concurrency).Msg("🚀 Starting background worker")

	for i := 0; i < w.concurrency; i++ {
		w.wg.Add(1)
		go w.processJobs(ctx, i+1)
	}

	logger.Info().Msg("✅ Worker started successfully")
}

// Stop implements Worker. Queued jobs are drained before it returns.
func (w *worker) Stop() {
	w.mu.Lock()
	if w.stopped {
		w.mu.Unlock()
		return
	}
	w.stopped = true
	close(w.jobQueue)
	w.mu.Unlock()

	logger.Info().Msg("🛑 Stopping worker...")
	w.wg.Wait()
	logger.Info().Msg("✅ Worker stopped")
}

// Enqueue implements Worker. It never blocks: a full queue or a stopped worker drops the job.
func (w *worker) Enqueue(job Job) bool {
	w.mu.RLock()
	defer w.mu.RUnlock()

	if w.stopped {
		logger.Warn().Str("job", job.Name).Msg("⚠️ Worker stopped, dropping job")
		metrics.BackgroundJobs.WithLabelValues(job.Name, "dropped").Inc()
		return false
	}

	select {
	case w.jobQueue <- job:
		return true
	default:
		logger.Warn().Str("job", job.Name).Msg("⚠️ Job queue full, dropping job")
		metrics.BackgroundJobs.WithLabelValues(job.Name, "dropped").Inc()
		return false
	}
}

func (w *worker) processJobs(ctx context.Context, workerID int) {
	defer w.wg.Done()

	for job := range w.jobQueue {
		if err := w.run(ctx, job); err != nil {
			logger.Error().Err(err).Int("worker", workerID).Str("job", job.Name).Msg("❌ Background job failed")
			metrics.BackgroundJobs.WithLabelValues(job.Name, "error").Inc()
			continue
		}
		metrics.BackgroundJobs.WithLabelValues(job.Name, "ok").Inc()
	}
}

func (w *worker) run(ctx context.Context, job Job) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()

	if w.jobTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, w.jobTimeout)
		defer cancel()
	}
	return job.Run(ctx)
}

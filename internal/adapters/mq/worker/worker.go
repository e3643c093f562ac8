// Package worker defines workers that score queued submissions and
// persist them to the history store.
package worker

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"strconv"
	"time"

	"github.com/okian/sensei/internal/adapters/repository"
	"github.com/okian/sensei/internal/domain/model"
	"github.com/okian/sensei/internal/domain/scoring"
	"github.com/okian/sensei/pkg/logger"
	"github.com/okian/sensei/pkg/metrics"
)

// Default worker configuration constants.
const (
	defaultWorkerMultiplier = 4 // multiplier for runtime.NumCPU()
	workerShutdownTimeout   = 5 * time.Second
	poolShutdownTimeout     = 30 * time.Second
)

// Scorer computes a score record for a submission.
type Scorer interface {
	Score(sub model.Submission, meta model.ProblemMeta) scoring.Record
}

// Appender persists scored submissions.
type Appender interface {
	Append(ctx context.Context, sub model.Submission) error
}

// Catalog resolves problem metadata for scoring.
type Catalog interface {
	GetByID(id string) (model.ProblemMeta, error)
}

// Queue defines how workers receive submissions.
type Queue interface {
	Dequeue(ctx context.Context) <-chan model.Submission
}

// Worker processes queued submissions until stopped.
type Worker interface {
	// Run starts the worker loop until ctx is canceled.
	Run(ctx context.Context)

	// Shutdown gracefully stops the worker.
	Shutdown(ctx context.Context) error
}

// SubmissionWorker implements Worker for scoring and persisting submissions.
type SubmissionWorker struct {
	queue   Queue
	scorer  Scorer
	store   Appender
	catalog Catalog
	name    string

	shutdown chan struct{}
	done     chan struct{}

	logger logger.Logger
}

// NewSubmissionWorker creates a new worker with configuration options.
func NewSubmissionWorker(queue Queue, scorer Scorer, store Appender, catalog Catalog, opts ...Option) *SubmissionWorker {
	w := &SubmissionWorker{
		queue:    queue,
		scorer:   scorer,
		store:    store,
		catalog:  catalog,
		name:     "worker",
		shutdown: make(chan struct{}),
		done:     make(chan struct{}),
		logger:   logger.Get().Named("worker"),
	}

	for _, opt := range opts {
		opt(w)
	}

	if w.name != "worker" {
		w.logger = w.logger.Named(w.name)
	}

	return w
}

// Run starts the worker loop.
func (w *SubmissionWorker) Run(ctx context.Context) {
	defer close(w.done)

	subs := w.queue.Dequeue(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.shutdown:
			return
		case sub, ok := <-subs:
			if !ok {
				return
			}
			if err := w.process(ctx, sub); err != nil {
				w.logger.Error(ctx, "error processing submission", logger.Error(err))
			}
		}
	}
}

// Shutdown gracefully stops the worker.
func (w *SubmissionWorker) Shutdown(ctx context.Context) error {
	close(w.shutdown)

	select {
	case <-w.done:
		return nil
	case <-ctx.Done():
		w.logger.Warn(ctx, "shutdown timed out")
		return fmt.Errorf("shutdown timed out: %w", ctx.Err())
	}
}

// process scores one submission against the catalog and appends it
// to the history store. Submissions for problems missing from the
// catalog are still stored; the analyzer fills in default metadata.
func (w *SubmissionWorker) process(ctx context.Context, sub model.Submission) error {
	meta, err := w.catalog.GetByID(sub.ProblemID)
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			metrics.RecordWorkerError()
			metrics.RecordErrorByComponent("worker", "catalog_error")
			return fmt.Errorf("resolve problem %s: %w", sub.ProblemID, err)
		}
		meta = model.ProblemMeta{
			ProblemID:  sub.ProblemID,
			Topic:      sub.Topic,
			Difficulty: sub.Difficulty,
		}
		w.logger.Debug(ctx, "submission for uncataloged problem",
			logger.String("problem_id", sub.ProblemID),
		)
	}

	record := w.scorer.Score(sub, meta)
	metrics.RecordSubmissionScored(float64(record.Total))

	if err := w.store.Append(ctx, sub); err != nil {
		metrics.RecordWorkerError()
		metrics.RecordErrorByComponent("worker", "store_error")
		w.logger.Error(ctx, "history append failed",
			logger.String("submission_id", sub.ID),
			logger.Error(err),
		)
		return fmt.Errorf("append submission %s: %w", sub.ID, err)
	}

	return nil
}

// Pool manages multiple workers.
type Pool struct {
	workers []*SubmissionWorker
	queue   Queue

	logger logger.Logger
}

// NewPool creates a worker pool of the given size. A size below one
// defaults to a multiple of the CPU count.
func NewPool(workerCount int, queue Queue, scorer Scorer, store Appender, catalog Catalog) *Pool {
	if workerCount < 1 {
		workerCount = runtime.NumCPU() * defaultWorkerMultiplier
	}

	pool := &Pool{
		workers: make([]*SubmissionWorker, workerCount),
		queue:   queue,
		logger:  logger.Get().Named("worker-pool"),
	}

	for i := 0; i < workerCount; i++ {
		pool.workers[i] = NewSubmissionWorker(
			queue,
			scorer,
			store,
			catalog,
			WithName("worker-"+strconv.Itoa(i)),
		)
	}

	metrics.UpdateWorkerCount(workerCount)

	return pool
}

// Start starts all workers in the pool.
func (p *Pool) Start(ctx context.Context) {
	for _, w := range p.workers {
		go w.Run(ctx)
	}
}

// Size returns the number of workers in the pool.
func (p *Pool) Size() int {
	return len(p.workers)
}

// Shutdown closes the queue to stop intake, then waits for workers to
// drain the backlog within the pool shutdown timeout.
func (p *Pool) Shutdown(ctx context.Context) error {
	if closer, ok := p.queue.(interface{ Close() error }); ok {
		if err := closer.Close(); err != nil {
			p.logger.Error(ctx, "error closing queue", logger.Error(err))
		}
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, poolShutdownTimeout)
	defer cancel()

	for i, w := range p.workers {
		select {
		case <-w.done:
		case <-shutdownCtx.Done():
			p.logger.Warn(ctx, "worker shutdown timed out", logger.Int("worker_id", i))
		}
	}

	metrics.UpdateWorkerCount(0)
	return nil
}

// Package worker runs the asynchronous ranking workers that drain the
// stat-line queue and record best ratings on the board.
package worker

import (
	"context"
	"fmt"
	"runtime"
	"strconv"
	"time"

	"github.com/okian/deke/internal/adapters/mq/queue"
	"github.com/okian/deke/internal/adapters/repository"
	"github.com/okian/deke/internal/domain/rating"
	"github.com/okian/deke/internal/domain/statline"
	"github.com/okian/deke/pkg/logger"
	"github.com/okian/deke/pkg/metrics"
)

// Default worker configuration constants.
const (
	defaultWorkerMultiplier = 4 // multiplier for runtime.NumCPU()
	workerShutdownTimeout   = 5 * time.Second
)

// Ranker converts one stat line into a rating result.
type Ranker interface {
	Rank(line statline.StatLine) rating.Result
}

// Source defines how workers receive jobs.
type Source interface {
	Dequeue(ctx context.Context) <-chan queue.Job
}

// Worker processes queued stat lines and writes rating updates.
type Worker struct {
	source Source
	ranker Ranker
	board  repository.Board
	name   string

	shutdown chan struct{}
	done     chan struct{}

	logger logger.Logger
}

// Option applies a configuration option to the Worker.
type Option func(*Worker)

// WithName sets the worker name for logging.
func WithName(name string) Option {
	return func(w *Worker) {
		if name != "" {
			w.name = name
		}
	}
}

// WithLogger sets a custom logger for the worker.
func WithLogger(l logger.Logger) Option {
	return func(w *Worker) {
		if l != nil {
			w.logger = l
		}
	}
}

// NewWorker creates a worker with configuration options.
func NewWorker(source Source, ranker Ranker, board repository.Board, opts ...Option) *Worker {
	w := &Worker{
		source:   source,
		ranker:   ranker,
		board:    board,
		name:     "worker",
		shutdown: make(chan struct{}),
		done:     make(chan struct{}),
		logger:   logger.Get().Named("worker"),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Run drains the queue until ctx is canceled or the worker shuts down.
func (w *Worker) Run(ctx context.Context) {
	defer close(w.done)

	jobs := w.source.Dequeue(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.shutdown:
			return
		case job, ok := <-jobs:
			if !ok {
				return
			}
			if err := w.process(ctx, job); err != nil {
				w.logger.Error(ctx, "failed to process stat line", logger.Error(err))
			}
		}
	}
}

// Shutdown gracefully stops the worker.
func (w *Worker) Shutdown(ctx context.Context) error {
	close(w.shutdown)
	select {
	case <-w.done:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("worker shutdown timed out: %w", ctx.Err())
	}
}

// process ranks one queued stat line and records it on the board.
func (w *Worker) process(ctx context.Context, job queue.Job) error {
	start := time.Now()
	defer func() {
		metrics.RecordWorkerProcessingLatency(float64(time.Since(start).Milliseconds()))
	}()

	res := w.ranker.Rank(job.Line)
	if !res.Valid {
		metrics.RecordRatingUnavailable()
		w.logger.Warn(ctx, "no rating available",
			logger.String("jobID", job.ID),
			logger.String("entityID", res.EntityID),
		)
		return nil
	}
	metrics.RecordRatingComputed()
	if res.DidNotPlay() {
		metrics.RecordZeroPerformance()
		return nil
	}

	if res.EntityID == "" {
		return nil
	}
	_, err := w.board.UpdateBest(ctx, repository.Entry{
		EntityID: res.EntityID,
		Rating:   res.Score,
		Entity:   res.Entity,
		Level:    res.Level,
		ModelKey: res.ModelKey,
	})
	if err != nil {
		metrics.RecordWorkerError()
		return fmt.Errorf("board update failed for %s: %w", job.ID, err)
	}
	return nil
}

// Pool manages a fixed set of workers.
type Pool struct {
	workers []*Worker
	logger  logger.Logger
}

// NewPool creates a pool of workerCount workers; non-positive counts
// default to a multiple of the CPU count.
func NewPool(workerCount int, source Source, ranker Ranker, board repository.Board) *Pool {
	if workerCount < 1 {
		workerCount = runtime.NumCPU() * defaultWorkerMultiplier
	}

	p := &Pool{
		workers: make([]*Worker, workerCount),
		logger:  logger.Get().Named("worker-pool"),
	}
	for i := 0; i < workerCount; i++ {
		p.workers[i] = NewWorker(source, ranker, board, WithName("worker-"+strconv.Itoa(i)))
	}
	metrics.UpdateWorkerCount(workerCount)
	return p
}

// Start launches all workers.
func (p *Pool) Start(ctx context.Context) {
	for _, w := range p.workers {
		go w.Run(ctx)
	}
}

// Stop gracefully stops all workers.
func (p *Pool) Stop() {
	for _, w := range p.workers {
		select {
		case <-w.done:
		default:
			close(w.shutdown)
		}
	}
	for _, w := range p.workers {
		select {
		case <-w.done:
		case <-time.After(workerShutdownTimeout):
		}
	}
}

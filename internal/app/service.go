// Package service provides the core business service that implements
// the dependencies required by the HTTP API.
package service

import (
	"context"
	"fmt"
	"runtime"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	linequeue "github.com/okian/deke/internal/adapters/mq/queue"
	workerpool "github.com/okian/deke/internal/adapters/mq/worker"
	repository "github.com/okian/deke/internal/adapters/repository"
	"github.com/okian/deke/internal/domain/dedupe"
	"github.com/okian/deke/internal/domain/lineup"
	"github.com/okian/deke/internal/domain/rating"
	"github.com/okian/deke/internal/domain/statline"
	"github.com/okian/deke/pkg/logger"
	"github.com/okian/deke/pkg/metrics"
)

// Service wires the ranking pipeline, lineup optimizer, model store, and
// leaderboard together behind the API surface.
type Service struct {
	mu sync.RWMutex

	// Core components
	models    *repository.ModelStore
	board     repository.Board
	deduper   dedupe.Deduper
	lineQueue linequeue.Queue
	ranker    *rating.Ranker
	optimizer *lineup.Optimizer
	pool      *workerpool.Pool

	// Configuration
	workerCount       int
	queueSize         int
	dedupeSize        int
	modelFile         string
	transformExponent float64
	globalWeights     map[string]float64

	// State
	started bool
	stopCh  chan struct{}

	// Logging
	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithWorkerCount sets the number of worker goroutines.
func WithWorkerCount(count int) Option {
	return func(s *Service) {
		if count > 0 {
			s.workerCount = count
		}
	}
}

// WithQueueSize sets the maximum size of the stat-line queue.
func WithQueueSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.queueSize = size
		}
	}
}

// WithDedupeSize sets the size of the deduplication cache.
func WithDedupeSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.dedupeSize = size
		}
	}
}

// WithModelFile sets the YAML file to load season models from.
func WithModelFile(path string) Option {
	return func(s *Service) {
		s.modelFile = path
	}
}

// WithTransformExponent sets the percentile transform exponent.
func WithTransformExponent(k float64) Option {
	return func(s *Service) {
		if k > 0 {
			s.transformExponent = k
		}
	}
}

// WithGlobalWeights sets the last-resort category weight table.
func WithGlobalWeights(weights map[string]float64) Option {
	return func(s *Service) {
		s.globalWeights = weights
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(logger logger.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		workerCount:       runtime.NumCPU() * 4,
		queueSize:         100_000,
		dedupeSize:        50_000,
		transformExponent: 1.8,
		stopCh:            make(chan struct{}),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Start initializes and starts the service components.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	if s.logger == nil {
		s.logger = logger.Get()
	}

	s.logger.Info(ctx, "starting ranking service...")

	s.models = repository.NewModelStore()
	if s.modelFile != "" {
		if err := s.models.LoadFile(s.modelFile); err != nil {
			return fmt.Errorf("loading models from %s: %w", s.modelFile, err)
		}
	}
	metrics.UpdateModelCount(s.models.Len())

	s.board = repository.NewTreapBoard()
	s.deduper = dedupe.NewInMemoryDeduper(
		dedupe.WithMaxSize(s.dedupeSize),
	)
	s.lineQueue = linequeue.NewInMemoryQueue(
		linequeue.WithCapacity(s.queueSize),
	)

	s.ranker = rating.NewRanker(s.models,
		rating.WithScorer(rating.NewScorer(rating.WithTransformExponent(s.transformExponent))),
		rating.WithGlobalWeights(s.globalWeights),
	)
	s.optimizer = lineup.NewOptimizer()

	s.pool = workerpool.NewPool(s.workerCount, s.lineQueue, s.ranker, s.board)
	s.pool.Start(ctx)

	s.started = true
	s.logger.Info(ctx, "ranking service started",
		logger.Int("workers", s.workerCount),
		logger.Int("queueSize", s.queueSize),
		logger.Int("dedupeSize", s.dedupeSize),
		logger.Int("models", s.models.Len()),
	)

	return nil
}

// Stop gracefully shuts down the service.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}

	s.logger.Info(context.Background(), "stopping ranking service...")

	if q, ok := s.lineQueue.(*linequeue.InMemoryQueue); ok {
		_ = q.Close()
	}
	if s.pool != nil {
		s.pool.Stop()
	}

	select {
	case <-s.stopCh:
	default:
		close(s.stopCh)
	}

	s.started = false
	s.logger.Info(context.Background(), "ranking service stopped")
}

// RankOne synchronously rates a single stat line.
func (s *Service) RankOne(ctx context.Context, line statline.StatLine) rating.Result {
	start := time.Now()
	res := s.ranker.Rank(line)
	observeRankResult(res, time.Since(start))
	return res
}

// RankMany rates a batch of stat lines concurrently. The result order
// matches the input order.
func (s *Service) RankMany(ctx context.Context, lines []statline.StatLine) ([]rating.Result, error) {
	results := make([]rating.Result, len(lines))

	g, _ := errgroup.WithContext(ctx)
	g.SetLimit(s.workerCount)
	for i, line := range lines {
		i, line := i, line
		g.Go(func() error {
			start := time.Now()
			results[i] = s.ranker.Rank(line)
			observeRankResult(results[i], time.Since(start))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// OptimizeLineup assigns a rated roster to the lineup template.
func (s *Service) OptimizeLineup(ctx context.Context, players []lineup.Player) lineup.Result {
	start := time.Now()
	res := s.optimizer.Optimize(players)
	metrics.RecordLineupOptimization()
	if res.Exhaustive {
		metrics.RecordLineupExhaustive()
	}
	metrics.RecordLineupDuration(float64(time.Since(start).Milliseconds()))
	return res
}

// observeRankResult records per-result rating metrics.
func observeRankResult(res rating.Result, elapsed time.Duration) {
	metrics.RecordRankDuration(float64(elapsed.Milliseconds()))
	if res.Degraded {
		metrics.RecordDegradedClassification()
	}
	if res.LowConfidence {
		metrics.RecordGlobalFallback()
	}
}

// SeenAndRecord atomically checks if a stat-line id was seen and records
// it if not. Returns true if the id was already seen.
func (s *Service) SeenAndRecord(ctx context.Context, id string) bool {
	seen := s.deduper.SeenAndRecord(ctx, id)
	if seen {
		metrics.RecordLineDuplicate()
	}
	return seen
}

// Unrecord removes a stat-line id from the seen list, allowing a retry.
func (s *Service) Unrecord(ctx context.Context, id string) {
	s.deduper.Unrecord(ctx, id)
}

// Enqueue submits a stat line for asynchronous ranking. Returns false
// when the queue rejects the line; duplicates report success without
// re-queueing.
func (s *Service) Enqueue(ctx context.Context, id string, line statline.StatLine) bool {
	if id == "" {
		s.logger.Warn(ctx, "rejecting stat line without id")
		return false
	}

	if s.SeenAndRecord(ctx, id) {
		s.logger.Debug(ctx, "duplicate stat line, skipping",
			logger.String("id", id),
		)
		return true
	}

	ok := s.lineQueue.Enqueue(ctx, linequeue.Job{ID: id, Line: line})
	if !ok {
		// Allow a retry once there is queue capacity again.
		s.deduper.Unrecord(ctx, id)
		return false
	}
	metrics.RecordLineIngested()
	return true
}

// TopN returns the top N leaderboard entries.
func (s *Service) TopN(ctx context.Context, n int) ([]repository.Entry, error) {
	return s.board.TopN(ctx, n)
}

// Rank returns the rank and best rating for a given entity id.
func (s *Service) Rank(ctx context.Context, entityID string) (repository.Entry, error) {
	return s.board.Rank(ctx, entityID)
}

// ModelCount reports how many season models are loaded.
func (s *Service) ModelCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.models == nil {
		return 0
	}
	return s.models.Len()
}

// Stats is a point-in-time operational snapshot of the service.
// QueueLength, TotalEntities, and ModelCount are only populated while
// the service is started.
type Stats struct {
	Started       bool `json:"started"`
	WorkerCount   int  `json:"workerCount"`
	QueueSize     int  `json:"queueSize"`
	DedupeSize    int  `json:"dedupeSize"`
	QueueLength   int  `json:"queueLength"`
	TotalEntities int  `json:"totalEntities"`
	ModelCount    int  `json:"modelCount"`
}

// GetStats returns an operational snapshot and refreshes the queue,
// board, and worker gauges.
func (s *Service) GetStats() Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ctx := context.Background()
	stats := Stats{
		Started:     s.started,
		WorkerCount: s.workerCount,
		QueueSize:   s.queueSize,
		DedupeSize:  s.dedupeSize,
	}

	if s.started {
		stats.QueueLength = s.lineQueue.Len(ctx)
		stats.TotalEntities = s.board.Count(ctx)
		stats.ModelCount = s.models.Len()

		metrics.UpdateQueueSize(stats.QueueLength)
		metrics.UpdateBoardEntities(stats.TotalEntities)
		metrics.UpdateWorkerCount(s.workerCount)
	}

	return stats
}

// Size returns the current number of entries in the deduper.
func (s *Service) Size() int64 {
	if s.deduper == nil {
		return 0
	}
	return s.deduper.Size()
}

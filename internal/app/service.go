// Package service provides the core business service that implements
// the dependencies required by the HTTP API.
package service

import (
	"context"
	"errors"
	"runtime"
	"sync"
	"time"

	submissionqueue "github.com/okian/sensei/internal/adapters/mq/queue"
	workerpool "github.com/okian/sensei/internal/adapters/mq/worker"
	"github.com/okian/sensei/internal/adapters/repository"
	"github.com/okian/sensei/internal/domain/analysis"
	"github.com/okian/sensei/internal/domain/dedupe"
	"github.com/okian/sensei/internal/domain/model"
	"github.com/okian/sensei/internal/domain/recommend"
	"github.com/okian/sensei/internal/domain/scoring"
	"github.com/okian/sensei/internal/domain/types"
	"github.com/okian/sensei/pkg/logger"
	"github.com/okian/sensei/pkg/metrics"
)

// Service wires the submission pipeline: intake, scoring workers,
// history store, analyzer, and recommendation engine.
type Service struct {
	mu sync.RWMutex

	// Core components
	catalog    repository.Catalog
	store      *repository.MemStore
	deduper    dedupe.Deduper
	queue      submissionqueue.Queue
	scorer     *scoring.Scorer
	analyzer   *analysis.Analyzer
	engine     *recommend.Engine
	narrator   recommend.Narrator
	workerPool *workerpool.Pool

	// Configuration
	catalogPath    string
	workerCount    int
	queueSize      int
	dedupeSize     int
	shardCount     int
	scoringWeights scoring.Weights
	engineOpts     []recommend.Option

	// State
	started bool

	// Logging
	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithCatalogPath sets the YAML catalog file loaded on Start.
func WithCatalogPath(path string) Option {
	return func(s *Service) {
		if path != "" {
			s.catalogPath = path
		}
	}
}

// WithCatalog injects a pre-built catalog, bypassing the file load.
func WithCatalog(c repository.Catalog) Option {
	return func(s *Service) {
		if c != nil {
			s.catalog = c
		}
	}
}

// WithWorkerCount sets the number of worker goroutines.
func WithWorkerCount(count int) Option {
	return func(s *Service) {
		if count > 0 {
			s.workerCount = count
		}
	}
}

// WithQueueSize sets the maximum size of the submission queue.
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

// WithShardCount sets the number of shards in the submission store.
func WithShardCount(count int) Option {
	return func(s *Service) {
		if count > 0 {
			s.shardCount = count
		}
	}
}

// WithScoringWeights sets the component weights used by the scorer.
func WithScoringWeights(w scoring.Weights) Option {
	return func(s *Service) {
		s.scoringWeights = w
	}
}

// WithEngineOptions forwards options to the recommendation engine.
func WithEngineOptions(opts ...recommend.Option) Option {
	return func(s *Service) {
		s.engineOpts = append(s.engineOpts, opts...)
	}
}

// WithNarrator sets the narrator used to decorate recommendations.
func WithNarrator(n recommend.Narrator) Option {
	return func(s *Service) {
		if n != nil {
			s.narrator = n
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		catalogPath:    "catalog.yaml",
		workerCount:    runtime.NumCPU() * 2,
		queueSize:      100_000,
		dedupeSize:     500_000,
		shardCount:     32,
		scoringWeights: scoring.DefaultWeights(),
		narrator:       recommend.NoopNarrator{},
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
		s.logger = logger.Get().Named("service")
	}

	s.logger.Info(ctx, "starting recommendation service...")

	if s.catalog == nil {
		catalog, err := repository.LoadCatalog(s.catalogPath)
		if err != nil {
			return err
		}
		s.catalog = catalog
	}

	s.store = repository.NewMemStore(
		repository.WithShardCount(s.shardCount),
	)
	s.deduper = dedupe.NewInMemoryDeduper(
		dedupe.WithMaxSize(s.dedupeSize),
	)
	s.queue = submissionqueue.NewInMemoryQueue(
		submissionqueue.WithCapacity(s.queueSize),
	)
	s.scorer = scoring.New(
		scoring.WithWeights(s.scoringWeights),
	)
	s.analyzer = analysis.New(
		analysis.WithScorer(s.scorer),
	)
	s.engine = recommend.New(s.engineOpts...)

	s.workerPool = workerpool.NewPool(s.workerCount, s.queue, s.scorer, s.store, s.catalog)
	s.workerPool.Start(ctx)

	s.started = true
	s.logger.Info(ctx, "recommendation service started",
		logger.Int("workers", s.workerPool.Size()),
		logger.Int("queue_size", s.queueSize),
		logger.Int("catalog_problems", s.catalog.Size()),
	)

	return nil
}

// Stop gracefully shuts down the service, draining queued submissions.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}

	ctx := context.Background()
	s.logger.Info(ctx, "stopping recommendation service...")

	if s.workerPool != nil {
		_ = s.workerPool.Shutdown(ctx)
	}
	if s.queue != nil {
		_ = s.queue.Close()
	}

	s.started = false
	s.logger.Info(ctx, "recommendation service stopped")
}

// SeenAndRecord atomically checks if a submission id was seen and records it
// if not. Returns true if the id was already seen.
func (s *Service) SeenAndRecord(ctx context.Context, id string) bool {
	return s.deduper.SeenAndRecord(ctx, id)
}

// Unrecord removes a submission ID from the seen list, allowing a retry.
func (s *Service) Unrecord(ctx context.Context, id string) {
	s.deduper.Unrecord(ctx, id)
}

// Size returns the current number of entries in the deduper.
func (s *Service) Size() int64 {
	if s.deduper == nil {
		return 0
	}
	return s.deduper.Size()
}

// Enqueue submits a submission for asynchronous scoring.
func (s *Service) Enqueue(ctx context.Context, sub model.Submission) bool {
	s.logger.Debug(ctx, "enqueueing submission",
		logger.String("submission_id", sub.ID),
		logger.String("user_id", sub.UserID),
		logger.String("problem_id", sub.ProblemID),
	)
	return s.queue.Enqueue(ctx, sub)
}

// Analyze builds the skill profile report for a user. A user with no
// history yields an empty beginner profile, not an error.
func (s *Service) Analyze(ctx context.Context, userID string) (types.AnalysisReport, error) {
	start := time.Now()
	defer func() {
		metrics.RecordAnalysisDuration(float64(time.Since(start).Milliseconds()))
	}()

	history, err := s.store.ListByUser(ctx, userID)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return types.AnalysisReport{}, err
	}

	profile := s.analyzer.Analyze(history, s.catalog.All())
	solved, err := s.store.SolvedSet(ctx, userID)
	if err != nil {
		return types.AnalysisReport{}, err
	}

	return toAnalysisReport(profile, len(solved)), nil
}

// Recommend builds the ranked recommendation set for a user. Narration
// is best-effort: if the narrator fails or tampers with the selection,
// the plain engine output is returned.
func (s *Service) Recommend(ctx context.Context, userID string, limit int) (types.RecommendationSet, error) {
	start := time.Now()
	defer func() {
		metrics.RecordRecommendDuration(float64(time.Since(start).Milliseconds()))
	}()

	history, err := s.store.ListByUser(ctx, userID)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return types.RecommendationSet{}, err
	}
	solved, err := s.store.SolvedSet(ctx, userID)
	if err != nil {
		return types.RecommendationSet{}, err
	}

	profile := s.analyzer.Analyze(history, s.catalog.All())
	recs := s.engine.Recommend(profile, s.catalog.All(), solved, limit)
	for _, r := range recs {
		metrics.RecordRecommendation(string(r.Reason))
	}

	narrated := s.narrate(ctx, recs)
	return toRecommendationSet(profile, narrated), nil
}

// narrate decorates recommendations, falling back to empty commentary
// when the narrator errors or changes the selection.
func (s *Service) narrate(ctx context.Context, recs []recommend.Recommendation) []recommend.Narrated {
	narrated, err := s.narrator.Narrate(ctx, recs)
	if err != nil {
		s.logger.Warn(ctx, "narration failed, using plain recommendations", logger.Error(err))
		plain, _ := recommend.NoopNarrator{}.Narrate(ctx, recs)
		return plain
	}
	if !recommend.SameSelection(recs, narrated) {
		s.logger.Warn(ctx, "narrator changed the selection, discarding commentary")
		metrics.RecordNarrationError()
		plain, _ := recommend.NoopNarrator{}.Narrate(ctx, recs)
		return plain
	}
	return narrated
}

// Problems lists the catalog in declaration order.
func (s *Service) Problems(_ context.Context) []types.Problem {
	all := s.catalog.All()
	out := make([]types.Problem, len(all))
	for i, p := range all {
		out[i] = types.Problem{
			ProblemID:           p.ProblemID,
			Title:               p.Title,
			Topic:               p.Topic,
			Difficulty:          string(p.Difficulty),
			ExpectedComplexity:  p.ExpectedComplexity,
			ExpectedTimeMinutes: p.ExpectedTimeMinutes,
		}
	}
	return out
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ctx := context.Background()
	stats := map[string]interface{}{
		"started":      s.started,
		"worker_count": s.workerCount,
		"queue_size":   s.queueSize,
		"dedupe_size":  s.dedupeSize,
	}

	if s.started {
		stats["queue_length"] = s.queue.Len(ctx)
		stats["total_submissions"] = s.store.Count(ctx)
		stats["tracked_users"] = s.store.Users(ctx)
		stats["catalog_problems"] = s.catalog.Size()
	}

	return stats
}

func toAnalysisReport(p analysis.Profile, solvedCount int) types.AnalysisReport {
	report := types.AnalysisReport{
		OverallScore:     p.OverallScore,
		SkillLevel:       string(p.SkillLevel),
		EfficiencyRating: p.Stats.EfficiencyRating,
		Strengths:        append([]string{}, p.StrongTopics...),
		Weaknesses:       append([]string{}, p.WeakTopics...),
		UntriedTopics:    append([]string{}, p.UntriedTopics...),
		Topics:           make([]types.TopicReport, 0, len(p.Topics)),
		Statistics: types.AnalysisNumbers{
			TotalAttempted:      p.Stats.TotalAttempted,
			TotalSolved:         p.Stats.TotalSolved,
			BruteForceSolutions: p.Stats.BruteForceCount,
			AverageAttempts:     p.Stats.AverageAttempts,
			AverageEfficiency:   p.Stats.AverageEfficiency,
		},
	}

	m := recommend.NextMilestone(p, solvedCount)
	report.NextMilestone = types.Milestone{
		Description:     m.Description,
		Progress:        m.Progress,
		ScoreTarget:     m.ScoreTarget,
		ProblemsTarget:  m.ProblemsTarget,
		CurrentScore:    m.CurrentScore,
		CurrentProblems: m.CurrentProblems,
	}

	// TopicOrder keeps the breakdown deterministic across calls.
	for _, name := range p.TopicOrder {
		tp, ok := p.Topics[name]
		if !ok {
			continue
		}
		dist := make(map[string]int, len(tp.Difficulties))
		for d, n := range tp.Difficulties {
			dist[string(d)] = n
		}
		report.Topics = append(report.Topics, types.TopicReport{
			Topic:                  tp.Topic,
			Attempted:              tp.Attempted,
			Solved:                 tp.Solved,
			Accuracy:               tp.Accuracy,
			AverageScore:           tp.AverageScore,
			AverageEfficiency:      tp.AverageEfficiency,
			AverageAttempts:        tp.AverageAttempts,
			DifficultyDistribution: dist,
		})
	}

	return report
}

func toRecommendationSet(p analysis.Profile, narrated []recommend.Narrated) types.RecommendationSet {
	problems := make([]types.RecommendedProblem, len(narrated))
	for i, n := range narrated {
		problems[i] = types.RecommendedProblem{
			ProblemID:  n.ProblemID,
			Title:      n.Title,
			Difficulty: string(n.Difficulty),
			Topic:      n.Topic,
			Reason:     string(n.Reason),
			Commentary: n.Commentary,
		}
	}

	return types.RecommendationSet{
		RecommendedProblems: problems,
		Strengths:           types.TopicList{Topics: append([]string{}, p.StrongTopics...)},
		Weaknesses:          types.TopicList{Topics: append([]string{}, p.WeakTopics...)},
		SkillLevel:          string(p.SkillLevel),
		OverallScore:        p.OverallScore,
	}
}

// Package service provides the core verification service that implements
// the dependencies required by the HTTP API. It owns the target registry,
// the click ledger, and the accuracy evaluator; one instance is constructed
// at process start and handed to every handler.
package service

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/zikuli/precision/internal/adapters/repository"
	"github.com/zikuli/precision/internal/domain/accuracy"
	"github.com/zikuli/precision/internal/domain/model"
	"github.com/zikuli/precision/internal/domain/summary"
	"github.com/zikuli/precision/pkg/logger"
	"github.com/zikuli/precision/pkg/metrics"
)

// Results bundles the ledger snapshot with its aggregate for GET /results.
type Results struct {
	Clicks  []model.ClickReport
	Summary summary.Summary
}

// Service holds the shared verification state. Registry and ledger carry
// their own locks; the service mutex only guards lifecycle.
type Service struct {
	mu sync.Mutex

	registry  repository.Registry
	ledger    repository.Ledger
	evaluator *accuracy.Evaluator

	threshold    float64
	recompute    bool
	capacityHint int
	mismatches   atomic.Int64

	started bool

	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithThreshold sets the pass/fail accuracy threshold in pixels.
func WithThreshold(px float64) Option {
	return func(s *Service) {
		if px > 0 {
			s.threshold = px
		}
	}
}

// WithRecompute toggles server-side re-evaluation of client-supplied
// distance/success fields. Disagreements are diagnostics, never rejections.
func WithRecompute(enabled bool) Option {
	return func(s *Service) {
		s.recompute = enabled
	}
}

// WithLedgerCapacity pre-sizes the click ledger.
func WithLedgerCapacity(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.capacityHint = n
		}
	}
}

// New constructs a Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		threshold: accuracy.DefaultThreshold,
		recompute: true,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start initializes the registry, ledger, and evaluator.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	if s.logger == nil {
		s.logger = logger.Get()
	}

	s.registry = repository.NewInMemoryRegistry(ctx)
	if s.capacityHint > 0 {
		s.ledger = repository.NewInMemoryLedger(ctx, repository.WithCapacityHint(s.capacityHint))
	} else {
		s.ledger = repository.NewInMemoryLedger(ctx)
	}
	s.evaluator = accuracy.New(accuracy.WithThreshold(s.threshold))

	s.started = true
	s.logger.Info(ctx, "verification service started",
		logger.Float64("thresholdPx", s.threshold),
		logger.Bool("recompute", s.recompute),
	)
	return nil
}

// Stop releases the service. State is process-lifetime only, so there is
// nothing to flush.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}
	s.started = false
	s.logger.Info(context.Background(), "verification service stopped")
}

// Threshold returns the configured accuracy threshold in pixels.
func (s *Service) Threshold() float64 {
	return s.threshold
}

// RegisterTargets atomically replaces the expected target batch. The click
// ledger is untouched; late reports against the previous batch stay valid.
func (s *Service) RegisterTargets(ctx context.Context, batch []model.Target) error {
	s.registry.SetTargets(ctx, batch)
	metrics.UpdateTargetCount(len(batch))

	s.logger.Info(ctx, "registered targets", logger.Int("count", len(batch)))
	for _, t := range batch {
		s.logger.Debug(ctx, "target",
			logger.String("id", t.ID),
			logger.Float64("x", t.X),
			logger.Float64("y", t.Y),
			logger.Float64("w", t.W),
			logger.Float64("h", t.H),
			logger.Float64("centerX", t.CenterX),
			logger.Float64("centerY", t.CenterY),
		)
	}
	return nil
}

// Targets returns a snapshot of the currently registered batch.
func (s *Service) Targets(ctx context.Context) []model.Target {
	return s.registry.Targets(ctx)
}

// RecordClick stamps and appends one report, returning the stored entry.
// The client-supplied distance/success are what the aggregate trusts; when
// recompute is on, the server's own evaluation is compared against the claim
// and disagreements are surfaced as diagnostics.
func (s *Service) RecordClick(ctx context.Context, report model.ClickReport) (model.ClickReport, error) {
	report.ReportID = uuid.NewString()
	report.RecordedAt = time.Now().UTC()

	if s.recompute {
		distance, ok := s.evaluator.Evaluate(report.ClickX, report.ClickY, report.ExpectedX, report.ExpectedY)
		if ok != report.Success {
			s.mismatches.Add(1)
			metrics.RecordAccuracyMismatch()
			s.logger.Warn(ctx, "client accuracy claim disagrees with recomputation",
				logger.String("target", report.Target),
				logger.Float64("claimedDistance", report.Distance),
				logger.Float64("recomputedDistance", distance),
				logger.Bool("claimedSuccess", report.Success),
				logger.Bool("recomputedSuccess", ok),
			)
		}
	}

	s.ledger.Append(ctx, report)
	metrics.RecordClick(report.Success)
	metrics.UpdateLedgerSize(s.ledger.Len(ctx))

	if report.Success {
		s.logger.Info(ctx, "click pass",
			logger.String("target", report.Target),
			logger.Float64("clickX", report.ClickX),
			logger.Float64("clickY", report.ClickY),
			logger.Float64("distance", report.Distance),
		)
	} else {
		s.logger.Info(ctx, "click fail",
			logger.String("target", report.Target),
			logger.Float64("clickX", report.ClickX),
			logger.Float64("clickY", report.ClickY),
			logger.Float64("expectedX", report.ExpectedX),
			logger.Float64("expectedY", report.ExpectedY),
			logger.Float64("distance", report.Distance),
		)
	}
	return report, nil
}

// Results returns a consistent snapshot of the ledger with its aggregate.
func (s *Service) Results(ctx context.Context) Results {
	snapshot := s.ledger.Snapshot(ctx)
	return Results{
		Clicks:  snapshot,
		Summary: summary.Summarize(snapshot, s.threshold),
	}
}

// ClearResults empties the click ledger. The target batch survives.
func (s *Service) ClearResults(ctx context.Context) {
	s.ledger.Clear(ctx)
	metrics.RecordLedgerReset()
	metrics.UpdateLedgerSize(0)
	s.logger.Info(ctx, "click ledger cleared")
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.Lock()
	started := s.started
	s.mu.Unlock()

	ctx := context.Background()
	stats := map[string]interface{}{
		"started":     started,
		"thresholdPx": s.threshold,
		"recompute":   s.recompute,
	}
	if started {
		stats["ledgerSize"] = s.ledger.Len(ctx)
		stats["targetCount"] = len(s.registry.Targets(ctx))
		stats["accuracyMismatches"] = s.mismatches.Load()
	}
	return stats
}

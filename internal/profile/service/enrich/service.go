// Package enrich runs the one-time enrichment workflow for a subject: merge
// the raw data, generate the bio, project summaries and value statement, and
// persist the result. The workflow always reaches the completed state once
// started, possibly with degraded templated content.
package enrich

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"dossier/internal/profile/metrics"
	"dossier/internal/profile/models"
	"dossier/internal/profile/ports"
	"dossier/internal/profile/store/enrichment"
	"dossier/internal/profile/store/lease"
	"dossier/internal/profile/store/rawdata"
	id "dossier/pkg/domain"
	dErrors "dossier/pkg/domain-errors"
	"dossier/pkg/platform/sentinel"
)

// Merger produces the precedence-resolved profile for a subject.
type Merger interface {
	Merge(ctx context.Context, subjectID id.SubjectID) (models.MergedProfile, error)
}

// Sleeper is the backoff delay hook, injectable so retry tests run without
// real waits. It must honor context cancellation.
type Sleeper func(ctx context.Context, d time.Duration) error

func sleepWithContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// Settings tune the generation calls and the lease guard.
type Settings struct {
	MaxTokens   int
	Temperature float64
	MaxAttempts int
	LeaseTTL    time.Duration
}

func defaultSettings() Settings {
	return Settings{
		MaxTokens:   512,
		Temperature: 0.7,
		MaxAttempts: 3,
		LeaseTTL:    2 * time.Minute,
	}
}

type Service struct {
	results   enrichment.Store
	raw       rawdata.Store
	merger    Merger
	generator ports.Generator

	leases     lease.Store
	normalizer ports.SkillsNormalizer
	approvals  ports.ApprovalQueue
	publisher  ports.EventPublisher
	logger     *slog.Logger
	metrics    *metrics.Metrics
	sleep      Sleeper
	settings   Settings
	tracer     trace.Tracer
}

type Option func(*Service)

func WithLeaseStore(leases lease.Store) Option {
	return func(s *Service) { s.leases = leases }
}

func WithSkillsNormalizer(normalizer ports.SkillsNormalizer) Option {
	return func(s *Service) { s.normalizer = normalizer }
}

func WithApprovalQueue(approvals ports.ApprovalQueue) Option {
	return func(s *Service) { s.approvals = approvals }
}

func WithEventPublisher(publisher ports.EventPublisher) Option {
	return func(s *Service) { s.publisher = publisher }
}

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

func WithSleeper(sleep Sleeper) Option {
	return func(s *Service) { s.sleep = sleep }
}

func WithSettings(settings Settings) Option {
	return func(s *Service) { s.settings = settings }
}

func New(results enrichment.Store, raw rawdata.Store, merger Merger, generator ports.Generator, opts ...Option) (*Service, error) {
	if results == nil {
		return nil, fmt.Errorf("enrichment store is required")
	}
	if raw == nil {
		return nil, fmt.Errorf("raw data store is required")
	}
	if merger == nil {
		return nil, fmt.Errorf("merger is required")
	}
	if generator == nil {
		return nil, fmt.Errorf("generator is required")
	}

	svc := &Service{
		results:   results,
		raw:       raw,
		merger:    merger,
		generator: generator,
		logger:    slog.Default(),
		sleep:     sleepWithContext,
		settings:  defaultSettings(),
		tracer:    otel.Tracer("dossier/profile/enrich"),
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc, nil
}

// Enrich runs the workflow for one subject. The subject's details feed the
// fallback templates when generation is unavailable.
//
// Only three failures reach the caller: the subject was already enriched, the
// subject has no raw data at all, or the final result write failed. Every
// other internal failure degrades to templated or empty content.
func (s *Service) Enrich(ctx context.Context, subjectID id.SubjectID, details models.SubjectDetails) (models.EnrichmentResult, error) {
	ctx, span := s.tracer.Start(ctx, "enrich.Enrich")
	defer span.End()
	started := time.Now()

	if err := s.guard(ctx, subjectID); err != nil {
		return models.EnrichmentResult{}, err
	}

	taken, err := s.acquireLease(ctx, subjectID)
	if err != nil {
		return models.EnrichmentResult{}, err
	}
	if taken {
		defer s.releaseLease(ctx, subjectID)
	}

	merged := s.mergeOrEmpty(ctx, subjectID)

	result := models.EnrichmentResult{
		SubjectID:        subjectID,
		ProjectSummaries: []models.ProjectSummary{},
		Completed:        true,
		CompletedAt:      time.Now().UTC(),
	}

	if merged.HasContent() {
		result.Bio = s.generateBio(ctx, merged, details)
		result.ProjectSummaries = s.generateProjectSummaries(ctx, merged)
		result.ValueStatement = s.generateValueStatement(ctx, merged, details)
	} else {
		s.logger.InfoContext(ctx, "merged profile empty, completing enrichment with empty artifacts",
			"subject_id", subjectID.String(),
		)
	}

	if err := s.results.Save(ctx, result); err != nil {
		return models.EnrichmentResult{}, dErrors.Wrap(err, dErrors.CodeInternal, "persist enrichment result")
	}

	s.notify(ctx, subjectID, merged, result)

	s.metrics.ObserveEnrichmentCompleted(time.Since(started))
	ports.PublishEvent(ctx, s.logger, s.publisher, ports.Event{
		Action:    "enrichment_completed",
		SubjectID: subjectID,
	})

	return result, nil
}

// guard enforces the state machine entry conditions: not already completed,
// and the subject both exists and qualifies.
func (s *Service) guard(ctx context.Context, subjectID id.SubjectID) error {
	existing, err := s.results.Get(ctx, subjectID)
	switch {
	case err == nil && existing.Completed:
		return dErrors.New(dErrors.CodeAlreadyProcessed, "subject already enriched")
	case err != nil && !errors.Is(err, sentinel.ErrNotFound):
		return dErrors.Wrap(err, dErrors.CodeInternal, "check enrichment state")
	}

	qualifies, err := s.raw.HasQualifyingSource(ctx, subjectID)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "check qualifying sources")
	}
	if qualifies {
		return nil
	}

	flags, err := s.raw.GetLegacyFlags(ctx, subjectID)
	if err != nil && !errors.Is(err, sentinel.ErrNotFound) {
		return dErrors.Wrap(err, dErrors.CodeInternal, "check legacy flags")
	}
	if flags.ProviderA && flags.ProviderB {
		return nil
	}

	hasAny, err := s.raw.HasAny(ctx, subjectID)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "check raw records")
	}
	if !hasAny {
		return dErrors.New(dErrors.CodeNotFound, "subject not found")
	}
	return dErrors.New(dErrors.CodeValidation, "subject has no qualifying raw data source")
}

// acquireLease takes the per-subject lease when a lease store is configured.
// A held lease means a concurrent invocation is mid-workflow, which is
// surfaced as a conflict. An infrastructure failure on the lease store itself
// degrades to the unguarded path; the completed flag still catches most
// double runs. Reports whether a lease was actually taken.
func (s *Service) acquireLease(ctx context.Context, subjectID id.SubjectID) (bool, error) {
	if s.leases == nil {
		return false, nil
	}
	err := s.leases.Acquire(ctx, subjectID, s.settings.LeaseTTL)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, sentinel.ErrLeaseHeld) {
		return false, dErrors.New(dErrors.CodeConflict, "enrichment already in progress")
	}
	s.logger.WarnContext(ctx, "enrichment lease unavailable, proceeding unguarded",
		"subject_id", subjectID.String(),
		"error", err,
	)
	return false, nil
}

func (s *Service) releaseLease(ctx context.Context, subjectID id.SubjectID) {
	if err := s.leases.Release(ctx, subjectID); err != nil {
		s.logger.WarnContext(ctx, "failed to release enrichment lease",
			"subject_id", subjectID.String(),
			"error", err,
		)
	}
}

// mergeOrEmpty degrades a merge failure to an all-empty profile so it never
// blocks enrichment.
func (s *Service) mergeOrEmpty(ctx context.Context, subjectID id.SubjectID) models.MergedProfile {
	merged, err := s.merger.Merge(ctx, subjectID)
	if err != nil {
		s.logger.WarnContext(ctx, "merge failed, enriching with empty profile",
			"subject_id", subjectID.String(),
			"error", err,
		)
		return models.MergedProfile{SubjectID: subjectID, Buckets: models.NewBuckets()}
	}
	return merged
}

// notify fires the two post-completion collaborator calls. Both are
// best-effort: the result is already durable, so failures are logged and
// counted, never propagated.
func (s *Service) notify(ctx context.Context, subjectID id.SubjectID, merged models.MergedProfile, result models.EnrichmentResult) {
	if s.normalizer != nil {
		if err := s.normalizer.Normalize(ctx, subjectID, merged); err != nil {
			s.notificationFailed(ctx, subjectID, "skills_normalization", err)
		}
	}
	if s.approvals != nil {
		if _, err := s.approvals.CreateEntry(ctx, subjectID, result.CompletedAt); err != nil {
			s.notificationFailed(ctx, subjectID, "approval_queue", err)
		}
	}
}

func (s *Service) notificationFailed(ctx context.Context, subjectID id.SubjectID, target string, err error) {
	s.metrics.IncrementNotificationFailures(target)
	s.logger.WarnContext(ctx, "post-enrichment notification failed",
		"subject_id", subjectID.String(),
		"target", target,
		"error", err,
	)
	ports.PublishEvent(ctx, s.logger, s.publisher, ports.Event{
		Action:    "enrichment_notification_failed",
		SubjectID: subjectID,
	})
}

// Package ports defines shared interfaces for the profile module.
// Interfaces live here when consumed by multiple services to avoid
// duplication; implementations stay with their infrastructure.
package ports

//go:generate mockgen -source=ports.go -destination=mocks/mocks.go -package=mocks Generator,SkillsNormalizer,ApprovalQueue,EventPublisher

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"dossier/internal/profile/models"
	id "dossier/pkg/domain"
)

// GenerationErrorCode classifies text-generation failures structurally so the
// retry policy never has to match on message substrings.
type GenerationErrorCode string

const (
	// GenerationRateLimited marks quota/rate-limit rejections; the only
	// retryable class.
	GenerationRateLimited GenerationErrorCode = "rate_limited"
	// GenerationTimeout marks a timed-out call; treated like a rate limit
	// by the retry policy.
	GenerationTimeout GenerationErrorCode = "timeout"
	// GenerationFailed marks every other failure; fail fast to fallback.
	GenerationFailed GenerationErrorCode = "failed"
)

// GenerationError is the structured failure surface of the text-generation
// service client.
type GenerationError struct {
	Code    GenerationErrorCode
	Message string
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("generation %s: %s", e.Code, e.Message)
}

// Retryable reports whether the failure class warrants backoff and retry.
func (e *GenerationError) Retryable() bool {
	return e.Code == GenerationRateLimited || e.Code == GenerationTimeout
}

// Generator is the external text-generation capability. Errors should be
// *GenerationError where the failure class is known; anything else is
// treated as non-retryable.
type Generator interface {
	Complete(ctx context.Context, prompt string, maxTokens int, temperature float64) (string, error)
}

// SkillsNormalizer is the downstream collaborator that turns merged raw data
// into normalized competencies. Called best-effort after enrichment.
type SkillsNormalizer interface {
	Normalize(ctx context.Context, subjectID id.SubjectID, merged models.MergedProfile) error
}

// ApprovalQueue creates a review entry for HR after enrichment completes.
type ApprovalQueue interface {
	CreateEntry(ctx context.Context, subjectID id.SubjectID, enrichedAt time.Time) (id.ApprovalID, error)
}

// Event is one profile lifecycle event published for observability and
// downstream consumers.
type Event struct {
	Action    string       `json:"action"`
	SubjectID id.SubjectID `json:"subject_id"`
	Source    id.Source    `json:"source,omitempty"`
	Timestamp time.Time    `json:"timestamp"`
}

// EventPublisher emits profile lifecycle events. Implementations must be
// safe to call with best-effort semantics; failures are for logs only.
type EventPublisher interface {
	Emit(ctx context.Context, event Event) error
}

// PublishEvent is the shared best-effort emission helper: it stamps the
// event, logs it, and swallows publisher failures after logging them.
func PublishEvent(ctx context.Context, logger *slog.Logger, publisher EventPublisher, event Event) {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	if logger != nil {
		logger.InfoContext(ctx, event.Action,
			"subject_id", event.SubjectID.String(),
			"log_type", "event",
		)
	}
	if publisher == nil {
		return
	}
	if err := publisher.Emit(ctx, event); err != nil && logger != nil {
		logger.WarnContext(ctx, "failed to publish event",
			"action", event.Action,
			"subject_id", event.SubjectID.String(),
			"error", err,
		)
	}
}

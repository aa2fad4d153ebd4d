// Package notify holds the development implementations of the two
// post-enrichment collaborators. The real skills-normalization service and
// approval queue are external systems; these stand-ins log and emit events so
// the workflow can be wired end to end without them.
package notify

import (
	"context"
	"log/slog"
	"time"

	"dossier/internal/profile/models"
	"dossier/internal/profile/ports"
	id "dossier/pkg/domain"
)

// LoggingNormalizer records what would be sent to the skills-normalization
// service.
type LoggingNormalizer struct {
	logger *slog.Logger
}

func NewLoggingNormalizer(logger *slog.Logger) *LoggingNormalizer {
	if logger == nil {
		logger = slog.Default()
	}
	return &LoggingNormalizer{logger: logger}
}

func (n *LoggingNormalizer) Normalize(ctx context.Context, subjectID id.SubjectID, merged models.MergedProfile) error {
	n.logger.InfoContext(ctx, "skills normalization requested",
		"subject_id", subjectID.String(),
		"skills", len(merged.Skills),
	)
	return nil
}

// EventApprovalQueue emits an approval request as a lifecycle event for an
// external consumer to pick up, and mints the approval ID locally.
type EventApprovalQueue struct {
	logger    *slog.Logger
	publisher ports.EventPublisher
}

func NewEventApprovalQueue(logger *slog.Logger, publisher ports.EventPublisher) *EventApprovalQueue {
	if logger == nil {
		logger = slog.Default()
	}
	return &EventApprovalQueue{logger: logger, publisher: publisher}
}

func (q *EventApprovalQueue) CreateEntry(ctx context.Context, subjectID id.SubjectID, enrichedAt time.Time) (id.ApprovalID, error) {
	approvalID := id.NewApprovalID()
	ports.PublishEvent(ctx, q.logger, q.publisher, ports.Event{
		Action:    "approval_requested",
		SubjectID: subjectID,
		Timestamp: enrichedAt,
	})
	q.logger.InfoContext(ctx, "approval queue entry created",
		"subject_id", subjectID.String(),
		"approval_id", approvalID.String(),
	)
	return approvalID, nil
}

// Package enrichment persists the generated artifacts per subject, keyed by
// subject ID. The Completed flag on the stored result is the workflow's
// idempotency guard.
package enrichment

import (
	"context"

	"dossier/internal/profile/models"
	id "dossier/pkg/domain"
)

type Store interface {
	Save(ctx context.Context, result models.EnrichmentResult) error
	Get(ctx context.Context, subjectID id.SubjectID) (models.EnrichmentResult, error)
}

// Package rawdata persists the per-source structured records for a subject.
// Conflict resolution is "replace whole record": field-level merging across
// sources is the merge service's job, never the store's.
package rawdata

import (
	"context"

	"dossier/internal/profile/models"
	id "dossier/pkg/domain"
)

// Store is the keyed persistence contract for raw profile records. Records
// are unique per (subject, source); Upsert replaces Data wholesale and bumps
// UpdatedAt.
type Store interface {
	Upsert(ctx context.Context, subjectID id.SubjectID, source id.Source, data models.Buckets) (models.RawDataRecord, error)
	Get(ctx context.Context, subjectID id.SubjectID, source id.Source) (models.RawDataRecord, error)
	ListBySubject(ctx context.Context, subjectID id.SubjectID) ([]models.RawDataRecord, error)
	HasAny(ctx context.Context, subjectID id.SubjectID) (bool, error)

	// HasQualifyingSource reports whether the subject can skip manual entry:
	// a document or provider B record exists, or the legacy single-column
	// indicator is set. Manual or provider A data alone does not qualify.
	HasQualifyingSource(ctx context.Context, subjectID id.SubjectID) (bool, error)

	SetLegacyFlags(ctx context.Context, subjectID id.SubjectID, flags models.LegacyFlags) error
	GetLegacyFlags(ctx context.Context, subjectID id.SubjectID) (models.LegacyFlags, error)
}

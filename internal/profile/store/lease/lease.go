// Package lease provides the per-subject enrichment lease. The completed
// flag alone is a check-then-set guard with no transactional guarantee, so a
// short-lived lease is taken before entering the generation workflow to keep
// two concurrent invocations from double-running it.
package lease

import (
	"context"
	"time"

	id "dossier/pkg/domain"
)

// Store grants at most one live lease per subject.
type Store interface {
	// Acquire takes the subject's lease for ttl. Returns
	// sentinel.ErrLeaseHeld when another invocation holds it.
	Acquire(ctx context.Context, subjectID id.SubjectID, ttl time.Duration) error

	// Release frees the lease early; expiry covers crashed holders.
	Release(ctx context.Context, subjectID id.SubjectID) error
}

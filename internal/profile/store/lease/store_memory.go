package lease

import (
	"context"
	"sync"
	"time"

	id "dossier/pkg/domain"
	"dossier/pkg/platform/sentinel"
)

// InMemoryStore guards leases within a single process. Used in tests and as
// the fallback when Redis is not configured.
type InMemoryStore struct {
	mu     sync.Mutex
	leases map[id.SubjectID]time.Time
}

func NewMemory() *InMemoryStore {
	return &InMemoryStore{leases: make(map[id.SubjectID]time.Time)}
}

func (s *InMemoryStore) Acquire(_ context.Context, subjectID id.SubjectID, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if expiry, held := s.leases[subjectID]; held && time.Now().Before(expiry) {
		return sentinel.ErrLeaseHeld
	}
	s.leases[subjectID] = time.Now().Add(ttl)
	return nil
}

func (s *InMemoryStore) Release(_ context.Context, subjectID id.SubjectID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.leases, subjectID)
	return nil
}

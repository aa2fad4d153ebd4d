package enrichment

import (
	"context"
	"sync"

	"dossier/internal/profile/models"
	id "dossier/pkg/domain"
	"dossier/pkg/platform/sentinel"
)

// InMemoryStore keeps enrichment results in process memory for tests and
// development wiring.
type InMemoryStore struct {
	mu      sync.RWMutex
	results map[id.SubjectID]models.EnrichmentResult
}

func NewMemory() *InMemoryStore {
	return &InMemoryStore{results: make(map[id.SubjectID]models.EnrichmentResult)}
}

func (s *InMemoryStore) Save(_ context.Context, result models.EnrichmentResult) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.results[result.SubjectID] = result
	return nil
}

func (s *InMemoryStore) Get(_ context.Context, subjectID id.SubjectID) (models.EnrichmentResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if result, ok := s.results[subjectID]; ok {
		return result, nil
	}
	return models.EnrichmentResult{}, sentinel.ErrNotFound
}

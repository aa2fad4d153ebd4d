package rawdata

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"dossier/internal/profile/models"
	id "dossier/pkg/domain"
	"dossier/pkg/platform/sentinel"
)

type recordKey struct {
	subject id.SubjectID
	source  id.Source
}

// InMemoryStore keeps raw records in process memory. It favors clarity over
// performance and backs unit tests and development wiring.
type InMemoryStore struct {
	mu      sync.RWMutex
	records map[recordKey]models.RawDataRecord
	flags   map[id.SubjectID]models.LegacyFlags
}

func NewMemory() *InMemoryStore {
	return &InMemoryStore{
		records: make(map[recordKey]models.RawDataRecord),
		flags:   make(map[id.SubjectID]models.LegacyFlags),
	}
}

func (s *InMemoryStore) Upsert(_ context.Context, subjectID id.SubjectID, source id.Source, data models.Buckets) (models.RawDataRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data.Normalize()
	now := time.Now()
	key := recordKey{subject: subjectID, source: source}

	record, exists := s.records[key]
	if !exists {
		record = models.RawDataRecord{
			ID:        uuid.New(),
			SubjectID: subjectID,
			Source:    source,
			CreatedAt: now,
		}
	}
	record.Data = data
	record.UpdatedAt = now
	s.records[key] = record
	return record, nil
}

func (s *InMemoryStore) Get(_ context.Context, subjectID id.SubjectID, source id.Source) (models.RawDataRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if record, ok := s.records[recordKey{subject: subjectID, source: source}]; ok {
		return record, nil
	}
	return models.RawDataRecord{}, sentinel.ErrNotFound
}

func (s *InMemoryStore) ListBySubject(_ context.Context, subjectID id.SubjectID) ([]models.RawDataRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	// Fixed source order keeps listings deterministic for callers and tests.
	order := []id.Source{id.SourceDocument, id.SourceManual, id.SourceProviderA, id.SourceProviderB, id.SourceMerged}
	records := make([]models.RawDataRecord, 0, len(order))
	for _, source := range order {
		if record, ok := s.records[recordKey{subject: subjectID, source: source}]; ok {
			records = append(records, record)
		}
	}
	return records, nil
}

func (s *InMemoryStore) HasAny(_ context.Context, subjectID id.SubjectID) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for key := range s.records {
		if key.subject == subjectID {
			return true, nil
		}
	}
	return false, nil
}

func (s *InMemoryStore) HasQualifyingSource(ctx context.Context, subjectID id.SubjectID) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for key := range s.records {
		if key.subject == subjectID && key.source.Qualifies() {
			return true, nil
		}
	}
	return s.flags[subjectID].Indicator, nil
}

func (s *InMemoryStore) SetLegacyFlags(_ context.Context, subjectID id.SubjectID, flags models.LegacyFlags) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.flags[subjectID] = flags
	return nil
}

func (s *InMemoryStore) GetLegacyFlags(_ context.Context, subjectID id.SubjectID) (models.LegacyFlags, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.flags[subjectID], nil
}

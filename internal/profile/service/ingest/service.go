// Package ingest writes per-source raw records for a subject: classified
// document uploads, the manual entry form, and the two provider callbacks.
package ingest

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"dossier/internal/classify"
	"dossier/internal/extract"
	"dossier/internal/profile/metrics"
	"dossier/internal/profile/models"
	"dossier/internal/profile/ports"
	"dossier/internal/profile/store/rawdata"
	id "dossier/pkg/domain"
	dErrors "dossier/pkg/domain-errors"
	pstrings "dossier/pkg/platform/strings"
)

type Service struct {
	store     rawdata.Store
	extractor extract.Extractor
	logger    *slog.Logger
	publisher ports.EventPublisher
	metrics   *metrics.Metrics
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

func WithEventPublisher(publisher ports.EventPublisher) Option {
	return func(s *Service) { s.publisher = publisher }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

func New(store rawdata.Store, extractor extract.Extractor, opts ...Option) (*Service, error) {
	if store == nil {
		return nil, fmt.Errorf("raw data store is required")
	}
	if extractor == nil {
		return nil, fmt.Errorf("extractor is required")
	}
	svc := &Service{
		store:     store,
		extractor: extractor,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc, nil
}

// IngestDocument extracts text from an uploaded document, classifies it into
// buckets and stores the result under the document source. Extraction
// failures are fatal to this call only; classification never fails, it
// degrades through its fallback tiers.
func (s *Service) IngestDocument(ctx context.Context, subjectID id.SubjectID, raw []byte) (models.RawDataRecord, error) {
	text, err := s.extractor.Extract(ctx, raw)
	if err != nil {
		return models.RawDataRecord{}, dErrors.Wrap(err, dErrors.CodeValidation, "extract document text")
	}

	buckets, tier := classify.ClassifyWithTier(text)
	s.metrics.IncrementDocumentsIngested(string(tier))
	s.logger.InfoContext(ctx, "document classified",
		"subject_id", subjectID.String(),
		"tier", string(tier),
	)

	return s.persist(ctx, subjectID, id.SourceDocument, buckets)
}

// ManualInput is the manual entry form. Every field is optional, but at least
// one must be present when the subject has no qualifying raw data source.
type ManualInput struct {
	WorkExperience string `json:"work_experience"`
	Skills         string `json:"skills"`
	Education      string `json:"education"`
}

func (in ManualInput) isEmpty() bool {
	return strings.TrimSpace(in.WorkExperience) == "" &&
		strings.TrimSpace(in.Skills) == "" &&
		strings.TrimSpace(in.Education) == ""
}

func (in ManualInput) buckets() models.Buckets {
	buckets := models.NewBuckets()
	if v := strings.TrimSpace(in.WorkExperience); v != "" {
		buckets.WorkExperience = []string{v}
	}
	if v := strings.TrimSpace(in.Skills); v != "" {
		// Stored as entered; the merger splits the comma list.
		buckets.Skills = []string{v}
	}
	if v := strings.TrimSpace(in.Education); v != "" {
		buckets.Education = []string{v}
	}
	return buckets
}

func (s *Service) IngestManual(ctx context.Context, subjectID id.SubjectID, input ManualInput) (models.RawDataRecord, error) {
	if input.isEmpty() {
		qualifies, err := s.store.HasQualifyingSource(ctx, subjectID)
		if err != nil {
			return models.RawDataRecord{}, dErrors.Wrap(err, dErrors.CodeInternal, "check qualifying sources")
		}
		if !qualifies {
			return models.RawDataRecord{}, dErrors.New(dErrors.CodeValidation, "at least one manual field is required")
		}
	}
	return s.persist(ctx, subjectID, id.SourceManual, input.buckets())
}

// ProviderAPayload is the professional-network callback body: the raw profile
// plus the list fields the provider already structures for us.
type ProviderAPayload struct {
	Profile    map[string]any `json:"profile"`
	Positions  []string       `json:"positions"`
	Educations []string       `json:"educations"`
	Skills     []string       `json:"skills"`
	Languages  []string       `json:"languages"`
}

func (s *Service) IngestProviderA(ctx context.Context, subjectID id.SubjectID, payload ProviderAPayload) (models.RawDataRecord, error) {
	buckets := models.NewBuckets()
	buckets.WorkExperience = append(buckets.WorkExperience, payload.Positions...)
	buckets.Education = append(buckets.Education, payload.Educations...)
	buckets.Skills = append(buckets.Skills, payload.Skills...)
	buckets.Languages = append(buckets.Languages, payload.Languages...)
	buckets.ProviderAProfile = payload.Profile
	return s.persist(ctx, subjectID, id.SourceProviderA, buckets)
}

// Repository is one code repository reported by the code-hosting provider.
type Repository struct {
	Name      string   `json:"name"`
	URL       string   `json:"url"`
	Languages []string `json:"languages"`
}

// ProviderBPayload is the code-hosting callback body.
type ProviderBPayload struct {
	Profile      map[string]any `json:"profile"`
	Repositories []Repository   `json:"repositories"`
}

// IngestProviderB derives the portfolio from the repository list: one project
// per repository, and the union of repository language tags as skills.
func (s *Service) IngestProviderB(ctx context.Context, subjectID id.SubjectID, payload ProviderBPayload) (models.RawDataRecord, error) {
	buckets := models.NewBuckets()
	var tags []string
	for _, repo := range payload.Repositories {
		buckets.Projects = append(buckets.Projects, models.Project{Name: repo.Name, URL: repo.URL})
		tags = append(tags, repo.Languages...)
	}
	buckets.Skills = append(buckets.Skills, pstrings.DedupeAndTrim(tags)...)
	buckets.ProviderBProfile = payload.Profile
	return s.persist(ctx, subjectID, id.SourceProviderB, buckets)
}

// SetLegacyFlags records the pre-migration readiness markers for a subject.
func (s *Service) SetLegacyFlags(ctx context.Context, subjectID id.SubjectID, flags models.LegacyFlags) error {
	if err := s.store.SetLegacyFlags(ctx, subjectID, flags); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "set legacy flags")
	}
	return nil
}

func (s *Service) persist(ctx context.Context, subjectID id.SubjectID, source id.Source, buckets models.Buckets) (models.RawDataRecord, error) {
	record, err := s.store.Upsert(ctx, subjectID, source, buckets)
	if err != nil {
		return models.RawDataRecord{}, dErrors.Wrap(err, dErrors.CodeInternal, "persist raw record")
	}

	ports.PublishEvent(ctx, s.logger, s.publisher, ports.Event{
		Action:    "raw_data_ingested",
		SubjectID: subjectID,
		Source:    source,
	})
	return record, nil
}

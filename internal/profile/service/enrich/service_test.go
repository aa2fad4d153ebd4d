package enrich

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"dossier/internal/profile/models"
	"dossier/internal/profile/ports"
	"dossier/internal/profile/ports/mocks"
	"dossier/internal/profile/service/merge"
	"dossier/internal/profile/store/enrichment"
	"dossier/internal/profile/store/lease"
	"dossier/internal/profile/store/rawdata"
	id "dossier/pkg/domain"
	dErrors "dossier/pkg/domain-errors"
	"dossier/pkg/platform/sentinel"
)

type EnrichServiceSuite struct {
	suite.Suite
	ctx       context.Context
	ctrl      *gomock.Controller
	raw       *rawdata.InMemoryStore
	results   *enrichment.InMemoryStore
	generator *mocks.MockGenerator
	delays    []time.Duration
	service   *Service
	subject   id.SubjectID
	details   models.SubjectDetails
}

func TestEnrichServiceSuite(t *testing.T) {
	suite.Run(t, new(EnrichServiceSuite))
}

func (s *EnrichServiceSuite) SetupTest() {
	s.ctx = context.Background()
	s.ctrl = gomock.NewController(s.T())
	s.raw = rawdata.NewMemory()
	s.results = enrichment.NewMemory()
	s.generator = mocks.NewMockGenerator(s.ctrl)
	s.delays = nil
	s.subject = id.NewSubjectID()
	s.details = models.SubjectDetails{Name: "Dana Levi", Role: "Backend Engineer", Company: "Initech"}

	merger, err := merge.New(s.raw)
	s.Require().NoError(err)

	s.service = s.newService(merger)
}

func (s *EnrichServiceSuite) newService(merger Merger, opts ...Option) *Service {
	opts = append([]Option{
		WithSleeper(func(_ context.Context, d time.Duration) error {
			s.delays = append(s.delays, d)
			return nil
		}),
	}, opts...)
	service, err := New(s.results, s.raw, merger, s.generator, opts...)
	s.Require().NoError(err)
	return service
}

func (s *EnrichServiceSuite) seedDocument() {
	_, err := s.raw.Upsert(s.ctx, s.subject, id.SourceDocument, models.Buckets{
		Skills:         []string{"Go", "PostgreSQL"},
		WorkExperience: []string{"Backend Engineer at Initech"},
	})
	s.Require().NoError(err)
}

func (s *EnrichServiceSuite) TestGeneratesAllArtifacts() {
	s.seedDocument()
	gomock.InOrder(
		s.generator.EXPECT().Complete(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return("generated bio", nil),
		s.generator.EXPECT().Complete(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return("generated value statement", nil),
	)

	result, err := s.service.Enrich(s.ctx, s.subject, s.details)
	s.Require().NoError(err)

	s.True(result.Completed)
	s.Equal("generated bio", result.Bio)
	s.Equal("generated value statement", result.ValueStatement)
	s.Empty(result.ProjectSummaries)
	s.False(result.CompletedAt.IsZero())

	saved, err := s.results.Get(s.ctx, s.subject)
	s.Require().NoError(err)
	s.Equal(result, saved)
}

func (s *EnrichServiceSuite) TestRateLimitRetriesWithBackoffThenSucceeds() {
	s.seedDocument()
	rateLimited := &ports.GenerationError{Code: ports.GenerationRateLimited, Message: "quota exceeded"}
	gomock.InOrder(
		s.generator.EXPECT().Complete(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return("", rateLimited),
		s.generator.EXPECT().Complete(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return("", rateLimited),
		s.generator.EXPECT().Complete(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return("generated bio", nil),
		s.generator.EXPECT().Complete(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return("generated value statement", nil),
	)

	result, err := s.service.Enrich(s.ctx, s.subject, s.details)
	s.Require().NoError(err)

	s.Equal("generated bio", result.Bio)
	s.Equal([]time.Duration{2 * time.Second, 4 * time.Second}, s.delays)
}

func (s *EnrichServiceSuite) TestRateLimitExhaustionFallsBack() {
	s.seedDocument()
	rateLimited := &ports.GenerationError{Code: ports.GenerationRateLimited, Message: "quota exceeded"}
	gomock.InOrder(
		s.generator.EXPECT().Complete(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return("", rateLimited).Times(3),
		s.generator.EXPECT().Complete(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return("generated value statement", nil),
	)

	result, err := s.service.Enrich(s.ctx, s.subject, s.details)
	s.Require().NoError(err)

	s.Equal("Dana Levi is a Backend Engineer at Initech.", result.Bio)
	s.Equal("generated value statement", result.ValueStatement)
	s.Len(s.delays, 2)
}

func (s *EnrichServiceSuite) TestNonRetryableFailureFallsBackImmediately() {
	s.seedDocument()
	failed := &ports.GenerationError{Code: ports.GenerationFailed, Message: "model error"}
	gomock.InOrder(
		s.generator.EXPECT().Complete(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return("", failed),
		s.generator.EXPECT().Complete(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return("", errors.New("connection reset")),
	)

	result, err := s.service.Enrich(s.ctx, s.subject, s.details)
	s.Require().NoError(err)

	s.Empty(s.delays)
	s.Equal("Dana Levi is a Backend Engineer at Initech.", result.Bio)
	s.Equal("Dana Levi brings hands-on experience as a Backend Engineer to the team.", result.ValueStatement)
	s.True(result.Completed)
}

func (s *EnrichServiceSuite) TestProjectSummariesPerProject() {
	s.seedDocument()
	_, err := s.raw.Upsert(s.ctx, s.subject, id.SourceProviderB, models.Buckets{
		Projects: []models.Project{
			{Name: "weather-cli", URL: "https://example.com/weather-cli"},
			{Name: "dossier"},
		},
	})
	s.Require().NoError(err)

	gomock.InOrder(
		s.generator.EXPECT().Complete(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return("generated bio", nil),
		s.generator.EXPECT().Complete(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return("summary one", nil),
		s.generator.EXPECT().Complete(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return("summary two", nil),
		s.generator.EXPECT().Complete(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return("generated value statement", nil),
	)

	result, err := s.service.Enrich(s.ctx, s.subject, s.details)
	s.Require().NoError(err)

	s.Equal([]models.ProjectSummary{
		{ProjectName: "weather-cli", SourceURL: "https://example.com/weather-cli", Summary: "summary one"},
		{ProjectName: "dossier", Summary: "summary two"},
	}, result.ProjectSummaries)
}

func (s *EnrichServiceSuite) TestProjectSummaryFailureFallsBackToEmptyList() {
	s.seedDocument()
	_, err := s.raw.Upsert(s.ctx, s.subject, id.SourceProviderB, models.Buckets{
		Projects: []models.Project{{Name: "weather-cli"}, {Name: "dossier"}},
	})
	s.Require().NoError(err)

	failed := &ports.GenerationError{Code: ports.GenerationFailed, Message: "model error"}
	gomock.InOrder(
		s.generator.EXPECT().Complete(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return("generated bio", nil),
		s.generator.EXPECT().Complete(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return("", failed),
		s.generator.EXPECT().Complete(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return("generated value statement", nil),
	)

	result, err := s.service.Enrich(s.ctx, s.subject, s.details)
	s.Require().NoError(err)

	s.Empty(result.ProjectSummaries)
	s.NotNil(result.ProjectSummaries)
	s.True(result.Completed)
}

func (s *EnrichServiceSuite) TestAlreadyProcessedOnSecondRun() {
	s.seedDocument()
	gomock.InOrder(
		s.generator.EXPECT().Complete(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return("generated bio", nil),
		s.generator.EXPECT().Complete(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return("generated value statement", nil),
	)

	_, err := s.service.Enrich(s.ctx, s.subject, s.details)
	s.Require().NoError(err)

	_, err = s.service.Enrich(s.ctx, s.subject, s.details)
	s.True(dErrors.HasCode(err, dErrors.CodeAlreadyProcessed))
}

func (s *EnrichServiceSuite) TestEmptyMergeShortCircuits() {
	// Legacy indicator qualifies the subject without any per-source records,
	// so the merged profile is entirely empty.
	s.Require().NoError(s.raw.SetLegacyFlags(s.ctx, s.subject, models.LegacyFlags{Indicator: true}))

	result, err := s.service.Enrich(s.ctx, s.subject, s.details)
	s.Require().NoError(err)

	s.True(result.Completed)
	s.Empty(result.Bio)
	s.Empty(result.ValueStatement)
	s.Empty(result.ProjectSummaries)

	saved, err := s.results.Get(s.ctx, s.subject)
	s.Require().NoError(err)
	s.True(saved.Completed)
}

func (s *EnrichServiceSuite) TestBothLegacyProviderFlagsQualify() {
	s.Require().NoError(s.raw.SetLegacyFlags(s.ctx, s.subject, models.LegacyFlags{ProviderA: true, ProviderB: true}))

	result, err := s.service.Enrich(s.ctx, s.subject, s.details)
	s.Require().NoError(err)
	s.True(result.Completed)
}

func (s *EnrichServiceSuite) TestUnknownSubjectIsNotFound() {
	_, err := s.service.Enrich(s.ctx, s.subject, s.details)
	s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
}

func (s *EnrichServiceSuite) TestManualOnlySubjectIsNotReady() {
	_, err := s.raw.Upsert(s.ctx, s.subject, id.SourceManual, models.Buckets{Skills: []string{"Go"}})
	s.Require().NoError(err)

	_, err = s.service.Enrich(s.ctx, s.subject, s.details)
	s.True(dErrors.HasCode(err, dErrors.CodeValidation))
}

func (s *EnrichServiceSuite) TestMergeFailureDegradesToEmptyProfile() {
	s.seedDocument()
	merger := failingMerger{}
	service := s.newService(merger)

	result, err := service.Enrich(s.ctx, s.subject, s.details)
	s.Require().NoError(err)

	// Degraded to the empty path: completed with no generation calls.
	s.True(result.Completed)
	s.Empty(result.Bio)
}

func (s *EnrichServiceSuite) TestHeldLeaseIsConflict() {
	s.seedDocument()
	leases := lease.NewMemory()
	s.Require().NoError(leases.Acquire(s.ctx, s.subject, time.Minute))
	service := s.newService(mustMerger(s, s.raw), WithLeaseStore(leases))

	_, err := service.Enrich(s.ctx, s.subject, s.details)
	s.True(dErrors.HasCode(err, dErrors.CodeConflict))
}

func (s *EnrichServiceSuite) TestLeaseReleasedAfterCompletion() {
	s.seedDocument()
	leases := lease.NewMemory()
	service := s.newService(mustMerger(s, s.raw), WithLeaseStore(leases))

	gomock.InOrder(
		s.generator.EXPECT().Complete(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return("generated bio", nil),
		s.generator.EXPECT().Complete(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return("generated value statement", nil),
	)

	_, err := service.Enrich(s.ctx, s.subject, s.details)
	s.Require().NoError(err)

	s.NoError(leases.Acquire(s.ctx, s.subject, time.Minute))
}

func (s *EnrichServiceSuite) TestNotificationFailuresAreSwallowed() {
	s.seedDocument()
	normalizer := mocks.NewMockSkillsNormalizer(s.ctrl)
	approvals := mocks.NewMockApprovalQueue(s.ctrl)
	normalizer.EXPECT().Normalize(gomock.Any(), s.subject, gomock.Any()).Return(errors.New("normalizer down"))
	approvals.EXPECT().CreateEntry(gomock.Any(), s.subject, gomock.Any()).Return(id.ApprovalID{}, errors.New("queue down"))

	service := s.newService(mustMerger(s, s.raw),
		WithSkillsNormalizer(normalizer),
		WithApprovalQueue(approvals),
	)
	gomock.InOrder(
		s.generator.EXPECT().Complete(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return("generated bio", nil),
		s.generator.EXPECT().Complete(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return("generated value statement", nil),
	)

	result, err := service.Enrich(s.ctx, s.subject, s.details)
	s.Require().NoError(err)
	s.True(result.Completed)

	saved, err := s.results.Get(s.ctx, s.subject)
	s.Require().NoError(err)
	s.True(saved.Completed)
}

func (s *EnrichServiceSuite) TestPersistFailureIsFatal() {
	s.seedDocument()
	service, err := New(failingResults{}, s.raw, mustMerger(s, s.raw), s.generator,
		WithSleeper(func(context.Context, time.Duration) error { return nil }),
	)
	s.Require().NoError(err)

	gomock.InOrder(
		s.generator.EXPECT().Complete(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return("generated bio", nil),
		s.generator.EXPECT().Complete(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return("generated value statement", nil),
	)

	_, err = service.Enrich(s.ctx, s.subject, s.details)
	s.True(dErrors.HasCode(err, dErrors.CodeInternal))
}

func mustMerger(s *EnrichServiceSuite, raw rawdata.Store) Merger {
	merger, err := merge.New(raw)
	s.Require().NoError(err)
	return merger
}

type failingMerger struct{}

func (failingMerger) Merge(context.Context, id.SubjectID) (models.MergedProfile, error) {
	return models.MergedProfile{}, errors.New("merge store down")
}

type failingResults struct{}

func (failingResults) Save(context.Context, models.EnrichmentResult) error {
	return errors.New("write failed")
}

func (failingResults) Get(context.Context, id.SubjectID) (models.EnrichmentResult, error) {
	return models.EnrichmentResult{}, sentinel.ErrNotFound
}

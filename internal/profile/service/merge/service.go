// Package merge combines all stored per-source records for a subject into
// one unified profile view and memoizes the result under the merged source
// key.
package merge

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"golang.org/x/sync/singleflight"

	"dossier/internal/profile/models"
	"dossier/internal/profile/ports"
	"dossier/internal/profile/store/rawdata"
	id "dossier/pkg/domain"
	dErrors "dossier/pkg/domain-errors"
	"dossier/pkg/platform/sentinel"
)

type Service struct {
	store     rawdata.Store
	logger    *slog.Logger
	publisher ports.EventPublisher
	group     singleflight.Group
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithEventPublisher(publisher ports.EventPublisher) Option {
	return func(s *Service) {
		s.publisher = publisher
	}
}

func New(store rawdata.Store, opts ...Option) (*Service, error) {
	if store == nil {
		return nil, fmt.Errorf("raw data store is required")
	}
	svc := &Service{store: store}
	for _, opt := range opts {
		opt(svc)
	}
	return svc, nil
}

// Merge builds the precedence-resolved profile for a subject and persists it
// under the merged source key. The result is deterministic for unchanged raw
// records, and an entirely empty profile is a valid output, persisted like
// any other so downstream code can proceed with degraded content.
//
// Concurrent merges for the same subject collapse into a single execution.
func (s *Service) Merge(ctx context.Context, subjectID id.SubjectID) (models.MergedProfile, error) {
	result, err, _ := s.group.Do(subjectID.String(), func() (any, error) {
		return s.merge(ctx, subjectID)
	})
	if err != nil {
		return models.MergedProfile{}, err
	}
	return result.(models.MergedProfile), nil
}

func (s *Service) merge(ctx context.Context, subjectID id.SubjectID) (models.MergedProfile, error) {
	set, err := s.fetchSources(ctx, subjectID)
	if err != nil {
		return models.MergedProfile{}, err
	}

	merged := models.MergedProfile{SubjectID: subjectID, Buckets: models.NewBuckets()}
	merged.WorkExperience = mergeField(set, "work_experience")
	merged.Education = mergeField(set, "education")
	merged.Volunteer = mergeField(set, "volunteer")
	merged.Military = mergeField(set, "military")
	merged.Skills = mergeField(set, "skills")
	merged.Languages = mergeField(set, "languages")
	merged.Projects = mergeProjects(set)
	merged.Courses = mergeCourses(set)

	// Provider payloads pass through whole: last write per source wins at
	// the store, so whatever is present is current.
	merged.ProviderAProfile = set[id.SourceProviderA].ProviderAProfile
	merged.ProviderBProfile = set[id.SourceProviderB].ProviderBProfile

	if _, err := s.store.Upsert(ctx, subjectID, id.SourceMerged, merged.Buckets); err != nil {
		return models.MergedProfile{}, dErrors.Wrap(err, dErrors.CodeInternal, "persist merged profile")
	}

	ports.PublishEvent(ctx, s.logger, s.publisher, ports.Event{
		Action:    "profile_merged",
		SubjectID: subjectID,
		Source:    id.SourceMerged,
	})

	return merged, nil
}

func (s *Service) fetchSources(ctx context.Context, subjectID id.SubjectID) (sourceSet, error) {
	set := make(sourceSet, 4)
	for _, source := range []id.Source{id.SourceDocument, id.SourceManual, id.SourceProviderA, id.SourceProviderB} {
		record, err := s.store.Get(ctx, subjectID, source)
		if errors.Is(err, sentinel.ErrNotFound) {
			set[source] = models.NewBuckets()
			continue
		}
		if err != nil {
			return nil, dErrors.Wrap(err, dErrors.CodeInternal, "load raw records")
		}
		set[source] = record.Data
	}
	return set, nil
}

// mergeCourses follows the manualFirst shape of the other narrative fields:
// document courses with manual ones prepended.
func mergeCourses(set sourceSet) []string {
	merged := make([]string, 0)
	merged = append(merged, set[id.SourceManual].Courses...)
	merged = append(merged, set[id.SourceDocument].Courses...)
	return merged
}

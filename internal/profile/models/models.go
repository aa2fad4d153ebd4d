// Package models defines the profile domain records: per-source raw data,
// the merged profile view, and the enrichment result.
package models

import (
	"time"

	"github.com/google/uuid"

	id "dossier/pkg/domain"
)

// Project is one portfolio entry. Classifier-derived projects carry only a
// name; provider B repositories also carry a source URL.
type Project struct {
	Name string `json:"name"`
	URL  string `json:"url,omitempty"`
}

// Buckets is the fixed set of semantic categories extracted from a subject's
// raw data. Invariant: every bucket is always present (possibly empty) and no
// entry contains unredacted PII once a record reaches storage.
type Buckets struct {
	Skills         []string  `json:"skills"`
	Languages      []string  `json:"languages"`
	Education      []string  `json:"education"`
	WorkExperience []string  `json:"work_experience"`
	Volunteer      []string  `json:"volunteer"`
	Military       []string  `json:"military"`
	Courses        []string  `json:"courses"`
	Projects       []Project `json:"projects"`

	// Full third-party payloads, embedded when the respective provider has
	// delivered data for the subject.
	ProviderAProfile map[string]any `json:"provider_a_profile,omitempty"`
	ProviderBProfile map[string]any `json:"provider_b_profile,omitempty"`
}

// NewBuckets returns a bucket set with every list allocated, upholding the
// "always present" invariant for JSON consumers.
func NewBuckets() Buckets {
	return Buckets{
		Skills:         []string{},
		Languages:      []string{},
		Education:      []string{},
		WorkExperience: []string{},
		Volunteer:      []string{},
		Military:       []string{},
		Courses:        []string{},
		Projects:       []Project{},
	}
}

// Normalize replaces nil slices with empty ones so persisted and serialized
// records always carry all buckets.
func (b *Buckets) Normalize() {
	if b.Skills == nil {
		b.Skills = []string{}
	}
	if b.Languages == nil {
		b.Languages = []string{}
	}
	if b.Education == nil {
		b.Education = []string{}
	}
	if b.WorkExperience == nil {
		b.WorkExperience = []string{}
	}
	if b.Volunteer == nil {
		b.Volunteer = []string{}
	}
	if b.Military == nil {
		b.Military = []string{}
	}
	if b.Courses == nil {
		b.Courses = []string{}
	}
	if b.Projects == nil {
		b.Projects = []Project{}
	}
}

// IsEmpty reports whether every list is empty and no provider payload is
// present. An empty bucket set is a valid, representable state.
func (b Buckets) IsEmpty() bool {
	return len(b.Skills) == 0 &&
		len(b.Languages) == 0 &&
		len(b.Education) == 0 &&
		len(b.WorkExperience) == 0 &&
		len(b.Volunteer) == 0 &&
		len(b.Military) == 0 &&
		len(b.Courses) == 0 &&
		len(b.Projects) == 0 &&
		b.ProviderAProfile == nil &&
		b.ProviderBProfile == nil
}

// RawDataRecord is one per-source structured record for a subject. Unique per
// (subject, source); re-submission replaces Data wholesale and bumps
// UpdatedAt. Field-level merging across records is the merger's job, never
// the store's.
type RawDataRecord struct {
	ID        uuid.UUID    `json:"id"`
	SubjectID id.SubjectID `json:"subject_id"`
	Source    id.Source    `json:"source"`
	Data      Buckets      `json:"data"`
	CreatedAt time.Time    `json:"created_at"`
	UpdatedAt time.Time    `json:"updated_at"`
}

// LegacyFlags carry pre-migration readiness markers kept for subjects whose
// raw data predates per-source records.
type LegacyFlags struct {
	// Indicator is the old single-column "has raw data" marker; it makes a
	// subject qualify even without a document or provider B record.
	Indicator bool `json:"indicator"`
	ProviderA bool `json:"provider_a"`
	ProviderB bool `json:"provider_b"`
}

// MergedProfile is the precedence-resolved combination of all raw records for
// a subject. Derived, deterministic, and also persisted under the merged
// source key as a memoized copy.
type MergedProfile struct {
	SubjectID id.SubjectID `json:"subject_id"`
	Buckets
}

// HasContent reports whether at least one bucket is non-empty or a provider
// profile is present.
func (p MergedProfile) HasContent() bool {
	return !p.Buckets.IsEmpty()
}

// ProjectSummary is one AI-generated project write-up.
type ProjectSummary struct {
	ProjectName string `json:"project_name"`
	SourceURL   string `json:"source_url,omitempty"`
	Summary     string `json:"summary"`
}

// EnrichmentResult holds the three generated artifacts for a subject.
// Completed is the idempotency guard: once true, the workflow must refuse to
// run again for the subject.
type EnrichmentResult struct {
	SubjectID        id.SubjectID     `json:"subject_id"`
	Bio              string           `json:"bio"`
	ProjectSummaries []ProjectSummary `json:"project_summaries"`
	ValueStatement   string           `json:"value_statement"`
	Completed        bool             `json:"completed"`
	CompletedAt      time.Time        `json:"completed_at"`
}

// SubjectDetails is the minimal identity snapshot used for fallback artifact
// templates when the generation service is unavailable.
type SubjectDetails struct {
	Name    string `json:"name"`
	Role    string `json:"role"`
	Company string `json:"company"`
}

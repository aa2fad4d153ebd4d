package merge

import (
	"dossier/internal/profile/models"
	id "dossier/pkg/domain"
	pstrings "dossier/pkg/platform/strings"
)

// Per-field merge strategies. Precedence is evaluated independently per
// field, not as one priority order across the whole profile, so the rules
// are kept declarative: one table entry per list field.

type strategy int

const (
	// manualFirst appends the contributing sources in order, then prepends
	// manual entries so they take visual priority at the front of the list.
	// Nothing is deduplicated across sources; duplicates are accepted.
	manualFirst strategy = iota

	// unionDeduped concatenates the contributing sources in order and
	// collapses the result into a case-preserving, trimmed set. Manual
	// entries are comma-split first since the form field is free text.
	unionDeduped

	// providerBOnly takes provider B's entries verbatim with no merging.
	providerBOnly
)

type fieldRule struct {
	strategy strategy
	// sources contribute in this order; manual is handled by the strategy
	// itself and never listed here for manualFirst.
	sources []id.Source
}

// mergeRules is the per-field strategy table. Changing an entry changes
// user-visible precedence, so every row is pinned by a test.
var mergeRules = map[string]fieldRule{
	"work_experience": {manualFirst, []id.Source{id.SourceDocument, id.SourceProviderA}},
	"education":       {manualFirst, []id.Source{id.SourceDocument, id.SourceProviderA}},
	"volunteer":       {manualFirst, []id.Source{id.SourceDocument}},
	"military":        {manualFirst, []id.Source{id.SourceDocument}},
	"skills":          {unionDeduped, []id.Source{id.SourceDocument, id.SourceManual, id.SourceProviderA, id.SourceProviderB}},
	"languages":       {unionDeduped, []id.Source{id.SourceDocument, id.SourceManual, id.SourceProviderA}},
	"projects":        {providerBOnly, nil},
}

// fieldOf extracts one named list field from a bucket set.
var fieldOf = map[string]func(models.Buckets) []string{
	"work_experience": func(b models.Buckets) []string { return b.WorkExperience },
	"education":       func(b models.Buckets) []string { return b.Education },
	"volunteer":       func(b models.Buckets) []string { return b.Volunteer },
	"military":        func(b models.Buckets) []string { return b.Military },
	"skills":          func(b models.Buckets) []string { return b.Skills },
	"languages":       func(b models.Buckets) []string { return b.Languages },
}

// sourceSet holds the per-source bucket data fetched for one subject.
// Missing records are represented as empty buckets.
type sourceSet map[id.Source]models.Buckets

func (set sourceSet) field(source id.Source, field string) []string {
	return fieldOf[field](set[source])
}

// mergeField applies the table entry for one string-list field.
func mergeField(set sourceSet, field string) []string {
	rule := mergeRules[field]

	switch rule.strategy {
	case manualFirst:
		merged := make([]string, 0)
		merged = append(merged, set.field(id.SourceManual, field)...)
		for _, source := range rule.sources {
			merged = append(merged, set.field(source, field)...)
		}
		return merged

	case unionDeduped:
		var combined []string
		for _, source := range rule.sources {
			entries := set.field(source, field)
			if source == id.SourceManual {
				for _, entry := range entries {
					combined = append(combined, pstrings.SplitCommaList(entry)...)
				}
				continue
			}
			combined = append(combined, entries...)
		}
		deduped := pstrings.DedupeAndTrim(combined)
		if deduped == nil {
			deduped = []string{}
		}
		return deduped

	default:
		return []string{}
	}
}

// mergeProjects applies the providerBOnly rule: the repository list from
// provider B verbatim, nothing merged in from other sources.
func mergeProjects(set sourceSet) []models.Project {
	projects := set[id.SourceProviderB].Projects
	if projects == nil {
		return []models.Project{}
	}
	return projects
}

// Package classify turns extracted plain text into structured profile
// buckets. Classification is a pure function of the input: an ordered cascade
// of tiers where the first tier to produce content wins, heading matches
// always beat line heuristics, and the line-heuristic priority is fixed.
package classify

import (
	"strings"

	"dossier/internal/profile/models"
	"dossier/internal/redact"
)

// Tier reports which cascade stage produced the returned buckets. Exposed for
// observability only; callers must not branch on it.
type Tier string

const (
	// TierEmpty means the input held no usable text at all.
	TierEmpty Tier = "empty"
	// TierSections means heading-anchored or line-level extraction matched.
	TierSections Tier = "sections"
	// TierDocumentScan means only the corpus-wide regex fallback matched.
	TierDocumentScan Tier = "document_scan"
	// TierRawChunks means nothing matched and raw chunks were stored.
	TierRawChunks Tier = "raw_chunks"
)

// sectionCutoff ends a heading-anchored section when a long line shows no
// bucket signal.
const sectionCutoff = 50

// maxRawChunks bounds the last-resort tier.
const maxRawChunks = 10

// minChunkLen is the smallest sentence fragment worth keeping as a raw chunk.
const minChunkLen = 20

// rawTruncateLen caps the single stored chunk when no sentence qualifies.
const rawTruncateLen = 200

// Classify parses raw document text into the eight profile buckets. It never
// fails: malformed or empty input yields all-empty buckets. All bucket
// contents are deduplicated and PII-filtered before returning.
func Classify(rawText string) models.Buckets {
	out, _ := ClassifyWithTier(rawText)
	return out
}

// ClassifyWithTier is Classify plus the cascade tier that produced the
// result, for the ingestion metrics.
func ClassifyWithTier(rawText string) (models.Buckets, Tier) {
	collected := make(map[bucket][]string)

	lines := splitLines(rawText)
	tier := TierEmpty

	if len(lines) > 0 {
		assigned := extractSections(lines, collected)
		classifyLooseLines(lines, assigned, collected)
		if !isCollectedEmpty(collected) {
			tier = TierSections
		}
	}

	if tier == TierEmpty && len(lines) > 0 {
		scanDocument(rawText, lines, collected)
		if !isCollectedEmpty(collected) {
			tier = TierDocumentScan
		}
	}

	if tier == TierEmpty && strings.TrimSpace(rawText) != "" {
		collectRawChunks(rawText, collected)
		if !isCollectedEmpty(collected) {
			tier = TierRawChunks
		}
	}

	return finalize(collected), tier
}

// extractSections runs heading-anchored extraction: each recognized heading
// claims subsequent lines until another heading, a stop keyword, or a long
// line with no bucket signal. Returns which line indexes were consumed.
func extractSections(lines []string, collected map[bucket][]string) []bool {
	assigned := make([]bool, len(lines))

	for i := 0; i < len(lines); i++ {
		if assigned[i] {
			continue
		}
		target, ok := headingBucket(lines[i])
		if !ok {
			continue
		}
		assigned[i] = true

		for j := i + 1; j < len(lines); j++ {
			line := lines[j]
			if _, isHeading := headingBucket(line); isHeading {
				break
			}
			if isStopKeyword(line) {
				// Stop keyword lines ("References") are section noise,
				// consumed so the fallback tiers do not resurrect them.
				assigned[j] = true
				break
			}
			if len(line) >= sectionCutoff && !hasBucketSignal(line) {
				break
			}
			collected[target] = append(collected[target], line)
			assigned[j] = true
		}
	}

	return assigned
}

// classifyLooseLines applies the line detectors, in priority order, to every
// line no section claimed and that is not itself a heading.
func classifyLooseLines(lines []string, assigned []bool, collected map[bucket][]string) {
	for i, line := range lines {
		if assigned[i] {
			continue
		}
		if _, isHeading := headingBucket(line); isHeading {
			continue
		}
		lower := strings.ToLower(line)
		for _, det := range lineDetectors {
			if det.match(lower) {
				collected[det.target] = append(collected[det.target], line)
				break
			}
		}
	}
}

// scanDocument is the document-wide fallback: disjoint pattern sets over the
// whole lowercased text assign hits to skills, languages, education, and
// work experience.
func scanDocument(rawText string, lines []string, collected map[bucket][]string) {
	lower := strings.ToLower(rawText)

	for _, t := range techTokens {
		if tokenInText(lower, t.token) {
			collected[bucketSkills] = append(collected[bucketSkills], t.display)
		}
	}
	for _, l := range spokenLanguages {
		if tokenInText(lower, l.token) {
			collected[bucketLanguages] = append(collected[bucketLanguages], l.display)
		}
	}

	for _, line := range lines {
		lowerLine := strings.ToLower(line)
		switch {
		case degreePattern.MatchString(lowerLine):
			collected[bucketEducation] = append(collected[bucketEducation], line)
		case jobTitlePattern.MatchString(lowerLine),
			bulletPattern.MatchString(line),
			yearRangeLine.MatchString(lowerLine):
			collected[bucketWork] = append(collected[bucketWork], line)
		}
	}
}

// collectRawChunks is the last resort: keep up to maxRawChunks sentence-or-
// line fragments of at least minChunkLen characters as work experience, or a
// single truncated slice of the raw text when none qualify.
func collectRawChunks(rawText string, collected map[bucket][]string) {
	var chunks []string
	for _, line := range strings.FieldsFunc(rawText, func(r rune) bool { return r == '\n' || r == '\r' }) {
		for _, sentence := range strings.Split(line, ". ") {
			sentence = strings.TrimSpace(strings.TrimSuffix(sentence, "."))
			if len(sentence) >= minChunkLen {
				chunks = append(chunks, sentence)
				if len(chunks) == maxRawChunks {
					break
				}
			}
		}
		if len(chunks) == maxRawChunks {
			break
		}
	}

	if len(chunks) == 0 {
		truncated := strings.TrimSpace(rawText)
		if len(truncated) > rawTruncateLen {
			truncated = truncated[:rawTruncateLen]
		}
		chunks = []string{truncated}
	}

	collected[bucketWork] = chunks
}

// finalize deduplicates each bucket (case-sensitive set semantics) and runs
// the PII filter over all contents.
func finalize(collected map[bucket][]string) models.Buckets {
	out := models.NewBuckets()

	out.Skills = redact.FilterSensitive(dedupe(collected[bucketSkills]))
	out.Languages = redact.FilterSensitive(dedupe(collected[bucketLanguages]))
	out.Education = redact.FilterSensitive(dedupe(collected[bucketEducation]))
	out.WorkExperience = redact.FilterSensitive(dedupe(collected[bucketWork]))
	out.Volunteer = redact.FilterSensitive(dedupe(collected[bucketVolunteer]))
	out.Military = redact.FilterSensitive(dedupe(collected[bucketMilitary]))
	out.Courses = redact.FilterSensitive(dedupe(collected[bucketCourses]))

	for _, name := range redact.FilterSensitive(dedupe(collected[bucketProjects])) {
		out.Projects = append(out.Projects, models.Project{Name: name})
	}

	return out
}

// hasBucketSignal reports whether a long line still looks like section
// content: a bullet, a year span, a detector hit, or a known heading term
// appearing mid-line.
func hasBucketSignal(line string) bool {
	if bulletPattern.MatchString(line) {
		return true
	}
	lower := strings.ToLower(line)
	if yearRangeLine.MatchString(lower) {
		return true
	}
	for _, det := range lineDetectors {
		if det.match(lower) {
			return true
		}
	}
	for _, kws := range headingKeywords {
		if containsAny(lower, kws) {
			return true
		}
	}
	return false
}

func splitLines(rawText string) []string {
	var lines []string
	for _, line := range strings.Split(rawText, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}

func dedupe(values []string) []string {
	if len(values) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(values))
	result := make([]string, 0, len(values))
	for _, v := range values {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		result = append(result, v)
	}
	return result
}

func isCollectedEmpty(collected map[bucket][]string) bool {
	for _, entries := range collected {
		if len(entries) > 0 {
			return false
		}
	}
	return true
}

package classify

import "strings"

// bucket identifies one of the eight target categories.
type bucket string

const (
	bucketSkills    bucket = "skills"
	bucketLanguages bucket = "languages"
	bucketEducation bucket = "education"
	bucketWork      bucket = "work_experience"
	bucketVolunteer bucket = "volunteer"
	bucketMilitary  bucket = "military"
	bucketCourses   bucket = "courses"
	bucketProjects  bucket = "projects"
)

// buckets lists all targets in the order heading extraction attempts them.
var buckets = []bucket{
	bucketSkills, bucketLanguages, bucketEducation, bucketWork,
	bucketVolunteer, bucketMilitary, bucketCourses, bucketProjects,
}

// headingKeywords are the canonical headings per bucket, matched exact or as
// a prefix of a short line.
var headingKeywords = map[bucket][]string{
	bucketSkills:    {"skills", "skill", "technical skills", "core skills"},
	bucketLanguages: {"languages", "language"},
	bucketEducation: {"education", "academic background", "studies"},
	bucketWork:      {"work experience", "experience", "employment history", "work history"},
	bucketVolunteer: {"volunteer", "volunteering"},
	bucketMilitary:  {"military", "military service"},
	bucketCourses:   {"courses", "course"},
	bucketProjects:  {"projects", "project"},
}

// headingSynonyms normalizes the many ways CVs phrase section titles onto the
// canonical buckets. Kept as an ordered slice so longer phrases win before
// their prefixes and classification stays deterministic.
var headingSynonyms = []struct {
	phrase string
	target bucket
}{
	{"technical proficiencies", bucketSkills},
	{"professional development", bucketCourses},
	{"professional experience", bucketWork},
	{"professional background", bucketWork},
	{"volunteering experience", bucketVolunteer},
	{"community involvement", bucketVolunteer},
	{"academic education", bucketEducation},
	{"training programs", bucketCourses},
	{"personal projects", bucketProjects},
	{"selected projects", bucketProjects},
	{"spoken languages", bucketLanguages},
	{"side projects", bucketProjects},
	{"certifications", bucketCourses},
	{"career history", bucketWork},
	{"qualifications", bucketEducation},
	{"certificates", bucketCourses},
	{"army service", bucketMilitary},
	{"competencies", bucketSkills},
	{"technologies", bucketSkills},
	{"tech stack", bucketSkills},
	{"employment", bucketWork},
	{"abilities", bucketSkills},
	{"portfolio", bucketProjects},
	{"training", bucketCourses},
	{"degrees", bucketEducation},
}

// stopKeywords terminate a section without opening a new bucket.
var stopKeywords = []string{
	"references", "referees", "hobbies", "interests",
	"contact", "personal details", "additional information",
}

// headingSlack bounds how much text may trail a heading keyword before the
// line stops reading as a heading ("Experience with Docker..." is prose).
const headingSlack = 12

// normalizeHeading lowercases, trims, and strips a trailing colon.
func normalizeHeading(line string) string {
	norm := strings.ToLower(strings.TrimSpace(line))
	norm = strings.TrimSuffix(norm, ":")
	return strings.TrimSpace(norm)
}

// headingBucket resolves a line to the bucket whose section it opens, or ""
// when the line is not a recognized heading.
func headingBucket(line string) (bucket, bool) {
	norm := normalizeHeading(line)
	if norm == "" {
		return "", false
	}

	for _, b := range buckets {
		for _, kw := range headingKeywords[b] {
			if matchesHeading(norm, kw) {
				return b, true
			}
		}
	}
	for _, syn := range headingSynonyms {
		if matchesHeading(norm, syn.phrase) {
			return syn.target, true
		}
	}
	return "", false
}

func matchesHeading(norm, keyword string) bool {
	if norm == keyword {
		return true
	}
	return strings.HasPrefix(norm, keyword) && len(norm) <= len(keyword)+headingSlack
}

func isStopKeyword(line string) bool {
	norm := normalizeHeading(line)
	for _, kw := range stopKeywords {
		if matchesHeading(norm, kw) {
			return true
		}
	}
	return false
}

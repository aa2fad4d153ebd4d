package classify

import (
	"regexp"
	"strings"
)

// Line-level fallback detectors, evaluated in fixed priority order for lines
// no heading section claimed: courses first, then projects, then the strict
// military context check. The order is the tie-break and must not change:
// "Completed army training program" is a course, not military service.
var lineDetectors = []struct {
	target bucket
	match  func(lower string) bool
}{
	{bucketCourses, matchesCourseLine},
	{bucketProjects, matchesProjectLine},
	{bucketMilitary, matchesMilitaryLine},
}

var courseKeywords = []string{
	"training", "bootcamp", "certification", "certificate",
	"course", "program", "workshop", "seminar",
}

var projectKeywords = []string{
	"developing", "building", "developed", "built", "created",
	"implemented", "designed", "microservice", "application",
	"website", "side project", "open source", "open-source",
}

// militaryContext is the only way a line may classify as military. Generic
// words like "service" on their own must never match ("customer service
// representative" is work experience, not conscription).
var militaryContext = regexp.MustCompile(`\b(idf|army|combat|military\s+service)\b`)

func matchesCourseLine(lower string) bool {
	return containsAny(lower, courseKeywords)
}

func matchesProjectLine(lower string) bool {
	return containsAny(lower, projectKeywords)
}

func matchesMilitaryLine(lower string) bool {
	return militaryContext.MatchString(lower)
}

func containsAny(lower string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

// Document-wide fallback patterns, used only when the line tiers produced
// nothing at all. Each pattern set is disjoint from the others so a hit lands
// in exactly one bucket.

// techTokens map a lowercase search token to its display form for the skills
// bucket.
var techTokens = []struct{ token, display string }{
	{"python", "Python"}, {"javascript", "JavaScript"}, {"typescript", "TypeScript"},
	{"java", "Java"}, {"golang", "Go"}, {"kotlin", "Kotlin"}, {"swift", "Swift"},
	{"c++", "C++"}, {"c#", "C#"}, {"php", "PHP"}, {"ruby", "Ruby"}, {"rust", "Rust"},
	{"scala", "Scala"}, {"docker", "Docker"}, {"kubernetes", "Kubernetes"},
	{"terraform", "Terraform"}, {"react", "React"}, {"angular", "Angular"},
	{"vue", "Vue"}, {"node.js", "Node.js"}, {"nodejs", "Node.js"},
	{"postgresql", "PostgreSQL"}, {"postgres", "PostgreSQL"}, {"mysql", "MySQL"},
	{"mongodb", "MongoDB"}, {"redis", "Redis"}, {"kafka", "Kafka"},
	{"elasticsearch", "Elasticsearch"}, {"sql", "SQL"}, {"aws", "AWS"},
	{"azure", "Azure"}, {"gcp", "GCP"}, {"linux", "Linux"}, {"git", "Git"},
}

// spokenLanguages map a lowercase search token to its display form for the
// languages bucket.
var spokenLanguages = []struct{ token, display string }{
	{"english", "English"}, {"hebrew", "Hebrew"}, {"spanish", "Spanish"},
	{"french", "French"}, {"german", "German"}, {"russian", "Russian"},
	{"arabic", "Arabic"}, {"portuguese", "Portuguese"}, {"italian", "Italian"},
	{"dutch", "Dutch"}, {"mandarin", "Mandarin"}, {"hindi", "Hindi"},
	{"japanese", "Japanese"},
}

var (
	degreePattern   = regexp.MustCompile(`\b(b\.?sc|m\.?sc|b\.?a|m\.?a|mba|ph\.?d|bachelor|master|doctorate|diploma|university|college|institute)\b`)
	jobTitlePattern = regexp.MustCompile(`\b(developer|engineer|programmer|manager|analyst|consultant|architect|designer|administrator|specialist)\b`)
	bulletPattern   = regexp.MustCompile(`^\s*[-•*]\s+`)
	yearRangeLine   = regexp.MustCompile(`\b(19|20)\d{2}\s*[-–]\s*((19|20)\d{2}|present)\b`)
)

// tokenInText checks a token on word boundaries within already-lowercased
// text. Symbol-bearing tokens (c++, c#, node.js) fall back to plain
// substring search since \b does not apply cleanly.
func tokenInText(lower, token string) bool {
	if strings.ContainsAny(token, "+#.") {
		return strings.Contains(lower, token)
	}
	re, ok := tokenPatterns[token]
	if !ok {
		return strings.Contains(lower, token)
	}
	return re.MatchString(lower)
}

// tokenPatterns precompiles word-boundary matchers for all plain tokens.
var tokenPatterns = func() map[string]*regexp.Regexp {
	patterns := make(map[string]*regexp.Regexp)
	add := func(token string) {
		if strings.ContainsAny(token, "+#.") {
			return
		}
		patterns[token] = regexp.MustCompile(`\b` + regexp.QuoteMeta(token) + `\b`)
	}
	for _, t := range techTokens {
		add(t.token)
	}
	for _, l := range spokenLanguages {
		add(l.token)
	}
	return patterns
}()

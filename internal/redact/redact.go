// Package redact removes personally identifying lines from document-derived
// text before it reaches storage. Every bucket the classifier emits passes
// through here; the rules favor dropping a whole line over partially masking
// it so that no redacted-but-unmarked fragment survives.
package redact

import (
	"regexp"
	"strings"
)

var (
	emailPattern = regexp.MustCompile(`[A-Za-z0-9._%+\-]+@[A-Za-z0-9.\-]+\.[A-Za-z]{2,}`)

	// Candidate phone tokens: optional +country-code, digits mixed with
	// common separators. Digit count is verified separately so prose with a
	// stray number does not trip the rule.
	phoneCandidate = regexp.MustCompile(`\+?[0-9][0-9\s\-().]{4,18}[0-9]`)

	datePatterns = []*regexp.Regexp{
		regexp.MustCompile(`\b\d{2}/\d{2}/\d{4}\b`),
		regexp.MustCompile(`\b\d{4}-\d{2}-\d{2}\b`),
	}

	// Numeric-leading short phrase resembling a street address:
	// "123 Main", "42 Hermann Street", up to four trailing words.
	streetNumberPattern = regexp.MustCompile(`^\d{1,4}(\s+\S+){0,4}$`)

	singleCapitalizedWord = regexp.MustCompile(`^[A-Z][a-z]{3,19}$`)

	nonDigits = regexp.MustCompile(`[^0-9]`)

	// Year spans ("2019 - 2022") share a digit count with short phone
	// numbers and must stay classifiable as work experience.
	yearRange = regexp.MustCompile(`^\d{4}\s*[-–]\s*\d{4}$`)
)

// addressKeywords mark a line as a physical address regardless of shape.
var addressKeywords = []string{
	"street", "road", "avenue", "boulevard", "lane", "drive",
	"city", "district", "county", "state", "zip", "zipcode", "postal",
	"apt", "apartment", "suite", "floor", "p.o. box", "po box",
}

// titleAllowList keeps single capitalized job-title words out of the
// city/location heuristic. Lowercased for comparison.
var titleAllowList = map[string]struct{}{
	"developer": {}, "engineer": {}, "programmer": {}, "architect": {},
	"manager": {}, "director": {}, "lead": {}, "senior": {}, "junior": {},
	"analyst": {}, "consultant": {}, "designer": {}, "tester": {},
	"administrator": {}, "scientist": {}, "specialist": {}, "intern": {},
	"backend": {}, "frontend": {}, "fullstack": {}, "devops": {},
	"product": {}, "project": {}, "marketing": {}, "sales": {},
	"recruiter": {}, "researcher": {}, "freelancer": {}, "founder": {},
	"skills": {}, "education": {}, "experience": {}, "languages": {},
	"projects": {}, "courses": {}, "summary": {}, "profile": {},
	// Technology and spoken-language terms the classifier emits as single
	// capitalized tokens; without these the city filter would eat them.
	"python": {}, "java": {}, "javascript": {}, "typescript": {},
	"golang": {}, "kotlin": {}, "swift": {}, "ruby": {}, "rust": {},
	"scala": {}, "docker": {}, "kubernetes": {}, "terraform": {},
	"react": {}, "angular": {}, "linux": {}, "postgresql": {},
	"postgres": {}, "mysql": {}, "mongodb": {}, "redis": {}, "kafka": {},
	"elasticsearch": {}, "azure": {},
	"english": {}, "hebrew": {}, "spanish": {}, "french": {},
	"german": {}, "russian": {}, "arabic": {}, "portuguese": {},
	"italian": {}, "dutch": {}, "mandarin": {}, "hindi": {}, "japanese": {},
}

// Redact returns the line unchanged when it carries no recognized PII, or an
// empty string when the whole line is classified as sensitive. It never
// fails; callers treat an empty result as "drop".
func Redact(line string) string {
	if IsSensitive(line) {
		return ""
	}
	return line
}

// FilterSensitive drops sensitive lines and returns the rest unchanged,
// preserving order.
func FilterSensitive(lines []string) []string {
	filtered := make([]string, 0, len(lines))
	for _, line := range lines {
		if !IsSensitive(line) {
			filtered = append(filtered, line)
		}
	}
	return filtered
}

// IsSensitive applies the classification rules in order and reports whether
// the line matches any of them.
func IsSensitive(line string) bool {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" {
		return false
	}

	if emailPattern.MatchString(trimmed) {
		return true
	}
	if containsPhoneNumber(trimmed) {
		return true
	}
	for _, p := range datePatterns {
		if p.MatchString(trimmed) {
			return true
		}
	}

	lower := strings.ToLower(trimmed)
	for _, kw := range addressKeywords {
		if containsWord(lower, kw) {
			return true
		}
	}

	if streetNumberPattern.MatchString(trimmed) && !yearRange.MatchString(trimmed) {
		return true
	}

	// A lone capitalized word is most likely a city or other location unless
	// it is a known job-title term.
	if singleCapitalizedWord.MatchString(trimmed) {
		if _, allowed := titleAllowList[lower]; !allowed {
			return true
		}
	}

	return false
}

func containsPhoneNumber(line string) bool {
	for _, candidate := range phoneCandidate.FindAllString(line, -1) {
		if yearRange.MatchString(strings.TrimSpace(candidate)) {
			continue
		}
		digits := nonDigits.ReplaceAllString(candidate, "")
		if n := len(digits); n >= 6 && n <= 12 {
			return true
		}
	}
	return false
}

// containsWord matches keyword on word boundaries so "district" does not fire
// on "districted" prose, but multi-word keywords still match as substrings.
func containsWord(lower, keyword string) bool {
	idx := strings.Index(lower, keyword)
	for idx >= 0 {
		beforeOK := idx == 0 || !isLetter(lower[idx-1])
		afterIdx := idx + len(keyword)
		afterOK := afterIdx >= len(lower) || !isLetter(lower[afterIdx])
		if beforeOK && afterOK {
			return true
		}
		next := strings.Index(lower[idx+1:], keyword)
		if next < 0 {
			return false
		}
		idx = idx + 1 + next
	}
	return false
}

func isLetter(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}

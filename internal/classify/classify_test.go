package classify

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassify_HeadingSections(t *testing.T) {
	text := strings.Join([]string{
		"Skills",
		"Go, SQL",
		"Docker",
		"",
		"Work Experience",
		"Backend Developer at Initech 2019 - 2022",
		"",
		"Education",
		"BSc Computer Science, Tel Aviv University",
	}, "\n")

	got := Classify(text)

	assert.Equal(t, []string{"Go, SQL", "Docker"}, got.Skills)
	assert.Equal(t, []string{"Backend Developer at Initech 2019 - 2022"}, got.WorkExperience)
	assert.Equal(t, []string{"BSc Computer Science, Tel Aviv University"}, got.Education)
}

// Heading synonyms route content to the canonical bucket.
func TestClassify_HeadingSynonyms(t *testing.T) {
	t.Run("abilities routes to skills", func(t *testing.T) {
		got := Classify("Abilities\nTeam leadership and Python")
		assert.Equal(t, []string{"Team leadership and Python"}, got.Skills)
	})

	t.Run("professional experience routes to work experience", func(t *testing.T) {
		got := Classify("Professional Experience\nRan the payments team")
		assert.Equal(t, []string{"Ran the payments team"}, got.WorkExperience)
	})

	t.Run("training programs routes to courses", func(t *testing.T) {
		got := Classify("Training Programs\nAdvanced Go internals")
		assert.Equal(t, []string{"Advanced Go internals"}, got.Courses)
	})

	t.Run("portfolio routes to projects", func(t *testing.T) {
		got := Classify("Portfolio\nInventory tracker for small retailers")
		require.Len(t, got.Projects, 1)
		assert.Equal(t, "Inventory tracker for small retailers", got.Projects[0].Name)
	})
}

func TestClassify_SectionBoundaries(t *testing.T) {
	t.Run("next heading ends the section", func(t *testing.T) {
		got := Classify("Skills\nGo programming\nLanguages\nEnglish fluent")
		assert.Equal(t, []string{"Go programming"}, got.Skills)
		assert.Equal(t, []string{"English fluent"}, got.Languages)
	})

	t.Run("stop keyword ends the section without capturing it", func(t *testing.T) {
		got := Classify("Skills\nGo programming\nReferences\nAvailable upon request from previous employers")
		assert.Equal(t, []string{"Go programming"}, got.Skills)
		for _, entry := range got.Skills {
			assert.NotContains(t, strings.ToLower(entry), "references")
		}
	})

	t.Run("long line without bucket signal ends the section", func(t *testing.T) {
		noise := "I enjoy long walks and have many unrelated thoughts about life"
		require.GreaterOrEqual(t, len(noise), sectionCutoff)
		got := Classify("Skills\nGo programming\n" + noise)
		assert.Equal(t, []string{"Go programming"}, got.Skills)
	})
}

func TestClassify_LineFallbackPriority(t *testing.T) {
	t.Run("training beats military for course-like army lines", func(t *testing.T) {
		got := Classify("Completed army training program in logistics")
		assert.NotEmpty(t, got.Courses)
		assert.Empty(t, got.Military)
	})

	t.Run("course keywords classify into courses", func(t *testing.T) {
		for _, line := range []string{
			"Finished a backend bootcamp last winter",
			"Cloud certification from a vendor",
			"Mentorship program participant",
		} {
			got := Classify(line)
			assert.NotEmpty(t, got.Courses, line)
			assert.Empty(t, got.Military, line)
		}
	})

	t.Run("project action keywords classify into projects", func(t *testing.T) {
		got := Classify("Developing a microservice for invoice routing")
		require.Len(t, got.Projects, 1)
	})

	t.Run("military requires explicit context", func(t *testing.T) {
		got := Classify("Served in the IDF as a combat medic")
		assert.NotEmpty(t, got.Military)

		got = Classify("Worked as customer service representative")
		assert.Empty(t, got.Military)
	})

	t.Run("generic service never classifies as military", func(t *testing.T) {
		got := Classify("Provided excellent service quality to enterprise accounts")
		assert.Empty(t, got.Military)
	})
}

func TestClassify_DocumentWideFallback(t *testing.T) {
	// No headings, no detector keywords: only the corpus scan can classify.
	text := "proficient with python and docker\nspeaks english and hebrew\nbsc from the technion institute"
	got, tier := ClassifyWithTier(text)

	assert.Equal(t, TierDocumentScan, tier)
	assert.Contains(t, got.Skills, "Python")
	assert.Contains(t, got.Skills, "Docker")
	assert.Contains(t, got.Languages, "English")
	assert.Contains(t, got.Languages, "Hebrew")
	assert.NotEmpty(t, got.Education)
}

func TestClassify_LastResortChunks(t *testing.T) {
	t.Run("keeps qualifying chunks as work experience", func(t *testing.T) {
		text := "spent a decade herding distributed systems. wrangled many oncall rotations over the years."
		got, tier := ClassifyWithTier(text)
		assert.Equal(t, TierRawChunks, tier)
		assert.NotEmpty(t, got.WorkExperience)
		assert.LessOrEqual(t, len(got.WorkExperience), maxRawChunks)
	})

	t.Run("stores a single truncated chunk when nothing qualifies", func(t *testing.T) {
		got, tier := ClassifyWithTier("zzzz qqqq")
		assert.Equal(t, TierRawChunks, tier)
		assert.Equal(t, []string{"zzzz qqqq"}, got.WorkExperience)
	})
}

// Classify never panics and always returns all eight buckets.
func TestClassify_TotalFunction(t *testing.T) {
	inputs := []string{
		"", "   ", "\n\n\n", "a", strings.Repeat("x", 10000),
		"Skills\n\n\nLanguages\n", "!!!@@@###",
	}
	for _, input := range inputs {
		got := Classify(input)
		assert.NotNil(t, got.Skills)
		assert.NotNil(t, got.Languages)
		assert.NotNil(t, got.Education)
		assert.NotNil(t, got.WorkExperience)
		assert.NotNil(t, got.Volunteer)
		assert.NotNil(t, got.Military)
		assert.NotNil(t, got.Courses)
		assert.NotNil(t, got.Projects)
	}

	_, tier := ClassifyWithTier("")
	assert.Equal(t, TierEmpty, tier)
}

// PII lines never survive into any output bucket.
func TestClassify_RedactsPII(t *testing.T) {
	text := strings.Join([]string{
		"Work Experience",
		"jane.doe@corp.example",
		"+972 52 123 4567",
		"12/05/1990",
		"Shipped the billing system rewrite",
	}, "\n")

	got := Classify(text)

	all := append([]string{}, got.WorkExperience...)
	all = append(all, got.Skills...)
	all = append(all, got.Education...)
	for _, entry := range all {
		assert.NotContains(t, entry, "@")
		assert.NotContains(t, entry, "123 4567")
		assert.NotContains(t, entry, "12/05/1990")
	}
	assert.Contains(t, got.WorkExperience, "Shipped the billing system rewrite")
}

func TestClassify_Deterministic(t *testing.T) {
	text := "Skills\nGo, SQL\nWork Experience\nBackend Developer 2019 - 2022\nbuilt a side project for fun"
	first := Classify(text)
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, Classify(text))
	}
}

func TestClassify_DedupesWithinBucket(t *testing.T) {
	got := Classify("Skills\nDocker\nDocker\nGo programming")
	assert.Equal(t, []string{"Docker", "Go programming"}, got.Skills)
}

package enrich

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"dossier/internal/profile/models"
	"dossier/internal/profile/ports"
)

// completeWithRetry wraps one generation call in the retry policy: up to
// MaxAttempts attempts, retrying only retryable failure classes, with
// 2^attempt seconds of backoff between attempts. Anything else fails fast.
func (s *Service) completeWithRetry(ctx context.Context, artifact, prompt string) (string, error) {
	var lastErr error
	for attempt := 1; attempt <= s.settings.MaxAttempts; attempt++ {
		text, err := s.generator.Complete(ctx, prompt, s.settings.MaxTokens, s.settings.Temperature)
		if err == nil {
			return strings.TrimSpace(text), nil
		}
		lastErr = err

		var genErr *ports.GenerationError
		if !errors.As(err, &genErr) || !genErr.Retryable() {
			return "", err
		}
		if attempt == s.settings.MaxAttempts {
			break
		}

		backoff := time.Duration(1<<attempt) * time.Second
		s.metrics.IncrementGenerationRetries()
		s.logger.WarnContext(ctx, "generation rate limited, backing off",
			"artifact", artifact,
			"attempt", attempt,
			"backoff", backoff.String(),
		)
		if err := s.sleep(ctx, backoff); err != nil {
			return "", err
		}
	}
	return "", lastErr
}

func (s *Service) generateBio(ctx context.Context, merged models.MergedProfile, details models.SubjectDetails) string {
	bio, err := s.completeWithRetry(ctx, "bio", bioPrompt(merged, details))
	if err != nil {
		s.fallback(ctx, merged, "bio", err)
		return fallbackBio(details)
	}
	return bio
}

// generateProjectSummaries produces one summary per portfolio entry. The
// whole artifact falls back to an empty list on the first final failure so a
// partially summarized portfolio is never exposed.
func (s *Service) generateProjectSummaries(ctx context.Context, merged models.MergedProfile) []models.ProjectSummary {
	if len(merged.Projects) == 0 {
		return []models.ProjectSummary{}
	}

	summaries := make([]models.ProjectSummary, 0, len(merged.Projects))
	for _, project := range merged.Projects {
		summary, err := s.completeWithRetry(ctx, "project_summaries", projectPrompt(project))
		if err != nil {
			s.fallback(ctx, merged, "project_summaries", err)
			return []models.ProjectSummary{}
		}
		summaries = append(summaries, models.ProjectSummary{
			ProjectName: project.Name,
			SourceURL:   project.URL,
			Summary:     summary,
		})
	}
	return summaries
}

func (s *Service) generateValueStatement(ctx context.Context, merged models.MergedProfile, details models.SubjectDetails) string {
	statement, err := s.completeWithRetry(ctx, "value_statement", valueStatementPrompt(merged, details))
	if err != nil {
		s.fallback(ctx, merged, "value_statement", err)
		return fallbackValueStatement(details)
	}
	return statement
}

func (s *Service) fallback(ctx context.Context, merged models.MergedProfile, artifact string, err error) {
	s.metrics.IncrementGenerationFallbacks(artifact)
	s.logger.WarnContext(ctx, "generation failed, using fallback content",
		"subject_id", merged.SubjectID.String(),
		"artifact", artifact,
		"error", err,
	)
}

func bioPrompt(merged models.MergedProfile, details models.SubjectDetails) string {
	var b strings.Builder
	b.WriteString("Write a short third-person professional bio for the following employee.\n")
	writeDetails(&b, details)
	writeList(&b, "Work experience", merged.WorkExperience)
	writeList(&b, "Education", merged.Education)
	writeList(&b, "Skills", merged.Skills)
	return b.String()
}

func projectPrompt(project models.Project) string {
	var b strings.Builder
	b.WriteString("Summarize the following software project in two sentences.\n")
	fmt.Fprintf(&b, "Project: %s\n", project.Name)
	if project.URL != "" {
		fmt.Fprintf(&b, "Repository: %s\n", project.URL)
	}
	return b.String()
}

func valueStatementPrompt(merged models.MergedProfile, details models.SubjectDetails) string {
	var b strings.Builder
	b.WriteString("Write a one-sentence statement of the unique value this employee brings to a team.\n")
	writeDetails(&b, details)
	writeList(&b, "Skills", merged.Skills)
	writeList(&b, "Work experience", merged.WorkExperience)
	return b.String()
}

func writeDetails(b *strings.Builder, details models.SubjectDetails) {
	if details.Name != "" {
		fmt.Fprintf(b, "Name: %s\n", details.Name)
	}
	if details.Role != "" {
		fmt.Fprintf(b, "Role: %s\n", details.Role)
	}
	if details.Company != "" {
		fmt.Fprintf(b, "Company: %s\n", details.Company)
	}
}

func writeList(b *strings.Builder, label string, entries []string) {
	if len(entries) == 0 {
		return
	}
	fmt.Fprintf(b, "%s: %s\n", label, strings.Join(entries, "; "))
}

// Fallback artifacts are deterministic templates over the subject's details
// so a degraded enrichment still reads as a complete profile.

func fallbackBio(details models.SubjectDetails) string {
	name := details.Name
	if name == "" {
		name = "This employee"
	}
	switch {
	case details.Role != "" && details.Company != "":
		return fmt.Sprintf("%s is a %s at %s.", name, details.Role, details.Company)
	case details.Role != "":
		return fmt.Sprintf("%s is a %s.", name, details.Role)
	default:
		return fmt.Sprintf("%s is a valued member of the team.", name)
	}
}

func fallbackValueStatement(details models.SubjectDetails) string {
	name := details.Name
	if name == "" {
		name = "This employee"
	}
	if details.Role != "" {
		return fmt.Sprintf("%s brings hands-on experience as a %s to the team.", name, details.Role)
	}
	return fmt.Sprintf("%s brings valuable hands-on experience to the team.", name)
}

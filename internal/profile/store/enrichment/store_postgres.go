package enrichment

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"dossier/internal/profile/models"
	id "dossier/pkg/domain"
	"dossier/pkg/platform/sentinel"
)

// PostgresStore persists enrichment results keyed by subject ID. Project
// summaries travel as JSONB.
type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgres(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

func (s *PostgresStore) Save(ctx context.Context, result models.EnrichmentResult) error {
	summaries, err := json.Marshal(result.ProjectSummaries)
	if err != nil {
		return fmt.Errorf("marshal project summaries: %w", err)
	}

	_, err = s.pool.Exec(ctx, `
		INSERT INTO enrichment_results
			(subject_id, bio, project_summaries, value_statement, completed, completed_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (subject_id)
		DO UPDATE SET
			bio = EXCLUDED.bio,
			project_summaries = EXCLUDED.project_summaries,
			value_statement = EXCLUDED.value_statement,
			completed = EXCLUDED.completed,
			completed_at = EXCLUDED.completed_at`,
		uuid.UUID(result.SubjectID), result.Bio, summaries,
		result.ValueStatement, result.Completed, result.CompletedAt,
	)
	if err != nil {
		return fmt.Errorf("save enrichment result: %w", err)
	}
	return nil
}

func (s *PostgresStore) Get(ctx context.Context, subjectID id.SubjectID) (models.EnrichmentResult, error) {
	var (
		result    models.EnrichmentResult
		subject   uuid.UUID
		summaries []byte
	)
	err := s.pool.QueryRow(ctx, `
		SELECT subject_id, bio, project_summaries, value_statement, completed, completed_at
		FROM enrichment_results WHERE subject_id = $1`,
		uuid.UUID(subjectID),
	).Scan(&subject, &result.Bio, &summaries, &result.ValueStatement, &result.Completed, &result.CompletedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return models.EnrichmentResult{}, sentinel.ErrNotFound
	}
	if err != nil {
		return models.EnrichmentResult{}, fmt.Errorf("get enrichment result: %w", err)
	}

	result.SubjectID = id.SubjectID(subject)
	if err := json.Unmarshal(summaries, &result.ProjectSummaries); err != nil {
		return models.EnrichmentResult{}, fmt.Errorf("unmarshal project summaries: %w", err)
	}
	return result, nil
}

package enrichment

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dossier/internal/profile/models"
	id "dossier/pkg/domain"
	"dossier/pkg/platform/sentinel"
)

func TestInMemoryStore_SaveAndGet(t *testing.T) {
	ctx := context.Background()
	store := NewMemory()
	subject := id.NewSubjectID()

	result := models.EnrichmentResult{
		SubjectID: subject,
		Bio:       "Dana Levi is a Backend Engineer at Initech.",
		ProjectSummaries: []models.ProjectSummary{
			{ProjectName: "search-index", Summary: "A full-text search service."},
		},
		ValueStatement: "Dana brings distributed systems experience.",
		Completed:      true,
		CompletedAt:    time.Now(),
	}
	require.NoError(t, store.Save(ctx, result))

	got, err := store.Get(ctx, subject)
	require.NoError(t, err)
	assert.Equal(t, result, got)
}

func TestInMemoryStore_Get_NotFound(t *testing.T) {
	store := NewMemory()
	_, err := store.Get(context.Background(), id.NewSubjectID())
	assert.ErrorIs(t, err, sentinel.ErrNotFound)
}

func TestInMemoryStore_SaveOverwrites(t *testing.T) {
	ctx := context.Background()
	store := NewMemory()
	subject := id.NewSubjectID()

	require.NoError(t, store.Save(ctx, models.EnrichmentResult{SubjectID: subject, Bio: "first"}))
	require.NoError(t, store.Save(ctx, models.EnrichmentResult{SubjectID: subject, Bio: "second", Completed: true}))

	got, err := store.Get(ctx, subject)
	require.NoError(t, err)
	assert.Equal(t, "second", got.Bio)
	assert.True(t, got.Completed)
}

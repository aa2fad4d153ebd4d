package lease

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	id "dossier/pkg/domain"
	"dossier/pkg/platform/sentinel"
)

func TestInMemoryStore_SingleLeasePerSubject(t *testing.T) {
	ctx := context.Background()
	store := NewMemory()
	subject := id.NewSubjectID()

	require.NoError(t, store.Acquire(ctx, subject, time.Minute))
	assert.ErrorIs(t, store.Acquire(ctx, subject, time.Minute), sentinel.ErrLeaseHeld)

	// Other subjects are unaffected.
	assert.NoError(t, store.Acquire(ctx, id.NewSubjectID(), time.Minute))
}

func TestInMemoryStore_ReleaseFreesLease(t *testing.T) {
	ctx := context.Background()
	store := NewMemory()
	subject := id.NewSubjectID()

	require.NoError(t, store.Acquire(ctx, subject, time.Minute))
	require.NoError(t, store.Release(ctx, subject))
	assert.NoError(t, store.Acquire(ctx, subject, time.Minute))
}

func TestInMemoryStore_ExpiredLeaseCanBeRetaken(t *testing.T) {
	ctx := context.Background()
	store := NewMemory()
	subject := id.NewSubjectID()

	require.NoError(t, store.Acquire(ctx, subject, -time.Second))
	assert.NoError(t, store.Acquire(ctx, subject, time.Minute))
}

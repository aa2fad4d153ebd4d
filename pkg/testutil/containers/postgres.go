//go:build integration

package containers

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

// schema is the full DDL for the profile stores. Applied once per container.
const schema = `
CREATE TABLE IF NOT EXISTS raw_data_records (
	id UUID PRIMARY KEY,
	subject_id UUID NOT NULL,
	source TEXT NOT NULL,
	data JSONB NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	UNIQUE (subject_id, source)
);

CREATE INDEX IF NOT EXISTS idx_raw_data_records_subject ON raw_data_records (subject_id);

CREATE TABLE IF NOT EXISTS subject_flags (
	subject_id UUID PRIMARY KEY,
	legacy_indicator BOOLEAN NOT NULL DEFAULT false,
	legacy_provider_a BOOLEAN NOT NULL DEFAULT false,
	legacy_provider_b BOOLEAN NOT NULL DEFAULT false
);

CREATE TABLE IF NOT EXISTS enrichment_results (
	subject_id UUID PRIMARY KEY,
	bio TEXT NOT NULL DEFAULT '',
	project_summaries JSONB NOT NULL DEFAULT '[]',
	value_statement TEXT NOT NULL DEFAULT '',
	completed BOOLEAN NOT NULL DEFAULT false,
	completed_at TIMESTAMPTZ NOT NULL
);
`

// PostgresContainer wraps a testcontainers PostgreSQL instance with the
// schema applied and a ready pgx pool.
type PostgresContainer struct {
	Container testcontainers.Container
	DB        *pgxpool.Pool
	URL       string
}

func NewPostgresContainer(t *testing.T) *PostgresContainer {
	t.Helper()

	ctx := context.Background()

	container, err := tcpostgres.Run(ctx, "postgres:16-alpine",
		tcpostgres.WithDatabase("dossier_test"),
		tcpostgres.WithUsername("dossier"),
		tcpostgres.WithPassword("dossier"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	if err != nil {
		t.Fatalf("failed to start postgres container: %v", err)
	}

	url, err := container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		_ = container.Terminate(ctx)
		t.Fatalf("failed to get postgres connection string: %v", err)
	}

	pool, err := pgxpool.New(ctx, url)
	if err != nil {
		_ = container.Terminate(ctx)
		t.Fatalf("failed to create pgx pool: %v", err)
	}

	if _, err := pool.Exec(ctx, schema); err != nil {
		pool.Close()
		_ = container.Terminate(ctx)
		t.Fatalf("failed to apply schema: %v", err)
	}

	return &PostgresContainer{Container: container, DB: pool, URL: url}
}

// TruncateTables clears the given tables between tests.
func (p *PostgresContainer) TruncateTables(ctx context.Context, tables ...string) error {
	if len(tables) == 0 {
		return nil
	}
	_, err := p.DB.Exec(ctx, fmt.Sprintf("TRUNCATE TABLE %s", strings.Join(tables, ", ")))
	return err
}

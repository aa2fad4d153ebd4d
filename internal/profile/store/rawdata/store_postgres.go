package rawdata

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

// PostgresStore persists raw records in PostgreSQL. Buckets travel as JSONB;
// the (subject_id, source) unique constraint backs the replace-on-conflict
// upsert.
type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgres(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

func (s *PostgresStore) Upsert(ctx context.Context, subjectID id.SubjectID, source id.Source, data models.Buckets) (models.RawDataRecord, error) {
	data.Normalize()
	payload, err := json.Marshal(data)
	if err != nil {
		return models.RawDataRecord{}, fmt.Errorf("marshal buckets: %w", err)
	}

	row := s.pool.QueryRow(ctx, `
		INSERT INTO raw_data_records (id, subject_id, source, data, created_at, updated_at)
		VALUES ($1, $2, $3, $4, now(), now())
		ON CONFLICT (subject_id, source)
		DO UPDATE SET data = EXCLUDED.data, updated_at = now()
		RETURNING id, created_at, updated_at`,
		uuid.New(), uuid.UUID(subjectID), source.String(), payload,
	)

	record := models.RawDataRecord{SubjectID: subjectID, Source: source, Data: data}
	if err := row.Scan(&record.ID, &record.CreatedAt, &record.UpdatedAt); err != nil {
		return models.RawDataRecord{}, fmt.Errorf("upsert raw record: %w", err)
	}
	return record, nil
}

func (s *PostgresStore) Get(ctx context.Context, subjectID id.SubjectID, source id.Source) (models.RawDataRecord, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT id, subject_id, source, data, created_at, updated_at
		FROM raw_data_records
		WHERE subject_id = $1 AND source = $2`,
		uuid.UUID(subjectID), source.String(),
	)

	record, err := scanRecord(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return models.RawDataRecord{}, sentinel.ErrNotFound
	}
	if err != nil {
		return models.RawDataRecord{}, fmt.Errorf("get raw record: %w", err)
	}
	return record, nil
}

func (s *PostgresStore) ListBySubject(ctx context.Context, subjectID id.SubjectID) ([]models.RawDataRecord, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, subject_id, source, data, created_at, updated_at
		FROM raw_data_records
		WHERE subject_id = $1
		ORDER BY CASE source
			WHEN 'document' THEN 1
			WHEN 'manual' THEN 2
			WHEN 'provider_a' THEN 3
			WHEN 'provider_b' THEN 4
			ELSE 5
		END`,
		uuid.UUID(subjectID),
	)
	if err != nil {
		return nil, fmt.Errorf("list raw records: %w", err)
	}
	defer rows.Close()

	var records []models.RawDataRecord
	for rows.Next() {
		record, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("scan raw record: %w", err)
		}
		records = append(records, record)
	}
	return records, rows.Err()
}

func (s *PostgresStore) HasAny(ctx context.Context, subjectID id.SubjectID) (bool, error) {
	var exists bool
	err := s.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM raw_data_records WHERE subject_id = $1)`,
		uuid.UUID(subjectID),
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check raw records: %w", err)
	}
	return exists, nil
}

func (s *PostgresStore) HasQualifyingSource(ctx context.Context, subjectID id.SubjectID) (bool, error) {
	var exists bool
	err := s.pool.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM raw_data_records
			WHERE subject_id = $1 AND source IN ($2, $3)
		) OR COALESCE (
			(SELECT legacy_indicator FROM subject_flags WHERE subject_id = $1), false
		)`,
		uuid.UUID(subjectID), id.SourceDocument.String(), id.SourceProviderB.String(),
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check qualifying source: %w", err)
	}
	return exists, nil
}

func (s *PostgresStore) SetLegacyFlags(ctx context.Context, subjectID id.SubjectID, flags models.LegacyFlags) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO subject_flags (subject_id, legacy_indicator, legacy_provider_a, legacy_provider_b)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (subject_id)
		DO UPDATE SET
			legacy_indicator = EXCLUDED.legacy_indicator,
			legacy_provider_a = EXCLUDED.legacy_provider_a,
			legacy_provider_b = EXCLUDED.legacy_provider_b`,
		uuid.UUID(subjectID), flags.Indicator, flags.ProviderA, flags.ProviderB,
	)
	if err != nil {
		return fmt.Errorf("set legacy flags: %w", err)
	}
	return nil
}

func (s *PostgresStore) GetLegacyFlags(ctx context.Context, subjectID id.SubjectID) (models.LegacyFlags, error) {
	var flags models.LegacyFlags
	err := s.pool.QueryRow(ctx, `
		SELECT legacy_indicator, legacy_provider_a, legacy_provider_b
		FROM subject_flags WHERE subject_id = $1`,
		uuid.UUID(subjectID),
	).Scan(&flags.Indicator, &flags.ProviderA, &flags.ProviderB)
	if errors.Is(err, pgx.ErrNoRows) {
		return models.LegacyFlags{}, nil
	}
	if err != nil {
		return models.LegacyFlags{}, fmt.Errorf("get legacy flags: %w", err)
	}
	return flags, nil
}

func scanRecord(row pgx.Row) (models.RawDataRecord, error) {
	var (
		record  models.RawDataRecord
		subject uuid.UUID
		source  string
		payload []byte
	)
	if err := row.Scan(&record.ID, &subject, &source, &payload, &record.CreatedAt, &record.UpdatedAt); err != nil {
		return models.RawDataRecord{}, err
	}
	record.SubjectID = id.SubjectID(subject)
	record.Source = id.Source(source)
	if err := json.Unmarshal(payload, &record.Data); err != nil {
		return models.RawDataRecord{}, fmt.Errorf("unmarshal buckets: %w", err)
	}
	record.Data.Normalize()
	return record, nil
}

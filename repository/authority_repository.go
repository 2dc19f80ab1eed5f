package repository

import (
	"context"
	"fmt"

	"lexresearch-backend/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// AuthorityRepository reads and writes raw authority records kept in Postgres.
// Records are stored as JSONB so the corpus normalizer sees them exactly as
// they would appear in a corpus file.
type AuthorityRepository struct {
	db     *pgxpool.Pool
	corpus string
}

// NewAuthorityRepository creates a repository scoped to one named corpus
func NewAuthorityRepository(db *pgxpool.Pool, corpus string) *AuthorityRepository {
	if corpus == "" {
		corpus = "default"
	}
	return &AuthorityRepository{db: db, corpus: corpus}
}

// Records returns every record of the corpus in insertion order
func (r *AuthorityRepository) Records(ctx context.Context) ([]models.RawRecord, error) {
	query := `
		SELECT record
		FROM legal_authorities
		WHERE corpus = $1
		ORDER BY position ASC`

	rows, err := r.db.Query(ctx, query, r.corpus)
	if err != nil {
		return nil, fmt.Errorf("failed to query legal authorities: %w", err)
	}
	defer rows.Close()

	var records []models.RawRecord
	for rows.Next() {
		var record models.RawRecord
		if err := rows.Scan(&record); err != nil {
			return nil, fmt.Errorf("failed to scan legal authority: %w", err)
		}
		records = append(records, record)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating legal authorities: %w", err)
	}

	return records, nil
}

// Name identifies the repository as a corpus source in logs
func (r *AuthorityRepository) Name() string {
	return "postgres:" + r.corpus
}

// ReplaceAll swaps the stored corpus for records in a single transaction
func (r *AuthorityRepository) ReplaceAll(ctx context.Context, records []models.RawRecord) (int, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM legal_authorities WHERE corpus = $1`, r.corpus); err != nil {
		return 0, fmt.Errorf("failed to clear corpus %s: %w", r.corpus, err)
	}

	batch := &pgx.Batch{}
	for i, record := range records {
		batch.Queue(
			`INSERT INTO legal_authorities (corpus, position, record) VALUES ($1, $2, $3)`,
			r.corpus, i, record,
		)
	}
	results := tx.SendBatch(ctx, batch)
	for i := range records {
		if _, err := results.Exec(); err != nil {
			results.Close()
			return 0, fmt.Errorf("failed to insert legal authority %d: %w", i, err)
		}
	}
	if err := results.Close(); err != nil {
		return 0, fmt.Errorf("failed to close insert batch: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("failed to commit corpus %s: %w", r.corpus, err)
	}
	return len(records), nil
}

package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"tokenRelay/internal/model"
)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS token_submissions (
	id           BIGSERIAL PRIMARY KEY,
	tx_hash      TEXT NOT NULL UNIQUE,
	operation    TEXT NOT NULL,
	signer       TEXT NOT NULL,
	from_address TEXT,
	to_address   TEXT,
	spender      TEXT,
	amount       NUMERIC NOT NULL,
	amount_raw   NUMERIC NOT NULL,
	block_number BIGINT NOT NULL,
	status       SMALLINT NOT NULL,
	submitted_at TIMESTAMPTZ NOT NULL,
	created_at   TIMESTAMPTZ NOT NULL DEFAULT now()
)`

// Store provides Postgres persistence for the submission journal.
type Store struct {
	pool *pgxpool.Pool
}

func NewStore(ctx context.Context, dsn string) (*Store, error) {
	if dsn == "" {
		return nil, fmt.Errorf("pg dsn is required")
	}
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, err
	}
	return &Store{pool: pool}, nil
}

func (s *Store) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

// EnsureSchema creates the journal table if it does not exist.
func (s *Store) EnsureSchema(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, schemaSQL); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	return nil
}

const insertSubmissionSQL = `
INSERT INTO token_submissions (
	tx_hash, operation, signer, from_address, to_address, spender,
	amount, amount_raw, block_number, status, submitted_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
ON CONFLICT (tx_hash)
DO UPDATE SET
	block_number = EXCLUDED.block_number,
	status = EXCLUDED.status`

// PutSubmission inserts a submission; a repeated tx hash updates the stored row.
func (s *Store) PutSubmission(ctx context.Context, sub model.Submission) error {
	_, err := s.pool.Exec(ctx, insertSubmissionSQL, submissionArgs(sub)...)
	return err
}

// submissionArgs lists sub in insertSubmissionSQL column order.
func submissionArgs(sub model.Submission) []interface{} {
	return []interface{}{
		sub.TxHash,
		sub.Operation,
		sub.Signer,
		nullable(sub.From),
		nullable(sub.To),
		nullable(sub.Spender),
		sub.Amount,
		sub.AmountRaw,
		int64(sub.BlockNumber),
		int16(sub.Status),
		sub.SubmittedAt,
	}
}

func nullable(value string) *string {
	if value == "" {
		return nil
	}
	return &value
}

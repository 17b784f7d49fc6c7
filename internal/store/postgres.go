package store

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jonathan/job-tracker/internal/types"
)

// PostgresStore persists records to an applications table mirroring the
// spreadsheet columns. Selected when DATABASE_URL is configured.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgres establishes a connection pool and ensures the applications
// table exists, the Postgres equivalent of the sheet's header-row check.
func NewPostgres(ctx context.Context, databaseURL string) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	s := &PostgresStore{pool: pool}
	if err := s.ensureTable(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return s, nil
}

func (s *PostgresStore) ensureTable(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS applications (
			id         BIGSERIAL PRIMARY KEY,
			date       TEXT NOT NULL,
			company    TEXT NOT NULL,
			role       TEXT NOT NULL,
			status     TEXT NOT NULL,
			next_steps TEXT NOT NULL DEFAULT '',
			email_date TEXT NOT NULL,
			email_id   TEXT NOT NULL DEFAULT ''
		)`)
	if err != nil {
		return fmt.Errorf("failed to ensure applications table: %w", err)
	}
	return nil
}

// ReadAll returns every persisted record in insertion order.
func (s *PostgresStore) ReadAll(ctx context.Context) ([]types.ApplicationRecord, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT date, company, role, status, next_steps, email_date, email_id
		 FROM applications ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to read applications: %w", err)
	}
	defer rows.Close()

	var records []types.ApplicationRecord
	for rows.Next() {
		var rec types.ApplicationRecord
		var status string
		if err := rows.Scan(&rec.Date, &rec.Company, &rec.Role, &status,
			&rec.NextSteps, &rec.EmailDate, &rec.EmailID); err != nil {
			return nil, fmt.Errorf("failed to scan application row: %w", err)
		}
		rec.Status = types.NormalizeStatus(status)
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read applications: %w", err)
	}
	return records, nil
}

// Append persists one record.
func (s *PostgresStore) Append(ctx context.Context, rec types.ApplicationRecord) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO applications (date, company, role, status, next_steps, email_date, email_id)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		rec.Date, rec.Company, rec.Role, string(rec.Status),
		rec.NextSteps, rec.EmailDate, rec.EmailID)
	if err != nil {
		return fmt.Errorf("failed to append application for %s: %w", rec.Company, err)
	}
	return nil
}

// Close closes the connection pool.
func (s *PostgresStore) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

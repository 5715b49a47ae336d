// internal/kybstore/postgres.go
//
// Postgres-backed document store. The full document is held as JSONB; the
// user id, status, and submission time are denormalized into columns so
// the admin listing and stats queries stay indexable.

package kybstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"github.com/kingrea/onramp/internal/kyb"
)

const schema = `
CREATE TABLE IF NOT EXISTS kyb_documents (
	id           UUID PRIMARY KEY,
	user_id      TEXT NOT NULL UNIQUE,
	status       TEXT NOT NULL DEFAULT 'Draft',
	submitted_at TIMESTAMPTZ,
	document     JSONB NOT NULL,
	created_at   TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at   TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS idx_kyb_documents_status ON kyb_documents (status);
CREATE INDEX IF NOT EXISTS idx_kyb_documents_submitted_at ON kyb_documents (submitted_at DESC);
`

// PostgresStore persists documents in a kyb_documents table.
type PostgresStore struct {
	db *sqlx.DB
}

// OpenPostgres connects to the given DSN and verifies the connection.
func OpenPostgres(ctx context.Context, dsn string) (*PostgresStore, error) {
	db, err := sqlx.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("kybstore: open postgres: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("kybstore: ping postgres: %w", err)
	}
	return &PostgresStore{db: db}, nil
}

// EnsureSchema creates the table and indexes when missing.
func (p *PostgresStore) EnsureSchema(ctx context.Context) error {
	if _, err := p.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("kybstore: ensure schema: %w", err)
	}
	return nil
}

// Close releases the connection pool.
func (p *PostgresStore) Close() error {
	return p.db.Close()
}

type documentRow struct {
	ID          string         `db:"id"`
	UserID      string         `db:"user_id"`
	Status      string         `db:"status"`
	SubmittedAt sql.NullTime   `db:"submitted_at"`
	Document    []byte         `db:"document"`
	CreatedAt   time.Time      `db:"created_at"`
	UpdatedAt   time.Time      `db:"updated_at"`
}

func (r documentRow) decode() (*kyb.Document, error) {
	var doc kyb.Document
	if err := json.Unmarshal(r.Document, &doc); err != nil {
		return nil, fmt.Errorf("kybstore: decode document row: %w", err)
	}
	doc.CreatedAt = r.CreatedAt
	doc.UpdatedAt = r.UpdatedAt
	return &doc, nil
}

// Get returns the document for one user, or ErrNotFound.
func (p *PostgresStore) Get(ctx context.Context, userID string) (*kyb.Document, error) {
	var row documentRow
	err := p.db.GetContext(ctx, &row,
		`SELECT id, user_id, status, submitted_at, document, created_at, updated_at
		 FROM kyb_documents WHERE user_id = $1`, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("kybstore: get document: %w", err)
	}
	return row.decode()
}

// Upsert inserts or fully replaces the document keyed by its user id.
func (p *PostgresStore) Upsert(ctx context.Context, doc *kyb.Document) (*kyb.Document, error) {
	if doc.SubmissionInfo.Status == "" {
		doc.SubmissionInfo.Status = kyb.StatusDraft
	}
	encoded, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("kybstore: encode document: %w", err)
	}
	var submittedAt sql.NullTime
	if doc.SubmissionInfo.SubmittedAt != nil {
		submittedAt = sql.NullTime{Time: *doc.SubmissionInfo.SubmittedAt, Valid: true}
	}
	var row documentRow
	err = p.db.GetContext(ctx, &row,
		`INSERT INTO kyb_documents (id, user_id, status, submitted_at, document)
		 VALUES ($1, $2, $3, $4, $5)
		 ON CONFLICT (user_id) DO UPDATE SET
			status = EXCLUDED.status,
			submitted_at = EXCLUDED.submitted_at,
			document = EXCLUDED.document,
			updated_at = now()
		 RETURNING id, user_id, status, submitted_at, document, created_at, updated_at`,
		uuid.NewString(), doc.UserID, string(doc.SubmissionInfo.Status), submittedAt, encoded)
	if err != nil {
		return nil, fmt.Errorf("kybstore: upsert document: %w", err)
	}
	return row.decode()
}

// Submit stamps the Submitted status and provenance, or ErrNotFound.
func (p *PostgresStore) Submit(ctx context.Context, userID, ipAddress, userAgent string, at time.Time) (*kyb.Document, error) {
	var row documentRow
	err := p.db.GetContext(ctx, &row,
		`UPDATE kyb_documents SET
			status = $2,
			submitted_at = $3,
			document = jsonb_set(document, '{submissionInfo}', jsonb_build_object(
				'status', $2::text,
				'submittedAt', to_char($3::timestamptz, 'YYYY-MM-DD"T"HH24:MI:SS"Z"'),
				'ipAddress', $4::text,
				'userAgent', $5::text
			)),
			updated_at = now()
		 WHERE user_id = $1
		 RETURNING id, user_id, status, submitted_at, document, created_at, updated_at`,
		userID, string(kyb.StatusSubmitted), at.UTC(), ipAddress, userAgent)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("kybstore: submit document: %w", err)
	}
	return row.decode()
}

// List returns one page of documents, newest submissions first.
func (p *PostgresStore) List(ctx context.Context, filter ListFilter) (*ListResult, error) {
	filter = filter.normalize()
	where, args := "", []any{}
	if filter.Status != "" {
		where = "WHERE status = $1"
		args = append(args, string(filter.Status))
	}

	var total int
	if err := p.db.GetContext(ctx, &total,
		fmt.Sprintf("SELECT count(*) FROM kyb_documents %s", where), args...); err != nil {
		return nil, fmt.Errorf("kybstore: count documents: %w", err)
	}

	offset := (filter.Page - 1) * filter.Limit
	query := fmt.Sprintf(
		`SELECT id, user_id, status, submitted_at, document, created_at, updated_at
		 FROM kyb_documents %s
		 ORDER BY submitted_at DESC NULLS LAST
		 LIMIT %d OFFSET %d`, where, filter.Limit, offset)

	var rows []documentRow
	if err := p.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("kybstore: list documents: %w", err)
	}

	result := &ListResult{
		Documents:   make([]kyb.Document, 0, len(rows)),
		CurrentPage: filter.Page,
		TotalPages:  (total + filter.Limit - 1) / filter.Limit,
		TotalForms:  total,
	}
	for _, row := range rows {
		doc, err := row.decode()
		if err != nil {
			return nil, err
		}
		result.Documents = append(result.Documents, *doc)
	}
	return result, nil
}

// Stats returns counts grouped by status.
func (p *PostgresStore) Stats(ctx context.Context) (*Stats, error) {
	rows, err := p.db.QueryxContext(ctx,
		`SELECT status, count(*) FROM kyb_documents GROUP BY status`)
	if err != nil {
		return nil, fmt.Errorf("kybstore: stats: %w", err)
	}
	defer rows.Close()

	stats := &Stats{StatusBreakdown: make(map[kyb.Status]int)}
	for rows.Next() {
		var status string
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, fmt.Errorf("kybstore: scan stats: %w", err)
		}
		stats.StatusBreakdown[kyb.Status(status)] = count
		stats.TotalSubmissions += count
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("kybstore: stats rows: %w", err)
	}
	return stats, nil
}

package repository

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"
)

const (
	OutcomeSucceeded = "succeeded"
	OutcomeFailed    = "failed"
)

// AnalysisEvent is one audit row. It carries request metadata only, never
// document text or analysis content.
type AnalysisEvent struct {
	ID         string    `db:"id"`
	CreatedAt  time.Time `db:"created_at"`
	FileName   string    `db:"file_name"`
	MimeType   string    `db:"mime_type"`
	FileSize   int64     `db:"file_size"`
	TextLength int       `db:"text_length"`
	AIProvider string    `db:"ai_provider"`
	Outcome    string    `db:"outcome"`
	ErrorCode  string    `db:"error_code"`
	DurationMS int64     `db:"duration_ms"`
}

type AuditRepository interface {
	Record(ctx context.Context, event *AnalysisEvent) error
	ListRecent(ctx context.Context, limit int) ([]AnalysisEvent, error)
}

type auditRepository struct {
	db *sqlx.DB
}

func NewAuditRepository(db *sqlx.DB) AuditRepository {
	return &auditRepository{db: db}
}

func (r *auditRepository) Record(ctx context.Context, event *AnalysisEvent) error {
	query := `
		INSERT INTO analysis_events (id, created_at, file_name, mime_type, file_size, text_length,
		                             ai_provider, outcome, error_code, duration_ms)
		VALUES (:id, :created_at, :file_name, :mime_type, :file_size, :text_length,
		        :ai_provider, :outcome, :error_code, :duration_ms)
	`

	_, err := r.db.NamedExecContext(ctx, query, event)
	return err
}

// ListRecent returns the newest events first. Used by operators and tests;
// the request path never reads the ledger.
func (r *auditRepository) ListRecent(ctx context.Context, limit int) ([]AnalysisEvent, error) {
	if limit <= 0 {
		limit = 50
	}

	query := `
		SELECT id, created_at, file_name, mime_type, file_size, text_length,
		       ai_provider, outcome, error_code, duration_ms
		FROM analysis_events
		ORDER BY created_at DESC
		LIMIT ?
	`

	events := []AnalysisEvent{}
	if err := r.db.SelectContext(ctx, &events, query, limit); err != nil {
		return nil, err
	}
	return events, nil
}

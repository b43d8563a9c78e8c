package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrNotFound is returned when the referenced session does not exist.
var ErrNotFound = errors.New("session not found")

// SessionRow is the slice of a session record this service reads and writes.
// The session itself is owned by the study-group backend; we only touch the
// transcript and summary fields.
type SessionRow struct {
	Transcript     string
	TranscriptLang string
	Summary        string
	SummaryStatus  string
}

// SummaryMetricRow is one day of summary-origin counters.
type SummaryMetricRow struct {
	MetricDate  time.Time
	RemoteCount int
	LocalCount  int
}

type Store struct {
	pool *pgxpool.Pool
}

func New(ctx context.Context, databaseURL string) (*Store, error) {
	cfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse database url: %w", err)
	}
	cfg.MaxConns = 10
	cfg.MinConns = 2

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return &Store{pool: pool}, nil
}

func (s *Store) Close() {
	s.pool.Close()
}

// GetSession reads the transcript and summary fields of a session.
func (s *Store) GetSession(ctx context.Context, sessionID string) (SessionRow, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT transcript, transcript_lang, summary, summary_status FROM study_sessions WHERE id = $1`,
		sessionID,
	)

	var transcript, lang, summary, status *string
	if err := row.Scan(&transcript, &lang, &summary, &status); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return SessionRow{}, ErrNotFound
		}
		return SessionRow{}, fmt.Errorf("get session: %w", err)
	}

	return SessionRow{
		Transcript:     deref(transcript),
		TranscriptLang: deref(lang),
		Summary:        deref(summary),
		SummaryStatus:  deref(status),
	}, nil
}

// MarkPending persists the merged transcript and flips the session to pending.
// The language is only overwritten when the fragment carried one.
func (s *Store) MarkPending(ctx context.Context, sessionID, transcript, lang string) error {
	tag, err := s.pool.Exec(ctx, `
		UPDATE study_sessions
		SET transcript = $2,
		    transcript_lang = COALESCE(NULLIF($3, ''), transcript_lang),
		    summary_status = 'pending',
		    updated_at = now()
		WHERE id = $1
	`, sessionID, transcript, lang)
	if err != nil {
		return fmt.Errorf("mark pending: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// CompleteSummary persists the final summary and flips the session to completed.
func (s *Store) CompleteSummary(ctx context.Context, sessionID, summary string) error {
	tag, err := s.pool.Exec(ctx, `
		UPDATE study_sessions
		SET summary = $2,
		    summary_status = 'completed',
		    updated_at = now()
		WHERE id = $1
	`, sessionID, summary)
	if err != nil {
		return fmt.Errorf("complete summary: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// IncrementSummaryCount bumps the daily counter for a summary origin
// ("remote" or "local").
func (s *Store) IncrementSummaryCount(ctx context.Context, date time.Time, origin string) error {
	d := date.Format("2006-01-02")

	// Ensure row exists.
	_, err := s.pool.Exec(ctx, `
		INSERT INTO summary_metrics (metric_date)
		VALUES ($1)
		ON CONFLICT (metric_date) DO NOTHING
	`, d)
	if err != nil {
		return fmt.Errorf("ensure summary_metrics row: %w", err)
	}

	var q string
	switch origin {
	case "remote":
		q = `UPDATE summary_metrics SET remote_count = remote_count + 1, updated_at = now() WHERE metric_date = $1`
	case "local":
		q = `UPDATE summary_metrics SET local_count = local_count + 1, updated_at = now() WHERE metric_date = $1`
	default:
		return fmt.Errorf("unknown summary origin %q", origin)
	}
	if _, err := s.pool.Exec(ctx, q, d); err != nil {
		return fmt.Errorf("increment %s count: %w", origin, err)
	}
	return nil
}

// GetSummaryMetrics returns recent daily origin counters, newest first.
func (s *Store) GetSummaryMetrics(ctx context.Context, limit int) ([]SummaryMetricRow, error) {
	if limit <= 0 {
		limit = 30
	}
	rows, err := s.pool.Query(ctx, `
		SELECT metric_date, remote_count, local_count
		FROM summary_metrics
		ORDER BY metric_date DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []SummaryMetricRow
	for rows.Next() {
		var r SummaryMetricRow
		if err := rows.Scan(&r.MetricDate, &r.RemoteCount, &r.LocalCount); err != nil {
			return nil, err
		}
		results = append(results, r)
	}
	return results, rows.Err()
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

package store

import (
	"context"
	"time"
)

// SessionStore is the interface consumed by the session service, metrics
// recorder, and the API. The concrete implementation is *Store (pgx-backed).
type SessionStore interface {
	GetSession(ctx context.Context, sessionID string) (SessionRow, error)
	MarkPending(ctx context.Context, sessionID, transcript, lang string) error
	CompleteSummary(ctx context.Context, sessionID, summary string) error
	IncrementSummaryCount(ctx context.Context, date time.Time, origin string) error
	GetSummaryMetrics(ctx context.Context, limit int) ([]SummaryMetricRow, error)
	Close()
}

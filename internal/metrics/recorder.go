package metrics

import (
	"context"
	"log/slog"
	"time"

	"github.com/MeetGangani/study-backend/internal/session"
	"github.com/MeetGangani/study-backend/internal/store"
)

// Recorder tracks how often summaries come from the remote model versus the
// local extractive fallback, as daily counters in the store. A rising local
// share usually means the remote service is degraded or the credential broke.
type Recorder struct {
	store store.SessionStore
}

func NewRecorder(s store.SessionStore) *Recorder {
	return &Recorder{store: s}
}

// Record bumps today's counter for the given origin. Failures are logged and
// swallowed; metrics must never affect the summarization path.
func (r *Recorder) Record(ctx context.Context, origin session.Origin) {
	if err := r.store.IncrementSummaryCount(ctx, time.Now().UTC(), string(origin)); err != nil {
		slog.Error("metrics: failed to record summary origin", "origin", origin, "error", err)
	}
}

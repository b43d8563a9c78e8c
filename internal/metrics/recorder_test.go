package metrics

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/MeetGangani/study-backend/internal/session"
	"github.com/MeetGangani/study-backend/internal/testutil"
)

func TestRecord_CountsByOrigin(t *testing.T) {
	ms := testutil.NewMockStore()
	r := NewRecorder(ms)
	ctx := context.Background()

	r.Record(ctx, session.OriginRemote)
	r.Record(ctx, session.OriginRemote)
	r.Record(ctx, session.OriginLocal)

	key := time.Now().UTC().Format("2006-01-02")
	row := ms.Metrics[key]
	if row == nil {
		t.Fatalf("expected metrics row for %s", key)
	}
	if row.RemoteCount != 2 {
		t.Errorf("remote count = %d, want 2", row.RemoteCount)
	}
	if row.LocalCount != 1 {
		t.Errorf("local count = %d, want 1", row.LocalCount)
	}
}

func TestRecord_SwallowsStoreErrors(t *testing.T) {
	ms := testutil.NewMockStore()
	ms.MetricErr = errors.New("db down")
	r := NewRecorder(ms)

	// Must not panic or propagate.
	r.Record(context.Background(), session.OriginLocal)

	if ms.MetricCalls != 1 {
		t.Errorf("expected 1 store call, got %d", ms.MetricCalls)
	}
}

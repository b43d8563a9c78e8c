package testutil

import (
	"context"
	"sync"
	"time"

	"github.com/MeetGangani/study-backend/internal/store"
)

// MockStore is a thread-safe in-memory implementation of store.SessionStore
// for testing.
type MockStore struct {
	mu sync.Mutex

	Sessions map[string]store.SessionRow
	Metrics  map[string]*store.SummaryMetricRow // key: "2006-01-02"

	GetErr      error
	PendingErr  error
	CompleteErr error
	MetricErr   error

	GetCalls      int
	PendingCalls  int
	CompleteCalls int
	MetricCalls   int

	// PendingWrites records every MarkPending call in order, for asserting
	// write ordering relative to CompleteSummary.
	PendingWrites []string
}

func NewMockStore() *MockStore {
	return &MockStore{
		Sessions: make(map[string]store.SessionRow),
		Metrics:  make(map[string]*store.SummaryMetricRow),
	}
}

// SetSession seeds a session for testing.
func (m *MockStore) SetSession(sessionID string, row store.SessionRow) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Sessions[sessionID] = row
}

// Session returns a copy of the stored session row.
func (m *MockStore) Session(sessionID string) (store.SessionRow, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	row, ok := m.Sessions[sessionID]
	return row, ok
}

func (m *MockStore) GetSession(_ context.Context, sessionID string) (store.SessionRow, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.GetCalls++
	if m.GetErr != nil {
		return store.SessionRow{}, m.GetErr
	}
	row, ok := m.Sessions[sessionID]
	if !ok {
		return store.SessionRow{}, store.ErrNotFound
	}
	return row, nil
}

func (m *MockStore) MarkPending(_ context.Context, sessionID, transcript, lang string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.PendingCalls++
	if m.PendingErr != nil {
		return m.PendingErr
	}
	row, ok := m.Sessions[sessionID]
	if !ok {
		return store.ErrNotFound
	}
	row.Transcript = transcript
	if lang != "" {
		row.TranscriptLang = lang
	}
	row.SummaryStatus = "pending"
	m.Sessions[sessionID] = row
	m.PendingWrites = append(m.PendingWrites, transcript)
	return nil
}

func (m *MockStore) CompleteSummary(_ context.Context, sessionID, summary string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CompleteCalls++
	if m.CompleteErr != nil {
		return m.CompleteErr
	}
	row, ok := m.Sessions[sessionID]
	if !ok {
		return store.ErrNotFound
	}
	row.Summary = summary
	row.SummaryStatus = "completed"
	m.Sessions[sessionID] = row
	return nil
}

func (m *MockStore) IncrementSummaryCount(_ context.Context, date time.Time, origin string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.MetricCalls++
	if m.MetricErr != nil {
		return m.MetricErr
	}
	key := date.Format("2006-01-02")
	row := m.Metrics[key]
	if row == nil {
		row = &store.SummaryMetricRow{MetricDate: date}
		m.Metrics[key] = row
	}
	switch origin {
	case "remote":
		row.RemoteCount++
	case "local":
		row.LocalCount++
	}
	return nil
}

func (m *MockStore) GetSummaryMetrics(_ context.Context, limit int) ([]store.SummaryMetricRow, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var results []store.SummaryMetricRow
	for _, row := range m.Metrics {
		results = append(results, *row)
		if limit > 0 && len(results) >= limit {
			break
		}
	}
	return results, nil
}

func (m *MockStore) Close() {}

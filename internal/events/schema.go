package events

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

// NATS subjects this service consumes and produces.
const (
	// SubjectFragmentSubmitted carries FragmentEvent payloads from the live
	// speech gateway.
	SubjectFragmentSubmitted = "study.session.transcript.submitted"
	// SubjectSummaryCompleted carries SummaryEvent payloads after a summary
	// is persisted.
	SubjectSummaryCompleted = "study.session.summary.completed"
)

// FragmentEvent is the JSON payload the speech gateway publishes for each
// transcript fragment of a live session.
type FragmentEvent struct {
	EventID   string    `json:"event_id"`
	SessionID string    `json:"session_id"`
	Text      string    `json:"text"`
	Lang      string    `json:"lang,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// SummaryEvent announces a freshly persisted session summary. It carries the
// summary size, not the summary itself; consumers fetch the session if they
// need the text.
type SummaryEvent struct {
	SessionID    string    `json:"session_id"`
	Status       string    `json:"status"`
	Lang         string    `json:"lang,omitempty"`
	SummaryChars int       `json:"summary_chars"`
	Timestamp    time.Time `json:"timestamp"`
}

// NormalizeFragment parses a raw gateway payload and fills in missing
// bookkeeping fields. session_id and text are required; anything else gets a
// sensible default.
func NormalizeFragment(raw []byte) (FragmentEvent, error) {
	var e FragmentEvent
	if err := json.Unmarshal(raw, &e); err != nil {
		return FragmentEvent{}, err
	}

	if e.SessionID == "" {
		return FragmentEvent{}, fmt.Errorf("fragment event missing session_id")
	}
	if e.Text == "" {
		return FragmentEvent{}, fmt.Errorf("fragment event missing text")
	}

	if e.EventID == "" {
		e.EventID = uuid.New().String()
	}

	if e.Timestamp.IsZero() {
		slog.Warn("fragment event missing timestamp, using ingestion time", "event_id", e.EventID)
		e.Timestamp = time.Now().UTC()
	}

	return e, nil
}

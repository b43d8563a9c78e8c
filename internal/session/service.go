package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/MeetGangani/study-backend/internal/events"
	"github.com/MeetGangani/study-backend/internal/store"
	"github.com/MeetGangani/study-backend/internal/summary"
)

var (
	// ErrEmptyFragment rejects submissions with no transcript text. Nothing is
	// merged or persisted.
	ErrEmptyFragment = errors.New("transcript fragment is empty")
	// ErrEmptyAudio rejects single-shot transcription requests with no payload.
	ErrEmptyAudio = errors.New("audio payload is empty")
	// ErrSummarizerUnavailable is returned on the single-shot audio path when
	// the remote summarizer produced nothing. That path has no fallback.
	ErrSummarizerUnavailable = errors.New("summarization service unavailable")
)

// Origin says whether a summary came from the remote model or the local
// extractive fallback. Recorded in metrics, never exposed on the session.
type Origin string

const (
	OriginRemote Origin = "remote"
	OriginLocal  Origin = "local"
)

// Fragment is one unit of transcript text submitted by a client.
type Fragment struct {
	Text string
	Lang string
}

// Snapshot is the read-side view of a session's summarization state.
type Snapshot struct {
	Transcript string
	Summary    string
	Status     Status
	Lang       string
}

// RemoteSummarizer produces a model-generated summary. ok is false whenever
// the service is unavailable or returned nothing usable; it never errors.
type RemoteSummarizer interface {
	Summarize(ctx context.Context, transcript string) (string, bool)
}

// Transcriber converts raw audio to transcript text.
type Transcriber interface {
	Transcribe(ctx context.Context, audio []byte, mimeType string) (string, error)
}

// OriginRecorder is notified after every persisted session summary.
type OriginRecorder interface {
	Record(ctx context.Context, origin Origin)
}

// Alerter is notified when a completed-write fails and leaves a session stuck
// in pending.
type Alerter interface {
	PostStuckPendingAlert(ctx context.Context, sessionID string, cause error) error
}

// PublishFunc is the callback signature for publishing events to NATS.
type PublishFunc func(subject string, data []byte) error

// Service runs the summarization pipeline: merge the fragment, mark the
// session pending, try the remote summarizer, fall back to the extractive
// algorithm, persist the result.
type Service struct {
	store        store.SessionStore
	remote       RemoteSummarizer
	transcriber  Transcriber
	maxSentences int

	recorder OriginRecorder
	alerter  Alerter
	publish  PublishFunc

	locks *keyedLocker
}

// NewService creates a Service. maxSentences bounds the extractive fallback;
// values <= 0 use the default.
func NewService(s store.SessionStore, remote RemoteSummarizer, transcriber Transcriber, maxSentences int) *Service {
	if maxSentences <= 0 {
		maxSentences = summary.DefaultMaxSentences
	}
	return &Service{
		store:        s,
		remote:       remote,
		transcriber:  transcriber,
		maxSentences: maxSentences,
		locks:        newKeyedLocker(),
	}
}

// SetOriginRecorder wires the metrics recorder.
func (s *Service) SetOriginRecorder(r OriginRecorder) {
	s.recorder = r
}

// SetAlerter wires the stuck-pending alerter.
func (s *Service) SetAlerter(a Alerter) {
	s.alerter = a
}

// SetPublisher sets the function used to publish summary events to NATS.
func (s *Service) SetPublisher(fn PublishFunc) {
	s.publish = fn
}

// SubmitTranscript merges the fragment into the session transcript, produces
// a fresh summary for the full transcript, and returns it. Submissions for
// the same session serialize through a per-session lock.
func (s *Service) SubmitTranscript(ctx context.Context, sessionID string, frag Fragment) (string, error) {
	if strings.TrimSpace(frag.Text) == "" {
		return "", ErrEmptyFragment
	}

	unlock := s.locks.lock(sessionID)
	defer unlock()

	row, err := s.store.GetSession(ctx, sessionID)
	if err != nil {
		return "", err
	}

	merged := MergeTranscript(row.Transcript, frag.Text)

	// The pending-write must land before summarization starts so concurrent
	// readers observe pending promptly.
	if err := s.store.MarkPending(ctx, sessionID, merged, frag.Lang); err != nil {
		return "", err
	}

	final, origin := s.summarize(ctx, merged)

	if err := s.store.CompleteSummary(ctx, sessionID, final); err != nil {
		// The session is now stuck pending with no retry path. Make noise.
		slog.Error("session: completed-write failed, session stuck pending",
			"session_id", sessionID,
			"error", err,
		)
		if s.alerter != nil {
			if aerr := s.alerter.PostStuckPendingAlert(ctx, sessionID, err); aerr != nil {
				slog.Warn("session: failed to post stuck-pending alert", "error", aerr)
			}
		}
		return "", err
	}

	slog.Info("session: summary persisted",
		"session_id", sessionID,
		"origin", origin,
		"transcript_chars", len(merged),
		"summary_chars", len(final),
	)

	if s.recorder != nil {
		s.recorder.Record(ctx, origin)
	}
	s.publishCompleted(sessionID, frag.Lang, len(final))

	return final, nil
}

// summarize tries the remote model first; on any unavailability it runs the
// deterministic extractive fallback, which always succeeds.
func (s *Service) summarize(ctx context.Context, transcript string) (string, Origin) {
	if text, ok := s.remote.Summarize(ctx, transcript); ok {
		return text, OriginRemote
	}
	slog.Info("session: remote summarizer unavailable, using extractive fallback")
	return summary.Extract(transcript, s.maxSentences), OriginLocal
}

// GetSummary is a pure read of the session's summarization state.
func (s *Service) GetSummary(ctx context.Context, sessionID string) (Snapshot, error) {
	row, err := s.store.GetSession(ctx, sessionID)
	if err != nil {
		return Snapshot{}, err
	}
	return Snapshot{
		Transcript: row.Transcript,
		Summary:    row.Summary,
		Status:     ResolveStatus(row.SummaryStatus, row.Summary),
		Lang:       row.TranscriptLang,
	}, nil
}

// TranscribeAndSummarize is the stateless single-shot path: audio in,
// transcript and summary out. Upstream failures are surfaced, not degraded.
func (s *Service) TranscribeAndSummarize(ctx context.Context, audio []byte, mimeType string) (string, string, error) {
	if len(audio) == 0 {
		return "", "", ErrEmptyAudio
	}

	transcript, err := s.transcriber.Transcribe(ctx, audio, mimeType)
	if err != nil {
		return "", "", fmt.Errorf("transcribe audio: %w", err)
	}

	text, ok := s.remote.Summarize(ctx, transcript)
	if !ok {
		return "", "", ErrSummarizerUnavailable
	}
	return transcript, text, nil
}

// publishCompleted announces a persisted summary on NATS for downstream
// consumers. Publish failures are logged, never surfaced.
func (s *Service) publishCompleted(sessionID, lang string, summaryChars int) {
	if s.publish == nil {
		return
	}

	evt := events.SummaryEvent{
		SessionID:    sessionID,
		Status:       string(StatusCompleted),
		Lang:         lang,
		SummaryChars: summaryChars,
		Timestamp:    time.Now().UTC(),
	}
	payload, err := json.Marshal(evt)
	if err != nil {
		slog.Error("session: failed to marshal summary event", "error", err)
		return
	}

	if err := s.publish(events.SubjectSummaryCompleted, payload); err != nil {
		slog.Warn("session: failed to publish summary event",
			"session_id", sessionID,
			"error", err,
		)
	}
}

package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/MeetGangani/study-backend/internal/session"
	"github.com/MeetGangani/study-backend/internal/store"
	"github.com/MeetGangani/study-backend/internal/testutil"
)

// stubRemote satisfies session.RemoteSummarizer.
type stubRemote struct {
	text string
	ok   bool
}

func (s *stubRemote) Summarize(_ context.Context, _ string) (string, bool) {
	return s.text, s.ok
}

// stubTranscriber satisfies session.Transcriber.
type stubTranscriber struct {
	text string
	err  error
}

func (s *stubTranscriber) Transcribe(_ context.Context, _ []byte, _ string) (string, error) {
	return s.text, s.err
}

func setupServer(ms *testutil.MockStore, remote session.RemoteSummarizer, tr session.Transcriber) *Server {
	svc := session.NewService(ms, remote, tr, 5)
	return NewServer(ms, svc, 8600)
}

func TestHealthEndpoint(t *testing.T) {
	srv := setupServer(testutil.NewMockStore(), &stubRemote{}, &stubTranscriber{})

	req := httptest.NewRequest("GET", "/api/v1/health", nil)
	w := httptest.NewRecorder()
	srv.router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}

	var body map[string]any
	json.NewDecoder(w.Body).Decode(&body)
	if body["status"] != "ok" {
		t.Errorf("expected status ok, got %v", body["status"])
	}
	if body["service"] != "summarizer" {
		t.Errorf("expected service summarizer, got %v", body["service"])
	}
}

func TestSubmitTranscript_ReturnsSummary(t *testing.T) {
	ms := testutil.NewMockStore()
	ms.SetSession("sess-1", store.SessionRow{})
	srv := setupServer(ms, &stubRemote{text: "## Notes\n- all good", ok: true}, &stubTranscriber{})

	payload := `{"text":"today we discussed goroutines","lang":"en"}`
	req := httptest.NewRequest("POST", "/api/v1/sessions/sess-1/transcript", strings.NewReader(payload))
	w := httptest.NewRecorder()
	srv.router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var body map[string]string
	json.NewDecoder(w.Body).Decode(&body)
	if body["summary"] != "## Notes\n- all good" {
		t.Errorf("unexpected summary %q", body["summary"])
	}

	row, _ := ms.Session("sess-1")
	if row.SummaryStatus != "completed" {
		t.Errorf("expected completed status, got %q", row.SummaryStatus)
	}
}

func TestSubmitTranscript_EmptyText(t *testing.T) {
	ms := testutil.NewMockStore()
	ms.SetSession("sess-1", store.SessionRow{})
	srv := setupServer(ms, &stubRemote{}, &stubTranscriber{})

	req := httptest.NewRequest("POST", "/api/v1/sessions/sess-1/transcript", strings.NewReader(`{"text":"  "}`))
	w := httptest.NewRecorder()
	srv.router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
}

func TestSubmitTranscript_InvalidJSON(t *testing.T) {
	srv := setupServer(testutil.NewMockStore(), &stubRemote{}, &stubTranscriber{})

	req := httptest.NewRequest("POST", "/api/v1/sessions/sess-1/transcript", strings.NewReader("{nope"))
	w := httptest.NewRecorder()
	srv.router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
}

func TestSubmitTranscript_SessionNotFound(t *testing.T) {
	srv := setupServer(testutil.NewMockStore(), &stubRemote{}, &stubTranscriber{})

	req := httptest.NewRequest("POST", "/api/v1/sessions/ghost/transcript", strings.NewReader(`{"text":"hi"}`))
	w := httptest.NewRecorder()
	srv.router.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", w.Code)
	}
}

func TestGetSummary(t *testing.T) {
	ms := testutil.NewMockStore()
	ms.SetSession("sess-1", store.SessionRow{
		Transcript:     "line one\nline two",
		TranscriptLang: "en",
		Summary:        "the summary",
		SummaryStatus:  "completed",
	})
	srv := setupServer(ms, &stubRemote{}, &stubTranscriber{})

	req := httptest.NewRequest("GET", "/api/v1/sessions/sess-1/summary", nil)
	w := httptest.NewRecorder()
	srv.router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var body map[string]any
	json.NewDecoder(w.Body).Decode(&body)
	if body["summary"] != "the summary" {
		t.Errorf("unexpected summary %v", body["summary"])
	}
	if body["status"] != "completed" {
		t.Errorf("unexpected status %v", body["status"])
	}
	if body["lang"] != "en" {
		t.Errorf("unexpected lang %v", body["lang"])
	}
}

func TestGetSummary_DefaultStatus(t *testing.T) {
	ms := testutil.NewMockStore()
	ms.SetSession("fresh", store.SessionRow{})
	srv := setupServer(ms, &stubRemote{}, &stubTranscriber{})

	req := httptest.NewRequest("GET", "/api/v1/sessions/fresh/summary", nil)
	w := httptest.NewRecorder()
	srv.router.ServeHTTP(w, req)

	var body map[string]any
	json.NewDecoder(w.Body).Decode(&body)
	if body["status"] != "not_available" {
		t.Errorf("expected not_available, got %v", body["status"])
	}
}

func TestGetSummary_NotFound(t *testing.T) {
	srv := setupServer(testutil.NewMockStore(), &stubRemote{}, &stubTranscriber{})

	req := httptest.NewRequest("GET", "/api/v1/sessions/ghost/summary", nil)
	w := httptest.NewRecorder()
	srv.router.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", w.Code)
	}
}

func TestTranscribeAudio_Success(t *testing.T) {
	srv := setupServer(testutil.NewMockStore(),
		&stubRemote{text: "short summary", ok: true},
		&stubTranscriber{text: "the spoken words"},
	)

	req := httptest.NewRequest("POST", "/api/v1/transcriptions", bytes.NewReader([]byte("fake-audio-bytes")))
	req.Header.Set("Content-Type", "audio/wav")
	w := httptest.NewRecorder()
	srv.router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var body map[string]string
	json.NewDecoder(w.Body).Decode(&body)
	if body["transcript"] != "the spoken words" {
		t.Errorf("unexpected transcript %q", body["transcript"])
	}
	if body["summary"] != "short summary" {
		t.Errorf("unexpected summary %q", body["summary"])
	}
}

func TestTranscribeAudio_EmptyBody(t *testing.T) {
	srv := setupServer(testutil.NewMockStore(), &stubRemote{ok: true}, &stubTranscriber{text: "words"})

	req := httptest.NewRequest("POST", "/api/v1/transcriptions", nil)
	w := httptest.NewRecorder()
	srv.router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
}

func TestTranscribeAudio_UpstreamFailureSurfaces(t *testing.T) {
	srv := setupServer(testutil.NewMockStore(),
		&stubRemote{ok: true},
		&stubTranscriber{err: errors.New("stt unavailable")},
	)

	req := httptest.NewRequest("POST", "/api/v1/transcriptions", bytes.NewReader([]byte("audio")))
	w := httptest.NewRecorder()
	srv.router.ServeHTTP(w, req)

	if w.Code != http.StatusBadGateway {
		t.Errorf("expected 502, got %d", w.Code)
	}
}

func TestTranscribeAudio_NoFallback(t *testing.T) {
	// Remote summarizer down: the session path would fall back, this one must not.
	srv := setupServer(testutil.NewMockStore(),
		&stubRemote{ok: false},
		&stubTranscriber{text: "words"},
	)

	req := httptest.NewRequest("POST", "/api/v1/transcriptions", bytes.NewReader([]byte("audio")))
	w := httptest.NewRecorder()
	srv.router.ServeHTTP(w, req)

	if w.Code != http.StatusBadGateway {
		t.Errorf("expected 502, got %d", w.Code)
	}
}

func TestSummaryMetricsEndpoint(t *testing.T) {
	ms := testutil.NewMockStore()
	ms.SetSession("sess-1", store.SessionRow{})
	srv := setupServer(ms, &stubRemote{}, &stubTranscriber{})

	req := httptest.NewRequest("GET", "/api/v1/metrics/summaries", nil)
	w := httptest.NewRecorder()
	srv.router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var body []map[string]any
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
}

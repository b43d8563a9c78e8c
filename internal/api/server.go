package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/MeetGangani/study-backend/internal/session"
	"github.com/MeetGangani/study-backend/internal/store"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// maxAudioBytes caps single-shot transcription uploads.
const maxAudioBytes = 25 << 20

// SessionService is the summarization pipeline behind the HTTP surface.
// Implemented by *session.Service.
type SessionService interface {
	SubmitTranscript(ctx context.Context, sessionID string, frag session.Fragment) (string, error)
	GetSummary(ctx context.Context, sessionID string) (session.Snapshot, error)
	TranscribeAndSummarize(ctx context.Context, audio []byte, mimeType string) (string, string, error)
}

type Server struct {
	store  store.SessionStore
	svc    SessionService
	router chi.Router
	port   int
}

func NewServer(s store.SessionStore, svc SessionService, port int) *Server {
	srv := &Server{
		store: s,
		svc:   svc,
		port:  port,
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RealIP)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", srv.handleHealth)
		r.Post("/sessions/{sessionID}/transcript", srv.handleSubmitTranscript)
		r.Get("/sessions/{sessionID}/summary", srv.handleGetSummary)
		r.Post("/transcriptions", srv.handleTranscribeAudio)
		r.Get("/metrics/summaries", srv.handleSummaryMetrics)
	})

	srv.router = r
	return srv
}

func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.port)
	slog.Info("starting HTTP API", "addr", addr)
	return http.ListenAndServe(addr, s.router)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"service": "summarizer",
	})
}

type submitRequest struct {
	Text string `json:"text"`
	Lang string `json:"lang"`
}

func (s *Server) handleSubmitTranscript(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")

	var req submitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON body"})
		return
	}

	summaryText, err := s.svc.SubmitTranscript(r.Context(), sessionID, session.Fragment{
		Text: req.Text,
		Lang: req.Lang,
	})
	if err != nil {
		switch {
		case errors.Is(err, session.ErrEmptyFragment):
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "transcript text is required"})
		case errors.Is(err, store.ErrNotFound):
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "session not found"})
		default:
			slog.Error("submit transcript failed", "session_id", sessionID, "error", err)
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
		}
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"summary": summaryText})
}

func (s *Server) handleGetSummary(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")

	snap, err := s.svc.GetSummary(r.Context(), sessionID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "session not found"})
			return
		}
		slog.Error("get summary failed", "session_id", sessionID, "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"transcript": snap.Transcript,
		"summary":    snap.Summary,
		"status":     snap.Status,
		"lang":       snap.Lang,
	})
}

func (s *Server) handleTranscribeAudio(w http.ResponseWriter, r *http.Request) {
	audio, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxAudioBytes))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "failed to read audio body"})
		return
	}

	mimeType := r.Header.Get("Content-Type")
	if mimeType == "" {
		mimeType = "audio/mpeg"
	}

	transcript, summaryText, err := s.svc.TranscribeAndSummarize(r.Context(), audio, mimeType)
	if err != nil {
		if errors.Is(err, session.ErrEmptyAudio) {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "audio payload is required"})
			return
		}
		// No fallback on this path; upstream failures surface to the caller.
		slog.Error("transcribe and summarize failed", "error", err)
		writeJSON(w, http.StatusBadGateway, map[string]string{"error": "transcription service unavailable"})
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"transcript": transcript,
		"summary":    summaryText,
	})
}

func (s *Server) handleSummaryMetrics(w http.ResponseWriter, r *http.Request) {
	limit := 30
	if l := r.URL.Query().Get("limit"); l != "" {
		if n, err := strconv.Atoi(l); err == nil && n > 0 {
			limit = n
		}
	}

	rows, err := s.store.GetSummaryMetrics(r.Context(), limit)
	if err != nil {
		slog.Error("query summary metrics failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
		return
	}

	results := make([]map[string]any, 0, len(rows))
	for _, row := range rows {
		results = append(results, map[string]any{
			"metric_date":  row.MetricDate.Format("2006-01-02"),
			"remote_count": row.RemoteCount,
			"local_count":  row.LocalCount,
		})
	}
	writeJSON(w, http.StatusOK, results)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

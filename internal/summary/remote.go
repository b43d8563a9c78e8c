package summary

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"google.golang.org/genai"
)

// maxTranscriptChars bounds the transcript sent to the model. Truncation keeps
// the tail so the latest discussion is always included.
const maxTranscriptChars = 16000

const defaultModel = "gemini-2.5-flash"

const notetakerPrompt = `You are an expert note-taker for live study sessions. Summarize the transcript below into clear, structured notes.

Requirements:
- Use markdown headings to group related topics
- Bullet points for the main ideas, in the order they were discussed
- Include an "Action Items" section listing concrete follow-ups, if any came up
- End with a "Key Takeaways" section
- Stay objective and do not invent anything that is not in the transcript

Transcript:
---
%s
---`

// Remote summarizes transcripts through the Gemini API. Every failure mode —
// missing credential, network error, malformed or empty response — is reported
// as unavailable rather than an error, so callers always have a fallback branch.
type Remote struct {
	apiKey      string
	model       string
	temperature float32
}

// NewRemote creates a Gemini-backed summarizer. An empty apiKey is valid and
// makes the summarizer permanently unavailable.
func NewRemote(apiKey, model string) *Remote {
	if model == "" {
		model = defaultModel
	}
	return &Remote{
		apiKey:      apiKey,
		model:       model,
		temperature: 0.2,
	}
}

// Summarize sends the transcript to Gemini and returns the generated summary.
// ok is false whenever no usable summary could be produced.
func (r *Remote) Summarize(ctx context.Context, transcript string) (string, bool) {
	if r.apiKey == "" {
		slog.Debug("summary: no API key configured, remote summarizer unavailable")
		return "", false
	}

	prompt := fmt.Sprintf(notetakerPrompt, tailTruncate(transcript, maxTranscriptChars))

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  r.apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		slog.Warn("summary: failed to create Gemini client", "error", err)
		return "", false
	}

	result, err := client.Models.GenerateContent(ctx, r.model, genai.Text(prompt), &genai.GenerateContentConfig{
		Temperature: genai.Ptr(r.temperature),
	})
	if err != nil {
		slog.Warn("summary: remote summarization failed", "model", r.model, "error", err)
		return "", false
	}

	text := strings.TrimSpace(responseText(result))
	if text == "" {
		slog.Warn("summary: empty response from Gemini", "model", r.model)
		return "", false
	}
	return text, true
}

// responseText concatenates the text parts of the first candidate.
func responseText(result *genai.GenerateContentResponse) string {
	if result == nil || len(result.Candidates) == 0 || result.Candidates[0].Content == nil {
		return ""
	}
	var text string
	for _, part := range result.Candidates[0].Content.Parts {
		if part.Text != "" {
			text += part.Text
		}
	}
	return text
}

// tailTruncate keeps the last max characters of s.
func tailTruncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[len(runes)-max:])
}

package transcribe

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"
)

const defaultModel = "gemini-2.5-flash"

const transcribePrompt = `Transcribe the spoken audio verbatim. Return only the transcript text, with no commentary, labels, or timestamps.`

// Transcriber converts raw audio to text through the Gemini API. Unlike the
// session summarization path there is no fallback here: failures are returned
// as errors for the caller to surface.
type Transcriber struct {
	apiKey string
	model  string
}

func New(apiKey, model string) *Transcriber {
	if model == "" {
		model = defaultModel
	}
	return &Transcriber{apiKey: apiKey, model: model}
}

// Transcribe sends the audio bytes to Gemini and returns the transcript text.
func (t *Transcriber) Transcribe(ctx context.Context, audio []byte, mimeType string) (string, error) {
	if t.apiKey == "" {
		return "", fmt.Errorf("transcription API key not configured")
	}
	if len(audio) == 0 {
		return "", fmt.Errorf("empty audio payload")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  t.apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return "", fmt.Errorf("create client: %w", err)
	}

	contents := []*genai.Content{
		genai.NewContentFromParts([]*genai.Part{
			genai.NewPartFromBytes(audio, mimeType),
			genai.NewPartFromText(transcribePrompt),
		}, genai.RoleUser),
	}

	result, err := client.Models.GenerateContent(ctx, t.model, contents, nil)
	if err != nil {
		return "", fmt.Errorf("generate content: %w", err)
	}

	text := strings.TrimSpace(partsText(result))
	if text == "" {
		return "", fmt.Errorf("empty transcription response")
	}
	return text, nil
}

// partsText concatenates the text parts of the first candidate.
func partsText(result *genai.GenerateContentResponse) string {
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

package config

import (
	"os"
	"strconv"
)

type Config struct {
	Port                int
	DatabaseURL         string
	NatsURL             string
	GeminiAPIKey        string
	TranscribeAPIKey    string
	SummaryModel        string
	TranscribeModel     string
	MaxSummarySentences int
	LogLevel            string
	SlackBotToken       string
	SlackAlertChannel   string
}

func Load() Config {
	cfg := Config{
		Port:                envInt("SUMMARIZER_PORT", 8600),
		DatabaseURL:         envStr("DATABASE_URL", ""),
		NatsURL:             envStr("NATS_URL", ""),
		GeminiAPIKey:        envStr("GEMINI_API_KEY", ""),
		TranscribeAPIKey:    envStr("TRANSCRIBE_API_KEY", ""),
		SummaryModel:        envStr("SUMMARY_MODEL", "gemini-2.5-flash"),
		TranscribeModel:     envStr("TRANSCRIBE_MODEL", "gemini-2.5-flash"),
		MaxSummarySentences: envInt("MAX_SUMMARY_SENTENCES", 5),
		LogLevel:            envStr("LOG_LEVEL", "info"),
		SlackBotToken:       envStr("SLACK_BOT_TOKEN", ""),
		SlackAlertChannel:   envStr("SLACK_ALERT_CHANNEL", ""),
	}

	// The transcription credential defaults to the summarizer credential when
	// both point at the same Gemini project.
	if cfg.TranscribeAPIKey == "" {
		cfg.TranscribeAPIKey = cfg.GeminiAPIKey
	}

	return cfg
}

func envStr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

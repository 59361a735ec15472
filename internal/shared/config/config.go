package config

import (
	"fmt"
	"log"
	"strings"

	"github.com/caarlos0/env/v11"
)

// Analyzer providers.
const (
	ProviderHuggingFace = "huggingface"
	ProviderOpenAI      = "openai"
	ProviderNone        = "none"
)

// Config holds application configuration.
type Config struct {
	Port            string   `env:"PORT" envDefault:"8080"`
	Env             string   `env:"ENV" envDefault:"dev"`
	CORSAllowOrigin []string `env:"CORS_ALLOW_ORIGINS" envDefault:"http://localhost:5173"`

	HistoryCapacity int    `env:"HISTORY_CAPACITY" envDefault:"5"`
	HistoryEviction string `env:"HISTORY_EVICTION" envDefault:"oldest"`

	AnalyzerProvider       string `env:"ANALYZER_PROVIDER" envDefault:"huggingface"`
	AnalyzerTimeoutSeconds int    `env:"ANALYZER_TIMEOUT_SECONDS" envDefault:"120"`
	KeywordsMaxCount       int    `env:"KEYWORDS_MAX_COUNT" envDefault:"50"`

	HFAPIToken       string `env:"HF_API_TOKEN"`
	HFBaseURL        string `env:"HF_BASE_URL" envDefault:"https://router.huggingface.co/hf-inference"`
	HFSummaryModel   string `env:"HF_SUMMARY_MODEL" envDefault:"facebook/bart-large-cnn"`
	HFSentimentModel string `env:"HF_SENTIMENT_MODEL" envDefault:"distilbert-base-uncased-finetuned-sst-2-english"`

	OpenAIAPIKey string `env:"OPENAI_API_KEY"`
	OpenAIModel  string `env:"OPENAI_MODEL" envDefault:"gpt-4o-mini"`

	RateLimitRPS   float64 `env:"RATE_LIMIT_RPS" envDefault:"5"`
	RateLimitBurst int     `env:"RATE_LIMIT_BURST" envDefault:"10"`
	MaxUploadBytes int64   `env:"MAX_UPLOAD_BYTES" envDefault:"5242880"`
}

// Load reads configuration from environment variables with sensible defaults.
func Load() Config {
	// Best-effort load of local env files for dev convenience.
	loadEnvFiles(".env", "cmd/.env")

	cfg, err := Parse()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	return cfg
}

// Parse reads the environment into a normalized Config without touching env files.
func Parse() (Config, error) {
	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return Normalize(cfg), nil
}

// Normalize fills zero values and canonicalizes enum-like fields.
func Normalize(cfg Config) Config {
	cfg.Env = normalizeEnv(cfg.Env)
	cfg.AnalyzerProvider = normalizeProvider(cfg.AnalyzerProvider)
	cfg.HistoryEviction = strings.ToLower(strings.TrimSpace(cfg.HistoryEviction))
	if cfg.HistoryEviction == "" {
		cfg.HistoryEviction = "oldest"
	}
	if cfg.HistoryCapacity <= 0 {
		cfg.HistoryCapacity = 5
	}
	if cfg.AnalyzerTimeoutSeconds <= 0 {
		cfg.AnalyzerTimeoutSeconds = 120
	}
	if cfg.KeywordsMaxCount <= 0 {
		cfg.KeywordsMaxCount = 50
	}
	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = 5 << 20
	}
	cfg.CORSAllowOrigin = trimAll(cfg.CORSAllowOrigin)
	return cfg
}

func trimAll(parts []string) []string {
	var out []string
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func normalizeEnv(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "production", "prod":
		return "production"
	case "staging":
		return "staging"
	case "local":
		return "local"
	default:
		return "dev"
	}
}

func normalizeProvider(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "openai":
		return ProviderOpenAI
	case "none", "off", "disabled":
		return ProviderNone
	default:
		return ProviderHuggingFace
	}
}

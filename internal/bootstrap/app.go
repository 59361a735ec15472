package bootstrap

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"nlp-backend/internal/analysis"
	"nlp-backend/internal/analyzers"
	"nlp-backend/internal/analyzers/huggingface"
	"nlp-backend/internal/analyzers/openai"
	"nlp-backend/internal/analyzers/rake"
	"nlp-backend/internal/history"
	"nlp-backend/internal/services/health"
	"nlp-backend/internal/shared/config"
	"nlp-backend/internal/shared/server"
)

// App holds shared dependencies and the assembled router.
type App struct {
	Config          config.Config
	Router          *gin.Engine
	Analyzers       analyzers.Set
	History         *history.Buffer[analysis.Record]
	AnalysisService *analysis.Service
	AnalysisHandler *analysis.Handler
	Health          *health.Service
}

// Build wires the analyzers selected by cfg and the HTTP router.
func Build(cfg config.Config) (*App, error) {
	cfg = config.Normalize(cfg)
	set, err := buildAnalyzers(cfg)
	if err != nil {
		return nil, err
	}
	return BuildWithAnalyzers(cfg, set)
}

// BuildWithAnalyzers wires the router around a caller supplied analyzer set.
func BuildWithAnalyzers(cfg config.Config, set analyzers.Set) (*App, error) {
	cfg = config.Normalize(cfg)
	if set.Summarizer == nil || set.Sentiment == nil || set.Keywords == nil {
		return nil, errors.New("bootstrap: analyzer set is incomplete")
	}

	policy, err := history.ParsePolicy(cfg.HistoryEviction)
	if err != nil {
		return nil, fmt.Errorf("bootstrap: %w", err)
	}
	buf := history.New[analysis.Record](cfg.HistoryCapacity, policy)

	svc := analysis.NewService(set, buf)
	svc.KeywordsMaxCount = cfg.KeywordsMaxCount

	app := &App{
		Config:          cfg,
		Analyzers:       set,
		History:         buf,
		AnalysisService: svc,
		AnalysisHandler: analysis.NewHandler(svc, cfg.MaxUploadBytes),
		Health:          health.NewService(set.Provider, buf.Cap()),
	}
	app.Router = server.NewRouter(server.RouterDeps{
		Config:          cfg,
		AnalysisHandler: app.AnalysisHandler,
		Health:          app.Health,
	})
	return app, nil
}

func buildAnalyzers(cfg config.Config) (analyzers.Set, error) {
	timeout := time.Duration(cfg.AnalyzerTimeoutSeconds) * time.Second
	set := analyzers.Set{
		Provider: cfg.AnalyzerProvider,
		Keywords: rake.New(),
	}

	switch cfg.AnalyzerProvider {
	case config.ProviderOpenAI:
		client, err := openai.NewClient(openai.Config{
			APIKey:  cfg.OpenAIAPIKey,
			Model:   cfg.OpenAIModel,
			Timeout: timeout,
		})
		if err != nil {
			return analyzers.Set{}, fmt.Errorf("bootstrap: openai: %w", err)
		}
		set.Summarizer = client
		set.Sentiment = client
	case config.ProviderHuggingFace:
		if strings.TrimSpace(cfg.HFAPIToken) == "" {
			log.Printf("bootstrap: HF_API_TOKEN empty; anonymous inference requests may be throttled")
		}
		client, err := huggingface.NewClient(huggingface.Config{
			BaseURL:        cfg.HFBaseURL,
			APIToken:       cfg.HFAPIToken,
			SummaryModel:   cfg.HFSummaryModel,
			SentimentModel: cfg.HFSentimentModel,
			Timeout:        timeout,
		})
		if err != nil {
			return analyzers.Set{}, fmt.Errorf("bootstrap: huggingface: %w", err)
		}
		set.Summarizer = client
		set.Sentiment = client
	default:
		log.Printf("bootstrap: ANALYZER_PROVIDER=%s; summary and sentiment disabled", cfg.AnalyzerProvider)
		set.Summarizer = analyzers.Placeholder{}
		set.Sentiment = analyzers.Placeholder{}
		return set, nil
	}

	return analyzers.WithRetry(set), nil
}

package analysis

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"nlp-backend/internal/analyzers"
	"nlp-backend/internal/history"
	"nlp-backend/internal/shared/metrics"
	"nlp-backend/internal/shared/telemetry"
	"nlp-backend/internal/shared/util"
)

const (
	summaryMaxLength         = 170
	combinedSummaryMaxLength = 130
	summaryMinLength         = 30

	// KeywordCount is the number of phrases the endpoints ask for by default.
	KeywordCount = 8

	defaultKeywordsMaxCount = 50
)

// Service runs analyses and records them in the history buffer.
type Service struct {
	Analyzers        analyzers.Set
	Records          *history.Buffer[Record]
	KeywordsMaxCount int
	Now              func() time.Time
	NewID            func() string
}

// NewService constructs a Service. A nil buffer gets the default capacity and policy.
func NewService(set analyzers.Set, buf *history.Buffer[Record]) *Service {
	if buf == nil {
		buf = history.New[Record](history.DefaultCapacity, history.EvictOldest)
	}
	return &Service{
		Analyzers:        set,
		Records:          buf,
		KeywordsMaxCount: defaultKeywordsMaxCount,
		Now:              func() time.Time { return time.Now().UTC() },
		NewID:            uuid.NewString,
	}
}

// Summarize summarizes text and records the result.
func (s *Service) Summarize(ctx context.Context, text string) (string, error) {
	input, err := cleanText(text)
	if err != nil {
		return "", err
	}
	var summary string
	err = s.track(ctx, TypeSummary, input, func() error {
		var err error
		summary, err = s.Analyzers.Summarizer.Summarize(ctx, input, analyzers.SummaryOptions{
			MaxLength: summaryMaxLength,
			MinLength: summaryMinLength,
		})
		return err
	})
	if err != nil {
		return "", err
	}
	s.record(TypeSummary, input, summary)
	return summary, nil
}

// Sentiment classifies text and records the result.
func (s *Service) Sentiment(ctx context.Context, text string) (analyzers.Sentiment, error) {
	input, err := cleanText(text)
	if err != nil {
		return analyzers.Sentiment{}, err
	}
	var sentiment analyzers.Sentiment
	err = s.track(ctx, TypeSentiment, input, func() error {
		var err error
		sentiment, err = s.Analyzers.Sentiment.Classify(ctx, input)
		return err
	})
	if err != nil {
		return analyzers.Sentiment{}, err
	}
	s.record(TypeSentiment, input, sentiment)
	return sentiment, nil
}

// Keywords extracts up to count key phrases and records them.
func (s *Service) Keywords(ctx context.Context, text string, count int) ([]string, error) {
	input, err := cleanText(text)
	if err != nil {
		return nil, err
	}
	var keywords []string
	err = s.track(ctx, TypeKeywords, input, func() error {
		var err error
		keywords, err = s.extract(ctx, input, count)
		return err
	})
	if err != nil {
		return nil, err
	}
	s.record(TypeKeywords, input, keywords)
	return keywords, nil
}

// AnalyzeAll runs every analyzer on text concurrently and records a single combined
// entry. Nothing is recorded when any analyzer fails.
func (s *Service) AnalyzeAll(ctx context.Context, text string) (Combined, error) {
	input, err := cleanText(text)
	if err != nil {
		return Combined{}, err
	}

	var out Combined
	err = s.track(ctx, TypeAll, input, func() error {
		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			summary, err := s.Analyzers.Summarizer.Summarize(gctx, input, analyzers.SummaryOptions{
				MaxLength: combinedSummaryMaxLength,
				MinLength: summaryMinLength,
			})
			out.Summary = summary
			return err
		})
		g.Go(func() error {
			sentiment, err := s.Analyzers.Sentiment.Classify(gctx, input)
			out.Sentiment = sentiment
			return err
		})
		g.Go(func() error {
			keywords, err := s.extract(gctx, input, KeywordCount)
			out.Keywords = keywords
			return err
		})
		return g.Wait()
	})
	if err != nil {
		return Combined{}, err
	}
	s.record(TypeAll, input, out)
	return out, nil
}

// History returns the stored records, oldest first.
func (s *Service) History() []Record {
	return s.Records.Snapshot()
}

// KeywordCountFor resolves a caller supplied count. Missing or out of range values
// fall back to KeywordCount.
func (s *Service) KeywordCountFor(requested *int) int {
	maxCount := s.KeywordsMaxCount
	if maxCount <= 0 {
		maxCount = defaultKeywordsMaxCount
	}
	if requested == nil || *requested < 1 || *requested > maxCount {
		return KeywordCount
	}
	return *requested
}

func (s *Service) extract(ctx context.Context, input string, count int) ([]string, error) {
	keywords, err := s.Analyzers.Keywords.Extract(ctx, input, count)
	if err != nil {
		return nil, err
	}
	if keywords == nil {
		keywords = []string{}
	}
	if count > 0 && len(keywords) > count {
		keywords = keywords[:count]
	}
	return keywords, nil
}

func (s *Service) track(ctx context.Context, kind RecordType, input string, run func() error) error {
	metrics.IncAnalysisStarted(string(kind))
	start := time.Now()
	err := run()
	elapsed := time.Since(start)
	metrics.ObserveAnalysisDurationMs(float64(elapsed.Microseconds()) / 1000.0)
	if err != nil {
		metrics.IncAnalysisFailed(string(kind))
		telemetry.Error("analysis.failed", map[string]any{
			"type":           string(kind),
			"provider":       s.Analyzers.Provider,
			"input_sha":      util.Fingerprint(input),
			"duration_ms":    float64(elapsed.Microseconds()) / 1000.0,
			"error":          err,
			"not_configured": errors.Is(err, analyzers.ErrNotConfigured),
			"canceled":       ctx.Err() != nil,
		})
		return err
	}
	metrics.IncAnalysisCompleted(string(kind))
	return nil
}

func (s *Service) record(kind RecordType, input string, output any) {
	rec := Record{
		ID:        s.NewID(),
		Type:      kind,
		Input:     input,
		Output:    output,
		CreatedAt: s.Now(),
	}
	stored, evicted := s.Records.Append(rec)
	if evicted || !stored {
		metrics.IncHistoryEvicted(string(s.Records.Policy()))
	}
}

func cleanText(text string) (string, error) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return "", ErrNoText
	}
	return trimmed, nil
}

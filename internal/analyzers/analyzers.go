// Package analyzers defines the text analysis collaborators used by the API.
// Implementations live in subpackages; this package only holds the contracts,
// a placeholder for unconfigured providers and a retry wrapper.
package analyzers

import (
	"context"
	"errors"
)

// DefaultKeywordCount is used when a caller asks for a non-positive number of keywords.
const DefaultKeywordCount = 6

// ErrNotConfigured is returned by the placeholder analyzers.
var ErrNotConfigured = errors.New("analyzer not configured")

// SummaryOptions bounds the generated summary length, in model tokens.
type SummaryOptions struct {
	MaxLength int
	MinLength int
}

// Sentiment is a classification label with its confidence.
type Sentiment struct {
	Label string  `json:"label"`
	Score float64 `json:"score"`
}

// Summarizer produces an abstractive summary of text.
type Summarizer interface {
	Summarize(ctx context.Context, text string, opts SummaryOptions) (string, error)
}

// SentimentAnalyzer classifies the overall sentiment of text.
type SentimentAnalyzer interface {
	Classify(ctx context.Context, text string) (Sentiment, error)
}

// KeywordExtractor returns up to topN ranked key phrases, best first.
type KeywordExtractor interface {
	Extract(ctx context.Context, text string, topN int) ([]string, error)
}

// Set groups the analyzers the service dispatches to.
type Set struct {
	Provider   string
	Summarizer Summarizer
	Sentiment  SentimentAnalyzer
	Keywords   KeywordExtractor
}

// Placeholder satisfies every analyzer interface and always fails with ErrNotConfigured.
type Placeholder struct{}

// Summarize returns ErrNotConfigured.
func (Placeholder) Summarize(ctx context.Context, text string, opts SummaryOptions) (string, error) {
	return "", ErrNotConfigured
}

// Classify returns ErrNotConfigured.
func (Placeholder) Classify(ctx context.Context, text string) (Sentiment, error) {
	return Sentiment{}, ErrNotConfigured
}

// Extract returns ErrNotConfigured.
func (Placeholder) Extract(ctx context.Context, text string, topN int) ([]string, error) {
	return nil, ErrNotConfigured
}

var (
	_ Summarizer        = Placeholder{}
	_ SentimentAnalyzer = Placeholder{}
	_ KeywordExtractor  = Placeholder{}
)

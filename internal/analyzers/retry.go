package analyzers

import (
	"context"
	"errors"
	"net"
	"strings"
	"time"

	"nlp-backend/internal/shared/telemetry"
)

const retryBaseDelay = 300 * time.Millisecond

// WithRetry wraps the remote analyzers of set so transient failures are retried once.
// Keyword extraction runs in process and is left untouched.
func WithRetry(set Set) Set {
	out := set
	if set.Summarizer != nil {
		out.Summarizer = retryingSummarizer{base: set.Summarizer, provider: set.Provider, delay: retryBaseDelay}
	}
	if set.Sentiment != nil {
		out.Sentiment = retryingSentiment{base: set.Sentiment, provider: set.Provider, delay: retryBaseDelay}
	}
	return out
}

type retryingSummarizer struct {
	base     Summarizer
	provider string
	delay    time.Duration
}

func (r retryingSummarizer) Summarize(ctx context.Context, text string, opts SummaryOptions) (string, error) {
	var out string
	err := retryOnce(ctx, r.provider, "summarize", r.delay, func() error {
		var err error
		out, err = r.base.Summarize(ctx, text, opts)
		return err
	})
	return out, err
}

type retryingSentiment struct {
	base     SentimentAnalyzer
	provider string
	delay    time.Duration
}

func (r retryingSentiment) Classify(ctx context.Context, text string) (Sentiment, error) {
	var out Sentiment
	err := retryOnce(ctx, r.provider, "classify", r.delay, func() error {
		var err error
		out, err = r.base.Classify(ctx, text)
		return err
	})
	return out, err
}

func retryOnce(ctx context.Context, provider, op string, delay time.Duration, call func() error) error {
	err := call()
	if err == nil || !ShouldRetry(err) {
		return err
	}

	telemetry.Warn("analyzer.retry", map[string]any{
		"provider": provider,
		"op":       op,
		"attempt":  1,
		"error":    err,
	})
	select {
	case <-time.After(delay):
	case <-ctx.Done():
		return ctx.Err()
	}
	return call()
}

// ShouldRetry reports whether err looks like a transient provider failure.
func ShouldRetry(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrNotConfigured) || errors.Is(err, context.Canceled) {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}

	msg := strings.ToLower(err.Error())
	if strings.Contains(msg, "http status 5") || strings.Contains(msg, "http status 429") || strings.Contains(msg, "server_error") {
		return true
	}
	// Hugging Face answers 503 with "is currently loading" while a model warms up.
	if strings.Contains(msg, "currently loading") {
		return true
	}
	for _, marker := range []string{"connection reset", "connection refused", "broken pipe", "tls handshake timeout", "unexpected eof"} {
		if strings.Contains(msg, marker) {
			return true
		}
	}
	return false
}

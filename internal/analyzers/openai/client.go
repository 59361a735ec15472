// Package openai implements the summarizer and sentiment analyzer on top of the
// OpenAI Responses API.
package openai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"github.com/openai/openai-go/v3/responses"
	"github.com/openai/openai-go/v3/shared"

	"nlp-backend/internal/analyzers"
)

const (
	DefaultModel = "gpt-4o-mini"

	summaryMaxOutputTokens   int64 = 512
	sentimentMaxOutputTokens int64 = 64

	summaryInstructions = `Summarize the text the user sends.

Rules:
- Between %d and %d words.
- Keep the key facts (names, numbers, dates).
- Neutral tone, plain prose, no lists.
- Answer in the language of the text.
- Output only the summary.`

	sentimentInstructions = `Classify the overall sentiment of the text the user sends.
Answer with a single JSON object and nothing else:
{"label": "POSITIVE" or "NEGATIVE", "score": confidence between 0 and 1}`
)

// Config configures a Client.
type Config struct {
	APIKey  string
	Model   string
	BaseURL string
	Timeout time.Duration
}

// Client implements analyzers.Summarizer and analyzers.SentimentAnalyzer.
type Client struct {
	client openai.Client
	model  string
}

// NewClient constructs a Client.
func NewClient(cfg Config) (*Client, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, errors.New("OPENAI_API_KEY is required")
	}
	model := strings.TrimSpace(cfg.Model)
	if model == "" {
		model = DefaultModel
	}
	opts := []option.RequestOption{option.WithAPIKey(cfg.APIKey)}
	if base := strings.TrimSpace(cfg.BaseURL); base != "" {
		opts = append(opts, option.WithBaseURL(base))
	}
	if cfg.Timeout > 0 {
		opts = append(opts, option.WithRequestTimeout(cfg.Timeout))
	}
	return &Client{
		client: openai.NewClient(opts...),
		model:  model,
	}, nil
}

// Summarize asks the model for a summary bounded by opts.
func (c *Client) Summarize(ctx context.Context, text string, opts analyzers.SummaryOptions) (string, error) {
	minWords, maxWords := opts.MinLength, opts.MaxLength
	if maxWords <= 0 {
		maxWords = 130
	}
	if minWords <= 0 || minWords > maxWords {
		minWords = 1
	}
	out, err := c.complete(ctx, fmt.Sprintf(summaryInstructions, minWords, maxWords), text, summaryMaxOutputTokens)
	if err != nil {
		return "", err
	}
	return out, nil
}

// Classify asks the model for a POSITIVE/NEGATIVE label.
func (c *Client) Classify(ctx context.Context, text string) (analyzers.Sentiment, error) {
	out, err := c.complete(ctx, sentimentInstructions, text, sentimentMaxOutputTokens)
	if err != nil {
		return analyzers.Sentiment{}, err
	}
	return parseSentiment(out)
}

func (c *Client) complete(ctx context.Context, instructions, input string, maxOutputTokens int64) (string, error) {
	params := responses.ResponseNewParams{
		Model:           shared.ResponsesModel(c.model),
		MaxOutputTokens: openai.Int(maxOutputTokens),
		Instructions:    openai.String(instructions),
		Input: responses.ResponseNewParamsInputUnion{
			OfString: openai.String(input),
		},
	}
	// Reasoning models reject sampling parameters.
	if !isReasoningModel(c.model) {
		params.Temperature = openai.Float(0)
	}

	resp, err := c.client.Responses.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("openai request: %w", err)
	}
	if resp.Status == "incomplete" {
		return "", fmt.Errorf("openai response incomplete (reason = %s)", resp.IncompleteDetails.Reason)
	}
	out := strings.TrimSpace(resp.OutputText())
	if out == "" {
		return "", fmt.Errorf("openai response empty (status = %s)", resp.Status)
	}
	return out, nil
}

func parseSentiment(raw string) (analyzers.Sentiment, error) {
	cleaned := strings.TrimSpace(raw)
	cleaned = strings.TrimPrefix(cleaned, "```json")
	cleaned = strings.TrimPrefix(cleaned, "```")
	cleaned = strings.TrimSuffix(cleaned, "```")
	cleaned = strings.TrimSpace(cleaned)

	var out analyzers.Sentiment
	if err := json.Unmarshal([]byte(cleaned), &out); err != nil {
		return analyzers.Sentiment{}, fmt.Errorf("openai sentiment parse: %w", err)
	}
	out.Label = strings.ToUpper(strings.TrimSpace(out.Label))
	switch out.Label {
	case "POSITIVE", "NEGATIVE":
	default:
		return analyzers.Sentiment{}, fmt.Errorf("openai sentiment label %q", out.Label)
	}
	if math.IsNaN(out.Score) {
		out.Score = 0
	}
	out.Score = math.Min(1, math.Max(0, out.Score))
	return out, nil
}

func isReasoningModel(model string) bool {
	m := strings.ToLower(strings.TrimSpace(model))
	return strings.HasPrefix(m, "gpt-5") || strings.HasPrefix(m, "o1") || strings.HasPrefix(m, "o3") || strings.HasPrefix(m, "o4")
}

var (
	_ analyzers.Summarizer        = (*Client)(nil)
	_ analyzers.SentimentAnalyzer = (*Client)(nil)
)

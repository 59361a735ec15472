// Package huggingface calls the Hugging Face Inference API for summarization and
// sentiment classification.
package huggingface

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"nlp-backend/internal/analyzers"
)

const (
	DefaultBaseURL        = "https://router.huggingface.co/hf-inference"
	DefaultSummaryModel   = "facebook/bart-large-cnn"
	DefaultSentimentModel = "distilbert-base-uncased-finetuned-sst-2-english"

	maxResponseBytes = 1 << 20
)

// Config configures a Client. Zero values fall back to the defaults above.
type Config struct {
	BaseURL        string
	APIToken       string
	SummaryModel   string
	SentimentModel string
	Timeout        time.Duration
	HTTPClient     *http.Client
}

// Client implements analyzers.Summarizer and analyzers.SentimentAnalyzer.
type Client struct {
	baseURL        string
	apiToken       string
	summaryModel   string
	sentimentModel string
	httpClient     *http.Client
}

// NewClient constructs a Client.
func NewClient(cfg Config) (*Client, error) {
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if _, err := url.Parse(baseURL); err != nil {
		return nil, fmt.Errorf("huggingface base url: %w", err)
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = 120 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	return &Client{
		baseURL:        baseURL,
		apiToken:       strings.TrimSpace(cfg.APIToken),
		summaryModel:   firstNonEmpty(cfg.SummaryModel, DefaultSummaryModel),
		sentimentModel: firstNonEmpty(cfg.SentimentModel, DefaultSentimentModel),
		httpClient:     httpClient,
	}, nil
}

type inferenceRequest struct {
	Inputs     string         `json:"inputs"`
	Parameters map[string]any `json:"parameters,omitempty"`
	Options    map[string]any `json:"options,omitempty"`
}

type summaryItem struct {
	SummaryText string `json:"summary_text"`
}

type errorBody struct {
	Error         string  `json:"error"`
	EstimatedTime float64 `json:"estimated_time,omitempty"`
}

// Summarize runs the summarization pipeline with greedy decoding.
func (c *Client) Summarize(ctx context.Context, text string, opts analyzers.SummaryOptions) (string, error) {
	params := map[string]any{
		"do_sample":  false,
		"truncation": true,
	}
	if opts.MaxLength > 0 {
		params["max_length"] = opts.MaxLength
	}
	if opts.MinLength > 0 {
		params["min_length"] = opts.MinLength
	}

	body, err := c.infer(ctx, c.summaryModel, inferenceRequest{Inputs: text, Parameters: params})
	if err != nil {
		return "", err
	}

	var items []summaryItem
	if err := json.Unmarshal(body, &items); err != nil {
		return "", fmt.Errorf("huggingface summary parse: %w", err)
	}
	if len(items) == 0 || strings.TrimSpace(items[0].SummaryText) == "" {
		return "", errors.New("huggingface summary response empty")
	}
	return strings.TrimSpace(items[0].SummaryText), nil
}

// Classify runs the sentiment pipeline and returns the top scoring label.
func (c *Client) Classify(ctx context.Context, text string) (analyzers.Sentiment, error) {
	body, err := c.infer(ctx, c.sentimentModel, inferenceRequest{
		Inputs:     text,
		Parameters: map[string]any{"truncation": true},
	})
	if err != nil {
		return analyzers.Sentiment{}, err
	}

	labels, err := parseLabels(body)
	if err != nil {
		return analyzers.Sentiment{}, err
	}
	best := labels[0]
	for _, l := range labels[1:] {
		if l.Score > best.Score {
			best = l
		}
	}
	best.Label = strings.ToUpper(strings.TrimSpace(best.Label))
	return best, nil
}

// parseLabels accepts both [[{label,score}...]] and [{label,score}...] shapes.
func parseLabels(body []byte) ([]analyzers.Sentiment, error) {
	var nested [][]analyzers.Sentiment
	if err := json.Unmarshal(body, &nested); err == nil {
		if len(nested) > 0 && len(nested[0]) > 0 {
			return nested[0], nil
		}
		return nil, errors.New("huggingface sentiment response empty")
	}
	var flat []analyzers.Sentiment
	if err := json.Unmarshal(body, &flat); err != nil {
		return nil, fmt.Errorf("huggingface sentiment parse: %w", err)
	}
	if len(flat) == 0 {
		return nil, errors.New("huggingface sentiment response empty")
	}
	return flat, nil
}

func (c *Client) infer(ctx context.Context, model string, in inferenceRequest) ([]byte, error) {
	if in.Options == nil {
		in.Options = map[string]any{"wait_for_model": true}
	}
	payload, err := json.Marshal(in)
	if err != nil {
		return nil, err
	}

	endpoint := c.baseURL + "/models/" + model
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if c.apiToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiToken)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("huggingface request model=%s: %w", model, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("huggingface read model=%s: %w", model, err)
	}
	if resp.StatusCode != http.StatusOK {
		var apiErr errorBody
		if json.Unmarshal(body, &apiErr) == nil && apiErr.Error != "" {
			return nil, fmt.Errorf("huggingface model=%s: http status %d: %s", model, resp.StatusCode, apiErr.Error)
		}
		return nil, fmt.Errorf("huggingface model=%s: http status %d", model, resp.StatusCode)
	}
	return body, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if trimmed := strings.TrimSpace(v); trimmed != "" {
			return trimmed
		}
	}
	return ""
}

var (
	_ analyzers.Summarizer        = (*Client)(nil)
	_ analyzers.SentimentAnalyzer = (*Client)(nil)
)

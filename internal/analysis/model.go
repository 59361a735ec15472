package analysis

import (
	"time"

	"nlp-backend/internal/analyzers"
)

// RecordType names the kind of analysis a record holds.
type RecordType string

const (
	TypeSummary   RecordType = "summary"
	TypeSentiment RecordType = "sentiment"
	TypeKeywords  RecordType = "keywords"
	TypeAll       RecordType = "all"
)

// Record is one stored analysis. Output depends on Type: a string for summary,
// analyzers.Sentiment for sentiment, []string for keywords and Combined for all.
type Record struct {
	ID        string     `json:"id"`
	Type      RecordType `json:"type"`
	Input     string     `json:"input"`
	Output    any        `json:"output"`
	CreatedAt time.Time  `json:"createdAt"`
}

// Combined is the result of running every analyzer on the same text.
type Combined struct {
	Summary   string              `json:"summary"`
	Sentiment analyzers.Sentiment `json:"sentiment"`
	Keywords  []string            `json:"keywords"`
}

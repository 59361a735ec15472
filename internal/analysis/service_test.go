package analysis

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"nlp-backend/internal/analyzers"
	"nlp-backend/internal/history"
)

type fakeSummarizer struct {
	mu    sync.Mutex
	calls []analyzers.SummaryOptions
	err   error
}

func (f *fakeSummarizer) Summarize(ctx context.Context, text string, opts analyzers.SummaryOptions) (string, error) {
	f.mu.Lock()
	f.calls = append(f.calls, opts)
	f.mu.Unlock()
	if f.err != nil {
		return "", f.err
	}
	words := strings.Fields(text)
	if len(words) > 3 {
		words = words[:3]
	}
	return strings.Join(words, " "), nil
}

type fakeSentiment struct {
	err error
}

func (f fakeSentiment) Classify(ctx context.Context, text string) (analyzers.Sentiment, error) {
	if f.err != nil {
		return analyzers.Sentiment{}, f.err
	}
	if strings.Contains(strings.ToLower(text), "bad") {
		return analyzers.Sentiment{Label: "NEGATIVE", Score: 0.9}, nil
	}
	return analyzers.Sentiment{Label: "POSITIVE", Score: 0.99}, nil
}

type fakeKeywords struct {
	mu    sync.Mutex
	topNs []int
}

func (f *fakeKeywords) Extract(ctx context.Context, text string, topN int) ([]string, error) {
	f.mu.Lock()
	f.topNs = append(f.topNs, topN)
	f.mu.Unlock()
	out := make([]string, 0, 20)
	for i := 0; i < 20; i++ {
		out = append(out, fmt.Sprintf("phrase %d", i))
	}
	return out, nil
}

func newTestService(t *testing.T, capacity int, policy history.Policy) (*Service, *fakeSummarizer, *fakeKeywords) {
	t.Helper()
	sum := &fakeSummarizer{}
	kw := &fakeKeywords{}
	svc := NewService(analyzers.Set{
		Provider:   "fake",
		Summarizer: sum,
		Sentiment:  fakeSentiment{},
		Keywords:   kw,
	}, history.New[Record](capacity, policy))
	n := 0
	svc.NewID = func() string {
		n++
		return fmt.Sprintf("rec-%d", n)
	}
	svc.Now = func() time.Time { return time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC) }
	return svc, sum, kw
}

func TestServiceRejectsBlankText(t *testing.T) {
	svc, _, _ := newTestService(t, 5, history.EvictOldest)
	ctx := context.Background()

	inputs := []string{"", "   ", "\n\t"}
	for _, in := range inputs {
		if _, err := svc.Summarize(ctx, in); !errors.Is(err, ErrNoText) {
			t.Fatalf("summarize(%q): expected ErrNoText, got %v", in, err)
		}
		if _, err := svc.Sentiment(ctx, in); !errors.Is(err, ErrNoText) {
			t.Fatalf("sentiment(%q): expected ErrNoText, got %v", in, err)
		}
		if _, err := svc.Keywords(ctx, in, 3); !errors.Is(err, ErrNoText) {
			t.Fatalf("keywords(%q): expected ErrNoText, got %v", in, err)
		}
		if _, err := svc.AnalyzeAll(ctx, in); !errors.Is(err, ErrNoText) {
			t.Fatalf("analyze all(%q): expected ErrNoText, got %v", in, err)
		}
	}
	if got := len(svc.History()); got != 0 {
		t.Fatalf("expected empty history, got %d records", got)
	}
}

func TestServiceSummaryLengthBounds(t *testing.T) {
	svc, sum, _ := newTestService(t, 5, history.EvictOldest)
	ctx := context.Background()

	if _, err := svc.Summarize(ctx, "alpha beta gamma delta"); err != nil {
		t.Fatalf("summarize: %v", err)
	}
	if _, err := svc.AnalyzeAll(ctx, "alpha beta gamma delta"); err != nil {
		t.Fatalf("analyze all: %v", err)
	}
	want := []analyzers.SummaryOptions{{MaxLength: 170, MinLength: 30}, {MaxLength: 130, MinLength: 30}}
	if len(sum.calls) != len(want) {
		t.Fatalf("expected %d summarize calls, got %d", len(want), len(sum.calls))
	}
	for i := range want {
		if sum.calls[i] != want[i] {
			t.Fatalf("call %d: expected %+v, got %+v", i, want[i], sum.calls[i])
		}
	}
}

func TestServiceHistoryEvictsOldest(t *testing.T) {
	svc, _, _ := newTestService(t, 5, history.EvictOldest)
	ctx := context.Background()

	for i := 1; i <= 6; i++ {
		if _, err := svc.Summarize(ctx, fmt.Sprintf("text number %d", i)); err != nil {
			t.Fatalf("summarize %d: %v", i, err)
		}
	}
	records := svc.History()
	if len(records) != 5 {
		t.Fatalf("expected 5 records, got %d", len(records))
	}
	if records[0].Input != "text number 2" {
		t.Fatalf("expected oldest surviving input text number 2, got %q", records[0].Input)
	}
	if records[4].Input != "text number 6" {
		t.Fatalf("expected newest input text number 6, got %q", records[4].Input)
	}
	if records[4].ID != "rec-6" {
		t.Fatalf("expected id rec-6, got %q", records[4].ID)
	}
}

func TestServiceHistoryDropNewest(t *testing.T) {
	svc, _, _ := newTestService(t, 2, history.DropNewest)
	ctx := context.Background()

	for _, text := range []string{"first", "second", "third"} {
		if _, err := svc.Sentiment(ctx, text); err != nil {
			t.Fatalf("sentiment %q: %v", text, err)
		}
	}
	records := svc.History()
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}
	if records[0].Input != "first" || records[1].Input != "second" {
		t.Fatalf("expected first and second kept, got %q and %q", records[0].Input, records[1].Input)
	}
}

func TestServiceAnalyzeAllRecordsOnce(t *testing.T) {
	svc, _, kw := newTestService(t, 5, history.EvictOldest)

	out, err := svc.AnalyzeAll(context.Background(), "  a bad day for the team  ")
	if err != nil {
		t.Fatalf("analyze all: %v", err)
	}
	if out.Summary != "a bad day" {
		t.Fatalf("unexpected summary %q", out.Summary)
	}
	if out.Sentiment.Label != "NEGATIVE" {
		t.Fatalf("expected NEGATIVE, got %q", out.Sentiment.Label)
	}
	if len(out.Keywords) != KeywordCount {
		t.Fatalf("expected %d keywords, got %d", KeywordCount, len(out.Keywords))
	}
	if len(kw.topNs) != 1 || kw.topNs[0] != KeywordCount {
		t.Fatalf("expected one extract call with %d, got %v", KeywordCount, kw.topNs)
	}

	records := svc.History()
	if len(records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(records))
	}
	rec := records[0]
	if rec.Type != TypeAll {
		t.Fatalf("expected type all, got %q", rec.Type)
	}
	if rec.Input != "a bad day for the team" {
		t.Fatalf("expected trimmed input, got %q", rec.Input)
	}
	if _, ok := rec.Output.(Combined); !ok {
		t.Fatalf("expected Combined output, got %T", rec.Output)
	}
}

func TestServiceFailureIsNotRecorded(t *testing.T) {
	boom := errors.New("model unavailable")
	svc := NewService(analyzers.Set{
		Provider:   "fake",
		Summarizer: &fakeSummarizer{err: boom},
		Sentiment:  fakeSentiment{err: boom},
		Keywords:   &fakeKeywords{},
	}, nil)
	ctx := context.Background()

	if _, err := svc.Summarize(ctx, "some text"); !errors.Is(err, boom) {
		t.Fatalf("expected summarize error, got %v", err)
	}
	if _, err := svc.AnalyzeAll(ctx, "some text"); !errors.Is(err, boom) {
		t.Fatalf("expected analyze all error, got %v", err)
	}
	if got := len(svc.History()); got != 0 {
		t.Fatalf("expected no records after failures, got %d", got)
	}
	if got := svc.Records.Cap(); got != history.DefaultCapacity {
		t.Fatalf("expected default capacity, got %d", got)
	}
}

func TestKeywordCountFor(t *testing.T) {
	svc, _, _ := newTestService(t, 5, history.EvictOldest)
	svc.KeywordsMaxCount = 10

	intPtr := func(v int) *int { return &v }
	cases := []struct {
		name string
		in   *int
		want int
	}{
		{name: "missing", in: nil, want: KeywordCount},
		{name: "zero", in: intPtr(0), want: KeywordCount},
		{name: "negative", in: intPtr(-3), want: KeywordCount},
		{name: "in range", in: intPtr(3), want: 3},
		{name: "at max", in: intPtr(10), want: 10},
		{name: "above max", in: intPtr(11), want: KeywordCount},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := svc.KeywordCountFor(tc.in); got != tc.want {
				t.Fatalf("expected %d, got %d", tc.want, got)
			}
		})
	}
}

func TestServiceKeywordsTruncatesToCount(t *testing.T) {
	svc, _, _ := newTestService(t, 5, history.EvictOldest)

	got, err := svc.Keywords(context.Background(), "whatever text", 4)
	if err != nil {
		t.Fatalf("keywords: %v", err)
	}
	if len(got) != 4 {
		t.Fatalf("expected 4 keywords, got %d", len(got))
	}
	records := svc.History()
	if len(records) != 1 || records[0].Type != TypeKeywords {
		t.Fatalf("expected one keywords record, got %+v", records)
	}
}

var errBoom = errors.New("model unavailable")

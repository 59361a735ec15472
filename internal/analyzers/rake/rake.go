// Package rake implements Rapid Automatic Keyword Extraction.
//
// Text is split into candidate phrases at stopwords and punctuation. Each word is
// scored as degree/frequency, where degree counts the words it co-occurs with inside
// candidate phrases (itself included). A phrase scores the sum of its word scores.
package rake

import (
	"context"
	"sort"
	"strings"
	"unicode"

	"nlp-backend/internal/analyzers"
)

// Extractor ranks key phrases of a text. The zero value is not usable; call New.
type Extractor struct {
	stopwords      map[string]struct{}
	maxPhraseWords int
}

// Option customizes an Extractor.
type Option func(*Extractor)

// WithStopwords replaces the English stopword list.
func WithStopwords(words []string) Option {
	return func(e *Extractor) {
		e.stopwords = toSet(words)
	}
}

// WithMaxPhraseWords drops candidate phrases longer than n words. n <= 0 means no limit.
func WithMaxPhraseWords(n int) Option {
	return func(e *Extractor) {
		e.maxPhraseWords = n
	}
}

// New returns an Extractor using the English stopword list.
func New(opts ...Option) *Extractor {
	e := &Extractor{stopwords: toSet(englishStopwords)}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Extract returns at most topN key phrases, best first. topN <= 0 means
// analyzers.DefaultKeywordCount.
func (e *Extractor) Extract(ctx context.Context, text string, topN int) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if topN <= 0 {
		topN = analyzers.DefaultKeywordCount
	}
	ranked := e.Rank(text)
	if len(ranked) > topN {
		ranked = ranked[:topN]
	}
	out := make([]string, len(ranked))
	for i, p := range ranked {
		out[i] = p.Text
	}
	return out, nil
}

// Phrase is a candidate phrase with its RAKE score.
type Phrase struct {
	Text  string
	Score float64
}

// Rank returns every distinct candidate phrase sorted by score, highest first.
// Phrases with equal scores keep their order of first appearance.
func (e *Extractor) Rank(text string) []Phrase {
	candidates := e.candidates(text)
	if len(candidates) == 0 {
		return []Phrase{}
	}

	freq := make(map[string]int)
	degree := make(map[string]int)
	for _, words := range candidates {
		for _, w := range words {
			freq[w]++
			degree[w] += len(words)
		}
	}

	seen := make(map[string]struct{}, len(candidates))
	ranked := make([]Phrase, 0, len(candidates))
	for _, words := range candidates {
		joined := strings.Join(words, " ")
		if _, dup := seen[joined]; dup {
			continue
		}
		seen[joined] = struct{}{}
		var score float64
		for _, w := range words {
			score += float64(degree[w]) / float64(freq[w])
		}
		ranked = append(ranked, Phrase{Text: joined, Score: score})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})
	return ranked
}

// candidates splits text into lowercased word runs delimited by stopwords and punctuation.
func (e *Extractor) candidates(text string) [][]string {
	var (
		out     [][]string
		current []string
		word    strings.Builder
	)
	flushPhrase := func() {
		if len(current) > 0 && (e.maxPhraseWords <= 0 || len(current) <= e.maxPhraseWords) {
			out = append(out, current)
		}
		current = nil
	}
	flushWord := func() {
		if word.Len() == 0 {
			return
		}
		w := strings.Trim(word.String(), "'-")
		word.Reset()
		if w == "" {
			return
		}
		if _, stop := e.stopwords[w]; stop {
			flushPhrase()
			return
		}
		current = append(current, w)
	}

	for _, r := range strings.ToLower(text) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			word.WriteRune(r)
		case (r == '\'' || r == '’' || r == '-') && word.Len() > 0:
			if r == '’' {
				r = '\''
			}
			word.WriteRune(r)
		case unicode.IsSpace(r):
			flushWord()
		default:
			flushWord()
			flushPhrase()
		}
	}
	flushWord()
	flushPhrase()
	return out
}

func toSet(words []string) map[string]struct{} {
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[strings.ToLower(strings.TrimSpace(w))] = struct{}{}
	}
	return set
}

var _ analyzers.KeywordExtractor = (*Extractor)(nil)

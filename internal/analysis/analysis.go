// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package analysis counts keywords in paper titles. The tokenizer takes its
// stop lists as explicit constructor arguments so the merge and tokenize
// logic stays unit-testable in isolation.
package analysis

import (
	"fmt"
	"io"
	"regexp"
	"sort"
	"strings"

	"github.com/pdiddy/confmine/pkg/types"
)

// nonToken strips everything that is not a lowercase letter, digit,
// whitespace, or hyphen. Hyphens are kept so compound terms survive intact.
var nonToken = regexp.MustCompile(`[^a-z0-9\s-]`)

// Tokenizer lowercases, strips punctuation, splits, and drops stop words.
type Tokenizer struct {
	stopWords map[string]struct{}
}

// NewTokenizer builds a tokenizer from the given stop lists.
func NewTokenizer(stopLists ...[]string) *Tokenizer {
	stop := make(map[string]struct{})
	for _, list := range stopLists {
		for _, w := range list {
			stop[strings.ToLower(w)] = struct{}{}
		}
	}
	return &Tokenizer{stopWords: stop}
}

// IsStopWord reports whether word is in the tokenizer's stop set.
func (t *Tokenizer) IsStopWord(word string) bool {
	_, ok := t.stopWords[strings.ToLower(word)]
	return ok
}

// Tokenize splits text into lowercase keyword tokens with stop words
// removed. Hyphenated terms are preserved as single tokens.
func (t *Tokenizer) Tokenize(text string) []string {
	cleaned := nonToken.ReplaceAllString(strings.ToLower(text), "")

	var tokens []string
	for _, w := range strings.Fields(cleaned) {
		if _, stop := t.stopWords[w]; stop {
			continue
		}
		tokens = append(tokens, w)
	}
	return tokens
}

// KeywordCount pairs a keyword with its occurrence count.
type KeywordCount struct {
	Word  string `yaml:"word"`
	Count int    `yaml:"count"`
}

// Count tallies token occurrences across the given titles and returns the
// counts sorted by descending count, ties broken alphabetically.
func Count(titles []string, t *Tokenizer) []KeywordCount {
	counts := make(map[string]int)
	for _, title := range titles {
		for _, tok := range t.Tokenize(title) {
			counts[tok]++
		}
	}

	out := make([]KeywordCount, 0, len(counts))
	for w, c := range counts {
		out = append(out, KeywordCount{Word: w, Count: c})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Word < out[j].Word
	})
	return out
}

// TopN truncates counts to at most n entries.
func TopN(counts []KeywordCount, n int) []KeywordCount {
	if n > 0 && len(counts) > n {
		return counts[:n]
	}
	return counts
}

// YearKeywords holds one year's keyword tally.
type YearKeywords struct {
	Year     int            `yaml:"year"`
	Papers   int            `yaml:"papers"`
	Keywords []KeywordCount `yaml:"keywords"`
}

// Report holds the aggregate and per-year keyword tallies for a corpus.
type Report struct {
	TotalPapers int            `yaml:"total_papers"`
	Aggregate   []KeywordCount `yaml:"aggregate"`
	ByYear      []YearKeywords `yaml:"by_year"`
}

// Analyze tallies keywords over all titles and per year, newest year first.
func Analyze(records []types.Paper, t *Tokenizer, cfg types.AnalysisConfig) Report {
	topN := cfg.TopN
	if topN <= 0 {
		topN = 20
	}

	titles := make([]string, 0, len(records))
	byYear := make(map[int][]string)
	for _, p := range records {
		titles = append(titles, p.Title)
		byYear[p.Year] = append(byYear[p.Year], p.Title)
	}

	report := Report{
		TotalPapers: len(records),
		Aggregate:   TopN(Count(titles, t), topN),
	}

	years := make([]int, 0, len(byYear))
	for y := range byYear {
		years = append(years, y)
	}
	sort.Sort(sort.Reverse(sort.IntSlice(years)))

	for _, y := range years {
		report.ByYear = append(report.ByYear, YearKeywords{
			Year:     y,
			Papers:   len(byYear[y]),
			Keywords: TopN(Count(byYear[y], t), topN),
		})
	}
	return report
}

// Format writes the report as a human-readable text summary.
func Format(r Report, w io.Writer) {
	rule := strings.Repeat("=", 40)

	fmt.Fprintf(w, "%s\nTOP KEYWORDS (aggregate, %d papers)\n%s\n", rule, r.TotalPapers, rule)
	for i, kc := range r.Aggregate {
		fmt.Fprintf(w, "%d. %s: %d\n", i+1, kc.Word, kc.Count)
	}

	fmt.Fprintf(w, "\n%s\nTOP KEYWORDS BY YEAR\n%s\n", rule, rule)
	for _, yk := range r.ByYear {
		fmt.Fprintf(w, "\n--- %d (papers: %d) ---\n", yk.Year, yk.Papers)
		parts := make([]string, 0, len(yk.Keywords))
		for _, kc := range yk.Keywords {
			parts = append(parts, fmt.Sprintf("%s (%d)", kc.Word, kc.Count))
		}
		fmt.Fprintln(w, strings.Join(parts, ", "))
	}
}

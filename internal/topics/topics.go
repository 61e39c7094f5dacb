// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package topics fits per-year LDA topic models over paper titles and
// abstracts. Tokens are Porter-stemmed so inflected forms share a
// vocabulary entry.
package topics

import (
	"fmt"
	"io"
	"regexp"
	"sort"
	"strings"

	"github.com/kljensen/snowball"

	"github.com/pdiddy/confmine/internal/analysis"
	"github.com/pdiddy/confmine/pkg/types"
)

// Defaults mirroring the tunables the analysis was designed around.
const (
	defaultNumTopics  = 20
	defaultSweeps     = 100
	defaultTopWords   = 20
	defaultMinDocs    = 2
	defaultMaxDocFrac = 0.95
	defaultMinPapers  = 5
)

// wordRun matches runs of two or more word characters.
var wordRun = regexp.MustCompile(`\w\w+`)

// Stemmer tokenizes text into stemmed terms with stemmed stop words
// removed. Build one with NewStemmer and reuse it across documents.
type Stemmer struct {
	stopStems map[string]struct{}
}

// NewStemmer stems the given stop lists and returns a tokenizer that drops
// any token whose stem matches.
func NewStemmer(stopLists ...[]string) *Stemmer {
	stops := make(map[string]struct{})
	for _, list := range stopLists {
		for _, w := range list {
			stops[stem(w)] = struct{}{}
		}
	}
	return &Stemmer{stopStems: stops}
}

// Tokens returns the stemmed, stop-filtered tokens of text.
func (s *Stemmer) Tokens(text string) []string {
	var out []string
	for _, w := range wordRun.FindAllString(strings.ToLower(text), -1) {
		st := stem(w)
		if _, stop := s.stopStems[st]; stop {
			continue
		}
		out = append(out, st)
	}
	return out
}

func stem(w string) string {
	st, err := snowball.Stem(w, "english", true)
	if err != nil || st == "" {
		return strings.ToLower(w)
	}
	return st
}

// BuildVocabulary prunes terms by document frequency: a term must appear in
// at least minDocs documents and at most maxDocFrac of them. The returned
// vocabulary is sorted for deterministic term IDs.
func BuildVocabulary(docs [][]string, minDocs int, maxDocFrac float64) ([]string, map[string]int) {
	df := make(map[string]int)
	for _, doc := range docs {
		seen := make(map[string]bool, len(doc))
		for _, w := range doc {
			if !seen[w] {
				seen[w] = true
				df[w]++
			}
		}
	}

	maxDocs := int(maxDocFrac * float64(len(docs)))
	var vocab []string
	for w, n := range df {
		if n >= minDocs && n <= maxDocs {
			vocab = append(vocab, w)
		}
	}
	sort.Strings(vocab)

	index := make(map[string]int, len(vocab))
	for i, w := range vocab {
		index[w] = i
	}
	return vocab, index
}

// termIDs maps token documents onto vocabulary IDs, dropping pruned terms.
func termIDs(docs [][]string, index map[string]int) [][]int {
	out := make([][]int, len(docs))
	for d, doc := range docs {
		for _, w := range doc {
			if id, ok := index[w]; ok {
				out[d] = append(out[d], id)
			}
		}
	}
	return out
}

// YearTopics holds the fitted topics for one conference year.
type YearTopics struct {
	Year   int        `yaml:"year"`
	Papers int        `yaml:"papers"`
	Topics [][]string `yaml:"topics"`
}

// Analyze fits one LDA model per year over title+abstract documents and
// returns the per-year topic term lists, oldest year first. Years with too
// few papers or an empty pruned vocabulary are reported and skipped.
func Analyze(records []types.Paper, cfg types.TopicsConfig, w io.Writer) []YearTopics {
	numTopics := cfg.NumTopics
	if numTopics <= 0 {
		numTopics = defaultNumTopics
	}
	sweeps := cfg.Sweeps
	if sweeps <= 0 {
		sweeps = defaultSweeps
	}
	topWords := cfg.TopWords
	if topWords <= 0 {
		topWords = defaultTopWords
	}
	minDocs := cfg.MinDocs
	if minDocs <= 0 {
		minDocs = defaultMinDocs
	}
	maxDocFrac := cfg.MaxDocFrac
	if maxDocFrac <= 0 {
		maxDocFrac = defaultMaxDocFrac
	}
	minPapers := cfg.MinPapers
	if minPapers <= 0 {
		minPapers = defaultMinPapers
	}

	byYear := make(map[int][]string)
	for _, p := range records {
		text := p.Title
		if p.HasAbstract() {
			text += " " + p.Abstract
		}
		byYear[p.Year] = append(byYear[p.Year], text)
	}

	years := make([]int, 0, len(byYear))
	for y := range byYear {
		years = append(years, y)
	}
	sort.Ints(years)

	stemmer := NewStemmer(analysis.StandardStopWords(), analysis.DomainStopWords())

	var results []YearTopics
	for _, year := range years {
		texts := byYear[year]
		fmt.Fprintf(w, "\n--- Year: %d ---\n", year)
		if len(texts) < minPapers {
			fmt.Fprintln(w, "Not enough papers to analyze.")
			continue
		}

		docs := make([][]string, len(texts))
		for i, text := range texts {
			docs[i] = stemmer.Tokens(text)
		}

		vocab, index := BuildVocabulary(docs, minDocs, maxDocFrac)
		if len(vocab) == 0 {
			fmt.Fprintln(w, "Vocabulary is empty or insufficient data.")
			continue
		}

		model := Fit(termIDs(docs, index), vocab, numTopics, sweeps, cfg.Seed)

		yt := YearTopics{Year: year, Papers: len(texts)}
		for t := 0; t < numTopics; t++ {
			top := model.TopWords(t, topWords)
			yt.Topics = append(yt.Topics, top)
			fmt.Fprintf(w, "Topic #%d: %s\n", t+1, strings.Join(top, ", "))
		}
		results = append(results, yt)
	}
	return results
}

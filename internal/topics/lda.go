// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package topics

import (
	"math/rand"
	"sort"
)

// Model is a latent Dirichlet allocation model fit by collapsed Gibbs
// sampling over a bag-of-words corpus.
type Model struct {
	NumTopics int
	Vocab     []string

	topicWord  [][]int // topic × term assignment counts
	topicTotal []int   // tokens assigned per topic
}

// Symmetric Dirichlet priors. Small alpha keeps documents concentrated on
// few topics; small beta keeps topics sparse over the vocabulary.
const (
	ldaAlpha = 0.1
	ldaBeta  = 0.01
)

// Fit runs collapsed Gibbs sampling over docs, where each document is a
// sequence of term IDs into a vocabulary of size len(vocab). The sampler is
// seeded, so a fixed seed gives reproducible topics.
func Fit(docs [][]int, vocab []string, numTopics, sweeps int, seed int64) *Model {
	rng := rand.New(rand.NewSource(seed))
	v := len(vocab)

	m := &Model{
		NumTopics:  numTopics,
		Vocab:      vocab,
		topicWord:  make([][]int, numTopics),
		topicTotal: make([]int, numTopics),
	}
	for t := range m.topicWord {
		m.topicWord[t] = make([]int, v)
	}

	docTopic := make([][]int, len(docs))
	assign := make([][]int, len(docs))

	// Random initial assignment.
	for d, doc := range docs {
		docTopic[d] = make([]int, numTopics)
		assign[d] = make([]int, len(doc))
		for pos, w := range doc {
			t := rng.Intn(numTopics)
			assign[d][pos] = t
			docTopic[d][t]++
			m.topicWord[t][w]++
			m.topicTotal[t]++
		}
	}

	probs := make([]float64, numTopics)
	for sweep := 0; sweep < sweeps; sweep++ {
		for d, doc := range docs {
			for pos, w := range doc {
				old := assign[d][pos]
				docTopic[d][old]--
				m.topicWord[old][w]--
				m.topicTotal[old]--

				// p(t) ~ (n_dt + alpha) * (n_tw + beta) / (n_t + beta*V)
				total := 0.0
				for t := 0; t < numTopics; t++ {
					p := (float64(docTopic[d][t]) + ldaAlpha) *
						(float64(m.topicWord[t][w]) + ldaBeta) /
						(float64(m.topicTotal[t]) + ldaBeta*float64(v))
					probs[t] = p
					total += p
				}

				u := rng.Float64() * total
				chosen := numTopics - 1
				for t := 0; t < numTopics; t++ {
					u -= probs[t]
					if u < 0 {
						chosen = t
						break
					}
				}

				assign[d][pos] = chosen
				docTopic[d][chosen]++
				m.topicWord[chosen][w]++
				m.topicTotal[chosen]++
			}
		}
	}

	return m
}

// TopWords returns the n highest-count terms for topic, ties broken
// alphabetically.
func (m *Model) TopWords(topic, n int) []string {
	counts := m.topicWord[topic]
	ids := make([]int, len(counts))
	for i := range ids {
		ids[i] = i
	}
	sort.Slice(ids, func(a, b int) bool {
		if counts[ids[a]] != counts[ids[b]] {
			return counts[ids[a]] > counts[ids[b]]
		}
		return m.Vocab[ids[a]] < m.Vocab[ids[b]]
	})

	if n > len(ids) {
		n = len(ids)
	}
	words := make([]string, n)
	for i := 0; i < n; i++ {
		words[i] = m.Vocab[ids[i]]
	}
	return words
}

package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/confmine/internal/corpus"
	"github.com/pdiddy/confmine/internal/topics"
	"github.com/pdiddy/confmine/pkg/types"
)

var topicsCmd = &cobra.Command{
	Use:   "topics",
	Short: "Discover per-year research topics with LDA",
	Long: `Topics builds a stemmed bag-of-words corpus from each year's titles and
abstracts and fits a latent Dirichlet allocation model per year, printing the
top words of every discovered topic. Years with too few papers are skipped.`,
	RunE: runTopics,
}

func init() {
	topicsCmd.Flags().String("venue", "", "conference stream key (default nips)")
	topicsCmd.Flags().String("input", "", "input CSV path (default datasets/<venue>_papers_with_abstracts.csv)")
	topicsCmd.Flags().Int("topics", 0, "number of topics per year (default 20)")
	topicsCmd.Flags().Int("sweeps", 0, "Gibbs sampling sweeps (default 100)")
	topicsCmd.Flags().Int("top-words", 0, "words shown per topic (default 20)")
	topicsCmd.Flags().Int64("seed", 0, "sampler seed for reproducible topics")

	rootCmd.AddCommand(topicsCmd)
}

func runTopics(cmd *cobra.Command, args []string) error {
	venueFlag, _ := cmd.Flags().GetString("venue")
	venue := stringSetting(venueFlag, "scrape.venue", defaultVenue)

	input, _ := cmd.Flags().GetString("input")
	if input == "" {
		input = abstractsPath(venue)
	}

	numTopics, _ := cmd.Flags().GetInt("topics")
	sweeps, _ := cmd.Flags().GetInt("sweeps")
	topWords, _ := cmd.Flags().GetInt("top-words")
	seed, _ := cmd.Flags().GetInt64("seed")

	records, err := corpus.Load(input)
	if err != nil {
		return err
	}

	cfg := types.TopicsConfig{
		NumTopics: numTopics,
		Sweeps:    sweeps,
		TopWords:  topWords,
		Seed:      seed,
	}
	topics.Analyze(records, cfg, os.Stdout)
	return nil
}

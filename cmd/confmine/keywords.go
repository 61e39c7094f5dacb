package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/confmine/internal/analysis"
	"github.com/pdiddy/confmine/internal/corpus"
	"github.com/pdiddy/confmine/pkg/types"
)

const defaultTopN = 30

var keywordsCmd = &cobra.Command{
	Use:   "keywords",
	Short: "Rank title keywords across the corpus and per year",
	Long: `Keywords tokenizes every paper title, drops English and venue-specific
stop words, and prints the most frequent terms for the whole corpus and for
each publication year. Pass --report to also save the result as YAML.`,
	RunE: runKeywords,
}

func init() {
	keywordsCmd.Flags().String("venue", "", "conference stream key (default nips)")
	keywordsCmd.Flags().String("input", "", "input CSV path (default datasets/<venue>_papers_with_abstracts.csv)")
	keywordsCmd.Flags().Int("top", defaultTopN, "number of keywords to show per section")
	keywordsCmd.Flags().String("report", "", "optional YAML report output path")

	rootCmd.AddCommand(keywordsCmd)
}

func runKeywords(cmd *cobra.Command, args []string) error {
	venueFlag, _ := cmd.Flags().GetString("venue")
	venue := stringSetting(venueFlag, "scrape.venue", defaultVenue)

	input, _ := cmd.Flags().GetString("input")
	if input == "" {
		input = abstractsPath(venue)
	}
	topN, _ := cmd.Flags().GetInt("top")
	reportPath, _ := cmd.Flags().GetString("report")

	records, err := corpus.Load(input)
	if err != nil {
		return err
	}

	cfg := types.AnalysisConfig{
		TopN:           topN,
		ExtraStopWords: viper.GetStringSlice("analysis.extra_stop_words"),
	}

	tok := analysis.NewTokenizer(
		analysis.StandardStopWords(),
		analysis.DomainStopWords(),
		cfg.ExtraStopWords,
	)

	report := analysis.Analyze(records, tok, cfg)
	analysis.Format(report, os.Stdout)

	if reportPath != "" {
		if err := analysis.WriteReport(reportPath, report); err != nil {
			return err
		}
		fmt.Printf("Report saved to %s\n", reportPath)
	}
	return nil
}

package main

import (
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/confmine/internal/analysis"
	"github.com/pdiddy/confmine/internal/corpus"
	"github.com/pdiddy/confmine/internal/frames"
	"github.com/pdiddy/confmine/pkg/types"
)

const defaultFramesDir = "reports/frames"

var wordcloudCmd = &cobra.Command{
	Use:   "wordcloud",
	Short: "Export per-year word frequency frames",
	Long: `Wordcloud writes one word-frequency CSV per publication year plus a YAML
manifest listing the frames in order. The frames are raw material for
animated word cloud renderings; any external tool that reads (word, count)
pairs can consume them.`,
	RunE: runWordcloud,
}

func init() {
	wordcloudCmd.Flags().String("venue", "", "conference stream key (default nips)")
	wordcloudCmd.Flags().String("input", "", "input CSV path (default datasets/<venue>_papers_with_abstracts.csv)")
	wordcloudCmd.Flags().Int("max-words", 0, "words per frame (default 100)")
	wordcloudCmd.Flags().String("frames-dir", defaultFramesDir, "directory for frame CSVs and the manifest")

	rootCmd.AddCommand(wordcloudCmd)
}

func runWordcloud(cmd *cobra.Command, args []string) error {
	venueFlag, _ := cmd.Flags().GetString("venue")
	venue := stringSetting(venueFlag, "scrape.venue", defaultVenue)

	input, _ := cmd.Flags().GetString("input")
	if input == "" {
		input = abstractsPath(venue)
	}
	maxWords, _ := cmd.Flags().GetInt("max-words")
	framesDir, _ := cmd.Flags().GetString("frames-dir")

	records, err := corpus.Load(input)
	if err != nil {
		return err
	}

	tok := analysis.NewTokenizer(
		analysis.StandardStopWords(),
		analysis.DomainStopWords(),
		viper.GetStringSlice("analysis.extra_stop_words"),
	)

	cfg := types.FramesConfig{
		MaxWords:  maxWords,
		FramesDir: framesDir,
	}
	_, err = frames.Export(records, venue, tok, cfg, os.Stdout)
	return err
}

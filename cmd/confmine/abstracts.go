package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/pdiddy/confmine/internal/abstracts"
	"github.com/pdiddy/confmine/internal/corpus"
	"github.com/pdiddy/confmine/internal/httputil"
	"github.com/pdiddy/confmine/pkg/types"
)

const (
	defaultFetchTimeout       = 15 * time.Second
	defaultCheckpointInterval = 20
	defaultDelayMin           = 2 * time.Second
	defaultDelayMax           = 5 * time.Second
)

var abstractsCmd = &cobra.Command{
	Use:   "abstracts",
	Short: "Resolve paper abstracts from their landing pages",
	Long: `Abstracts walks the scraped dataset and fetches each paper's landing page
to extract its abstract. Progress is checkpointed to the output CSV every few
records and on any exit, so an interrupted run resumes where it left off:
abstracts already present in the output are merged in and never re-fetched.

The run stops immediately if the remote site rate-limits (HTTP 429); rerun
later to continue from the checkpoint.`,
	RunE: runAbstracts,
}

func init() {
	abstractsCmd.Flags().String("venue", "", "conference stream key (default nips)")
	abstractsCmd.Flags().String("input", "", "input CSV path (default datasets/<venue>_papers_<from>_<to>.csv)")
	abstractsCmd.Flags().String("output", "", "checkpoint CSV path (default datasets/<venue>_papers_with_abstracts.csv)")
	abstractsCmd.Flags().Duration("timeout", defaultFetchTimeout, "HTTP request timeout")
	abstractsCmd.Flags().Int("interval", defaultCheckpointInterval, "records between checkpoint writes")
	abstractsCmd.Flags().Duration("delay-min", defaultDelayMin, "politeness delay lower bound")
	abstractsCmd.Flags().Duration("delay-max", defaultDelayMax, "politeness delay upper bound")
	abstractsCmd.Flags().String("contact", "", "contact address sent in the From header")

	rootCmd.AddCommand(abstractsCmd)
}

func runAbstracts(cmd *cobra.Command, args []string) error {
	venueFlag, _ := cmd.Flags().GetString("venue")
	venue := stringSetting(venueFlag, "scrape.venue", defaultVenue)

	input, _ := cmd.Flags().GetString("input")
	if input == "" {
		input = datasetPath(venue, defaultStartYear, defaultEndYear)
	}
	output, _ := cmd.Flags().GetString("output")
	if output == "" {
		output = abstractsPath(venue)
	}

	timeout, _ := cmd.Flags().GetDuration("timeout")
	interval, _ := cmd.Flags().GetInt("interval")
	delayMin, _ := cmd.Flags().GetDuration("delay-min")
	delayMax, _ := cmd.Flags().GetDuration("delay-max")
	contactFlag, _ := cmd.Flags().GetString("contact")

	fmt.Printf("Reading %s...\n", input)
	records, err := corpus.Load(input)
	if err != nil {
		return err
	}

	// Resume from a prior checkpoint when one exists.
	if _, statErr := os.Stat(output); statErr == nil {
		fmt.Printf("Found existing %s, resuming...\n", output)
		checkpoint, loadErr := corpus.Load(output)
		if loadErr != nil {
			fmt.Printf("warning: could not read checkpoint, starting fresh: %v\n", loadErr)
		} else {
			corpus.Merge(records, checkpoint)
			fmt.Printf("Resumed with %d abstracts already loaded.\n", corpus.CountResolved(records))
		}
	}

	cfg := types.ResolveConfig{
		HTTPConfig: types.HTTPConfig{
			Timeout: timeout,
			Contact: stringSetting(contactFlag, "http.contact", ""),
		},
		CheckpointInterval: interval,
		DelayMin:           delayMin,
		DelayMax:           delayMax,
	}

	// Operator interruption takes the same abort path as any other: the
	// resolver flushes progress before returning.
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	resolver := &abstracts.Resolver{
		Client: httputil.NewClient(cfg.Timeout),
		Config: cfg,
		Save: func(recs []types.Paper) error {
			return corpus.Save(recs, output)
		},
		Out: os.Stdout,
	}

	fmt.Printf("Starting extraction for %d papers...\n", len(records))
	_, err = resolver.Run(ctx, records)
	switch {
	case err == nil:
	case errors.Is(err, abstracts.ErrRateLimited), errors.Is(err, context.Canceled):
		// Progress is flushed; rerun to continue.
	default:
		return err
	}

	fmt.Printf("Done! All data saved to %s\n", output)
	return nil
}

package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/pdiddy/confmine/internal/corpus"
	"github.com/pdiddy/confmine/internal/httputil"
	"github.com/pdiddy/confmine/internal/scrape"
	"github.com/pdiddy/confmine/pkg/types"
)

const (
	defaultVenue       = "nips"
	defaultStartYear   = 2015
	defaultEndYear     = 2025
	defaultScrapeDelay = 2 * time.Second
	defaultScrapeWait  = 10 * time.Second
	defaultDatasetsDir = "datasets"
)

var scrapeCmd = &cobra.Command{
	Use:   "scrape",
	Short: "Scrape proceedings metadata from the bibliographic index",
	Long: `Scrape walks the venue's index page, finds its yearly volumes within the
configured range, and extracts paper records (year, title, authors, external
link) into a CSV dataset. Entries without an external link get the "N/A"
sentinel so later stages know to skip them.`,
	RunE: runScrape,
}

func init() {
	scrapeCmd.Flags().String("venue", "", "conference stream key on the index site (default nips)")
	scrapeCmd.Flags().Int("start-year", defaultStartYear, "first volume year, inclusive")
	scrapeCmd.Flags().Int("end-year", defaultEndYear, "last volume year, inclusive")
	scrapeCmd.Flags().Duration("delay", defaultScrapeDelay, "pause between volume fetches")
	scrapeCmd.Flags().Duration("timeout", defaultScrapeWait, "HTTP request timeout")
	scrapeCmd.Flags().String("contact", "", "contact address sent in the From header")
	scrapeCmd.Flags().String("output", "", "output CSV path (default datasets/<venue>_papers_<from>_<to>.csv)")

	rootCmd.AddCommand(scrapeCmd)
}

func runScrape(cmd *cobra.Command, args []string) error {
	venueFlag, _ := cmd.Flags().GetString("venue")
	venue := stringSetting(venueFlag, "scrape.venue", defaultVenue)
	startYear, _ := cmd.Flags().GetInt("start-year")
	endYear, _ := cmd.Flags().GetInt("end-year")
	delay, _ := cmd.Flags().GetDuration("delay")
	timeout, _ := cmd.Flags().GetDuration("timeout")
	contactFlag, _ := cmd.Flags().GetString("contact")

	output, _ := cmd.Flags().GetString("output")
	if output == "" {
		output = datasetPath(venue, startYear, endYear)
	}

	cfg := types.ScrapeConfig{
		HTTPConfig: types.HTTPConfig{
			Timeout: timeout,
			Contact: stringSetting(contactFlag, "http.contact", ""),
		},
		Venue:        venue,
		StartYear:    startYear,
		EndYear:      endYear,
		RequestDelay: delay,
	}

	client := httputil.NewClient(cfg.Timeout)
	records, err := scrape.Scrape(cmd.Context(), client, cfg, os.Stdout)
	if err != nil {
		return err
	}

	if err := corpus.Save(records, output); err != nil {
		return fmt.Errorf("saving dataset: %w", err)
	}
	fmt.Printf("Saved %d papers to %s\n", len(records), output)
	return nil
}

func datasetPath(venue string, startYear, endYear int) string {
	return fmt.Sprintf("%s/%s_papers_%d_%d.csv", defaultDatasetsDir, venue, startYear, endYear)
}

func abstractsPath(venue string) string {
	return fmt.Sprintf("%s/%s_papers_with_abstracts.csv", defaultDatasetsDir, venue)
}

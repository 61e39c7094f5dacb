// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package abstracts

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/pdiddy/confmine/internal/httputil"
	"github.com/pdiddy/confmine/pkg/types"
)

const defaultCheckpointInterval = 20

// SaveFunc persists the full corpus. The resolver calls it at every
// checkpoint and unconditionally when the run loop exits, whatever the
// reason.
type SaveFunc func(records []types.Paper) error

// Summary holds the outcome counts of a resolution run.
type Summary struct {
	Found    int // abstracts resolved this run
	NotFound int // fetched but nothing extracted
	Skipped  int // sentinel, missing, or document-download links
	Already  int // resolved before this run (loaded or merged)
}

// Processed returns the number of records that went through a fetch.
func (s Summary) Processed() int {
	return s.Found + s.NotFound
}

// Resolver walks a corpus sequentially and fills in missing abstracts.
// There is exactly one writer and one in-flight fetch at a time; the only
// shared state is the record slice the loop itself mutates.
type Resolver struct {
	Client *http.Client
	Config types.ResolveConfig

	// Save persists progress. Run calls it every CheckpointInterval
	// processed records and once more on exit.
	Save SaveFunc

	// Out receives per-record progress lines.
	Out io.Writer
}

// Run resolves abstracts for every record that has a fetchable link and no
// abstract yet. Records are mutated in place.
//
// The loop hard-aborts on HTTP 429 (ErrRateLimited), on context
// cancellation, and on a failed checkpoint write; soft failures per record
// just leave the record unresolved. On every exit path the corpus is
// persisted before returning, so the output artifact is always in a
// consistent, resumable state.
func (r *Resolver) Run(ctx context.Context, records []types.Paper) (summary Summary, err error) {
	interval := r.Config.CheckpointInterval
	if interval <= 0 {
		interval = defaultCheckpointInterval
	}

	defer func() {
		if saveErr := r.Save(records); saveErr != nil {
			fmt.Fprintf(r.Out, "warning: final save failed: %v\n", saveErr)
			if err == nil {
				err = saveErr
			}
		}
	}()

	total := len(records)
	processed := 0

	for i := range records {
		if err := ctx.Err(); err != nil {
			fmt.Fprintf(r.Out, "\n[!] interrupted, saving progress\n")
			return summary, err
		}

		if records[i].HasAbstract() {
			summary.Already++
			continue
		}
		if !records[i].HasLink() || !UsableLink(records[i].Link) {
			summary.Skipped++
			continue
		}

		fmt.Fprintf(r.Out, "[%d/%d] fetching: %s\n", i+1, total, preview(records[i].Title, 50))

		outcome := Fetch(ctx, r.Client, records[i].Link, r.Config)
		switch outcome.Status {
		case StatusFound:
			records[i].Abstract = outcome.Text
			summary.Found++
			fmt.Fprintf(r.Out, "    found (%d chars): %s\n", len(outcome.Text), preview(outcome.Text, 100))
		case StatusRateLimited:
			fmt.Fprintf(r.Out, "\n[!] rate limit reached (HTTP 429), saving progress and stopping\n")
			return summary, ErrRateLimited
		case StatusSkipped:
			summary.Skipped++
			continue
		default:
			summary.NotFound++
			fmt.Fprintf(r.Out, "    abstract not found\n")
		}

		processed++
		if processed%interval == 0 {
			if err := r.Save(records); err != nil {
				return summary, fmt.Errorf("writing checkpoint: %w", err)
			}
			fmt.Fprintf(r.Out, "    [progress saved: %d resolved so far]\n", resolvedCount(records))
		}

		if err := r.pause(ctx); err != nil {
			fmt.Fprintf(r.Out, "\n[!] interrupted, saving progress\n")
			return summary, err
		}
	}

	fmt.Fprintf(r.Out, "\nResolution summary: %d found, %d not found, %d skipped, %d already resolved\n",
		summary.Found, summary.NotFound, summary.Skipped, summary.Already)
	return summary, nil
}

// pause sleeps for a randomized politeness delay, returning early if the
// context is cancelled.
func (r *Resolver) pause(ctx context.Context) error {
	delay := httputil.Jitter(r.Config.DelayMin, r.Config.DelayMax)
	if delay <= 0 {
		return nil
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(delay):
		return nil
	}
}

func resolvedCount(records []types.Paper) int {
	n := 0
	for _, p := range records {
		if p.HasAbstract() {
			n++
		}
	}
	return n
}

// preview truncates s to max bytes on a single line.
func preview(s string, max int) string {
	s = strings.ReplaceAll(s, "\n", " ")
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}

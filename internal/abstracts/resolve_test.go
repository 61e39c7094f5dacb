// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package abstracts

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/pdiddy/confmine/internal/corpus"
	"github.com/pdiddy/confmine/pkg/types"
)

// abstractServer serves landing pages with a meta abstract and records which
// paths were requested.
type abstractServer struct {
	*httptest.Server
	mu    sync.Mutex
	paths []string
}

func newAbstractServer(t *testing.T, handler func(w http.ResponseWriter, r *http.Request) bool) *abstractServer {
	t.Helper()
	as := &abstractServer{}
	as.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		as.mu.Lock()
		as.paths = append(as.paths, r.URL.Path)
		as.mu.Unlock()
		if handler != nil && handler(w, r) {
			return
		}
		fmt.Fprintf(w, `<html><head><meta name="citation_abstract" content="Abstract for %s."></head></html>`, r.URL.Path)
	}))
	t.Cleanup(as.Server.Close)
	return as
}

func (as *abstractServer) requested() []string {
	as.mu.Lock()
	defer as.mu.Unlock()
	return append([]string(nil), as.paths...)
}

// memorySink collects every snapshot the resolver persists.
type memorySink struct {
	snapshots [][]types.Paper
}

func (s *memorySink) save(records []types.Paper) error {
	snap := make([]types.Paper, len(records))
	copy(snap, records)
	s.snapshots = append(s.snapshots, snap)
	return nil
}

func newResolver(ts *abstractServer, sink *memorySink, cfg types.ResolveConfig) *Resolver {
	return &Resolver{
		Client: ts.Client(),
		Config: cfg,
		Save:   sink.save,
		Out:    &bytes.Buffer{},
	}
}

func TestRun_ResolvesMissingAbstracts(t *testing.T) {
	ts := newAbstractServer(t, nil)
	sink := &memorySink{}
	records := []types.Paper{
		{Title: "Paper A", Link: ts.URL + "/a"},
		{Title: "Paper B", Link: ts.URL + "/b"},
	}

	summary, err := newResolver(ts, sink, types.ResolveConfig{}).Run(context.Background(), records)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if summary.Found != 2 {
		t.Errorf("Found = %d, want 2", summary.Found)
	}
	if records[0].Abstract != "Abstract for /a." || records[1].Abstract != "Abstract for /b." {
		t.Errorf("abstracts not written: %+v", records)
	}
	// Final flush always happens.
	if len(sink.snapshots) == 0 {
		t.Fatal("no snapshot persisted on completion")
	}
}

func TestRun_ResumeAttemptsOnlyUnresolved(t *testing.T) {
	ts := newAbstractServer(t, nil)
	sink := &memorySink{}

	records := []types.Paper{
		{Title: "A", Link: ts.URL + "/a"},
		{Title: "B", Link: ts.URL + "/b"},
		{Title: "C", Link: ts.URL + "/c"},
	}
	checkpoint := []types.Paper{
		{Title: "A", Link: ts.URL + "/a", Abstract: "Alpha."},
		{Title: "B", Link: ts.URL + "/b", Abstract: "Beta."},
	}
	if merged := corpus.Merge(records, checkpoint); merged != 2 {
		t.Fatalf("Merge = %d, want 2", merged)
	}

	summary, err := newResolver(ts, sink, types.ResolveConfig{}).Run(context.Background(), records)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if summary.Already != 2 || summary.Found != 1 {
		t.Errorf("summary = %+v, want 2 already, 1 found", summary)
	}
	if got := ts.requested(); len(got) != 1 || got[0] != "/c" {
		t.Errorf("requested paths = %v, want only /c", got)
	}
	// Merged abstracts survive untouched.
	if records[0].Abstract != "Alpha." || records[1].Abstract != "Beta." {
		t.Errorf("checkpoint abstracts overwritten: %+v", records)
	}
}

func TestRun_SecondRunFetchesNothing(t *testing.T) {
	ts := newAbstractServer(t, nil)
	sink := &memorySink{}
	records := []types.Paper{{Title: "A", Link: ts.URL + "/a"}}

	r := newResolver(ts, sink, types.ResolveConfig{})
	if _, err := r.Run(context.Background(), records); err != nil {
		t.Fatalf("first Run: %v", err)
	}
	first := len(ts.requested())

	summary, err := r.Run(context.Background(), records)
	if err != nil {
		t.Fatalf("second Run: %v", err)
	}
	if len(ts.requested()) != first {
		t.Errorf("second run issued fetches: %v", ts.requested())
	}
	if summary.Already != 1 || summary.Processed() != 0 {
		t.Errorf("summary = %+v, want 1 already, 0 processed", summary)
	}
}

func TestRun_SentinelAndMissingLinksNeverFetched(t *testing.T) {
	ts := newAbstractServer(t, nil)
	sink := &memorySink{}
	records := []types.Paper{
		{Title: "No link", Link: types.LinkSentinel},
		{Title: "Empty link"},
		{Title: "PDF link", Link: ts.URL + "/paper.pdf"},
	}

	summary, err := newResolver(ts, sink, types.ResolveConfig{}).Run(context.Background(), records)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if summary.Skipped != 3 {
		t.Errorf("Skipped = %d, want 3", summary.Skipped)
	}
	if got := ts.requested(); len(got) != 0 {
		t.Errorf("requested paths = %v, want none", got)
	}
	for _, p := range records {
		if p.HasAbstract() {
			t.Errorf("record %q should stay unresolved", p.Title)
		}
	}
}

func TestRun_RateLimitAbortsAndPersists(t *testing.T) {
	ts := newAbstractServer(t, func(w http.ResponseWriter, r *http.Request) bool {
		if r.URL.Path == "/b" {
			w.WriteHeader(http.StatusTooManyRequests)
			return true
		}
		return false
	})
	sink := &memorySink{}
	records := []types.Paper{
		{Title: "A", Link: ts.URL + "/a"},
		{Title: "B", Link: ts.URL + "/b"},
		{Title: "C", Link: ts.URL + "/c"},
	}

	_, err := newResolver(ts, sink, types.ResolveConfig{}).Run(context.Background(), records)
	if !errors.Is(err, ErrRateLimited) {
		t.Fatalf("err = %v, want ErrRateLimited", err)
	}

	// /c must never be attempted after the abort.
	for _, p := range ts.requested() {
		if p == "/c" {
			t.Error("record after rate limit was fetched")
		}
	}

	// Progress made before the abort is in the flushed snapshot.
	if len(sink.snapshots) == 0 {
		t.Fatal("no snapshot persisted on abort")
	}
	last := sink.snapshots[len(sink.snapshots)-1]
	if last[0].Abstract != "Abstract for /a." {
		t.Errorf("flushed snapshot missing resolved abstract: %+v", last[0])
	}
}

func TestRun_CheckpointCadence(t *testing.T) {
	ts := newAbstractServer(t, nil)
	sink := &memorySink{}
	records := []types.Paper{
		{Title: "A", Link: ts.URL + "/a"},
		{Title: "B", Link: ts.URL + "/b"},
		{Title: "C", Link: ts.URL + "/c"},
	}

	cfg := types.ResolveConfig{CheckpointInterval: 2}
	if _, err := newResolver(ts, sink, cfg).Run(context.Background(), records); err != nil {
		t.Fatalf("Run: %v", err)
	}

	// One checkpoint after the second processed record, plus the final flush.
	if len(sink.snapshots) != 2 {
		t.Fatalf("snapshots = %d, want 2", len(sink.snapshots))
	}
	mid := sink.snapshots[0]
	if !mid[0].HasAbstract() || !mid[1].HasAbstract() {
		t.Error("interval checkpoint missing progress made so far")
	}
}

func TestRun_CancelledContextPersists(t *testing.T) {
	ts := newAbstractServer(t, nil)
	sink := &memorySink{}
	records := []types.Paper{{Title: "A", Link: ts.URL + "/a"}}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newResolver(ts, sink, types.ResolveConfig{}).Run(ctx, records)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
	if len(ts.requested()) != 0 {
		t.Errorf("cancelled run issued fetches: %v", ts.requested())
	}
	if len(sink.snapshots) == 0 {
		t.Fatal("no snapshot persisted on cancellation")
	}
}

func TestRun_SoftFailureContinues(t *testing.T) {
	ts := newAbstractServer(t, func(w http.ResponseWriter, r *http.Request) bool {
		if r.URL.Path == "/a" {
			w.WriteHeader(http.StatusInternalServerError)
			return true
		}
		return false
	})
	sink := &memorySink{}
	records := []types.Paper{
		{Title: "A", Link: ts.URL + "/a"},
		{Title: "B", Link: ts.URL + "/b"},
	}

	summary, err := newResolver(ts, sink, types.ResolveConfig{}).Run(context.Background(), records)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if summary.NotFound != 1 || summary.Found != 1 {
		t.Errorf("summary = %+v, want 1 not found, 1 found", summary)
	}
	if !records[1].HasAbstract() {
		t.Error("record after soft failure was not processed")
	}
}

func TestRun_ProgressOutput(t *testing.T) {
	ts := newAbstractServer(t, nil)
	sink := &memorySink{}
	var buf bytes.Buffer
	r := &Resolver{Client: ts.Client(), Save: sink.save, Out: &buf}

	records := []types.Paper{{Title: "A Very Descriptive Paper Title", Link: ts.URL + "/a"}}
	if _, err := r.Run(context.Background(), records); err != nil {
		t.Fatalf("Run: %v", err)
	}

	out := buf.String()
	if !strings.Contains(out, "fetching: A Very Descriptive Paper Title") {
		t.Errorf("output missing fetch line: %q", out)
	}
	if !strings.Contains(out, "found (") {
		t.Errorf("output missing found line: %q", out)
	}
	if !strings.Contains(out, "Resolution summary:") {
		t.Errorf("output missing summary line: %q", out)
	}
}

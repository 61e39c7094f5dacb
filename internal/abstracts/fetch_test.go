// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package abstracts

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/pdiddy/confmine/pkg/types"
)

func parseDoc(t *testing.T, page string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(page))
	if err != nil {
		t.Fatalf("parsing fixture: %v", err)
	}
	return doc
}

func TestExtract_MetaTag(t *testing.T) {
	doc := parseDoc(t, `<html><head>
		<meta name="citation_abstract" content="  Abstract from metadata.  ">
	</head><body></body></html>`)

	if got := Extract(doc); got != "Abstract from metadata." {
		t.Errorf("Extract = %q, want %q", got, "Abstract from metadata.")
	}
}

func TestExtract_MetaBeatsClass(t *testing.T) {
	doc := parseDoc(t, `<html><head>
		<meta name="citation_abstract" content="Metadata text.">
	</head><body>
		<div class="abstract">Class text.</div>
	</body></html>`)

	if got := Extract(doc); got != "Metadata text." {
		t.Errorf("Extract = %q, want metadata field to win", got)
	}
}

func TestExtract_HeadingNextParagraph(t *testing.T) {
	doc := parseDoc(t, `<html><body>
		<h4>Abstract</h4>
		<p>Text from the sibling paragraph.</p>
		<div class="abstract">Should not be reached.</div>
	</body></html>`)

	if got := Extract(doc); got != "Text from the sibling paragraph." {
		t.Errorf("Extract = %q, want sibling paragraph text", got)
	}
}

func TestExtract_HeadingNextDiv(t *testing.T) {
	doc := parseDoc(t, `<html><body>
		<h3>Abstract</h3>
		<span>noise</span>
		<div>Text from the sibling container.</div>
	</body></html>`)

	if got := Extract(doc); got != "Text from the sibling container." {
		t.Errorf("Extract = %q, want sibling div text", got)
	}
}

func TestExtract_HeadingFollowingBlock(t *testing.T) {
	// No p/div sibling of the heading; the nearest following block in
	// document order lives under a different parent.
	doc := parseDoc(t, `<html><body>
		<section><h2>Abstract</h2></section>
		<section><p>Text found by document-order walk.</p></section>
	</body></html>`)

	if got := Extract(doc); got != "Text found by document-order walk." {
		t.Errorf("Extract = %q, want document-order paragraph text", got)
	}
}

func TestExtract_ClassFallback(t *testing.T) {
	doc := parseDoc(t, `<html><body>
		<h1>Not the right heading level</h1>
		<div class="abstract">
			Text tagged
			with the abstract class.
		</div>
	</body></html>`)

	if got := Extract(doc); got != "Text tagged with the abstract class." {
		t.Errorf("Extract = %q, want class-tagged text with collapsed whitespace", got)
	}
}

func TestExtract_NoHeuristicMatches(t *testing.T) {
	doc := parseDoc(t, `<html><body><p>Just a page about something else.</p></body></html>`)

	if got := Extract(doc); got != "" {
		t.Errorf("Extract = %q, want empty", got)
	}
}

func TestUsableLink(t *testing.T) {
	tests := []struct {
		link string
		want bool
	}{
		{"https://example.com/paper", true},
		{"https://example.com/paper.PDF", false},
		{"https://example.com/paper.pdf", false},
		{"N/A", false},
		{"", false},
		{"http", false},
	}
	for _, tt := range tests {
		if got := UsableLink(tt.link); got != tt.want {
			t.Errorf("UsableLink(%q) = %v, want %v", tt.link, got, tt.want)
		}
	}
}

func testResolveConfig() types.ResolveConfig {
	return types.ResolveConfig{
		HTTPConfig: types.HTTPConfig{
			Timeout:    5 * time.Second,
			UserAgents: []string{"confmine-test/0.1"},
		},
	}
}

func TestFetch_Found(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("User-Agent") != "confmine-test/0.1" {
			t.Errorf("User-Agent = %q, want pool identity", r.Header.Get("User-Agent"))
		}
		fmt.Fprint(w, `<html><head><meta name="citation_abstract" content="Found it."></head></html>`)
	}))
	defer ts.Close()

	out := Fetch(context.Background(), ts.Client(), ts.URL+"/paper", testResolveConfig())
	if out.Status != StatusFound {
		t.Fatalf("Status = %v, want found", out.Status)
	}
	if out.Text != "Found it." {
		t.Errorf("Text = %q, want %q", out.Text, "Found it.")
	}
}

func TestFetch_FollowsRedirect(t *testing.T) {
	var ts *httptest.Server
	ts = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/entry" {
			http.Redirect(w, r, ts.URL+"/landing", http.StatusFound)
			return
		}
		fmt.Fprint(w, `<html><body><h4>Abstract</h4><p>After redirect.</p></body></html>`)
	}))
	defer ts.Close()

	out := Fetch(context.Background(), ts.Client(), ts.URL+"/entry", testResolveConfig())
	if out.Status != StatusFound || out.Text != "After redirect." {
		t.Fatalf("got %+v, want found after redirect", out)
	}
}

func TestFetch_RateLimited(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer ts.Close()

	out := Fetch(context.Background(), ts.Client(), ts.URL, testResolveConfig())
	if out.Status != StatusRateLimited {
		t.Fatalf("Status = %v, want rate-limited", out.Status)
	}
}

func TestFetch_NonSuccessIsSoftFailure(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer ts.Close()

	out := Fetch(context.Background(), ts.Client(), ts.URL, testResolveConfig())
	if out.Status != StatusNotFound {
		t.Fatalf("Status = %v, want not-found", out.Status)
	}
}

func TestFetch_ConnectionErrorIsSoftFailure(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	ts.Close() // connection refused from here on

	out := Fetch(context.Background(), http.DefaultClient, ts.URL, testResolveConfig())
	if out.Status != StatusNotFound {
		t.Fatalf("Status = %v, want not-found", out.Status)
	}
}

func TestFetch_SkipsDocumentLinks(t *testing.T) {
	called := false
	ts := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		called = true
	}))
	defer ts.Close()

	out := Fetch(context.Background(), ts.Client(), ts.URL+"/paper.pdf", testResolveConfig())
	if out.Status != StatusSkipped {
		t.Fatalf("Status = %v, want skipped", out.Status)
	}
	if called {
		t.Error("document link should not be fetched")
	}
}

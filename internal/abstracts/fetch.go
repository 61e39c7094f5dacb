// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package abstracts resolves paper abstracts by fetching each record's
// landing page and applying prioritized extraction heuristics. The fetch is
// a pure mapping from link to outcome; the run loop owns all corpus
// mutation and checkpointing.
package abstracts

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"github.com/pdiddy/confmine/internal/httputil"
	"github.com/pdiddy/confmine/pkg/types"
)

// ErrRateLimited is returned by Resolver.Run when the remote site answers
// HTTP 429. It aborts the whole run, not just the current record.
var ErrRateLimited = errors.New("rate limited (HTTP 429)")

// Status classifies the outcome of a single abstract fetch.
type Status int

const (
	// StatusNotFound covers every soft failure: non-200 responses,
	// transport errors, unparseable pages, and pages where no heuristic
	// matched. The record stays unresolved and is re-attempted next run.
	StatusNotFound Status = iota

	// StatusFound means a heuristic produced abstract text.
	StatusFound

	// StatusSkipped means the link was not fetchable: too short to be an
	// address, or a direct document download rather than a landing page.
	StatusSkipped

	// StatusRateLimited means the site answered HTTP 429.
	StatusRateLimited
)

func (s Status) String() string {
	switch s {
	case StatusFound:
		return "found"
	case StatusSkipped:
		return "skipped"
	case StatusRateLimited:
		return "rate-limited"
	default:
		return "not-found"
	}
}

// Outcome is the result of one fetch attempt. Text is set only for
// StatusFound.
type Outcome struct {
	Status Status
	Text   string
}

// UsableLink reports whether link points at an HTML landing page worth
// fetching. Direct PDF downloads carry no extractable abstract markup.
func UsableLink(link string) bool {
	if len(link) < 5 {
		return false
	}
	return !strings.HasSuffix(strings.ToLower(link), ".pdf")
}

// Fetch retrieves link and extracts an abstract from the response. It
// issues a single GET with a randomly chosen identity from the configured
// pool; redirects are followed by the client (index links often redirect to
// the actual proceedings page). There is no retry: a failed fetch is simply
// not found.
func Fetch(ctx context.Context, client *http.Client, link string, cfg types.ResolveConfig) Outcome {
	if !UsableLink(link) {
		return Outcome{Status: StatusSkipped}
	}

	req, err := httputil.NewRequest(ctx, link, cfg.UserAgents, cfg.Contact)
	if err != nil {
		return Outcome{Status: StatusNotFound}
	}

	resp, err := client.Do(req)
	if err != nil {
		return Outcome{Status: StatusNotFound}
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		return Outcome{Status: StatusRateLimited}
	}
	if resp.StatusCode != http.StatusOK {
		return Outcome{Status: StatusNotFound}
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return Outcome{Status: StatusNotFound}
	}

	if text := Extract(doc); text != "" {
		return Outcome{Status: StatusFound, Text: text}
	}
	return Outcome{Status: StatusNotFound}
}

// Extract applies the extraction heuristics in priority order and returns
// the first hit, or "" when none match.
//
// Priority:
//  1. citation_abstract meta tag — proceedings pages usually carry the
//     abstract verbatim in structured metadata.
//  2. An h2/h3/h4 heading containing "Abstract", then its next sibling <p>,
//     else its next sibling <div>, else the nearest following <p> or <div>
//     in document order.
//  3. The first element carrying an "abstract" class.
func Extract(doc *goquery.Document) string {
	if content, ok := doc.Find(`meta[name="citation_abstract"]`).First().Attr("content"); ok {
		if text := strings.TrimSpace(content); text != "" {
			return text
		}
	}

	heading := doc.Find("h2, h3, h4").FilterFunction(func(_ int, s *goquery.Selection) bool {
		return strings.Contains(s.Text(), "Abstract")
	}).First()
	if heading.Length() > 0 {
		if sib := heading.NextFiltered("p"); sib.Length() > 0 {
			return elementText(sib)
		}
		if sib := heading.NextFiltered("div"); sib.Length() > 0 {
			return elementText(sib)
		}
		if n := followingBlock(heading.Get(0)); n != nil {
			return collapse(nodeText(n))
		}
	}

	if elem := doc.Find(".abstract").First(); elem.Length() > 0 {
		return elementText(elem)
	}

	return ""
}

// elementText returns the selection's text with whitespace collapsed.
func elementText(s *goquery.Selection) string {
	return collapse(s.Text())
}

func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// followingBlock walks the parse tree in document order starting after
// start and returns the first <p> or <div> element, or nil.
func followingBlock(start *html.Node) *html.Node {
	for n := nextNode(start); n != nil; n = nextNode(n) {
		if n.Type == html.ElementNode && (n.Data == "p" || n.Data == "div") {
			return n
		}
	}
	return nil
}

// nextNode returns the node after n in document order: first child, else
// next sibling, else the next sibling of the closest ancestor that has one.
func nextNode(n *html.Node) *html.Node {
	if n.FirstChild != nil {
		return n.FirstChild
	}
	for ; n != nil; n = n.Parent {
		if n.NextSibling != nil {
			return n.NextSibling
		}
	}
	return nil
}

// nodeText concatenates the text content beneath n.
func nodeText(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return b.String()
}

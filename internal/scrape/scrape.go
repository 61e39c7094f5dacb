// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package scrape walks a DBLP-style bibliographic index and extracts
// proceedings entries (year, title, authors, external link) for a venue.
// Parsing is best-effort: an entry missing a piece gets a fallback value
// rather than aborting the volume.
package scrape

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/pdiddy/confmine/internal/httputil"
	"github.com/pdiddy/confmine/pkg/types"
)

// Index base URLs. Declared as vars so tests can substitute an httptest
// server.
var (
	indexURLFormat = "https://dblp.org/db/conf/%s/index.html"
	rootURL        = "https://dblp.org/"
)

const unknownTitle = "Unknown Title"

// VolumeLink points at one conference year's listing page.
type VolumeLink struct {
	Year int
	URL  string
}

// VolumeLinks scans every anchor on the venue index page for links to
// yearly volumes within the configured range, newest first. The pattern
// tolerates renamed streams (e.g. nips2019.html and neurips2024.html both
// live under conf/nips/).
func VolumeLinks(doc *goquery.Document, cfg types.ScrapeConfig) []VolumeLink {
	pattern := regexp.MustCompile(`conf/` + regexp.QuoteMeta(cfg.Venue) + `/[a-z]+(\d{4})\.html`)

	seen := make(map[int]bool)
	var links []VolumeLink

	doc.Find("a[href]").Each(func(_ int, a *goquery.Selection) {
		href, _ := a.Attr("href")
		m := pattern.FindStringSubmatch(href)
		if m == nil {
			return
		}
		year, _ := strconv.Atoi(m[1])
		if year < cfg.StartYear || year > cfg.EndYear || seen[year] {
			return
		}
		seen[year] = true
		links = append(links, VolumeLink{Year: year, URL: resolveURL(rootURL, href)})
	})

	sort.Slice(links, func(i, j int) bool { return links[i].Year > links[j].Year })
	return links
}

// ParseVolume extracts paper records from one year's listing page. Entries
// are li.entry.inproceedings items; the external link is the first ee
// (electronic edition) anchor, or the sentinel when the entry has none.
func ParseVolume(year int, doc *goquery.Document) []types.Paper {
	var papers []types.Paper

	doc.Find("li.entry.inproceedings").Each(func(_ int, entry *goquery.Selection) {
		title := collapse(entry.Find("span.title").First().Text())
		if title == "" {
			title = unknownTitle
		}

		var authors []string
		entry.Find("span[itemprop='author']").Each(func(_ int, a *goquery.Selection) {
			if name := collapse(a.Text()); name != "" {
				authors = append(authors, name)
			}
		})

		link := types.LinkSentinel
		if href, ok := entry.Find("li.ee a").First().Attr("href"); ok && href != "" {
			link = href
		}

		papers = append(papers, types.Paper{
			Year:    year,
			Title:   title,
			Authors: strings.Join(authors, ", "),
			Link:    link,
		})
	})

	return papers
}

// Scrape fetches the venue index, then walks each volume in range newest
// first with a politeness delay between requests. A volume that fails to
// fetch is reported and skipped; the rest of the run continues.
func Scrape(ctx context.Context, client *http.Client, cfg types.ScrapeConfig, w io.Writer) ([]types.Paper, error) {
	indexURL := fmt.Sprintf(indexURLFormat, cfg.Venue)
	doc, err := fetchDoc(ctx, client, indexURL, cfg.HTTPConfig)
	if err != nil {
		return nil, fmt.Errorf("loading index: %w", err)
	}

	volumes := VolumeLinks(doc, cfg)
	if len(volumes) == 0 {
		return nil, fmt.Errorf("no volumes found for %s in %d-%d", cfg.Venue, cfg.StartYear, cfg.EndYear)
	}
	fmt.Fprintf(w, "Found %d volumes for %s (%d-%d)\n", len(volumes), cfg.Venue, cfg.StartYear, cfg.EndYear)

	var records []types.Paper
	for i, v := range volumes {
		if i > 0 && cfg.RequestDelay > 0 {
			select {
			case <-ctx.Done():
				return records, ctx.Err()
			case <-time.After(cfg.RequestDelay):
			}
		}
		if err := ctx.Err(); err != nil {
			return records, err
		}

		volDoc, err := fetchDoc(ctx, client, v.URL, cfg.HTTPConfig)
		if err != nil {
			fmt.Fprintf(w, "warning: %d: %v\n", v.Year, err)
			continue
		}
		papers := ParseVolume(v.Year, volDoc)
		fmt.Fprintf(w, "%d: %d papers\n", v.Year, len(papers))
		records = append(records, papers...)
	}

	fmt.Fprintf(w, "\nScraped %d papers total\n", len(records))
	return records, nil
}

// fetchDoc retrieves url and parses it as HTML.
func fetchDoc(ctx context.Context, client *http.Client, pageURL string, cfg types.HTTPConfig) (*goquery.Document, error) {
	req, err := httputil.NewRequest(ctx, pageURL, cfg.UserAgents, cfg.Contact)
	if err != nil {
		return nil, err
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", pageURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP %d from %s", resp.StatusCode, pageURL)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", pageURL, err)
	}
	return doc, nil
}

// resolveURL joins a possibly relative href against base.
func resolveURL(base, href string) string {
	b, err := url.Parse(base)
	if err != nil {
		return href
	}
	u, err := b.Parse(href)
	if err != nil {
		return href
	}
	return u.String()
}

func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package httputil provides HTTP helpers shared across stages.
package httputil

import (
	"context"
	"fmt"
	"math/rand/v2"
	"net/http"
	"time"
)

// defaultUserAgents is the built-in identity pool. Rotating a handful of
// common browser identities reduces trivial blocking; it is not a
// correctness mechanism.
var defaultUserAgents = []string{
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.114 Safari/537.36",
	"Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/92.0.4515.107 Safari/537.36",
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64; rv:90.0) Gecko/20100101 Firefox/90.0",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10.15; rv:90.0) Gecko/20100101 Firefox/90.0",
}

// RandomUserAgent returns a randomly chosen identity from pool, falling
// back to the built-in browser pool when pool is empty.
func RandomUserAgent(pool []string) string {
	if len(pool) == 0 {
		pool = defaultUserAgents
	}
	return pool[rand.IntN(len(pool))]
}

// NewRequest builds a GET request for url with a randomly chosen User-Agent
// from pool and an optional From contact header. Redirect following is left
// to the http.Client defaults.
func NewRequest(ctx context.Context, url string, pool []string, contact string) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", RandomUserAgent(pool))
	if contact != "" {
		req.Header.Set("From", contact)
	}
	return req, nil
}

// NewClient returns an http.Client with the given timeout. A zero timeout
// falls back to 15 s, the bound the pipeline uses for landing pages.
func NewClient(timeout time.Duration) *http.Client {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &http.Client{Timeout: timeout}
}

// Jitter returns a random duration in [min, max]. It backs the politeness
// delay between consecutive fetches. When the bounds are inverted or
// non-positive the minimum is returned as-is.
func Jitter(min, max time.Duration) time.Duration {
	if max <= min {
		return min
	}
	return min + rand.N(max-min)
}

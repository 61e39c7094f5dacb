// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// HTTPConfig holds shared HTTP settings used by stages that make network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgents is the pool of User-Agent strings; each request picks one
	// at random. An empty pool falls back to the built-in browser pool.
	UserAgents []string `json:"user_agents,omitempty" yaml:"user_agents,omitempty"`

	// Contact is an optional operator contact address sent as the From
	// header so site owners can reach out about crawl traffic.
	Contact string `json:"contact,omitempty" yaml:"contact,omitempty"`
}

// ScrapeConfig holds settings for the index-scraping stage.
type ScrapeConfig struct {
	HTTPConfig `yaml:",inline"`

	// Venue is the conference stream key on the index site (e.g. "nips", "kdd").
	Venue string `json:"venue" yaml:"venue"`

	// StartYear and EndYear bound the volumes scraped, inclusive.
	StartYear int `json:"start_year" yaml:"start_year"`
	EndYear   int `json:"end_year" yaml:"end_year"`

	// RequestDelay is the pause between consecutive volume fetches.
	RequestDelay time.Duration `json:"request_delay" yaml:"request_delay"`
}

// ResolveConfig holds settings for the abstract-resolution stage.
type ResolveConfig struct {
	HTTPConfig `yaml:",inline"`

	// CheckpointInterval is the number of processed records between
	// whole-file checkpoint rewrites (default 20).
	CheckpointInterval int `json:"checkpoint_interval" yaml:"checkpoint_interval"`

	// DelayMin and DelayMax bound the randomized politeness delay between
	// consecutive fetches (defaults 2s and 5s).
	DelayMin time.Duration `json:"delay_min" yaml:"delay_min"`
	DelayMax time.Duration `json:"delay_max" yaml:"delay_max"`
}

// AnalysisConfig holds settings for keyword counting over titles.
type AnalysisConfig struct {
	// TopN is the number of keywords reported per section (default 20).
	TopN int `json:"top_n" yaml:"top_n"`

	// ExtraStopWords are appended to the standard and domain stop lists.
	ExtraStopWords []string `json:"extra_stop_words,omitempty" yaml:"extra_stop_words,omitempty"`
}

// TopicsConfig holds settings for LDA topic modeling.
type TopicsConfig struct {
	// NumTopics is the number of topics fit per year (default 20).
	NumTopics int `json:"num_topics" yaml:"num_topics"`

	// Sweeps is the number of Gibbs sampling passes (default 100).
	Sweeps int `json:"sweeps" yaml:"sweeps"`

	// TopWords is the number of terms printed per topic (default 20).
	TopWords int `json:"top_words" yaml:"top_words"`

	// MinDocs drops vocabulary terms appearing in fewer documents (default 2).
	MinDocs int `json:"min_docs" yaml:"min_docs"`

	// MaxDocFrac drops vocabulary terms appearing in more than this
	// fraction of documents (default 0.95).
	MaxDocFrac float64 `json:"max_doc_frac" yaml:"max_doc_frac"`

	// MinPapers skips years with fewer papers than this (default 5).
	MinPapers int `json:"min_papers" yaml:"min_papers"`

	// Seed fixes the sampler's random source for reproducible runs.
	Seed int64 `json:"seed" yaml:"seed"`
}

// FramesConfig holds settings for per-year word-frequency frame export.
type FramesConfig struct {
	// MaxWords caps the number of words kept per frame (default 100).
	MaxWords int `json:"max_words" yaml:"max_words"`

	// FramesDir is the directory frame files are written to.
	FramesDir string `json:"frames_dir" yaml:"frames_dir"`
}

// PipelineConfig groups all stage configurations for the pipeline.
type PipelineConfig struct {
	Scrape   ScrapeConfig   `json:"scrape" yaml:"scrape"`
	Resolve  ResolveConfig  `json:"resolve" yaml:"resolve"`
	Analysis AnalysisConfig `json:"analysis" yaml:"analysis"`
	Topics   TopicsConfig   `json:"topics" yaml:"topics"`
	Frames   FramesConfig   `json:"frames" yaml:"frames"`
}

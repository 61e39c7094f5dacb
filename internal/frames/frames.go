// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package frames exports per-year word-frequency tables. Each frame is a
// small CSV (word, count) that downstream renderers turn into one word
// cloud; the manifest lists frames in year order so an animation can be
// assembled from them.
package frames

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/confmine/internal/analysis"
	"github.com/pdiddy/confmine/pkg/types"
)

const defaultMaxWords = 100

// Frame describes one exported frequency table.
type Frame struct {
	Year  int    `yaml:"year"`
	Path  string `yaml:"path"`
	Words int    `yaml:"words"`
}

// Manifest lists the exported frames in year order.
type Manifest struct {
	Venue       string    `yaml:"venue"`
	GeneratedAt time.Time `yaml:"generated_at"`
	Frames      []Frame   `yaml:"frames"`
}

// Export writes one frequency CSV per year under cfg.FramesDir plus a YAML
// manifest, and returns the frames oldest year first. Years whose titles
// produce no tokens are reported and skipped.
func Export(records []types.Paper, venue string, tok *analysis.Tokenizer, cfg types.FramesConfig, w io.Writer) (Manifest, error) {
	maxWords := cfg.MaxWords
	if maxWords <= 0 {
		maxWords = defaultMaxWords
	}

	if err := os.MkdirAll(cfg.FramesDir, 0o755); err != nil {
		return Manifest{}, fmt.Errorf("creating frames directory: %w", err)
	}

	byYear := make(map[int][]string)
	for _, p := range records {
		byYear[p.Year] = append(byYear[p.Year], p.Title)
	}
	years := make([]int, 0, len(byYear))
	for y := range byYear {
		years = append(years, y)
	}
	sort.Ints(years)

	manifest := Manifest{Venue: venue, GeneratedAt: time.Now()}
	for _, year := range years {
		counts := analysis.TopN(analysis.Count(byYear[year], tok), maxWords)
		if len(counts) == 0 {
			fmt.Fprintf(w, "skipping %d (no words found)\n", year)
			continue
		}

		path := filepath.Join(cfg.FramesDir, fmt.Sprintf("%s_%d.csv", venue, year))
		if err := writeFrame(path, counts); err != nil {
			return manifest, fmt.Errorf("writing frame for %d: %w", year, err)
		}
		fmt.Fprintf(w, "frame %d: %d words -> %s\n", year, len(counts), path)
		manifest.Frames = append(manifest.Frames, Frame{Year: year, Path: path, Words: len(counts)})
	}

	manifestPath := filepath.Join(cfg.FramesDir, venue+"_frames.yaml")
	if err := writeManifest(manifestPath, manifest); err != nil {
		return manifest, err
	}
	fmt.Fprintf(w, "manifest: %s (%d frames)\n", manifestPath, len(manifest.Frames))
	return manifest, nil
}

func writeFrame(path string, counts []analysis.KeywordCount) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}

	cw := csv.NewWriter(f)
	writeErr := cw.Write([]string{"word", "count"})
	for _, kc := range counts {
		if writeErr != nil {
			break
		}
		writeErr = cw.Write([]string{kc.Word, strconv.Itoa(kc.Count)})
	}
	cw.Flush()
	if writeErr == nil {
		writeErr = cw.Error()
	}
	if closeErr := f.Close(); writeErr == nil {
		writeErr = closeErr
	}
	return writeErr
}

func writeManifest(path string, m Manifest) error {
	data, err := yaml.Marshal(&m)
	if err != nil {
		return fmt.Errorf("marshaling manifest: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// ReadFrame loads a frame CSV back into keyword counts, preserving order.
func ReadFrame(path string) ([]analysis.KeywordCount, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading frame %s: %w", path, err)
	}

	var counts []analysis.KeywordCount
	for i, row := range rows {
		if i == 0 || len(row) < 2 {
			continue
		}
		n, err := strconv.Atoi(row[1])
		if err != nil {
			return nil, fmt.Errorf("frame %s row %d: bad count %q", path, i, row[1])
		}
		counts = append(counts, analysis.KeywordCount{Word: row[0], Count: n})
	}
	return counts, nil
}

// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package corpus loads, persists, and merges the flat tabular paper corpus.
// The on-disk artifact is a CSV with columns Year, Title, Authors, Link and
// (once resolution has started) Abstract. The file is always rewritten
// wholesale; there is no append log and no partial-record patching.
package corpus

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pdiddy/confmine/pkg/types"
)

// header is the column order Save writes. Load accepts any column order.
var header = []string{"Year", "Title", "Authors", "Link", "Abstract"}

// Load reads the corpus CSV at path. The Abstract column is optional;
// unknown columns are ignored. Rows with an unparseable year keep year 0
// rather than aborting the load.
func Load(path string) ([]types.Paper, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening corpus %s: %w", path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading corpus %s: %w", path, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("corpus %s is empty", path)
	}

	cols := columnIndex(rows[0])
	if _, ok := cols["link"]; !ok {
		return nil, fmt.Errorf("corpus %s has no Link column", path)
	}

	records := make([]types.Paper, 0, len(rows)-1)
	for _, row := range rows[1:] {
		p := types.Paper{
			Title:    field(row, cols, "title"),
			Authors:  field(row, cols, "authors"),
			Link:     field(row, cols, "link"),
			Abstract: field(row, cols, "abstract"),
		}
		if y := field(row, cols, "year"); y != "" {
			p.Year, _ = strconv.Atoi(strings.TrimSpace(y))
		}
		records = append(records, p)
	}
	return records, nil
}

// Save rewrites the corpus CSV at path, always including the Abstract
// column. The file is written to a temp file in the same directory and
// renamed into place so a checkpoint is replaced atomically-by-rewrite.
func Save(records []types.Paper, path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating directory %s: %w", dir, err)
	}

	tmpFile, err := os.CreateTemp(dir, ".corpus-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmpFile.Name()

	w := csv.NewWriter(tmpFile)
	writeErr := w.Write(header)
	for _, p := range records {
		if writeErr != nil {
			break
		}
		writeErr = w.Write([]string{
			strconv.Itoa(p.Year), p.Title, p.Authors, p.Link, p.Abstract,
		})
	}
	w.Flush()
	if writeErr == nil {
		writeErr = w.Error()
	}
	closeErr := tmpFile.Close()
	if writeErr != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("writing corpus: %w", writeErr)
	}
	if closeErr != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("closing temp file: %w", closeErr)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("renaming temp file: %w", err)
	}
	return nil
}

// Merge copies every non-empty abstract from checkpoint into the matching
// record (by Link) in records, in place, and returns the number of records
// that gained an abstract. Records that already have an abstract keep it.
// This is the resume step: two runs over the same corpus converge to the
// same final abstract set regardless of where the first was interrupted.
func Merge(records, checkpoint []types.Paper) int {
	resolved := make(map[string]string, len(checkpoint))
	for _, p := range checkpoint {
		if p.HasLink() && p.HasAbstract() {
			resolved[p.Link] = p.Abstract
		}
	}

	merged := 0
	for i := range records {
		if records[i].HasAbstract() {
			continue
		}
		if text, ok := resolved[records[i].Link]; ok {
			records[i].Abstract = text
			merged++
		}
	}
	return merged
}

// CountResolved returns the number of records with a non-empty abstract.
func CountResolved(records []types.Paper) int {
	n := 0
	for _, p := range records {
		if p.HasAbstract() {
			n++
		}
	}
	return n
}

func columnIndex(headerRow []string) map[string]int {
	cols := make(map[string]int, len(headerRow))
	for i, name := range headerRow {
		cols[strings.ToLower(strings.TrimSpace(name))] = i
	}
	return cols
}

func field(row []string, cols map[string]int, name string) string {
	i, ok := cols[name]
	if !ok || i >= len(row) {
		return ""
	}
	return row[i]
}

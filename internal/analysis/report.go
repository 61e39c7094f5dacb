// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package analysis

import (
	"fmt"
	"os"
	"time"

	"go.yaml.in/yaml/v3"
)

// ReportFile is the on-disk representation of a keyword report, so a run's
// output can be kept next to the corpus without re-running the analysis.
type ReportFile struct {
	GeneratedAt time.Time `yaml:"generated_at"`
	Report      Report    `yaml:"report"`
}

// WriteReport saves the report to a YAML file.
func WriteReport(path string, r Report) error {
	rf := ReportFile{
		GeneratedAt: time.Now(),
		Report:      r,
	}
	data, err := yaml.Marshal(&rf)
	if err != nil {
		return fmt.Errorf("marshaling report: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// ReadReport loads a previously written report file.
func ReadReport(path string) (ReportFile, error) {
	var rf ReportFile
	data, err := os.ReadFile(path)
	if err != nil {
		return rf, err
	}
	if err := yaml.Unmarshal(data, &rf); err != nil {
		return rf, fmt.Errorf("parsing report %s: %w", path, err)
	}
	return rf, nil
}

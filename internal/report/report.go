// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package report writes the run summary as YAML. The report is a record of
// one run for the operator; nothing reads it back.
package report

import (
	"fmt"
	"os"
	"path/filepath"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/boundary-fetch/pkg/types"
)

// Report is the on-disk form of a run summary.
type Report struct {
	Started  string             `yaml:"started"`
	Finished string             `yaml:"finished"`
	Totals   Totals             `yaml:"totals"`
	Files    []types.FileResult `yaml:"files"`
}

// Totals counts node outcomes across the run.
type Totals struct {
	Nodes          int `yaml:"nodes"`
	Saved          int `yaml:"saved"`
	Undersized     int `yaml:"undersized"`
	LookupFailed   int `yaml:"lookup_failed"`
	DownloadFailed int `yaml:"download_failed"`
	SessionErrors  int `yaml:"session_errors"`
}

const timeFmt = "2006-01-02 15:04:05"

// FromSummary builds the report for s.
func FromSummary(s types.Summary) Report {
	r := Report{
		Started:  s.Started.Format(timeFmt),
		Finished: s.Finished.Format(timeFmt),
		Files:    s.Files,
		Totals: Totals{
			Nodes:          s.Total(),
			Saved:          s.Count(types.StatusSaved),
			Undersized:     s.Count(types.StatusUndersized),
			LookupFailed:   s.Count(types.StatusLookupFailed),
			DownloadFailed: s.Count(types.StatusDownloadFailed),
		},
	}
	for _, f := range s.Files {
		if f.SessionError != "" {
			r.Totals.SessionErrors++
		}
	}
	return r
}

// Write saves the report for s to path, replacing any previous report.
func Write(path string, s types.Summary) error {
	data, err := yaml.Marshal(FromSummary(s))
	if err != nil {
		return fmt.Errorf("marshaling report: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating report directory: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".report-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmp.Name()
	_, writeErr := tmp.Write(data)
	closeErr := tmp.Close()
	if writeErr != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("writing report: %w", writeErr)
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

// Read loads a report written by Write.
func Read(path string) (*Report, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading report: %w", err)
	}
	var r Report
	if err := yaml.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("parsing report: %w", err)
	}
	return &r, nil
}

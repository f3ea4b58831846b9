// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// NodeStatus is the outcome of fetching a single node.
type NodeStatus string

const (
	StatusSaved          NodeStatus = "saved"
	StatusUndersized     NodeStatus = "undersized"
	StatusLookupFailed   NodeStatus = "lookup_failed"
	StatusDownloadFailed NodeStatus = "download_failed"
)

// NodeResult records what happened to one outline node.
type NodeResult struct {
	Line   int        `json:"line" yaml:"line"`
	Level  Level      `json:"level" yaml:"level"`
	Code   string     `json:"code" yaml:"code"`
	Label  string     `json:"label" yaml:"label"`
	Path   []string   `json:"path" yaml:"path"`
	Status NodeStatus `json:"status" yaml:"status"`

	// SavedPath is the file written for a saved node.
	SavedPath string `json:"saved_path,omitempty" yaml:"saved_path,omitempty"`

	// Bytes is the size of the downloaded body, when one was received.
	Bytes int64 `json:"bytes,omitempty" yaml:"bytes,omitempty"`

	Error string `json:"error,omitempty" yaml:"error,omitempty"`
}

// FileResult records the processing of one outline document.
type FileResult struct {
	File string `json:"file" yaml:"file"`

	// SessionError is set when the session could not be established and
	// the file was not processed.
	SessionError string `json:"session_error,omitempty" yaml:"session_error,omitempty"`

	// ReadError is set when reading the outline stopped early.
	ReadError string `json:"read_error,omitempty" yaml:"read_error,omitempty"`

	Nodes []NodeResult `json:"nodes" yaml:"nodes"`
}

// Count returns the number of nodes with the given status.
func (r FileResult) Count(status NodeStatus) int {
	n := 0
	for _, node := range r.Nodes {
		if node.Status == status {
			n++
		}
	}
	return n
}

// Summary is the outcome of a whole run.
type Summary struct {
	Started  time.Time    `json:"started" yaml:"started"`
	Finished time.Time    `json:"finished" yaml:"finished"`
	Files    []FileResult `json:"files" yaml:"files"`
}

// Count returns the number of nodes with the given status across all files.
func (s Summary) Count(status NodeStatus) int {
	n := 0
	for _, f := range s.Files {
		n += f.Count(status)
	}
	return n
}

// Total returns the number of nodes processed across all files.
func (s Summary) Total() int {
	n := 0
	for _, f := range s.Files {
		n += len(f.Nodes)
	}
	return n
}

// Failed returns the number of nodes that were not saved.
func (s Summary) Failed() int {
	return s.Total() - s.Count(StatusSaved)
}

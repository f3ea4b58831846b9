// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package fetch resolves outline nodes to data files on the map site and
// mirrors them into a local directory tree.
//
// Each node takes two requests: a lookup that returns the server-side file
// path, then a download of that file in the configured format. Failures are
// local to the node; they are logged and the run moves on.
package fetch

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/pdiddy/boundary-fetch/internal/httputil"
	"github.com/pdiddy/boundary-fetch/internal/outline"
	"github.com/pdiddy/boundary-fetch/pkg/types"
)

// lookupSuccess is the status value of an accepted lookup.
const lookupSuccess = "success"

// ErrUndersized reports a download body too small to be a data file.
var ErrUndersized = errors.New("response body below minimum size")

// StatusError reports a non-200 response.
type StatusError struct {
	URL        string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("HTTP %d from %s", e.StatusCode, e.URL)
}

// LookupError reports a lookup answered with 200 but no usable file path.
type LookupError struct {
	URL     string
	Message string
}

func (e *LookupError) Error() string {
	return fmt.Sprintf("lookup rejected: %s (%s)", e.Message, e.URL)
}

// lookupResponse is the JSON body of both lookup endpoints.
type lookupResponse struct {
	Status   string  `json:"status"`
	Filepath *string `json:"filepath"`
	Message  string  `json:"message"`
}

// Fetcher performs lookups and downloads over one session.
type Fetcher struct {
	client *http.Client
	cfg    types.FetchConfig
	log    *slog.Logger
}

// NewFetcher returns a Fetcher using client for every request.
func NewFetcher(client *http.Client, cfg types.FetchConfig, log *slog.Logger) *Fetcher {
	return &Fetcher{client: client, cfg: cfg, log: log}
}

// Lookup resolves an entry to the server-side file path of its data.
func (f *Fetcher) Lookup(ctx context.Context, e outline.Entry) (string, error) {
	u := LookupURL(f.cfg.BaseURL, e)
	f.log.Info("lookup", "url", u)

	resp, err := httputil.Get(ctx, f.client, u, f.cfg.LookupTimeout)
	if err != nil {
		return "", fmt.Errorf("lookup request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", &StatusError{URL: u, StatusCode: resp.StatusCode}
	}

	var lr lookupResponse
	if err := json.NewDecoder(resp.Body).Decode(&lr); err != nil {
		return "", fmt.Errorf("parsing lookup response from %s: %w", u, err)
	}
	if lr.Status != lookupSuccess {
		msg := lr.Message
		if msg == "" {
			msg = fmt.Sprintf("status %q", lr.Status)
		}
		return "", &LookupError{URL: u, Message: msg}
	}
	if lr.Filepath == nil || strings.TrimSpace(*lr.Filepath) == "" {
		return "", &LookupError{URL: u, Message: "no filepath in response"}
	}
	return *lr.Filepath, nil
}

// Download fetches url into destPath through a temporary file in the same
// directory, which must exist. Bodies shorter than MinBytes are discarded
// and reported with ErrUndersized; destPath is left untouched. The byte
// count is returned whenever a body was received.
func (f *Fetcher) Download(ctx context.Context, url, destPath string) (int64, error) {
	resp, err := httputil.Get(ctx, f.client, url, f.cfg.DownloadTimeout)
	if err != nil {
		return 0, fmt.Errorf("download request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, &StatusError{URL: url, StatusCode: resp.StatusCode}
	}

	tmpFile, err := os.CreateTemp(filepath.Dir(destPath), ".download-*.tmp")
	if err != nil {
		return 0, fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmpFile.Name()

	n, copyErr := io.Copy(tmpFile, resp.Body)
	chmodErr := tmpFile.Chmod(0o644)
	closeErr := tmpFile.Close()
	if copyErr != nil {
		os.Remove(tmpPath)
		return n, fmt.Errorf("writing download: %w", copyErr)
	}
	if closeErr != nil {
		os.Remove(tmpPath)
		return n, fmt.Errorf("closing temp file: %w", closeErr)
	}
	if chmodErr != nil {
		os.Remove(tmpPath)
		return n, fmt.Errorf("setting file mode: %w", chmodErr)
	}

	if n < f.cfg.MinBytes {
		os.Remove(tmpPath)
		return n, fmt.Errorf("%w: %d bytes", ErrUndersized, n)
	}

	if err := os.Rename(tmpPath, destPath); err != nil {
		os.Remove(tmpPath)
		return n, fmt.Errorf("renaming temp file: %w", err)
	}
	return n, nil
}

// FetchNode runs the lookup and download for one entry and reports the
// outcome. It never returns an error: every failure is logged and recorded
// in the result.
func (f *Fetcher) FetchNode(ctx context.Context, e outline.Entry) types.NodeResult {
	res := types.NodeResult{
		Line:  e.Line,
		Level: e.Node.Level,
		Code:  e.Node.Code,
		Label: e.Node.Label,
		Path:  e.Path,
	}
	log := f.log.With("line", e.Line, "level", int(e.Node.Level), "code", e.Node.Code)
	log.Info("processing node", "path", strings.Join(e.Path, " / "))

	remote, err := f.Lookup(ctx, e)
	if err != nil {
		log.Error("lookup failed", "error", err)
		res.Status = types.StatusLookupFailed
		res.Error = err.Error()
		return res
	}
	log.Info("lookup resolved", "filepath", remote)

	out := ResolvePath(f.cfg.OutputDir, f.cfg.Extension, e)
	if err := os.MkdirAll(out.NodeDir, 0o755); err != nil {
		log.Error("creating directory failed", "dir", out.NodeDir, "error", err)
		res.Status = types.StatusDownloadFailed
		res.Error = fmt.Sprintf("creating directory %s: %v", out.NodeDir, err)
		return res
	}

	u := DownloadURL(f.cfg.BaseURL, remote, f.cfg.Format)
	log.Info("downloading", "url", u)
	n, err := f.Download(ctx, u, out.File)
	res.Bytes = n
	switch {
	case errors.Is(err, ErrUndersized):
		log.Warn("download looks invalid, not saved", "bytes", n, "path", out.File)
		res.Status = types.StatusUndersized
		res.Error = err.Error()
	case err != nil:
		log.Error("download failed", "url", u, "error", err)
		res.Status = types.StatusDownloadFailed
		res.Error = err.Error()
	default:
		log.Info("saved", "path", out.File, "bytes", n)
		res.Status = types.StatusSaved
		res.SavedPath = out.File
	}
	return res
}

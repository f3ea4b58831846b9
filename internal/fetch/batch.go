// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package fetch

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"path/filepath"
	"sort"
	"time"

	"github.com/pdiddy/boundary-fetch/internal/httputil"
	"github.com/pdiddy/boundary-fetch/internal/outline"
	"github.com/pdiddy/boundary-fetch/pkg/types"
)

// Inputs returns the files matching glob in sorted order.
func Inputs(glob string) ([]string, error) {
	files, err := filepath.Glob(glob)
	if err != nil {
		return nil, fmt.Errorf("matching %q: %w", glob, err)
	}
	sort.Strings(files)
	return files, nil
}

// Run processes each outline file in turn, each with its own session, and
// returns what happened. Only context cancellation stops it early.
func Run(ctx context.Context, cfg types.FetchConfig, files []string, log *slog.Logger) types.Summary {
	summary := types.Summary{Started: time.Now()}
	if len(files) == 0 {
		log.Warn("no outline files found", "glob", cfg.InputGlob)
		summary.Finished = time.Now()
		return summary
	}
	log.Info("found outline files", "count", len(files), "files", files)

	for _, file := range files {
		if ctx.Err() != nil {
			break
		}
		summary.Files = append(summary.Files, ProcessFile(ctx, cfg, file, log))
	}

	summary.Finished = time.Now()
	log.Info("run finished",
		"nodes", summary.Total(),
		"saved", summary.Count(types.StatusSaved),
		"undersized", summary.Count(types.StatusUndersized),
		"lookup_failed", summary.Count(types.StatusLookupFailed),
		"download_failed", summary.Count(types.StatusDownloadFailed))
	return summary
}

// ProcessFile opens a fresh session, warms it up against the site root and
// fetches every node of one outline file. The session is closed before
// returning. A failed warm-up skips the file.
func ProcessFile(ctx context.Context, cfg types.FetchConfig, path string, log *slog.Logger) types.FileResult {
	res := types.FileResult{File: path}
	log = log.With("file", filepath.Base(path))
	log.Info("starting new session")

	client, err := httputil.NewSession(cfg.HTTPConfig)
	if err != nil {
		log.Error("session setup failed", "error", err)
		res.SessionError = err.Error()
		return res
	}
	defer func() {
		httputil.CloseSession(client)
		log.Info("file done, session closed", "nodes", len(res.Nodes), "saved", res.Count(types.StatusSaved))
	}()

	if err := warmUp(ctx, client, cfg, log); err != nil {
		log.Error("session warm-up failed", "error", err)
		res.SessionError = err.Error()
		return res
	}

	f := NewFetcher(client, cfg, log)
	for e, err := range outline.ParseFile(path) {
		if err != nil {
			log.Error("reading outline failed", "error", err)
			res.ReadError = err.Error()
			break
		}
		res.Nodes = append(res.Nodes, f.FetchNode(ctx, e))
		if err := pause(ctx, cfg.NodeDelay); err != nil {
			log.Warn("run cancelled", "error", err)
			break
		}
	}
	return res
}

// warmUp requests the site root so the session picks up its cookies. Only
// transport errors count as failure.
func warmUp(ctx context.Context, client *http.Client, cfg types.FetchConfig, log *slog.Logger) error {
	root := siteRoot(cfg.BaseURL)
	resp, err := httputil.Get(ctx, client, root, cfg.WarmupTimeout)
	if err != nil {
		return fmt.Errorf("requesting %s: %w", root, err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode != http.StatusOK {
		log.Warn("site root answered with unexpected status", "status", resp.StatusCode)
	}
	log.Info("session initialised")
	return nil
}

// pause sleeps for d or until ctx is done.
func pause(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

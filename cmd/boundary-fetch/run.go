// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/boundary-fetch/internal/fetch"
	"github.com/pdiddy/boundary-fetch/internal/logging"
	"github.com/pdiddy/boundary-fetch/internal/report"
	"github.com/pdiddy/boundary-fetch/pkg/types"
)

func runFetch(cmd *cobra.Command, args []string) error {
	cfg := fetchConfig()

	log, errLog, err := logging.Open(viper.GetString("error_log"), os.Stderr)
	if err != nil {
		return err
	}
	defer errLog.Close()

	if err := os.MkdirAll(cfg.OutputDir, 0o755); err != nil {
		return fmt.Errorf("creating output directory %s: %w", cfg.OutputDir, err)
	}
	log.Info("output directory ready", "dir", cfg.OutputDir)

	files, err := fetch.Inputs(cfg.InputGlob)
	if err != nil {
		return err
	}

	summary := fetch.Run(cmd.Context(), cfg, files, log)

	if viper.GetBool("report") && len(summary.Files) > 0 {
		path := filepath.Join(cfg.OutputDir, types.DefaultReportFile)
		if err := report.Write(path, summary); err != nil {
			log.Error("writing run report failed", "error", err)
		} else {
			log.Info("run report written", "path", path)
		}
	}
	return nil
}

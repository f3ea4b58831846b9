// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/pdiddy/boundary-fetch/internal/fetch"
	"github.com/pdiddy/boundary-fetch/internal/outline"
	"github.com/pdiddy/boundary-fetch/pkg/types"
)

var planCmd = &cobra.Command{
	Use:   "plan [outline files...]",
	Short: "Show the lookup and output path of every node without fetching",
	Long: `Plan parses outline documents and prints, for every node, its line,
level, lookup request and the path its data file would be saved to. No
requests are made. Without arguments the --input glob is used.`,
	RunE: runPlan,
}

func init() {
	rootCmd.AddCommand(planCmd)
}

func runPlan(cmd *cobra.Command, args []string) error {
	cfg := fetchConfig()
	files := args
	if len(files) == 0 {
		var err error
		files, err = fetch.Inputs(cfg.InputGlob)
		if err != nil {
			return err
		}
	}
	if len(files) == 0 {
		return fmt.Errorf("no outline files match %q", cfg.InputGlob)
	}
	return writePlan(cmd.OutOrStdout(), cfg, files)
}

// writePlan prints the plan for files to w. An unreadable file is reported
// inline and does not stop the remaining files.
func writePlan(w io.Writer, cfg types.FetchConfig, files []string) error {
	total := 0
	for _, file := range files {
		fmt.Fprintf(w, "%s\n", file)
		n := 0
		for e, err := range outline.ParseFile(file) {
			if err != nil {
				fmt.Fprintf(w, "  error: %v\n", err)
				break
			}
			out := fetch.ResolvePath(cfg.OutputDir, cfg.Extension, e)
			fmt.Fprintf(w, "  %5d  %-8s  %s\n         -> %s\n",
				e.Line, e.Node.Level, fetch.LookupURL(cfg.BaseURL, e), out.File)
			n++
		}
		fmt.Fprintf(w, "  %d node(s)\n", n)
		total += n
	}
	fmt.Fprintf(w, "\nPlan summary: %d node(s) in %d file(s)\n", total, len(files))
	return nil
}

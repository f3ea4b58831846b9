// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the boundary-fetch CLI.
//
// Run without arguments in a directory of outline documents, it resolves
// every node to a data file on the map site and mirrors the files into the
// output tree.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/boundary-fetch/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// rootCmd runs the whole scrape.
var rootCmd = &cobra.Command{
	Use:   "boundary-fetch",
	Short: "Mirror administrative boundary data described by outline documents",
	Long: `boundary-fetch reads outline documents (*.md by default) in the working
directory. Each heading or list item of the form [Label](code) is one node of
an administrative hierarchy: province, city, district, town, village.

For every node the site is asked for the node's data file, which is then
downloaded into a directory tree mirroring the outline. Each outline file
gets its own session. Failures are logged and skipped; warnings and errors
also go to the error log.`,
	Args:         cobra.NoArgs,
	SilenceUsage: true,
	RunE:         runFetch,
}

func init() {
	cobra.OnInitialize(initConfig)

	pf := rootCmd.PersistentFlags()
	pf.String("config", "", "config file (default: ./boundary-fetch.yaml or ~/.config/boundary-fetch/config.yaml)")
	pf.String("input", types.DefaultInputGlob, "glob selecting outline documents")
	pf.String("output", types.DefaultOutputDir, "root of the mirrored output tree")
	pf.String("base-url", types.DefaultBaseURL, "map site root")
	pf.String("format", types.DefaultFormat, "download format parameter")
	pf.String("ext", types.DefaultExtension, "extension of saved files")

	f := rootCmd.Flags()
	f.String("user-agent", types.DefaultUserAgent, "User-Agent header sent to the site")
	f.Int64("min-bytes", types.DefaultMinBytes, "discard downloads smaller than this many bytes")
	f.Duration("delay", types.DefaultNodeDelay, "pause after every node")
	f.Duration("warmup-timeout", types.DefaultWarmupTimeout, "timeout of the session warm-up request")
	f.Duration("lookup-timeout", types.DefaultLookupTimeout, "timeout of each lookup request")
	f.Duration("download-timeout", types.DefaultDownloadTimeout, "timeout of each download")
	f.String("error-log", types.DefaultErrorLog, "file receiving warnings and errors")
	f.Bool("report", true, "write a YAML run report into the output directory")

	bindings := map[string]string{
		"input_glob":       "input",
		"output_dir":       "output",
		"base_url":         "base-url",
		"format":           "format",
		"extension":        "ext",
		"user_agent":       "user-agent",
		"min_bytes":        "min-bytes",
		"node_delay":       "delay",
		"warmup_timeout":   "warmup-timeout",
		"lookup_timeout":   "lookup-timeout",
		"download_timeout": "download-timeout",
		"error_log":        "error-log",
		"report":           "report",
	}
	for key, flag := range bindings {
		fl := rootCmd.Flags().Lookup(flag)
		if fl == nil {
			fl = pf.Lookup(flag)
		}
		if err := viper.BindPFlag(key, fl); err != nil {
			panic(fmt.Sprintf("binding flag %s: %v", flag, err))
		}
	}
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("boundary-fetch")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "boundary-fetch"))
		}
	}

	viper.SetEnvPrefix("BOUNDARY_FETCH")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// fetchConfig assembles the stage configuration from flags, environment
// and config file.
func fetchConfig() types.FetchConfig {
	return types.FetchConfig{
		HTTPConfig: types.HTTPConfig{
			BaseURL:         viper.GetString("base_url"),
			UserAgent:       viper.GetString("user_agent"),
			WarmupTimeout:   viper.GetDuration("warmup_timeout"),
			LookupTimeout:   viper.GetDuration("lookup_timeout"),
			DownloadTimeout: viper.GetDuration("download_timeout"),
		},
		InputGlob: viper.GetString("input_glob"),
		OutputDir: viper.GetString("output_dir"),
		Format:    viper.GetString("format"),
		Extension: viper.GetString("extension"),
		MinBytes:  viper.GetInt64("min_bytes"),
		NodeDelay: viper.GetDuration("node_delay"),
	}
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}

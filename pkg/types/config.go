// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// Defaults for a run with no flags or config file.
const (
	DefaultBaseURL         = "https://map.ruiduobao.com/"
	DefaultUserAgent       = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"
	DefaultOutputDir       = "2023"
	DefaultInputGlob       = "*.md"
	DefaultFormat          = "gson"
	DefaultExtension       = "json"
	DefaultMinBytes        = 100
	DefaultNodeDelay       = 1 * time.Second
	DefaultWarmupTimeout   = 10 * time.Second
	DefaultLookupTimeout   = 15 * time.Second
	DefaultDownloadTimeout = 30 * time.Second
	DefaultErrorLog        = "error.log"
	DefaultReportFile      = "run-report.yaml"
)

// HTTPConfig holds the session settings shared by every request to the site.
type HTTPConfig struct {
	// BaseURL is the site root. It must end with a slash; endpoint paths are
	// appended to it.
	BaseURL string `json:"base_url" yaml:"base_url"`

	// UserAgent is sent on every request to look like a desktop browser.
	UserAgent string `json:"user_agent" yaml:"user_agent"`

	// WarmupTimeout bounds the initial request to the site root.
	WarmupTimeout time.Duration `json:"warmup_timeout" yaml:"warmup_timeout"`

	// LookupTimeout bounds each lookup request.
	LookupTimeout time.Duration `json:"lookup_timeout" yaml:"lookup_timeout"`

	// DownloadTimeout bounds each download request, body included.
	DownloadTimeout time.Duration `json:"download_timeout" yaml:"download_timeout"`
}

// FetchConfig holds settings for the lookup and download stage.
type FetchConfig struct {
	HTTPConfig `yaml:",inline"`

	// InputGlob selects the outline documents to process (default "*.md").
	InputGlob string `json:"input_glob" yaml:"input_glob"`

	// OutputDir is the root of the mirrored directory tree.
	OutputDir string `json:"output_dir" yaml:"output_dir"`

	// Format is the value of the download endpoint's format parameter.
	Format string `json:"format" yaml:"format"`

	// Extension is the file extension given to saved files, without the dot.
	Extension string `json:"extension" yaml:"extension"`

	// MinBytes is the smallest body accepted as a real data file. Shorter
	// bodies are discarded.
	MinBytes int64 `json:"min_bytes" yaml:"min_bytes"`

	// NodeDelay is the pause after every node, whatever its outcome.
	NodeDelay time.Duration `json:"node_delay" yaml:"node_delay"`
}

// DefaultFetchConfig returns a FetchConfig with every field at its default.
func DefaultFetchConfig() FetchConfig {
	return FetchConfig{
		HTTPConfig: HTTPConfig{
			BaseURL:         DefaultBaseURL,
			UserAgent:       DefaultUserAgent,
			WarmupTimeout:   DefaultWarmupTimeout,
			LookupTimeout:   DefaultLookupTimeout,
			DownloadTimeout: DefaultDownloadTimeout,
		},
		InputGlob: DefaultInputGlob,
		OutputDir: DefaultOutputDir,
		Format:    DefaultFormat,
		Extension: DefaultExtension,
		MinBytes:  DefaultMinBytes,
		NodeDelay: DefaultNodeDelay,
	}
}

package types

import "time"

// HTTPConfig holds HTTP settings used when an MCF is fetched from a URL.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "ogc-records/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`

	// MaxRetries bounds retries on HTTP 429 and 5xx responses (default 5).
	MaxRetries int `json:"max_retries" yaml:"max_retries"`
}

// BuildConfig holds settings for the build command.
type BuildConfig struct {
	HTTPConfig `yaml:",inline"`

	// OutputDir receives one <id>.json per record. Empty means stdout.
	OutputDir string `json:"output_dir" yaml:"output_dir"`

	// Jobs bounds the number of MCF documents built concurrently (default 4).
	Jobs int `json:"jobs" yaml:"jobs"`

	// Index stores every built record in the catalog as well.
	Index bool `json:"index" yaml:"index"`
}

// CatalogConfig holds settings for the record catalog.
type CatalogConfig struct {
	// Dir is the directory holding catalog.db.
	Dir string `json:"dir" yaml:"dir"`

	// MaxResults is the default list limit (default 50).
	MaxResults int `json:"max_results" yaml:"max_results"`
}

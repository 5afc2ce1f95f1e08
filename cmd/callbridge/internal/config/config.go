// Package config loads the callbridge YAML configuration.
package config

import (
	"fmt"
	"os"

	"github.com/goccy/go-yaml"
)

// DefaultListen is the default HTTP listen address.
const DefaultListen = ":5050"

// Config is the process configuration. API keys may also come from the
// environment (OPENAI_API_KEY, GOOGLE_MAPS_API_KEY), which overrides
// nothing already set in the file.
type Config struct {
	// Listen is the HTTP listen address.
	Listen string `yaml:"listen,omitempty"`

	OpenAI     OpenAI     `yaml:"openai,omitempty"`
	GoogleMaps GoogleMaps `yaml:"google_maps,omitempty"`
	Assistant  Assistant  `yaml:"assistant,omitempty"`
	Reporting  Reporting  `yaml:"reporting,omitempty"`
}

// OpenAI configures the model leg.
type OpenAI struct {
	APIKey string `yaml:"api_key,omitempty"`

	// URL overrides the Realtime API endpoint (Azure-style deployments).
	URL string `yaml:"url,omitempty"`

	// Model is the realtime model id.
	Model string `yaml:"model,omitempty"`

	Voice       string  `yaml:"voice,omitempty"`
	Temperature float64 `yaml:"temperature,omitempty"`
}

// GoogleMaps configures the find_location geocoding tool.
type GoogleMaps struct {
	APIKey string `yaml:"api_key,omitempty"`
}

// Assistant overrides the conversational defaults.
type Assistant struct {
	Instructions  string `yaml:"instructions,omitempty"`
	Greeting      string `yaml:"greeting,omitempty"`
	OpeningPrompt string `yaml:"opening_prompt,omitempty"`
}

// Reporting selects the call-record sinks. The process log sink is
// always on.
type Reporting struct {
	// BadgerDir enables the BadgerDB record store.
	BadgerDir string `yaml:"badger_dir,omitempty"`

	// ArchiveDir enables local JSON archives.
	ArchiveDir string `yaml:"archive_dir,omitempty"`

	// S3 enables S3 JSON archives.
	S3 *S3 `yaml:"s3,omitempty"`

	// Summarize attaches a model-generated incident summary to each
	// record.
	Summarize    bool   `yaml:"summarize,omitempty"`
	SummaryModel string `yaml:"summary_model,omitempty"`
}

// S3 locates the archive bucket.
type S3 struct {
	Bucket    string `yaml:"bucket"`
	Region    string `yaml:"region,omitempty"`
	Endpoint  string `yaml:"endpoint,omitempty"`
	Prefix    string `yaml:"prefix,omitempty"`
	AccessKey string `yaml:"access_key,omitempty"`
	SecretKey string `yaml:"secret_key,omitempty"`
}

// Load reads the config file at path. An empty path returns defaults
// with keys from the environment; a missing file is an error.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("config: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("config: parse %s: %w", path, err)
		}
	}
	cfg.applyDefaults()
	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Listen == "" {
		c.Listen = DefaultListen
	}
	if c.OpenAI.APIKey == "" {
		c.OpenAI.APIKey = os.Getenv("OPENAI_API_KEY")
	}
	if c.GoogleMaps.APIKey == "" {
		c.GoogleMaps.APIKey = os.Getenv("GOOGLE_MAPS_API_KEY")
	}
}

// Validate checks the settings a session cannot run without.
func (c *Config) Validate() error {
	if c.OpenAI.APIKey == "" {
		return fmt.Errorf("config: openai.api_key is required (or set OPENAI_API_KEY)")
	}
	if c.Reporting.S3 != nil && c.Reporting.S3.Bucket == "" {
		return fmt.Errorf("config: reporting.s3.bucket is required when s3 reporting is enabled")
	}
	return nil
}

// Package config loads and validates docsmith.yaml.
//
// Loading runs four passes: ${VAR} expansion of the raw file (after .env and
// .env.local are merged into the process environment), normalization of enum
// fields, per-domain defaults, and validation.
package config

import (
	"bytes"
	stdErrors "errors"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"git.home.luguber.info/inful/docsmith/internal/foundation/errors"
)

// DefaultFilename is looked up in the working directory when no -c flag is given.
const DefaultFilename = "docsmith.yaml"

// Config is the complete docsmith configuration.
type Config struct {
	Site      SiteConfig      `yaml:"site"`
	Output    OutputConfig    `yaml:"output"`
	API       APIConfig       `yaml:"api"`
	Manual    ManualConfig    `yaml:"manual"`
	Templates TemplatesConfig `yaml:"templates"`
	Highlight HighlightConfig `yaml:"highlight"`
	Build     BuildConfig     `yaml:"build"`
}

// SiteConfig carries values shown on every page.
type SiteConfig struct {
	Title string `yaml:"title"`
}

// OutputConfig controls where pages land.
type OutputConfig struct {
	Directory string `yaml:"directory"`
	Clean     bool   `yaml:"clean"` // remove the output directory before generating
}

// APIConfig describes the API reference tree.
type APIConfig struct {
	Feed               string    `yaml:"feed"`   // YAML or JSON entity feed
	Prefix             string    `yaml:"prefix"` // subdirectory of the output directory
	Format             APIFormat `yaml:"format"`
	NamespaceSeparator string    `yaml:"namespace_separator"`
	ExcludePrivate     bool      `yaml:"exclude_private"`
}

// ManualConfig describes the hand-written manual.
type ManualConfig struct {
	Source         string   `yaml:"source"`
	Prefix         string   `yaml:"prefix"`
	DefaultFilters []string `yaml:"default_filters"`
	StrictTitles   bool     `yaml:"strict_titles"`
	HardWraps      bool     `yaml:"hard_wraps"`
}

// TemplatesConfig selects a theme. Empty Dir uses the embedded darkfish theme.
type TemplatesConfig struct {
	Dir    string `yaml:"dir"`
	Static string `yaml:"static"`
}

// HighlightConfig configures example highlighting.
type HighlightConfig struct {
	Engine          HighlightEngine `yaml:"engine"`
	Style           string          `yaml:"style"`
	DefaultLanguage string          `yaml:"default_language"`
	LineNumbers     bool            `yaml:"line_numbers"`
}

// BuildConfig holds run behavior.
type BuildConfig struct {
	DryRun        bool        `yaml:"dry_run"`
	OnPageError   OnPageError `yaml:"on_page_error"`
	StrictLinks   bool        `yaml:"strict_links"`
	ReferenceTime string      `yaml:"reference_time"` // RFC 3339 or unix seconds
}

// Load reads, expands, normalizes, defaults and validates the file at path.
func Load(path string) (*Config, error) {
	loadEnvFiles()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.ConfigError("configuration file not found").WithContext("path", path).Build()
		}
		return nil, errors.WrapError(err, errors.CategoryConfig, "failed to read config file").WithContext("path", path).Fatal().Build()
	}
	cfg, err := Parse(data)
	if err != nil {
		if ce, ok := errors.AsClassified(err); ok {
			return nil, ce.WithContext("path", path)
		}
		return nil, err
	}
	return cfg, nil
}

// Parse builds a configuration from raw YAML. Environment references are
// expanded before decoding; unknown keys are rejected.
func Parse(data []byte) (*Config, error) {
	expanded := os.ExpandEnv(string(data))

	var cfg Config
	dec := yaml.NewDecoder(bytes.NewReader([]byte(expanded)))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !stdErrors.Is(err, io.EOF) {
		return nil, errors.WrapError(err, errors.CategoryConfig, "failed to parse config").Fatal().Build()
	}
	return finish(&cfg)
}

// Default returns a configuration with every default applied, as used when no
// configuration file exists.
func Default() *Config {
	cfg, err := finish(&Config{})
	if err != nil {
		// the zero config always validates
		panic(err)
	}
	return cfg
}

func finish(cfg *Config) (*Config, error) {
	res := Normalize(cfg)
	for _, w := range res.Warnings {
		slog.Warn("config normalization", slog.String("detail", w))
	}
	if err := ApplyDefaults(cfg); err != nil {
		return nil, err
	}
	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Reference returns the clock every run-dependent value is computed from:
// build.reference_time when set, then SOURCE_DATE_EPOCH from getenv, then now.
func (b BuildConfig) Reference(getenv func(string) string, now func() time.Time) (time.Time, error) {
	if b.ReferenceTime != "" {
		return parseTime(b.ReferenceTime)
	}
	if epoch := strings.TrimSpace(getenv("SOURCE_DATE_EPOCH")); epoch != "" {
		t, err := parseTime(epoch)
		if err != nil {
			return time.Time{}, errors.WrapError(err, errors.CategoryConfig, "invalid SOURCE_DATE_EPOCH").Fatal().Build()
		}
		return t, nil
	}
	return now().UTC(), nil
}

func parseTime(v string) (time.Time, error) {
	v = strings.TrimSpace(v)
	if secs, err := strconv.ParseInt(v, 10, 64); err == nil {
		return time.Unix(secs, 0).UTC(), nil
	}
	t, err := time.Parse(time.RFC3339, v)
	if err != nil {
		return time.Time{}, errors.ConfigError("reference time must be RFC 3339 or unix seconds").
			WithContext("value", v).Build()
	}
	return t.UTC(), nil
}

package config

import (
	"strings"

	"git.home.luguber.info/inful/docsmith/internal/foundation/errors"
)

// Default values used when a field is left empty.
const (
	DefaultSiteTitle          = "Documentation"
	DefaultOutputDirectory    = "doc"
	DefaultAPIPrefix          = "api"
	DefaultManualPrefix       = "manual"
	DefaultManualSource       = "manual"
	DefaultNamespaceSeparator = "::"
	DefaultHighlightStyle     = "github"
	DefaultLanguage           = "text"
)

// DefaultManualFilters is the filter order applied to manual pages without a
// filters list of their own.
var DefaultManualFilters = []string{"examples", "links", "api"}

// DefaultApplier applies defaults for one configuration domain.
type DefaultApplier interface {
	ApplyDefaults(cfg *Config) error
	Domain() string
}

type siteDefaults struct{}

func (siteDefaults) Domain() string { return "site" }

func (siteDefaults) ApplyDefaults(cfg *Config) error {
	if strings.TrimSpace(cfg.Site.Title) == "" {
		cfg.Site.Title = DefaultSiteTitle
	}
	if cfg.Output.Directory == "" {
		cfg.Output.Directory = DefaultOutputDirectory
	}
	return nil
}

type apiDefaults struct{}

func (apiDefaults) Domain() string { return "api" }

func (apiDefaults) ApplyDefaults(cfg *Config) error {
	if cfg.API.Prefix == "" {
		cfg.API.Prefix = DefaultAPIPrefix
	}
	if cfg.API.Format == "" {
		cfg.API.Format = APIFormatHTML
	}
	if cfg.API.NamespaceSeparator == "" {
		cfg.API.NamespaceSeparator = DefaultNamespaceSeparator
	}
	return nil
}

type manualDefaults struct{}

func (manualDefaults) Domain() string { return "manual" }

func (manualDefaults) ApplyDefaults(cfg *Config) error {
	if cfg.Manual.Source == "" {
		cfg.Manual.Source = DefaultManualSource
	}
	if cfg.Manual.Prefix == "" {
		cfg.Manual.Prefix = DefaultManualPrefix
	}
	if len(cfg.Manual.DefaultFilters) == 0 {
		cfg.Manual.DefaultFilters = append([]string(nil), DefaultManualFilters...)
	}
	return nil
}

type highlightDefaults struct{}

func (highlightDefaults) Domain() string { return "highlight" }

func (highlightDefaults) ApplyDefaults(cfg *Config) error {
	if cfg.Highlight.Engine == "" {
		cfg.Highlight.Engine = HighlightChroma
	}
	if cfg.Highlight.Style == "" {
		cfg.Highlight.Style = DefaultHighlightStyle
	}
	if cfg.Highlight.DefaultLanguage == "" {
		cfg.Highlight.DefaultLanguage = DefaultLanguage
	}
	return nil
}

type buildDefaults struct{}

func (buildDefaults) Domain() string { return "build" }

func (buildDefaults) ApplyDefaults(cfg *Config) error {
	if cfg.Build.OnPageError == "" {
		cfg.Build.OnPageError = OnPageErrorContinue
	}
	return nil
}

// appliers run in order; later domains may rely on earlier ones.
var appliers = []DefaultApplier{
	siteDefaults{},
	apiDefaults{},
	manualDefaults{},
	highlightDefaults{},
	buildDefaults{},
}

// ApplyDefaults fills every empty field with its default.
func ApplyDefaults(cfg *Config) error {
	for _, a := range appliers {
		if err := a.ApplyDefaults(cfg); err != nil {
			return errors.WrapError(err, errors.CategoryConfig, "failed to apply defaults").
				WithContext("domain", a.Domain()).Fatal().Build()
		}
	}
	return nil
}

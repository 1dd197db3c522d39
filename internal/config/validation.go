package config

import (
	"path/filepath"
	"strings"

	"git.home.luguber.info/inful/docsmith/internal/foundation/errors"
)

// Validate checks a defaulted configuration.
func Validate(cfg *Config) error {
	v := validator{cfg: cfg}
	for _, check := range []func() error{v.output, v.prefixes, v.api, v.build} {
		if err := check(); err != nil {
			return err
		}
	}
	return nil
}

type validator struct {
	cfg *Config
}

func (v validator) output() error {
	if v.cfg.Output.Directory == "" {
		return errors.ConfigError("output.directory must not be empty").Build()
	}
	return nil
}

func (v validator) prefixes() error {
	api, manual := v.cfg.API.Prefix, v.cfg.Manual.Prefix
	for _, f := range []struct{ field, value string }{{"api.prefix", api}, {"manual.prefix", manual}} {
		if f.value != "" && !filepath.IsLocal(filepath.FromSlash(f.value)) {
			return errors.ConfigError(f.field+" must be a relative path inside the output directory").
				WithContext("value", f.value).Build()
		}
	}
	if api == manual {
		return errors.ConfigError("api.prefix and manual.prefix must differ").
			WithContext("value", api).Build()
	}
	return nil
}

func (v validator) api() error {
	if strings.TrimSpace(v.cfg.API.NamespaceSeparator) == "" {
		return errors.ConfigError("api.namespace_separator must not be blank").Build()
	}
	return nil
}

func (v validator) build() error {
	if v.cfg.Build.ReferenceTime != "" {
		if _, err := parseTime(v.cfg.Build.ReferenceTime); err != nil {
			return err
		}
	}
	return nil
}

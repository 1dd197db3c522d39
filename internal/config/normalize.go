package config

import (
	"fmt"
	"strings"

	"git.home.luguber.info/inful/docsmith/internal/foundation/normalization"
)

// OnPageError selects what happens when a single page fails to render.
type OnPageError string

const (
	// OnPageErrorContinue renders the remaining pages and fails the run at the end.
	OnPageErrorContinue OnPageError = "continue"
	// OnPageErrorAbort stops at the first failed page.
	OnPageErrorAbort OnPageError = "abort"
)

// APIFormat selects the backend for the API tree.
type APIFormat string

const (
	APIFormatHTML APIFormat = "html"
	APIFormatJSON APIFormat = "json"
)

// HighlightEngine selects the example highlighter.
type HighlightEngine string

const (
	HighlightChroma HighlightEngine = "chroma"
	HighlightPlain  HighlightEngine = "plain"
)

var (
	onPageErrorNormalizer = normalization.NewNormalizer("on_page_error", map[string]OnPageError{
		"continue": OnPageErrorContinue,
		"abort":    OnPageErrorAbort,
		"fail":     OnPageErrorAbort,
	}, OnPageErrorContinue)

	apiFormatNormalizer = normalization.NewNormalizer("api format", map[string]APIFormat{
		"html":     APIFormatHTML,
		"darkfish": APIFormatHTML,
		"json":     APIFormatJSON,
	}, APIFormatHTML)

	highlightEngineNormalizer = normalization.NewNormalizer("highlight engine", map[string]HighlightEngine{
		"chroma": HighlightChroma,
		"plain":  HighlightPlain,
		"none":   HighlightPlain,
	}, HighlightChroma)
)

// NormalizeOnPageError canonicalizes a raw policy string; unknown values yield "".
func NormalizeOnPageError(raw string) OnPageError {
	if !onPageErrorNormalizer.Valid(raw) {
		return ""
	}
	return onPageErrorNormalizer.Normalize(raw)
}

// NormalizeAPIFormat canonicalizes a raw format string; unknown values yield "".
func NormalizeAPIFormat(raw string) APIFormat {
	if !apiFormatNormalizer.Valid(raw) {
		return ""
	}
	return apiFormatNormalizer.Normalize(raw)
}

// NormalizeHighlightEngine canonicalizes a raw engine name; unknown values yield "".
func NormalizeHighlightEngine(raw string) HighlightEngine {
	if !highlightEngineNormalizer.Valid(raw) {
		return ""
	}
	return highlightEngineNormalizer.Normalize(raw)
}

// NormalizationResult captures coercions made before defaults are applied.
type NormalizationResult struct{ Warnings []string }

// Normalize case-folds enum fields and trims path-like values in place.
// Unknown enum values are replaced by the default and reported as warnings.
func Normalize(c *Config) *NormalizationResult {
	res := &NormalizationResult{}

	if raw := string(c.Build.OnPageError); raw != "" {
		v := NormalizeOnPageError(raw)
		c.Build.OnPageError = coerce(res, "build.on_page_error", raw, v, OnPageErrorContinue)
	}
	if raw := string(c.API.Format); raw != "" {
		v := NormalizeAPIFormat(raw)
		c.API.Format = coerce(res, "api.format", raw, v, APIFormatHTML)
	}
	if raw := string(c.Highlight.Engine); raw != "" {
		v := NormalizeHighlightEngine(raw)
		c.Highlight.Engine = coerce(res, "highlight.engine", raw, v, HighlightChroma)
	}

	c.Output.Directory = strings.TrimSpace(c.Output.Directory)
	c.API.Prefix = trimPrefix(c.API.Prefix)
	c.Manual.Prefix = trimPrefix(c.Manual.Prefix)
	c.Highlight.DefaultLanguage = strings.ToLower(strings.TrimSpace(c.Highlight.DefaultLanguage))
	for i, f := range c.Manual.DefaultFilters {
		c.Manual.DefaultFilters[i] = strings.ToLower(strings.TrimSpace(f))
	}
	return res
}

func coerce[T ~string](res *NormalizationResult, field, raw string, v, def T) T {
	switch {
	case v == "":
		res.Warnings = append(res.Warnings, fmt.Sprintf("%s: unknown value %q, using %q", field, raw, def))
		return def
	case string(v) != raw:
		res.Warnings = append(res.Warnings, fmt.Sprintf("%s: normalized %q to %q", field, raw, v))
	}
	return v
}

func trimPrefix(p string) string {
	return strings.Trim(strings.TrimSpace(p), "/")
}

package logfields

import "log/slog"

// Canonical log field name constants to avoid drift across packages.
const (
	KeyRunID      = "run_id"
	KeyBackend    = "backend"
	KeyPage       = "page"
	KeyClass      = "class"
	KeyFile       = "file"
	KeyTemplate   = "template"
	KeyReference  = "reference"
	KeyFilter     = "filter"
	KeyLanguage   = "language"
	KeyPath       = "path"
	KeyBytes      = "bytes"
	KeyCount      = "count"
	KeyDurationMS = "duration_ms"
	KeyError      = "error"
)

// Simple helpers returning slog.Attr. Keeping each granular means callers can compose.
func RunID(id string) slog.Attr        { return slog.String(KeyRunID, id) }
func Backend(name string) slog.Attr    { return slog.String(KeyBackend, name) }
func Page(p string) slog.Attr          { return slog.String(KeyPage, p) }
func Class(name string) slog.Attr      { return slog.String(KeyClass, name) }
func File(p string) slog.Attr          { return slog.String(KeyFile, p) }
func Template(name string) slog.Attr   { return slog.String(KeyTemplate, name) }
func Reference(ref string) slog.Attr   { return slog.String(KeyReference, ref) }
func Filter(name string) slog.Attr     { return slog.String(KeyFilter, name) }
func Language(lang string) slog.Attr   { return slog.String(KeyLanguage, lang) }
func Path(p string) slog.Attr          { return slog.String(KeyPath, p) }
func Bytes(n int) slog.Attr            { return slog.Int(KeyBytes, n) }
func Count(n int) slog.Attr            { return slog.Int(KeyCount, n) }
func DurationMS(ms float64) slog.Attr  { return slog.Float64(KeyDurationMS, ms) }
func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}

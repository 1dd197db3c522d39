package filters

import (
	"fmt"
	"log/slog"
	"regexp"
	"strconv"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"gopkg.in/yaml.v3"

	"git.home.luguber.info/inful/docsmith/internal/diagnostics"
	"git.home.luguber.info/inful/docsmith/internal/foundation/errors"
	"git.home.luguber.info/inful/docsmith/internal/highlight"
	"git.home.luguber.info/inful/docsmith/internal/logfields"
)

// DefaultLanguage is the example language when neither the block nor the
// configuration names one.
const DefaultLanguage = "text"

var (
	examplePI = regexp.MustCompile(`<\?example(?:\s+([^?]*))?\?>`)
	endPI     = regexp.MustCompile(`<\?end(?:\s+example)?\s*\?>`)
)

// ExampleFilter extracts `<?example {...} ?> ... <?end example ?>` blocks,
// optionally syntax-checks them, highlights them and wraps them in a
// captioned container.
type ExampleFilter struct {
	highlighter     *highlight.Registry
	defaultLanguage string
	validators      map[string]Validator
	captions        *bluemonday.Policy
}

// NewExampleFilter builds the filter from opts, filling in defaults.
func NewExampleFilter(opts Options) *ExampleFilter {
	f := &ExampleFilter{
		highlighter:     opts.Highlighter,
		defaultLanguage: opts.DefaultLanguage,
		validators:      opts.Validators,
		captions:        bluemonday.UGCPolicy(),
	}
	if f.highlighter == nil {
		f.highlighter = highlight.NewRegistry()
	}
	if f.defaultLanguage == "" {
		f.defaultLanguage = DefaultLanguage
	}
	if f.validators == nil {
		f.validators = DefaultValidators()
	}
	return f
}

func (f *ExampleFilter) Name() string { return NameExamples }

// Process scans src once. Each start instruction is paired with the next end
// instruction after it; look-alike start instructions inside a body are body
// text. Reaching the end of input inside a block fails the page.
func (f *ExampleFilter) Process(src string, ctx *Context) (string, error) {
	var out strings.Builder
	pos := 0
	for pos < len(src) {
		loc := examplePI.FindStringSubmatchIndex(src[pos:])
		if loc == nil {
			break
		}
		start, bodyStart := pos+loc[0], pos+loc[1]
		var params string
		if loc[2] >= 0 {
			params = src[pos+loc[2] : pos+loc[3]]
		}
		out.WriteString(src[pos:start])

		line := lineAt(src, start)
		end := endPI.FindStringIndex(src[bodyStart:])
		if end == nil {
			return "", errors.FilterError(fmt.Sprintf("Unterminated example at line %d in %s", line, ctx.source())).
				WithContext(logfields.KeyPage, ctx.source()).
				WithContext("line", line).
				Build()
		}
		body := src[bodyStart : bodyStart+end[0]]

		rendered, err := f.render(params, body, line, ctx)
		if err != nil {
			return "", err
		}
		out.WriteString(rendered)
		pos = bodyStart + end[1]
	}
	if pos < len(src) {
		out.WriteString(src[pos:])
	}
	return out.String(), nil
}

type exampleOptions struct {
	language string
	testable bool
	caption  string
}

// parseOptions reads the instruction blob as a YAML flow map. Braces are
// optional and a bare word names the language.
func (f *ExampleFilter) parseOptions(raw string) (exampleOptions, error) {
	opts := exampleOptions{language: f.defaultLanguage, testable: true}
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return opts, nil
	}
	if !strings.HasPrefix(raw, "{") {
		if !strings.Contains(raw, ":") {
			opts.language = raw
			return opts, nil
		}
		raw = "{" + raw + "}"
	}

	var values map[string]any
	if err := yaml.Unmarshal([]byte(raw), &values); err != nil {
		return opts, err
	}
	for key, v := range values {
		if v == nil || v == "" {
			continue
		}
		switch key {
		case "language", "lang":
			opts.language = fmt.Sprint(v)
		case "testable":
			b, err := asBool(v)
			if err != nil {
				return opts, fmt.Errorf("testable: %w", err)
			}
			opts.testable = b
		case "caption":
			opts.caption = fmt.Sprint(v)
		}
	}
	return opts, nil
}

func asBool(v any) (bool, error) {
	switch b := v.(type) {
	case bool:
		return b, nil
	case string:
		return strconv.ParseBool(b)
	default:
		return false, fmt.Errorf("expected a boolean, got %v", v)
	}
}

func (f *ExampleFilter) render(params, body string, line int, ctx *Context) (string, error) {
	opts, err := f.parseOptions(params)
	if err != nil {
		return "", errors.FilterError(fmt.Sprintf("invalid example options at line %d in %s", line, ctx.source())).
			WithContext(logfields.KeyPage, ctx.source()).
			WithContext("line", line).
			WithContext("options", params).
			Build()
	}

	content := body
	if opts.testable {
		content = f.check(content, opts.language, line, ctx)
	}
	content = trimBlankLines(content)

	if !f.highlighter.Supports(opts.language) {
		suggestions := f.highlighter.Suggest(opts.language)
		msg := fmt.Sprintf("No syntax called '%s'", opts.language)
		if len(suggestions) > 0 {
			msg += ". Perhaps you meant one of: " + strings.Join(suggestions, ", ")
		}
		slog.Warn(msg, logfields.Page(ctx.source()), logfields.Language(opts.language))
		ctx.report(diagnostics.KindUnknownLanguage, opts.language, msg)
	}
	highlighted, err := f.highlighter.Highlight(content, opts.language)
	if err != nil {
		slog.Warn("Highlighting failed; using plain text",
			logfields.Page(ctx.source()), logfields.Language(opts.language), logfields.Error(err))
		ctx.report(diagnostics.KindHighlightFailed, opts.language, err.Error())
	}

	var b strings.Builder
	b.WriteString(`<div class="example"><pre class="highlight">`)
	b.WriteString(highlighted)
	b.WriteString(`</pre>`)
	if opts.caption != "" {
		b.WriteString(`<div class="caption">`)
		b.WriteString(f.captions.Sanitize(opts.caption))
		b.WriteString(`</div>`)
	}
	b.WriteString(`</div>`)
	html := foldBlankLines(b.String())
	if ctx.Verbatim != nil {
		return ctx.Verbatim.Hold(html), nil
	}
	return html, nil
}

func (f *ExampleFilter) check(content, lang string, line int, ctx *Context) string {
	v, ok := f.validators[strings.ToLower(lang)]
	if !ok {
		return content
	}
	err := v.Validate(content)
	if err == nil {
		return content
	}
	slog.Warn("Example failed validation",
		logfields.Page(ctx.source()), logfields.Language(lang), slog.Int("line", line), logfields.Error(err))
	ctx.report(diagnostics.KindInvalidExample, lang, err.Error())
	return v.Annotate(content, err)
}

func lineAt(src string, offset int) int {
	return strings.Count(src[:offset], "\n") + 1
}

// trimBlankLines drops leading whitespace-only lines and trailing whitespace,
// keeping the indentation of the first non-blank line.
func trimBlankLines(s string) string {
	s = strings.TrimRight(s, " \t\r\n")
	for {
		i := strings.IndexByte(s, '\n')
		if i < 0 || strings.TrimSpace(s[:i]) != "" {
			break
		}
		s = s[i+1:]
	}
	if strings.TrimSpace(s) == "" {
		return ""
	}
	return s
}

// foldBlankLines moves each blank line's newline into a character reference
// so the block stays a single raw HTML block for the Markdown pass; the
// rendered <pre> text is unchanged.
func foldBlankLines(s string) string {
	if !strings.Contains(s, "\n") {
		return s
	}
	lines := strings.Split(s, "\n")
	var b strings.Builder
	b.Grow(len(s))
	for i, l := range lines {
		if i > 0 {
			if strings.TrimSpace(l) == "" {
				b.WriteString("&#10;")
			} else {
				b.WriteString("\n")
			}
		}
		b.WriteString(l)
	}
	return b.String()
}

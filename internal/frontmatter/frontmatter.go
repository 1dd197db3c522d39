// Package frontmatter splits `---` delimited YAML headers from manual page sources.
package frontmatter

import (
	"bytes"
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"
)

// ErrMissingClosingDelimiter indicates the document opened a frontmatter block
// but never closed it.
var ErrMissingClosingDelimiter = errors.New("yaml frontmatter start delimiter found but closing delimiter is missing")

// Split separates YAML frontmatter from the body.
//
// If the document does not start with a delimiter line, had is false and body
// is the full input. Both LF and CRLF sources are handled.
func Split(content []byte) (header []byte, body []byte, had bool, err error) {
	nl := detectNewline(content)
	open := []byte("---" + nl)
	if !bytes.HasPrefix(content, open) {
		return nil, content, false, nil
	}

	start := len(open)
	if bytes.HasPrefix(content[start:], open) {
		return []byte{}, content[start+len(open):], true, nil
	}

	closing := []byte(nl + "---" + nl)
	idx := bytes.Index(content[start:], closing)
	if idx < 0 {
		// A closing delimiter on the final line without a trailing newline.
		if bytes.HasSuffix(content, []byte(nl+"---")) {
			end := len(content) - len(nl+"---")
			return content[start : end+len(nl)], []byte{}, true, nil
		}
		return nil, nil, false, ErrMissingClosingDelimiter
	}

	return content[start : start+idx+len(nl)], content[start+idx+len(closing):], true, nil
}

// Decode unmarshals raw frontmatter into out. Empty frontmatter leaves out untouched.
func Decode(header []byte, out any) error {
	if len(bytes.TrimSpace(header)) == 0 {
		return nil
	}
	if err := yaml.Unmarshal(header, out); err != nil {
		return fmt.Errorf("parse frontmatter: %w", err)
	}
	return nil
}

// Fields parses raw frontmatter into a generic map; never returns a nil map on success.
func Fields(header []byte) (map[string]any, error) {
	fields := map[string]any{}
	if err := Decode(header, &fields); err != nil {
		return nil, err
	}
	if fields == nil {
		fields = map[string]any{}
	}
	return fields, nil
}

func detectNewline(content []byte) string {
	if i := bytes.IndexByte(content, '\n'); i > 0 && content[i-1] == '\r' {
		return "\r\n"
	}
	return "\n"
}

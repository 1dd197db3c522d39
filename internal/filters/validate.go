package filters

import (
	"encoding/json"
	"fmt"
	"go/parser"
	"go/scanner"
	"go/token"
	"strings"

	"gopkg.in/yaml.v3"
)

// Validator syntax-checks example bodies of one language.
type Validator interface {
	Validate(src string) error
	// Annotate returns src with err recorded as a leading comment.
	Annotate(src string, err error) string
}

// DefaultValidators returns the built-in checkers keyed by language.
func DefaultValidators() map[string]Validator {
	y := YAMLValidator{}
	return map[string]Validator{
		"yaml": y,
		"yml":  y,
		"json": JSONValidator{},
		"go":   GoValidator{},
	}
}

type YAMLValidator struct{}

func (YAMLValidator) Validate(src string) error {
	var v any
	return yaml.Unmarshal([]byte(src), &v)
}

func (YAMLValidator) Annotate(src string, err error) string {
	return "# Invalid YAML: " + err.Error() + "\n" + src
}

type JSONValidator struct{}

func (JSONValidator) Validate(src string) error {
	var v any
	return json.Unmarshal([]byte(src), &v)
}

func (JSONValidator) Annotate(src string, err error) string {
	return "// Invalid JSON: " + err.Error() + "\n" + src
}

// GoValidator accepts complete files, bare declarations and bare statements.
type GoValidator struct{}

func (GoValidator) Validate(src string) error {
	if strings.HasPrefix(strings.TrimSpace(src), "package ") {
		return parseGo(src)
	}
	declErr := parseGo("package example\n" + src)
	if declErr == nil {
		return nil
	}
	if parseGo("package example\nfunc _() {\n"+src+"\n}") == nil {
		return nil
	}
	return declErr
}

func (GoValidator) Annotate(src string, err error) string {
	return "// Invalid Go: " + err.Error() + "\n" + src
}

func parseGo(src string) error {
	_, err := parser.ParseFile(token.NewFileSet(), "example.go", src, parser.AllErrors)
	if list, ok := err.(scanner.ErrorList); ok && len(list) > 0 {
		return fmt.Errorf("%s", list[0].Msg)
	}
	return err
}

package config

import (
	"os"

	"git.home.luguber.info/inful/docsmith/internal/foundation/errors"
)

// Example is the commented configuration written by `docsmith init`.
const Example = `# docsmith configuration
site:
  title: My Project

output:
  directory: doc
  clean: false

api:
  feed: api.yaml            # entity feed (YAML or JSON)
  prefix: api
  format: html              # html | json
  namespace_separator: "::"
  exclude_private: false

manual:
  source: manual            # directory of .page files
  prefix: manual
  default_filters: [examples, links, api]
  strict_titles: false

templates:
  dir: ""                   # empty uses the built-in darkfish theme
  static: ""

highlight:
  engine: chroma            # chroma | plain
  style: github
  default_language: text
  line_numbers: false

build:
  dry_run: false
  on_page_error: continue   # continue | abort
  strict_links: false
  reference_time: ""        # RFC 3339 or unix seconds; SOURCE_DATE_EPOCH also works
`

// Init writes the example configuration to path. An existing file is only
// replaced when force is set.
func Init(path string, force bool) error {
	if _, err := os.Stat(path); err == nil && !force {
		return errors.ValidationError("configuration file already exists (use --force to overwrite)").
			WithContext("path", path).Build()
	}
	if err := os.WriteFile(path, []byte(Example), 0o644); err != nil {
		return errors.WrapError(err, errors.CategoryFileSystem, "failed to write configuration").
			WithContext("path", path).Build()
	}
	return nil
}

package entities

import (
	"bytes"
	"os"

	"gopkg.in/yaml.v3"

	"git.home.luguber.info/inful/docsmith/internal/foundation/errors"
)

// LoadFeed reads an extraction feed from a YAML or JSON file.
func LoadFeed(filename string) (*Feed, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryConfig, "cannot read entity feed").
			Fatal().
			WithContext("feed", filename).
			Build()
	}
	feed, err := ParseFeed(data)
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryConfig, "malformed entity feed").
			Fatal().
			WithContext("feed", filename).
			Build()
	}
	return feed, nil
}

// ParseFeed decodes feed data. JSON input is accepted since it is valid YAML.
// Unknown keys are rejected so typos in hand-written feeds surface early.
func ParseFeed(data []byte) (*Feed, error) {
	var feed Feed
	if len(bytes.TrimSpace(data)) == 0 {
		return &feed, nil
	}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&feed); err != nil {
		return nil, err
	}
	return &feed, nil
}

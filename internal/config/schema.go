package config

import (
	_ "embed"
	"fmt"
	"sort"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

//go:embed schema.json
var schemaJSON string

// SchemaError lists every structural problem found by Validate.
type SchemaError struct {
	Path   string
	Issues []string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("%s does not match the configuration schema:\n  - %s",
		e.Path, strings.Join(e.Issues, "\n  - "))
}

// Validate checks the loaded document against the embedded JSON schema.
// Unlike Build it reports every problem instead of the first one and never
// touches the keyring.
func (c *Config) Validate() error {
	if c.Raw == nil {
		return fmt.Errorf("configuration %s has not been loaded", c.Path)
	}

	result, err := gojsonschema.Validate(
		gojsonschema.NewStringLoader(schemaJSON),
		gojsonschema.NewGoLoader(c.Raw),
	)
	if err != nil {
		return fmt.Errorf("schema validation: %w", err)
	}
	if result.Valid() {
		return nil
	}

	issues := make([]string, 0, len(result.Errors()))
	for _, desc := range result.Errors() {
		issues = append(issues, fmt.Sprintf("%s: %s", desc.Field(), desc.Description()))
	}
	sort.Strings(issues)
	return &SchemaError{Path: c.Path, Issues: issues}
}

func sortedCopy(in []string) []string {
	out := make([]string, len(in))
	copy(out, in)
	sort.Strings(out)
	return out
}

// Package rules loads legacy prefix mappings from YAML rule files.
package rules

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/xeipuuv/gojsonschema"
	"gopkg.in/yaml.v3"

	"github.com/Sumatoshi-tech/nsmigrate/pkg/migrate"
)

//go:embed schema.json
var schemaJSON []byte

// ErrInvalidRules is returned when a rules document fails schema validation.
var ErrInvalidRules = errors.New("invalid rules")

// Mapping is one entry of a rules file.
type Mapping struct {
	LegacyPrefix string   `yaml:"legacy_prefix" mapstructure:"legacy_prefix"`
	Namespace    string   `yaml:"namespace"     mapstructure:"namespace"`
	Exclude      []string `yaml:"exclude"       mapstructure:"exclude"`
}

// File is a rules document.
type File struct {
	Mappings []Mapping `yaml:"mappings"`
}

// Default is the Joomla form-field policy for the example component.
func Default() File {
	return File{Mappings: []Mapping{
		{LegacyPrefix: "JFormField", Namespace: `Acme\Example\Administrator\Field`},
	}}
}

// Load reads and parses the rules file at path.
func Load(path string) (File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return File{}, fmt.Errorf("read rules: %w", err)
	}

	f, err := Parse(data)
	if err != nil {
		return File{}, fmt.Errorf("%s: %w", path, err)
	}

	return f, nil
}

// Parse validates data against the rules schema and decodes it. Unknown
// keys are rejected.
func Parse(data []byte) (File, error) {
	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return File{}, fmt.Errorf("decode rules: %w", err)
	}

	if err := validate(doc); err != nil {
		return File{}, err
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var f File
	if err := dec.Decode(&f); err != nil {
		return File{}, fmt.Errorf("decode rules: %w", err)
	}

	return f, nil
}

func validate(doc any) error {
	if doc == nil {
		doc = map[string]any{}
	}

	result, err := gojsonschema.Validate(
		gojsonschema.NewBytesLoader(schemaJSON),
		gojsonschema.NewGoLoader(doc),
	)
	if err != nil {
		return fmt.Errorf("validate rules: %w", err)
	}

	if result.Valid() {
		return nil
	}

	msgs := make([]string, 0, len(result.Errors()))
	for _, re := range result.Errors() {
		msgs = append(msgs, re.Field()+": "+re.Description())
	}

	return fmt.Errorf("%w: %s", ErrInvalidRules, strings.Join(msgs, "; "))
}

// Build converts the mappings into engine mappings, keeping their order.
func (f File) Build() ([]migrate.LegacyPrefixMapping, error) {
	return Build(f.Mappings)
}

// Build converts mappings into engine mappings, keeping their order.
func Build(mappings []Mapping) ([]migrate.LegacyPrefixMapping, error) {
	out := make([]migrate.LegacyPrefixMapping, 0, len(mappings))

	for i, m := range mappings {
		lm, err := migrate.NewLegacyPrefixMapping(m.LegacyPrefix, m.Namespace, m.Exclude...)
		if err != nil {
			return nil, fmt.Errorf("mapping %d: %w", i, err)
		}

		out = append(out, lm)
	}

	return out, nil
}

// Table builds a PolicyTable from the mappings.
func (f File) Table() (*migrate.PolicyTable, error) {
	mappings, err := f.Build()
	if err != nil {
		return nil, err
	}

	return migrate.NewPolicyTable(mappings...), nil
}

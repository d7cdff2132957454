package llm

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

// Schema is a JSON Schema compiled once at construction.
type Schema struct {
	Name        string
	Description string
	Definition  map[string]any

	compiled *jsonschema.Schema
}

// NewSchema compiles def.
func NewSchema(name, description string, def map[string]any) (*Schema, error) {
	// The compiler wants plain decoded JSON, so round-trip the map.
	raw, err := json.Marshal(def)
	if err != nil {
		return nil, fmt.Errorf("marshal schema %q: %w", name, err)
	}
	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("parse schema %q: %w", name, err)
	}

	url := "mem://schemas/" + name + ".json"
	c := jsonschema.NewCompiler()
	if err := c.AddResource(url, doc); err != nil {
		return nil, fmt.Errorf("add schema %q: %w", name, err)
	}
	compiled, err := c.Compile(url)
	if err != nil {
		return nil, fmt.Errorf("compile schema %q: %w", name, err)
	}

	return &Schema{Name: name, Description: description, Definition: def, compiled: compiled}, nil
}

// MustSchema is NewSchema for package-level schemas.
func MustSchema(name, description string, def map[string]any) *Schema {
	s, err := NewSchema(name, description, def)
	if err != nil {
		panic(err)
	}
	return s
}

// Check reports a KindInvalid error unless raw is JSON matching s.
func (s *Schema) Check(raw json.RawMessage) error {
	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(raw))
	if err != nil {
		return &Error{Kind: KindInvalid, Content: raw, Err: fmt.Errorf("not JSON: %w", err)}
	}
	if err := s.compiled.Validate(doc); err != nil {
		return &Error{Kind: KindInvalid, Content: raw, Err: fmt.Errorf("schema %s: %w", s.Name, err)}
	}
	return nil
}

package config

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// LoadPayloads reads the payload file at configFile and returns its payloads in file order.
func LoadPayloads(configFile string) ([]Payload, error) {
	f, err := os.Open(configFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read payload file %s: %w", configFile, err)
	}
	defer f.Close()

	payloads, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("failed to parse payload file %s: %w", configFile, err)
	}
	return payloads, nil
}

// Parse decodes a YAML sequence of payloads and validates it.
func Parse(r io.Reader) ([]Payload, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil, nil
	}

	var payloads []Payload
	if err := yaml.Unmarshal(raw, &payloads); err != nil {
		return nil, err
	}
	if err := Validate(payloads); err != nil {
		return nil, err
	}
	return payloads, nil
}

// Validate checks the invariants the pipeline relies on: every payload has a resource and
// an id that is unique and usable as a single path element.
func Validate(payloads []Payload) error {
	seen := make(map[string]bool, len(payloads))
	for i, p := range payloads {
		switch {
		case p.ID == "":
			return fmt.Errorf("payload #%d: missing id", i+1)
		case p.ID == "." || p.ID == ".." || strings.ContainsAny(p.ID, `/\`):
			return fmt.Errorf("payload %q: id must be a plain name", p.ID)
		case seen[p.ID]:
			return fmt.Errorf("payload %q: duplicate id", p.ID)
		case p.Resource == nil:
			return fmt.Errorf("payload %q: missing resource", p.ID)
		}
		seen[p.ID] = true
	}
	return nil
}

// Find returns the payload with the given id.
func Find(payloads []Payload, id string) (Payload, bool) {
	for _, p := range payloads {
		if p.ID == id {
			return p, true
		}
	}
	return Payload{}, false
}

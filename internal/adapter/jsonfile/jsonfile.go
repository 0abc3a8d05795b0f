// Package jsonfile reads and writes the pipeline's JSON artifacts. All
// outputs are pretty-printed with two-space indentation and a trailing
// newline so diffs against hand-edited files stay reviewable.
package jsonfile

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Read decodes the JSON file at path into T.
func Read[T any](path string) (T, error) {
	var v T
	data, err := os.ReadFile(path)
	if err != nil {
		return v, fmt.Errorf("read %s: %w", path, err)
	}
	if err := json.Unmarshal(data, &v); err != nil {
		return v, fmt.Errorf("parse %s: %w", path, err)
	}
	return v, nil
}

// ReadObjects decodes a JSON array of objects without imposing a schema.
// Rewrite stages use this so fields maintained by hand in the source files
// survive a round trip untouched.
func ReadObjects(path string) ([]map[string]any, error) {
	return Read[[]map[string]any](path)
}

// Write encodes v to path, creating parent directories as needed. HTML
// escaping is off; the data is Norwegian text, not markup.
func Write(path string, v any) error {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode %s: %w", path, err)
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create dir %s: %w", dir, err)
		}
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

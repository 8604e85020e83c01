package testspec

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Encode renders the specification in the given format. Field order follows
// the document layout: metadata, the three case sequences, then instructions.
func Encode(spec *Spec, format Format) ([]byte, error) {
	var buf bytes.Buffer

	switch format {
	case FormatJSON:
		enc := json.NewEncoder(&buf)
		enc.SetIndent("", "  ")
		enc.SetEscapeHTML(false)
		if err := enc.Encode(spec); err != nil {
			return nil, errors.Wrap(err, "failed to encode JSON")
		}
	case FormatYAML:
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(spec); err != nil {
			return nil, errors.Wrap(err, "failed to encode YAML")
		}
		if err := enc.Close(); err != nil {
			return nil, errors.Wrap(err, "failed to encode YAML")
		}
	default:
		return nil, &FormatError{Reason: "Unsupported test file format: " + string(format)}
	}

	return buf.Bytes(), nil
}

// WriteFile encodes the specification and writes it to path, creating parent
// directories as needed.
func WriteFile(spec *Spec, path string, format Format) error {
	data, err := Encode(spec, format)
	if err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return errors.Wrapf(err, "failed to create %s", dir)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil { //nolint:gosec // spec files are meant to be shared
		return errors.Wrapf(err, "failed to write %s", path)
	}
	return nil
}

package testspec

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/mitchellh/mapstructure"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/bartekus/skilltest/internal/logger"
	"github.com/bartekus/skilltest/internal/validate"
)

// Format is a specification document encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// Extension returns the file extension (without dot) used for the format.
func (f Format) Extension() string { return string(f) }

// ParseFormat maps a user-facing format name to a Format.
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	default:
		return "", errors.Errorf("invalid format %q, use 'json' or 'yaml'", name)
	}
}

// FormatError reports a specification document that cannot be decoded,
// either because its encoding is unsupported or because it does not parse.
type FormatError struct {
	Path   string
	Reason string
	Err    error
}

func (e *FormatError) Error() string {
	msg := e.Reason
	if e.Path != "" {
		msg = fmt.Sprintf("%s: %s", e.Path, e.Reason)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *FormatError) Unwrap() error { return e.Err }

// FormatFromPath detects the encoding from the file extension.
func FormatFromPath(path string) (Format, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	default:
		return "", &FormatError{Path: path, Reason: fmt.Sprintf("Unsupported test file format: %s", ext)}
	}
}

// Load reads and parses the specification at path.
func Load(path string) (*Spec, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path) //nolint:gosec // path is a CLI argument
	if err != nil {
		return nil, errors.Wrap(err, "failed to read test specification")
	}

	spec, err := Parse(data, format)
	if err != nil {
		var fe *FormatError
		if errors.As(err, &fe) {
			fe.Path = path
		}
		return nil, err
	}
	spec.Path = path
	return spec, nil
}

// Parse decodes a specification document. Missing fields are defaulted and a
// case that cannot be decoded is kept as an invalid case rather than
// aborting the load.
func Parse(data []byte, format Format) (*Spec, error) {
	var root any
	switch format {
	case FormatJSON:
		if err := json.Unmarshal(data, &root); err != nil {
			return nil, &FormatError{Reason: "invalid JSON", Err: err}
		}
	case FormatYAML:
		if err := yaml.Unmarshal(data, &root); err != nil {
			return nil, &FormatError{Reason: "invalid YAML", Err: err}
		}
	default:
		return nil, &FormatError{Reason: fmt.Sprintf("Unsupported test file format: %s", format)}
	}

	if root == nil {
		return &Spec{}, nil
	}
	doc, ok := root.(map[string]any)
	if !ok {
		return nil, &FormatError{Reason: fmt.Sprintf("document root must be a mapping, got %T", root)}
	}

	spec := &Spec{}
	for _, key := range metadataKeys {
		v, ok := doc[key]
		if !ok {
			continue
		}
		if err := decode(map[string]any{key: v}, spec); err != nil {
			logger.L.WithError(err).WithField("field", key).Warn("ignoring invalid document field")
		}
	}

	units, err := sequence(doc, "unit_tests")
	if err != nil {
		return nil, err
	}
	for _, raw := range units {
		var c UnitCase
		c.decodeErr = decodeCase(raw, &c)
		c.Name = nameOr(c.Name, raw)
		if c.Type == "" {
			c.Type = TypeScript
		}
		spec.UnitTests = append(spec.UnitTests, c)
	}

	integrations, err := sequence(doc, "integration_tests")
	if err != nil {
		return nil, err
	}
	for _, raw := range integrations {
		var c IntegrationCase
		c.decodeErr = decodeCase(raw, &c)
		c.Name = nameOr(c.Name, raw)
		spec.IntegrationTests = append(spec.IntegrationTests, c)
	}

	regressions, err := sequence(doc, "regression_tests")
	if err != nil {
		return nil, err
	}
	for _, raw := range regressions {
		var c RegressionCase
		c.decodeErr = decodeCase(raw, &c)
		c.Name = nameOr(c.Name, raw)
		spec.RegressionTests = append(spec.RegressionTests, c)
	}

	return spec, nil
}

// metadataKeys are the document-level fields besides the case sequences.
// Each decodes on its own so one mistyped field never costs the others.
var metadataKeys = []string{"skill_name", "skill_path", "test_version", "description", "_instructions"}

func sequence(doc map[string]any, key string) ([]any, error) {
	raw, ok := doc[key]
	if !ok || raw == nil {
		return nil, nil
	}
	items, ok := raw.([]any)
	if !ok {
		return nil, &FormatError{Reason: fmt.Sprintf("%s must be a sequence, got %T", key, raw)}
	}
	return items, nil
}

func decodeCase(raw any, out any) error {
	m, ok := raw.(map[string]any)
	if !ok {
		return errors.Errorf("expected a mapping, got %T", raw)
	}
	return decode(m, out)
}

// nameOr keeps a decoded name, falls back to the raw name field when the
// rest of the case failed to decode, and finally to UnnamedTest.
func nameOr(name string, raw any) string {
	if name != "" {
		return name
	}
	if m, ok := raw.(map[string]any); ok {
		if s, ok := m["name"].(string); ok && s != "" {
			return s
		}
	}
	return UnnamedTest
}

func decode(in map[string]any, out any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           out,
		TagName:          "mapstructure",
		WeaklyTypedInput: true,
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			expectationHook,
			stepHook,
			durationHook,
		),
	})
	if err != nil {
		return err
	}
	return dec.Decode(in)
}

var (
	expectationType = reflect.TypeOf(validate.Expectation{})
	stepType        = reflect.TypeOf(Step{})
	durationType    = reflect.TypeOf(Duration(0))
)

func expectationHook(_ reflect.Type, to reflect.Type, data any) (any, error) {
	if to != expectationType {
		return data, nil
	}
	if e := validate.ParseExpectation(data); e != nil {
		return *e, nil
	}
	return data, nil
}

func stepHook(_ reflect.Type, to reflect.Type, data any) (any, error) {
	if to != stepType {
		return data, nil
	}
	if s, ok := data.(string); ok {
		return Step{Action: s}, nil
	}
	return data, nil
}

func durationHook(_ reflect.Type, to reflect.Type, data any) (any, error) {
	if to != durationType {
		return data, nil
	}
	return parseDuration(data)
}

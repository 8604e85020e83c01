package testspec

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/hashicorp/go-multierror"
	"github.com/invopop/jsonschema"
	"github.com/pkg/errors"
	sjsonschema "github.com/santhosh-tekuri/jsonschema/v6"
	"gopkg.in/yaml.v3"
)

const schemaID = "https://github.com/bartekus/skilltest/schemas/test-spec-v1.json"

// GenerateJSONSchema reflects a JSON Schema document from the Spec model.
// All fields are optional, matching the lenient loader.
func GenerateJSONSchema() ([]byte, error) {
	r := new(jsonschema.Reflector)
	r.RequiredFromJSONSchemaTags = true

	s := r.Reflect(&Spec{})
	s.ID = schemaID
	s.Title = "Skill test specification"
	s.Description = "Unit, integration and regression cases for one skill"

	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return nil, errors.Wrap(err, "failed to marshal schema")
	}
	return data, nil
}

// Violation is one schema violation found by Lint.
type Violation struct {
	Path    string
	Message string
}

func (v *Violation) Error() string {
	if v.Path == "" {
		return v.Message
	}
	return fmt.Sprintf("%s: %s", v.Path, v.Message)
}

// Lint validates the document at path against the generated schema. It is
// stricter than Load: unknown fields and mistyped values are reported. The
// returned error is a *multierror.Error of *Violation values, or a
// *FormatError when the document cannot be parsed at all.
func Lint(path string) error {
	format, err := FormatFromPath(path)
	if err != nil {
		return err
	}
	data, err := os.ReadFile(path) //nolint:gosec // path is a CLI argument
	if err != nil {
		return errors.Wrap(err, "failed to read test specification")
	}

	doc, err := jsonDocument(data, format)
	if err != nil {
		var fe *FormatError
		if errors.As(err, &fe) {
			fe.Path = path
		}
		return err
	}

	schemaJSON, err := GenerateJSONSchema()
	if err != nil {
		return err
	}
	var schemaDoc any
	if err := json.Unmarshal(schemaJSON, &schemaDoc); err != nil {
		return errors.Wrap(err, "failed to unmarshal schema")
	}

	c := sjsonschema.NewCompiler()
	if err := c.AddResource(schemaID, schemaDoc); err != nil {
		return errors.Wrap(err, "failed to add schema resource")
	}
	sch, err := c.Compile(schemaID)
	if err != nil {
		return errors.Wrap(err, "failed to compile schema")
	}

	err = sch.Validate(doc)
	if err == nil {
		return nil
	}

	var result *multierror.Error
	var ve *sjsonschema.ValidationError
	if errors.As(err, &ve) {
		for _, cause := range leaves(ve) {
			result = multierror.Append(result, &Violation{
				Path:    "/" + strings.Join(cause.InstanceLocation, "/"),
				Message: fmt.Sprintf("%v", cause.ErrorKind),
			})
		}
	} else {
		result = multierror.Append(result, &Violation{Message: err.Error()})
	}
	return result.ErrorOrNil()
}

// jsonDocument parses data and normalises it to the value shapes produced by
// encoding/json, which is what the schema validator expects.
func jsonDocument(data []byte, format Format) (any, error) {
	var raw any
	switch format {
	case FormatJSON:
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil, &FormatError{Reason: "invalid JSON", Err: err}
		}
		return raw, nil
	case FormatYAML:
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return nil, &FormatError{Reason: "invalid YAML", Err: err}
		}
	default:
		return nil, &FormatError{Reason: "Unsupported test file format: " + string(format)}
	}

	encoded, err := json.Marshal(raw)
	if err != nil {
		return nil, &FormatError{Reason: "document is not representable as JSON", Err: err}
	}
	var doc any
	if err := json.Unmarshal(encoded, &doc); err != nil {
		return nil, &FormatError{Reason: "document is not representable as JSON", Err: err}
	}
	return doc, nil
}

func leaves(ve *sjsonschema.ValidationError) []*sjsonschema.ValidationError {
	if len(ve.Causes) == 0 {
		return []*sjsonschema.ValidationError{ve}
	}
	var flat []*sjsonschema.ValidationError
	for _, cause := range ve.Causes {
		flat = append(flat, leaves(cause)...)
	}
	return flat
}

// JSONSchema describes a workflow step: a bare string or {action, details}.
func (Step) JSONSchema() *jsonschema.Schema {
	props := jsonschema.NewProperties()
	props.Set("action", &jsonschema.Schema{Type: "string"})
	props.Set("details", &jsonschema.Schema{Type: "string"})

	return &jsonschema.Schema{
		OneOf: []*jsonschema.Schema{
			{Type: "string"},
			{Type: "object", Properties: props},
		},
	}
}

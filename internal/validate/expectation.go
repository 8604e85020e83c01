package validate

import (
	"encoding/json"
	"fmt"

	"github.com/invopop/jsonschema"
)

// Expectation is an expected output value. A plain string expectation has an
// empty Mode and is compared with the validator's default mode; the tagged
// forms {pattern: ...} and {contains: ...} carry their own mode.
type Expectation struct {
	Mode  Mode
	Value string
}

// Exact returns a plain string expectation.
func Exact(s string) *Expectation { return &Expectation{Value: s} }

// Contains returns a substring expectation.
func Contains(s string) *Expectation { return &Expectation{Mode: ModeContains, Value: s} }

// Pattern returns a regular expression expectation.
func Pattern(s string) *Expectation { return &Expectation{Mode: ModePattern, Value: s} }

// ParseExpectation converts a loosely typed document value into an
// Expectation. nil means "no expectation". Maps without a recognised tag and
// other composite values are compared exactly against their JSON encoding.
func ParseExpectation(raw any) *Expectation {
	switch v := raw.(type) {
	case nil:
		return nil
	case *Expectation:
		return v
	case Expectation:
		return &v
	case string:
		return Exact(v)
	case map[string]any:
		if p, ok := v["pattern"]; ok {
			return Pattern(scalar(p))
		}
		if c, ok := v["contains"]; ok {
			return Contains(scalar(c))
		}
		return Exact(encoded(v))
	case []any:
		return Exact(encoded(v))
	default:
		return Exact(scalar(v))
	}
}

func scalar(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}

func encoded(v any) string {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprint(v)
	}
	return string(data)
}

// document is the on-disk form of an expectation.
func (e Expectation) document() any {
	switch e.Mode {
	case ModePattern:
		return map[string]string{"pattern": e.Value}
	case ModeContains:
		return map[string]string{"contains": e.Value}
	default:
		return e.Value
	}
}

// MarshalJSON writes the expectation in its document form.
func (e Expectation) MarshalJSON() ([]byte, error) {
	return json.Marshal(e.document())
}

// MarshalYAML writes the expectation in its document form.
func (e Expectation) MarshalYAML() (any, error) {
	return e.document(), nil
}

// JSONSchema describes the accepted document forms.
func (Expectation) JSONSchema() *jsonschema.Schema {
	patternProps := jsonschema.NewProperties()
	patternProps.Set("pattern", &jsonschema.Schema{Type: "string"})
	containsProps := jsonschema.NewProperties()
	containsProps.Set("contains", &jsonschema.Schema{Type: "string"})

	return &jsonschema.Schema{
		Description: "Expected output: an exact string, {pattern: regex} or {contains: substring}",
		OneOf: []*jsonschema.Schema{
			{Type: "string"},
			{Type: "null"},
			{Type: "object", Properties: patternProps, Required: []string{"pattern"}},
			{Type: "object", Properties: containsProps, Required: []string{"contains"}},
		},
	}
}

// String renders the expectation for reports: the bare value for exact
// expectations, "pattern: <expr>" or "contains: <text>" for tagged ones.
func (e Expectation) String() string {
	if e.Mode == ModePattern || e.Mode == ModeContains {
		return fmt.Sprintf("%s: %s", e.Mode, e.Value)
	}
	return e.Value
}

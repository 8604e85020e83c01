package testspec

import (
	"encoding/json"
	"strconv"
	"time"

	"github.com/invopop/jsonschema"
	"github.com/pkg/errors"
)

// Duration is a per-case time bound. Documents spell it as a Go duration
// string ("10s", "1m30s") or as a number of seconds.
type Duration time.Duration

// Std returns the value as a time.Duration.
func (d Duration) Std() time.Duration { return time.Duration(d) }

func (d Duration) String() string { return time.Duration(d).String() }

// MarshalJSON writes the duration string form.
func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

// MarshalYAML writes the duration string form.
func (d Duration) MarshalYAML() (any, error) {
	return d.String(), nil
}

// JSONSchema describes the accepted document forms.
func (Duration) JSONSchema() *jsonschema.Schema {
	return &jsonschema.Schema{
		Description: "Timeout as a duration string (\"10s\") or a number of seconds",
		OneOf: []*jsonschema.Schema{
			{Type: "string"},
			{Type: "number"},
		},
	}
}

func parseDuration(raw any) (Duration, error) {
	switch v := raw.(type) {
	case nil:
		return 0, nil
	case string:
		if d, err := time.ParseDuration(v); err == nil {
			return Duration(d), nil
		}
		secs, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return 0, errors.Errorf("invalid duration %q", v)
		}
		return seconds(secs), nil
	case int:
		return seconds(float64(v)), nil
	case int64:
		return seconds(float64(v)), nil
	case uint64:
		return seconds(float64(v)), nil
	case float64:
		return seconds(v), nil
	case Duration:
		return v, nil
	default:
		return 0, errors.Errorf("invalid duration %v", raw)
	}
}

func seconds(s float64) Duration {
	return Duration(s * float64(time.Second))
}

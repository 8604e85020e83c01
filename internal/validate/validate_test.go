package validate

import (
	"encoding/json"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestValidate_NilExpectationAlwaysPasses(t *testing.T) {
	for _, mode := range []Mode{ModeExact, ModeContains, ModePattern, Mode("bogus")} {
		for _, actual := range []string{"", "anything", "  \n"} {
			res := Validate(actual, nil, mode)
			assert.True(t, res.Passed, "mode=%s actual=%q", mode, actual)
		}
	}
}

func TestValidate_Modes(t *testing.T) {
	tests := []struct {
		name     string
		actual   string
		expected *Expectation
		mode     Mode
		passed   bool
		message  string
	}{
		{
			name:     "exact trims boundaries",
			actual:   "  foo\n",
			expected: Exact("foo"),
			mode:     ModeExact,
			passed:   true,
			message:  "Exact match",
		},
		{
			name:     "exact reflexive",
			actual:   "a\nb",
			expected: Exact("a\nb"),
			mode:     ModeExact,
			passed:   true,
		},
		{
			name:     "contains substring",
			actual:   "hello world",
			expected: Exact("lo wo"),
			mode:     ModeContains,
			passed:   true,
			message:  "Contains expected content",
		},
		{
			name:     "contains missing",
			actual:   "hello",
			expected: Exact("xyz"),
			mode:     ModeContains,
			passed:   false,
			message:  "Expected substring not found: 'xyz'",
		},
		{
			name:     "contains is case sensitive",
			actual:   "Hello",
			expected: Exact("hello"),
			mode:     ModeContains,
			passed:   false,
		},
		{
			name:     "pattern dot matches newline",
			actual:   "line1\nline2",
			expected: Exact("line1.*line2"),
			mode:     ModePattern,
			passed:   true,
			message:  "Pattern matched",
		},
		{
			name:     "pattern multiline anchors",
			actual:   "first\nsecond\nthird",
			expected: Exact("^second$"),
			mode:     ModePattern,
			passed:   true,
		},
		{
			name:     "pattern not matched",
			actual:   "abc",
			expected: Exact(`\d+`),
			mode:     ModePattern,
			passed:   false,
			message:  `Pattern not matched: \d+`,
		},
		{
			name:     "tagged matcher overrides default mode",
			actual:   "total: 42 items",
			expected: Pattern(`total: \d+`),
			mode:     ModeExact,
			passed:   true,
		},
		{
			name:     "tagged contains overrides default mode",
			actual:   "hello world",
			expected: Contains("world"),
			mode:     ModePattern,
			passed:   true,
		},
		{
			name:     "unknown mode fails",
			actual:   "x",
			expected: Exact("x"),
			mode:     Mode("fuzzy"),
			passed:   false,
			message:  "Unknown validation mode: fuzzy",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := Validate(tt.actual, tt.expected, tt.mode)
			assert.Equal(t, tt.passed, res.Passed)
			if tt.message != "" {
				assert.Equal(t, tt.message, res.Message)
			}
		})
	}
}

func TestValidate_ExactMismatchDiff(t *testing.T) {
	res := Validate("foo", Exact("bar"), ModeExact)
	require.False(t, res.Passed)
	assert.True(t, strings.HasPrefix(res.Message, "Content mismatch:\n"))
	assert.Contains(t, res.Message, "expected")
	assert.Contains(t, res.Message, "actual")
	assert.Contains(t, res.Message, "-bar")
	assert.Contains(t, res.Message, "+foo")
}

func TestValidate_DiffTruncated(t *testing.T) {
	var want, got strings.Builder
	for i := 0; i < 200; i++ {
		want.WriteString("expected line\n")
		got.WriteString("actual line\n")
	}

	res := Validate(got.String(), Exact(want.String()), ModeExact)
	require.False(t, res.Passed)
	assert.True(t, strings.HasSuffix(res.Message, "... (truncated)"))

	diff := strings.TrimPrefix(res.Message, "Content mismatch:\n")
	assert.Equal(t, DefaultDiffLimit+len(truncatedMarker), len(diff))
}

func TestValidate_CustomDiffLimit(t *testing.T) {
	v := New(ModeExact, WithDiffLimit(20))
	res := v.Validate(strings.Repeat("a\n", 50), Exact(strings.Repeat("b\n", 50)))
	require.False(t, res.Passed)
	diff := strings.TrimPrefix(res.Message, "Content mismatch:\n")
	assert.Equal(t, 20+len(truncatedMarker), len(diff))
}

func TestValidate_DiffLimitCountsCharacters(t *testing.T) {
	res := Validate(strings.Repeat("é", 600), Exact(strings.Repeat("ü", 600)), ModeExact)
	require.False(t, res.Passed)

	diff := strings.TrimPrefix(res.Message, "Content mismatch:\n")
	body := strings.TrimSuffix(diff, truncatedMarker)
	assert.Equal(t, DefaultDiffLimit, utf8.RuneCountInString(body))
	assert.True(t, utf8.ValidString(body))
}

func TestValidate_InvalidPatternIsData(t *testing.T) {
	var res Result
	require.NotPanics(t, func() {
		res = Validate("anything", Exact("("), ModePattern)
	})
	assert.False(t, res.Passed)
	assert.True(t, strings.HasPrefix(res.Message, "Invalid regex pattern: "))
	assert.Contains(t, res.Message, "missing closing )")
}

func TestParseMode(t *testing.T) {
	for in, want := range map[string]Mode{
		"":            ModeExact,
		"exact":       ModeExact,
		"exact_match": ModeExact,
		"contains":    ModeContains,
		"pattern":     ModePattern,
		" Pattern ":   ModePattern,
	} {
		got, err := ParseMode(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseMode("regex")
	require.Error(t, err)
	assert.Equal(t, "Unknown validation mode: regex", err.Error())
}

func TestParseExpectation(t *testing.T) {
	assert.Nil(t, ParseExpectation(nil))
	assert.Equal(t, Exact("OK"), ParseExpectation("OK"))
	assert.Equal(t, Pattern("^a"), ParseExpectation(map[string]any{"pattern": "^a"}))
	assert.Equal(t, Contains("b"), ParseExpectation(map[string]any{"contains": "b"}))
	assert.Equal(t, Exact("42"), ParseExpectation(float64(42)))
	assert.Equal(t, Exact(`{"k":"v"}`), ParseExpectation(map[string]any{"k": "v"}))
}

func TestExpectation_DocumentForms(t *testing.T) {
	type holder struct {
		Expected *Expectation `json:"expected_output" yaml:"expected_output"`
	}

	data, err := json.Marshal(holder{Expected: Pattern("a+")})
	require.NoError(t, err)
	assert.JSONEq(t, `{"expected_output":{"pattern":"a+"}}`, string(data))

	data, err = json.Marshal(holder{})
	require.NoError(t, err)
	assert.JSONEq(t, `{"expected_output":null}`, string(data))

	out, err := yaml.Marshal(holder{Expected: Exact("done")})
	require.NoError(t, err)
	assert.Equal(t, "expected_output: done\n", string(out))
}

func TestExpectation_String(t *testing.T) {
	assert.Equal(t, "OK", Exact("OK").String())
	assert.Equal(t, `pattern: \d+`, Pattern(`\d+`).String())
	assert.Equal(t, "contains: lo wo", Contains("lo wo").String())
}

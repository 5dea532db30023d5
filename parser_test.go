package phplit_test

import (
	"strings"
	"testing"

	"github.com/KimNorgaard/go-phplit"
	"github.com/stretchr/testify/require"
)

func entry(key, val any) phplit.Entry {
	var k phplit.Key
	switch kv := key.(type) {
	case int:
		k = phplit.IntKey(int64(kv))
	case int64:
		k = phplit.IntKey(kv)
	case string:
		k = phplit.StringKey(kv)
	default:
		panic("unsupported key type")
	}
	return phplit.Entry{Key: k, Value: scalar(val)}
}

func scalar(val any) *phplit.Value {
	switch v := val.(type) {
	case nil:
		return phplit.NullValue()
	case bool:
		return phplit.BoolValue(v)
	case int:
		return phplit.IntValue(int64(v))
	case int64:
		return phplit.IntValue(v)
	case float64:
		return phplit.FloatValue(v)
	case string:
		return phplit.StringValue(v)
	case *phplit.Value:
		return v
	}
	panic("unsupported value type")
}

func TestParseScalars(t *testing.T) {
	tests := []struct {
		input    string
		expected *phplit.Value
	}{
		{"null", phplit.NullValue()},
		{"NULL", phplit.NullValue()},
		{"true", phplit.BoolValue(true)},
		{"True", phplit.BoolValue(true)},
		{"FALSE", phplit.BoolValue(false)},
		{"42", phplit.IntValue(42)},
		{"-1", phplit.IntValue(-1)},
		{"0x1A", phplit.IntValue(26)},
		{"0432", phplit.IntValue(282)},
		{"0b11", phplit.IntValue(3)},
		{"12_34_5", phplit.IntValue(12345)},
		{".5", phplit.FloatValue(0.5)},
		{"123.", phplit.FloatValue(123)},
		{"10e2", phplit.FloatValue(1000)},
		{"10e-1", phplit.FloatValue(1)},
		{"-432.0", phplit.FloatValue(-432)},
		{"12_34.5", phplit.FloatValue(1234.5)},
		{`"abc"`, phplit.StringValue("abc")},
		{`'abc'`, phplit.StringValue("abc")},
		{`"tab\there"`, phplit.StringValue("tab\there")},
		{"12;", phplit.IntValue(12)},
		{"  \n\t 7 \n", phplit.IntValue(7)},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			v, err := phplit.ParseString(tt.input)
			require.NoError(t, err)
			require.True(t, v.Equal(tt.expected), "got %s, want %s", v, tt.expected)
		})
	}
}

func TestParseArrays(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected *phplit.Value
	}{
		{
			name:     "empty short",
			input:    "[]",
			expected: phplit.ArrayValue(),
		},
		{
			name:     "empty long",
			input:    "array()",
			expected: phplit.ArrayValue(),
		},
		{
			name:     "long syntax case-insensitive",
			input:    "Array(1)",
			expected: phplit.ArrayValue(entry(0, 1)),
		},
		{
			name:     "auto keys",
			input:    "[1, 2, 3]",
			expected: phplit.ArrayValue(entry(0, 1), entry(1, 2), entry(2, 3)),
		},
		{
			name:     "trailing comma",
			input:    "[1, 2, 3,]",
			expected: phplit.ArrayValue(entry(0, 1), entry(1, 2), entry(2, 3)),
		},
		{
			name:     "string keys",
			input:    `["a" => 1, "b" => 2]`,
			expected: phplit.ArrayValue(entry("a", 1), entry("b", 2)),
		},
		{
			name:     "auto key resumes after explicit key",
			input:    `[5 => "a", "b"]`,
			expected: phplit.ArrayValue(entry(5, "a"), entry(6, "b")),
		},
		{
			name:     "explicit then implicit run",
			input:    "[1 => 3, 4, 5]",
			expected: phplit.ArrayValue(entry(1, 3), entry(2, 4), entry(3, 5)),
		},
		{
			name:     "sparse explicit keys",
			input:    `[1 => "a", 3 => "b", 5 => "c"]`,
			expected: phplit.ArrayValue(entry(1, "a"), entry(3, "b"), entry(5, "c")),
		},
		{
			name:     "numeric string key coerces to int",
			input:    `["1" => "a"]`,
			expected: phplit.ArrayValue(entry(1, "a")),
		},
		{
			name:     "non-canonical numeric string stays a string",
			input:    `["01" => "a"]`,
			expected: phplit.ArrayValue(entry("01", "a")),
		},
		{
			name:     "float key truncates",
			input:    `[1.5 => "a"]`,
			expected: phplit.ArrayValue(entry(1, "a")),
		},
		{
			name:     "bool keys",
			input:    `[true => "a", false => "b"]`,
			expected: phplit.ArrayValue(entry(1, "a"), entry(0, "b")),
		},
		{
			name:     "null key is the empty string",
			input:    `[null => "a"]`,
			expected: phplit.ArrayValue(entry("", "a")),
		},
		{
			name:     "duplicate key overwrites in place",
			input:    `["a" => 1, "b" => 2, "a" => 3]`,
			expected: phplit.ArrayValue(entry("a", 3), entry("b", 2)),
		},
		{
			name:  "nested mixed syntax",
			input: `["x" => [1, array(2)]]`,
			expected: phplit.ArrayValue(phplit.Entry{
				Key: phplit.StringKey("x"),
				Value: phplit.ArrayValue(
					entry(0, 1),
					phplit.Entry{Key: phplit.IntKey(1), Value: phplit.ArrayValue(entry(0, 2))},
				),
			}),
		},
		{
			name:     "null element",
			input:    "[null]",
			expected: phplit.ArrayValue(entry(0, nil)),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, err := phplit.ParseString(tt.input)
			require.NoError(t, err)
			require.True(t, v.Equal(tt.expected), "got %s, want %s", v, tt.expected)
		})
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		kind  phplit.ErrKind
	}{
		{"unterminated array", "[1, 2", phplit.ErrUnexpectedEOF},
		{"empty input", "", phplit.ErrUnexpectedEOF},
		{"value cut off", "[1 =>", phplit.ErrUnexpectedEOF},
		{"brace syntax", "{1: 2}", phplit.ErrUnexpectedChar},
		{"stray ampersand", "&", phplit.ErrUnexpectedChar},
		{"mismatched long close", "array(1]", phplit.ErrMismatchedBracket},
		{"mismatched short close", "[1)", phplit.ErrMismatchedBracket},
		{"mismatched empty", "array(]", phplit.ErrMismatchedBracket},
		{"unterminated double quote", `"abc`, phplit.ErrUnterminatedString},
		{"unterminated single quote", `'abc`, phplit.ErrUnterminatedString},
		{"bad unicode escape", `"\u{}"`, phplit.ErrInvalidEscape},
		{"octal out of range", "089", phplit.ErrInvalidNumber},
		{"two dots", "1.2.3", phplit.ErrInvalidNumber},
		{"dangling exponent", "5e-", phplit.ErrInvalidNumber},
		{"int overflow", "99999999999999999999", phplit.ErrInvalidNumber},
		{"trailing tokens", "1 2", phplit.ErrUnexpectedToken},
		{"array without parens", "array", phplit.ErrUnexpectedToken},
		{"missing value after arrow", "[1 => ]", phplit.ErrUnexpectedToken},
		{"leading comma", "[,1]", phplit.ErrUnexpectedToken},
		{"missing comma", `[1 2]`, phplit.ErrUnexpectedToken},
		{"bare arrow", "=>", phplit.ErrUnexpectedToken},
		{"array key is an array", "[[1] => 2]", phplit.ErrInvalidArrayKey},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := phplit.ParseString(tt.input)
			require.Error(t, err)
			var pe *phplit.ParseError
			require.ErrorAs(t, err, &pe)
			require.Equal(t, tt.kind, pe.Kind, "wrong error kind: %v", err)
		})
	}
}

func TestParseErrorPosition(t *testing.T) {
	_, err := phplit.ParseString("[1,\n 2,\n &]")
	var pe *phplit.ParseError
	require.ErrorAs(t, err, &pe)
	require.Equal(t, phplit.ErrUnexpectedChar, pe.Kind)
	require.Equal(t, 3, pe.Line)
	require.Equal(t, 2, pe.Column)
	require.Contains(t, err.Error(), "line 3, column 2")
}

func TestParseMaxDepth(t *testing.T) {
	t.Run("default limit", func(t *testing.T) {
		deep := strings.Repeat("[", 2000) + strings.Repeat("]", 2000)
		_, err := phplit.ParseString(deep)
		var pe *phplit.ParseError
		require.ErrorAs(t, err, &pe)
		require.Equal(t, phplit.ErrMaxDepth, pe.Kind)
	})

	t.Run("custom limit", func(t *testing.T) {
		_, err := phplit.ParseString("[[1]]", phplit.MaxDepth(2))
		var pe *phplit.ParseError
		require.ErrorAs(t, err, &pe)
		require.Equal(t, phplit.ErrMaxDepth, pe.Kind)

		_, err = phplit.ParseString("[1]", phplit.MaxDepth(2))
		require.NoError(t, err)
	})
}

func BenchmarkParse(b *testing.B) {
	input := []byte(`[
		"name" => "widget",
		"enabled" => true,
		"threshold" => 0.75,
		"tags" => ["a", "b", "c"],
		"limits" => array("min" => 1, "max" => 0x1A),
	]`)
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		if _, err := phplit.Parse(input); err != nil {
			b.Fatal(err)
		}
	}
}

// Package phplit parses PHP literal expressions: the scalars and array
// literals a PHP program would write in source code, such as config
// arrays or var_export output.
//
// The supported grammar covers null, booleans, integers (decimal, hex,
// octal, binary), floats, single- and double-quoted strings with PHP
// escape rules, and arrays in both the short "[...]" and long
// "array(...)" syntax, including nested arrays, "key => value" pairs,
// and trailing commas. Array semantics follow PHP: entries keep
// insertion order, keys are integers or strings with PHP's key
// coercion, elements without an explicit key get the next
// auto-increment integer key, and a duplicate key overwrites the
// earlier value in place.
//
// Parse yields a generic *Value tree for inspection:
//
//	v, err := phplit.ParseString(`["foo" => true, "nested" => ["bar" => 42]]`)
//	if err != nil {
//		log.Fatal(err)
//	}
//	n, _ := v.Index("nested").Index("bar").AsInt() // 42, true
//
// Unmarshal decodes directly into Go values using reflection, in the
// manner of encoding/json:
//
//	type Config struct {
//		Foo  bool    `phplit:"foo"`
//		Bars []uint8 `phplit:"bars"`
//	}
//
//	var cfg Config
//	err := phplit.Unmarshal([]byte(`["foo" => true, "bars" => [1, 2, 3]]`), &cfg)
//
// Struct fields are matched by `phplit` tag, then by field name, then
// case-insensitively. A field is required unless its type is a pointer
// or its tag carries ",optional"; a tag of "-" skips the field. Types
// can take over their own decoding by implementing Unmarshaler, and
// string values feed encoding.TextUnmarshaler implementations.
//
// Parsing and decoding never execute PHP code; the input is data, not a
// program.
package phplit

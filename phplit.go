package phplit

import (
	"fmt"
	"io"

	"github.com/KimNorgaard/go-phplit/internal/lexer"
)

// Parse parses a single PHP literal expression and returns its generic
// Value tree. A trailing semicolon after the top-level value is
// tolerated; any other trailing input is an error. On failure the
// returned error is a *ParseError carrying the error kind and the
// 1-based line and column of the offending input.
func Parse(data []byte, opts ...Option) (*Value, error) {
	o, err := applyOptions(opts)
	if err != nil {
		return nil, err
	}
	return parseWith(data, o)
}

// ParseString is like Parse but reads from a string.
func ParseString(src string, opts ...Option) (*Value, error) {
	return Parse([]byte(src), opts...)
}

func parseWith(data []byte, o *options) (*Value, error) {
	p := newParser(lexer.New(data), o.maxDepth)
	return p.parseDocument()
}

// Unmarshal parses the PHP literal in data and stores the result in the
// value pointed to by v. It is shorthand for Parse followed by Decode.
//
// v must be a non-nil pointer. Strings decode into strings, booleans
// into bools, integers into any Go integer or float type that can hold
// the value, and floats into floats only. Arrays decode into slices
// (when their keys form the sequence 0..n-1), maps, or structs. Struct
// fields match array keys by `phplit` tag, then field name, then
// case-insensitively.
func Unmarshal(data []byte, v any, opts ...Option) error {
	o, err := applyOptions(opts)
	if err != nil {
		return err
	}
	val, err := parseWith(data, o)
	if err != nil {
		return err
	}
	return decodeValue(val, v, o)
}

// Decode decodes the value tree into the Go value pointed to by out,
// under the same rules as Unmarshal.
func (v *Value) Decode(out any, opts ...Option) error {
	o, err := applyOptions(opts)
	if err != nil {
		return err
	}
	return decodeValue(v, out, o)
}

// A Decoder reads a PHP literal from an input stream and decodes it
// into a Go value.
type Decoder struct {
	r    io.Reader
	opts []Option
}

// NewDecoder returns a new Decoder reading from r.
func NewDecoder(r io.Reader, opts ...Option) *Decoder {
	return &Decoder{r: r, opts: opts}
}

// Decode reads the remainder of the input and decodes the PHP literal
// it contains into the value pointed to by v. A PHP literal has no
// self-delimiting framing, so Decode consumes the whole stream rather
// than reading incrementally.
func (d *Decoder) Decode(v any) error {
	if d.r == nil {
		return fmt.Errorf("phplit: Decode(nil reader)")
	}
	data, err := io.ReadAll(d.r)
	if err != nil {
		return fmt.Errorf("phplit: reading input: %w", err)
	}
	return Unmarshal(data, v, d.opts...)
}

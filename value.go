package phplit

import (
	"strconv"
	"strings"
)

// Kind identifies the variant held by a Value.
type Kind int

const (
	KindNull Kind = iota
	KindBool
	KindInt
	KindFloat
	KindString
	KindArray
)

// String returns the PHP-facing name of the kind.
func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindString:
		return "string"
	case KindArray:
		return "array"
	}
	return "unknown"
}

// Value is the generic representation of a parsed PHP literal: null, a
// bool, an int, a float, a string, or an associative array. A Value tree
// is immutable once parsing completes and is safe to share between
// goroutines.
type Value struct {
	kind Kind
	b    bool
	i    int64
	f    float64
	s    string
	arr  *arrayData
}

// nullValue is the sentinel returned by Index on a miss, so lookups chain
// without nil checks: v.Index("nested").Index("foo").
var nullValue = &Value{kind: KindNull}

// NullValue returns the null Value.
func NullValue() *Value { return nullValue }

// BoolValue returns a boolean Value.
func BoolValue(b bool) *Value { return &Value{kind: KindBool, b: b} }

// IntValue returns an integer Value.
func IntValue(i int64) *Value { return &Value{kind: KindInt, i: i} }

// FloatValue returns a float Value.
func FloatValue(f float64) *Value { return &Value{kind: KindFloat, f: f} }

// StringValue returns a string Value.
func StringValue(s string) *Value { return &Value{kind: KindString, s: s} }

// ArrayValue builds an array Value from entries, applying PHP assignment
// semantics: a duplicate key overwrites the earlier value but keeps the
// earlier entry's position.
func ArrayValue(entries ...Entry) *Value {
	arr := newArrayData()
	for _, e := range entries {
		arr.set(e.Key, e.Value)
	}
	return &Value{kind: KindArray, arr: arr}
}

// Kind returns the variant held by the value.
func (v *Value) Kind() Kind { return v.kind }

// IsNull reports whether the value is null.
func (v *Value) IsNull() bool { return v.kind == KindNull }

// IsBool reports whether the value is a bool.
func (v *Value) IsBool() bool { return v.kind == KindBool }

// IsInt reports whether the value is an integer.
func (v *Value) IsInt() bool { return v.kind == KindInt }

// IsFloat reports whether the value is a float.
func (v *Value) IsFloat() bool { return v.kind == KindFloat }

// IsString reports whether the value is a string.
func (v *Value) IsString() bool { return v.kind == KindString }

// IsArray reports whether the value is an array.
func (v *Value) IsArray() bool { return v.kind == KindArray }

// AsBool returns the boolean payload, if the value is a bool.
func (v *Value) AsBool() (bool, bool) { return v.b, v.kind == KindBool }

// AsInt returns the integer payload, if the value is an int.
func (v *Value) AsInt() (int64, bool) { return v.i, v.kind == KindInt }

// AsFloat returns the float payload, if the value is a float.
func (v *Value) AsFloat() (float64, bool) { return v.f, v.kind == KindFloat }

// AsString returns the string payload, if the value is a string.
func (v *Value) AsString() (string, bool) { return v.s, v.kind == KindString }

// Len returns the number of entries if the value is an array, 0 otherwise.
func (v *Value) Len() int {
	if v.kind != KindArray {
		return 0
	}
	return len(v.arr.entries)
}

// Entries returns the array's entries in insertion order. The returned
// slice is a copy; the tree itself stays immutable.
func (v *Value) Entries() []Entry {
	if v.kind != KindArray {
		return nil
	}
	entries := make([]Entry, len(v.arr.entries))
	copy(entries, v.arr.entries)
	return entries
}

// Get looks up an array entry by key. The key may be a Key, string, int,
// or int64. It returns false if the value is not an array or the key is
// absent.
func (v *Value) Get(key any) (*Value, bool) {
	k, ok := normalizeKey(key)
	if !ok || v.kind != KindArray {
		return nil, false
	}
	idx, ok := v.arr.index[k]
	if !ok {
		return nil, false
	}
	return v.arr.entries[idx].Value, true
}

// Index looks up an array entry by key and returns the null Value when
// the receiver is not an array or the key is absent, so lookups can be
// chained: v.Index("nested").Index("foo").
func (v *Value) Index(key any) *Value {
	if res, ok := v.Get(key); ok {
		return res
	}
	return nullValue
}

// Equal reports deep equality of two value trees. Arrays compare entry by
// entry in insertion order, so two arrays with the same pairs in a
// different order are not equal.
func (v *Value) Equal(other *Value) bool {
	if v == nil || other == nil {
		return v == other
	}
	if v.kind != other.kind {
		return false
	}
	switch v.kind {
	case KindNull:
		return true
	case KindBool:
		return v.b == other.b
	case KindInt:
		return v.i == other.i
	case KindFloat:
		return v.f == other.f
	case KindString:
		return v.s == other.s
	case KindArray:
		if len(v.arr.entries) != len(other.arr.entries) {
			return false
		}
		for i, e := range v.arr.entries {
			oe := other.arr.entries[i]
			if e.Key != oe.Key || !e.Value.Equal(oe.Value) {
				return false
			}
		}
		return true
	}
	return false
}

// Is compares the value against a native Go scalar for ergonomic
// assertions: bool, int, int64, float64, or string. Any other argument
// type, or a kind mismatch, reports false.
func (v *Value) Is(want any) bool {
	switch w := want.(type) {
	case bool:
		return v.kind == KindBool && v.b == w
	case int:
		return v.kind == KindInt && v.i == int64(w)
	case int64:
		return v.kind == KindInt && v.i == w
	case float64:
		return v.kind == KindFloat && v.f == w
	case string:
		return v.kind == KindString && v.s == w
	case nil:
		return v.kind == KindNull
	}
	return false
}

// String renders the value for display. Array entries appear one per
// line in insertion order.
func (v *Value) String() string {
	switch v.kind {
	case KindNull:
		return "null"
	case KindBool:
		return strconv.FormatBool(v.b)
	case KindInt:
		return strconv.FormatInt(v.i, 10)
	case KindFloat:
		return strconv.FormatFloat(v.f, 'g', -1, 64)
	case KindString:
		return v.s
	case KindArray:
		var sb strings.Builder
		sb.WriteString("[\n")
		for _, e := range v.arr.entries {
			sb.WriteByte('\t')
			sb.WriteString(e.Key.String())
			sb.WriteString(" => ")
			sb.WriteString(e.Value.String())
			sb.WriteString(",\n")
		}
		sb.WriteByte(']')
		return sb.String()
	}
	return ""
}

// Key is an array key: an integer or a string, per PHP array semantics.
// Keys are comparable and can be used as Go map keys.
type Key struct {
	kind Kind // KindInt or KindString
	i    int64
	s    string
}

// IntKey returns an integer array key.
func IntKey(i int64) Key { return Key{kind: KindInt, i: i} }

// StringKey returns a string array key.
func StringKey(s string) Key { return Key{kind: KindString, s: s} }

// IsInt reports whether the key is an integer.
func (k Key) IsInt() bool { return k.kind == KindInt }

// IsString reports whether the key is a string.
func (k Key) IsString() bool { return k.kind == KindString }

// Int returns the integer payload, if the key is an integer.
func (k Key) Int() (int64, bool) { return k.i, k.kind == KindInt }

// Str returns the string payload, if the key is a string.
func (k Key) Str() (string, bool) { return k.s, k.kind == KindString }

// String renders the key for display: integer keys in decimal, string
// keys verbatim.
func (k Key) String() string {
	if k.kind == KindInt {
		return strconv.FormatInt(k.i, 10)
	}
	return k.s
}

// Entry is a single key-value pair of an array Value.
type Entry struct {
	Key   Key
	Value *Value
}

// arrayData is the ordered backing store of an array Value: entries in
// insertion order plus a key index for O(1) lookup.
type arrayData struct {
	entries []Entry
	index   map[Key]int
	maxKey  int64
	hasMax  bool
}

func newArrayData() *arrayData {
	return &arrayData{index: make(map[Key]int)}
}

// set inserts or overwrites a pair. Overwriting keeps the original
// entry's position, and any integer key raises the auto-increment
// watermark, both matching PHP assignment semantics.
func (a *arrayData) set(k Key, v *Value) {
	if i, ok := k.Int(); ok && (!a.hasMax || i > a.maxKey) {
		a.maxKey = i
		a.hasMax = true
	}
	if idx, ok := a.index[k]; ok {
		a.entries[idx].Value = v
		return
	}
	a.index[k] = len(a.entries)
	a.entries = append(a.entries, Entry{Key: k, Value: v})
}

// push appends a value under the next auto-increment key: one greater
// than the highest integer key seen so far, 0 if none.
func (a *arrayData) push(v *Value) {
	next := int64(0)
	if a.hasMax {
		next = a.maxKey + 1
	}
	a.set(IntKey(next), v)
}

// isList reports whether the entries form the contiguous integer run
// 0..n-1 in insertion order.
func (a *arrayData) isList() bool {
	for idx, e := range a.entries {
		if e.Key != IntKey(int64(idx)) {
			return false
		}
	}
	return true
}

func normalizeKey(key any) (Key, bool) {
	switch k := key.(type) {
	case Key:
		return k, true
	case string:
		return StringKey(k), true
	case int:
		return IntKey(int64(k)), true
	case int64:
		return IntKey(k), true
	}
	return Key{}, false
}

// keyOf coerces a scalar Value to an array key the way PHP does: floats
// truncate toward zero, true and false become 1 and 0, null becomes the
// empty string, and a string holding a canonical decimal integer becomes
// that integer. Arrays are not valid keys.
func keyOf(v *Value) (Key, bool) {
	switch v.kind {
	case KindInt:
		return IntKey(v.i), true
	case KindFloat:
		return IntKey(int64(v.f)), true
	case KindBool:
		if v.b {
			return IntKey(1), true
		}
		return IntKey(0), true
	case KindNull:
		return StringKey(""), true
	case KindString:
		if n, ok := canonicalInt(v.s); ok {
			return IntKey(n), true
		}
		return StringKey(v.s), true
	}
	return Key{}, false
}

// canonicalInt reports whether s is the canonical decimal rendering of an
// int64 ("1", "-3", but not "01", "1.0" or "+1").
func canonicalInt(s string) (int64, bool) {
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil || strconv.FormatInt(n, 10) != s {
		return 0, false
	}
	return n, true
}

package phplit

import (
	"encoding"
	"fmt"
	"reflect"
	"strings"
	"sync"
)

// Unmarshaler is the interface implemented by types that can decode a
// parsed Value themselves. The decoder calls UnmarshalPHP whenever the
// destination, or a pointer to it, implements the interface.
type Unmarshaler interface {
	UnmarshalPHP(v *Value) error
}

type decodeState struct {
	opts  *options
	depth int
}

func decodeValue(val *Value, out any, o *options) error {
	rv := reflect.ValueOf(out)
	if rv.Kind() != reflect.Pointer || rv.IsNil() {
		return fmt.Errorf("phplit: Unmarshal(non-pointer %T or nil)", out)
	}
	ds := &decodeState{opts: o, depth: o.maxDepth}
	return ds.mapValue(val, rv.Elem(), "")
}

// mapValue decodes a single Value node into rv, recursing through the
// tree. path names rv's location within the destination for error
// reporting, e.g. "bars[2]" or "nested.foo".
func (ds *decodeState) mapValue(val *Value, rv reflect.Value, path string) error {
	ds.depth--
	if ds.depth <= 0 {
		return ds.errorf(path, "reached max recursion depth")
	}
	defer func() { ds.depth++ }()

	// Null zeroes any nil-able destination without consulting custom
	// unmarshalers, matching encoding/json.
	if val.IsNull() {
		switch rv.Kind() {
		case reflect.Interface, reflect.Pointer, reflect.Map, reflect.Slice:
			rv.Set(reflect.Zero(rv.Type()))
			return nil
		}
	}

	handled, err := ds.tryCustomUnmarshal(val, rv, path)
	if err != nil {
		return err
	}
	if handled {
		return nil
	}

	for rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			rv.Set(reflect.New(rv.Type().Elem()))
		}
		rv = rv.Elem()
		handled, err := ds.tryCustomUnmarshal(val, rv, path)
		if err != nil {
			return err
		}
		if handled {
			return nil
		}
	}

	if rv.Kind() == reflect.Interface {
		return ds.mapInterface(val, rv, path)
	}
	if !rv.CanSet() {
		return ds.errorf(path, "cannot set value of type %s", rv.Type())
	}

	switch val.Kind() {
	case KindNull:
		return ds.errorf(path, "cannot unmarshal null into Go value of type %s", rv.Type())
	case KindBool:
		if rv.Kind() != reflect.Bool {
			return ds.errorf(path, "cannot unmarshal bool into Go value of type %s", rv.Type())
		}
		rv.SetBool(val.b)
		return nil
	case KindInt:
		return ds.mapInt(val.i, rv, path)
	case KindFloat:
		return ds.mapFloat(val.f, rv, path)
	case KindString:
		if rv.Kind() != reflect.String {
			return ds.errorf(path, "cannot unmarshal string into Go value of type %s", rv.Type())
		}
		rv.SetString(val.s)
		return nil
	case KindArray:
		switch rv.Kind() {
		case reflect.Slice:
			return ds.mapSlice(val, rv, path)
		case reflect.Array:
			return ds.mapFixedArray(val, rv, path)
		case reflect.Map:
			return ds.mapMap(val, rv, path)
		case reflect.Struct:
			return ds.mapStruct(val, rv, path)
		default:
			return ds.errorf(path, "cannot unmarshal array into Go value of type %s", rv.Type())
		}
	}
	return ds.errorf(path, "unsupported value kind %s", val.Kind())
}

// tryCustomUnmarshal checks whether a pointer to rv implements
// Unmarshaler or encoding.TextUnmarshaler and delegates to it if so.
func (ds *decodeState) tryCustomUnmarshal(val *Value, rv reflect.Value, path string) (bool, error) {
	if !rv.CanAddr() {
		return false, nil
	}
	pv := rv.Addr()
	if !pv.CanInterface() {
		return false, nil
	}

	if u, ok := pv.Interface().(Unmarshaler); ok {
		if err := u.UnmarshalPHP(val); err != nil {
			return true, &UnmarshalerError{Type: pv.Type(), Err: err}
		}
		return true, nil
	}

	if u, ok := pv.Interface().(encoding.TextUnmarshaler); ok {
		s, isString := val.AsString()
		if !isString {
			return false, nil
		}
		if err := u.UnmarshalText([]byte(s)); err != nil {
			return true, &UnmarshalerError{Type: pv.Type(), Err: err}
		}
		return true, nil
	}

	return false, nil
}

// mapInt decodes an integer Value. Integers widen into float targets,
// but a float Value never narrows into an integer target; see mapFloat.
func (ds *decodeState) mapInt(i int64, rv reflect.Value, path string) error {
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		if rv.OverflowInt(i) {
			return ds.errorf(path, "integer value %d overflows Go value of type %s", i, rv.Type())
		}
		rv.SetInt(i)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		if i < 0 {
			return ds.errorf(path, "cannot unmarshal negative integer %d into Go value of type %s", i, rv.Type())
		}
		if rv.OverflowUint(uint64(i)) {
			return ds.errorf(path, "integer value %d overflows Go value of type %s", i, rv.Type())
		}
		rv.SetUint(uint64(i))
	case reflect.Float32, reflect.Float64:
		rv.SetFloat(float64(i))
	default:
		return ds.errorf(path, "cannot unmarshal integer into Go value of type %s", rv.Type())
	}
	return nil
}

func (ds *decodeState) mapFloat(f float64, rv reflect.Value, path string) error {
	switch rv.Kind() {
	case reflect.Float32, reflect.Float64:
		if rv.OverflowFloat(f) {
			return ds.errorf(path, "float value %g overflows Go value of type %s", f, rv.Type())
		}
		rv.SetFloat(f)
	default:
		return ds.errorf(path, "cannot unmarshal float into Go value of type %s", rv.Type())
	}
	return nil
}

// mapSlice decodes an array Value into a slice. The array must be a
// sequence: integer keys 0..n-1 in insertion order.
func (ds *decodeState) mapSlice(val *Value, rv reflect.Value, path string) error {
	if !val.arr.isList() {
		return ds.errorf(path, "cannot unmarshal non-sequential array into Go value of type %s", rv.Type())
	}
	entries := val.arr.entries
	newSlice := reflect.MakeSlice(rv.Type(), len(entries), len(entries))
	for i, e := range entries {
		if err := ds.mapValue(e.Value, newSlice.Index(i), elemPath(path, i)); err != nil {
			return err
		}
	}
	rv.Set(newSlice)
	return nil
}

func (ds *decodeState) mapFixedArray(val *Value, rv reflect.Value, path string) error {
	if !val.arr.isList() {
		return ds.errorf(path, "cannot unmarshal non-sequential array into Go value of type %s", rv.Type())
	}
	entries := val.arr.entries
	if len(entries) != rv.Len() {
		return ds.errorf(path, "array length mismatch: got %d elements, want %d for %s", len(entries), rv.Len(), rv.Type())
	}
	for i, e := range entries {
		if err := ds.mapValue(e.Value, rv.Index(i), elemPath(path, i)); err != nil {
			return err
		}
	}
	return nil
}

// mapMap decodes an array Value into a map with string or integer keys.
// For string-keyed maps, integer array keys decode as their decimal
// rendering.
func (ds *decodeState) mapMap(val *Value, rv reflect.Value, path string) error {
	mapType := rv.Type()
	keyType := mapType.Key()
	keyKind := keyType.Kind()
	switch {
	case keyKind == reflect.String:
	case keyKind >= reflect.Int && keyKind <= reflect.Int64:
	case keyKind >= reflect.Uint && keyKind <= reflect.Uint64:
	default:
		return ds.errorf(path, "cannot unmarshal array into map with key type %s", keyType)
	}

	if rv.IsNil() {
		rv.Set(reflect.MakeMapWithSize(mapType, val.Len()))
	} else {
		for _, k := range rv.MapKeys() {
			rv.SetMapIndex(k, reflect.Value{}) // the zero Value deletes the key
		}
	}

	elemType := mapType.Elem()
	for _, e := range val.arr.entries {
		mk := reflect.New(keyType).Elem()
		switch {
		case keyKind == reflect.String:
			mk.SetString(e.Key.String())
		default:
			i, ok := e.Key.Int()
			if !ok {
				return ds.errorf(path, "cannot unmarshal string key %q into map with key type %s", e.Key.String(), keyType)
			}
			if keyKind >= reflect.Uint && keyKind <= reflect.Uint64 {
				if i < 0 {
					return ds.errorf(path, "cannot unmarshal negative key %d into map with key type %s", i, keyType)
				}
				if mk.OverflowUint(uint64(i)) {
					return ds.errorf(path, "integer key %d overflows map key type %s", i, keyType)
				}
				mk.SetUint(uint64(i))
			} else {
				if mk.OverflowInt(i) {
					return ds.errorf(path, "integer key %d overflows map key type %s", i, keyType)
				}
				mk.SetInt(i)
			}
		}
		newVal := reflect.New(elemType).Elem()
		if err := ds.mapValue(e.Value, newVal, fieldPath(path, e.Key.String())); err != nil {
			return err
		}
		rv.SetMapIndex(mk, newVal)
	}
	return nil
}

func (ds *decodeState) mapStruct(val *Value, rv reflect.Value, path string) error {
	fields := cachedFields(rv.Type())
	seen := make([]bool, len(fields.list))
	for _, e := range val.arr.entries {
		keyStr := e.Key.String()
		idx, ok := fields.find(keyStr)
		if !ok {
			if ds.opts.disallowUnknown {
				return ds.errorf(path, "unknown field %q in %s", keyStr, rv.Type())
			}
			continue
		}
		f := &fields.list[idx]
		fieldVal := rv.FieldByIndex(f.idx)
		if err := ds.mapValue(e.Value, fieldVal, fieldPath(path, keyStr)); err != nil {
			return err
		}
		seen[idx] = true
	}
	for i := range fields.list {
		f := &fields.list[i]
		if !seen[i] && !f.optional {
			return ds.errorf(path, "missing required field %q in %s", f.name, rv.Type())
		}
	}
	return nil
}

// mapInterface materializes a Value into an empty interface: bool,
// int64, float64, string, []any for sequences, or map[string]any for
// other arrays.
func (ds *decodeState) mapInterface(val *Value, rv reflect.Value, path string) error {
	if rv.NumMethod() != 0 {
		return ds.errorf(path, "cannot unmarshal into non-empty interface %s", rv.Type())
	}
	var concrete reflect.Value
	switch val.Kind() {
	case KindNull:
		rv.Set(reflect.Zero(rv.Type()))
		return nil
	case KindBool:
		var b bool
		concrete = reflect.ValueOf(&b).Elem()
	case KindInt:
		var i int64
		concrete = reflect.ValueOf(&i).Elem()
	case KindFloat:
		var f float64
		concrete = reflect.ValueOf(&f).Elem()
	case KindString:
		var s string
		concrete = reflect.ValueOf(&s).Elem()
	case KindArray:
		if val.arr.isList() {
			var a []any
			concrete = reflect.ValueOf(&a).Elem()
		} else {
			var m map[string]any
			concrete = reflect.ValueOf(&m).Elem()
		}
	default:
		return ds.errorf(path, "unsupported value kind %s", val.Kind())
	}
	if err := ds.mapValue(val, concrete, path); err != nil {
		return err
	}
	rv.Set(concrete)
	return nil
}

func (ds *decodeState) errorf(path, format string, args ...any) error {
	return &DecodeError{Path: path, Message: fmt.Sprintf(format, args...)}
}

func fieldPath(path, name string) string {
	if path == "" {
		return name
	}
	return path + "." + name
}

func elemPath(path string, i int) string {
	return fmt.Sprintf("%s[%d]", path, i)
}

// field describes one decodable struct field.
type field struct {
	name     string
	idx      []int
	optional bool
}

type structFields struct {
	list   []field
	byName map[string]int
	byFold map[string]int // lowercased fallback for case-insensitive matches
}

// find resolves an array key to a field index: exact match first, then
// case-insensitive.
func (sf *structFields) find(name string) (int, bool) {
	if i, ok := sf.byName[name]; ok {
		return i, true
	}
	i, ok := sf.byFold[strings.ToLower(name)]
	return i, ok
}

// fieldCache caches the decodable fields per struct type, so reflection
// over tags runs once per type. Maps reflect.Type to *structFields.
var fieldCache sync.Map

func cachedFields(t reflect.Type) *structFields {
	if f, ok := fieldCache.Load(t); ok {
		return f.(*structFields)
	}
	sf := &structFields{byName: make(map[string]int), byFold: make(map[string]int)}
	collectFields(t, nil, sf)
	fieldCache.Store(t, sf)
	return sf
}

// collectFields walks t's fields, flattening embedded structs, and
// appends the decodable ones to sf. A field is optional when its type is
// a pointer or its tag carries ",optional"; optional fields may be
// absent from the input without error.
func collectFields(t reflect.Type, parentIdx []int, sf *structFields) {
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		idx := make([]int, 0, len(parentIdx)+1)
		idx = append(idx, parentIdx...)
		idx = append(idx, i)

		if f.Anonymous && f.Type.Kind() == reflect.Struct && f.Tag.Get("phplit") == "" {
			collectFields(f.Type, idx, sf)
			continue
		}
		if !f.IsExported() {
			continue
		}
		tag := f.Tag.Get("phplit")
		if tag == "-" {
			continue
		}
		name, rest, _ := strings.Cut(tag, ",")
		fl := field{name: f.Name, idx: idx}
		if name != "" {
			fl.name = name
		}
		if f.Type.Kind() == reflect.Pointer {
			fl.optional = true
		}
		for rest != "" {
			var opt string
			opt, rest, _ = strings.Cut(rest, ",")
			if opt == "optional" {
				fl.optional = true
			}
		}

		pos := len(sf.list)
		sf.list = append(sf.list, fl)
		if _, ok := sf.byName[fl.name]; !ok {
			sf.byName[fl.name] = pos
		}
		lower := strings.ToLower(fl.name)
		if _, ok := sf.byFold[lower]; !ok {
			sf.byFold[lower] = pos
		}
	}
}

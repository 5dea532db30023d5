package phplit_test

import (
	"testing"

	"github.com/KimNorgaard/go-phplit"
	"github.com/stretchr/testify/require"
)

func TestValueIndexChaining(t *testing.T) {
	v, err := phplit.ParseString(`["foo" => true, "nested" => ["foo" => false, "n" => 42]]`)
	require.NoError(t, err)

	require.True(t, v.Index("foo").Is(true))
	require.True(t, v.Index("nested").Index("foo").Is(false))
	require.True(t, v.Index("nested").Index("n").Is(42))

	// Misses anywhere along the chain yield null instead of panicking.
	require.True(t, v.Index("missing").IsNull())
	require.True(t, v.Index("missing").Index("deeper").IsNull())
	require.True(t, v.Index("foo").Index("not-an-array").IsNull())
}

func TestValueGet(t *testing.T) {
	v, err := phplit.ParseString(`["a" => 1, 5 => "x", "b"]`)
	require.NoError(t, err)

	got, ok := v.Get("a")
	require.True(t, ok)
	require.True(t, got.Is(1))

	got, ok = v.Get(5)
	require.True(t, ok)
	require.True(t, got.Is("x"))

	// The auto key after 5 is 6.
	got, ok = v.Get(phplit.IntKey(6))
	require.True(t, ok)
	require.True(t, got.Is("b"))

	_, ok = v.Get("missing")
	require.False(t, ok)

	// The string "5" and the int 5 are different lookups; parsing
	// coerced the key to an integer.
	_, ok = v.Get("5")
	require.False(t, ok)

	_, ok = phplit.IntValue(1).Get("a")
	require.False(t, ok)
}

func TestValueEntries(t *testing.T) {
	v, err := phplit.ParseString(`["b" => 2, "a" => 1, 7 => null]`)
	require.NoError(t, err)

	entries := v.Entries()
	require.Len(t, entries, 3)
	require.Equal(t, phplit.StringKey("b"), entries[0].Key)
	require.Equal(t, phplit.StringKey("a"), entries[1].Key)
	require.Equal(t, phplit.IntKey(7), entries[2].Key)
	require.True(t, entries[2].Value.IsNull())

	require.Nil(t, phplit.BoolValue(true).Entries())
}

func TestValueAccessors(t *testing.T) {
	i, ok := phplit.IntValue(42).AsInt()
	require.True(t, ok)
	require.Equal(t, int64(42), i)

	_, ok = phplit.IntValue(42).AsString()
	require.False(t, ok)

	s, ok := phplit.StringValue("hi").AsString()
	require.True(t, ok)
	require.Equal(t, "hi", s)

	f, ok := phplit.FloatValue(1.5).AsFloat()
	require.True(t, ok)
	require.Equal(t, 1.5, f)

	b, ok := phplit.BoolValue(true).AsBool()
	require.True(t, ok)
	require.True(t, b)

	require.Equal(t, phplit.KindNull, phplit.NullValue().Kind())
	require.Equal(t, "array", phplit.KindArray.String())
}

func TestValueEqualOrderSensitive(t *testing.T) {
	a, err := phplit.ParseString(`["a" => 1, "b" => 2]`)
	require.NoError(t, err)
	b, err := phplit.ParseString(`["b" => 2, "a" => 1]`)
	require.NoError(t, err)
	c, err := phplit.ParseString(`["a" => 1, "b" => 2]`)
	require.NoError(t, err)

	require.False(t, a.Equal(b))
	require.True(t, a.Equal(c))
	require.False(t, a.Equal(phplit.IntValue(1)))
}

func TestValueString(t *testing.T) {
	v, err := phplit.ParseString(`[5 => "a", "b"]`)
	require.NoError(t, err)
	require.Equal(t, "[\n\t5 => a,\n\t6 => b,\n]", v.String())

	require.Equal(t, "null", phplit.NullValue().String())
	require.Equal(t, "true", phplit.BoolValue(true).String())
	require.Equal(t, "-3", phplit.IntValue(-3).String())
	require.Equal(t, "1.5", phplit.FloatValue(1.5).String())
}

func TestKey(t *testing.T) {
	k := phplit.IntKey(7)
	require.True(t, k.IsInt())
	require.False(t, k.IsString())
	i, ok := k.Int()
	require.True(t, ok)
	require.Equal(t, int64(7), i)
	require.Equal(t, "7", k.String())

	s := phplit.StringKey("x")
	require.True(t, s.IsString())
	str, ok := s.Str()
	require.True(t, ok)
	require.Equal(t, "x", str)
	require.Equal(t, "x", s.String())

	// Keys are comparable, so they work as map keys.
	m := map[phplit.Key]int{k: 1, s: 2}
	require.Equal(t, 1, m[phplit.IntKey(7)])
	require.Equal(t, 2, m[phplit.StringKey("x")])
}

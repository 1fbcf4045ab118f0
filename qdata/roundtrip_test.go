package qdata

import (
	"bytes"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memBuf is a minimal in-memory stand-in for block.Writer/block.Reader,
// letting these tests exercise the header/worklist logic in isolation
// from block framing and compression (covered separately in package
// block).
type memBuf struct {
	bytes.Buffer
}

func (b *memBuf) WriteValue(p []byte) error {
	_, err := b.Write(p)

	return err
}

func roundTrip(t *testing.T, v Value) Value {
	t.Helper()

	buf := &memBuf{}
	s := NewSerializer(buf, SerializeOptions{})
	require.NoError(t, s.Serialize(v))

	d := NewDeserializer(buf, DeserializeOptions{})
	got, err := d.Deserialize()
	require.NoError(t, err)

	return got
}

func TestSerializer_NumericVectorWithClassAttribute(t *testing.T) {
	v := NewNumeric([]float64{1.5, -2.0, math.NaN()})
	v.SetAttr("class", NewCharacter([]String{{S: "X"}}))

	got := roundTrip(t, v)

	require.Equal(t, KindNumeric, got.Kind())
	assert.True(t, got.IsObject())
	require.Len(t, got.Attributes(), 1)
	assert.Equal(t, "class", got.Attributes()[0].Name)
	assert.Equal(t, []float64{1.5, -2.0}, got.Numeric()[:2])
	assert.True(t, math.IsNaN(got.Numeric()[2]))
}

func TestSerializer_MissingStringSentinel(t *testing.T) {
	v := NewCharacter([]String{{NA: true}})

	got := roundTrip(t, v)

	require.Equal(t, KindCharacter, got.Kind())
	require.Len(t, got.Character(), 1)
	assert.True(t, got.Character()[0].NA)
}

func TestSerializer_BlankStringDistinctFromMissing(t *testing.T) {
	v := NewCharacter([]String{{S: ""}, {NA: true}, {S: "hi"}})

	got := roundTrip(t, v)

	require.Len(t, got.Character(), 3)
	assert.False(t, got.Character()[0].NA)
	assert.Equal(t, "", got.Character()[0].S)
	assert.True(t, got.Character()[1].NA)
	assert.Equal(t, "hi", got.Character()[2].S)
}

func TestSerializer_NestedList(t *testing.T) {
	inner := NewInteger([]int32{1, 2, 3})
	inner.SetAttr("names", NewCharacter([]String{{S: "a"}, {S: "b"}, {S: "c"}}))
	v := NewList([]Value{inner, NewLogical([]int32{1, 0, NAInt32}), NewNil()})

	got := roundTrip(t, v)

	require.Equal(t, KindList, got.Kind())
	require.Len(t, got.List(), 3)
	assert.Equal(t, []int32{1, 2, 3}, got.List()[0].Integer())
	require.Len(t, got.List()[0].Attributes(), 1)
	assert.Equal(t, []int32{1, 0, NAInt32}, got.List()[1].Logical())
	assert.Equal(t, KindNil, got.List()[2].Kind())
}

func TestSerializer_ComplexAndRaw(t *testing.T) {
	v := NewList([]Value{
		NewComplex([]complex128{complex(1, 2), complex(-3.5, 0)}),
		NewRaw([]byte{0x00, 0xFF, 0x10, 0x20}),
	})

	got := roundTrip(t, v)

	assert.Equal(t, []complex128{complex(1, 2), complex(-3.5, 0)}, got.List()[0].Complex())
	assert.Equal(t, []byte{0x00, 0xFF, 0x10, 0x20}, got.List()[1].Raw())
}

func TestSerializer_LongFormHeaderWidths(t *testing.T) {
	// 300 elements forces the 16-bit long-form header (exceeds the 5-bit
	// short-form's 0..31 range and the 8-bit range).
	data := make([]int32, 300)
	for i := range data {
		data[i] = int32(i)
	}
	v := NewInteger(data)

	got := roundTrip(t, v)

	assert.Equal(t, data, got.Integer())
}

func TestSerializer_DropsUnsupportedAttributeType(t *testing.T) {
	v := NewNumeric([]float64{1})
	// KindAttribute is never a legal attribute value; exercise the
	// drop-with-warning path directly.
	v.attrs = append(v.attrs, Attribute{Name: "bogus", Value: Value{kind: KindAttribute}})

	var warned []string
	buf := &memBuf{}
	s := NewSerializer(buf, SerializeOptions{
		WarnUnsupportedTypes: true,
		Warnf:                func(format string, args ...any) { warned = append(warned, format) },
	})
	require.NoError(t, s.Serialize(v))
	assert.Len(t, warned, 1)

	d := NewDeserializer(buf, DeserializeOptions{})
	got, err := d.Deserialize()
	require.NoError(t, err)
	assert.Empty(t, got.Attributes())
}

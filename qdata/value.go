package qdata

import "math"

// NAInt32 is the sentinel carried in a LOGICAL or INTEGER element to mark
// it missing, matching the host object model's missing-integer
// representation (qd_constants.h has no separate constant for this since
// the host runtime's own NA_INTEGER is reused as-is).
const NAInt32 = int32(math.MinInt32)

// String is one CHARACTER element: either a UTF-8 string, the empty
// string, or the missing-string sentinel (spec.md §3.3/§6).
type String struct {
	NA bool
	S  string
}

// Attribute is a named side-value attached to a Value, in declaration
// order. Setting an attribute named "class" with a non-empty string value
// also sets the target Value's Object flag (spec.md §3.3).
type Attribute struct {
	Name  string
	Value Value
}

// Value is the in-memory stand-in for the host object model's tagged
// values: the tree qdata serializes to and deserializes from. Exactly one
// of the typed slices below is meaningful, selected by Kind.
type Value struct {
	kind   Kind
	object bool
	attrs  []Attribute

	logical     []int32
	integer     []int32
	numeric     []float64
	complex128s []complex128
	character   []String
	list        []Value
	raw         []byte
}

func NewNil() Value { return Value{kind: KindNil} }

func NewLogical(v []int32) Value { return Value{kind: KindLogical, logical: v} }

func NewInteger(v []int32) Value { return Value{kind: KindInteger, integer: v} }

func NewNumeric(v []float64) Value { return Value{kind: KindNumeric, numeric: v} }

func NewComplex(v []complex128) Value { return Value{kind: KindComplex, complex128s: v} }

func NewCharacter(v []String) Value { return Value{kind: KindCharacter, character: v} }

func NewList(v []Value) Value { return Value{kind: KindList, list: v} }

func NewRaw(v []byte) Value { return Value{kind: KindRaw, raw: v} }

// Kind reports the value's logical type.
func (v Value) Kind() Kind { return v.kind }

// IsObject reports whether the "class" attribute has been set on this
// value (spec.md §3.3's sole semantic attribute).
func (v Value) IsObject() bool { return v.object }

// Attributes returns the value's attributes in declaration order.
func (v Value) Attributes() []Attribute { return v.attrs }

// Logical returns the backing slice for a KindLogical value.
func (v Value) Logical() []int32 { return v.logical }

// Integer returns the backing slice for a KindInteger value.
func (v Value) Integer() []int32 { return v.integer }

// Numeric returns the backing slice for a KindNumeric value.
func (v Value) Numeric() []float64 { return v.numeric }

// Complex returns the backing slice for a KindComplex value.
func (v Value) Complex() []complex128 { return v.complex128s }

// Character returns the backing slice for a KindCharacter value.
func (v Value) Character() []String { return v.character }

// List returns the backing slice for a KindList value.
func (v Value) List() []Value { return v.list }

// Raw returns the backing slice for a KindRaw value.
func (v Value) Raw() []byte { return v.raw }

// Len reports the element count of a bulk/list value, or 0 for Nil.
func (v Value) Len() int {
	switch v.kind {
	case KindLogical:
		return len(v.logical)
	case KindInteger:
		return len(v.integer)
	case KindNumeric:
		return len(v.numeric)
	case KindComplex:
		return len(v.complex128s)
	case KindCharacter:
		return len(v.character)
	case KindList:
		return len(v.list)
	case KindRaw:
		return len(v.raw)
	default:
		return 0
	}
}

// SetAttr appends an attribute, honoring the "class" special case that
// also sets the Object flag (spec.md §3.3). Attributes whose value type
// is unsupported by the format are the caller's responsibility to filter
// before calling SetAttr; the serializer itself drops them with a
// diagnostic, per Options.WarnUnsupportedTypes.
func (v *Value) SetAttr(name string, value Value) {
	v.attrs = append(v.attrs, Attribute{Name: name, Value: value})
	if name == "class" && value.kind == KindCharacter && len(value.character) >= 1 {
		v.object = true
	}
}

// supportsAttribute reports whether k is a legal attribute value type
// (spec.md §3.3's allow-list: LOGICAL, INTEGER, NUMERIC, COMPLEX,
// CHARACTER, LIST, RAW).
func supportsAttribute(k Kind) bool {
	switch k {
	case KindLogical, KindInteger, KindNumeric, KindComplex, KindCharacter, KindList, KindRaw:
		return true
	default:
		return false
	}
}

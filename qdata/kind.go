package qdata

// Kind identifies the logical type of a Value, mirroring qd_constants.h's
// qstype enum for introspection and diagnostics.
type Kind uint8

const (
	KindNil Kind = iota
	KindLogical
	KindInteger
	KindNumeric
	KindComplex
	KindCharacter
	KindList
	KindRaw
	// KindAttribute never appears on a materialized Value; it only labels
	// a header byte while the spine is being walked.
	KindAttribute Kind = 255
)

func (k Kind) String() string {
	switch k {
	case KindNil:
		return "Nil"
	case KindLogical:
		return "Logical"
	case KindInteger:
		return "Integer"
	case KindNumeric:
		return "Numeric"
	case KindComplex:
		return "Complex"
	case KindCharacter:
		return "Character"
	case KindList:
		return "List"
	case KindRaw:
		return "Raw"
	case KindAttribute:
		return "Attribute"
	default:
		return "Unknown"
	}
}

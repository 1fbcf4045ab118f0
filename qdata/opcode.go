package qdata

// Opcode values transcribed bit-exact from spec.md §6 / qd_constants.h,
// required for interop with any other implementation of the format.
const (
	opNil = 0x00

	opListBase8      = 0x01 // 0x01..0x04: 8/16/32/64-bit length
	opNumericBase8   = 0x05 // 0x05..0x08
	opIntegerBase8   = 0x09 // 0x09..0x0C
	opLogicalBase8   = 0x0D // 0x0D..0x10
	opCharacterBase8 = 0x11 // 0x11..0x14
	opComplex32      = 0x15
	opComplex64      = 0x16
	opRaw32          = 0x17
	opRaw64          = 0x18

	opAttribute8  = 0x1E
	opAttribute32 = 0x1F

	shortListBase      = 0x20
	shortNumericBase   = 0x40
	shortIntegerBase   = 0x60
	shortLogicalBase   = 0x80
	shortCharacterBase = 0xA0
	shortAttributeBase = 0xE0

	shortTypeMask = 0xE0
	shortLenMask  = 0x1F
	maxShortLen   = 32 // exclusive; lengths 0..31 fit the 5-bit field
)

// typeSpec names the long-form base opcode (covering the 8/16/32/64-bit
// widths as base+0/1/2/3) and the short-form base opcode (ORed with a
// 0..31 length) for one of the five types that support a 5-bit short form.
type typeSpec struct {
	shortBase uint8
	longBase8 uint8
}

var (
	listSpec      = typeSpec{shortListBase, opListBase8}
	numericSpec   = typeSpec{shortNumericBase, opNumericBase8}
	integerSpec   = typeSpec{shortIntegerBase, opIntegerBase8}
	logicalSpec   = typeSpec{shortLogicalBase, opLogicalBase8}
	characterSpec = typeSpec{shortCharacterBase, opCharacterBase8}
)

// encodeHeader picks the shortest header form for length and returns the
// opcode byte plus the width (in bytes: 0 for the short form, else
// 1/2/4/8) of the length field that must follow it.
func (ts typeSpec) encodeHeader(length uint64) (opcode uint8, widthBytes int) {
	if length < maxShortLen {
		return ts.shortBase | uint8(length), 0
	}

	switch {
	case length < 1<<8:
		return ts.longBase8, 1
	case length < 1<<16:
		return ts.longBase8 + 1, 2
	case length < 1<<32:
		return ts.longBase8 + 2, 4
	default:
		return ts.longBase8 + 3, 8
	}
}

// encodeWideHeader picks RAW/COMPLEX's narrower 32/64-bit-only form.
func encodeWideHeader(base32, base64 uint8, length uint64) (opcode uint8, widthBytes int) {
	if length < 1<<32 {
		return base32, 4
	}

	return base64, 8
}

// encodeAttributeHeader picks ATTRIBUTE's 5-bit/8-bit/32-bit form (no
// 16/64-bit variant exists for attribute counts).
func encodeAttributeHeader(count uint64) (opcode uint8, widthBytes int) {
	if count < maxShortLen {
		return shortAttributeBase | uint8(count), 0
	}
	if count < 1<<8 {
		return opAttribute8, 1
	}

	return opAttribute32, 4
}

// headerClass is the structural classification of one type-header byte,
// before its length field (if any) has been read.
type headerClass struct {
	kind        Kind
	isNil       bool // NIL: no length field at all, not even a zero one
	isShort     bool // short form: length already known, no field follows
	shortLen    uint64
	lengthWidth int // long form only: 1/2/4/8 bytes of length follow
}

// classifyHeaderByte classifies a single header byte, mirroring
// qd_deserializer.h's read_header_impl: it first compares the top three
// bits (shortTypeMask) against the short-form type tags, and only a byte
// whose top three bits are zero is looked up among the long-form opcodes
// 0x01..0x1F. The short-form bytes 0x20..0xFF and the long-form opcodes
// therefore never overlap (Open Question (b) in DESIGN.md).
func classifyHeaderByte(b uint8) (headerClass, bool) {
	if b == opNil {
		return headerClass{kind: KindNil, isNil: true}, true
	}

	masked := b & shortTypeMask
	if masked != 0 {
		switch masked {
		case shortListBase:
			return headerClass{kind: KindList, isShort: true, shortLen: uint64(b & shortLenMask)}, true
		case shortNumericBase:
			return headerClass{kind: KindNumeric, isShort: true, shortLen: uint64(b & shortLenMask)}, true
		case shortIntegerBase:
			return headerClass{kind: KindInteger, isShort: true, shortLen: uint64(b & shortLenMask)}, true
		case shortLogicalBase:
			return headerClass{kind: KindLogical, isShort: true, shortLen: uint64(b & shortLenMask)}, true
		case shortCharacterBase:
			return headerClass{kind: KindCharacter, isShort: true, shortLen: uint64(b & shortLenMask)}, true
		case shortAttributeBase:
			return headerClass{kind: KindAttribute, isShort: true, shortLen: uint64(b & shortLenMask)}, true
		default:
			return headerClass{}, false
		}
	}

	// masked == 0 and b != opNil: one of the long-form single-byte opcodes.
	kind, width, ok := longFormKindAndWidth(b)
	if !ok {
		return headerClass{}, false
	}

	return headerClass{kind: kind, lengthWidth: width}, true
}

// longFormKindAndWidth classifies a non-short-form, non-nil header byte
// into its kind and the byte width of the length field that follows.
func longFormKindAndWidth(b uint8) (kind Kind, widthBytes int, ok bool) {
	switch {
	case b >= opListBase8 && b < opListBase8+4:
		return KindList, 1 << (b - opListBase8), true
	case b >= opNumericBase8 && b < opNumericBase8+4:
		return KindNumeric, 1 << (b - opNumericBase8), true
	case b >= opIntegerBase8 && b < opIntegerBase8+4:
		return KindInteger, 1 << (b - opIntegerBase8), true
	case b >= opLogicalBase8 && b < opLogicalBase8+4:
		return KindLogical, 1 << (b - opLogicalBase8), true
	case b >= opCharacterBase8 && b < opCharacterBase8+4:
		return KindCharacter, 1 << (b - opCharacterBase8), true
	case b == opComplex32:
		return KindComplex, 4, true
	case b == opComplex64:
		return KindComplex, 8, true
	case b == opRaw32:
		return KindRaw, 4, true
	case b == opRaw64:
		return KindRaw, 8, true
	case b == opAttribute8:
		return KindAttribute, 1, true
	case b == opAttribute32:
		return KindAttribute, 4, true
	default:
		return 0, 0, false
	}
}

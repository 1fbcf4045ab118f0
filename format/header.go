package format

import "encoding/binary"

const (
	// HeaderSize is the fixed length, in bytes, of the container header.
	HeaderSize = 24

	// FormatVersion is the current format_version this implementation
	// writes and the highest version it accepts on read.
	FormatVersion = 1

	// MaxBlockSize bounds the uncompressed size of a single framed block.
	MaxBlockSize = 1 << 20 // 1,048,576 bytes

	// MinBlockSize is the near-full threshold writers flush at so that a
	// fixed-size (POD) value is never split across a block boundary.
	MinBlockSize = MaxBlockSize - 64

	// ShuffleMask is bit 31 of the block size word: the per-block shuffle
	// flag. The other 31 bits hold the compressed length (LengthMask).
	ShuffleMask uint32 = 0x8000_0000

	// LengthMask extracts the low 31 bits of the size word: the
	// compressed byte count. A block of incompressible data compresses to
	// more than 1 MiB (up to MaxZBlockSize), so the count can use bits
	// 20 and above.
	LengthMask uint32 = 0x7FFF_FFFF

	// ReservedMask covers bits 20-30 of the size word. Those bits lie
	// inside LengthMask, so a compressed count of 1 MiB or more sets them;
	// nothing in this module reads or writes through ReservedMask.
	ReservedMask uint32 = 0x7FF0_0000

	// HeaderHashPosition is the byte offset of the trailer content hash
	// within the header, matching the original's HEADER_HASH_POSITION.
	// A writer seeks here exactly once, after the body is fully written,
	// to patch in the real digest (spec.md §4.11).
	HeaderHashPosition = 16
)

// Magic byte sequences identifying the two container flavors. The legacy
// magic must be rejected with ErrLegacyFormat rather than silently parsed.
var (
	MagicQS       = [4]byte{0x0B, 0x0E, 0x0A, 0xC1}
	MagicQData    = [4]byte{0x0B, 0x0E, 0x0A, 0xCD}
	MagicLegacy   = [4]byte{0x0B, 0x0E, 0x0A, 0x0C}
)

// Header is the fixed 24-byte preamble of a container file.
//
//	offset  size  field
//	0       4     magic
//	4       1     format_version
//	5       1     compression
//	6       1     endian
//	7       1     shuffle (0 or 1)
//	8       8     reserved (zeroed)
//	16      8     content hash (little-endian, 0 = not finalized)
type Header struct {
	Magic          [4]byte
	FormatVersion  uint8
	Compression    CompressionType
	Endian         Endian
	Shuffle        bool
	ContentHash    uint64
}

// Kind reports which container flavor a magic identifies.
type Kind int

const (
	KindUnknown Kind = iota
	KindQS
	KindQData
)

func (h Header) Kind() Kind {
	switch h.Magic {
	case MagicQS:
		return KindQS
	case MagicQData:
		return KindQData
	default:
		return KindUnknown
	}
}

// Bytes serializes the header into a freshly allocated 24-byte slice.
func (h Header) Bytes() []byte {
	buf := make([]byte, HeaderSize)
	h.Encode(buf)
	return buf
}

// Encode writes the header into buf, which must be at least HeaderSize bytes.
func (h Header) Encode(buf []byte) {
	_ = buf[HeaderSize-1]
	copy(buf[0:4], h.Magic[:])
	buf[4] = h.FormatVersion
	buf[5] = uint8(h.Compression)
	buf[6] = uint8(h.Endian)
	if h.Shuffle {
		buf[7] = 1
	} else {
		buf[7] = 0
	}
	for i := 8; i < HeaderHashPosition; i++ {
		buf[i] = 0
	}
	binary.LittleEndian.PutUint64(buf[HeaderHashPosition:HeaderSize], h.ContentHash)
}

// DecodeHeader parses a 24-byte buffer into a Header. It performs no
// validation beyond shape; callers should run Validate afterward.
func DecodeHeader(buf []byte) (Header, error) {
	if len(buf) < HeaderSize {
		return Header{}, ErrTruncatedInput
	}

	var h Header
	copy(h.Magic[:], buf[0:4])
	h.FormatVersion = buf[4]
	h.Compression = CompressionType(buf[5])
	h.Endian = Endian(buf[6])
	h.Shuffle = buf[7] != 0
	h.ContentHash = binary.LittleEndian.Uint64(buf[HeaderHashPosition:HeaderSize])

	return h, nil
}

// Validate checks a parsed header against this implementation's
// constraints, returning the first violated invariant as a typed error.
func (h Header) Validate(wantKind Kind) error {
	if h.Magic == MagicLegacy {
		return ErrLegacyFormat
	}

	kind := h.Kind()
	switch {
	case kind == KindUnknown:
		return ErrUnknownMagic
	case wantKind == KindQS && kind == KindQData:
		return ErrBadMagicQS
	case wantKind == KindQData && kind == KindQS:
		return ErrBadMagicQData
	}

	if h.FormatVersion > FormatVersion {
		return ErrUnsupportedVersion
	}

	if h.Compression != CompressionZstd {
		return ErrUnsupportedCompression
	}

	if h.Endian != HostEndian {
		return ErrEndianMismatch
	}

	return nil
}

// EncodeSizeWord packs a compressed length and shuffle flag into the
// 4-byte little-endian word that precedes every framed block.
func EncodeSizeWord(compressedLen int, shuffled bool) uint32 {
	w := uint32(compressedLen) & LengthMask
	if shuffled {
		w |= ShuffleMask
	}

	return w
}

// DecodeSizeWord splits a size word into its compressed length (low 31
// bits) and shuffle flag (bit 31).
func DecodeSizeWord(w uint32) (length int, shuffled bool) {
	return int(w & LengthMask), w&ShuffleMask != 0
}

// CompressBound returns zstd's worst-case compressed size for an input of
// the given length, using the standard frame-overhead formula (srcSize +
// srcSize/255 + a small fixed constant for the frame header/footer).
func CompressBound(srcLen int) int {
	return srcLen + srcLen/255 + 64
}

// MaxZBlockSize is CompressBound(MaxBlockSize), the size of the scratch
// buffer a single block's compressed form is guaranteed to fit in.
var MaxZBlockSize = CompressBound(MaxBlockSize)

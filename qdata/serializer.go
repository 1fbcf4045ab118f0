package qdata

import (
	"math"

	"github.com/arloliu/qstore/format"
	"github.com/arloliu/qstore/stream"
)

// blockWriter is the subset of block.Writer/block.MTWriter the serializer
// needs: Write for bulk payload bytes, WriteValue for small
// boundary-sensitive fields (headers, length words) that must not
// straddle a block boundary.
type blockWriter interface {
	Write(p []byte) (int, error)
	WriteValue(p []byte) error
}

// SerializeOptions controls serialization behavior not carried by the
// value tree itself (spec.md §6's warn_unsupported_types option).
type SerializeOptions struct {
	// WarnUnsupportedTypes enables the Warnf callback for attributes
	// whose value type the format cannot carry; such attributes are
	// dropped rather than aborting the whole write (spec.md testable
	// property 3).
	WarnUnsupportedTypes bool
	Warnf                func(format string, args ...any)
}

// Serializer walks a Value tree depth-first and writes its QDATA
// encoding to a block writer. Scalar/bulk payloads are not written
// inline; they are queued onto per-type worklists and replayed, in
// CHARACTER/COMPLEX/NUMERIC/INTEGER-LOGICAL/RAW order, once the whole
// header spine has been written (spec.md §4.9). Clustering same-type
// bytes this way compresses far better than interleaving them with the
// spine.
type Serializer struct {
	bw   blockWriter
	opts SerializeOptions

	character []Value
	complex   []Value
	numeric   []Value
	intLog    []Value
	raw       []Value
}

// NewSerializer creates a Serializer writing to bw.
func NewSerializer(bw blockWriter, opts SerializeOptions) *Serializer {
	return &Serializer{bw: bw, opts: opts}
}

// Serialize writes v's full QDATA encoding: the header spine, then the
// deferred worklists.
func (s *Serializer) Serialize(v Value) error {
	if err := s.writeObject(v); err != nil {
		return err
	}

	return s.replayWorklists()
}

func (s *Serializer) writeObject(v Value) error {
	attrs := s.filterAttributes(v.attrs)

	if len(attrs) > 0 {
		opcode, width := encodeAttributeHeader(uint64(len(attrs)))
		if err := s.writeHeaderBytes(opcode, width, uint64(len(attrs))); err != nil {
			return err
		}
	}

	if err := s.writeTypeHeader(v); err != nil {
		return err
	}

	for _, a := range attrs {
		if err := s.writeString(a.Name, false); err != nil {
			return err
		}
		if err := s.writeObject(a.Value); err != nil {
			return err
		}
	}

	switch v.kind {
	case KindNil:
		// no payload, no children
	case KindList:
		for _, child := range v.list {
			if err := s.writeObject(child); err != nil {
				return err
			}
		}
	case KindCharacter:
		s.character = append(s.character, v)
	case KindComplex:
		s.complex = append(s.complex, v)
	case KindNumeric:
		s.numeric = append(s.numeric, v)
	case KindInteger, KindLogical:
		s.intLog = append(s.intLog, v)
	case KindRaw:
		s.raw = append(s.raw, v)
	}

	return nil
}

func (s *Serializer) writeTypeHeader(v Value) error {
	switch v.kind {
	case KindNil:
		return s.bw.WriteValue([]byte{opNil})
	case KindList:
		opcode, width := listSpec.encodeHeader(uint64(len(v.list)))
		return s.writeHeaderBytes(opcode, width, uint64(len(v.list)))
	case KindNumeric:
		opcode, width := numericSpec.encodeHeader(uint64(len(v.numeric)))
		return s.writeHeaderBytes(opcode, width, uint64(len(v.numeric)))
	case KindInteger:
		opcode, width := integerSpec.encodeHeader(uint64(len(v.integer)))
		return s.writeHeaderBytes(opcode, width, uint64(len(v.integer)))
	case KindLogical:
		opcode, width := logicalSpec.encodeHeader(uint64(len(v.logical)))
		return s.writeHeaderBytes(opcode, width, uint64(len(v.logical)))
	case KindCharacter:
		opcode, width := characterSpec.encodeHeader(uint64(len(v.character)))
		return s.writeHeaderBytes(opcode, width, uint64(len(v.character)))
	case KindComplex:
		opcode, width := encodeWideHeader(opComplex32, opComplex64, uint64(len(v.complex128s)))
		return s.writeHeaderBytes(opcode, width, uint64(len(v.complex128s)))
	case KindRaw:
		opcode, width := encodeWideHeader(opRaw32, opRaw64, uint64(len(v.raw)))
		return s.writeHeaderBytes(opcode, width, uint64(len(v.raw)))
	default:
		return format.ErrUnsupportedValueType
	}
}

// writeHeaderBytes writes opcode followed by a widthBytes-wide encoding
// of length (0/1/2/4/8), as a single WriteValue call so the two can
// never be split across a block boundary by an intervening flush.
func (s *Serializer) writeHeaderBytes(opcode uint8, widthBytes int, length uint64) error {
	var buf [9]byte
	buf[0] = opcode

	switch widthBytes {
	case 0:
		return s.bw.WriteValue(buf[:1])
	case 1:
		buf[1] = uint8(length)

		return s.bw.WriteValue(buf[:2])
	case 2:
		stream.HostEngine.PutUint16(buf[1:3], uint16(length))

		return s.bw.WriteValue(buf[:3])
	case 4:
		stream.HostEngine.PutUint32(buf[1:5], uint32(length))

		return s.bw.WriteValue(buf[:5])
	default:
		stream.HostEngine.PutUint64(buf[1:9], length)

		return s.bw.WriteValue(buf[:9])
	}
}

func (s *Serializer) writeStringHeader(length int, isNA bool) error {
	b, width := encodeStringHeaderByte(length, isNA)

	var buf [5]byte
	buf[0] = b

	switch width {
	case 0:
		return s.bw.WriteValue(buf[:1])
	case 2:
		stream.HostEngine.PutUint16(buf[1:3], uint16(length))

		return s.bw.WriteValue(buf[:3])
	default:
		stream.HostEngine.PutUint32(buf[1:5], uint32(length))

		return s.bw.WriteValue(buf[:5])
	}
}

// writeString writes one string's header and, unless it is NA or empty,
// its UTF-8 bytes. Used both for attribute names and CHARACTER elements.
//
// The original translates Latin-1 and non-UTF-8-locale "native" strings
// to UTF-8 before this point (spec.md §4.9); Value only ever holds Go
// strings, which are assumed already UTF-8, so no translation step is
// needed here (see DESIGN.md).
func (s *Serializer) writeString(str string, isNA bool) error {
	if err := s.writeStringHeader(len(str), isNA); err != nil {
		return err
	}
	if isNA || len(str) == 0 {
		return nil
	}
	_, err := s.bw.Write([]byte(str))

	return err
}

func (s *Serializer) filterAttributes(attrs []Attribute) []Attribute {
	out := make([]Attribute, 0, len(attrs))
	for _, a := range attrs {
		if !supportsAttribute(a.Value.kind) {
			if s.opts.WarnUnsupportedTypes && s.opts.Warnf != nil {
				s.opts.Warnf("qdata: attribute %q has unsupported type %s, dropping", a.Name, a.Value.kind)
			}

			continue
		}
		out = append(out, a)
	}

	return out
}

func (s *Serializer) replayWorklists() error {
	for _, v := range s.character {
		for _, el := range v.character {
			if err := s.writeString(el.S, el.NA); err != nil {
				return err
			}
		}
	}
	for _, v := range s.complex {
		if len(v.complex128s) == 0 {
			continue
		}
		if _, err := s.bw.Write(encodeComplex128s(v.complex128s)); err != nil {
			return err
		}
	}
	for _, v := range s.numeric {
		if len(v.numeric) == 0 {
			continue
		}
		if _, err := s.bw.Write(encodeFloat64s(v.numeric)); err != nil {
			return err
		}
	}
	for _, v := range s.intLog {
		data := v.integer
		if v.kind == KindLogical {
			data = v.logical
		}
		if len(data) == 0 {
			continue
		}
		if _, err := s.bw.Write(encodeInt32s(data)); err != nil {
			return err
		}
	}
	for _, v := range s.raw {
		if len(v.raw) == 0 {
			continue
		}
		if _, err := s.bw.Write(v.raw); err != nil {
			return err
		}
	}

	return nil
}

func encodeInt32s(v []int32) []byte {
	buf := make([]byte, 4*len(v))
	for i, x := range v {
		stream.HostEngine.PutUint32(buf[i*4:], uint32(x))
	}

	return buf
}

func encodeFloat64s(v []float64) []byte {
	buf := make([]byte, 8*len(v))
	for i, x := range v {
		stream.HostEngine.PutUint64(buf[i*8:], math.Float64bits(x))
	}

	return buf
}

func encodeComplex128s(v []complex128) []byte {
	buf := make([]byte, 16*len(v))
	for i, x := range v {
		stream.HostEngine.PutUint64(buf[i*16:], math.Float64bits(real(x)))
		stream.HostEngine.PutUint64(buf[i*16+8:], math.Float64bits(imag(x)))
	}

	return buf
}

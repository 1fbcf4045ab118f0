package qdata

import (
	"math"

	"github.com/arloliu/qstore/format"
	"github.com/arloliu/qstore/stream"
)

// blockReader is the subset of block.Reader/block.MTReader the
// deserializer needs.
type blockReader interface {
	Read(p []byte) (int, error)
}

type charJob struct {
	dst  []String
	base int
}
type complexJob struct{ dst []complex128 }
type numericJob struct{ dst []float64 }
type intLogJob struct{ dst []int32 }
type rawJob struct{ dst []byte }

// DeserializeOptions selects the eager/lazy CHARACTER materialization
// mode (spec.md §4.10's "two modes exposed: eager materialization ...
// and lazy").
type DeserializeOptions struct {
	// LazyStringSink, when non-nil, receives every CHARACTER element as
	// it comes off the wire instead of having it written into the
	// returned Value's Character() slice, which is left at its
	// zero-valued (empty, non-NA) default. index counts elements across
	// the whole value tree in read order, mirroring the host's
	// lazy-string vector being filled cell-by-cell rather than a
	// concrete string vector being allocated up front (qd_deserializer.h's
	// is_unmaterialized_sf_vector branch; see qdata/lazystring.go).
	LazyStringSink func(index int, s string, isNA bool)
}

// Deserializer reads a QDATA-encoded Value back from a block reader:
// a structural pass that rebuilds the value tree and queues per-type
// worklists, followed by a payload pass that drains those worklists in
// the same fixed order the serializer wrote them in (spec.md §4.10).
type Deserializer struct {
	br   blockReader
	opts DeserializeOptions

	character []charJob
	complex   []complexJob
	numeric   []numericJob
	intLog    []intLogJob
	raw       []rawJob

	charCount int
}

// NewDeserializer creates a Deserializer reading from br.
func NewDeserializer(br blockReader, opts DeserializeOptions) *Deserializer {
	return &Deserializer{br: br, opts: opts}
}

// Deserialize reads one complete Value, structural spine then deferred
// payloads.
func (d *Deserializer) Deserialize() (Value, error) {
	v, err := d.readObject()
	if err != nil {
		return Value{}, err
	}

	if err := d.replayWorklists(); err != nil {
		return Value{}, err
	}

	return v, nil
}

func (d *Deserializer) readObject() (Value, error) {
	hb, err := d.readByte()
	if err != nil {
		return Value{}, err
	}

	hc, ok := classifyHeaderByte(hb)
	if !ok {
		return Value{}, format.ErrUnknownTypeTag
	}

	var (
		attrCount uint64
		hasAttrs  bool
	)

	if hc.kind == KindAttribute {
		hasAttrs = true

		attrCount, err = d.resolveLength(hc)
		if err != nil {
			return Value{}, err
		}

		hb2, err := d.readByte()
		if err != nil {
			return Value{}, err
		}

		hc, ok = classifyHeaderByte(hb2)
		if !ok {
			return Value{}, format.ErrUnknownTypeTag
		}
		if hc.kind == KindAttribute {
			return Value{}, format.ErrCorruptAttributes
		}
	}

	var length uint64
	if !hc.isNil {
		length, err = d.resolveLength(hc)
		if err != nil {
			return Value{}, err
		}
	}

	v := d.allocate(hc.kind, length)

	if hasAttrs {
		for i := uint64(0); i < attrCount; i++ {
			name, _, err := d.readStringPayload()
			if err != nil {
				return Value{}, err
			}

			attrVal, err := d.readObject()
			if err != nil {
				return Value{}, err
			}

			v.SetAttr(name, attrVal)
		}
	}

	if hc.kind == KindList {
		for i := range v.list {
			child, err := d.readObject()
			if err != nil {
				return Value{}, err
			}
			v.list[i] = child
		}
	}

	return v, nil
}

// resolveLength returns a classified header's length, reading the
// trailing length field for long-form headers.
func (d *Deserializer) resolveLength(hc headerClass) (uint64, error) {
	if hc.isShort {
		return hc.shortLen, nil
	}

	return d.readLength(hc.lengthWidth)
}

func (d *Deserializer) allocate(kind Kind, length uint64) Value {
	v := Value{kind: kind}

	switch kind {
	case KindList:
		v.list = make([]Value, length)
	case KindCharacter:
		v.character = make([]String, length)
		d.character = append(d.character, charJob{dst: v.character, base: d.charCount})
		d.charCount += int(length)
	case KindComplex:
		v.complex128s = make([]complex128, length)
		d.complex = append(d.complex, complexJob{dst: v.complex128s})
	case KindNumeric:
		v.numeric = make([]float64, length)
		d.numeric = append(d.numeric, numericJob{dst: v.numeric})
	case KindInteger:
		v.integer = make([]int32, length)
		d.intLog = append(d.intLog, intLogJob{dst: v.integer})
	case KindLogical:
		v.logical = make([]int32, length)
		d.intLog = append(d.intLog, intLogJob{dst: v.logical})
	case KindRaw:
		v.raw = make([]byte, length)
		d.raw = append(d.raw, rawJob{dst: v.raw})
	}

	return v
}

func (d *Deserializer) replayWorklists() error {
	for _, j := range d.character {
		for i := range j.dst {
			s, isNA, err := d.readStringPayload()
			if err != nil {
				return err
			}
			if d.opts.LazyStringSink != nil {
				d.opts.LazyStringSink(j.base+i, s, isNA)
				continue
			}
			j.dst[i] = String{NA: isNA, S: s}
		}
	}
	for _, j := range d.complex {
		if len(j.dst) == 0 {
			continue
		}
		buf, err := d.readExact(16 * len(j.dst))
		if err != nil {
			return err
		}
		for i := range j.dst {
			re := math.Float64frombits(stream.HostEngine.Uint64(buf[i*16:]))
			im := math.Float64frombits(stream.HostEngine.Uint64(buf[i*16+8:]))
			j.dst[i] = complex(re, im)
		}
	}
	for _, j := range d.numeric {
		if len(j.dst) == 0 {
			continue
		}
		buf, err := d.readExact(8 * len(j.dst))
		if err != nil {
			return err
		}
		for i := range j.dst {
			j.dst[i] = math.Float64frombits(stream.HostEngine.Uint64(buf[i*8:]))
		}
	}
	for _, j := range d.intLog {
		if len(j.dst) == 0 {
			continue
		}
		buf, err := d.readExact(4 * len(j.dst))
		if err != nil {
			return err
		}
		for i := range j.dst {
			j.dst[i] = int32(stream.HostEngine.Uint32(buf[i*4:]))
		}
	}
	for _, j := range d.raw {
		if len(j.dst) == 0 {
			continue
		}
		if err := d.readFull(j.dst); err != nil {
			return err
		}
	}

	return nil
}

func (d *Deserializer) readByte() (uint8, error) {
	var b [1]byte
	if err := d.readFull(b[:]); err != nil {
		return 0, err
	}

	return b[0], nil
}

func (d *Deserializer) readLength(widthBytes int) (uint64, error) {
	buf, err := d.readExact(widthBytes)
	if err != nil {
		return 0, err
	}

	switch widthBytes {
	case 1:
		return uint64(buf[0]), nil
	case 2:
		return uint64(stream.HostEngine.Uint16(buf)), nil
	case 4:
		return uint64(stream.HostEngine.Uint32(buf)), nil
	default:
		return stream.HostEngine.Uint64(buf), nil
	}
}

// readStringPayload reads one CHARACTER-element or attribute-name string:
// header byte, optional length field, then (unless NA or blank) the
// UTF-8 bytes.
func (d *Deserializer) readStringPayload() (string, bool, error) {
	b, err := d.readByte()
	if err != nil {
		return "", false, err
	}

	var length int
	switch b {
	case stringHeaderNA:
		return "", true, nil
	case stringHeader16:
		buf, err := d.readExact(2)
		if err != nil {
			return "", false, err
		}
		length = int(stream.HostEngine.Uint16(buf))
	case stringHeader32:
		buf, err := d.readExact(4)
		if err != nil {
			return "", false, err
		}
		length = int(stream.HostEngine.Uint32(buf))
	default:
		length = int(b)
	}

	if length == 0 {
		return "", false, nil
	}

	buf, err := d.readExact(length)
	if err != nil {
		return "", false, err
	}

	return string(buf), false, nil
}

func (d *Deserializer) readExact(n int) ([]byte, error) {
	if n == 0 {
		return nil, nil
	}
	buf := make([]byte, n)
	if err := d.readFull(buf); err != nil {
		return nil, err
	}

	return buf, nil
}

func (d *Deserializer) readFull(buf []byte) error {
	read := 0
	for read < len(buf) {
		n, err := d.br.Read(buf[read:])
		read += n
		if read == len(buf) {
			return nil
		}
		if err != nil {
			return format.ErrTruncatedInput
		}
		if n == 0 {
			return format.ErrTruncatedInput
		}
	}

	return nil
}

// Package stream provides the byte-level I/O the container and block
// layers read and write through, grounded on the original bridgehead's
// IfStreamReader/OfStreamWriter (original_source/src/io.h) and their
// file-backed and in-memory variants (io/filestream_module.h,
// io/cvector_module.h).
//
// Two implementations are provided: a file-backed pair (FileReader,
// FileWriter) for on-disk containers, and an in-memory pair (MemReader,
// MemWriter) for round-tripping a container entirely in a []byte, which
// the package-level Serialize/Deserialize convenience functions use.
package stream

import "github.com/arloliu/qstore/endian"

// HostEngine is the EndianEngine matching this process's native byte
// order, used by ReadInteger/WriteInteger. A container written on one
// host and read on a foreign-endian host is rejected outright at the
// header-validation stage (format.Header.Validate), so every stream
// integer on the wire is always in this order in practice - there is no
// byte-swap-on-read path to maintain, mirroring the original's direct
// memcpy of POD values.
var HostEngine endian.EndianEngine = hostEngine()

func hostEngine() endian.EndianEngine {
	if endian.IsNativeBigEndian() {
		return endian.GetBigEndianEngine()
	}

	return endian.GetLittleEndianEngine()
}

// Reader is the read side of a container stream. ReadInteger reads a
// fixed-size POD value using the stream's native byte order, mirroring
// readInteger<T> in the original.
type Reader interface {
	// Read reads up to len(p) bytes into p, returning the number of
	// bytes actually read. Unlike io.Reader, Read returns n < len(p)
	// only at end of stream; it does not return io.EOF as an error for
	// a non-empty, fully-satisfied read, but it also never blocks
	// waiting for more data than is available.
	Read(p []byte) int

	// Seek moves the read position to an absolute byte offset from the
	// start of the stream.
	Seek(offset int64) error

	// Tell returns the current read position.
	Tell() int64

	// IsValid reports whether the underlying resource opened
	// successfully and has not been closed.
	IsValid() bool
}

// Writer is the write side of a container stream.
type Writer interface {
	// Write appends p to the stream, returning the number of bytes
	// written.
	Write(p []byte) int

	// Seek moves the write position to an absolute byte offset from the
	// start of the stream; used exactly once per Save, to patch the
	// trailer hash into the header's content-hash field after the rest of
	// the container has been written (spec.md §4.11).
	Seek(offset int64) error

	// Tell returns the current write position.
	Tell() int64

	// IsValid reports whether the underlying resource opened
	// successfully and has not been closed.
	IsValid() bool
}

// integer is the set of wire integer types the container format uses:
// the block size word (uint32), string/array lengths, and header
// scalars. Exact types only (no ~), since any/type-switch dispatch below
// requires the dynamic type to match precisely.
type integer interface {
	uint8 | uint16 | uint32 | uint64
}

// ReadInteger reads a fixed-size integer value from r using HostEngine's
// byte order. The second result is false if r did not have enough bytes
// remaining.
func ReadInteger[T integer](r Reader) (T, bool) {
	var v T
	buf := make([]byte, sizeOf(v))
	if n := r.Read(buf); n != len(buf) {
		return v, false
	}

	switch any(v).(type) {
	case uint8:
		return T(buf[0]), true
	case uint16:
		return T(HostEngine.Uint16(buf)), true
	case uint32:
		return T(HostEngine.Uint32(buf)), true
	default:
		return T(HostEngine.Uint64(buf)), true
	}
}

// WriteInteger writes a fixed-size integer value to w using HostEngine's
// byte order, returning the number of bytes written.
func WriteInteger[T integer](w Writer, v T) int {
	switch x := any(v).(type) {
	case uint8:
		return w.Write([]byte{x})
	case uint16:
		return w.Write(HostEngine.AppendUint16(nil, x))
	case uint32:
		return w.Write(HostEngine.AppendUint32(nil, x))
	default:
		return w.Write(HostEngine.AppendUint64(nil, any(v).(uint64)))
	}
}

func sizeOf[T integer](v T) int {
	switch any(v).(type) {
	case uint8:
		return 1
	case uint16:
		return 2
	case uint32:
		return 4
	default:
		return 8
	}
}

package container

import (
	"fmt"

	"github.com/arloliu/qstore/format"
	"github.com/arloliu/qstore/internal/hash"
	"github.com/arloliu/qstore/stream"
)

// writeHeader writes the 24-byte container preamble with a zero trailer
// hash; finalize patches the real digest in once the body is written.
func writeHeader(w stream.Writer, kind format.Kind, shuffle bool) error {
	magic := format.MagicQS
	if kind == format.KindQData {
		magic = format.MagicQData
	}

	h := format.Header{
		Magic:         magic,
		FormatVersion: format.FormatVersion,
		Compression:   format.CompressionZstd,
		Endian:        format.HostEndian,
		Shuffle:       shuffle,
	}

	buf := h.Bytes()
	if n := w.Write(buf); n != len(buf) {
		return fmt.Errorf("%w: short header write", format.ErrOpenFailure)
	}

	return nil
}

// finalize patches the trailer hash into the header's content-hash field
// at offset 16. It must be the writer's very last operation (spec.md §4.11,
// qx_file_headers.h's write_qx_hash). A zero digest is never written: a
// stored hash of zero means "not finalized" to a reader.
func finalize(w stream.Writer, digest uint64) error {
	if digest == 0 {
		return nil
	}

	if err := w.Seek(format.HeaderHashPosition); err != nil {
		return err
	}

	var buf [8]byte
	encodeLittleEndian64(buf[:], digest)
	if n := w.Write(buf[:]); n != len(buf) {
		return fmt.Errorf("%w: short trailer-hash write", format.ErrTruncatedInput)
	}

	return nil
}

func encodeLittleEndian64(buf []byte, v uint64) {
	_ = buf[7]
	for i := 0; i < 8; i++ {
		buf[i] = byte(v >> (8 * i))
	}
}

// readHeader parses and validates the fixed-size header at the current
// stream position for wantKind, leaving the stream positioned right
// after it (at the first block's size word).
func readHeader(r stream.Reader, wantKind format.Kind) (format.Header, error) {
	buf := make([]byte, format.HeaderSize)
	if n := r.Read(buf); n != len(buf) {
		return format.Header{}, format.ErrTruncatedInput
	}

	h, err := format.DecodeHeader(buf)
	if err != nil {
		return format.Header{}, err
	}
	if err := h.Validate(wantKind); err != nil {
		return format.Header{}, err
	}

	return h, nil
}

// computeTrailerHash streams everything remaining in r through a fresh
// hasher, then restores r's original position, mirroring
// qx_file_headers.h's read_qx_hash (tellg, stream to EOF, seekg back).
func computeTrailerHash(r stream.Reader) (uint64, error) {
	start := r.Tell()

	hp := hash.New()
	buf := make([]byte, format.MaxZBlockSize)

	for {
		n := r.Read(buf)
		if n == 0 {
			break
		}
		hp.Update(buf[:n])
	}

	if err := r.Seek(start); err != nil {
		return 0, err
	}

	return hp.Digest(), nil
}

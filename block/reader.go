package block

import (
	"io"

	"github.com/arloliu/qstore/format"
	"github.com/arloliu/qstore/internal/hash"
	"github.com/arloliu/qstore/stream"
)

// Reader decompresses blocks from the underlying stream on demand,
// presenting them as one contiguous byte stream - the single-worker
// path, ported from BlockCompressReader in block_module.h.
type Reader struct {
	r stream.Reader
	c Compressor
	// hp accumulates a digest of every size word and compressed payload
	// read, mirroring the writer's hash. Nil when the caller has not
	// asked for hash validation (spec.md's validate-hash option), saving
	// the xxhash work on the common decode-only path.
	hp *hash.Hasher

	block     []byte // cap == format.MaxBlockSize, valid prefix is block[:n]
	n         int
	off       int
	zblock    []byte // cap == format.MaxZBlockSize
	unshuffle []byte // cap == format.MaxBlockSize
}

// NewReader creates a Reader decompressing blocks from r with c. If hp
// is non-nil, it accumulates a digest of every size word and compressed
// payload read (used when the caller wants to validate the trailer hash
// as it streams rather than in a separate pre-pass).
func NewReader(r stream.Reader, c Compressor, hp *hash.Hasher) *Reader {
	return &Reader{
		r:         r,
		c:         c,
		hp:        hp,
		block:     make([]byte, format.MaxBlockSize),
		zblock:    make([]byte, format.MaxZBlockSize),
		unshuffle: make([]byte, format.MaxBlockSize),
	}
}

// Read fills p with decompressed bytes, pulling and decompressing
// further blocks as needed. Returns io.EOF once the underlying stream
// has no further blocks.
func (r *Reader) Read(p []byte) (int, error) {
	total := len(p)
	copied := 0

	for copied < total {
		if r.off >= r.n {
			if err := r.decompressNext(); err != nil {
				if err == io.EOF && copied > 0 {
					return copied, nil
				}

				return copied, err
			}
		}

		c := copy(p[copied:], r.block[r.off:r.n])
		r.off += c
		copied += c
	}

	return copied, nil
}

func (r *Reader) decompressNext() error {
	var szBuf [4]byte

	got := r.r.Read(szBuf[:])
	if got == 0 {
		r.n, r.off = 0, 0

		return io.EOF
	}
	if got != len(szBuf) {
		return format.ErrTruncatedInput
	}

	sizeWord := stream.HostEngine.Uint32(szBuf[:])
	if r.hp != nil {
		r.hp.UpdateUint32(sizeWord)
	}

	length, shuffled := format.DecodeSizeWord(sizeWord)
	if length > len(r.zblock) {
		return format.ErrCorruptBlock
	}

	got = r.r.Read(r.zblock[:length])
	if got != length {
		return format.ErrTruncatedInput
	}
	if r.hp != nil {
		r.hp.Update(r.zblock[:length])
	}

	n := r.c.DecompressAdaptive(r.block, r.unshuffle, r.zblock[:length], shuffled)
	if n == 0 {
		return format.ErrCorruptBlock
	}

	r.n = n
	r.off = 0

	return nil
}

// Digest returns the rolling content hash accumulated so far. Only
// meaningful when the Reader was constructed with a non-nil hasher.
func (r *Reader) Digest() uint64 {
	if r.hp == nil {
		return 0
	}

	return r.hp.Digest()
}

// Cleanup is a no-op: Reader has no background pipeline to cancel. It
// exists so callers can treat Reader and MTReader interchangeably on an
// error path (spec.md §4.7).
func (r *Reader) Cleanup() {}

package block

import (
	"github.com/arloliu/qstore/format"
	"github.com/arloliu/qstore/internal/hash"
	"github.com/arloliu/qstore/stream"
)

// Writer accumulates bytes into a fixed-size block, compressing and
// emitting it to the underlying stream once full - the single-worker
// path, ported from BlockCompressWriter in block_module.h.
type Writer struct {
	w     stream.Writer
	c     Compressor
	level int
	hp    *hash.Hasher

	block   []byte // cap == format.MaxBlockSize, valid prefix is block[:n]
	n       int
	zblock  []byte // cap == format.MaxZBlockSize, compression scratch
	shuffle []byte // cap == format.MaxBlockSize, shuffle scratch
}

// NewWriter creates a Writer that frames blocks onto w using c at the
// given zstd level, accumulating a rolling xxhash64 digest of everything
// written (spec.md §4.5).
func NewWriter(w stream.Writer, c Compressor, level int) *Writer {
	return &Writer{
		w:       w,
		c:       c,
		level:   level,
		hp:      hash.New(),
		block:   make([]byte, format.MaxBlockSize),
		zblock:  make([]byte, format.MaxZBlockSize),
		shuffle: make([]byte, format.MaxBlockSize),
	}
}

// Write appends p to the block stream, flushing full blocks as they
// accumulate. Large writes that span a whole block are compressed
// directly from p without copying through the accumulation buffer,
// mirroring push_data's fast path.
func (w *Writer) Write(p []byte) (int, error) {
	total := len(p)
	consumed := 0

	for consumed < total {
		if w.n >= format.MaxBlockSize {
			if err := w.Flush(); err != nil {
				return consumed, err
			}
		}

		if w.n == 0 && total-consumed >= format.MaxBlockSize {
			if err := w.compressAndEmit(p[consumed : consumed+format.MaxBlockSize]); err != nil {
				return consumed, err
			}
			consumed += format.MaxBlockSize

			continue
		}

		room := format.MaxBlockSize - w.n
		add := total - consumed
		if add > room {
			add = room
		}
		copy(w.block[w.n:], p[consumed:consumed+add])
		w.n += add
		consumed += add
	}

	return total, nil
}

// WriteValue appends a small, fixed-size value (a header field, a
// length prefix, a scalar) to the block stream, flushing first if the
// value might otherwise straddle the block boundary. Mirrors push_pod's
// MIN_BLOCKSIZE reserve: callers must keep len(p) <= format.MaxBlockSize
// - format.MinBlockSize.
func (w *Writer) WriteValue(p []byte) error {
	if w.n > format.MinBlockSize {
		if err := w.Flush(); err != nil {
			return err
		}
	}
	copy(w.block[w.n:], p)
	w.n += len(p)

	return nil
}

// Flush compresses and emits any buffered bytes, leaving the block
// empty. It is a no-op if nothing is buffered.
func (w *Writer) Flush() error {
	if w.n == 0 {
		return nil
	}
	err := w.compressAndEmit(w.block[:w.n])
	w.n = 0

	return err
}

func (w *Writer) compressAndEmit(src []byte) error {
	n, shuffled := w.c.CompressAdaptive(w.zblock, w.shuffle[:len(src)], src, w.level)
	if n == 0 {
		return ErrCompressionFailed
	}

	sizeWord := format.EncodeSizeWord(n, shuffled)
	stream.WriteInteger[uint32](w.w, sizeWord)
	w.hp.UpdateUint32(sizeWord)

	w.w.Write(w.zblock[:n])
	w.hp.Update(w.zblock[:n])

	return nil
}

// Finish flushes any remaining buffered bytes and returns the rolling
// content hash over everything written (spec.md §4.11's trailer hash).
func (w *Writer) Finish() (uint64, error) {
	if err := w.Flush(); err != nil {
		return 0, err
	}

	return w.hp.Digest(), nil
}

// Cleanup is a no-op: Writer has no background pipeline to cancel. It
// exists so callers can treat Writer and MTWriter interchangeably on an
// error path (spec.md §4.7).
func (w *Writer) Cleanup() {}

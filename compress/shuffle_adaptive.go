package compress

import (
	"github.com/arloliu/qstore/internal/heuristic"
	"github.com/arloliu/qstore/internal/shuffle"
)

// shuffleElementSize is the element size the block-level shuffle filter
// always uses (SHUFFLE_ELEMSIZE in the original), independent of the
// element size of whatever typed values happen to be inside the block -
// the block layer has no notion of QDATA's value types.
const shuffleElementSize = 8

// ShuffleCompressor adds the threshold-ratio shuffle heuristic
// (spec.md §4.4, internal/heuristic) on top of a plain Codec: before
// compressing a block it decides, via cheap sample probes, whether
// shuffling first is likely to help, then reports whether it did so the
// caller can set the block's shuffle bit (spec.md §6).
type ShuffleCompressor struct {
	Codec Codec
}

// NewShuffleCompressor wraps codec with the adaptive shuffle decision.
func NewShuffleCompressor(codec Codec) ShuffleCompressor {
	return ShuffleCompressor{Codec: codec}
}

// CompressAdaptive compresses src into dst, shuffling first if the
// heuristic favors it. scratch must have length >= len(src); its
// contents are overwritten. Returns 0 if compression failed in every
// attempted mode.
func (c ShuffleCompressor) CompressAdaptive(dst, scratch, src []byte, level int) (n int, shuffled bool) {
	if heuristic.ShouldShuffle(c.Codec, src, scratch) {
		body := (len(src) / shuffleElementSize) * shuffleElementSize
		shuffle.Shuffle(scratch[:body], src[:body], shuffleElementSize)
		copy(scratch[body:len(src)], src[body:])

		if n := c.Codec.Compress(dst, scratch[:len(src)], level); n != 0 {
			return n, true
		}
		// Shuffled compression failed (e.g. didn't fit dst); fall back
		// to compressing the unshuffled block below.
	}

	return c.Codec.Compress(dst, src, level), false
}

// DecompressAdaptive decompresses src into dst, reversing the shuffle
// transform with shuffleElementSize when shuffled is true. scratch must
// have length >= cap(dst) and is used as unshuffle working space when
// shuffled is true; it is unused otherwise.
func (c ShuffleCompressor) DecompressAdaptive(dst, scratch, src []byte, shuffled bool) int {
	if !shuffled {
		return c.Codec.Decompress(dst, src)
	}

	n := c.Codec.Decompress(scratch, src)
	if n == 0 {
		return 0
	}

	body := (n / shuffleElementSize) * shuffleElementSize
	shuffle.Unshuffle(dst[:body], scratch[:body], shuffleElementSize)
	copy(dst[body:n], scratch[body:n])

	return n
}

// Package heuristic decides whether a block is worth shuffling before
// compression (spec.md §4.4): shuffling helps columnar numeric data but
// wastes cycles on data that is already incompressible or unstructured,
// so the adaptive compressor samples a block cheaply before committing
// to the full shuffle-then-compress path.
package heuristic

import (
	"github.com/arloliu/qstore/format"
	"github.com/arloliu/qstore/internal/shuffle"
)

// SampleBlockSize is the number of bytes sampled from each probe window,
// matching the original's SHUFFLE_HEURISTIC_BLOCKSIZE.
const SampleBlockSize = 16384

// MinBlockSize is the smallest source size the heuristic will evaluate;
// anything smaller always skips the shuffle probe.
const MinBlockSize = SampleBlockSize

// MinImprovementRatio is how much smaller the shuffled sample must
// compress relative to the unshuffled sample before shuffle is judged
// worthwhile (SHUFFLE_MIN_IMPROVEMENT_THRESHOLD in the original: shuffle
// must be at least 7% better).
const MinImprovementRatio = 1.07

// FastProbeLevel is the zstd level used only for the cheap probe
// compressions, never for the real block compression.
const FastProbeLevel = -1

// elementSize is the shuffle granularity the probe uses to sample,
// independent of the element size eventually chosen for the real block
// (spec.md fixes the heuristic's own sampling element size at 8).
const elementSize = 8

// ProbeCompressor is the subset of a zstd compressor the heuristic needs
// to size-compress short samples at a fast level, using the same
// sentinel-based contract as compress.Compressor: a return of 0 means
// the probe failed.
type ProbeCompressor interface {
	Compress(dst, src []byte, level int) int
}

// ShouldShuffle reports whether src is likely to compress meaningfully
// better after shuffling, by shuffle-compressing and plain-compressing
// two SampleBlockSize windows (the start of the block, and the
// compile-time half-block mark when the block is large enough) at a
// fast probe level and comparing the combined sizes. Returns false for
// any src shorter than MinBlockSize, since the sample wouldn't be
// representative, and false if either probe compression fails.
func ShouldShuffle(c ProbeCompressor, src []byte, scratch []byte) bool {
	if len(src) < MinBlockSize {
		return false
	}
	if len(scratch) < len(src) {
		scratch = make([]byte, len(src))
	}

	shuffledSize, plainSize, ok := probeWindow(c, src[:SampleBlockSize], scratch)
	if !ok {
		return false
	}

	// The second probe window is fixed at the full block's midpoint
	// (MAX_BLOCKSIZE/2 in the original, io.h:170-178), not half of this
	// particular (possibly short, e.g. trailing) block - sampling a
	// different offset would compare an unrelated window across blocks
	// of different sizes.
	const half = format.MaxBlockSize / 2
	if uint64(len(src)) >= half+SampleBlockSize {
		window := src[half : half+SampleBlockSize]
		s, p, ok := probeWindow(c, window, scratch)
		if !ok {
			return false
		}
		shuffledSize += s
		plainSize += p
	}

	if shuffledSize == 0 {
		return false
	}

	ratio := float64(plainSize) / float64(shuffledSize)

	return ratio > MinImprovementRatio
}

// probeWindow shuffle-compresses and plain-compresses one sample window
// at the fast probe level, returning both compressed sizes. ok is false
// if either probe compression reported the sentinel error.
func probeWindow(c ProbeCompressor, window []byte, scratch []byte) (shuffledSize, plainSize int, ok bool) {
	body := (len(window) / elementSize) * elementSize
	shuffle.Shuffle(scratch[:body], window[:body], elementSize)
	copy(scratch[body:len(window)], window[body:])

	dst := make([]byte, len(window)+len(window)/255+64)

	shuffledSize = c.Compress(dst, scratch[:len(window)], FastProbeLevel)
	if shuffledSize == 0 {
		return 0, 0, false
	}

	plainSize = c.Compress(dst, window, FastProbeLevel)
	if plainSize == 0 {
		return 0, 0, false
	}

	return shuffledSize, plainSize, true
}

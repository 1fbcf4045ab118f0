// Package compress implements the single compression backend a
// container is allowed to use (spec.md §4.1 fixes the container header's
// compression byte to 1 = zstd; no other value is valid).
//
// The wrapper contract intentionally departs from Go's usual
// ([]byte, error) shape: Compress/Decompress write into a
// caller-supplied, caller-sized destination buffer and return the
// number of bytes written, with 0 reserved as an explicit "it didn't
// fit, or the codec rejected it" sentinel. This mirrors the original
// bridgehead's compress(dst, dstCapacity, src, srcSize) -> size
// contract, which the block framing layer (block/writer.go,
// block/reader.go) and the shuffle heuristic (internal/heuristic) both
// depend on to avoid an error-allocation per block.
package compress

// Compressor compresses src into dst at the given zstd level, returning
// the number of bytes written to dst. Returns 0 if src does not fit in
// dst's capacity or compression otherwise failed; dst's prior contents
// beyond what was written are left undefined.
type Compressor interface {
	Compress(dst, src []byte, level int) int
}

// Decompressor decompresses src into dst, returning the number of bytes
// written. Returns 0 if the decompressed size would not fit in dst's
// capacity or src is not valid compressed data.
type Decompressor interface {
	Decompress(dst, src []byte) int
}

// Codec combines both directions. The only implementation is Zstd; the
// interface exists so block/*.go and internal/heuristic depend on a
// seam rather than the concrete type.
type Codec interface {
	Compressor
	Decompressor
}

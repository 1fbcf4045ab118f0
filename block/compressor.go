// Package block implements the framed block layer every container
// payload (QS's opaque blob or QDATA's spine + deferred payloads) is
// written through and read back from: a stream of
// [4-byte size word][compressed bytes] records, each independently
// zstd-compressed and optionally shuffled (spec.md §4.6-§4.8), ported in
// spirit from original_source/src/io/block_module.h's
// BlockCompressWriter/BlockCompressReader.
package block

import "github.com/arloliu/qstore/compress"

// Compressor is what Writer/Reader need from a compression backend. It
// is satisfied by compress.ShuffleCompressor directly (the
// heuristic-adaptive path) and by NoShuffle (the plain path, used when
// container.Options disables shuffling outright).
type Compressor interface {
	CompressAdaptive(dst, scratch, src []byte, level int) (n int, shuffled bool)
	DecompressAdaptive(dst, scratch, src []byte, shuffled bool) int
}

// NoShuffle adapts a plain compress.Codec to the Compressor interface
// without ever invoking the shuffle heuristic.
type NoShuffle struct {
	Codec compress.Codec
}

func (n NoShuffle) CompressAdaptive(dst, _, src []byte, level int) (int, bool) {
	return n.Codec.Compress(dst, src, level), false
}

func (n NoShuffle) DecompressAdaptive(dst, _, src []byte, _ bool) int {
	return n.Codec.Decompress(dst, src)
}

var (
	_ Compressor = NoShuffle{}
	_ Compressor = compress.ShuffleCompressor{}
)

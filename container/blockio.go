package container

import (
	"github.com/arloliu/qstore/block"
	"github.com/arloliu/qstore/compress"
	"github.com/arloliu/qstore/internal/hash"
	"github.com/arloliu/qstore/stream"
)

// blockWriter is the subset of block.Writer/block.MTWriter the container
// layer needs: both already implement it exactly.
type blockWriter interface {
	Write(p []byte) (int, error)
	WriteValue(p []byte) error
	Flush() error
	Finish() (uint64, error)
	// Cleanup cancels and drains any background pipeline. It must be
	// called on every path that abandons the writer before Finish - a
	// no-op for the single-worker Writer, but the only way to stop
	// MTWriter's workers/assembler goroutines from blocking forever
	// (spec.md §4.7).
	Cleanup()
}

// blockReader is the subset of block.Reader/block.MTReader the container
// layer needs.
type blockReader interface {
	Read(p []byte) (int, error)
	Digest() uint64
	// Cleanup cancels and drains any background pipeline, mirroring
	// blockWriter.Cleanup for the read side.
	Cleanup()
}

var (
	_ blockWriter = (*block.Writer)(nil)
	_ blockWriter = (*block.MTWriter)(nil)
	_ blockReader = (*block.Reader)(nil)
	_ blockReader = (*block.MTReader)(nil)
)

// newCompressor picks the shuffle-adaptive path or the plain codec,
// according to Options.Shuffle (spec.md §4.4).
func newCompressor(opts Options) block.Compressor {
	codec := compress.NewZstdCompressor()
	if opts.Shuffle {
		return compress.NewShuffleCompressor(codec)
	}

	return block.NoShuffle{Codec: codec}
}

// newBlockWriter picks the single- or multi-worker framing path,
// according to Options.NThreads (spec.md §4.7/§4.8).
func newBlockWriter(w stream.Writer, opts Options) blockWriter {
	c := newCompressor(opts)
	if opts.NThreads > 1 {
		return block.NewMTWriter(w, c, opts.CompressLevel, opts.NThreads)
	}

	return block.NewWriter(w, c, opts.CompressLevel)
}

// newBlockReader mirrors newBlockWriter for the read side. hp is non-nil
// only when the caller wants the digest accumulated while streaming
// (Options.ValidateHash), sparing the common decode-only path the xxhash
// work.
func newBlockReader(r stream.Reader, opts Options) blockReader {
	c := newCompressor(opts)

	var hp *hash.Hasher
	if opts.ValidateHash {
		hp = hash.New()
	}

	if opts.NThreads > 1 {
		return block.NewMTReader(r, c, hp, opts.NThreads)
	}

	return block.NewReader(r, c, hp)
}

package compress

// ZstdCompressor is the container format's only codec. Compression
// level is passed per call (spec.md's container.Options.CompressLevel),
// so unlike a fixed-level pool there is no per-instance configuration to
// hold; the struct exists to carry the Codec implementation and give
// callers a concrete, zero-value-usable type.
type ZstdCompressor struct{}

var _ Codec = ZstdCompressor{}

// NewZstdCompressor creates a zstd codec. The returned value is safe for
// concurrent use from multiple goroutines.
func NewZstdCompressor() ZstdCompressor {
	return ZstdCompressor{}
}

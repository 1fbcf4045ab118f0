//go:build qstore_cgo

package compress

import "github.com/valyala/gozstd"

// Compress implements Codec using valyala/gozstd's cgo bindings to the
// real libzstd, for builds that opt into cgo with -tags qstore_cgo for
// the extra throughput headroom it gives at high compression levels.
func (c ZstdCompressor) Compress(dst, src []byte, level int) int {
	out := gozstd.CompressLevel(dst[:0], src, level)
	if cap(out) > cap(dst) {
		return 0
	}

	return len(out)
}

// Decompress implements Codec via gozstd.
func (c ZstdCompressor) Decompress(dst, src []byte) int {
	if len(src) == 0 {
		return 0
	}

	out, err := gozstd.Decompress(dst[:0], src)
	if err != nil {
		return 0
	}
	if cap(out) > cap(dst) {
		return 0
	}

	return len(out)
}

//go:build !qstore_cgo

package compress

import (
	"fmt"
	"sync"

	"github.com/klauspost/compress/zstd"
)

// encoderPools holds one sync.Pool per distinct zstd level seen so far.
// Encoders are expensive to construct (they allocate internal window
// buffers), so callers reusing the same level across many blocks - the
// normal case, since container.Options.CompressLevel is fixed for a
// whole Save/Load call - get a warmed-up encoder back.
var encoderPools sync.Map // map[int]*sync.Pool

var decoderPool = sync.Pool{
	New: func() any {
		d, err := zstd.NewReader(nil,
			zstd.WithDecoderConcurrency(1),
			zstd.WithDecoderLowmem(false),
		)
		if err != nil {
			panic(fmt.Sprintf("compress: failed to create zstd decoder: %v", err))
		}

		return d
	},
}

func encoderPoolFor(level int) *sync.Pool {
	if p, ok := encoderPools.Load(level); ok {
		return p.(*sync.Pool)
	}

	p := &sync.Pool{
		New: func() any {
			e, err := zstd.NewWriter(nil,
				zstd.WithEncoderLevel(zstd.EncoderLevelFromZstd(level)),
				zstd.WithEncoderCRC(false),
			)
			if err != nil {
				panic(fmt.Sprintf("compress: failed to create zstd encoder for level %d: %v", level, err))
			}

			return e
		},
	}
	actual, _ := encoderPools.LoadOrStore(level, p)

	return actual.(*sync.Pool)
}

// Compress implements Codec using the pure-Go klauspost/compress/zstd
// backend, the default build (no cgo toolchain required).
func (c ZstdCompressor) Compress(dst, src []byte, level int) int {
	pool := encoderPoolFor(level)
	enc := pool.Get().(*zstd.Encoder)
	defer pool.Put(enc)

	out := enc.EncodeAll(src, dst[:0])
	if cap(out) > cap(dst) {
		return 0
	}

	return len(out)
}

// Decompress implements Codec using the pure-Go zstd decoder.
func (c ZstdCompressor) Decompress(dst, src []byte) int {
	if len(src) == 0 {
		return 0
	}

	dec := decoderPool.Get().(*zstd.Decoder)
	defer decoderPool.Put(dec)

	out, err := dec.DecodeAll(src, dst[:0])
	if err != nil {
		return 0
	}
	if cap(out) > cap(dst) {
		return 0
	}

	return len(out)
}

package compress

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestZstdCompressor_RoundTrip(t *testing.T) {
	c := NewZstdCompressor()

	r := rand.New(rand.NewSource(7))
	src := make([]byte, 64*1024)
	_, err := r.Read(src)
	require.NoError(t, err)
	// Make it compressible: repeat a pattern over random noise.
	for i := range src {
		if i%4 != 0 {
			src[i] = src[i-i%4]
		}
	}

	dst := make([]byte, len(src)+len(src)/255+64)
	n := c.Compress(dst, src, 3)
	require.NotZero(t, n)

	out := make([]byte, len(src))
	m := c.Decompress(out, dst[:n])
	require.Equal(t, len(src), m)
	assert.Equal(t, src, out[:m])
}

func TestZstdCompressor_DecompressEmpty(t *testing.T) {
	c := NewZstdCompressor()
	dst := make([]byte, 16)
	assert.Equal(t, 0, c.Decompress(dst, nil))
}

func TestZstdCompressor_CompressUndersizedDestFails(t *testing.T) {
	c := NewZstdCompressor()

	r := rand.New(rand.NewSource(9))
	src := make([]byte, 1<<20)
	_, err := r.Read(src)
	require.NoError(t, err)

	dst := make([]byte, 4) // far too small for incompressible random data
	n := c.Compress(dst, src, 3)
	assert.Zero(t, n)
}

func TestZstdCompressor_DecompressCorruptInputFails(t *testing.T) {
	c := NewZstdCompressor()
	dst := make([]byte, 1024)
	n := c.Decompress(dst, []byte{0x00, 0x01, 0x02, 0x03})
	assert.Zero(t, n)
}

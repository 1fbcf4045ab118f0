package block

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arloliu/qstore/compress"
	"github.com/arloliu/qstore/internal/hash"
	"github.com/arloliu/qstore/stream"
)

func TestMTWriterMTReader_RoundTrip_NoShuffle(t *testing.T) {
	codec := NoShuffle{Codec: compress.NewZstdCompressor()}
	mw := stream.NewMemWriter(0)
	w := NewMTWriter(mw, codec, 3, 4)

	r := rand.New(rand.NewSource(2))
	src := make([]byte, 5*1024*1024+999) // spans many blocks plus a remainder
	_, err := r.Read(src)
	require.NoError(t, err)

	n, err := w.Write(src)
	require.NoError(t, err)
	require.Equal(t, len(src), n)

	writeDigest, err := w.Finish()
	require.NoError(t, err)

	mr := stream.NewMemReader(mw.Bytes())
	hp := hash.New()
	reader := NewMTReader(mr, codec, hp, 4)

	got := readAllMT(t, reader, len(src))
	assert.Equal(t, src, got)
	assert.Equal(t, writeDigest, reader.Digest())
}

func TestMTWriterMTReader_RoundTrip_ShuffleAdaptive(t *testing.T) {
	codec := compress.NewShuffleCompressor(compress.NewZstdCompressor())
	mw := stream.NewMemWriter(0)
	w := NewMTWriter(mw, codec, 3, 3)

	src := make([]byte, 3*1024*1024)
	for i := range src {
		src[i] = byte((i / 8) % 7) // columnar-ish, favors shuffle
	}

	_, err := w.Write(src)
	require.NoError(t, err)
	_, err = w.Finish()
	require.NoError(t, err)

	mr := stream.NewMemReader(mw.Bytes())
	reader := NewMTReader(mr, codec, nil, 3)

	got := readAllMT(t, reader, len(src))
	assert.Equal(t, src, got)
}

func TestMTWriterMTReader_MatchesSingleWorkerOutput(t *testing.T) {
	codec := NoShuffle{Codec: compress.NewZstdCompressor()}

	r := rand.New(rand.NewSource(3))
	src := make([]byte, 2*1024*1024+42)
	_, err := r.Read(src)
	require.NoError(t, err)

	stMem := stream.NewMemWriter(0)
	stW := NewWriter(stMem, codec, 3)
	_, err = stW.Write(src)
	require.NoError(t, err)
	stDigest, err := stW.Finish()
	require.NoError(t, err)

	mtMem := stream.NewMemWriter(0)
	mtW := NewMTWriter(mtMem, codec, 3, 4)
	_, err = mtW.Write(src)
	require.NoError(t, err)
	mtDigest, err := mtW.Finish()
	require.NoError(t, err)

	// nThreads affects scheduling only, never the bytes on the wire or
	// the digest: both paths frame the same blocks in the same order.
	assert.Equal(t, stMem.Bytes(), mtMem.Bytes())
	assert.Equal(t, stDigest, mtDigest)
}

func TestMTReader_TruncatedStreamReportsError(t *testing.T) {
	codec := NoShuffle{Codec: compress.NewZstdCompressor()}
	mw := stream.NewMemWriter(0)
	w := NewMTWriter(mw, codec, 3, 2)

	_, err := w.Write(make([]byte, 1024))
	require.NoError(t, err)
	_, err = w.Finish()
	require.NoError(t, err)

	truncated := mw.Bytes()[:2] // partial size word only
	mr := stream.NewMemReader(truncated)
	reader := NewMTReader(mr, codec, nil, 2)

	buf := make([]byte, 16)
	_, err = reader.Read(buf)
	assert.Error(t, err)
}

func readAllMT(t *testing.T, r *MTReader, n int) []byte {
	t.Helper()
	out := make([]byte, 0, n)
	buf := make([]byte, 4096)
	for len(out) < n {
		k, err := r.Read(buf)
		out = append(out, buf[:k]...)
		if k == 0 && err != nil {
			break
		}
		require.NoError(t, err)
	}

	return out
}

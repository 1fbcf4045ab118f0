package stream

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemWriterReader_RoundTrip(t *testing.T) {
	w := NewMemWriter(0)
	assert.True(t, w.IsValid())

	n := w.Write([]byte("hello"))
	assert.Equal(t, 5, n)
	assert.EqualValues(t, 5, w.Tell())

	m := WriteInteger[uint32](w, 0xDEADBEEF)
	assert.Equal(t, 4, m)

	r := NewMemReader(w.Bytes())
	buf := make([]byte, 5)
	assert.Equal(t, 5, r.Read(buf))
	assert.Equal(t, "hello", string(buf))

	v, ok := ReadInteger[uint32](r)
	require.True(t, ok)
	assert.EqualValues(t, 0xDEADBEEF, v)
}

func TestMemWriter_GrowthAndSeekPatch(t *testing.T) {
	w := NewMemWriter(4)
	for i := 0; i < 100; i++ {
		w.Write([]byte{byte(i)})
	}
	assert.Equal(t, 100, len(w.Bytes()))

	require.NoError(t, w.Seek(0))
	WriteInteger[uint8](w, 0xFF)
	assert.Equal(t, byte(0xFF), w.Bytes()[0])
	assert.Equal(t, byte(1), w.Bytes()[1])
}

func TestMemWriter_Release(t *testing.T) {
	w := NewMemWriter(0)
	w.Write([]byte("abc"))
	released := w.Release()
	assert.Equal(t, []byte("abc"), released)
	assert.Equal(t, 0, len(w.Bytes()))
}

func TestMemReader_SeekClampsToLength(t *testing.T) {
	r := NewMemReader([]byte("abcdef"))
	require.NoError(t, r.Seek(1000))
	assert.EqualValues(t, 6, r.Tell())
	assert.Equal(t, 0, r.Read(make([]byte, 4)))
}

func TestFileWriterReader_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "container.bin")

	w, err := CreateFileWriter(path)
	require.NoError(t, err)
	require.True(t, w.IsValid())

	w.Write([]byte("payload"))
	WriteInteger[uint64](w, 123456789)
	require.NoError(t, w.Close())

	r, err := OpenFileReader(path)
	require.NoError(t, err)
	defer r.Close()

	buf := make([]byte, len("payload"))
	assert.Equal(t, len(buf), r.Read(buf))
	assert.Equal(t, "payload", string(buf))

	v, ok := ReadInteger[uint64](r)
	require.True(t, ok)
	assert.EqualValues(t, 123456789, v)
}

func TestFileReader_Seek(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seek.bin")
	require.NoError(t, os.WriteFile(path, []byte("0123456789"), 0o644))

	r, err := OpenFileReader(path)
	require.NoError(t, err)
	defer r.Close()

	require.NoError(t, r.Seek(5))
	buf := make([]byte, 5)
	assert.Equal(t, 5, r.Read(buf))
	assert.Equal(t, "56789", string(buf))
}

func TestOpenFileReader_MissingFileIsInvalid(t *testing.T) {
	r, err := OpenFileReader(filepath.Join(t.TempDir(), "does-not-exist"))
	assert.Error(t, err)
	assert.False(t, r.IsValid())
}

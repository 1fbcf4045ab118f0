package qstore

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/qstore/qdata"
)

// TestSaveLoad verifies the top-level wrappers round-trip through NewOptions.
func TestSaveLoad(t *testing.T) {
	opts, err := NewOptions(WithCompressLevel(3), WithShuffle(true))
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "top.qdata")
	v := qdata.NewNumeric([]float64{1, 2, 3})

	require.NoError(t, Save(path, v, opts))

	got, err := Load(path, opts)
	require.NoError(t, err)
	require.Equal(t, v.Numeric(), got.Numeric())

	require.NoError(t, ValidateFile(path))
}

// TestSerializeDeserialize verifies the in-memory wrappers round-trip.
func TestSerializeDeserialize(t *testing.T) {
	opts, err := NewOptions()
	require.NoError(t, err)

	v := qdata.NewInteger([]int32{1, 2, 3})
	data, err := Serialize(v, opts)
	require.NoError(t, err)

	got, err := Deserialize(data, opts)
	require.NoError(t, err)
	require.Equal(t, v.Integer(), got.Integer())
}

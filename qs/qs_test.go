package qs

import (
	"bytes"
	"encoding/gob"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Name   string
	Values []int
}

func TestSaveLoad_GobOpaqueCodec_RoundTrip(t *testing.T) {
	gob.Register(sample{})

	var buf bytes.Buffer
	v := sample{Name: "x", Values: []int{1, 2, 3}}
	require.NoError(t, Save(&buf, v, GobOpaqueCodec{}))

	got, err := Load(&buf, GobOpaqueCodec{})
	require.NoError(t, err)
	assert.Equal(t, v, got)
}

func TestSaveLoad_EmptyValue(t *testing.T) {
	gob.Register([]any(nil))

	var buf bytes.Buffer
	require.NoError(t, Save(&buf, []any{}, GobOpaqueCodec{}))

	got, err := Load(&buf, GobOpaqueCodec{})
	require.NoError(t, err)
	assert.Equal(t, []any{}, got)
}

// Package qstore provides a block-compressed binary container format for
// serializing self-describing, R-style tagged values (QDATA) or an
// externally-supplied opaque byte stream (QS) to a file or an in-memory
// buffer.
//
// # Core Features
//
//   - Self-describing QDATA container: nested lists, attributes, and
//     numeric/integer/logical/complex/character/raw vectors with NA support
//   - Opaque QS container: a single externally-encoded blob (e.g. gob,
//     JSON) tunneled through the same framing and compression
//   - Zstd block compression with an optional byte-shuffle pre-filter
//   - Single- and multi-worker block writers/readers (Options.NThreads)
//   - A trailer content hash, checked inline during decode or standalone
//     via ValidateFile
//
// # Basic Usage
//
// Saving and loading a QDATA value:
//
//	import "github.com/arloliu/qstore"
//	import "github.com/arloliu/qstore/qdata"
//
//	opts, _ := qstore.NewOptions(qstore.WithCompressLevel(6))
//	v := qdata.NewNumeric([]float64{1, 2, 3})
//	err := qstore.Save("metrics.qdata", v, opts)
//	...
//	got, err := qstore.Load("metrics.qdata", opts)
//
// # Package Structure
//
// This package provides thin top-level wrappers around the container
// package, covering the common case. For the QS (opaque-codec) flavor,
// the lazy-string load mode, and the Dump diagnostic, use the container
// package directly.
package qstore

import (
	"github.com/arloliu/qstore/container"
	"github.com/arloliu/qstore/qdata"
)

// Options configures compression, threading, and validation behavior
// shared by Save/Load/Serialize/Deserialize. See container.Options for
// the full field list and container.NewOptions for defaults.
type Options = container.Options

// Option mutates an Options during construction.
type Option = container.Option

// NewOptions builds an Options from the package defaults plus opts,
// validating compression level and thread count (spec.md §6).
func NewOptions(opts ...Option) (Options, error) {
	return container.NewOptions(opts...)
}

// WithCompressLevel sets the zstd compression level.
func WithCompressLevel(level int) Option { return container.WithCompressLevel(level) }

// WithShuffle enables the byte-shuffle pre-filter before compression.
func WithShuffle(enabled bool) Option { return container.WithShuffle(enabled) }

// WithThreads sets the number of block-compression workers.
func WithThreads(n int) Option { return container.WithThreads(n) }

// WithValidateHash enables inline trailer-hash validation during decode.
func WithValidateHash(enabled bool) Option { return container.WithValidateHash(enabled) }

// Save writes v to path as a QDATA container.
func Save(path string, v qdata.Value, opts Options) error {
	return container.Save(path, v, opts)
}

// Load reads a QDATA container from path.
func Load(path string, opts Options) (qdata.Value, error) {
	return container.Load(path, opts)
}

// Serialize encodes v as a QDATA container entirely in memory.
func Serialize(v qdata.Value, opts Options) ([]byte, error) {
	return container.Serialize(v, opts)
}

// Deserialize reads a QDATA container out of an in-memory buffer.
func Deserialize(data []byte, opts Options) (qdata.Value, error) {
	return container.Deserialize(data, opts)
}

// ValidateFile checks a container's trailer hash without decoding its
// body.
func ValidateFile(path string) error {
	return container.ValidateFile(path)
}

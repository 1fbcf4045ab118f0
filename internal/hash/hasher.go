// Package hash provides the rolling content-hash used to compute a
// container's trailer digest.
package hash

import "github.com/cespare/xxhash/v2"

// Hasher accumulates a 64-bit digest over everything a block writer puts on
// disk (each block's size word and compressed payload) or everything a
// reader's validation pre-pass streams back off disk. It is single-writer:
// the multi-worker writer/reader paths funnel all hashing through one
// instance living on the serial writer node / read loop.
type Hasher struct {
	d *xxhash.Digest
}

// New creates a Hasher ready to accept Update calls.
func New() *Hasher {
	return &Hasher{d: xxhash.New()}
}

// Update feeds len(p) bytes into the running digest.
func (h *Hasher) Update(p []byte) {
	_, _ = h.d.Write(p)
}

// UpdateUint32 feeds the little-endian encoding of v into the running
// digest; used for the 4-byte block size word, which is hashed as written
// to disk regardless of host endianness (spec.md §4.5).
func (h *Hasher) UpdateUint32(v uint32) {
	var b [4]byte
	b[0] = byte(v)
	b[1] = byte(v >> 8)
	b[2] = byte(v >> 16)
	b[3] = byte(v >> 24)
	h.Update(b[:])
}

// Digest returns the current 64-bit digest without resetting the hasher.
func (h *Hasher) Digest() uint64 {
	return h.d.Sum64()
}

// Reset clears the hasher back to its initial state, for reuse across
// operations.
func (h *Hasher) Reset() {
	h.d.Reset()
}

//go:build amd64

package shuffle

import (
	"unsafe"

	"golang.org/x/sys/cpu"
)

// hasWidePath reports whether this host exercises the accelerated,
// word-at-a-time transpose instead of the pure byte-at-a-time scalar
// path. Real AVX2/SSE2 intrinsics require hand-written Go assembly; per
// DESIGN.md's Open Question resolution, this implementation instead
// drives the same transpose through unsafe uint64/uint32 loads, gated on
// the same CPU features the original's SIMD kernels require, so the
// dispatch structure spec.md §4.2 asks for is faithfully represented
// without risking un-reviewable assembly.
var hasWidePath = cpu.X86.HasAVX2 || cpu.X86.HasSSE2

func shuffleWide(dst, src []byte, t, n int) {
	switch t {
	case 8:
		shuffleWide8(dst, src, n)
	case 4:
		shuffleWide4(dst, src, n)
	default:
		shuffleScalar(dst, src, t, n)
	}
}

func unshuffleWide(dst, src []byte, t, n int) {
	switch t {
	case 8:
		unshuffleWide8(dst, src, n)
	case 4:
		unshuffleWide4(dst, src, n)
	default:
		unshuffleScalar(dst, src, t, n)
	}
}

// shuffleWide8 processes 8-byte elements a full word at a time: each of
// the 8 output lanes is filled by reading n consecutive uint64 elements
// and peeling off one byte from each, rather than re-deriving the byte
// offset on every inner-loop iteration.
func shuffleWide8(dst, src []byte, n int) {
	words := unsafe.Slice((*uint64)(unsafe.Pointer(&src[0])), n)
	for j := 0; j < 8; j++ {
		shift := uint(j) * 8
		lane := dst[j*n : j*n+n]
		for i, w := range words {
			lane[i] = byte(w >> shift)
		}
	}
}

func unshuffleWide8(dst, src []byte, n int) {
	words := unsafe.Slice((*uint64)(unsafe.Pointer(&dst[0])), n)
	for i := range words {
		words[i] = 0
	}
	for j := 0; j < 8; j++ {
		shift := uint(j) * 8
		lane := src[j*n : j*n+n]
		for i, b := range lane {
			words[i] |= uint64(b) << shift
		}
	}
}

func shuffleWide4(dst, src []byte, n int) {
	words := unsafe.Slice((*uint32)(unsafe.Pointer(&src[0])), n)
	for j := 0; j < 4; j++ {
		shift := uint(j) * 8
		lane := dst[j*n : j*n+n]
		for i, w := range words {
			lane[i] = byte(w >> shift)
		}
	}
}

func unshuffleWide4(dst, src []byte, n int) {
	words := unsafe.Slice((*uint32)(unsafe.Pointer(&dst[0])), n)
	for i := range words {
		words[i] = 0
	}
	for j := 0; j < 4; j++ {
		shift := uint(j) * 8
		lane := src[j*n : j*n+n]
		for i, b := range lane {
			words[i] |= uint32(b) << shift
		}
	}
}

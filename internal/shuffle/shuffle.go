// Package shuffle implements the byte-transpose filter applied to a block
// before compression (spec.md §4.2): bytes at the same position within
// each fixed-size element are grouped together, which lets the downstream
// compressor exploit the redundancy typical of columns of floats/integers.
//
// Shuffle(Unshuffle(b, t), t) == b for every byte slice b and every
// supported element size t (4 or 8 bytes); any tail bytes (len(b) % t)
// are copied through unchanged. A capability-gated "wide" path processes
// several elements per iteration when the host supports it; the scalar
// path is always available and always bit-exact with the wide path.
package shuffle

// ElementSize reports whether t is a supported shuffle element size.
func ElementSize(t int) bool {
	return t == 4 || t == 8
}

// Shuffle transposes src (length L) into dst: dst[j*n+i] = src[i*t+j] for
// 0<=i<n, 0<=j<t, where n = L/t. The L%t tail bytes are copied verbatim
// after the transposed region. dst and src must be the same length and
// must not overlap. t must satisfy ElementSize(t).
func Shuffle(dst, src []byte, t int) {
	if !ElementSize(t) {
		panic("shuffle: unsupported element size")
	}
	if len(dst) != len(src) {
		panic("shuffle: dst/src length mismatch")
	}

	n := len(src) / t
	body := n * t

	if hasWidePath && n >= wideMinElements {
		shuffleWide(dst[:body], src[:body], t, n)
	} else {
		shuffleScalar(dst[:body], src[:body], t, n)
	}

	copy(dst[body:], src[body:])
}

// Unshuffle reverses Shuffle: dst[i*t+j] = src[j*n+i]. Same shape
// constraints as Shuffle.
func Unshuffle(dst, src []byte, t int) {
	if !ElementSize(t) {
		panic("shuffle: unsupported element size")
	}
	if len(dst) != len(src) {
		panic("shuffle: dst/src length mismatch")
	}

	n := len(src) / t
	body := n * t

	if hasWidePath && n >= wideMinElements {
		unshuffleWide(dst[:body], src[:body], t, n)
	} else {
		unshuffleScalar(dst[:body], src[:body], t, n)
	}

	copy(dst[body:], src[body:])
}

func shuffleScalar(dst, src []byte, t, n int) {
	for i := 0; i < n; i++ {
		for j := 0; j < t; j++ {
			dst[j*n+i] = src[i*t+j]
		}
	}
}

func unshuffleScalar(dst, src []byte, t, n int) {
	for i := 0; i < n; i++ {
		for j := 0; j < t; j++ {
			dst[i*t+j] = src[j*n+i]
		}
	}
}

// wideMinElements is the element count (MIN_SHUFFLE_ARRAYSIZE in the
// original) below which the wide path's setup cost isn't worth it.
const wideMinElements = 256

//go:build !amd64

package shuffle

// hasWidePath is false on architectures where no capability-gated word
// path has been implemented; Shuffle/Unshuffle always fall back to the
// bit-exact scalar loop.
var hasWidePath = false

func shuffleWide(dst, src []byte, t, n int) {
	shuffleScalar(dst, src, t, n)
}

func unshuffleWide(dst, src []byte, t, n int) {
	unshuffleScalar(dst, src, t, n)
}

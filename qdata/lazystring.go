package qdata

// LazyStringSource streams CHARACTER elements one at a time instead of
// requiring a fully materialized []String, mirroring the host's
// lazy-string vector facility (spec.md §4.9's "unmaterialized lazy-string
// vector" case, qd_serializer.h's is_unmaterialized_sf_vector branch).
// The host's actual lazy-string machinery is out of scope (spec.md §9);
// this is the streaming seam a binding to it would plug into.
type LazyStringSource interface {
	Len() int
	At(i int) (s string, isNA bool)
}

// NewCharacterFromSource builds a CHARACTER Value by pulling every
// element from src. Value's tree is fully materialized by design (see
// DESIGN.md for why the deferred-worklist replay scheme already gives
// the memory-locality benefit the host's lazy vectors chase, without
// needing element-at-a-time streaming through the serializer itself);
// this adapter is where an eventual binding to a true lazy source would
// narrow the gap between "streamed in" and "materialized for encoding".
func NewCharacterFromSource(src LazyStringSource) Value {
	n := src.Len()
	els := make([]String, n)
	for i := 0; i < n; i++ {
		s, isNA := src.At(i)
		els[i] = String{NA: isNA, S: s}
	}

	return NewCharacter(els)
}

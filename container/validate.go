package container

import (
	"fmt"
	"io"

	"github.com/arloliu/qstore/format"
	"github.com/arloliu/qstore/stream"
)

// peekHeader parses and validates a header without committing to
// either container flavor, accepting whichever flavor the magic names
// (used by ValidateFile/Dump, which operate on either kind).
func peekHeader(r stream.Reader) (format.Header, error) {
	buf := make([]byte, format.HeaderSize)
	if n := r.Read(buf); n != len(buf) {
		return format.Header{}, format.ErrTruncatedInput
	}

	h, err := format.DecodeHeader(buf)
	if err != nil {
		return format.Header{}, err
	}
	if err := h.Validate(h.Kind()); err != nil {
		return format.Header{}, err
	}

	return h, nil
}

// ValidateFile checks a container's trailer hash without decoding its
// body: a direct, low-risk port of qx_read_hash.h's standalone
// integrity check (spec.md §4.11, SPEC_FULL.md §11). It opens path,
// validates the header, streams the remainder through a fresh hasher,
// and compares the result against the header's stored content hash.
func ValidateFile(path string) error {
	fr, err := stream.OpenFileReader(path)
	if err != nil {
		return fmt.Errorf("%w: %v", format.ErrOpenFailure, err)
	}
	defer fr.Close()

	h, err := peekHeader(fr)
	if err != nil {
		return err
	}

	digest, err := computeTrailerHash(fr)
	if err != nil {
		return err
	}

	return compareStoredHash(h, digest)
}

// BlockInfo describes one framed block as Dump reports it, without
// decompressing its payload.
type BlockInfo struct {
	Index      int
	Offset     int64
	Compressed int
	Shuffled   bool
}

// Dump writes a human-readable report of path's header fields and block
// table (offset/compressed size/shuffle bit per block) to w, without
// decompressing any payload - useful for inspecting a corrupt or
// truncated file that won't fully decode. Grounded on qx_dump.h, whose
// original also decompresses each block to report its uncompressed
// size; this port skips that step so Dump stays usable even when a
// later block is corrupt (spec.md §11).
func Dump(path string, w io.Writer) error {
	fr, err := stream.OpenFileReader(path)
	if err != nil {
		return fmt.Errorf("%w: %v", format.ErrOpenFailure, err)
	}
	defer fr.Close()

	h, err := peekHeader(fr)
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "kind=%s format_version=%d compression=%s endian=%s shuffle=%v content_hash=%d\n",
		kindString(h.Kind()), h.FormatVersion, h.Compression, h.Endian, h.Shuffle, h.ContentHash)

	blocks, totalCompressed, err := scanBlocks(fr)
	for _, b := range blocks {
		fmt.Fprintf(w, "block[%d] offset=%d compressed=%d shuffled=%v\n",
			b.Index, b.Offset, b.Compressed, b.Shuffled)
	}
	fmt.Fprintf(w, "blocks=%d total_compressed=%d\n", len(blocks), totalCompressed)

	return err
}

// scanBlocks walks r's remaining size-word-prefixed blocks, returning
// one BlockInfo per block without decompressing any of them. A short
// read mid-stream (a truncated file) stops the scan and returns what
// was read so far alongside the truncation error, so Dump can still
// show the blocks that were intact.
func scanBlocks(r stream.Reader) ([]BlockInfo, int, error) {
	var (
		blocks []BlockInfo
		total  int
		idx    int
	)

	for {
		offset := r.Tell()

		var szBuf [4]byte
		n := r.Read(szBuf[:])
		if n == 0 {
			return blocks, total, nil
		}
		if n != len(szBuf) {
			return blocks, total, format.ErrTruncatedInput
		}

		sizeWord := stream.HostEngine.Uint32(szBuf[:])
		length, shuffled := format.DecodeSizeWord(sizeWord)

		skip := make([]byte, length)
		if n := r.Read(skip); n != length {
			return blocks, total, format.ErrTruncatedInput
		}

		blocks = append(blocks, BlockInfo{Index: idx, Offset: offset, Compressed: length, Shuffled: shuffled})
		total += length
		idx++
	}
}

func kindString(k format.Kind) string {
	switch k {
	case format.KindQS:
		return "QS"
	case format.KindQData:
		return "QDATA"
	default:
		return "unknown"
	}
}

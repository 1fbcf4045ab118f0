package qs

import (
	"io"
)

// Save encodes v through codec and writes the resulting blob to w — the
// payload a QS container's body holds. A block writer frames it as one
// compressed block unless the blob is larger than format.MaxBlockSize,
// in which case it spans several (spec.md end-to-end scenario S2).
func Save(w io.Writer, v any, codec OpaqueCodec) error {
	data, err := codec.OutBytes(v)
	if err != nil {
		return err
	}
	_, err = w.Write(data)

	return err
}

// Load drains r to the end of the opaque payload and decodes it through
// codec. r is expected to be a block.Reader/block.MTReader positioned at
// the start of the container body; both already satisfy io.Reader.
func Load(r io.Reader, codec OpaqueCodec) (any, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	return codec.InBytes(data)
}

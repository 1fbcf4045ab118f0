package qs

// OpaqueCodec is the pluggable adapter the QS format tunnels through:
// "given a writer/reader with push_data/get_data, provide byte-level
// OutBytes/InBytes entry points; no QS logic examines the bytes"
// (spec.md §9). The block layer's Writer/Reader already provide the
// push_data/get_data-shaped stream (plain io.Writer/io.Reader); a codec
// only has to turn one Go value into one opaque blob and back.
type OpaqueCodec interface {
	// OutBytes serializes v into a single opaque byte blob.
	OutBytes(v any) ([]byte, error)
	// InBytes deserializes a blob previously produced by OutBytes.
	InBytes(data []byte) (any, error)
}

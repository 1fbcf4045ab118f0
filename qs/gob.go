package qs

import (
	"bytes"
	"encoding/gob"
)

// GobOpaqueCodec is the reference OpaqueCodec: encoding/gob stands in
// for the host's native serializer (spec.md §1 excludes the real one).
// Values must be gob-encodable (registered concrete types for any
// interface fields); that restriction is GobOpaqueCodec's alone, not a
// QS format requirement.
type GobOpaqueCodec struct{}

func (GobOpaqueCodec) OutBytes(v any) ([]byte, error) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(&v); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

func (GobOpaqueCodec) InBytes(data []byte) (any, error) {
	var v any
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&v); err != nil {
		return nil, err
	}

	return v, nil
}

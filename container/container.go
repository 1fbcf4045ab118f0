// Package container ties the format, stream, block, qdata and qs
// packages together into the four entry points a caller actually uses:
// Save/Load (file-backed) and Serialize/Deserialize (in-memory), in
// both the QDATA and QS flavors, plus the ValidateFile and Dump
// diagnostic helpers (spec.md §6-§7, §9's design note, §10-§11).
package container

import (
	"fmt"

	"github.com/arloliu/qstore/format"
	"github.com/arloliu/qstore/qdata"
	"github.com/arloliu/qstore/qs"
	"github.com/arloliu/qstore/stream"
)

// Save writes v to path as a QDATA container.
func Save(path string, v qdata.Value, opts Options) error {
	fw, err := stream.CreateFileWriter(path)
	if err != nil {
		return fmt.Errorf("%w: %v", format.ErrOpenFailure, err)
	}
	defer fw.Close()

	return writeQData(fw, v, opts)
}

// Load reads a QDATA container from path.
func Load(path string, opts Options) (qdata.Value, error) {
	fr, err := stream.OpenFileReader(path)
	if err != nil {
		return qdata.Value{}, fmt.Errorf("%w: %v", format.ErrOpenFailure, err)
	}
	defer fr.Close()

	return readQData(fr, opts, nil)
}

// LoadLazy reads a QDATA container from path like Load, except every
// CHARACTER element is delivered to sink as it comes off the wire
// instead of being written into the returned Value's Character()
// slice, which is left at its zero-valued default (spec.md §4.10's lazy
// materialization mode, Options.LazyStrings). Ignored when opts.LazyStrings
// is false.
func LoadLazy(path string, opts Options, sink func(index int, s string, isNA bool)) (qdata.Value, error) {
	fr, err := stream.OpenFileReader(path)
	if err != nil {
		return qdata.Value{}, fmt.Errorf("%w: %v", format.ErrOpenFailure, err)
	}
	defer fr.Close()

	if !opts.LazyStrings {
		sink = nil
	}

	return readQData(fr, opts, sink)
}

// Serialize encodes v as a QDATA container entirely in memory.
func Serialize(v qdata.Value, opts Options) ([]byte, error) {
	mw := stream.NewMemWriter(format.HeaderSize)
	if err := writeQData(mw, v, opts); err != nil {
		return nil, err
	}

	return mw.Release(), nil
}

// Deserialize reads a QDATA container out of an in-memory buffer.
func Deserialize(data []byte, opts Options) (qdata.Value, error) {
	return readQData(stream.NewMemReader(data), opts, nil)
}

// SaveQS encodes v through codec and writes it to path as a QS
// container (a header plus the compressed blocks holding the codec's
// opaque blob: a single block unless the blob is larger than
// format.MaxBlockSize; spec.md §9's design note, end-to-end scenario S2).
func SaveQS(path string, v any, codec qs.OpaqueCodec, opts Options) error {
	fw, err := stream.CreateFileWriter(path)
	if err != nil {
		return fmt.Errorf("%w: %v", format.ErrOpenFailure, err)
	}
	defer fw.Close()

	return writeQS(fw, v, codec, opts)
}

// LoadQS reads a QS container from path and decodes it through codec.
func LoadQS(path string, codec qs.OpaqueCodec, opts Options) (any, error) {
	fr, err := stream.OpenFileReader(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", format.ErrOpenFailure, err)
	}
	defer fr.Close()

	return readQS(fr, codec, opts)
}

// SerializeQS encodes v through codec as a QS container entirely in memory.
func SerializeQS(v any, codec qs.OpaqueCodec, opts Options) ([]byte, error) {
	mw := stream.NewMemWriter(format.HeaderSize)
	if err := writeQS(mw, v, codec, opts); err != nil {
		return nil, err
	}

	return mw.Release(), nil
}

// DeserializeQS reads a QS container out of an in-memory buffer and
// decodes it through codec.
func DeserializeQS(data []byte, codec qs.OpaqueCodec, opts Options) (any, error) {
	return readQS(stream.NewMemReader(data), codec, opts)
}

func writeQData(w stream.Writer, v qdata.Value, opts Options) error {
	if err := writeHeader(w, format.KindQData, opts.Shuffle); err != nil {
		return err
	}

	bw := newBlockWriter(w, opts)
	ser := qdata.NewSerializer(bw, qdata.SerializeOptions{
		WarnUnsupportedTypes: opts.WarnUnsupportedTypes,
		Warnf:                opts.diagnostics(),
	})
	if err := ser.Serialize(v); err != nil {
		bw.Cleanup()

		return err
	}

	digest, err := bw.Finish()
	if err != nil {
		return err
	}

	return finalize(w, digest)
}

func readQData(r stream.Reader, opts Options, lazySink func(index int, s string, isNA bool)) (qdata.Value, error) {
	h, err := readHeader(r, format.KindQData)
	if err != nil {
		return qdata.Value{}, err
	}

	br := newBlockReader(r, opts)
	de := qdata.NewDeserializer(br, qdata.DeserializeOptions{LazyStringSink: lazySink})

	v, err := de.Deserialize()
	if err != nil {
		br.Cleanup()

		return qdata.Value{}, err
	}

	if opts.ValidateHash {
		if err := compareStoredHash(h, br.Digest()); err != nil {
			return qdata.Value{}, err
		}
	}

	return v, nil
}

func writeQS(w stream.Writer, v any, codec qs.OpaqueCodec, opts Options) error {
	if err := writeHeader(w, format.KindQS, opts.Shuffle); err != nil {
		return err
	}

	bw := newBlockWriter(w, opts)
	if err := qs.Save(bw, v, codec); err != nil {
		bw.Cleanup()

		return err
	}

	digest, err := bw.Finish()
	if err != nil {
		return err
	}

	return finalize(w, digest)
}

func readQS(r stream.Reader, codec qs.OpaqueCodec, opts Options) (any, error) {
	h, err := readHeader(r, format.KindQS)
	if err != nil {
		return nil, err
	}

	br := newBlockReader(r, opts)

	v, err := qs.Load(br, codec)
	if err != nil {
		br.Cleanup()

		return nil, err
	}

	if opts.ValidateHash {
		if err := compareStoredHash(h, br.Digest()); err != nil {
			return nil, err
		}
	}

	return v, nil
}

// compareStoredHash validates a digest accumulated while streaming the
// body (Options.ValidateHash's inline mode) against the header's stored
// trailer hash.
func compareStoredHash(h format.Header, digest uint64) error {
	if h.ContentHash == 0 {
		return format.ErrHashMissing
	}
	if h.ContentHash != digest {
		return format.ErrHashMismatch
	}

	return nil
}

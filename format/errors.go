// Package format defines the on-disk container layout shared by the QS and
// QDATA formats: the 24-byte file header, the framed-block size word, and
// the typed error sentinels readers/writers raise when that layout is
// violated.
package format

import "errors"

// Error kinds raised while opening, reading, or writing a container.
//
// Callers should use errors.Is against these sentinels; some are also
// wrapped with additional context via fmt.Errorf("...: %w", ...).
var (
	// ErrOpenFailure indicates the underlying file could not be opened
	// (missing directory, permissions, path too long).
	ErrOpenFailure = errors.New("qstore: failed to open file")

	// ErrBadMagicQS is returned when a QS reader encounters a QDATA magic.
	ErrBadMagicQS = errors.New("qstore: expected QS magic, found QDATA magic")

	// ErrBadMagicQData is returned when a QDATA reader encounters a QS magic.
	ErrBadMagicQData = errors.New("qstore: expected QDATA magic, found QS magic")

	// ErrUnknownMagic is returned when the header's magic bytes match
	// neither the QS nor the QDATA format.
	ErrUnknownMagic = errors.New("qstore: unrecognized container magic")

	// ErrLegacyFormat is returned when the header carries the legacy
	// (pre-v1) magic bytes, which this implementation never reads.
	ErrLegacyFormat = errors.New("qstore: legacy container format is not supported")

	// ErrUnsupportedVersion is returned when format_version exceeds the
	// version this implementation understands.
	ErrUnsupportedVersion = errors.New("qstore: unsupported format version")

	// ErrUnsupportedCompression is returned when the header's compression
	// byte names an algorithm other than zstd.
	ErrUnsupportedCompression = errors.New("qstore: unsupported compression algorithm")

	// ErrEndianMismatch is returned when the header's declared byte order
	// does not match the host's byte order.
	ErrEndianMismatch = errors.New("qstore: container endianness does not match host")

	// ErrTruncatedInput is returned on a short read of a header, a block
	// size word, or a block payload.
	ErrTruncatedInput = errors.New("qstore: truncated input")

	// ErrCorruptBlock is returned when a decompressor reports failure, or
	// a POD read finds fewer bytes remaining in the current block than
	// the POD's size.
	ErrCorruptBlock = errors.New("qstore: corrupt block")

	// ErrHashMissing is returned when the stored trailer hash is zero,
	// meaning the writer never reached finish().
	ErrHashMissing = errors.New("qstore: trailer hash missing, file was not finalized")

	// ErrHashMismatch is returned when hash validation is requested and
	// the computed digest does not match the stored one.
	ErrHashMismatch = errors.New("qstore: trailer hash mismatch")

	// ErrUnknownTypeTag is returned when a QDATA header byte falls
	// outside the defined opcode set.
	ErrUnknownTypeTag = errors.New("qstore: unknown QDATA type tag")

	// ErrInvalidArgument is returned for out-of-range compression levels,
	// unsupported thread counts, or invalid shuffle element sizes.
	ErrInvalidArgument = errors.New("qstore: invalid argument")

	// ErrUnsupportedValueType is returned by the QDATA serializer when a
	// value in the tree has a kind it has no type header for; serialization
	// stops there and the value is not replaced with Nil. An attribute
	// value of an unsupported kind never raises it: the serializer drops
	// that attribute, reporting it through the diagnostics sink when
	// warnings are enabled.
	ErrUnsupportedValueType = errors.New("qstore: unsupported value type")

	// ErrCorruptAttributes is returned when two ATTRIBUTE headers appear
	// back-to-back in the stream.
	ErrCorruptAttributes = errors.New("qstore: corrupt attribute stream")
)

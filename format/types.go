package format

import "unsafe"

// CompressionType identifies the block compression algorithm named in the
// container header. Only CompressionZstd is a legal value on disk; the
// type exists (rather than a bare bool) so the header format has room to
// grow without another breaking version bump.
type CompressionType uint8

// Endian identifies the byte order a container was written with.
type Endian uint8

const (
	// CompressionZstd is the sole supported on-disk compression algorithm.
	CompressionZstd CompressionType = 1
)

const (
	// EndianBig marks a container written on a big-endian host.
	EndianBig Endian = 1
	// EndianLittle marks a container written on a little-endian host.
	EndianLittle Endian = 2
)

func (c CompressionType) String() string {
	switch c {
	case CompressionZstd:
		return "Zstd"
	default:
		return "Unknown"
	}
}

func (e Endian) String() string {
	switch e {
	case EndianBig:
		return "Big"
	case EndianLittle:
		return "Little"
	default:
		return "Unknown"
	}
}

// HostEndian is the Endian value matching the current process's byte order.
var HostEndian = detectHostEndian()

func detectHostEndian() Endian {
	var i uint16 = 0x0100
	b := (*[2]byte)(unsafe.Pointer(&i))
	if b[0] == 0x01 {
		return EndianBig
	}

	return EndianLittle
}

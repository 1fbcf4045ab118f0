package block

import "errors"

// ErrCompressionFailed is returned when a compressor's sentinel error
// (a 0 return) surfaces while flushing a block.
var ErrCompressionFailed = errors.New("block: compression failed")

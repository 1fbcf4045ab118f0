package stream

import "errors"

// ErrNegativeSeek is returned by MemReader/MemWriter.Seek for an
// out-of-range offset.
var ErrNegativeSeek = errors.New("stream: seek offset out of range")

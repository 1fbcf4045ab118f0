package container

import (
	"fmt"
	"sync"

	"github.com/arloliu/qstore/format"
	"github.com/arloliu/qstore/internal/options"
)

// minCompressLevel/maxCompressLevel bound the zstd level range (spec.md
// §6: "-131072 to 22"); values outside must be rejected before any I/O.
const (
	minCompressLevel = -131072
	maxCompressLevel = 22
)

// Options controls one Save/Load/Serialize/Deserialize call. Unlike the
// original, which keeps these as scattered process-wide globals, Options
// is an explicit struct passed to every entry point (spec.md §9 design
// note, "Global mutable options"); GetDefaultOptions/SetDefaultOptions give
// the one remaining process-wide default a single owner.
type Options struct {
	CompressLevel        int
	Shuffle              bool
	NThreads             int
	ValidateHash         bool
	WarnUnsupportedTypes bool
	LazyStrings          bool

	// Diagnostics receives warn-level messages (currently just
	// WarnUnsupportedTypes's dropped-attribute notices). The teacher
	// carries no logging dependency in go.mod; it returns diagnostics as
	// results instead, so this mirrors that with a plain callback rather
	// than pulling one in. Defaults to a no-op.
	Diagnostics func(format string, args ...any)
}

func noopDiagnostics(string, ...any) {}

// NewOptions returns Options seeded from the current process-wide
// default, with opts applied on top.
func NewOptions(opts ...Option) (Options, error) {
	o := GetDefaultOptions()
	if err := options.Apply(&o, opts...); err != nil {
		return Options{}, err
	}

	return o, nil
}

// Option is a functional option over Options.
type Option = options.Option[*Options]

// WithCompressLevel sets the zstd compression level; must be within
// [-131072, 22].
func WithCompressLevel(level int) Option {
	return options.New(func(o *Options) error {
		if level < minCompressLevel || level > maxCompressLevel {
			return fmt.Errorf("%w: compress level %d out of range [%d, %d]",
				format.ErrInvalidArgument, level, minCompressLevel, maxCompressLevel)
		}
		o.CompressLevel = level

		return nil
	})
}

// WithShuffle enables or disables the per-block shuffle filter.
func WithShuffle(shuffle bool) Option {
	return options.NoError(func(o *Options) { o.Shuffle = shuffle })
}

// WithThreads sets the worker count for the block framing layer. 0 or 1
// selects the single-worker path; n_threads >= 2 requires the parallel
// variant (spec.md §6), which this implementation always compiles in.
func WithThreads(n int) Option {
	return options.New(func(o *Options) error {
		if n < 0 {
			return fmt.Errorf("%w: negative thread count %d", format.ErrInvalidArgument, n)
		}
		o.NThreads = n

		return nil
	})
}

// WithValidateHash enables comparing the stored trailer hash against one
// recomputed while streaming the body on Load.
func WithValidateHash(validate bool) Option {
	return options.NoError(func(o *Options) { o.ValidateHash = validate })
}

// WithWarnUnsupportedTypes enables a diagnostic callback when an
// attribute's value type cannot be carried by QDATA (it is dropped, not
// fatal).
func WithWarnUnsupportedTypes(warn bool) Option {
	return options.NoError(func(o *Options) { o.WarnUnsupportedTypes = warn })
}

// WithLazyStrings selects the lazy-string materialization mode on Load
// (spec.md §4.10's two deserializer modes).
func WithLazyStrings(lazy bool) Option {
	return options.NoError(func(o *Options) { o.LazyStrings = lazy })
}

// WithDiagnostics sets the callback that receives warn-level messages.
// A nil fn restores the no-op default.
func WithDiagnostics(fn func(format string, args ...any)) Option {
	return options.NoError(func(o *Options) {
		if fn == nil {
			fn = noopDiagnostics
		}
		o.Diagnostics = fn
	})
}

// diagnostics returns a callable Diagnostics sink, substituting the
// no-op default for a zero-value Options that skipped NewOptions.
func (o Options) diagnostics() func(format string, args ...any) {
	if o.Diagnostics == nil {
		return noopDiagnostics
	}
	return o.Diagnostics
}

var (
	defaultMu      sync.Mutex
	defaultOptions = Options{
		CompressLevel: 3,
		Shuffle:       true,
		NThreads:      1,
		ValidateHash:  false,
		Diagnostics:   noopDiagnostics,
	}
)

// GetDefaultOptions returns a copy of the current process-wide default
// options.
func GetDefaultOptions() Options {
	defaultMu.Lock()
	defer defaultMu.Unlock()

	return defaultOptions
}

// SetDefaultOptions replaces the process-wide default options used by
// calls that don't override a given field.
func SetDefaultOptions(o Options) {
	defaultMu.Lock()
	defaultOptions = o
	defaultMu.Unlock()
}

// GetDefaultCompressLevel returns the default compression level.
func GetDefaultCompressLevel() int {
	defaultMu.Lock()
	defer defaultMu.Unlock()

	return defaultOptions.CompressLevel
}

// SetDefaultCompressLevel sets the process-wide default compression level.
func SetDefaultCompressLevel(level int) {
	defaultMu.Lock()
	defaultOptions.CompressLevel = level
	defaultMu.Unlock()
}

// GetDefaultShuffle returns the default shuffle setting.
func GetDefaultShuffle() bool {
	defaultMu.Lock()
	defer defaultMu.Unlock()

	return defaultOptions.Shuffle
}

// SetDefaultShuffle sets the process-wide default shuffle setting.
func SetDefaultShuffle(shuffle bool) {
	defaultMu.Lock()
	defaultOptions.Shuffle = shuffle
	defaultMu.Unlock()
}

// GetDefaultThreads returns the default worker count.
func GetDefaultThreads() int {
	defaultMu.Lock()
	defer defaultMu.Unlock()

	return defaultOptions.NThreads
}

// SetDefaultThreads sets the process-wide default worker count.
func SetDefaultThreads(n int) {
	defaultMu.Lock()
	defaultOptions.NThreads = n
	defaultMu.Unlock()
}

package framearena

import (
	"flag"

	"github.com/c2h5oh/datasize"
	"github.com/go-kit/log"
	"github.com/pkg/errors"
)

// DefaultBlockSize is the default block size for new arenas (1 KiB).
const DefaultBlockSize = 1 << 10

// Config holds the tunables of an arena that can come from a config file or
// command-line flags.
type Config struct {
	BlockSize datasize.ByteSize `yaml:"block_size"`
	MaxBlocks int               `yaml:"max_blocks"`
}

// RegisterFlags registers the arena flags with the given prefix.
func (cfg *Config) RegisterFlags(prefix string, f *flag.FlagSet) {
	f.TextVar(&cfg.BlockSize, prefix+"block-size", datasize.ByteSize(DefaultBlockSize), "Size of each block in the chain, tail included.")
	f.IntVar(&cfg.MaxBlocks, prefix+"max-blocks", 0, "Maximum number of blocks a chain may allocate. 0 means unlimited.")
}

// Validate reports whether cfg describes a usable arena for any element type
// that fits next to a frame header. ValidateStack and ValidateDict also check
// the block size against a concrete element type.
func (cfg *Config) Validate() error {
	if cfg.BlockSize.Bytes() > 1<<30 {
		return errors.Wrapf(ErrInvalidConfig, "block size %s is larger than 1GB", cfg.BlockSize.HR())
	}
	if cfg.MaxBlocks < 0 {
		return errors.Wrapf(ErrInvalidConfig, "max blocks %d is negative", cfg.MaxBlocks)
	}
	if cfg.BlockSize != 0 {
		return checkBlockSize(int(cfg.BlockSize.Bytes()), layoutOf[byte]())
	}
	return nil
}

// ValidateStack reports whether NewStack[T] accepts cfg.
func ValidateStack[T any](cfg Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	return checkBlockSize(int(cfg.BlockSize.Bytes()), layoutOf[T]())
}

// ValidateDict reports whether NewDict[K, V] accepts cfg.
func ValidateDict[K comparable, V any](cfg Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	return checkBlockSize(int(cfg.BlockSize.Bytes()), pairLayout(layoutOf[K](), layoutOf[V]()))
}

// checkBlockSize fails unless a block of blockSize bytes has room for its
// tail plus either a frame header or one entry. blockSize <= 0 means
// DefaultBlockSize.
func checkBlockSize(blockSize int, entry layout) error {
	if blockSize <= 0 {
		blockSize = DefaultBlockSize
	}
	if need := max(entry.size, layoutOf[frameHeader]().size); blockSize-tailSize < need {
		return errors.Wrapf(ErrInvalidConfig, "block size %d cannot hold a %d byte tail and a %d byte entry", blockSize, tailSize, need)
	}
	return nil
}

// Options converts cfg into constructor options.
func (cfg Config) Options() []Option {
	return []Option{WithMaxBlocks(cfg.MaxBlocks)}
}

type options struct {
	maxBlocks int
	logger    log.Logger
}

// Option configures an arena at construction.
type Option func(*options)

// WithMaxBlocks caps how many blocks the chain may allocate. Growing past the
// cap is fatal. n <= 0 means unlimited.
func WithMaxBlocks(n int) Option {
	return func(o *options) {
		o.maxBlocks = n
	}
}

// WithLogger sets the logger used for block allocation and release events.
func WithLogger(logger log.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

func buildOptions(opts []Option) options {
	o := options{logger: log.NewNopLogger()}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

package lang

import (
	"io"
	"os"
	"time"

	"github.com/hushlang/hush/log"
)

// options holds interpreter configuration.
type options struct {
	logger     log.Logger
	cacheSize  int
	cacheTTL   time.Duration
	ioWorkers  int
	cpuWorkers int
	stdout     io.Writer
}

// Option configures an interpreter created by New.
type Option func(*options)

func applyDefaults() *options {
	return &options{
		cacheSize: DefaultCacheSize,
		cacheTTL:  DefaultCacheTTL,
		stdout:    os.Stdout,
	}
}

func applyOptions(opts []Option) *options {
	o := applyDefaults()

	for _, opt := range opts {
		opt(o)
	}

	return o
}

// WithLogger sets the logger used for parse and eval tracing.
func WithLogger(l log.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithCacheSize sets the operation cache capacity.
func WithCacheSize(n int) Option {
	return func(o *options) { o.cacheSize = n }
}

// WithCacheTTL sets how long cached operation results stay valid.
func WithCacheTTL(d time.Duration) Option {
	return func(o *options) { o.cacheTTL = d }
}

// WithWorkers sets the parallel pool sizes. Zero keeps a pool's default
// (min(32, NumCPU+4) for I/O, NumCPU for CPU).
func WithWorkers(ioWorkers, cpuWorkers int) Option {
	return func(o *options) {
		o.ioWorkers = ioWorkers
		o.cpuWorkers = cpuWorkers
	}
}

// WithStdout sets the writer used by the print builtin.
func WithStdout(w io.Writer) Option {
	return func(o *options) {
		if w != nil {
			o.stdout = w
		}
	}
}

package cmd

import (
	"context"
	"io"
	"os"
	"time"

	"github.com/alecthomas/kong"

	"github.com/hushlang/hush/lang"
	"github.com/hushlang/hush/log"
)

// Kong variable names shared between the CLI assembly and commands.
const (
	// ConfigPathVar carries the resolved config file path.
	ConfigPathVar = "configPath"
	// HistoryPathVar carries the resolved interactive history file path.
	HistoryPathVar = "historyPath"
)

// contextKey stores a [kong.Context] value in a [context.Context].
type contextKey struct{}

// WithContext returns a new context.Context containing the given kong.Context.
func WithContext(ctx context.Context, ktx *kong.Context) context.Context {
	return context.WithValue(ctx, contextKey{}, ktx)
}

func kongContextFrom(ctx context.Context) *kong.Context {
	ktx, ok := ctx.Value(contextKey{}).(*kong.Context)
	if !ok || ktx == nil {
		return nil
	}

	return ktx
}

// kongVar reads a named variable from the kong model in ctx.
func kongVar(ctx context.Context, name string) string {
	ktx := kongContextFrom(ctx)
	if ktx == nil {
		return ""
	}

	return ktx.Model.Vars()[name]
}

// stdinSource is the special source indicator for reading from stdin.
const stdinSource = "-"

// openSource opens a script source: a file path, or stdin for "-" and "".
// The returned closer is a no-op for stdin.
func openSource(path string) (io.Reader, func() error, error) {
	if path == "" || path == stdinSource {
		return os.Stdin, func() error { return nil }, nil
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}

	return file, file.Close, nil
}

// InterpConfig holds the interpreter tuning flags shared by run and repl.
type InterpConfig struct {
	CacheSize int           `default:"1000" help:"Operation cache capacity"    name:"cache-size"`
	CacheTTL  time.Duration `default:"5m"   help:"Operation cache entry TTL"   name:"cache-ttl"`
	IOWorkers int           `default:"0"    help:"I/O pool size (0 = default)" name:"io-workers"`
}

// NewInterp builds an interpreter from the tuning flags, logging through the
// package-level logger.
func (c *InterpConfig) NewInterp() *lang.Interp {
	return lang.New(
		lang.WithLogger(log.Default()),
		lang.WithCacheSize(c.CacheSize),
		lang.WithCacheTTL(c.CacheTTL),
		lang.WithWorkers(c.IOWorkers, 0),
	)
}

package cli

import (
	"context"
	"log/slog"
	"path/filepath"

	"github.com/alecthomas/kong"
	"github.com/pkg/profile"

	"github.com/hushlang/hush/log"
)

type pprofConfig struct {
	Mode string `default:"" enum:",cpu,mem,allocs,block,mutex,goroutine,trace,clock" help:"Enable profiling" placeholder:"mode" short:"p"`
	Dir  string `default:""                                                          help:"Profile output directory" type:"path"`
}

func (*pprofConfig) group() kong.Group {
	return kong.Group{
		Key:   "pprof",
		Title: "Profiling (pprof)",
	}
}

// start begins profile capture if a mode was selected. The returned stop
// function flushes the profile; callers defer it around command execution.
func (f *pprofConfig) start(ctx context.Context) (stop func()) {
	if f.Mode == "" {
		return func() {}
	}

	dir := f.Dir
	if dir == "" {
		dir = filepath.Join(cacheDir(), "pprof")
	}

	log.Default().DebugContext(ctx, "pprof start",
		slog.String("mode", f.Mode),
		slog.String("dir", dir),
	)

	opts := []func(*profile.Profile){
		profile.ProfilePath(dir),
		profile.Quiet,
		modeOption(f.Mode),
	}

	profiler := profile.Start(opts...)

	return func() {
		log.Default().DebugContext(ctx, "pprof stop",
			slog.String("mode", f.Mode),
			slog.String("dir", dir),
		)
		profiler.Stop()
	}
}

func modeOption(mode string) func(*profile.Profile) {
	switch mode {
	case "mem":
		return profile.MemProfile
	case "allocs":
		return profile.MemProfileAllocs
	case "block":
		return profile.BlockProfile
	case "mutex":
		return profile.MutexProfile
	case "goroutine":
		return profile.GoroutineProfile
	case "trace":
		return profile.TraceProfile
	case "clock":
		return profile.ClockProfile
	default:
		return profile.CPUProfile
	}
}

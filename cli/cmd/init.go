package cmd

import (
	"context"
	"log/slog"
	"os"

	"github.com/goccy/go-yaml"

	"github.com/hushlang/hush/log"
)

// Init generates a default configuration file.
type Init struct {
	Force bool `help:"Overwrite existing configuration file" short:"f"`
}

// defaultConfig is the flat flag-name-to-value mapping written by init.
// Keys use underscores; the config resolver accepts either spelling.
type defaultConfig struct {
	LogLevel  string `yaml:"log_level"`
	LogFormat string `yaml:"log_format"`
	LogPretty bool   `yaml:"log_pretty"`
	CacheSize int    `yaml:"cache_size"`
	CacheTTL  string `yaml:"cache_ttl"`
	IOWorkers int    `yaml:"io_workers"`
}

// Run executes the init command.
func (i *Init) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	confPath := kongVar(ctx, ConfigPathVar)
	if confPath == "" {
		panic("internal error: config path undefined")
	}

	if _, err := os.Stat(confPath); err == nil && !i.Force {
		return ErrWriteConfig.
			With(slog.String("file", confPath)).
			Wrap(ErrFileExists)
	}

	data, err := yaml.Marshal(defaultConfig{
		LogLevel:  "info",
		LogFormat: "text",
		LogPretty: true,
		CacheSize: 1000,
		CacheTTL:  "5m",
		IOWorkers: 0,
	})
	if err != nil {
		return ErrWriteConfig.
			With(slog.String("file", confPath)).
			Wrap(err)
	}

	if err := os.WriteFile(confPath, data, 0o600); err != nil {
		return ErrWriteConfig.
			With(slog.String("file", confPath)).
			Wrap(err)
	}

	log.Default().DebugContext(ctx, "initialized configuration file",
		slog.String("path", confPath),
	)

	return nil
}

package cli

import (
	"io"
	"strconv"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/goccy/go-yaml"
)

// resolveYAML is a [kong.ConfigurationLoader] for the YAML config file
// written by `hush init`. The file is a flat mapping of flag names to
// values; hyphenated flag names may use underscores in the file:
//
//	log_level: debug
//	log_format: text
//	log_pretty: true
//
// Command-line flags override config file values. A missing or malformed
// file resolves to an empty configuration rather than an error.
func resolveYAML(r io.Reader) (kong.Resolver, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return yamlConfig{}, nil
	}

	var values map[string]any

	if err := yaml.Unmarshal(data, &values); err != nil {
		return yamlConfig{}, nil
	}

	return yamlConfig(values), nil
}

// yamlConfig implements [kong.Resolver] over a flat YAML mapping.
type yamlConfig map[string]any

// Validate implements [kong.Resolver].
func (yamlConfig) Validate(*kong.Application) error { return nil }

// Resolve implements [kong.Resolver].
func (c yamlConfig) Resolve(
	_ *kong.Context,
	_ *kong.Path,
	flag *kong.Flag,
) (any, error) {
	value, ok := c[flag.Name]
	if !ok {
		value, ok = c[strings.ReplaceAll(flag.Name, "-", "_")]
	}

	if !ok {
		return nil, nil
	}

	// Kong parses flag values from strings.
	switch v := value.(type) {
	case int64:
		return strconv.FormatInt(v, 10), nil
	case uint64:
		return strconv.FormatUint(v, 10), nil
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), nil
	case bool:
		return strconv.FormatBool(v), nil
	default:
		return value, nil
	}
}

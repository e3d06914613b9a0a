package cli

import (
	"strings"
	"testing"

	"github.com/alecthomas/kong"
)

func resolveFlag(t *testing.T, cfg yamlConfig, name string) any {
	t.Helper()

	v, err := cfg.Resolve(nil, nil, &kong.Flag{Value: &kong.Value{Name: name}})
	if err != nil {
		t.Fatalf("Resolve(%s) failed: %v", name, err)
	}

	return v
}

func TestResolveYAML_FlatMapping(t *testing.T) {
	resolver, err := resolveYAML(strings.NewReader(
		"log-level: debug\ncache_size: 500\nlog_pretty: true\n"))
	if err != nil {
		t.Fatalf("resolveYAML failed: %v", err)
	}

	cfg, ok := resolver.(yamlConfig)
	if !ok {
		t.Fatalf("expected yamlConfig, got %T", resolver)
	}

	if v := resolveFlag(t, cfg, "log-level"); v != "debug" {
		t.Errorf("log-level = %v", v)
	}

	// Underscored keys satisfy hyphenated flag names.
	if v := resolveFlag(t, cfg, "cache-size"); v != "500" {
		t.Errorf("cache-size = %v (%T)", v, v)
	}

	if v := resolveFlag(t, cfg, "log-pretty"); v != "true" {
		t.Errorf("log-pretty = %v (%T)", v, v)
	}

	if v := resolveFlag(t, cfg, "unset"); v != nil {
		t.Errorf("unset flag resolved to %v", v)
	}
}

func TestResolveYAML_MalformedFileResolvesEmpty(t *testing.T) {
	resolver, err := resolveYAML(strings.NewReader("not: [valid: yaml"))
	if err != nil {
		t.Fatalf("expected graceful fallback, got error: %v", err)
	}

	cfg := resolver.(yamlConfig)
	if len(cfg) != 0 {
		t.Errorf("expected empty config, got %v", cfg)
	}
}

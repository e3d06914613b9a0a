package lang

import (
	"strings"
	"testing"
)

func TestProcess_CommandOnlyBeforeStart(t *testing.T) {
	p := NewProcess("echo hi")

	if v, err := p.Property("command"); err != nil || v != "echo hi" {
		t.Errorf("command = %v, %v", v, err)
	}

	if _, err := p.Property("pid"); err == nil {
		t.Error("expected error reading pid before start")
	}

	if p.String() != "Process('echo hi')" {
		t.Errorf("unexpected rendering %s", p)
	}
}

func TestProcess_StartAndOutput(t *testing.T) {
	p := NewProcess("echo hello")

	if _, err := p.Start(); err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	out, err := p.Output()
	if err != nil {
		t.Fatalf("Output failed: %v", err)
	}

	if !strings.Contains(out["stdout"].(string), "hello") {
		t.Errorf("unexpected stdout %q", out["stdout"])
	}

	if out["exit_code"] != float64(0) {
		t.Errorf("unexpected exit code %v", out["exit_code"])
	}
}

func TestProcess_KillAfterExitSucceeds(t *testing.T) {
	p := NewProcess("true")

	if _, err := p.Start(); err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	if _, err := p.Output(); err != nil {
		t.Fatalf("Output failed: %v", err)
	}

	// The process is already down; kill reports success anyway.
	ok, err := p.Kill()
	if err != nil || ok != true {
		t.Errorf("Kill = %v, %v", ok, err)
	}
}

func TestProcess_DoubleStart(t *testing.T) {
	p := NewProcess("echo x")

	if _, err := p.Start(); err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	t.Cleanup(func() { _, _ = p.Output() })

	if _, err := p.Start(); err == nil {
		t.Error("expected error starting twice")
	}
}

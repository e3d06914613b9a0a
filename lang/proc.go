package lang

import (
	"bytes"
	"errors"
	"os"
	"os/exec"
	"strings"

	"github.com/shirou/gopsutil/v4/process"
)

// Process represents an external process. It starts in one of two states:
//
//   - unstarted: built from a command string; only `command` is readable
//     until start() runs it
//   - attached: built from a live PID; metric properties work immediately,
//     but output() is unavailable because the process is not a child
type Process struct {
	command string

	pid int32
	ps  *process.Process

	cmd    *exec.Cmd
	stdout bytes.Buffer
	stderr bytes.Buffer

	started bool
	waited  bool
}

// NewProcess creates an unstarted Process from a command string.
func NewProcess(command string) *Process {
	return &Process{command: command}
}

// AttachProcess creates a Process attached to a running PID.
func AttachProcess(pid int32) (*Process, error) {
	ps, err := process.NewProcess(pid)
	if err != nil {
		return nil, errf(ErrProcOperation, "no process with pid %d", pid)
	}

	command, _ := ps.Cmdline()

	return &Process{
		command: command,
		pid:     pid,
		ps:      ps,
		started: true,
	}, nil
}

// attachedProcess binds metric sampling to a process we started ourselves.
func attachedProcess(pid int32) *process.Process {
	ps, err := process.NewProcess(pid)
	if err != nil {
		return nil
	}

	return ps
}

// Property implements the Object interface.
func (p *Process) Property(name string) (any, error) {
	if name == "command" {
		return p.command, nil
	}

	if !p.started {
		return nil, errf(ErrProcessState,
			"process not started; only 'command' is available before start()")
	}

	switch name {
	case "pid":
		return float64(p.pid), nil

	case "name":
		if p.ps == nil {
			return procName(p.command), nil
		}

		n, err := p.ps.Name()
		if err != nil {
			return procName(p.command), nil
		}

		return n, nil

	case "status":
		if p.ps == nil {
			return "terminated", nil
		}

		status, err := p.ps.Status()
		if err != nil || len(status) == 0 {
			return "terminated", nil
		}

		return status[0], nil

	case "cpu":
		if p.ps == nil {
			return float64(0), nil
		}

		pct, err := p.ps.CPUPercent()
		if err != nil {
			return float64(0), nil
		}

		return pct, nil

	case "memory":
		if p.ps == nil {
			return float64(0), nil
		}

		info, err := p.ps.MemoryInfo()
		if err != nil || info == nil {
			return float64(0), nil
		}

		// Resident set size in megabytes.
		return float64(info.RSS) / (1024 * 1024), nil

	case "is_running":
		if p.ps == nil {
			return false, nil
		}

		running, err := p.ps.IsRunning()
		if err != nil {
			return false, nil
		}

		return running, nil
	}

	return nil, noProperty(TypeProcess, name)
}

// Call implements the Object interface.
func (p *Process) Call(name string, args []any) (any, error) {
	switch name {
	case "start":
		if err := methodArity(name, args, 0); err != nil {
			return nil, err
		}

		return p.Start()

	case "kill":
		if err := methodArity(name, args, 0); err != nil {
			return nil, err
		}

		return p.Kill()

	case "output":
		if err := methodArity(name, args, 0); err != nil {
			return nil, err
		}

		return p.Output()
	}

	return nil, noMethod(TypeProcess, name)
}

// Start launches the command, capturing stdout and stderr. Starting an
// already started process is an error.
func (p *Process) Start() (*Process, error) {
	if p.started {
		return nil, errf(ErrProcessState, "process already started")
	}

	argv := strings.Fields(p.command)
	if len(argv) == 0 {
		return nil, errf(ErrProcOperation, "empty command")
	}

	p.cmd = exec.Command(argv[0], argv[1:]...)
	p.cmd.Stdout = &p.stdout
	p.cmd.Stderr = &p.stderr

	if err := p.cmd.Start(); err != nil {
		return nil, errf(ErrProcOperation,
			"cannot start '%s': %v", p.command, err)
	}

	p.pid = int32(p.cmd.Process.Pid)
	p.ps = attachedProcess(p.pid)
	p.started = true

	return p, nil
}

// Kill terminates the process. Killing one that has already exited is not an
// error; the call reports true either way once the process is down.
func (p *Process) Kill() (bool, error) {
	if !p.started {
		return false, errf(ErrProcessState, "process not started")
	}

	if p.cmd != nil && p.cmd.Process != nil {
		if err := p.cmd.Process.Kill(); err != nil &&
			!errors.Is(err, os.ErrProcessDone) {
			return false, errf(ErrProcOperation, "cannot kill pid %d: %v", p.pid, err)
		}

		return true, nil
	}

	if p.ps != nil {
		if running, _ := p.ps.IsRunning(); !running {
			return true, nil
		}

		if err := p.ps.Kill(); err != nil {
			return false, errf(ErrProcOperation, "cannot kill pid %d: %v", p.pid, err)
		}
	}

	return true, nil
}

// Output waits for the process to exit and returns its captured stdout,
// stderr, and exit code as an object.
func (p *Process) Output() (map[string]any, error) {
	if p.cmd == nil {
		return nil, errf(ErrProcessState,
			"output() requires a process launched by start()")
	}

	if !p.waited {
		p.waited = true

		// Wait's error for a nonzero exit still yields a usable state.
		if err := p.cmd.Wait(); err != nil {
			var exitErr *exec.ExitError
			if !errors.As(err, &exitErr) {
				return nil, errf(ErrProcOperation,
					"waiting for '%s': %v", p.command, err)
			}
		}
	}

	return map[string]any{
		"stdout":    p.stdout.String(),
		"stderr":    p.stderr.String(),
		"exit_code": float64(p.cmd.ProcessState.ExitCode()),
	}, nil
}

// String implements fmt.Stringer.
func (p *Process) String() string {
	if p.started {
		return "Process(pid=" + formatValue(float64(p.pid)) + ")"
	}

	return "Process('" + p.command + "')"
}

func procName(command string) string {
	argv := strings.Fields(command)
	if len(argv) == 0 {
		return ""
	}

	return argv[0]
}

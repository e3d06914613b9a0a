package lang

import (
	"runtime"
	"sync"

	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/disk"
	"github.com/shirou/gopsutil/v4/host"
	"github.com/shirou/gopsutil/v4/mem"
	"github.com/shirou/gopsutil/v4/process"
)

// System exposes host-level metrics to scripts. There is exactly one System
// value per interpreter process; every property read takes a fresh snapshot.
type System struct{}

var (
	systemOnce     sync.Once
	systemInstance *System
)

// SystemSingleton returns the process-wide System value.
func SystemSingleton() *System {
	systemOnce.Do(func() {
		systemInstance = &System{}

		// Prime the CPU sampler so the first scripted read reports a
		// meaningful interval instead of zero.
		_, _ = cpu.Percent(0, false)
	})

	return systemInstance
}

// Property implements the Object interface.
func (s *System) Property(name string) (any, error) {
	switch name {
	case "cpu":
		return s.cpuSnapshot()
	case "memory":
		return s.memorySnapshot()
	case "disk":
		return s.diskSnapshot("/")
	case "platform":
		return s.platformSnapshot()
	}

	return nil, noProperty(TypeSystem, name)
}

// Call implements the Object interface.
func (s *System) Call(name string, args []any) (any, error) {
	switch name {
	case "processes":
		if err := methodArity(name, args, 0); err != nil {
			return nil, err
		}

		return s.Processes()

	case "disk_usage":
		if err := methodArity(name, args, 1); err != nil {
			return nil, err
		}

		path, ok := args[0].(string)
		if !ok {
			return nil, errf(ErrInvalidOperand,
				"disk_usage path must be String, got %s", TypeOf(args[0]))
		}

		return s.diskSnapshot(path)
	}

	return nil, noMethod(TypeSystem, name)
}

func (s *System) cpuSnapshot() (map[string]any, error) {
	usage, err := cpu.Percent(0, false)
	if err != nil {
		return nil, errf(ErrSystemOperation, "cpu: %v", err)
	}

	pct := float64(0)
	if len(usage) > 0 {
		pct = usage[0]
	}

	return map[string]any{
		"usage": pct,
		"count": float64(runtime.NumCPU()),
	}, nil
}

func (s *System) memorySnapshot() (map[string]any, error) {
	vm, err := mem.VirtualMemory()
	if err != nil {
		return nil, errf(ErrSystemOperation, "memory: %v", err)
	}

	const gb = 1024 * 1024 * 1024

	return map[string]any{
		"total":     float64(vm.Total) / gb,
		"available": float64(vm.Available) / gb,
		"used":      float64(vm.Used) / gb,
		"percent":   vm.UsedPercent,
	}, nil
}

func (s *System) diskSnapshot(path string) (map[string]any, error) {
	usage, err := disk.Usage(path)
	if err != nil {
		return nil, errf(ErrSystemOperation, "disk usage of '%s': %v", path, err)
	}

	const gb = 1024 * 1024 * 1024

	return map[string]any{
		"path":    usage.Path,
		"total":   float64(usage.Total) / gb,
		"free":    float64(usage.Free) / gb,
		"used":    float64(usage.Used) / gb,
		"percent": usage.UsedPercent,
	}, nil
}

func (s *System) platformSnapshot() (map[string]any, error) {
	snapshot := map[string]any{
		"os":   runtime.GOOS,
		"arch": runtime.GOARCH,
	}

	info, err := host.Info()
	if err == nil {
		snapshot["hostname"] = info.Hostname
		snapshot["platform"] = info.Platform
		snapshot["version"] = info.PlatformVersion
	}

	return snapshot, nil
}

// Processes lists every visible process as an attached Process value.
// Entries that vanish mid-enumeration are skipped.
func (s *System) Processes() (*List, error) {
	all, err := process.Processes()
	if err != nil {
		return nil, errf(ErrSystemOperation, "processes: %v", err)
	}

	items := make([]any, 0, len(all))

	for _, ps := range all {
		p, err := AttachProcess(ps.Pid)
		if err != nil {
			continue
		}

		items = append(items, p)
	}

	return NewList(items), nil
}

// String implements fmt.Stringer.
func (s *System) String() string { return "System" }

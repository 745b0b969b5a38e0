package installer

import (
	"context"
	"os"
	"os/exec"

	"github.com/klauspost/cpuid/v2"
)

// System abstracts the process and host probes used by the installer.
type System interface {
	LookPath(file string) (string, error)
	Run(ctx context.Context, dir string, env []string, name string, args ...string) ([]byte, error)
	Environ() []string
	ReadFile(name string) ([]byte, error)
	LogicalCores() int
}

// RealSystem implements System using the OS.
type RealSystem struct{}

// LookPath searches PATH for an executable named file.
func (RealSystem) LookPath(file string) (string, error) {
	return exec.LookPath(file)
}

// Run executes name in dir with env and returns its combined output.
func (RealSystem) Run(ctx context.Context, dir string, env []string, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir
	if env != nil {
		cmd.Env = env
	}
	return cmd.CombinedOutput()
}

// Environ returns a copy of the process environment.
func (RealSystem) Environ() []string {
	return os.Environ()
}

// ReadFile reads the named file.
func (RealSystem) ReadFile(name string) ([]byte, error) {
	return os.ReadFile(name)
}

// LogicalCores reports the logical core count detected by cpuid, or 0 when unknown.
func (RealSystem) LogicalCores() int {
	return cpuid.CPU.LogicalCores
}

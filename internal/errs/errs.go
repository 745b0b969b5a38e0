// Package errs defines the failure taxonomy shared by every provisioning phase.
// Callers classify failures with errors.Is against the sentinels below; phase
// packages wrap them with context using fmt.Errorf and %w.
package errs

import (
	"errors"
	"fmt"
	"strings"

	"github.com/conn-castle/toolbelt/internal/messages"
)

// Sentinel errors for each failure class.
var (
	ErrUnsupportedPlatform   = errors.New(messages.ErrUnsupportedPlatform)
	ErrNetwork               = errors.New(messages.ErrNetwork)
	ErrArtifactNotFound      = errors.New(messages.ErrArtifactNotFound)
	ErrDownloadFailed        = errors.New(messages.ErrDownloadFailed)
	ErrUnpackFailed          = errors.New(messages.ErrUnpackFailed)
	ErrPayloadLayoutMismatch = errors.New(messages.ErrPayloadLayoutMismatch)
	ErrBuildFailed           = errors.New(messages.ErrBuildFailed)
	ErrMissingDependency     = errors.New(messages.ErrMissingDependency)
	ErrInvalidInput          = errors.New(messages.ErrInvalidInput)
)

// BuildError reports a failed build phase (configure, compile, install, script).
// Output holds the tail of the phase's combined output for diagnostics.
type BuildError struct {
	Phase  string
	Output string
	Err    error
}

func (e *BuildError) Error() string {
	msg := fmt.Sprintf(messages.BuildPhaseFailedFmt, e.Phase, e.Err)
	if strings.TrimSpace(e.Output) == "" {
		return msg
	}
	return msg + "\n" + e.Output
}

// Unwrap exposes both ErrBuildFailed and the underlying process error.
func (e *BuildError) Unwrap() []error {
	return []error{ErrBuildFailed, e.Err}
}

// Phase names reported on BuildError.
const (
	PhaseConfigure = "configure"
	PhaseCompile   = "compile"
	PhaseInstall   = "install"
	PhaseScript    = "script"
)

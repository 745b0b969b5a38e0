package lifecycle

import (
	"context"
	"fmt"

	"github.com/conn-castle/toolbelt/internal/catalog"
	"github.com/conn-castle/toolbelt/internal/errs"
	"github.com/conn-castle/toolbelt/internal/locate"
	"github.com/conn-castle/toolbelt/internal/messages"
	"github.com/conn-castle/toolbelt/internal/profile"
)

// Operation is a lifecycle action on one tool.
type Operation string

// Supported operations.
const (
	OpInstall   Operation = "install"
	OpUninstall Operation = "uninstall"
	OpRepair    Operation = "repair"
	OpConfigure Operation = "configure"
)

// ParseOperation maps a name to an Operation.
func ParseOperation(name string) (Operation, error) {
	switch op := Operation(name); op {
	case OpInstall, OpUninstall, OpRepair, OpConfigure:
		return op, nil
	default:
		return "", fmt.Errorf(messages.LifecycleUnknownOperationFmt, errs.ErrInvalidInput, name)
	}
}

// State is the observable installation state of a tool.
type State string

// Tool states.
const (
	StateAbsent    State = "absent"
	StateInstalled State = "installed"
)

// ValueSource supplies values for prompt variables during configure.
type ValueSource interface {
	Values(ctx context.Context, tool catalog.Tool, vars []catalog.Variable) (map[string]string, error)
}

// Options tune one Run.
type Options struct {
	// Reinstall forces install even when the root exists under skip-if-installed.
	Reinstall bool
	// Version pins a release instead of the latest.
	Version string
	// DryRun previews profile changes and touches nothing.
	DryRun bool
	// IgnoreLiveEnv disables the live-environment shortcut for this run.
	IgnoreLiveEnv bool
	// Reset removes an existing block before configure applies new values.
	Reset bool
	// Values pre-seeds prompt variables; missing ones are asked from ValueSource.
	Values      map[string]string
	ValueSource ValueSource
}

// Result describes what a Run did.
type Result struct {
	Operation        Operation
	Tool             string
	Root             string
	Reference        *locate.Reference
	AlreadyInstalled bool
	// Removed lists install roots and extra paths deleted by uninstall.
	Removed  []string
	Profiles profile.Report
	// Diffs holds planned profile changes for dry runs.
	Diffs []profile.Diff
	State State
}

// RepairError reports which half of a repair failed and the state it left behind.
type RepairError struct {
	Phase string
	State State
	Err   error
}

func (e *RepairError) Error() string {
	return fmt.Sprintf(messages.LifecycleRepairFailedFmt, e.Phase, e.State, e.Err)
}

func (e *RepairError) Unwrap() error {
	return e.Err
}

// Repair phases.
const (
	RepairPhaseUninstall = "uninstall"
	RepairPhaseInstall   = "install"
)

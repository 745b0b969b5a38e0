// Package lifecycle sequences platform resolution, lookup, fetch, install and
// profile reconciliation into the install, uninstall, repair and configure operations.
package lifecycle

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/conn-castle/toolbelt/internal/catalog"
	"github.com/conn-castle/toolbelt/internal/errs"
	"github.com/conn-castle/toolbelt/internal/fetch"
	"github.com/conn-castle/toolbelt/internal/locate"
	"github.com/conn-castle/toolbelt/internal/messages"
	"github.com/conn-castle/toolbelt/internal/platform"
	"github.com/conn-castle/toolbelt/internal/profile"
)

// Locator finds the artifact reference for a tool.
type Locator interface {
	Locate(ctx context.Context, tool catalog.Tool, plat platform.Platform, versionHint string) (locate.Reference, error)
}

// Fetcher downloads and unpacks a reference inside a workspace.
type Fetcher interface {
	FetchInto(ctx context.Context, ws *fetch.Workspace, ref locate.Reference) (*fetch.Payload, error)
}

// Installer places a payload into an install root.
type Installer interface {
	Install(ctx context.Context, payload *fetch.Payload, tool catalog.Tool, root string) error
}

// Config wires a Controller.
type Config struct {
	Catalog  catalog.Catalog
	Home     string
	BaseDir  string
	StateDir string
	// Profiles are the default candidate profile templates for tools that list none.
	Profiles       []string
	RespectLiveEnv bool

	Locator       Locator
	Fetcher       Fetcher
	Installer     Installer
	Platform      func() (platform.Platform, error)
	ProfileSystem profile.System
	Out           io.Writer
}

// Controller runs lifecycle operations against a catalog.
type Controller struct {
	cfg Config
	out io.Writer
}

// New returns a Controller for cfg.
func New(cfg Config) *Controller {
	out := cfg.Out
	if out == nil {
		out = io.Discard
	}
	if cfg.Platform == nil {
		cfg.Platform = func() (platform.Platform, error) { return platform.Resolve(platform.RealSystem{}) }
	}
	if cfg.ProfileSystem == nil {
		cfg.ProfileSystem = profile.RealSystem{}
	}
	return &Controller{cfg: cfg, out: out}
}

// Catalog returns the catalog the controller serves.
func (c *Controller) Catalog() catalog.Catalog {
	return c.cfg.Catalog
}

// Run executes op for the named tool. Runs that write hold the tool's lock.
func (c *Controller) Run(ctx context.Context, op Operation, name string, opts Options) (Result, error) {
	tool, err := c.tool(name)
	if err != nil {
		return Result{Operation: op, Tool: name}, err
	}
	var result Result
	run := func() error {
		var runErr error
		switch op {
		case OpInstall:
			result, runErr = c.install(ctx, tool, opts)
		case OpUninstall:
			result, runErr = c.uninstall(tool, opts)
		case OpRepair:
			result, runErr = c.repair(ctx, tool, opts)
		case OpConfigure:
			result, runErr = c.configure(ctx, tool, opts)
		default:
			runErr = fmt.Errorf(messages.LifecycleUnknownOperationFmt, errs.ErrInvalidInput, op)
		}
		return runErr
	}
	// Dry runs write nothing, the lock file included.
	if opts.DryRun {
		err = run()
	} else {
		err = withToolLock(c.cfg.StateDir, tool.Name, run)
	}
	result.Operation = op
	result.Tool = tool.Name
	if result.State == "" {
		result.State = c.State(tool)
	}
	return result, err
}

// Lookup returns the named tool or an ErrInvalidInput error listing the known names.
func (c *Controller) Lookup(name string) (catalog.Tool, error) {
	return c.tool(name)
}

// Status reports the state of the named tool.
func (c *Controller) Status(name string) (State, error) {
	tool, err := c.tool(name)
	if err != nil {
		return StateAbsent, err
	}
	return c.State(tool), nil
}

// State reports StateInstalled iff the tool's install root exists. Tools without
// an artifact are installed when any candidate profile carries their block.
func (c *Controller) State(tool catalog.Tool) State {
	if tool.ConfigureOnly() {
		for _, path := range c.ProfilePaths(tool) {
			data, err := os.ReadFile(path)
			if err == nil && profile.HasBlock(string(data), tool.BlockMarker()) {
				return StateInstalled
			}
		}
		return StateAbsent
	}
	if len(c.installedRoots(tool)) > 0 {
		return StateInstalled
	}
	return StateAbsent
}

// InstalledRoot returns the first existing install root of tool, if any.
func (c *Controller) InstalledRoot(tool catalog.Tool) (string, bool) {
	roots := c.installedRoots(tool)
	if len(roots) == 0 {
		return "", false
	}
	return roots[0], true
}

// ProfilePaths returns the expanded candidate profile files for tool.
func (c *Controller) ProfilePaths(tool catalog.Tool) []string {
	templates := tool.Profiles
	if len(templates) == 0 {
		templates = c.cfg.Profiles
	}
	vars := c.vars("")
	paths := make([]string, 0, len(templates))
	for _, tmpl := range templates {
		paths = append(paths, filepath.Clean(catalog.Expand(tmpl, vars)))
	}
	return paths
}

func (c *Controller) tool(name string) (catalog.Tool, error) {
	tool, ok := c.cfg.Catalog.Lookup(strings.TrimSpace(name))
	if !ok {
		return catalog.Tool{}, fmt.Errorf(messages.LifecycleUnknownToolFmt, errs.ErrInvalidInput, name, strings.Join(c.cfg.Catalog.Names(), ", "))
	}
	return tool, nil
}

func (c *Controller) vars(version string) catalog.Vars {
	return catalog.Vars{Home: c.cfg.Home, Base: c.cfg.BaseDir, Version: version}
}

// rootPattern returns the install root, with {version} as a glob when version is empty.
func (c *Controller) rootPattern(tool catalog.Tool, version string) string {
	if tool.ConfigureOnly() {
		return ""
	}
	return tool.RootPath(c.vars(version))
}

func (c *Controller) installedRoots(tool catalog.Tool) []string {
	pattern := c.rootPattern(tool, "")
	if pattern == "" {
		return nil
	}
	matches, err := filepath.Glob(pattern)
	if err != nil {
		return nil
	}
	return matches
}

// block builds the profile block for tool with root substituted. Prompt
// variables take their value from values and stay inactive when absent.
func (c *Controller) block(tool catalog.Tool, root string, values map[string]string) profile.Block {
	vars := c.vars("")
	vars.Root = root
	block := profile.Block{
		Marker:       tool.BlockMarker(),
		Removal:      tool.EffectiveRemoval(),
		RemovalMatch: catalog.Expand(tool.RemovalMatch, vars),
	}
	for _, v := range tool.Variables {
		value := catalog.Expand(v.Value, vars)
		if v.Prompt {
			value = values[v.Name]
		}
		block.Variables = append(block.Variables, profile.Var{Name: v.Name, Value: value, PathEntry: v.PathEntry})
	}
	return block
}

func (c *Controller) mutator(opts Options) *profile.Mutator {
	return profile.NewMutator(c.cfg.ProfileSystem, c.cfg.RespectLiveEnv && !opts.IgnoreLiveEnv)
}

// applyProfiles reconciles block across the tool's profiles, or previews it on a dry run.
func (c *Controller) applyProfiles(tool catalog.Tool, block profile.Block, opts Options, result *Result) error {
	paths := c.ProfilePaths(tool)
	m := c.mutator(opts)
	if opts.DryRun {
		diffs, err := m.Preview(block, paths, profile.ModeApply)
		result.Diffs = append(result.Diffs, diffs...)
		return err
	}
	result.Profiles = m.Apply(block, paths)
	c.reportProfiles(result.Profiles)
	return result.Profiles.Err()
}

func (c *Controller) removeProfiles(tool catalog.Tool, block profile.Block, opts Options, result *Result) error {
	paths := c.ProfilePaths(tool)
	m := c.mutator(opts)
	if opts.DryRun {
		diffs, err := m.Preview(block, paths, profile.ModeRemove)
		result.Diffs = append(result.Diffs, diffs...)
		return err
	}
	result.Profiles = m.Remove(block, paths)
	c.reportProfiles(result.Profiles)
	return result.Profiles.Err()
}

func (c *Controller) reportProfiles(report profile.Report) {
	for _, f := range report.Files {
		if f.Status == profile.StatusMissing {
			continue
		}
		_, _ = fmt.Fprintf(c.out, messages.LifecycleProfileStatusFmt, f.Path, f.Status)
		if f.Note != "" {
			_, _ = fmt.Fprintf(c.out, messages.LifecycleProfileNoteFmt, f.Note)
		}
	}
}

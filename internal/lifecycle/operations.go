package lifecycle

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/conn-castle/toolbelt/internal/catalog"
	"github.com/conn-castle/toolbelt/internal/errs"
	"github.com/conn-castle/toolbelt/internal/fetch"
	"github.com/conn-castle/toolbelt/internal/messages"
)

func (c *Controller) install(ctx context.Context, tool catalog.Tool, opts Options) (Result, error) {
	result := Result{}
	if tool.ConfigureOnly() {
		return result, c.applyProfiles(tool, c.block(tool, "", nil), opts, &result)
	}

	if existing, ok := c.InstalledRoot(tool); ok && tool.EffectivePolicy() == catalog.PolicySkipIfInstalled && !opts.Reinstall {
		_, _ = fmt.Fprintf(c.out, messages.LifecycleAlreadyInstalledFmt, tool.Name, existing)
		result.Root = existing
		result.AlreadyInstalled = true
		return result, c.applyProfiles(tool, c.block(tool, existing, nil), opts, &result)
	}

	plat, err := c.cfg.Platform()
	if err != nil {
		return result, err
	}
	if c.cfg.Locator == nil {
		return result, fmt.Errorf(messages.LifecycleNotConfiguredFmt, "locator")
	}
	ref, err := c.cfg.Locator.Locate(ctx, tool, plat, opts.Version)
	if err != nil {
		return result, err
	}
	result.Reference = &ref
	root := c.rootPattern(tool, ref.Version)
	if strings.ContainsAny(root, "*?[") {
		return result, fmt.Errorf(messages.LifecycleUnresolvedRootFmt, errs.ErrInvalidInput, tool.Name, tool.Root)
	}
	result.Root = root
	_, _ = fmt.Fprintf(c.out, messages.LifecycleInstallingFmt, tool.Name, versionLabel(ref.Version), ref.Kind, plat)

	if opts.DryRun {
		_, _ = fmt.Fprintf(c.out, messages.LifecycleDryRunFetchFmt, ref.URL, root)
		return result, c.applyProfiles(tool, c.block(tool, root, nil), opts, &result)
	}

	if c.cfg.Fetcher == nil || c.cfg.Installer == nil {
		return result, fmt.Errorf(messages.LifecycleNotConfiguredFmt, "fetcher/installer")
	}
	err = fetch.WithWorkspace(ctx, c.cfg.StateDir, tool.Name, func(ctx context.Context, ws *fetch.Workspace) error {
		payload, err := c.cfg.Fetcher.FetchInto(ctx, ws, ref)
		if err != nil {
			return err
		}
		return c.cfg.Installer.Install(ctx, payload, tool, root)
	})
	if err != nil {
		return result, err
	}
	result.State = StateInstalled
	return result, c.applyProfiles(tool, c.block(tool, root, nil), opts, &result)
}

func (c *Controller) uninstall(tool catalog.Tool, opts Options) (Result, error) {
	result := Result{}
	targets := c.installedRoots(tool)
	for _, extra := range tool.ExtraPaths {
		pattern := catalog.Expand(extra, c.vars("*"))
		matches, err := filepath.Glob(pattern)
		if err != nil {
			return result, fmt.Errorf(messages.LifecycleInvalidPathFmt, errs.ErrInvalidInput, extra, err)
		}
		targets = append(targets, matches...)
	}

	for _, target := range targets {
		if opts.DryRun {
			_, _ = fmt.Fprintf(c.out, messages.LifecycleDryRunRemoveFmt, target)
			result.Removed = append(result.Removed, target)
			continue
		}
		if err := os.RemoveAll(target); err != nil && !errors.Is(err, os.ErrNotExist) {
			return result, fmt.Errorf(messages.LifecycleRemovePathFmt, target, err)
		}
		_, _ = fmt.Fprintf(c.out, messages.LifecycleRemovedFmt, target)
		result.Removed = append(result.Removed, target)
	}
	if len(targets) == 0 {
		_, _ = fmt.Fprintf(c.out, messages.LifecycleNothingInstalledFmt, tool.Name)
	}

	root := c.rootPattern(tool, "")
	return result, c.removeProfiles(tool, c.block(tool, root, nil), opts, &result)
}

func (c *Controller) repair(ctx context.Context, tool catalog.Tool, opts Options) (Result, error) {
	removed, err := c.uninstall(tool, opts)
	if err != nil {
		return removed, &RepairError{Phase: RepairPhaseUninstall, State: c.State(tool), Err: err}
	}
	installOpts := opts
	installOpts.Reinstall = true
	if rewroteProfiles(removed) {
		installOpts.IgnoreLiveEnv = true
	}
	result, err := c.install(ctx, tool, installOpts)
	result.Removed = removed.Removed
	result.Diffs = append(removed.Diffs, result.Diffs...)
	if err != nil {
		result.State = c.State(tool)
		return result, &RepairError{Phase: RepairPhaseInstall, State: result.State, Err: err}
	}
	return result, nil
}

func (c *Controller) configure(ctx context.Context, tool catalog.Tool, opts Options) (Result, error) {
	result := Result{}
	var prompts []catalog.Variable
	for _, v := range tool.Variables {
		if v.Prompt {
			prompts = append(prompts, v)
		}
	}
	if len(prompts) == 0 {
		return result, fmt.Errorf(messages.LifecycleNothingToConfigureFmt, errs.ErrInvalidInput, tool.Name)
	}

	values := make(map[string]string, len(prompts))
	var missing []catalog.Variable
	for _, v := range prompts {
		if value := strings.TrimSpace(opts.Values[v.Name]); value != "" {
			values[v.Name] = value
			continue
		}
		missing = append(missing, v)
	}
	if len(missing) > 0 && opts.ValueSource != nil {
		answers, err := opts.ValueSource.Values(ctx, tool, missing)
		if err != nil {
			return result, err
		}
		for _, v := range missing {
			if value := strings.TrimSpace(answers[v.Name]); value != "" {
				values[v.Name] = value
			}
		}
	}
	for _, v := range prompts {
		if values[v.Name] == "" {
			return result, fmt.Errorf(messages.LifecycleEmptyValueFmt, errs.ErrInvalidInput, v.Name)
		}
	}

	root := ""
	if !tool.ConfigureOnly() {
		root = c.rootPattern(tool, "")
		if existing, ok := c.InstalledRoot(tool); ok {
			root = existing
		}
	}
	result.Root = root
	block := c.block(tool, root, values)
	if opts.Reset {
		if err := c.removeProfiles(tool, c.block(tool, root, nil), opts, &result); err != nil {
			return result, err
		}
		if opts.DryRun {
			return result, nil
		}
		if rewroteProfiles(result) {
			opts.IgnoreLiveEnv = true
		}
	}
	return result, c.applyProfiles(tool, block, opts, &result)
}

// rewroteProfiles reports whether a removal changed, or in a dry run would
// change, a profile. The block must then be written back even when the live
// environment already carries it.
func rewroteProfiles(removal Result) bool {
	return len(removal.Profiles.Touched()) > 0 || len(removal.Diffs) > 0
}

func versionLabel(version string) string {
	if version == "" {
		return messages.LifecycleLatestLabel
	}
	return version
}

// Package installer places an unpacked payload into a tool's install root.
package installer

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/conn-castle/toolbelt/internal/catalog"
	"github.com/conn-castle/toolbelt/internal/errs"
	"github.com/conn-castle/toolbelt/internal/fetch"
	"github.com/conn-castle/toolbelt/internal/fsutil"
	"github.com/conn-castle/toolbelt/internal/messages"
)

// OutputTailLines is the number of trailing output lines kept on a BuildError.
const OutputTailLines = 40

// InstallRootEnv names the variable that tells vendor scripts where to install.
const InstallRootEnv = "TOOLBELT_INSTALL_ROOT"

// Options configure an Installer.
type Options struct {
	System   System
	Progress io.Writer
	// Jobs overrides the make parallelism; zero probes the CPU count.
	Jobs int
}

// Installer installs payloads by artifact kind.
type Installer struct {
	sys      System
	progress io.Writer
	jobs     int
}

// New returns an Installer for opts.
func New(opts Options) *Installer {
	in := &Installer{sys: opts.System, progress: opts.Progress, jobs: opts.Jobs}
	if in.sys == nil {
		in.sys = RealSystem{}
	}
	if in.progress == nil {
		in.progress = io.Discard
	}
	return in
}

// Install places payload into root according to the payload's artifact kind.
func (in *Installer) Install(ctx context.Context, payload *fetch.Payload, tool catalog.Tool, root string) error {
	if payload == nil || strings.TrimSpace(payload.Root) == "" {
		return fmt.Errorf(messages.InstallerNoPayloadFmt, errs.ErrInvalidInput, tool.Name)
	}
	if strings.TrimSpace(root) == "" || !filepath.IsAbs(root) {
		return fmt.Errorf(messages.InstallerInvalidRootFmt, errs.ErrInvalidInput, root)
	}
	switch payload.Ref.Kind {
	case catalog.KindPrebuilt:
		return in.installPrebuilt(payload.Root, tool, root)
	case catalog.KindSource:
		return in.installSource(ctx, payload.Root, tool, root)
	case catalog.KindScript:
		return in.installScript(ctx, payload, tool, root)
	default:
		return fmt.Errorf(messages.InstallerUnknownKindFmt, errs.ErrInvalidInput, payload.Ref.Kind)
	}
}

// BinaryPaths returns where the tool's binaries live inside root after install.
func BinaryPaths(tool catalog.Tool, root string) []string {
	paths := make([]string, 0, len(tool.Binaries))
	for _, bin := range tool.Binaries {
		if tool.CopyTree {
			paths = append(paths, filepath.Join(root, filepath.FromSlash(bin)))
			continue
		}
		paths = append(paths, filepath.Join(root, "bin", filepath.Base(filepath.FromSlash(bin))))
	}
	return paths
}

func (in *Installer) installPrebuilt(payloadRoot string, tool catalog.Tool, root string) error {
	if err := fetch.RequireEntries(payloadRoot, tool.Binaries); err != nil {
		return err
	}
	_, _ = fmt.Fprintf(in.progress, messages.InstallerCopyingFmt, tool.Name, root)
	if err := resetRoot(root); err != nil {
		return err
	}
	if tool.CopyTree {
		if err := copyTree(payloadRoot, root); err != nil {
			return fmt.Errorf(messages.InstallerCopyFmt, root, err)
		}
	} else {
		binDir := filepath.Join(root, "bin")
		if err := os.MkdirAll(binDir, 0o755); err != nil {
			return fmt.Errorf(messages.InstallerCopyFmt, root, err)
		}
		for _, bin := range tool.Binaries {
			src := filepath.Join(payloadRoot, filepath.FromSlash(bin))
			dst := filepath.Join(binDir, filepath.Base(src))
			if err := fsutil.CopyFile(src, dst, 0o755); err != nil {
				return fmt.Errorf(messages.InstallerCopyFmt, root, err)
			}
		}
	}
	return markExecutable(BinaryPaths(tool, root))
}

func (in *Installer) installSource(ctx context.Context, srcDir string, tool catalog.Tool, root string) error {
	if err := fetch.RequireEntries(srcDir, []string{"configure"}); err != nil {
		return err
	}
	if _, err := in.sys.LookPath("make"); err != nil {
		return fmt.Errorf(messages.InstallerMissingToolFmt, errs.ErrMissingDependency, "make", tool.Name)
	}
	jobs := in.jobs
	if jobs <= 0 {
		jobs = CPUCount(ctx, in.sys)
	}

	configureArgs := append([]string{"--prefix=" + root}, tool.ConfigureArgs...)
	_, _ = fmt.Fprintf(in.progress, messages.InstallerConfiguringFmt, tool.Name)
	if err := in.runPhase(ctx, errs.PhaseConfigure, srcDir, nil, filepath.Join(srcDir, "configure"), configureArgs...); err != nil {
		return err
	}
	_, _ = fmt.Fprintf(in.progress, messages.InstallerCompilingFmt, tool.Name, jobs)
	if err := in.runPhase(ctx, errs.PhaseCompile, srcDir, nil, "make", "-j"+strconv.Itoa(jobs)); err != nil {
		return err
	}
	if err := resetRoot(root); err != nil {
		return err
	}
	_, _ = fmt.Fprintf(in.progress, messages.InstallerCopyingFmt, tool.Name, root)
	if err := in.runPhase(ctx, errs.PhaseInstall, srcDir, nil, "make", "install"); err != nil {
		return err
	}
	paths := BinaryPaths(catalog.Tool{Binaries: tool.Binaries}, root)
	for i, path := range paths {
		if _, err := os.Stat(path); err != nil {
			return fmt.Errorf(messages.FetchPayloadMissingFmt, errs.ErrPayloadLayoutMismatch, "bin/"+filepath.Base(tool.Binaries[i]), root)
		}
	}
	return markExecutable(paths)
}

func (in *Installer) installScript(ctx context.Context, payload *fetch.Payload, tool catalog.Tool, root string) error {
	script := payload.Ref.Filename
	if err := fetch.RequireEntries(payload.Root, []string{script}); err != nil {
		return err
	}
	if _, err := in.sys.LookPath("sh"); err != nil {
		return fmt.Errorf(messages.InstallerMissingToolFmt, errs.ErrMissingDependency, "sh", tool.Name)
	}
	if err := resetRoot(root); err != nil {
		return err
	}
	env := append(in.sys.Environ(), InstallRootEnv+"="+root)
	_, _ = fmt.Fprintf(in.progress, messages.InstallerRunningScriptFmt, tool.Name)
	if err := in.runPhase(ctx, errs.PhaseScript, payload.Root, env, "sh", filepath.Join(payload.Root, script)); err != nil {
		return err
	}
	if _, err := os.Stat(root); err != nil {
		return fmt.Errorf(messages.InstallerScriptNoRootFmt, errs.ErrPayloadLayoutMismatch, tool.Name, root)
	}
	return nil
}

func (in *Installer) runPhase(ctx context.Context, phase string, dir string, env []string, name string, args ...string) error {
	out, err := in.sys.Run(ctx, dir, env, name, args...)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			err = ctxErr
		}
		return &errs.BuildError{Phase: phase, Output: Tail(string(out), OutputTailLines), Err: err}
	}
	return nil
}

// Tail returns the last n lines of output.
func Tail(output string, n int) string {
	lines := strings.Split(strings.TrimRight(output, "\n"), "\n")
	if len(lines) > n {
		lines = lines[len(lines)-n:]
	}
	return strings.Join(lines, "\n")
}

func resetRoot(root string) error {
	if err := os.RemoveAll(root); err != nil {
		return fmt.Errorf(messages.InstallerRemoveRootFmt, root, err)
	}
	if err := os.MkdirAll(filepath.Dir(root), 0o755); err != nil {
		return fmt.Errorf(messages.InstallerCreateRootFmt, root, err)
	}
	return nil
}

func markExecutable(paths []string) error {
	for _, path := range paths {
		if err := os.Chmod(path, 0o755); err != nil {
			return fmt.Errorf(messages.InstallerChmodFmt, path, err)
		}
	}
	return nil
}

// copyTree copies src into dst, keeping relative symlinks and masking file modes to 0755 or 0644.
func copyTree(src string, dst string) error {
	return filepath.WalkDir(src, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		target := filepath.Join(dst, rel)
		switch {
		case d.IsDir():
			return os.MkdirAll(target, 0o755)
		case d.Type()&fs.ModeSymlink != 0:
			link, err := os.Readlink(path)
			if err != nil {
				return err
			}
			return os.Symlink(link, target)
		case d.Type().IsRegular():
			info, err := d.Info()
			if err != nil {
				return err
			}
			perm := os.FileMode(0o644)
			if info.Mode().Perm()&0o111 != 0 {
				perm = 0o755
			}
			return fsutil.CopyFile(path, target, perm)
		default:
			return nil
		}
	})
}

package profile

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/conn-castle/toolbelt/internal/messages"
)

// Status is the per-file outcome of a mutation.
type Status string

// File statuses reported by Mutator.
const (
	StatusUpdated           Status = "updated"
	StatusAlreadyConfigured Status = "already-configured"
	StatusMissing           Status = "missing"
	StatusRemoved           Status = "removed"
	StatusNothingToRemove   Status = "nothing-to-remove"
	StatusFailed            Status = "failed"
	StatusSkippedLiveEnv    Status = "skipped-live-env"
)

// backupTimeLayout is the timestamp suffix of removal backups.
const backupTimeLayout = "20060102150405"

// FileResult is the outcome for one candidate profile file.
type FileResult struct {
	Path              string
	Status            Status
	Added             []string
	AlreadyConfigured []string
	Backup            string
	Note              string
	Err               error
}

// Report collects per-file results. Files are mutated independently; a failure
// in one file does not roll back another.
type Report struct {
	Files []FileResult
}

// Err joins every per-file failure, or returns nil when none failed.
func (r Report) Err() error {
	var errs []error
	for _, f := range r.Files {
		if f.Status == StatusFailed && f.Err != nil {
			errs = append(errs, fmt.Errorf(messages.ProfileFileFailedFmt, f.Path, f.Err))
		}
	}
	return errors.Join(errs...)
}

// Touched returns the paths whose content was rewritten.
func (r Report) Touched() []string {
	var out []string
	for _, f := range r.Files {
		if f.Status == StatusUpdated || f.Status == StatusRemoved {
			out = append(out, f.Path)
		}
	}
	return out
}

// Mutator applies and removes blocks across a set of profile files.
type Mutator struct {
	sys            System
	respectLiveEnv bool
}

// NewMutator returns a Mutator. When respectLiveEnv is set, Apply leaves every
// file untouched if the running process environment already satisfies the block.
func NewMutator(sys System, respectLiveEnv bool) *Mutator {
	if sys == nil {
		sys = RealSystem{}
	}
	return &Mutator{sys: sys, respectLiveEnv: respectLiveEnv}
}

// Apply inserts missing variables of block into each existing file in paths.
// Files that do not exist are reported missing and never created.
func (m *Mutator) Apply(block Block, paths []string) Report {
	var report Report
	if m.respectLiveEnv && m.LiveSatisfied(block) {
		for _, p := range paths {
			report.Files = append(report.Files, FileResult{Path: p, Status: StatusSkippedLiveEnv})
		}
		return report
	}
	for _, p := range paths {
		report.Files = append(report.Files, m.applyFile(block, p))
	}
	return report
}

// Remove excises block from each existing file in paths, writing a backup first.
func (m *Mutator) Remove(block Block, paths []string) Report {
	var report Report
	for _, p := range paths {
		report.Files = append(report.Files, m.removeFile(block, p))
	}
	return report
}

// LiveSatisfied reports whether every active variable of block is already in
// effect in the process environment.
func (m *Mutator) LiveSatisfied(block Block) bool {
	active := block.Active()
	if len(active) == 0 {
		return false
	}
	for _, v := range active {
		if v.PathEntry {
			current, _ := m.sys.LookupEnv("PATH")
			if !pathContains(current, v.Value) {
				return false
			}
			continue
		}
		current, ok := m.sys.LookupEnv(v.Name)
		if !ok || current != v.Value {
			return false
		}
	}
	return true
}

func (m *Mutator) applyFile(block Block, path string) FileResult {
	result := FileResult{Path: path}
	file, found, err := m.read(path)
	if err != nil {
		result.Status, result.Err = StatusFailed, err
		return result
	}
	if !found {
		result.Status = StatusMissing
		return result
	}

	updated, applied := Apply(file.content, block)
	result.Added = applied.Added
	result.AlreadyConfigured = applied.AlreadyConfigured
	if !applied.Changed() {
		result.Status = StatusAlreadyConfigured
		return result
	}
	if err := m.sys.WriteFileAtomic(file.target, []byte(updated), file.mode); err != nil {
		result.Status, result.Err = StatusFailed, fmt.Errorf(messages.ProfileWriteFailedFmt, file.target, err)
		return result
	}
	result.Status = StatusUpdated
	return result
}

func (m *Mutator) removeFile(block Block, path string) FileResult {
	result := FileResult{Path: path}
	file, found, err := m.read(path)
	if err != nil {
		result.Status, result.Err = StatusFailed, err
		return result
	}
	if !found {
		result.Status = StatusMissing
		return result
	}

	updated, removed := Remove(file.content, block)
	if !removed.Removed {
		result.Status = StatusNothingToRemove
		return result
	}

	backup := file.target + ".toolbelt-bak." + m.sys.Now().Format(backupTimeLayout)
	if _, err := m.sys.Stat(backup); err == nil {
		result.Note = fmt.Sprintf(messages.ProfileBackupOverwrittenFmt, backup)
	}
	if err := m.sys.WriteFileAtomic(backup, []byte(file.content), file.mode); err != nil {
		result.Status, result.Err = StatusFailed, fmt.Errorf(messages.ProfileBackupFailedFmt, backup, err)
		return result
	}
	result.Backup = backup
	if err := m.sys.WriteFileAtomic(file.target, []byte(updated), file.mode); err != nil {
		result.Status, result.Err = StatusFailed, fmt.Errorf(messages.ProfileWriteFailedFmt, file.target, err)
		return result
	}
	result.Status = StatusRemoved
	return result
}

type profileFile struct {
	target  string
	content string
	mode    os.FileMode
}

// read resolves symlinks so the link itself survives the atomic rename.
func (m *Mutator) read(path string) (profileFile, bool, error) {
	info, err := m.sys.Stat(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return profileFile{}, false, nil
		}
		return profileFile{}, false, fmt.Errorf(messages.ProfileReadFailedFmt, path, err)
	}
	if info.IsDir() {
		return profileFile{}, false, fmt.Errorf(messages.ProfileNotRegularFileFmt, path)
	}
	target, err := m.sys.EvalSymlinks(path)
	if err != nil {
		return profileFile{}, false, fmt.Errorf(messages.ProfileReadFailedFmt, path, err)
	}
	data, err := m.sys.ReadFile(target)
	if err != nil {
		return profileFile{}, false, fmt.Errorf(messages.ProfileReadFailedFmt, path, err)
	}
	return profileFile{target: target, content: string(data), mode: info.Mode().Perm()}, true, nil
}

func pathContains(pathList string, entry string) bool {
	want := filepath.Clean(entry)
	for _, dir := range strings.Split(pathList, string(os.PathListSeparator)) {
		if dir != "" && filepath.Clean(dir) == want {
			return true
		}
	}
	return false
}

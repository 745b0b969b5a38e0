// Package doctor reports on the health of a toolbelt setup: config, platform,
// directories, installed tools, profile files, and external commands.
package doctor

import (
	"errors"
	"fmt"
	"os"
	"os/exec"

	"github.com/conn-castle/toolbelt/internal/catalog"
	"github.com/conn-castle/toolbelt/internal/config"
	"github.com/conn-castle/toolbelt/internal/installer"
	"github.com/conn-castle/toolbelt/internal/lifecycle"
	"github.com/conn-castle/toolbelt/internal/messages"
	"github.com/conn-castle/toolbelt/internal/platform"
)

// Status is the outcome of one check.
type Status string

// Check outcomes.
const (
	StatusOK   Status = "OK"
	StatusWarn Status = "WARN"
	StatusFail Status = "FAIL"
)

// Result is one line of doctor output.
type Result struct {
	Status         Status
	CheckName      string
	Message        string
	Recommendation string
}

var lookPathFunc = exec.LookPath

// Dependency is an external command some install paths rely on.
type Dependency struct {
	Name   string
	Reason string
}

// Dependencies lists the commands checked by CheckDependencies.
var Dependencies = []Dependency{
	{Name: "tar", Reason: messages.DoctorNeedXZ},
	{Name: "xz", Reason: messages.DoctorNeedXZ},
	{Name: "make", Reason: messages.DoctorNeedMake},
	{Name: "sh", Reason: messages.DoctorNeedSh},
}

// HasFailure reports whether any result failed.
func HasFailure(results []Result) bool {
	for _, r := range results {
		if r.Status == StatusFail {
			return true
		}
	}
	return false
}

// CheckConfig reports which config file was used.
func CheckConfig(settings *config.Settings) []Result {
	msg := fmt.Sprintf(messages.DoctorConfigDefaultsFmt, settings.ConfigPath)
	if settings.Loaded {
		msg = fmt.Sprintf(messages.DoctorConfigLoadedFmt, settings.ConfigPath)
	}
	return []Result{{Status: StatusOK, CheckName: messages.DoctorCheckNameConfig, Message: msg}}
}

// CheckPlatform verifies that the host maps to a supported platform.
func CheckPlatform(sys platform.System) []Result {
	plat, err := platform.Resolve(sys)
	if err != nil {
		return []Result{{
			Status:         StatusFail,
			CheckName:      messages.DoctorCheckNamePlatform,
			Message:        fmt.Sprintf(messages.DoctorPlatformFailedFmt, err),
			Recommendation: messages.DoctorPlatformRecommend,
		}}
	}
	return []Result{{
		Status:    StatusOK,
		CheckName: messages.DoctorCheckNamePlatform,
		Message:   fmt.Sprintf(messages.DoctorPlatformOKFmt, plat),
	}}
}

// CheckDirectories verifies the base and state directories. A missing
// directory is a warning because install creates it.
func CheckDirectories(settings *config.Settings) []Result {
	var results []Result
	for _, dir := range []string{settings.BaseDir, settings.StateDir} {
		info, err := os.Stat(dir)
		switch {
		case errors.Is(err, os.ErrNotExist):
			results = append(results, Result{
				Status:         StatusWarn,
				CheckName:      messages.DoctorCheckNameDirectories,
				Message:        fmt.Sprintf(messages.DoctorDirMissingFmt, dir),
				Recommendation: messages.DoctorDirMissingRecommend,
			})
		case err != nil || !info.IsDir():
			results = append(results, Result{
				Status:         StatusFail,
				CheckName:      messages.DoctorCheckNameDirectories,
				Message:        fmt.Sprintf(messages.DoctorPathNotDirFmt, dir),
				Recommendation: messages.DoctorPathNotDirRecommend,
			})
		default:
			results = append(results, Result{
				Status:    StatusOK,
				CheckName: messages.DoctorCheckNameDirectories,
				Message:   fmt.Sprintf(messages.DoctorDirExistsFmt, dir),
			})
		}
	}
	return results
}

// CheckTools reports the state of every catalog tool. An install root that
// lacks one of the tool's binaries fails and recommends repair.
func CheckTools(ctrl *lifecycle.Controller) []Result {
	cat := ctrl.Catalog()
	var results []Result
	for _, name := range cat.Names() {
		tool, _ := cat.Lookup(name)
		results = append(results, checkTool(ctrl, tool))
	}
	return results
}

func checkTool(ctrl *lifecycle.Controller, tool catalog.Tool) Result {
	if ctrl.State(tool) == lifecycle.StateAbsent {
		return Result{
			Status:    StatusOK,
			CheckName: messages.DoctorCheckNameTools,
			Message:   fmt.Sprintf(messages.DoctorToolAbsentFmt, tool.Name),
		}
	}
	root, ok := ctrl.InstalledRoot(tool)
	if !ok {
		return Result{
			Status:    StatusOK,
			CheckName: messages.DoctorCheckNameTools,
			Message:   fmt.Sprintf(messages.DoctorToolConfiguredFmt, tool.Name),
		}
	}
	for _, bin := range installer.BinaryPaths(tool, root) {
		if _, err := os.Stat(bin); err != nil {
			return Result{
				Status:         StatusFail,
				CheckName:      messages.DoctorCheckNameTools,
				Message:        fmt.Sprintf(messages.DoctorToolBrokenFmt, tool.Name, bin),
				Recommendation: fmt.Sprintf(messages.DoctorToolRepairFmt, tool.Name),
			}
		}
	}
	return Result{
		Status:    StatusOK,
		CheckName: messages.DoctorCheckNameTools,
		Message:   fmt.Sprintf(messages.DoctorToolInstalledFmt, tool.Name, root),
	}
}

// CheckProfiles warns about candidate profile files that do not exist.
func CheckProfiles(paths []string) []Result {
	results := make([]Result, 0, len(paths))
	for _, path := range paths {
		if _, err := os.Stat(path); err != nil {
			results = append(results, Result{
				Status:         StatusWarn,
				CheckName:      messages.DoctorCheckNameProfiles,
				Message:        fmt.Sprintf(messages.DoctorProfileMissingFmt, path),
				Recommendation: messages.DoctorProfileRecommend,
			})
			continue
		}
		results = append(results, Result{
			Status:    StatusOK,
			CheckName: messages.DoctorCheckNameProfiles,
			Message:   fmt.Sprintf(messages.DoctorProfileExistsFmt, path),
		})
	}
	return results
}

// CheckDependencies warns about external commands missing from PATH.
func CheckDependencies(deps []Dependency) []Result {
	results := make([]Result, 0, len(deps))
	for _, dep := range deps {
		path, err := lookPathFunc(dep.Name)
		if err != nil {
			results = append(results, Result{
				Status:         StatusWarn,
				CheckName:      messages.DoctorCheckNameDependencies,
				Message:        fmt.Sprintf(messages.DoctorDependencyMissingFmt, dep.Name, dep.Reason),
				Recommendation: fmt.Sprintf(messages.DoctorDependencyRecommendFmt, dep.Name),
			})
			continue
		}
		results = append(results, Result{
			Status:    StatusOK,
			CheckName: messages.DoctorCheckNameDependencies,
			Message:   fmt.Sprintf(messages.DoctorDependencyFoundFmt, dep.Name, path),
		})
	}
	return results
}

// CheckNetwork warns when downloads are disabled.
func CheckNetwork(settings *config.Settings) []Result {
	if settings.Offline {
		return []Result{{
			Status:         StatusWarn,
			CheckName:      messages.DoctorCheckNameNetwork,
			Message:        fmt.Sprintf(messages.DoctorNetworkOfflineFmt, config.EnvNoNetwork),
			Recommendation: fmt.Sprintf(messages.DoctorNetworkOfflineRecommendFmt, config.EnvNoNetwork),
		}}
	}
	return []Result{{
		Status:    StatusOK,
		CheckName: messages.DoctorCheckNameNetwork,
		Message:   messages.DoctorNetworkOnline,
	}}
}

// Run executes every check in display order.
func Run(settings *config.Settings, sys platform.System, ctrl *lifecycle.Controller) []Result {
	var results []Result
	results = append(results, CheckConfig(settings)...)
	results = append(results, CheckPlatform(sys)...)
	results = append(results, CheckDirectories(settings)...)
	results = append(results, CheckTools(ctrl)...)
	results = append(results, CheckProfiles(settings.Profiles)...)
	results = append(results, CheckDependencies(Dependencies)...)
	results = append(results, CheckNetwork(settings)...)
	return results
}

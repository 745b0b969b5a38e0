// Package platform maps host OS and architecture strings to the canonical pair
// used to select release artifacts.
package platform

import (
	"fmt"
	"runtime"
	"strings"

	"golang.org/x/sys/unix"

	"github.com/conn-castle/toolbelt/internal/errs"
	"github.com/conn-castle/toolbelt/internal/messages"
)

// OS is a canonical operating system name.
type OS string

// Arch is a canonical CPU architecture name.
type Arch string

// Supported canonical values.
const (
	Linux OS = "linux"
	MacOS OS = "macos"

	AMD64 Arch = "x86_64"
	ARM64 Arch = "arm64"
)

// Platform is the resolved (os, arch) pair for the current run.
type Platform struct {
	OS   OS
	Arch Arch
}

func (p Platform) String() string {
	return string(p.OS) + "/" + string(p.Arch)
}

// Tokens returns the tool-specific spelling of the platform.
// osNames and archNames are keyed by canonical value; missing keys fall back to
// the canonical spelling.
func (p Platform) Tokens(osNames map[string]string, archNames map[string]string) (string, string) {
	osToken := string(p.OS)
	if v, ok := osNames[string(p.OS)]; ok && strings.TrimSpace(v) != "" {
		osToken = v
	}
	archToken := string(p.Arch)
	if v, ok := archNames[string(p.Arch)]; ok && strings.TrimSpace(v) != "" {
		archToken = v
	}
	return osToken, archToken
}

// System abstracts the host introspection needed by Resolve.
type System interface {
	Uname() (sysname string, machine string, err error)
	GOOS() string
	GOARCH() string
}

// RealSystem reads uname(2) and the Go runtime constants.
type RealSystem struct{}

// Uname returns the kernel name and machine hardware name.
func (RealSystem) Uname() (string, string, error) {
	var uts unix.Utsname
	if err := unix.Uname(&uts); err != nil {
		return "", "", err
	}
	return unix.ByteSliceToString(uts.Sysname[:]), unix.ByteSliceToString(uts.Machine[:]), nil
}

// GOOS returns runtime.GOOS.
func (RealSystem) GOOS() string { return runtime.GOOS }

// GOARCH returns runtime.GOARCH.
func (RealSystem) GOARCH() string { return runtime.GOARCH }

// Resolve queries the host once and returns its canonical platform.
// uname(2) is preferred because it reports the kernel's view (an amd64 binary
// running under Rosetta still resolves to the real machine); the Go runtime
// constants are used when uname is unavailable.
func Resolve(sys System) (Platform, error) {
	if sys == nil {
		sys = RealSystem{}
	}
	sysname, machine, err := sys.Uname()
	if err != nil || strings.TrimSpace(sysname) == "" || strings.TrimSpace(machine) == "" {
		return Canonical(sys.GOOS(), sys.GOARCH())
	}
	return Canonical(sysname, machine)
}

// Canonical maps raw OS and architecture strings to a Platform.
func Canonical(rawOS string, rawArch string) (Platform, error) {
	var p Platform
	switch strings.ToLower(strings.TrimSpace(rawOS)) {
	case "linux":
		p.OS = Linux
	case "darwin", "macos":
		p.OS = MacOS
	default:
		return Platform{}, fmt.Errorf(messages.PlatformUnsupportedOSFmt, errs.ErrUnsupportedPlatform, rawOS)
	}

	switch strings.ToLower(strings.TrimSpace(rawArch)) {
	case "x86_64", "amd64", "x64":
		p.Arch = AMD64
	case "aarch64", "arm64":
		p.Arch = ARM64
	default:
		return Platform{}, fmt.Errorf(messages.PlatformUnsupportedArchFmt, errs.ErrUnsupportedPlatform, rawArch)
	}
	return p, nil
}

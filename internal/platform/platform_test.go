package platform

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/conn-castle/toolbelt/internal/errs"
)

type fakeSystem struct {
	sysname string
	machine string
	err     error
	goos    string
	goarch  string
}

func (f fakeSystem) Uname() (string, string, error) { return f.sysname, f.machine, f.err }
func (f fakeSystem) GOOS() string                   { return f.goos }
func (f fakeSystem) GOARCH() string                 { return f.goarch }

func TestCanonical(t *testing.T) {
	tests := []struct {
		name    string
		os      string
		arch    string
		want    Platform
		wantErr bool
	}{
		{name: "linux x86_64", os: "Linux", arch: "x86_64", want: Platform{OS: Linux, Arch: AMD64}},
		{name: "linux aarch64", os: "Linux", arch: "aarch64", want: Platform{OS: Linux, Arch: ARM64}},
		{name: "darwin arm64", os: "Darwin", arch: "arm64", want: Platform{OS: MacOS, Arch: ARM64}},
		{name: "go runtime names", os: "darwin", arch: "amd64", want: Platform{OS: MacOS, Arch: AMD64}},
		{name: "windows", os: "Windows_NT", arch: "x86_64", wantErr: true},
		{name: "riscv", os: "Linux", arch: "riscv64", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Canonical(tt.os, tt.arch)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, errs.ErrUnsupportedPlatform)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResolve_PrefersUname(t *testing.T) {
	got, err := Resolve(fakeSystem{sysname: "Linux", machine: "aarch64", goos: "linux", goarch: "amd64"})
	require.NoError(t, err)
	assert.Equal(t, Platform{OS: Linux, Arch: ARM64}, got)
}

func TestResolve_FallsBackToRuntime(t *testing.T) {
	got, err := Resolve(fakeSystem{err: errors.New("no uname"), goos: "darwin", goarch: "arm64"})
	require.NoError(t, err)
	assert.Equal(t, Platform{OS: MacOS, Arch: ARM64}, got)
}

func TestTokens(t *testing.T) {
	p := Platform{OS: MacOS, Arch: AMD64}
	osToken, archToken := p.Tokens(map[string]string{"macos": "darwin"}, map[string]string{"x86_64": "amd64"})
	assert.Equal(t, "darwin", osToken)
	assert.Equal(t, "amd64", archToken)

	osToken, archToken = p.Tokens(nil, nil)
	assert.Equal(t, "macos", osToken)
	assert.Equal(t, "x86_64", archToken)
	assert.Equal(t, "macos/x86_64", p.String())
}

package doctor

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/conn-castle/toolbelt/internal/catalog"
	"github.com/conn-castle/toolbelt/internal/config"
	"github.com/conn-castle/toolbelt/internal/lifecycle"
	"github.com/conn-castle/toolbelt/internal/testutil"
)

type fakePlatform struct {
	sysname string
	machine string
	err     error
}

func (p fakePlatform) Uname() (string, string, error) { return p.sysname, p.machine, p.err }
func (p fakePlatform) GOOS() string                   { return "plan9" }
func (p fakePlatform) GOARCH() string                 { return "mips" }

func statuses(results []Result) []Status {
	out := make([]Status, len(results))
	for i, r := range results {
		out[i] = r.Status
	}
	return out
}

func TestCheckConfig(t *testing.T) {
	r := CheckConfig(&config.Settings{ConfigPath: "/h/.config/toolbelt/config.toml"})
	require.Len(t, r, 1)
	assert.Equal(t, StatusOK, r[0].Status)
	assert.Contains(t, r[0].Message, "using defaults")

	r = CheckConfig(&config.Settings{ConfigPath: "/h/tb.toml", Loaded: true})
	assert.Equal(t, "Loaded /h/tb.toml", r[0].Message)
}

func TestCheckPlatform(t *testing.T) {
	r := CheckPlatform(fakePlatform{sysname: "Linux", machine: "x86_64"})
	require.Len(t, r, 1)
	assert.Equal(t, StatusOK, r[0].Status)
	assert.Equal(t, "Resolved linux/x86_64", r[0].Message)

	r = CheckPlatform(fakePlatform{err: errors.New("no uname")})
	assert.Equal(t, StatusFail, r[0].Status)
	assert.NotEmpty(t, r[0].Recommendation)
}

func TestCheckDirectories(t *testing.T) {
	tmp := t.TempDir()
	base := filepath.Join(tmp, "base")
	require.NoError(t, os.Mkdir(base, 0o755))
	state := testutil.WriteFile(t, tmp, "state", "not a dir")

	r := CheckDirectories(&config.Settings{BaseDir: base, StateDir: state})
	assert.Equal(t, []Status{StatusOK, StatusFail}, statuses(r))

	r = CheckDirectories(&config.Settings{BaseDir: base, StateDir: filepath.Join(tmp, "missing")})
	assert.Equal(t, []Status{StatusOK, StatusWarn}, statuses(r))
	assert.False(t, HasFailure(r))
}

func TestCheckTools(t *testing.T) {
	home := t.TempDir()
	base := filepath.Join(home, ".local")
	cat := catalog.Catalog{Tools: []catalog.Tool{
		{Name: "good", Root: "{base}/good", Kinds: []catalog.Kind{catalog.KindPrebuilt}, Binaries: []string{"bin/good"}},
		{Name: "broken", Root: "{base}/broken-{version}", Kinds: []catalog.Kind{catalog.KindPrebuilt}, Binaries: []string{"bin/broken"}},
		{Name: "absent", Root: "{base}/absent", Kinds: []catalog.Kind{catalog.KindPrebuilt}},
		{Name: "router", Variables: []catalog.Variable{{Name: "ROUTER_URL", Prompt: true}}},
	}}
	testutil.WriteFile(t, base, "good/bin/good", "#!/bin/sh\n")
	require.NoError(t, os.MkdirAll(filepath.Join(base, "broken-1.2.0"), 0o755))
	rc := testutil.WriteFile(t, home, ".bashrc", "# >>> toolbelt:router >>>\nexport ROUTER_URL='x'\n")

	ctrl := lifecycle.New(lifecycle.Config{Catalog: cat, Home: home, BaseDir: base, StateDir: filepath.Join(home, "state"), Profiles: []string{rc}})
	r := CheckTools(ctrl)
	require.Len(t, r, 4)
	// Names are sorted.
	byName := map[string]Result{}
	for i, name := range []string{"absent", "broken", "good", "router"} {
		byName[name] = r[i]
	}
	assert.Equal(t, StatusOK, byName["good"].Status)
	assert.Contains(t, byName["good"].Message, "good installed at")
	assert.Equal(t, StatusFail, byName["broken"].Status)
	assert.Equal(t, "Run `tb repair broken`.", byName["broken"].Recommendation)
	assert.Equal(t, "absent not installed", byName["absent"].Message)
	assert.Equal(t, "router configured", byName["router"].Message)
	assert.True(t, HasFailure(r))
}

func TestCheckProfiles(t *testing.T) {
	home := t.TempDir()
	rc := testutil.WriteFile(t, home, ".bashrc", "")
	r := CheckProfiles([]string{rc, filepath.Join(home, ".zshrc")})
	assert.Equal(t, []Status{StatusOK, StatusWarn}, statuses(r))
}

func TestCheckDependencies(t *testing.T) {
	orig := lookPathFunc
	t.Cleanup(func() { lookPathFunc = orig })
	lookPathFunc = func(name string) (string, error) {
		if name == "xz" {
			return "", errors.New("not found")
		}
		return "/usr/bin/" + name, nil
	}

	r := CheckDependencies(Dependencies)
	assert.Equal(t, []Status{StatusOK, StatusWarn, StatusOK, StatusOK}, statuses(r))
	assert.Equal(t, "xz not found on PATH (needed for .tar.xz archives)", r[1].Message)
	assert.Equal(t, "tar found at /usr/bin/tar", r[0].Message)
}

func TestCheckNetwork(t *testing.T) {
	assert.Equal(t, StatusOK, CheckNetwork(&config.Settings{})[0].Status)
	r := CheckNetwork(&config.Settings{Offline: true})
	assert.Equal(t, StatusWarn, r[0].Status)
	assert.Contains(t, r[0].Message, config.EnvNoNetwork)
}

func TestRun_Order(t *testing.T) {
	orig := lookPathFunc
	t.Cleanup(func() { lookPathFunc = orig })
	lookPathFunc = func(name string) (string, error) { return "/bin/" + name, nil }

	home := t.TempDir()
	settings := &config.Settings{
		ConfigPath: filepath.Join(home, "config.toml"),
		BaseDir:    home,
		StateDir:   home,
	}
	ctrl := lifecycle.New(lifecycle.Config{Catalog: catalog.Catalog{}, Home: home, BaseDir: home, StateDir: home})
	r := Run(settings, fakePlatform{sysname: "Darwin", machine: "arm64"}, ctrl)

	var names []string
	for _, res := range r {
		if len(names) == 0 || names[len(names)-1] != res.CheckName {
			names = append(names, res.CheckName)
		}
	}
	assert.Equal(t, []string{"Config", "Platform", "Directories", "Dependencies", "Network"}, names)
	assert.False(t, HasFailure(r))
}

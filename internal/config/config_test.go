package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testSystem struct {
	RealSystem
	env  map[string]string
	home string
}

func (s testSystem) Getenv(key string) string {
	return s.env[key]
}

func (s testSystem) HomeDir() (string, error) {
	if s.home == "" {
		return "", errors.New("no home")
	}
	return s.home, nil
}

func writeConfig(t *testing.T, home string, content string) string {
	t.Helper()
	path := DefaultConfigPath(home)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_DefaultsWhenFileAbsent(t *testing.T) {
	home := t.TempDir()
	s, err := Load(testSystem{home: home}, "")
	require.NoError(t, err)

	assert.False(t, s.Loaded)
	assert.Equal(t, DefaultConfigPath(home), s.ConfigPath)
	assert.Equal(t, filepath.Join(home, ".local"), s.BaseDir)
	assert.Equal(t, filepath.Join(home, ".cache", "toolbelt"), s.StateDir)
	assert.Equal(t, []string{
		filepath.Join(home, ".bashrc"),
		filepath.Join(home, ".zshrc"),
		filepath.Join(home, ".profile"),
	}, s.Profiles)
	assert.Equal(t, DefaultHTTPTimeout, s.HTTPTimeout)
	assert.Equal(t, DefaultMaxDownloadBytes, s.MaxDownloadBytes)
	assert.Equal(t, DefaultGitHubAPI, s.GitHubAPI)
	assert.True(t, s.RespectLiveEnv)
	assert.False(t, s.Offline)
}

func TestLoad_ReadsFile(t *testing.T) {
	home := t.TempDir()
	writeConfig(t, home, `
base_dir = "~/opt"
state_dir = "/var/tmp/tb-state"
profiles = ["~/.bashrc"]
http_timeout = "5s"
max_download_bytes = 1024
github_api = "https://ghe.example.com/api/v3/"
respect_live_env = false
catalogs = ["~/tools.yaml", ""]
`)
	s, err := Load(testSystem{home: home}, "")
	require.NoError(t, err)

	assert.True(t, s.Loaded)
	assert.Equal(t, filepath.Join(home, "opt"), s.BaseDir)
	assert.Equal(t, "/var/tmp/tb-state", s.StateDir)
	assert.Equal(t, []string{filepath.Join(home, ".bashrc")}, s.Profiles)
	assert.Equal(t, 5*time.Second, s.HTTPTimeout)
	assert.Equal(t, int64(1024), s.MaxDownloadBytes)
	assert.Equal(t, "https://ghe.example.com/api/v3", s.GitHubAPI)
	assert.False(t, s.RespectLiveEnv)
	assert.Equal(t, []string{filepath.Join(home, "tools.yaml")}, s.Catalogs)
}

func TestLoad_Environment(t *testing.T) {
	home := t.TempDir()
	other := t.TempDir()
	path := filepath.Join(other, "tb.toml")
	require.NoError(t, os.WriteFile(path, []byte(`base_dir = "{home}/apps"`), 0o644))

	s, err := Load(testSystem{env: map[string]string{
		EnvHome:      home,
		EnvConfig:    path,
		EnvNoNetwork: "1",
	}}, "")
	require.NoError(t, err)
	assert.Equal(t, home, s.Home)
	assert.Equal(t, filepath.Join(home, "apps"), s.BaseDir)
	assert.Equal(t, path, s.ConfigPath)
	assert.True(t, s.Offline)
}

func TestLoad_ExplicitPathMustExist(t *testing.T) {
	home := t.TempDir()
	_, err := Load(testSystem{home: home}, filepath.Join(home, "missing.toml"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoad_Rejects(t *testing.T) {
	cases := map[string]string{
		"unknown key":     "colour = \"red\"\n",
		"bad syntax":      "base_dir = \n",
		"bad timeout":     "http_timeout = \"soon\"\n",
		"negative bytes":  "max_download_bytes = -1\n",
		"bad github api":  "github_api = \"ftp://example.com\"\n",
		"relative base":   "base_dir = \"relative/dir\"\n",
		"zero timeout":    "http_timeout = \"0s\"\n",
		"wrong type list": "profiles = \"~/.bashrc\"\n",
	}
	for name, content := range cases {
		t.Run(name, func(t *testing.T) {
			home := t.TempDir()
			writeConfig(t, home, content)
			_, err := Load(testSystem{home: home}, "")
			require.Error(t, err)
		})
	}
}

func TestLoad_ValidationErrorsAreClassified(t *testing.T) {
	home := t.TempDir()
	writeConfig(t, home, "http_timeout = \"soon\"\n")
	_, err := Load(testSystem{home: home}, "")
	assert.ErrorIs(t, err, ErrConfigValidation)

	_, err = Load(testSystem{env: map[string]string{EnvHome: "relative"}}, "")
	assert.ErrorIs(t, err, ErrConfigValidation)

	_, err = Load(testSystem{}, "")
	require.Error(t, err)
}

func TestTruthy(t *testing.T) {
	for _, v := range []string{"1", "true", "yes", "ON"} {
		assert.True(t, truthy(v), v)
	}
	for _, v := range []string{"", "0", "false", "No", "off"} {
		assert.False(t, truthy(v), v)
	}
}

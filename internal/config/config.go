// Package config loads the engine settings from config.toml and the TOOLBELT_* environment.
package config

import (
	"errors"
	"os"
	"time"

	"github.com/mitchellh/go-homedir"

	"github.com/conn-castle/toolbelt/internal/messages"
)

// ErrConfigValidation wraps settings that parse but are not usable.
var ErrConfigValidation = errors.New(messages.ConfigValidationFailed)

// Environment variables read by Load.
const (
	EnvConfig    = "TOOLBELT_CONFIG"
	EnvHome      = "TOOLBELT_HOME"
	EnvNoNetwork = "TOOLBELT_NO_NETWORK"
)

// Defaults applied when config.toml omits a setting.
const (
	DefaultBaseDir          = "~/.local"
	DefaultStateDir         = "~/.cache/toolbelt"
	DefaultHTTPTimeout      = 60 * time.Second
	DefaultMaxDownloadBytes = int64(1 << 30)
	DefaultGitHubAPI        = "https://api.github.com"
)

// DefaultProfiles are the candidate shell startup files.
var DefaultProfiles = []string{"~/.bashrc", "~/.zshrc", "~/.profile"}

// File mirrors config.toml.
type File struct {
	BaseDir          string   `toml:"base_dir"`
	StateDir         string   `toml:"state_dir"`
	Profiles         []string `toml:"profiles"`
	HTTPTimeout      string   `toml:"http_timeout"`
	MaxDownloadBytes int64    `toml:"max_download_bytes"`
	GitHubAPI        string   `toml:"github_api"`
	RespectLiveEnv   *bool    `toml:"respect_live_env"`
	Catalogs         []string `toml:"catalogs"`
}

// Settings are the resolved, validated engine settings.
type Settings struct {
	// ConfigPath is the file the settings came from; Loaded is false when it did not exist.
	ConfigPath string
	Loaded     bool

	Home             string
	BaseDir          string
	StateDir         string
	Profiles         []string
	HTTPTimeout      time.Duration
	MaxDownloadBytes int64
	GitHubAPI        string
	RespectLiveEnv   bool
	Catalogs         []string
	Offline          bool
}

// System abstracts the environment lookups used by Load.
type System interface {
	Getenv(key string) string
	ReadFile(name string) ([]byte, error)
	HomeDir() (string, error)
}

// RealSystem implements System using the OS.
type RealSystem struct{}

// Getenv returns the value of the environment variable named by key.
func (RealSystem) Getenv(key string) string {
	return os.Getenv(key)
}

// ReadFile reads the named file.
func (RealSystem) ReadFile(name string) ([]byte, error) {
	return os.ReadFile(name)
}

// HomeDir returns the current user's home directory.
func (RealSystem) HomeDir() (string, error) {
	return homedir.Dir()
}

package config

import (
	"bytes"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/conn-castle/toolbelt/internal/catalog"
	"github.com/conn-castle/toolbelt/internal/messages"
)

// DefaultConfigPath returns the config file location under home.
func DefaultConfigPath(home string) string {
	return filepath.Join(home, ".config", "toolbelt", "config.toml")
}

// Load resolves settings. explicitPath, then TOOLBELT_CONFIG, then the default
// location is read; only the default location may be absent.
func Load(sys System, explicitPath string) (*Settings, error) {
	if sys == nil {
		sys = RealSystem{}
	}
	home, err := resolveHome(sys)
	if err != nil {
		return nil, err
	}

	path, required := strings.TrimSpace(explicitPath), true
	if path == "" {
		path = strings.TrimSpace(sys.Getenv(EnvConfig))
	}
	if path == "" {
		path, required = DefaultConfigPath(home), false
	}
	path = expandPath(path, home)

	var file File
	loaded := false
	data, err := sys.ReadFile(path)
	switch {
	case err == nil:
		file, err = Parse(data, path)
		if err != nil {
			return nil, err
		}
		loaded = true
	case errors.Is(err, os.ErrNotExist) && !required:
	default:
		return nil, fmt.Errorf(messages.ConfigReadFailedFmt, path, err)
	}

	settings, err := resolve(file, home)
	if err != nil {
		return nil, fmt.Errorf(messages.ConfigInvalidFmt, path, err)
	}
	settings.ConfigPath = path
	settings.Loaded = loaded
	settings.Offline = truthy(sys.Getenv(EnvNoNetwork))
	return settings, nil
}

// Parse decodes config TOML, rejecting unknown keys; source is used in error messages.
func Parse(data []byte, source string) (File, error) {
	var file File
	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&file); err != nil {
		return File{}, fmt.Errorf(messages.ConfigInvalidFmt, source, err)
	}
	return file, nil
}

func resolveHome(sys System) (string, error) {
	if home := strings.TrimSpace(sys.Getenv(EnvHome)); home != "" {
		if !filepath.IsAbs(home) {
			return "", fmt.Errorf(messages.ConfigHomeNotAbsoluteFmt, ErrConfigValidation, EnvHome, home)
		}
		return filepath.Clean(home), nil
	}
	home, err := sys.HomeDir()
	if err != nil {
		return "", fmt.Errorf(messages.ConfigHomeFailedFmt, err)
	}
	return home, nil
}

func resolve(file File, home string) (*Settings, error) {
	s := &Settings{
		Home:             home,
		BaseDir:          orDefault(file.BaseDir, DefaultBaseDir),
		StateDir:         orDefault(file.StateDir, DefaultStateDir),
		Profiles:         file.Profiles,
		HTTPTimeout:      DefaultHTTPTimeout,
		MaxDownloadBytes: file.MaxDownloadBytes,
		GitHubAPI:        strings.TrimRight(orDefault(file.GitHubAPI, DefaultGitHubAPI), "/"),
		RespectLiveEnv:   true,
	}
	if len(s.Profiles) == 0 {
		s.Profiles = DefaultProfiles
	}
	if file.RespectLiveEnv != nil {
		s.RespectLiveEnv = *file.RespectLiveEnv
	}
	if strings.TrimSpace(file.HTTPTimeout) != "" {
		timeout, err := time.ParseDuration(file.HTTPTimeout)
		if err != nil || timeout <= 0 {
			return nil, fmt.Errorf(messages.ConfigInvalidTimeoutFmt, ErrConfigValidation, file.HTTPTimeout)
		}
		s.HTTPTimeout = timeout
	}
	switch {
	case s.MaxDownloadBytes < 0:
		return nil, fmt.Errorf(messages.ConfigInvalidMaxBytesFmt, ErrConfigValidation, s.MaxDownloadBytes)
	case s.MaxDownloadBytes == 0:
		s.MaxDownloadBytes = DefaultMaxDownloadBytes
	}
	if u, err := url.Parse(s.GitHubAPI); err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf(messages.ConfigInvalidURLFmt, ErrConfigValidation, "github_api", s.GitHubAPI)
	}

	s.BaseDir = expandPath(s.BaseDir, home)
	s.StateDir = expandPath(s.StateDir, home)
	for name, dir := range map[string]string{"base_dir": s.BaseDir, "state_dir": s.StateDir} {
		if !filepath.IsAbs(dir) {
			return nil, fmt.Errorf(messages.ConfigPathNotAbsoluteFmt, ErrConfigValidation, name, dir)
		}
	}
	profiles := make([]string, 0, len(s.Profiles))
	for _, p := range s.Profiles {
		profiles = append(profiles, expandPath(p, home))
	}
	s.Profiles = profiles
	for _, c := range file.Catalogs {
		if strings.TrimSpace(c) != "" {
			s.Catalogs = append(s.Catalogs, expandPath(c, home))
		}
	}
	return s, nil
}

func expandPath(path string, home string) string {
	return filepath.Clean(catalog.Expand(path, catalog.Vars{Home: home}))
}

func orDefault(value string, def string) string {
	if strings.TrimSpace(value) == "" {
		return def
	}
	return strings.TrimSpace(value)
}

func truthy(value string) bool {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", "0", "false", "no", "off":
		return false
	default:
		return true
	}
}

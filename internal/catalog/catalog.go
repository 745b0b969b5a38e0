// Package catalog holds the static tool definitions the engine provisions.
package catalog

import (
	"path/filepath"
	"sort"
	"strings"
)

// Kind is an artifact delivery kind.
type Kind string

// Supported artifact kinds.
const (
	KindPrebuilt Kind = "prebuilt-binary"
	KindSource   Kind = "source-archive"
	KindScript   Kind = "vendor-script"
)

// Policy controls what install does when the install root already exists.
type Policy string

// Supported install policies.
const (
	PolicySkipIfInstalled Policy = "skip-if-installed"
	PolicyOverwrite       Policy = "overwrite"
)

// Removal selects how a profile block is excised on uninstall.
type Removal string

// Supported removal strategies.
const (
	RemovalRange      Removal = "range"
	RemovalLineFilter Removal = "line-filter"
)

// Source types understood by the locator.
const (
	SourceGitHubRelease = "github-release"
	SourceGoIndex       = "go-index"
	SourcePageScrape    = "page-scrape"
	SourceFixedURL      = "fixed-url"
	SourceVendorScript  = "vendor-script"
)

// Variable is one environment setting a tool contributes to shell profiles.
// PathEntry variables prepend Value to PATH; Prompt variables are collected
// from the user by the configure operation and have no static Value.
type Variable struct {
	Name        string `toml:"name" yaml:"name"`
	Value       string `toml:"value,omitempty" yaml:"value,omitempty"`
	PathEntry   bool   `toml:"path_entry,omitempty" yaml:"path_entry,omitempty"`
	Prompt      bool   `toml:"prompt,omitempty" yaml:"prompt,omitempty"`
	Secret      bool   `toml:"secret,omitempty" yaml:"secret,omitempty"`
	Description string `toml:"description,omitempty" yaml:"description,omitempty"`
}

// Source describes where the locator looks up the latest artifact.
type Source struct {
	Type      string            `toml:"type" yaml:"type"`
	Repo      string            `toml:"repo,omitempty" yaml:"repo,omitempty"`
	URL       string            `toml:"url,omitempty" yaml:"url,omitempty"`
	BaseURL   string            `toml:"base_url,omitempty" yaml:"base_url,omitempty"`
	Patterns  map[string]string `toml:"patterns,omitempty" yaml:"patterns,omitempty"`
	URLs      map[string]string `toml:"urls,omitempty" yaml:"urls,omitempty"`
	Checksums string            `toml:"checksums,omitempty" yaml:"checksums,omitempty"`
}

// Tool is an immutable tool definition.
type Tool struct {
	Name          string            `toml:"name" yaml:"name"`
	Description   string            `toml:"description,omitempty" yaml:"description,omitempty"`
	Root          string            `toml:"root" yaml:"root"`
	Profiles      []string          `toml:"profiles,omitempty" yaml:"profiles,omitempty"`
	Kinds         []Kind            `toml:"kinds,omitempty" yaml:"kinds,omitempty"`
	Source        Source            `toml:"source,omitempty" yaml:"source,omitempty"`
	OSNames       map[string]string `toml:"os_names,omitempty" yaml:"os_names,omitempty"`
	ArchNames     map[string]string `toml:"arch_names,omitempty" yaml:"arch_names,omitempty"`
	Binaries      []string          `toml:"binaries,omitempty" yaml:"binaries,omitempty"`
	CopyTree      bool              `toml:"copy_tree,omitempty" yaml:"copy_tree,omitempty"`
	ConfigureArgs []string          `toml:"configure_args,omitempty" yaml:"configure_args,omitempty"`
	Policy        Policy            `toml:"policy,omitempty" yaml:"policy,omitempty"`
	Marker        string            `toml:"marker,omitempty" yaml:"marker,omitempty"`
	Variables     []Variable        `toml:"variables,omitempty" yaml:"variables,omitempty"`
	Removal       Removal           `toml:"removal,omitempty" yaml:"removal,omitempty"`
	RemovalMatch  string            `toml:"removal_match,omitempty" yaml:"removal_match,omitempty"`
	ExtraPaths    []string          `toml:"extra_paths,omitempty" yaml:"extra_paths,omitempty"`
}

// BlockMarker returns the marker identifying this tool's profile block.
func (t Tool) BlockMarker() string {
	if strings.TrimSpace(t.Marker) != "" {
		return t.Marker
	}
	return "toolbelt:" + t.Name
}

// EffectivePolicy returns the install policy, defaulting to skip-if-installed.
func (t Tool) EffectivePolicy() Policy {
	if t.Policy == "" {
		return PolicySkipIfInstalled
	}
	return t.Policy
}

// EffectiveRemoval returns the removal strategy, defaulting to range deletion.
func (t Tool) EffectiveRemoval() Removal {
	if t.Removal == "" {
		return RemovalRange
	}
	return t.Removal
}

// ConfigureOnly reports whether the tool has no artifact and only manages profile variables.
func (t Tool) ConfigureOnly() bool {
	return len(t.Kinds) == 0
}

// HasPromptVariables reports whether the configure operation applies to this tool.
func (t Tool) HasPromptVariables() bool {
	for _, v := range t.Variables {
		if v.Prompt {
			return true
		}
	}
	return false
}

// Vars holds the values substituted into path and value templates.
type Vars struct {
	Home    string
	Base    string
	Root    string
	Version string
}

// Expand substitutes {home}, {base}, {root}, {version} and a leading ~ in tmpl.
func Expand(tmpl string, vars Vars) string {
	out := strings.TrimSpace(tmpl)
	if out == "~" {
		out = "{home}"
	} else if strings.HasPrefix(out, "~/") {
		out = "{home}" + out[1:]
	}
	r := strings.NewReplacer(
		"{home}", vars.Home,
		"{base}", vars.Base,
		"{root}", vars.Root,
		"{version}", vars.Version,
	)
	return r.Replace(out)
}

// RootPath resolves the install root. A {version} placeholder is kept as a glob
// wildcard when version is empty so callers can discover versioned roots.
func (t Tool) RootPath(vars Vars) string {
	if vars.Version == "" {
		vars.Version = "*"
	}
	vars.Root = ""
	return filepath.Clean(Expand(t.Root, vars))
}

// Catalog is an ordered set of tool definitions with unique names.
type Catalog struct {
	Tools []Tool `toml:"tool" yaml:"tools"`
}

// Lookup returns the named tool.
func (c Catalog) Lookup(name string) (Tool, bool) {
	for _, tool := range c.Tools {
		if tool.Name == name {
			return tool, true
		}
	}
	return Tool{}, false
}

// Names returns the sorted tool names.
func (c Catalog) Names() []string {
	names := make([]string, 0, len(c.Tools))
	for _, tool := range c.Tools {
		names = append(names, tool.Name)
	}
	sort.Strings(names)
	return names
}

// Merge returns c with overrides applied; a definition in overrides replaces
// the definition of the same name, and new names are appended.
func (c Catalog) Merge(overrides Catalog) Catalog {
	out := Catalog{Tools: make([]Tool, 0, len(c.Tools)+len(overrides.Tools))}
	index := make(map[string]int, len(c.Tools))
	for _, tool := range c.Tools {
		index[tool.Name] = len(out.Tools)
		out.Tools = append(out.Tools, tool)
	}
	for _, tool := range overrides.Tools {
		if i, ok := index[tool.Name]; ok {
			out.Tools[i] = tool
			continue
		}
		index[tool.Name] = len(out.Tools)
		out.Tools = append(out.Tools, tool)
	}
	return out
}

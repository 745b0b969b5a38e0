package catalog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleTOML = `
[[tool]]
name = "hello"
root = "{base}/hello"
kinds = ["prebuilt-binary", "source-archive"]
binaries = ["bin/hello"]

[tool.source]
type = "fixed-url"

[tool.source.urls]
prebuilt-binary = "https://example.test/hello-{os}-{arch}.tar.gz"
source-archive = "https://example.test/hello-src.tar.gz"

[[tool.variables]]
name = "PATH"
value = "{root}/bin"
path_entry = true

[[tool.variables]]
name = "HELLO_HOME"
value = "{root}"
`

const sampleYAML = `
tools:
  - name: hello
    root: "{base}/hello"
    kinds: [prebuilt-binary, source-archive]
    binaries: [bin/hello]
    source:
      type: fixed-url
      urls:
        prebuilt-binary: "https://example.test/hello-{os}-{arch}.tar.gz"
        source-archive: "https://example.test/hello-src.tar.gz"
    variables:
      - name: PATH
        value: "{root}/bin"
        path_entry: true
      - name: HELLO_HOME
        value: "{root}"
`

func TestBuiltinLoads(t *testing.T) {
	c, err := Builtin()
	require.NoError(t, err)
	assert.Equal(t, []string{"claude", "code-server", "go", "nvim", "sqlite"}, c.Names())

	sqlite, ok := c.Lookup("sqlite")
	require.True(t, ok)
	assert.Equal(t, []Kind{KindPrebuilt, KindSource}, sqlite.Kinds)
	assert.Equal(t, SourcePageScrape, sqlite.Source.Type)

	claude, ok := c.Lookup("claude")
	require.True(t, ok)
	assert.True(t, claude.HasPromptVariables())
	assert.Equal(t, RemovalRange, claude.EffectiveRemoval())

	goTool, ok := c.Lookup("go")
	require.True(t, ok)
	assert.Equal(t, PolicyOverwrite, goTool.EffectivePolicy())
	assert.Equal(t, RemovalLineFilter, goTool.EffectiveRemoval())
}

func TestParseTOMLAndYAMLMatch(t *testing.T) {
	fromTOML, err := ParseTOML([]byte(sampleTOML), "sample.toml")
	require.NoError(t, err)
	fromYAML, err := ParseYAML([]byte(sampleYAML), "sample.yaml")
	require.NoError(t, err)
	assert.Equal(t, fromTOML, fromYAML)

	tool, ok := fromTOML.Lookup("hello")
	require.True(t, ok)
	assert.Equal(t, "toolbelt:hello", tool.BlockMarker())
	assert.Equal(t, PolicySkipIfInstalled, tool.EffectivePolicy())
}

func TestParseRejectsUnknownFields(t *testing.T) {
	_, err := ParseTOML([]byte("[[tool]]\nname = \"x\"\nbogus = 1\n"), "bad.toml")
	require.Error(t, err)

	_, err = ParseYAML([]byte("tools:\n  - name: x\n    bogus: 1\n"), "bad.yaml")
	require.Error(t, err)
}

func TestLoadByExtension(t *testing.T) {
	dir := t.TempDir()
	tomlPath := filepath.Join(dir, "extra.toml")
	yamlPath := filepath.Join(dir, "extra.yml")
	txtPath := filepath.Join(dir, "extra.txt")
	require.NoError(t, os.WriteFile(tomlPath, []byte(sampleTOML), 0o644))
	require.NoError(t, os.WriteFile(yamlPath, []byte(sampleYAML), 0o644))
	require.NoError(t, os.WriteFile(txtPath, []byte(sampleTOML), 0o644))

	_, err := Load(tomlPath)
	require.NoError(t, err)
	_, err = Load(yamlPath)
	require.NoError(t, err)
	_, err = Load(txtPath)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown format")

	_, err = Load(filepath.Join(dir, "missing.toml"))
	require.Error(t, err)
}

func TestLoadAllMergesOverrides(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "override.toml")
	override := `
[[tool]]
name = "go"
root = "{home}/sdk/go"
kinds = ["prebuilt-binary"]
binaries = ["bin/go"]

[tool.source]
type = "go-index"
url = "https://mirror.example.test/dl/?mode=json"
`
	require.NoError(t, os.WriteFile(path, []byte(sampleTOML+override), 0o644))

	c, err := LoadAll([]string{"", path})
	require.NoError(t, err)
	assert.Contains(t, c.Names(), "hello")
	goTool, ok := c.Lookup("go")
	require.True(t, ok)
	assert.Equal(t, "{home}/sdk/go", goTool.Root)
	assert.Len(t, c.Tools, 6)
}

func TestValidate(t *testing.T) {
	valid := func() Tool {
		return Tool{
			Name:     "x",
			Root:     "{base}/x",
			Kinds:    []Kind{KindPrebuilt},
			Binaries: []string{"x"},
			Source: Source{
				Type:     SourceGitHubRelease,
				Repo:     "owner/x",
				Patterns: map[string]string{string(KindPrebuilt): `^x-{os}-{arch}\.tar\.gz$`},
			},
			Variables: []Variable{{Name: "PATH", Value: "{root}/bin", PathEntry: true}},
		}
	}
	require.NoError(t, Catalog{Tools: []Tool{valid()}}.Validate())

	tests := []struct {
		name   string
		mutate func(*Tool)
		want   string
	}{
		{"empty name", func(t *Tool) { t.Name = "" }, "invalid tool name"},
		{"unknown kind", func(t *Tool) { t.Kinds = []Kind{"wheel"} }, "unknown kind"},
		{"no kinds no variables", func(t *Tool) { t.Kinds = nil; t.Variables = nil }, "must define variables"},
		{"unknown source", func(t *Tool) { t.Source.Type = "ftp" }, "unknown source type"},
		{"bad repo", func(t *Tool) { t.Source.Repo = "x" }, "owner/name"},
		{"missing pattern", func(t *Tool) { t.Kinds = []Kind{KindPrebuilt, KindSource} }, "no entry for kind source-archive"},
		{"bad pattern", func(t *Tool) { t.Source.Patterns[string(KindPrebuilt)] = "([" }, "pattern for kind"},
		{"unknown policy", func(t *Tool) { t.Policy = "sometimes" }, "unknown policy"},
		{"unknown removal", func(t *Tool) { t.Removal = "shred" }, "unknown removal"},
		{"line filter without match", func(t *Tool) { t.Removal = RemovalLineFilter }, "removal_match"},
		{"missing root", func(t *Tool) { t.Root = " " }, "root is required"},
		{"path entry wrong name", func(t *Tool) { t.Variables[0].Name = "MANPATH" }, "must be named PATH"},
		{"static variable without value", func(t *Tool) { t.Variables = append(t.Variables, Variable{Name: "X_HOME"}) }, "requires a value"},
		{"script kind without script source", func(t *Tool) { t.Kinds = []Kind{KindScript} }, "no entry for kind vendor-script"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tool := valid()
			tt.mutate(&tool)
			err := Catalog{Tools: []Tool{tool}}.Validate()
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrCatalogValidation)
			assert.Contains(t, err.Error(), tt.want)
		})
	}

	err := Catalog{Tools: []Tool{valid(), valid()}}.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate tool name")
}

func TestConfigureOnlyToolNeedsNoSource(t *testing.T) {
	tool := Tool{
		Name:      "router",
		Variables: []Variable{{Name: "ROUTER_URL", Prompt: true}},
	}
	require.NoError(t, tool.Validate())
	assert.True(t, tool.ConfigureOnly())
}

func TestExpandAndRootPath(t *testing.T) {
	vars := Vars{Home: "/home/u", Base: "/home/u/.local", Root: "/home/u/.local/go", Version: "1.2.3"}
	assert.Equal(t, "/home/u/.config", Expand("~/.config", vars))
	assert.Equal(t, "/home/u", Expand("~", vars))
	assert.Equal(t, "/home/u/.local/go/bin", Expand("{root}/bin", vars))
	assert.Equal(t, "/home/u/.local/x-1.2.3", Expand("{base}/x-{version}", vars))

	tool := Tool{Root: "{base}/lib/x-{version}/"}
	assert.Equal(t, "/home/u/.local/lib/x-1.2.3", tool.RootPath(vars))
	vars.Version = ""
	assert.Equal(t, "/home/u/.local/lib/x-*", tool.RootPath(vars))
}

func TestMergeKeepsOrder(t *testing.T) {
	base := Catalog{Tools: []Tool{{Name: "a"}, {Name: "b"}}}
	merged := base.Merge(Catalog{Tools: []Tool{{Name: "b", Description: "new"}, {Name: "c"}}})
	require.Len(t, merged.Tools, 3)
	assert.Equal(t, "a", merged.Tools[0].Name)
	assert.Equal(t, "new", merged.Tools[1].Description)
	assert.Equal(t, "c", merged.Tools[2].Name)
	assert.Empty(t, base.Tools[1].Description)
}

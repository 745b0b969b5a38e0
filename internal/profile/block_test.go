package profile

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/conn-castle/toolbelt/internal/catalog"
)

func pathBlock() Block {
	return Block{
		Marker:    "toolbelt:nvim",
		Variables: []Var{{Name: "PATH", Value: "/home/u/.local/nvim/bin", PathEntry: true}},
	}
}

func routerBlock() Block {
	return Block{
		Marker: "toolbelt:claude",
		Variables: []Var{
			{Name: "PATH", Value: "/home/u/.local/bin", PathEntry: true},
			{Name: "ANTHROPIC_BASE_URL", Value: "http://127.0.0.1:3456"},
			{Name: "ANTHROPIC_AUTH_TOKEN", Value: "tok"},
		},
	}
}

func TestApply_AppendsNewBlock(t *testing.T) {
	got, res := Apply("alias ll='ls -l'\n", pathBlock())
	assert.Equal(t, "alias ll='ls -l'\n# >>> toolbelt:nvim >>>\nexport PATH=\"/home/u/.local/nvim/bin:$PATH\"\n", got)
	assert.Equal(t, []string{"PATH"}, res.Added)
	assert.Empty(t, res.AlreadyConfigured)
}

func TestApply_EmptyAndUnterminatedFiles(t *testing.T) {
	got, _ := Apply("", pathBlock())
	assert.Equal(t, "# >>> toolbelt:nvim >>>\nexport PATH=\"/home/u/.local/nvim/bin:$PATH\"\n", got)

	got, _ = Apply("echo hi", pathBlock())
	assert.Equal(t, "echo hi\n# >>> toolbelt:nvim >>>\nexport PATH=\"/home/u/.local/nvim/bin:$PATH\"", got)
}

func TestRemove_RestoresUnterminatedFile(t *testing.T) {
	for _, original := range []string{"alias ll='ls -l'", "alias ll='ls -l'\n", ""} {
		applied, _ := Apply(original, routerBlock())
		require.Contains(t, applied, HeaderLine("toolbelt:claude"))
		removed, res := Remove(applied, routerBlock())
		assert.True(t, res.Removed)
		assert.Equal(t, original, removed, "round trip of %q", original)
	}

	withOther, _ := Apply("echo hi", pathBlock())
	withBoth, _ := Apply(withOther, routerBlock())
	removed, _ := Remove(withBoth, pathBlock())
	removed, _ = Remove(removed, routerBlock())
	assert.Equal(t, "echo hi", removed)
}

func TestApply_PathEntryMatchesWholeElements(t *testing.T) {
	block := Block{
		Marker:    "toolbelt:x",
		Variables: []Var{{Name: "PATH", Value: "/opt/x/bin", PathEntry: true}},
	}
	for _, content := range []string{
		"export PATH=\"/opt/x/binaries:$PATH\"\n",
		"export PATH=\"/opt/x/bin/sub:$PATH\"\n",
		"export PATH=\"/srv/opt/x/bin:$PATH\"\n",
	} {
		_, res := Apply(content, block)
		assert.Equal(t, []string{"PATH"}, res.Added, content)
	}
	for _, content := range []string{
		"export PATH=\"/opt/x/bin:$PATH\"\n",
		"export PATH=$PATH:/opt/x/bin/\n",
		"path+=(/opt/x/bin)\n",
	} {
		_, res := Apply(content, block)
		assert.Equal(t, []string{"PATH"}, res.AlreadyConfigured, content)
	}
}

func TestRemove_RangeKeepsSiblingPathEntries(t *testing.T) {
	content := "# >>> toolbelt:x >>>\nexport PATH=\"/opt/x/bin:$PATH\"\nexport PATH=\"/opt/x/binaries:$PATH\"\n"
	block := Block{Marker: "toolbelt:x", Variables: []Var{{Name: "PATH", Value: "/opt/x/bin", PathEntry: true}}}
	got, res := Remove(content, block)
	require.True(t, res.Removed)
	assert.Equal(t, 2, res.LinesRemoved)
	assert.Equal(t, "export PATH=\"/opt/x/binaries:$PATH\"\n", got)
}

func TestApply_IsIdempotent(t *testing.T) {
	once, _ := Apply("# rc\n", routerBlock())
	twice, res := Apply(once, routerBlock())
	assert.Equal(t, once, twice)
	assert.False(t, res.Changed())
	assert.ElementsMatch(t, []string{"PATH", "ANTHROPIC_BASE_URL", "ANTHROPIC_AUTH_TOKEN"}, res.AlreadyConfigured)
	assert.Equal(t, 1, strings.Count(twice, HeaderLine("toolbelt:claude")))
}

func TestApply_MarkerOnlyCountsForSingleVariableBlocks(t *testing.T) {
	content := "# >>> toolbelt:nvim >>>\n"
	got, res := Apply(content, pathBlock())
	assert.Equal(t, content, got)
	assert.Equal(t, []string{"PATH"}, res.AlreadyConfigured)

	content = "# >>> toolbelt:claude >>>\n"
	got, res = Apply(content, routerBlock())
	assert.Len(t, res.Added, 3)
	assert.Equal(t, 1, strings.Count(got, HeaderLine("toolbelt:claude")))
}

func TestApply_TopsUpPartialBlock(t *testing.T) {
	content := strings.Join([]string{
		"# rc",
		"# >>> toolbelt:claude >>>",
		`export PATH="/home/u/.local/bin:$PATH"`,
		"export ANTHROPIC_BASE_URL='http://old:1'",
		"alias x=y",
		"",
	}, "\n")

	got, res := Apply(content, routerBlock())
	assert.Equal(t, []string{"ANTHROPIC_AUTH_TOKEN"}, res.Added)
	assert.ElementsMatch(t, []string{"PATH", "ANTHROPIC_BASE_URL"}, res.AlreadyConfigured)

	want := strings.Join([]string{
		"# rc",
		"# >>> toolbelt:claude >>>",
		`export PATH="/home/u/.local/bin:$PATH"`,
		"export ANTHROPIC_BASE_URL='http://old:1'",
		"export ANTHROPIC_AUTH_TOKEN='tok'",
		"alias x=y",
		"",
	}, "\n")
	assert.Equal(t, want, got, "existing value must be left untouched and the block kept contiguous")
}

func TestApply_DetectsExportsOutsideBlock(t *testing.T) {
	content := "export ANTHROPIC_BASE_URL=http://elsewhere\nexport PATH=/home/u/.local/bin:$PATH\n"
	got, res := Apply(content, routerBlock())
	assert.Equal(t, []string{"ANTHROPIC_AUTH_TOKEN"}, res.Added)
	assert.True(t, strings.HasSuffix(got, "# >>> toolbelt:claude >>>\nexport ANTHROPIC_AUTH_TOKEN='tok'\n"))
}

func TestApply_SkipsInactiveVariables(t *testing.T) {
	block := routerBlock()
	block.Variables[1].Value = ""
	block.Variables[2].Value = ""
	got, res := Apply("", block)
	assert.Equal(t, []string{"PATH"}, res.Added)
	assert.NotContains(t, got, "ANTHROPIC")
}

func TestRemove_RangeRoundTrip(t *testing.T) {
	original := "# rc\nexport EDITOR=vi\n"
	applied, _ := Apply(original, routerBlock())
	removed, res := Remove(applied, routerBlock())
	assert.True(t, res.Removed)
	assert.Equal(t, 4, res.LinesRemoved)
	assert.Equal(t, original, removed)
}

func TestRemove_RangeStopsAtForeignLine(t *testing.T) {
	content := strings.Join([]string{
		"# >>> toolbelt:nvim >>>",
		`export PATH="/home/u/.local/nvim/bin:$PATH"`,
		`export PATH="/opt/other/bin:$PATH"`,
		"export EDITOR=nvim",
		"",
	}, "\n")
	got, res := Remove(content, pathBlock())
	require.True(t, res.Removed)
	assert.Equal(t, "export PATH=\"/opt/other/bin:$PATH\"\nexport EDITOR=nvim\n", got)
}

func TestRemove_RangeMatchesVersionGlob(t *testing.T) {
	content := "# >>> toolbelt:x >>>\nexport PATH=\"/home/u/.local/x-1.2.3/bin:$PATH\"\n"
	block := Block{Marker: "toolbelt:x", Variables: []Var{{Name: "PATH", Value: "/home/u/.local/x-*/bin", PathEntry: true}}}
	got, res := Remove(content, block)
	assert.True(t, res.Removed)
	assert.Empty(t, got)
}

func TestRemove_LineFilter(t *testing.T) {
	block := Block{
		Marker:       "toolbelt:go",
		Variables:    []Var{{Name: "PATH", Value: "/home/u/.local/go/bin", PathEntry: true}},
		Removal:      catalog.RemovalLineFilter,
		RemovalMatch: "/home/u/.local/go/bin",
	}
	content := "export A=1\n# >>> toolbelt:go >>>\nexport PATH=\"/home/u/.local/go/bin:$PATH\"\nexport B=2\n# old: export PATH=/home/u/.local/go/bin:$PATH\n"
	got, res := Remove(content, block)
	assert.True(t, res.Removed)
	assert.Equal(t, 3, res.LinesRemoved)
	assert.Equal(t, "export A=1\nexport B=2\n", got)
}

func TestRemove_NothingFound(t *testing.T) {
	content := "export A=1"
	got, res := Remove(content, pathBlock())
	assert.False(t, res.Removed)
	assert.Equal(t, content, got)
	assert.False(t, HasBlock(content, "toolbelt:nvim"))
}

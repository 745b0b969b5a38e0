package catalog

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/conn-castle/toolbelt/internal/messages"
)

var toolNamePattern = regexp.MustCompile(`^[a-z0-9][a-z0-9._-]*$`)
var variableNamePattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// Validate checks every definition and name uniqueness.
func (c Catalog) Validate() error {
	seen := make(map[string]bool, len(c.Tools))
	for _, tool := range c.Tools {
		if err := tool.Validate(); err != nil {
			return err
		}
		if seen[tool.Name] {
			return fmt.Errorf(messages.CatalogDuplicateToolFmt, ErrCatalogValidation, tool.Name)
		}
		seen[tool.Name] = true
	}
	return nil
}

// Validate checks a single definition for internal consistency.
func (t Tool) Validate() error {
	if !toolNamePattern.MatchString(t.Name) {
		return fmt.Errorf(messages.CatalogInvalidToolNameFmt, ErrCatalogValidation, t.Name)
	}
	fail := func(format string, args ...any) error {
		return fmt.Errorf(messages.CatalogToolInvalidFmt, ErrCatalogValidation, t.Name, fmt.Sprintf(format, args...))
	}

	if strings.TrimSpace(t.Root) == "" && !t.ConfigureOnly() {
		return fail(messages.CatalogRootRequired)
	}
	seenKinds := map[Kind]bool{}
	for _, kind := range t.Kinds {
		switch kind {
		case KindPrebuilt, KindSource, KindScript:
		default:
			return fail(messages.CatalogUnknownKindFmt, kind)
		}
		if seenKinds[kind] {
			return fail(messages.CatalogDuplicateKindFmt, kind)
		}
		seenKinds[kind] = true
	}
	if t.ConfigureOnly() && len(t.Variables) == 0 {
		return fail(messages.CatalogNothingToDo)
	}

	switch t.Policy {
	case "", PolicySkipIfInstalled, PolicyOverwrite:
	default:
		return fail(messages.CatalogUnknownPolicyFmt, t.Policy)
	}
	switch t.Removal {
	case "", RemovalRange:
	case RemovalLineFilter:
		if strings.TrimSpace(t.RemovalMatch) == "" {
			return fail(messages.CatalogLineFilterMatchRequired)
		}
	default:
		return fail(messages.CatalogUnknownRemovalFmt, t.Removal)
	}

	for _, v := range t.Variables {
		if !variableNamePattern.MatchString(v.Name) {
			return fail(messages.CatalogInvalidVariableNameFmt, v.Name)
		}
		if v.PathEntry && v.Name != "PATH" {
			return fail(messages.CatalogPathEntryNameFmt, v.Name)
		}
		if v.PathEntry && v.Prompt {
			return fail(messages.CatalogPathEntryPromptFmt, v.Name)
		}
		if !v.Prompt && strings.TrimSpace(v.Value) == "" {
			return fail(messages.CatalogVariableValueRequiredFmt, v.Name)
		}
	}

	if t.ConfigureOnly() {
		return nil
	}
	return t.validateSource(fail)
}

func (t Tool) validateSource(fail func(string, ...any) error) error {
	s := t.Source
	switch s.Type {
	case SourceGitHubRelease:
		if strings.Count(s.Repo, "/") != 1 {
			return fail(messages.CatalogRepoRequired)
		}
		if err := t.requirePatterns(fail, s.Patterns); err != nil {
			return err
		}
	case SourcePageScrape:
		if strings.TrimSpace(s.URL) == "" {
			return fail(messages.CatalogSourceURLRequiredFmt, s.Type)
		}
		if err := t.requirePatterns(fail, s.Patterns); err != nil {
			return err
		}
	case SourceGoIndex, SourceVendorScript:
		if strings.TrimSpace(s.URL) == "" {
			return fail(messages.CatalogSourceURLRequiredFmt, s.Type)
		}
	case SourceFixedURL:
		for _, kind := range t.Kinds {
			if strings.TrimSpace(s.URLs[string(kind)]) == "" {
				return fail(messages.CatalogMissingKindEntryFmt, "urls", kind)
			}
		}
	default:
		return fail(messages.CatalogUnknownSourceFmt, s.Type)
	}
	if s.Type == SourceVendorScript {
		if len(t.Kinds) != 1 || t.Kinds[0] != KindScript {
			return fail(messages.CatalogScriptKindOnly)
		}
	} else if seen := kindSet(t.Kinds); seen[KindScript] {
		return fail(messages.CatalogScriptSourceRequired)
	}
	return nil
}

func (t Tool) requirePatterns(fail func(string, ...any) error, patterns map[string]string) error {
	for _, kind := range t.Kinds {
		pattern := patterns[string(kind)]
		if strings.TrimSpace(pattern) == "" {
			return fail(messages.CatalogMissingKindEntryFmt, "patterns", kind)
		}
		probe := strings.NewReplacer("{os}", "os", "{arch}", "arch", "{version}", "1").Replace(pattern)
		if _, err := regexp.Compile(probe); err != nil {
			return fail(messages.CatalogInvalidPatternFmt, kind, err)
		}
	}
	return nil
}

func kindSet(kinds []Kind) map[Kind]bool {
	out := make(map[Kind]bool, len(kinds))
	for _, kind := range kinds {
		out[kind] = true
	}
	return out
}

// Package locate resolves a tool definition and platform to a concrete artifact URL.
package locate

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"path"
	"regexp"
	"strings"
	"time"

	"github.com/conn-castle/toolbelt/internal/catalog"
	"github.com/conn-castle/toolbelt/internal/errs"
	"github.com/conn-castle/toolbelt/internal/messages"
	"github.com/conn-castle/toolbelt/internal/platform"
)

// DefaultGitHubAPI is the GitHub REST API base URL.
const DefaultGitHubAPI = "https://api.github.com"

// Reference is a concrete artifact selected for download.
type Reference struct {
	URL      string
	Kind     catalog.Kind
	Filename string
	Version  string
	// Checksum is a lowercase hex sha256, empty when the source publishes none.
	Checksum string
}

// Query carries the per-tool inputs a Source needs.
type Query struct {
	Tool      catalog.Tool
	Platform  platform.Platform
	OSToken   string
	ArchToken string
	// Version is empty for the latest release.
	Version string
}

// Source finds the newest artifact of one kind. found=false with a nil error
// means the source answered and has no match; any error is a lookup failure.
type Source interface {
	Find(ctx context.Context, q Query, kind catalog.Kind) (ref Reference, found bool, err error)
}

// Options configure a Locator.
type Options struct {
	HTTPClient *http.Client
	GitHubAPI  string
	// Offline makes every lookup fail with errs.ErrNetwork.
	Offline bool
}

// Locator walks a tool's kind preference order against its catalog source.
type Locator struct {
	sources map[string]Source
	offline bool
}

// New returns a Locator wired with every built-in source type.
func New(opts Options) *Locator {
	client := opts.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: 60 * time.Second}
	}
	api := strings.TrimRight(strings.TrimSpace(opts.GitHubAPI), "/")
	if api == "" {
		api = DefaultGitHubAPI
	}
	g := getter{client: client}
	return &Locator{
		offline: opts.Offline,
		sources: map[string]Source{
			catalog.SourceGitHubRelease: newGitHubSource(g, api),
			catalog.SourceGoIndex:       goIndexSource{get: g},
			catalog.SourcePageScrape:    newScrapeSource(g),
			catalog.SourceFixedURL:      fixedURLSource{},
			catalog.SourceVendorScript:  vendorScriptSource{},
		},
	}
}

// WithSource registers or replaces the Source used for a source type.
func (l *Locator) WithSource(sourceType string, src Source) *Locator {
	l.sources[sourceType] = src
	return l
}

// Locate returns the first artifact found in the tool's kind preference order.
// A lookup failure stops the walk immediately; errs.ErrArtifactNotFound is
// returned only after every kind reported no match.
func (l *Locator) Locate(ctx context.Context, tool catalog.Tool, plat platform.Platform, versionHint string) (Reference, error) {
	if l.offline {
		return Reference{}, fmt.Errorf(messages.LocateOfflineFmt, errs.ErrNetwork, tool.Name)
	}
	src, ok := l.sources[tool.Source.Type]
	if !ok {
		return Reference{}, fmt.Errorf(messages.LocateUnknownSourceFmt, errs.ErrInvalidInput, tool.Source.Type)
	}
	osToken, archToken := plat.Tokens(tool.OSNames, tool.ArchNames)
	q := Query{
		Tool:      tool,
		Platform:  plat,
		OSToken:   osToken,
		ArchToken: archToken,
		Version:   NormalizeVersionHint(versionHint),
	}

	misses := make([]string, 0, len(tool.Kinds))
	for _, kind := range tool.Kinds {
		ref, found, err := src.Find(ctx, q, kind)
		if err != nil {
			return Reference{}, err
		}
		if found {
			ref.Kind = kind
			if ref.Filename == "" {
				ref.Filename = filenameFromURL(ref.URL)
			}
			return ref, nil
		}
		misses = append(misses, string(kind))
	}
	return Reference{}, fmt.Errorf(messages.LocateNotFoundFmt, errs.ErrArtifactNotFound, tool.Name, plat, strings.Join(misses, ", "))
}

// NormalizeVersionHint maps "" and "latest" to the empty hint.
func NormalizeVersionHint(hint string) string {
	hint = strings.TrimSpace(hint)
	if strings.EqualFold(hint, "latest") {
		return ""
	}
	return hint
}

// compilePattern substitutes platform and version tokens into a per-kind
// pattern. Token values are quoted so they match literally.
func compilePattern(pattern string, q Query, version string) (*regexp.Regexp, error) {
	r := strings.NewReplacer(
		"{os}", regexp.QuoteMeta(q.OSToken),
		"{arch}", regexp.QuoteMeta(q.ArchToken),
		"{version}", regexp.QuoteMeta(version),
	)
	re, err := regexp.Compile(r.Replace(pattern))
	if err != nil {
		return nil, fmt.Errorf(messages.LocateInvalidPatternFmt, errs.ErrInvalidInput, q.Tool.Name, err)
	}
	return re, nil
}

func expandTemplate(tmpl string, q Query) string {
	return strings.NewReplacer(
		"{os}", q.OSToken,
		"{arch}", q.ArchToken,
		"{version}", q.Version,
	).Replace(tmpl)
}

func filenameFromURL(raw string) string {
	if u, err := url.Parse(raw); err == nil && u.Path != "" {
		return path.Base(u.Path)
	}
	return path.Base(raw)
}

func resolveURL(base string, ref string) (string, error) {
	b, err := url.Parse(base)
	if err != nil {
		return "", err
	}
	r, err := url.Parse(ref)
	if err != nil {
		return "", err
	}
	return b.ResolveReference(r).String(), nil
}

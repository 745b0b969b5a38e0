package locate

import (
	"context"
	"strings"

	"github.com/conn-castle/toolbelt/internal/catalog"
)

// fixedURLSource expands a URL template per kind. A template that needs
// {version} has no match unless a version was requested.
type fixedURLSource struct{}

func (fixedURLSource) Find(_ context.Context, q Query, kind catalog.Kind) (Reference, bool, error) {
	tmpl := strings.TrimSpace(q.Tool.Source.URLs[string(kind)])
	if tmpl == "" {
		return Reference{}, false, nil
	}
	if strings.Contains(tmpl, "{version}") && q.Version == "" {
		return Reference{}, false, nil
	}
	return Reference{URL: expandTemplate(tmpl, q), Version: q.Version}, true, nil
}

// vendorScriptSource points at an opaque installer script that performs its own download.
type vendorScriptSource struct{}

func (vendorScriptSource) Find(_ context.Context, q Query, kind catalog.Kind) (Reference, bool, error) {
	if kind != catalog.KindScript {
		return Reference{}, false, nil
	}
	ref := Reference{URL: expandTemplate(q.Tool.Source.URL, q), Version: q.Version}
	if name := filenameFromURL(ref.URL); name == "" || name == "/" || name == "." {
		ref.Filename = "install.sh"
	}
	return ref, true, nil
}

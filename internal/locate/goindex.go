package locate

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/conn-castle/toolbelt/internal/catalog"
	"github.com/conn-castle/toolbelt/internal/errs"
	"github.com/conn-castle/toolbelt/internal/messages"
)

type goRelease struct {
	Version string   `json:"version"`
	Stable  bool     `json:"stable"`
	Files   []goFile `json:"files"`
}

type goFile struct {
	Filename string `json:"filename"`
	OS       string `json:"os"`
	Arch     string `json:"arch"`
	SHA256   string `json:"sha256"`
	Kind     string `json:"kind"`
}

// goIndexSource reads the go.dev download index, which lists releases newest first.
type goIndexSource struct {
	get getter
}

func (s goIndexSource) Find(ctx context.Context, q Query, kind catalog.Kind) (Reference, bool, error) {
	indexURL := q.Tool.Source.URL
	data, err := s.get.get(ctx, indexURL, "application/json")
	if errors.Is(err, errHTTPNotFound) {
		return Reference{}, false, fmt.Errorf(messages.LocateIndexMissingFmt, errs.ErrNetwork, indexURL)
	}
	if err != nil {
		return Reference{}, false, err
	}
	var releases []goRelease
	if err := json.Unmarshal(data, &releases); err != nil {
		return Reference{}, false, fmt.Errorf(messages.LocateDecodeFmt, errs.ErrNetwork, indexURL, err)
	}

	base := q.Tool.Source.BaseURL
	if base == "" {
		base = indexURL
	}
	want := strings.TrimPrefix(q.Version, "go")
	for _, release := range releases {
		if want == "" && !release.Stable {
			continue
		}
		if want != "" && strings.TrimPrefix(release.Version, "go") != want {
			continue
		}
		for _, file := range release.Files {
			if !goFileMatches(file, q, kind) {
				continue
			}
			downloadURL, err := resolveURL(base, file.Filename)
			if err != nil {
				return Reference{}, false, fmt.Errorf(messages.LocateDecodeFmt, errs.ErrNetwork, indexURL, err)
			}
			return Reference{
				URL:      downloadURL,
				Filename: file.Filename,
				Version:  strings.TrimPrefix(release.Version, "go"),
				Checksum: strings.ToLower(file.SHA256),
			}, true, nil
		}
	}
	return Reference{}, false, nil
}

func goFileMatches(file goFile, q Query, kind catalog.Kind) bool {
	switch kind {
	case catalog.KindPrebuilt:
		return file.Kind == "archive" && file.OS == q.OSToken && file.Arch == q.ArchToken
	case catalog.KindSource:
		return file.Kind == "source"
	default:
		return false
	}
}

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

type githubRelease struct {
	TagName string        `json:"tag_name"`
	Assets  []githubAsset `json:"assets"`
}

type githubAsset struct {
	Name               string `json:"name"`
	BrowserDownloadURL string `json:"browser_download_url"`
	// Digest is "sha256:<hex>" on recent releases.
	Digest string `json:"digest"`
}

// githubSource reads GitHub release metadata. Releases are cached per
// repo and version so a multi-kind walk issues one API request.
type githubSource struct {
	get   getter
	api   string
	cache map[string]*githubRelease
}

func newGitHubSource(g getter, api string) *githubSource {
	return &githubSource{get: g, api: api, cache: map[string]*githubRelease{}}
}

func (s *githubSource) Find(ctx context.Context, q Query, kind catalog.Kind) (Reference, bool, error) {
	release, err := s.release(ctx, q.Tool.Source.Repo, q.Version)
	if err != nil {
		return Reference{}, false, err
	}
	if release == nil {
		return Reference{}, false, nil
	}

	version := strings.TrimPrefix(release.TagName, "v")
	re, err := compilePattern(q.Tool.Source.Patterns[string(kind)], q, version)
	if err != nil {
		return Reference{}, false, err
	}
	for _, asset := range release.Assets {
		if !re.MatchString(asset.Name) {
			continue
		}
		ref := Reference{
			URL:      asset.BrowserDownloadURL,
			Filename: asset.Name,
			Version:  version,
			Checksum: strings.TrimPrefix(asset.Digest, "sha256:"),
		}
		if ref.Checksum == "" && q.Tool.Source.Checksums != "" {
			sum, err := s.checksumFor(ctx, release, q.Tool.Source.Checksums, asset.Name)
			if err != nil {
				return Reference{}, false, err
			}
			ref.Checksum = sum
		}
		return ref, true, nil
	}
	return Reference{}, false, nil
}

// release returns nil when the repo or requested tag does not exist.
func (s *githubSource) release(ctx context.Context, repo string, version string) (*githubRelease, error) {
	key := repo + "@" + version
	if cached, ok := s.cache[key]; ok {
		return cached, nil
	}

	var candidates []string
	if version == "" {
		candidates = []string{s.api + "/repos/" + repo + "/releases/latest"}
	} else {
		candidates = []string{s.api + "/repos/" + repo + "/releases/tags/" + version}
		if !strings.HasPrefix(version, "v") {
			candidates = append(candidates, s.api+"/repos/"+repo+"/releases/tags/v"+version)
		}
	}

	var release *githubRelease
	for _, endpoint := range candidates {
		data, err := s.get.get(ctx, endpoint, "application/vnd.github+json")
		if errors.Is(err, errHTTPNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		var payload githubRelease
		if err := json.Unmarshal(data, &payload); err != nil {
			return nil, fmt.Errorf(messages.LocateDecodeFmt, errs.ErrNetwork, endpoint, err)
		}
		if strings.TrimSpace(payload.TagName) == "" {
			return nil, fmt.Errorf(messages.LocateReleaseMissingTagFmt, errs.ErrNetwork, endpoint)
		}
		release = &payload
		break
	}
	s.cache[key] = release
	return release, nil
}

// checksumFor reads a sha256sum-style manifest asset and returns the entry for name.
func (s *githubSource) checksumFor(ctx context.Context, release *githubRelease, manifest string, name string) (string, error) {
	for _, asset := range release.Assets {
		if asset.Name != manifest {
			continue
		}
		data, err := s.get.get(ctx, asset.BrowserDownloadURL, "")
		if errors.Is(err, errHTTPNotFound) {
			return "", nil
		}
		if err != nil {
			return "", err
		}
		return ParseChecksums(string(data))[name], nil
	}
	return "", nil
}

// ParseChecksums parses "<hex>  <name>" lines as written by sha256sum.
func ParseChecksums(content string) map[string]string {
	out := map[string]string{}
	for _, line := range strings.Split(content, "\n") {
		fields := strings.Fields(line)
		if len(fields) < 2 {
			continue
		}
		sum := strings.ToLower(fields[0])
		if len(sum) != 64 {
			continue
		}
		name := strings.TrimPrefix(fields[len(fields)-1], "*")
		if idx := strings.LastIndex(name, "/"); idx >= 0 {
			name = name[idx+1:]
		}
		out[name] = sum
	}
	return out
}

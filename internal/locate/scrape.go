package locate

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"golang.org/x/net/html"

	"github.com/conn-castle/toolbelt/internal/catalog"
	"github.com/conn-castle/toolbelt/internal/errs"
	"github.com/conn-castle/toolbelt/internal/messages"
)

// scrapeSource matches per-kind patterns against a download page. Anchors are
// tried first, then the raw body text; the first match in document order wins.
// Pages are cached per URL so a multi-kind walk issues one request.
type scrapeSource struct {
	get   getter
	pages map[string][]byte
}

func newScrapeSource(g getter) *scrapeSource {
	return &scrapeSource{get: g, pages: map[string][]byte{}}
}

func (s *scrapeSource) Find(ctx context.Context, q Query, kind catalog.Kind) (Reference, bool, error) {
	pattern := q.Tool.Source.Patterns[string(kind)]
	if q.Version != "" && !strings.Contains(pattern, "{version}") {
		return Reference{}, false, fmt.Errorf(messages.LocateVersionUnpinnableFmt, errs.ErrInvalidInput, q.Tool.Name, q.Version, kind)
	}
	pageURL := q.Tool.Source.URL
	data, err := s.page(ctx, pageURL)
	if err != nil {
		return Reference{}, false, err
	}

	re, err := compilePattern(pattern, q, q.Version)
	if err != nil {
		return Reference{}, false, err
	}
	match, ok := firstMatch(data, re)
	if !ok {
		return Reference{}, false, nil
	}

	base := q.Tool.Source.BaseURL
	if base == "" {
		base = pageURL
	}
	downloadURL, err := resolveURL(base, match)
	if err != nil {
		return Reference{}, false, fmt.Errorf(messages.LocateDecodeFmt, errs.ErrNetwork, pageURL, err)
	}
	return Reference{
		URL:     downloadURL,
		Version: versionGroup(re, match),
	}, true, nil
}

func (s *scrapeSource) page(ctx context.Context, pageURL string) ([]byte, error) {
	if data, ok := s.pages[pageURL]; ok {
		return data, nil
	}
	data, err := s.get.get(ctx, pageURL, "text/html")
	if errors.Is(err, errHTTPNotFound) {
		return nil, fmt.Errorf(messages.LocateIndexMissingFmt, errs.ErrNetwork, pageURL)
	}
	if err != nil {
		return nil, err
	}
	s.pages[pageURL] = data
	return data, nil
}

// firstMatch returns the first href matched by re, or the first match in the raw text.
func firstMatch(page []byte, re *regexp.Regexp) (string, bool) {
	if doc, err := html.Parse(bytes.NewReader(page)); err == nil {
		if href, ok := firstHref(doc, re); ok {
			return href, true
		}
	}
	if m := re.Find(page); m != nil {
		return string(m), true
	}
	return "", false
}

func firstHref(n *html.Node, re *regexp.Regexp) (string, bool) {
	if n.Type == html.ElementNode && n.Data == "a" {
		for _, attr := range n.Attr {
			if attr.Key == "href" && re.MatchString(attr.Val) {
				return attr.Val, true
			}
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if href, ok := firstHref(c, re); ok {
			return href, true
		}
	}
	return "", false
}

// versionGroup returns the named "version" capture, if the pattern has one.
func versionGroup(re *regexp.Regexp, s string) string {
	idx := re.SubexpIndex("version")
	if idx < 0 {
		return ""
	}
	m := re.FindStringSubmatch(s)
	if m == nil {
		return ""
	}
	return m[idx]
}

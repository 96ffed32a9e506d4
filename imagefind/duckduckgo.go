package imagefind

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/url"
	"regexp"
	"strings"
)

const (
	DefaultDuckDuckGoBase = "https://duckduckgo.com"
	ddgMaxTries           = 5
)

var vqdPattern = regexp.MustCompile(`vqd=['"]([^'"]+)['"]`)

type ddgResults struct {
	Results []struct {
		Image string `json:"image"`
	} `json:"results"`
}

// DuckDuckGoSource uses DuckDuckGo's two-step image search: a token page,
// then the JSON results endpoint.
type DuckDuckGoSource struct {
	base string
	dl   *Downloader
}

func NewDuckDuckGoSource(base string, dl *Downloader) *DuckDuckGoSource {
	if base == "" {
		base = DefaultDuckDuckGoBase
	}
	return &DuckDuckGoSource{base: strings.TrimRight(base, "/"), dl: dl}
}

func (s *DuckDuckGoSource) Name() string { return "duckduckgo" }

func (s *DuckDuckGoSource) Find(ctx context.Context, q Query) (*Photo, bool) {
	query := url.QueryEscape(searchQuery(q))

	tokenURL := s.base + "/?q=" + query + "&iax=images&ia=images"
	resp, err := s.dl.http.R().SetContext(ctx).Get(tokenURL)
	if err != nil || resp.IsError() {
		slog.Debug("imagefind: duckduckgo token request failed", "error", err)
		return nil, false
	}
	m := vqdPattern.FindStringSubmatch(resp.String())
	if m == nil {
		slog.Debug("imagefind: duckduckgo token missing")
		return nil, false
	}

	resultsURL := s.base + "/i.js?l=us-en&o=json&q=" + query + "&vqd=" + url.QueryEscape(m[1]) + "&f=,,,,,&p=1"
	resp, err = s.dl.http.R().
		SetContext(ctx).
		SetHeader("Referer", s.base+"/").
		Get(resultsURL)
	if err != nil || resp.IsError() {
		slog.Debug("imagefind: duckduckgo results request failed", "error", err)
		return nil, false
	}

	var results ddgResults
	if err := json.Unmarshal(resp.Body(), &results); err != nil {
		slog.Debug("imagefind: duckduckgo results not JSON", "error", err)
		return nil, false
	}

	var urls []string
	for _, r := range results.Results {
		if r.Image == "" {
			continue
		}
		urls = append(urls, r.Image)
		if len(urls) == ddgMaxTries {
			break
		}
	}
	return s.dl.firstDownload(ctx, s.Name(), urls)
}

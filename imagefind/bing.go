package imagefind

import (
	"context"
	"log/slog"
	"net/url"
	"regexp"
	"strings"
)

const (
	DefaultBingBase = "https://www.bing.com"
	bingMaxTries    = 10
)

var (
	bingMurl   = regexp.MustCompile(`murl[&quot;:"\s]+?(https?://[^"&\s]+\.(?:jpg|jpeg|png|webp))`)
	genericImg = regexp.MustCompile(`src="(https?://[^"]+\.(?:jpg|jpeg|png|webp))"`)
)

// BingSource scrapes Bing image search results.
type BingSource struct {
	base string
	dl   *Downloader
}

func NewBingSource(base string, dl *Downloader) *BingSource {
	if base == "" {
		base = DefaultBingBase
	}
	return &BingSource{base: strings.TrimRight(base, "/"), dl: dl}
}

func (s *BingSource) Name() string { return "bing" }

func (s *BingSource) Find(ctx context.Context, q Query) (*Photo, bool) {
	searchURL := s.base + "/images/search?q=" + url.QueryEscape(searchQuery(q)) + "&first=1"
	resp, err := s.dl.http.R().SetContext(ctx).Get(searchURL)
	if err != nil || resp.IsError() {
		slog.Debug("imagefind: bing search failed", "url", searchURL, "error", err)
		return nil, false
	}

	urls := bingImageURLs(resp.String())
	slog.Debug("imagefind: bing candidates", "count", len(urls))
	return s.dl.firstDownload(ctx, s.Name(), urls)
}

// bingImageURLs extracts full-size image URLs from a results page. When the
// murl metadata is missing it falls back to plain img tags, skipping Bing's
// own assets.
func bingImageURLs(page string) []string {
	var urls []string
	for _, m := range bingMurl.FindAllStringSubmatch(page, -1) {
		urls = appendUnique(urls, m[1])
	}
	if len(urls) == 0 {
		for _, m := range genericImg.FindAllStringSubmatch(page, -1) {
			lower := strings.ToLower(m[1])
			if strings.Contains(lower, "bing") || strings.Contains(lower, "microsoft") {
				continue
			}
			urls = appendUnique(urls, m[1])
		}
	}
	if len(urls) > bingMaxTries {
		urls = urls[:bingMaxTries]
	}
	return urls
}

func appendUnique(list []string, s string) []string {
	for _, v := range list {
		if v == s {
			return list
		}
	}
	return append(list, s)
}

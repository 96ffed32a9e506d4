package imagefind

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"log/slog"
	"time"

	cloudflarebp "github.com/DaRealFreak/cloudflare-bp-go"
	"github.com/go-resty/resty/v2"
	"github.com/use-agent/carposter/telemetry"
	_ "golang.org/x/image/webp"
)

const (
	DefaultMinWidth  = 300
	DefaultMinHeight = 180

	// MaxImageBytes caps the body read for one image.
	MaxImageBytes = 10 << 20

	browserUA = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
)

// Downloader fetches and decodes images, rejecting anything smaller than
// the minimum size.
type Downloader struct {
	http      *resty.Client
	minWidth  int
	minHeight int
	maxBytes  int64
}

// NewDownloader creates a Downloader with a Cloudflare-friendly transport.
func NewDownloader(timeout time.Duration, minWidth, minHeight int) *Downloader {
	if minWidth <= 0 {
		minWidth = DefaultMinWidth
	}
	if minHeight <= 0 {
		minHeight = DefaultMinHeight
	}
	return &Downloader{
		http:      newClient(timeout),
		minWidth:  minWidth,
		minHeight: minHeight,
		maxBytes:  MaxImageBytes,
	}
}

// newClient builds the resty client shared by downloads and search pages.
func newClient(timeout time.Duration) *resty.Client {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	client := resty.New().
		SetTimeout(timeout).
		SetHeader("User-Agent", browserUA).
		SetHeader("Accept-Language", "en-US,en;q=0.9")
	client.GetClient().Transport = cloudflarebp.AddCloudFlareByPass(client.GetClient().Transport)
	telemetry.InstrumentResty(client, "carposter/imagefind")
	return client
}

// Download returns the decoded image at rawURL, or false when it cannot be
// fetched, decoded, or is too small.
func (d *Downloader) Download(ctx context.Context, rawURL string) (image.Image, bool) {
	resp, err := d.http.R().SetContext(ctx).SetDoNotParseResponse(true).Get(rawURL)
	if err != nil {
		slog.Debug("imagefind: download failed", "url", rawURL, "error", err)
		return nil, false
	}
	body := resp.RawBody()
	defer body.Close()
	if resp.IsError() {
		slog.Debug("imagefind: download rejected", "url", rawURL, "status", resp.StatusCode())
		return nil, false
	}

	data, err := readLimited(body, resp.RawResponse.ContentLength, d.maxBytes)
	if err != nil {
		slog.Debug("imagefind: download rejected", "url", rawURL, "error", err)
		return nil, false
	}

	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		slog.Debug("imagefind: not a decodable image", "url", rawURL, "error", err)
		return nil, false
	}

	b := img.Bounds()
	if b.Dx() < d.minWidth || b.Dy() < d.minHeight {
		slog.Debug("imagefind: image too small", "url", rawURL, "format", format,
			"width", b.Dx(), "height", b.Dy())
		return nil, false
	}
	return img, true
}

// readLimited reads at most limit bytes, failing early when the declared
// length already exceeds it.
func readLimited(r io.Reader, declared, limit int64) ([]byte, error) {
	if declared > limit {
		return nil, fmt.Errorf("image of %d bytes exceeds %d", declared, limit)
	}
	data, err := io.ReadAll(io.LimitReader(r, limit+1))
	if err != nil {
		return nil, fmt.Errorf("read image: %w", err)
	}
	if int64(len(data)) > limit {
		return nil, fmt.Errorf("image exceeds %d bytes", limit)
	}
	return data, nil
}

// firstDownload tries urls in order and returns the first valid image.
func (d *Downloader) firstDownload(ctx context.Context, source string, urls []string) (*Photo, bool) {
	for _, u := range urls {
		if ctx.Err() != nil {
			return nil, false
		}
		if img, ok := d.Download(ctx, u); ok {
			return &Photo{Image: img, Source: source, URL: u}, true
		}
	}
	return nil, false
}

package imagefind

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/use-agent/carposter/imagegen"
)

func encodePNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 90, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func encodeJPEG(t *testing.T, w, h int) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, image.NewGray(image.Rect(0, 0, w, h)), nil); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

// imageServer serves fixed bodies by path and counts requests per path.
type imageServer struct {
	*httptest.Server
	bodies map[string][]byte
	hits   map[string]*atomic.Int32
}

func newImageServer(t *testing.T, bodies map[string][]byte) *imageServer {
	s := &imageServer{bodies: bodies, hits: map[string]*atomic.Int32{}}
	for p := range bodies {
		s.hits[p] = &atomic.Int32{}
	}
	s.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, ok := s.bodies[r.URL.Path]
		if !ok {
			http.NotFound(w, r)
			return
		}
		s.hits[r.URL.Path].Add(1)
		w.Write(body)
	}))
	t.Cleanup(s.Close)
	return s
}

// countingSource records calls and never finds anything.
type countingSource struct {
	name  string
	calls int
}

func (s *countingSource) Name() string { return s.name }

func (s *countingSource) Find(context.Context, Query) (*Photo, bool) {
	s.calls++
	return nil, false
}

type panickySource struct{}

func (panickySource) Name() string { return "panicky" }

func (panickySource) Find(context.Context, Query) (*Photo, bool) { panic("boom") }

func TestFinderCatalogPhotoShortCircuits(t *testing.T) {
	srv := newImageServer(t, map[string][]byte{"/photo.png": encodePNG(t, 400, 250)})
	dl := NewDownloader(0, 0, 0)

	bing := &countingSource{name: "bing"}
	ddg := &countingSource{name: "duckduckgo"}
	gen := &countingSource{name: "generated"}
	f := NewFinder(NewCatalogSource(dl), bing, ddg, gen)

	photo, ok := f.Find(context.Background(), Query{Make: "Audi", Model: "TT RS", CatalogURL: srv.URL + "/photo.png"})
	if !ok {
		t.Fatal("Find returned no photo")
	}
	if photo.Source != "catalog" {
		t.Errorf("Source = %q, want catalog", photo.Source)
	}
	if b := photo.Image.Bounds(); b.Dx() != 400 || b.Dy() != 250 {
		t.Errorf("size = %dx%d, want 400x250", b.Dx(), b.Dy())
	}
	if bing.calls+ddg.calls+gen.calls != 0 {
		t.Errorf("later sources called: bing=%d ddg=%d gen=%d", bing.calls, ddg.calls, gen.calls)
	}
}

func TestFinderAllMiss(t *testing.T) {
	a, b := &countingSource{name: "a"}, &countingSource{name: "b"}
	f := NewFinder(a, panickySource{}, b)

	if _, ok := f.Find(context.Background(), Query{Make: "Audi"}); ok {
		t.Fatal("expected no photo")
	}
	if a.calls != 1 || b.calls != 1 {
		t.Errorf("calls a=%d b=%d, want 1 each; a panic must not stop the waterfall", a.calls, b.calls)
	}
}

func TestDownloaderRejectsOversizedBody(t *testing.T) {
	srv := newImageServer(t, map[string][]byte{"/big.png": encodePNG(t, 600, 400)})
	dl := NewDownloader(0, 0, 0)
	ctx := context.Background()

	if _, ok := dl.Download(ctx, srv.URL+"/big.png"); !ok {
		t.Fatal("Download under the default limit failed")
	}
	dl.maxBytes = 64
	if _, ok := dl.Download(ctx, srv.URL+"/big.png"); ok {
		t.Error("Download accepted a body over the limit")
	}
}

func TestReadLimited(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		declared int64
		wantErr  bool
	}{
		{"within limit", "abcd", 4, false},
		{"unknown length within limit", "abcd", -1, false},
		{"declared too large", "ab", 100, true},
		{"undeclared body too large", "abcdefgh", -1, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := readLimited(strings.NewReader(tt.body), tt.declared, 4)
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if err == nil && string(data) != tt.body {
				t.Errorf("data = %q, want %q", data, tt.body)
			}
		})
	}
}

func TestDownloaderRejectsSmallAndBroken(t *testing.T) {
	srv := newImageServer(t, map[string][]byte{
		"/small.png": encodePNG(t, 299, 400),
		"/short.jpg": encodeJPEG(t, 600, 179),
		"/ok.jpg":    encodeJPEG(t, 300, 180),
		"/text.png":  []byte("<html>not an image</html>"),
	})
	dl := NewDownloader(0, 0, 0)
	ctx := context.Background()

	tests := []struct {
		path string
		want bool
	}{
		{"/small.png", false},
		{"/short.jpg", false},
		{"/ok.jpg", true},
		{"/text.png", false},
		{"/missing.png", false},
	}
	for _, tt := range tests {
		if _, ok := dl.Download(ctx, srv.URL+tt.path); ok != tt.want {
			t.Errorf("Download(%s) ok = %v, want %v", tt.path, ok, tt.want)
		}
	}
}

func TestCatalogSourceNoURL(t *testing.T) {
	if _, ok := NewCatalogSource(NewDownloader(0, 0, 0)).Find(context.Background(), Query{Make: "Audi"}); ok {
		t.Error("catalog source without URL should miss")
	}
}

func TestBingImageURLs(t *testing.T) {
	page := `<a m="{&quot;murl&quot;:&quot;https://cdn.test/a.jpg&quot;}"></a>` +
		`<a m='{"murl":"https://cdn.test/b.png"}'></a>` +
		`<img src="https://cdn.test/ignored.jpg">`
	got := bingImageURLs(page)
	want := []string{"https://cdn.test/a.jpg", "https://cdn.test/b.png"}
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Errorf("murl urls = %v, want %v", got, want)
	}

	fallbackPage := `<img src="https://th.bing.com/th/id/x.jpg"><img src="https://cdn.test/c.webp">`
	if got := bingImageURLs(fallbackPage); len(got) != 1 || got[0] != "https://cdn.test/c.webp" {
		t.Errorf("fallback urls = %v", got)
	}

	var many strings.Builder
	for i := 0; i < 15; i++ {
		fmt.Fprintf(&many, `murl&quot;:&quot;https://cdn.test/%d.jpg&quot;`, i)
	}
	if got := bingImageURLs(many.String()); len(got) != bingMaxTries {
		t.Errorf("len = %d, want %d", len(got), bingMaxTries)
	}
}

func TestBingSourceSkipsInvalidCandidates(t *testing.T) {
	srv := newImageServer(t, map[string][]byte{
		"/small.jpg": encodeJPEG(t, 100, 100),
		"/big.jpg":   encodeJPEG(t, 640, 360),
	})
	search := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/images/search" || r.URL.Query().Get("q") != "BMW M3 car photo HD" {
			t.Errorf("unexpected search request %s", r.URL)
		}
		fmt.Fprintf(w, `murl&quot;:&quot;%s/small.jpg&quot; murl&quot;:&quot;%s/big.jpg&quot;`, srv.URL, srv.URL)
	}))
	defer search.Close()

	photo, ok := NewBingSource(search.URL, NewDownloader(0, 0, 0)).Find(context.Background(), Query{Make: "BMW", Model: "M3"})
	if !ok {
		t.Fatal("bing source found nothing")
	}
	if photo.URL != srv.URL+"/big.jpg" || photo.Source != "bing" {
		t.Errorf("photo = %s from %s", photo.URL, photo.Source)
	}
	if srv.hits["/small.jpg"].Load() != 1 {
		t.Error("small candidate should have been tried first")
	}
}

func TestDuckDuckGoSource(t *testing.T) {
	img := newImageServer(t, map[string][]byte{"/car.png": encodePNG(t, 320, 200)})
	ddg := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/":
			w.Write([]byte(`<script>vqd="4-12345";</script>`))
		case "/i.js":
			if r.URL.Query().Get("vqd") != "4-12345" {
				t.Errorf("vqd = %q", r.URL.Query().Get("vqd"))
			}
			fmt.Fprintf(w, `{"results":[{"image":""},{"image":"%s/car.png"}]}`, img.URL)
		default:
			http.NotFound(w, r)
		}
	}))
	defer ddg.Close()

	photo, ok := NewDuckDuckGoSource(ddg.URL, NewDownloader(0, 0, 0)).Find(context.Background(), Query{Make: "Nissan", Model: "GT-R"})
	if !ok {
		t.Fatal("duckduckgo source found nothing")
	}
	if photo.Source != "duckduckgo" {
		t.Errorf("Source = %q", photo.Source)
	}
}

func TestDuckDuckGoSourceWithoutToken(t *testing.T) {
	ddg := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html>no token</html>`))
	}))
	defer ddg.Close()

	if _, ok := NewDuckDuckGoSource(ddg.URL, NewDownloader(0, 0, 0)).Find(context.Background(), Query{Make: "Nissan"}); ok {
		t.Error("expected miss without vqd token")
	}
}

type fakeGenerator struct {
	enabled bool
	url     string
	err     error
	prompt  string
}

func (g *fakeGenerator) Enabled() bool { return g.enabled }

func (g *fakeGenerator) Generate(_ context.Context, prompt string, _ imagegen.Params) (string, error) {
	g.prompt = prompt
	return g.url, g.err
}

func TestGeneratorSource(t *testing.T) {
	img := newImageServer(t, map[string][]byte{"/gen.png": encodePNG(t, 448, 256)})
	dl := NewDownloader(0, 0, 0)
	q := Query{Make: "Porsche", Model: "911 Turbo"}

	disabled := &fakeGenerator{}
	if _, ok := NewGeneratorSource(disabled, dl).Find(context.Background(), q); ok || disabled.prompt != "" {
		t.Error("disabled generator should be skipped without a call")
	}

	failing := &fakeGenerator{enabled: true, err: errors.New("quota")}
	if _, ok := NewGeneratorSource(failing, dl).Find(context.Background(), q); ok {
		t.Error("generator error should be a miss")
	}

	gen := &fakeGenerator{enabled: true, url: img.URL + "/gen.png"}
	photo, ok := NewGeneratorSource(gen, dl).Find(context.Background(), q)
	if !ok || photo.Source != "generated" {
		t.Fatalf("photo = %+v, ok = %v", photo, ok)
	}
	if !strings.Contains(gen.prompt, "Porsche 911 Turbo") {
		t.Errorf("prompt = %q", gen.prompt)
	}
}

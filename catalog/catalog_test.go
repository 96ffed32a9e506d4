package catalog

import (
	"context"
	"testing"

	"github.com/use-agent/carposter/models"
)

const testBase = "https://catalog.test"

// pageMap serves canned HTML by URL and records every request.
type pageMap struct {
	pages map[string]string
	calls []string
}

func (p *pageMap) FetchHTML(_ context.Context, rawURL string) (string, bool) {
	p.calls = append(p.calls, rawURL)
	html, ok := p.pages[rawURL]
	return html, ok
}

const bmwListing = `<html><body>
<a href="/make/bmw/m_series/m5/">M5 Competition</a>
<a href="/make/bmw/m_series/m3/">M3</a>
<a href="/make/bmw/x_series/x6/">X6</a>
</body></html>`

func TestMakeAndSearchURL(t *testing.T) {
	if got := MakeURL(testBase+"/", "Alfa Romeo"); got != testBase+"/make/alfa_romeo/" {
		t.Errorf("MakeURL = %q", got)
	}
	if got := SearchURL(testBase, "Audi TT RS"); got != testBase+"/search.php?q=Audi+TT+RS" {
		t.Errorf("SearchURL = %q", got)
	}
}

func TestFindModelSubstringMatch(t *testing.T) {
	pages := &pageMap{pages: map[string]string{MakeURL(testBase, "BMW"): bmwListing}}
	c := New(testBase, pages, pages, nil)

	cand, ok := c.FindModel(context.Background(), "BMW", "m3")
	if !ok {
		t.Fatal("FindModel returned absent")
	}
	if cand.URL != testBase+"/make/bmw/m_series/m3/" {
		t.Errorf("URL = %q, want the M3 link", cand.URL)
	}
}

func TestFindModelIgnoresSingleCharacterLinks(t *testing.T) {
	listing := `<a href="/make/bmw/3/series/">3</a>
<a href="/car/2025/3317015/bmw_m3_competition_m_xdrive.html">BMW M3 Competition</a>`
	pages := &pageMap{pages: map[string]string{MakeURL(testBase, "BMW"): listing}}
	c := New(testBase, pages, pages, nil)

	cand, ok := c.FindModel(context.Background(), "BMW", "M3")
	if !ok || cand.DisplayName != "BMW M3 Competition" {
		t.Errorf("FindModel = %+v, %v; want BMW M3 Competition", cand, ok)
	}
}

func TestFindModelQueryContainsName(t *testing.T) {
	pages := &pageMap{pages: map[string]string{MakeURL(testBase, "BMW"): bmwListing}}
	c := New(testBase, pages, pages, nil)

	cand, ok := c.FindModel(context.Background(), "BMW", "X 6 xDrive40i")
	if !ok || cand.DisplayName != "X6" {
		t.Errorf("FindModel = %+v, %v; want X6", cand, ok)
	}
}

func TestFindModelFirstCandidateFallback(t *testing.T) {
	pages := &pageMap{pages: map[string]string{MakeURL(testBase, "BMW"): bmwListing}}
	c := New(testBase, pages, pages, nil)

	cand, ok := c.FindModel(context.Background(), "BMW", "Isetta")
	if !ok || cand.DisplayName != "M5 Competition" {
		t.Errorf("FindModel = %+v, %v; want the first candidate", cand, ok)
	}
}

func TestPickCandidateJaroWinkler(t *testing.T) {
	cands := []models.ModelCandidate{
		{URL: "a", DisplayName: "Cayenne"},
		{URL: "b", DisplayName: "Carrera GTS"},
	}
	// A misspelling with no substring overlap still resolves to the close name.
	if got := pickCandidate(cands, "Carrera GT5"); got.URL != "b" {
		t.Errorf("pickCandidate = %+v, want Carrera GTS", got)
	}
	if got := pickCandidate(cands, "Taycan Turbo"); got.URL != "a" {
		t.Errorf("pickCandidate = %+v, want first candidate", got)
	}
	if got := pickCandidate(cands, ""); got.URL != "a" {
		t.Errorf("empty query: %+v, want first candidate", got)
	}
}

func TestFindModelSearchFallback(t *testing.T) {
	search := `<html><body><a href="/car/2018/2470640/audi_tt_rs_coupe_s-tronic.html"></a></body></html>`
	pages := &pageMap{pages: map[string]string{
		SearchURL(testBase, "Audi TT RS"): search,
	}}
	c := New(testBase, pages, pages, nil)

	cand, ok := c.FindModel(context.Background(), "Audi", "TT RS")
	if !ok {
		t.Fatal("FindModel returned absent")
	}
	if cand.URL != testBase+"/car/2018/2470640/audi_tt_rs_coupe_s-tronic.html" {
		t.Errorf("URL = %q", cand.URL)
	}
	if len(pages.calls) != 2 {
		t.Errorf("calls = %v, want listing then search", pages.calls)
	}
}

func TestFindModelKnownURL(t *testing.T) {
	tests := []struct {
		make, model string
		wantPath    string
	}{
		{"Audi", "TT RS", "/car/2018/2470640/audi_tt_rs_coupe_s-tronic.html"},
		{"porsche", "911 Turbo S", "/car/2018/2871365/porsche_911_turbo_coupe.html"},
		{"Nissan", "GT-R Nismo 2020", "/car/2016/2183225/nissan_gt-r_nismo.html"},
		{"Mercedes", "AMG GT", "/car/2020/2874950/mercedes-amg_gt_c_roadster.html"},
	}
	for _, tt := range tests {
		t.Run(tt.make+" "+tt.model, func(t *testing.T) {
			pages := &pageMap{pages: map[string]string{}}
			c := New(testBase, pages, pages, nil)

			cand, ok := c.FindModel(context.Background(), tt.make, tt.model)
			if !ok {
				t.Fatal("FindModel returned absent")
			}
			if cand.URL != testBase+tt.wantPath {
				t.Errorf("URL = %q, want %q", cand.URL, testBase+tt.wantPath)
			}
		})
	}
}

func TestFindModelAbsent(t *testing.T) {
	pages := &pageMap{pages: map[string]string{}}
	c := New(testBase, pages, pages, nil)

	if cand, ok := c.FindModel(context.Background(), "Lada", "Niva"); ok {
		t.Errorf("FindModel = %+v, want absent", cand)
	}
}

func TestFetchSpecs(t *testing.T) {
	detailURL := testBase + "/car/2025/3317015/bmw_m3_competition_m_xdrive.html"
	details := &pageMap{pages: map[string]string{
		detailURL: `<html><head><title>BMW M3 Competition M xDrive | Catalog</title></head><body>
<table>
<tr><th>Engine</th><td>3.0 L inline-6 twin-turbo</td></tr>
<tr><th>Power</th><td>530 hp</td></tr>
</table></body></html>`,
	}}
	listing := &pageMap{pages: map[string]string{}}
	c := New(testBase, listing, details, nil)

	spec, ok := c.FetchSpecs(context.Background(), "BMW", "M3", detailURL)
	if !ok {
		t.Fatal("FetchSpecs returned absent")
	}
	if spec.Attributes["Engine"] != "3.0 L inline-6 twin-turbo" || spec.Attributes["Power"] != "530 hp" {
		t.Errorf("Attributes = %v", spec.Attributes)
	}
	if len(listing.calls) != 0 {
		t.Errorf("detail fetch went through the listing fetcher: %v", listing.calls)
	}
}

func TestFetchSpecsAbsent(t *testing.T) {
	pages := &pageMap{pages: map[string]string{}}
	c := New(testBase, pages, pages, nil)

	if _, ok := c.FetchSpecs(context.Background(), "BMW", "M3", testBase+"/car/missing.html"); ok {
		t.Error("FetchSpecs should be absent when no HTML is obtained")
	}
}

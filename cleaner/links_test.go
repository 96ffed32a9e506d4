package cleaner

import (
	"fmt"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/use-agent/carposter/models"
)

const listingPage = `<html><head><style>a{color:red}</style></head><body>
<nav><a href="/">Home</a><a href="/make/bmw/">BMW</a></nav>
<a href="/car/2025/3317015/bmw_m3_competition_m_xdrive.html">BMW M3 Competition</a>
<a href="/car/2025/3317015/bmw_m3_competition_m_xdrive.html#specs">duplicate url</a>
<a href="/make/bmw/m_series/m3/">M3</a>
<a href="/make/bmw/m_series/">M Series</a>
<a href="/car/2024/1/bmw_m3_touring.html">BMW M3 Competition</a>
<a href="/car/2024/2/bmw_x5.html"></a>
<a href="javascript:void(0)">Menu</a>
<a href="https://other.example.com/car/1/x.html">  BMW   X6 </a>
</body></html>`

func TestExtractModelLinks(t *testing.T) {
	got := ExtractModelLinks(listingPage, "https://www.automobile-catalog.com/make/bmw/", "BMW")
	want := []models.ModelCandidate{
		{URL: "https://www.automobile-catalog.com/car/2025/3317015/bmw_m3_competition_m_xdrive.html", DisplayName: "BMW M3 Competition"},
		{URL: "https://www.automobile-catalog.com/make/bmw/m_series/m3/", DisplayName: "M3"},
		{URL: "https://www.automobile-catalog.com/make/bmw/m_series/", DisplayName: "M Series"},
		{URL: "https://other.example.com/car/1/x.html", DisplayName: "BMW X6"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("ExtractModelLinks mismatch (-want +got):\n%s", diff)
	}
}

func TestExtractModelLinksDropsShortNames(t *testing.T) {
	page := `<a href="/make/bmw/3/series/">3</a>
<a href="/car/2025/3317015/bmw_m3_competition_m_xdrive.html">BMW M3 Competition</a>
<a href="/make/bmw/3/series/">3 Series</a>`
	got := ExtractModelLinks(page, "https://www.automobile-catalog.com/make/bmw/", "BMW")
	want := []models.ModelCandidate{
		{URL: "https://www.automobile-catalog.com/car/2025/3317015/bmw_m3_competition_m_xdrive.html", DisplayName: "BMW M3 Competition"},
		{URL: "https://www.automobile-catalog.com/make/bmw/3/series/", DisplayName: "3 Series"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("ExtractModelLinks mismatch (-want +got):\n%s", diff)
	}
}

func TestExtractModelLinksRejectsLongText(t *testing.T) {
	page := `<a href="/car/1/a.html">` + strings.Repeat("x", 151) + `</a>`
	if got := ExtractModelLinks(page, "https://example.com/", "audi"); len(got) != 0 {
		t.Errorf("expected long anchor text to be rejected, got %v", got)
	}
}

func TestExtractModelLinksCap(t *testing.T) {
	var b strings.Builder
	for i := 0; i < 150; i++ {
		fmt.Fprintf(&b, `<a href="/car/%d/m.html">Model %d</a>`, i, i)
	}
	got := ExtractModelLinks(b.String(), "https://example.com/", "audi")
	if len(got) != MaxCandidates {
		t.Errorf("len = %d, want cap %d", len(got), MaxCandidates)
	}
	if got[0].DisplayName != "Model 0" {
		t.Errorf("first = %q, want encounter order", got[0].DisplayName)
	}
}

func TestExtractSearchResults(t *testing.T) {
	page := `<ul>
<li><a href="/car/2018/2470640/audi_tt_rs_coupe_s-tronic.html"></a></li>
<li><a href="/car/2016/1/audi_tt_roadster.html">Audi TT Roadster</a></li>
<li><a href="/make/audi/">Audi</a></li>
</ul>`
	got := ExtractSearchResults(page, "https://www.automobile-catalog.com/search.php?q=audi+tt")
	want := []models.ModelCandidate{
		{URL: "https://www.automobile-catalog.com/car/2018/2470640/audi_tt_rs_coupe_s-tronic.html", DisplayName: "audi tt rs coupe s-tronic"},
		{URL: "https://www.automobile-catalog.com/car/2016/1/audi_tt_roadster.html", DisplayName: "Audi TT Roadster"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("ExtractSearchResults mismatch (-want +got):\n%s", diff)
	}
}

func TestNormalizeMakeSlug(t *testing.T) {
	if got := NormalizeMakeSlug("  Alfa Romeo "); got != "alfa_romeo" {
		t.Errorf("NormalizeMakeSlug = %q", got)
	}
}

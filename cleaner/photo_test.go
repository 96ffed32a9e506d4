package cleaner

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
)

func selectFrom(t *testing.T, body, make, model string) string {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(body))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	return SelectPhoto(doc, "https://www.automobile-catalog.com/car/1/a.html", make, model)
}

func TestSelectPhoto(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{
			name: "skips furniture and tiny images",
			body: `<img src="/img/facebook.png" alt="share">
<img src="/pic/bmw_m3_thumb.jpg" width="60" height="40" alt="BMW M3">
<img src="/pic/bmw_m3.jpg" alt="BMW M3 Competition">`,
			want: "https://www.automobile-catalog.com/pic/bmw_m3.jpg",
		},
		{
			name: "rejects non-photo extensions",
			body: `<img src="/pic/bmw_m3.gif" alt="BMW M3"><img src="/pic/bmw_m3.svg">`,
			want: "",
		},
		{
			name: "higher score wins",
			body: `<img src="https://cdn.example.com/a.jpg" alt="photo">
<img src="https://cdn.example.com/bmw-m3.jpg" alt="BMW M3">`,
			want: "https://cdn.example.com/bmw-m3.jpg",
		},
		{
			name: "ties keep encounter order",
			body: `<img src="/pic/one.jpg"><img src="/pic/two.jpg">`,
			want: "https://www.automobile-catalog.com/pic/one.jpg",
		},
		{
			name: "zero score is not a photo",
			body: `<img src="https://cdn.example.com/random.png">`,
			want: "",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := selectFrom(t, tt.body, "BMW", "M3"); got != tt.want {
				t.Errorf("SelectPhoto = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestScoreImageOrdering(t *testing.T) {
	full := scoreImage("/pic/audi_tt_rs.jpg", "audi tt rs coupe", 800, 450, "audi", "ttrs")
	partial := scoreImage("/pic/x.jpg", "audi", 0, 0, "audi", "ttrs")
	none := scoreImage("/x.jpg", "", 0, 0, "audi", "ttrs")

	if !(full > partial && partial > none) {
		t.Errorf("scores not ordered: full=%d partial=%d none=%d", full, partial, none)
	}
	if none != 0 {
		t.Errorf("unrelated image scored %d, want 0", none)
	}
}

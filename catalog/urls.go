package catalog

import (
	"net/url"
	"strings"

	"github.com/use-agent/carposter/cleaner"
)

// MakeURL returns the listing page for make, e.g. {base}/make/alfa_romeo/.
func MakeURL(base, make string) string {
	return strings.TrimRight(base, "/") + "/make/" + cleaner.NormalizeMakeSlug(make) + "/"
}

// SearchURL returns the free-text search page for query.
func SearchURL(base, query string) string {
	return strings.TrimRight(base, "/") + "/search.php?q=" + url.QueryEscape(query)
}

// knownURL pins a make/model to a detail page that is known to resolve.
type knownURL struct {
	make, model string
	path        string
}

// knownURLs is consulted in order when the catalog yields no candidates.
var knownURLs = []knownURL{
	{"audi", "tt rs", "/car/2018/2470640/audi_tt_rs_coupe_s-tronic.html"},
	{"audi", "tt", "/car/2018/2470640/audi_tt_rs_coupe_s-tronic.html"},
	{"bmw", "m3", "/car/2025/3317015/bmw_m3_competition_m_xdrive.html"},
	{"porsche", "911 turbo", "/car/2018/2871365/porsche_911_turbo_coupe.html"},
	{"porsche", "911 turbo s", "/car/2018/2871365/porsche_911_turbo_coupe.html"},
	{"porsche", "911", "/car/2018/2871365/porsche_911_turbo_coupe.html"},
	{"mercedes-benz", "amg gt", "/car/2020/2874950/mercedes-amg_gt_c_roadster.html"},
	{"mercedes", "amg gt", "/car/2020/2874950/mercedes-amg_gt_c_roadster.html"},
	{"nissan", "gt-r", "/car/2016/2183225/nissan_gt-r_nismo.html"},
	{"nissan", "gt-r nismo", "/car/2016/2183225/nissan_gt-r_nismo.html"},
}

package cleaner

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Photo scoring weights. Only their relative order matters.
const (
	wAltMake      = 10
	wAltModel     = 10
	wSrcMake      = 5
	wSrcModel     = 5
	wPhotoSegment = 5
	wLargeWidth   = 3
	wLargeHeight  = 3
	wAltKeyword   = 3

	minImageSide = 80
)

var photoExtensions = []string{".jpg", ".jpeg", ".png", ".webp"}

// skipImagePatterns mark page furniture rather than vehicle photos.
var skipImagePatterns = []string{
	"logo", "icon", "banner", "advert", "button", "flag", "pixel", "tracking",
	"spacer", "blank", "avatar", "favicon", "sprite", "social", "facebook",
	"twitter", "instagram", "youtube", "cloudflare", "captcha", "recaptcha",
	"widget",
}

var photoSegments = []string{"/pic/", "/img/", "/photo/", "/car/", "/image/"}

var vehicleKeywords = []string{"car", "auto", "photo", "vehicle", "coupe", "sedan"}

// SelectPhoto returns the absolute URL of the most plausible vehicle photo on
// the page, or "" when no image scores above zero. Ties keep the earlier image.
func SelectPhoto(doc *goquery.Document, pageURL, make, model string) string {
	base, _ := url.Parse(pageURL)

	makeKey := strings.ToLower(strings.TrimSpace(make))
	modelKey := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(model)), " ", "")

	best, bestScore := "", 0
	doc.Find("img[src]").Each(func(_ int, s *goquery.Selection) {
		src := strings.TrimSpace(s.AttrOr("src", ""))
		if src == "" {
			return
		}
		srcLower := strings.ToLower(src)
		alt := strings.ToLower(strings.TrimSpace(s.AttrOr("alt", "")))

		if !containsAny(srcLower, photoExtensions) {
			return
		}
		if containsAny(srcLower, skipImagePatterns) || containsAny(alt, skipImagePatterns) {
			return
		}
		width, height := dimension(s, "width"), dimension(s, "height")
		if (width > 0 && width < minImageSide) || (height > 0 && height < minImageSide) {
			return
		}

		score := scoreImage(srcLower, alt, width, height, makeKey, modelKey)
		if score > bestScore {
			best, bestScore = src, score
		}
	})

	if best == "" {
		return ""
	}
	if base != nil {
		if resolved, err := base.Parse(best); err == nil {
			return resolved.String()
		}
	}
	return best
}

func scoreImage(src, alt string, width, height int, makeKey, modelKey string) int {
	score := 0
	altCompact := strings.ReplaceAll(alt, " ", "")
	srcCompact := strings.NewReplacer("_", "", "-", "").Replace(src)

	if makeKey != "" && strings.Contains(alt, makeKey) {
		score += wAltMake
	}
	if modelKey != "" && strings.Contains(altCompact, modelKey) {
		score += wAltModel
	}
	if makeKey != "" && strings.Contains(src, makeKey) {
		score += wSrcMake
	}
	if modelKey != "" && strings.Contains(srcCompact, modelKey) {
		score += wSrcModel
	}
	if containsAny(src, photoSegments) {
		score += wPhotoSegment
	}
	if width >= 300 {
		score += wLargeWidth
	}
	if height >= 200 {
		score += wLargeHeight
	}
	if containsAny(alt, vehicleKeywords) {
		score += wAltKeyword
	}
	return score
}

// dimension parses the leading digits of a width/height attribute; 0 when absent.
func dimension(s *goquery.Selection, attr string) int {
	v := strings.TrimSpace(s.AttrOr(attr, ""))
	end := 0
	for end < len(v) && v[end] >= '0' && v[end] <= '9' {
		end++
	}
	n, err := strconv.Atoi(v[:end])
	if err != nil {
		return 0
	}
	return n
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

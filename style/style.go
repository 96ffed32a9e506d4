// Package style derives the poster palette and canvas size, either the
// built-in dark theme or one sampled from a reference image.
package style

import (
	"fmt"
	"image"
	"image/color"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"sort"
	"strconv"
	"strings"

	"dario.cat/mergo"
	"github.com/use-agent/carposter/models"
	_ "golang.org/x/image/webp"
)

const (
	DefaultWidth  = 1080
	DefaultHeight = 1350

	maxSide = 2000
	minSide = 600

	sampleCount = 50
)

var (
	fallbackBackground = color.RGBA{R: 10, G: 10, B: 10, A: 255}
	fallbackAccent     = color.RGBA{R: 230, G: 46, B: 30, A: 255}
)

// Default returns the built-in dark theme.
func Default() models.StyleProfile {
	return models.StyleProfile{
		Width:            DefaultWidth,
		Height:           DefaultHeight,
		BackgroundColor:  "#0a0a0a",
		AccentColor:      "#c0392b",
		PrimaryTextColor: "#ffffff",
		MutedTextColor:   "#999999",
	}
}

// FromReference samples the image at path. Fields the sample cannot
// provide are filled from Default.
func FromReference(path string) (models.StyleProfile, error) {
	f, err := os.Open(path)
	if err != nil {
		return models.StyleProfile{}, fmt.Errorf("open reference: %w", err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return models.StyleProfile{}, fmt.Errorf("decode reference: %w", err)
	}
	return FromImage(img)
}

// FromImage derives a profile from img: the canvas keeps its aspect ratio
// within the size limits, the background is the median sampled colour and
// the accent is the most saturated dark sample.
func FromImage(img image.Image) (models.StyleProfile, error) {
	b := img.Bounds()
	w, h := clampSize(b.Dx(), b.Dy())

	samples := sample(img, w, h)
	profile := models.StyleProfile{
		Width:            w,
		Height:           h,
		BackgroundColor:  Hex(median(samples)),
		AccentColor:      Hex(accent(samples)),
		PrimaryTextColor: "#ffffff",
		MutedTextColor:   "#888888",
	}
	if err := mergo.Merge(&profile, Default()); err != nil {
		return models.StyleProfile{}, err
	}
	return profile, nil
}

// Complete fills the empty fields of p from Default.
func Complete(p models.StyleProfile) models.StyleProfile {
	_ = mergo.Merge(&p, Default())
	return p
}

func clampSize(w, h int) (int, int) {
	if w <= 0 || h <= 0 {
		return 0, 0
	}
	long, short := max(w, h), min(w, h)
	switch {
	case long > maxSide:
		scale := float64(maxSide) / float64(long)
		return int(float64(w) * scale), int(float64(h) * scale)
	case short < minSide:
		scale := float64(minSide) / float64(short)
		return int(float64(w) * scale), int(float64(h) * scale)
	}
	return w, h
}

// sample reads evenly spaced pixels on a w×h grid mapped onto img,
// skipping near-white ones.
func sample(img image.Image, w, h int) []color.RGBA {
	if w <= 0 || h <= 0 {
		return nil
	}
	b := img.Bounds()
	area := w * h
	step := max(1, area/(sampleCount+1))

	var out []color.RGBA
	for i := 0; i < sampleCount; i++ {
		pos := (i * step) % area
		x, y := pos%w, pos/w
		sx := b.Min.X + x*b.Dx()/w
		sy := b.Min.Y + y*b.Dy()/h
		c := color.RGBAModel.Convert(img.At(sx, sy)).(color.RGBA)
		if int(c.R)+int(c.G)+int(c.B) < 240*3 {
			out = append(out, color.RGBA{R: c.R, G: c.G, B: c.B, A: 255})
		}
	}
	return out
}

func median(samples []color.RGBA) color.RGBA {
	if len(samples) == 0 {
		return fallbackBackground
	}
	channel := func(get func(color.RGBA) uint8) uint8 {
		vals := make([]int, len(samples))
		for i, s := range samples {
			vals[i] = int(get(s))
		}
		sort.Ints(vals)
		return uint8(vals[len(vals)/2])
	}
	return color.RGBA{
		R: channel(func(c color.RGBA) uint8 { return c.R }),
		G: channel(func(c color.RGBA) uint8 { return c.G }),
		B: channel(func(c color.RGBA) uint8 { return c.B }),
		A: 255,
	}
}

func accent(samples []color.RGBA) color.RGBA {
	best, bestSat, found := fallbackAccent, -1.0, false
	for _, c := range samples {
		r, g, b := int(c.R), int(c.G), int(c.B)
		hi, lo := max(r, g, b), min(r, g, b)
		if r+g+b >= 180*3 || hi-lo <= 20 {
			continue
		}
		sat := float64(hi-lo) / (float64(hi) + 1e-6)
		if sat > bestSat {
			best, bestSat, found = c, sat, true
		}
	}
	if !found {
		return fallbackAccent
	}
	return best
}

// Hex formats c as "#rrggbb".
func Hex(c color.RGBA) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// ParseHex parses "#rrggbb" or "#rgb".
func ParseHex(s string) (color.RGBA, error) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(s) == 3 {
		s = string([]byte{s[0], s[0], s[1], s[1], s[2], s[2]})
	}
	if len(s) != 6 {
		return color.RGBA{}, fmt.Errorf("invalid colour %q", s)
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("invalid colour %q: %w", s, err)
	}
	return color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 255}, nil
}

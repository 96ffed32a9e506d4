package poster

import (
	"image"
	"image/color"

	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"
)

// canvas wraps the poster image with layout helpers scaled to the
// 1080×1350 reference size.
type canvas struct {
	img  *image.RGBA
	w, h int
	s    float64
}

func newCanvas(w, h int, bg color.RGBA) *canvas {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), image.NewUniform(bg), image.Point{}, draw.Src)
	return &canvas{
		img: img,
		w:   w,
		h:   h,
		s:   min(float64(w)/referenceWidth, float64(h)/referenceHeight),
	}
}

// px scales a length given at reference size.
func (c *canvas) px(v float64) int { return int(v * c.s) }

func (c *canvas) fillRect(r image.Rectangle, col color.Color) {
	draw.Draw(c.img, r.Intersect(c.img.Bounds()), image.NewUniform(col), image.Point{}, draw.Src)
}

// hline draws a horizontal line centred on y.
func (c *canvas) hline(x0, x1, y, thickness int, col color.Color) {
	thickness = max(1, thickness)
	top := y - thickness/2
	c.fillRect(image.Rect(x0, top, x1, top+thickness), col)
}

// diagonals draws 1px lines running down-right every step pixels.
func (c *canvas) diagonals(step int, col color.RGBA) {
	step = max(1, step)
	for i := -c.h; i < c.w+c.h; i += step {
		for y := 0; y < c.h; y++ {
			if x := i + y; x >= 0 && x < c.w {
				c.img.SetRGBA(x, y, col)
			}
		}
	}
}

// corners draws L-shaped marks in the four corners.
func (c *canvas) corners(col color.Color) {
	length := c.px(35)
	lw := max(2, c.px(2))
	m := c.px(30)
	w, h := c.w, c.h

	c.fillRect(image.Rect(m, m, m+length, m+lw), col)
	c.fillRect(image.Rect(m, m, m+lw, m+length), col)

	c.fillRect(image.Rect(w-m-length, m, w-m, m+lw), col)
	c.fillRect(image.Rect(w-m-lw, m, w-m, m+length), col)

	c.fillRect(image.Rect(m, h-m-lw, m+length, h-m), col)
	c.fillRect(image.Rect(m, h-m-length, m+lw, h-m), col)

	c.fillRect(image.Rect(w-m-length, h-m-lw, w-m, h-m), col)
	c.fillRect(image.Rect(w-m-lw, h-m-length, w-m, h-m), col)
}

func textWidth(face font.Face, s string) int {
	return font.MeasureString(face, s).Ceil()
}

// baseline returns the baseline that vertically centres face's glyphs on cy.
func baseline(face font.Face, cy int) int {
	m := face.Metrics()
	return cy + (m.Ascent.Ceil()-m.Descent.Ceil())/2
}

// text draws s with its left edge at x, vertically centred on cy.
func (c *canvas) text(face font.Face, s string, x, cy int, col color.Color) {
	d := &font.Drawer{
		Dst:  c.img,
		Src:  image.NewUniform(col),
		Face: face,
		Dot:  fixed.P(x, baseline(face, cy)),
	}
	d.DrawString(s)
}

// centered draws s centred on (cx, cy).
func (c *canvas) centered(face font.Face, s string, cx, cy int, col color.Color) {
	c.text(face, s, cx-textWidth(face, s)/2, cy, col)
}

// spaced draws s centred on (cx, cy) with extra spacing between runes and
// returns the total width.
func (c *canvas) spaced(face font.Face, s string, cx, cy, spacing int, col color.Color) int {
	runes := []rune(s)
	if len(runes) == 0 {
		return 0
	}
	widths := make([]int, len(runes))
	total := spacing * (len(runes) - 1)
	for i, r := range runes {
		widths[i] = textWidth(face, string(r))
		total += widths[i]
	}
	x := cx - total/2
	for i, r := range runes {
		c.text(face, string(r), x, cy, col)
		x += widths[i] + spacing
	}
	return total
}

// photoStrip scales photo to fit the poster width (capped at maxH) and
// blends it in at y with a fade on its top and bottom edges. It returns
// the strip height.
func (c *canvas) photoStrip(photo image.Image, y, maxH, fade int, bg color.RGBA) int {
	pb := photo.Bounds()
	if pb.Dx() == 0 || pb.Dy() == 0 {
		return 0
	}

	targetW := int(float64(c.w) * 0.92)
	targetH := pb.Dy() * targetW / pb.Dx()
	if targetH > maxH {
		targetH = maxH
		targetW = pb.Dx() * maxH / pb.Dy()
	}
	if targetW <= 0 || targetH <= 0 {
		return 0
	}

	strip := image.NewRGBA(image.Rect(0, 0, c.w, targetH))
	draw.Draw(strip, strip.Bounds(), image.NewUniform(bg), image.Point{}, draw.Src)
	xoff := (c.w - targetW) / 2
	draw.CatmullRom.Scale(strip, image.Rect(xoff, 0, xoff+targetW, targetH), photo, pb, draw.Over, nil)

	fade = max(1, fade)
	mask := image.NewAlpha(strip.Bounds())
	for row := 0; row < targetH; row++ {
		a := 255
		if row < fade {
			a = 255 * row / fade
		}
		if row >= targetH-fade {
			a = min(a, 255*(targetH-row)/fade)
		}
		for x := 0; x < c.w; x++ {
			mask.SetAlpha(x, row, color.Alpha{A: uint8(a)})
		}
	}

	draw.DrawMask(c.img, image.Rect(0, y, c.w, y+targetH), strip, image.Point{}, mask, image.Point{}, draw.Over)
	return targetH
}

// lighten adds d to each channel, saturating at 255.
func lighten(c color.RGBA, d uint8) color.RGBA {
	add := func(v uint8) uint8 {
		if int(v)+int(d) > 255 {
			return 255
		}
		return v + d
	}
	return color.RGBA{R: add(c.R), G: add(c.G), B: add(c.B), A: 255}
}

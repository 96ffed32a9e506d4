// Package poster renders a vehicle specification into a portrait poster:
// headline, optional hero photo and a short list of specs on a dark theme.
package poster

import (
	"image"
	"image/color"
	"log/slog"
	"strings"

	"github.com/use-agent/carposter/models"
	"github.com/use-agent/carposter/style"
	"golang.org/x/image/font"
)

const (
	referenceWidth  = 1080
	referenceHeight = 1350

	footerText = "automobile-catalog.com"
)

var (
	separatorColor = color.RGBA{R: 0x1a, G: 0x1a, B: 0x1a, A: 0xff}
	faintColor     = color.RGBA{R: 0x44, G: 0x44, B: 0x44, A: 0xff}
	glowColor      = color.RGBA{R: 0x1a, G: 0x05, B: 0x05, A: 0xff}
)

// Renderer draws posters. It is safe for concurrent use.
type Renderer struct {
	fonts     *fontSet
	outputDir string
}

// NewRenderer loads the embedded fonts. Posters without an explicit path
// are written under outputDir.
func NewRenderer(outputDir string) (*Renderer, error) {
	fonts, err := loadFonts()
	if err != nil {
		return nil, models.NewPosterError(models.ErrCodeRenderFailed, "failed to load fonts", err)
	}
	if outputDir == "" {
		outputDir = "output"
	}
	return &Renderer{fonts: fonts, outputDir: outputDir}, nil
}

// palette is a StyleProfile with parsed colours.
type palette struct {
	bg, accent, primary, muted color.RGBA
}

func parsePalette(p models.StyleProfile) (palette, error) {
	var pal palette
	var err error
	if pal.bg, err = style.ParseHex(p.BackgroundColor); err != nil {
		return pal, err
	}
	if pal.accent, err = style.ParseHex(p.AccentColor); err != nil {
		return pal, err
	}
	if pal.primary, err = style.ParseHex(p.PrimaryTextColor); err != nil {
		return pal, err
	}
	if pal.muted, err = style.ParseHex(p.MutedTextColor); err != nil {
		return pal, err
	}
	return pal, nil
}

// Render draws spec and writes it to outPath, or to the default path under
// the output directory when outPath is empty. photo and profile may be nil.
// It returns the path written.
func (r *Renderer) Render(spec models.VehicleSpecification, photo image.Image, profile *models.StyleProfile, outPath string) (string, error) {
	img, err := r.Draw(spec, photo, profile)
	if err != nil {
		return "", err
	}

	if outPath == "" {
		outPath = OutputPath(r.outputDir, spec.Make, spec.Model)
	}
	outPath = normalizeExt(outPath)
	if err := save(img, outPath); err != nil {
		return "", models.NewPosterError(models.ErrCodeRenderFailed, "failed to write poster", err)
	}

	mode := "text-only"
	if photo != nil {
		mode = "with photo"
	}
	b := img.Bounds()
	slog.Info("poster saved", "path", outPath, "mode", mode, "width", b.Dx(), "height", b.Dy())
	return outPath, nil
}

// Draw renders the poster in memory.
func (r *Renderer) Draw(spec models.VehicleSpecification, photo image.Image, profile *models.StyleProfile) (*image.RGBA, error) {
	p := style.Default()
	if profile != nil {
		p = style.Complete(*profile)
	}
	pal, err := parsePalette(p)
	if err != nil {
		return nil, models.NewPosterError(models.ErrCodeRenderFailed, "invalid style colour", err)
	}

	var fs faces
	defer fs.close()
	face := func(f fontKind, size float64) (font.Face, error) {
		return fs.get(r.fonts.pick(f), size)
	}

	c := newCanvas(p.Width, p.Height, pal.bg)
	c.diagonals(c.px(80), lighten(pal.bg, 4))
	c.corners(pal.accent)

	// Make, letter-spaced.
	y := c.px(110)
	brand, err := face(light, 28*c.s)
	if err != nil {
		return nil, renderErr(err)
	}
	c.spaced(brand, strings.ToUpper(spec.Make), c.w/2, y, c.px(14), pal.muted)

	// Headline, shrunk until it fits.
	y += c.px(75)
	headline := strings.ToUpper(spec.Model)
	if headline == "" {
		headline = strings.ToUpper(spec.DisplayName)
	}
	size := 96 * c.s
	title, err := face(bold, size)
	if err != nil {
		return nil, renderErr(err)
	}
	for float64(textWidth(title, headline)) > float64(c.w)*0.85 && size > 40 {
		size -= 4
		if title, err = face(bold, size); err != nil {
			return nil, renderErr(err)
		}
	}
	gr := max(2, c.px(3))
	for dx := -gr; dx <= gr; dx++ {
		for dy := -gr; dy <= gr; dy++ {
			if dx != 0 || dy != 0 {
				c.centered(title, headline, c.w/2+dx*2, y+dy*2, glowColor)
			}
		}
	}
	c.centered(title, headline, c.w/2, y, pal.primary)

	// Accent bar.
	y += c.px(70)
	barW := int(float64(c.w) * 0.40)
	c.fillRect(image.Rect((c.w-barW)/2, y, (c.w+barW)/2, y+max(3, c.px(3))), pal.accent)
	y += c.px(20)

	var rows []Row
	var lay rowLayout
	if photo != nil {
		y += c.px(15)
		y += c.photoStrip(photo, y, c.px(380), c.px(50), pal.bg) + c.px(15)

		thinW := int(float64(c.w) * 0.30)
		c.hline((c.w-thinW)/2, (c.w+thinW)/2, y, max(1, c.px(2)), pal.accent)
		y += c.px(25)

		rows = SelectSpecs(spec.Attributes, MaxRowsWithPhoto)
		lay = rowLayout{labelSize: 16, valueSize: 26, labelGap: 25, valueGap: 32, maxRow: 90, sep: 30, reserved: 65}
	} else {
		y += c.px(35)
		section, err := face(light, 14*c.s)
		if err != nil {
			return nil, renderErr(err)
		}
		c.spaced(section, "SPECIFICATIONS", c.w/2, y, c.px(8), faintColor)
		y += c.px(55)

		rows = SelectSpecs(spec.Attributes, MaxRowsTextOnly)
		lay = rowLayout{labelSize: 18, valueSize: 30, labelGap: 30, valueGap: 38, maxRow: 120, sep: 35, reserved: 80}
	}

	labelFace, err := face(light, lay.labelSize*c.s)
	if err != nil {
		return nil, renderErr(err)
	}
	valueFace, err := face(semibold, lay.valueSize*c.s)
	if err != nil {
		return nil, renderErr(err)
	}
	c.rows(rows, y, lay, labelFace, valueFace, pal)

	// Footer.
	footW := int(float64(c.w) * 0.20)
	c.hline((c.w-footW)/2, (c.w+footW)/2, c.h-c.px(65), 1, separatorColor)
	src, err := face(light, 12*c.s)
	if err != nil {
		return nil, renderErr(err)
	}
	c.centered(src, footerText, c.w/2, c.h-c.px(42), faintColor)

	return c.img, nil
}

// rowLayout holds row metrics at reference size.
type rowLayout struct {
	labelSize, valueSize float64
	labelGap, valueGap   float64
	maxRow, sep          float64
	reserved             float64
}

func (c *canvas) rows(rows []Row, y int, lay rowLayout, labelFace, valueFace font.Face, pal palette) {
	n := max(1, len(rows))
	available := c.h - y - c.px(lay.reserved)
	rowH := min(c.px(lay.maxRow), available/n)
	used := c.px(lay.labelGap) + c.px(lay.valueGap)

	for i, row := range rows {
		c.centered(labelFace, strings.ToUpper(row.Label), c.w/2, y, pal.muted)
		y += c.px(lay.labelGap)
		c.centered(valueFace, truncate(row.Value), c.w/2, y, pal.primary)
		y += c.px(lay.valueGap)
		if i < len(rows)-1 {
			sep := c.px(lay.sep)
			c.hline(c.w/2-sep, c.w/2+sep, y, 1, separatorColor)
			y += max(0, rowH-used)
		}
	}
}

func renderErr(err error) error {
	return models.NewPosterError(models.ErrCodeRenderFailed, "failed to prepare font", err)
}

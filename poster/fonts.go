package poster

import (
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gomedium"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
)

// fontSet holds the three weights used on a poster: light text, values and
// the headline.
type fontSet struct {
	light, semibold, bold *opentype.Font
}

var loadFonts = sync.OnceValues(func() (*fontSet, error) {
	light, err := opentype.Parse(goregular.TTF)
	if err != nil {
		return nil, err
	}
	semibold, err := opentype.Parse(gomedium.TTF)
	if err != nil {
		return nil, err
	}
	bold, err := opentype.Parse(gobold.TTF)
	if err != nil {
		return nil, err
	}
	return &fontSet{light: light, semibold: semibold, bold: bold}, nil
})

// faces creates sized faces and closes them together.
type faces struct {
	open []font.Face
}

func (fs *faces) get(f *opentype.Font, size float64) (font.Face, error) {
	if size < 6 {
		size = 6
	}
	face, err := opentype.NewFace(f, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, err
	}
	fs.open = append(fs.open, face)
	return face, nil
}

func (fs *faces) close() {
	for _, f := range fs.open {
		f.Close()
	}
	fs.open = nil
}

type fontKind int

const (
	light fontKind = iota
	semibold
	bold
)

func (s *fontSet) pick(k fontKind) *opentype.Font {
	switch k {
	case semibold:
		return s.semibold
	case bold:
		return s.bold
	default:
		return s.light
	}
}

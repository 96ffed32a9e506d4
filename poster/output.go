package poster

import (
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"strings"
)

// OutputPath returns {dir}/{make}_{model}.png with spaces and slashes
// replaced by underscores, or {dir}/{make}.png without a model.
func OutputPath(dir, make, model string) string {
	name := safeName(make)
	if m := safeName(model); m != "" {
		name += "_" + m
	}
	return filepath.Join(dir, name+".png")
}

func safeName(s string) string {
	return strings.NewReplacer(" ", "_", "/", "_", "\\", "_").Replace(strings.TrimSpace(s))
}

// normalizeExt forces an image extension the encoder supports.
func normalizeExt(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png", ".jpg", ".jpeg":
		return path
	}
	return strings.TrimSuffix(path, filepath.Ext(path)) + ".png"
}

// save writes img to path as JPEG or PNG by extension, creating parent
// directories.
func save(img image.Image, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create output file: %w", err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".jpg", ".jpeg":
		err = jpeg.Encode(f, img, &jpeg.Options{Quality: 92})
	default:
		enc := png.Encoder{CompressionLevel: png.BestCompression}
		err = enc.Encode(f, img)
	}
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return fmt.Errorf("encode poster: %w", err)
	}
	return nil
}

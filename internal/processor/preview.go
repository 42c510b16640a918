package processor

import (
	"fmt"
	"image"
	"image/draw"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"strings"

	"github.com/chai2010/webp"
	xdraw "golang.org/x/image/draw"
	_ "golang.org/x/image/tiff"
)

// previewPath places the preview next to the clipped raster.
func previewPath(clipPath string) string {
	return strings.TrimSuffix(clipPath, filepath.Ext(clipPath)) + ".webp"
}

// fitSize scales w x h down so the longest side is at most limit.
func fitSize(w, h, limit int) (int, int) {
	if w <= limit && h <= limit {
		return w, h
	}
	if w >= h {
		return limit, max(1, h*limit/w)
	}
	return max(1, w*limit/h), limit
}

// WritePreview decodes the clipped raster at src and writes a downscaled
// WebP copy to dst.
func WritePreview(src, dst string, size int, quality float32) error {
	f, err := os.Open(src)
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()

	srcImg, _, err := image.Decode(f)
	if err != nil {
		return fmt.Errorf("decode failed: %w", err)
	}

	bounds := srcImg.Bounds()
	w, h := fitSize(bounds.Dx(), bounds.Dy(), size)
	if w <= 0 || h <= 0 {
		return fmt.Errorf("empty raster %s", src)
	}

	dstImg := image.NewRGBA(image.Rect(0, 0, w, h))
	xdraw.CatmullRom.Scale(dstImg, dstImg.Bounds(), srcImg, bounds, draw.Over, nil)

	out, err := os.Create(dst)
	if err != nil {
		return err
	}

	if err := webp.Encode(out, dstImg, &webp.Options{Lossless: false, Quality: quality}); err != nil {
		_ = out.Close()
		return fmt.Errorf("encode webp: %w", err)
	}
	return out.Close()
}

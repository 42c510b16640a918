package processor

import (
	"context"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"github.com/woozymasta/shpclip/internal/feature"

	"github.com/chai2010/webp"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/tiff"
)

func writeTIFF(t *testing.T, path string, w, h int) {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.NRGBA{R: uint8(x), G: uint8(y), B: 128, A: 255})
		}
	}
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, tiff.Encode(f, img, nil))
	require.NoError(t, f.Close())
}

func TestFitSize(t *testing.T) {
	tests := []struct {
		w, h, limit int
		ww, wh      int
	}{
		{100, 50, 512, 100, 50},
		{1024, 512, 512, 512, 256},
		{512, 2048, 256, 64, 256},
		{4000, 1, 100, 100, 1},
	}
	for _, tt := range tests {
		w, h := fitSize(tt.w, tt.h, tt.limit)
		assert.Equal(t, tt.ww, w)
		assert.Equal(t, tt.wh, h)
	}
}

func TestWritePreview(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "A_clip.tif")
	writeTIFF(t, src, 64, 32)

	dst := previewPath(src)
	assert.Equal(t, filepath.Join(dir, "A_clip.webp"), dst)
	require.NoError(t, WritePreview(src, dst, 16, 80))

	f, err := os.Open(dst)
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	cfg, err := webp.DecodeConfig(f)
	require.NoError(t, err)
	assert.Equal(t, 16, cfg.Width)
	assert.Equal(t, 8, cfg.Height)
}

func TestWritePreviewNotAnImage(t *testing.T) {
	src := filepath.Join(t.TempDir(), "A_clip.tif")
	require.NoError(t, os.WriteFile(src, []byte("garbage"), 0o644))
	assert.Error(t, WritePreview(src, previewPath(src), 16, 80))
}

// clipExecutor writes a raster where the clip tool would.
type clipExecutor struct {
	t *testing.T
}

func (e clipExecutor) Run(_ context.Context, argv []string) (int, error) {
	writeTIFF(e.t, argv[len(argv)-1], 20, 20)
	return 0, nil
}

func TestExecuteWritesPreview(t *testing.T) {
	fx := newFixture(t, "A.tif")
	b := New(
		feature.NewConverter(validEngine{}),
		Options{InputFolder: fx.input, OutputFolder: fx.output, Preview: true, PreviewSize: 10},
		WithExecutor(clipExecutor{t: t}),
		WithStdout(&fx.stdout),
		WithLogger(zerolog.Nop()),
	)

	summary, err := b.Run(context.Background(), source(record("A.tif")))
	require.NoError(t, err)
	require.Len(t, summary.Results, 1)

	want := filepath.Join(fx.output, "A_clip.webp")
	assert.Equal(t, want, summary.Results[0].Preview)
	assert.FileExists(t, want)
}

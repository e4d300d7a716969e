package utils

import (
	"image"
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaveImageFormats(t *testing.T) {
	dir := t.TempDir()
	src := image.NewNRGBA(image.Rect(0, 0, 3, 2))
	src.SetNRGBA(1, 1, color.NRGBA{R: 10, G: 20, B: 30, A: 255})

	for _, name := range []string{"a.png", "b.bmp", "c.tiff", "d.TIF"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(dir, name)
			require.NoError(t, SaveImage(src, path))

			img, err := ReadImage(path)
			require.NoError(t, err)
			assert.Equal(t, src.Bounds(), img.Bounds())
			r, g, b, a := img.At(1, 1).RGBA()
			assert.Equal(t, []uint32{10 * 0x101, 20 * 0x101, 30 * 0x101, 0xffff}, []uint32{r, g, b, a})
		})
	}
}

func TestSaveImageUnsupported(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.gif")
	err := SaveImage(image.NewNRGBA(image.Rect(0, 0, 1, 1)), path)
	require.ErrorIs(t, err, ErrUnsupportedFormat)
	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr))
}

func TestExt(t *testing.T) {
	for format, want := range map[string]string{"png": ".png", "BMP": ".bmp", "tif": ".tiff", "tiff": ".tiff"} {
		got, err := Ext(format)
		require.NoError(t, err)
		assert.Equal(t, want, got, format)
	}
	_, err := Ext("webp")
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestReadImageMissing(t *testing.T) {
	_, err := ReadImage(filepath.Join(t.TempDir(), "nope.png"))
	assert.Error(t, err)
}

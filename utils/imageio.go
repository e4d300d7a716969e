package utils

import (
	"errors"
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
)

// ErrUnsupportedFormat is returned by SaveImage for unknown extensions.
var ErrUnsupportedFormat = errors.New("unsupported image format")

// Formats lists the output formats accepted by SaveImage, keyed by the
// extension without the dot.
var Formats = []string{"png", "bmp", "tiff"}

// Ext returns the file extension, with the dot, for an output format name.
func Ext(format string) (string, error) {
	switch strings.ToLower(format) {
	case "png":
		return ".png", nil
	case "bmp":
		return ".bmp", nil
	case "tif", "tiff":
		return ".tiff", nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
}

func ReadImage(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return img, nil
}

// SaveImage encodes img to filename, choosing the encoder from the file
// extension. A partially written file is removed on failure.
func SaveImage(img image.Image, filename string) (err error) {
	encode, err := encoderFor(filename)
	if err != nil {
		return err
	}
	f, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
		if err != nil {
			_ = os.Remove(filename)
		}
	}()
	return encode(f, img)
}

func encoderFor(filename string) (func(*os.File, image.Image) error, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".png":
		return func(f *os.File, img image.Image) error { return png.Encode(f, img) }, nil
	case ".bmp":
		return func(f *os.File, img image.Image) error { return bmp.Encode(f, img) }, nil
	case ".tif", ".tiff":
		return func(f *os.File, img image.Image) error {
			return tiff.Encode(f, img, &tiff.Options{Compression: tiff.Deflate})
		}, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, filename)
}

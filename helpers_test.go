package psdsheet

import (
	"image"
	"image/color"
)

type fakeLayer struct {
	name   string
	hidden bool
	img    *image.NRGBA
	err    error
}

func (l fakeLayer) Visible() bool { return !l.hidden }
func (l fakeLayer) Name() string  { return l.name }

func (l fakeLayer) Size() image.Point {
	if l.img == nil {
		return image.Point{}
	}
	return l.img.Bounds().Size()
}

// Render hands out a copy, as a decoder would.
func (l fakeLayer) Render() (*image.NRGBA, error) {
	if l.err != nil {
		return nil, l.err
	}
	return clone(l.img), nil
}

func clone(img *image.NRGBA) *image.NRGBA {
	out := image.NewNRGBA(img.Bounds())
	copy(out.Pix, img.Pix)
	return out
}

type fakeDoc struct {
	size   image.Point
	layers []Layer
}

func (d fakeDoc) Size() image.Point { return d.size }
func (d fakeDoc) Layers() []Layer   { return d.layers }

func newDoc(w, h int, layers ...Layer) fakeDoc {
	return fakeDoc{size: image.Pt(w, h), layers: layers}
}

func solid(w, h int, c color.NRGBA) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i], img.Pix[i+1], img.Pix[i+2], img.Pix[i+3] = c.R, c.G, c.B, c.A
	}
	return img
}

var (
	red         = color.NRGBA{R: 255, A: 255}
	green       = color.NRGBA{G: 255, A: 255}
	blue        = color.NRGBA{B: 255, A: 255}
	white       = color.NRGBA{R: 255, G: 255, B: 255, A: 255}
	transparent = color.NRGBA{}
)

// Package psdfile adapts documents decoded by github.com/oov/psd to the
// psdsheet.Document and psdsheet.Layer interfaces.
//
// Only top-level layers are exposed. Group layers are reported as hidden so
// that the selector skips them.
package psdfile

import (
	"fmt"
	"image"
	"image/color"
	"io"
	"log/slog"
	"os"

	"github.com/oov/psd"
	"golang.org/x/image/draw"

	"github.com/setanarut/psdsheet"
)

// Document wraps a decoded PSD.
type Document struct {
	size   image.Point
	layers []psdsheet.Layer
}

// Open decodes the PSD file at path.
func Open(path string) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	doc, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("psdfile: %s: %w", path, err)
	}
	return doc, nil
}

// Decode reads a PSD from r. The merged preview image is not decoded.
func Decode(r io.Reader) (*Document, error) {
	p, _, err := psd.Decode(r, &psd.DecodeOptions{SkipMergedImage: true})
	if err != nil {
		return nil, err
	}
	return FromPSD(p), nil
}

// FromPSD wraps an already decoded PSD.
func FromPSD(p *psd.PSD) *Document {
	bounds := p.Config.Rect
	doc := &Document{
		size:   bounds.Size(),
		layers: make([]psdsheet.Layer, 0, len(p.Layer)),
	}
	for i := range p.Layer {
		doc.layers = append(doc.layers, newLayer(&p.Layer[i], bounds))
	}
	return doc
}

func (d *Document) Size() image.Point { return d.size }

func (d *Document) Layers() []psdsheet.Layer { return d.layers }

// Layer is one top-level PSD layer rendered onto the document canvas.
type Layer struct {
	l      *psd.Layer
	canvas image.Rectangle
}

func newLayer(l *psd.Layer, canvas image.Rectangle) *Layer {
	return &Layer{l: l, canvas: canvas}
}

// Name prefers the Unicode layer name over the legacy Pascal string.
func (l *Layer) Name() string {
	if l.l.UnicodeName != "" {
		return l.l.UnicodeName
	}
	return l.l.Name
}

// Visible reports false for hidden layers and for groups.
func (l *Layer) Visible() bool {
	if l.l.Folder() {
		if l.l.Visible() {
			psdsheet.Logger().Warn("nested groups are not supported, skipping",
				slog.String("layer", l.Name()))
		}
		return false
	}
	return l.l.Visible()
}

// Size is the document size: every layer renders onto the full canvas.
func (l *Layer) Size() image.Point { return l.canvas.Size() }

// Render draws the layer's pixels at their position on a transparent canvas
// the size of the document, scaled by the layer opacity.
func (l *Layer) Render() (*image.NRGBA, error) {
	dst := image.NewNRGBA(image.Rectangle{Max: l.canvas.Size()})
	pic := l.l.Picker
	if pic == nil {
		return dst, nil
	}
	r := l.l.Rect.Sub(l.canvas.Min).Intersect(dst.Bounds())
	if r.Empty() {
		return dst, nil
	}
	sp := pic.Bounds().Min.Add(r.Min.Sub(l.l.Rect.Sub(l.canvas.Min).Min))
	if l.l.Opacity == 0xff {
		draw.Draw(dst, r, pic, sp, draw.Src)
		return dst, nil
	}
	mask := image.NewUniform(color.Alpha{A: l.l.Opacity})
	draw.DrawMask(dst, r, pic, sp, mask, image.Point{}, draw.Over)
	return dst, nil
}

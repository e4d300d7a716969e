package psdsheet

import (
	"fmt"
	"image"
	"log/slog"
	"strings"
)

// DefaultOverlayMarker marks a layer that is folded into the cell before it
// instead of starting a cell of its own.
const DefaultOverlayMarker = "[md]"

// Layer is one top-level layer of a decoded document.
type Layer interface {
	Visible() bool
	Name() string
	Size() image.Point
	// Render returns the layer's straight-alpha pixels in a new raster owned
	// by the caller. It may be called more than once.
	Render() (*image.NRGBA, error)
}

// Document is an ordered sequence of layers, first to last in the file's
// native order.
type Document interface {
	Size() image.Point
	Layers() []Layer
}

// Cell is one sprite of the sheet: a base layer with any overlay layers
// pasted on top.
type Cell struct {
	// Name of the base layer.
	Name string
	// Layers holds the base name followed by merged overlay names.
	Layers []string
	Raster *image.NRGBA
}

// Size returns the pixel size of the cell.
func (c Cell) Size() image.Point {
	if c.Raster == nil {
		return image.Point{}
	}
	return c.Raster.Bounds().Size()
}

// selection is the fold state threaded through the layer sequence.
type selection struct {
	marker string
	size   image.Point
	base   *Cell
	done   []Cell
}

func (s selection) step(l Layer) (selection, error) {
	if !l.Visible() {
		Logger().Debug("skip hidden layer", slog.String("layer", l.Name()))
		return s, nil
	}
	raster, err := l.Render()
	if err != nil {
		return s, fmt.Errorf("psdsheet: render layer %q: %w", l.Name(), err)
	}
	got := raster.Bounds().Size()
	if s.base == nil && len(s.done) == 0 {
		s.size = got
	} else if got != s.size {
		return s, &DimensionError{Layer: l.Name(), Want: s.size, Got: got}
	}

	if s.base != nil && s.isOverlay(l.Name()) {
		overlay(s.base.Raster, raster)
		s.base.Layers = append(s.base.Layers, l.Name())
		Logger().Debug("merge overlay",
			slog.String("layer", l.Name()), slog.String("into", s.base.Name))
		return s, nil
	}

	s = s.flush()
	s.base = &Cell{Name: l.Name(), Layers: []string{l.Name()}, Raster: raster}
	return s, nil
}

func (s selection) isOverlay(name string) bool {
	return s.marker != "" && strings.Contains(name, s.marker)
}

func (s selection) flush() selection {
	if s.base != nil {
		s.done = append(s.done, *s.base)
		s.base = nil
	}
	return s
}

// SelectCells walks doc's layers and groups them into sprite cells.
//
// Hidden layers are skipped. The first visible layer starts a cell. A later
// visible layer whose name contains marker is pasted over the current cell
// at the same origin, with every non-transparent overlay pixel replacing the
// pixel below it; any other visible layer closes the current cell and starts
// the next one. An empty marker disables merging.
//
// A document without visible layers yields ErrEmptyDocument. Layers that
// render at a size different from the first visible layer yield a
// *DimensionError.
func SelectCells(doc Document, marker string) ([]Cell, error) {
	s := selection{marker: marker}
	var err error
	for _, l := range doc.Layers() {
		if s, err = s.step(l); err != nil {
			return nil, err
		}
	}
	s = s.flush()
	if len(s.done) == 0 {
		return nil, ErrEmptyDocument
	}
	return s.done, nil
}

// overlay copies every pixel of src whose alpha is non-zero onto dst. Both
// images must have the same size; their origins may differ.
func overlay(dst, src *image.NRGBA) {
	sb, db := src.Bounds(), dst.Bounds()
	for y := 0; y < sb.Dy(); y++ {
		srow := src.Pix[src.PixOffset(sb.Min.X, sb.Min.Y+y):]
		drow := dst.Pix[dst.PixOffset(db.Min.X, db.Min.Y+y):]
		for x := 0; x < sb.Dx(); x++ {
			i := x * 4
			if srow[i+3] != 0 {
				copy(drow[i:i+4], srow[i:i+4])
			}
		}
	}
}

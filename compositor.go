package psdsheet

import (
	"fmt"
	"image"
	"log/slog"

	"golang.org/x/image/draw"
)

// Compose packs cells into one raster laid out by grid.
//
// A single cell is returned as is. Otherwise the sheet is
// grid.Width*w by grid.Height*h pixels, where w and h are the size of the
// first cell, and cell i is copied into grid.CellRect(i). Slots past the last
// cell stay transparent.
func Compose(cells []Cell, grid Grid) (*image.NRGBA, error) {
	switch {
	case len(cells) == 0:
		return nil, ErrEmptyDocument
	case len(cells) == 1:
		return cells[0].Raster, nil
	case grid.Slots() < len(cells):
		return nil, fmt.Errorf("%w: %dx%d for %d cells",
			ErrGridTooSmall, grid.Width, grid.Height, len(cells))
	}

	size := cells[0].Size()
	sheet := image.NewNRGBA(image.Rectangle{Max: grid.Size(size)})
	for i, c := range cells {
		if got := c.Size(); got != size {
			return nil, &DimensionError{Layer: c.Name, Want: size, Got: got}
		}
		r := grid.CellRect(i, size)
		draw.Draw(sheet, r, c.Raster, c.Raster.Bounds().Min, draw.Src)
		Logger().Debug("place cell",
			slog.Int("index", i), slog.String("cell", c.Name), slog.String("rect", r.String()))
	}
	return sheet, nil
}

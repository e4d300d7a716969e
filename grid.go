package psdsheet

import (
	"image"
	"math"
)

// Grid is the column (Width) and row (Height) count of a sprite sheet.
type Grid struct {
	Width  int
	Height int
}

// PlanGrid returns the near-square grid for n cells: the smallest square
// that holds n, with one row removed when n still fits. Height is therefore
// Width or Width-1. PlanGrid returns the zero Grid for n <= 0.
func PlanGrid(n int) Grid {
	if n <= 0 {
		return Grid{}
	}
	w := ceilSqrt(n)
	h := w
	if n <= w*(w-1) {
		h = w - 1
	}
	return Grid{Width: w, Height: h}
}

// ceilSqrt is ceil(sqrt(n)) corrected for float rounding on large n.
func ceilSqrt(n int) int {
	w := int(math.Ceil(math.Sqrt(float64(n))))
	for w > 1 && (w-1)*(w-1) >= n {
		w--
	}
	for w*w < n {
		w++
	}
	return w
}

// Slots returns the number of cells the grid can hold.
func (g Grid) Slots() int {
	return g.Width * g.Height
}

// CellRect returns the pixel rectangle of slot i for cells of the given
// size. Slots fill left to right, then top to bottom.
func (g Grid) CellRect(i int, cell image.Point) image.Rectangle {
	if g.Width <= 0 {
		return image.Rectangle{}
	}
	col, row := i%g.Width, i/g.Width
	origin := image.Pt(col*cell.X, row*cell.Y)
	return image.Rectangle{Min: origin, Max: origin.Add(cell)}
}

// Size returns the pixel size of a sheet with this grid.
func (g Grid) Size(cell image.Point) image.Point {
	return image.Pt(g.Width*cell.X, g.Height*cell.Y)
}

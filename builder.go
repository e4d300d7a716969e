package psdsheet

import (
	"image"
	"log/slog"
)

type Options struct {
	// Substring that marks a layer as an overlay of the cell before it.
	// Empty disables merging, so every visible layer becomes a cell.
	OverlayMarker string
}

func DefaultOptions() Options {
	return Options{
		OverlayMarker: DefaultOverlayMarker,
	}
}

// CellInfo describes where a cell landed on the sheet.
type CellInfo struct {
	Name   string
	Layers []string
	Rect   image.Rectangle
	// Fraction of the cell's pixels with non-zero alpha.
	Coverage float64
	// Mean alpha in [0, 1] and its population standard deviation.
	Opacity    float64
	OpacityDev float64
}

// Sheet is the flattened, alpha-normalized result for one document.
type Sheet struct {
	Image    *image.NRGBA
	Grid     Grid
	CellSize image.Point
	Cells    []CellInfo
}

type SheetBuilder struct {
	Document Document
	Cells    []Cell
	Grid     Grid
	Sheet    *Sheet
}

func NewSheetBuilder(doc Document) *SheetBuilder {
	return &SheetBuilder{
		Document: doc,
	}
}

// Build selects the document's cells, packs them into a near-square grid
// and normalizes the alpha of the result. Per-layer rasters are released
// once the sheet is composed; only sb.Sheet keeps pixels afterwards.
func (sb *SheetBuilder) Build(opt Options) (*Sheet, error) {
	cells, err := SelectCells(sb.Document, opt.OverlayMarker)
	if err != nil {
		return nil, err
	}
	sb.Cells = cells
	sb.Grid = PlanGrid(len(cells))

	img, err := Compose(sb.Cells, sb.Grid)
	if err != nil {
		return nil, err
	}
	NormalizeAlpha(img)

	size := cells[0].Size()
	sheet := &Sheet{
		Image:    img,
		Grid:     sb.Grid,
		CellSize: size,
		Cells:    make([]CellInfo, len(cells)),
	}
	for i := range sb.Cells {
		c := &sb.Cells[i]
		rect := sb.Grid.CellRect(i, size)
		if len(cells) == 1 {
			rect = img.Bounds()
		}
		info := CellInfo{
			Name:     c.Name,
			Layers:   c.Layers,
			Rect:     rect,
			Coverage: Coverage(img, rect),
		}
		info.Opacity, info.OpacityDev = Opacity(img, rect)
		if info.Coverage == 0 {
			Logger().Warn("empty cell", slog.String("cell", c.Name), slog.Int("index", i))
		}
		sheet.Cells[i] = info
		c.Raster = nil
	}
	sb.Sheet = sheet

	Logger().Info("built sheet",
		slog.Int("cells", len(cells)),
		slog.Int("columns", sb.Grid.Width),
		slog.Int("rows", sb.Grid.Height),
		slog.Int("width", img.Bounds().Dx()),
		slog.Int("height", img.Bounds().Dy()))
	return sheet, nil
}

package psdsheet

import (
	"errors"
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSelectCellsSkipsHidden(t *testing.T) {
	doc := newDoc(4, 4,
		fakeLayer{name: "A", img: solid(4, 4, red)},
		fakeLayer{name: "B", hidden: true, img: solid(4, 4, green)},
		fakeLayer{name: "C", img: solid(4, 4, blue)},
	)
	cells, err := SelectCells(doc, DefaultOverlayMarker)
	require.NoError(t, err)
	require.Len(t, cells, 2)

	assert.Equal(t, "A", cells[0].Name)
	assert.Equal(t, "C", cells[1].Name)
	assert.Equal(t, red, cells[0].Raster.NRGBAAt(0, 0))
	assert.Equal(t, blue, cells[1].Raster.NRGBAAt(3, 3))
}

func TestSelectCellsMergesOverlay(t *testing.T) {
	eyes := image.NewNRGBA(image.Rect(0, 0, 4, 4))
	eyes.SetNRGBA(1, 1, white)
	// Stale colour under zero alpha must not reach the base.
	eyes.SetNRGBA(2, 2, color.NRGBA{R: 9, G: 9, B: 9, A: 0})

	doc := newDoc(4, 4,
		fakeLayer{name: "body", img: solid(4, 4, red)},
		fakeLayer{name: "[md] eyes", img: eyes},
	)
	cells, err := SelectCells(doc, DefaultOverlayMarker)
	require.NoError(t, err)
	require.Len(t, cells, 1)

	c := cells[0]
	assert.Equal(t, "body", c.Name)
	assert.Equal(t, []string{"body", "[md] eyes"}, c.Layers)
	assert.Equal(t, white, c.Raster.NRGBAAt(1, 1))
	assert.Equal(t, red, c.Raster.NRGBAAt(2, 2))
	assert.Equal(t, red, c.Raster.NRGBAAt(0, 0))
}

func TestSelectCellsOverlayWithPartialAlpha(t *testing.T) {
	ghost := image.NewNRGBA(image.Rect(0, 0, 2, 2))
	half := color.NRGBA{G: 200, A: 128}
	ghost.SetNRGBA(0, 0, half)

	doc := newDoc(2, 2,
		fakeLayer{name: "base", img: solid(2, 2, red)},
		fakeLayer{name: "ghost [md]", img: ghost},
	)
	cells, err := SelectCells(doc, DefaultOverlayMarker)
	require.NoError(t, err)
	require.Len(t, cells, 1)
	// Overlays overwrite rather than blend.
	assert.Equal(t, half, cells[0].Raster.NRGBAAt(0, 0))
}

func TestSelectCellsHiddenLayerKeepsAccumulator(t *testing.T) {
	doc := newDoc(2, 2,
		fakeLayer{name: "A", img: solid(2, 2, red)},
		fakeLayer{name: "B", hidden: true, img: solid(2, 2, green)},
		fakeLayer{name: "[md] C", img: solid(2, 2, blue)},
		fakeLayer{name: "D", img: solid(2, 2, green)},
	)
	cells, err := SelectCells(doc, DefaultOverlayMarker)
	require.NoError(t, err)
	require.Len(t, cells, 2)
	assert.Equal(t, []string{"A", "[md] C"}, cells[0].Layers)
	assert.Equal(t, blue, cells[0].Raster.NRGBAAt(0, 0))
	assert.Equal(t, []string{"D"}, cells[1].Layers)
}

func TestSelectCellsLeadingOverlayStartsCell(t *testing.T) {
	doc := newDoc(2, 2,
		fakeLayer{name: "A", hidden: true, img: solid(2, 2, red)},
		fakeLayer{name: "[md] B", img: solid(2, 2, green)},
		fakeLayer{name: "[md] C", img: solid(2, 2, blue)},
	)
	cells, err := SelectCells(doc, DefaultOverlayMarker)
	require.NoError(t, err)
	require.Len(t, cells, 1)
	assert.Equal(t, "[md] B", cells[0].Name)
	assert.Equal(t, blue, cells[0].Raster.NRGBAAt(1, 1))
}

func TestSelectCellsEmptyMarker(t *testing.T) {
	doc := newDoc(2, 2,
		fakeLayer{name: "A", img: solid(2, 2, red)},
		fakeLayer{name: "[md] B", img: solid(2, 2, green)},
	)
	cells, err := SelectCells(doc, "")
	require.NoError(t, err)
	assert.Len(t, cells, 2)
}

func TestSelectCellsSingleLayer(t *testing.T) {
	src := solid(50, 30, green)
	cells, err := SelectCells(newDoc(50, 30, fakeLayer{name: "only", img: src}), DefaultOverlayMarker)
	require.NoError(t, err)
	require.Len(t, cells, 1)
	assert.Equal(t, src.Pix, cells[0].Raster.Pix)
	assert.Equal(t, image.Pt(50, 30), cells[0].Size())
}

func TestSelectCellsEmptyDocument(t *testing.T) {
	_, err := SelectCells(newDoc(2, 2), DefaultOverlayMarker)
	assert.ErrorIs(t, err, ErrEmptyDocument)

	_, err = SelectCells(newDoc(2, 2,
		fakeLayer{name: "A", hidden: true, img: solid(2, 2, red)},
	), DefaultOverlayMarker)
	assert.ErrorIs(t, err, ErrEmptyDocument)
}

func TestSelectCellsDimensionMismatch(t *testing.T) {
	doc := newDoc(4, 4,
		fakeLayer{name: "A", img: solid(4, 4, red)},
		fakeLayer{name: "B", img: solid(3, 4, red)},
	)
	_, err := SelectCells(doc, DefaultOverlayMarker)
	require.ErrorIs(t, err, ErrDimensionMismatch)

	var dim *DimensionError
	require.ErrorAs(t, err, &dim)
	assert.Equal(t, "B", dim.Layer)
	assert.Equal(t, image.Pt(4, 4), dim.Want)
	assert.Equal(t, image.Pt(3, 4), dim.Got)
}

func TestSelectCellsRenderError(t *testing.T) {
	boom := errors.New("boom")
	doc := newDoc(2, 2,
		fakeLayer{name: "A", img: solid(2, 2, red)},
		fakeLayer{name: "B", err: boom},
	)
	_, err := SelectCells(doc, DefaultOverlayMarker)
	require.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), `"B"`)
}

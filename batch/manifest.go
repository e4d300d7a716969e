package batch

import (
	"encoding/json"
	"os"

	"github.com/setanarut/psdsheet"
)

// Manifest is the JSON index written next to a sheet. Cell rectangles are in
// sheet pixels.
type Manifest struct {
	Source  string         `json:"source"`
	Image   string         `json:"image"`
	Width   int            `json:"width"`
	Height  int            `json:"height"`
	Columns int            `json:"columns"`
	Rows    int            `json:"rows"`
	Cell    Size           `json:"cell"`
	Cells   []ManifestCell `json:"cells"`
	Palette []string       `json:"palette,omitempty"`
}

type Size struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

type ManifestCell struct {
	Name     string   `json:"name"`
	Layers   []string `json:"layers"`
	X        int      `json:"x"`
	Y        int      `json:"y"`
	Width    int      `json:"width"`
	Height   int      `json:"height"`
	Coverage float64  `json:"coverage"`
	Opacity  float64  `json:"opacity"`
}

func newManifest(source, image string, s *psdsheet.Sheet, palette []string) Manifest {
	b := s.Image.Bounds()
	m := Manifest{
		Source:  source,
		Image:   image,
		Width:   b.Dx(),
		Height:  b.Dy(),
		Columns: s.Grid.Width,
		Rows:    s.Grid.Height,
		Cell:    Size{Width: s.CellSize.X, Height: s.CellSize.Y},
		Cells:   make([]ManifestCell, len(s.Cells)),
		Palette: palette,
	}
	for i, c := range s.Cells {
		m.Cells[i] = ManifestCell{
			Name:     c.Name,
			Layers:   c.Layers,
			X:        c.Rect.Min.X,
			Y:        c.Rect.Min.Y,
			Width:    c.Rect.Dx(),
			Height:   c.Rect.Dy(),
			Coverage: c.Coverage,
			Opacity:  c.Opacity,
		}
	}
	return m
}

func (m Manifest) write(path string) error {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(data, '\n'), 0o644)
}

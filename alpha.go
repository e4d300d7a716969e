package psdsheet

import "image"

// NormalizeAlpha zeroes the colour channels of every pixel whose alpha is 0.
// It mutates img and returns it.
func NormalizeAlpha(img *image.NRGBA) *image.NRGBA {
	if img == nil {
		return nil
	}
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		row := img.Pix[img.PixOffset(b.Min.X, y):]
		for x := 0; x < b.Dx(); x++ {
			p := row[x*4 : x*4+4 : x*4+4]
			if p[3] == 0 {
				p[0], p[1], p[2] = 0, 0, 0
			}
		}
	}
	return img
}

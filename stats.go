package psdsheet

import (
	"image"

	"gonum.org/v1/gonum/stat"
)

// Coverage returns the fraction of pixels inside r whose alpha is non-zero.
// An empty or out-of-bounds rectangle has coverage 0.
func Coverage(img *image.NRGBA, r image.Rectangle) float64 {
	r = r.Intersect(img.Bounds())
	if r.Empty() {
		return 0
	}
	n := 0
	for y := r.Min.Y; y < r.Max.Y; y++ {
		row := img.Pix[img.PixOffset(r.Min.X, y):]
		for x := 0; x < r.Dx(); x++ {
			if row[x*4+3] != 0 {
				n++
			}
		}
	}
	return float64(n) / float64(r.Dx()*r.Dy())
}

// Opacity returns the mean alpha inside r, scaled to [0, 1], and its
// standard deviation. A cell of solid pixels has deviation 0.
func Opacity(img *image.NRGBA, r image.Rectangle) (mean, std float64) {
	r = r.Intersect(img.Bounds())
	if r.Empty() {
		return 0, 0
	}
	alpha := make([]float64, 0, r.Dx()*r.Dy())
	for y := r.Min.Y; y < r.Max.Y; y++ {
		row := img.Pix[img.PixOffset(r.Min.X, y):]
		for x := 0; x < r.Dx(); x++ {
			alpha = append(alpha, float64(row[x*4+3])/255)
		}
	}
	return stat.PopMeanStdDev(alpha, nil)
}

package psdsheet

import (
	"errors"
	"fmt"
	"image"
)

var (
	// ErrEmptyDocument is returned when a document has no visible layers.
	ErrEmptyDocument = errors.New("psdsheet: document has no visible layers")
	// ErrDimensionMismatch is returned when layers of one document render at
	// different sizes.
	ErrDimensionMismatch = errors.New("psdsheet: layer dimensions differ")
	ErrGridTooSmall      = errors.New("psdsheet: grid has fewer slots than cells")
)

// DimensionError reports the first layer or cell whose size differs from the
// size established by the first one.
type DimensionError struct {
	Layer string
	Want  image.Point
	Got   image.Point
}

func (e *DimensionError) Error() string {
	return fmt.Sprintf("psdsheet: layer %q is %dx%d, want %dx%d",
		e.Layer, e.Got.X, e.Got.Y, e.Want.X, e.Want.Y)
}

func (e *DimensionError) Unwrap() error { return ErrDimensionMismatch }

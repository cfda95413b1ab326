package jacquard

import (
	"errors"
	"fmt"
	"image"
)

var (
	ErrShapeMismatch       = errors.New("jacquard: front and back shapes differ")
	ErrInvalidPalette      = errors.New("jacquard: palette must hold exactly 3 distinct colors")
	ErrColorNotInPalette   = errors.New("jacquard: color not in palette")
	ErrMalformedWeave      = errors.New("jacquard: malformed weave grid")
	ErrInvalidSymbolColors = errors.New("jacquard: symbol colors must be 4 distinct colors")
)

// Face names one side of the fabric.
type Face int

const (
	FaceFront Face = iota
	FaceBack
)

func (f Face) String() string {
	if f == FaceBack {
		return "back"
	}
	return "front"
}

type ShapeMismatchError struct {
	Front, Back image.Point
}

func (e *ShapeMismatchError) Error() string {
	return fmt.Sprintf("jacquard: shape mismatch: front %dx%d, back %dx%d",
		e.Front.X, e.Front.Y, e.Back.X, e.Back.Y)
}

func (e *ShapeMismatchError) Is(target error) bool { return target == ErrShapeMismatch }

type InvalidPaletteError struct {
	Len int
	// Duplicate is set when the palette has 3 entries but one repeats.
	Duplicate *Color
}

func (e *InvalidPaletteError) Error() string {
	if e.Duplicate != nil {
		return fmt.Sprintf("jacquard: invalid palette: duplicate color %v", *e.Duplicate)
	}
	return fmt.Sprintf("jacquard: invalid palette: %d colors, want 3", e.Len)
}

func (e *InvalidPaletteError) Is(target error) bool { return target == ErrInvalidPalette }

// ColorNotInPaletteError reports the first source pixel whose color matches
// no palette entry.
type ColorNotInPaletteError struct {
	Face  Face
	X, Y  int
	Color Color
}

func (e *ColorNotInPaletteError) Error() string {
	return fmt.Sprintf("jacquard: %s pixel (x=%d, y=%d) has color %v which is not in the palette",
		e.Face, e.X, e.Y, e.Color)
}

func (e *ColorNotInPaletteError) Is(target error) bool { return target == ErrColorNotInPalette }

// MalformedGroupError reports a weave row group that no front/back pair encodes to.
type MalformedGroupError struct {
	Row, Col int
	Group    [3]Symbol
}

func (e *MalformedGroupError) Error() string {
	return fmt.Sprintf("jacquard: malformed weave group at row %d, col %d: %v",
		e.Row, e.Col, e.Group)
}

func (e *MalformedGroupError) Is(target error) bool { return target == ErrMalformedWeave }

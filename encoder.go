package jacquard

import (
	"fmt"
	"image"
	"runtime"

	"golang.org/x/sync/errgroup"
)

type Options struct {
	// Number of goroutines encoding row groups at once.
	// 1 encodes on the calling goroutine. 0 or less uses GOMAXPROCS.
	Workers int
	// Source rows handed to one worker at a time.
	// Too low => scheduling overhead dominates on wide images.
	RowsPerTask int
}

func DefaultOptions() Options {
	return Options{
		Workers:     1,
		RowsPerTask: 64,
	}
}

// OptionsFromSize keeps small images sequential and spreads large ones over
// all CPUs with roughly 64k source pixels per task.
func OptionsFromSize(size image.Point) Options {
	opt := DefaultOptions()
	if size.X <= 0 || size.Y <= 0 {
		return opt
	}
	if size.X*size.Y <= 256*256 {
		return opt
	}
	opt.Workers = runtime.GOMAXPROCS(0)
	opt.RowsPerTask = max(1, min(256, (1<<16)/size.X))
	return opt
}

// Encode weaves front and back into a grid 3 times as tall as the inputs.
//
// For source pixel (x, y) the rows 3y, 3y+1 and 3y+2 of column x start as
// Background. If both faces show palette[k] row 3y+k becomes Both; otherwise
// the front color's row becomes FrontOnly and the back color's row BackOnly.
//
// Errors are, in checking order: *InvalidPaletteError, *ShapeMismatchError and
// *ColorNotInPaletteError for the first offending pixel in raster order
// (front before back). No partial result is returned.
func Encode(front, back *Grid, palette Palette) (*WeaveGrid, error) {
	return EncodeWithOptions(front, back, palette, DefaultOptions())
}

// EncodeWithOptions is Encode with row groups spread over opt.Workers goroutines.
// Output and errors do not depend on opt.
func EncodeWithOptions(front, back *Grid, palette Palette, opt Options) (*WeaveGrid, error) {
	index, err := palette.IndexMap()
	if err != nil {
		return nil, err
	}
	if !front.SameShape(back) {
		return nil, &ShapeMismatchError{Front: front.Size(), Back: back.Size()}
	}

	e := &encoder{
		front: front,
		back:  back,
		index: index,
		out:   NewWeaveGrid(front.W, front.H*3),
	}

	workers := opt.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	step := max(opt.RowsPerTask, 1)
	if workers == 1 || front.H <= step {
		if err := e.encodeRows(0, front.H); err != nil {
			return nil, err
		}
		return e.out, nil
	}

	numTasks := (front.H + step - 1) / step
	errs := make([]error, numTasks)
	var g errgroup.Group
	g.SetLimit(workers)
	for t := range numTasks {
		g.Go(func() error {
			y0 := t * step
			errs[t] = e.encodeRows(y0, min(y0+step, front.H))
			return nil
		})
	}
	_ = g.Wait()
	// Tasks cover increasing rows and stop at their first bad pixel,
	// so the first recorded error is the first one in raster order.
	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	return e.out, nil
}

type encoder struct {
	front, back *Grid
	index       map[Color]int
	out         *WeaveGrid
}

func (e *encoder) encodeRows(y0, y1 int) error {
	for y := y0; y < y1; y++ {
		base := 3 * y
		for x := range e.front.W {
			fc := e.front.At(x, y)
			fi, ok := e.index[fc]
			if !ok {
				return &ColorNotInPaletteError{Face: FaceFront, X: x, Y: y, Color: fc}
			}
			bc := e.back.At(x, y)
			bi, ok := e.index[bc]
			if !ok {
				return &ColorNotInPaletteError{Face: FaceBack, X: x, Y: y, Color: bc}
			}

			for k := range 3 {
				e.out.Set(x, base+k, Background)
			}
			if fc == bc {
				e.out.Set(x, base+fi, Both)
				continue
			}
			// Front first: a shared index would leave BackOnly.
			e.out.Set(x, base+fi, FrontOnly)
			e.out.Set(x, base+bi, BackOnly)
		}
	}
	return nil
}

// Decode recovers the front and back faces from a woven grid.
func Decode(wg *WeaveGrid, palette Palette) (front, back *Grid, err error) {
	if err := palette.Validate(); err != nil {
		return nil, nil, err
	}
	if wg.H%3 != 0 {
		return nil, nil, fmt.Errorf("%w: height %d is not a multiple of 3", ErrMalformedWeave, wg.H)
	}
	h := wg.H / 3
	front = NewGrid(wg.W, h)
	back = NewGrid(wg.W, h)
	for y := range h {
		for x := range wg.W {
			group := wg.Group(y, x)
			fi, bi, ok := decodeGroup(group)
			if !ok {
				return nil, nil, &MalformedGroupError{Row: y, Col: x, Group: group}
			}
			front.Set(x, y, palette[fi])
			back.Set(x, y, palette[bi])
		}
	}
	return front, back, nil
}

// decodeGroup accepts exactly {Both, 2x Background} or
// {FrontOnly, BackOnly, Background} in any order.
func decodeGroup(group [3]Symbol) (fi, bi int, ok bool) {
	fi, bi = -1, -1
	backgrounds := 0
	for k, s := range group {
		switch s {
		case Background:
			backgrounds++
		case Both:
			if fi >= 0 || bi >= 0 {
				return 0, 0, false
			}
			fi, bi = k, k
		case FrontOnly:
			if fi >= 0 {
				return 0, 0, false
			}
			fi = k
		case BackOnly:
			if bi >= 0 {
				return 0, 0, false
			}
			bi = k
		default:
			return 0, 0, false
		}
	}
	if fi < 0 || bi < 0 {
		return 0, 0, false
	}
	if fi == bi {
		return fi, bi, backgrounds == 2
	}
	return fi, bi, backgrounds == 1
}

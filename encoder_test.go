package jacquard

import (
	"errors"
	"image"
	"math/rand/v2"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	p0 = DefaultPalette[0]
	p1 = DefaultPalette[1]
	p2 = DefaultPalette[2]
)

func column(wg *WeaveGrid, x int) []Symbol {
	out := make([]Symbol, wg.H)
	for y := range wg.H {
		out[y] = wg.At(x, y)
	}
	return out
}

func TestEncodeSamePixelIsBoth(t *testing.T) {
	front := gridOf([]Color{p1})
	back := gridOf([]Color{p1})

	wg, err := Encode(front, back, DefaultPalette)
	require.NoError(t, err)
	assert.Equal(t, image.Pt(1, 3), wg.Size())
	assert.Equal(t, []Symbol{Background, Both, Background}, column(wg, 0))
}

func TestEncodeDifferentPixels(t *testing.T) {
	front := gridOf([]Color{p0})
	back := gridOf([]Color{p2})

	wg, err := Encode(front, back, DefaultPalette)
	require.NoError(t, err)
	assert.Equal(t, []Symbol{FrontOnly, Background, BackOnly}, column(wg, 0))
}

func TestEncodeAllPairs(t *testing.T) {
	pal := Palette{red, green, blue}
	for k1, f := range pal {
		for k2, b := range pal {
			wg, err := Encode(gridOf([]Color{f}), gridOf([]Color{b}), pal)
			require.NoError(t, err)

			want := [3]Symbol{Background, Background, Background}
			if k1 == k2 {
				want[k1] = Both
			} else {
				want[k1] = FrontOnly
				want[k2] = BackOnly
			}
			assert.Equal(t, want, wg.Group(0, 0), "front %d back %d", k1, k2)
		}
	}
}

func TestEncodeRowGroupsFollowSourceRows(t *testing.T) {
	front := gridOf(
		[]Color{p0, p1},
		[]Color{p2, p2},
	)
	back := gridOf(
		[]Color{p0, p2},
		[]Color{p1, p2},
	)
	wg, err := Encode(front, back, DefaultPalette)
	require.NoError(t, err)
	require.Equal(t, image.Pt(2, 6), wg.Size())

	want := []Symbol{
		Both, Background,
		Background, FrontOnly,
		Background, BackOnly,
		Background, Background,
		BackOnly, Background,
		FrontOnly, Both,
	}
	if diff := cmp.Diff(want, wg.Cells); diff != "" {
		t.Errorf("Encode() cells mismatch (-want +got):\n%s", diff)
	}
}

func TestEncodeRenderedColors(t *testing.T) {
	wg, err := Encode(gridOf([]Color{p0}), gridOf([]Color{p2}), DefaultPalette)
	require.NoError(t, err)

	g := wg.Render(DefaultSymbolColors)
	assert.Equal(t, Color{255, 0, 0}, g.At(0, 0))
	assert.Equal(t, Color{0, 0, 255}, g.At(0, 1))
	assert.Equal(t, Color{0, 255, 0}, g.At(0, 2))
}

func TestEncodeShapeMismatch(t *testing.T) {
	front := NewGrid(2, 2)
	back := NewGrid(3, 2)

	_, err := Encode(front, back, DefaultPalette)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrShapeMismatch))
	var se *ShapeMismatchError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, image.Pt(2, 2), se.Front)
	assert.Equal(t, image.Pt(3, 2), se.Back)
}

func TestEncodeInvalidPalette(t *testing.T) {
	g := gridOf([]Color{p0})
	_, err := Encode(g, g, Palette{p0, p1})
	assert.ErrorIs(t, err, ErrInvalidPalette)

	_, err = Encode(g, g, Palette{p0, p0, p1})
	assert.ErrorIs(t, err, ErrInvalidPalette)

	// Palette is checked before shapes.
	_, err = Encode(NewGrid(1, 1), NewGrid(2, 1), nil)
	assert.ErrorIs(t, err, ErrInvalidPalette)
}

func TestEncodeColorNotInPalette(t *testing.T) {
	front := gridOf(
		[]Color{p0, p1, p2},
		[]Color{p0, white, p2},
	)
	back := gridOf(
		[]Color{p0, p1, p2},
		[]Color{p0, p1, black},
	)

	_, err := Encode(front, back, DefaultPalette)
	require.ErrorIs(t, err, ErrColorNotInPalette)
	var ce *ColorNotInPaletteError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, FaceFront, ce.Face)
	assert.Equal(t, 1, ce.X)
	assert.Equal(t, 1, ce.Y)
	assert.Equal(t, white, ce.Color)
	assert.Contains(t, err.Error(), "x=1, y=1")
	assert.Contains(t, err.Error(), "#ffffff")
}

func TestEncodeBackColorNotInPalette(t *testing.T) {
	_, err := Encode(gridOf([]Color{p0, p1}), gridOf([]Color{p0, black}), DefaultPalette)
	var ce *ColorNotInPaletteError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, FaceBack, ce.Face)
	assert.Equal(t, 1, ce.X)
	assert.Equal(t, black, ce.Color)
}

func TestEncodeEmpty(t *testing.T) {
	wg, err := Encode(NewGrid(0, 0), NewGrid(0, 0), DefaultPalette)
	require.NoError(t, err)
	assert.Equal(t, image.Pt(0, 0), wg.Size())
}

func TestEncodeDoesNotMutateInputs(t *testing.T) {
	front := randomPaletteGrid(rand.New(rand.NewPCG(1, 1)), 5, 4, DefaultPalette)
	back := randomPaletteGrid(rand.New(rand.NewPCG(2, 2)), 5, 4, DefaultPalette)
	f0, b0 := front.Clone(), back.Clone()
	pal := Palette{p0, p1, p2}

	_, err := Encode(front, back, pal)
	require.NoError(t, err)
	assert.Equal(t, f0, front)
	assert.Equal(t, b0, back)
	assert.Equal(t, DefaultPalette, pal)
}

func randomPaletteGrid(r *rand.Rand, w, h int, pal Palette) *Grid {
	g := NewGrid(w, h)
	for y := range h {
		for x := range w {
			g.Set(x, y, pal[r.IntN(len(pal))])
		}
	}
	return g
}

func TestEncodeDeterministicAndParallelEqual(t *testing.T) {
	r := rand.New(rand.NewPCG(9, 9))
	front := randomPaletteGrid(r, 37, 131, DefaultPalette)
	back := randomPaletteGrid(r, 37, 131, DefaultPalette)

	want, err := Encode(front, back, DefaultPalette)
	require.NoError(t, err)
	again, err := Encode(front, back, DefaultPalette)
	require.NoError(t, err)
	assert.Equal(t, want, again)

	for _, opt := range []Options{
		{Workers: 4, RowsPerTask: 1},
		{Workers: 3, RowsPerTask: 7},
		{Workers: 0, RowsPerTask: 0},
		OptionsFromSize(front.Size()),
	} {
		got, err := EncodeWithOptions(front, back, DefaultPalette, opt)
		require.NoError(t, err)
		if diff := cmp.Diff(want.Cells, got.Cells); diff != "" {
			t.Errorf("EncodeWithOptions(%+v) mismatch (-want +got):\n%s", opt, diff)
		}
	}
}

func TestEncodeParallelReportsFirstBadPixel(t *testing.T) {
	r := rand.New(rand.NewPCG(4, 4))
	front := randomPaletteGrid(r, 8, 50, DefaultPalette)
	back := randomPaletteGrid(r, 8, 50, DefaultPalette)
	front.Set(6, 40, white)
	back.Set(2, 12, black)
	back.Set(0, 45, black)

	_, seqErr := Encode(front, back, DefaultPalette)
	_, parErr := EncodeWithOptions(front, back, DefaultPalette, Options{Workers: 8, RowsPerTask: 2})

	var ce *ColorNotInPaletteError
	require.ErrorAs(t, parErr, &ce)
	assert.Equal(t, FaceBack, ce.Face)
	assert.Equal(t, 2, ce.X)
	assert.Equal(t, 12, ce.Y)
	assert.Equal(t, seqErr, parErr)
}

func TestEncodeOutputShapeLaw(t *testing.T) {
	r := rand.New(rand.NewPCG(11, 3))
	for range 25 {
		w, h := r.IntN(9)+1, r.IntN(9)+1
		front := randomPaletteGrid(r, w, h, DefaultPalette)
		back := randomPaletteGrid(r, w, h, DefaultPalette)
		wg, err := Encode(front, back, DefaultPalette)
		require.NoError(t, err)
		assert.Equal(t, 3*h, wg.H)
		assert.Equal(t, w, wg.W)
	}
}

func TestOptionsFromSize(t *testing.T) {
	assert.Equal(t, DefaultOptions(), OptionsFromSize(image.Pt(0, 10)))
	assert.Equal(t, DefaultOptions(), OptionsFromSize(image.Pt(100, 100)))

	opt := OptionsFromSize(image.Pt(4096, 4096))
	assert.GreaterOrEqual(t, opt.Workers, 1)
	assert.Equal(t, 16, opt.RowsPerTask)

	opt = OptionsFromSize(image.Pt(100, 5000))
	assert.Equal(t, 256, opt.RowsPerTask)
}

func TestDecodeInvertsEncode(t *testing.T) {
	r := rand.New(rand.NewPCG(21, 8))
	pal := Palette{red, green, blue}
	front := randomPaletteGrid(r, 13, 9, pal)
	back := randomPaletteGrid(r, 13, 9, pal)

	wg, err := Encode(front, back, pal)
	require.NoError(t, err)
	gotFront, gotBack, err := Decode(wg, pal)
	require.NoError(t, err)
	assert.Equal(t, front, gotFront)
	assert.Equal(t, back, gotBack)
}

func TestDecodeMalformed(t *testing.T) {
	tests := []struct {
		name  string
		group [3]Symbol
	}{
		{"all background", [3]Symbol{Background, Background, Background}},
		{"two both", [3]Symbol{Both, Both, Background}},
		{"front only alone", [3]Symbol{FrontOnly, Background, Background}},
		{"both with front", [3]Symbol{Both, FrontOnly, Background}},
		{"two fronts", [3]Symbol{FrontOnly, FrontOnly, BackOnly}},
		{"unknown symbol", [3]Symbol{Symbol(9), Both, Background}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wg := NewWeaveGrid(1, 3)
			copy(wg.Cells, tt.group[:])
			_, _, err := Decode(wg, DefaultPalette)
			require.ErrorIs(t, err, ErrMalformedWeave)
			var me *MalformedGroupError
			require.ErrorAs(t, err, &me)
			assert.Equal(t, tt.group, me.Group)
		})
	}

	_, _, err := Decode(NewWeaveGrid(1, 4), DefaultPalette)
	assert.ErrorIs(t, err, ErrMalformedWeave)

	_, _, err = Decode(NewWeaveGrid(1, 3), Palette{red})
	assert.ErrorIs(t, err, ErrInvalidPalette)
}

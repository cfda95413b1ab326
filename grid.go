package jacquard

import (
	"cmp"
	"fmt"
	"image"
	"image/color"
	"slices"
)

// Color is an 8-bit RGB triple. Equality is exact and component-wise.
type Color struct {
	R, G, B uint8
}

// ColorFromStd converts any color.Color to an 8-bit Color. Alpha is dropped
// without premultiplying, so a translucent pixel keeps its straight RGB.
func ColorFromStd(c color.Color) Color {
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	return Color{n.R, n.G, n.B}
}

// RGBA implements color.Color. Colors are always opaque.
func (c Color) RGBA() (r, g, b, a uint32) {
	r = uint32(c.R)
	r |= r << 8
	g = uint32(c.G)
	g |= g << 8
	b = uint32(c.B)
	b |= b << 8
	return r, g, b, 0xffff
}

func (c Color) String() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

func compareColors(a, b Color) int {
	if n := cmp.Compare(a.R, b.R); n != 0 {
		return n
	}
	if n := cmp.Compare(a.G, b.G); n != 0 {
		return n
	}
	return cmp.Compare(a.B, b.B)
}

// Grid is a rectangular array of RGB pixels.
// Pix is interleaved RGB, len = W*H*3.
type Grid struct {
	W, H int
	Pix  []uint8
}

// ColorCount is a distinct color and the number of pixels that carry it.
type ColorCount struct {
	Color Color
	Count int
}

func NewGrid(w, h int) *Grid {
	w, h = max(w, 0), max(h, 0)
	return &Grid{
		W:   w,
		H:   h,
		Pix: make([]uint8, w*h*3),
	}
}

// GridFromImage copies img into a new Grid. Alpha is discarded, see ColorFromStd.
func GridFromImage(img image.Image) *Grid {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	g := NewGrid(w, h)
	for y := range h {
		for x := range w {
			g.Set(x, y, ColorFromStd(img.At(bounds.Min.X+x, bounds.Min.Y+y)))
		}
	}
	return g
}

func pixOffset(w, x, y int) int {
	return (y*w + x) * 3
}

func (g *Grid) At(x, y int) Color {
	off := pixOffset(g.W, x, y)
	return Color{g.Pix[off], g.Pix[off+1], g.Pix[off+2]}
}

func (g *Grid) Set(x, y int, c Color) {
	off := pixOffset(g.W, x, y)
	g.Pix[off] = c.R
	g.Pix[off+1] = c.G
	g.Pix[off+2] = c.B
}

func (g *Grid) Size() image.Point {
	return image.Pt(g.W, g.H)
}

func (g *Grid) SameShape(o *Grid) bool {
	return g.W == o.W && g.H == o.H
}

func (g *Grid) Clone() *Grid {
	return &Grid{W: g.W, H: g.H, Pix: slices.Clone(g.Pix)}
}

// Image returns an opaque RGBA copy of the grid.
func (g *Grid) Image() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, g.W, g.H))
	for y := range g.H {
		for x := range g.W {
			off := pixOffset(g.W, x, y)
			i := img.PixOffset(x, y)
			img.Pix[i] = g.Pix[off]
			img.Pix[i+1] = g.Pix[off+1]
			img.Pix[i+2] = g.Pix[off+2]
			img.Pix[i+3] = 255
		}
	}
	return img
}

// Histogram returns the distinct colors of g in raster first-occurrence order
// together with their pixel counts.
func (g *Grid) Histogram() []ColorCount {
	seen := make(map[Color]int)
	var hist []ColorCount
	for y := range g.H {
		for x := range g.W {
			c := g.At(x, y)
			if i, ok := seen[c]; ok {
				hist[i].Count++
				continue
			}
			seen[c] = len(hist)
			hist = append(hist, ColorCount{Color: c, Count: 1})
		}
	}
	return hist
}

// Colors returns the distinct colors of g sorted by R, then G, then B.
func (g *Grid) Colors() []Color {
	hist := g.Histogram()
	out := make([]Color, len(hist))
	for i, h := range hist {
		out[i] = h.Color
	}
	slices.SortFunc(out, compareColors)
	return out
}

package jacquard

import (
	"slices"
	"strings"
)

// Palette is an ordered list of jacquard yarn colors. A usable palette holds
// exactly 3 distinct colors; entry i is woven on row offset i of every group.
type Palette []Color

// DefaultFillers pad palettes inferred from images with fewer than 3 colors.
var DefaultFillers = Palette{
	{1, 194, 83},
	{12, 88, 17},
	{255, 142, 246},
}

// DefaultPalette is the stock 3-color yarn order.
var DefaultPalette = slices.Clone(DefaultFillers)

// Validate reports an *InvalidPaletteError unless p holds exactly 3 distinct colors.
func (p Palette) Validate() error {
	if len(p) != 3 {
		return &InvalidPaletteError{Len: len(p)}
	}
	for i := range p {
		for j := i + 1; j < len(p); j++ {
			if p[i] == p[j] {
				dup := p[i]
				return &InvalidPaletteError{Len: len(p), Duplicate: &dup}
			}
		}
	}
	return nil
}

// IndexMap returns the color -> row offset lookup of a valid palette.
func (p Palette) IndexMap() (map[Color]int, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	m := make(map[Color]int, len(p))
	for i, c := range p {
		m[c] = i
	}
	return m, nil
}

func (p Palette) String() string {
	parts := make([]string, len(p))
	for i, c := range p {
		parts[i] = c.String()
	}
	return strings.Join(parts, ",")
}

// InferPalette derives 3 colors from g. It never fails.
//
//   - exactly 3 distinct colors: those colors, sorted by R, G, B
//   - more than 3: the 3 most frequent, ties going to the color seen first in raster order
//   - fewer than 3: the colors present in raster order, padded from DefaultFillers
func InferPalette(g *Grid) Palette {
	hist := g.Histogram()

	switch {
	case len(hist) == 3:
		return Palette(g.Colors())

	case len(hist) > 3:
		// Stable sort keeps raster first-occurrence order among equal counts.
		slices.SortStableFunc(hist, func(a, b ColorCount) int {
			return b.Count - a.Count
		})
		out := make(Palette, 3)
		for i := range out {
			out[i] = hist[i].Color
		}
		return out

	default:
		out := make(Palette, 0, 3)
		for _, h := range hist {
			out = append(out, h.Color)
		}
		for _, c := range DefaultFillers {
			if len(out) == 3 {
				break
			}
			if !slices.Contains(out, c) {
				out = append(out, c)
			}
		}
		return out
	}
}

package jacquard

import (
	"fmt"
	"image"
)

// Symbol is the visual state of one weave row at one column.
type Symbol uint8

const (
	Background Symbol = iota
	FrontOnly
	BackOnly
	Both
)

var symbolNames = [...]string{"background", "front_only", "back_only", "both"}

func (s Symbol) String() string {
	if int(s) < len(symbolNames) {
		return symbolNames[s]
	}
	return fmt.Sprintf("Symbol(%d)", s)
}

func ParseSymbol(name string) (Symbol, error) {
	for i, n := range symbolNames {
		if n == name {
			return Symbol(i), nil
		}
	}
	return 0, fmt.Errorf("jacquard: unknown symbol %q", name)
}

// SymbolColors maps each Symbol to the color it is rendered with, indexed by Symbol.
type SymbolColors [4]Color

// DefaultSymbolColors: blue background, red front, green back, yellow both.
var DefaultSymbolColors = SymbolColors{
	Background: {0, 0, 255},
	FrontOnly:  {255, 0, 0},
	BackOnly:   {0, 255, 0},
	Both:       {255, 255, 0},
}

func (sc SymbolColors) Validate() error {
	for i := range sc {
		for j := i + 1; j < len(sc); j++ {
			if sc[i] == sc[j] {
				return fmt.Errorf("%w: %v and %v share %v",
					ErrInvalidSymbolColors, Symbol(i), Symbol(j), sc[i])
			}
		}
	}
	return nil
}

// WeaveGrid is the encoded pattern: 3 rows per source row, one column per source column.
type WeaveGrid struct {
	W, H  int
	Cells []Symbol // len = W*H
}

func NewWeaveGrid(w, h int) *WeaveGrid {
	w, h = max(w, 0), max(h, 0)
	return &WeaveGrid{W: w, H: h, Cells: make([]Symbol, w*h)}
}

func (wg *WeaveGrid) At(x, y int) Symbol {
	return wg.Cells[y*wg.W+x]
}

func (wg *WeaveGrid) Set(x, y int, s Symbol) {
	wg.Cells[y*wg.W+x] = s
}

func (wg *WeaveGrid) Size() image.Point {
	return image.Pt(wg.W, wg.H)
}

// Group returns the 3 symbols woven for source pixel (col, row).
func (wg *WeaveGrid) Group(row, col int) [3]Symbol {
	return [3]Symbol{
		wg.At(col, 3*row),
		wg.At(col, 3*row+1),
		wg.At(col, 3*row+2),
	}
}

func (wg *WeaveGrid) Counts() map[Symbol]int {
	counts := make(map[Symbol]int, len(symbolNames))
	for _, s := range wg.Cells {
		counts[s]++
	}
	return counts
}

// Render maps every symbol to its color. Cells holding a value outside the
// four symbols are rendered as Background.
func (wg *WeaveGrid) Render(colors SymbolColors) *Grid {
	g := NewGrid(wg.W, wg.H)
	for y := range wg.H {
		for x := range wg.W {
			s := wg.At(x, y)
			if int(s) >= len(colors) {
				s = Background
			}
			g.Set(x, y, colors[s])
		}
	}
	return g
}

func (wg *WeaveGrid) Image(colors SymbolColors) *image.RGBA {
	return wg.Render(colors).Image()
}

// ParseWeave maps a rendered weave raster back to symbols.
func ParseWeave(g *Grid, colors SymbolColors) (*WeaveGrid, error) {
	if err := colors.Validate(); err != nil {
		return nil, err
	}
	if g.H%3 != 0 {
		return nil, fmt.Errorf("%w: height %d is not a multiple of 3", ErrMalformedWeave, g.H)
	}
	lookup := make(map[Color]Symbol, len(colors))
	for i, c := range colors {
		lookup[c] = Symbol(i)
	}
	wg := NewWeaveGrid(g.W, g.H)
	for y := range g.H {
		for x := range g.W {
			c := g.At(x, y)
			s, ok := lookup[c]
			if !ok {
				return nil, fmt.Errorf("%w: pixel (x=%d, y=%d) has color %v which is not a symbol color",
					ErrMalformedWeave, x, y, c)
			}
			wg.Set(x, y, s)
		}
	}
	return wg, nil
}

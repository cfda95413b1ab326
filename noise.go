package jacquard

import (
	"math/rand/v2"

	"gonum.org/v1/gonum/stat/distuv"
)

// GenerateNoiseLike returns a grid shaped like ref where every pixel is drawn
// uniformly from the distinct colors of ref. The draw order is raster order
// over src, so a seeded src reproduces the grid. A nil src is seeded randomly.
func GenerateNoiseLike(ref *Grid, src rand.Source) *Grid {
	colors := ref.Colors()
	weights := make([]float64, len(colors))
	for i := range weights {
		weights[i] = 1
	}
	return sampleGrid(ref.W, ref.H, colors, weights, src)
}

// GenerateWeightedNoiseLike is GenerateNoiseLike with every color drawn in
// proportion to how often it appears in ref.
func GenerateWeightedNoiseLike(ref *Grid, src rand.Source) *Grid {
	colors := ref.Colors()
	counts := make(map[Color]int, len(colors))
	for _, h := range ref.Histogram() {
		counts[h.Color] = h.Count
	}
	weights := make([]float64, len(colors))
	for i, c := range colors {
		weights[i] = float64(counts[c])
	}
	return sampleGrid(ref.W, ref.H, colors, weights, src)
}

func sampleGrid(w, h int, colors []Color, weights []float64, src rand.Source) *Grid {
	out := NewGrid(w, h)
	if len(colors) == 0 {
		return out
	}
	if len(colors) == 1 {
		for y := range h {
			for x := range w {
				out.Set(x, y, colors[0])
			}
		}
		return out
	}
	if src == nil {
		src = rand.NewPCG(rand.Uint64(), rand.Uint64())
	}
	dist := distuv.NewCategorical(weights, src)
	for y := range h {
		for x := range w {
			out.Set(x, y, colors[int(dist.Rand())])
		}
	}
	return out
}

package utils

import (
	"fmt"
	"image"
	"image/color"
	"math"
	"slices"

	"github.com/cenkalti/dominantcolor"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/muesli/clusters"
	"github.com/muesli/kmeans"
	"go.uber.org/zap"

	"github.com/setanarut/jacquard"
)

type PaletteMethod int

const (
	PaletteMethodDominantColor PaletteMethod = iota
	PaletteMethodKMeans
)

func (m PaletteMethod) String() string {
	switch m {
	case PaletteMethodKMeans:
		return "kmeans"
	default:
		return "dominantcolor"
	}
}

func ParsePaletteMethod(s string) (PaletteMethod, error) {
	switch s {
	case "", "dominantcolor":
		return PaletteMethodDominantColor, nil
	case "kmeans":
		return PaletteMethodKMeans, nil
	}
	return 0, fmt.Errorf("unknown palette method %q", s)
}

type weightedColor struct {
	Col    colorful.Color
	Weight float64
}

// SortPaletteByBrightness orders colors from darkest to brightest by relative luminance.
func SortPaletteByBrightness(palette jacquard.Palette) {
	slices.SortStableFunc(palette, func(a, b jacquard.Color) int {
		ya, yb := luminance(a), luminance(b)
		if ya < yb {
			return -1
		}
		if ya > yb {
			return 1
		}
		return 0
	})
}

func luminance(c jacquard.Color) float64 {
	r, g, b := toColorful(c).LinearRgb()
	return 0.2126*r + 0.7152*g + 0.0722*b
}

func toColorful(c jacquard.Color) colorful.Color {
	col, _ := colorful.MakeColor(c)
	return col
}

func fromColorful(c colorful.Color) jacquard.Color {
	r, g, b := c.Clamped().RGB255()
	return jacquard.Color{R: r, G: g, B: b}
}

// ExtractPalette approximates the k main colors of a photo. Unlike
// jacquard.InferPalette the colors need not occur in img exactly; pass the
// result to Quantize to get an encoder-ready grid. For k == 3 the result is
// always a valid jacquard palette.
func ExtractPalette(img image.Image, k int, method PaletteMethod) jacquard.Palette {
	var cands []weightedColor
	switch method {
	case PaletteMethodKMeans:
		cands = kmeansCandidates(img, k)
		if len(cands) == 0 {
			logger.Warn("kmeans returned empty palette, falling back to dominantcolor")
			cands = dominantCandidates(img, k)
		}
	default:
		cands = dominantCandidates(img, k)
	}
	p := padPalette(selectDiverse(cands, k), k)
	logger.Debug("palette extracted",
		zap.Stringer("method", method),
		zap.Int("k", k),
		zap.Stringer("palette", p))
	return p
}

func dominantCandidates(img image.Image, k int) []weightedColor {
	if k <= 0 {
		return nil
	}
	candidates := dominantcolor.FindWeight(img, max(24, k*8))
	if len(candidates) == 0 {
		candidates = append(candidates, dominantcolor.Color{
			RGBA:   color.RGBA{R: 128, G: 128, B: 128, A: 255},
			Weight: 1.0,
		})
	}
	out := make([]weightedColor, 0, len(candidates))
	for _, c := range candidates {
		col, _ := colorful.MakeColor(c.RGBA)
		out = append(out, weightedColor{Col: col.Clamped(), Weight: c.Weight})
	}
	return out
}

// kmeansSamples caps the observations handed to kmeans.
const kmeansSamples = 12000

// kmeansCandidates clusters the opaque pixels of img in CIE Lab and returns
// one candidate per non-empty cluster, weighted by its size.
func kmeansCandidates(img image.Image, k int) []weightedColor {
	if k <= 0 {
		return nil
	}
	obs := labObservations(img, kmeansSamples)
	if len(obs) == 0 {
		return nil
	}

	km := kmeans.New()
	cc, err := km.Partition(obs, min(max(k*4, k+2), len(obs)))
	if err != nil {
		logger.Debug("kmeans partition failed", zap.Error(err))
		return nil
	}
	cands := make([]weightedColor, 0, len(cc))
	for _, c := range cc {
		if len(c.Observations) == 0 {
			continue
		}
		cands = append(cands, weightedColor{
			Col:    colorful.Lab(c.Center[0], c.Center[1], c.Center[2]).Clamped(),
			Weight: float64(len(c.Observations)),
		})
	}
	return cands
}

// labObservations converts pixels of img to Lab coordinates, striding over
// the image so that at most about limit pixels are read. Fully transparent
// pixels are skipped.
func labObservations(img image.Image, limit int) clusters.Observations {
	b := img.Bounds()
	n := b.Dx() * b.Dy()
	if n == 0 {
		return nil
	}
	step := 1
	if n > limit {
		step = int(math.Sqrt(float64(n)/float64(limit))) + 1
	}
	obs := make(clusters.Observations, 0, min(n, limit))
	for y := b.Min.Y; y < b.Max.Y; y += step {
		for x := b.Min.X; x < b.Max.X; x += step {
			px := color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)
			if px.A == 0 {
				continue
			}
			l, la, lb := toColorful(jacquard.Color{R: px.R, G: px.G, B: px.B}).Lab()
			obs = append(obs, clusters.Coordinates{l, la, lb})
		}
	}
	return obs
}

// selectDiverse seeds with the heaviest candidate, then greedily adds the one
// farthest in Lab from everything picked so far, scaled by its weight.
// Candidates may come in any order; equal scores go to the earlier one.
// Candidates that round to an already picked 8-bit color are skipped.
func selectDiverse(cands []weightedColor, k int) jacquard.Palette {
	if k <= 0 || len(cands) == 0 {
		return nil
	}
	maxW := 0.0
	for i := range cands {
		cands[i].Weight = max(cands[i].Weight, 1e-6)
		maxW = max(maxW, cands[i].Weight)
	}

	picked := make([]int, 0, k)
	used := make([]bool, len(cands))
	seen := make(map[jacquard.Color]bool, k)

	for len(picked) < k {
		best, bestScore := -1, -1.0
		for i, c := range cands {
			if used[i] {
				continue
			}
			if seen[fromColorful(c.Col)] {
				used[i] = true
				continue
			}
			score := c.Weight
			if len(picked) > 0 {
				minD := math.MaxFloat64
				for _, s := range picked {
					minD = min(minD, c.Col.DistanceLab(cands[s].Col))
				}
				score = minD * (0.55 + 0.45*math.Sqrt(c.Weight/maxW))
			}
			if score > bestScore {
				best, bestScore = i, score
			}
		}
		if best < 0 {
			break
		}
		used[best] = true
		seen[fromColorful(cands[best].Col)] = true
		picked = append(picked, best)
	}

	out := make(jacquard.Palette, 0, len(picked))
	for _, i := range picked {
		out = append(out, fromColorful(cands[i].Col))
	}
	return out
}

// padPalette tops p up to k colors from jacquard.DefaultFillers.
func padPalette(p jacquard.Palette, k int) jacquard.Palette {
	for _, c := range jacquard.DefaultFillers {
		if len(p) >= k {
			break
		}
		if !slices.Contains(p, c) {
			p = append(p, c)
		}
	}
	return p
}

// Quantize snaps every pixel of img to the palette color nearest in CIE Lab.
func Quantize(img image.Image, palette jacquard.Palette) (*jacquard.Grid, error) {
	if err := palette.Validate(); err != nil {
		return nil, err
	}
	targets := make([]colorful.Color, len(palette))
	for i, c := range palette {
		targets[i] = toColorful(c)
	}

	src := jacquard.GridFromImage(img)
	out := jacquard.NewGrid(src.W, src.H)
	cache := make(map[jacquard.Color]jacquard.Color)
	for y := range src.H {
		for x := range src.W {
			c := src.At(x, y)
			q, ok := cache[c]
			if !ok {
				col := toColorful(c)
				best, bestD := 0, math.MaxFloat64
				for i, p := range targets {
					if d := col.DistanceLab(p); d < bestD {
						best, bestD = i, d
					}
				}
				q = palette[best]
				cache[c] = q
			}
			out.Set(x, y, q)
		}
	}
	return out, nil
}

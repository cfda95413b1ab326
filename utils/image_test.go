package utils

import (
	"image"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/setanarut/jacquard"
)

func checkerGrid(w, h int, a, b jacquard.Color) *jacquard.Grid {
	g := jacquard.NewGrid(w, h)
	for y := range h {
		for x := range w {
			if (x+y)%2 == 0 {
				g.Set(x, y, a)
			} else {
				g.Set(x, y, b)
			}
		}
	}
	return g
}

func TestSaveReadLosslessFormats(t *testing.T) {
	dir := t.TempDir()
	g := checkerGrid(5, 4, jacquard.DefaultPalette[0], jacquard.DefaultPalette[2])

	for _, name := range []string{"out.png", "out.bmp", "out.tiff", "OUT.BMP"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(dir, name)
			require.NoError(t, SaveGrid(g, path))
			got, err := ReadGrid(path)
			require.NoError(t, err)
			assert.Equal(t, g, got)
		})
	}
}

func TestSaveJPEGDecodes(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.jpg")
	require.NoError(t, SaveGrid(checkerGrid(8, 8, jacquard.Color{}, jacquard.Color{R: 255}), path))
	img, err := ReadImage(path)
	require.NoError(t, err)
	assert.Equal(t, image.Pt(8, 8), img.Bounds().Size())
}

func TestSaveImageUnknownExtension(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.webp")
	err := SaveGrid(jacquard.NewGrid(1, 1), path)
	assert.Error(t, err)
	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr))
}

func TestReadImageErrors(t *testing.T) {
	dir := t.TempDir()
	_, err := ReadImage(filepath.Join(dir, "missing.png"))
	assert.Error(t, err)

	junk := filepath.Join(dir, "junk.png")
	require.NoError(t, os.WriteFile(junk, []byte("not an image"), 0o644))
	_, err = ReadImage(junk)
	assert.ErrorContains(t, err, "junk.png")
}

func TestOutputPath(t *testing.T) {
	assert.Equal(t, "a.png", OutputPath("a.png"))
	assert.Equal(t, "a.JPEG", OutputPath("a.JPEG"))
	assert.Equal(t, "a.bmp", OutputPath("a"))
	assert.Equal(t, "a.gif.bmp", OutputPath("a.gif"))
}

func TestSavePalette(t *testing.T) {
	path := filepath.Join(t.TempDir(), "palette.png")
	require.NoError(t, SavePalette(jacquard.DefaultPalette, 4, path))

	g, err := ReadGrid(path)
	require.NoError(t, err)
	assert.Equal(t, image.Pt(12, 4), g.Size())
	for i, c := range jacquard.DefaultPalette {
		assert.Equal(t, c, g.At(i*4+1, 2))
	}

	assert.Error(t, SavePalette(nil, 4, path))
}

func TestResizeGridNearestKeepsColors(t *testing.T) {
	a, b := jacquard.DefaultPalette[0], jacquard.DefaultPalette[1]
	g := checkerGrid(7, 5, a, b)

	for _, size := range []image.Point{{14, 10}, {3, 2}, {9, 4}, {1, 1}} {
		out := ResizeGrid(g, size.X, size.Y, InterpNearest)
		require.Equal(t, size, out.Size())
		for _, c := range out.Colors() {
			assert.Contains(t, []jacquard.Color{a, b}, c)
		}
	}
}

func TestResizeGridBilinearShape(t *testing.T) {
	g := checkerGrid(6, 6, jacquard.Color{}, jacquard.Color{R: 255, G: 255, B: 255})
	out := ResizeGrid(g, 4, 9, InterpBilinear)
	assert.Equal(t, image.Pt(4, 9), out.Size())
}

func TestResizeGridSameSizeAndEmpty(t *testing.T) {
	g := checkerGrid(3, 3, jacquard.Color{}, jacquard.Color{B: 9})
	out := ResizeGrid(g, 3, 3, InterpBilinear)
	assert.Equal(t, g, out)
	out.Set(0, 0, jacquard.Color{R: 1})
	assert.Equal(t, jacquard.Color{}, g.At(0, 0))

	assert.Equal(t, image.Pt(2, 2), ResizeGrid(jacquard.NewGrid(0, 0), 2, 2, InterpNearest).Size())
}

func TestParseInterp(t *testing.T) {
	for _, i := range []Interp{InterpNearest, InterpBilinear} {
		got, err := ParseInterp(i.String())
		require.NoError(t, err)
		assert.Equal(t, i, got)
	}
	_, err := ParseInterp("lanczos")
	assert.Error(t, err)
}

func TestPreview(t *testing.T) {
	g := checkerGrid(2, 3, jacquard.Color{R: 10}, jacquard.Color{G: 20})
	img := Preview(g.Image(), 4)
	assert.Equal(t, image.Pt(8, 12), img.Bounds().Size())

	scaled := jacquard.GridFromImage(img)
	assert.Equal(t, g.At(1, 2), scaled.At(5, 10))
	assert.Equal(t, g.At(0, 0), scaled.At(1, 1))
	assert.Equal(t, g.At(1, 0), scaled.At(6, 2))

	same := g.Image()
	assert.Same(t, same, Preview(same, 1))
}

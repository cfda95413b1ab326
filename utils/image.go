package utils

import (
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/gift"
	"github.com/nfnt/resize"
	"go.uber.org/zap"
	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"

	"github.com/setanarut/jacquard"
)

// ReadImage decodes a PNG, JPEG, GIF, BMP or TIFF file.
func ReadImage(path string) (image.Image, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	img, format, err := image.Decode(file)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	logger.Debug("image read",
		zap.String("path", path),
		zap.String("format", format),
		zap.Int("width", img.Bounds().Dx()),
		zap.Int("height", img.Bounds().Dy()))
	return img, nil
}

// ReadGrid reads an image file into a pixel grid.
func ReadGrid(path string) (*jacquard.Grid, error) {
	img, err := ReadImage(path)
	if err != nil {
		return nil, err
	}
	return jacquard.GridFromImage(img), nil
}

// OutputPath returns filename with ".bmp" appended unless it already ends in
// an extension SaveImage can write.
func OutputPath(filename string) string {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".bmp", ".png", ".jpg", ".jpeg", ".tif", ".tiff":
		return filename
	}
	return filename + ".bmp"
}

// SaveImage encodes img by the extension of filename. JPEG is lossy and will
// not round-trip a palette exactly.
func SaveImage(img image.Image, filename string) error {
	var encode func(*os.File) error
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".png":
		encode = func(f *os.File) error { return png.Encode(f, img) }
	case ".bmp":
		encode = func(f *os.File) error { return bmp.Encode(f, img) }
	case ".jpg", ".jpeg":
		encode = func(f *os.File) error { return jpeg.Encode(f, img, &jpeg.Options{Quality: 100}) }
	case ".tif", ".tiff":
		encode = func(f *os.File) error { return tiff.Encode(f, img, nil) }
	default:
		return fmt.Errorf("unsupported image extension %q", filepath.Ext(filename))
	}

	f, err := os.Create(filename)
	if err != nil {
		return err
	}
	if err := encode(f); err != nil {
		f.Close()
		return err
	}
	logger.Debug("image saved", zap.String("path", filename))
	return f.Close()
}

func SaveGrid(g *jacquard.Grid, filename string) error {
	return SaveImage(g.Image(), filename)
}

func SavePalette(palette jacquard.Palette, tileSize int, filename string) error {
	if len(palette) == 0 {
		return fmt.Errorf("empty palette")
	}
	if tileSize <= 0 {
		tileSize = 64
	}

	g := jacquard.NewGrid(tileSize*len(palette), tileSize)
	for i, c := range palette {
		x0 := i * tileSize
		for y := range tileSize {
			for x := x0; x < x0+tileSize; x++ {
				g.Set(x, y, c)
			}
		}
	}
	return SaveGrid(g, filename)
}

type Interp int

const (
	InterpNearest Interp = iota
	InterpBilinear
)

func (i Interp) String() string {
	if i == InterpBilinear {
		return "bilinear"
	}
	return "nearest"
}

func ParseInterp(s string) (Interp, error) {
	switch s {
	case "", "nearest":
		return InterpNearest, nil
	case "bilinear":
		return InterpBilinear, nil
	}
	return 0, fmt.Errorf("unknown resize interpolation %q", s)
}

// ResizeGrid resamples g to w x h. Nearest picks source pixels and keeps the
// color set intact; bilinear blends and usually needs Quantize afterwards.
func ResizeGrid(g *jacquard.Grid, w, h int, interp Interp) *jacquard.Grid {
	if g.W == w && g.H == h {
		return g.Clone()
	}
	if w <= 0 || h <= 0 || g.W == 0 || g.H == 0 {
		return jacquard.NewGrid(w, h)
	}
	logger.Debug("resizing grid",
		zap.Int("from_w", g.W), zap.Int("from_h", g.H),
		zap.Int("to_w", w), zap.Int("to_h", h),
		zap.Stringer("interp", interp))
	if interp == InterpBilinear {
		return jacquard.GridFromImage(resize.Resize(uint(w), uint(h), g.Image(), resize.Bilinear))
	}
	// One source pixel per output pixel, so no new colors appear.
	f := gift.New(gift.Resize(w, h, gift.NearestNeighborResampling))
	dst := image.NewRGBA(f.Bounds(image.Rect(0, 0, g.W, g.H)))
	f.Draw(dst, g.Image())
	return jacquard.GridFromImage(dst)
}

// Preview scales img up by an integer factor with hard pixel edges, which
// makes single weave rows visible.
func Preview(img image.Image, scale int) image.Image {
	if scale <= 1 {
		return img
	}
	b := img.Bounds()
	g := gift.New(gift.Resize(b.Dx()*scale, b.Dy()*scale, gift.NearestNeighborResampling))
	dst := image.NewRGBA(g.Bounds(b))
	g.Draw(dst, img)
	return dst
}

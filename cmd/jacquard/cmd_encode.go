package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/setanarut/jacquard"
	"github.com/setanarut/jacquard/utils"
)

type encodeFlags struct {
	back    string
	out     string
	palette []string
	preview int
}

func (a *app) encodeCmd() *cobra.Command {
	var f encodeFlags
	cmd := &cobra.Command{
		Use:   "encode FRONT",
		Short: "Encode front and back faces into a weave pattern",
		Long: `Reads the front image, takes the palette from --palette, the config file or
the front image itself, and encodes it against the back image.

Without --back a random back face is drawn from the front's colors (use --seed
to reproduce it). A back image of a different size is resampled to the front's.
The pattern is saved to --out, by default <front>_processed.bmp.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runEncode(cmd, args[0], f)
		},
	}
	fl := cmd.Flags()
	fl.StringVar(&f.back, "back", "", "back face image (default: generated noise)")
	fl.StringVarP(&f.out, "out", "o", "", "output image")
	fl.StringSliceVar(&f.palette, "palette", nil, "three hex colors in row order, e.g. #01c253,#0c5811,#ff8ef6")
	fl.IntVar(&f.preview, "preview", 0, "also save an upscaled preview with this factor")
	return cmd
}

func (a *app) runEncode(cmd *cobra.Command, frontPath string, f encodeFlags) error {
	start := time.Now()

	front, err := utils.ReadGrid(frontPath)
	if err != nil {
		return fmt.Errorf("read front: %w", err)
	}
	palette, err := a.resolvePalette(f.palette, front)
	if err != nil {
		return err
	}
	symbols, err := a.cfg.SymbolColors()
	if err != nil {
		return err
	}

	back, err := a.loadBack(f.back, front, palette)
	if err != nil {
		return err
	}

	opt := jacquard.OptionsFromSize(front.Size())
	if a.cfg.Workers > 0 {
		opt.Workers = a.cfg.Workers
	}
	wg, err := jacquard.EncodeWithOptions(front, back, palette, opt)
	if err != nil {
		return fmt.Errorf("encode: %w", err)
	}

	out := f.out
	if out == "" {
		out = derivedPath(frontPath, "_processed.bmp")
	}
	out = utils.OutputPath(out)
	img := wg.Image(symbols)
	if err := utils.SaveImage(img, out); err != nil {
		return fmt.Errorf("save pattern: %w", err)
	}

	scale := f.preview
	if scale == 0 {
		scale = a.cfg.PreviewScale
	}
	if scale > 1 {
		previewPath := derivedPath(out, "_preview.png")
		if err := utils.SaveImage(utils.Preview(img, scale), previewPath); err != nil {
			return fmt.Errorf("save preview: %w", err)
		}
		a.logger.Debug("preview saved", zap.String("path", previewPath), zap.Int("scale", scale))
	}

	counts := wg.Counts()
	a.logger.Info("pattern saved",
		zap.String("path", out),
		zap.Int("width", wg.W),
		zap.Int("height", wg.H),
		zap.Stringer("palette", palette),
		zap.Int("both", counts[jacquard.Both]),
		zap.Int("front_only", counts[jacquard.FrontOnly]),
		zap.Int("back_only", counts[jacquard.BackOnly]),
		zap.Int("workers", opt.Workers),
		zap.Duration("elapsed", time.Since(start)))
	fmt.Fprintln(cmd.OutOrStdout(), out)
	return nil
}

func (a *app) loadBack(path string, front *jacquard.Grid, palette jacquard.Palette) (*jacquard.Grid, error) {
	if path == "" {
		a.logger.Info("no back image, generating noise from front colors", zap.Uint64("seed", a.cfg.Seed))
		return jacquard.GenerateNoiseLike(front, a.randSource()), nil
	}

	back, err := utils.ReadGrid(path)
	if err != nil {
		return nil, fmt.Errorf("read back: %w", err)
	}
	if back.SameShape(front) {
		return back, nil
	}

	interp, err := utils.ParseInterp(a.cfg.Resize)
	if err != nil {
		return nil, err
	}
	a.logger.Warn("back image size differs, resizing",
		zap.Stringer("front", front.Size()),
		zap.Stringer("back", back.Size()),
		zap.Stringer("interp", interp))
	back = utils.ResizeGrid(back, front.W, front.H, interp)
	if interp == utils.InterpBilinear {
		// Blended edges are off-palette.
		return utils.Quantize(back.Image(), palette)
	}
	return back, nil
}

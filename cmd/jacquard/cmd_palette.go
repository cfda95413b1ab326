package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/setanarut/jacquard"
	"github.com/setanarut/jacquard/utils"
)

func (a *app) paletteCmd() *cobra.Command {
	var swatch string
	cmd := &cobra.Command{
		Use:   "palette IMAGE",
		Short: "Print the 3-color palette inferred from an image",
		Long: `Prints one hex color per line in row order. An image with exactly three
colors yields those colors; with more, the three most frequent; with fewer,
the colors present padded with #01c253, #0c5811 and #ff8ef6.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := utils.ReadGrid(args[0])
			if err != nil {
				return err
			}
			p := jacquard.InferPalette(g)
			for _, c := range p {
				fmt.Fprintln(cmd.OutOrStdout(), c)
			}
			if swatch != "" {
				if err := utils.SavePalette(p, 64, swatch); err != nil {
					return fmt.Errorf("save swatch: %w", err)
				}
				a.logger.Debug("swatch saved", zap.String("path", swatch))
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&swatch, "swatch", "", "also save the palette as a color strip")
	return cmd
}

type quantizeFlags struct {
	out     string
	palette []string
	method  string
	sort    bool
}

func (a *app) quantizeCmd() *cobra.Command {
	var f quantizeFlags
	cmd := &cobra.Command{
		Use:   "quantize IMAGE",
		Short: "Reduce a photo to 3 colors so it can be encoded",
		Long: `Extracts an approximate 3-color palette from the photo (dominantcolor or
kmeans), or takes --palette, and snaps every pixel to the nearest palette color
in CIE Lab. The palette is printed in row order.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runQuantize(cmd, args[0], f)
		},
	}
	fl := cmd.Flags()
	fl.StringVarP(&f.out, "out", "o", "", "output image (default <image>_3c.png)")
	fl.StringSliceVar(&f.palette, "palette", nil, "snap to these three hex colors instead of extracting")
	fl.StringVar(&f.method, "method", "", "palette extraction: dominantcolor | kmeans (default from config)")
	fl.BoolVar(&f.sort, "sort", false, "order the extracted palette from dark to bright")
	return cmd
}

func (a *app) runQuantize(cmd *cobra.Command, path string, f quantizeFlags) error {
	img, err := utils.ReadImage(path)
	if err != nil {
		return err
	}

	var palette jacquard.Palette
	if len(f.palette) > 0 {
		if palette, err = a.resolvePalette(f.palette, nil); err != nil {
			return err
		}
	} else {
		name := f.method
		if name == "" {
			name = a.cfg.PaletteMethod
		}
		method, err := utils.ParsePaletteMethod(name)
		if err != nil {
			return err
		}
		palette = utils.ExtractPalette(img, 3, method)
		if f.sort {
			utils.SortPaletteByBrightness(palette)
		}
	}

	g, err := utils.Quantize(img, palette)
	if err != nil {
		return err
	}
	out := f.out
	if out == "" {
		out = derivedPath(path, "_3c.png")
	}
	if err := utils.SaveGrid(g, out); err != nil {
		return err
	}
	for _, c := range palette {
		fmt.Fprintln(cmd.OutOrStdout(), c)
	}
	a.logger.Info("image quantized", zap.String("path", out), zap.Stringer("palette", palette))
	return nil
}

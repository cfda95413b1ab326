package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/setanarut/jacquard"
	"github.com/setanarut/jacquard/utils"
)

type decodeFlags struct {
	front   string
	back    string
	palette []string
}

func (a *app) decodeCmd() *cobra.Command {
	var f decodeFlags
	cmd := &cobra.Command{
		Use:   "decode PATTERN",
		Short: "Recover the front and back faces from a saved weave pattern",
		Long: `Reads a pattern written by encode, using the symbol colors from the config,
and writes the two faces it encodes. The palette must be the one used to encode.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runDecode(cmd, args[0], f)
		},
	}
	fl := cmd.Flags()
	fl.StringVar(&f.front, "front", "", "front output (default <pattern>_front.png)")
	fl.StringVar(&f.back, "back", "", "back output (default <pattern>_back.png)")
	fl.StringSliceVar(&f.palette, "palette", nil, "three hex colors in row order")
	return cmd
}

func (a *app) runDecode(cmd *cobra.Command, patternPath string, f decodeFlags) error {
	palette, err := a.resolvePalette(f.palette, nil)
	if err != nil {
		return err
	}
	symbols, err := a.cfg.SymbolColors()
	if err != nil {
		return err
	}
	raster, err := utils.ReadGrid(patternPath)
	if err != nil {
		return fmt.Errorf("read pattern: %w", err)
	}
	wg, err := jacquard.ParseWeave(raster, symbols)
	if err != nil {
		return err
	}
	front, back, err := jacquard.Decode(wg, palette)
	if err != nil {
		return fmt.Errorf("decode: %w", err)
	}

	frontOut := f.front
	if frontOut == "" {
		frontOut = derivedPath(patternPath, "_front.png")
	}
	backOut := f.back
	if backOut == "" {
		backOut = derivedPath(patternPath, "_back.png")
	}
	for _, o := range []struct {
		grid *jacquard.Grid
		path string
	}{{front, frontOut}, {back, backOut}} {
		if err := utils.SaveGrid(o.grid, o.path); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), o.path)
	}
	a.logger.Info("faces decoded",
		zap.String("front", frontOut),
		zap.String("back", backOut),
		zap.Int("width", front.W),
		zap.Int("height", front.H))
	return nil
}

package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/setanarut/jacquard"
	"github.com/setanarut/jacquard/utils"
)

func (a *app) noiseCmd() *cobra.Command {
	var (
		out      string
		weighted bool
	)
	cmd := &cobra.Command{
		Use:   "noise IMAGE",
		Short: "Generate a random back face from an image's colors",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ref, err := utils.ReadGrid(args[0])
			if err != nil {
				return err
			}
			var g *jacquard.Grid
			if weighted {
				g = jacquard.GenerateWeightedNoiseLike(ref, a.randSource())
			} else {
				g = jacquard.GenerateNoiseLike(ref, a.randSource())
			}
			if out == "" {
				out = derivedPath(args[0], "_noise.png")
			}
			if err := utils.SaveGrid(g, out); err != nil {
				return fmt.Errorf("save noise: %w", err)
			}
			a.logger.Info("noise saved",
				zap.String("path", out),
				zap.Bool("weighted", weighted),
				zap.Uint64("seed", a.cfg.Seed))
			fmt.Fprintln(cmd.OutOrStdout(), out)
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "", "output image (default <image>_noise.png)")
	cmd.Flags().BoolVar(&weighted, "weighted", false, "draw colors in proportion to their frequency")
	return cmd
}

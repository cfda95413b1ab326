package main

import (
	"fmt"
	"math/rand/v2"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/setanarut/jacquard"
	"github.com/setanarut/jacquard/config"
	"github.com/setanarut/jacquard/utils"
)

type app struct {
	verbose    bool
	configPath string
	seed       uint64
	workers    int

	logger *zap.Logger
	cfg    *config.Config
}

func newRootCmd() *cobra.Command {
	a := &app{logger: zap.NewNop(), cfg: config.DefaultConfig()}

	root := &cobra.Command{
		Use:   "jacquard",
		Short: "Turn 3-color front/back images into jacquard weave patterns",
		Long: `jacquard encodes two 3-color images, the front and back faces of a fabric,
into a weave pattern three times as tall. Each source pixel becomes three rows,
one per palette color, marking which face shows that color.

Example:
  jacquard encode front.png --back back.png --out pattern.bmp`,
		SilenceUsage:      true,
		PersistentPreRunE: a.setup,
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = a.logger.Sync()
		},
	}

	pf := root.PersistentFlags()
	pf.BoolVarP(&a.verbose, "verbose", "v", false, "enable debug logging")
	pf.StringVar(&a.configPath, "config", config.DefaultFile, "config file")
	pf.Uint64Var(&a.seed, "seed", 0, "seed for generated back faces (0 = random)")
	pf.IntVar(&a.workers, "workers", 0, "encoder goroutines (0 = pick from image size)")

	root.AddCommand(
		a.encodeCmd(),
		a.decodeCmd(),
		a.paletteCmd(),
		a.noiseCmd(),
		a.quantizeCmd(),
	)
	return root
}

func (a *app) setup(cmd *cobra.Command, args []string) error {
	zc := zap.NewProductionConfig()
	if a.verbose {
		zc.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	logger, err := zc.Build()
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	a.logger = logger
	utils.SetLogger(logger)

	cfg, err := config.Load(a.configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	flags := cmd.Flags()
	if flags.Changed("seed") {
		cfg.Seed = a.seed
	}
	if flags.Changed("workers") {
		cfg.Workers = a.workers
	}
	a.cfg = cfg
	a.logger.Debug("config loaded",
		zap.String("path", a.configPath),
		zap.Uint64("seed", cfg.Seed),
		zap.Int("workers", cfg.Workers))
	return nil
}

// randSource returns nil for a random seed.
func (a *app) randSource() rand.Source {
	if a.cfg.Seed == 0 {
		return nil
	}
	return rand.NewPCG(a.cfg.Seed, a.cfg.Seed)
}

// resolvePalette prefers the flag, then the config file, then inference from front.
func (a *app) resolvePalette(flagHexes []string, front *jacquard.Grid) (jacquard.Palette, error) {
	if len(flagHexes) > 0 {
		return config.ParsePalette(flagHexes)
	}
	p, err := a.cfg.JacquardPalette()
	if err != nil {
		return nil, err
	}
	if p != nil {
		return p, nil
	}
	if front == nil {
		return nil, fmt.Errorf("no palette given: use --palette or set palette in %s", a.configPath)
	}
	p = jacquard.InferPalette(front)
	a.logger.Info("palette inferred from front image", zap.Stringer("palette", p))
	return p, nil
}

// derivedPath turns dir/name.ext into dir/name<suffix>.
func derivedPath(src, suffix string) string {
	base := strings.TrimSuffix(filepath.Base(src), filepath.Ext(src))
	return filepath.Join(filepath.Dir(src), base+suffix)
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

// Package config loads the jacquard.yaml settings used by the command-line host.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/lucasb-eyer/go-colorful"
	"gopkg.in/yaml.v3"

	"github.com/setanarut/jacquard"
)

const DefaultFile = "jacquard.yaml"

type Config struct {
	// Hex yarn colors in row order. Empty means infer from the front image.
	Palette []string `yaml:"palette,omitempty"`

	Symbols SymbolsConfig `yaml:"symbols"`

	// Encoder goroutines. 0 picks from the image size.
	Workers int `yaml:"workers"`

	// Seed for the stand-in back face. 0 means random.
	Seed uint64 `yaml:"seed"`

	// Back face resampling when its size differs: nearest | bilinear.
	Resize string `yaml:"resize"`

	// Integer upscale of the saved preview. 0 or 1 disables it.
	PreviewScale int `yaml:"preview_scale"`

	// Photo palette extraction for quantize: dominantcolor | kmeans.
	PaletteMethod string `yaml:"palette_method"`
}

type SymbolsConfig struct {
	Background string `yaml:"background"`
	FrontOnly  string `yaml:"front_only"`
	BackOnly   string `yaml:"back_only"`
	Both       string `yaml:"both"`
}

func DefaultConfig() *Config {
	sc := jacquard.DefaultSymbolColors
	return &Config{
		Symbols: SymbolsConfig{
			Background: sc[jacquard.Background].String(),
			FrontOnly:  sc[jacquard.FrontOnly].String(),
			BackOnly:   sc[jacquard.BackOnly].String(),
			Both:       sc[jacquard.Both].String(),
		},
		Resize:        "nearest",
		PaletteMethod: "dominantcolor",
	}
}

// Load reads path over the defaults. A missing file yields the defaults.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	} else if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := cfg.applyEnvOverrides(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

func (c *Config) applyEnvOverrides() error {
	if v := os.Getenv("JACQUARD_WORKERS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("JACQUARD_WORKERS: %w", err)
		}
		c.Workers = n
	}
	if v := os.Getenv("JACQUARD_SEED"); v != "" {
		n, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return fmt.Errorf("JACQUARD_SEED: %w", err)
		}
		c.Seed = n
	}
	if v := os.Getenv("JACQUARD_RESIZE"); v != "" {
		c.Resize = v
	}
	return nil
}

// Validate checks colors and enumerations without touching any image.
func (c *Config) Validate() error {
	if len(c.Palette) > 0 {
		if _, err := c.JacquardPalette(); err != nil {
			return err
		}
	}
	if _, err := c.SymbolColors(); err != nil {
		return err
	}
	switch c.Resize {
	case "", "nearest", "bilinear":
	default:
		return fmt.Errorf("config: unknown resize %q", c.Resize)
	}
	switch c.PaletteMethod {
	case "", "dominantcolor", "kmeans":
	default:
		return fmt.Errorf("config: unknown palette_method %q", c.PaletteMethod)
	}
	if c.PreviewScale < 0 {
		return fmt.Errorf("config: preview_scale must not be negative")
	}
	return nil
}

// JacquardPalette parses the configured palette. It returns nil, nil when no
// palette is configured.
func (c *Config) JacquardPalette() (jacquard.Palette, error) {
	if len(c.Palette) == 0 {
		return nil, nil
	}
	return ParsePalette(c.Palette)
}

func (c *Config) SymbolColors() (jacquard.SymbolColors, error) {
	var sc jacquard.SymbolColors
	for s, hex := range [...]string{
		jacquard.Background: c.Symbols.Background,
		jacquard.FrontOnly:  c.Symbols.FrontOnly,
		jacquard.BackOnly:   c.Symbols.BackOnly,
		jacquard.Both:       c.Symbols.Both,
	} {
		col, err := ParseColor(hex)
		if err != nil {
			return sc, fmt.Errorf("config: symbols.%v: %w", jacquard.Symbol(s), err)
		}
		sc[s] = col
	}
	if err := sc.Validate(); err != nil {
		return sc, err
	}
	return sc, nil
}

// ParseColor parses "#rrggbb" or "#rgb".
func ParseColor(hex string) (jacquard.Color, error) {
	col, err := colorful.Hex(hex)
	if err != nil {
		return jacquard.Color{}, err
	}
	r, g, b := col.RGB255()
	return jacquard.Color{R: r, G: g, B: b}, nil
}

// ParsePalette parses hex colors into a validated 3-color palette.
func ParsePalette(hexes []string) (jacquard.Palette, error) {
	p := make(jacquard.Palette, 0, len(hexes))
	for _, h := range hexes {
		c, err := ParseColor(h)
		if err != nil {
			return nil, fmt.Errorf("config: palette: %w", err)
		}
		p = append(p, c)
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

// Package config holds the knobs of a training run, read from YAML and
// adjusted by command-line flags.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// Config captures the runtime knobs for a training run.
type Config struct {
	DataDir   string  `yaml:"data_dir"`   // Directory holding the MNIST IDX files
	Network   string  `yaml:"network"`    // Path the trained network is loaded from and saved to
	Hidden    []int   `yaml:"hidden"`     // Hidden layer sizes
	Epochs    int     `yaml:"epochs"`     // Passes over the training examples
	Examples  int     `yaml:"examples"`   // Examples per epoch; 0 means all
	Check     int     `yaml:"check"`      // Examples classified after training; 0 means all
	Rate      float64 `yaml:"rate"`       // Learning rate at epoch 0
	FinalRate float64 `yaml:"final_rate"` // Rate approached at the last epoch
	Scale     float64 `yaml:"scale"`      // Width of the initial weight interval
	Seed      int64   `yaml:"seed"`       // Weight initialization seed
	Normalize bool    `yaml:"normalize"`  // Scale pixels to [0, 1]
	Store     string  `yaml:"store"`      // Optional bolt store used instead of the IDX files
}

// Overrides captures CLI supplied values. Zero values leave the config
// unchanged. A non-nil empty Hidden removes every hidden layer.
type Overrides struct {
	DataDir   string
	Network   string
	Hidden    []int
	Epochs    int
	Examples  int
	Check     int
	Rate      float64
	FinalRate float64
	Scale     float64
	Seed      int64
	Normalize bool
	Store     string
}

// Default returns the classic MNIST run: a [784, 15, 10] network with
// weights in [-5, 5), 30 epochs over 10000 examples with the rate decaying
// from 3 towards 1, checked on 1000 examples.
func Default() *Config {
	return &Config{
		DataDir:   "./res",
		Network:   "./res/netfile.mlp",
		Hidden:    []int{15},
		Epochs:    30,
		Examples:  10000,
		Check:     1000,
		Rate:      3,
		FinalRate: 1,
		Scale:     10,
		Seed:      1,
	}
}

// Load reads a Config from YAML on top of Default and validates it.
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open config: %w", err)
	}
	defer f.Close()

	cfg, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Parse decodes YAML from r on top of Default. Unknown keys are errors.
func Parse(r io.Reader) (*Config, error) {
	cfg := Default()
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}
	return cfg, nil
}

// ApplyOverrides updates c using any non-zero override.
func (c *Config) ApplyOverrides(o Overrides) {
	if o.DataDir != "" {
		c.DataDir = o.DataDir
	}
	if o.Network != "" {
		c.Network = o.Network
	}
	if o.Hidden != nil {
		c.Hidden = append([]int{}, o.Hidden...)
	}
	if o.Epochs > 0 {
		c.Epochs = o.Epochs
	}
	if o.Examples > 0 {
		c.Examples = o.Examples
	}
	if o.Check > 0 {
		c.Check = o.Check
	}
	if o.Rate > 0 {
		c.Rate = o.Rate
	}
	if o.FinalRate > 0 {
		c.FinalRate = o.FinalRate
	}
	if o.Scale > 0 {
		c.Scale = o.Scale
	}
	if o.Seed != 0 {
		c.Seed = o.Seed
	}
	if o.Normalize {
		c.Normalize = true
	}
	if o.Store != "" {
		c.Store = o.Store
	}
}

// Validate verifies the config is runnable.
func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config is nil")
	}
	if c.Epochs <= 0 {
		return fmt.Errorf("epochs must be > 0 (got %d)", c.Epochs)
	}
	if c.Examples < 0 {
		return fmt.Errorf("examples must be >= 0 (got %d)", c.Examples)
	}
	if c.Check < 0 {
		return fmt.Errorf("check must be >= 0 (got %d)", c.Check)
	}
	for i, h := range c.Hidden {
		if h <= 0 {
			return fmt.Errorf("hidden[%d] must be > 0 (got %d)", i, h)
		}
	}
	if c.Rate <= 0 {
		return fmt.Errorf("rate must be > 0 (got %g)", c.Rate)
	}
	if c.FinalRate < 0 {
		return fmt.Errorf("final_rate must be >= 0 (got %g)", c.FinalRate)
	}
	if c.Scale <= 0 {
		return fmt.Errorf("scale must be > 0 (got %g)", c.Scale)
	}
	return nil
}

// LayerSizes returns the full size sequence: input, hidden..., classes.
func (c *Config) LayerSizes(input, classes int) []int {
	sizes := make([]int, 0, len(c.Hidden)+2)
	sizes = append(sizes, input)
	sizes = append(sizes, c.Hidden...)
	return append(sizes, classes)
}

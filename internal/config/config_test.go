package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, 30, cfg.Epochs)
	assert.Equal(t, 10000, cfg.Examples)
	assert.Equal(t, 1000, cfg.Check)
	assert.Equal(t, []int{784, 15, 10}, cfg.LayerSizes(784, 10))
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.yaml")
	data := `
# quick run
data_dir: /data/mnist
hidden: [32, 16]
epochs: 5
rate: 0.5
normalize: true
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/data/mnist", cfg.DataDir)
	assert.Equal(t, []int{32, 16}, cfg.Hidden)
	assert.Equal(t, 5, cfg.Epochs)
	assert.Equal(t, 0.5, cfg.Rate)
	assert.True(t, cfg.Normalize)

	// Unset keys keep their defaults.
	assert.Equal(t, 10000, cfg.Examples)
	assert.Equal(t, 10.0, cfg.Scale)
}

func TestLoadErrors(t *testing.T) {
	dir := t.TempDir()

	_, err := Load(filepath.Join(dir, "absent.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	unknown := filepath.Join(dir, "unknown.yaml")
	require.NoError(t, os.WriteFile(unknown, []byte("epochz: 3\n"), 0o644))
	_, err = Load(unknown)
	assert.Error(t, err)

	invalid := filepath.Join(dir, "invalid.yaml")
	require.NoError(t, os.WriteFile(invalid, []byte("epochs: 0\n"), 0o644))
	_, err = Load(invalid)
	assert.ErrorContains(t, err, "epochs")
}

func TestParseEmpty(t *testing.T) {
	cfg, err := Parse(strings.NewReader(""))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"epochs", func(c *Config) { c.Epochs = 0 }, "epochs"},
		{"examples", func(c *Config) { c.Examples = -1 }, "examples"},
		{"check", func(c *Config) { c.Check = -1 }, "check"},
		{"hidden", func(c *Config) { c.Hidden = []int{15, 0} }, "hidden[1]"},
		{"rate", func(c *Config) { c.Rate = 0 }, "rate"},
		{"final rate", func(c *Config) { c.FinalRate = -1 }, "final_rate"},
		{"scale", func(c *Config) { c.Scale = -2 }, "scale"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			assert.ErrorContains(t, cfg.Validate(), tt.want)
		})
	}

	var nilCfg *Config
	assert.Error(t, nilCfg.Validate())

	noHidden := Default()
	noHidden.Hidden = nil
	require.NoError(t, noHidden.Validate())
	assert.Equal(t, []int{784, 10}, noHidden.LayerSizes(784, 10))
}

func TestApplyOverrides(t *testing.T) {
	cfg := Default()
	hidden := []int{64}
	cfg.ApplyOverrides(Overrides{
		Network:   "/tmp/net.mlp",
		Hidden:    hidden,
		Epochs:    3,
		Rate:      0.25,
		Normalize: true,
	})

	assert.Equal(t, "/tmp/net.mlp", cfg.Network)
	assert.Equal(t, []int{64}, cfg.Hidden)
	assert.Equal(t, 3, cfg.Epochs)
	assert.Equal(t, 0.25, cfg.Rate)
	assert.True(t, cfg.Normalize)

	// Zero overrides keep existing values.
	assert.Equal(t, "./res", cfg.DataDir)
	assert.Equal(t, 10000, cfg.Examples)
	assert.Equal(t, int64(1), cfg.Seed)

	// The override slice is copied.
	hidden[0] = 1
	assert.Equal(t, []int{64}, cfg.Hidden)
}

func TestApplyOverridesEmptyHidden(t *testing.T) {
	cfg := Default()
	cfg.ApplyOverrides(Overrides{})
	assert.Equal(t, []int{15}, cfg.Hidden)

	cfg.ApplyOverrides(Overrides{Hidden: []int{}})
	assert.Empty(t, cfg.Hidden)
	require.NoError(t, cfg.Validate())
}

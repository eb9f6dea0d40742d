package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/voxelsplace/splatpack/splat"
)

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())

	opts, err := cfg.Options(nil)
	require.NoError(t, err)
	assert.Equal(t, splat.TargetTexture, opts.Target)
	assert.Equal(t, splat.LevelHigh, opts.Level)
	assert.Equal(t, splat.Morton, opts.Sort.Order)
	assert.Equal(t, float32(splat.TextureColorMax), opts.ColorMax)
}

func TestLoadMergesOverDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "profile.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
format: spb
level: 2
sort:
  order: hilbert
  use_time: true
compress: zstd
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "spb", cfg.Format)
	assert.Equal(t, 2, cfg.Level)
	assert.Equal(t, float32(1), cfg.Sort.TimeWeight, "default kept")
	assert.Equal(t, splat.CompressZstd, cfg.Compression())

	opts, err := cfg.Options(nil)
	require.NoError(t, err)
	assert.Equal(t, splat.TargetSequential, opts.Target)
	assert.Equal(t, splat.Hilbert, opts.Sort.Order)
	assert.True(t, opts.Sort.UseTime)
	assert.Equal(t, float32(splat.SequentialColorMax), opts.ColorMax)
}

func TestDecodeEmpty(t *testing.T) {
	cfg, err := Decode(strings.NewReader(""))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestDecodeRejects(t *testing.T) {
	for name, doc := range map[string]string{
		"unknown key": "formt: glb\n",
		"level":       "level: 3\n",
		"order":       "sort:\n  order: zorder\n",
		"format":      "format: ply\n",
		"compress":    "compress: gzip\n",
		"clamp":       "clamp:\n  texture: -1\n",
		"workers":     "workers: -2\n",
	} {
		t.Run(name, func(t *testing.T) {
			_, err := Decode(strings.NewReader(doc))
			assert.Error(t, err)
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLevelErrorIsTyped(t *testing.T) {
	cfg := Default()
	cfg.Level = 7
	assert.ErrorIs(t, cfg.Validate(), splat.ErrInvalidQualityLevel)
}

// Package config loads conversion profiles from YAML.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/voxelsplace/splatpack/splat"
)

// Config is a conversion profile. Zero fields in a loaded file keep the
// default value.
type Config struct {
	// Format is the output container: glb or spb.
	Format string `yaml:"format"`
	// Level is the SPB quality level, 0 (high) to 2 (low).
	Level int  `yaml:"level"`
	Pad   bool `yaml:"pad"`

	Sort Sort `yaml:"sort"`

	Clamp Clamp `yaml:"clamp"`

	// Compress wraps the output file: none, zlib or zstd.
	Compress string `yaml:"compress"`
	// Workers bounds chunk parallelism; 0 uses GOMAXPROCS.
	Workers int `yaml:"workers"`
	// Analyze logs per-chunk locality statistics.
	Analyze bool `yaml:"analyze"`
}

// Sort configures point ordering.
type Sort struct {
	Order      string  `yaml:"order"`
	UseTime    bool    `yaml:"use_time"`
	TimeWeight float32 `yaml:"time_weight"`
}

// Clamp holds the RGB upper bounds of the two encoders.
type Clamp struct {
	Texture    float32 `yaml:"texture"`
	Sequential float32 `yaml:"sequential"`
}

// Default returns the profile used when no file is given.
func Default() Config {
	return Config{
		Format:   "glb",
		Level:    int(splat.LevelHigh),
		Sort:     Sort{Order: splat.Morton.String(), TimeWeight: 1},
		Clamp:    Clamp{Texture: splat.TextureColorMax, Sequential: splat.SequentialColorMax},
		Compress: "none",
	}
}

// Load reads a YAML profile over Default. Unknown keys are rejected.
func Load(path string) (Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config file: %w", err)
	}
	defer f.Close()
	return Decode(f)
}

// Decode parses a YAML profile over Default. An empty document yields the
// defaults.
func Decode(r io.Reader) (Config, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return Config{}, err
	}
	cfg := Default()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("failed to parse YAML: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// Validate checks every enumerated field and numeric bound.
func (c Config) Validate() error {
	if _, err := splat.ParseTarget(c.Format); err != nil {
		return err
	}
	if err := splat.Level(c.Level).Validate(); err != nil {
		return err
	}
	if _, err := splat.ParseSortOrder(c.Sort.Order); err != nil {
		return err
	}
	if _, err := splat.ParseCompression(c.Compress); err != nil {
		return err
	}
	if c.Sort.TimeWeight < 0 {
		return fmt.Errorf("sort.time_weight must be >= 0, got %g", c.Sort.TimeWeight)
	}
	if c.Clamp.Texture <= 0 || c.Clamp.Sequential <= 0 {
		return fmt.Errorf("clamp values must be positive, got texture=%g sequential=%g", c.Clamp.Texture, c.Clamp.Sequential)
	}
	if c.Workers < 0 {
		return fmt.Errorf("workers must be >= 0, got %d", c.Workers)
	}
	return nil
}

// Options converts a validated profile into pipeline options.
func (c Config) Options(log *slog.Logger) (splat.Options, error) {
	if err := c.Validate(); err != nil {
		return splat.Options{}, err
	}
	target, _ := splat.ParseTarget(c.Format)
	order, _ := splat.ParseSortOrder(c.Sort.Order)
	colorMax := c.Clamp.Texture
	if target == splat.TargetSequential {
		colorMax = c.Clamp.Sequential
	}
	return splat.Options{
		Target: target,
		Level:  splat.Level(c.Level),
		Sort: splat.SortOptions{
			Order:      order,
			UseTime:    c.Sort.UseTime,
			TimeWeight: c.Sort.TimeWeight,
			Logger:     log,
		},
		Pad:      c.Pad,
		ColorMax: colorMax,
		Workers:  c.Workers,
		Analyze:  c.Analyze,
		Logger:   log,
	}, nil
}

// Compression returns the parsed output codec.
func (c Config) Compression() splat.Compression {
	comp, _ := splat.ParseCompression(c.Compress)
	return comp
}

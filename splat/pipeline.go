package splat

import (
	"fmt"
	"log/slog"
	"strings"
	"time"
)

// Target selects the output encoder.
type Target int

const (
	TargetTexture Target = iota
	TargetSequential
)

func (t Target) String() string {
	if t == TargetSequential {
		return "spb"
	}
	return "glb"
}

// ParseTarget accepts glb (texture) or spb (sequential).
func ParseTarget(s string) (Target, error) {
	switch strings.ToLower(s) {
	case "", "glb", "texture":
		return TargetTexture, nil
	case "spb", "sequential":
		return TargetSequential, nil
	}
	return TargetTexture, fmt.Errorf("unknown output format %q", s)
}

// Default RGB clamps of the two encoders.
const (
	TextureColorMax    = 6
	SequentialColorMax = 1
)

// Input is one vertex record stream and its declared float properties.
type Input struct {
	Name       string
	Properties []string
	Data       []byte
}

// Options configures Convert.
type Options struct {
	Target Target
	Level  Level
	Sort   SortOptions
	// Pad requests trailing zero padding in SPB output.
	Pad bool
	// ColorMax overrides the RGB clamp; 0 selects the target default.
	ColorMax float32
	Workers  int
	// Analyze computes ChunkStats on the sorted positions.
	Analyze bool
	Logger  *slog.Logger
}

// Result is the outcome of one conversion. Exactly one of Texture and
// Sequential is set.
type Result struct {
	Name        string
	Schema      *Schema
	Level       Level
	InputPoints int
	Points      int
	Sort        SortResult
	// DegenerateRotations counts quaternions replaced by identity.
	DegenerateRotations int
	Stats               *ChunkStats

	Texture    *TextureSet
	Sequential *SequentialSet
}

func pipelineLogger(in Input, opts Options) *slog.Logger {
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}
	return log.With("input", in.Name)
}

// Sorted runs identify, pad, decode and sort, and the chunk analysis when
// requested. The returned attributes are in curve order; the result has
// neither encoder output set.
func Sorted(in Input, opts Options) (*Result, *Attributes, error) {
	log := pipelineLogger(in, opts)
	if err := opts.Level.Validate(); err != nil {
		return nil, nil, err
	}
	schema, err := Identify(in.Properties)
	if err != nil {
		return nil, nil, err
	}
	raw, err := NewRawPointSet(schema, in.Data)
	if err != nil {
		return nil, nil, err
	}
	res := &Result{Name: in.Name, Schema: schema, Level: opts.Level, InputPoints: raw.N}

	start := time.Now()
	raw = raw.Pad()
	res.Points = raw.N

	colorMax := opts.ColorMax
	if colorMax == 0 {
		colorMax = TextureColorMax
		if opts.Target == TargetSequential {
			colorMax = SequentialColorMax
		}
	}
	attrs, err := Decode(raw, DecodeOptions{ColorMax: colorMax, Workers: opts.Workers, Logger: log})
	if err != nil {
		return nil, nil, fmt.Errorf("decode: %w", err)
	}
	res.DegenerateRotations = attrs.DegenerateRotations
	log.Debug("decoded", "schema", schema, "points", raw.N, "padding", raw.N-res.InputPoints, "took", time.Since(start))

	start = time.Now()
	sortOpts := opts.Sort
	if sortOpts.Logger == nil {
		sortOpts.Logger = log
	}
	var t []float32
	if sortOpts.UseTime && schema.HasTime() {
		t = attrs.TimeCenter
	}
	res.Sort = SpatialOrder(attrs.Position, t, sortOpts)
	attrs = attrs.Permute(res.Sort.Perm)
	log.Debug("sorted", "order", sortOpts.Order, "4d", t != nil, "degenerate", res.Sort.Degenerate, "took", time.Since(start))

	if opts.Analyze {
		st := AnalyzeChunks(attrs.Position)
		res.Stats = &st
	}
	return res, attrs, nil
}

// Convert runs identify, pad, decode, sort and encode on one input.
func Convert(in Input, opts Options) (*Result, error) {
	res, attrs, err := Sorted(in, opts)
	if err != nil {
		return nil, err
	}
	log := pipelineLogger(in, opts)

	start := time.Now()
	switch opts.Target {
	case TargetSequential:
		res.Sequential, err = EncodeSequential(attrs, SequentialOptions{Level: opts.Level, Pad: opts.Pad, Logger: log})
	default:
		res.Texture, err = EncodeTexture(attrs, TextureOptions{Workers: opts.Workers, Logger: log})
	}
	if err != nil {
		return nil, err
	}
	log.Debug("encoded", "target", opts.Target, "took", time.Since(start))
	return res, nil
}

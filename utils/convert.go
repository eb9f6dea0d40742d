package utils

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/voxelsplace/splatpack/api"
	"github.com/voxelsplace/splatpack/splat"
)

var (
	ErrInputNotFound = errors.New("input file/directory does not exist")
	ErrInvalidOutput = errors.New("invalid output path")
)

// ConvertOptions configures RunConvert.
type ConvertOptions struct {
	// Input is a .ply file or a directory holding .ply files.
	Input string
	// Output is a file for file input or an existing directory for
	// directory input. Empty derives it from Input.
	Output string
	// Name overrides the scene name, which defaults to the input base name.
	Name string
	// Quiet runs the conversion without writing anything.
	Quiet bool
	// SaveJSON also writes the glTF JSON to <output>.json.
	SaveJSON    bool
	Compression splat.Compression
	Pipeline    splat.Options
	Logger      *slog.Logger
}

// Job is one planned input/output pair.
type Job struct {
	Input  string
	Output string
	Name   string
}

// Converted reports one finished job.
type Converted struct {
	Job
	Result *splat.Result
	// Path is the file actually written, Output plus any compression
	// suffix. Empty in quiet mode.
	Path    string
	Written int
}

// PlanConvert resolves the input/output pairs without converting.
func PlanConvert(opts ConvertOptions) ([]Job, error) {
	if err := opts.Pipeline.Level.Validate(); err != nil {
		return nil, err
	}
	info, err := os.Stat(opts.Input)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInputNotFound, opts.Input)
	}
	ext := "." + opts.Pipeline.Target.String()

	if info.IsDir() {
		outDir := opts.Output
		if outDir == "" {
			outDir = opts.Input
		}
		st, err := os.Stat(outDir)
		if err != nil {
			return nil, fmt.Errorf("%w: output directory %s does not exist", ErrInvalidOutput, outDir)
		}
		if !st.IsDir() {
			return nil, fmt.Errorf("%w: output path %s should be a directory", ErrInvalidOutput, outDir)
		}
		entries, err := os.ReadDir(opts.Input)
		if err != nil {
			return nil, err
		}
		var jobs []Job
		for _, e := range entries {
			if e.IsDir() || !strings.EqualFold(filepath.Ext(e.Name()), ".ply") {
				continue
			}
			base := strings.TrimSuffix(e.Name(), filepath.Ext(e.Name()))
			jobs = append(jobs, Job{
				Input:  filepath.Join(opts.Input, e.Name()),
				Output: filepath.Join(outDir, base+ext),
				Name:   nameOr(opts.Name, base),
			})
		}
		sort.Slice(jobs, func(i, j int) bool { return jobs[i].Input < jobs[j].Input })
		return jobs, nil
	}

	base := strings.TrimSuffix(filepath.Base(opts.Input), filepath.Ext(opts.Input))
	out := opts.Output
	if out == "" {
		out = strings.TrimSuffix(opts.Input, filepath.Ext(opts.Input)) + ext
	} else {
		if st, err := os.Stat(filepath.Dir(out)); err != nil || !st.IsDir() {
			return nil, fmt.Errorf("%w: output directory %s does not exist", ErrInvalidOutput, filepath.Dir(out))
		}
		if !strings.EqualFold(filepath.Ext(out), ext) {
			return nil, fmt.Errorf("%w: output file %s should end with %s", ErrInvalidOutput, out, ext)
		}
	}
	if !strings.EqualFold(filepath.Ext(opts.Input), ".ply") {
		return nil, nil
	}
	return []Job{{Input: opts.Input, Output: out, Name: nameOr(opts.Name, base)}}, nil
}

func nameOr(name, fallback string) string {
	if name != "" {
		return name
	}
	return fallback
}

// RunConvert converts every planned job in order. A failing file does not
// stop the remaining ones; all failures are returned joined.
func RunConvert(opts ConvertOptions) ([]Converted, error) {
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}
	jobs, err := PlanConvert(opts)
	if err != nil {
		return nil, err
	}
	if len(jobs) == 0 {
		log.Warn("no .ply input found", "input", opts.Input)
	}
	pipeline := opts.Pipeline
	pipeline.Logger = log

	var done []Converted
	var errs []error
	for _, job := range jobs {
		c, err := runJob(job, opts, pipeline, log)
		if err != nil {
			log.Error("conversion failed", "input", job.Input, "err", err)
			errs = append(errs, fmt.Errorf("%s: %w", job.Input, err))
			continue
		}
		done = append(done, *c)
	}
	return done, errors.Join(errs...)
}

func runJob(job Job, opts ConvertOptions, pipeline splat.Options, log *slog.Logger) (*Converted, error) {
	start := time.Now()
	log.Info("converting", "name", job.Name, "input", job.Input, "output", job.Output)
	data, err := os.ReadFile(job.Input)
	if err != nil {
		return nil, err
	}
	out, err := api.Convert(data, job.Name, pipeline)
	if err != nil {
		return nil, err
	}
	c := &Converted{Job: job, Result: out.Result}
	if st := out.Result.Stats; st != nil {
		log.Info("chunk locality", "chunks", st.Chunks, "compact", st.Compact,
			"compact_pct", fmt.Sprintf("%.2f", st.CompactPercent), "max_diameter", st.MaxDiameter, "mean_diameter", st.MeanDiameter)
	}
	if opts.Quiet {
		log.Info("converted (quiet, nothing written)", "points", out.Result.Points, "took", time.Since(start))
		return c, nil
	}

	payload, err := splat.Compress(out.Bytes, opts.Compression)
	if err != nil {
		return nil, err
	}
	c.Path = job.Output + opts.Compression.Extension()
	if err := WriteFileAtomic(c.Path, payload); err != nil {
		return nil, err
	}
	c.Written = len(payload)
	if opts.SaveJSON && out.JSON != nil {
		if err := WriteFileAtomic(job.Output+".json", out.JSON); err != nil {
			return nil, err
		}
	}
	log.Info("converted", "points", out.Result.Points, "bytes", c.Written, "took", time.Since(start))
	return c, nil
}

// WriteAtomic writes through a temp file in the destination directory and
// renames it over path once write succeeds.
func WriteAtomic(path string, write func(f *os.File) error) (err error) {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmp.Name())
		}
	}()
	if err = write(tmp); err != nil {
		return err
	}
	if err = tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}

// WriteFileAtomic is WriteAtomic for a byte slice.
func WriteFileAtomic(path string, data []byte) error {
	return WriteAtomic(path, func(f *os.File) error {
		_, err := f.Write(data)
		return err
	})
}

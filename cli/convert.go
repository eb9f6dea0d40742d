package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/voxelsplace/splatpack/utils"
)

type convertFlags struct {
	input    string
	output   string
	name     string
	order    string
	level    int
	format   string
	pad      bool
	quiet    bool
	json     bool
	compress string
	workers  int
	useTime  bool
	analyze  bool
}

// NewConvertCommand creates the convert command.
func NewConvertCommand(rootOpts *RootOptions) *cobra.Command {
	f := &convertFlags{}
	cmd := &cobra.Command{
		Use:   "convert -i <file|dir>",
		Short: "Convert splat PLY files to GLB or SPB",
		Long: `Convert one .ply file, or every .ply file of a directory.

For a file the output defaults to the input path with the target extension;
an explicit output must end with it and its directory must exist. For a
directory the output must be an existing directory and defaults to the
input directory.

Reorder modes: Morton is fast, Hilbert keeps neighbors closer.
Levels (SPB only): 0 high, 1 medium, 2 low quality.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConvert(cmd, rootOpts, f)
		},
	}

	fl := cmd.Flags()
	fl.StringVarP(&f.input, "input", "i", "", "input file path or directory")
	fl.StringVarP(&f.output, "output", "o", "", "output file path or directory")
	fl.StringVarP(&f.name, "name", "n", "", "scene name (default: input file name)")
	fl.StringVarP(&f.order, "reorder", "r", "Morton", "reorder mode: Morton or Hilbert")
	fl.IntVarP(&f.level, "level", "l", 0, "SPB quality level: 0, 1 or 2")
	fl.StringVarP(&f.format, "format", "f", "glb", "output container: glb or spb")
	fl.BoolVarP(&f.pad, "pad", "p", false, "pad SPB output to its texture size")
	fl.BoolVarP(&f.quiet, "quiet", "q", false, "do not write output files")
	fl.BoolVarP(&f.json, "json", "j", false, "also save the glTF JSON next to the GLB")
	fl.StringVar(&f.compress, "compress", "none", "compress output: none, zlib or zstd")
	fl.IntVar(&f.workers, "workers", 0, "chunk workers (0 = GOMAXPROCS)")
	fl.BoolVar(&f.useTime, "use-time", false, "sort spacetime splats along a 4D curve")
	fl.BoolVar(&f.analyze, "analyze", false, "log chunk locality statistics")
	_ = cmd.MarkFlagRequired("input")

	return cmd
}

func runConvert(cmd *cobra.Command, rootOpts *RootOptions, f *convertFlags) error {
	cfg := rootOpts.Config
	fl := cmd.Flags()
	// flags override the profile only when given
	if fl.Changed("reorder") {
		cfg.Sort.Order = f.order
	}
	if fl.Changed("level") {
		cfg.Level = f.level
	}
	if fl.Changed("format") {
		cfg.Format = f.format
	}
	if fl.Changed("pad") {
		cfg.Pad = f.pad
	}
	if fl.Changed("compress") {
		cfg.Compress = f.compress
	}
	if fl.Changed("workers") {
		cfg.Workers = f.workers
	}
	if fl.Changed("use-time") {
		cfg.Sort.UseTime = f.useTime
	}
	if fl.Changed("analyze") {
		cfg.Analyze = f.analyze
	}

	pipeline, err := cfg.Options(rootOpts.Logger)
	if err != nil {
		return err
	}
	done, err := utils.RunConvert(utils.ConvertOptions{
		Input:       f.input,
		Output:      f.output,
		Name:        f.name,
		Quiet:       f.quiet,
		SaveJSON:    f.json,
		Compression: cfg.Compression(),
		Pipeline:    pipeline,
		Logger:      rootOpts.Logger,
	})
	for _, c := range done {
		if f.quiet {
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %d points (%s)\n", c.Input, c.Result.Points, c.Result.Schema)
			continue
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s -> %s (%d points, %d bytes)\n", c.Input, c.Path, c.Result.Points, c.Written)
	}
	return err
}

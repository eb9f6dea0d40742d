// Package cli wires the splatpack commands.
package cli

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/voxelsplace/splatpack/config"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose    bool
	ConfigPath string

	// set in PersistentPreRunE
	Config config.Config
	Logger *slog.Logger
}

// NewRootCommand creates the splatpack root command.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "splatpack",
		Short: "Gaussian splat PLY to GLB/SPB converter",
		Long: `Convert 3D and 4D (spacetime) Gaussian splat PLY files into
GPU-ready binaries: chunk-quantized GLB textures or sequential SPB buffers.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level := slog.LevelInfo
			if opts.Verbose {
				level = slog.LevelDebug
			}
			opts.Logger = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))

			opts.Config = config.Default()
			if opts.ConfigPath != "" {
				cfg, err := config.Load(opts.ConfigPath)
				if err != nil {
					return err
				}
				opts.Config = cfg
				opts.Logger.Debug("loaded config", "path", opts.ConfigPath)
			}
			return nil
		},
	}

	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "debug logging")
	cmd.PersistentFlags().StringVar(&opts.ConfigPath, "config", "", "YAML conversion profile")

	cmd.AddCommand(NewConvertCommand(opts))
	cmd.AddCommand(NewGenCommand(opts))
	cmd.AddCommand(NewInspectCommand(opts))
	cmd.AddCommand(NewAnalyzeCommand(opts))

	return cmd
}

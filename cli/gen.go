package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/voxelsplace/splatpack/utils"
)

// NewGenCommand creates the gen command.
func NewGenCommand(rootOpts *RootOptions) *cobra.Command {
	var (
		output string
		count  int
		kind   string
		seed   int64
		fill   float64
		amount int
	)
	cmd := &cobra.Command{
		Use:   "gen -o <out.ply|dir> -n <count>",
		Short: "Generate synthetic splat PLY files",
		Long: `Generate random splats scattered over the occupied cells of a 16x16x16
grid. With --amount greater than 1 the output is a directory receiving
0.ply, 1.ply, ...`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if amount > 1 {
				if err := utils.GenerateNoiseSet(kind, count, amount, fill, seed, output); err != nil {
					return err
				}
				rootOpts.Logger.Info("generated", "files", amount, "points", count, "dir", output)
				fmt.Fprintf(cmd.OutOrStdout(), "%d files written to %s\n", amount, output)
				return nil
			}
			if err := utils.GenerateNoisePLY(kind, count, fill, seed, output); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s (%d points)\n", output, count)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output .ply file, or directory with --amount")
	cmd.Flags().IntVarP(&count, "count", "n", 4096, "splats per file")
	cmd.Flags().StringVar(&kind, "kind", "static", "static (ThreeD) or spacetime")
	cmd.Flags().Int64Var(&seed, "seed", 1, "random seed")
	cmd.Flags().Float64Var(&fill, "fill", 10, "percentage of grid cells holding splats")
	cmd.Flags().IntVar(&amount, "amount", 1, "number of files")
	_ = cmd.MarkFlagRequired("output")

	return cmd
}

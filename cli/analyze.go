package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/voxelsplace/splatpack/splat"
	"github.com/voxelsplace/splatpack/utils"
)

// NewAnalyzeCommand creates the analyze command.
func NewAnalyzeCommand(rootOpts *RootOptions) *cobra.Command {
	var (
		input   string
		order   string
		useTime bool
	)
	cmd := &cobra.Command{
		Use:   "analyze -i <file.ply>",
		Short: "Report chunk locality after spatial sorting",
		Long: fmt.Sprintf(`Sort a PLY file along the selected curve and report, per 256-point
chunk, the largest pairwise distance. Chunks below %.3f count as compact.`, splat.CompactThreshold),
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := rootOpts.Config
			if cmd.Flags().Changed("reorder") {
				cfg.Sort.Order = order
			}
			if cmd.Flags().Changed("use-time") {
				cfg.Sort.UseTime = useTime
			}
			opts, err := cfg.Options(rootOpts.Logger)
			if err != nil {
				return err
			}
			res, err := utils.RunAnalyze(input, opts)
			if err != nil {
				return err
			}
			st := res.Stats
			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "schema:        %s\n", res.Schema)
			fmt.Fprintf(w, "points:        %d (%d padded)\n", res.InputPoints, res.Points)
			fmt.Fprintf(w, "order:         %s\n", opts.Sort.Order)
			fmt.Fprintf(w, "chunks:        %d\n", st.Chunks)
			fmt.Fprintf(w, "compact:       %d (%.2f%%)\n", st.Compact, st.CompactPercent)
			fmt.Fprintf(w, "max diameter:  %.4f\n", st.MaxDiameter)
			fmt.Fprintf(w, "mean diameter: %.4f\n", st.MeanDiameter)
			return nil
		},
	}
	cmd.Flags().StringVarP(&input, "input", "i", "", "input .ply file")
	cmd.Flags().StringVarP(&order, "reorder", "r", "Morton", "reorder mode: Morton or Hilbert")
	cmd.Flags().BoolVar(&useTime, "use-time", false, "sort spacetime splats along a 4D curve")
	_ = cmd.MarkFlagRequired("input")
	return cmd
}

package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/voxelsplace/splatpack/api"
	"github.com/voxelsplace/splatpack/utils"
)

// NewInspectCommand creates the inspect command.
func NewInspectCommand(rootOpts *RootOptions) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "inspect <file.glb|file.spb>",
		Short: "Describe a GLB or SPB container",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := utils.RunInspect(args[0])
			if err != nil {
				return err
			}
			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(m)
			}
			writeManifest(cmd.OutOrStdout(), m)
			return nil
		},
	}
	cmd.Flags().BoolVarP(&asJSON, "json", "j", false, "print the manifest as JSON")
	return cmd
}

func writeManifest(w io.Writer, m *api.Manifest) {
	fmt.Fprintf(w, "container: %s (compression %s)\n", m.Container, m.Compression)
	fmt.Fprintf(w, "schema:    %s\n", m.Schema)
	if m.Name != "" {
		fmt.Fprintf(w, "name:      %s\n", m.Name)
	}
	fmt.Fprintf(w, "points:    %d\n", m.Points)
	fmt.Fprintf(w, "quality:   %s\n", m.Quality)
	if m.Container == "spb" {
		fmt.Fprintf(w, "padded:    %t (%d trailing bytes)\n", m.Padded, m.Trailing)
	}
	for _, r := range m.Regions {
		if r.Format != "" {
			fmt.Fprintf(w, "  %-10s %-9s %5dx%-5d %10d  %s\n", r.Name, r.Format, r.Width, r.Height, r.Size, r.XXH64)
			continue
		}
		fmt.Fprintf(w, "  %-24s %10d  %s\n", r.Name, r.Size, r.XXH64)
	}
}

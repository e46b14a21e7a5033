package cli

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/rileyhilliard/rtop/internal/export"
)

// resolveFormat prefers an explicit --format, then the file extension.
func resolveFormat(flag, path string) (export.Format, error) {
	if flag != "" {
		return export.ParseFormat(flag)
	}
	if path == "" || path == "-" {
		return export.FormatJSON, nil
	}
	return export.FormatFromPath(path), nil
}

func newExportCmd(o *options) *cobra.Command {
	var (
		output string
		format string
		top    int
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write a one-off metrics snapshot",
		Long: `Sample every metric twice, half a second apart, and write the result.

Works without a terminal, so it suits cron jobs and scripts.

Examples:
  rtop export
  rtop export -o metrics.json
  rtop export -o metrics.csv
  rtop export -f yaml --top 5`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := resolveFormat(format, output)
			if err != nil {
				return err
			}
			cfg, _, err := o.loadConfig()
			if err != nil {
				return err
			}
			mons, err := buildMonitors(o, cfg)
			if err != nil {
				return err
			}
			if err := export.Sample(cmd.Context(), mons, export.SampleGap, o.log); err != nil {
				return err
			}

			snap := export.Capture(mons, time.Now(), export.NewSessionID(), top)
			if output == "" || output == "-" {
				return export.Write(cmd.OutOrStdout(), snap, f)
			}
			if err := export.WriteFile(output, snap, f); err != nil {
				return err
			}
			cmd.PrintErrf("Wrote %s snapshot to %s (%s)\n", f, output, snap.Summary())
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "-", "file to write, or - for stdout")
	cmd.Flags().StringVarP(&format, "format", "f", "", "json, yaml or csv (default from file extension, else json)")
	cmd.Flags().IntVar(&top, "top", export.DefaultTopProcesses, "number of processes to include")
	return cmd
}

package cli

import (
	"runtime"

	"github.com/spf13/cobra"

	"github.com/rileyhilliard/rtop/internal/config"
	"github.com/rileyhilliard/rtop/internal/doctor"
	"github.com/rileyhilliard/rtop/internal/errors"
	"github.com/rileyhilliard/rtop/internal/exec"
)

func newDoctorCmd(o *options) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Diagnose missing metrics",
		Long: `Check the config file, read every metric source once and look for the
external tools rtop uses (ping, nvidia-smi, rocm-smi).

Warnings mark optional hardware this host does not have. Failures mark
something that should work but does not.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			// A broken config is reported by the checks, so fall back to
			// defaults for probing the sources.
			cfg, _, err := config.LoadOrDefault(o.configPath)
			if err != nil || config.Validate(cfg) != nil {
				cfg = config.DefaultConfig()
			}

			src := o.detect(exec.Local{}, o.log)
			var checks []doctor.Check
			checks = append(checks, doctor.NewConfigChecks(o.configPath, cfg)...)
			checks = append(checks, doctor.NewSourceChecks(src, cfg.Network.PingHosts, cfg.Network.PingTimeout)...)
			checks = append(checks, doctor.NewToolChecks()...)

			results := doctor.Run(cmd.Context(), checks, runtime.NumCPU())
			report := doctor.NewReport(checks, results)
			if asJSON {
				err = report.WriteJSON(cmd.OutOrStdout())
			} else {
				err = report.WriteText(cmd.OutOrStdout())
			}
			if err != nil {
				return err
			}

			if results.Failed() {
				return errors.New(errors.ErrCollect, results.Summary(), "See the failed checks above")
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "output in JSON format")
	return cmd
}

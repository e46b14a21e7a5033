package cli

import (
	"os"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/rileyhilliard/rtop/internal/config"
	"github.com/rileyhilliard/rtop/internal/errors"
)

// confirmPrompt asks a yes/no question on the terminal.
func confirmPrompt(title string) (bool, error) {
	var ok bool
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(title).
				Affirmative("Overwrite").
				Negative("Keep").
				Value(&ok),
		),
	)
	if err := form.Run(); err != nil {
		return false, err
	}
	return ok, nil
}

// configTarget is the file the config commands write: --config if given,
// else the default location.
func (o *options) configTarget() string {
	if o.configPath != "" {
		return config.ExpandTilde(o.configPath)
	}
	return config.DefaultPath()
}

func newShowConfigCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "show-config",
		Short: "Print the effective configuration",
		Long: `Print the configuration rtop would run with: the config file merged over
the defaults, with RTOP_* environment variables applied.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, path, err := o.loadConfig()
			if err != nil {
				return err
			}
			data, err := config.Marshal(cfg)
			if err != nil {
				return err
			}
			source := path
			if source == "" {
				source = "built-in defaults"
			}
			cmd.Printf("# source: %s\n", source)
			cmd.Print(string(data))
			return nil
		},
	}
}

func newInitConfigCmd(o *options) *cobra.Command {
	var force bool
	cmd := &cobra.Command{
		Use:   "init-config",
		Short: "Write a commented default config file",
		Long: `Write the default configuration to ` + config.DefaultPath() + `
(or the --config path). An existing file is kept unless --force is given
or you confirm the overwrite.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return initConfig(cmd, o, force)
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing config file")
	return cmd
}

// initConfig writes the default config, asking before it replaces an
// existing file when a terminal is attached.
func initConfig(cmd *cobra.Command, o *options, force bool) error {
	path := o.configTarget()
	if _, err := os.Stat(path); err == nil && !force && o.isTerminal() {
		ok, err := o.confirm(path + " already exists. Overwrite it?")
		if err != nil {
			return errors.WrapWithCode(err, errors.ErrInput, "Prompt cancelled", "")
		}
		if !ok {
			cmd.Printf("Kept %s\n", path)
			return nil
		}
		force = true
	}

	if err := config.WriteDefault(path, force); err != nil {
		return err
	}
	cmd.Printf("Wrote default config to %s\n", path)
	return nil
}

func newSetConfigCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "set-config <key> <value>",
		Short: "Change one config value",
		Long: `Set a single key in the config file, keeping its comments. The file is
created from the defaults if it does not exist yet. The result is validated
before anything is written.

Examples:
  rtop set-config colors.theme synthwave
  rtop set-config refresh_rates.cpu 500
  rtop set-config network.ping_hosts 9.9.9.9,1.1.1.1`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := o.configTarget()
			if err := config.Set(path, args[0], args[1]); err != nil {
				return err
			}
			cmd.Printf("Set %s = %s in %s\n", args[0], args[1], path)
			return nil
		},
	}
}

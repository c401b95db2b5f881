package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/inkblot/pkg/config"
	"github.com/matzehuels/inkblot/pkg/errors"
)

// configCommand creates the config command.
func (c *CLI) configCommand() *cobra.Command {
	var showPath bool

	cmd := &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration as TOML",
		Long: `Config prints the configuration inkblot would generate with, after applying
the config file, preset and flag overrides. Redirect the output to
~/.config/inkblot/config.toml to start a config file of your own.`,
		Example: `  inkblot config
  inkblot config --preset sparse --blur 2-4 > ~/.config/inkblot/config.toml
  inkblot config --path`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if showPath {
				path, err := config.DefaultPath()
				if err != nil {
					return errors.Wrap(errors.ErrCodeInternal, err, "resolve config path")
				}
				fmt.Fprintln(cmd.OutOrStdout(), path)
				return nil
			}
			cfg, err := c.loadConfig(cmd)
			if err != nil {
				return err
			}
			return cfg.Encode(cmd.OutOrStdout())
		},
	}

	cmd.Flags().BoolVar(&showPath, "path", false, "print the default config file path instead")
	return cmd
}

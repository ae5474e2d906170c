package cli

import (
	"os"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"

	"github.com/rgallet/mandagen/pkg/mandala"
	"github.com/rgallet/mandagen/pkg/preset"
)

// defaultPresetFile is where preset init writes when no path is given.
const defaultPresetFile = appName + ".toml"

// presetCommand creates the preset command group.
func (c *CLI) presetCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "preset",
		Short: "Create and inspect preset files",
	}
	cmd.AddCommand(c.presetInitCommand())
	cmd.AddCommand(c.presetShowCommand())
	return cmd
}

// presetInitCommand writes a preset file holding every default value.
func (c *CLI) presetInitCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "init [path]",
		Short: "Write a preset file with all default values",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := defaultPresetFile
			if len(args) == 1 {
				path = args[0]
			}
			if err := preset.Save(mandala.DefaultConfig(), path); err != nil {
				return err
			}
			printSuccess("preset written to %s", path)
			return nil
		},
	}
}

// presetShowCommand prints the fully resolved config for a preset file.
func (c *CLI) presetShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show <path>",
		Short: "Print the resolved config for a preset file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := preset.Load(args[0])
			if err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				printError("preset is not runnable: %v", err)
			}
			return toml.NewEncoder(os.Stdout).Encode(cfg)
		},
	}
}

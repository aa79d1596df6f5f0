package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/danmuck/sbdp/internal/config"
)

const flagForce = "force"

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage sbdpctl configuration",
}

var configInitCmd = &cobra.Command{
	Use:   "init [path]",
	Short: "Write the default config.toml",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := config.DefaultPath
		if len(args) == 1 {
			path = args[0]
		}
		force, _ := cmd.Flags().GetBool(flagForce)
		written, err := config.WriteTemplate(path, force)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", written)
		return nil
	},
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration as config.toml",
	Long: `Print the configuration sbdpctl would run with: defaults, overlaid with
the file named by --config, then flag overrides.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		return config.Encode(cmd.OutOrStdout(), cfg)
	},
}

func init() {
	configInitCmd.Flags().Bool(flagForce, false, "overwrite an existing file")
	configCmd.AddCommand(configInitCmd, configShowCmd)
	rootCmd.AddCommand(configCmd)
}

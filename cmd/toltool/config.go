// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"

	"toltool/internal/config"
	"toltool/internal/issue"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/cobra"
)

var (
	// configCmd groups configuration management.
	configCmd = &cobra.Command{
		Use:   "config",
		Short: "Manage toltool configuration",
		Long: `Manage the toltool configuration file.

The configuration is optional; every setting has a default. Use these
commands to create, inspect, or locate the file.`,
	}

	// configInitCmd writes a default config file.
	configInitCmd = &cobra.Command{
		Use:   "init",
		Short: "Create a default configuration file",
		Args:  cobra.NoArgs,
		RunE:  runConfigInit,
	}

	// configShowCmd prints the effective configuration.
	configShowCmd = &cobra.Command{
		Use:   "show",
		Short: "Show the effective configuration",
		Args:  cobra.NoArgs,
		RunE:  runConfigShow,
	}

	// configPathCmd prints the config file location.
	configPathCmd = &cobra.Command{
		Use:   "path",
		Short: "Print the configuration file path",
		Args:  cobra.NoArgs,
		RunE:  runConfigPath,
	}
)

func init() {
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configPathCmd)
}

func runConfigInit(cmd *cobra.Command, _ []string) error {
	cmd.SilenceUsage = true

	path, err := config.WriteDefault()
	if err != nil {
		renderIssue(issue.ConfigWriteFailedId)
		return &ExitError{Code: 1, Err: err}
	}
	fmt.Fprintln(cmd.OutOrStdout(), SuccessStyle.Render("Created ")+CmdStyle.Render(path))
	return nil
}

func runConfigShow(cmd *cobra.Command, _ []string) error {
	cmd.SilenceUsage = true

	data, err := toml.Marshal(cfg)
	if err != nil {
		return &ExitError{Code: 1, Err: fmt.Errorf("failed to encode configuration: %w", err)}
	}
	fmt.Fprint(cmd.OutOrStdout(), string(data))
	return nil
}

func runConfigPath(cmd *cobra.Command, _ []string) error {
	cmd.SilenceUsage = true

	path, err := config.FilePath()
	if err != nil {
		return &ExitError{Code: 1, Err: err}
	}
	fmt.Fprintln(cmd.OutOrStdout(), path)
	return nil
}

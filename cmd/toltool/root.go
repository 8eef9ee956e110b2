// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"toltool/internal/config"
	"toltool/internal/issue"

	"github.com/charmbracelet/fang"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

var (
	// Version is the semantic version (set via -ldflags).
	Version = "dev"
	// Commit is the git commit hash (set via -ldflags).
	Commit = "unknown"
	// BuildDate is the build timestamp (set via -ldflags).
	BuildDate = "unknown"

	// verbose enables verbose output
	verbose bool
	// cfgFile allows specifying a custom config file
	cfgFile string

	// cfg is the configuration loaded by initRootConfig.
	cfg *config.Config

	// logger is the process-wide logger; verbosity is applied once the
	// config and flags are known.
	logger = log.NewWithOptions(os.Stderr, log.Options{
		Prefix: "toltool",
	})

	// rootCmd represents the base command when called without any subcommands
	rootCmd = &cobra.Command{
		Use:   "toltool",
		Short: "Unpack LMS bulk submission archives into per-student folders",
		Long: TitleStyle.Render("toltool") + SubtitleStyle.Render(" - bulk submission unpacker") + `

toltool takes the single "download all submissions" archive produced by a
learning-management system and reorganizes it into one plain folder per
student, recovering each file's original name from the export's encoded
entry names. Submissions that are themselves zip files are expanded in
place, and name clashes get deterministic numbered suffixes instead of
overwriting one another.

` + SubtitleStyle.Render("Examples:") + `
  toltool unpack submissions.zip             Unpack next to the archive
  toltool unpack submissions.zip -o graded   Unpack into ./graded
  toltool unpack submissions.zip --merge     Add to a non-empty directory
  toltool config init                        Create a default config file`,
	}
)

func init() {
	cobra.OnInitialize(initRootConfig)

	// Global flags
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.config/toltool/config.toml)")

	// Add subcommands
	rootCmd.AddCommand(unpackCmd)
	rootCmd.AddCommand(configCmd)

	initUnpackCmd()
}

// getVersionString returns a formatted version string for display.
func getVersionString() string {
	if Version == "dev" {
		return "dev (built from source)"
	}
	return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildDate)
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	// Use fang.Execute for enhanced Cobra styling
	if err := fang.Execute(
		context.Background(),
		rootCmd,
		fang.WithVersion(getVersionString()),
		fang.WithNotifySignal(os.Interrupt),
	); err != nil {
		var exitErr *ExitError
		if errors.As(err, &exitErr) {
			os.Exit(exitErr.Code)
		}
		os.Exit(1)
	}
}

// initRootConfig reads the config file and applies global settings.
func initRootConfig() {
	if cfgFile != "" {
		config.SetConfigFilePathOverride(cfgFile)
	}

	loaded, err := config.Load()
	if err != nil {
		// Surface config problems but keep going on defaults; unpacking
		// must not be blocked by a broken config file.
		renderIssue(issue.ConfigLoadFailedId)
		fmt.Fprintln(os.Stderr, WarningStyle.Render("Warning: ")+err.Error())
	}
	cfg = loaded

	if verbose || cfg.UI.Verbose {
		logger.SetLevel(log.DebugLevel)
	}
}

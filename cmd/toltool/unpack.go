// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"fmt"
	"os"

	"toltool/internal/config"
	"toltool/internal/issue"
	"toltool/internal/unpack"
	"toltool/pkg/archive"

	"github.com/spf13/cobra"
)

var (
	// unpackOutput overrides the configured output root.
	unpackOutput string
	// unpackDepth overrides the configured nested-archive depth limit.
	unpackDepth int
	// unpackMerge allows unpacking into a non-empty output root.
	unpackMerge bool

	// unpackCmd unpacks one bulk submission archive.
	unpackCmd = &cobra.Command{
		Use:   "unpack <ZIPFILE>",
		Short: "Unpack a bulk submission archive into per-student folders",
		Long: `Unpack the "download all submissions" archive from an LMS into one
folder per student under the output directory.

Entry names are decoded against the known export conventions to recover
each student's identity and the file's original name. Submissions that
are themselves zip files are expanded into the student's folder. Entries
that cannot be decoded are listed in the final report instead of
aborting the run.

By default the output directory must be empty or absent; pass --merge to
add to an existing tree without overwriting anything.

Examples:
  toltool unpack submissions.zip
  toltool unpack submissions.zip --output ./graded/week3
  toltool unpack submissions.zip --depth 5 --merge`,
		Args: cobra.ExactArgs(1),
		RunE: runUnpack,
	}
)

func initUnpackCmd() {
	unpackCmd.Flags().StringVarP(&unpackOutput, "output", "o", "", "output directory (default from config: \"submissions\")")
	unpackCmd.Flags().IntVar(&unpackDepth, "depth", 0, "nested archive expansion limit (default from config: 3)")
	unpackCmd.Flags().BoolVar(&unpackMerge, "merge", false, "allow a non-empty output directory")
}

func runUnpack(cmd *cobra.Command, args []string) error {
	cmd.SilenceUsage = true

	archivePath := args[0]
	outputRoot := unpackOutput
	if outputRoot == "" {
		outputRoot = cfg.OutputRoot
	}
	depth := unpackDepth
	if !cmd.Flags().Changed("depth") {
		depth = cfg.MaxDepth
	}
	merge := unpackMerge || cfg.OnExisting == config.OnExistingMerge

	if !merge {
		usable, err := unpack.OutputRootUsable(outputRoot)
		if err != nil {
			return &ExitError{Code: 1, Err: err}
		}
		if !usable {
			renderIssue(issue.OutputRootNotEmptyId)
			return &ExitError{Code: 1, Err: fmt.Errorf("output directory %s is not empty", outputRoot)}
		}
	}

	logger.Info("unpacking", "archive", archivePath, "output", outputRoot)

	orchestrator := unpack.New(unpack.Options{
		ArchivePath:   archivePath,
		OutputRoot:    outputRoot,
		MaxDepth:      depth,
		MergeExisting: merge,
		Logger:        logger,
	})

	report, err := orchestrator.Run()
	if err != nil {
		var formatErr *archive.FormatError
		switch {
		case errors.As(err, &formatErr):
			renderIssue(issue.ArchiveUnreadableId)
		case errors.Is(err, unpack.ErrWritesFailing):
			renderIssue(issue.WritesFailingId)
		}
		return &ExitError{Code: 1, Err: err}
	}

	printReport(cmd, outputRoot, report)
	return nil
}

// printReport renders the final run summary: counts, submitters, and the
// skipped entries graders need to handle by hand.
func printReport(cmd *cobra.Command, outputRoot string, report *unpack.Report) {
	out := cmd.OutOrStdout()

	fmt.Fprintln(out, TitleStyle.Render("Unpack complete"))
	fmt.Fprintln(out, SuccessStyle.Render(fmt.Sprintf("  %d file(s) written", report.FilesWritten))+
		SubtitleStyle.Render(fmt.Sprintf(" under %s", outputRoot)))
	fmt.Fprintf(out, "  %d submitter(s): ", report.SubmitterCount())
	for i, id := range report.Submitters() {
		if i > 0 {
			fmt.Fprint(out, ", ")
		}
		fmt.Fprint(out, CmdStyle.Render(string(id)))
	}
	fmt.Fprintln(out)

	if report.CollisionsResolved > 0 {
		fmt.Fprintln(out, WarningStyle.Render(
			fmt.Sprintf("  %d name collision(s) resolved with numbered suffixes", report.CollisionsResolved)))
	}

	if len(report.Skipped) > 0 {
		fmt.Fprintln(out, WarningStyle.Render(fmt.Sprintf("  %d entr(ies) skipped:", len(report.Skipped))))
		for _, skipped := range report.Skipped {
			fmt.Fprintf(out, "    %s %s\n",
				SubtitleStyle.Render("["+string(skipped.Reason)+"]"), skipped.RawName)
		}
	}
}

// renderIssue prints the remediation card for a fatal condition. Rendering
// problems fall back to the raw markdown; the card is best effort.
func renderIssue(id issue.Id) {
	card := issue.Get(id)
	if card == nil {
		return
	}
	rendered, err := card.Render(glamourStyle())
	if err != nil {
		rendered = string(card.MarkdownMsg())
	}
	fmt.Fprintln(os.Stderr, rendered)
}

// glamourStyle picks the markdown style for issue cards.
func glamourStyle() string {
	if os.Getenv("NO_COLOR") != "" {
		return "notty"
	}
	return "dark"
}

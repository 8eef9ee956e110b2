// SPDX-License-Identifier: MPL-2.0

package unpack

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"

	"toltool/pkg/archive"
	"toltool/pkg/decode"
	"toltool/pkg/place"
)

// State tracks the orchestrator's lifecycle.
type State int

const (
	// StateNotStarted is the state before Run is called.
	StateNotStarted State = iota
	// StateReading means entries are being processed.
	StateReading
	// StateFinished means the run completed; per-entry problems, if any,
	// are in the report's skipped list.
	StateFinished
	// StateFailed means the run aborted: the outer archive could not be
	// opened, or write failures turned systemic.
	StateFailed
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateNotStarted:
		return "not started"
	case StateReading:
		return "reading"
	case StateFinished:
		return "finished"
	case StateFailed:
		return "failed"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// DefaultMaxDepth is the nested-archive expansion cap applied when Options
// leaves MaxDepth at zero.
const DefaultMaxDepth = 3

// maxConsecutiveWriteFailures is the point at which write errors stop being
// treated as per-entry problems. One file failing is worth skipping and
// moving on; several in a row means the disk is full or the root is not
// writable, and silently skipping the rest of the archive would help nobody.
const maxConsecutiveWriteFailures = 3

// ErrWritesFailing is returned when the run aborts due to systemic write
// failures.
var ErrWritesFailing = errors.New("aborting: destination writes are failing repeatedly")

// Options configures one run.
type Options struct {
	// ArchivePath is the bulk archive to unpack.
	ArchivePath string
	// OutputRoot is where submitter folders are created.
	OutputRoot string
	// MaxDepth caps nested-archive expansion; zero means DefaultMaxDepth.
	MaxDepth int
	// MergeExisting makes the planner treat files already on disk as
	// collisions instead of the run refusing a non-empty root. The refusal
	// itself is the CLI's call; the orchestrator only adjusts planning.
	MergeExisting bool
	// Matchers overrides the decoder's strategy list; nil means the default
	// set. The metadata catalog, when non-empty, is always consulted first.
	Matchers []decode.Matcher
	// Logger receives progress output; nil means the default logger.
	Logger *log.Logger
}

// Orchestrator runs one bulk archive through decode, expansion, planning and
// writing. Entries are processed strictly in archive order; collision
// numbering depends on it.
type Orchestrator struct {
	opts   Options
	logger *log.Logger
	state  State
	report *Report

	planner            *place.Planner
	decoder            *decode.Decoder
	badMetadata        map[string]error
	writeFailureStreak int
}

// New returns an orchestrator in StateNotStarted.
func New(opts Options) *Orchestrator {
	if opts.MaxDepth <= 0 {
		opts.MaxDepth = DefaultMaxDepth
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	return &Orchestrator{
		opts:        opts,
		logger:      logger,
		state:       StateNotStarted,
		report:      NewReport(),
		badMetadata: map[string]error{},
	}
}

// State returns the current lifecycle state.
func (o *Orchestrator) State() State {
	return o.state
}

// Report returns the run's report. It is only final once State is
// StateFinished.
func (o *Orchestrator) Report() *Report {
	return o.report
}

// Run processes the archive. A nil error means the run reached StateFinished;
// the report may still list skipped entries. A non-nil error means
// StateFailed: either the outer archive could not be opened (an
// *archive.FormatError) or writes failed systemically (ErrWritesFailing).
func (o *Orchestrator) Run() (*Report, error) {
	reader, err := archive.OpenPath(o.opts.ArchivePath)
	if err != nil {
		o.state = StateFailed
		return nil, err
	}

	root, err := filepath.Abs(o.opts.OutputRoot)
	if err != nil {
		o.state = StateFailed
		return nil, fmt.Errorf("failed to resolve output root: %w", err)
	}

	o.state = StateReading

	catalog := o.buildCatalog(reader)
	matchers := o.opts.Matchers
	if matchers == nil {
		matchers = decode.DefaultMatchers()
	}
	if catalog.Len() > 0 {
		matchers = append([]decode.Matcher{catalog}, matchers...)
	}
	o.decoder = decode.NewDecoder(matchers...)
	o.planner = place.NewPlanner(root, o.opts.MergeExisting)

	if err := reader.ForEach(o.processEntry); err != nil {
		o.state = StateFailed
		return nil, err
	}

	o.state = StateFinished
	o.logger.Info("unpack finished",
		"written", o.report.FilesWritten,
		"submitters", o.report.SubmitterCount(),
		"skipped", len(o.report.Skipped))
	return o.report, nil
}

// buildCatalog runs the classification pre-pass, parsing every metadata file
// in the archive. Parse failures are remembered so the main pass records
// them once, with the right reason.
func (o *Orchestrator) buildCatalog(reader *archive.Reader) *decode.Catalog {
	catalog := decode.NewCatalog()
	err := reader.ForEach(func(entry archive.Entry) error {
		if !decode.IsMetadataName(entry.Name) {
			return nil
		}
		data, err := entry.Bytes()
		if err != nil {
			o.badMetadata[entry.Name] = err
			return nil
		}
		meta, err := decode.ParseMetadata(entry.Name, string(data))
		if err != nil {
			o.badMetadata[entry.Name] = err
			return nil
		}
		catalog.Add(meta)
		return nil
	})
	if err != nil {
		// The reader opened once already; a second-pass failure is unlikely
		// and only costs the catalog, not the run.
		o.logger.Warn("metadata pre-pass failed", "err", err)
	}

	for _, id := range catalog.EmptySubmitters() {
		o.logger.Warn("submitter has zero submitted files", "submitter", id)
	}
	return catalog
}

// processEntry handles one top-level entry. Per-entry problems are recorded
// in the report and never abort the run; only a systemic write failure
// returns an error.
func (o *Orchestrator) processEntry(entry archive.Entry) error {
	decoded, err := o.decoder.Decode(entry.Name)
	if err != nil {
		var unrecognized *decode.UnrecognizedNameError
		if errors.As(err, &unrecognized) {
			o.logger.Warn("skipping unrecognized entry", "entry", entry.Name)
			o.report.addSkip(entry.Name, ReasonUnrecognizedName, err)
			return nil
		}
		return err
	}

	if decoded.Metadata {
		if parseErr, bad := o.badMetadata[entry.Name]; bad {
			o.logger.Warn("skipping malformed metadata file", "entry", entry.Name, "err", parseErr)
			o.report.addSkip(entry.Name, ReasonBadMetadata, parseErr)
		} else {
			o.report.addSkip(entry.Name, ReasonSubmissionMetadata, nil)
		}
		return nil
	}

	data, err := entry.Bytes()
	if err != nil {
		o.logger.Warn("skipping unreadable entry", "entry", entry.Name, "err", err)
		o.report.addSkip(entry.Name, ReasonEntryUnreadable, err)
		return nil
	}

	if len(decoded.Path) > 0 && archive.IsArchiveName(decoded.Path[len(decoded.Path)-1]) {
		return o.expandNested(entry.Name, decoded, data)
	}
	return o.place(entry.Name, decoded.Submitter, decoded.Path, data)
}

// expandNested unpacks a submission that is itself an archive. Inner files
// inherit the outer submitter and land where the archive itself would have,
// minus the archive file name.
func (o *Orchestrator) expandNested(rawName string, decoded *decode.DecodedName, data []byte) error {
	baseDir := decoded.Path[:len(decoded.Path)-1]

	err := archive.Expand(rawName, data, o.opts.MaxDepth,
		func(inner archive.NestedFile) error {
			relPath := append(append([]string{}, baseDir...), strings.Split(inner.Path, "/")...)
			return o.place(rawName+"!"+inner.Path, decoded.Submitter, relPath, inner.Data)
		},
		func(name string, err error) {
			reason := classifyNestedSkip(err)
			o.logger.Warn("skipping nested entry", "entry", name, "err", err)
			o.report.addSkip(rawName+"!"+name, reason, err)
		})
	if err != nil {
		var corrupt *archive.NestedCorruptError
		if errors.As(err, &corrupt) {
			o.logger.Warn("skipping corrupt nested archive", "entry", rawName, "err", err)
			o.report.addSkip(rawName, ReasonNestedArchiveCorrupt, err)
			return nil
		}
		return err
	}
	return nil
}

func classifyNestedSkip(err error) SkipReason {
	var depth *archive.DepthExceededError
	if errors.As(err, &depth) {
		return ReasonDepthExceeded
	}
	var corrupt *archive.NestedCorruptError
	if errors.As(err, &corrupt) {
		return ReasonNestedArchiveCorrupt
	}
	return ReasonEntryUnreadable
}

// place plans and writes one decoded file.
func (o *Orchestrator) place(rawName string, submitter decode.SubmitterID, relPath []string, data []byte) error {
	decision, err := o.planner.Plan(submitter, relPath)
	if err != nil {
		o.logger.Warn("rejecting traversal attempt", "entry", rawName)
		o.report.addSkip(rawName, ReasonPathTraversal, err)
		return nil
	}

	if err := writeFileAtomic(decision.Path, data); err != nil {
		o.writeFailureStreak++
		o.logger.Error("write failed", "entry", rawName, "dest", decision.Path, "err", err)
		o.report.addSkip(rawName, ReasonWriteError, err)
		if o.writeFailureStreak >= maxConsecutiveWriteFailures {
			return fmt.Errorf("%w: last error: %v", ErrWritesFailing, err)
		}
		return nil
	}
	o.writeFailureStreak = 0

	o.logger.Debug("extracted", "entry", rawName, "dest", decision.Path)
	o.report.FilesWritten++
	o.report.addSubmitter(submitter)
	if decision.CollisionResolved {
		o.report.CollisionsResolved++
	}
	return nil
}

// OutputRootUsable reports whether root is empty or absent. The CLI refuses
// to unpack into a non-empty root unless merging was requested.
func OutputRootUsable(root string) (bool, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		if os.IsNotExist(err) {
			return true, nil
		}
		return false, fmt.Errorf("failed to inspect output root %s: %w", root, err)
	}
	return len(entries) == 0, nil
}

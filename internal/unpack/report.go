// SPDX-License-Identifier: MPL-2.0

package unpack

import (
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"

	"toltool/pkg/decode"
)

// SkipReason classifies why an entry was not written.
type SkipReason string

const (
	// ReasonUnrecognizedName marks entries whose name matched no known
	// export convention.
	ReasonUnrecognizedName SkipReason = "UnrecognizedNameError"
	// ReasonNestedArchiveCorrupt marks nested submission archives that
	// failed to open.
	ReasonNestedArchiveCorrupt SkipReason = "NestedArchiveCorrupt"
	// ReasonDepthExceeded marks archives nested beyond the depth limit.
	ReasonDepthExceeded SkipReason = "NestedDepthExceeded"
	// ReasonPathTraversal marks entries whose decoded path would escape the
	// output root.
	ReasonPathTraversal SkipReason = "PathTraversalRejected"
	// ReasonWriteError marks entries whose destination write failed.
	ReasonWriteError SkipReason = "WriteIOError"
	// ReasonEntryUnreadable marks entries whose content could not be read
	// out of the container.
	ReasonEntryUnreadable SkipReason = "EntryUnreadable"
	// ReasonSubmissionMetadata marks metadata files consumed to build the
	// submitter catalog; they describe submissions and are never written.
	ReasonSubmissionMetadata SkipReason = "SubmissionMetadata"
	// ReasonBadMetadata marks metadata files whose body failed to parse.
	ReasonBadMetadata SkipReason = "MetadataError"
)

// SkippedEntry records one entry that was not written, with enough context
// for the grader to handle it by hand.
type SkippedEntry struct {
	// RawName is the entry name as stored in the bulk archive (for files
	// inside nested archives, joined with the nesting path).
	RawName string
	// Reason classifies the skip.
	Reason SkipReason
	// Detail is the underlying error text, when there is one.
	Detail string
}

// Report accumulates the outcome of one run. It is created empty when the
// run starts, mutated strictly in entry order, and final once the
// orchestrator reaches Finished.
type Report struct {
	// FilesWritten counts files placed under the output root.
	FilesWritten int
	// CollisionsResolved counts files that needed a numbered suffix.
	CollisionsResolved int
	// Skipped lists entries that were not written, in archive order.
	Skipped []SkippedEntry

	submitters map[decode.SubmitterID]struct{}
}

// NewReport returns an empty report.
func NewReport() *Report {
	return &Report{submitters: map[decode.SubmitterID]struct{}{}}
}

func (r *Report) addSubmitter(id decode.SubmitterID) {
	r.submitters[id] = struct{}{}
}

func (r *Report) addSkip(rawName string, reason SkipReason, err error) {
	entry := SkippedEntry{RawName: rawName, Reason: reason}
	if err != nil {
		entry.Detail = err.Error()
	}
	r.Skipped = append(r.Skipped, entry)
}

// Submitters returns every submitter that had at least one file written,
// sorted for stable output.
func (r *Report) Submitters() []decode.SubmitterID {
	ids := maps.Keys(r.submitters)
	slices.Sort(ids)
	return ids
}

// SubmitterCount returns the number of distinct submitters seen.
func (r *Report) SubmitterCount() int {
	return len(r.submitters)
}

// SPDX-License-Identifier: MPL-2.0

package place

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"toltool/pkg/decode"
)

// TraversalError indicates a decoded relative path that would escape the
// output root, e.g. via "../" segments in a crafted archive entry. The entry
// is never written.
type TraversalError struct {
	// Submitter is the entry's decoded submitter.
	Submitter decode.SubmitterID
	// Path is the offending relative path, slash-joined.
	Path string
}

// Error implements the error interface.
func (e *TraversalError) Error() string {
	return fmt.Sprintf("path %s of submitter %s escapes the output root", e.Path, e.Submitter)
}

// Decision is the planner's verdict for one decoded file.
type Decision struct {
	// Path is the absolute destination under the output root.
	Path string
	// CollisionResolved is true when Path carries a " (N)" suffix because an
	// earlier entry (or, in merge mode, a pre-existing file) already claimed
	// the natural destination.
	CollisionResolved bool
}

// Planner computes destinations below one output root. It remembers every
// path it has handed out in the current run, so two entries decoding to the
// same destination never overwrite one another. Not safe for concurrent use;
// collision numbering depends on call order.
type Planner struct {
	root      string
	checkDisk bool
	claimed   map[string]bool
}

// NewPlanner returns a planner rooted at root. root must already be
// absolute; the orchestrator resolves it once per run. When checkDisk is
// true (merge mode) a file already present on disk also counts as a
// collision, so nothing from a previous run is clobbered.
func NewPlanner(root string, checkDisk bool) *Planner {
	return &Planner{
		root:      root,
		checkDisk: checkDisk,
		claimed:   map[string]bool{},
	}
}

// Plan decides the destination for one decoded file.
func (p *Planner) Plan(submitter decode.SubmitterID, relPath []string) (Decision, error) {
	segments := append([]string{SanitizeSubmitter(submitter)}, relPath...)
	dest := filepath.Join(p.root, filepath.Join(segments...))

	// Reject escapes before collision handling. filepath.Join cleans ".."
	// segments, so compare the cleaned result against the root the same way
	// extraction tools guard zip slips.
	rel, err := filepath.Rel(p.root, dest)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) || rel == "." {
		return Decision{}, &TraversalError{Submitter: submitter, Path: strings.Join(relPath, "/")}
	}

	resolved := false
	candidate := dest
	for n := 2; p.taken(candidate); n++ {
		candidate = numberedVariant(dest, n)
		resolved = true
	}
	p.claimed[candidate] = true

	return Decision{Path: candidate, CollisionResolved: resolved}, nil
}

func (p *Planner) taken(path string) bool {
	if p.claimed[path] {
		return true
	}
	if p.checkDisk {
		if _, err := os.Stat(path); err == nil {
			return true
		}
	}
	return false
}

// numberedVariant inserts the collision counter before the extension:
// "main.py" becomes "main (2).py", "archive.tar" becomes "archive (2).tar".
func numberedVariant(path string, n int) string {
	ext := filepath.Ext(path)
	if ext == filepath.Base(path) {
		// Dotfiles like ".gitignore" have no real extension.
		ext = ""
	}
	base := strings.TrimSuffix(path, ext)
	return fmt.Sprintf("%s (%d)%s", base, n, ext)
}

// SPDX-License-Identifier: MPL-2.0

package decode

import (
	"fmt"
	"strings"
)

// SubmitterID identifies one submitter. Equality defines grouping: every
// decoded name carrying the same SubmitterID lands in the same output folder.
type SubmitterID string

// DecodedName is the result of decoding one raw entry name: who submitted it
// and the file's original path relative to that submitter's folder.
type DecodedName struct {
	// Submitter is the recovered identity.
	Submitter SubmitterID
	// Path is the original relative path, one segment per element.
	Path []string
	// Metadata marks names that describe a submission rather than belong to
	// it; such entries are consumed by the caller, not written out.
	Metadata bool
}

// UnrecognizedNameError indicates that no matcher recognized a raw entry
// name. It carries the name so the caller can record the entry as skipped.
type UnrecognizedNameError struct {
	RawName string
}

// Error implements the error interface.
func (e *UnrecognizedNameError) Error() string {
	return fmt.Sprintf("entry name matches no known export convention: %s", e.RawName)
}

// Matcher is one naming-convention strategy. Match returns the decoded name
// and true when it recognizes rawName, and (nil, false) otherwise. Matchers
// are pure: the same input decodes identically on every run.
type Matcher interface {
	Match(rawName string) (*DecodedName, bool)
}

// Decoder tries an ordered list of matchers until one succeeds.
type Decoder struct {
	matchers []Matcher
}

// NewDecoder builds a decoder over the given strategies, tried in order.
// With no arguments it uses DefaultMatchers.
func NewDecoder(matchers ...Matcher) *Decoder {
	if len(matchers) == 0 {
		matchers = DefaultMatchers()
	}
	return &Decoder{matchers: matchers}
}

// Decode decodes one raw entry name, returning an UnrecognizedNameError when
// no strategy matches.
func (d *Decoder) Decode(rawName string) (*DecodedName, error) {
	for _, m := range d.matchers {
		if decoded, ok := m.Match(rawName); ok {
			return decoded, nil
		}
	}
	return nil, &UnrecognizedNameError{RawName: rawName}
}

// splitPath splits a forward-slash entry path into segments, dropping empty
// segments produced by doubled or trailing slashes.
func splitPath(p string) []string {
	var segments []string
	for _, seg := range strings.Split(p, "/") {
		if seg != "" {
			segments = append(segments, seg)
		}
	}
	return segments
}

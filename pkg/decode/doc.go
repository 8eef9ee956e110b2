// SPDX-License-Identifier: MPL-2.0

// Package decode recovers submitter identity and original filenames from the
// encoded entry names found in LMS bulk-export archives.
//
// Export naming conventions vary by LMS and by export shape (flat vs one
// subfolder per student), so decoding is an ordered list of independent
// Matcher strategies tried in sequence. New conventions are added by
// implementing Matcher and prepending it to the list; existing matchers and
// callers are never touched. A name no strategy recognizes yields an
// UnrecognizedNameError so the caller can report it instead of guessing a
// decomposition.
//
// Blackboard-style exports additionally ship a metadata text file per
// attempt; Catalog parses those and acts as the highest-priority matcher.
package decode

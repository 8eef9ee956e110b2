// SPDX-License-Identifier: MPL-2.0

package decode

import "regexp"

// DefaultMatchers returns the built-in strategies in priority order:
// metadata file names first (so they are never reported as unrecognized),
// then the flat bulk-export convention, the Moodle convention, and finally
// the one-subfolder-per-student convention.
func DefaultMatchers() []Matcher {
	return []Matcher{
		MetadataNameMatcher{},
		BulkExportMatcher{},
		MoodleExportMatcher{},
		StudentFolderMatcher{},
	}
}

// bulkExportRegex matches the flat export convention
// <SubmitterDisplayName>_<SubmissionId>_<Timestamp>_<OriginalFileName>.
// The display name may itself contain underscores, so it matches lazily and
// the digit-only submission id anchors the split. The timestamp is either
// compact (20230101, optionally with a time part) or dash separated.
var bulkExportRegex = regexp.MustCompile(
	`^(.+?)_(\d{3,})_(\d{8}(?:\d{6})?|\d{4}-\d{2}-\d{2}(?:-\d{2}-\d{2}-\d{2})?)_(.+)$`)

// BulkExportMatcher decodes the flat bulk-export convention.
type BulkExportMatcher struct{}

// Match implements Matcher.
func (BulkExportMatcher) Match(rawName string) (*DecodedName, bool) {
	m := bulkExportRegex.FindStringSubmatch(rawName)
	if m == nil {
		return nil, false
	}
	return &DecodedName{
		Submitter: SubmitterID(m[1]),
		Path:      splitPath(m[4]),
	}, true
}

// moodleExportRegex matches the Moodle assignment export convention
// <FullName>_<Id>_assignsubmission_file_<FileName> (and the onlinetext
// variant). Moodle may place the payload in a subfolder after the marker.
var moodleExportRegex = regexp.MustCompile(
	`^(.+?)_(\d+)_assign(?:submission|feedback)_(?:file|onlinetext)_?/?(.+)$`)

// MoodleExportMatcher decodes Moodle bulk-export names.
type MoodleExportMatcher struct{}

// Match implements Matcher.
func (MoodleExportMatcher) Match(rawName string) (*DecodedName, bool) {
	m := moodleExportRegex.FindStringSubmatch(rawName)
	if m == nil {
		return nil, false
	}
	return &DecodedName{
		Submitter: SubmitterID(m[1]),
		Path:      splitPath(m[3]),
	}, true
}

// studentFolderRegex matches exports with one subfolder per student:
// <Name>_<Id>/<relative/path...>.
var studentFolderRegex = regexp.MustCompile(`^([^/]+?)_(\d+)/(.+)$`)

// StudentFolderMatcher decodes per-student-subfolder exports.
type StudentFolderMatcher struct{}

// Match implements Matcher.
func (StudentFolderMatcher) Match(rawName string) (*DecodedName, bool) {
	m := studentFolderRegex.FindStringSubmatch(rawName)
	if m == nil {
		return nil, false
	}
	return &DecodedName{
		Submitter: SubmitterID(m[1]),
		Path:      splitPath(m[3]),
	}, true
}

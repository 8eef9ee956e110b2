// SPDX-License-Identifier: MPL-2.0

package decode

import (
	"fmt"
	"regexp"
	"strings"
)

// Blackboard-style exports write one metadata text file per attempt. The
// labels appear in the export's locale; English and Dutch are the ones these
// exports use.
var (
	metadataNameRegex = regexp.MustCompile(
		`^.*_q\d{7}_(?:poging|attempt)_\d{4}-\d{2}-\d{2}-\d{2}-\d{2}-\d{2}\.txt$`)
	metadataOwnerRegex    = regexp.MustCompile(`(?:Name|Naam): (.*) \((q\d+)\)`)
	metadataOriginalRegex = regexp.MustCompile(`^\s+(?:Oorspronkelijke bestandsnaam|Original filename): (.*)$`)
	metadataStoredRegex   = regexp.MustCompile(`^\s+(?:Bestandsnaam|Filename): (.*)$`)
)

// MetadataError indicates a metadata file whose body could not be parsed.
// The file is recorded as skipped; decoding of its sibling entries falls
// back to the name-pattern matchers.
type MetadataError struct {
	// RawName is the metadata file's entry name.
	RawName string
	// Reason describes what was missing or malformed.
	Reason string
}

// Error implements the error interface.
func (e *MetadataError) Error() string {
	return fmt.Sprintf("failed to parse submission metadata %s: %s", e.RawName, e.Reason)
}

// MetadataNameMatcher recognizes metadata file names. It decodes them to a
// Metadata-flagged result so the caller consumes them instead of either
// writing them out or reporting them as unrecognized.
type MetadataNameMatcher struct{}

// Match implements Matcher.
func (MetadataNameMatcher) Match(rawName string) (*DecodedName, bool) {
	if !metadataNameRegex.MatchString(rawName) {
		return nil, false
	}
	return &DecodedName{Metadata: true}, true
}

// IsMetadataName reports whether rawName is a submission metadata file.
func IsMetadataName(rawName string) bool {
	return metadataNameRegex.MatchString(rawName)
}

// Metadata is one parsed submission metadata file: the submitter's display
// name and id, and the mapping from names as stored in the bulk archive to
// the names the student originally uploaded.
type Metadata struct {
	// DisplayName is the submitter's human-readable name.
	DisplayName string
	// QID is the submitter's account identifier.
	QID string
	// StoredToOriginal maps archive-stored file names to original upload
	// names, in the order the metadata lists them.
	StoredToOriginal map[string]string
}

// ParseMetadata parses one metadata file body. rawName is only used for
// error context.
func ParseMetadata(rawName, body string) (*Metadata, error) {
	owner := metadataOwnerRegex.FindStringSubmatch(body)
	if owner == nil {
		return nil, &MetadataError{RawName: rawName, Reason: "no submitter name line"}
	}

	meta := &Metadata{
		DisplayName:      owner[1],
		QID:              owner[2],
		StoredToOriginal: map[string]string{},
	}

	original := ""
	for _, line := range splitLines(body) {
		if m := metadataOriginalRegex.FindStringSubmatch(line); m != nil {
			original = m[1]
			continue
		}
		if m := metadataStoredRegex.FindStringSubmatch(line); m != nil {
			stored := m[1]
			if original == "" {
				// Stored name without a preceding original-name line; keep
				// the stored name so the file still lands somewhere sane.
				meta.StoredToOriginal[stored] = stored
				continue
			}
			meta.StoredToOriginal[stored] = original
		}
	}

	return meta, nil
}

// Catalog aggregates parsed metadata files and resolves archive-stored entry
// names to (submitter, original name). It is built in a pre-pass over the
// bulk archive and consulted before any name-pattern matcher.
type Catalog struct {
	byStoredName map[string]*DecodedName
	submitters   map[SubmitterID]int
}

// NewCatalog returns an empty catalog.
func NewCatalog() *Catalog {
	return &Catalog{
		byStoredName: map[string]*DecodedName{},
		submitters:   map[SubmitterID]int{},
	}
}

// Add registers one parsed metadata file. The submitter directory name is
// the slug of the display name, matching how graders know their students.
func (c *Catalog) Add(meta *Metadata) {
	id := SubmitterID(Slug(meta.DisplayName))
	if _, seen := c.submitters[id]; !seen {
		c.submitters[id] = 0
	}
	for stored, original := range meta.StoredToOriginal {
		c.byStoredName[stored] = &DecodedName{
			Submitter: id,
			Path:      splitPath(original),
		}
		c.submitters[id]++
	}
}

// Match implements Matcher by exact stored-name lookup.
func (c *Catalog) Match(rawName string) (*DecodedName, bool) {
	decoded, ok := c.byStoredName[rawName]
	if !ok {
		return nil, false
	}
	clone := *decoded
	return &clone, true
}

// Len returns the number of stored names the catalog can resolve.
func (c *Catalog) Len() int {
	return len(c.byStoredName)
}

// EmptySubmitters returns the submitters whose metadata listed no files,
// in no particular order. The caller warns about them: an attempt with zero
// submitted files usually means the student uploaded nothing.
func (c *Catalog) EmptySubmitters() []SubmitterID {
	var empty []SubmitterID
	for id, n := range c.submitters {
		if n == 0 {
			empty = append(empty, id)
		}
	}
	return empty
}

func splitLines(s string) []string {
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSuffix(line, "\r")
	}
	return lines
}

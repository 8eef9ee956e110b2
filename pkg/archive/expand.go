// SPDX-License-Identifier: MPL-2.0

package archive

import (
	"fmt"
	"strings"
)

// NestedCorruptError indicates that an entry named like an archive could not
// be opened as one. A single corrupt submission must not abort the whole run,
// so callers record the entry as skipped and continue with its siblings.
type NestedCorruptError struct {
	// Name is the entry name of the archive that failed to open.
	Name string
	// Err is the underlying open error.
	Err error
}

// Error implements the error interface.
func (e *NestedCorruptError) Error() string {
	return fmt.Sprintf("failed to open nested archive %s: %v", e.Name, e.Err)
}

// Unwrap returns the underlying error for use with errors.Is/As.
func (e *NestedCorruptError) Unwrap() error {
	return e.Err
}

// DepthExceededError indicates that an archive entry sits beyond the
// configured nesting depth and was not expanded.
type DepthExceededError struct {
	// Name is the entry name of the archive that was not expanded.
	Name string
	// MaxDepth is the configured cap.
	MaxDepth int
}

// Error implements the error interface.
func (e *DepthExceededError) Error() string {
	return fmt.Sprintf("nested archive %s exceeds depth limit %d", e.Name, e.MaxDepth)
}

// NestedFile is one plain file recovered from inside a nested archive. Path
// is the file's own forward-slash path relative to the archive it came from,
// joined across nesting levels.
type NestedFile struct {
	Path string
	Data []byte
}

// Expand opens data as an archive and walks it recursively. Plain files are
// delivered to emit; inner entries that are themselves archives are expanded
// in place up to maxDepth levels of nesting, counting data as level one.
//
// Recoverable problems inside the tree (a corrupt inner archive, or an
// archive past the depth cap) are reported through skip and do not stop the
// walk. Only a corrupt outermost archive, or an error returned by emit, ends
// the walk: the former as a NestedCorruptError named after name, the latter
// propagated unchanged.
func Expand(name string, data []byte, maxDepth int, emit func(NestedFile) error, skip func(name string, err error)) error {
	reader, err := OpenBytes(data)
	if err != nil {
		return &NestedCorruptError{Name: name, Err: err}
	}
	return expand(reader, "", 1, maxDepth, emit, skip)
}

// stripArchiveExt removes a recognized archive extension from name, so that
// a doubly nested "inner.zip" expands under a directory called "inner".
func stripArchiveExt(name string) string {
	lower := strings.ToLower(name)
	for _, ext := range archiveExtensions {
		if strings.HasSuffix(lower, ext) {
			return name[:len(name)-len(ext)]
		}
	}
	return name
}

// expand walks one archive level. The depth cap is threaded explicitly so
// that it holds no matter how deep a crafted archive nests.
func expand(reader *Reader, prefix string, depth, maxDepth int, emit func(NestedFile) error, skip func(name string, err error)) error {
	return reader.ForEach(func(entry Entry) error {
		path := entry.Name
		if prefix != "" {
			path = prefix + "/" + entry.Name
		}

		if !IsArchiveName(entry.Name) {
			data, err := entry.Bytes()
			if err != nil {
				skip(path, err)
				return nil
			}
			return emit(NestedFile{Path: path, Data: data})
		}

		if depth >= maxDepth {
			skip(path, &DepthExceededError{Name: path, MaxDepth: maxDepth})
			return nil
		}

		data, err := entry.Bytes()
		if err != nil {
			skip(path, err)
			return nil
		}
		inner, err := OpenBytes(data)
		if err != nil {
			skip(path, &NestedCorruptError{Name: path, Err: err})
			return nil
		}
		return expand(inner, stripArchiveExt(path), depth+1, maxDepth, emit, skip)
	})
}

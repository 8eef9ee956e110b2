// SPDX-License-Identifier: MPL-2.0

package archive

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"
)

// FormatError indicates that a source could not be opened as a supported
// archive container. For the outer bulk archive this is fatal; for nested
// archives callers recover and record the entry as skipped.
type FormatError struct {
	// Source describes where the bytes came from (a path, or "<memory>").
	Source string
	// Err is the underlying container error.
	Err error
}

// Error implements the error interface.
func (e *FormatError) Error() string {
	return fmt.Sprintf("failed to open archive: %s: %v", e.Source, e.Err)
}

// Unwrap returns the underlying error for use with errors.Is/As.
func (e *FormatError) Unwrap() error {
	return e.Err
}

// Entry is one file entry inside an archive. Its content is read lazily via
// Bytes so that iterating a large bulk archive does not buffer every
// submission at once.
type Entry struct {
	// Name is the raw entry name exactly as stored in the container,
	// forward-slash separated.
	Name string
	// Size is the uncompressed size in bytes.
	Size int64

	file *zip.File
}

// Bytes reads and returns the entry's full content.
func (e Entry) Bytes() ([]byte, error) {
	rc, err := e.file.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open entry %s: %w", e.Name, err)
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("failed to read entry %s: %w", e.Name, err)
	}
	return data, nil
}

// Reader iterates the file entries of one archive. Directory entries are not
// yielded; they carry no content and the destination tree is created on
// demand during extraction. Iteration order is the container's own entry
// order and is stable across passes.
type Reader struct {
	source string
	open   func() (*zip.Reader, io.Closer, error)
}

// OpenPath opens the archive at path. It validates the container format
// eagerly so that an unreadable outer archive fails before any work starts.
func OpenPath(path string) (*Reader, error) {
	r := &Reader{
		source: path,
		open: func() (*zip.Reader, io.Closer, error) {
			f, err := os.Open(path)
			if err != nil {
				return nil, nil, err
			}
			info, err := f.Stat()
			if err != nil {
				f.Close()
				return nil, nil, err
			}
			zr, err := zip.NewReader(f, info.Size())
			if err != nil {
				f.Close()
				return nil, nil, err
			}
			return zr, f, nil
		},
	}
	if err := r.validate(); err != nil {
		return nil, err
	}
	return r, nil
}

// OpenBytes opens an in-memory archive, typically the content of a nested
// submission entry.
func OpenBytes(data []byte) (*Reader, error) {
	r := &Reader{
		source: "<memory>",
		open: func() (*zip.Reader, io.Closer, error) {
			zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
			if err != nil {
				return nil, nil, err
			}
			return zr, nopCloser{}, nil
		},
	}
	if err := r.validate(); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *Reader) validate() error {
	zr, closer, err := r.open()
	if err != nil {
		return &FormatError{Source: r.source, Err: err}
	}
	_ = zr
	return closer.Close()
}

// ForEach calls fn for every file entry in order. Each call re-opens the
// container, so ForEach may be invoked multiple times on the same Reader.
// Iteration stops at the first error returned by fn, which is propagated
// unchanged to the caller.
func (r *Reader) ForEach(fn func(Entry) error) error {
	zr, closer, err := r.open()
	if err != nil {
		return &FormatError{Source: r.source, Err: err}
	}
	defer closer.Close()

	for _, f := range zr.File {
		if f.FileInfo().IsDir() {
			continue
		}
		entry := Entry{
			Name: f.Name,
			Size: int64(f.UncompressedSize64),
			file: f,
		}
		if err := fn(entry); err != nil {
			return err
		}
	}
	return nil
}

// archiveExtensions are the nested-archive extensions Expand recognizes.
// The bulk exports we consume only ever carry zip submissions.
var archiveExtensions = []string{".zip"}

// IsArchiveName reports whether name's extension marks it as an archive that
// Expand can open.
func IsArchiveName(name string) bool {
	lower := strings.ToLower(name)
	for _, ext := range archiveExtensions {
		if strings.HasSuffix(lower, ext) {
			return true
		}
	}
	return false
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

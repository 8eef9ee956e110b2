// SPDX-License-Identifier: MPL-2.0

package testutil

import (
	"archive/zip"
	"bytes"
	"testing"
)

// ZipEntry is one file to place in a fixture archive.
type ZipEntry struct {
	Name string
	Data []byte
}

// ZipBytes builds an in-memory zip archive containing entries in the given
// order. The test fails immediately if building fails.
func ZipBytes(t testing.TB, entries []ZipEntry) []byte {
	t.Helper()
	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	for _, entry := range entries {
		f, err := w.Create(entry.Name)
		if err != nil {
			t.Fatalf("failed to create zip entry %s: %v", entry.Name, err)
		}
		if _, err := f.Write(entry.Data); err != nil {
			t.Fatalf("failed to write zip entry %s: %v", entry.Name, err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("failed to finalize zip: %v", err)
	}
	return buf.Bytes()
}

// WriteZip builds a zip archive at path containing entries in the given
// order. The test fails immediately if building fails.
func WriteZip(t testing.TB, path string, entries []ZipEntry) {
	t.Helper()
	MustWriteFile(t, path, ZipBytes(t, entries), 0644)
}

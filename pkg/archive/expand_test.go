// SPDX-License-Identifier: MPL-2.0

package archive

import (
	"archive/zip"
	"bytes"
	"errors"
	"testing"
)

func zipWith(t *testing.T, files map[string][]byte, order []string) []byte {
	t.Helper()
	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	for _, name := range order {
		f, err := w.Create(name)
		if err != nil {
			t.Fatal(err)
		}
		if _, err := f.Write(files[name]); err != nil {
			t.Fatal(err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func collectExpand(t *testing.T, data []byte, maxDepth int) (files map[string]string, skips map[string]error, err error) {
	t.Helper()
	files = map[string]string{}
	skips = map[string]error{}
	err = Expand("outer.zip", data, maxDepth,
		func(f NestedFile) error {
			files[f.Path] = string(f.Data)
			return nil
		},
		func(name string, skipErr error) {
			skips[name] = skipErr
		})
	return files, skips, err
}

func TestExpandFlat(t *testing.T) {
	data := zipWith(t, map[string][]byte{
		"report.pdf": []byte("pdf"),
		"src/a.py":   []byte("print"),
	}, []string{"report.pdf", "src/a.py"})

	files, skips, err := collectExpand(t, data, 3)
	if err != nil {
		t.Fatal(err)
	}
	if len(skips) != 0 {
		t.Fatalf("unexpected skips: %v", skips)
	}
	if files["report.pdf"] != "pdf" || files["src/a.py"] != "print" {
		t.Errorf("unexpected files: %v", files)
	}
}

func TestExpandDoublyNested(t *testing.T) {
	inner := zipWith(t, map[string][]byte{"deep.txt": []byte("deep")}, []string{"deep.txt"})
	outer := zipWith(t, map[string][]byte{
		"top.txt":   []byte("top"),
		"inner.zip": inner,
	}, []string{"top.txt", "inner.zip"})

	files, skips, err := collectExpand(t, outer, 3)
	if err != nil {
		t.Fatal(err)
	}
	if len(skips) != 0 {
		t.Fatalf("unexpected skips: %v", skips)
	}
	if files["top.txt"] != "top" {
		t.Errorf("missing top.txt: %v", files)
	}
	// The inner archive expands under a folder named after it, extension
	// stripped.
	if files["inner/deep.txt"] != "deep" {
		t.Errorf("missing inner/deep.txt: %v", files)
	}
}

func TestExpandDepthCap(t *testing.T) {
	level3 := zipWith(t, map[string][]byte{"bottom.txt": []byte("b")}, []string{"bottom.txt"})
	level2 := zipWith(t, map[string][]byte{"l3.zip": level3}, []string{"l3.zip"})
	level1 := zipWith(t, map[string][]byte{"l2.zip": level2}, []string{"l2.zip"})

	// maxDepth 2: level1 opens (depth 1), l2.zip opens (depth 2), l3.zip is
	// past the cap and must be skipped, not expanded.
	files, skips, err := collectExpand(t, level1, 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(files) != 0 {
		t.Errorf("expected no plain files, got %v", files)
	}
	skipErr, ok := skips["l2/l3.zip"]
	if !ok {
		t.Fatalf("expected l2/l3.zip skipped, got %v", skips)
	}
	var depthErr *DepthExceededError
	if !errors.As(skipErr, &depthErr) {
		t.Fatalf("expected *DepthExceededError, got %v", skipErr)
	}
	if depthErr.MaxDepth != 2 {
		t.Errorf("MaxDepth = %d, want 2", depthErr.MaxDepth)
	}
}

func TestExpandCorruptOutermost(t *testing.T) {
	_, _, err := collectExpand(t, []byte("not a zip at all"), 3)
	var corrupt *NestedCorruptError
	if !errors.As(err, &corrupt) {
		t.Fatalf("expected *NestedCorruptError, got %v", err)
	}
	if corrupt.Name != "outer.zip" {
		t.Errorf("Name = %q, want outer.zip", corrupt.Name)
	}
}

func TestExpandCorruptInnerKeepsSiblings(t *testing.T) {
	outer := zipWith(t, map[string][]byte{
		"bad.zip":  []byte("corrupt bytes"),
		"good.txt": []byte("ok"),
	}, []string{"bad.zip", "good.txt"})

	files, skips, err := collectExpand(t, outer, 3)
	if err != nil {
		t.Fatal(err)
	}
	if files["good.txt"] != "ok" {
		t.Errorf("sibling not delivered: %v", files)
	}
	skipErr, ok := skips["bad.zip"]
	if !ok {
		t.Fatalf("expected bad.zip skipped, got %v", skips)
	}
	var corrupt *NestedCorruptError
	if !errors.As(skipErr, &corrupt) {
		t.Errorf("expected *NestedCorruptError, got %v", skipErr)
	}
}

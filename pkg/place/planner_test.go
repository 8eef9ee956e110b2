// SPDX-License-Identifier: MPL-2.0

package place

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"toltool/pkg/decode"
)

func TestPlanBasic(t *testing.T) {
	root := t.TempDir()
	planner := NewPlanner(root, false)

	decision, err := planner.Plan("Doe_Jane", []string{"main.py"})
	if err != nil {
		t.Fatal(err)
	}
	want := filepath.Join(root, "Doe_Jane", "main.py")
	if decision.Path != want {
		t.Errorf("Path = %q, want %q", decision.Path, want)
	}
	if decision.CollisionResolved {
		t.Error("first occurrence must not be a collision")
	}
}

func TestPlanCollisionNumbering(t *testing.T) {
	root := t.TempDir()
	planner := NewPlanner(root, false)

	var paths []string
	for i := 0; i < 3; i++ {
		decision, err := planner.Plan("Doe_Jane", []string{"main.py"})
		if err != nil {
			t.Fatal(err)
		}
		paths = append(paths, filepath.Base(decision.Path))
		if wantCollision := i > 0; decision.CollisionResolved != wantCollision {
			t.Errorf("occurrence %d: CollisionResolved = %v, want %v", i+1, decision.CollisionResolved, wantCollision)
		}
	}

	want := []string{"main.py", "main (2).py", "main (3).py"}
	for i := range want {
		if paths[i] != want[i] {
			t.Errorf("occurrence %d: got %q, want %q", i+1, paths[i], want[i])
		}
	}
}

func TestPlanCollisionAcrossSubmittersIsIndependent(t *testing.T) {
	root := t.TempDir()
	planner := NewPlanner(root, false)

	first, err := planner.Plan("Doe_Jane", []string{"main.py"})
	if err != nil {
		t.Fatal(err)
	}
	second, err := planner.Plan("Roe_John", []string{"main.py"})
	if err != nil {
		t.Fatal(err)
	}
	if first.CollisionResolved || second.CollisionResolved {
		t.Error("same relative path under different submitters is not a collision")
	}
}

func TestPlanRejectsTraversal(t *testing.T) {
	root := t.TempDir()
	planner := NewPlanner(root, false)

	tests := [][]string{
		{"..", "..", "etc", "passwd"},
		{"..", ".."},
	}
	for _, relPath := range tests {
		_, err := planner.Plan("Doe_Jane", relPath)
		var traversal *TraversalError
		if !errors.As(err, &traversal) {
			t.Errorf("Plan(%v): expected *TraversalError, got %v", relPath, err)
		}
	}
}

func TestPlanStaysUnderRoot(t *testing.T) {
	root := t.TempDir()
	planner := NewPlanner(root, false)

	// A single ".." segment that still resolves inside the root is kept.
	decision, err := planner.Plan("Doe_Jane", []string{"sub", "..", "main.py"})
	if err != nil {
		t.Fatal(err)
	}
	rel, err := filepath.Rel(root, decision.Path)
	if err != nil || strings.HasPrefix(rel, "..") {
		t.Errorf("destination %q escapes root %q", decision.Path, root)
	}
}

func TestPlanMergeTreatsDiskFilesAsCollisions(t *testing.T) {
	root := t.TempDir()
	existing := filepath.Join(root, "Doe_Jane", "main.py")
	if err := os.MkdirAll(filepath.Dir(existing), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(existing, []byte("previous run"), 0644); err != nil {
		t.Fatal(err)
	}

	planner := NewPlanner(root, true)
	decision, err := planner.Plan("Doe_Jane", []string{"main.py"})
	if err != nil {
		t.Fatal(err)
	}
	if !decision.CollisionResolved {
		t.Error("existing file on disk must count as a collision in merge mode")
	}
	if filepath.Base(decision.Path) != "main (2).py" {
		t.Errorf("got %q, want main (2).py", filepath.Base(decision.Path))
	}
}

func TestSanitizeSubmitter(t *testing.T) {
	tests := []struct {
		name string
		id   decode.SubmitterID
		want string
	}{
		{"clean", "Doe_Jane", "Doe_Jane"},
		{"illegal characters", `Doe<Jane>:"?`, "Doe_Jane____"},
		{"slashes", "a/b\\c", "a_b_c"},
		{"trailing dots and spaces", " Doe. ", "Doe"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SanitizeSubmitter(tt.id); got != tt.want {
				t.Errorf("SanitizeSubmitter(%q) = %q, want %q", tt.id, got, tt.want)
			}
		})
	}
}

func TestSanitizeSubmitterPlaceholder(t *testing.T) {
	// Identities that sanitize to nothing get a stable hashed placeholder.
	for _, id := range []decode.SubmitterID{"", "...", "///"} {
		got := SanitizeSubmitter(id)
		if !strings.HasPrefix(got, "submitter-") {
			t.Errorf("SanitizeSubmitter(%q) = %q, want submitter- prefix", id, got)
		}
		if again := SanitizeSubmitter(id); again != got {
			t.Errorf("placeholder for %q not stable: %q vs %q", id, got, again)
		}
	}

	// Distinct unsanitizable identities must not share a folder.
	if SanitizeSubmitter("...") == SanitizeSubmitter("////") {
		t.Error("distinct identities hashed to the same placeholder")
	}
}

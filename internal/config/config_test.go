// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"toltool/internal/issue"
	"toltool/internal/testutil"
)

// withConfigDir points the package at a throwaway config directory for the
// duration of one test.
func withConfigDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	SetConfigDirOverride(dir)
	t.Cleanup(func() {
		SetConfigDirOverride("")
		SetConfigFilePathOverride("")
	})
	return dir
}

func TestLoadDefaultsWithoutFile(t *testing.T) {
	withConfigDir(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defaults := DefaultConfig()
	if cfg.OutputRoot != defaults.OutputRoot {
		t.Errorf("OutputRoot = %q, want %q", cfg.OutputRoot, defaults.OutputRoot)
	}
	if cfg.MaxDepth != defaults.MaxDepth {
		t.Errorf("MaxDepth = %d, want %d", cfg.MaxDepth, defaults.MaxDepth)
	}
	if cfg.OnExisting != OnExistingFail {
		t.Errorf("OnExisting = %q, want %q", cfg.OnExisting, OnExistingFail)
	}
}

func TestLoadFromFile(t *testing.T) {
	dir := withConfigDir(t)

	content := "output_root = \"graded\"\nmax_depth = 5\non_existing = \"merge\"\n\n[ui]\nverbose = true\n"
	if err := os.WriteFile(filepath.Join(dir, "config.toml"), []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.OutputRoot != "graded" {
		t.Errorf("OutputRoot = %q, want graded", cfg.OutputRoot)
	}
	if cfg.MaxDepth != 5 {
		t.Errorf("MaxDepth = %d, want 5", cfg.MaxDepth)
	}
	if cfg.OnExisting != OnExistingMerge {
		t.Errorf("OnExisting = %q, want merge", cfg.OnExisting)
	}
	if !cfg.UI.Verbose {
		t.Error("UI.Verbose = false, want true")
	}
}

func TestLoadPartialFileKeepsDefaults(t *testing.T) {
	dir := withConfigDir(t)

	if err := os.WriteFile(filepath.Join(dir, "config.toml"), []byte("max_depth = 7\n"), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.MaxDepth != 7 {
		t.Errorf("MaxDepth = %d, want 7", cfg.MaxDepth)
	}
	if cfg.OutputRoot != DefaultConfig().OutputRoot {
		t.Errorf("OutputRoot = %q, want default", cfg.OutputRoot)
	}
}

func TestLoadRejectsInvalidPolicy(t *testing.T) {
	dir := withConfigDir(t)

	if err := os.WriteFile(filepath.Join(dir, "config.toml"), []byte("on_existing = \"overwrite\"\n"), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load()
	if err == nil {
		t.Fatal("expected validation error")
	}
	if !strings.Contains(err.Error(), "on_existing") {
		t.Errorf("error %q does not name the bad field", err)
	}
	// Defaults still usable after a broken file.
	if cfg.OnExisting != OnExistingFail {
		t.Errorf("fallback OnExisting = %q, want %q", cfg.OnExisting, OnExistingFail)
	}
}

func TestLoadExplicitMissingFileIsError(t *testing.T) {
	withConfigDir(t)
	SetConfigFilePathOverride(filepath.Join(t.TempDir(), "nope.toml"))

	_, err := Load()
	if err == nil {
		t.Fatal("expected error for explicitly requested missing file")
	}
	var actionable *issue.ActionableError
	if !errors.As(err, &actionable) {
		t.Fatalf("error %T is not actionable", err)
	}
	if !actionable.HasSuggestions() {
		t.Error("expected suggestions on a missing --config file")
	}
}

func TestLoadBrokenFileIsActionable(t *testing.T) {
	dir := withConfigDir(t)

	if err := os.WriteFile(filepath.Join(dir, "config.toml"), []byte("max_depth = [broken\n"), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load()
	if err == nil {
		t.Fatal("expected error for unparseable file")
	}
	var actionable *issue.ActionableError
	if !errors.As(err, &actionable) {
		t.Fatalf("error %T is not actionable", err)
	}
	if !strings.HasPrefix(err.Error(), "failed to load configuration") {
		t.Errorf("message = %q", err)
	}
	if !actionable.HasSuggestions() {
		t.Error("expected suggestions on a broken file")
	}
	// Defaults still usable after a broken file.
	if cfg.MaxDepth != DefaultConfig().MaxDepth {
		t.Errorf("fallback MaxDepth = %d", cfg.MaxDepth)
	}
}

func TestConfigDirRespectsXDGConfigHome(t *testing.T) {
	if runtime.GOOS == "windows" || runtime.GOOS == "darwin" {
		t.Skip("XDG_CONFIG_HOME only applies on Linux and friends")
	}
	SetConfigDirOverride("")
	t.Cleanup(func() { SetConfigDirOverride("") })

	dir := t.TempDir()
	restore := testutil.MustSetenv(t, "XDG_CONFIG_HOME", dir)
	t.Cleanup(restore)

	got, err := ConfigDir()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if want := filepath.Join(dir, AppName); got != want {
		t.Errorf("ConfigDir() = %q, want %q", got, want)
	}
}

func TestWriteDefault(t *testing.T) {
	dir := withConfigDir(t)

	path, err := WriteDefault()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if path != filepath.Join(dir, "config.toml") {
		t.Errorf("path = %q", path)
	}

	// The file round-trips through Load.
	cfg, err := Load()
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if cfg.MaxDepth != DefaultConfig().MaxDepth {
		t.Errorf("MaxDepth = %d", cfg.MaxDepth)
	}

	// Never overwrites.
	if _, err := WriteDefault(); err == nil {
		t.Fatal("expected error on second init")
	}
}

func TestValidate(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config invalid: %v", err)
	}

	cfg.MaxDepth = 0
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for non-positive max_depth")
	}
}

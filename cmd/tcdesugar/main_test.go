package main

import (
	"os"
	"path/filepath"
	"testing"
)

func TestResolveConfigPathPrefersExplicitArg(t *testing.T) {
	got, err := resolveConfigPath([]string{"some/explicit/tcdesugar.yaml"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "some/explicit/tcdesugar.yaml" {
		t.Fatalf("expected the explicit arg to win, got %s", got)
	}
}

func TestResolveConfigPathFallsBackToUpwardSearch(t *testing.T) {
	root := t.TempDir()
	nested := filepath.Join(root, "pkg", "sub")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatalf("setup: %v", err)
	}
	cfgPath := filepath.Join(root, "tcdesugar.yaml")
	if err := os.WriteFile(cfgPath, []byte("modules: [a.json]\n"), 0o644); err != nil {
		t.Fatalf("setup: %v", err)
	}

	cwd, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	defer os.Chdir(cwd)
	if err := os.Chdir(nested); err != nil {
		t.Fatalf("chdir: %v", err)
	}

	got, err := resolveConfigPath(nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != cfgPath {
		t.Fatalf("expected %s, got %s", cfgPath, got)
	}
}

func TestDecodeExternsCachedWithoutCache(t *testing.T) {
	raw := []byte(`{"module_name":["Main"],"classes":[]}`)
	file, err := decodeExternsCached(nil, raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if file.ModuleName.String() != "Main" {
		t.Fatalf("unexpected module name: %s", file.ModuleName.String())
	}
}

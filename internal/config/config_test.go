package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestParseRejectsEmptyModules(t *testing.T) {
	_, err := Parse([]byte("externs: []\n"), "tcdesugar.yaml")
	if err == nil {
		t.Fatalf("expected an error when modules is empty")
	}
}

func TestParseDecodesFullShape(t *testing.T) {
	yaml := []byte(`
modules:
  - a.json
  - b.json
externs:
  - a.externs.json
cache_dir: .tcdesugar-cache
color: true
rpc_addr: "127.0.0.1:9000"
`)
	cfg, err := Parse(yaml, "tcdesugar.yaml")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(cfg.Modules) != 2 || cfg.Modules[0] != "a.json" {
		t.Fatalf("unexpected modules: %v", cfg.Modules)
	}
	if len(cfg.Externs) != 1 || cfg.Externs[0] != "a.externs.json" {
		t.Fatalf("unexpected externs: %v", cfg.Externs)
	}
	if cfg.CacheDir != ".tcdesugar-cache" {
		t.Fatalf("unexpected cache dir: %s", cfg.CacheDir)
	}
	if cfg.Color == nil || !*cfg.Color {
		t.Fatalf("expected color to be explicitly true")
	}
	if cfg.RPCAddr != "127.0.0.1:9000" {
		t.Fatalf("unexpected rpc addr: %s", cfg.RPCAddr)
	}
}

func TestFindWalksUpward(t *testing.T) {
	root := t.TempDir()
	nested := filepath.Join(root, "a", "b", "c")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatalf("setup: %v", err)
	}
	cfgPath := filepath.Join(root, "a", FileName)
	if err := os.WriteFile(cfgPath, []byte("modules: [a.json]\n"), 0o644); err != nil {
		t.Fatalf("setup: %v", err)
	}

	found, err := Find(nested)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if found != cfgPath {
		t.Fatalf("expected %s, got %s", cfgPath, found)
	}
}

func TestFindReturnsEmptyWhenAbsent(t *testing.T) {
	root := t.TempDir()
	found, err := Find(root)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if found != "" {
		t.Fatalf("expected no config to be found, got %s", found)
	}
}

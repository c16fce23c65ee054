// Package config is the project-file layer for cmd/tcdesugar, grounded
// on the teacher's internal/ext/config.go (funxy.yaml) pattern: a
// yaml.v3-decoded struct plus an upward directory walk to locate the
// file, the way funxy.yaml is found relative to a script.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// FileName is the project config file this pass looks for, analogous
// to the teacher's funxy.yaml.
const FileName = "tcdesugar.yaml"

// Config is the top-level tcdesugar.yaml shape.
type Config struct {
	// Externs lists paths to previously compiled modules' ExternsFile
	// JSON records, ingested into the initial MemberMap (component D).
	Externs []string `yaml:"externs,omitempty"`

	// Modules lists paths to the fresh modules' JSON AST records to run
	// the pass over.
	Modules []string `yaml:"modules"`

	// CacheDir, when set, enables internal/externscache: decoded
	// externs are persisted here keyed by module name and content hash.
	// Every externs file is still decoded and ingested on each run.
	CacheDir string `yaml:"cache_dir,omitempty"`

	// Color overrides the isatty-based default for diagnostic output;
	// nil means "decide from the terminal".
	Color *bool `yaml:"color,omitempty"`

	// RPCAddr is the address `tcdesugar serve` listens on when it is
	// given no address argument. The `run` command ignores it.
	RPCAddr string `yaml:"rpc_addr,omitempty"`
}

// Load reads and parses path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}
	return Parse(data, path)
}

// Parse decodes YAML content. path is used only for error messages.
func Parse(data []byte, path string) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	if len(cfg.Modules) == 0 {
		return nil, fmt.Errorf("%s: no modules defined", path)
	}
	return &cfg, nil
}

// Find walks upward from dir looking for FileName, the way the teacher
// locates funxy.yaml relative to a script being run. Returns "" with a
// nil error when no config file exists anywhere above dir.
func Find(dir string) (string, error) {
	dir, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("resolving directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, FileName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", nil
		}
		dir = parent
	}
}

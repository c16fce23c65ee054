// Command tcdesugar is the CLI entry point for the type-class desugaring
// pass, mirroring the teacher's cmd/funxy/main.go: manual os.Args
// subcommand dispatch rather than a flag-parsing library, one run-ID
// stamped per invocation, and ANSI-colored diagnostics gated by
// pkg/cli.ColorEnabled.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/classlang/tcdesugar/internal/ast"
	"github.com/classlang/tcdesugar/internal/config"
	"github.com/classlang/tcdesugar/internal/desugar"
	"github.com/classlang/tcdesugar/internal/externs"
	"github.com/classlang/tcdesugar/internal/externscache"
	"github.com/classlang/tcdesugar/internal/jsonmodule"
	"github.com/classlang/tcdesugar/internal/rpcserver"
	"github.com/classlang/tcdesugar/internal/symbols"
	"github.com/classlang/tcdesugar/pkg/cli"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	runID := uuid.New().String()

	var err error
	switch os.Args[1] {
	case "run":
		err = runCommand(runID, os.Args[2:])
	case "serve":
		err = serveCommand(runID, os.Args[2:])
	case "-help", "--help", "help":
		usage()
		return
	default:
		usage()
		os.Exit(1)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "%s %s\n", cli.Error("error:"), err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintf(os.Stderr, "Usage: %s run [config] | %s serve [addr]\n", os.Args[0], os.Args[0])
}

// runCommand loads the project config named by args (or found by
// upward directory search when args is empty), ingests externs, runs
// the pass over every configured module, and prints the rewritten
// modules to stdout.
func runCommand(runID string, args []string) error {
	cfgPath, err := resolveConfigPath(args)
	if err != nil {
		return err
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return err
	}
	if cfg.Color != nil {
		cli.Override(*cfg.Color)
	}

	table, cache, err := loadExterns(cfg)
	if err != nil {
		return err
	}
	if cache != nil {
		defer cache.Close()
	}

	for _, modPath := range cfg.Modules {
		log(runID, "desugaring %s", cli.Info(modPath))

		raw, err := os.ReadFile(modPath)
		if err != nil {
			return fmt.Errorf("reading module %s: %w", modPath, err)
		}
		mod, err := jsonmodule.DecodeModule(raw)
		if err != nil {
			return fmt.Errorf("%s: %w", modPath, err)
		}

		out, err := desugar.Module(mod, table, desugar.IdentityCaseDesugarer)
		if err != nil {
			fmt.Fprintf(os.Stderr, "%s %s: %s\n", cli.Warning("desugar failed:"), modPath, err)
			continue
		}

		outJSON, err := jsonmodule.EncodeModule(out)
		if err != nil {
			return fmt.Errorf("encoding result for %s: %w", modPath, err)
		}
		fmt.Println(string(outJSON))
	}
	return nil
}

// serveCommand starts internal/rpcserver listening on addr: the first
// positional argument if given, otherwise the rpc_addr configured in the
// project file found by resolveConfigPath.
func serveCommand(runID string, args []string) error {
	var addr string
	if len(args) > 0 {
		addr = args[0]
	} else {
		cfgPath, err := resolveConfigPath(nil)
		if err != nil {
			return fmt.Errorf("serve requires an address or a config with rpc_addr set: %w", err)
		}
		cfg, err := config.Load(cfgPath)
		if err != nil {
			return err
		}
		if cfg.RPCAddr == "" {
			return fmt.Errorf("%s has no rpc_addr set", cfgPath)
		}
		addr = cfg.RPCAddr
	}

	srv, err := rpcserver.New()
	if err != nil {
		return fmt.Errorf("building rpc server: %w", err)
	}
	log(runID, "listening on %s", cli.Info(addr))
	return srv.Serve(addr)
}

func resolveConfigPath(args []string) (string, error) {
	if len(args) > 0 {
		return args[0], nil
	}
	dir, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("resolving working directory: %w", err)
	}
	found, err := config.Find(dir)
	if err != nil {
		return "", err
	}
	if found == "" {
		return "", fmt.Errorf("no %s found above %s", config.FileName, dir)
	}
	return found, nil
}

// loadExterns ingests every configured externs file into a MemberMap
// seeded from externs.Primitives. When cfg.CacheDir is set, each file
// goes through internal/externscache: a cached copy is returned on a
// hit and the decoded file is stored on a miss. Every file is still
// decoded on every run, because the module name in the cache key is
// read from the decoded file. Returns the open cache (nil if unused) so
// the caller can close it once all modules have run.
func loadExterns(cfg *config.Config) (*symbols.MemberMap, *externscache.Cache, error) {
	var cache *externscache.Cache
	if cfg.CacheDir != "" {
		if err := os.MkdirAll(cfg.CacheDir, 0o755); err != nil {
			return nil, nil, fmt.Errorf("creating cache dir %s: %w", cfg.CacheDir, err)
		}
		var err error
		cache, err = externscache.Open(filepath.Join(cfg.CacheDir, "externs.sqlite"))
		if err != nil {
			return nil, nil, err
		}
	}

	var files []*ast.ExternsFile
	for _, path := range cfg.Externs {
		raw, err := os.ReadFile(path)
		if err != nil {
			if cache != nil {
				cache.Close()
			}
			return nil, nil, fmt.Errorf("reading externs %s: %w", path, err)
		}

		file, err := decodeExternsCached(cache, raw)
		if err != nil {
			if cache != nil {
				cache.Close()
			}
			return nil, nil, fmt.Errorf("%s: %w", path, err)
		}
		files = append(files, file)
	}

	return externs.Ingest(externs.Primitives(), files), cache, nil
}

func decodeExternsCached(cache *externscache.Cache, raw []byte) (*ast.ExternsFile, error) {
	file, err := jsonmodule.DecodeExterns(raw)
	if err != nil {
		return nil, err
	}
	if cache == nil {
		return file, nil
	}

	hash := externscache.Hash(raw)
	if cached, ok, err := cache.Lookup(file.ModuleName, hash); err == nil && ok {
		return cached, nil
	}
	if err := cache.Store(file.ModuleName, hash, file); err != nil {
		return nil, err
	}
	return file, nil
}

func log(runID, format string, args ...any) {
	fmt.Fprintf(os.Stderr, "[%s] %s\n", runID[:8], fmt.Sprintf(format, args...))
}

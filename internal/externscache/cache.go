// Package externscache is a sqlite-backed cache of ingested ExternsFile
// records, keyed by module name and a content hash of the externs
// source bytes. It exists so cmd/tcdesugar can skip re-ingesting the
// externs of dependency modules that have not changed between runs.
//
// The teacher itself never reaches for database/sql — this package is
// instead grounded on the sibling snapshot mcgru-funxy's
// internal/evaluator/builtins_sql.go, which wraps modernc.org/sqlite
// behind a small registry of *sql.DB handles; the schema and access
// pattern here follow that file's shape (single package-level driver
// import, straightforward Exec/Query calls, no ORM).
package externscache

import (
	"bytes"
	"crypto/sha256"
	"database/sql"
	"encoding/gob"
	"encoding/hex"
	"fmt"

	_ "modernc.org/sqlite"

	"github.com/classlang/tcdesugar/internal/ast"
	"github.com/classlang/tcdesugar/internal/names"
	"github.com/classlang/tcdesugar/internal/typesystem"
)

func init() {
	gob.Register(ast.EDClass{})
	gob.Register(ast.EDOther{})
	gob.Register(typesystem.TVar{})
	gob.Register(typesystem.TCon{})
	gob.Register(typesystem.TApp{})
	gob.Register(typesystem.ConstrainedType{})
	gob.Register(typesystem.ForAll{})
	gob.Register(typesystem.RCons{})
	gob.Register(typesystem.REmpty{})
	gob.Register(typesystem.RecordT{})
	gob.Register(typesystem.KStar{})
	gob.Register(typesystem.KRow{})
	gob.Register(typesystem.KArrow{})
	gob.Register(typesystem.KVar{})
}

// Cache wraps a sqlite-backed table of (module_name, content_hash) ->
// serialized ExternsFile rows.
type Cache struct {
	db *sql.DB
}

const schema = `
CREATE TABLE IF NOT EXISTS externs_cache (
	module_name  TEXT NOT NULL,
	content_hash TEXT NOT NULL,
	payload      BLOB NOT NULL,
	PRIMARY KEY (module_name, content_hash)
)`

// Open creates or attaches to the sqlite database at path, e.g. the
// CacheDir joined with a fixed file name by the caller.
func Open(path string) (*Cache, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening externs cache %s: %w", path, err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating externs cache schema: %w", err)
	}
	return &Cache{db: db}, nil
}

// Close releases the underlying sqlite handle.
func (c *Cache) Close() error {
	return c.db.Close()
}

// Hash returns the content hash Lookup/Store key on for raw externs
// source bytes.
func Hash(source []byte) string {
	sum := sha256.Sum256(source)
	return hex.EncodeToString(sum[:])
}

// Lookup returns the cached ExternsFile for (module, hash), or ok=false
// if nothing is cached under that key yet.
func (c *Cache) Lookup(module names.ModuleName, hash string) (file *ast.ExternsFile, ok bool, err error) {
	var payload []byte
	row := c.db.QueryRow(
		`SELECT payload FROM externs_cache WHERE module_name = ? AND content_hash = ?`,
		module.String(), hash,
	)
	switch err := row.Scan(&payload); err {
	case nil:
	case sql.ErrNoRows:
		return nil, false, nil
	default:
		return nil, false, fmt.Errorf("looking up externs cache for %s: %w", module.String(), err)
	}

	var decoded ast.ExternsFile
	if err := gob.NewDecoder(bytes.NewReader(payload)).Decode(&decoded); err != nil {
		return nil, false, fmt.Errorf("decoding cached externs for %s: %w", module.String(), err)
	}
	return &decoded, true, nil
}

// Store persists file under (module, hash), replacing any prior entry
// for the same key.
func (c *Cache) Store(module names.ModuleName, hash string, file *ast.ExternsFile) error {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(file); err != nil {
		return fmt.Errorf("encoding externs for %s: %w", module.String(), err)
	}
	payload := buf.Bytes()
	_, err := c.db.Exec(
		`INSERT INTO externs_cache (module_name, content_hash, payload) VALUES (?, ?, ?)
		 ON CONFLICT(module_name, content_hash) DO UPDATE SET payload = excluded.payload`,
		module.String(), hash, payload,
	)
	if err != nil {
		return fmt.Errorf("storing externs cache for %s: %w", module.String(), err)
	}
	return nil
}

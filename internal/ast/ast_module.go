package ast

import (
	"github.com/classlang/tcdesugar/internal/names"
	"github.com/classlang/tcdesugar/internal/token"
)

// ExportRef is one entry of a module's export list.
type ExportRef interface {
	exportRefNode()
}

type TypeClassRef struct {
	Ann  token.SourceAnn
	Name names.ClassName
}

func (TypeClassRef) exportRefNode() {}

// TypeRef exports a type. `TypeRef{Constructors: nil, ExportAll: true}`
// is `type Foo(..)`.
type TypeRef struct {
	Ann          token.SourceAnn
	Name         names.TypeName
	Constructors []names.ConstructorName
	ExportAll    bool
}

func (TypeRef) exportRefNode() {}

type ValueRef struct {
	Ann  token.SourceAnn
	Name names.Ident
}

func (ValueRef) exportRefNode() {}

// TypeInstanceRef is the export synthesized by §4.F for an instance
// dictionary's binding.
type TypeInstanceRef struct {
	Ann  token.SourceAnn
	Name names.Ident
}

func (TypeInstanceRef) exportRefNode() {}

// Module is `Module(sourceSpan, comments, name, decls, exports)`. Exports
// is a pointer so nil unambiguously represents "no explicit export list",
// which §4.G treats as a compiler-internal error ("exports should have
// been elaborated").
type Module struct {
	Ann     token.SourceAnn
	Name    names.ModuleName
	Decls   []Declaration
	Exports *[]ExportRef
}

// AddExports appends refs to the module's export list. Panics if Exports
// is nil — callers (§4.G) must have already checked HasExports.
func (m *Module) AddExports(refs ...ExportRef) {
	*m.Exports = append(*m.Exports, refs...)
}

func (m *Module) HasExports() bool { return m.Exports != nil }

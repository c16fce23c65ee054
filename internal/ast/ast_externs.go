package ast

import (
	"github.com/classlang/tcdesugar/internal/names"
	"github.com/classlang/tcdesugar/internal/typesystem"
)

// ExternsDeclaration is the sum of declaration kinds an ExternsFile can
// hold. Component D (§4.C–D) only ever looks at EDClass entries; every
// other kind is ignored but still has to round-trip through an
// ExternsFile value, so EDOther carries an opaque tag for anything this
// pass doesn't care about.
type ExternsDeclaration interface {
	externsDeclNode()
}

// MemberSig is a class member's (ident, type) pair as recorded in
// externs.
type MemberSig struct {
	Ident names.Ident
	Type  typesystem.Type
}

type EDClass struct {
	Name    names.ClassName
	Args    []string
	Members []MemberSig
	Implies []typesystem.Constraint
	Deps    []FunctionalDependency
}

func (EDClass) externsDeclNode() {}

// EDOther stands in for every extern declaration kind this pass ignores
// (values, types, instances, fixities...). Kept distinct so ExternsFile
// input from a real compiler front-end has somewhere to put everything
// else without this package needing to model it.
type EDOther struct {
	Kind string
}

func (EDOther) externsDeclNode() {}

// ExternsFile is the persisted summary of a previously compiled module,
// `(moduleName, declarations)`.
type ExternsFile struct {
	ModuleName names.ModuleName
	Decls      []ExternsDeclaration
}

// Package names holds the proper-name, module-name, and qualified-name
// types shared by the whole AST. Proper names are phantom-tagged by kind
// so the compiler cannot, say, pass a ConstructorName where a ClassName is
// expected — the tag lives only at the type level via a generic parameter,
// never in the stored representation.
package names

import "strings"

// Kind is the phantom tag attached to a ProperName. The concrete kind
// types below carry no data; they only select which ProperName[K]
// instantiation a value belongs to.
type Kind interface {
	properNameKind()
}

type ClassNameKind struct{}

func (ClassNameKind) properNameKind() {}

type TypeNameKind struct{}

func (TypeNameKind) properNameKind() {}

type ConstructorNameKind struct{}

func (ConstructorNameKind) properNameKind() {}

// ProperName is a non-empty identifier naming a class, type, or data
// constructor, tagged at the type level by K so the three categories
// cannot be confused at compile time.
type ProperName[K Kind] struct {
	text string
}

// NewProperName wraps text as a ProperName of the given kind. Callers are
// expected to have already validated text is a non-empty proper
// identifier (that validation belongs to the parser, out of scope here).
func NewProperName[K Kind](text string) ProperName[K] {
	return ProperName[K]{text: text}
}

func (p ProperName[K]) String() string { return p.text }

// GobEncode and GobDecode let encoding/gob serialize the unexported text
// (internal/externscache stores class names this way).
func (p ProperName[K]) GobEncode() ([]byte, error) { return []byte(p.text), nil }

func (p *ProperName[K]) GobDecode(data []byte) error {
	p.text = string(data)
	return nil
}

type (
	ClassName       = ProperName[ClassNameKind]
	TypeName        = ProperName[TypeNameKind]
	ConstructorName = ProperName[ConstructorNameKind]
)

// ClassNameAsTypeName reinterprets a class's proper name as a type proper
// name. Needed by class desugaring (§4.E): the dictionary type synonym it
// emits is named after the class, e.g. class `Show` becomes type `Show`.
// Cheap: both sides share the same underlying text, only the phantom tag
// changes.
func ClassNameAsTypeName(c ClassName) TypeName {
	return NewProperName[TypeNameKind](c.String())
}

// Ident names an ordinary value — a binder, a function, a record field —
// and is distinct from every ProperName kind.
type Ident string

func (i Ident) String() string { return string(i) }

// ModuleName is a non-empty dotted sequence of proper-name segments, e.g.
// Data.Show or Prim.
type ModuleName []string

func NewModuleName(segments ...string) ModuleName {
	return ModuleName(segments)
}

func (m ModuleName) String() string { return strings.Join(m, ".") }

func (m ModuleName) Equal(other ModuleName) bool {
	if len(m) != len(other) {
		return false
	}
	for i := range m {
		if m[i] != other[i] {
			return false
		}
	}
	return true
}

// Prim is the reserved module name under which the primitive classes
// (§4.C–D) are seeded.
var Prim = NewModuleName("Prim")

// Qualified pairs a name with the module that owns it. A Name is fully
// qualified once ByModule is non-empty; spec.md §3 requires every name in
// a fresh module be fully qualified before this pass runs, so an empty
// ByModule on anything the pass inspects (other than a name it is about to
// qualify itself) is a compiler-internal error.
type Qualified[T fmt_Stringer] struct {
	ByModule ModuleName
	Name     T
}

// fmt_Stringer avoids importing "fmt" just for the Stringer interface name.
type fmt_Stringer interface {
	String() string
}

func Qualify[T fmt_Stringer](m ModuleName, name T) Qualified[T] {
	return Qualified[T]{ByModule: m, Name: name}
}

func (q Qualified[T]) IsQualified() bool { return len(q.ByModule) > 0 }

func (q Qualified[T]) String() string {
	if !q.IsQualified() {
		return q.Name.String()
	}
	return q.ByModule.String() + "." + q.Name.String()
}

// QualifiedIdent, QualifiedClassName and QualifiedTypeName are the
// qualified references the desugaring pass actually manipulates.
type (
	QualifiedIdent     = Qualified[Ident]
	QualifiedClassName = Qualified[ClassName]
	QualifiedTypeName  = Qualified[TypeName]
)

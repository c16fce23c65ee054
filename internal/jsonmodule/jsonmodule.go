// Package jsonmodule decodes the small JSON module/externs description
// cmd/tcdesugar and internal/rpcserver accept as input, grounded on the
// teacher's cmd/lsp/server.go use of encoding/json for its protocol
// messages. Lexing, parsing, and name resolution stay out of scope, so
// this package only has to reconstruct the handful of declaration and
// type shapes component E/F actually look at: type class and type
// instance declarations, plus an opaque passthrough marker for anything
// else a module may contain.
package jsonmodule

import (
	"encoding/json"
	"fmt"

	"github.com/classlang/tcdesugar/internal/ast"
	"github.com/classlang/tcdesugar/internal/names"
	"github.com/classlang/tcdesugar/internal/token"
	"github.com/classlang/tcdesugar/internal/typesystem"
)

// Type is the JSON shape of a typesystem.Type: a discriminated union on
// Kind, the same "tag plus payload fields" convention the teacher's LSP
// messages use for their params.
type Type struct {
	Kind string `json:"kind"`

	Name string `json:"name,omitempty"` // var

	Module []string `json:"module,omitempty"` // con
	Con    string   `json:"con,omitempty"`    // con

	Ctor *Type `json:"ctor,omitempty"` // app
	Arg  *Type `json:"arg,omitempty"`  // app

	Class    string `json:"class,omitempty"`        // constrained
	ClassMod []string `json:"class_module,omitempty"` // constrained
	Args     []Type `json:"args,omitempty"`          // constrained
	Wrapped  *Type  `json:"wrapped,omitempty"`        // constrained

	Label string `json:"label,omitempty"` // rcons
	Head  *Type  `json:"head,omitempty"`  // rcons
	Tail  *Type  `json:"tail,omitempty"`  // rcons

	Row *Type `json:"row,omitempty"` // record

	Var  string `json:"var,omitempty"`  // forall
	Body *Type  `json:"body,omitempty"` // forall
}

func (t *Type) decode() (typesystem.Type, error) {
	if t == nil {
		return nil, fmt.Errorf("nil type")
	}
	switch t.Kind {
	case "var":
		return typesystem.TVar{Name: t.Name}, nil
	case "con":
		return typesystem.TCon{
			Name: names.Qualify(names.ModuleName(t.Module), names.NewProperName[names.TypeNameKind](t.Con)),
		}, nil
	case "app":
		ctor, err := t.Ctor.decode()
		if err != nil {
			return nil, err
		}
		arg, err := t.Arg.decode()
		if err != nil {
			return nil, err
		}
		return typesystem.TApp{Constructor: ctor, Arg: arg}, nil
	case "constrained":
		wrapped, err := t.Wrapped.decode()
		if err != nil {
			return nil, err
		}
		cargs := make([]typesystem.Type, len(t.Args))
		for i := range t.Args {
			a, err := t.Args[i].decode()
			if err != nil {
				return nil, err
			}
			cargs[i] = a
		}
		return typesystem.ConstrainedType{
			Constraint: typesystem.Constraint{
				Class: names.Qualify(names.ModuleName(t.ClassMod), names.NewProperName[names.ClassNameKind](t.Class)),
				Args:  cargs,
			},
			Wrapped: wrapped,
		}, nil
	case "rempty":
		return typesystem.REmpty{}, nil
	case "rcons":
		head, err := t.Head.decode()
		if err != nil {
			return nil, err
		}
		tail, err := t.Tail.decode()
		if err != nil {
			return nil, err
		}
		return typesystem.RCons{Label: t.Label, Head: head, Tail: tail}, nil
	case "record":
		row, err := t.Row.decode()
		if err != nil {
			return nil, err
		}
		return typesystem.RecordT{Row: row}, nil
	case "forall":
		body, err := t.Body.decode()
		if err != nil {
			return nil, err
		}
		return typesystem.ForAll{Var: t.Var, Body: body}, nil
	default:
		return nil, fmt.Errorf("unknown type kind %q", t.Kind)
	}
}

// Member is a class member's (ident, type) JSON pair.
type Member struct {
	Ident string `json:"ident"`
	Type  Type   `json:"type"`
}

// FunDep is a, b -> c as JSON string slices.
type FunDep struct {
	From []string `json:"from"`
	To   []string `json:"to"`
}

// ValueDecl is an instance member binding's JSON shape: just enough to
// build an ast.ValueDeclaration with an opaque body, since expression
// syntax itself is out of scope — bodies round-trip as an unqualified
// Var reference to BodyRef. Being unqualified, such a reference never
// counts as a member dependency, so every decoded member is scheduled in
// the dictionary's first layer.
type ValueDecl struct {
	Ident   string `json:"ident"`
	BodyRef string `json:"body_ref"`
}

func (v ValueDecl) decode(span token.SourceSpan) *ast.ValueDeclaration {
	return ast.NewValueDeclaration(
		token.SourceAnn{Span: span},
		names.Ident(v.Ident),
		ast.Private,
		&ast.Var{Ann: token.SourceAnn{Span: span}, Name: names.Qualify(names.ModuleName(nil), names.Ident(v.BodyRef))},
	)
}

// Decl is a discriminated union over the declaration kinds this package
// reconstructs. Kind "other" is an opaque passthrough marker, decoded to
// an ast.OpaqueDeclaration so a module containing declarations outside
// this pass's scope still round-trips rather than being rejected.
type Decl struct {
	Kind string `json:"kind"`

	ClassName string   `json:"class_name,omitempty"`
	ClassArgs []string `json:"class_args,omitempty"`
	Members   []Member `json:"members,omitempty"`
	Implies   []Type   `json:"implies,omitempty"`
	Deps      []FunDep `json:"deps,omitempty"`

	InstName     string      `json:"instance_name,omitempty"`
	InstClass    string      `json:"instance_class,omitempty"`
	InstClassMod []string    `json:"instance_class_module,omitempty"`
	InstTypes    []Type      `json:"instance_types,omitempty"`
	InstDeps     []Type      `json:"instance_deps,omitempty"`
	InstMembers  []ValueDecl `json:"instance_members,omitempty"`

	Tag string `json:"tag,omitempty"`
}

func (d Decl) decode(span token.SourceSpan) (ast.Declaration, error) {
	switch d.Kind {
	case "class":
		members := make([]*ast.TypeDeclaration, len(d.Members))
		for i, m := range d.Members {
			ty, err := m.Type.decode()
			if err != nil {
				return nil, fmt.Errorf("class %s member %s: %w", d.ClassName, m.Ident, err)
			}
			members[i] = &ast.TypeDeclaration{Ann: token.SourceAnn{Span: span}, Ident: names.Ident(m.Ident), Type: ty}
		}
		implies := make([]typesystem.Constraint, 0, len(d.Implies))
		for i := range d.Implies {
			ty, err := d.Implies[i].decode()
			if err != nil {
				return nil, fmt.Errorf("class %s superclass %d: %w", d.ClassName, i, err)
			}
			ct, ok := ty.(typesystem.ConstrainedType)
			if !ok {
				return nil, fmt.Errorf("class %s superclass %d is not a constraint", d.ClassName, i)
			}
			implies = append(implies, ct.Constraint)
		}
		deps := make([]ast.FunctionalDependency, len(d.Deps))
		for i, fd := range d.Deps {
			deps[i] = ast.FunctionalDependency{From: fd.From, To: fd.To}
		}
		return &ast.TypeClassDeclaration{
			Ann:          token.SourceAnn{Span: span},
			Name:         names.NewProperName[names.ClassNameKind](d.ClassName),
			Args:         d.ClassArgs,
			Members:      members,
			Superclasses: implies,
			Deps:         deps,
		}, nil
	case "instance":
		args := make([]typesystem.Type, len(d.InstTypes))
		for i := range d.InstTypes {
			ty, err := d.InstTypes[i].decode()
			if err != nil {
				return nil, fmt.Errorf("instance %s arg %d: %w", d.InstName, i, err)
			}
			args[i] = ty
		}
		constraints := make([]typesystem.Constraint, 0, len(d.InstDeps))
		for i := range d.InstDeps {
			ty, err := d.InstDeps[i].decode()
			if err != nil {
				return nil, fmt.Errorf("instance %s constraint %d: %w", d.InstName, i, err)
			}
			ct, ok := ty.(typesystem.ConstrainedType)
			if !ok {
				return nil, fmt.Errorf("instance %s constraint %d is not a constraint", d.InstName, i)
			}
			constraints = append(constraints, ct.Constraint)
		}
		members := make([]ast.Declaration, len(d.InstMembers))
		for i, m := range d.InstMembers {
			members[i] = m.decode(span)
		}
		return &ast.TypeInstanceDeclaration{
			Ann:         token.SourceAnn{Span: span},
			Name:        names.Ident(d.InstName),
			Class:       names.Qualify(names.ModuleName(d.InstClassMod), names.NewProperName[names.ClassNameKind](d.InstClass)),
			Types:       args,
			Constraints: constraints,
			Body:        ast.ExplicitInstance{Decls: members},
		}, nil
	case "other":
		return &ast.OpaqueDeclaration{Ann: token.SourceAnn{Span: span}, Tag: d.Tag}, nil
	default:
		return nil, fmt.Errorf("unknown declaration kind %q", d.Kind)
	}
}

// Module is the JSON shape of a *ast.Module.
type Module struct {
	Name    []string `json:"name"`
	Decls   []Decl   `json:"decls"`
	Exports []string `json:"exports,omitempty"`
}

// DecodeModule unmarshals raw JSON into an *ast.Module ready for
// internal/desugar.Module. Source positions are synthesized as a single
// zero-width span per declaration since this entry point has no real
// source text to point diagnostics at.
func DecodeModule(raw []byte) (*ast.Module, error) {
	var jm Module
	if err := json.Unmarshal(raw, &jm); err != nil {
		return nil, fmt.Errorf("decoding module JSON: %w", err)
	}

	span := token.SourceSpan{Name: "<json>"}
	decls := make([]ast.Declaration, len(jm.Decls))
	for i, d := range jm.Decls {
		decl, err := d.decode(span)
		if err != nil {
			return nil, err
		}
		decls[i] = decl
	}

	mod := &ast.Module{
		Ann:   token.SourceAnn{Span: span},
		Name:  names.ModuleName(jm.Name),
		Decls: decls,
	}
	exports := make([]ast.ExportRef, 0, len(jm.Exports))
	for _, e := range jm.Exports {
		exports = append(exports, ast.TypeClassRef{Name: names.NewProperName[names.ClassNameKind](e)})
	}
	mod.Exports = &exports
	return mod, nil
}

// ExternsFile is the JSON shape of a *ast.ExternsFile, covering only the
// EDClass entries component D actually reads.
type ExternsFile struct {
	ModuleName []string `json:"module_name"`
	Classes    []Decl   `json:"classes"`
}

// DecodeExterns unmarshals raw JSON into an *ast.ExternsFile.
func DecodeExterns(raw []byte) (*ast.ExternsFile, error) {
	var je ExternsFile
	if err := json.Unmarshal(raw, &je); err != nil {
		return nil, fmt.Errorf("decoding externs JSON: %w", err)
	}

	span := token.SourceSpan{Name: "<json-externs>"}
	decls := make([]ast.ExternsDeclaration, 0, len(je.Classes))
	for _, d := range je.Classes {
		if d.Kind != "class" {
			return nil, fmt.Errorf("externs entry has non-class kind %q", d.Kind)
		}
		generic, err := d.decode(span)
		if err != nil {
			return nil, err
		}
		classDecl := generic.(*ast.TypeClassDeclaration)
		members := make([]ast.MemberSig, len(classDecl.Members))
		for i, m := range classDecl.Members {
			members[i] = ast.MemberSig{Ident: m.Ident, Type: m.Type}
		}
		decls = append(decls, ast.EDClass{
			Name:    classDecl.Name,
			Args:    classDecl.Args,
			Members: members,
			Implies: classDecl.Superclasses,
			Deps:    classDecl.Deps,
		})
	}

	return &ast.ExternsFile{
		ModuleName: names.ModuleName(je.ModuleName),
		Decls:      decls,
	}, nil
}

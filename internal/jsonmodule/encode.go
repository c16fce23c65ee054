package jsonmodule

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/classlang/tcdesugar/internal/ast"
)

// declOut is the printable JSON shape EncodeModule emits for one
// declaration. Unlike Decl (the input schema), this is not meant to be
// fed back through DecodeModule — it is a rendering, one step short of
// the teacher's LSP hover text, which also renders types/expressions to
// plain strings rather than re-serializing their full structure.
type declOut struct {
	Kind  string   `json:"kind"`
	Name  string   `json:"name,omitempty"`
	Type  string   `json:"type,omitempty"`
	Expr  string   `json:"expr,omitempty"`
	Decls []declOut `json:"decls,omitempty"`
}

// moduleOut is the printable JSON shape of a whole module.
type moduleOut struct {
	Name    string    `json:"name"`
	Decls   []declOut `json:"decls"`
	Exports []string  `json:"exports"`
}

// EncodeModule renders mod as indented JSON suitable for printing by
// cmd/tcdesugar or returning over internal/rpcserver.
func EncodeModule(mod *ast.Module) ([]byte, error) {
	out := moduleOut{Name: mod.Name.String()}
	for _, d := range mod.Decls {
		out.Decls = append(out.Decls, renderDecl(d))
	}
	if mod.Exports != nil {
		for _, ref := range *mod.Exports {
			out.Exports = append(out.Exports, renderExportRef(ref))
		}
	}
	return json.MarshalIndent(out, "", "  ")
}

func renderExportRef(ref ast.ExportRef) string {
	switch r := ref.(type) {
	case ast.TypeClassRef:
		return "class " + r.Name.String()
	case ast.TypeRef:
		return "type " + r.Name.String()
	case ast.ValueRef:
		return "value " + r.Name.String()
	case ast.TypeInstanceRef:
		return "instance " + r.Name.String()
	default:
		return fmt.Sprintf("%T", ref)
	}
}

func renderDecl(d ast.Declaration) declOut {
	switch n := d.(type) {
	case *ast.PositionedDeclaration:
		return renderDecl(n.Decl)
	case *ast.TypeClassDeclaration:
		return declOut{Kind: "class", Name: n.Name.String()}
	case *ast.TypeSynonymDeclaration:
		return declOut{Kind: "type_synonym", Name: n.Name.String(), Type: n.Type.String()}
	case *ast.TypeInstanceDeclaration:
		members := renderInstanceBody(n.Body)
		return declOut{Kind: "instance", Name: n.Name.String(), Type: n.Class.String(), Decls: members}
	case *ast.ValueDeclaration:
		exprs := make([]string, len(n.Bodies))
		for i, b := range n.Bodies {
			exprs[i] = renderExpr(b.Expr)
		}
		return declOut{Kind: "value", Name: n.Ident.String(), Expr: strings.Join(exprs, " | ")}
	case *ast.BindingGroupDeclaration:
		children := make([]declOut, len(n.Decls))
		for i, vd := range n.Decls {
			children[i] = renderDecl(vd)
		}
		return declOut{Kind: "binding_group", Decls: children}
	case *ast.DataBindingGroupDeclaration:
		children := make([]declOut, len(n.Decls))
		for i, dd := range n.Decls {
			children[i] = renderDecl(dd)
		}
		return declOut{Kind: "data_binding_group", Decls: children}
	case *ast.OpaqueDeclaration:
		return declOut{Kind: "other", Name: n.Tag}
	default:
		return declOut{Kind: fmt.Sprintf("%T", d)}
	}
}

func renderInstanceBody(body ast.InstanceBody) []declOut {
	switch b := body.(type) {
	case ast.ExplicitInstance:
		out := make([]declOut, len(b.Decls))
		for i, d := range b.Decls {
			out[i] = renderDecl(d)
		}
		return out
	case ast.NewtypeInstanceWithDictionary:
		return []declOut{{Kind: "dict", Expr: renderExpr(b.Dict)}}
	default:
		return nil
	}
}

func renderExpr(e ast.Expr) string {
	switch n := e.(type) {
	case nil:
		return "<nil>"
	case *ast.PositionedValue:
		return renderExpr(n.Value)
	case *ast.Var:
		return n.Name.String()
	case *ast.Constructor:
		return n.Name.String()
	case *ast.App:
		return fmt.Sprintf("(%s %s)", renderExpr(n.Func), renderExpr(n.Arg))
	case *ast.Abs:
		return fmt.Sprintf("(\\%s -> %s)", renderBinder(n.Binder), renderExpr(n.Body))
	case *ast.TypedValue:
		return fmt.Sprintf("(%s :: %s)", renderExpr(n.Value), n.Type.String())
	case *ast.ObjectLiteral:
		fields := make([]string, len(n.Fields))
		for i, f := range n.Fields {
			fields[i] = fmt.Sprintf("%s: %s", f.Label, renderExpr(f.Value))
		}
		return "{" + strings.Join(fields, ", ") + "}"
	case *ast.ObjectUpdate:
		updates := make([]string, len(n.Updates))
		for i, f := range n.Updates {
			updates[i] = fmt.Sprintf("%s: %s", f.Label, renderExpr(f.Value))
		}
		return fmt.Sprintf("%s { %s }", renderExpr(n.Object), strings.Join(updates, ", "))
	case *ast.Accessor:
		return fmt.Sprintf("%s.%s", renderExpr(n.Value), n.Label)
	case *ast.TypeClassDictionaryAccessor:
		return fmt.Sprintf("%s.%s", n.Class.String(), n.Member.String())
	case *ast.TypeClassDictionaryConstructorApp:
		return fmt.Sprintf("%s#dict(%s)", n.Class.String(), renderExpr(n.Expr))
	case *ast.SuperclassDictionary:
		return fmt.Sprintf("%s#super[%d]", n.Class.String(), n.Index)
	case *ast.DeferredDictionary:
		return fmt.Sprintf("%s#deferred", n.Class.String())
	case *ast.TypeClassDictionary:
		return fmt.Sprintf("%s#dict", n.Constraint.Class.String())
	case *ast.Let:
		decls := make([]string, len(n.Decls))
		for i, d := range n.Decls {
			decls[i] = renderDecl(d).Name
		}
		return fmt.Sprintf("let %s in %s", strings.Join(decls, "; "), renderExpr(n.Body))
	case *ast.IfThenElse:
		return fmt.Sprintf("(if %s then %s else %s)", renderExpr(n.Cond), renderExpr(n.Then), renderExpr(n.Else))
	default:
		return fmt.Sprintf("<%T>", e)
	}
}

func renderBinder(b ast.Binder) string {
	switch n := b.(type) {
	case *ast.VarBinder:
		return n.Name.String()
	case *ast.NullBinder:
		return "_"
	default:
		return fmt.Sprintf("<%T>", b)
	}
}

package desugar

import (
	"github.com/classlang/tcdesugar/internal/ast"
	"github.com/classlang/tcdesugar/internal/diagnostics"
	"github.com/classlang/tcdesugar/internal/symbols"
)

// Module implements spec.md §4.G (output assembly) on top of §4.E/§4.F:
// it stable-sorts a module's declarations classes-first, dispatches
// each to class or instance desugaring (passing everything else
// through unchanged), and appends every synthesized TypeInstanceRef to
// the module's existing export list. table both seeds and accumulates
// MemberMap entries across the call, per spec.md §2's "E additionally
// updates C".
func Module(mod *ast.Module, table *symbols.MemberMap, desugarCases CaseDesugarer) (*ast.Module, error) {
	if !mod.HasExports() {
		return nil, diagnostics.Internal(mod.Ann.Span, "exports should have been elaborated")
	}

	ordered := ClassesFirst(mod.Decls)
	exports := *mod.Exports

	outDecls := make([]ast.Declaration, 0, len(ordered))
	var newExports []ast.ExportRef

	for _, raw := range ordered {
		switch d := unwrapPositioned(raw).(type) {
		case *ast.TypeClassDeclaration:
			produced := DesugarClass(mod.Name, d, table)
			rewrapOriginal(raw, produced)
			outDecls = append(outDecls, produced...)
		case *ast.TypeInstanceDeclaration:
			produced, export, err := DesugarInstance(mod.Name, d, table, exports, desugarCases)
			if err != nil {
				return nil, err
			}
			rewrapOriginal(raw, produced)
			outDecls = append(outDecls, produced...)
			if export != nil {
				newExports = append(newExports, export)
			}
		default:
			outDecls = append(outDecls, raw)
		}
	}

	exportsCopy := make([]ast.ExportRef, len(exports))
	copy(exportsCopy, exports)
	result := &ast.Module{Ann: mod.Ann, Name: mod.Name, Decls: outDecls, Exports: &exportsCopy}
	result.AddExports(newExports...)
	return result, nil
}

// rewrapOriginal restores raw's PositionedDeclaration wrapper (and the
// comments it carries) around the kept original declaration, which
// DesugarClass/DesugarInstance always return unwrapped as produced[0].
// A declaration that never had a wrapper is left untouched.
func rewrapOriginal(raw ast.Declaration, produced []ast.Declaration) {
	if positioned, ok := raw.(*ast.PositionedDeclaration); ok && len(produced) > 0 {
		produced[0] = &ast.PositionedDeclaration{Ann: positioned.Ann, Decl: produced[0]}
	}
}

// Package analyzers implements the four call-site analyzers: direct and
// helper logger calls, directive-declared partial methods, delegate-
// factory calls, and scope-begin calls. Each analyzer walks one syntax
// tree and returns the UsageRecords it finds; internal/extract runs all
// four over every tree and merges the results.
package analyzers

import (
	"go/ast"
	"go/token"
	"go/types"

	"codenerd/logprobe/internal/registry"
	"codenerd/logprobe/internal/snapshot"
	logprobetypes "codenerd/logprobe/internal/types"
)

// Context is the per-tree state every analyzer needs.
type Context struct {
	Tree snapshot.Tree
	Info *types.Info
	Reg  *registry.Registry

	// Snap is used only by the directive-declared analyzer, to resolve
	// call sites across the workspace. May be nil; the directive-declared
	// analyzer then records no call sites.
	Snap snapshot.Snapshot
}

// resolveCallee returns the *types.Func a call expression resolves to, or
// nil when it isn't a direct function/method reference.
func resolveCallee(info *types.Info, call *ast.CallExpr) *types.Func {
	var ident *ast.Ident
	switch fn := call.Fun.(type) {
	case *ast.Ident:
		ident = fn
	case *ast.SelectorExpr:
		ident = fn.Sel
	default:
		return nil
	}
	obj, ok := info.Uses[ident]
	if !ok {
		return nil
	}
	fn, _ := obj.(*types.Func)
	return fn
}

// logicalArgs returns the arguments a logger method call carries after the
// logger receiver itself: for an instance-method call the receiver is
// already outside call.Args, so they pass through unchanged; for an
// extension-style helper whose first formal parameter is the logger, the
// first actual argument is dropped.
func logicalArgs(sig *types.Signature, call *ast.CallExpr) []ast.Expr {
	if sig.Recv() != nil {
		return call.Args
	}
	if len(call.Args) == 0 {
		return call.Args
	}
	return call.Args[1:]
}

func locationOf(t snapshot.Tree, start, end token.Pos) logprobetypes.Location {
	sp := t.Fset.Position(start)
	ep := t.Fset.Position(end)
	return logprobetypes.Location{
		File:      sp.Filename,
		StartLine: sp.Line,
		StartCol:  sp.Column,
		EndLine:   ep.Line,
		EndCol:    ep.Column,
	}
}

func locationIdentifier(t snapshot.Tree, pos token.Pos) string {
	p := t.Fset.Position(pos)
	return logprobetypes.Location{File: p.Filename, StartLine: p.Line, StartCol: p.Column}.Identifier()
}

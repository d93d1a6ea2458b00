// Package xref implements the cross-reference finder: given an
// attribute-declared (directive-declared) log method's symbol, enumerate
// every call site across the workspace, or fall back to the current
// syntax tree alone when no workspace-wide view is available.
package xref

import (
	"go/ast"
	"go/token"
	"go/types"

	"codenerd/logprobe/internal/snapshot"
	logprobetypes "codenerd/logprobe/internal/types"
)

// Find returns the invocation records for fn. When snap can enumerate
// callers workspace-wide, every project is searched; otherwise only own
// is scanned for syntactically-matching calls, resolved against info (the
// semantic model of own's tree).
func Find(snap snapshot.Snapshot, own snapshot.Tree, info *types.Info, fn *types.Func) []logprobetypes.InvocationRecord {
	if callers, ok := snap.FindCallers(fn); ok {
		out := make([]logprobetypes.InvocationRecord, 0, len(callers))
		for _, c := range callers {
			rec, ok := fromCaller(c, fn)
			if ok {
				out = append(out, rec)
			}
		}
		return out
	}
	return scanTreeFallback(own, info, fn)
}

func fromCaller(c snapshot.Caller, fn *types.Func) (logprobetypes.InvocationRecord, bool) {
	call, ok := enclosingCall(c.Tree.File, c.Ident)
	if !ok {
		return logprobetypes.InvocationRecord{}, false
	}
	return logprobetypes.InvocationRecord{
		ContainingType: c.ContainerType,
		Location:       locationOf(c.Tree, call.Pos(), call.End()),
		Arguments:      argumentDescriptors(fn),
	}, true
}

// scanTreeFallback searches own's tree for calls whose resolved callee is
// exactly fn, by semantic identity obtained from that tree's own Info.
func scanTreeFallback(own snapshot.Tree, info *types.Info, fn *types.Func) []logprobetypes.InvocationRecord {
	var out []logprobetypes.InvocationRecord
	ast.Inspect(own.File, func(n ast.Node) bool {
		call, ok := n.(*ast.CallExpr)
		if !ok {
			return true
		}
		callee := calleeFunc(call, info)
		if callee == nil || !sameMethod(callee, fn) {
			return true
		}
		out = append(out, logprobetypes.InvocationRecord{
			ContainingType: "",
			Location:       locationOf(own, call.Pos(), call.End()),
			Arguments:      argumentDescriptors(fn),
		})
		return true
	})
	return out
}

// sameMethod compares by canonical symbol identity first, falling back to
// same name + same containing type + identical parameter-type sequence —
// the generator-synthesized counterpart the spec calls out, since the
// synthesized body lives in a different file than the directive.
func sameMethod(a, b *types.Func) bool {
	if a == b {
		return true
	}
	if a.Name() != b.Name() {
		return false
	}
	asig, aok := a.Type().(*types.Signature)
	bsig, bok := b.Type().(*types.Signature)
	if !aok || !bok {
		return false
	}
	if !sameRecvType(asig, bsig) {
		return false
	}
	return sameParamTypes(asig, bsig)
}

func sameRecvType(a, b *types.Signature) bool {
	ar, br := a.Recv(), b.Recv()
	if ar == nil || br == nil {
		return ar == br
	}
	return types.Identical(ar.Type(), br.Type())
}

func sameParamTypes(a, b *types.Signature) bool {
	if a.Params().Len() != b.Params().Len() {
		return false
	}
	for i := 0; i < a.Params().Len(); i++ {
		if !types.Identical(a.Params().At(i).Type(), b.Params().At(i).Type()) {
			return false
		}
	}
	return true
}

func calleeFunc(call *ast.CallExpr, info *types.Info) *types.Func {
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
	fn, ok := obj.(*types.Func)
	if !ok {
		return nil
	}
	return fn
}

func enclosingCall(file *ast.File, ident *ast.Ident) (*ast.CallExpr, bool) {
	var found *ast.CallExpr
	ast.Inspect(file, func(n ast.Node) bool {
		call, ok := n.(*ast.CallExpr)
		if !ok {
			return true
		}
		if exprContains(call.Fun, ident) {
			found = call
		}
		return true
	})
	if found == nil {
		return nil, false
	}
	return found, true
}

func exprContains(expr ast.Expr, target *ast.Ident) bool {
	switch e := expr.(type) {
	case *ast.Ident:
		return e == target
	case *ast.SelectorExpr:
		return e.Sel == target || exprContains(e.X, target)
	default:
		return false
	}
}

func argumentDescriptors(fn *types.Func) []logprobetypes.ArgumentDescriptor {
	sig, ok := fn.Type().(*types.Signature)
	if !ok {
		return nil
	}
	params := sig.Params()
	out := make([]logprobetypes.ArgumentDescriptor, 0, params.Len())
	for i := 0; i < params.Len(); i++ {
		p := params.At(i)
		out = append(out, logprobetypes.ArgumentDescriptor{Name: p.Name(), Type: p.Type().String()})
	}
	return out
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

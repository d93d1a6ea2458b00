package analyzers

import (
	"go/ast"
	"go/types"

	"codenerd/logprobe/internal/align"
	"codenerd/logprobe/internal/eventid"
	"codenerd/logprobe/internal/operand"
	"codenerd/logprobe/internal/template"
	logprobetypes "codenerd/logprobe/internal/types"
)

// DelegateFactoryCalls scans invocations of a Define* delegate-factory
// function: level is argument 0, event id is derived from argument 1,
// template is argument 2, and parameters come from the call's
// instantiated type arguments aligned by position to template
// placeholders. Only calls through a bare identifier (Define2[...](...),
// with the factory in the same package or dot-imported) are recognized;
// package-qualified calls such as logkit.Define2[...](...) are not.
func DelegateFactoryCalls(ctx Context) []logprobetypes.UsageRecord {
	var out []logprobetypes.UsageRecord
	ast.Inspect(ctx.Tree.File, func(n ast.Node) bool {
		call, ok := n.(*ast.CallExpr)
		if !ok {
			return true
		}
		fn, typeArgs, ok := resolveDelegateFactoryCall(ctx, call)
		if !ok {
			return true
		}
		rec, ok := delegateRecord(ctx, fn, call, typeArgs)
		if ok {
			out = append(out, rec)
		}
		return true
	})
	return out
}

func resolveDelegateFactoryCall(ctx Context, call *ast.CallExpr) (*types.Func, []types.Type, bool) {
	var ident *ast.Ident
	switch e := call.Fun.(type) {
	case *ast.Ident:
		ident = e
	case *ast.IndexExpr:
		id, ok := e.X.(*ast.Ident)
		if !ok {
			return nil, nil, false
		}
		ident = id
	case *ast.IndexListExpr:
		id, ok := e.X.(*ast.Ident)
		if !ok {
			return nil, nil, false
		}
		ident = id
	default:
		return nil, nil, false
	}
	obj, ok := ctx.Info.Uses[ident]
	if !ok {
		return nil, nil, false
	}
	fn, ok := obj.(*types.Func)
	if !ok {
		return nil, nil, false
	}
	if _, ok := ctx.Reg.DelegateFactoryFunc(fn); !ok {
		return nil, nil, false
	}
	return fn, instantiatedTypeArgs(ctx.Info, call), true
}

func instantiatedTypeArgs(info *types.Info, call *ast.CallExpr) []types.Type {
	inst, ok := info.Instances[calleeIdent(call)]
	if !ok || inst.TypeArgs == nil {
		return nil
	}
	out := make([]types.Type, inst.TypeArgs.Len())
	for i := 0; i < inst.TypeArgs.Len(); i++ {
		out[i] = inst.TypeArgs.At(i)
	}
	return out
}

func calleeIdent(call *ast.CallExpr) *ast.Ident {
	switch e := call.Fun.(type) {
	case *ast.Ident:
		return e
	case *ast.IndexExpr:
		id, _ := e.X.(*ast.Ident)
		return id
	case *ast.IndexListExpr:
		id, _ := e.X.(*ast.Ident)
		return id
	default:
		return nil
	}
}

// delegateLevel resolves the factory call's level argument through the
// registry's resolved level constants rather than the declared Go
// identifier name, so the conventional "Level" prefix (LevelWarning,
// LevelError, ...) is stripped the same way the Direct/Helper analyzer
// does. A level that fails to resolve drops the whole record rather than
// silently defaulting to the enum's zero value.
func delegateLevel(ctx Context, expr ast.Expr) (logprobetypes.LogLevel, bool) {
	obj, ok := levelConstObj(ctx.Info, expr)
	if !ok {
		return 0, false
	}
	name, ok := ctx.Reg.IsLevelConstRef(obj)
	if !ok {
		return 0, false
	}
	return logprobetypes.ParseLevel(name)
}

func delegateRecord(ctx Context, fn *types.Func, call *ast.CallExpr, typeArgs []types.Type) (logprobetypes.UsageRecord, bool) {
	if len(call.Args) < 3 {
		return logprobetypes.UsageRecord{}, false
	}
	level, ok := delegateLevel(ctx, call.Args[0])
	if !ok {
		return logprobetypes.UsageRecord{}, false
	}

	evt := eventid.FromOperandExpr(ctx.Reg, ctx.Info, call.Args[1])

	tmplOp := operand.Resolve(ctx.Info, call.Args[2])
	if tmplOp.Kind != logprobetypes.OperandConstant {
		return logprobetypes.UsageRecord{}, false
	}
	tmplText, ok := tmplOp.Value.(string)
	if !ok {
		return logprobetypes.UsageRecord{}, false
	}
	placeholders := template.Parse(tmplText)
	params := align.GenericTypeArguments(placeholders, typeArgs)

	return logprobetypes.UsageRecord{
		Identifier:   locationIdentifier(ctx.Tree, call.Pos()),
		MethodKind:   logprobetypes.DelegateFactory,
		MethodName:   fn.Name(),
		Level:        &level,
		EventIDValue: &evt,
		Template:     &tmplText,
		Parameters:   params,
		Location:     locationOf(ctx.Tree, call.Pos(), call.End()),
	}, true
}

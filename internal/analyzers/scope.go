package analyzers

import (
	"go/ast"
	"go/types"

	"codenerd/logprobe/internal/align"
	"codenerd/logprobe/internal/operand"
	"codenerd/logprobe/internal/template"
	logprobetypes "codenerd/logprobe/internal/types"
)

// ScopeBeginCalls scans every invocation of the logger interface's
// scope-begin method (or its extension-helper form with a template).
func ScopeBeginCalls(ctx Context) []logprobetypes.UsageRecord {
	var out []logprobetypes.UsageRecord
	ast.Inspect(ctx.Tree.File, func(n ast.Node) bool {
		call, ok := n.(*ast.CallExpr)
		if !ok {
			return true
		}
		fn := resolveCallee(ctx.Info, call)
		if fn == nil || !isScopeBeginMethod(ctx, fn) {
			return true
		}
		rec, ok := scopeRecord(ctx, fn, call)
		if ok {
			out = append(out, rec)
		}
		return true
	})
	return out
}

func isScopeBeginMethod(ctx Context, fn *types.Func) bool {
	sig, ok := fn.Type().(*types.Signature)
	if !ok {
		return false
	}
	if recv := sig.Recv(); recv != nil {
		return ctx.Reg.IsLoggerType(recv.Type()) && fn.Name() == "BeginScope"
	}
	if sig.Params().Len() == 0 {
		return false
	}
	return ctx.Reg.IsLoggerType(sig.Params().At(0).Type()) && isScopeHelperName(fn.Name())
}

func isScopeHelperName(name string) bool {
	return name == "BeginScope" || name == "BeginScopef"
}

func scopeRecord(ctx Context, fn *types.Func, call *ast.CallExpr) (logprobetypes.UsageRecord, bool) {
	sig, ok := fn.Type().(*types.Signature)
	if !ok {
		return logprobetypes.UsageRecord{}, false
	}
	args := logicalArgs(sig, call)
	if len(args) == 0 {
		return logprobetypes.UsageRecord{}, false
	}

	// Extension-helper form with a leading constant template.
	if op := operand.Resolve(ctx.Info, args[0]); op.Kind == logprobetypes.OperandConstant {
		if tmplText, ok := op.Value.(string); ok {
			placeholders := template.Parse(tmplText)
			params := paramsArrayFrom(ctx.Info, placeholders, args[1:], call)
			return logprobetypes.UsageRecord{
				Identifier: locationIdentifier(ctx.Tree, call.Pos()),
				MethodKind: logprobetypes.ScopeBegin,
				MethodName: fn.Name(),
				Template:   &tmplText,
				Parameters: params,
				Location:   locationOf(ctx.Tree, call.Pos(), call.End()),
			}, true
		}
	}

	// Core form: the state argument is examined structurally.
	state := args[0]
	var params []logprobetypes.MessageParameter
	switch lit := unwrapParen(state).(type) {
	case *ast.CompositeLit:
		if kv := align.KeyValuePairs(ctx.Info, ctx.Reg, lit); kv != nil {
			params = kv
		} else {
			params = align.AnonymousObject(ctx.Info, lit)
		}
	default:
		params = align.KeyValuePairs(ctx.Info, ctx.Reg, state)
	}
	if params == nil {
		params = []logprobetypes.MessageParameter{{
			Name: "state",
			Type: typeNameOf(ctx.Info, state),
			Kind: "Reference",
		}}
	}

	return logprobetypes.UsageRecord{
		Identifier: locationIdentifier(ctx.Tree, call.Pos()),
		MethodKind: logprobetypes.ScopeBegin,
		MethodName: fn.Name(),
		Parameters: params,
		Location:   locationOf(ctx.Tree, call.Pos(), call.End()),
	}, true
}

func unwrapParen(e ast.Expr) ast.Expr {
	for {
		p, ok := e.(*ast.ParenExpr)
		if !ok {
			return e
		}
		e = p.X
	}
}

func typeNameOf(info *types.Info, expr ast.Expr) string {
	if t := info.TypeOf(expr); t != nil {
		return t.String()
	}
	return ""
}

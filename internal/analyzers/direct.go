package analyzers

import (
	"go/ast"
	"go/types"
	"strings"

	"codenerd/logprobe/internal/align"
	"codenerd/logprobe/internal/eventid"
	"codenerd/logprobe/internal/operand"
	"codenerd/logprobe/internal/template"
	logprobetypes "codenerd/logprobe/internal/types"
)

// DirectLoggerCalls scans every invocation whose resolved method the
// registry recognizes as a logger method: an instance method on the
// logger interface, or an extension-style helper whose first formal
// parameter is the logger interface.
func DirectLoggerCalls(ctx Context) []logprobetypes.UsageRecord {
	var out []logprobetypes.UsageRecord
	ast.Inspect(ctx.Tree.File, func(n ast.Node) bool {
		call, ok := n.(*ast.CallExpr)
		if !ok {
			return true
		}
		fn := resolveCallee(ctx.Info, call)
		if fn == nil || !ctx.Reg.IsLoggerMethod(fn) {
			return true
		}
		rec, ok := directRecord(ctx, fn, call)
		if ok {
			out = append(out, rec)
		}
		return true
	})
	return out
}

func directRecord(ctx Context, fn *types.Func, call *ast.CallExpr) (logprobetypes.UsageRecord, bool) {
	sig, ok := fn.Type().(*types.Signature)
	if !ok {
		return logprobetypes.UsageRecord{}, false
	}
	args := logicalArgs(sig, call)

	level, ok := levelFromCall(ctx, fn, sig, args)
	if !ok {
		return logprobetypes.UsageRecord{}, false
	}

	tmplIdx, tmplText, hasTmpl := constantStringArg(ctx.Info, args)

	var evt *logprobetypes.EventID
	if id, found := eventid.FromArgumentList(ctx.Reg, ctx.Info, sig, args); found {
		evt = &id
	}

	var tmplPtr *string
	var params []logprobetypes.MessageParameter
	if hasTmpl {
		tmplPtr = &tmplText
		placeholders := template.Parse(tmplText)
		rest := args[tmplIdx+1:]
		params = paramsArrayFrom(ctx.Info, placeholders, rest, call)
	}

	return logprobetypes.UsageRecord{
		Identifier:   locationIdentifier(ctx.Tree, call.Pos()),
		MethodKind:   logprobetypes.DirectLogger,
		MethodName:   fn.Name(),
		Level:        &level,
		EventIDValue: evt,
		Template:     tmplPtr,
		Parameters:   params,
		Location:     locationOf(ctx.Tree, call.Pos(), call.End()),
	}, true
}

// levelFromCall determines the log level either from a Log<Level> method
// name, or — for the generic level-as-argument method — from the first
// constant level-enum reference among args.
func levelFromCall(ctx Context, fn *types.Func, sig *types.Signature, args []ast.Expr) (logprobetypes.LogLevel, bool) {
	if lvl, ok := levelFromMethodName(fn.Name()); ok {
		return lvl, true
	}
	for _, a := range args {
		t := ctx.Info.TypeOf(a)
		if t == nil || !ctx.Reg.IsLevelType(t) {
			continue
		}
		obj, ok := levelConstObj(ctx.Info, a)
		if !ok {
			continue
		}
		name, ok := ctx.Reg.IsLevelConstRef(obj)
		if !ok {
			continue
		}
		lvl, ok := logprobetypes.ParseLevel(name)
		if !ok {
			continue
		}
		return lvl, true
	}
	return 0, false
}

func levelFromMethodName(name string) (logprobetypes.LogLevel, bool) {
	name = strings.TrimSuffix(name, "f")
	if !strings.HasPrefix(name, "Log") {
		return 0, false
	}
	return logprobetypes.ParseLevel(strings.TrimPrefix(name, "Log"))
}

// levelConstObj resolves expr to the types.Object it refers to, when expr
// is a bare identifier or a qualified (package- or dot-imported) selector
// naming a constant. The registry, not the declared Go identifier name,
// decides whether that constant is a recognized level value.
func levelConstObj(info *types.Info, expr ast.Expr) (types.Object, bool) {
	var ident *ast.Ident
	switch e := expr.(type) {
	case *ast.Ident:
		ident = e
	case *ast.SelectorExpr:
		ident = e.Sel
	default:
		return nil, false
	}
	obj, ok := info.Uses[ident]
	if !ok {
		return nil, false
	}
	if _, ok := obj.(*types.Const); !ok {
		return nil, false
	}
	return obj, true
}

// constantStringArg finds the first arg whose operand is a constant
// string, returning its index within args.
func constantStringArg(info *types.Info, args []ast.Expr) (int, string, bool) {
	for i, a := range args {
		op := operand.Resolve(info, a)
		if op.Kind != logprobetypes.OperandConstant {
			continue
		}
		s, ok := op.Value.(string)
		if !ok {
			continue
		}
		return i, s, true
	}
	return -1, "", false
}

func paramsArrayFrom(info *types.Info, placeholders []logprobetypes.TemplatePlaceholder, rest []ast.Expr, call *ast.CallExpr) []logprobetypes.MessageParameter {
	if call.Ellipsis.IsValid() && len(rest) == 1 {
		if lit, ok := unwrapParen(rest[0]).(*ast.CompositeLit); ok && len(lit.Elts) > 0 {
			return align.ParamsArray(info, placeholders, lit, lit.Elts)
		}
		return align.ParamsArray(info, placeholders, rest[0], nil)
	}
	if len(rest) == 0 {
		return align.ParamsArray(info, placeholders, nil, nil)
	}
	return align.ParamsArray(info, placeholders, nil, rest)
}

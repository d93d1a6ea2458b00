// Package eventid recovers an EventID from an argument list or a bare
// operand, as either a constructed (id, name) pair or a symbolic
// reference.
package eventid

import (
	"go/ast"
	"go/types"

	"codenerd/logprobe/internal/operand"
	"codenerd/logprobe/internal/registry"
	logprobetypes "codenerd/logprobe/internal/types"
)

// FromArgumentList walks the callee's parameters looking for the first one
// typed as the event-id struct; when that argument's operand is Missing
// (the caller's implicit default), the next candidate parameter (if any)
// is tried. Returns false when no event-id-typed parameter has a
// non-Missing argument, whether no such parameter exists or every one of
// them is Missing.
func FromArgumentList(reg *registry.Registry, info *types.Info, sig *types.Signature, args []ast.Expr) (logprobetypes.EventID, bool) {
	if reg.EventIDType == nil {
		return logprobetypes.EventID{}, false
	}
	params := sig.Params()
	n := params.Len()
	if sig.Variadic() {
		n--
	}
	for i := 0; i < n && i < len(args); i++ {
		if !reg.IsEventIDType(params.At(i).Type()) {
			continue
		}
		op := operand.Resolve(info, args[i])
		if op.IsMissing() {
			continue
		}
		return FromOperandExpr(reg, info, args[i]), true
	}
	return logprobetypes.EventID{}, false
}

// FromOperandExpr extracts an EventID directly from a bare expression,
// without consulting a parameter list.
func FromOperandExpr(reg *registry.Registry, info *types.Info, expr ast.Expr) logprobetypes.EventID {
	if expr == nil {
		return logprobetypes.Details(logprobetypes.Missing, logprobetypes.Missing)
	}

	// Constructor form: EventID{id, name} or EventID{ID: id, Name: name}.
	if lit, ok := asEventIDComposite(reg, info, expr); ok {
		return extractFromComposite(info, lit)
	}
	if call, ok := expr.(*ast.CallExpr); ok {
		if isEventIDConversion(reg, info, call) && len(call.Args) >= 1 {
			// EventID(id) or EventID(id, name) as a conversion-style call.
			idOp := operand.Resolve(info, call.Args[0])
			nameOp := logprobetypes.Missing
			if len(call.Args) >= 2 {
				nameOp = operand.Resolve(info, call.Args[1])
			}
			return logprobetypes.Details(idOp, nameOp)
		}
	}

	// Literal: a bare integer constant.
	op := operand.Resolve(info, expr)
	if op.Kind == logprobetypes.OperandConstant {
		if _, isInt := op.Value.(int64); isInt {
			return logprobetypes.Details(op, logprobetypes.Missing)
		}
	}

	// Any other symbolic expression.
	return logprobetypes.Ref(operationKind(expr), exprText(expr))
}

// FromAttributeArgs synthesizes an EventID from a directive-declared
// method's parsed arguments: whichever of id/name are present become the
// Details fields. When neither is present the caller must omit the event
// id from the record entirely, rather than represent it as a
// Missing/Missing Details.
func FromAttributeArgs(id *int, name *string) (logprobetypes.EventID, bool) {
	if id == nil && name == nil {
		return logprobetypes.EventID{}, false
	}
	idOp := logprobetypes.Missing
	if id != nil {
		idOp = logprobetypes.Constant(int64(*id), "int")
	}
	nameOp := logprobetypes.Missing
	if name != nil {
		nameOp = logprobetypes.Constant(*name, "string")
	}
	return logprobetypes.Details(idOp, nameOp), true
}

func asEventIDComposite(reg *registry.Registry, info *types.Info, expr ast.Expr) (*ast.CompositeLit, bool) {
	lit, ok := expr.(*ast.CompositeLit)
	if !ok {
		return nil, false
	}
	t := info.TypeOf(lit)
	if t == nil || !reg.IsEventIDType(t) {
		return nil, false
	}
	return lit, true
}

func isEventIDConversion(reg *registry.Registry, info *types.Info, call *ast.CallExpr) bool {
	t := info.TypeOf(call.Fun)
	return t != nil && reg.IsEventIDType(t)
}

func extractFromComposite(info *types.Info, lit *ast.CompositeLit) logprobetypes.EventID {
	idOp, nameOp := logprobetypes.Missing, logprobetypes.Missing
	for i, elt := range lit.Elts {
		if kv, ok := elt.(*ast.KeyValueExpr); ok {
			key, _ := kv.Key.(*ast.Ident)
			if key == nil {
				continue
			}
			op := operand.Resolve(info, kv.Value)
			switch key.Name {
			case "ID", "Id":
				idOp = op
			case "Name":
				nameOp = op
			}
			continue
		}
		// Positional: ID is field 0, Name is field 1.
		op := operand.Resolve(info, elt)
		if i == 0 {
			idOp = op
		} else if i == 1 {
			nameOp = op
		}
	}
	if idOp.IsMissing() && nameOp.IsMissing() {
		// An empty EventID{} literal carries no recoverable id or name;
		// represent it as an unevaluated reference rather than a Details
		// value with both fields Missing.
		return logprobetypes.Ref(operationKind(lit), exprText(lit))
	}
	return logprobetypes.Details(idOp, nameOp)
}

func operationKind(expr ast.Expr) string {
	switch expr.(type) {
	case *ast.Ident:
		return "Identifier"
	case *ast.SelectorExpr:
		return "MemberAccess"
	case *ast.CallExpr:
		return "Call"
	default:
		return "Expression"
	}
}

func exprText(expr ast.Expr) string {
	return types.ExprString(expr)
}

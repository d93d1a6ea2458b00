// Package operand classifies a call argument expression as a known
// constant, an unevaluated reference, or Missing, after peeling implicit
// conversions and parentheses.
//
// go/types.Info.Types[expr].Value already folds constant expressions
// (literals, const references, compile-time arithmetic) down to a
// constant.Value, so classification mostly comes down to reading that
// field and otherwise recording the expression's shape.
package operand

import (
	"go/ast"
	"go/constant"
	"go/types"

	logprobetypes "codenerd/logprobe/internal/types"
)

// Resolve classifies expr using info, the semantic model of the
// compilation unit expr belongs to. It never evaluates user methods: a
// call expression that is not itself a recognized constant folds to a
// Reference, never to Missing or an error.
//
// A nil expr represents the language's implicit-default-value construct
// (an elided argument) and always resolves to Missing (rule 1).
func Resolve(info *types.Info, expr ast.Expr) logprobetypes.Operand {
	if expr == nil {
		return logprobetypes.Missing
	}

	inner := peel(info, expr)

	// Rules 2-3: compile-time-known constant (covers both named-constant
	// references and literals with a computable constant value).
	if tv, ok := info.Types[inner]; ok && tv.Value != nil {
		return logprobetypes.Constant(constantGoValue(tv.Value), typeString(info, inner))
	}

	// Rule 4: everything else is an unevaluated reference.
	return logprobetypes.Reference(operationKind(inner), exprText(inner))
}

// peel walks past parenthesization and explicit identity conversions to
// the underlying producing expression, mirroring the C# analyzer's walk
// past IConversionOperation/boxing nodes. Go's type checker does not
// surface implicit assignability conversions as distinct AST nodes, so
// peeling here is limited to what is syntactically present.
func peel(info *types.Info, expr ast.Expr) ast.Expr {
	for {
		switch e := expr.(type) {
		case *ast.ParenExpr:
			expr = e.X
		case *ast.CallExpr:
			if arg, ok := identityConversionArg(info, e); ok {
				expr = arg
				continue
			}
			return e
		default:
			return expr
		}
	}
}

// identityConversionArg reports whether call is a single-argument type
// conversion (e.g. string(x), MyLevel(x)) and, if so, returns the
// converted expression.
func identityConversionArg(info *types.Info, call *ast.CallExpr) (ast.Expr, bool) {
	if len(call.Args) != 1 {
		return nil, false
	}
	if _, isConversion := info.Types[call.Fun]; !isConversion {
		return nil, false
	}
	tv := info.Types[call.Fun]
	if !tv.IsType() {
		return nil, false
	}
	return call.Args[0], true
}

func constantGoValue(v constant.Value) interface{} {
	switch v.Kind() {
	case constant.String:
		return constant.StringVal(v)
	case constant.Bool:
		return constant.BoolVal(v)
	case constant.Int:
		if i, ok := constant.Int64Val(v); ok {
			return i
		}
		return v.String()
	case constant.Float:
		if f, ok := constant.Float64Val(v); ok {
			return f
		}
		return v.String()
	default:
		return v.String()
	}
}

func typeString(info *types.Info, expr ast.Expr) string {
	if t := info.TypeOf(expr); t != nil {
		return t.String()
	}
	return ""
}

func operationKind(expr ast.Expr) string {
	switch expr.(type) {
	case *ast.Ident:
		return "Identifier"
	case *ast.SelectorExpr:
		return "MemberAccess"
	case *ast.CallExpr:
		return "Call"
	case *ast.BinaryExpr:
		return "BinaryOperation"
	case *ast.UnaryExpr:
		return "UnaryOperation"
	case *ast.CompositeLit:
		return "ObjectCreation"
	case *ast.IndexExpr, *ast.IndexListExpr:
		return "IndexExpression"
	default:
		return "Expression"
	}
}

func exprText(expr ast.Expr) string {
	return types.ExprString(expr)
}

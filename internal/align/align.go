// Package align implements the five parameter-alignment strategies that
// recover named message parameters for a logging call: a trailing
// params-array, the callee's own method signature, a delegate factory's
// instantiated type arguments, an anonymous-object initializer, and a
// key-value-pair collection. Each strategy is a small pure function
// sharing the shape try(context) -> []MessageParameter; callers in
// internal/analyzers pick among them by call-site surface rather than a
// type hierarchy.
package align

import (
	"go/ast"
	"go/types"
	"strings"

	"codenerd/logprobe/internal/operand"
	"codenerd/logprobe/internal/registry"
	logprobetypes "codenerd/logprobe/internal/types"
)

// ParamsArray maps template placeholder i to argument i of a trailing
// params-array argument list. Each occurrence of a repeated placeholder
// name consumes its own positional slot. When there are more placeholders
// than elements, alignment stops at the shorter length; it is never
// fabricated past the available elements.
//
// elements is nil when the params-array argument was not a literal
// array/slice composite with an initializer; in that case the whole
// argument becomes a single Reference parameter representing it.
func ParamsArray(info *types.Info, placeholders []logprobetypes.TemplatePlaceholder, wholeArg ast.Expr, elements []ast.Expr) []logprobetypes.MessageParameter {
	if elements == nil {
		if wholeArg == nil {
			return nil
		}
		return []logprobetypes.MessageParameter{{
			Name: "args",
			Type: typeNameOf(info, wholeArg),
			Kind: "Reference",
		}}
	}

	n := len(placeholders)
	if len(elements) < n {
		n = len(elements)
	}
	out := make([]logprobetypes.MessageParameter, 0, n)
	for i := 0; i < n; i++ {
		op := operand.Resolve(info, elements[i])
		out = append(out, logprobetypes.MessageParameter{
			Name: placeholders[i].Name,
			Type: typeNameOf(info, elements[i]),
			Kind: op.Kind.String(),
		})
	}
	return out
}

// MethodSignature aligns placeholders against params, excluding any
// parameter whose type the registry recognizes as logger/level/exception.
// Matching is case-insensitive by name; an unresolved placeholder is
// simply omitted rather than fabricated. Each occurrence of a duplicated
// placeholder name produces its own MessageParameter.
func MethodSignature(reg *registry.Registry, sig *types.Signature, placeholders []logprobetypes.TemplatePlaceholder) []logprobetypes.MessageParameter {
	eligible := make(map[string]*types.Var)
	params := sig.Params()
	for i := 0; i < params.Len(); i++ {
		p := params.At(i)
		if isExcludedParamType(reg, p.Type()) {
			continue
		}
		if p.Name() == "" {
			continue
		}
		eligible[strings.ToLower(p.Name())] = p
	}

	var out []logprobetypes.MessageParameter
	for _, ph := range placeholders {
		p, ok := eligible[strings.ToLower(ph.Name)]
		if !ok {
			continue
		}
		out = append(out, logprobetypes.MessageParameter{
			Name: p.Name(),
			Type: p.Type().String(),
			Kind: "MethodParameter",
		})
	}
	return out
}

func isExcludedParamType(reg *registry.Registry, t types.Type) bool {
	return reg.IsLoggerType(t) || reg.IsLevelType(t) || reg.IsExceptionType(t)
}

// GenericTypeArguments assigns the i-th instantiated type argument of a
// delegate-factory call to the i-th placeholder. The parameter name is the
// placeholder's name; the number of parameters never exceeds the number
// of placeholders.
func GenericTypeArguments(placeholders []logprobetypes.TemplatePlaceholder, typeArgs []types.Type) []logprobetypes.MessageParameter {
	n := len(placeholders)
	if len(typeArgs) < n {
		n = len(typeArgs)
	}
	out := make([]logprobetypes.MessageParameter, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, logprobetypes.MessageParameter{
			Name: placeholders[i].Name,
			Type: typeArgs[i].String(),
			Kind: "GenericTypeArgument",
		})
	}
	return out
}

// AnonymousObject reads each field of an anonymous struct literal's
// initializer as a parameter. Go has no true anonymous object expression;
// the idiomatic stand-in is a composite literal whose type is an unnamed
// struct type, e.g. `struct{ UserID int }{UserID: 5}`.
func AnonymousObject(info *types.Info, lit *ast.CompositeLit) []logprobetypes.MessageParameter {
	var out []logprobetypes.MessageParameter
	for _, elt := range lit.Elts {
		kv, ok := elt.(*ast.KeyValueExpr)
		if !ok {
			continue
		}
		key, ok := kv.Key.(*ast.Ident)
		if !ok {
			continue
		}
		out = append(out, logprobetypes.MessageParameter{
			Name: key.Name,
			Type: typeNameOf(info, kv.Value),
			Kind: "AnonymousProperty",
		})
	}
	return out
}

// KeyValuePairs descends into a scope state expression looking for
// (string-constant key, value) pairs: a composite literal of the KV
// element type, or a map literal (Go's natural "dictionary indexer
// assignment" shape). Only literal forms are descended into — a value
// built up through append calls or other statements is out of reach of a
// purely syntactic walk. A symbolic reference whose static type is a KV
// collection produces one synthetic whole-collection parameter named
// after the identifier.
func KeyValuePairs(info *types.Info, reg *registry.Registry, state ast.Expr) []logprobetypes.MessageParameter {
	switch e := state.(type) {
	case *ast.CompositeLit:
		return keyValuePairsFromComposite(info, e)
	case *ast.Ident:
		if ident, ok := wholeCollectionParam(info, reg, e); ok {
			return []logprobetypes.MessageParameter{ident}
		}
	}
	return nil
}

func keyValuePairsFromComposite(info *types.Info, lit *ast.CompositeLit) []logprobetypes.MessageParameter {
	var out []logprobetypes.MessageParameter

	isMap := false
	if t := info.TypeOf(lit); t != nil {
		if _, ok := t.Underlying().(*types.Map); ok {
			isMap = true
		}
	}

	for _, elt := range lit.Elts {
		switch e := elt.(type) {
		case *ast.KeyValueExpr:
			if !isMap {
				continue
			}
			name, ok := keyConstant(info, e.Key)
			if !ok {
				continue
			}
			op := operand.Resolve(info, e.Value)
			out = append(out, logprobetypes.MessageParameter{
				Name: name,
				Type: typeNameOf(info, e.Value),
				Kind: kindOf(op),
			})
		case *ast.CompositeLit:
			// One entry of a []KV{ {Key: "...", Value: ...}, ... } slice:
			// the Key/Value fields name the pair, not the pair's own
			// position in the outer slice.
			if isMap {
				continue
			}
			if p, ok := kvEntryFields(info, e); ok {
				out = append(out, p)
			}
		}
	}
	return out
}

func kvEntryFields(info *types.Info, entry *ast.CompositeLit) (logprobetypes.MessageParameter, bool) {
	var keyExpr, valueExpr ast.Expr
	for i, elt := range entry.Elts {
		if kv, ok := elt.(*ast.KeyValueExpr); ok {
			field, _ := kv.Key.(*ast.Ident)
			if field == nil {
				continue
			}
			switch field.Name {
			case "Key":
				keyExpr = kv.Value
			case "Value":
				valueExpr = kv.Value
			}
			continue
		}
		if i == 0 {
			keyExpr = elt
		} else if i == 1 {
			valueExpr = elt
		}
	}
	if keyExpr == nil || valueExpr == nil {
		return logprobetypes.MessageParameter{}, false
	}
	name, ok := keyConstant(info, keyExpr)
	if !ok {
		return logprobetypes.MessageParameter{}, false
	}
	op := operand.Resolve(info, valueExpr)
	return logprobetypes.MessageParameter{
		Name: name,
		Type: typeNameOf(info, valueExpr),
		Kind: kindOf(op),
	}, true
}

func keyConstant(info *types.Info, key ast.Expr) (string, bool) {
	op := operand.Resolve(info, key)
	if op.Kind != logprobetypes.OperandConstant {
		return "", false
	}
	s, ok := op.Value.(string)
	return s, ok
}

func wholeCollectionParam(info *types.Info, reg *registry.Registry, ident *ast.Ident) (logprobetypes.MessageParameter, bool) {
	t := info.TypeOf(ident)
	if t == nil {
		return logprobetypes.MessageParameter{}, false
	}
	if !isKVCollection(reg, t) {
		return logprobetypes.MessageParameter{}, false
	}
	return logprobetypes.MessageParameter{
		Name: ident.Name,
		Type: t.String(),
		Kind: "Reference",
	}, true
}

func isKVCollection(reg *registry.Registry, t types.Type) bool {
	if reg.KVPType == nil {
		return false
	}
	switch u := t.Underlying().(type) {
	case *types.Slice:
		return types.Identical(u.Elem(), reg.KVPType)
	case *types.Map:
		return true
	default:
		return false
	}
}

func kindOf(op logprobetypes.Operand) string {
	if op.Kind == logprobetypes.OperandConstant {
		return "Constant"
	}
	return op.OperationKind
}

func typeNameOf(info *types.Info, expr ast.Expr) string {
	if t := info.TypeOf(expr); t != nil {
		return t.String()
	}
	return ""
}

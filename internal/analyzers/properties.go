package analyzers

import (
	"go/types"
	"reflect"

	logprobetypes "codenerd/logprobe/internal/types"
)

const maxPropertyDepth = 10

// extractProperties walks t's exported struct fields into LogPropertyInfo
// values. Recursion only happens when transitive is true, is bounded to
// maxPropertyDepth, and tracks a per-branch visited set so a cyclic type
// graph terminates instead of looping.
func extractProperties(t types.Type, transitive bool, depth int, visited map[types.Type]bool) []logprobetypes.LogPropertyInfo {
	if depth > maxPropertyDepth {
		return nil
	}
	st, ok := derefType(t).Underlying().(*types.Struct)
	if !ok {
		return nil
	}

	var out []logprobetypes.LogPropertyInfo
	for i := 0; i < st.NumFields(); i++ {
		f := st.Field(i)
		if !f.Exported() {
			continue
		}
		tag := reflect.StructTag(st.Tag(i))
		tagName := tag.Get("logname")
		if tagName == "" {
			tagName = f.Name()
		}
		info := logprobetypes.LogPropertyInfo{
			Name:           f.Name(),
			TagName:        tagName,
			TypeName:       f.Type().String(),
			Nullable:       isNullableType(f.Type()),
			Classification: tag.Get("logclass"),
		}
		if transitive {
			info.Nested = recurseField(f.Type(), transitive, depth, visited)
		}
		out = append(out, info)
	}
	return out
}

func recurseField(fieldType types.Type, transitive bool, depth int, visited map[types.Type]bool) []logprobetypes.LogPropertyInfo {
	target := elementTypeOf(fieldType)
	if isSimpleType(target) {
		return nil
	}
	if visited[target] {
		return nil
	}
	branch := make(map[types.Type]bool, len(visited)+1)
	for k := range visited {
		branch[k] = true
	}
	branch[target] = true
	return extractProperties(target, transitive, depth+1, branch)
}

// elementTypeOf unwraps a pointer, and then a slice or array, to reach the
// type recursion should actually inspect.
func elementTypeOf(t types.Type) types.Type {
	t = derefType(t)
	switch u := t.Underlying().(type) {
	case *types.Slice:
		return derefType(u.Elem())
	case *types.Array:
		return derefType(u.Elem())
	default:
		return t
	}
}

func derefType(t types.Type) types.Type {
	if p, ok := t.(*types.Pointer); ok {
		return p.Elem()
	}
	return t
}

func isNullableType(t types.Type) bool {
	switch t.(type) {
	case *types.Pointer:
		return true
	}
	_, isIface := t.Underlying().(*types.Interface)
	return isIface
}

// isSimpleType reports whether t is a primitive, an enum (named type over
// a basic numeric kind), a string, or one of a small set of built-in
// value types that should not be recursed into even under transitive
// extraction: time.Time, time.Duration, uuid.UUID, url.URL.
func isSimpleType(t types.Type) bool {
	if _, ok := t.Underlying().(*types.Basic); ok {
		return true
	}
	named, ok := t.(*types.Named)
	if !ok {
		return false
	}
	switch types.TypeString(named, nil) {
	case "time.Time", "time.Duration", "github.com/google/uuid.UUID", "net/url.URL":
		return true
	}
	return false
}

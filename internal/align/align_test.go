package align

import (
	"go/ast"
	"go/importer"
	"go/parser"
	"go/token"
	"go/types"
	"testing"

	"github.com/stretchr/testify/require"

	"codenerd/logprobe/internal/registry"
	logprobetypes "codenerd/logprobe/internal/types"
)

const fixturePreamble = `package fixture

type KV struct {
	Key   string
	Value any
}
`

func compile(t *testing.T, body string) (*ast.File, *types.Info, *types.Package) {
	t.Helper()
	fset := token.NewFileSet()
	f, err := parser.ParseFile(fset, "fixture.go", fixturePreamble+body, 0)
	require.NoError(t, err)
	info := &types.Info{
		Defs:  make(map[*ast.Ident]types.Object),
		Uses:  make(map[*ast.Ident]types.Object),
		Types: make(map[ast.Expr]types.TypeAndValue),
	}
	conf := types.Config{Importer: importer.Default()}
	pkg, err := conf.Check("fixture", fset, []*ast.File{f}, info)
	require.NoError(t, err)
	return f, info, pkg
}

func findCompositeLit(f *ast.File, varName string) *ast.CompositeLit {
	var lit *ast.CompositeLit
	ast.Inspect(f, func(n ast.Node) bool {
		spec, ok := n.(*ast.ValueSpec)
		if !ok || len(spec.Names) == 0 || spec.Names[0].Name != varName {
			return true
		}
		if len(spec.Values) > 0 {
			lit, _ = spec.Values[0].(*ast.CompositeLit)
		}
		return true
	})
	return lit
}

func placeholders(names ...string) []logprobetypes.TemplatePlaceholder {
	out := make([]logprobetypes.TemplatePlaceholder, len(names))
	for i, n := range names {
		out[i] = logprobetypes.TemplatePlaceholder{Name: n}
	}
	return out
}

func TestParamsArrayAlignsByPosition(t *testing.T) {
	body := `
var args = []any{5, "abc"}
`
	f, info, _ := compile(t, body)
	lit := findCompositeLit(f, "args")
	require.NotNil(t, lit)

	params := ParamsArray(info, placeholders("UserId", "Name"), lit, lit.Elts)
	require.Len(t, params, 2)
	require.Equal(t, "UserId", params[0].Name)
	require.Equal(t, "Name", params[1].Name)
}

func TestParamsArrayStopsAtShorterLength(t *testing.T) {
	body := `
var args = []any{5}
`
	f, info, _ := compile(t, body)
	lit := findCompositeLit(f, "args")
	require.NotNil(t, lit)

	params := ParamsArray(info, placeholders("UserId", "Name"), lit, lit.Elts)
	require.Len(t, params, 1)
}

func TestMethodSignatureExcludesErrorParam(t *testing.T) {
	body := `
func LogFailure(err error, UserId int, Reason string) {}
`
	f, _, pkg := compile(t, body)
	_ = f

	fn := pkg.Scope().Lookup("LogFailure").(*types.Func)
	sig := fn.Type().(*types.Signature)
	reg := &registry.Registry{ExceptionType: types.Universe.Lookup("error").Type()}

	params := MethodSignature(reg, sig, placeholders("UserId", "Reason"))
	require.Len(t, params, 2)
	require.Equal(t, "UserId", params[0].Name)
	require.Equal(t, "Reason", params[1].Name)
}

func TestAnonymousObjectReadsFields(t *testing.T) {
	body := `
var state = struct{ UserId int }{UserId: 7}
`
	f, info, _ := compile(t, body)
	lit := findCompositeLit(f, "state")
	require.NotNil(t, lit)

	params := AnonymousObject(info, lit)
	require.Len(t, params, 1)
	require.Equal(t, "UserId", params[0].Name)
}

func TestKeyValuePairsFromMapLiteral(t *testing.T) {
	body := `
var state = map[string]any{"UserId": 7}
`
	f, info, pkg := compile(t, body)
	lit := findCompositeLit(f, "state")
	require.NotNil(t, lit)
	reg := &registry.Registry{}
	_ = pkg

	params := KeyValuePairs(info, reg, lit)
	require.Len(t, params, 1)
	require.Equal(t, "UserId", params[0].Name)
}

func TestKeyValuePairsFromKVStructSlice(t *testing.T) {
	body := `
var state = []KV{{Key: "UserId", Value: 7}}
`
	f, info, pkg := compile(t, body)
	lit := findCompositeLit(f, "state")
	require.NotNil(t, lit)

	kvType := pkg.Scope().Lookup("KV").Type()
	reg := &registry.Registry{KVPType: kvType}

	params := KeyValuePairs(info, reg, lit)
	require.Len(t, params, 1)
	require.Equal(t, "UserId", params[0].Name)
}

func TestGenericTypeArgumentsAlignsByPosition(t *testing.T) {
	params := GenericTypeArguments(placeholders("UserId", "Region"), []types.Type{
		types.Typ[types.Int],
		types.Typ[types.String],
	})
	require.Len(t, params, 2)
	require.Equal(t, "int", params[0].Type)
	require.Equal(t, "string", params[1].Type)
}

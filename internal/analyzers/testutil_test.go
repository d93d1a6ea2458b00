package analyzers

import (
	"go/ast"
	"go/importer"
	"go/parser"
	"go/token"
	"go/types"
	"testing"

	"github.com/stretchr/testify/require"

	"codenerd/logprobe/internal/registry"
	"codenerd/logprobe/internal/snapshot"
)

// apiPreamble declares a minimal stand-in for the target logging API in
// the fixture's own package, so registry.Build can resolve it without a
// real module graph.
const apiPreamble = `
type Level int

const (
	LevelTrace Level = iota
	LevelDebug
	LevelInformation
	LevelWarning
	LevelError
	LevelCritical
)

type EventID struct {
	ID   int
	Name string
}

type Logger interface {
	LogInformation(template string, args ...any)
	LogWarning(template string, args ...any)
	LogError(err error, template string, args ...any)
	Log(level Level, template string, args ...any)
	BeginScope(state any) func()
}

type KV struct {
	Key   string
	Value any
}

type Properties[T any] struct{ Value T }

type TagCollector interface {
	Tag(key string, value any)
}
`

func compileFixture(t *testing.T, body string) (*ast.File, *types.Info, *token.FileSet, *types.Package) {
	t.Helper()
	return compileFixtureWithImports(t, nil, body)
}

func compileFixtureWithImports(t *testing.T, imports []string, body string) (*ast.File, *types.Info, *token.FileSet, *types.Package) {
	t.Helper()
	var importBlock string
	if len(imports) > 0 {
		importBlock = "import (\n"
		for _, imp := range imports {
			importBlock += "\t\"" + imp + "\"\n"
		}
		importBlock += ")\n"
	}
	src := "package fixture\n" + importBlock + apiPreamble + body
	fset := token.NewFileSet()
	f, err := parser.ParseFile(fset, "fixture.go", src, parser.ParseComments)
	require.NoError(t, err)

	info := &types.Info{
		Defs:      make(map[*ast.Ident]types.Object),
		Uses:      make(map[*ast.Ident]types.Object),
		Types:     make(map[ast.Expr]types.TypeAndValue),
		Instances: make(map[*ast.Ident]types.Instance),
	}
	conf := types.Config{Importer: importer.Default()}
	pkg, err := conf.Check("fixture", fset, []*ast.File{f}, info)
	require.NoError(t, err)
	return f, info, fset, pkg
}

func fixtureRegistry(pkg *types.Package) *registry.Registry {
	spec := registry.DefaultSpec()
	spec.PackagePath = pkg.Path()
	return registry.Build(pkg, spec)
}

func treeOf(f *ast.File, fset *token.FileSet) snapshot.Tree {
	return snapshot.Tree{Path: "fixture.go", File: f, Fset: fset}
}

type emptySnapshot struct{}

func (emptySnapshot) Trees() []snapshot.Tree               { return nil }
func (emptySnapshot) Info(snapshot.Tree) *types.Info       { return nil }
func (emptySnapshot) Package(snapshot.Tree) *types.Package { return nil }
func (emptySnapshot) FindCallers(*types.Func) ([]snapshot.Caller, bool) {
	return nil, false
}

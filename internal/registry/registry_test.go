package registry

import (
	"go/ast"
	"go/parser"
	"go/token"
	"go/types"
	"testing"

	"github.com/stretchr/testify/require"
)

const fixtureSrc = `package fixture

type Level int

const (
	LevelTrace Level = iota
	LevelDebug
	LevelInformation
	LevelWarning
	LevelError
	LevelCritical
	LevelNone
)

type EventID struct {
	ID   int
	Name string
}

type Logger interface {
	Log(level Level, id EventID, template string, args ...any)
	LogInformation(template string, args ...any)
}

type Properties[T any] struct{ Value T }

type TagCollector interface{ Tag(name string, value any) }

func Define1[T1 any](level Level, id EventID, template string) func(Logger, T1) {
	return nil
}

type User struct{ Name string }

func LogInformationf(logger Logger, template string, args ...any) {}
`

func buildFixturePackage(t *testing.T) *types.Package {
	t.Helper()
	fset := token.NewFileSet()
	f, err := parser.ParseFile(fset, "fixture.go", fixtureSrc, 0)
	require.NoError(t, err)

	info := &types.Info{
		Types: make(map[ast.Expr]types.TypeAndValue),
		Defs:  make(map[*ast.Ident]types.Object),
		Uses:  make(map[*ast.Ident]types.Object),
	}
	conf := types.Config{}
	pkg, err := conf.Check("fixture", fset, []*ast.File{f}, info)
	require.NoError(t, err)
	return pkg
}

func TestBuildResolvesCoreSymbols(t *testing.T) {
	pkg := buildFixturePackage(t)
	spec := DefaultSpec()
	spec.PackagePath = "fixture"

	reg := Build(pkg, spec)
	require.True(t, reg.Available)
	require.NotNil(t, reg.LoggerType)
	require.NotNil(t, reg.LevelType)
	require.NotNil(t, reg.EventIDType)
	require.NotNil(t, reg.PropertiesGeneric)
	require.NotNil(t, reg.TagProviderIface)
	require.Contains(t, reg.DelegateFactoryFuncs, "Define1")
	require.Len(t, reg.LevelValues, 7)
	require.Contains(t, reg.LevelValues, "Warning")
}

func TestBuildUnavailableWithoutLogger(t *testing.T) {
	fset := token.NewFileSet()
	f, err := parser.ParseFile(fset, "empty.go", "package empty\n", 0)
	require.NoError(t, err)
	conf := types.Config{}
	pkg, err := conf.Check("empty", fset, []*ast.File{f}, &types.Info{})
	require.NoError(t, err)

	reg := Build(pkg, DefaultSpec())
	require.False(t, reg.Available)
}

package xref

import (
	"go/ast"
	"go/importer"
	"go/parser"
	"go/token"
	"go/types"
	"testing"

	"github.com/stretchr/testify/require"

	"codenerd/logprobe/internal/snapshot"
)

type noCallersSnapshot struct{}

func (noCallersSnapshot) Trees() []snapshot.Tree                 { return nil }
func (noCallersSnapshot) Info(snapshot.Tree) *types.Info         { return nil }
func (noCallersSnapshot) Package(snapshot.Tree) *types.Package   { return nil }
func (noCallersSnapshot) FindCallers(*types.Func) ([]snapshot.Caller, bool) {
	return nil, false
}

func TestFindFallsBackToTreeScan(t *testing.T) {
	src := `package fixture

func LogBadThing(thing string) {}

func caller() {
	LogBadThing("x")
}
`
	fset := token.NewFileSet()
	f, err := parser.ParseFile(fset, "fixture.go", src, 0)
	require.NoError(t, err)

	info := &types.Info{
		Defs: make(map[*ast.Ident]types.Object),
		Uses: make(map[*ast.Ident]types.Object),
	}
	conf := types.Config{Importer: importer.Default()}
	pkg, err := conf.Check("fixture", fset, []*ast.File{f}, info)
	require.NoError(t, err)

	fn, ok := pkg.Scope().Lookup("LogBadThing").(*types.Func)
	require.True(t, ok)

	tree := snapshot.Tree{Path: "fixture.go", File: f, Fset: fset}
	records := Find(noCallersSnapshot{}, tree, info, fn)
	require.Len(t, records, 1)
	require.Len(t, records[0].Arguments, 1)
	require.Equal(t, "thing", records[0].Arguments[0].Name)
}

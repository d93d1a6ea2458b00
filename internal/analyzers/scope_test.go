package analyzers

import (
	"testing"

	"github.com/stretchr/testify/require"

	logprobetypes "codenerd/logprobe/internal/types"
)

func TestScopeBeginCallsFromAnonymousStruct(t *testing.T) {
	body := `
func caller(l Logger) {
	l.BeginScope(struct{ UserId int }{UserId: 5})
}
`
	f, info, fset, pkg := compileFixture(t, body)
	reg := fixtureRegistry(pkg)

	ctx := Context{Tree: treeOf(f, fset), Info: info, Reg: reg}
	records := ScopeBeginCalls(ctx)
	require.Len(t, records, 1)
	rec := records[0]
	require.Equal(t, logprobetypes.ScopeBegin, rec.MethodKind)
	require.Len(t, rec.Parameters, 1)
	require.Equal(t, "UserId", rec.Parameters[0].Name)
}

func TestScopeBeginCallsFromKeyValuePairSlice(t *testing.T) {
	body := `
func caller(l Logger) {
	l.BeginScope([]KV{{Key: "UserId", Value: 5}})
}
`
	f, info, fset, pkg := compileFixture(t, body)
	reg := fixtureRegistry(pkg)

	ctx := Context{Tree: treeOf(f, fset), Info: info, Reg: reg}
	records := ScopeBeginCalls(ctx)
	require.Len(t, records, 1)
	require.Len(t, records[0].Parameters, 1)
	require.Equal(t, "UserId", records[0].Parameters[0].Name)
}

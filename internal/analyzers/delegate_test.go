package analyzers

import (
	"testing"

	"github.com/stretchr/testify/require"

	logprobetypes "codenerd/logprobe/internal/types"
)

func TestDelegateFactoryCallsAlignsTypeArguments(t *testing.T) {
	body := `
func Define2[T1 any, T2 any](level Level, id EventID, template string) func(Logger, T1, T2) {
	return nil
}

var LogOrderShipped = Define2[int, string](LevelInformation, EventID{ID: 7, Name: "OrderShipped"}, "order {OrderId} shipped to {Address}")
`
	f, info, fset, pkg := compileFixture(t, body)
	reg := fixtureRegistry(pkg)

	ctx := Context{Tree: treeOf(f, fset), Info: info, Reg: reg}
	records := DelegateFactoryCalls(ctx)
	require.Len(t, records, 1)
	rec := records[0]
	require.Equal(t, logprobetypes.DelegateFactory, rec.MethodKind)
	require.Equal(t, logprobetypes.LevelInformation, *rec.Level)
	require.NotNil(t, rec.EventIDValue)
	require.Len(t, rec.Parameters, 2)
	require.Equal(t, "OrderId", rec.Parameters[0].Name)
	require.Equal(t, "int", rec.Parameters[0].Type)
	require.Equal(t, "Address", rec.Parameters[1].Name)
	require.Equal(t, "string", rec.Parameters[1].Type)
}

func TestDelegateFactoryCallsIgnoresUnrelatedGenericCalls(t *testing.T) {
	body := `
func Identity[T any](v T) T { return v }

var x = Identity[int](5)
`
	f, info, fset, pkg := compileFixture(t, body)
	reg := fixtureRegistry(pkg)

	ctx := Context{Tree: treeOf(f, fset), Info: info, Reg: reg}
	require.Empty(t, DelegateFactoryCalls(ctx))
}

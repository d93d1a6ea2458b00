package analyzers

import (
	"testing"

	"github.com/stretchr/testify/require"

	logprobetypes "codenerd/logprobe/internal/types"
)

func TestDirectLoggerCallsFromLevelMethodName(t *testing.T) {
	body := `
func caller(l Logger) {
	l.LogWarning("disk at {PercentFull}% full", 91)
}
`
	f, info, fset, pkg := compileFixture(t, body)
	reg := fixtureRegistry(pkg)
	require.True(t, reg.Available)

	ctx := Context{Tree: treeOf(f, fset), Info: info, Reg: reg}
	records := DirectLoggerCalls(ctx)
	require.Len(t, records, 1)
	rec := records[0]
	require.Equal(t, logprobetypes.DirectLogger, rec.MethodKind)
	require.NotNil(t, rec.Level)
	require.Equal(t, logprobetypes.LevelWarning, *rec.Level)
	require.NotNil(t, rec.Template)
	require.Len(t, rec.Parameters, 1)
	require.Equal(t, "PercentFull", rec.Parameters[0].Name)
}

func TestDirectLoggerCallsFromGenericLogMethod(t *testing.T) {
	body := `
func caller(l Logger) {
	l.Log(LevelError, "request {RequestId} failed", "abc")
}
`
	f, info, fset, pkg := compileFixture(t, body)
	reg := fixtureRegistry(pkg)

	ctx := Context{Tree: treeOf(f, fset), Info: info, Reg: reg}
	records := DirectLoggerCalls(ctx)
	require.Len(t, records, 1)
	require.Equal(t, logprobetypes.LevelError, *records[0].Level)
	require.Len(t, records[0].Parameters, 1)
	require.Equal(t, "RequestId", records[0].Parameters[0].Name)
}

func TestDirectLoggerCallsIgnoresNonLoggerCalls(t *testing.T) {
	body := `
func helper(x int) int { return x + 1 }
func caller() {
	helper(5)
}
`
	f, info, fset, pkg := compileFixture(t, body)
	reg := fixtureRegistry(pkg)

	ctx := Context{Tree: treeOf(f, fset), Info: info, Reg: reg}
	require.Empty(t, DirectLoggerCalls(ctx))
}

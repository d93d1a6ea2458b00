package extract

import (
	"context"
	"go/ast"
	"go/importer"
	"go/parser"
	"go/token"
	"go/types"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"

	"codenerd/logprobe/internal/registry"
	"codenerd/logprobe/internal/snapshot"
)

// TestMain verifies the bounded worker pool in Extract leaves no
// goroutines running after the package's tests complete.
func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

const testPreamble = `package fixture

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
}
`

type fakeSnapshot struct {
	trees []snapshot.Tree
	infos map[string]*types.Info
	pkg   *types.Package
}

func (s *fakeSnapshot) Trees() []snapshot.Tree { return s.trees }
func (s *fakeSnapshot) Info(t snapshot.Tree) *types.Info {
	return s.infos[t.Path]
}
func (s *fakeSnapshot) Package(snapshot.Tree) *types.Package { return s.pkg }
func (s *fakeSnapshot) FindCallers(*types.Func) ([]snapshot.Caller, bool) {
	return nil, false
}

func buildFakeSnapshot(t *testing.T, files map[string]string) *fakeSnapshot {
	t.Helper()
	fset := token.NewFileSet()
	var astFiles []*ast.File
	paths := make([]string, 0, len(files))
	for path := range files {
		paths = append(paths, path)
	}
	for i, path := range paths {
		// The API declarations go into the first file only; repeating them
		// in every file of the one package would redeclare them.
		src := testPreamble + files[path]
		if i > 0 {
			src = "package fixture\n" + files[path]
		}
		f, err := parser.ParseFile(fset, path, src, 0)
		require.NoError(t, err)
		astFiles = append(astFiles, f)
	}

	info := &types.Info{
		Defs:  make(map[*ast.Ident]types.Object),
		Uses:  make(map[*ast.Ident]types.Object),
		Types: make(map[ast.Expr]types.TypeAndValue),
	}
	conf := types.Config{Importer: importer.Default()}
	pkg, err := conf.Check("fixture", fset, astFiles, info)
	require.NoError(t, err)

	snap := &fakeSnapshot{infos: make(map[string]*types.Info)}
	for i, path := range paths {
		tree := snapshot.Tree{Path: path, File: astFiles[i], Fset: fset}
		snap.trees = append(snap.trees, tree)
		snap.infos[path] = info
	}
	snap.pkg = pkg
	return snap
}

func testSpec() registry.Spec {
	spec := registry.DefaultSpec()
	spec.PackagePath = "fixture"
	return spec
}

func TestExtractMergesAndSortsAcrossTrees(t *testing.T) {
	snap := buildFakeSnapshot(t, map[string]string{
		"b.go": `
func callerB(l Logger) {
	l.LogWarning("low disk on {Host}", "h2")
}
`,
		"a.go": `
func callerA(l Logger) {
	l.LogInformation("user {UserId} logged in", 42)
}
`,
	})

	result := Extract(context.Background(), snap, testSpec(), DefaultOptions(), nil, zap.NewNop())
	require.Len(t, result.Records, 2)
	require.False(t, result.Partial)
	// stable sort by Location puts a.go before b.go
	require.Equal(t, "a.go", result.Records[0].Location.File)
	require.Equal(t, "b.go", result.Records[1].Location.File)
	require.Equal(t, 2, result.Summary.CountByMethodKind["DirectLogger"])
}

func TestExtractDetectsTemplateInconsistency(t *testing.T) {
	snap := buildFakeSnapshot(t, map[string]string{
		"a.go": `
func callerA(l Logger) {
	l.LogInformation("user {Id} in", 42)
}
func callerB(l Logger) {
	l.LogInformation("user {Id} in", "abc")
}
`,
	})

	result := Extract(context.Background(), snap, testSpec(), DefaultOptions(), nil, zap.NewNop())
	require.Len(t, result.Records, 2)
	require.Len(t, result.Summary.Inconsistencies, 1)
	require.Equal(t, "user {} in", result.Summary.Inconsistencies[0].CanonicalTemplate)
}

func TestExtractEmptySnapshotReturnsEmptyResult(t *testing.T) {
	snap := &fakeSnapshot{}
	result := Extract(context.Background(), snap, testSpec(), DefaultOptions(), nil, zap.NewNop())
	require.Empty(t, result.Records)
	require.False(t, result.Partial)
}

func TestExtractCancellationMarksPartial(t *testing.T) {
	snap := buildFakeSnapshot(t, map[string]string{
		"a.go": `
func callerA(l Logger) {
	l.LogInformation("user {Id} in", 42)
}
`,
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result := Extract(ctx, snap, testSpec(), DefaultOptions(), nil, zap.NewNop())
	require.True(t, result.Partial)
}

func TestExtractReportsProgress(t *testing.T) {
	snap := buildFakeSnapshot(t, map[string]string{
		"a.go": `
func callerA(l Logger) {
	l.LogInformation("user {Id} in", 42)
}
`,
	})

	var calls int
	sink := func(current, total int, message string) {
		calls++
		require.Equal(t, 1, total)
	}

	Extract(context.Background(), snap, testSpec(), DefaultOptions(), sink, zap.NewNop())
	require.Equal(t, 1, calls)
}

// TestExtractIsDeterministicAcrossRuns runs the same snapshot through
// Extract twice and requires byte-for-byte identical results, including
// record order, despite the bounded worker pool dispatching trees
// concurrently.
func TestExtractIsDeterministicAcrossRuns(t *testing.T) {
	snap := buildFakeSnapshot(t, map[string]string{
		"a.go": `
func callerA(l Logger) {
	l.LogInformation("user {UserId} logged in", 42)
}
`,
		"b.go": `
func callerB(l Logger) {
	l.LogWarning("low disk on {Host}", "h2")
}
`,
		"c.go": `
func callerC(l Logger) {
	l.LogInformation("retrying {Attempt}", 3)
}
`,
	})

	first := Extract(context.Background(), snap, testSpec(), DefaultOptions(), nil, zap.NewNop())
	second := Extract(context.Background(), snap, testSpec(), DefaultOptions(), nil, zap.NewNop())

	if diff := cmp.Diff(first, second); diff != "" {
		t.Fatalf("extraction result differs across runs (-first +second):\n%s", diff)
	}
}

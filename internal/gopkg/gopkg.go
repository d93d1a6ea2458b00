// Package gopkg is the concrete snapshot.Snapshot adapter backed by
// golang.org/x/tools/go/packages. It loads one or more patterns with full
// syntax and type information, the way golang-open2opaque's loader package
// loads a module-wide compilation before rewriting it, and exposes the
// loaded trees plus a workspace-wide FindCallers view built by walking
// every loaded package's resolved identifiers once.
package gopkg

import (
	"fmt"
	"go/ast"
	"go/types"

	"golang.org/x/tools/go/packages"

	"codenerd/logprobe/internal/snapshot"
)

const loadMode = packages.NeedName |
	packages.NeedFiles |
	packages.NeedCompiledGoFiles |
	packages.NeedImports |
	packages.NeedDeps |
	packages.NeedTypes |
	packages.NeedSyntax |
	packages.NeedTypesInfo

// Options configures a Load call.
type Options struct {
	// Dir is the working directory patterns are resolved relative to.
	// Empty selects the process's own working directory.
	Dir string

	// Tests includes test files and their synthetic test packages.
	Tests bool
}

// Load resolves patterns (Go package patterns, e.g. "./...") into a
// Snapshot. Packages that fail to compile are still included — their
// errors are collected and returned alongside the snapshot rather than
// aborting the whole load, since a partially-broken workspace should
// still yield whatever trees did resolve.
func Load(patterns []string, opts Options) (*Snapshot, []error, error) {
	cfg := &packages.Config{
		Mode:  loadMode,
		Dir:   opts.Dir,
		Tests: opts.Tests,
	}

	pkgs, err := packages.Load(cfg, patterns...)
	if err != nil {
		return nil, nil, fmt.Errorf("load packages: %w", err)
	}

	var loadErrs []error
	packages.Visit(pkgs, nil, func(p *packages.Package) {
		for _, e := range p.Errors {
			loadErrs = append(loadErrs, fmt.Errorf("%s: %w", p.PkgPath, e))
		}
	})

	snap := &Snapshot{
		pkgs:     pkgs,
		treePkg:  map[string]*types.Package{},
		treeInfo: map[string]*types.Info{},
	}
	for _, p := range pkgs {
		if p.Types == nil || p.TypesInfo == nil {
			continue
		}
		for _, f := range p.Syntax {
			path := p.Fset.Position(f.Package).Filename
			t := snapshot.Tree{Path: path, File: f, Fset: p.Fset}
			snap.trees = append(snap.trees, t)
			snap.treePkg[path] = p.Types
			snap.treeInfo[path] = p.TypesInfo
		}
	}
	return snap, loadErrs, nil
}

// Snapshot adapts a loaded set of packages.Package values to
// snapshot.Snapshot.
type Snapshot struct {
	pkgs     []*packages.Package
	trees    []snapshot.Tree
	treePkg  map[string]*types.Package
	treeInfo map[string]*types.Info
}

func (s *Snapshot) Trees() []snapshot.Tree { return s.trees }

func (s *Snapshot) Info(t snapshot.Tree) *types.Info { return s.treeInfo[t.Path] }

func (s *Snapshot) Package(t snapshot.Tree) *types.Package { return s.treePkg[t.Path] }

// FindCallers walks every loaded package's resolved identifiers looking
// for uses of fn, comparing by types.Object identity rather than name so
// a shadowed or re-exported symbol never produces a false match.
func (s *Snapshot) FindCallers(fn *types.Func) ([]snapshot.Caller, bool) {
	if fn == nil {
		return nil, false
	}

	var callers []snapshot.Caller
	for _, p := range s.pkgs {
		if p.TypesInfo == nil {
			continue
		}
		for _, f := range p.Syntax {
			path := p.Fset.Position(f.Package).Filename
			tree := snapshot.Tree{Path: path, File: f, Fset: p.Fset}
			ast.Inspect(f, func(n ast.Node) bool {
				ident, ok := n.(*ast.Ident)
				if !ok {
					return true
				}
				used, ok := p.TypesInfo.Uses[ident]
				if !ok || used != fn {
					return true
				}
				callers = append(callers, snapshot.Caller{
					Tree:          tree,
					Ident:         ident,
					ContainerType: enclosingTypeName(p.PkgPath, f, ident),
				})
				return true
			})
		}
	}
	return callers, true
}

// enclosingTypeName returns the fully-qualified receiver type name
// (pkgPath + "." + type name) of the method declaration containing ident,
// or "" when ident is not nested in a method body.
func enclosingTypeName(pkgPath string, f *ast.File, ident *ast.Ident) string {
	var container string
	ast.Inspect(f, func(n ast.Node) bool {
		fd, ok := n.(*ast.FuncDecl)
		if !ok || fd.Recv == nil || len(fd.Recv.List) == 0 {
			return true
		}
		if fd.Pos() > ident.Pos() || fd.End() < ident.Pos() {
			return true
		}
		container = receiverTypeName(fd.Recv.List[0].Type)
		return true
	})
	if container == "" {
		return ""
	}
	return pkgPath + "." + container
}

func receiverTypeName(expr ast.Expr) string {
	switch t := expr.(type) {
	case *ast.StarExpr:
		return receiverTypeName(t.X)
	case *ast.Ident:
		return t.Name
	case *ast.IndexExpr:
		return receiverTypeName(t.X)
	case *ast.IndexListExpr:
		return receiverTypeName(t.X)
	default:
		return ""
	}
}

// Package snapshot defines the capability contract a compilation must
// satisfy to be analyzed: enumerate syntax trees, obtain a semantic model
// per tree, look up named symbols, and optionally provide a workspace-wide
// symbol-callers enumeration. The analysis core consumes this contract but
// never constructs or persists an implementation of it — internal/gopkg
// provides the concrete adapter backed by golang.org/x/tools/go/packages.
package snapshot

import (
	"go/ast"
	"go/token"
	"go/types"
)

// Tree is one syntax tree of the compilation, paired with the file set
// needed to turn its token.Pos values into Locations.
type Tree struct {
	Path string
	File *ast.File
	Fset *token.FileSet
}

// Caller is one call site discovered by a workspace-wide symbol-callers
// walk: the identifier naming the called symbol, the tree it was found
// in, and the fully-qualified name of its enclosing type (empty when the
// call site is not inside a method of a named type).
type Caller struct {
	Tree          Tree
	Ident         *ast.Ident
	ContainerType string
}

// Snapshot is the opaque compilation handle the extraction driver and
// analyzers operate over.
type Snapshot interface {
	// Trees returns every syntax tree belonging to the compilation's own
	// package (not its dependencies).
	Trees() []Tree

	// Info returns the semantic model for a tree returned by Trees.
	Info(t Tree) *types.Info

	// Package returns the resolved package a tree belongs to.
	Package(t Tree) *types.Package

	// FindCallers enumerates every invocation of fn across the whole
	// workspace, when that capability is available. ok is false when the
	// snapshot has no workspace-wide view and callers must fall back to
	// scanning individual trees.
	FindCallers(fn *types.Func) (callers []Caller, ok bool)
}

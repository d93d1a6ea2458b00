// Package registry implements a read-only, per-compilation record of the
// canonical symbols of the target structured-logging API, resolved once
// from a type-checked package and held as bare *types.Object/*types.Named
// handles for the lifetime of that compilation.
//
// Every symbol is resolved via go/types identity, never by matching
// display-name substrings, so a renamed import or a shadowing local never
// produces a false match. Construction is a one-shot factory: build once
// per unit of work, fail soft when an optional symbol is absent, never
// cache across compilations.
package registry

import "go/types"

// Spec names the canonical import path and declared identifiers of the
// target logging API. Go has no single "the" logging package the way the
// source ecosystem has Microsoft.Extensions.Logging, so the names are
// configurable; DefaultSpec matches the shape this repository's own test
// fixtures and cmd/logprobe assume.
type Spec struct {
	// PackagePath is the import path of the logging API package. An API
	// package may also be the compilation's own package (tests commonly
	// declare API surface and usage in one synthetic package); Build
	// checks both.
	PackagePath string

	LoggerTypeName        string // interface type implemented by logger instances
	LevelTypeName         string // named type of the level enum
	EventIDTypeName       string // struct type carrying (id, name)
	KVPTypeName           string // key-value pair element type for scope state
	PropertiesGenericName string // generic wrapper marking a LogProperties parameter
	TagProviderIfaceName  string // interface implemented by generated tag collectors

	DelegateFactoryPrefix string // package-level generic func name prefix, e.g. "Define"
	ScopeBeginMethodName  string // instance method establishing a logging scope; not read: the scope analyzer matches the names BeginScope and BeginScopef
	GenericLogMethodName  string // the level-as-argument method, e.g. "Log"; not read: any logger method not named Log<Level> takes its level from a level-typed argument
}

// DefaultSpec is the canonical target API shape used throughout this
// repository's fixtures and cmd/logprobe.
func DefaultSpec() Spec {
	return Spec{
		PackagePath:           "codenerd/logprobe/target/logkit",
		LoggerTypeName:        "Logger",
		LevelTypeName:         "Level",
		EventIDTypeName:       "EventID",
		KVPTypeName:           "KV",
		PropertiesGenericName: "Properties",
		TagProviderIfaceName:  "TagCollector",
		DelegateFactoryPrefix: "Define",
		ScopeBeginMethodName:  "BeginScope",
		GenericLogMethodName:  "Log",
	}
}

// Registry is the resolved, immutable symbol set for one compilation.
// Optional fields are nil when the corresponding declaration is absent
// from the target API package; analyzers must guard before use.
type Registry struct {
	spec Spec

	Available bool // false when LoggerType could not be resolved

	LoggerType      *types.Interface
	LoggerTypeName  *types.Named
	LevelType       *types.Named
	LevelValues     map[string]*types.Const // level name -> declared constant
	EventIDType     *types.Named
	ExceptionType   types.Type // the builtin `error` interface
	KVPType         types.Type // the key-value pair element type named by Spec.KVPTypeName
	APIPackage      *types.Package

	// Optional symbols.
	PropertiesGeneric *types.Named // generic wrapper marking LogProperties parameters
	TagProviderIface  *types.Interface

	DelegateFactoryFuncs map[string]*types.Func // name -> generic Define* function
}

// Build resolves the Spec's symbols against a type-checked package and its
// imports. It never fails hard: when the Logger interface cannot be found,
// the returned Registry has Available == false and callers must skip the
// compilation rather than analyze it.
func Build(pkg *types.Package, spec Spec) *Registry {
	r := &Registry{spec: spec, ExceptionType: types.Universe.Lookup("error").Type()}

	api := findPackage(pkg, spec.PackagePath)
	if api == nil {
		return r
	}
	r.APIPackage = api
	scope := api.Scope()

	loggerObj := scope.Lookup(spec.LoggerTypeName)
	named, iface := asInterface(loggerObj)
	if iface == nil {
		return r
	}
	r.LoggerTypeName = named
	r.LoggerType = iface
	r.Available = true

	if lvl, ok := scope.Lookup(spec.LevelTypeName).(*types.TypeName); ok {
		if n, ok := lvl.Type().(*types.Named); ok {
			r.LevelType = n
			r.LevelValues = collectLevelConsts(scope, n)
		}
	}

	if evt, ok := scope.Lookup(spec.EventIDTypeName).(*types.TypeName); ok {
		if n, ok := evt.Type().(*types.Named); ok {
			r.EventIDType = n
		}
	}

	if kvp := scope.Lookup(spec.KVPTypeName); kvp != nil {
		r.KVPType = kvp.Type()
	}

	if propGen, ok := scope.Lookup(spec.PropertiesGenericName).(*types.TypeName); ok {
		if n, ok := propGen.Type().(*types.Named); ok {
			r.PropertiesGeneric = n
		}
	}

	if tp, ok := scope.Lookup(spec.TagProviderIfaceName).(*types.TypeName); ok {
		if iface, ok := tp.Type().Underlying().(*types.Interface); ok {
			r.TagProviderIface = iface
		}
	}

	r.DelegateFactoryFuncs = collectDelegateFactoryFuncs(scope, spec.DelegateFactoryPrefix)

	return r
}

func findPackage(pkg *types.Package, path string) *types.Package {
	if pkg == nil {
		return nil
	}
	if pkg.Path() == path {
		return pkg
	}
	seen := map[*types.Package]bool{pkg: true}
	var walk func(*types.Package) *types.Package
	walk = func(p *types.Package) *types.Package {
		for _, imp := range p.Imports() {
			if seen[imp] {
				continue
			}
			seen[imp] = true
			if imp.Path() == path {
				return imp
			}
			if found := walk(imp); found != nil {
				return found
			}
		}
		return nil
	}
	return walk(pkg)
}

func asInterface(obj types.Object) (*types.Named, *types.Interface) {
	tn, ok := obj.(*types.TypeName)
	if !ok {
		return nil, nil
	}
	named, ok := tn.Type().(*types.Named)
	if !ok {
		return nil, nil
	}
	iface, ok := named.Underlying().(*types.Interface)
	if !ok {
		return nil, nil
	}
	return named, iface
}

func collectLevelConsts(scope *types.Scope, levelType *types.Named) map[string]*types.Const {
	out := make(map[string]*types.Const)
	for _, name := range scope.Names() {
		c, ok := scope.Lookup(name).(*types.Const)
		if !ok {
			continue
		}
		if named, ok := c.Type().(*types.Named); ok && named == levelType {
			out[shortConstName(name)] = c
		}
	}
	return out
}

// shortConstName strips a conventional "Level" prefix, e.g. "LevelWarning"
// -> "Warning", so lookups can use the bare enum member name.
func shortConstName(name string) string {
	const prefix = "Level"
	if len(name) > len(prefix) && name[:len(prefix)] == prefix {
		return name[len(prefix):]
	}
	return name
}

func collectDelegateFactoryFuncs(scope *types.Scope, prefix string) map[string]*types.Func {
	out := make(map[string]*types.Func)
	for _, name := range scope.Names() {
		if len(name) < len(prefix) || name[:len(prefix)] != prefix {
			continue
		}
		if fn, ok := scope.Lookup(name).(*types.Func); ok {
			out[name] = fn
		}
	}
	return out
}

// IsLoggerMethod reports whether fn is an instance method on the Logger
// interface, or an extension-style helper whose first parameter is typed
// exactly as the Logger interface.
func (r *Registry) IsLoggerMethod(fn *types.Func) bool {
	if !r.Available || fn == nil {
		return false
	}
	sig, ok := fn.Type().(*types.Signature)
	if !ok {
		return false
	}
	if recv := sig.Recv(); recv != nil {
		return r.isLoggerType(recv.Type())
	}
	if sig.Params().Len() == 0 {
		return false
	}
	return r.isLoggerType(sig.Params().At(0).Type())
}

// IsLoggerType reports whether t is the resolved Logger interface type (or
// a named type whose underlying interface is identical to it), following
// one pointer indirection. A concrete type that merely implements Logger
// does not count.
func (r *Registry) IsLoggerType(t types.Type) bool {
	return r.Available && r.isLoggerType(t)
}

func (r *Registry) isLoggerType(t types.Type) bool {
	t = deref(t)
	named, ok := t.(*types.Named)
	if !ok {
		return types.Identical(t, r.LoggerType)
	}
	return named == r.LoggerTypeName || types.Identical(named.Underlying(), r.LoggerType)
}

func deref(t types.Type) types.Type {
	if p, ok := t.(*types.Pointer); ok {
		return p.Elem()
	}
	return t
}

// IsLevelConstRef reports whether obj is one of the resolved level
// constants and, if so, returns the level name (without the "Level"
// prefix).
func (r *Registry) IsLevelConstRef(obj types.Object) (string, bool) {
	c, ok := obj.(*types.Const)
	if !ok || r.LevelType == nil {
		return "", false
	}
	named, ok := c.Type().(*types.Named)
	if !ok || named != r.LevelType {
		return "", false
	}
	for name, cand := range r.LevelValues {
		if cand == c {
			return name, true
		}
	}
	return "", false
}

// IsEventIDType reports whether t is exactly the resolved EventID struct
// type.
func (r *Registry) IsEventIDType(t types.Type) bool {
	if r.EventIDType == nil {
		return false
	}
	named, ok := deref(t).(*types.Named)
	return ok && named == r.EventIDType
}

// IsExceptionType reports whether t is, or implements, the exception base
// type: Go's built-in error interface.
func (r *Registry) IsExceptionType(t types.Type) bool {
	return types.Implements(t, r.ExceptionType.Underlying().(*types.Interface)) || types.Identical(t, r.ExceptionType)
}

// IsLevelType reports whether t is exactly the resolved level enum type.
func (r *Registry) IsLevelType(t types.Type) bool {
	if r.LevelType == nil {
		return false
	}
	named, ok := deref(t).(*types.Named)
	return ok && named == r.LevelType
}

// DelegateFactoryFunc returns the resolved generic Define* function for fn,
// when fn is one of the registry's delegate-factory functions.
func (r *Registry) DelegateFactoryFunc(fn *types.Func) (*types.Func, bool) {
	if fn == nil {
		return nil, false
	}
	for _, cand := range r.DelegateFactoryFuncs {
		if cand == fn {
			return cand, true
		}
	}
	return nil, false
}

// PropertiesElem reports whether t is an instantiation of the
// LogProperties marker generic and, if so, returns the wrapped owner
// type.
func (r *Registry) PropertiesElem(t types.Type) (types.Type, bool) {
	if r.PropertiesGeneric == nil {
		return nil, false
	}
	named, ok := deref(t).(*types.Named)
	if !ok {
		return nil, false
	}
	if named.Origin() != r.PropertiesGeneric {
		return nil, false
	}
	targs := named.TypeArgs()
	if targs == nil || targs.Len() != 1 {
		return nil, false
	}
	return targs.At(0), true
}

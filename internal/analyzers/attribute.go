package analyzers

import (
	"go/ast"
	"go/types"

	"codenerd/logprobe/internal/align"
	"codenerd/logprobe/internal/directive"
	"codenerd/logprobe/internal/eventid"
	"codenerd/logprobe/internal/template"
	logprobetypes "codenerd/logprobe/internal/types"
	"codenerd/logprobe/internal/xref"
)

// AttributeDeclared scans every directive-declared method: a func decl
// whose doc comment carries a //logprobe:log line.
func AttributeDeclared(ctx Context) []logprobetypes.UsageRecord {
	var out []logprobetypes.UsageRecord
	for _, decl := range ctx.Tree.File.Decls {
		fd, ok := decl.(*ast.FuncDecl)
		if !ok {
			continue
		}
		log, propDirectives, ok := directive.Parse(fd.Doc)
		if !ok {
			continue
		}
		rec, ok := attributeRecord(ctx, fd, log, propDirectives)
		if ok {
			out = append(out, rec)
		}
	}
	return out
}

func attributeRecord(ctx Context, fd *ast.FuncDecl, log directive.Log, propDirectives []directive.Props) (logprobetypes.UsageRecord, bool) {
	level, ok := logprobetypes.ParseLevel(log.Level)
	if !ok {
		return logprobetypes.UsageRecord{}, false
	}

	fnObj, ok := ctx.Info.Defs[fd.Name]
	if !ok {
		return logprobetypes.UsageRecord{}, false
	}
	fn, ok := fnObj.(*types.Func)
	if !ok {
		return logprobetypes.UsageRecord{}, false
	}
	sig, ok := fn.Type().(*types.Signature)
	if !ok {
		return logprobetypes.UsageRecord{}, false
	}

	placeholders := template.Parse(log.Template)
	params := align.MethodSignature(ctx.Reg, sig, placeholders)

	var evt *logprobetypes.EventID
	if id, found := eventid.FromAttributeArgs(log.ID, log.Name); found {
		evt = &id
	}

	logProps := logPropertiesParameters(ctx, sig, propDirectives)

	var callSites []logprobetypes.InvocationRecord
	if ctx.Snap != nil {
		callSites = xref.Find(ctx.Snap, ctx.Tree, ctx.Info, fn)
	}

	tmpl := log.Template
	return logprobetypes.UsageRecord{
		Identifier:    locationIdentifier(ctx.Tree, fd.Pos()),
		MethodKind:    logprobetypes.AttributeDeclared,
		MethodName:    fd.Name.Name,
		Level:         &level,
		EventIDValue:  evt,
		Template:      &tmpl,
		Parameters:    params,
		LogProperties: logProps,
		Location:      locationOf(ctx.Tree, fd.Pos(), fd.End()),
		CallSites:     callSites,
	}, true
}

func logPropertiesParameters(ctx Context, sig *types.Signature, propDirectives []directive.Props) []logprobetypes.LogPropertiesParameter {
	if len(propDirectives) == 0 {
		return nil
	}
	byName := make(map[string]directive.Props, len(propDirectives))
	for _, p := range propDirectives {
		byName[p.Param] = p
	}

	var out []logprobetypes.LogPropertiesParameter
	params := sig.Params()
	for i := 0; i < params.Len(); i++ {
		p := params.At(i)
		pd, declared := byName[p.Name()]
		if !declared {
			continue
		}
		owner, isProps := ctx.Reg.PropertiesElem(p.Type())
		if !isProps {
			continue
		}
		lp := logprobetypes.LogPropertiesParameter{
			ParameterName:     p.Name(),
			OwnerType:         owner.String(),
			OmitReferenceName: pd.OmitReferenceName,
			SkipNullProps:     pd.SkipNullProps,
			Transitive:        pd.Transitive,
			Properties:        extractProperties(owner, pd.Transitive, 0, map[types.Type]bool{owner: true}),
		}
		if pd.TagProvider != "" {
			if pkg := declaringPackage(owner); pkg != nil {
				spec := validateTagProvider(ctx.Reg, pkg, owner, p.Name(), pd.TagProvider)
				spec.OmitReferenceName = pd.OmitReferenceName
				lp.TagProvider = &spec
			}
		}
		out = append(out, lp)
	}
	return out
}

// declaringPackage returns the package a tag-provider method is expected to
// live in: the package that declares the owner type itself.
func declaringPackage(owner types.Type) *types.Package {
	named, ok := derefType(owner).(*types.Named)
	if !ok || named.Obj() == nil {
		return nil
	}
	return named.Obj().Pkg()
}

package analyzers

import (
	"fmt"
	"go/types"

	"codenerd/logprobe/internal/registry"
	logprobetypes "codenerd/logprobe/internal/types"
)

// validateTagProvider resolves providerName in pkg's scope and checks it
// against the provider-method shape: static, accessible, no return value,
// exactly two parameters — the tag-collector interface, then ownerType.
func validateTagProvider(reg *registry.Registry, pkg *types.Package, ownerType types.Type, paramName, providerName string) logprobetypes.TagProviderSpec {
	spec := logprobetypes.TagProviderSpec{ParameterName: paramName, ProviderMethod: providerName}

	obj := pkg.Scope().Lookup(providerName)
	fn, ok := obj.(*types.Func)
	if !ok {
		spec.InvalidMessage = fmt.Sprintf("tag provider method %q not found", providerName)
		return spec
	}
	spec.ProviderType = pkg.Path()

	sig, ok := fn.Type().(*types.Signature)
	if !ok {
		spec.InvalidMessage = "tag provider is not a function"
		return spec
	}
	if sig.Recv() != nil {
		spec.InvalidMessage = "tag provider method must be static"
		return spec
	}
	if !fn.Exported() {
		spec.InvalidMessage = "tag provider method must be accessible"
		return spec
	}
	if sig.Results().Len() != 0 {
		spec.InvalidMessage = "tag provider method must return nothing"
		return spec
	}
	if sig.Params().Len() != 2 {
		spec.InvalidMessage = "tag provider method must have exactly two parameters"
		return spec
	}
	first := sig.Params().At(0).Type()
	if reg.TagProviderIface != nil && !types.Implements(first, reg.TagProviderIface) && !types.Identical(first, reg.TagProviderIface) {
		spec.InvalidMessage = "tag provider method's first parameter must be the tag-collector interface"
		return spec
	}
	second := sig.Params().At(1).Type()
	if !types.Identical(second, ownerType) {
		spec.InvalidMessage = "tag provider method's second parameter must match the owner type"
		return spec
	}

	spec.Valid = true
	return spec
}

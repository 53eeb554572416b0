package transpile

import (
	"context"

	"github.com/jvdl/esperanto/domain"
	"github.com/jvdl/esperanto/internal/magicstring"
	"github.com/jvdl/esperanto/internal/wrapper"
)

// Bundle implements spec §6's `bundle({entry, base, skip, names}).toAmd/
// toCjs/toUmd`: discover every module reachable from entry (D), resolve
// re-export chains and allocate names (E/F), validate (§7), plan the flattened
// export surface (G), rewrite each module (H), concatenate, and wrap (I).
func Bundle(ctx context.Context, req domain.BundleRequest) (*domain.BundleResult, error) {
	l := newLoader(req.Base, req.Skip, req.MaxGoroutines)
	entryID, err := l.Load(ctx, req.Entry)
	if err != nil {
		return nil, err
	}
	units := l.units

	resolver := newChainResolver(units)
	resolver.BuildAll()

	annotateModules(units)

	if err := allocateNames(units, req.NameOverrides); err != nil {
		return nil, err
	}

	if err := validateMissingExports(units, resolver); err != nil {
		return nil, err
	}
	if err := validateStrictMode(units, req.Strict); err != nil {
		return nil, err
	}

	plan := planExports(units, entryID, resolver)

	order := topologicalOrder(units, entryID)

	bd := magicstring.NewBundle("\n\n")
	var moduleIDs []string
	for _, id := range order {
		u := units[id]
		if u.IsExternal {
			continue
		}
		moduleIDs = append(moduleIDs, id)

		var exportSurface []ExportBinding
		if id == entryID {
			exportSurface = plan.EntryExports
		}

		var namespaceSurface []ExportBinding
		if u.IsNamespaceExported {
			namespaceSurface = flattenExports(units, resolver, u)
		}

		buf, err := rewriteModule(u, u.Replacements, exportSurface, namespaceSurface, req.Strict)
		if err != nil {
			return nil, err
		}
		bd.AddChunk(u.FilePath, buf)
	}

	in := wrapper.Input{
		Body:        bd.String(),
		Externals:   collectBundleExternals(units, order),
		Exports:     exportWrapperList(plan.EntryExports),
		Strict:      req.Strict,
		Name:        req.Name,
		AMDModuleID: req.AMDModuleIDs,
	}

	code, err := wrapper.Build(req.Format, in)
	if err != nil {
		return nil, err
	}
	code = applyBannerFooter(code, req.Banner, req.Footer)

	result := &domain.BundleResult{
		Code:     code,
		Modules:  moduleIDs,
		Warnings: append([]string(nil), resolver.warnings...),
	}

	if req.SourceMap {
		sourceFile := req.Name
		if sourceFile == "" {
			sourceFile = "bundle"
		}
		m := bd.GenerateMap(sourceFile+".out.js", true)
		result.Map = &domain.Map{
			Version:        m.Version,
			File:           m.File,
			Sources:        m.Sources,
			SourcesContent: m.SourcesContent,
			Names:          m.Names,
			Mappings:       m.Mappings,
		}
	}

	return result, nil
}

// collectBundleExternals renders every distinct external module actually
// imported by an included local module, in the order list's traversal
// order, as the wrapper's dependency list.
func collectBundleExternals(units map[string]*moduleUnit, order []string) []wrapper.External {
	seen := make(map[string]bool)
	var out []wrapper.External
	for _, id := range order {
		u := units[id]
		if u.IsExternal {
			continue
		}
		for _, imp := range u.Imports {
			targetID := resolveLocalID(units, u, imp.Source)
			target := units[targetID]
			if target == nil || !target.IsExternal || seen[targetID] {
				continue
			}
			seen[targetID] = true
			out = append(out, wrapper.External{Name: target.Name, Path: targetID})
		}
	}
	return out
}

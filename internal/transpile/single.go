package transpile

import (
	"github.com/jvdl/esperanto/domain"
	"github.com/jvdl/esperanto/internal/wrapper"
)

// Single implements spec §6's `transpile(source, options)`: parse, rewrite,
// and wrap exactly one module, treating every one of its imports as
// external (a single-file transpile never follows an import onto disk —
// that is bundle's job).
func Single(source string, opts domain.TranspileOptions) (*domain.TranspileResult, error) {
	id := opts.Name
	u, err := parseModule(id, "", source, true)
	if err != nil {
		return nil, err
	}

	if err := validateStrictMode(map[string]*moduleUnit{id: u}, opts.Strict); err != nil {
		return nil, err
	}

	externals := buildExternalUnits(u)
	if err := allocateNames(externals, nil); err != nil {
		return nil, err
	}

	replacements := singleFileImportReplacements(u, externals)
	exportSurface := singleFileExportSurface(u, replacements)

	buf, err := rewriteModule(u, replacements, exportSurface, nil, opts.Strict)
	if err != nil {
		return nil, err
	}
	buf.Trim()

	in := wrapper.Input{
		Body:        buf.String(),
		Externals:   externalWrapperList(externals, u),
		Exports:     exportWrapperList(exportSurface),
		Strict:      opts.Strict,
		Name:        opts.Name,
		AMDModuleID: opts.AMDModuleIDs,
	}

	code, err := wrapper.Build(opts.Format, in)
	if err != nil {
		return nil, err
	}
	code = applyBannerFooter(code, opts.Banner, opts.Footer)

	result := &domain.TranspileResult{
		Code:    code,
		Imports: u.Imports,
		Exports: u.Exports,
	}

	if opts.SourceMap {
		sourceFile := opts.Name
		if sourceFile == "" {
			sourceFile = "input"
		}
		m := buf.GenerateMap(sourceFile, sourceFile+".out.js", true)
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

// buildExternalUnits builds one external moduleUnit per distinct import
// source u references, the working set allocateNames/singleFileImportReplacements
// need to assign each a wrapper dependency name.
func buildExternalUnits(u *moduleUnit) map[string]*moduleUnit {
	externals := make(map[string]*moduleUnit)
	for _, imp := range u.Imports {
		if _, ok := externals[imp.Source]; ok {
			continue
		}
		externals[imp.Source] = &moduleUnit{Module: domain.Module{ID: imp.Source, IsExternal: true}}
	}
	return externals
}

// externalWrapperList renders u's distinct import sources, in their
// allocated-name form, as the wrapper's dependency list.
func externalWrapperList(externals map[string]*moduleUnit, u *moduleUnit) []wrapper.External {
	seen := make(map[string]bool, len(u.Imports))
	var out []wrapper.External
	for _, imp := range u.Imports {
		if seen[imp.Source] {
			continue
		}
		seen[imp.Source] = true
		ext := externals[imp.Source]
		out = append(out, wrapper.External{Name: ext.Name, Path: imp.Source})
	}
	return out
}

func exportWrapperList(surface []ExportBinding) []wrapper.Export {
	out := make([]wrapper.Export, len(surface))
	for i, b := range surface {
		out[i] = wrapper.Export{Name: b.Name, Replacement: b.Replacement}
	}
	return out
}

// applyBannerFooter wraps code with a banner and footer, each separated by
// a newline when non-empty, per spec §6's `banner`/`footer` options.
func applyBannerFooter(code, banner, footer string) string {
	if banner != "" {
		code = banner + "\n" + code
	}
	if footer != "" {
		code = code + "\n" + footer
	}
	return code
}

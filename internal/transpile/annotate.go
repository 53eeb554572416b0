package transpile

import "github.com/jvdl/esperanto/domain"

// annotateModules fills in the Module fields the loader/extractor leave at
// their zero value because they depend on the whole graph rather than a
// single file: NeedsDefault/NeedsNamed record which import shapes an
// external module is actually used under (spec §4.5 step 4's "external
// needs both default and named" rule), and IsNamespaceExported records
// whether any importer takes a module as a namespace object, whether via
// `import * as ns` or a re-export (`export * from`/`export * as ns`),
// per spec §4.7 step 1's namespace-name conflict rule.
func annotateModules(units map[string]*moduleUnit) {
	for _, u := range units {
		if u.IsExternal {
			continue
		}
		for _, imp := range u.Imports {
			targetID := resolveLocalID(units, u, imp.Source)
			target := units[targetID]
			if target == nil {
				continue
			}
			if imp.ImportType == domain.ImportTypeNamespace {
				target.IsNamespaceExported = true
			}
			if !target.IsExternal {
				continue
			}
			for _, spec := range imp.Specifiers {
				switch spec.Imported {
				case "default":
					target.NeedsDefault = true
				case "*":
					// namespace binding of an external module carries no
					// default/named distinction of its own.
				default:
					target.NeedsNamed = true
				}
			}
		}
		for _, exp := range u.Exports {
			if exp.ExportType != "all" {
				continue
			}
			targetID := resolveLocalID(units, u, exp.Source)
			if target := units[targetID]; target != nil {
				target.IsNamespaceExported = true
			}
		}
	}
}

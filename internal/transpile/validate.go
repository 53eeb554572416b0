package transpile

import "github.com/jvdl/esperanto/domain"

// validateMissingExports implements spec §7's "Missing export" check: every
// named or default specifier a local module imports must resolve, through
// chain following, to a binding the target module actually declares.
// Namespace imports (`import * as ns`) are exempt — a batch import's members
// are resolved dynamically and can't be checked statically.
func validateMissingExports(units map[string]*moduleUnit, resolver *chainResolver) error {
	for _, u := range units {
		if u.IsExternal {
			continue
		}
		for _, imp := range u.Imports {
			if imp.ImportType == domain.ImportTypeNamespace || imp.ImportType == domain.ImportTypeSideEffect {
				continue
			}
			targetID := resolveLocalID(units, u, imp.Source)
			target := units[targetID]
			if target == nil || target.IsExternal {
				continue
			}
			for _, spec := range imp.Specifiers {
				if spec.Imported == "" || spec.Imported == "*" {
					continue
				}
				resolvedModuleID, resolvedName := resolver.Resolve(targetID, spec.Imported, make(map[string]bool))
				resolved := units[resolvedModuleID]
				if resolved == nil || resolved.IsExternal {
					continue
				}
				if !moduleDeclaresExport(resolved, resolvedName) {
					return errMissingExport(u.ID, targetID, spec.Imported)
				}
			}
		}
	}
	return nil
}

// moduleDeclaresExport reports whether u actually exports name, either as
// its default export or as a directly-declared top-level binding mirrored by
// a named export.
func moduleDeclaresExport(u *moduleUnit, name string) bool {
	if name == "default" {
		for _, exp := range u.Exports {
			if exp.ExportType == "default" {
				return true
			}
		}
		return false
	}
	for _, exp := range u.Exports {
		if exp.ExportType != "named" || exp.Source != "" {
			continue
		}
		for _, spec := range exp.Specifiers {
			if spec.Exported == name {
				return true
			}
		}
	}
	return false
}

// validateStrictMode implements spec §7's "Strict-mode violation" check:
// outside strict mode, no module may use a named import, a namespace
// import, or a named/namespace export — defaults-only mode supports exactly
// one default export and plain side-effect/default imports.
func validateStrictMode(units map[string]*moduleUnit, strict bool) error {
	if strict {
		return nil
	}
	for _, u := range units {
		if u.IsExternal {
			continue
		}
		for _, imp := range u.Imports {
			if imp.ImportType == domain.ImportTypeNamed || imp.ImportType == domain.ImportTypeNamespace {
				return errStrictModeViolation(u.ID)
			}
		}
		for _, exp := range u.Exports {
			if exp.ExportType == "named" || exp.ExportType == "all" {
				return errStrictModeViolation(u.ID)
			}
		}
	}
	return nil
}

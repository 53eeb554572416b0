package transpile

import (
	"sort"

	"github.com/jvdl/esperanto/domain"
)

// ExportBinding is one entry in a bundle's flattened, entry-owned export
// surface: Name is the name the outside world sees (or "default"),
// Replacement is the final identifier expression that currently holds its
// value (spec §4.7 step 5). Chained marks a re-export whose value is owned by
// a module other than entry itself (spec §8 invariant 5 / scenario S6):
// strict mode mirrors these through a getter rather than a one-time
// assignment, so a later write to the owning binding is still visible.
type ExportBinding struct {
	Name        string
	Replacement string
	Chained     bool
}

// exportPlan is component G's output: per-module identifier replacements
// plus the entry module's flattened export surface, consumed by the body
// rewriter (H).
type exportPlan struct {
	EntryExports []ExportBinding
}

// planExports computes identifierReplacements for every local module and the
// entry's flattened export surface, per spec §4.7. Only meaningful for
// bundle mode: a single-file transpile has no cross-module conflicts to
// resolve, so its identifierReplacements are just import aliases (computed
// directly in the rewriter from the module's own imports).
func planExports(units map[string]*moduleUnit, entryID string, resolver *chainResolver) *exportPlan {
	conflicts := computeConflicts(units)

	for _, u := range units {
		if u.IsExternal {
			continue
		}
		u.Replacements = make(map[string]string)
		if u.AST == nil || u.AST.Scope == nil {
			continue
		}
		for _, n := range u.AST.Scope.Names() {
			if n == "" {
				continue
			}
			if conflicts[n] {
				u.Replacements[n] = u.Name + "__" + n
			} else {
				u.Replacements[n] = n
			}
		}
	}

	// Import-specifier resolution (step 4): write each local alias's
	// replacement into the *importing* module's Replacements map, resolving
	// through re-export chains to the module that actually owns the value.
	for _, u := range units {
		if u.IsExternal {
			continue
		}
		for _, imp := range u.Imports {
			targetID := resolveLocalID(units, u, imp.Source)
			target := units[targetID]
			for _, spec := range imp.Specifiers {
				if spec.Local == "" {
					continue
				}
				u.Replacements[spec.Local] = resolveImportBinding(units, resolver, target, targetID, imp.ImportType, spec.Imported)
			}
		}
	}

	plan := &exportPlan{}
	entry := units[entryID]
	if entry != nil && !entry.IsExternal {
		plan.EntryExports = flattenExports(units, resolver, entry)
	}
	return plan
}

// computeConflicts implements spec §4.7 step 1: a name is in conflict if it's
// declared at top level in more than one module, if it coincides with any
// module's allocated name, if it collides with a reserved built-in, or if it
// is a namespace-exporting module's own name.
func computeConflicts(units map[string]*moduleUnit) map[string]bool {
	nameCount := make(map[string]int)
	moduleNames := make(map[string]bool)

	for _, u := range units {
		if u.IsExternal {
			continue
		}
		if u.Name != "" {
			moduleNames[u.Name] = true
		}
		if u.AST == nil || u.AST.Scope == nil {
			continue
		}
		for _, n := range u.AST.Scope.Names() {
			nameCount[n]++
		}
	}

	conflicts := make(map[string]bool)
	for name, count := range nameCount {
		if count > 1 {
			conflicts[name] = true
		}
		if moduleNames[name] {
			conflicts[name] = true
		}
	}
	for _, g := range reservedGlobals {
		if nameCount[g] > 0 {
			conflicts[g] = true
		}
	}
	for _, u := range units {
		if u.IsNamespaceExported {
			conflicts[u.Name] = true
		}
	}
	return conflicts
}

// resolveImportBinding resolves one import specifier to the final identifier
// expression that holds its value, per spec §4.7 step 4.
func resolveImportBinding(units map[string]*moduleUnit, resolver *chainResolver, target *moduleUnit, targetID string, importType domain.ImportType, importedName string) string {
	if target == nil {
		return targetID
	}

	if importType == "namespace" {
		return target.Name
	}

	if target.IsExternal {
		if importedName == "default" {
			if target.NeedsDefault && target.NeedsNamed {
				return target.Name + "__default"
			}
			return target.Name
		}
		return target.Name + "." + importedName
	}

	if importedName == "default" {
		return defaultBinding(target)
	}

	resolvedModuleID, resolvedName := resolver.Resolve(targetID, importedName, make(map[string]bool))
	resolved := units[resolvedModuleID]
	if resolved == nil {
		return resolvedName
	}
	if resolved.IsExternal {
		if resolvedName == "default" {
			return resolved.Name
		}
		return resolved.Name + "." + resolvedName
	}
	if resolvedName == "default" {
		return defaultBinding(resolved)
	}
	if repl, ok := resolved.Replacements[resolvedName]; ok {
		return repl
	}
	return resolvedName
}

// defaultBinding names the local identifier holding a module's default
// export value: the (already-renamed) intrinsic declaration name when one
// exists, or the synthetic "<name>__default" binding the rewriter introduces
// for an anonymous default value (spec §4.6 rule 5).
func defaultBinding(u *moduleUnit) string {
	for _, exp := range u.Exports {
		if exp.ExportType != "default" {
			continue
		}
		if exp.Name != "" {
			if repl, ok := u.Replacements[exp.Name]; ok {
				return repl
			}
			return exp.Name
		}
		break
	}
	return u.Name + "__default"
}

// flattenExports implements spec §4.7 step 5: walk every export the entry
// module declares back to its owning module and name, producing the ordered
// surface the wrapper's "exports"/"module.exports" block assigns from.
func flattenExports(units map[string]*moduleUnit, resolver *chainResolver, entry *moduleUnit) []ExportBinding {
	var out []ExportBinding
	seen := make(map[string]bool)

	addBinding := func(outputName, replacement string) {
		if seen[outputName] {
			return
		}
		seen[outputName] = true
		out = append(out, ExportBinding{Name: outputName, Replacement: replacement})
	}

	names := make([]string, 0, len(entry.Exports))
	for _, exp := range entry.Exports {
		switch exp.ExportType {
		case "default":
			names = append(names, "default")
		case "named":
			for _, spec := range exp.Specifiers {
				names = append(names, spec.Exported)
			}
		}
	}
	sort.Strings(names)

	addChainedBinding := func(outputName, replacement string, resolvedModuleID string) {
		if seen[outputName] {
			return
		}
		seen[outputName] = true
		out = append(out, ExportBinding{Name: outputName, Replacement: replacement, Chained: resolvedModuleID != entry.ID})
	}

	for _, name := range names {
		if name == "default" {
			addBinding("default", defaultBinding(entry))
			continue
		}
		resolvedModuleID, resolvedName := resolver.Resolve(entry.ID, name, make(map[string]bool))
		resolved := units[resolvedModuleID]
		if resolved == nil {
			addChainedBinding(name, resolvedName, resolvedModuleID)
			continue
		}
		if resolved.IsExternal {
			addChainedBinding(name, resolved.Name+"."+resolvedName, resolvedModuleID)
			continue
		}
		if resolvedName == "default" {
			addChainedBinding(name, defaultBinding(resolved), resolvedModuleID)
			continue
		}
		if repl, ok := resolved.Replacements[resolvedName]; ok {
			addChainedBinding(name, repl, resolvedModuleID)
		} else {
			addChainedBinding(name, resolvedName, resolvedModuleID)
		}
	}

	return out
}

package transpile

import (
	"fmt"
	"sort"

	"github.com/jvdl/esperanto/domain"
)

// topologicalOrder returns every module id reachable from entryID ordered so
// that, where acyclic, dependencies precede dependents; a cycle's members
// keep their discovery order instead (spec §4.4). Grounded on
// internal/analyzer/circular_detector.go's tarjanSCC/strongconnect: the same
// algorithm, reimplemented here because that method is unexported and
// because we need the full order (including singleton SCCs), not just the
// cycle report DetectCycles produces.
func topologicalOrder(units map[string]*moduleUnit, entryID string) []string {
	t := &tarjan{
		units:    units,
		indices:  make(map[string]int),
		lowlinks: make(map[string]int),
		onStack:  make(map[string]bool),
	}

	// Visit in a deterministic order so output doesn't depend on map
	// iteration order, starting from the entry so its own component's
	// position reflects real reachability.
	ids := make([]string, 0, len(units))
	for id := range units {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	if _, ok := units[entryID]; ok {
		t.strongconnect(entryID)
	}
	for _, id := range ids {
		if _, visited := t.indices[id]; !visited {
			t.strongconnect(id)
		}
	}

	// Tarjan emits SCCs in reverse topological order (a component is only
	// finished once everything it points to deeper in the DFS has already
	// been finished); reverse it so dependencies precede dependents.
	order := make([]string, 0, len(units))
	for i := len(t.sccs) - 1; i >= 0; i-- {
		scc := t.sccs[i]
		sort.Slice(scc, func(a, b int) bool { return t.indices[scc[a]] < t.indices[scc[b]] })
		order = append(order, scc...)
	}
	return order
}

type tarjan struct {
	units    map[string]*moduleUnit
	index    int
	stack    []string
	indices  map[string]int
	lowlinks map[string]int
	onStack  map[string]bool
	sccs     [][]string
}

func (t *tarjan) strongconnect(v string) {
	t.indices[v] = t.index
	t.lowlinks[v] = t.index
	t.index++
	t.stack = append(t.stack, v)
	t.onStack[v] = true

	unit := t.units[v]
	if unit != nil {
		for _, w := range unit.Dependencies {
			if _, known := t.units[w]; !known {
				continue
			}
			if _, visited := t.indices[w]; !visited {
				t.strongconnect(w)
				t.lowlinks[v] = min(t.lowlinks[v], t.lowlinks[w])
			} else if t.onStack[w] {
				t.lowlinks[v] = min(t.lowlinks[v], t.indices[w])
			}
		}
	}

	if t.lowlinks[v] == t.indices[v] {
		var scc []string
		for {
			w := t.stack[len(t.stack)-1]
			t.stack = t.stack[:len(t.stack)-1]
			t.onStack[w] = false
			scc = append(scc, w)
			if w == v {
				break
			}
		}
		t.sccs = append(t.sccs, scc)
	}
}

// chainResolver computes re-export chains (spec §4.4's "resolver also
// computes re-export chains"), grounded on
// other_examples/..._ben-ranford-lopper__internal-lang-js-reexport_resolver_helpers_test.go.go's
// reExportResolver: a resolveCache memoizing already-resolved
// "moduleID|exportName" keys, and a visited set of the same shape, passed to
// Resolve, guarding against cycles (a cycle is recorded as a warning).
type chainResolver struct {
	units        map[string]*moduleUnit
	resolveCache map[string]domain.ReExportChain
	warnings     []string
}

func newChainResolver(units map[string]*moduleUnit) *chainResolver {
	return &chainResolver{units: units, resolveCache: make(map[string]domain.ReExportChain)}
}

// BuildAll computes every module's re-export chains and attaches them to
// its Module.Chains field.
func (r *chainResolver) BuildAll() {
	for _, u := range r.units {
		if u.IsExternal {
			continue
		}
		u.Chains = r.buildModuleChains(u)
	}
}

func (r *chainResolver) buildModuleChains(u *moduleUnit) []domain.ReExportChain {
	var chains []domain.ReExportChain

	// export { x } from 'm' / export * from 'm'
	for _, exp := range u.Exports {
		switch exp.ExportType {
		case "all":
			if exp.Source == "" {
				continue
			}
			chains = append(chains, domain.ReExportChain{
				ExportedName: "*",
				SourceModule: exp.Source,
				ImportedName: "*",
				NamespaceRef: true,
			})
		case "named":
			if exp.Source == "" {
				continue
			}
			for _, spec := range exp.Specifiers {
				chains = append(chains, domain.ReExportChain{
					ExportedName: spec.Exported,
					SourceModule: exp.Source,
					ImportedName: spec.Local,
				})
			}
		}
	}

	// local `export { x }` following `import { x } from 'm'`
	importedFrom := make(map[string]string) // local name -> source module
	importedAs := make(map[string]string)   // local name -> imported name
	for _, imp := range u.Imports {
		for _, spec := range imp.Specifiers {
			importedFrom[spec.Local] = imp.Source
			importedAs[spec.Local] = spec.Imported
		}
	}
	for _, exp := range u.Exports {
		if exp.ExportType != "named" || exp.Source != "" {
			continue
		}
		for _, spec := range exp.Specifiers {
			if src, ok := importedFrom[spec.Local]; ok {
				chains = append(chains, domain.ReExportChain{
					ExportedName: spec.Exported,
					SourceModule: src,
					ImportedName: importedAs[spec.Local],
				})
			}
		}
	}

	return chains
}

// Resolve follows moduleID@exportName through re-export chains until a
// fixed point (a module that doesn't further re-export the name), per spec
// §4.5 step 4. visited guards cycles the way the reference resolver's
// `visited` set does, keyed identically ("module|export"); a detected cycle
// stops the walk and is recorded as a warning rather than recursing forever.
func (r *chainResolver) Resolve(moduleID, exportName string, visited map[string]bool) (string, string) {
	key := moduleID + "|" + exportName
	if resolved, ok := r.resolveCache[key]; ok {
		return resolved.SourceModule, resolved.ImportedName
	}
	if visited[key] {
		r.warnings = append(r.warnings, fmt.Sprintf("circular re-export involving %s", key))
		return moduleID, exportName
	}
	visited[key] = true

	u := r.units[moduleID]
	if u == nil {
		return moduleID, exportName
	}
	for _, chain := range u.Chains {
		if chain.ExportedName != exportName && chain.ExportedName != "*" {
			continue
		}
		nextName := chain.ImportedName
		if chain.ExportedName == "*" {
			nextName = exportName
		}
		nextModule := resolveLocalID(r.units, u, chain.SourceModule)
		resolvedModule, resolvedName := r.Resolve(nextModule, nextName, visited)
		r.resolveCache[key] = domain.ReExportChain{SourceModule: resolvedModule, ImportedName: resolvedName}
		return resolvedModule, resolvedName
	}

	r.resolveCache[key] = domain.ReExportChain{SourceModule: moduleID, ImportedName: exportName}
	return moduleID, exportName
}

// resolveLocalID maps a raw import/re-export specifier string (as written in
// u's own source, e.g. "./utils") back to the module id the loader already
// resolved it to, via the mapping built in loader.go's Load. Falls back to
// the specifier itself for an external package, which needs no further
// resolution.
func resolveLocalID(units map[string]*moduleUnit, u *moduleUnit, source string) string {
	if id, ok := u.ResolvedBySource[source]; ok {
		return id
	}
	return source
}

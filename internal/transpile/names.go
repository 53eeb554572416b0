package transpile

import (
	"sort"
	"strings"
	"unicode"

	"github.com/jvdl/esperanto/domain"
)

// reservedWords are the ECMAScript keywords that cannot be used as a bare
// identifier, grounded on other_examples's jsReservedWords table (the
// esmdev cjs_fixup reference file).
var reservedWords = map[string]bool{
	"default": true, "break": true, "case": true, "catch": true, "class": true,
	"const": true, "continue": true, "debugger": true, "delete": true, "do": true,
	"else": true, "enum": true, "export": true, "extends": true, "finally": true,
	"for": true, "function": true, "if": true, "import": true, "in": true,
	"instanceof": true, "let": true, "new": true, "return": true, "super": true,
	"switch": true, "this": true, "throw": true, "try": true, "typeof": true,
	"var": true, "void": true, "while": true, "with": true, "yield": true,
	"await": true, "implements": true, "interface": true, "package": true,
	"private": true, "protected": true, "public": true, "static": true,
}

// reservedGlobals seeds the "used" set (spec §4.5 step 1): host built-in
// constructors, global functions, and the identifiers the wrapper templates
// themselves introduce (exports, require, module, define).
var reservedGlobals = []string{
	"Array", "Boolean", "Date", "Error", "EvalError", "Function", "Infinity",
	"JSON", "Math", "NaN", "Number", "Object", "Promise", "Proxy", "RangeError",
	"ReferenceError", "Reflect", "RegExp", "Set", "Map", "WeakMap", "WeakSet",
	"String", "Symbol", "SyntaxError", "TypeError", "URIError",
	"decodeURI", "decodeURIComponent", "encodeURI", "encodeURIComponent",
	"eval", "isFinite", "isNaN", "parseFloat", "parseInt", "undefined",
	"globalThis", "global", "window", "self", "process", "console",
	"exports", "require", "module", "define",
}

// allocateNames assigns every unit a unique identifier prefix, mutating its
// Name field in place, per spec §4.5. overrides pins specific module ids to
// a caller-chosen name (spec §6's getModuleName, generalized to a static
// table per domain.BundleRequest.NameOverrides); an override that collides
// with a reserved global or another override is a naming-collision error.
func allocateNames(units map[string]*moduleUnit, overrides map[string]string) error {
	used := make(map[string]bool, len(reservedGlobals)+len(units))
	for _, g := range reservedGlobals {
		used[g] = true
	}

	ids := make([]string, 0, len(units))
	for id := range units {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	// Step 0: apply caller-pinned names first, so they win any conflict with
	// the automatic allocation that follows.
	for _, id := range ids {
		name, ok := overrides[id]
		if !ok || name == "" {
			continue
		}
		if used[name] {
			return errNamingCollision(id, name)
		}
		units[id].Name = name
		used[name] = true
	}

	// Step 2: adopt a non-conflicting default-import alias as the target
	// module's name, visited in deterministic importer order so results
	// don't depend on map iteration order.
	for _, id := range ids {
		u := units[id]
		for _, imp := range u.Imports {
			if imp.ImportType != domain.ImportTypeDefault {
				continue
			}
			targetID := resolveLocalID(units, u, imp.Source)
			target := units[targetID]
			if target == nil || target.Name != "" {
				continue
			}
			for _, spec := range imp.Specifiers {
				alias := spec.Local
				if alias == "" || used[alias] {
					continue
				}
				target.Name = alias
				used[alias] = true
				break
			}
		}
	}

	// Step 3: remaining modules take increasingly long path-component
	// suffixes, sanitized into valid identifiers.
	for _, id := range ids {
		u := units[id]
		if u.Name != "" {
			continue
		}
		u.Name = allocateFromPath(id, used)
		used[u.Name] = true
	}

	return nil
}

// allocateFromPath implements spec §4.5 step 3 for a single module id.
func allocateFromPath(id string, used map[string]bool) string {
	components := pathComponents(id)
	if len(components) == 0 {
		components = []string{"mod"}
	}

	var best string
	for i := len(components) - 1; i >= 0; i-- {
		candidate := sanitizeJoined(components[i:])
		best = candidate
		if !used[candidate] {
			return candidate
		}
	}

	// Every suffix collided; prepend "_" to the longest candidate until unique.
	for used[best] {
		best = "_" + best
	}
	return best
}

// pathComponents splits a module id into its path segments, stripping a
// trailing file extension from the last segment if one survived resolution
// (external package ids have no extension to strip).
func pathComponents(id string) []string {
	id = strings.TrimSuffix(id, "/")
	var raw []string
	for _, part := range strings.Split(id, "/") {
		if part != "" && part != "." && part != ".." {
			raw = append(raw, part)
		}
	}
	if len(raw) == 0 {
		return raw
	}
	last := raw[len(raw)-1]
	if dot := strings.LastIndexByte(last, '.'); dot > 0 {
		raw[len(raw)-1] = last[:dot]
	}
	return raw
}

func sanitizeJoined(components []string) string {
	parts := make([]string, len(components))
	for i, c := range components {
		parts[i] = sanitizeComponent(c)
	}
	return strings.Join(parts, "_")
}

// sanitizeComponent turns one path segment into a valid identifier character
// sequence, prefixing reserved words (and segments starting with a digit)
// with "_" per spec §4.5 step 3.
func sanitizeComponent(s string) string {
	var b strings.Builder
	for i, r := range s {
		if isIdentChar(r, i == 0) {
			b.WriteRune(r)
		} else {
			b.WriteRune('_')
		}
	}
	out := b.String()
	if out == "" {
		out = "_"
	}
	if unicode.IsDigit(rune(out[0])) {
		out = "_" + out
	}
	if reservedWords[out] {
		out = "_" + out
	}
	return out
}

func isIdentChar(r rune, first bool) bool {
	if r == '_' || r == '$' {
		return true
	}
	if unicode.IsLetter(r) {
		return true
	}
	if !first && unicode.IsDigit(r) {
		return true
	}
	return false
}

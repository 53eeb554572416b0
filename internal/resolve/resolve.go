// Package resolve implements the path-resolution collaborator described in
// spec.md §6: turning an import specifier plus the path of the module that
// imported it into a canonical module id, and probing the filesystem to
// decide whether that id names a real file or an external package.
package resolve

import (
	"os"
	"path"
	"strings"
)

// extensions is the probe order tried against a resolved path with no
// extension of its own, and against `<path>/index`. Grounded on
// internal/analyzer/dependency_graph.go's resolveImportTarget, which tries
// this exact list (plus the `/index` fallback) when matching against known
// graph nodes; here the same order is used to probe the real filesystem.
var extensions = []string{".ts", ".tsx", ".js", ".jsx", ".mts", ".cts", ".mjs", ".cjs"}

// FileExists abstracts filesystem access so callers can probe a real
// filesystem (the default, os.Stat-backed) or an in-memory one in tests.
type FileExists func(path string) bool

// osFileExists is the default FileExists backed by the real filesystem.
func osFileExists(p string) bool {
	info, err := os.Stat(p)
	return err == nil && !info.IsDir()
}

// Resolve turns importPath into a canonical id relative to importerPath, per
// spec §6: a specifier not beginning with `.` or `/` is returned with any
// trailing ".js" stripped (it names a package or builtin, left for the caller
// to classify); otherwise it
// is joined against the importer's directory and cleaned, collapsing `.`/`..`
// segments. Path separators are normalized to `/`.
func Resolve(importPath, importerPath string) string {
	importPath = filepathToSlash(importPath)
	if !strings.HasPrefix(importPath, ".") && !strings.HasPrefix(importPath, "/") {
		return strings.TrimSuffix(importPath, ".js")
	}
	if strings.HasPrefix(importPath, "/") {
		return path.Clean(importPath)
	}
	dir := path.Dir(filepathToSlash(importerPath))
	return path.Clean(path.Join(dir, importPath))
}

func filepathToSlash(p string) string {
	return strings.ReplaceAll(p, "\\", "/")
}

// Probe decides whether id (already resolved against its importer by
// Resolve) names a file that actually exists under base, trying the id
// as-is, the id with each extension appended, and `id/index` with each
// extension appended (spec §6's "File probe collaborator", generalized from
// the reference implementation's single `.js` extension to the full
// TS/JS extension set the parser adapter (A) accepts).
//
// Probe returns the resolved absolute-ish path (base-joined, with
// extension) and true if found; otherwise "" and false, meaning the import
// should be treated as external.
func Probe(exists FileExists, base, id string) (string, bool) {
	if exists == nil {
		exists = osFileExists
	}
	joined := path.Join(base, id)

	if hasKnownExtension(joined) && exists(joined) {
		return joined, true
	}
	for _, ext := range extensions {
		candidate := joined + ext
		if exists(candidate) {
			return candidate, true
		}
	}
	for _, ext := range extensions {
		candidate := path.Join(joined, "index"+ext)
		if exists(candidate) {
			return candidate, true
		}
	}
	return "", false
}

func hasKnownExtension(p string) bool {
	for _, ext := range extensions {
		if strings.HasSuffix(p, ext) {
			return true
		}
	}
	return false
}

// IsRelative reports whether importPath is a relative or absolute filesystem
// specifier (begins with `.` or `/`) as opposed to a bare package name.
func IsRelative(importPath string) bool {
	return strings.HasPrefix(importPath, ".") || strings.HasPrefix(importPath, "/")
}

package wrapper

import "strings"

// BuildAMD renders the define-style wrapper: `define([paths…], function(names…)
// { 'use strict'; <body>; });`, with `'exports'` prepended to the dependency
// list (and an `exports` parameter prepended to the factory) whenever
// in.Strict is set, and this module's own id
// prepended as define()'s first argument when AMDModuleID is set (spec §4.8's
// define-style row). In strict mode the rewritten body already assigns
// exports.x = ... (or defines a getter for a re-exported chain binding), so
// nothing further is appended after it; defaults-only mode returns the
// single default value instead.
func BuildAMD(in Input) string {
	externals := sortedExternals(in.Externals)

	paths := make([]string, 0, len(externals)+1)
	names := make([]string, 0, len(externals)+1)
	if in.Strict {
		paths = append(paths, "exports")
		names = append(names, "exports")
	}
	for _, ext := range externals {
		paths = append(paths, ext.Path)
		names = append(names, ext.Name)
	}

	var b strings.Builder
	b.WriteString("define(")
	if in.AMDModuleID && in.Name != "" {
		b.WriteString(quote(in.Name) + ", ")
	}
	b.WriteString("[" + quoteJoin(paths) + "], function(" + strings.Join(names, ", ") + ") {\n")
	b.WriteString("'use strict';\n\n")

	b.WriteString(in.Body)
	if !strings.HasSuffix(in.Body, "\n") {
		b.WriteString("\n")
	}

	if !in.Strict {
		b.WriteString("\nreturn " + defaultExport(in) + ";\n")
	}

	b.WriteString("});\n")
	return b.String()
}

func quoteJoin(paths []string) string {
	quoted := make([]string, len(paths))
	for i, p := range paths {
		quoted[i] = quote(p)
	}
	return strings.Join(quoted, ", ")
}

package wrapper

import "strings"

// BuildCJS renders the require/exports wrapper: a `'use strict';` preamble,
// one `var N = require('p');` per external dependency, the body, and, in
// defaults-only mode, a single `module.exports = ...` assignment (spec
// §4.8's require/exports row). In strict mode the body itself already
// assigns every exports.x = ...; the rewriter emits that as part of the
// rewritten body, so nothing further is appended here.
func BuildCJS(in Input) string {
	var b strings.Builder

	b.WriteString("'use strict';\n\n")
	for _, ext := range sortedExternals(in.Externals) {
		b.WriteString("var " + ext.Name + " = require(" + quote(ext.Path) + ");\n")
	}
	if len(in.Externals) > 0 {
		b.WriteString("\n")
	}

	b.WriteString(in.Body)
	if !strings.HasSuffix(in.Body, "\n") {
		b.WriteString("\n")
	}

	if !in.Strict {
		b.WriteString("\nmodule.exports = " + defaultExport(in) + ";\n")
	}

	return b.String()
}

package wrapper

import (
	"errors"
	"strings"
)

// ErrMissingName is returned by BuildUMD when Input.Name is empty: the
// universal wrapper's global-fallback branch has nothing to attach its
// export(s) to without it (spec §4.8: "requires a name option; absent, fail
// with a typed MISSING_NAME error").
var ErrMissingName = errors.New("universal (umd) wrapper requires a name option")

// BuildUMD renders the universal wrapper: an IIFE that dispatches to
// require/exports when present, else define when present, else attaches to
// a global under the given name, per spec §4.8's universal row.
func BuildUMD(in Input) (string, error) {
	if in.Name == "" {
		return "", ErrMissingName
	}

	externals := sortedExternals(in.Externals)

	cjsArgs := make([]string, 0, len(externals)+1)
	amdPaths := make([]string, 0, len(externals)+1)
	factoryParams := make([]string, 0, len(externals)+1)
	if in.Strict {
		cjsArgs = append(cjsArgs, "exports")
		amdPaths = append(amdPaths, "'exports'")
		factoryParams = append(factoryParams, "exports")
	}
	for _, ext := range externals {
		cjsArgs = append(cjsArgs, "require("+quote(ext.Path)+")")
		amdPaths = append(amdPaths, quote(ext.Path))
		factoryParams = append(factoryParams, ext.Name)
	}

	globalDispatch := "factory(" + globalFactoryArgs(in, externals) + ")"
	if !in.Strict {
		globalDispatch = "global." + in.Name + " = " + globalDispatch
	}

	var b strings.Builder
	b.WriteString("(function (global, factory) {\n")
	b.WriteString("\ttypeof exports === 'object' && typeof module !== 'undefined' ? module.exports = factory(" + strings.Join(cjsArgs, ", ") + ") :\n")
	b.WriteString("\ttypeof define === 'function' && define.amd ? define([" + strings.Join(amdPaths, ", ") + "], factory) :\n")
	b.WriteString("\t(global = typeof globalThis !== 'undefined' ? globalThis : global || self, " + globalDispatch + ");\n")
	b.WriteString("})(this, (function (" + strings.Join(factoryParams, ", ") + ") {\n")
	b.WriteString("\t'use strict';\n\n")

	b.WriteString(indentBody(in.Body))
	if !strings.HasSuffix(in.Body, "\n") {
		b.WriteString("\n")
	}

	if !in.Strict {
		b.WriteString("\n\treturn " + defaultExport(in) + ";\n")
	}

	b.WriteString("\n}));\n")
	return b.String(), nil
}

// globalFactoryArgs renders the arguments the global-attach branch calls
// factory with: in strict mode the first argument is this module's own
// global.<name> slot (created on demand, since a UMD global fallback has no
// module registry to resolve against and the factory mutates it in place
// rather than returning it); every external resolves to its own
// global.<name> slot in both strict and defaults-only mode.
func globalFactoryArgs(in Input, externals []External) string {
	args := make([]string, 0, len(externals)+1)
	if in.Strict {
		args = append(args, "(global."+in.Name+" = global."+in.Name+" || {})")
	}
	for _, ext := range externals {
		args = append(args, "global."+ext.Name)
	}
	return strings.Join(args, ", ")
}

func indentBody(body string) string {
	lines := strings.Split(strings.TrimRight(body, "\n"), "\n")
	for i, l := range lines {
		if l == "" {
			continue
		}
		lines[i] = "\t" + l
	}
	return strings.Join(lines, "\n") + "\n"
}

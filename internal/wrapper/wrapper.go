// Package wrapper builds the three legacy-module preamble/postamble
// templates (define-style, require/exports, universal), each with a strict
// and a defaults-only variant. The preamble shapes follow the CJS-wrapper
// conventions (module.exports =, exports.x =) shown in the retrieved esmdev
// cjs_fixup reference file.
package wrapper

import (
	"sort"

	"github.com/jvdl/esperanto/domain"
)

// External is one non-local dependency the wrapped body calls through a
// generated local variable (require/exports, universal) or a define() path
// (define-style).
type External struct {
	// Name is the local identifier the body references this dependency by
	// (component F already allocated it; same value used across all three
	// wrapper kinds so a single body works under any of them).
	Name string
	// Path is the raw specifier as written in source (what require()/define()
	// sees), e.g. "lodash" or "./util" for an unresolved-but-allowed import.
	Path string
}

// Export is one binding the wrapped body makes visible to its host, in
// defaults-only mode always exactly one entry named "default".
type Export struct {
	Name        string
	Replacement string
}

// Input is everything a wrapper emitter needs to build a preamble/postamble
// around an already-rewritten body (component H's output).
type Input struct {
	Body string

	Externals []External
	Exports   []Export

	// Strict selects the named-exports-capable variant over the defaults-only
	// variant (module.exports = ... / return ...) per spec §4.6's
	// strict/defaults split. In strict mode Body already contains every
	// exports.x = ...; assignment (or, for a re-exported chain binding, an
	// Object.defineProperty getter) that the rewriter emitted per rule 7, so
	// the wrapper itself appends nothing more; Strict only governs the
	// dependency list/parameter shape (the prepended "exports" path/param).
	Strict bool

	// Name is this module's own identifier; required by the universal
	// wrapper, optional elsewhere (AMD only uses it when AMDModuleID is set).
	Name string

	// AMDModuleID requests that the define-style wrapper include this
	// module's own id as its first argument.
	AMDModuleID bool
}

// sortedExternals returns Input.Externals ordered by Path so wrapper output
// is deterministic regardless of map/slice discovery order upstream.
func sortedExternals(externals []External) []External {
	out := make([]External, len(externals))
	copy(out, externals)
	sort.Slice(out, func(i, j int) bool { return out[i].Path < out[j].Path })
	return out
}

// defaultExport returns in.Exports[0].Replacement when defaults-only mode
// has exactly the one export it's allowed to have; "undefined" if there is
// none (a module with no exports still needs a value to assign/return).
func defaultExport(in Input) string {
	for _, e := range in.Exports {
		if e.Name == "default" {
			return e.Replacement
		}
	}
	if len(in.Exports) == 1 {
		return in.Exports[0].Replacement
	}
	return "undefined"
}

func quote(s string) string {
	return "\"" + s + "\""
}

// Build dispatches to the emitter matching format, the single entry point
// the transpile/bundle services call once component H has produced a body.
func Build(format domain.Format, in Input) (string, error) {
	switch format {
	case domain.FormatAMD:
		return BuildAMD(in), nil
	case domain.FormatCJS:
		return BuildCJS(in), nil
	case domain.FormatUMD:
		return BuildUMD(in)
	default:
		return "", errUnknownFormat(format)
	}
}

type unknownFormatError struct {
	format domain.Format
}

func (e *unknownFormatError) Error() string {
	return "wrapper: unknown format " + string(e.format)
}

func errUnknownFormat(format domain.Format) error {
	return &unknownFormatError{format: format}
}

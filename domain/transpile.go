package domain

// Format names one of the three legacy module wrappers the transpiler can
// emit. Mirrors ModuleType's string-enum style.
type Format string

const (
	FormatAMD Format = "amd"
	FormatCJS Format = "cjs"
	FormatUMD Format = "umd"
)

// ImportDecl is one import statement discovered in a module, generalized
// from Import with the byte-offset positions the rewriter needs to remove or
// replace the whole declaration in place.
type ImportDecl struct {
	Source     string
	SourceType ModuleType
	ImportType ImportType
	Specifiers []ImportSpecifier

	IsTypeOnly bool
	IsDynamic  bool

	// StartByte/EndByte bound the whole declaration (including the trailing
	// semicolon when tree-sitter includes it) in the original source.
	StartByte int
	EndByte   int

	Location SourceLocation
}

// ExportDecl is one export statement discovered in a module, generalized
// from Export with byte-offset positions and the passthrough flag the
// rewriter needs to know whether a declaration survives (e.g. `export const
// x = 1` keeps its `const x = 1` but loses the `export` keyword) or is
// removed outright (e.g. `export { x }` with no declaration).
type ExportDecl struct {
	ExportType  string // "named", "default", "all", "declaration"
	Source      string
	SourceType  ModuleType
	Specifiers  []ExportSpecifier
	Declaration string
	Name        string
	IsTypeOnly  bool

	// DeclStartByte/DeclEndByte bound the `export` keyword (and, for
	// `export default`, the `default` keyword too) that must be stripped
	// while leaving the underlying declaration's body intact. Zero when
	// there is no surviving declaration (e.g. `export { x }`).
	DeclStartByte int
	DeclEndByte   int

	StartByte int
	EndByte   int

	Location SourceLocation
}

// ReExportChain records that thisModule's exportedName is really just a
// re-export of sourceModule's importedName, per spec §4.4's re-export chain
// computation. NamespaceRef is true when this entry models an
// `export * from 'm'` or `export * as ns from 'm'` rather than a single name.
type ReExportChain struct {
	ExportedName string
	SourceModule string
	ImportedName string
	NamespaceRef bool
}

// Module is one parsed, analyzed source file in a transpile or bundle
// operation: the AST is intentionally not embedded here (it lives in the
// transpile package's internal moduleUnit, which layers the working state
// the AST, scope annotations, and template ranges on top of this DTO).
type Module struct {
	ID       string // canonical id, resolved and cleaned path, or package name if external
	FilePath string // absolute filesystem path; empty for external modules
	Name     string // allocated identifier prefix (component F); empty until assigned

	IsExternal bool
	IsEntry    bool

	Source string

	Imports []ImportDecl
	Exports []ExportDecl

	Chains []ReExportChain

	// NeedsDefault/NeedsNamed record, for external modules only, whether any
	// importer uses a default or named binding from it (spec §4.5 step 4).
	NeedsDefault bool
	NeedsNamed   bool

	// IsNamespaceExported is true when some other module re-exports this
	// module's whole namespace (`export * from 'm'` or `export * as ns`) or
	// imports it as a namespace (`import * as ns from 'm'`).
	IsNamespaceExported bool

	// Dependencies lists, in discovery order, the module IDs this module
	// imports or re-exports from, external modules included.
	Dependencies []string
}

// TranspileOptions configures a single-file transpile (spec §4.9's
// `esperanto.toAmd/toCjs/toUmd` trailing options, generalized across all
// three formats).
type TranspileOptions struct {
	Format Format

	// Name, if set, provides the module's own identifier (required for UMD
	// when there is no inferable file path, e.g. transpiling from a raw
	// string).
	Name string

	// AMDModuleIDs, when true, tells the AMD emitter to include this
	// module's own id as the first define() argument.
	AMDModuleIDs bool

	// Strict enables named and namespace imports/exports; when false only
	// default imports and one default export are accepted (spec §7's
	// strict-mode violation check). Every wrapper emits 'use strict' either
	// way.
	Strict bool

	Banner string
	Footer string

	SourceMap bool

	// AllowExternal is not read by the transpiler: a single-file transpile
	// keeps every import as an external dependency whatever its value, and
	// raises no error for unresolved imports.
	AllowExternal bool
}

// TranspileResult is the outcome of a single-file transpile.
type TranspileResult struct {
	Code     string
	Map      *Map
	Imports  []ImportDecl
	Exports  []ExportDecl
	Warnings []string
}

// Map is the JSON-serializable subset of a source-map-v3 document exposed
// across package boundaries (internal/magicstring.Map mirrors this exactly;
// kept distinct so domain has no dependency on internal/magicstring).
type Map struct {
	Version        int      `json:"version"`
	File           string   `json:"file,omitempty"`
	Sources        []string `json:"sources"`
	SourcesContent []string `json:"sourcesContent,omitempty"`
	Names          []string `json:"names"`
	Mappings       string   `json:"mappings"`
}

// BundleRequest configures a multi-file bundle (spec §4.9's `esperanto.bundle`).
type BundleRequest struct {
	Entry  string
	Base   string
	Format Format
	Name   string

	Strict    bool
	Banner    string
	Footer    string
	SourceMap bool

	// AMDModuleIDs, when true, tells the AMD emitter to include the
	// bundle's own name as the first define() argument.
	AMDModuleIDs bool

	// MaxGoroutines bounds the loader's concurrent file reads; <= 0 falls
	// back to runtime.NumCPU().
	MaxGoroutines int

	// Skip lists module ids to leave unresolved even if found on disk,
	// forcing them to be treated as external.
	Skip []string

	// NameOverrides pins specific module ids to an explicit output name
	// instead of letting component F derive one, the static equivalent of
	// spec §6's `getModuleName` callback (a Go port has no clean way to ship
	// an arbitrary caller-supplied function through a CLI/TOML surface, so
	// this generalizes it to a config-driven id -> name table instead). A
	// name that collides with another override or a reserved global is a
	// naming-collision error (spec §7).
	NameOverrides map[string]string
}

// BundleResult is the outcome of a bundle operation.
type BundleResult struct {
	Code     string
	Map      *Map
	Modules  []string // module ids included, in emission order
	Warnings []string
}

package transpile

import "fmt"

// ErrorKind names one entry from the error taxonomy. Every transpile/bundle
// error is fatal to the containing operation: there is no partial output.
type ErrorKind string

const (
	ErrParse                 ErrorKind = "parse_error"
	ErrSelfImport            ErrorKind = "self_import"
	ErrEntryMissing          ErrorKind = "entry_missing"
	ErrDuplicateImportAlias  ErrorKind = "duplicate_import_alias"
	ErrDuplicateDefaultExport ErrorKind = "duplicate_default_export"
	ErrMissingExport         ErrorKind = "missing_export"
	ErrIllegalReassignment   ErrorKind = "illegal_reassignment"
	ErrTopLevelThisMisuse    ErrorKind = "top_level_this_misuse"
	ErrStrictModeViolation   ErrorKind = "strict_mode_violation"
	ErrMissingName           ErrorKind = "missing_name"
	ErrMissingSourceMapConfig ErrorKind = "missing_source_map_config"
	ErrNamingCollision       ErrorKind = "naming_collision"
)

// Error is the single error type every stage of the pipeline returns,
// carrying enough context (module, kind) for a caller to report it without
// string-matching the message.
type Error struct {
	Kind    ErrorKind
	Module  string
	Message string
}

func (e *Error) Error() string {
	if e.Module != "" {
		return fmt.Sprintf("%s: %s: %s", e.Kind, e.Module, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func newError(kind ErrorKind, module, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Module: module, Message: fmt.Sprintf(format, args...)}
}

func errParse(module string, cause error) *Error {
	return newError(ErrParse, module, "%v", cause)
}

func errSelfImport(module, id string) *Error {
	return newError(ErrSelfImport, module, "import resolves to its own module id %q", id)
}

func errEntryMissing(path string, cause error) *Error {
	return newError(ErrEntryMissing, path, "entry file cannot be read: %v", cause)
}

func errDuplicateImportAlias(module, alias string) *Error {
	return newError(ErrDuplicateImportAlias, module, "two import specifiers share the alias %q", alias)
}

func errDuplicateDefaultExport(module string) *Error {
	return newError(ErrDuplicateDefaultExport, module, "module has more than one default export")
}

func errMissingExport(importer, target, name string) *Error {
	return newError(ErrMissingExport, importer, "imports %q from %q, which does not export it", name, target)
}

func errIllegalReassignment(module, name string) *Error {
	return newError(ErrIllegalReassignment, module, "assignment targets imported binding %q", name)
}

func errTopLevelThisMisuse(module string) *Error {
	return newError(ErrTopLevelThisMisuse, module, "top-level `this` used in a member expression")
}

func errStrictModeViolation(module string) *Error {
	return newError(ErrStrictModeViolation, module, "named imports/exports require strict mode")
}

func errMissingName(module string) *Error {
	return newError(ErrMissingName, module, "universal (umd) wrapper requires a name option")
}

func errMissingSourceMapConfig(module string) *Error {
	return newError(ErrMissingSourceMapConfig, module, "source maps requested without a source file path")
}

func errNamingCollision(module, name string) *Error {
	return newError(ErrNamingCollision, module, "user-supplied module-name function returned %q, already in use", name)
}

// NewMissingSourceMapConfigError exposes errMissingSourceMapConfig to callers
// outside this package: domain is a pure in-memory DTO layer with no
// sourceMapFile/sourceMapSource concept, so the file-based app-layer use
// cases own that config and raise this error themselves.
func NewMissingSourceMapConfigError(context string) error {
	return errMissingSourceMapConfig(context)
}

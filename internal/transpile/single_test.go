package transpile

import (
	"strings"
	"testing"

	"github.com/jvdl/esperanto/domain"
)

// TestSingleDefaultsOnlySingleDefaultExport covers spec §8 scenario S1: a
// single default export, defaults-only mode, wrapped as CJS require/exports.
func TestSingleDefaultsOnlySingleDefaultExport(t *testing.T) {
	result, err := Single("export default 42;", domain.TranspileOptions{
		Format: domain.FormatCJS,
		Name:   "mod",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(result.Code, "'use strict';") {
		t.Errorf("missing strict preamble: %q", result.Code)
	}
	if !strings.Contains(result.Code, "module.exports = __default;") {
		t.Errorf("missing defaults-only module.exports assignment: %q", result.Code)
	}
	if strings.Contains(result.Code, "exports.") || strings.Contains(result.Code, "exports[") {
		t.Errorf("defaults-only output must not reference the exports object: %q", result.Code)
	}
	if strings.Contains(result.Code, "export ") || strings.Contains(result.Code, "import ") {
		t.Errorf("no import/export keyword should survive rewriting: %q", result.Code)
	}
}

// TestSingleStrictReassignmentMirroring covers spec §8 scenario S2: a
// reassigned and incremented exported var mirrors every write into the
// exports object inline, without rule 7 appending a redundant final
// assignment for a name rule 3 already mirrored.
func TestSingleStrictReassignmentMirroring(t *testing.T) {
	result, err := Single("export var x = 1;\nx = 2;\nx++;", domain.TranspileOptions{
		Format: domain.FormatCJS,
		Name:   "mod",
		Strict: true,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, want := range []string{"var x = 1;", "exports.x = x = 2;", "x++, exports.x = x;"} {
		if !strings.Contains(result.Code, want) {
			t.Errorf("expected output to contain %q, got: %q", want, result.Code)
		}
	}
	if got := strings.Count(result.Code, "exports.x ="); got != 2 {
		t.Errorf("expected exactly 2 mirrors of exports.x (assignment + update), got %d: %q", got, result.Code)
	}
}

// TestSingleStrictIllegalReassignment covers spec §8 scenario S3: assigning
// to an imported binding is a fatal error, never silently rewritten.
func TestSingleStrictIllegalReassignment(t *testing.T) {
	_, err := Single("import { x } from 'a';\nx = 1;", domain.TranspileOptions{
		Format: domain.FormatCJS,
		Name:   "mod",
		Strict: true,
	})
	if err == nil {
		t.Fatal("expected an illegal-reassignment error")
	}
	transpileErr, ok := err.(*Error)
	if !ok {
		t.Fatalf("expected *Error, got %T: %v", err, err)
	}
	if transpileErr.Kind != ErrIllegalReassignment {
		t.Errorf("expected ErrIllegalReassignment, got %v", transpileErr.Kind)
	}
	if !strings.Contains(transpileErr.Error(), "x") {
		t.Errorf("expected error to name the offending binding, got: %v", transpileErr)
	}
}

// TestSingleRoundTripsModuleWithNoImportsOrExports covers spec §8 invariant
// 2: a module using no ES module syntax passes through unchanged other than
// the wrapper shell around it.
func TestSingleRoundTripsModuleWithNoImportsOrExports(t *testing.T) {
	result, err := Single("var a = 1;\nfunction f() { return a; }\n", domain.TranspileOptions{
		Format: domain.FormatCJS,
		Name:   "mod",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(result.Code, "var a = 1;") {
		t.Errorf("expected declaration to survive untouched: %q", result.Code)
	}
	if !strings.Contains(result.Code, "function f() { return a; }") {
		t.Errorf("expected function body to survive untouched: %q", result.Code)
	}
}

// TestSingleDeterministicAcrossRuns covers spec §8 invariant 3: repeated
// runs over the same input produce byte-identical output.
func TestSingleDeterministicAcrossRuns(t *testing.T) {
	opts := domain.TranspileOptions{Format: domain.FormatAMD, Name: "mod", Strict: true}
	source := "export function foo() { return 1; }\nexport var bar = 2;\n"

	first, err := Single(source, opts)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := Single(source, opts)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if first.Code != second.Code {
		t.Errorf("expected identical output across runs:\n%q\n%q", first.Code, second.Code)
	}
}

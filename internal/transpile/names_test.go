package transpile

import (
	"strings"
	"testing"

	"github.com/jvdl/esperanto/domain"
)

func TestAllocateNamesAdoptsDefaultImportAlias(t *testing.T) {
	units := map[string]*moduleUnit{
		"./util.js": {Module: domain.Module{ID: "./util.js"}},
		"./main.js": {Module: domain.Module{ID: "./main.js", Imports: []domain.ImportDecl{
			{Source: "./util.js", ImportType: domain.ImportTypeDefault, Specifiers: []domain.ImportSpecifier{{Local: "util"}}},
		}}},
	}

	if err := allocateNames(units, nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if units["./util.js"].Name != "util" {
		t.Errorf("expected util.js to adopt its default import alias, got %q", units["./util.js"].Name)
	}
}

func TestAllocateNamesFallsBackToPathWhenAliasTaken(t *testing.T) {
	units := map[string]*moduleUnit{
		"./util.js":  {Module: domain.Module{ID: "./util.js"}},
		"./other.js": {Module: domain.Module{ID: "./other.js"}},
		"./main.js": {Module: domain.Module{ID: "./main.js", Imports: []domain.ImportDecl{
			{Source: "./util.js", ImportType: domain.ImportTypeDefault, Specifiers: []domain.ImportSpecifier{{Local: "Array"}}},
		}}},
	}

	if err := allocateNames(units, nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if units["./util.js"].Name == "Array" {
		t.Errorf("reserved global must not be adopted as a module name, got %q", units["./util.js"].Name)
	}
	if units["./util.js"].Name != "util" {
		t.Errorf("expected path-derived fallback name, got %q", units["./util.js"].Name)
	}
}

func TestAllocateNamesOverridePinsName(t *testing.T) {
	units := map[string]*moduleUnit{
		"./a.js": {Module: domain.Module{ID: "./a.js"}},
	}
	if err := allocateNames(units, map[string]string{"./a.js": "widget"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if units["./a.js"].Name != "widget" {
		t.Errorf("expected override name to win, got %q", units["./a.js"].Name)
	}
}

func TestAllocateNamesOverrideCollisionIsError(t *testing.T) {
	units := map[string]*moduleUnit{
		"./a.js": {Module: domain.Module{ID: "./a.js"}},
		"./b.js": {Module: domain.Module{ID: "./b.js"}},
	}
	err := allocateNames(units, map[string]string{"./a.js": "shared", "./b.js": "shared"})
	if err == nil {
		t.Fatal("expected a naming-collision error")
	}
	transpileErr, ok := err.(*Error)
	if !ok || transpileErr.Kind != ErrNamingCollision {
		t.Errorf("expected ErrNamingCollision, got %v", err)
	}
}

func TestAllocateNamesDisambiguatesPathSuffixes(t *testing.T) {
	units := map[string]*moduleUnit{
		"./a/index.js": {Module: domain.Module{ID: "./a/index.js"}},
		"./b/index.js": {Module: domain.Module{ID: "./b/index.js"}},
	}
	if err := allocateNames(units, nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if units["./a/index.js"].Name == units["./b/index.js"].Name {
		t.Errorf("expected distinct names for colliding basenames, got %q twice", units["./a/index.js"].Name)
	}
	if !strings.HasSuffix(units["./a/index.js"].Name, "index") {
		t.Errorf("expected a suffix-based name, got %q", units["./a/index.js"].Name)
	}
}

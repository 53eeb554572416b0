package transpile

import (
	"context"
	"os"
	"path/filepath"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/jvdl/esperanto/domain"
	"github.com/jvdl/esperanto/internal/parser"
	"github.com/jvdl/esperanto/internal/resolve"
)

// moduleUnit is the working-state counterpart to domain.Module: it carries
// the parsed AST and scope annotations the rewriter needs, which domain.Module
// deliberately omits (domain is a pure DTO layer, same split the teacher
// keeps between domain/ and internal/analyzer's working structures).
type moduleUnit struct {
	domain.Module
	AST            *parser.Node
	TemplateRanges [][2]int

	// ResolvedBySource maps each raw import specifier written in this
	// module's own source (e.g. "./utils") to the module id it resolved to,
	// so chain resolution can turn a re-export's source string back into
	// the same module the loader already discovered for it.
	ResolvedBySource map[string]string

	// Replacements maps a top-level declared name to its final output
	// identifier (component G, spec §4.7 step 2); populated by planExports.
	Replacements map[string]string
}

// loader discovers every module reachable from an entry file, reading and
// parsing them breadth-first and tolerating cycles: a module id already
// in flight is never reloaded. Grounded on service/parallel_executor.go's
// errgroup.WithContext + SetLimit pattern (reworked here for concurrent file
// reads instead of arbitrary tasks) and on
// internal/analyzer/dependency_graph.go's resolveImportTarget for turning an
// import specifier into a module id.
type loader struct {
	base          string
	skip          map[string]bool
	fexists       resolve.FileExists
	maxGoroutines int

	units map[string]*moduleUnit // keyed by module id
}

func newLoader(base string, skip []string, maxGoroutines int) *loader {
	s := make(map[string]bool, len(skip))
	for _, id := range skip {
		s[id] = true
	}
	return &loader{base: base, skip: s, maxGoroutines: maxGoroutines, units: make(map[string]*moduleUnit)}
}

// Load performs the breadth-first discovery starting from entryPath (an
// absolute or base-relative filesystem path), stores every discovered module
// unit in l.units keyed by id, and returns the entry module's id.
func (l *loader) Load(ctx context.Context, entryPath string) (string, error) {
	entrySource, err := os.ReadFile(entryPath)
	if err != nil {
		return "", errEntryMissing(entryPath, err)
	}
	entryID := l.normalizeID(entryPath)

	frontier := []pendingModule{{id: entryID, filePath: entryPath, source: entrySource, isEntry: true}}

	for len(frontier) > 0 {
		var next []pendingModule

		loaded, err := l.loadLevel(ctx, frontier)
		if err != nil {
			return "", err
		}

		for _, u := range loaded {
			l.units[u.ID] = u
			u.ResolvedBySource = make(map[string]string, len(u.Imports)+len(u.Exports))

			sources := make([]string, 0, len(u.Imports)+len(u.Exports))
			for _, imp := range u.Imports {
				sources = append(sources, imp.Source)
			}
			for _, exp := range u.Exports {
				if exp.Source != "" {
					sources = append(sources, exp.Source)
				}
			}

			for _, source := range sources {
				if _, already := u.ResolvedBySource[source]; already {
					continue
				}
				dep := l.resolveImport(source, u.FilePath)
				u.ResolvedBySource[source] = dep.id
				u.Dependencies = append(u.Dependencies, dep.id)
				if dep.id == u.ID {
					return "", errSelfImport(u.ID, dep.id)
				}
				if _, already := l.units[dep.id]; already {
					continue
				}
				if alreadyQueued(next, dep.id) {
					continue
				}
				if dep.external {
					ext := &moduleUnit{Module: domain.Module{ID: dep.id, IsExternal: true}}
					l.units[dep.id] = ext
					continue
				}
				next = append(next, pendingModule{id: dep.id, filePath: dep.filePath})
			}
		}

		frontier = next
	}

	return entryID, nil
}

func alreadyQueued(pending []pendingModule, id string) bool {
	for _, p := range pending {
		if p.id == id {
			return true
		}
	}
	return false
}

type pendingModule struct {
	id       string
	filePath string
	source   []byte
	isEntry  bool
}

type resolvedImport struct {
	id       string
	filePath string
	external bool
}

// resolveImport turns an import specifier into a resolved module reference,
// per spec §6: relative/absolute specifiers are probed against the
// filesystem (component resolve.Probe); anything else is external.
func (l *loader) resolveImport(source, importerPath string) resolvedImport {
	if !resolve.IsRelative(source) {
		return resolvedImport{id: source, external: true}
	}
	id := resolve.Resolve(source, importerPath)
	fpath, ok := resolve.Probe(l.fexists, "", id)
	if !ok {
		return resolvedImport{id: id, external: true}
	}
	normalized := l.normalizeID(fpath)
	if l.skip[normalized] {
		return resolvedImport{id: normalized, external: true}
	}
	return resolvedImport{id: normalized, filePath: fpath}
}

func (l *loader) normalizeID(filePath string) string {
	if l.base != "" {
		if rel, err := relativeTo(l.base, filePath); err == nil {
			return rel
		}
	}
	return filePath
}

func relativeTo(base, target string) (string, error) {
	rel, err := filepath.Rel(base, target)
	if err != nil {
		return "", err
	}
	return filepath.ToSlash(rel), nil
}

// loadLevel reads and parses every pending module in parallel, bounded by
// l.maxGoroutines concurrent goroutines (falling back to NumCPU when unset),
// mirroring ParallelExecutorImpl.Execute's errgroup.SetLimit pattern.
func (l *loader) loadLevel(ctx context.Context, pending []pendingModule) ([]*moduleUnit, error) {
	results := make([]*moduleUnit, len(pending))

	limit := l.maxGoroutines
	if limit <= 0 {
		limit = runtime.NumCPU()
	}

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(limit)

	for i, p := range pending {
		i, p := i, p
		g.Go(func() error {
			select {
			case <-gCtx.Done():
				return gCtx.Err()
			default:
			}

			source := p.source
			if source == nil {
				data, err := os.ReadFile(p.filePath)
				if err != nil {
					return errEntryMissing(p.filePath, err)
				}
				source = data
			}

			unit, err := parseModule(p.id, p.filePath, string(source), p.isEntry)
			if err != nil {
				return err
			}
			results[i] = unit
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// parseModule runs the parser adapter (A), scope annotator (B), and
// declaration extractor (C) over one file's source, per spec §4.1-4.3.
func parseModule(id, filePath, source string, isEntry bool) (*moduleUnit, error) {
	p := parser.NewParser()
	defer p.Close()

	ast, err := p.ParseString(source)
	if err != nil {
		return nil, errParse(id, err)
	}

	annotator := parser.NewScopeAnnotator()
	templateRanges := annotator.Annotate(ast)
	if len(annotator.Errors) > 0 {
		return nil, errTopLevelThisMisuse(id)
	}

	imports, exports, err := extractDeclarations(id, ast)
	if err != nil {
		return nil, err
	}

	return &moduleUnit{
		Module: domain.Module{
			ID:       id,
			FilePath: filePath,
			IsEntry:  isEntry,
			Source:   source,
			Imports:  imports,
			Exports:  exports,
		},
		AST:            ast,
		TemplateRanges: templateRanges,
	}, nil
}

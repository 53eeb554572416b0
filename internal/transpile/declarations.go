package transpile

import (
	"strings"

	"github.com/jvdl/esperanto/domain"
	"github.com/jvdl/esperanto/internal/parser"
)

// extractDeclarations walks root's top-level body and turns every
// import/export node into domain.ImportDecl/domain.ExportDecl, grounded on
// internal/analyzer/module_analyzer.go's processImportDeclaration/
// processExportNamedDeclaration/processExportDefaultDeclaration/
// processExportAllDeclaration, generalized to capture byte offsets (the
// rewriter needs them; the read-only analyzer DTOs didn't).
func extractDeclarations(moduleID string, root *parser.Node) ([]domain.ImportDecl, []domain.ExportDecl, error) {
	var imports []domain.ImportDecl
	var exports []domain.ExportDecl
	seenAliases := make(map[string]bool)
	sawDefault := false

	for _, stmt := range root.Body {
		switch stmt.Type {
		case parser.NodeImportDeclaration:
			imp, err := extractImport(stmt)
			if err != nil {
				return nil, nil, err
			}
			if imp == nil {
				continue
			}
			for _, spec := range imp.Specifiers {
				if spec.Local == "" {
					continue
				}
				if seenAliases[spec.Local] {
					return nil, nil, errDuplicateImportAlias(moduleID, spec.Local)
				}
				seenAliases[spec.Local] = true
			}
			imports = append(imports, *imp)

		case parser.NodeExportDefaultDeclaration:
			if sawDefault {
				return nil, nil, errDuplicateDefaultExport(moduleID)
			}
			sawDefault = true
			exports = append(exports, extractExportDefault(stmt))

		case parser.NodeExportNamedDeclaration:
			exports = append(exports, extractExportNamed(stmt))

		case parser.NodeExportAllDeclaration:
			exports = append(exports, extractExportAll(stmt))
		}
	}

	return imports, exports, nil
}

func extractImport(node *parser.Node) (*domain.ImportDecl, error) {
	source := extractSourceValue(node.Source)
	if source == "" {
		return nil, nil
	}

	imp := &domain.ImportDecl{
		Source:     source,
		SourceType: classifyModuleSource(source),
		IsTypeOnly: isTypeOnlyImport(node),
		StartByte:  node.Location.StartByte,
		EndByte:    node.Location.EndByte,
		Location:   toSourceLocation(node.Location),
	}

	hasDefault, hasNamed, hasNamespace := false, false, false
	for _, spec := range node.Specifiers {
		switch spec.Type {
		case parser.NodeImportDefaultSpecifier:
			hasDefault = true
			imp.Specifiers = append(imp.Specifiers, domain.ImportSpecifier{Imported: "default", Local: spec.Name})
		case parser.NodeImportNamespaceSpecifier:
			hasNamespace = true
			imp.Specifiers = append(imp.Specifiers, domain.ImportSpecifier{Imported: "*", Local: spec.Name})
		case parser.NodeImportSpecifier:
			hasNamed = true
			importedName := spec.Name
			if spec.Imported != nil && spec.Imported.Name != "" {
				importedName = spec.Imported.Name
			}
			imp.Specifiers = append(imp.Specifiers, domain.ImportSpecifier{Imported: importedName, Local: spec.Name})
		}
	}

	switch {
	case hasNamespace:
		imp.ImportType = domain.ImportTypeNamespace
	case hasDefault && !hasNamed:
		imp.ImportType = domain.ImportTypeDefault
	case hasNamed:
		imp.ImportType = domain.ImportTypeNamed
	default:
		imp.ImportType = domain.ImportTypeSideEffect
	}

	return imp, nil
}

func extractExportDefault(node *parser.Node) domain.ExportDecl {
	exp := domain.ExportDecl{
		ExportType:    "default",
		StartByte:     node.Location.StartByte,
		EndByte:       node.Location.EndByte,
		DeclStartByte: node.Location.StartByte,
		Location:      toSourceLocation(node.Location),
	}
	if node.Declaration != nil {
		exp.Declaration = string(node.Declaration.Type)
		exp.Name = node.Declaration.Name
		// The surviving declaration starts wherever the declaration node
		// itself starts; everything before it (`export default `) gets
		// stripped by the rewriter.
		exp.DeclEndByte = node.Declaration.Location.StartByte
	} else {
		exp.DeclEndByte = exp.DeclStartByte
	}
	return exp
}

func extractExportNamed(node *parser.Node) domain.ExportDecl {
	exp := domain.ExportDecl{
		ExportType: "named",
		StartByte:  node.Location.StartByte,
		EndByte:    node.Location.EndByte,
		Location:   toSourceLocation(node.Location),
	}
	if node.Source != nil {
		exp.Source = extractSourceValue(node.Source)
		exp.SourceType = classifyModuleSource(exp.Source)
	}
	if node.Declaration != nil {
		exp.Declaration = string(node.Declaration.Type)
		exp.DeclStartByte = node.Location.StartByte
		exp.DeclEndByte = node.Declaration.Location.StartByte
		if node.Declaration.Name != "" {
			exp.Name = node.Declaration.Name
			exp.Specifiers = append(exp.Specifiers, domain.ExportSpecifier{Local: node.Declaration.Name, Exported: node.Declaration.Name})
		}
		// `export var/let/const x = 1, y = 2;` has no name of its own (the
		// VariableDeclaration node only holds its declarators); surface each
		// bound name as its own specifier instead.
		for _, decl := range node.Declaration.Declarations {
			if decl != nil && decl.Name != "" {
				exp.Specifiers = append(exp.Specifiers, domain.ExportSpecifier{Local: decl.Name, Exported: decl.Name})
			}
		}
	}
	for _, spec := range node.Specifiers {
		local := spec.Name
		exported := spec.Name
		if spec.Local != nil && spec.Local.Name != "" {
			local = spec.Local.Name
		}
		exp.Specifiers = append(exp.Specifiers, domain.ExportSpecifier{Local: local, Exported: exported})
	}
	return exp
}

func extractExportAll(node *parser.Node) domain.ExportDecl {
	exp := domain.ExportDecl{
		ExportType: "all",
		StartByte:  node.Location.StartByte,
		EndByte:    node.Location.EndByte,
		Location:   toSourceLocation(node.Location),
	}
	if node.Source != nil {
		exp.Source = extractSourceValue(node.Source)
		exp.SourceType = classifyModuleSource(exp.Source)
	}
	return exp
}

// extractSourceValue mirrors module_analyzer.go's extractSourceValue: the
// import/export source is a string literal node; strip its surrounding
// quotes.
func extractSourceValue(node *parser.Node) string {
	if node == nil {
		return ""
	}
	switch node.Type {
	case parser.NodeStringLiteral, parser.NodeLiteral:
		raw := node.Raw
		if len(raw) >= 2 {
			first, last := raw[0], raw[len(raw)-1]
			if (first == '"' && last == '"') || (first == '\'' && last == '\'') || (first == '`' && last == '`') {
				return raw[1 : len(raw)-1]
			}
		}
		return raw
	}
	if node.Name != "" {
		return node.Name
	}
	return strings.Trim(node.Raw, `"'`+"`")
}

// classifyModuleSource mirrors module_analyzer.go's classifyModuleSource,
// minus the config-driven alias-pattern check (the transpiler has no
// tsconfig-path-alias concept): node: builtins, relative, absolute, else
// package.
func classifyModuleSource(source string) domain.ModuleType {
	switch {
	case source == "":
		return domain.ModuleTypePackage
	case strings.HasPrefix(source, "node:"):
		return domain.ModuleTypeBuiltin
	case strings.HasPrefix(source, "./") || strings.HasPrefix(source, "../"):
		return domain.ModuleTypeRelative
	case strings.HasPrefix(source, "/"):
		return domain.ModuleTypeAbsolute
	default:
		return domain.ModuleTypePackage
	}
}

// isTypeOnlyImport always reports false: the parser adapter doesn't carry
// a distinct flag for `import type { x } from 'y'` (tree-sitter parses it
// as an ordinary import_statement with a leading `type` token the builder
// doesn't record), so type-only imports are treated as ordinary imports.
func isTypeOnlyImport(node *parser.Node) bool {
	return false
}

func toSourceLocation(loc parser.Location) domain.SourceLocation {
	return domain.SourceLocation{
		FilePath:  loc.File,
		StartLine: loc.StartLine,
		StartCol:  loc.StartCol,
		EndLine:   loc.EndLine,
		EndCol:    loc.EndCol,
	}
}

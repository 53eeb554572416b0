package transpile

import (
	"fmt"

	"github.com/jvdl/esperanto/internal/magicstring"
	"github.com/jvdl/esperanto/internal/parser"
)

// rewriteModule mutates u's source through a single AST traversal, per spec
// §4.6: identifier reference rewriting, the reassignment guard, export
// mirroring, top-level `this` replacement, import/export deletion, the
// namespace getter block, and the final export block.
//
// replacements is the module's identifierReplacements (component G for a
// bundle; just its import aliases for a single-file transpile).
// exportSurface is the flattened list of output-name -> final-identifier
// bindings this module is responsible for emitting (the bundle entry's
// surface, or the module's own exports in single-file mode); nil when this
// module owns no export surface (an ordinary non-entry bundle module).
// namespaceSurface is non-nil only when some importer takes this module as
// a namespace (`import * as x`), triggering the getter-block preamble.
// strict gates the final export block (rule 7): defaults-only mode has
// nothing for it to emit, since its single default export is assigned by the
// wrapper itself.
func rewriteModule(u *moduleUnit, replacements map[string]string, exportSurface, namespaceSurface []ExportBinding, strict bool) (*magicstring.Buffer, error) {
	buf := magicstring.New(u.Source)

	rw := &rewriter{
		buf:               buf,
		replacements:      replacements,
		importedBindings:  importedBindingSet(u),
		namespaceBindings: namespaceBindingSet(u),
		exportByLocal:     buildExportByLocal(u),
		mirrored:          make(map[string]bool),
		moduleID:          u.ID,
	}

	if u.AST != nil {
		for _, stmt := range u.AST.Body {
			rw.walkTop(stmt)
		}
	}
	if len(rw.errs) > 0 {
		return nil, rw.errs[0]
	}

	removeDeclarationSyntax(buf, u, rw)

	if namespaceSurface != nil {
		buf.Prepend(namespaceBlock(u.Name, namespaceSurface))
	}

	// Rule 7 only applies in strict mode: defaults-only mode allows exactly one
	// default export, which the wrapper assigns/returns itself (module.exports
	// = .../return ...), and whose "exports" binding doesn't even exist in the
	// AMD/UMD defaults-only factory.
	if strict && exportSurface != nil {
		for _, binding := range exportSurface {
			if rw.mirrored[binding.Name] {
				continue
			}
			if binding.Chained {
				buf.Append(fmt.Sprintf("\nObject.defineProperty(exports, %s, { get: function () { return %s; } });", exportKey(binding.Name), binding.Replacement))
				continue
			}
			buf.Append(fmt.Sprintf("\n%s = %s;", exportAccessor(binding.Name), binding.Replacement))
		}
	}

	return buf, nil
}

type rewriter struct {
	buf               *magicstring.Buffer
	replacements      map[string]string
	importedBindings  map[string]bool
	namespaceBindings map[string]bool
	exportByLocal     map[string]string // local top-level name -> output name
	mirrored          map[string]bool   // output names already mirrored inline
	moduleID          string
	errs              []error
}

// importedBindingSet collects every local alias an import introduces, used
// by the reassignment guard (spec §4.6 rule 2).
func importedBindingSet(u *moduleUnit) map[string]bool {
	set := make(map[string]bool)
	for _, imp := range u.Imports {
		for _, spec := range imp.Specifiers {
			if spec.Local != "" {
				set[spec.Local] = true
			}
		}
	}
	return set
}

func namespaceBindingSet(u *moduleUnit) map[string]bool {
	set := make(map[string]bool)
	for _, imp := range u.Imports {
		if imp.ImportType != "namespace" {
			continue
		}
		for _, spec := range imp.Specifiers {
			if spec.Local != "" {
				set[spec.Local] = true
			}
		}
	}
	return set
}

// buildExportByLocal maps each top-level name this module exports directly
// (not a re-export-from-source form) to its output name, the table the
// reassignment-mirroring pass (rule 3) consults.
func buildExportByLocal(u *moduleUnit) map[string]string {
	out := make(map[string]string)
	for _, exp := range u.Exports {
		if exp.ExportType != "named" || exp.Source != "" {
			continue
		}
		for _, spec := range exp.Specifiers {
			if spec.Local != "" {
				out[spec.Local] = spec.Exported
			}
		}
	}
	return out
}

// walkTop walks one top-level statement, special-casing import/export nodes
// (whose syntax is stripped separately by removeDeclarationSyntax) so the
// body traversal only rewrites surviving declaration content.
func (rw *rewriter) walkTop(node *parser.Node) {
	if node == nil {
		return
	}
	switch node.Type {
	case parser.NodeImportDeclaration:
		return
	case parser.NodeExportDefaultDeclaration, parser.NodeExportNamedDeclaration:
		rw.walk(node.Declaration)
		return
	case parser.NodeExportAllDeclaration:
		return
	}
	rw.walk(node)
}

// walk is the single traversal spec §4.6 describes, covering every slot
// Node.Walk does, customized so assignment/update targets get the
// guard/mirror treatment instead of a plain identifier rewrite.
func (rw *rewriter) walk(node *parser.Node) {
	if node == nil {
		return
	}

	switch node.Type {
	case parser.NodeIdentifier:
		rw.rewriteIdentifierRef(node)
		return

	case parser.NodeThisExpression:
		if node.IsTopLevelThis {
			rw.buf.Replace(node.Location.StartByte, node.Location.EndByte, "undefined")
		}
		return

	case parser.NodeAssignmentExpression:
		rw.handleAssignment(node)
		return

	case parser.NodeUpdateExpression:
		rw.handleUpdate(node)
		return

	case parser.NodeFunction, parser.NodeFunctionExpression, parser.NodeGeneratorFunction, parser.NodeClass:
		rw.renameDeclarationSite(node)

	case parser.NodeVariableDeclarator:
		rw.renameDeclarationSite(node)
	}

	for _, c := range node.Children {
		rw.walk(c)
	}
	for _, p := range node.Params {
		rw.walk(p)
	}
	for _, s := range node.Body {
		rw.walk(s)
	}
	for _, c := range node.Cases {
		rw.walk(c)
	}
	for _, h := range node.Handlers {
		rw.walk(h)
	}
	for _, a := range node.Arguments {
		rw.walk(a)
	}
	for _, d := range node.Declarations {
		rw.walk(d)
	}
	for _, s := range node.Specifiers {
		rw.walk(s)
	}
	rw.walk(node.Test)
	rw.walk(node.Consequent)
	rw.walk(node.Alternate)
	rw.walk(node.Init)
	rw.walk(node.Update)
	rw.walk(node.Handler)
	rw.walk(node.Finalizer)
	rw.walk(node.Left)
	rw.walk(node.Right)
	rw.walk(node.Argument)
	rw.walk(node.Callee)
	rw.walk(node.Object)
	rw.walk(node.Property)
	rw.walk(node.Declaration)
}

// renameDeclarationSite rewrites a function/class/variable declaration's own
// name token (which, unlike a reference, has no Identifier node of its own)
// when it conflicts and needs the module prefix applied.
func (rw *rewriter) renameDeclarationSite(node *parser.Node) {
	if node.Name == "" {
		return
	}
	repl, ok := rw.replacements[node.Name]
	if !ok || repl == node.Name {
		return
	}
	if node.NameLocation.EndByte <= node.NameLocation.StartByte {
		return
	}
	rw.buf.Replace(node.NameLocation.StartByte, node.NameLocation.EndByte, repl)
}

// rewriteIdentifierRef implements spec §4.6 rule 1.
func (rw *rewriter) rewriteIdentifierRef(node *parser.Node) {
	if node.Skip || node.Name == "" {
		return
	}
	if node.Scope != nil && node.Scope.Contains(node.Name, true) {
		return
	}
	repl, ok := rw.replacements[node.Name]
	if !ok || repl == node.Name {
		return
	}
	rw.buf.Replace(node.Location.StartByte, node.Location.EndByte, repl)
}

// isShadowed reports whether name resolves to a scope other than the module
// top level from node's position, i.e. a local variable merely sharing the
// name with an import/export binding.
func isShadowed(node *parser.Node, name string) bool {
	return node != nil && node.Scope != nil && node.Scope.Contains(name, true)
}

func (rw *rewriter) handleAssignment(node *parser.Node) {
	left := node.Left
	switch {
	case left != nil && left.Type == parser.NodeIdentifier:
		name := left.Name
		shadowed := isShadowed(left, name)
		if !shadowed && rw.importedBindings[name] {
			rw.errs = append(rw.errs, errIllegalReassignment(rw.moduleID, name))
			break
		}
		repl, ok := rw.replacements[name]
		if !ok {
			repl = name
		}
		if repl != name {
			rw.buf.Replace(left.Location.StartByte, left.Location.EndByte, repl)
		}
		if !shadowed {
			if outputName, ok := rw.exportByLocal[name]; ok {
				rw.buf.Insert(node.Location.StartByte, exportAccessor(outputName)+" = ")
				rw.mirrored[outputName] = true
			}
		}

	case left != nil && left.Type == parser.NodeMemberExpression:
		if obj := left.Object; obj != nil && obj.Type == parser.NodeIdentifier {
			if rw.namespaceBindings[obj.Name] && !isShadowed(obj, obj.Name) {
				rw.errs = append(rw.errs, errIllegalReassignment(rw.moduleID, obj.Name+" (namespace)"))
			}
		}
		rw.walk(left)
	}

	rw.walk(node.Right)
}

func (rw *rewriter) handleUpdate(node *parser.Node) {
	arg := node.Argument
	if arg == nil || arg.Type != parser.NodeIdentifier {
		rw.walk(arg)
		return
	}

	name := arg.Name
	shadowed := isShadowed(arg, name)
	if !shadowed && rw.importedBindings[name] {
		rw.errs = append(rw.errs, errIllegalReassignment(rw.moduleID, name))
		return
	}

	repl, ok := rw.replacements[name]
	if !ok {
		repl = name
	}
	if repl != name {
		rw.buf.Replace(arg.Location.StartByte, arg.Location.EndByte, repl)
	}

	if !shadowed {
		if outputName, ok := rw.exportByLocal[name]; ok {
			rw.buf.Insert(node.Location.EndByte, ", "+exportAccessor(outputName)+" = "+repl)
			rw.mirrored[outputName] = true
		}
	}
}

// removeDeclarationSyntax implements spec §4.6 rule 5: strip every import
// statement outright, and every export's leading `export`/`export default`
// keyword span while preserving the surviving declaration body.
func removeDeclarationSyntax(buf *magicstring.Buffer, u *moduleUnit, rw *rewriter) {
	for _, imp := range u.Imports {
		buf.Remove(imp.StartByte, imp.EndByte)
	}

	for _, exp := range u.Exports {
		switch exp.ExportType {
		case "all":
			buf.Remove(exp.StartByte, exp.EndByte)

		case "named":
			if exp.Source != "" || exp.Declaration == "" {
				// `export { x } from 'm'` or bare `export { x };`: no surviving
				// declaration, remove the whole clause.
				buf.Remove(exp.StartByte, exp.EndByte)
				continue
			}
			buf.Remove(exp.DeclStartByte, exp.DeclEndByte)

		case "default":
			if exp.Name != "" {
				buf.Remove(exp.DeclStartByte, exp.DeclEndByte)
				continue
			}
			defaultLocal := defaultBinding(u)
			buf.Replace(exp.DeclStartByte, exp.DeclEndByte, "var "+defaultLocal+" = ")
		}
	}
}

// namespaceBlock builds the getter-object preamble for a namespace-exported
// module (spec §4.6 rule 6 / §8 scenario S5).
func namespaceBlock(name string, surface []ExportBinding) string {
	out := "var " + name + " = {"
	for i, binding := range surface {
		if i > 0 {
			out += ","
		}
		out += fmt.Sprintf(" get %s () { return %s; }", binding.Name, binding.Replacement)
	}
	out += " };\n"
	return out
}

// exportAccessor renders the exports-object member access for an output
// name, using bracket notation for reserved words (chiefly "default").
func exportAccessor(name string) string {
	if name == "default" || reservedWords[name] {
		return fmt.Sprintf("exports[%q]", name)
	}
	return "exports." + name
}

// exportKey renders name as an Object.defineProperty property-name argument.
func exportKey(name string) string {
	return fmt.Sprintf("%q", name)
}

// singleFileExportSurface builds the export list a single-file transpile
// emits, the non-bundle counterpart to planExports' flattenExports: every
// directly declared export plus, if present, the default export.
func singleFileExportSurface(u *moduleUnit, replacements map[string]string) []ExportBinding {
	var out []ExportBinding
	for _, exp := range u.Exports {
		if exp.ExportType != "named" || exp.Source != "" {
			continue
		}
		for _, spec := range exp.Specifiers {
			repl, ok := replacements[spec.Local]
			if !ok {
				repl = spec.Local
			}
			out = append(out, ExportBinding{Name: spec.Exported, Replacement: repl})
		}
	}
	for _, exp := range u.Exports {
		if exp.ExportType != "default" {
			continue
		}
		out = append(out, ExportBinding{Name: "default", Replacement: defaultBinding(u)})
	}
	return out
}

// singleFileImportReplacements builds identifierReplacements for a
// single-file transpile: every import alias maps to `moduleName.specifier`
// (or bare `moduleName` for a default/namespace import), where moduleName is
// the allocated name of the imported (necessarily external) module.
func singleFileImportReplacements(u *moduleUnit, units map[string]*moduleUnit) map[string]string {
	out := make(map[string]string)
	for _, imp := range u.Imports {
		targetID := resolveLocalID(units, u, imp.Source)
		target := units[targetID]
		moduleName := targetID
		if target != nil {
			moduleName = target.Name
		}
		for _, spec := range imp.Specifiers {
			if spec.Local == "" {
				continue
			}
			switch imp.ImportType {
			case "namespace":
				out[spec.Local] = moduleName
			case "default":
				out[spec.Local] = moduleName
			default:
				out[spec.Local] = moduleName + "." + spec.Imported
			}
		}
	}
	return out
}

package parser

import "fmt"

// errTopLevelThisMemberAccess reports `this.x` at module top level: the
// legacy wrapper would bind `this` to something other than `undefined`
// there, so the member access can't be rewritten safely.
func errTopLevelThisMemberAccess(node *Node) error {
	return fmt.Errorf("top-level `this` used in a member expression at %s: module top-level `this` is undefined and has no properties", node.Location)
}

// Scope is a lexical environment: an ordered list of declared names and a link
// to its parent. Function nodes and block nodes each get their own Scope;
// everything else inherits the nearest enclosing one.
type Scope struct {
	names  map[string]bool
	order  []string
	parent *Scope
	isFunc bool
}

// NewScope creates a scope nested inside parent (parent may be nil for the
// module top-level scope).
func NewScope(parent *Scope, isFunc bool) *Scope {
	return &Scope{
		names:  make(map[string]bool),
		parent: parent,
		isFunc: isFunc,
	}
}

// Add declares name in this scope.
func (s *Scope) Add(name string) {
	if name == "" || s.names[name] {
		return
	}
	s.names[name] = true
	s.order = append(s.order, name)
}

// Declares reports whether name is declared directly in this scope (not a parent).
func (s *Scope) Declares(name string) bool {
	return s.names[name]
}

// Names returns the names declared directly in this scope, in declaration order.
func (s *Scope) Names() []string {
	return s.order
}

// Parent returns the enclosing scope, or nil at module top level.
func (s *Scope) Parent() *Scope {
	return s.parent
}

// IsTopLevel reports whether this scope has no parent.
func (s *Scope) IsTopLevel() bool {
	return s.parent == nil
}

// contains walks this scope and its ancestors looking for name. When
// ignoreTopLevel is set, a match found in a scope with no parent (i.e. the
// module top level) does not count — this lets the rewriter distinguish a
// local that shadows an import/export binding from the top-level binding
// itself, per spec §3's Scope.contains contract.
func (s *Scope) contains(name string, ignoreTopLevel bool) bool {
	for sc := s; sc != nil; sc = sc.parent {
		if ignoreTopLevel && sc.IsTopLevel() {
			return false
		}
		if sc.Declares(name) {
			return true
		}
	}
	return false
}

// Contains is the exported form of contains, used outside this package.
func (s *Scope) Contains(name string, ignoreTopLevel bool) bool {
	return s.contains(name, ignoreTopLevel)
}

// ScopeAnnotator performs the single pre/post walk described in spec §4.2: it
// attaches a Scope to every function/block node, marks property-key and
// member-property identifiers Skip, flags top-level `this`, and collects
// template-literal ranges.
type ScopeAnnotator struct {
	funcScope  *Scope
	blockScope *Scope

	templateRanges [][2]int

	// Errors accumulates "top-level this in member expression" violations
	// (spec §4.2, §7): these are fatal to the containing transpile/bundle
	// operation, collected here rather than panicking mid-walk.
	Errors []error
}

// NewScopeAnnotator creates an annotator ready to walk a single module's tree.
func NewScopeAnnotator() *ScopeAnnotator {
	return &ScopeAnnotator{}
}

// Annotate walks root (expected to be a Program node) and returns the
// template-literal ranges collected along the way. It mutates root and its
// descendants in place, setting Scope/Skip/IsTopLevelThis.
func (a *ScopeAnnotator) Annotate(root *Node) [][2]int {
	if root == nil {
		return nil
	}
	top := NewScope(nil, true)
	a.funcScope = top
	a.blockScope = top
	root.Scope = top

	// Seed the top-level scope with every top-level declaration before
	// visiting bodies, so forward references (hoisting) resolve correctly.
	for _, stmt := range root.Body {
		a.seedTopLevel(stmt, top)
	}

	for _, stmt := range root.Body {
		a.visit(stmt, top, top, true)
	}
	return a.templateRanges
}

// seedTopLevel registers the name(s) a top-level statement declares, without
// recursing into its body — the full walk in visit() does that.
func (a *ScopeAnnotator) seedTopLevel(node *Node, scope *Scope) {
	if node == nil {
		return
	}
	switch node.Type {
	case NodeVariableDeclaration:
		for _, decl := range node.Declarations {
			if decl != nil && decl.Name != "" {
				scope.Add(decl.Name)
			}
		}
	case NodeFunction, NodeAsyncFunction, NodeGeneratorFunction, NodeClass:
		if node.Name != "" {
			scope.Add(node.Name)
		}
	case NodeExportNamedDeclaration, NodeExportDefaultDeclaration:
		if node.Declaration != nil {
			a.seedTopLevel(node.Declaration, scope)
		}
	}
}

// visit is the recursive walker. funcScope/blockScope are the nearest
// enclosing scopes of that kind; topLevel is true only while still directly
// under the module Program (not inside any function or block).
func (a *ScopeAnnotator) visit(node *Node, funcScope, blockScope *Scope, topLevel bool) {
	if node == nil {
		return
	}

	switch node.Type {
	case NodeThisExpression:
		if topLevel {
			node.IsTopLevelThis = true
		}
		node.Scope = blockScope
		return

	case NodeMemberExpression:
		node.Scope = blockScope
		if topLevel && node.Object != nil && node.Object.Type == NodeThisExpression {
			a.Errors = append(a.Errors, errTopLevelThisMemberAccess(node))
		}
		if node.Object != nil {
			a.visit(node.Object, funcScope, blockScope, topLevel)
		}
		if node.Property != nil && !node.Computed {
			node.Property.Skip = true
			node.Property.Scope = blockScope
		} else if node.Property != nil {
			a.visit(node.Property, funcScope, blockScope, topLevel)
		}
		return

	case NodeProperty:
		node.Scope = blockScope
		// Object-literal property keys are not identifier references.
		if node.Left != nil && !node.Computed {
			node.Left.Skip = true
		} else if node.Left != nil {
			a.visit(node.Left, funcScope, blockScope, topLevel)
		}
		if node.Right != nil {
			a.visit(node.Right, funcScope, blockScope, topLevel)
		}
		return

	case NodeTemplateLiteral:
		a.templateRanges = append(a.templateRanges, [2]int{node.Location.StartByte, node.Location.EndByte})
		node.Scope = blockScope

	case NodeFunction, NodeFunctionExpression, NodeArrowFunction, NodeAsyncFunction, NodeGeneratorFunction, NodeMethodDefinition:
		inner := NewScope(funcScope, true)
		node.Scope = inner
		for _, p := range node.Params {
			a.seedParam(p, inner)
		}
		innerTop := false
		for _, stmt := range node.Body {
			a.seedTopLevel(stmt, inner)
		}
		for _, stmt := range node.Body {
			a.visit(stmt, inner, inner, innerTop)
		}
		return

	case NodeBlockStatement, NodeStatementBlock:
		inner := NewScope(blockScope, false)
		node.Scope = inner
		for _, stmt := range node.Body {
			a.seedBlock(stmt, inner)
		}
		for _, stmt := range node.Body {
			a.visit(stmt, funcScope, inner, false)
		}
		return

	case NodeCatchClause:
		inner := NewScope(blockScope, false)
		node.Scope = inner
		if node.Handler != nil {
			a.seedParam(node.Handler, inner)
		}
		for _, stmt := range node.Body {
			a.visit(stmt, funcScope, inner, false)
		}
		return

	case NodeVariableDeclaration:
		node.Scope = blockScope
		target := blockScope
		if node.Kind == "var" {
			target = funcScope
		}
		for _, decl := range node.Declarations {
			if decl == nil {
				continue
			}
			if !topLevel && decl.Name != "" {
				target.Add(decl.Name)
			}
			decl.Scope = blockScope
			if decl.Right != nil {
				a.visit(decl.Right, funcScope, blockScope, false)
			}
		}
		return

	case NodeImportDeclaration:
		node.Scope = blockScope
		for _, spec := range node.Specifiers {
			if spec != nil {
				funcScope.Add(spec.Name)
			}
		}
		return
	}

	node.Scope = blockScope

	// Generic recursion over every child slot the tree can hold.
	for _, c := range node.Children {
		a.visit(c, funcScope, blockScope, false)
	}
	for _, p := range node.Params {
		a.visit(p, funcScope, blockScope, false)
	}
	for _, stmt := range node.Body {
		a.visit(stmt, funcScope, blockScope, topLevel && node.Type == NodeProgram)
	}
	for _, c := range node.Cases {
		a.visit(c, funcScope, blockScope, false)
	}
	for _, h := range node.Handlers {
		a.visit(h, funcScope, blockScope, false)
	}
	for _, arg := range node.Arguments {
		a.visit(arg, funcScope, blockScope, false)
	}
	for _, d := range node.Declarations {
		a.visit(d, funcScope, blockScope, false)
	}
	for _, s := range node.Specifiers {
		a.visit(s, funcScope, blockScope, false)
	}
	if node.Test != nil {
		a.visit(node.Test, funcScope, blockScope, false)
	}
	if node.Consequent != nil {
		a.visit(node.Consequent, funcScope, blockScope, false)
	}
	if node.Alternate != nil {
		a.visit(node.Alternate, funcScope, blockScope, false)
	}
	if node.Init != nil {
		a.visit(node.Init, funcScope, blockScope, false)
	}
	if node.Update != nil {
		a.visit(node.Update, funcScope, blockScope, false)
	}
	if node.Handler != nil {
		a.visit(node.Handler, funcScope, blockScope, false)
	}
	if node.Finalizer != nil {
		a.visit(node.Finalizer, funcScope, blockScope, false)
	}
	if node.Left != nil {
		a.visit(node.Left, funcScope, blockScope, topLevel)
	}
	if node.Right != nil {
		a.visit(node.Right, funcScope, blockScope, false)
	}
	if node.Argument != nil {
		a.visit(node.Argument, funcScope, blockScope, topLevel)
	}
	if node.Callee != nil {
		a.visit(node.Callee, funcScope, blockScope, false)
	}
	if node.Object != nil {
		a.visit(node.Object, funcScope, blockScope, false)
	}
	if node.Property != nil {
		a.visit(node.Property, funcScope, blockScope, false)
	}
	if node.Declaration != nil {
		a.visit(node.Declaration, funcScope, blockScope, topLevel)
	}
}

// seedBlock registers names lexically declared (let/const/function/class)
// directly inside a block, without recursing into nested bodies.
func (a *ScopeAnnotator) seedBlock(node *Node, scope *Scope) {
	if node == nil {
		return
	}
	switch node.Type {
	case NodeVariableDeclaration:
		if node.Kind == "var" {
			return // hoisted to the function scope instead, handled in visit()
		}
		for _, decl := range node.Declarations {
			if decl != nil && decl.Name != "" {
				scope.Add(decl.Name)
			}
		}
	case NodeFunction, NodeClass:
		if node.Name != "" {
			scope.Add(node.Name)
		}
	}
}

// seedParam adds a parameter's bound name(s) to scope, including the common
// "rest parameter" shape (...args), which the reference implementation left
// as a TODO and out of scope; spec §9 asks for the conservative fix.
func (a *ScopeAnnotator) seedParam(param *Node, scope *Scope) {
	if param == nil {
		return
	}
	if param.Name != "" {
		scope.Add(param.Name)
	}
	if param.Argument != nil {
		a.seedParam(param.Argument, scope)
	}
	for _, c := range param.Children {
		a.seedParam(c, scope)
	}
}

// Package resolver assigns binding identities to identifiers.
//
// After resolution every identifier that refers to a module-local binding
// carries the nonzero scope context of its declaration, so two occurrences
// of the same binding compare equal by ast.Id even under shadowing.
// Identifiers with no local declaration (globals, intrinsic JSX tags, this)
// keep ast.UnresolvedCtxt.
//
// Resolution follows the hoisting rules that matter for identity:
// - var and function declarations bind in the nearest function (or module)
//   scope, visible before their statement
// - let, const and imports bind in their own block scope
// - parameters and a function expression's own name bind in the function
//   scope
package resolver

import (
	"github.com/modfall/stripexport/internal/ast"
)

// Resolve walks the module and assigns scope contexts in place.
func Resolve(m *ast.Module) {
	r := &resolver{next: 1}
	top := newScope(nil, scopeFn)

	r.hoistModule(top, m)
	for _, item := range m.Items {
		r.resolveItem(top, item)
	}
}

// ----------------------------------------------------------------------------
// Scopes
// ----------------------------------------------------------------------------

type scopeKind uint8

const (
	scopeFn scopeKind = iota
	scopeBlock
)

type scope struct {
	parent   *scope
	kind     scopeKind
	bindings map[string]uint32
}

func newScope(parent *scope, kind scopeKind) *scope {
	return &scope{parent: parent, kind: kind, bindings: make(map[string]uint32)}
}

// fnScope returns the nearest enclosing function scope, for var hoisting.
func (s *scope) fnScope() *scope {
	for s.kind != scopeFn {
		s = s.parent
	}
	return s
}

func (s *scope) lookup(name string) uint32 {
	for sc := s; sc != nil; sc = sc.parent {
		if ctxt, ok := sc.bindings[name]; ok {
			return ctxt
		}
	}
	return ast.UnresolvedCtxt
}

type resolver struct {
	next uint32
}

// declare binds a name in the scope, keeping an existing binding when the
// name is redeclared in the same scope (var x; var x).
func (r *resolver) declare(s *scope, name string) {
	if _, ok := s.bindings[name]; ok {
		return
	}
	s.bindings[name] = r.next
	r.next++
}

// ----------------------------------------------------------------------------
// Hoisting Pre-Scans
// ----------------------------------------------------------------------------

// hoistModule declares every top-level binding of the module: imports,
// function and variable declarations (exported or not), plus var bindings
// nested inside top-level blocks.
func (r *resolver) hoistModule(s *scope, m *ast.Module) {
	for _, item := range m.Items {
		switch it := item.(type) {
		case *ast.ImportDecl:
			for _, spec := range it.Specifiers {
				r.declare(s, spec.LocalIdent().Name)
			}
		case *ast.ExportDecl:
			r.hoistStmt(s, it.Decl, true)
		case ast.Stmt:
			r.hoistStmt(s, it, true)
		}
	}
}

// hoistFnBody declares the hoisted bindings of a function body: direct
// function declarations plus all var bindings, however deeply nested.
func (r *resolver) hoistFnBody(s *scope, body *ast.BlockStmt) {
	for _, stmt := range body.Stmts {
		r.hoistStmt(s, stmt, true)
	}
}

// hoistBlock declares the block-scoped bindings of a statement list:
// let, const and function declarations directly inside it.
func (r *resolver) hoistBlock(s *scope, stmts []ast.Stmt) {
	for _, stmt := range stmts {
		switch st := stmt.(type) {
		case *ast.FnDecl:
			r.declare(s, st.Ident.Name)
		case *ast.VarDecl:
			if st.Kind != ast.VarDeclVar {
				r.declarePat(s, st)
			}
		}
	}
}

// hoistStmt walks a statement declaring its hoistable bindings into s.
// Direct function declarations and lexical declarations bind only when the
// statement list is the scope body (direct == true); var declarations bind
// regardless of nesting depth, without entering nested functions.
func (r *resolver) hoistStmt(s *scope, stmt ast.Stmt, direct bool) {
	switch st := stmt.(type) {
	case *ast.FnDecl:
		if direct {
			r.declare(s, st.Ident.Name)
		}
	case *ast.VarDecl:
		if st.Kind == ast.VarDeclVar || direct {
			r.declarePat(s, st)
		}
	case *ast.BlockStmt:
		for _, inner := range st.Stmts {
			r.hoistStmt(s, inner, false)
		}
	case *ast.IfStmt:
		r.hoistStmt(s, st.Cons, false)
		if st.Alt != nil {
			r.hoistStmt(s, st.Alt, false)
		}
	case *ast.ForStmt:
		if st.Init != nil {
			r.hoistStmt(s, st.Init, false)
		}
		r.hoistStmt(s, st.Body, false)
	case *ast.ForInOfStmt:
		r.hoistStmt(s, st.Left, false)
		r.hoistStmt(s, st.Body, false)
	case *ast.WhileStmt:
		r.hoistStmt(s, st.Body, false)
	}
}

// declarePat declares every name bound by the declarators of a VarDecl.
func (r *resolver) declarePat(s *scope, decl *ast.VarDecl) {
	for _, d := range decl.Decls {
		r.declarePatNames(s, d.Name)
	}
}

func (r *resolver) declarePatNames(s *scope, pat ast.Pat) {
	switch p := pat.(type) {
	case *ast.Ident:
		r.declare(s, p.Name)
	case *ast.ArrayPat:
		for _, el := range p.Elems {
			if el != nil {
				r.declarePatNames(s, el)
			}
		}
	case *ast.ObjectPat:
		for _, prop := range p.Props {
			switch pp := prop.(type) {
			case *ast.KeyValuePatProp:
				r.declarePatNames(s, pp.Value)
			case *ast.AssignPatProp:
				r.declare(s, pp.Key.Name)
			case *ast.RestPatProp:
				r.declarePatNames(s, pp.Arg)
			}
		}
	case *ast.RestPat:
		r.declarePatNames(s, p.Arg)
	case *ast.AssignPat:
		r.declarePatNames(s, p.Left)
	}
}

// ----------------------------------------------------------------------------
// Resolution Walk
// ----------------------------------------------------------------------------

func (r *resolver) resolveItem(s *scope, item ast.ModuleItem) {
	switch it := item.(type) {
	case *ast.ImportDecl:
		for _, spec := range it.Specifiers {
			r.resolveIdent(s, spec.LocalIdent())
		}
	case *ast.ExportDecl:
		r.resolveStmt(s, it.Decl)
	case *ast.NamedExport:
		// Orig names reference local bindings only for local exports;
		// re-exports with a source refer into the other module.
		if it.Src == "" {
			for _, spec := range it.Specifiers {
				if named, ok := spec.(*ast.ExportNamedSpecifier); ok {
					r.resolveIdent(s, named.Orig)
				}
			}
		}
	case *ast.ExportDefaultDecl:
		r.resolveExpr(s, it.Fn)
	case *ast.ExportDefaultExpr:
		r.resolveExpr(s, it.Expr)
	case ast.Stmt:
		r.resolveStmt(s, it)
	}
}

func (r *resolver) resolveIdent(s *scope, id *ast.Ident) {
	if id == nil {
		return
	}
	id.Ctxt = s.lookup(id.Name)
}

func (r *resolver) resolveStmt(s *scope, stmt ast.Stmt) {
	switch st := stmt.(type) {
	case *ast.BlockStmt:
		inner := newScope(s, scopeBlock)
		r.hoistBlock(inner, st.Stmts)
		for _, child := range st.Stmts {
			r.resolveStmt(inner, child)
		}
	case *ast.ExprStmt:
		r.resolveExpr(s, st.Expr)
	case *ast.ReturnStmt:
		if st.Arg != nil {
			r.resolveExpr(s, st.Arg)
		}
	case *ast.IfStmt:
		r.resolveExpr(s, st.Test)
		r.resolveStmt(s, st.Cons)
		if st.Alt != nil {
			r.resolveStmt(s, st.Alt)
		}
	case *ast.ForStmt:
		inner := newScope(s, scopeBlock)
		if init, ok := st.Init.(*ast.VarDecl); ok && init.Kind != ast.VarDeclVar {
			r.declarePat(inner, init)
		}
		if st.Init != nil {
			r.resolveStmt(inner, st.Init)
		}
		if st.Test != nil {
			r.resolveExpr(inner, st.Test)
		}
		if st.Update != nil {
			r.resolveExpr(inner, st.Update)
		}
		r.resolveStmt(inner, st.Body)
	case *ast.ForInOfStmt:
		inner := newScope(s, scopeBlock)
		if left, ok := st.Left.(*ast.VarDecl); ok && left.Kind != ast.VarDeclVar {
			r.declarePat(inner, left)
		}
		r.resolveStmt(inner, st.Left)
		r.resolveExpr(inner, st.Right)
		r.resolveStmt(inner, st.Body)
	case *ast.WhileStmt:
		r.resolveExpr(s, st.Test)
		r.resolveStmt(s, st.Body)
	case *ast.ThrowStmt:
		r.resolveExpr(s, st.Arg)
	case *ast.FnDecl:
		r.resolveIdent(s, st.Ident)
		r.resolveFunction(s, st.Fn)
	case *ast.VarDecl:
		for _, d := range st.Decls {
			r.resolvePat(s, d.Name)
			if d.Init != nil {
				r.resolveExpr(s, d.Init)
			}
		}
	}
}

// resolvePat resolves the identifiers of a binding pattern, including the
// expressions of default values.
func (r *resolver) resolvePat(s *scope, pat ast.Pat) {
	switch p := pat.(type) {
	case *ast.Ident:
		r.resolveIdent(s, p)
	case *ast.ArrayPat:
		for _, el := range p.Elems {
			if el != nil {
				r.resolvePat(s, el)
			}
		}
	case *ast.ObjectPat:
		for _, prop := range p.Props {
			switch pp := prop.(type) {
			case *ast.KeyValuePatProp:
				r.resolvePat(s, pp.Value)
			case *ast.AssignPatProp:
				r.resolveIdent(s, pp.Key)
				if pp.Value != nil {
					r.resolveExpr(s, pp.Value)
				}
			case *ast.RestPatProp:
				r.resolvePat(s, pp.Arg)
			}
		}
	case *ast.RestPat:
		r.resolvePat(s, p.Arg)
	case *ast.AssignPat:
		r.resolvePat(s, p.Left)
		r.resolveExpr(s, p.Right)
	}
}

// resolveFunction resolves a function body in a fresh function scope with
// its parameters declared.
func (r *resolver) resolveFunction(s *scope, fn *ast.Function) {
	inner := newScope(s, scopeFn)
	for _, param := range fn.Params {
		r.declarePatNames(inner, param)
	}
	r.hoistFnBody(inner, fn.Body)
	for _, param := range fn.Params {
		r.resolvePat(inner, param)
	}
	for _, stmt := range fn.Body.Stmts {
		r.resolveStmt(inner, stmt)
	}
}

func (r *resolver) resolveExpr(s *scope, expr ast.Expr) {
	switch e := expr.(type) {
	case *ast.Ident:
		r.resolveIdent(s, e)
	case *ast.Literal:
		// nothing to resolve
	case *ast.CallExpr:
		r.resolveExpr(s, e.Callee)
		for _, arg := range e.Args {
			r.resolveExpr(s, arg)
		}
	case *ast.MemberExpr:
		r.resolveExpr(s, e.Obj)
	case *ast.IndexExpr:
		r.resolveExpr(s, e.Obj)
		r.resolveExpr(s, e.Index)
	case *ast.FnExpr:
		inner := newScope(s, scopeFn)
		if e.Ident != nil {
			// A function expression's own name binds inside itself.
			r.declare(inner, e.Ident.Name)
			r.resolveIdent(inner, e.Ident)
		}
		for _, param := range e.Fn.Params {
			r.declarePatNames(inner, param)
		}
		r.hoistFnBody(inner, e.Fn.Body)
		for _, param := range e.Fn.Params {
			r.resolvePat(inner, param)
		}
		for _, stmt := range e.Fn.Body.Stmts {
			r.resolveStmt(inner, stmt)
		}
	case *ast.ArrowExpr:
		inner := newScope(s, scopeFn)
		for _, param := range e.Params {
			r.declarePatNames(inner, param)
		}
		if e.Body != nil {
			r.hoistFnBody(inner, e.Body)
		}
		for _, param := range e.Params {
			r.resolvePat(inner, param)
		}
		if e.Body != nil {
			for _, stmt := range e.Body.Stmts {
				r.resolveStmt(inner, stmt)
			}
		} else {
			r.resolveExpr(inner, e.Expr)
		}
	case *ast.BinaryExpr:
		r.resolveExpr(s, e.Left)
		r.resolveExpr(s, e.Right)
	case *ast.UnaryExpr:
		r.resolveExpr(s, e.Arg)
	case *ast.CondExpr:
		r.resolveExpr(s, e.Test)
		r.resolveExpr(s, e.Cons)
		r.resolveExpr(s, e.Alt)
	case *ast.AssignExpr:
		r.resolveExpr(s, e.Target)
		r.resolveExpr(s, e.Value)
	case *ast.ObjectLit:
		for _, prop := range e.Props {
			switch pp := prop.(type) {
			case *ast.KeyValueProp:
				r.resolveExpr(s, pp.Value)
			case *ast.ShorthandProp:
				r.resolveIdent(s, pp.Id)
			case *ast.SpreadProp:
				r.resolveExpr(s, pp.Expr)
			}
		}
	case *ast.ArrayLit:
		for _, el := range e.Elems {
			if el != nil {
				r.resolveExpr(s, el)
			}
		}
	case *ast.SpreadExpr:
		r.resolveExpr(s, e.Expr)
	case *ast.TemplateLit:
		for _, sub := range e.Exprs {
			r.resolveExpr(s, sub)
		}
	case *ast.ParenExpr:
		r.resolveExpr(s, e.Expr)
	case *ast.JSXElement:
		r.resolveJSX(s, e)
	}
}

func (r *resolver) resolveJSX(s *scope, elem *ast.JSXElement) {
	// Lowercase single-name tags are intrinsic elements, not bindings.
	if name := elem.Name.Root.Name; name != "" {
		isComponent := len(elem.Name.Props) > 0 || (name[0] >= 'A' && name[0] <= 'Z')
		if isComponent {
			r.resolveIdent(s, elem.Name.Root)
		}
	}
	for _, attr := range elem.Attrs {
		if attr.Value != nil {
			r.resolveExpr(s, attr.Value)
		}
	}
	for _, child := range elem.Children {
		switch c := child.(type) {
		case *ast.JSXExprChild:
			r.resolveExpr(s, c.Expr)
		case *ast.JSXElement:
			r.resolveJSX(s, c)
		}
	}
}

package prune

import (
	"github.com/modfall/stripexport/internal/ast"
)

// rewriter is the mutating pass. It consumes the reference sets the analyzer
// filled and performs all deletions and replacements, seeding newly orphaned
// sub-trees for the next pass via markAsCandidate.
//
// Deletions inside containers use sentinels (ast.EmptyStmt for items and
// statements, ast.InvalidPat for pattern slots); the enclosing list rebuild
// filters them out.
type rewriter struct {
	state      *state
	inLHSOfVar bool

	// exportedVar is set while rewriting an exported variable's declarators:
	// bindings nested in its patterns are droppable by target name alone.
	exportedVar bool
	// patNested is set below the top level of a binding pattern.
	patNested bool
}

// markAsCandidate proposes every identifier in the sub-tree for removal by
// re-running the analyzer over it in permanent removal context. The next
// pass decides whether surviving code still references them.
func (r *rewriter) markAsCandidate(visit func(a *analyzer)) {
	a := &analyzer{state: r.state, inDataFn: true}
	visit(a)
	r.state.shouldRunAgain = true
}

func (r *rewriter) markExpr(e ast.Expr) {
	r.markAsCandidate(func(a *analyzer) {
		if e != nil {
			a.expr(e)
		}
	})
}

func (r *rewriter) markFunction(fn *ast.Function) {
	r.markAsCandidate(func(a *analyzer) { a.function(fn) })
}

// emptyFn builds the canonical replacement for a removed default export: an
// anonymous zero-argument function with an empty body.
func emptyFn() *ast.FnExpr {
	return &ast.FnExpr{Fn: &ast.Function{Body: &ast.BlockStmt{}}}
}

// isEmptyFn reports whether fn already is the canonical replacement.
func isEmptyFn(fn *ast.FnExpr) bool {
	return fn.Ident == nil && len(fn.Fn.Params) == 0 && len(fn.Fn.Body.Stmts) == 0
}

// ----------------------------------------------------------------------------
// Module Items
// ----------------------------------------------------------------------------

func (r *rewriter) module(m *ast.Module) {
	items := m.Items[:0]
	for _, item := range m.Items {
		item = r.item(item)
		if ast.IsEmptyStmt(item) {
			continue
		}
		items = append(items, item)
	}
	m.Items = items
}

func (r *rewriter) item(item ast.ModuleItem) ast.ModuleItem {
	switch it := item.(type) {
	case *ast.ImportDecl:
		return r.importDecl(it)

	case *ast.ExportDecl:
		return r.exportDecl(it)

	case *ast.NamedExport:
		return r.namedExport(it)

	case *ast.ExportDefaultDecl:
		// The default slot is replaced, never deleted. The analyzer already
		// classified the old contents as removal references, so nothing is
		// reseeded here and an already-replaced slot stays untouched.
		if r.state.removeDefault() {
			if !isEmptyFn(it.Fn) {
				it.Fn = emptyFn()
				r.state.dropped()
			}
			return it
		}
		it.Fn.Fn.Body = r.block(it.Fn.Fn.Body)
		return it

	case *ast.ExportDefaultExpr:
		if r.state.removeDefault() {
			if fn, ok := it.Expr.(*ast.FnExpr); !ok || !isEmptyFn(fn) {
				it.Expr = emptyFn()
				r.state.dropped()
			}
			return it
		}
		it.Expr = r.expr(it.Expr)
		return it

	case ast.Stmt:
		return r.stmt(it)
	}
	return item
}

// importDecl drops specifiers whose local binding is removable. A pure
// side-effect import (zero specifiers as written) is never touched; an
// import whose specifiers were all dropped disappears entirely.
func (r *rewriter) importDecl(i *ast.ImportDecl) ast.ModuleItem {
	if len(i.Specifiers) == 0 {
		return i
	}

	kept := i.Specifiers[:0]
	for _, spec := range i.Specifiers {
		if r.state.removable(spec.LocalIdent().ToId()) {
			r.state.shouldRunAgain = true
			r.state.dropped()
			continue
		}
		kept = append(kept, spec)
	}
	i.Specifiers = kept

	if len(i.Specifiers) == 0 {
		return &ast.EmptyStmt{}
	}
	return i
}

// exportDecl removes a targeted exported function outright; exported
// variables flow through the declarator rules and the whole export vanishes
// when nothing remains.
func (r *rewriter) exportDecl(e *ast.ExportDecl) ast.ModuleItem {
	switch d := e.Decl.(type) {
	case *ast.FnDecl:
		if r.state.isTarget(d.Ident.Name) {
			r.markFunction(d.Fn)
			r.state.dropped()
			return &ast.EmptyStmt{}
		}
		d.Fn.Body = r.block(d.Fn.Body)
		return e

	case *ast.VarDecl:
		r.exportedVar = true
		d.Decls = r.declarators(d.Decls)
		r.exportedVar = false
		if len(d.Decls) == 0 {
			r.state.dropped()
			return &ast.EmptyStmt{}
		}
		return e
	}
	return e
}

// namedExport drops specifiers under a targeted name. Each dropped
// specifier's original identity is reseeded into the candidate set so the
// binding it pointed at can be pruned next pass.
func (r *rewriter) namedExport(n *ast.NamedExport) ast.ModuleItem {
	kept := n.Specifiers[:0]
	for _, spec := range n.Specifiers {
		switch s := spec.(type) {
		case *ast.ExportNamespaceSpecifier:
			if s.Name != "" && r.state.isTarget(s.Name) {
				r.state.dropped()
				continue
			}
		case *ast.ExportNamedSpecifier:
			if r.state.isTarget(s.ExportedName()) {
				r.state.shouldRunAgain = true
				r.state.refsFromDataFn[s.Orig.ToId()] = true
				r.state.dropped()
				continue
			}
		}
		kept = append(kept, spec)
	}
	n.Specifiers = kept

	if len(n.Specifiers) == 0 {
		return &ast.EmptyStmt{}
	}
	return n
}

// ----------------------------------------------------------------------------
// Statements
// ----------------------------------------------------------------------------

func (r *rewriter) stmt(s ast.Stmt) ast.Stmt {
	switch st := s.(type) {
	case *ast.FnDecl:
		if r.state.removable(st.Ident.ToId()) {
			r.markFunction(st.Fn)
			r.state.dropped()
			return &ast.EmptyStmt{Loc: st.Loc}
		}
		st.Fn.Body = r.block(st.Fn.Body)
		return st

	case *ast.VarDecl:
		st.Decls = r.declarators(st.Decls)
		if len(st.Decls) == 0 {
			r.state.dropped()
			return &ast.EmptyStmt{Loc: st.Loc}
		}
		return st

	case *ast.BlockStmt:
		return r.block(st)

	case *ast.ExprStmt:
		st.Expr = r.expr(st.Expr)
		return st

	case *ast.ReturnStmt:
		if st.Arg != nil {
			st.Arg = r.expr(st.Arg)
		}
		return st

	case *ast.IfStmt:
		st.Test = r.expr(st.Test)
		st.Cons = r.stmt(st.Cons)
		if st.Alt != nil {
			st.Alt = r.stmt(st.Alt)
		}
		return st

	case *ast.ForStmt:
		if st.Init != nil {
			st.Init = r.stmt(st.Init)
		}
		if st.Test != nil {
			st.Test = r.expr(st.Test)
		}
		if st.Update != nil {
			st.Update = r.expr(st.Update)
		}
		st.Body = r.stmt(st.Body)
		return st

	case *ast.ForInOfStmt:
		st.Right = r.expr(st.Right)
		st.Body = r.stmt(st.Body)
		return st

	case *ast.WhileStmt:
		st.Test = r.expr(st.Test)
		st.Body = r.stmt(st.Body)
		return st

	case *ast.ThrowStmt:
		st.Arg = r.expr(st.Arg)
		return st
	}
	return s
}

// block rebuilds a statement list, filtering deletion placeholders.
func (r *rewriter) block(b *ast.BlockStmt) *ast.BlockStmt {
	stmts := b.Stmts[:0]
	for _, s := range b.Stmts {
		s = r.stmt(s)
		if ast.IsEmptyStmt(s) {
			continue
		}
		stmts = append(stmts, s)
	}
	b.Stmts = stmts
	return b
}

// ----------------------------------------------------------------------------
// Declarators and Patterns
// ----------------------------------------------------------------------------

// declarators rewrites each declarator and drops the ones whose pattern was
// fully pruned.
func (r *rewriter) declarators(decls []*ast.VarDeclarator) []*ast.VarDeclarator {
	kept := decls[:0]
	for _, d := range decls {
		d = r.declarator(d)
		if ast.IsInvalidPat(d.Name) {
			r.state.dropped()
			continue
		}
		kept = append(kept, d)
	}
	return kept
}

// declarator prunes the left-hand pattern; when the whole pattern goes away
// the initializer's references are proposed as removal candidates.
func (r *rewriter) declarator(d *ast.VarDeclarator) *ast.VarDeclarator {
	old := r.inLHSOfVar
	oldNested := r.patNested
	r.inLHSOfVar = true
	r.patNested = false
	d.Name = r.pat(d.Name)

	r.inLHSOfVar = false
	r.patNested = oldNested
	if ast.IsInvalidPat(d.Name) && d.Init != nil {
		r.markExpr(d.Init)
	}
	if d.Init != nil {
		d.Init = r.expr(d.Init)
	}
	r.inLHSOfVar = old
	return d
}

// exportedTarget reports whether id names a targeted binding inside an
// exported destructuring pattern. Such a binding is dropped by name alone;
// its identity is seeded so code only it referenced falls on the next pass.
func (r *rewriter) exportedTarget(id *ast.Ident) bool {
	if !r.exportedVar || !r.state.isTarget(id.Name) {
		return false
	}
	r.state.refsFromDataFn[id.ToId()] = true
	return true
}

// nestedPat rewrites a pattern that sits below the declarator's top level.
func (r *rewriter) nestedPat(p ast.Pat) ast.Pat {
	old := r.patNested
	r.patNested = true
	p = r.pat(p)
	r.patNested = old
	return p
}

// pat prunes removable bindings out of a declarator's left-hand pattern,
// returning ast.InvalidPat when nothing of the pattern remains. Outside a
// declarator LHS it only recurses for nested functions.
func (r *rewriter) pat(p ast.Pat) ast.Pat {
	// Defaults can hold arbitrary expressions; rewrite them first.
	switch pt := p.(type) {
	case *ast.AssignPat:
		pt.Left = r.nestedPat(pt.Left)
		pt.Right = r.expr(pt.Right)
	case *ast.ArrayPat:
		for i, el := range pt.Elems {
			if el != nil {
				pt.Elems[i] = r.nestedPat(el)
			}
		}
	case *ast.RestPat:
		pt.Arg = r.nestedPat(pt.Arg)
	case *ast.ObjectPat:
		for _, prop := range pt.Props {
			switch pp := prop.(type) {
			case *ast.KeyValuePatProp:
				pp.Value = r.nestedPat(pp.Value)
			case *ast.RestPatProp:
				pp.Arg = r.nestedPat(pp.Arg)
			}
		}
	}

	if !r.inLHSOfVar {
		return p
	}

	switch pt := p.(type) {
	case *ast.Ident:
		if r.state.removable(pt.ToId()) || (r.patNested && r.exportedTarget(pt)) {
			r.state.shouldRunAgain = true
			return &ast.InvalidPat{Loc: pt.Loc}
		}

	case *ast.ArrayPat:
		if len(pt.Elems) > 0 {
			kept := pt.Elems[:0]
			for _, el := range pt.Elems {
				if el != nil && ast.IsInvalidPat(el) {
					r.state.dropped()
					continue
				}
				kept = append(kept, el)
			}
			pt.Elems = kept
			if len(pt.Elems) == 0 {
				return &ast.InvalidPat{Loc: pt.Loc}
			}
		}

	case *ast.ObjectPat:
		if len(pt.Props) > 0 {
			kept := pt.Props[:0]
			for _, prop := range pt.Props {
				switch pp := prop.(type) {
				case *ast.KeyValuePatProp:
					if ast.IsInvalidPat(pp.Value) {
						r.state.dropped()
						continue
					}
				case *ast.AssignPatProp:
					if r.state.removable(pp.Key.ToId()) || r.exportedTarget(pp.Key) {
						r.markExpr(pp.Value)
						r.state.dropped()
						continue
					}
				case *ast.RestPatProp:
					if ast.IsInvalidPat(pp.Arg) {
						r.state.dropped()
						continue
					}
				}
				kept = append(kept, prop)
			}
			pt.Props = kept
			if len(pt.Props) == 0 {
				return &ast.InvalidPat{Loc: pt.Loc}
			}
		}

	case *ast.RestPat:
		if ast.IsInvalidPat(pt.Arg) {
			return &ast.InvalidPat{Loc: pt.Loc}
		}
	}

	return p
}

// ----------------------------------------------------------------------------
// Expressions
// ----------------------------------------------------------------------------

// expr recurses into expressions so that declarations nested inside function
// bodies are pruned by the same rules. Expressions themselves are never
// removed here.
func (r *rewriter) expr(e ast.Expr) ast.Expr {
	switch ex := e.(type) {
	case *ast.CallExpr:
		ex.Callee = r.expr(ex.Callee)
		for i, arg := range ex.Args {
			ex.Args[i] = r.expr(arg)
		}
	case *ast.MemberExpr:
		ex.Obj = r.expr(ex.Obj)
	case *ast.IndexExpr:
		ex.Obj = r.expr(ex.Obj)
		ex.Index = r.expr(ex.Index)
	case *ast.FnExpr:
		ex.Fn.Body = r.functionBody(ex.Fn.Body)
	case *ast.ArrowExpr:
		if ex.Body != nil {
			ex.Body = r.functionBody(ex.Body)
		} else {
			ex.Expr = r.expr(ex.Expr)
		}
	case *ast.BinaryExpr:
		ex.Left = r.expr(ex.Left)
		ex.Right = r.expr(ex.Right)
	case *ast.UnaryExpr:
		ex.Arg = r.expr(ex.Arg)
	case *ast.CondExpr:
		ex.Test = r.expr(ex.Test)
		ex.Cons = r.expr(ex.Cons)
		ex.Alt = r.expr(ex.Alt)
	case *ast.AssignExpr:
		ex.Target = r.expr(ex.Target)
		ex.Value = r.expr(ex.Value)
	case *ast.ObjectLit:
		for _, prop := range ex.Props {
			switch pp := prop.(type) {
			case *ast.KeyValueProp:
				pp.Value = r.expr(pp.Value)
			case *ast.SpreadProp:
				pp.Expr = r.expr(pp.Expr)
			}
		}
	case *ast.ArrayLit:
		for i, el := range ex.Elems {
			if el != nil {
				ex.Elems[i] = r.expr(el)
			}
		}
	case *ast.SpreadExpr:
		ex.Expr = r.expr(ex.Expr)
	case *ast.TemplateLit:
		for i, sub := range ex.Exprs {
			ex.Exprs[i] = r.expr(sub)
		}
	case *ast.ParenExpr:
		ex.Expr = r.expr(ex.Expr)
	case *ast.JSXElement:
		r.jsx(ex)
	}
	return e
}

// functionBody rewrites a body outside of any var-LHS or exported-var
// context: a pattern inside a nested function is not an export surface.
func (r *rewriter) functionBody(b *ast.BlockStmt) *ast.BlockStmt {
	old := r.inLHSOfVar
	oldExported := r.exportedVar
	r.inLHSOfVar = false
	r.exportedVar = false
	b = r.block(b)
	r.inLHSOfVar = old
	r.exportedVar = oldExported
	return b
}

func (r *rewriter) jsx(elem *ast.JSXElement) {
	for i := range elem.Attrs {
		if elem.Attrs[i].Value != nil {
			elem.Attrs[i].Value = r.expr(elem.Attrs[i].Value)
		}
	}
	for _, child := range elem.Children {
		switch c := child.(type) {
		case *ast.JSXExprChild:
			c.Expr = r.expr(c.Expr)
		case *ast.JSXElement:
			r.jsx(c)
		}
	}
}

package prune

import (
	"github.com/modfall/stripexport/internal/ast"
)

// analyzer is the read-only classification pass. It never changes the tree;
// it only fills the state's reference sets.
//
// inDataFn tracks whether the walk is inside a removal-marked sub-tree: the
// body of an exported function whose name is targeted, the declarators of a
// targeted exported variable, or a targeted default export. The flag is
// inherited downward and never turns back off within the sub-tree.
type analyzer struct {
	state      *state
	inDataFn   bool
	inLHSOfVar bool
}

// addRef records one identifier reference into the set selected by the
// current traversal context.
func (a *analyzer) addRef(id ast.Id) {
	if a.inDataFn {
		a.state.refsFromDataFn[id] = true
		return
	}
	if a.state.curDeclaring[id] {
		return
	}
	a.state.refsFromOther[id] = true
}

// ----------------------------------------------------------------------------
// Module Items
// ----------------------------------------------------------------------------

func (a *analyzer) module(m *ast.Module) {
	for _, item := range m.Items {
		a.item(item)
	}
}

func (a *analyzer) item(item ast.ModuleItem) {
	switch it := item.(type) {
	case *ast.ImportDecl:
		// Import locals are declarations, not uses.

	case *ast.ExportDecl:
		a.exportDecl(it)

	case *ast.NamedExport:
		for _, spec := range it.Specifiers {
			named, ok := spec.(*ast.ExportNamedSpecifier)
			if !ok {
				continue
			}
			// A specifier under a doomed name must not keep the underlying
			// binding alive; the rewriter drops it and reseeds the original
			// identity itself.
			if a.state.isTarget(named.ExportedName()) || a.state.isTarget(named.Orig.Name) {
				continue
			}
			a.addRef(named.Orig.ToId())
		}

	case *ast.ExportDefaultDecl:
		a.checkDefault(func() { a.expr(it.Fn) })

	case *ast.ExportDefaultExpr:
		a.checkDefault(func() { a.expr(it.Expr) })

	case ast.Stmt:
		a.stmt(it)
	}
}

// exportDecl enters removal context when the exported declaration's name
// matches a target. For variables only the first declarator's name is
// checked, and a match marks the whole declaration.
func (a *analyzer) exportDecl(e *ast.ExportDecl) {
	old := a.inDataFn

	switch d := e.Decl.(type) {
	case *ast.FnDecl:
		if a.state.isTarget(d.Ident.Name) {
			a.inDataFn = true
			a.addRef(d.Ident.ToId())
		}
	case *ast.VarDecl:
		if len(d.Decls) > 0 {
			if id, ok := d.Decls[0].Name.(*ast.Ident); ok && a.state.isTarget(id.Name) {
				a.inDataFn = true
				a.addRef(id.ToId())
			}
		}
	}

	a.stmt(e.Decl)
	a.inDataFn = old
}

// checkDefault visits a default export's contents, in removal context when
// "default" is targeted.
func (a *analyzer) checkDefault(visit func()) {
	if !a.state.removeDefault() {
		visit()
		return
	}
	old := a.inDataFn
	a.inDataFn = true
	visit()
	a.inDataFn = old
}

// ----------------------------------------------------------------------------
// Statements
// ----------------------------------------------------------------------------

func (a *analyzer) stmt(s ast.Stmt) {
	switch st := s.(type) {
	case *ast.BlockStmt:
		for _, child := range st.Stmts {
			a.stmt(child)
		}
	case *ast.ExprStmt:
		a.expr(st.Expr)
	case *ast.ReturnStmt:
		if st.Arg != nil {
			a.expr(st.Arg)
		}
	case *ast.IfStmt:
		a.expr(st.Test)
		a.stmt(st.Cons)
		if st.Alt != nil {
			a.stmt(st.Alt)
		}
	case *ast.ForStmt:
		if st.Init != nil {
			a.stmt(st.Init)
		}
		if st.Test != nil {
			a.expr(st.Test)
		}
		if st.Update != nil {
			a.expr(st.Update)
		}
		a.stmt(st.Body)
	case *ast.ForInOfStmt:
		a.stmt(st.Left)
		a.expr(st.Right)
		a.stmt(st.Body)
	case *ast.WhileStmt:
		a.expr(st.Test)
		a.stmt(st.Body)
	case *ast.ThrowStmt:
		a.expr(st.Arg)
	case *ast.FnDecl:
		a.function(st.Fn)
		// The declared name is a reference only inside removal-marked code,
		// where it proposes the function itself for the cascade.
		if a.inDataFn {
			a.addRef(st.Ident.ToId())
		}
	case *ast.VarDecl:
		for _, d := range st.Decls {
			a.declarator(d)
		}
	}
}

// declarator visits one name = init pair. Binding identifiers on the left
// side only count as references in removal context.
func (a *analyzer) declarator(d *ast.VarDeclarator) {
	old := a.inLHSOfVar
	a.inLHSOfVar = true
	a.pat(d.Name)
	a.inLHSOfVar = false
	if d.Init != nil {
		a.expr(d.Init)
	}
	a.inLHSOfVar = old
}

// ----------------------------------------------------------------------------
// Patterns
// ----------------------------------------------------------------------------

func (a *analyzer) pat(p ast.Pat) {
	switch pt := p.(type) {
	case *ast.Ident:
		a.bindingIdent(pt)
	case *ast.ArrayPat:
		for _, el := range pt.Elems {
			if el != nil {
				a.pat(el)
			}
		}
	case *ast.ObjectPat:
		for _, prop := range pt.Props {
			switch pp := prop.(type) {
			case *ast.KeyValuePatProp:
				a.pat(pp.Value)
			case *ast.AssignPatProp:
				a.bindingIdent(pp.Key)
				if pp.Value != nil {
					a.expr(pp.Value)
				}
			case *ast.RestPatProp:
				a.pat(pp.Arg)
			}
		}
	case *ast.RestPat:
		a.pat(pt.Arg)
	case *ast.AssignPat:
		a.pat(pt.Left)
		a.expr(pt.Right)
	}
}

func (a *analyzer) bindingIdent(id *ast.Ident) {
	if !a.inLHSOfVar || a.inDataFn {
		a.addRef(id.ToId())
	}
}

// ----------------------------------------------------------------------------
// Expressions
// ----------------------------------------------------------------------------

func (a *analyzer) expr(e ast.Expr) {
	switch ex := e.(type) {
	case *ast.Ident:
		a.addRef(ex.ToId())
	case *ast.Literal:
		// no references
	case *ast.CallExpr:
		a.expr(ex.Callee)
		for _, arg := range ex.Args {
			a.expr(arg)
		}
	case *ast.MemberExpr:
		a.expr(ex.Obj)
	case *ast.IndexExpr:
		a.expr(ex.Obj)
		a.expr(ex.Index)
	case *ast.FnExpr:
		a.function(ex.Fn)
		if ex.Ident != nil {
			a.addRef(ex.Ident.ToId())
		}
	case *ast.ArrowExpr:
		old := a.inLHSOfVar
		a.inLHSOfVar = false
		for _, param := range ex.Params {
			a.pat(param)
		}
		if ex.Body != nil {
			for _, stmt := range ex.Body.Stmts {
				a.stmt(stmt)
			}
		} else {
			a.expr(ex.Expr)
		}
		a.inLHSOfVar = old
	case *ast.BinaryExpr:
		a.expr(ex.Left)
		a.expr(ex.Right)
	case *ast.UnaryExpr:
		a.expr(ex.Arg)
	case *ast.CondExpr:
		a.expr(ex.Test)
		a.expr(ex.Cons)
		a.expr(ex.Alt)
	case *ast.AssignExpr:
		a.expr(ex.Target)
		a.expr(ex.Value)
	case *ast.ObjectLit:
		for _, prop := range ex.Props {
			switch pp := prop.(type) {
			case *ast.KeyValueProp:
				a.expr(pp.Value)
			case *ast.ShorthandProp:
				a.addRef(pp.Id.ToId())
			case *ast.SpreadProp:
				a.expr(pp.Expr)
			}
		}
	case *ast.ArrayLit:
		for _, el := range ex.Elems {
			if el != nil {
				a.expr(el)
			}
		}
	case *ast.SpreadExpr:
		a.expr(ex.Expr)
	case *ast.TemplateLit:
		for _, sub := range ex.Exprs {
			a.expr(sub)
		}
	case *ast.ParenExpr:
		a.expr(ex.Expr)
	case *ast.JSXElement:
		a.jsx(ex)
	}
}

// function visits parameters and body outside of any var-LHS context.
func (a *analyzer) function(fn *ast.Function) {
	old := a.inLHSOfVar
	a.inLHSOfVar = false
	for _, param := range fn.Params {
		a.pat(param)
	}
	for _, stmt := range fn.Body.Stmts {
		a.stmt(stmt)
	}
	a.inLHSOfVar = old
}

// jsx records the leftmost tag identifier as a use: <Foo.Bar.Baz /> uses
// Foo, not Bar or Baz.
func (a *analyzer) jsx(elem *ast.JSXElement) {
	a.addRef(elem.Name.Root.ToId())
	for _, attr := range elem.Attrs {
		if attr.Value != nil {
			a.expr(attr.Value)
		}
	}
	for _, child := range elem.Children {
		switch c := child.(type) {
		case *ast.JSXExprChild:
			a.expr(c.Expr)
		case *ast.JSXElement:
			a.jsx(c)
		}
	}
}

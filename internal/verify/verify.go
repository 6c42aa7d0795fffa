// Package verify checks a transformed module for dangling references.
//
// After pruning, every identifier that the resolver bound to a module-local
// declaration must still have that declaration in the tree. Verify walks the
// module once, collecting declared identities and used identities, and
// reports every use whose declaration is gone. Identifiers the resolver left
// unresolved (globals, intrinsic tags) are ignored.
package verify

import (
	"fmt"

	"github.com/modfall/stripexport/internal/ast"
)

// Problem is one dangling reference.
type Problem struct {
	Id  ast.Id
	Loc ast.Loc
}

func (p Problem) String() string {
	return fmt.Sprintf("dangling reference to %q at offset %d", p.Id.Name, p.Loc.Start)
}

// Check returns the dangling references of the module, if any.
func Check(m *ast.Module) []Problem {
	c := &checker{
		declared: make(map[ast.Id]bool),
	}
	for _, item := range m.Items {
		c.declareItem(item)
	}
	for _, item := range m.Items {
		c.useItem(item)
	}

	var problems []Problem
	for _, u := range c.uses {
		if !c.declared[u.Id] {
			problems = append(problems, u)
		}
	}
	return problems
}

type checker struct {
	declared map[ast.Id]bool
	uses     []Problem
}

func (c *checker) declare(id *ast.Ident) {
	if id != nil && id.Ctxt != ast.UnresolvedCtxt {
		c.declared[id.ToId()] = true
	}
}

func (c *checker) use(id *ast.Ident) {
	if id != nil && id.Ctxt != ast.UnresolvedCtxt {
		c.uses = append(c.uses, Problem{Id: id.ToId(), Loc: id.Loc})
	}
}

// ----------------------------------------------------------------------------
// Declaration Collection
// ----------------------------------------------------------------------------

func (c *checker) declareItem(item ast.ModuleItem) {
	switch it := item.(type) {
	case *ast.ImportDecl:
		for _, spec := range it.Specifiers {
			c.declare(spec.LocalIdent())
		}
	case *ast.ExportDecl:
		c.declareStmt(it.Decl)
	case *ast.ExportDefaultDecl:
		// The function's own name only binds inside itself; handled in the
		// use walk alongside other function expressions.
	case ast.Stmt:
		c.declareStmt(it)
	}
}

func (c *checker) declareStmt(s ast.Stmt) {
	switch st := s.(type) {
	case *ast.FnDecl:
		c.declare(st.Ident)
	case *ast.VarDecl:
		for _, d := range st.Decls {
			c.declarePat(d.Name)
		}
	case *ast.BlockStmt:
		for _, child := range st.Stmts {
			c.declareStmt(child)
		}
	case *ast.IfStmt:
		c.declareStmt(st.Cons)
		if st.Alt != nil {
			c.declareStmt(st.Alt)
		}
	case *ast.ForStmt:
		if st.Init != nil {
			c.declareStmt(st.Init)
		}
		c.declareStmt(st.Body)
	case *ast.ForInOfStmt:
		c.declareStmt(st.Left)
		c.declareStmt(st.Body)
	case *ast.WhileStmt:
		c.declareStmt(st.Body)
	}
}

func (c *checker) declarePat(pat ast.Pat) {
	switch p := pat.(type) {
	case *ast.Ident:
		c.declare(p)
	case *ast.ArrayPat:
		for _, el := range p.Elems {
			if el != nil {
				c.declarePat(el)
			}
		}
	case *ast.ObjectPat:
		for _, prop := range p.Props {
			switch pp := prop.(type) {
			case *ast.KeyValuePatProp:
				c.declarePat(pp.Value)
			case *ast.AssignPatProp:
				c.declare(pp.Key)
			case *ast.RestPatProp:
				c.declarePat(pp.Arg)
			}
		}
	case *ast.RestPat:
		c.declarePat(p.Arg)
	case *ast.AssignPat:
		c.declarePat(p.Left)
	}
}

// declareFunction registers a function's own bindings before its body is
// walked for uses: parameters and, for named expressions, the self name.
func (c *checker) declareFunction(self *ast.Ident, params []ast.Pat, body *ast.BlockStmt) {
	c.declare(self)
	for _, param := range params {
		c.declarePat(param)
	}
	if body != nil {
		for _, stmt := range body.Stmts {
			c.declareStmt(stmt)
		}
	}
}

// ----------------------------------------------------------------------------
// Use Collection
// ----------------------------------------------------------------------------

func (c *checker) useItem(item ast.ModuleItem) {
	switch it := item.(type) {
	case *ast.ExportDecl:
		c.useStmt(it.Decl)
	case *ast.NamedExport:
		if it.Src != "" {
			return
		}
		for _, spec := range it.Specifiers {
			if named, ok := spec.(*ast.ExportNamedSpecifier); ok {
				c.use(named.Orig)
			}
		}
	case *ast.ExportDefaultDecl:
		c.useExpr(it.Fn)
	case *ast.ExportDefaultExpr:
		c.useExpr(it.Expr)
	case ast.Stmt:
		c.useStmt(it)
	}
}

func (c *checker) useStmt(s ast.Stmt) {
	switch st := s.(type) {
	case *ast.BlockStmt:
		for _, child := range st.Stmts {
			c.useStmt(child)
		}
	case *ast.ExprStmt:
		c.useExpr(st.Expr)
	case *ast.ReturnStmt:
		if st.Arg != nil {
			c.useExpr(st.Arg)
		}
	case *ast.ThrowStmt:
		c.useExpr(st.Arg)
	case *ast.IfStmt:
		c.useExpr(st.Test)
		c.useStmt(st.Cons)
		if st.Alt != nil {
			c.useStmt(st.Alt)
		}
	case *ast.ForStmt:
		if st.Init != nil {
			c.useStmt(st.Init)
		}
		if st.Test != nil {
			c.useExpr(st.Test)
		}
		if st.Update != nil {
			c.useExpr(st.Update)
		}
		c.useStmt(st.Body)
	case *ast.ForInOfStmt:
		c.useStmt(st.Left)
		c.useExpr(st.Right)
		c.useStmt(st.Body)
	case *ast.WhileStmt:
		c.useExpr(st.Test)
		c.useStmt(st.Body)
	case *ast.FnDecl:
		c.declareFunction(nil, st.Fn.Params, st.Fn.Body)
		c.useFunctionBody(st.Fn)
	case *ast.VarDecl:
		for _, d := range st.Decls {
			c.usePat(d.Name)
			if d.Init != nil {
				c.useExpr(d.Init)
			}
		}
	}
}

// usePat walks only the expression positions of a pattern; binding names are
// declarations, not uses.
func (c *checker) usePat(pat ast.Pat) {
	switch p := pat.(type) {
	case *ast.ArrayPat:
		for _, el := range p.Elems {
			if el != nil {
				c.usePat(el)
			}
		}
	case *ast.ObjectPat:
		for _, prop := range p.Props {
			switch pp := prop.(type) {
			case *ast.KeyValuePatProp:
				c.usePat(pp.Value)
			case *ast.AssignPatProp:
				if pp.Value != nil {
					c.useExpr(pp.Value)
				}
			case *ast.RestPatProp:
				c.usePat(pp.Arg)
			}
		}
	case *ast.RestPat:
		c.usePat(p.Arg)
	case *ast.AssignPat:
		c.usePat(p.Left)
		c.useExpr(p.Right)
	}
}

func (c *checker) useExpr(e ast.Expr) {
	switch ex := e.(type) {
	case *ast.Ident:
		c.use(ex)
	case *ast.CallExpr:
		c.useExpr(ex.Callee)
		for _, arg := range ex.Args {
			c.useExpr(arg)
		}
	case *ast.MemberExpr:
		c.useExpr(ex.Obj)
	case *ast.IndexExpr:
		c.useExpr(ex.Obj)
		c.useExpr(ex.Index)
	case *ast.FnExpr:
		c.declareFunction(ex.Ident, ex.Fn.Params, ex.Fn.Body)
		c.useFunctionBody(ex.Fn)
	case *ast.ArrowExpr:
		for _, param := range ex.Params {
			c.declarePat(param)
			c.usePat(param)
		}
		if ex.Body != nil {
			for _, stmt := range ex.Body.Stmts {
				c.declareStmt(stmt)
			}
			for _, stmt := range ex.Body.Stmts {
				c.useStmt(stmt)
			}
		} else {
			c.useExpr(ex.Expr)
		}
	case *ast.BinaryExpr:
		c.useExpr(ex.Left)
		c.useExpr(ex.Right)
	case *ast.UnaryExpr:
		c.useExpr(ex.Arg)
	case *ast.CondExpr:
		c.useExpr(ex.Test)
		c.useExpr(ex.Cons)
		c.useExpr(ex.Alt)
	case *ast.AssignExpr:
		c.useExpr(ex.Target)
		c.useExpr(ex.Value)
	case *ast.ObjectLit:
		for _, prop := range ex.Props {
			switch pp := prop.(type) {
			case *ast.KeyValueProp:
				c.useExpr(pp.Value)
			case *ast.ShorthandProp:
				c.use(pp.Id)
			case *ast.SpreadProp:
				c.useExpr(pp.Expr)
			}
		}
	case *ast.ArrayLit:
		for _, el := range ex.Elems {
			if el != nil {
				c.useExpr(el)
			}
		}
	case *ast.SpreadExpr:
		c.useExpr(ex.Expr)
	case *ast.TemplateLit:
		for _, sub := range ex.Exprs {
			c.useExpr(sub)
		}
	case *ast.ParenExpr:
		c.useExpr(ex.Expr)
	case *ast.JSXElement:
		c.useJSX(ex)
	}
}

func (c *checker) useFunctionBody(fn *ast.Function) {
	for _, param := range fn.Params {
		c.usePat(param)
	}
	for _, stmt := range fn.Body.Stmts {
		c.useStmt(stmt)
	}
}

func (c *checker) useJSX(elem *ast.JSXElement) {
	c.use(elem.Name.Root)
	for _, attr := range elem.Attrs {
		if attr.Value != nil {
			c.useExpr(attr.Value)
		}
	}
	for _, child := range elem.Children {
		switch ch := child.(type) {
		case *ast.JSXExprChild:
			c.useExpr(ch.Expr)
		case *ast.JSXElement:
			c.useJSX(ch)
		}
	}
}

// Package printer outputs JavaScript source from an AST.
//
// The printer can operate in two modes:
// - Pretty: Human-readable output with indentation
// - Minified: Minimal whitespace output
//
// It prints the tree structurally: parentheses survive as explicit
// ParenExpr nodes from the parser, so no precedence re-derivation happens
// here. Statements never emit their own leading or trailing newlines; the
// enclosing list breaks lines between them.
package printer

import (
	"strings"

	"github.com/modfall/stripexport/internal/ast"
)

// Options controls printer output.
type Options struct {
	// MinifyWhitespace removes unnecessary whitespace
	MinifyWhitespace bool
}

// Printer outputs JavaScript code.
type Printer struct {
	options Options

	buf    strings.Builder
	indent int
}

// New creates a new printer.
func New(options Options) *Printer {
	return &Printer{options: options}
}

// Print outputs the module as a string.
func (p *Printer) Print(module *ast.Module) string {
	p.buf.Reset()
	for _, item := range module.Items {
		p.printModuleItem(item)
		p.printNewline()
	}
	return p.buf.String()
}

// ----------------------------------------------------------------------------
// Output Helpers
// ----------------------------------------------------------------------------

func (p *Printer) print(s string) {
	p.buf.WriteString(s)
}

func (p *Printer) printSpace() {
	if !p.options.MinifyWhitespace {
		p.buf.WriteByte(' ')
	}
}

func (p *Printer) printNewline() {
	if !p.options.MinifyWhitespace {
		p.buf.WriteByte('\n')
		for i := 0; i < p.indent; i++ {
			p.buf.WriteString("    ")
		}
	}
}

func (p *Printer) printString(s string) {
	p.print("\"")
	p.print(s)
	p.print("\"")
}

// ----------------------------------------------------------------------------
// Module Items
// ----------------------------------------------------------------------------

func (p *Printer) printModuleItem(item ast.ModuleItem) {
	switch it := item.(type) {
	case *ast.ImportDecl:
		p.printImportDecl(it)
	case *ast.ExportDecl:
		p.print("export ")
		p.printStmt(it.Decl)
	case *ast.NamedExport:
		p.printNamedExport(it)
	case *ast.ExportDefaultDecl:
		p.print("export default ")
		p.printFnExpr(it.Fn)
		p.print(";")
	case *ast.ExportDefaultExpr:
		p.print("export default ")
		p.printExpr(it.Expr)
		p.print(";")
	case ast.Stmt:
		p.printStmt(it)
	}
}

func (p *Printer) printImportDecl(i *ast.ImportDecl) {
	p.print("import ")

	if len(i.Specifiers) == 0 {
		p.printString(i.Src)
		p.print(";")
		return
	}

	var named []*ast.ImportNamedSpecifier
	first := true
	for _, spec := range i.Specifiers {
		switch s := spec.(type) {
		case *ast.ImportDefaultSpecifier:
			if !first {
				p.print(",")
				p.printSpace()
			}
			p.print(s.Local.Name)
			first = false
		case *ast.ImportStarSpecifier:
			if !first {
				p.print(",")
				p.printSpace()
			}
			p.print("* as ")
			p.print(s.Local.Name)
			first = false
		case *ast.ImportNamedSpecifier:
			named = append(named, s)
		}
	}

	if len(named) > 0 {
		if !first {
			p.print(",")
			p.printSpace()
		}
		p.print("{")
		p.printSpace()
		for i, s := range named {
			if i > 0 {
				p.print(",")
				p.printSpace()
			}
			if s.Imported != "" && s.Imported != s.Local.Name {
				p.print(s.Imported)
				p.print(" as ")
			}
			p.print(s.Local.Name)
		}
		p.printSpace()
		p.print("}")
	}

	p.print(" from ")
	p.printString(i.Src)
	p.print(";")
}

func (p *Printer) printNamedExport(n *ast.NamedExport) {
	p.print("export ")

	// export * [as name] has no brace list.
	if len(n.Specifiers) == 1 {
		if ns, ok := n.Specifiers[0].(*ast.ExportNamespaceSpecifier); ok {
			p.print("*")
			if ns.Name != "" {
				p.print(" as ")
				p.print(ns.Name)
			}
			p.print(" from ")
			p.printString(n.Src)
			p.print(";")
			return
		}
	}

	p.print("{")
	p.printSpace()
	for i, spec := range n.Specifiers {
		if i > 0 {
			p.print(",")
			p.printSpace()
		}
		switch s := spec.(type) {
		case *ast.ExportNamedSpecifier:
			p.print(s.Orig.Name)
			if s.Exported != "" && s.Exported != s.Orig.Name {
				p.print(" as ")
				p.print(s.Exported)
			}
		case *ast.ExportNamespaceSpecifier:
			p.print("* as ")
			p.print(s.Name)
		}
	}
	p.printSpace()
	p.print("}")

	if n.Src != "" {
		p.print(" from ")
		p.printString(n.Src)
	}
	p.print(";")
}

// ----------------------------------------------------------------------------
// Statements
// ----------------------------------------------------------------------------

func (p *Printer) printStmt(s ast.Stmt) {
	switch st := s.(type) {
	case *ast.BlockStmt:
		p.printBlock(st)

	case *ast.EmptyStmt:
		p.print(";")

	case *ast.ExprStmt:
		p.printExpr(st.Expr)
		p.print(";")

	case *ast.ReturnStmt:
		p.print("return")
		if st.Arg != nil {
			p.print(" ")
			p.printExpr(st.Arg)
		}
		p.print(";")

	case *ast.ThrowStmt:
		p.print("throw ")
		p.printExpr(st.Arg)
		p.print(";")

	case *ast.IfStmt:
		p.printIf(st)

	case *ast.ForStmt:
		p.print("for")
		p.printSpace()
		p.print("(")
		if st.Init != nil {
			p.printStmtHead(st.Init)
		}
		p.print(";")
		if st.Test != nil {
			p.printSpace()
			p.printExpr(st.Test)
		}
		p.print(";")
		if st.Update != nil {
			p.printSpace()
			p.printExpr(st.Update)
		}
		p.print(")")
		p.printSpace()
		p.printBody(st.Body)

	case *ast.ForInOfStmt:
		p.print("for")
		p.printSpace()
		p.print("(")
		p.printStmtHead(st.Left)
		if st.IsOf {
			p.print(" of ")
		} else {
			p.print(" in ")
		}
		p.printExpr(st.Right)
		p.print(")")
		p.printSpace()
		p.printBody(st.Body)

	case *ast.WhileStmt:
		p.print("while")
		p.printSpace()
		p.print("(")
		p.printExpr(st.Test)
		p.print(")")
		p.printSpace()
		p.printBody(st.Body)

	case *ast.FnDecl:
		if st.Fn.IsAsync {
			p.print("async ")
		}
		p.print("function ")
		p.print(st.Ident.Name)
		p.printFunction(st.Fn)

	case *ast.VarDecl:
		p.printVarDeclHead(st)
		p.print(";")
	}
}

func (p *Printer) printIf(st *ast.IfStmt) {
	p.print("if")
	p.printSpace()
	p.print("(")
	p.printExpr(st.Test)
	p.print(")")

	_, consIsBlock := st.Cons.(*ast.BlockStmt)
	if consIsBlock {
		p.printSpace()
		p.printStmt(st.Cons)
	} else {
		p.indent++
		p.printNewline()
		p.printStmt(st.Cons)
		p.indent--
	}

	if st.Alt == nil {
		return
	}
	if consIsBlock {
		p.printSpace()
	} else {
		p.printNewline()
	}
	p.print("else")

	switch alt := st.Alt.(type) {
	case *ast.IfStmt:
		p.print(" ")
		p.printIf(alt)
	case *ast.BlockStmt:
		p.printSpace()
		p.printBlock(alt)
	default:
		p.indent++
		p.printNewline()
		p.printStmt(alt)
		p.indent--
	}
}

// printStmtHead prints a statement without a trailing semicolon, for use
// inside a for-loop head.
func (p *Printer) printStmtHead(s ast.Stmt) {
	switch st := s.(type) {
	case *ast.VarDecl:
		p.printVarDeclHead(st)
	case *ast.ExprStmt:
		p.printExpr(st.Expr)
	}
}

func (p *Printer) printVarDeclHead(d *ast.VarDecl) {
	p.print(d.Kind.String())
	p.print(" ")
	for i, decl := range d.Decls {
		if i > 0 {
			p.print(",")
			p.printSpace()
		}
		p.printPat(decl.Name)
		if decl.Init != nil {
			p.printSpace()
			p.print("=")
			p.printSpace()
			p.printExpr(decl.Init)
		}
	}
}

// printBody prints a loop body: blocks inline, other statements on an
// indented line.
func (p *Printer) printBody(s ast.Stmt) {
	if block, ok := s.(*ast.BlockStmt); ok {
		p.printBlock(block)
		return
	}
	p.indent++
	p.printNewline()
	p.printStmt(s)
	p.indent--
}

func (p *Printer) printBlock(b *ast.BlockStmt) {
	if len(b.Stmts) == 0 {
		p.print("{}")
		return
	}
	p.print("{")
	p.indent++
	for _, s := range b.Stmts {
		p.printNewline()
		p.printStmt(s)
	}
	p.indent--
	p.printNewline()
	p.print("}")
}

// ----------------------------------------------------------------------------
// Patterns
// ----------------------------------------------------------------------------

func (p *Printer) printPat(pat ast.Pat) {
	switch pt := pat.(type) {
	case *ast.Ident:
		p.print(pt.Name)

	case *ast.ArrayPat:
		p.print("[")
		for i, el := range pt.Elems {
			if i > 0 {
				p.print(",")
				p.printSpace()
			}
			if el != nil {
				p.printPat(el)
			}
		}
		p.print("]")

	case *ast.ObjectPat:
		p.print("{")
		p.printSpace()
		for i, prop := range pt.Props {
			if i > 0 {
				p.print(",")
				p.printSpace()
			}
			switch pp := prop.(type) {
			case *ast.KeyValuePatProp:
				p.print(pp.Key)
				p.print(":")
				p.printSpace()
				p.printPat(pp.Value)
			case *ast.AssignPatProp:
				p.print(pp.Key.Name)
				if pp.Value != nil {
					p.printSpace()
					p.print("=")
					p.printSpace()
					p.printExpr(pp.Value)
				}
			case *ast.RestPatProp:
				p.print("...")
				p.printPat(pp.Arg)
			}
		}
		p.printSpace()
		p.print("}")

	case *ast.RestPat:
		p.print("...")
		p.printPat(pt.Arg)

	case *ast.AssignPat:
		p.printPat(pt.Left)
		p.printSpace()
		p.print("=")
		p.printSpace()
		p.printExpr(pt.Right)
	}
}

// ----------------------------------------------------------------------------
// Expressions
// ----------------------------------------------------------------------------

func (p *Printer) printExpr(e ast.Expr) {
	switch ex := e.(type) {
	case *ast.Ident:
		p.print(ex.Name)

	case *ast.Literal:
		p.print(ex.Raw)

	case *ast.CallExpr:
		if ex.IsNew {
			p.print("new ")
		}
		p.printExpr(ex.Callee)
		p.print("(")
		for i, arg := range ex.Args {
			if i > 0 {
				p.print(",")
				p.printSpace()
			}
			p.printExpr(arg)
		}
		p.print(")")

	case *ast.MemberExpr:
		p.printExpr(ex.Obj)
		p.print(".")
		p.print(ex.Prop)

	case *ast.IndexExpr:
		p.printExpr(ex.Obj)
		p.print("[")
		p.printExpr(ex.Index)
		p.print("]")

	case *ast.FnExpr:
		p.printFnExpr(ex)

	case *ast.ArrowExpr:
		if ex.IsAsync {
			p.print("async ")
		}
		p.print("(")
		for i, param := range ex.Params {
			if i > 0 {
				p.print(",")
				p.printSpace()
			}
			p.printPat(param)
		}
		p.print(")")
		p.printSpace()
		p.print("=>")
		p.printSpace()
		if ex.Body != nil {
			p.printBlock(ex.Body)
		} else {
			p.printExpr(ex.Expr)
		}

	case *ast.BinaryExpr:
		p.printExpr(ex.Left)
		if isWordOp(ex.Op) {
			p.print(" ")
			p.print(ex.Op)
			p.print(" ")
		} else {
			p.printSpace()
			p.print(ex.Op)
			if p.mergesWithOp(ex.Op, ex.Right) {
				p.print(" ")
			} else {
				p.printSpace()
			}
		}
		p.printExpr(ex.Right)

	case *ast.UnaryExpr:
		p.print(ex.Op)
		if isWordOp(ex.Op) {
			p.print(" ")
		}
		p.printExpr(ex.Arg)

	case *ast.CondExpr:
		p.printExpr(ex.Test)
		p.printSpace()
		p.print("?")
		p.printSpace()
		p.printExpr(ex.Cons)
		p.printSpace()
		p.print(":")
		p.printSpace()
		p.printExpr(ex.Alt)

	case *ast.AssignExpr:
		p.printExpr(ex.Target)
		p.printSpace()
		p.print(ex.Op)
		p.printSpace()
		p.printExpr(ex.Value)

	case *ast.ObjectLit:
		p.printObjectLit(ex)

	case *ast.ArrayLit:
		p.print("[")
		for i, el := range ex.Elems {
			if i > 0 {
				p.print(",")
				p.printSpace()
			}
			if el != nil {
				p.printExpr(el)
			}
		}
		p.print("]")

	case *ast.SpreadExpr:
		p.print("...")
		p.printExpr(ex.Expr)

	case *ast.TemplateLit:
		// Quasis keep their raw delimiters, so interleaving reconstructs
		// the literal exactly.
		p.print(ex.Quasis[0])
		for i, sub := range ex.Exprs {
			p.printExpr(sub)
			p.print(ex.Quasis[i+1])
		}

	case *ast.ParenExpr:
		p.print("(")
		p.printExpr(ex.Expr)
		p.print(")")

	case *ast.JSXElement:
		p.printJSX(ex)
	}
}

func (p *Printer) printFnExpr(f *ast.FnExpr) {
	if f.Fn.IsAsync {
		p.print("async ")
	}
	p.print("function")
	if f.Ident != nil {
		p.print(" ")
		p.print(f.Ident.Name)
	}
	p.printFunction(f.Fn)
}

func (p *Printer) printFunction(fn *ast.Function) {
	p.print("(")
	for i, param := range fn.Params {
		if i > 0 {
			p.print(",")
			p.printSpace()
		}
		p.printPat(param)
	}
	p.print(")")
	p.printSpace()
	p.printBlock(fn.Body)
}

func (p *Printer) printObjectLit(o *ast.ObjectLit) {
	if len(o.Props) == 0 {
		p.print("{}")
		return
	}
	p.print("{")
	p.printSpace()
	for i, prop := range o.Props {
		if i > 0 {
			p.print(",")
			p.printSpace()
		}
		switch pp := prop.(type) {
		case *ast.KeyValueProp:
			p.print(pp.Key)
			p.print(":")
			p.printSpace()
			p.printExpr(pp.Value)
		case *ast.ShorthandProp:
			p.print(pp.Id.Name)
		case *ast.SpreadProp:
			p.print("...")
			p.printExpr(pp.Expr)
		}
	}
	p.printSpace()
	p.print("}")
}

func (p *Printer) printJSX(elem *ast.JSXElement) {
	p.print("<")
	p.print(elem.Name.String())
	for _, attr := range elem.Attrs {
		p.print(" ")
		p.print(attr.Name)
		if attr.Value != nil {
			p.print("=")
			if lit, ok := attr.Value.(*ast.Literal); ok && lit.Kind == ast.LitString {
				p.print(lit.Raw)
			} else {
				p.print("{")
				p.printExpr(attr.Value)
				p.print("}")
			}
		}
	}
	if elem.SelfClosing {
		p.print(" />")
		return
	}
	p.print(">")
	for _, child := range elem.Children {
		switch c := child.(type) {
		case *ast.JSXText:
			p.print(c.Text)
		case *ast.JSXExprChild:
			p.print("{")
			p.printExpr(c.Expr)
			p.print("}")
		case *ast.JSXElement:
			p.printJSX(c)
		}
	}
	p.print("</")
	p.print(elem.Name.String())
	p.print(">")
}

// mergesWithOp reports whether printing op directly against the operand
// could fuse into a different token, as in a - -b becoming a--b.
func (p *Printer) mergesWithOp(op string, right ast.Expr) bool {
	if !p.options.MinifyWhitespace {
		return false
	}
	if op != "+" && op != "-" {
		return false
	}
	u, ok := right.(*ast.UnaryExpr)
	return ok && strings.HasPrefix(u.Op, op)
}

func isWordOp(op string) bool {
	switch op {
	case "typeof", "delete", "void", "await", "in", "of", "instanceof":
		return true
	}
	return false
}

package parser

import (
	"strings"
	"testing"

	"github.com/modfall/stripexport/internal/ast"
)

func parse(t *testing.T, source string) *ast.Module {
	t.Helper()
	p := New(source)
	module, errs := p.Parse()
	if len(errs) > 0 {
		t.Fatalf("parse errors: %v", errs)
	}
	return module
}

// ----------------------------------------------------------------------------
// Imports
// ----------------------------------------------------------------------------

func TestParse_NamedImport(t *testing.T) {
	m := parse(t, `import { a, b as c } from "./m";`)
	if len(m.Items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(m.Items))
	}
	imp, ok := m.Items[0].(*ast.ImportDecl)
	if !ok {
		t.Fatalf("expected ImportDecl, got %T", m.Items[0])
	}
	if imp.Src != "./m" {
		t.Errorf("src = %q, want ./m", imp.Src)
	}
	if len(imp.Specifiers) != 2 {
		t.Fatalf("expected 2 specifiers, got %d", len(imp.Specifiers))
	}
	s0, ok := imp.Specifiers[0].(*ast.ImportNamedSpecifier)
	if !ok || s0.Local.Name != "a" || s0.Imported != "" {
		t.Errorf("specifier 0 = %+v", imp.Specifiers[0])
	}
	s1, ok := imp.Specifiers[1].(*ast.ImportNamedSpecifier)
	if !ok || s1.Local.Name != "c" || s1.Imported != "b" {
		t.Errorf("specifier 1 = %+v", imp.Specifiers[1])
	}
}

func TestParse_DefaultAndStarImport(t *testing.T) {
	m := parse(t, `import d, * as ns from "./m";`)
	imp := m.Items[0].(*ast.ImportDecl)
	if len(imp.Specifiers) != 2 {
		t.Fatalf("expected 2 specifiers, got %d", len(imp.Specifiers))
	}
	if d, ok := imp.Specifiers[0].(*ast.ImportDefaultSpecifier); !ok || d.Local.Name != "d" {
		t.Errorf("specifier 0 = %+v", imp.Specifiers[0])
	}
	if s, ok := imp.Specifiers[1].(*ast.ImportStarSpecifier); !ok || s.Local.Name != "ns" {
		t.Errorf("specifier 1 = %+v", imp.Specifiers[1])
	}
}

func TestParse_SideEffectImport(t *testing.T) {
	m := parse(t, `import "./polyfill";`)
	imp := m.Items[0].(*ast.ImportDecl)
	if len(imp.Specifiers) != 0 {
		t.Errorf("expected no specifiers, got %d", len(imp.Specifiers))
	}
	if imp.Src != "./polyfill" {
		t.Errorf("src = %q", imp.Src)
	}
}

// ----------------------------------------------------------------------------
// Exports
// ----------------------------------------------------------------------------

func TestParse_ExportList(t *testing.T) {
	m := parse(t, `export { a, b as c };`)
	ne, ok := m.Items[0].(*ast.NamedExport)
	if !ok {
		t.Fatalf("expected NamedExport, got %T", m.Items[0])
	}
	if ne.Src != "" {
		t.Errorf("src = %q, want empty", ne.Src)
	}
	s0 := ne.Specifiers[0].(*ast.ExportNamedSpecifier)
	if s0.Orig.Name != "a" || s0.ExportedName() != "a" {
		t.Errorf("specifier 0: orig=%q exported=%q", s0.Orig.Name, s0.ExportedName())
	}
	s1 := ne.Specifiers[1].(*ast.ExportNamedSpecifier)
	if s1.Orig.Name != "b" || s1.ExportedName() != "c" {
		t.Errorf("specifier 1: orig=%q exported=%q", s1.Orig.Name, s1.ExportedName())
	}
}

func TestParse_NamespaceReexport(t *testing.T) {
	m := parse(t, `export * as ns from "./m";`)
	ne := m.Items[0].(*ast.NamedExport)
	s, ok := ne.Specifiers[0].(*ast.ExportNamespaceSpecifier)
	if !ok || s.Name != "ns" {
		t.Errorf("specifier = %+v", ne.Specifiers[0])
	}
	if ne.Src != "./m" {
		t.Errorf("src = %q", ne.Src)
	}
}

func TestParse_BareStarReexport(t *testing.T) {
	m := parse(t, `export * from "./m";`)
	ne := m.Items[0].(*ast.NamedExport)
	s, ok := ne.Specifiers[0].(*ast.ExportNamespaceSpecifier)
	if !ok || s.Name != "" {
		t.Errorf("specifier = %+v", ne.Specifiers[0])
	}
}

func TestParse_ExportDefaultFunction(t *testing.T) {
	m := parse(t, `export default function main() { return 1; }`)
	d, ok := m.Items[0].(*ast.ExportDefaultDecl)
	if !ok {
		t.Fatalf("expected ExportDefaultDecl, got %T", m.Items[0])
	}
	if d.Fn.Ident == nil || d.Fn.Ident.Name != "main" {
		t.Errorf("default fn ident = %+v", d.Fn.Ident)
	}
}

func TestParse_ExportDefaultExpr(t *testing.T) {
	m := parse(t, `export default build();`)
	d, ok := m.Items[0].(*ast.ExportDefaultExpr)
	if !ok {
		t.Fatalf("expected ExportDefaultExpr, got %T", m.Items[0])
	}
	if _, ok := d.Expr.(*ast.CallExpr); !ok {
		t.Errorf("default expr = %T", d.Expr)
	}
}

func TestParse_ExportDecls(t *testing.T) {
	m := parse(t, "export function f() {}\nexport const x = 1;")
	e0 := m.Items[0].(*ast.ExportDecl)
	if _, ok := e0.Decl.(*ast.FnDecl); !ok {
		t.Errorf("first export decl = %T", e0.Decl)
	}
	e1 := m.Items[1].(*ast.ExportDecl)
	if _, ok := e1.Decl.(*ast.VarDecl); !ok {
		t.Errorf("second export decl = %T", e1.Decl)
	}
}

// ----------------------------------------------------------------------------
// Statements
// ----------------------------------------------------------------------------

func TestParse_ForInStatement(t *testing.T) {
	m := parse(t, `for (k in obj) f(k);`)
	st, ok := m.Items[0].(*ast.ForInOfStmt)
	if !ok {
		t.Fatalf("expected ForInOfStmt, got %T", m.Items[0])
	}
	if st.IsOf {
		t.Error("expected for-in, got for-of")
	}
}

func TestParse_ForOfWithDecl(t *testing.T) {
	m := parse(t, `for (const v of list) { f(v); }`)
	st, ok := m.Items[0].(*ast.ForInOfStmt)
	if !ok {
		t.Fatalf("expected ForInOfStmt, got %T", m.Items[0])
	}
	if !st.IsOf {
		t.Error("expected for-of")
	}
	if _, ok := st.Left.(*ast.VarDecl); !ok {
		t.Errorf("left = %T", st.Left)
	}
}

func TestParse_ClassicFor(t *testing.T) {
	m := parse(t, `for (let i = 0; i < 3; i = i + 1) {}`)
	if _, ok := m.Items[0].(*ast.ForStmt); !ok {
		t.Fatalf("expected ForStmt, got %T", m.Items[0])
	}
}

// ----------------------------------------------------------------------------
// Patterns
// ----------------------------------------------------------------------------

func TestParse_ObjectPattern(t *testing.T) {
	m := parse(t, `const { a, b: c, d = 1, ...rest } = src;`)
	vd := m.Items[0].(*ast.VarDecl)
	pat := vd.Decls[0].Name.(*ast.ObjectPat)
	if len(pat.Props) != 4 {
		t.Fatalf("expected 4 props, got %d", len(pat.Props))
	}
	if p0, ok := pat.Props[0].(*ast.AssignPatProp); !ok || p0.Key.Name != "a" || p0.Value != nil {
		t.Errorf("prop 0 = %+v", pat.Props[0])
	}
	if p1, ok := pat.Props[1].(*ast.KeyValuePatProp); !ok || p1.Key != "b" {
		t.Errorf("prop 1 = %+v", pat.Props[1])
	}
	if p2, ok := pat.Props[2].(*ast.AssignPatProp); !ok || p2.Key.Name != "d" || p2.Value == nil {
		t.Errorf("prop 2 = %+v", pat.Props[2])
	}
	if _, ok := pat.Props[3].(*ast.RestPatProp); !ok {
		t.Errorf("prop 3 = %+v", pat.Props[3])
	}
}

func TestParse_ArrayPatternWithHole(t *testing.T) {
	m := parse(t, `const [a, , b] = src;`)
	pat := m.Items[0].(*ast.VarDecl).Decls[0].Name.(*ast.ArrayPat)
	if len(pat.Elems) != 3 {
		t.Fatalf("expected 3 elements, got %d", len(pat.Elems))
	}
	if pat.Elems[1] != nil {
		t.Errorf("element 1 should be a hole, got %+v", pat.Elems[1])
	}
}

// ----------------------------------------------------------------------------
// Expressions
// ----------------------------------------------------------------------------

func TestParse_ArrowVsParen(t *testing.T) {
	m := parse(t, "const f = (a, b) => a + b;\nconst x = (a + b);")
	f := m.Items[0].(*ast.VarDecl).Decls[0].Init
	if _, ok := f.(*ast.ArrowExpr); !ok {
		t.Errorf("first init = %T, want ArrowExpr", f)
	}
	x := m.Items[1].(*ast.VarDecl).Decls[0].Init
	if _, ok := x.(*ast.ParenExpr); !ok {
		t.Errorf("second init = %T, want ParenExpr", x)
	}
}

func TestParse_TemplateSubstitutions(t *testing.T) {
	m := parse(t, "const s = `a${x}b${y}c`;")
	tpl := m.Items[0].(*ast.VarDecl).Decls[0].Init.(*ast.TemplateLit)
	if len(tpl.Exprs) != 2 {
		t.Fatalf("expected 2 substitutions, got %d", len(tpl.Exprs))
	}
	if len(tpl.Quasis) != 3 {
		t.Fatalf("expected 3 quasis, got %d", len(tpl.Quasis))
	}
}

func TestParse_Precedence(t *testing.T) {
	// a + b * c parses as a + (b * c)
	m := parse(t, `const x = a + b * c;`)
	bin := m.Items[0].(*ast.VarDecl).Decls[0].Init.(*ast.BinaryExpr)
	if bin.Op != "+" {
		t.Fatalf("top op = %q, want +", bin.Op)
	}
	right, ok := bin.Right.(*ast.BinaryExpr)
	if !ok || right.Op != "*" {
		t.Errorf("right = %+v", bin.Right)
	}
}

// ----------------------------------------------------------------------------
// JSX
// ----------------------------------------------------------------------------

func TestParse_JSXSelfClosing(t *testing.T) {
	m := parse(t, `const el = <Widget size={1} title="hi" />;`)
	el := m.Items[0].(*ast.VarDecl).Decls[0].Init.(*ast.JSXElement)
	if !el.SelfClosing {
		t.Error("expected self-closing element")
	}
	if el.Name.Root.Name != "Widget" {
		t.Errorf("name = %q", el.Name.Root.Name)
	}
	if len(el.Attrs) != 2 {
		t.Fatalf("expected 2 attrs, got %d", len(el.Attrs))
	}
}

func TestParse_JSXNested(t *testing.T) {
	m := parse(t, `const el = <div><span>text</span>{x}</div>;`)
	el := m.Items[0].(*ast.VarDecl).Decls[0].Init.(*ast.JSXElement)
	if el.SelfClosing {
		t.Error("expected open element")
	}
	var sawElement, sawExpr bool
	for _, child := range el.Children {
		switch child.(type) {
		case *ast.JSXElement:
			sawElement = true
		case *ast.JSXExprChild:
			sawExpr = true
		}
	}
	if !sawElement || !sawExpr {
		t.Errorf("children = %+v", el.Children)
	}
}

func TestParse_JSXMemberName(t *testing.T) {
	m := parse(t, `const el = <Lib.Widget />;`)
	el := m.Items[0].(*ast.VarDecl).Decls[0].Init.(*ast.JSXElement)
	if el.Name.String() != "Lib.Widget" {
		t.Errorf("name = %q", el.Name.String())
	}
}

// ----------------------------------------------------------------------------
// Errors
// ----------------------------------------------------------------------------

func TestParse_ErrorHasPosition(t *testing.T) {
	p := New("const x = 1;\nconst = 2;")
	_, errs := p.Parse()
	if len(errs) == 0 {
		t.Fatal("expected parse errors")
	}
	if errs[0].Line != 2 {
		t.Errorf("error line = %d, want 2", errs[0].Line)
	}
	if !strings.Contains(errs[0].Error(), "2:") {
		t.Errorf("error string should carry position, got %q", errs[0].Error())
	}
}

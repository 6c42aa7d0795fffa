// Package ast defines the syntax tree types for ECMAScript modules.
//
// The tree is designed to be:
// - Module-shaped: import/export forms are first-class items
// - Identity-carrying: every identifier holds its resolved binding context
// - Transformable: deletions are modeled with explicit sentinel nodes
//   (InvalidPat, EmptyStmt) that container rebuilds filter out
package ast

// ----------------------------------------------------------------------------
// Binding Identity
// ----------------------------------------------------------------------------

// UnresolvedCtxt is the scope context of identifiers the resolver could not
// bind to a local declaration (globals, typeof-only names, and so on).
const UnresolvedCtxt uint32 = 0

// Id identifies one lexical binding occurrence: the written name plus the
// scope context the resolver assigned to its declaration. Two bindings with
// the same name in different scopes carry different contexts, so an Id is
// stable under shadowing.
type Id struct {
	Name string
	Ctxt uint32
}

// Loc represents a location in source code.
type Loc struct {
	Start int32 // Byte offset of start
}

// ----------------------------------------------------------------------------
// Identifiers
// ----------------------------------------------------------------------------

// Ident is an identifier occurrence. It is used both as an expression and as
// a binding pattern; the two are distinguished by position in the tree.
// Ctxt is assigned by the resolver and is UnresolvedCtxt until then.
type Ident struct {
	Loc  Loc
	Name string
	Ctxt uint32
}

func (i *Ident) isExpr() {}
func (i *Ident) isPat()  {}

// ToId returns the binding identity of this occurrence.
func (i *Ident) ToId() Id {
	return Id{Name: i.Name, Ctxt: i.Ctxt}
}

// ----------------------------------------------------------------------------
// Module (Top Level)
// ----------------------------------------------------------------------------

// Module represents a complete ECMAScript module.
type Module struct {
	Source     string // Original source text
	SourcePath string // File path (for error messages)

	// Top-level items in order: import/export declarations and statements.
	Items []ModuleItem
}

// ModuleItem is a top-level item: a module declaration or a statement.
type ModuleItem interface {
	isModuleItem()
}

// ----------------------------------------------------------------------------
// Imports
// ----------------------------------------------------------------------------

// ImportDecl represents: import ... from "src";
// A declaration with zero specifiers is a pure side-effect import
// (import "src";) and is never pruned.
type ImportDecl struct {
	Loc        Loc
	Specifiers []ImportSpecifier
	Src        string
}

func (*ImportDecl) isModuleItem() {}

// ImportSpecifier is one imported binding.
type ImportSpecifier interface {
	isImportSpecifier()
	// LocalIdent returns the local binding introduced by this specifier.
	LocalIdent() *Ident
}

// ImportNamedSpecifier represents: import { name } or { orig as local }.
// Imported is empty when the local name matches the imported one.
type ImportNamedSpecifier struct {
	Loc      Loc
	Local    *Ident
	Imported string
}

func (*ImportNamedSpecifier) isImportSpecifier()   {}
func (s *ImportNamedSpecifier) LocalIdent() *Ident { return s.Local }

// ImportDefaultSpecifier represents: import local from "src".
type ImportDefaultSpecifier struct {
	Loc   Loc
	Local *Ident
}

func (*ImportDefaultSpecifier) isImportSpecifier()   {}
func (s *ImportDefaultSpecifier) LocalIdent() *Ident { return s.Local }

// ImportStarSpecifier represents: import * as local from "src".
type ImportStarSpecifier struct {
	Loc   Loc
	Local *Ident
}

func (*ImportStarSpecifier) isImportSpecifier()   {}
func (s *ImportStarSpecifier) LocalIdent() *Ident { return s.Local }

// ----------------------------------------------------------------------------
// Exports
// ----------------------------------------------------------------------------

// ExportDecl represents: export function f() {} or export const x = ...;
type ExportDecl struct {
	Loc  Loc
	Decl Decl
}

func (*ExportDecl) isModuleItem() {}

// NamedExport represents: export { a, b as c } [from "src"];
// Src is empty for local re-exports.
type NamedExport struct {
	Loc        Loc
	Specifiers []ExportSpecifier
	Src        string
}

func (*NamedExport) isModuleItem() {}

// ExportSpecifier is one exported name.
type ExportSpecifier interface {
	isExportSpecifier()
}

// ExportNamedSpecifier represents: a or orig as exported.
// Exported is empty when no alias is given.
type ExportNamedSpecifier struct {
	Loc      Loc
	Orig     *Ident
	Exported string
}

func (*ExportNamedSpecifier) isExportSpecifier() {}

// ExportedName returns the name this specifier exposes to importers.
func (s *ExportNamedSpecifier) ExportedName() string {
	if s.Exported != "" {
		return s.Exported
	}
	return s.Orig.Name
}

// ExportNamespaceSpecifier represents: * as name (only with a source).
type ExportNamespaceSpecifier struct {
	Loc  Loc
	Name string
}

func (*ExportNamespaceSpecifier) isExportSpecifier() {}

// ExportDefaultDecl represents: export default function [name]() {}.
type ExportDefaultDecl struct {
	Loc Loc
	Fn  *FnExpr
}

func (*ExportDefaultDecl) isModuleItem() {}

// ExportDefaultExpr represents: export default <expr>;
type ExportDefaultExpr struct {
	Loc  Loc
	Expr Expr
}

func (*ExportDefaultExpr) isModuleItem() {}

// ----------------------------------------------------------------------------
// Declarations
// ----------------------------------------------------------------------------

// Decl is a declaration that may appear exported or as a statement.
type Decl interface {
	Stmt
	isDecl()
}

// FnDecl represents: function name(params) { body }.
type FnDecl struct {
	Loc   Loc
	Ident *Ident
	Fn    *Function
}

func (*FnDecl) isDecl()       {}
func (*FnDecl) isStmt()       {}
func (*FnDecl) isModuleItem() {}

// VarDeclKind distinguishes var, let and const.
type VarDeclKind uint8

const (
	VarDeclVar VarDeclKind = iota
	VarDeclLet
	VarDeclConst
)

func (k VarDeclKind) String() string {
	switch k {
	case VarDeclLet:
		return "let"
	case VarDeclConst:
		return "const"
	default:
		return "var"
	}
}

// VarDecl represents: var/let/const declarator [, declarator ...];
type VarDecl struct {
	Loc   Loc
	Kind  VarDeclKind
	Decls []*VarDeclarator
}

func (*VarDecl) isDecl()       {}
func (*VarDecl) isStmt()       {}
func (*VarDecl) isModuleItem() {}

// VarDeclarator is one name = init pair inside a VarDecl.
type VarDeclarator struct {
	Loc  Loc
	Name Pat
	Init Expr // nil if no initializer
}

// Function is the shared body of function declarations and expressions.
type Function struct {
	Loc     Loc
	Params  []Pat
	Body    *BlockStmt
	IsAsync bool
}

// ----------------------------------------------------------------------------
// Patterns
// ----------------------------------------------------------------------------

// Pat is a binding pattern: the left side of a declarator or a parameter.
type Pat interface {
	isPat()
}

// ArrayPat represents: [a, , b = 1, ...rest]. A nil element is a hole.
type ArrayPat struct {
	Loc   Loc
	Elems []Pat
}

func (*ArrayPat) isPat() {}

// ObjectPat represents: { key: pat, shorthand = default, ...rest }.
type ObjectPat struct {
	Loc   Loc
	Props []ObjectPatProp
}

func (*ObjectPat) isPat() {}

// ObjectPatProp is one property inside an object pattern.
type ObjectPatProp interface {
	isObjectPatProp()
}

// KeyValuePatProp represents: key: <pat>.
type KeyValuePatProp struct {
	Loc   Loc
	Key   string
	Value Pat
}

func (*KeyValuePatProp) isObjectPatProp() {}

// AssignPatProp represents a shorthand property, optionally with a default
// value: { name } or { name = expr }.
type AssignPatProp struct {
	Loc   Loc
	Key   *Ident
	Value Expr // nil if no default
}

func (*AssignPatProp) isObjectPatProp() {}

// RestPatProp represents: ...<pat> inside an object pattern.
type RestPatProp struct {
	Loc Loc
	Arg Pat
}

func (*RestPatProp) isObjectPatProp() {}

// RestPat represents: ...<pat> inside an array pattern or parameter list.
type RestPat struct {
	Loc Loc
	Arg Pat
}

func (*RestPat) isPat() {}

// AssignPat represents a pattern with a default value: <pat> = expr.
type AssignPat struct {
	Loc   Loc
	Left  Pat
	Right Expr
}

func (*AssignPat) isPat() {}

// InvalidPat is the sentinel standing in for a deleted pattern slot until
// the enclosing container is rebuilt.
type InvalidPat struct {
	Loc Loc
}

func (*InvalidPat) isPat() {}

// IsInvalidPat reports whether p is the deletion sentinel.
func IsInvalidPat(p Pat) bool {
	_, ok := p.(*InvalidPat)
	return ok
}

// ----------------------------------------------------------------------------
// Statements
// ----------------------------------------------------------------------------

// Stmt represents a statement. Every statement is also a module item.
type Stmt interface {
	ModuleItem
	isStmt()
}

// BlockStmt represents: { stmts }.
type BlockStmt struct {
	Loc   Loc
	Stmts []Stmt
}

func (*BlockStmt) isStmt()       {}
func (*BlockStmt) isModuleItem() {}

// ExprStmt represents an expression used as a statement.
type ExprStmt struct {
	Loc  Loc
	Expr Expr
}

func (*ExprStmt) isStmt()       {}
func (*ExprStmt) isModuleItem() {}

// ReturnStmt represents: return [expr];
type ReturnStmt struct {
	Loc Loc
	Arg Expr // nil for bare return
}

func (*ReturnStmt) isStmt()       {}
func (*ReturnStmt) isModuleItem() {}

// IfStmt represents: if (test) cons [else alt].
type IfStmt struct {
	Loc  Loc
	Test Expr
	Cons Stmt
	Alt  Stmt // nil if no else branch
}

func (*IfStmt) isStmt()       {}
func (*IfStmt) isModuleItem() {}

// ForStmt represents: for (init; test; update) body.
type ForStmt struct {
	Loc    Loc
	Init   Stmt // *VarDecl or *ExprStmt, nil if empty
	Test   Expr // nil if empty
	Update Expr // nil if empty
	Body   Stmt
}

func (*ForStmt) isStmt()       {}
func (*ForStmt) isModuleItem() {}

// ForInOfStmt represents: for (left of right) body and its for-in form.
type ForInOfStmt struct {
	Loc   Loc
	IsOf  bool
	Left  Stmt // *VarDecl without init, or *ExprStmt for a bare target
	Right Expr
	Body  Stmt
}

func (*ForInOfStmt) isStmt()       {}
func (*ForInOfStmt) isModuleItem() {}

// WhileStmt represents: while (test) body.
type WhileStmt struct {
	Loc  Loc
	Test Expr
	Body Stmt
}

func (*WhileStmt) isStmt()       {}
func (*WhileStmt) isModuleItem() {}

// ThrowStmt represents: throw expr;
type ThrowStmt struct {
	Loc Loc
	Arg Expr
}

func (*ThrowStmt) isStmt()       {}
func (*ThrowStmt) isModuleItem() {}

// EmptyStmt is the no-op placeholder produced when an item is deleted.
// Statement and module-item lists filter it out after rebuilding.
type EmptyStmt struct {
	Loc Loc
}

func (*EmptyStmt) isStmt()       {}
func (*EmptyStmt) isModuleItem() {}

// IsEmptyStmt reports whether the item is the deletion placeholder.
func IsEmptyStmt(item ModuleItem) bool {
	_, ok := item.(*EmptyStmt)
	return ok
}

// ----------------------------------------------------------------------------
// Expressions
// ----------------------------------------------------------------------------

// Expr represents an expression.
type Expr interface {
	isExpr()
}

// LitKind identifies the kind of a literal expression.
type LitKind uint8

const (
	LitString LitKind = iota
	LitNumber
	LitBool
	LitNull
)

// Literal represents a literal value. Raw is the source text, including
// quotes for strings.
type Literal struct {
	Loc  Loc
	Kind LitKind
	Raw  string
}

func (*Literal) isExpr() {}

// CallExpr represents: callee(args) or new callee(args).
type CallExpr struct {
	Loc    Loc
	Callee Expr
	Args   []Expr
	IsNew  bool
}

func (*CallExpr) isExpr() {}

// MemberExpr represents: obj.prop.
type MemberExpr struct {
	Loc  Loc
	Obj  Expr
	Prop string
}

func (*MemberExpr) isExpr() {}

// IndexExpr represents computed member access: obj[index].
type IndexExpr struct {
	Loc   Loc
	Obj   Expr
	Index Expr
}

func (*IndexExpr) isExpr() {}

// FnExpr represents a function expression, optionally named.
type FnExpr struct {
	Loc   Loc
	Ident *Ident // nil for anonymous functions
	Fn    *Function
}

func (*FnExpr) isExpr() {}

// ArrowExpr represents: (params) => body. Exactly one of Body and Expr is
// set, depending on whether the arrow has a block body.
type ArrowExpr struct {
	Loc     Loc
	Params  []Pat
	Body    *BlockStmt
	Expr    Expr
	IsAsync bool
}

func (*ArrowExpr) isExpr() {}

// BinaryExpr represents a binary or logical operation. Op is the operator
// source text ("+", "&&", "??", "instanceof", ...).
type BinaryExpr struct {
	Loc   Loc
	Op    string
	Left  Expr
	Right Expr
}

func (*BinaryExpr) isExpr() {}

// UnaryExpr represents a prefix operation ("!", "-", "typeof", "await", ...).
type UnaryExpr struct {
	Loc Loc
	Op  string
	Arg Expr
}

func (*UnaryExpr) isExpr() {}

// CondExpr represents: test ? cons : alt.
type CondExpr struct {
	Loc  Loc
	Test Expr
	Cons Expr
	Alt  Expr
}

func (*CondExpr) isExpr() {}

// AssignExpr represents: target = value (and compound forms).
type AssignExpr struct {
	Loc    Loc
	Op     string
	Target Expr
	Value  Expr
}

func (*AssignExpr) isExpr() {}

// ObjectLit represents an object literal.
type ObjectLit struct {
	Loc   Loc
	Props []ObjectProp
}

func (*ObjectLit) isExpr() {}

// ObjectProp is one property inside an object literal.
type ObjectProp interface {
	isObjectProp()
}

// KeyValueProp represents: key: value.
type KeyValueProp struct {
	Loc   Loc
	Key   string
	Value Expr
}

func (*KeyValueProp) isObjectProp() {}

// ShorthandProp represents the shorthand form: { name }. The identifier is a
// use of the binding with that name.
type ShorthandProp struct {
	Loc Loc
	Id  *Ident
}

func (*ShorthandProp) isObjectProp() {}

// SpreadProp represents: ...expr inside an object literal.
type SpreadProp struct {
	Loc  Loc
	Expr Expr
}

func (*SpreadProp) isObjectProp() {}

// ArrayLit represents an array literal. A nil element is a hole.
type ArrayLit struct {
	Loc   Loc
	Elems []Expr
}

func (*ArrayLit) isExpr() {}

// SpreadExpr represents: ...expr inside a call or array literal.
type SpreadExpr struct {
	Loc  Loc
	Expr Expr
}

func (*SpreadExpr) isExpr() {}

// TemplateLit represents a template literal. Quasis always has one more
// element than Exprs.
type TemplateLit struct {
	Loc    Loc
	Quasis []string
	Exprs  []Expr
}

func (*TemplateLit) isExpr() {}

// ParenExpr represents a parenthesized expression.
type ParenExpr struct {
	Loc  Loc
	Expr Expr
}

func (*ParenExpr) isExpr() {}

// ----------------------------------------------------------------------------
// JSX
// ----------------------------------------------------------------------------

// JSXName is an element tag name: a single identifier or a member chain
// rooted at one (Foo, Foo.Bar.Baz). Only the root identifier is a binding
// use; the member parts are property names.
type JSXName struct {
	Root  *Ident
	Props []string
}

// String returns the tag as written in source.
func (n JSXName) String() string {
	s := n.Root.Name
	for _, p := range n.Props {
		s += "." + p
	}
	return s
}

// JSXElement represents: <Tag attrs>children</Tag> or <Tag attrs />.
type JSXElement struct {
	Loc         Loc
	Name        JSXName
	Attrs       []JSXAttr
	Children    []JSXChild
	SelfClosing bool
}

func (*JSXElement) isExpr() {}

// JSXAttr is one attribute. Value is nil for bare attributes, a *Literal for
// string values, or any expression for {expr} values.
type JSXAttr struct {
	Loc   Loc
	Name  string
	Value Expr
}

// JSXChild is a child of a JSX element.
type JSXChild interface {
	isJSXChild()
}

// JSXText is literal text between tags.
type JSXText struct {
	Loc  Loc
	Text string
}

func (*JSXText) isJSXChild() {}

// JSXExprChild represents: {expr} between tags.
type JSXExprChild struct {
	Loc  Loc
	Expr Expr
}

func (*JSXExprChild) isJSXChild() {}

func (*JSXElement) isJSXChild() {}

// Package parser parses the ECMAScript module subset the export transform
// operates on.
//
// The parser is a single-pass recursive descent over a pull-based lexer.
// Context-sensitive constructs (JSX text, template continuations, arrow
// parameter lists) are handled by parser-controlled lexer modes and by
// bounded backtracking. The parser produces an unresolved tree: every
// identifier carries ast.UnresolvedCtxt until the resolver binds it.
package parser

import (
	"fmt"

	"github.com/modfall/stripexport/internal/ast"
	"github.com/modfall/stripexport/internal/lexer"
)

// ParseError represents a parsing error.
type ParseError struct {
	Message string
	Pos     int
	Line    int // 1-based
	Column  int // 1-based
}

func (e ParseError) Error() string {
	return fmt.Sprintf("%d:%d: %s", e.Line, e.Column, e.Message)
}

// Parser parses JavaScript source into an AST.
type Parser struct {
	source string
	lex    *lexer.Lexer
	tok    lexer.Token
	lines  *lineIndex
	errors []ParseError
}

// New creates a new parser for the given source.
func New(source string) *Parser {
	p := &Parser{
		source: source,
		lex:    lexer.New(source),
		lines:  newLineIndex(source),
	}
	p.tok = p.lex.Next()
	return p
}

// Parse parses the source and returns the module.
func (p *Parser) Parse() (*ast.Module, []ParseError) {
	module := &ast.Module{Source: p.source}

	for p.tok.Kind != lexer.TokEOF && p.tok.Kind != lexer.TokError {
		before := len(p.errors)
		item := p.parseModuleItem()
		if item != nil {
			module.Items = append(module.Items, item)
		}
		// Avoid an infinite loop when an item failed without consuming input.
		if item == nil && len(p.errors) > before {
			p.advance()
		}
	}
	if p.tok.Kind == lexer.TokError {
		p.errorf("%s", p.tok.Value)
	}

	return module, p.errors
}

// ----------------------------------------------------------------------------
// Token Helpers
// ----------------------------------------------------------------------------

type mark struct {
	lexPos    int
	tok       lexer.Token
	errorsLen int
}

func (p *Parser) mark() mark {
	return mark{lexPos: p.lex.Pos(), tok: p.tok, errorsLen: len(p.errors)}
}

func (p *Parser) restore(m mark) {
	p.lex.SetPos(m.lexPos)
	p.tok = m.tok
	p.errors = p.errors[:m.errorsLen]
}

func (p *Parser) advance() lexer.Token {
	tok := p.tok
	p.tok = p.lex.Next()
	return tok
}

func (p *Parser) match(kind lexer.TokenKind) bool {
	if p.tok.Kind == kind {
		p.advance()
		return true
	}
	return false
}

func (p *Parser) expect(kind lexer.TokenKind) (lexer.Token, bool) {
	if p.tok.Kind != kind {
		p.errorf("expected %s, got %s", kind, p.tok.Kind)
		return p.tok, false
	}
	return p.advance(), true
}

func (p *Parser) errorf(format string, args ...any) {
	line, col := p.lines.position(p.tok.Start)
	p.errors = append(p.errors, ParseError{
		Message: fmt.Sprintf(format, args...),
		Pos:     p.tok.Start,
		Line:    line + 1,
		Column:  col + 1,
	})
}

func (p *Parser) loc(tok lexer.Token) ast.Loc {
	return ast.Loc{Start: int32(tok.Start)}
}

// isIdentLike reports whether the current token can serve as an identifier.
// Contextual keywords are valid names outside their special positions.
func (p *Parser) isIdentLike() bool {
	switch p.tok.Kind {
	case lexer.TokIdent, lexer.TokFrom, lexer.TokAs, lexer.TokOf, lexer.TokAsync:
		return true
	}
	return false
}

func (p *Parser) parseIdent() *ast.Ident {
	if !p.isIdentLike() {
		p.errorf("expected identifier, got %s", p.tok.Kind)
		return &ast.Ident{Loc: p.loc(p.tok), Name: "", Ctxt: ast.UnresolvedCtxt}
	}
	tok := p.advance()
	return &ast.Ident{Loc: p.loc(tok), Name: tok.Text(p.source), Ctxt: ast.UnresolvedCtxt}
}

// ----------------------------------------------------------------------------
// Module Items
// ----------------------------------------------------------------------------

func (p *Parser) parseModuleItem() ast.ModuleItem {
	switch p.tok.Kind {
	case lexer.TokImport:
		return p.parseImportDecl()
	case lexer.TokExport:
		return p.parseExport()
	default:
		return p.parseStmt()
	}
}

func (p *Parser) parseImportDecl() ast.ModuleItem {
	start := p.advance() // import
	decl := &ast.ImportDecl{Loc: p.loc(start)}

	// Side-effect import: import "src";
	if p.tok.Kind == lexer.TokString {
		decl.Src = stringValue(p.advance().Value)
		p.match(lexer.TokSemicolon)
		return decl
	}

	// Default specifier
	if p.isIdentLike() {
		local := p.parseIdent()
		decl.Specifiers = append(decl.Specifiers, &ast.ImportDefaultSpecifier{Loc: local.Loc, Local: local})
		if !p.match(lexer.TokComma) {
			return p.finishImport(decl)
		}
	}

	switch p.tok.Kind {
	case lexer.TokStar:
		p.advance()
		p.expect(lexer.TokAs)
		local := p.parseIdent()
		decl.Specifiers = append(decl.Specifiers, &ast.ImportStarSpecifier{Loc: local.Loc, Local: local})
	case lexer.TokLBrace:
		p.advance()
		for p.tok.Kind != lexer.TokRBrace && p.tok.Kind != lexer.TokEOF {
			spec := &ast.ImportNamedSpecifier{Loc: p.loc(p.tok)}
			name := p.parseImportedName()
			if p.match(lexer.TokAs) {
				spec.Imported = name
				spec.Local = p.parseIdent()
			} else {
				spec.Local = &ast.Ident{Loc: spec.Loc, Name: name, Ctxt: ast.UnresolvedCtxt}
			}
			decl.Specifiers = append(decl.Specifiers, spec)
			if !p.match(lexer.TokComma) {
				break
			}
		}
		p.expect(lexer.TokRBrace)
	default:
		p.errorf("expected import specifiers, got %s", p.tok.Kind)
	}

	return p.finishImport(decl)
}

// parseImportedName accepts an identifier or keyword; imported names are not
// bindings and may be any word ("default" included).
func (p *Parser) parseImportedName() string {
	if p.tok.Kind == lexer.TokString {
		return stringValue(p.advance().Value)
	}
	tok := p.advance()
	return tok.Text(p.source)
}

func (p *Parser) finishImport(decl *ast.ImportDecl) ast.ModuleItem {
	p.expect(lexer.TokFrom)
	if tok, ok := p.expect(lexer.TokString); ok {
		decl.Src = stringValue(tok.Value)
	}
	p.match(lexer.TokSemicolon)
	return decl
}

func (p *Parser) parseExport() ast.ModuleItem {
	start := p.advance() // export
	loc := p.loc(start)

	switch p.tok.Kind {
	case lexer.TokDefault:
		p.advance()
		if p.tok.Kind == lexer.TokFunction || (p.tok.Kind == lexer.TokAsync && p.peekIsFunction()) {
			fn := p.parseFnExpr()
			p.match(lexer.TokSemicolon)
			return &ast.ExportDefaultDecl{Loc: loc, Fn: fn}
		}
		expr := p.parseAssignExpr()
		p.match(lexer.TokSemicolon)
		return &ast.ExportDefaultExpr{Loc: loc, Expr: expr}

	case lexer.TokFunction, lexer.TokAsync:
		decl := p.parseFnDecl()
		return &ast.ExportDecl{Loc: loc, Decl: decl}

	case lexer.TokVar, lexer.TokLet, lexer.TokConst:
		decl := p.parseVarDecl()
		return &ast.ExportDecl{Loc: loc, Decl: decl}

	case lexer.TokLBrace:
		p.advance()
		exp := &ast.NamedExport{Loc: loc}
		for p.tok.Kind != lexer.TokRBrace && p.tok.Kind != lexer.TokEOF {
			spec := &ast.ExportNamedSpecifier{Loc: p.loc(p.tok), Orig: p.parseIdent()}
			if p.match(lexer.TokAs) {
				spec.Exported = p.parseImportedName()
			}
			exp.Specifiers = append(exp.Specifiers, spec)
			if !p.match(lexer.TokComma) {
				break
			}
		}
		p.expect(lexer.TokRBrace)
		if p.match(lexer.TokFrom) {
			if tok, ok := p.expect(lexer.TokString); ok {
				exp.Src = stringValue(tok.Value)
			}
		}
		p.match(lexer.TokSemicolon)
		return exp

	case lexer.TokStar:
		p.advance()
		exp := &ast.NamedExport{Loc: loc}
		name := ""
		if p.match(lexer.TokAs) {
			name = p.parseImportedName()
		}
		exp.Specifiers = append(exp.Specifiers, &ast.ExportNamespaceSpecifier{Loc: loc, Name: name})
		p.expect(lexer.TokFrom)
		if tok, ok := p.expect(lexer.TokString); ok {
			exp.Src = stringValue(tok.Value)
		}
		p.match(lexer.TokSemicolon)
		return exp
	}

	p.errorf("unexpected token after export: %s", p.tok.Kind)
	return nil
}

func (p *Parser) peekIsFunction() bool {
	m := p.mark()
	p.advance()
	is := p.tok.Kind == lexer.TokFunction
	p.restore(m)
	return is
}

// ----------------------------------------------------------------------------
// Statements
// ----------------------------------------------------------------------------

func (p *Parser) parseStmt() ast.Stmt {
	switch p.tok.Kind {
	case lexer.TokLBrace:
		return p.parseBlock()
	case lexer.TokSemicolon:
		tok := p.advance()
		return &ast.EmptyStmt{Loc: p.loc(tok)}
	case lexer.TokVar, lexer.TokLet, lexer.TokConst:
		return p.parseVarDecl()
	case lexer.TokFunction:
		return p.parseFnDecl()
	case lexer.TokAsync:
		if p.peekIsFunction() {
			return p.parseFnDecl()
		}
	case lexer.TokReturn:
		tok := p.advance()
		stmt := &ast.ReturnStmt{Loc: p.loc(tok)}
		if p.tok.Kind != lexer.TokSemicolon && p.tok.Kind != lexer.TokRBrace && p.tok.Kind != lexer.TokEOF {
			stmt.Arg = p.parseExpr()
		}
		p.match(lexer.TokSemicolon)
		return stmt
	case lexer.TokThrow:
		tok := p.advance()
		stmt := &ast.ThrowStmt{Loc: p.loc(tok), Arg: p.parseExpr()}
		p.match(lexer.TokSemicolon)
		return stmt
	case lexer.TokIf:
		return p.parseIf()
	case lexer.TokFor:
		return p.parseFor()
	case lexer.TokWhile:
		tok := p.advance()
		p.expect(lexer.TokLParen)
		test := p.parseExpr()
		p.expect(lexer.TokRParen)
		return &ast.WhileStmt{Loc: p.loc(tok), Test: test, Body: p.parseStmt()}
	}

	// Expression statement
	tok := p.tok
	expr := p.parseExpr()
	p.match(lexer.TokSemicolon)
	return &ast.ExprStmt{Loc: p.loc(tok), Expr: expr}
}

func (p *Parser) parseBlock() *ast.BlockStmt {
	start, _ := p.expect(lexer.TokLBrace)
	block := &ast.BlockStmt{Loc: p.loc(start)}
	for p.tok.Kind != lexer.TokRBrace && p.tok.Kind != lexer.TokEOF {
		before := len(p.errors)
		stmt := p.parseStmt()
		if stmt != nil {
			block.Stmts = append(block.Stmts, stmt)
		}
		if stmt == nil && len(p.errors) > before {
			p.advance()
		}
	}
	p.expect(lexer.TokRBrace)
	return block
}

func (p *Parser) parseIf() ast.Stmt {
	tok := p.advance()
	p.expect(lexer.TokLParen)
	test := p.parseExpr()
	p.expect(lexer.TokRParen)
	stmt := &ast.IfStmt{Loc: p.loc(tok), Test: test, Cons: p.parseStmt()}
	if p.match(lexer.TokElse) {
		stmt.Alt = p.parseStmt()
	}
	return stmt
}

func (p *Parser) parseFor() ast.Stmt {
	tok := p.advance()
	p.expect(lexer.TokLParen)
	stmt := &ast.ForStmt{Loc: p.loc(tok)}

	if p.tok.Kind != lexer.TokSemicolon {
		switch p.tok.Kind {
		case lexer.TokVar, lexer.TokLet, lexer.TokConst:
			stmt.Init = p.parseVarDeclNoSemi()
		default:
			stmt.Init = &ast.ExprStmt{Loc: p.loc(p.tok), Expr: p.parseExpr()}
		}
	}
	// A bare for-in target swallows "in" as a binary operator; undo that.
	if es, ok := stmt.Init.(*ast.ExprStmt); ok && p.tok.Kind == lexer.TokRParen {
		if bin, ok := es.Expr.(*ast.BinaryExpr); ok && bin.Op == "in" {
			p.advance()
			return &ast.ForInOfStmt{
				Loc:   stmt.Loc,
				Left:  &ast.ExprStmt{Loc: es.Loc, Expr: bin.Left},
				Right: bin.Right,
				Body:  p.parseStmt(),
			}
		}
	}

	// for-in / for-of use a different head shape.
	if p.tok.Kind == lexer.TokIn || p.tok.Kind == lexer.TokOf {
		inOf := &ast.ForInOfStmt{
			Loc:  stmt.Loc,
			IsOf: p.tok.Kind == lexer.TokOf,
			Left: stmt.Init,
		}
		p.advance()
		inOf.Right = p.parseAssignExpr()
		p.expect(lexer.TokRParen)
		inOf.Body = p.parseStmt()
		return inOf
	}
	p.expect(lexer.TokSemicolon)
	if p.tok.Kind != lexer.TokSemicolon {
		stmt.Test = p.parseExpr()
	}
	p.expect(lexer.TokSemicolon)
	if p.tok.Kind != lexer.TokRParen {
		stmt.Update = p.parseExpr()
	}
	p.expect(lexer.TokRParen)
	stmt.Body = p.parseStmt()
	return stmt
}

func (p *Parser) parseVarDecl() *ast.VarDecl {
	decl := p.parseVarDeclNoSemi()
	p.match(lexer.TokSemicolon)
	return decl
}

func (p *Parser) parseVarDeclNoSemi() *ast.VarDecl {
	tok := p.advance()
	decl := &ast.VarDecl{Loc: p.loc(tok)}
	switch tok.Kind {
	case lexer.TokLet:
		decl.Kind = ast.VarDeclLet
	case lexer.TokConst:
		decl.Kind = ast.VarDeclConst
	default:
		decl.Kind = ast.VarDeclVar
	}

	for {
		d := &ast.VarDeclarator{Loc: p.loc(p.tok), Name: p.parseBindingPat()}
		if p.match(lexer.TokEq) {
			d.Init = p.parseAssignExpr()
		}
		decl.Decls = append(decl.Decls, d)
		if !p.match(lexer.TokComma) {
			break
		}
	}
	return decl
}

// ----------------------------------------------------------------------------
// Patterns
// ----------------------------------------------------------------------------

func (p *Parser) parseBindingPat() ast.Pat {
	switch p.tok.Kind {
	case lexer.TokLBracket:
		return p.parseArrayPat()
	case lexer.TokLBrace:
		return p.parseObjectPat()
	default:
		return p.parseIdent()
	}
}

// parseBindingElement parses a pattern with an optional default value, as
// allowed in parameters and array pattern slots.
func (p *Parser) parseBindingElement() ast.Pat {
	pat := p.parseBindingPat()
	if p.tok.Kind == lexer.TokEq {
		tok := p.advance()
		return &ast.AssignPat{Loc: p.loc(tok), Left: pat, Right: p.parseAssignExpr()}
	}
	return pat
}

func (p *Parser) parseArrayPat() ast.Pat {
	start := p.advance() // [
	pat := &ast.ArrayPat{Loc: p.loc(start)}
	for p.tok.Kind != lexer.TokRBracket && p.tok.Kind != lexer.TokEOF {
		if p.tok.Kind == lexer.TokComma {
			p.advance()
			pat.Elems = append(pat.Elems, nil) // hole
			continue
		}
		if p.tok.Kind == lexer.TokEllipsis {
			tok := p.advance()
			pat.Elems = append(pat.Elems, &ast.RestPat{Loc: p.loc(tok), Arg: p.parseBindingPat()})
		} else {
			pat.Elems = append(pat.Elems, p.parseBindingElement())
		}
		if !p.match(lexer.TokComma) {
			break
		}
	}
	p.expect(lexer.TokRBracket)
	return pat
}

func (p *Parser) parseObjectPat() ast.Pat {
	start := p.advance() // {
	pat := &ast.ObjectPat{Loc: p.loc(start)}
	for p.tok.Kind != lexer.TokRBrace && p.tok.Kind != lexer.TokEOF {
		if p.tok.Kind == lexer.TokEllipsis {
			tok := p.advance()
			pat.Props = append(pat.Props, &ast.RestPatProp{Loc: p.loc(tok), Arg: p.parseBindingPat()})
		} else {
			keyTok := p.tok
			key := p.parsePropKey()
			if p.match(lexer.TokColon) {
				pat.Props = append(pat.Props, &ast.KeyValuePatProp{
					Loc:   p.loc(keyTok),
					Key:   key,
					Value: p.parseBindingElement(),
				})
			} else {
				prop := &ast.AssignPatProp{
					Loc: p.loc(keyTok),
					Key: &ast.Ident{Loc: p.loc(keyTok), Name: key, Ctxt: ast.UnresolvedCtxt},
				}
				if p.match(lexer.TokEq) {
					prop.Value = p.parseAssignExpr()
				}
				pat.Props = append(pat.Props, prop)
			}
		}
		if !p.match(lexer.TokComma) {
			break
		}
	}
	p.expect(lexer.TokRBrace)
	return pat
}

// ----------------------------------------------------------------------------
// Functions
// ----------------------------------------------------------------------------

func (p *Parser) parseFnDecl() *ast.FnDecl {
	isAsync := p.match(lexer.TokAsync)
	start, _ := p.expect(lexer.TokFunction)
	decl := &ast.FnDecl{Loc: p.loc(start), Ident: p.parseIdent()}
	decl.Fn = p.parseFunctionRest(p.loc(start), isAsync)
	return decl
}

func (p *Parser) parseFnExpr() *ast.FnExpr {
	isAsync := p.match(lexer.TokAsync)
	start, _ := p.expect(lexer.TokFunction)
	expr := &ast.FnExpr{Loc: p.loc(start)}
	if p.isIdentLike() {
		expr.Ident = p.parseIdent()
	}
	expr.Fn = p.parseFunctionRest(p.loc(start), isAsync)
	return expr
}

func (p *Parser) parseFunctionRest(loc ast.Loc, isAsync bool) *ast.Function {
	fn := &ast.Function{Loc: loc, IsAsync: isAsync}
	fn.Params = p.parseParams()
	fn.Body = p.parseBlock()
	return fn
}

func (p *Parser) parseParams() []ast.Pat {
	p.expect(lexer.TokLParen)
	var params []ast.Pat
	for p.tok.Kind != lexer.TokRParen && p.tok.Kind != lexer.TokEOF {
		if p.tok.Kind == lexer.TokEllipsis {
			tok := p.advance()
			params = append(params, &ast.RestPat{Loc: p.loc(tok), Arg: p.parseBindingPat()})
		} else {
			params = append(params, p.parseBindingElement())
		}
		if !p.match(lexer.TokComma) {
			break
		}
	}
	p.expect(lexer.TokRParen)
	return params
}

// ----------------------------------------------------------------------------
// Expressions
// ----------------------------------------------------------------------------

func (p *Parser) parseExpr() ast.Expr {
	return p.parseAssignExpr()
}

func (p *Parser) parseAssignExpr() ast.Expr {
	// Arrow functions need lookahead: try them before anything else.
	if arrow := p.tryParseArrow(); arrow != nil {
		return arrow
	}

	left := p.parseCondExpr()

	switch p.tok.Kind {
	case lexer.TokEq, lexer.TokPlusEq, lexer.TokMinusEq, lexer.TokStarEq, lexer.TokSlashEq:
		tok := p.advance()
		op := tok.Text(p.source)
		return &ast.AssignExpr{Loc: p.loc(tok), Op: op, Target: left, Value: p.parseAssignExpr()}
	}
	return left
}

// tryParseArrow attempts to parse an arrow function at the current position,
// returning nil (with all state restored) when the lookahead fails.
func (p *Parser) tryParseArrow() ast.Expr {
	isAsync := false
	m := p.mark()

	if p.tok.Kind == lexer.TokAsync {
		next := p.mark()
		p.advance()
		if p.tok.Kind != lexer.TokLParen && !p.isIdentLike() {
			p.restore(next)
		} else {
			isAsync = true
		}
	}

	switch {
	case p.isIdentLike():
		// Single-parameter shorthand: x => ...
		tok := p.tok
		p.advance()
		if p.tok.Kind != lexer.TokArrow {
			p.restore(m)
			return nil
		}
		param := &ast.Ident{Loc: p.loc(tok), Name: tok.Text(p.source), Ctxt: ast.UnresolvedCtxt}
		arrowTok := p.advance()
		return p.parseArrowBody(p.loc(arrowTok), []ast.Pat{param}, isAsync)

	case p.tok.Kind == lexer.TokLParen:
		params := p.parseParams()
		if len(p.errors) > m.errorsLen || p.tok.Kind != lexer.TokArrow {
			p.restore(m)
			return nil
		}
		arrowTok := p.advance()
		return p.parseArrowBody(p.loc(arrowTok), params, isAsync)
	}

	p.restore(m)
	return nil
}

func (p *Parser) parseArrowBody(loc ast.Loc, params []ast.Pat, isAsync bool) ast.Expr {
	arrow := &ast.ArrowExpr{Loc: loc, Params: params, IsAsync: isAsync}
	if p.tok.Kind == lexer.TokLBrace {
		arrow.Body = p.parseBlock()
	} else {
		arrow.Expr = p.parseAssignExpr()
	}
	return arrow
}

func (p *Parser) parseCondExpr() ast.Expr {
	test := p.parseBinaryExpr(0)
	if p.tok.Kind != lexer.TokQuestion {
		return test
	}
	tok := p.advance()
	cons := p.parseAssignExpr()
	p.expect(lexer.TokColon)
	alt := p.parseAssignExpr()
	return &ast.CondExpr{Loc: p.loc(tok), Test: test, Cons: cons, Alt: alt}
}

// binaryPrec returns the precedence of the current token as a binary
// operator, or -1 if it is not one.
func (p *Parser) binaryPrec() int {
	switch p.tok.Kind {
	case lexer.TokQQ:
		return 1
	case lexer.TokPipePipe:
		return 2
	case lexer.TokAmpAmp:
		return 3
	case lexer.TokPipe:
		return 4
	case lexer.TokCaret:
		return 5
	case lexer.TokAmp:
		return 6
	case lexer.TokEqEq, lexer.TokEqEqEq, lexer.TokBangEq, lexer.TokBangEqEq:
		return 7
	case lexer.TokLt, lexer.TokGt, lexer.TokLtEq, lexer.TokGtEq, lexer.TokIn, lexer.TokInstanceof:
		return 8
	case lexer.TokLtLt, lexer.TokGtGt, lexer.TokGtGtGt:
		return 9
	case lexer.TokPlus, lexer.TokMinus:
		return 10
	case lexer.TokStar, lexer.TokSlash, lexer.TokPercent:
		return 11
	case lexer.TokStarStar:
		return 12
	}
	return -1
}

func (p *Parser) parseBinaryExpr(minPrec int) ast.Expr {
	left := p.parseUnaryExpr()
	for {
		prec := p.binaryPrec()
		if prec < 0 || prec < minPrec {
			return left
		}
		tok := p.advance()
		right := p.parseBinaryExpr(prec + 1)
		left = &ast.BinaryExpr{Loc: p.loc(tok), Op: tok.Text(p.source), Left: left, Right: right}
	}
}

func (p *Parser) parseUnaryExpr() ast.Expr {
	switch p.tok.Kind {
	case lexer.TokBang, lexer.TokTilde, lexer.TokPlus, lexer.TokMinus,
		lexer.TokTypeof, lexer.TokDelete, lexer.TokVoid, lexer.TokAwait:
		tok := p.advance()
		return &ast.UnaryExpr{Loc: p.loc(tok), Op: tok.Text(p.source), Arg: p.parseUnaryExpr()}
	}
	return p.parsePostfixExpr()
}

func (p *Parser) parsePostfixExpr() ast.Expr {
	expr := p.parsePrimaryExpr()
	for {
		switch p.tok.Kind {
		case lexer.TokDot:
			tok := p.advance()
			prop := p.parsePropKey()
			expr = &ast.MemberExpr{Loc: p.loc(tok), Obj: expr, Prop: prop}
		case lexer.TokLBracket:
			tok := p.advance()
			index := p.parseExpr()
			p.expect(lexer.TokRBracket)
			expr = &ast.IndexExpr{Loc: p.loc(tok), Obj: expr, Index: index}
		case lexer.TokLParen:
			tok := p.advance()
			call := &ast.CallExpr{Loc: p.loc(tok), Callee: expr}
			call.Args = p.parseArgs()
			expr = call
		default:
			return expr
		}
	}
}

func (p *Parser) parseArgs() []ast.Expr {
	var args []ast.Expr
	for p.tok.Kind != lexer.TokRParen && p.tok.Kind != lexer.TokEOF {
		if p.tok.Kind == lexer.TokEllipsis {
			tok := p.advance()
			args = append(args, &ast.SpreadExpr{Loc: p.loc(tok), Expr: p.parseAssignExpr()})
		} else {
			args = append(args, p.parseAssignExpr())
		}
		if !p.match(lexer.TokComma) {
			break
		}
	}
	p.expect(lexer.TokRParen)
	return args
}

func (p *Parser) parsePrimaryExpr() ast.Expr {
	switch p.tok.Kind {
	case lexer.TokIdent, lexer.TokFrom, lexer.TokAs, lexer.TokOf, lexer.TokAsync, lexer.TokThis:
		tok := p.advance()
		return &ast.Ident{Loc: p.loc(tok), Name: tok.Text(p.source), Ctxt: ast.UnresolvedCtxt}

	case lexer.TokNumber:
		tok := p.advance()
		return &ast.Literal{Loc: p.loc(tok), Kind: ast.LitNumber, Raw: tok.Value}

	case lexer.TokString:
		tok := p.advance()
		return &ast.Literal{Loc: p.loc(tok), Kind: ast.LitString, Raw: tok.Value}

	case lexer.TokTrue, lexer.TokFalse:
		tok := p.advance()
		return &ast.Literal{Loc: p.loc(tok), Kind: ast.LitBool, Raw: tok.Text(p.source)}

	case lexer.TokNull:
		tok := p.advance()
		return &ast.Literal{Loc: p.loc(tok), Kind: ast.LitNull, Raw: "null"}

	case lexer.TokTemplate, lexer.TokTemplateHead:
		return p.parseTemplate()

	case lexer.TokFunction:
		return p.parseFnExpr()

	case lexer.TokNew:
		tok := p.advance()
		callee := p.parsePrimaryExpr()
		for p.tok.Kind == lexer.TokDot {
			dot := p.advance()
			callee = &ast.MemberExpr{Loc: p.loc(dot), Obj: callee, Prop: p.parsePropKey()}
		}
		call := &ast.CallExpr{Loc: p.loc(tok), Callee: callee, IsNew: true}
		if p.tok.Kind == lexer.TokLParen {
			p.advance()
			call.Args = p.parseArgs()
		}
		return call

	case lexer.TokLParen:
		tok := p.advance()
		expr := p.parseExpr()
		p.expect(lexer.TokRParen)
		return &ast.ParenExpr{Loc: p.loc(tok), Expr: expr}

	case lexer.TokLBracket:
		return p.parseArrayLit()

	case lexer.TokLBrace:
		return p.parseObjectLit()

	case lexer.TokLt:
		return p.parseJSXElement()
	}

	p.errorf("unexpected token in expression: %s", p.tok.Kind)
	tok := p.advance()
	return &ast.Literal{Loc: p.loc(tok), Kind: ast.LitNull, Raw: "null"}
}

func (p *Parser) parseTemplate() ast.Expr {
	tok := p.advance()
	tpl := &ast.TemplateLit{Loc: p.loc(tok)}

	if tok.Kind == lexer.TokTemplate {
		tpl.Quasis = append(tpl.Quasis, tok.Value)
		return tpl
	}

	// TokTemplateHead: alternate expressions and continuations until the tail.
	tpl.Quasis = append(tpl.Quasis, tok.Value)
	for {
		tpl.Exprs = append(tpl.Exprs, p.parseExpr())
		if p.tok.Kind != lexer.TokRBrace {
			p.errorf("expected } in template literal, got %s", p.tok.Kind)
			return tpl
		}
		// Re-lex from the closing brace in template mode.
		p.lex.SetPos(p.tok.Start)
		part := p.lex.NextTemplatePart()
		tpl.Quasis = append(tpl.Quasis, part.Value)
		if part.Kind == lexer.TokTemplateTail || part.Kind == lexer.TokError {
			if part.Kind == lexer.TokError {
				p.errorf("%s", part.Value)
			}
			p.tok = p.lex.Next()
			return tpl
		}
		// TokTemplateMiddle: resume normal mode for the next substitution.
		p.tok = p.lex.Next()
	}
}

func (p *Parser) parseArrayLit() ast.Expr {
	start := p.advance() // [
	arr := &ast.ArrayLit{Loc: p.loc(start)}
	for p.tok.Kind != lexer.TokRBracket && p.tok.Kind != lexer.TokEOF {
		if p.tok.Kind == lexer.TokComma {
			p.advance()
			arr.Elems = append(arr.Elems, nil) // hole
			continue
		}
		if p.tok.Kind == lexer.TokEllipsis {
			tok := p.advance()
			arr.Elems = append(arr.Elems, &ast.SpreadExpr{Loc: p.loc(tok), Expr: p.parseAssignExpr()})
		} else {
			arr.Elems = append(arr.Elems, p.parseAssignExpr())
		}
		if !p.match(lexer.TokComma) {
			break
		}
	}
	p.expect(lexer.TokRBracket)
	return arr
}

func (p *Parser) parseObjectLit() ast.Expr {
	start := p.advance() // {
	obj := &ast.ObjectLit{Loc: p.loc(start)}
	for p.tok.Kind != lexer.TokRBrace && p.tok.Kind != lexer.TokEOF {
		if p.tok.Kind == lexer.TokEllipsis {
			tok := p.advance()
			obj.Props = append(obj.Props, &ast.SpreadProp{Loc: p.loc(tok), Expr: p.parseAssignExpr()})
		} else {
			keyTok := p.tok
			key := p.parsePropKey()
			if p.match(lexer.TokColon) {
				obj.Props = append(obj.Props, &ast.KeyValueProp{
					Loc:   p.loc(keyTok),
					Key:   key,
					Value: p.parseAssignExpr(),
				})
			} else {
				obj.Props = append(obj.Props, &ast.ShorthandProp{
					Loc: p.loc(keyTok),
					Id:  &ast.Ident{Loc: p.loc(keyTok), Name: key, Ctxt: ast.UnresolvedCtxt},
				})
			}
		}
		if !p.match(lexer.TokComma) {
			break
		}
	}
	p.expect(lexer.TokRBrace)
	return obj
}

// ----------------------------------------------------------------------------
// JSX
// ----------------------------------------------------------------------------

func (p *Parser) parseJSXElement() ast.Expr {
	start, _ := p.expect(lexer.TokLt)
	elem := &ast.JSXElement{Loc: p.loc(start)}
	elem.Name = p.parseJSXName()

	// Attributes
	for p.tok.Kind == lexer.TokIdent || p.tok.Kind.IsKeyword() {
		attr := ast.JSXAttr{Loc: p.loc(p.tok), Name: p.parsePropKey()}
		// Dashed attribute names (data-*, aria-*)
		for p.tok.Kind == lexer.TokMinus {
			p.advance()
			attr.Name += "-" + p.parsePropKey()
		}
		if p.match(lexer.TokEq) {
			if p.tok.Kind == lexer.TokString {
				tok := p.advance()
				attr.Value = &ast.Literal{Loc: p.loc(tok), Kind: ast.LitString, Raw: tok.Value}
			} else if p.tok.Kind == lexer.TokLBrace {
				p.advance()
				attr.Value = p.parseAssignExpr()
				p.expect(lexer.TokRBrace)
			} else {
				p.errorf("expected JSX attribute value, got %s", p.tok.Kind)
			}
		}
		elem.Attrs = append(elem.Attrs, attr)
	}

	// Self-closing: <Tag ... />
	if p.tok.Kind == lexer.TokSlash {
		p.advance()
		p.expect(lexer.TokGt)
		elem.SelfClosing = true
		return elem
	}

	gt, ok := p.expect(lexer.TokGt)
	if !ok {
		return elem
	}
	p.enterJSXText(gt.End)

	// Children until the closing tag.
	for {
		if p.tok.Kind == lexer.TokJSXText {
			if p.tok.Value != "" {
				elem.Children = append(elem.Children, &ast.JSXText{Loc: p.loc(p.tok), Text: p.tok.Value})
			}
			p.tok = p.lex.Next()
			continue
		}
		if p.tok.Kind == lexer.TokLBrace {
			p.advance()
			child := &ast.JSXExprChild{Loc: p.loc(p.tok), Expr: p.parseAssignExpr()}
			rbrace, ok := p.expect(lexer.TokRBrace)
			elem.Children = append(elem.Children, child)
			if !ok {
				return elem
			}
			p.enterJSXText(rbrace.End)
			continue
		}
		if p.tok.Kind == lexer.TokLt {
			m := p.mark()
			p.advance()
			if p.tok.Kind == lexer.TokSlash {
				// Closing tag
				p.advance()
				p.parseJSXName()
				p.expect(lexer.TokGt)
				return elem
			}
			p.restore(m)
			childStart := p.tok
			elem.Children = append(elem.Children, p.parseJSXElement().(*ast.JSXElement))
			p.enterJSXText(childEnd(p, childStart))
			continue
		}
		p.errorf("unterminated JSX element")
		return elem
	}
}

// enterJSXText re-lexes from the given byte offset in JSX text mode.
func (p *Parser) enterJSXText(offset int) {
	p.lex.SetPos(offset)
	p.tok = p.lex.NextJSXText()
}

// childEnd returns the byte offset just past a nested element. The lexer is
// already positioned there after the closing tag's '>' was consumed, except
// that the parser pre-fetched one token; back up to that token's start.
func childEnd(p *Parser, _ lexer.Token) int {
	return p.tok.Start
}

func (p *Parser) parseJSXName() ast.JSXName {
	root := p.parseIdent()
	name := ast.JSXName{Root: root}
	for p.tok.Kind == lexer.TokDot {
		p.advance()
		name.Props = append(name.Props, p.parsePropKey())
	}
	return name
}

// ----------------------------------------------------------------------------
// Literal Helpers
// ----------------------------------------------------------------------------

// parsePropKey consumes a property key token (identifier, keyword, number or
// string) and returns its raw source text, quotes included.
func (p *Parser) parsePropKey() string {
	tok := p.advance()
	return tok.Text(p.source)
}

// stringValue strips the quotes from a raw string literal. Escape sequences
// are kept as written; module specifiers rarely contain them.
func stringValue(raw string) string {
	if len(raw) >= 2 {
		return raw[1 : len(raw)-1]
	}
	return raw
}

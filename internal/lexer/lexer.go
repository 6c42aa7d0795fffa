// Package lexer provides tokenization for the ECMAScript module subset the
// transform operates on.
//
// The lexer is pull-based: the parser requests one token at a time, which
// lets it switch into the context-sensitive modes JavaScript needs
// (JSX text between tags, template literal continuations after a
// substitution). It handles:
// - Keywords and identifiers (including Unicode)
// - String, number and template literals
// - Operators and punctuation, including multi-char forms
// - Comments (line and block)
package lexer

import (
	"unicode"
	"unicode/utf8"
)

// ----------------------------------------------------------------------------
// Token Types
// ----------------------------------------------------------------------------

// TokenKind represents the type of a token.
type TokenKind uint8

const (
	TokError TokenKind = iota
	TokEOF

	// Literals
	TokString   // "..." or '...'
	TokNumber   // 1, 1.5, 0x10, 1e3
	TokTemplate // `...` with no substitutions

	// Template literal pieces around substitutions
	TokTemplateHead   // `...${
	TokTemplateMiddle // }...${
	TokTemplateTail   // }...`

	// Identifiers and keywords
	TokIdent
	TokImport
	TokExport
	TokFrom
	TokAs
	TokDefault
	TokFunction
	TokReturn
	TokVar
	TokLet
	TokConst
	TokIf
	TokElse
	TokFor
	TokWhile
	TokNew
	TokTypeof
	TokDelete
	TokVoid
	TokIn
	TokOf
	TokInstanceof
	TokNull
	TokTrue
	TokFalse
	TokThis
	TokAsync
	TokAwait
	TokThrow

	// Operators
	TokPlus     // +
	TokMinus    // -
	TokStar     // *
	TokStarStar // **
	TokSlash    // /
	TokPercent  // %
	TokAmp      // &
	TokAmpAmp   // &&
	TokPipe     // |
	TokPipePipe // ||
	TokCaret    // ^
	TokTilde    // ~
	TokBang     // !
	TokQuestion // ?
	TokQQ       // ??
	TokLt       // <
	TokGt       // >
	TokLtEq     // <=
	TokGtEq     // >=
	TokEqEq     // ==
	TokEqEqEq   // ===
	TokBangEq   // !=
	TokBangEqEq // !==
	TokEq       // =
	TokArrow    // =>
	TokPlusEq   // +=
	TokMinusEq  // -=
	TokStarEq   // *=
	TokSlashEq  // /=
	TokLtLt     // <<
	TokGtGt     // >>
	TokGtGtGt   // >>>

	// Delimiters
	TokLParen    // (
	TokRParen    // )
	TokLBrace    // {
	TokRBrace    // }
	TokLBracket  // [
	TokRBracket  // ]
	TokSemicolon // ;
	TokColon     // :
	TokComma     // ,
	TokDot       // .
	TokEllipsis  // ...

	// JSX
	TokJSXText // raw text between tags, produced only in JSX text mode
)

// IsKeyword reports whether the kind is a reserved or contextual keyword.
func (k TokenKind) IsKeyword() bool {
	return k >= TokImport && k <= TokThrow
}

// String returns the string representation of a token kind.
func (k TokenKind) String() string {
	if int(k) < len(tokenNames) {
		return tokenNames[k]
	}
	return "unknown"
}

var tokenNames = [...]string{
	TokError:          "error",
	TokEOF:            "EOF",
	TokString:         "string",
	TokNumber:         "number",
	TokTemplate:       "template",
	TokTemplateHead:   "template-head",
	TokTemplateMiddle: "template-middle",
	TokTemplateTail:   "template-tail",
	TokIdent:          "identifier",
	TokImport:         "import",
	TokExport:         "export",
	TokFrom:           "from",
	TokAs:             "as",
	TokDefault:        "default",
	TokFunction:       "function",
	TokReturn:         "return",
	TokVar:            "var",
	TokLet:            "let",
	TokConst:          "const",
	TokIf:             "if",
	TokElse:           "else",
	TokFor:            "for",
	TokWhile:          "while",
	TokNew:            "new",
	TokTypeof:         "typeof",
	TokDelete:         "delete",
	TokVoid:           "void",
	TokIn:             "in",
	TokOf:             "of",
	TokInstanceof:     "instanceof",
	TokNull:           "null",
	TokTrue:           "true",
	TokFalse:          "false",
	TokThis:           "this",
	TokAsync:          "async",
	TokAwait:          "await",
	TokThrow:          "throw",
	TokPlus:           "+",
	TokMinus:          "-",
	TokStar:           "*",
	TokStarStar:       "**",
	TokSlash:          "/",
	TokPercent:        "%",
	TokAmp:            "&",
	TokAmpAmp:         "&&",
	TokPipe:           "|",
	TokPipePipe:       "||",
	TokCaret:          "^",
	TokTilde:          "~",
	TokBang:           "!",
	TokQuestion:       "?",
	TokQQ:             "??",
	TokLt:             "<",
	TokGt:             ">",
	TokLtEq:           "<=",
	TokGtEq:           ">=",
	TokEqEq:           "==",
	TokEqEqEq:         "===",
	TokBangEq:         "!=",
	TokBangEqEq:       "!==",
	TokEq:             "=",
	TokArrow:          "=>",
	TokPlusEq:         "+=",
	TokMinusEq:        "-=",
	TokStarEq:         "*=",
	TokSlashEq:        "/=",
	TokLtLt:           "<<",
	TokGtGt:           ">>",
	TokGtGtGt:         ">>>",
	TokLParen:         "(",
	TokRParen:         ")",
	TokLBrace:         "{",
	TokRBrace:         "}",
	TokLBracket:       "[",
	TokRBracket:       "]",
	TokSemicolon:      ";",
	TokColon:          ":",
	TokComma:          ",",
	TokDot:            ".",
	TokEllipsis:       "...",
	TokJSXText:        "jsx-text",
}

// Keywords maps keyword strings to their token kinds. "from", "as", "of" and
// "async" are contextual; the parser treats them as identifiers outside
// their positions.
var Keywords = map[string]TokenKind{
	"import":     TokImport,
	"export":     TokExport,
	"from":       TokFrom,
	"as":         TokAs,
	"default":    TokDefault,
	"function":   TokFunction,
	"return":     TokReturn,
	"var":        TokVar,
	"let":        TokLet,
	"const":      TokConst,
	"if":         TokIf,
	"else":       TokElse,
	"for":        TokFor,
	"while":      TokWhile,
	"new":        TokNew,
	"typeof":     TokTypeof,
	"delete":     TokDelete,
	"void":       TokVoid,
	"in":         TokIn,
	"of":         TokOf,
	"instanceof": TokInstanceof,
	"null":       TokNull,
	"true":       TokTrue,
	"false":      TokFalse,
	"this":       TokThis,
	"async":      TokAsync,
	"await":      TokAwait,
	"throw":      TokThrow,
}

// ----------------------------------------------------------------------------
// Token
// ----------------------------------------------------------------------------

// Token represents a lexical token.
type Token struct {
	Kind  TokenKind
	Start int    // Byte offset in source
	End   int    // Byte offset of end (exclusive)
	Value string // Identifier/keyword text, literal raw text, error message
}

// Text returns the source text of the token.
func (t Token) Text(source string) string {
	if t.Start >= 0 && t.End <= len(source) {
		return source[t.Start:t.End]
	}
	return ""
}

// ----------------------------------------------------------------------------
// Lexer
// ----------------------------------------------------------------------------

// Lexer tokenizes JavaScript source on demand.
type Lexer struct {
	source string
	pos    int
}

// New creates a new lexer for the given source.
func New(source string) *Lexer {
	return &Lexer{source: source}
}

// Pos returns the current byte offset, for parser-driven re-lexing.
func (l *Lexer) Pos() int {
	return l.pos
}

// SetPos rewinds or advances the lexer to a byte offset. The parser uses
// this when backtracking and when switching into JSX text mode.
func (l *Lexer) SetPos(pos int) {
	l.pos = pos
}

// Next returns the next token in normal (non-JSX) mode.
func (l *Lexer) Next() Token {
	l.skipWhitespaceAndComments()

	if l.pos >= len(l.source) {
		return Token{Kind: TokEOF, Start: l.pos, End: l.pos}
	}

	ch := l.source[l.pos]

	if isIdentStart(rune(ch)) || ch >= 128 {
		return l.scanIdentOrKeyword()
	}
	if isDigit(ch) || (ch == '.' && l.pos+1 < len(l.source) && isDigit(l.source[l.pos+1])) {
		return l.scanNumber()
	}
	if ch == '"' || ch == '\'' {
		return l.scanString(ch)
	}
	if ch == '`' {
		return l.scanTemplate(l.pos, true)
	}

	return l.scanOperator()
}

// NextTemplatePart resumes a template literal after a `${expr}` substitution.
// It must be called with the lexer positioned at the closing brace of the
// substitution and returns TokTemplateMiddle or TokTemplateTail.
func (l *Lexer) NextTemplatePart() Token {
	start := l.pos
	if l.pos < len(l.source) && l.source[l.pos] == '}' {
		l.pos++
	}
	return l.scanTemplate(start, false)
}

// NextJSXText scans raw JSX text until the next '<' or '{'. The parser calls
// this between JSX tags; an empty text run yields the following token in
// normal mode instead.
func (l *Lexer) NextJSXText() Token {
	start := l.pos
	for l.pos < len(l.source) {
		ch := l.source[l.pos]
		if ch == '<' || ch == '{' || ch == '}' {
			break
		}
		l.pos++
	}
	return Token{Kind: TokJSXText, Start: start, End: l.pos, Value: l.source[start:l.pos]}
}

// ----------------------------------------------------------------------------
// Scanning Helpers
// ----------------------------------------------------------------------------

func (l *Lexer) skipWhitespaceAndComments() {
	for l.pos < len(l.source) {
		ch := l.source[l.pos]

		if ch == ' ' || ch == '\n' || ch == '\t' || ch == '\r' {
			l.pos++
			continue
		}

		// Line comment
		if ch == '/' && l.pos+1 < len(l.source) && l.source[l.pos+1] == '/' {
			l.pos += 2
			for l.pos < len(l.source) && l.source[l.pos] != '\n' {
				l.pos++
			}
			continue
		}

		// Block comment
		if ch == '/' && l.pos+1 < len(l.source) && l.source[l.pos+1] == '*' {
			l.pos += 2
			for l.pos+1 < len(l.source) {
				if l.source[l.pos] == '*' && l.source[l.pos+1] == '/' {
					l.pos += 2
					break
				}
				l.pos++
			}
			continue
		}

		break
	}
}

func (l *Lexer) scanIdentOrKeyword() Token {
	start := l.pos

	for l.pos < len(l.source) {
		ch := l.source[l.pos]
		if ch < 128 {
			if asciiIdentContinue[ch] {
				l.pos++
				continue
			}
			break
		}
		r, size := utf8.DecodeRuneInString(l.source[l.pos:])
		if !isIdentContinueSlow(r) {
			break
		}
		l.pos += size
	}

	text := l.source[start:l.pos]

	if kind, ok := Keywords[text]; ok {
		return Token{Kind: kind, Start: start, End: l.pos, Value: text}
	}

	return Token{Kind: TokIdent, Start: start, End: l.pos, Value: text}
}

func (l *Lexer) scanNumber() Token {
	start := l.pos

	// Hex, octal, binary
	if l.source[l.pos] == '0' && l.pos+1 < len(l.source) {
		next := l.source[l.pos+1]
		if next == 'x' || next == 'X' || next == 'o' || next == 'O' || next == 'b' || next == 'B' {
			l.pos += 2
			for l.pos < len(l.source) && (isHexDigit(l.source[l.pos]) || l.source[l.pos] == '_') {
				l.pos++
			}
			return Token{Kind: TokNumber, Start: start, End: l.pos, Value: l.source[start:l.pos]}
		}
	}

	for l.pos < len(l.source) && (isDigit(l.source[l.pos]) || l.source[l.pos] == '_') {
		l.pos++
	}
	if l.pos < len(l.source) && l.source[l.pos] == '.' {
		l.pos++
		for l.pos < len(l.source) && isDigit(l.source[l.pos]) {
			l.pos++
		}
	}
	if l.pos < len(l.source) && (l.source[l.pos] == 'e' || l.source[l.pos] == 'E') {
		l.pos++
		if l.pos < len(l.source) && (l.source[l.pos] == '+' || l.source[l.pos] == '-') {
			l.pos++
		}
		for l.pos < len(l.source) && isDigit(l.source[l.pos]) {
			l.pos++
		}
	}
	// BigInt suffix
	if l.pos < len(l.source) && l.source[l.pos] == 'n' {
		l.pos++
	}

	return Token{Kind: TokNumber, Start: start, End: l.pos, Value: l.source[start:l.pos]}
}

func (l *Lexer) scanString(quote byte) Token {
	start := l.pos
	l.pos++ // opening quote
	for l.pos < len(l.source) {
		ch := l.source[l.pos]
		if ch == '\\' && l.pos+1 < len(l.source) {
			l.pos += 2
			continue
		}
		if ch == quote {
			l.pos++
			return Token{Kind: TokString, Start: start, End: l.pos, Value: l.source[start:l.pos]}
		}
		if ch == '\n' {
			break
		}
		l.pos++
	}
	return Token{Kind: TokError, Start: start, End: l.pos, Value: "unterminated string literal"}
}

// scanTemplate scans from an opening backtick (head == true) or from just
// after the closing brace of a substitution (head == false) until either the
// terminating backtick or the next `${`.
func (l *Lexer) scanTemplate(start int, head bool) Token {
	if head {
		l.pos++ // opening backtick
	}
	for l.pos < len(l.source) {
		ch := l.source[l.pos]
		if ch == '\\' && l.pos+1 < len(l.source) {
			l.pos += 2
			continue
		}
		if ch == '`' {
			l.pos++
			kind := TokTemplateTail
			if head {
				kind = TokTemplate
			}
			return Token{Kind: kind, Start: start, End: l.pos, Value: l.source[start:l.pos]}
		}
		if ch == '$' && l.pos+1 < len(l.source) && l.source[l.pos+1] == '{' {
			l.pos += 2
			kind := TokTemplateMiddle
			if head {
				kind = TokTemplateHead
			}
			return Token{Kind: kind, Start: start, End: l.pos, Value: l.source[start:l.pos]}
		}
		l.pos++
	}
	return Token{Kind: TokError, Start: start, End: l.pos, Value: "unterminated template literal"}
}

func (l *Lexer) scanOperator() Token {
	start := l.pos
	ch := l.source[l.pos]
	l.pos++

	var next, next2 byte
	if l.pos < len(l.source) {
		next = l.source[l.pos]
	}
	if l.pos+1 < len(l.source) {
		next2 = l.source[l.pos+1]
	}

	switch ch {
	case '+':
		if next == '=' {
			l.pos++
			return l.tok(TokPlusEq, start)
		}
		return l.tok(TokPlus, start)
	case '-':
		if next == '=' {
			l.pos++
			return l.tok(TokMinusEq, start)
		}
		return l.tok(TokMinus, start)
	case '*':
		if next == '*' {
			l.pos++
			return l.tok(TokStarStar, start)
		}
		if next == '=' {
			l.pos++
			return l.tok(TokStarEq, start)
		}
		return l.tok(TokStar, start)
	case '/':
		if next == '=' {
			l.pos++
			return l.tok(TokSlashEq, start)
		}
		return l.tok(TokSlash, start)
	case '%':
		return l.tok(TokPercent, start)
	case '&':
		if next == '&' {
			l.pos++
			return l.tok(TokAmpAmp, start)
		}
		return l.tok(TokAmp, start)
	case '|':
		if next == '|' {
			l.pos++
			return l.tok(TokPipePipe, start)
		}
		return l.tok(TokPipe, start)
	case '^':
		return l.tok(TokCaret, start)
	case '~':
		return l.tok(TokTilde, start)
	case '?':
		if next == '?' {
			l.pos++
			return l.tok(TokQQ, start)
		}
		return l.tok(TokQuestion, start)
	case '<':
		if next == '<' {
			l.pos++
			return l.tok(TokLtLt, start)
		}
		if next == '=' {
			l.pos++
			return l.tok(TokLtEq, start)
		}
		return l.tok(TokLt, start)
	case '>':
		if next == '>' {
			l.pos++
			if l.pos < len(l.source) && l.source[l.pos] == '>' {
				l.pos++
				return l.tok(TokGtGtGt, start)
			}
			return l.tok(TokGtGt, start)
		}
		if next == '=' {
			l.pos++
			return l.tok(TokGtEq, start)
		}
		return l.tok(TokGt, start)
	case '=':
		if next == '=' && next2 == '=' {
			l.pos += 2
			return l.tok(TokEqEqEq, start)
		}
		if next == '=' {
			l.pos++
			return l.tok(TokEqEq, start)
		}
		if next == '>' {
			l.pos++
			return l.tok(TokArrow, start)
		}
		return l.tok(TokEq, start)
	case '!':
		if next == '=' && next2 == '=' {
			l.pos += 2
			return l.tok(TokBangEqEq, start)
		}
		if next == '=' {
			l.pos++
			return l.tok(TokBangEq, start)
		}
		return l.tok(TokBang, start)
	case '(':
		return l.tok(TokLParen, start)
	case ')':
		return l.tok(TokRParen, start)
	case '{':
		return l.tok(TokLBrace, start)
	case '}':
		return l.tok(TokRBrace, start)
	case '[':
		return l.tok(TokLBracket, start)
	case ']':
		return l.tok(TokRBracket, start)
	case ';':
		return l.tok(TokSemicolon, start)
	case ':':
		return l.tok(TokColon, start)
	case ',':
		return l.tok(TokComma, start)
	case '.':
		if next == '.' && next2 == '.' {
			l.pos += 2
			return l.tok(TokEllipsis, start)
		}
		return l.tok(TokDot, start)
	}

	return Token{Kind: TokError, Start: start, End: l.pos, Value: "unexpected character"}
}

func (l *Lexer) tok(kind TokenKind, start int) Token {
	return Token{Kind: kind, Start: start, End: l.pos}
}

// ----------------------------------------------------------------------------
// Character Classification
// ----------------------------------------------------------------------------

// ASCII lookup tables for fast character classification. These avoid
// Unicode lookups for the common ASCII case.
var (
	asciiIdentStart    [128]bool
	asciiIdentContinue [128]bool
)

func init() {
	for c := 'a'; c <= 'z'; c++ {
		asciiIdentStart[c] = true
		asciiIdentContinue[c] = true
	}
	for c := 'A'; c <= 'Z'; c++ {
		asciiIdentStart[c] = true
		asciiIdentContinue[c] = true
	}
	asciiIdentStart['_'] = true
	asciiIdentContinue['_'] = true
	asciiIdentStart['$'] = true
	asciiIdentContinue['$'] = true

	for c := '0'; c <= '9'; c++ {
		asciiIdentContinue[c] = true
	}
}

func isDigit(ch byte) bool {
	return ch >= '0' && ch <= '9'
}

func isHexDigit(ch byte) bool {
	return isDigit(ch) || (ch >= 'a' && ch <= 'f') || (ch >= 'A' && ch <= 'F')
}

func isIdentStartSlow(r rune) bool {
	return r == '_' || r == '$' || unicode.IsLetter(r)
}

func isIdentContinueSlow(r rune) bool {
	return isIdentStartSlow(r) || unicode.IsDigit(r) ||
		unicode.Is(unicode.Mn, r) || unicode.Is(unicode.Mc, r)
}

// isIdentStart checks if a rune can start an identifier.
func isIdentStart(r rune) bool {
	if r < 128 {
		return asciiIdentStart[r]
	}
	return isIdentStartSlow(r)
}

// IsIdentifier reports whether s is a well-formed identifier name.
func IsIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		if i == 0 {
			if !isIdentStart(r) {
				return false
			}
			continue
		}
		if r < 128 {
			if !asciiIdentContinue[r] {
				return false
			}
			continue
		}
		if !isIdentContinueSlow(r) {
			return false
		}
	}
	return true
}

package lexer

import (
	"testing"
)

// kinds scans source to EOF and returns the token kinds in order.
func kinds(source string) []TokenKind {
	l := New(source)
	var out []TokenKind
	for {
		tok := l.Next()
		if tok.Kind == TokEOF {
			return out
		}
		out = append(out, tok.Kind)
	}
}

func checkKinds(t *testing.T, source string, want []TokenKind) {
	t.Helper()
	got := kinds(source)
	if len(got) != len(want) {
		t.Fatalf("token count = %d, want %d (got %v)", len(got), len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("token %d = %s, want %s", i, got[i], want[i])
		}
	}
}

// ----------------------------------------------------------------------------
// Basic Tokens
// ----------------------------------------------------------------------------

func TestNext_Keywords(t *testing.T) {
	checkKinds(t, "import export default function const let var return",
		[]TokenKind{TokImport, TokExport, TokDefault, TokFunction, TokConst, TokLet, TokVar, TokReturn})
}

func TestNext_ContextualKeywords(t *testing.T) {
	checkKinds(t, "from as of async",
		[]TokenKind{TokFrom, TokAs, TokOf, TokAsync})
}

func TestNext_Operators(t *testing.T) {
	checkKinds(t, "=== !== => ... ?? >>> **",
		[]TokenKind{TokEqEqEq, TokBangEqEq, TokArrow, TokEllipsis, TokQQ, TokGtGtGt, TokStarStar})
}

func TestNext_IdentifiersAndLiterals(t *testing.T) {
	l := New(`foo 42 "str" 'c'`)

	tok := l.Next()
	if tok.Kind != TokIdent || tok.Value != "foo" {
		t.Errorf("expected ident foo, got %s %q", tok.Kind, tok.Value)
	}
	tok = l.Next()
	if tok.Kind != TokNumber || tok.Value != "42" {
		t.Errorf("expected number 42, got %s %q", tok.Kind, tok.Value)
	}
	tok = l.Next()
	if tok.Kind != TokString || tok.Value != `"str"` {
		t.Errorf("expected string, got %s %q", tok.Kind, tok.Value)
	}
	tok = l.Next()
	if tok.Kind != TokString || tok.Value != `'c'` {
		t.Errorf("expected string, got %s %q", tok.Kind, tok.Value)
	}
}

func TestNext_Comments(t *testing.T) {
	checkKinds(t, "a // line\nb /* block */ c",
		[]TokenKind{TokIdent, TokIdent, TokIdent})
}

// ----------------------------------------------------------------------------
// Template Literals
// ----------------------------------------------------------------------------

func TestNext_SimpleTemplate(t *testing.T) {
	l := New("`just text`")
	tok := l.Next()
	if tok.Kind != TokTemplate {
		t.Fatalf("expected TokTemplate, got %s", tok.Kind)
	}
	if tok.Value != "`just text`" {
		t.Errorf("template raw = %q", tok.Value)
	}
}

func TestNext_TemplateWithSubstitution(t *testing.T) {
	source := "`a${x}b`"
	l := New(source)

	tok := l.Next()
	if tok.Kind != TokTemplateHead {
		t.Fatalf("expected TokTemplateHead, got %s", tok.Kind)
	}
	if tok.Value != "`a${" {
		t.Errorf("head raw = %q", tok.Value)
	}

	tok = l.Next()
	if tok.Kind != TokIdent || tok.Value != "x" {
		t.Fatalf("expected ident x, got %s %q", tok.Kind, tok.Value)
	}

	// The parser repositions at the closing brace before asking for the
	// next template part.
	l.SetPos(tok.End)
	tok = l.NextTemplatePart()
	if tok.Kind != TokTemplateTail {
		t.Fatalf("expected TokTemplateTail, got %s", tok.Kind)
	}
	if tok.Value != "}b`" {
		t.Errorf("tail raw = %q", tok.Value)
	}
}

// ----------------------------------------------------------------------------
// JSX Text Mode
// ----------------------------------------------------------------------------

func TestNextJSXText_StopsAtMarkup(t *testing.T) {
	source := "hello {x}"
	l := New(source)

	tok := l.NextJSXText()
	if tok.Kind != TokJSXText {
		t.Fatalf("expected TokJSXText, got %s", tok.Kind)
	}
	if tok.Text(source) != "hello " {
		t.Errorf("jsx text = %q", tok.Text(source))
	}
}

func TestNextJSXText_StopsAtTag(t *testing.T) {
	source := "abc<span>"
	l := New(source)

	tok := l.NextJSXText()
	if tok.Text(source) != "abc" {
		t.Errorf("jsx text = %q", tok.Text(source))
	}
	tok = l.Next()
	if tok.Kind != TokLt {
		t.Errorf("expected TokLt after text, got %s", tok.Kind)
	}
}

// ----------------------------------------------------------------------------
// Helpers
// ----------------------------------------------------------------------------

func TestIsKeyword(t *testing.T) {
	if !TokFor.IsKeyword() {
		t.Error("for should be a keyword")
	}
	if TokIdent.IsKeyword() {
		t.Error("ident is not a keyword")
	}
}

func TestIsIdentifier(t *testing.T) {
	valid := []string{"a", "_x", "$y", "abc123"}
	for _, s := range valid {
		if !IsIdentifier(s) {
			t.Errorf("IsIdentifier(%q) = false, want true", s)
		}
	}
	invalid := []string{"", "1a", "a-b", "a b"}
	for _, s := range invalid {
		if IsIdentifier(s) {
			t.Errorf("IsIdentifier(%q) = true, want false", s)
		}
	}
}

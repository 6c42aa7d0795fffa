package stripper

import (
	"strings"
	"testing"

	"github.com/modfall/stripexport/internal/parser"
	"github.com/modfall/stripexport/internal/resolver"
	"github.com/modfall/stripexport/internal/testutil"
)

func TestStrip_RemovesExportAndDeps(t *testing.T) {
	source := `import { util } from "./util";
function helper() { return util(); }
export function removed() { return helper(); }
export function kept() { return 1; }`

	s := New(Options{
		Targets: []string{"removed"},
		Verify:  true,
		Logger:  testutil.NewTestLogger(t),
	})
	result := s.Strip(source)

	if len(result.Errors) != 0 {
		t.Fatalf("unexpected errors: %v", result.Errors)
	}
	if strings.Contains(result.Code, "removed") || strings.Contains(result.Code, "helper") {
		t.Errorf("removed code survived:\n%s", result.Code)
	}
	if !strings.Contains(result.Code, "export function kept()") {
		t.Errorf("kept export lost:\n%s", result.Code)
	}
	if result.Stats.OriginalSize != len(source) {
		t.Errorf("original size = %d, want %d", result.Stats.OriginalSize, len(source))
	}
	if result.Stats.StrippedSize != len(result.Code) {
		t.Errorf("stripped size = %d, want %d", result.Stats.StrippedSize, len(result.Code))
	}
	if result.Stats.Removed == 0 {
		t.Error("removal count should be non-zero")
	}
	if result.Stats.Passes < 2 {
		t.Errorf("passes = %d, want at least 2", result.Stats.Passes)
	}
}

func TestStrip_ParseErrorReturnsOriginal(t *testing.T) {
	source := `export function broken( { return 1; }`

	s := New(Options{Targets: []string{"broken"}})
	result := s.Strip(source)

	if len(result.Errors) == 0 {
		t.Fatal("expected parse errors")
	}
	if result.Code != source {
		t.Error("parse errors must leave the source untouched")
	}
	if result.Errors[0].Line == 0 {
		t.Errorf("parse error should carry a position: %+v", result.Errors[0])
	}
}

func TestStrip_NoTargetsPreservesModule(t *testing.T) {
	source := `export function f() { return 1; }`

	s := New(Options{})
	result := s.Strip(source)

	if len(result.Errors) != 0 {
		t.Fatalf("unexpected errors: %v", result.Errors)
	}
	if !strings.Contains(result.Code, "export function f()") {
		t.Errorf("module changed without targets:\n%s", result.Code)
	}
	if result.Stats.Removed != 0 {
		t.Errorf("removed = %d, want 0", result.Stats.Removed)
	}
}

func TestStripModule_PrunesParsedTree(t *testing.T) {
	source := `function helper() { return 1; }
export function removed() { return helper(); }
export function kept() { return 2; }`

	p := parser.New(source)
	module, errs := p.Parse()
	if len(errs) != 0 {
		t.Fatalf("parse errors: %v", errs)
	}
	resolver.Resolve(module)

	s := New(Options{Targets: []string{"removed"}, Verify: true})
	result := s.StripModule(module)

	if len(result.Errors) != 0 {
		t.Fatalf("unexpected errors: %v", result.Errors)
	}
	if strings.Contains(result.Code, "removed") || strings.Contains(result.Code, "helper") {
		t.Errorf("removed code survived:\n%s", result.Code)
	}
	if !strings.Contains(result.Code, "export function kept()") {
		t.Errorf("kept export lost:\n%s", result.Code)
	}
	if result.Stats.StrippedSize != len(result.Code) {
		t.Errorf("stripped size = %d, want %d", result.Stats.StrippedSize, len(result.Code))
	}
}

func TestStrip_MinifyWhitespace(t *testing.T) {
	s := New(Options{MinifyWhitespace: true})
	result := s.Strip(`const x = 1;`)

	if result.Code != "const x=1;" {
		t.Errorf("minified output = %q", result.Code)
	}
}

func TestStrip_DefaultOptionsVerify(t *testing.T) {
	opts := DefaultOptions()
	if !opts.Verify {
		t.Error("default options should enable verification")
	}
}

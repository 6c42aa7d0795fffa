package verify

import (
	"strings"
	"testing"

	"github.com/modfall/stripexport/internal/parser"
	"github.com/modfall/stripexport/internal/prune"
	"github.com/modfall/stripexport/internal/resolver"
)

func checkSource(t *testing.T, source string) []Problem {
	t.Helper()
	p := parser.New(source)
	module, errs := p.Parse()
	if len(errs) > 0 {
		t.Fatalf("parse errors: %v", errs)
	}
	resolver.Resolve(module)
	return Check(module)
}

func TestCheck_CleanModule(t *testing.T) {
	problems := checkSource(t, `import { a } from "./a";
function helper() { return a; }
export function f(x) { return helper() + x; }`)
	if len(problems) != 0 {
		t.Errorf("expected no problems, got %v", problems)
	}
}

func TestCheck_GlobalsAreNotProblems(t *testing.T) {
	problems := checkSource(t, `export function f() { return console.log(Math.max(1, 2)); }`)
	if len(problems) != 0 {
		t.Errorf("globals should be ignored, got %v", problems)
	}
}

func TestCheck_DanglingReference(t *testing.T) {
	// Build a module, then cut a declaration out from under a use.
	p := parser.New("const gone = 1;\nexport function f() { return gone; }")
	module, errs := p.Parse()
	if len(errs) > 0 {
		t.Fatalf("parse errors: %v", errs)
	}
	resolver.Resolve(module)
	module.Items = module.Items[1:]

	problems := Check(module)
	if len(problems) != 1 {
		t.Fatalf("expected 1 problem, got %v", problems)
	}
	if problems[0].Id.Name != "gone" {
		t.Errorf("problem id = %+v", problems[0].Id)
	}
	if !strings.Contains(problems[0].String(), "gone") {
		t.Errorf("problem string = %q", problems[0].String())
	}
}

func TestCheck_UseBeforeDeclIsFine(t *testing.T) {
	problems := checkSource(t, `export function f() { return later(); }
function later() { return 1; }`)
	if len(problems) != 0 {
		t.Errorf("declaration order must not matter, got %v", problems)
	}
}

func TestCheck_AfterPrune(t *testing.T) {
	// The prune must never leave a dangling reference behind.
	source := `import { util } from "./util";
function helper() { return util(); }
function shared() { return 1; }
export function removed() { return helper() + shared(); }
export function kept() { return shared(); }`

	p := parser.New(source)
	module, errs := p.Parse()
	if len(errs) > 0 {
		t.Fatalf("parse errors: %v", errs)
	}
	resolver.Resolve(module)
	prune.Run(module, []string{"removed"})

	if problems := Check(module); len(problems) != 0 {
		t.Errorf("prune left dangling references: %v", problems)
	}
}

package prune

import (
	"strings"
	"testing"

	"github.com/modfall/stripexport/internal/parser"
	"github.com/modfall/stripexport/internal/printer"
	"github.com/modfall/stripexport/internal/resolver"
)

// transform parses, resolves, prunes, and prints in one step.
func transform(t *testing.T, source string, targets []string) string {
	t.Helper()
	p := parser.New(source)
	module, errs := p.Parse()
	if len(errs) > 0 {
		t.Fatalf("parse errors: %v", errs)
	}
	resolver.Resolve(module)
	Run(module, targets)
	return printer.New(printer.Options{}).Print(module)
}

func wantContains(t *testing.T, output, substr string) {
	t.Helper()
	if !strings.Contains(output, substr) {
		t.Errorf("output should contain %q, got:\n%s", substr, output)
	}
}

func wantNotContains(t *testing.T, output, substr string) {
	t.Helper()
	if strings.Contains(output, substr) {
		t.Errorf("output should not contain %q, got:\n%s", substr, output)
	}
}

// ----------------------------------------------------------------------------
// Named Export Removal
// ----------------------------------------------------------------------------

func TestRun_RemoveExportedFunction(t *testing.T) {
	source := `export function removed() { return 1; }
export function kept() { return 2; }`

	out := transform(t, source, []string{"removed"})

	wantNotContains(t, out, "removed")
	wantContains(t, out, "export function kept()")
}

func TestRun_ExclusiveDependencyChain(t *testing.T) {
	// helper and the util import are only reachable through the removed
	// export, so they must go with it.
	source := `import { util } from "./util";
function helper() { return util(); }
export function removed() { return helper(); }
export function kept() { return 1; }`

	out := transform(t, source, []string{"removed"})

	wantNotContains(t, out, "removed")
	wantNotContains(t, out, "helper")
	wantNotContains(t, out, "util")
	wantNotContains(t, out, "import")
	wantContains(t, out, "export function kept()")
}

func TestRun_SharedDependencyKept(t *testing.T) {
	source := `function shared() { return 1; }
export function removed() { return shared(); }
export function kept() { return shared(); }`

	out := transform(t, source, []string{"removed"})

	wantNotContains(t, out, "removed")
	wantContains(t, out, "function shared()")
	wantContains(t, out, "export function kept()")
}

func TestRun_RemoveExportedVar(t *testing.T) {
	source := `function helper() { return 1; }
export const removed = helper();
export function kept() { return 2; }`

	out := transform(t, source, []string{"removed"})

	wantNotContains(t, out, "removed")
	wantNotContains(t, out, "helper")
	wantContains(t, out, "export function kept()")
}

func TestRun_NoTargetsIsNoOp(t *testing.T) {
	source := `import { a } from "./a";
export function f() { return a; }`

	out := transform(t, source, nil)

	wantContains(t, out, `import { a } from "./a";`)
	wantContains(t, out, "export function f()")
}

func TestRun_MissingTargetIsNoOp(t *testing.T) {
	source := `export function f() { return 1; }`

	out := transform(t, source, []string{"nope"})

	wantContains(t, out, "export function f()")
}

// ----------------------------------------------------------------------------
// Default Export
// ----------------------------------------------------------------------------

func TestRun_DefaultFunctionReplacedWithEmpty(t *testing.T) {
	// The default export slot survives as an empty function so importers
	// of the module shape keep working.
	source := `function fmt(x) { return x; }
export default function main() { return fmt(1); }
export const keep = 1;`

	out := transform(t, source, []string{"default"})

	wantContains(t, out, "export default function")
	wantNotContains(t, out, "fmt")
	wantNotContains(t, out, "main")
	wantContains(t, out, "export const keep = 1;")
}

func TestRun_DefaultExprReplacedWithEmpty(t *testing.T) {
	source := `function build() { return {}; }
export default build();`

	out := transform(t, source, []string{"default"})

	wantContains(t, out, "export default function")
	wantNotContains(t, out, "build")
}

func TestRun_DefaultKeptWhenNotTargeted(t *testing.T) {
	source := `export default function main() { return 1; }
export function removed() { return 2; }`

	out := transform(t, source, []string{"removed"})

	wantContains(t, out, "main")
	wantNotContains(t, out, "removed")
}

// ----------------------------------------------------------------------------
// Named Export Lists and Re-exports
// ----------------------------------------------------------------------------

func TestRun_LocalExportList(t *testing.T) {
	source := `function a() { return 1; }
function b() { return 2; }
export { a, b };`

	out := transform(t, source, []string{"a"})

	wantNotContains(t, out, "function a()")
	wantContains(t, out, "function b()")
	wantContains(t, out, "export { b };")
}

func TestRun_ExportListAlias(t *testing.T) {
	// Removal matches the exported name, not the local one.
	source := `function impl() { return 1; }
function other() { return 2; }
export { impl as removed, other };`

	out := transform(t, source, []string{"removed"})

	wantNotContains(t, out, "impl")
	wantContains(t, out, "function other()")
	wantContains(t, out, "export { other };")
}

func TestRun_ReexportAliasDefault(t *testing.T) {
	source := `export { helper as default } from "./helper";
export { other } from "./helper";`

	out := transform(t, source, []string{"default"})

	wantNotContains(t, out, "helper as default")
	wantContains(t, out, `export { other } from "./helper";`)
}

func TestRun_ReexportListEmptied(t *testing.T) {
	source := `export { a, b } from "./mod";
export function kept() { return 1; }`

	out := transform(t, source, []string{"a", "b"})

	wantNotContains(t, out, "./mod")
	wantContains(t, out, "export function kept()")
}

func TestRun_NamespaceReexport(t *testing.T) {
	source := `export * as ns from "./mod";
export * as removed from "./other";`

	out := transform(t, source, []string{"removed"})

	wantContains(t, out, `export * as ns from "./mod";`)
	wantNotContains(t, out, "./other")
}

func TestRun_StarReexportUntouched(t *testing.T) {
	// A bare star re-export has no name to match.
	source := `export * from "./mod";`

	out := transform(t, source, []string{"anything"})

	wantContains(t, out, `export * from "./mod";`)
}

// ----------------------------------------------------------------------------
// Imports
// ----------------------------------------------------------------------------

func TestRun_SideEffectImportUntouched(t *testing.T) {
	source := `import "./polyfill";
export function removed() { return 1; }`

	out := transform(t, source, []string{"removed"})

	wantContains(t, out, `import "./polyfill";`)
	wantNotContains(t, out, "removed")
}

func TestRun_DefaultImportDropped(t *testing.T) {
	source := `import lib from "./lib";
export function removed() { return lib.go(); }
export function kept() { return 1; }`

	out := transform(t, source, []string{"removed"})

	wantNotContains(t, out, "lib")
	wantContains(t, out, "export function kept()")
}

func TestRun_StarImportDropped(t *testing.T) {
	source := `import * as ns from "./mod";
export function removed() { return ns.f(); }
export function kept() { return 1; }`

	out := transform(t, source, []string{"removed"})

	wantNotContains(t, out, "ns")
	wantContains(t, out, "export function kept()")
}

func TestRun_PartialImportSurvives(t *testing.T) {
	source := `import { a, b } from "./mod";
export function removed() { return a; }
export function kept() { return b; }`

	out := transform(t, source, []string{"removed"})

	wantNotContains(t, out, "a,")
	wantContains(t, out, `import { b } from "./mod";`)
}

// ----------------------------------------------------------------------------
// Patterns and Declarators
// ----------------------------------------------------------------------------

func TestRun_DestructuredBindingPruned(t *testing.T) {
	source := `function src() { return {}; }
const { a, b } = src();
export function removed() { return a; }
export function kept() { return b; }`

	out := transform(t, source, []string{"removed"})

	wantContains(t, out, "{ b }")
	wantNotContains(t, out, "a,")
	wantContains(t, out, "function src()")
}

func TestRun_WholeDeclaratorDropped(t *testing.T) {
	source := `function make() { return 1; }
const only = make();
export function removed() { return only; }
export function kept() { return 2; }`

	out := transform(t, source, []string{"removed"})

	wantNotContains(t, out, "only")
	wantNotContains(t, out, "make")
	wantContains(t, out, "export function kept()")
}

func TestRun_MultiDeclaratorKeepsOthers(t *testing.T) {
	source := `const dead = 1, alive = 2;
export function removed() { return dead; }
export function kept() { return alive; }`

	out := transform(t, source, []string{"removed"})

	wantNotContains(t, out, "dead")
	wantContains(t, out, "alive = 2")
}

func TestRun_ExportedDestructuredTargetDropped(t *testing.T) {
	// Targeting a name bound by an exported destructuring pattern strips
	// just that binding; the rest of the pattern survives.
	source := `import mod from "./mod";
export const { getStaticProps, Page } = mod;`

	out := transform(t, source, []string{"getStaticProps"})

	wantNotContains(t, out, "getStaticProps")
	wantContains(t, out, "{ Page }")
	wantContains(t, out, `import mod from "./mod";`)
}

func TestRun_ExportedDestructuredAliasDropped(t *testing.T) {
	source := `const conf = { a: 1, b: 2 };
export const { a: getStaticProps, b: kept } = conf;`

	out := transform(t, source, []string{"getStaticProps"})

	wantNotContains(t, out, "getStaticProps")
	wantContains(t, out, "b: kept")
	wantContains(t, out, "const conf")
}

func TestRun_ExportedDestructuredCascade(t *testing.T) {
	// The pattern empties, so the declarator and everything only its
	// initializer used must go too.
	source := `import { load } from "./load";
export const { getStaticProps } = load();
export const kept = 1;`

	out := transform(t, source, []string{"getStaticProps"})

	wantNotContains(t, out, "getStaticProps")
	wantNotContains(t, out, "load")
	wantContains(t, out, "export const kept = 1;")
}

func TestRun_PlainDestructuringIgnoresTargetNames(t *testing.T) {
	// Name-directed dropping applies to exported patterns only; a local
	// declaration binding the same name is untouched.
	source := `const { getStaticProps } = lib;
export function kept() { return getStaticProps; }`

	out := transform(t, source, []string{"getStaticProps"})

	wantContains(t, out, "{ getStaticProps }")
	wantContains(t, out, "export function kept()")
}

// ----------------------------------------------------------------------------
// JSX
// ----------------------------------------------------------------------------

func TestRun_JSXComponentImportDropped(t *testing.T) {
	source := `import { Widget } from "./widget";
export function removed() { return <Widget size={1} />; }
export function kept() { return 2; }`

	out := transform(t, source, []string{"removed"})

	wantNotContains(t, out, "Widget")
	wantContains(t, out, "export function kept()")
}

func TestRun_JSXIntrinsicIgnored(t *testing.T) {
	// Lowercase tags are host elements, not bindings.
	source := `export function removed() { return <div id="x" />; }
export function kept() { return <span />; }`

	out := transform(t, source, []string{"removed"})

	wantNotContains(t, out, "div")
	wantContains(t, out, "<span />")
}

// ----------------------------------------------------------------------------
// Scoping
// ----------------------------------------------------------------------------

func TestRun_ShadowedNameNotConfused(t *testing.T) {
	// The inner `helper` parameter must not keep the module-level helper
	// alive, and dropping the module-level helper must not touch kept.
	source := `function helper() { return 1; }
export function removed() { return helper(); }
export function kept(helper) { return helper; }`

	out := transform(t, source, []string{"removed"})

	wantNotContains(t, out, "function helper()")
	wantContains(t, out, "export function kept(helper)")
}

func TestRun_FnExprSelfNameKeptAlive(t *testing.T) {
	// A named function expression referencing itself must not loop the
	// prune or lose its name.
	source := `export const kept = function again(n) { return n ? again(n - 1) : 0; };
export function removed() { return 1; }`

	out := transform(t, source, []string{"removed"})

	wantContains(t, out, "function again(n)")
	wantNotContains(t, out, "removed")
}

// ----------------------------------------------------------------------------
// Fixed Point Behavior
// ----------------------------------------------------------------------------

func TestRun_TransitiveChain(t *testing.T) {
	// Each level only becomes removable once the one above it goes.
	source := `function a() { return 1; }
function b() { return a(); }
function c() { return b(); }
export function removed() { return c(); }
export function kept() { return 2; }`

	out := transform(t, source, []string{"removed"})

	wantNotContains(t, out, "function a()")
	wantNotContains(t, out, "function b()")
	wantNotContains(t, out, "function c()")
	wantContains(t, out, "export function kept()")
}

func TestRun_Idempotent(t *testing.T) {
	source := `import { util } from "./util";
function helper() { return util(); }
export function removed() { return helper(); }
export function kept() { return 1; }`

	first := transform(t, source, []string{"removed"})
	second := transform(t, first, []string{"removed"})

	if first != second {
		t.Errorf("second run changed output:\nfirst:\n%s\nsecond:\n%s", first, second)
	}
}

func TestRun_DefaultTargetReachesFixedPoint(t *testing.T) {
	// Replacing the default export must not propose the replacement itself
	// for another pass, or the loop never stops.
	source := `function fmt(x) { return x; }
export default function main() { return fmt(1); }`

	p := parser.New(source)
	module, errs := p.Parse()
	if len(errs) > 0 {
		t.Fatalf("parse errors: %v", errs)
	}
	resolver.Resolve(module)
	stats := Run(module, []string{"default"})

	if stats.Passes > 3 {
		t.Errorf("expected a small fixed pass count, got %d", stats.Passes)
	}
}

func TestRun_DefaultTargetIdempotent(t *testing.T) {
	source := `function build() { return {}; }
export default build();`

	first := transform(t, source, []string{"default"})
	second := transform(t, first, []string{"default"})

	if first != second {
		t.Errorf("second run changed output:\nfirst:\n%s\nsecond:\n%s", first, second)
	}
}

func TestRun_StatsCountRemovals(t *testing.T) {
	source := `import { util } from "./util";
function helper() { return util(); }
export function removed() { return helper(); }`

	p := parser.New(source)
	module, errs := p.Parse()
	if len(errs) > 0 {
		t.Fatalf("parse errors: %v", errs)
	}
	resolver.Resolve(module)
	stats := Run(module, []string{"removed"})

	if stats.Passes < 2 {
		t.Errorf("expected at least 2 passes, got %d", stats.Passes)
	}
	// removed export, helper, and the util import specifier
	if stats.Removed < 3 {
		t.Errorf("expected at least 3 removals, got %d", stats.Removed)
	}
}

func TestRun_MultipleTargets(t *testing.T) {
	source := `export function a() { return 1; }
export function b() { return 2; }
export function c() { return 3; }`

	out := transform(t, source, []string{"a", "c"})

	wantNotContains(t, out, "function a()")
	wantContains(t, out, "export function b()")
	wantNotContains(t, out, "function c()")
}

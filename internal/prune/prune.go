// Package prune removes configured exports from a module together with every
// declaration, import and destructured binding that only those exports use.
//
// Pruning works by:
// 1. Analyzing the module, classifying every identifier reference as coming
//    from removal-marked code (dataRefs) or from surviving code (otherRefs)
// 2. Rewriting the tree: dropping targeted exports and every binding that is
//    referenced exclusively from removal-marked code
// 3. Proposing newly orphaned sub-trees as removal candidates and repeating
//    until a pass changes nothing
//
// The module must be resolved before pruning: classification keys on the
// binding identity (name, scope context) that the resolver assigns, so
// running on unresolved input misclassifies shadowed names.
package prune

import (
	"github.com/modfall/stripexport/internal/ast"
)

// Stats reports what a Run did.
type Stats struct {
	Passes  int // Analyzer+rewriter rounds until the fixed point
	Removed int // Specifiers, declarators and statements dropped
}

// Run removes the named exports from the module in place and prunes
// everything that only they referenced. The special name "default" targets
// the default export, which is replaced with an empty function rather than
// deleted.
func Run(m *ast.Module, targets []string) Stats {
	st := newState(targets)

	passes := 0
	for {
		passes++
		a := &analyzer{state: st}
		a.module(m)

		r := &rewriter{state: st}
		r.module(m)

		if !st.shouldRunAgain {
			break
		}
		st.reset()
	}

	return Stats{Passes: passes, Removed: st.removed}
}

// ----------------------------------------------------------------------------
// Shared State
// ----------------------------------------------------------------------------

// state is shared by the analyzer and the rewriter and lives for one Run.
type state struct {
	// Identities referenced by surviving code. Recomputed from scratch each
	// pass, because nodes are dropped between passes.
	refsFromOther map[ast.Id]bool

	// Identities referenced by removal-marked code or its derivatives.
	// Preserved between passes so that helpers of an already-removed export
	// stay candidates even after the export itself is gone.
	refsFromDataFn map[ast.Id]bool

	// Identities currently being declared. References to a name from inside
	// its own declaration do not count as surviving uses.
	curDeclaring map[ast.Id]bool

	shouldRunAgain bool
	removeExports  []string
	removed        int
}

func newState(targets []string) *state {
	return &state{
		refsFromOther:  make(map[ast.Id]bool),
		refsFromDataFn: make(map[ast.Id]bool),
		curDeclaring:   make(map[ast.Id]bool),
		removeExports:  targets,
	}
}

// reset prepares the state for the next pass. refsFromDataFn survives.
func (s *state) reset() {
	s.refsFromOther = make(map[ast.Id]bool)
	s.curDeclaring = make(map[ast.Id]bool)
	s.shouldRunAgain = false
}

// isTarget reports whether name is one of the exports to remove.
func (s *state) isTarget(name string) bool {
	for _, t := range s.removeExports {
		if t == name {
			return true
		}
	}
	return false
}

// removeDefault reports whether the default export is targeted.
func (s *state) removeDefault() bool {
	return s.isTarget("default")
}

// removable reports whether a binding is referenced only by removal-marked
// code. A single surviving reference keeps it.
func (s *state) removable(id ast.Id) bool {
	return s.refsFromDataFn[id] && !s.refsFromOther[id]
}

// dropped records one removed node for Stats.
func (s *state) dropped() {
	s.removed++
}

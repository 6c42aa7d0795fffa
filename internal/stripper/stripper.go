// Package stripper provides the main export-removal API.
//
// It coordinates parsing, scope resolution, export pruning, and
// printing to produce transformed JavaScript output.
package stripper

import (
	"log/slog"

	"github.com/modfall/stripexport/internal/ast"
	"github.com/modfall/stripexport/internal/parser"
	"github.com/modfall/stripexport/internal/printer"
	"github.com/modfall/stripexport/internal/prune"
	"github.com/modfall/stripexport/internal/resolver"
	"github.com/modfall/stripexport/internal/verify"
)

// Options controls the transform.
type Options struct {
	// Targets are the exported names to remove. "default" removes the
	// default export.
	Targets []string

	// MinifyWhitespace drops indentation and newlines from the output
	MinifyWhitespace bool

	// Verify checks the pruned module for dangling references before
	// printing and reports any as errors
	Verify bool

	// Logger receives debug output. Discarded when nil.
	Logger *slog.Logger
}

// DefaultOptions returns options suitable for build pipelines.
func DefaultOptions() Options {
	return Options{
		Verify: true,
	}
}

// Result contains the transform output.
type Result struct {
	// Transformed JavaScript code
	Code string

	// Errors encountered during the transform
	Errors []Error

	// Statistics about the transform
	Stats Stats
}

// Error represents a transform error.
type Error struct {
	Message string
	Line    int
	Column  int
}

// Stats provides transform statistics.
type Stats struct {
	OriginalSize int
	StrippedSize int
	Passes       int
	Removed      int // Number of declarations and bindings removed
}

// Stripper removes exports from JavaScript modules.
type Stripper struct {
	options Options
	logger  *slog.Logger
}

// New creates a new stripper with the given options.
func New(options Options) *Stripper {
	logger := options.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Stripper{options: options, logger: logger}
}

// Strip transforms the given JavaScript source code.
func (s *Stripper) Strip(source string) Result {
	result := Result{
		Stats: Stats{OriginalSize: len(source)},
	}

	// 1. Parse into AST
	p := parser.New(source)
	module, errs := p.Parse()

	// 2. Report parse errors
	if len(errs) > 0 {
		for _, err := range errs {
			result.Errors = append(result.Errors, Error{
				Message: err.Message,
				Line:    err.Line,
				Column:  err.Column,
			})
		}
		// Return original source on parse error
		result.Code = source
		result.Stats.StrippedSize = len(source)
		return result
	}

	// 3. Assign binding contexts so shadowed names stay distinct
	resolver.Resolve(module)

	// 4. Prune the targeted exports and everything only they reach
	stats := prune.Run(module, s.options.Targets)
	result.Stats.Passes = stats.Passes
	result.Stats.Removed = stats.Removed
	s.logger.Debug("prune complete",
		"passes", stats.Passes,
		"removed", stats.Removed)

	// 5. Check for dangling references left by the prune
	if s.options.Verify {
		for _, prob := range verify.Check(module) {
			result.Errors = append(result.Errors, Error{
				Message: prob.String(),
			})
		}
	}

	// 6. Print
	out := printer.New(printer.Options{
		MinifyWhitespace: s.options.MinifyWhitespace,
	})
	result.Code = out.Print(module)
	result.Stats.StrippedSize = len(result.Code)

	return result
}

// StripModule runs the prune over a pre-parsed, resolved module and
// returns its printed form. Callers that parse once and strip several
// target sets should reparse between calls; the prune mutates the AST.
func (s *Stripper) StripModule(module *ast.Module) Result {
	result := Result{}

	stats := prune.Run(module, s.options.Targets)
	result.Stats.Passes = stats.Passes
	result.Stats.Removed = stats.Removed

	if s.options.Verify {
		for _, prob := range verify.Check(module) {
			result.Errors = append(result.Errors, Error{
				Message: prob.String(),
			})
		}
	}

	out := printer.New(printer.Options{
		MinifyWhitespace: s.options.MinifyWhitespace,
	})
	result.Code = out.Print(module)
	result.Stats.StrippedSize = len(result.Code)

	return result
}

// Package api provides the public API for the export remover.
//
// This package is intended for programmatic use from build tooling.
// For CLI usage, see cmd/stripexport.
package api

import (
	"github.com/modfall/stripexport/internal/config"
	"github.com/modfall/stripexport/internal/stripper"
)

// StripOptions controls the transform.
type StripOptions struct {
	// MinifyWhitespace removes indentation and newlines from the output.
	MinifyWhitespace bool

	// Verify checks the result for references to removed bindings and
	// reports them as errors. Enabled by default in Strip.
	Verify bool
}

// StripResult contains the transform output.
type StripResult struct {
	// Code is the transformed JavaScript source code.
	Code string

	// Errors contains any errors encountered during the transform.
	// If non-empty, Code is the unchanged input.
	Errors []string

	// OriginalSize is the size of the input in bytes.
	OriginalSize int

	// StrippedSize is the size of the output in bytes.
	StrippedSize int

	// Passes is the number of analyze/rewrite rounds the transform ran.
	Passes int

	// Removed is the number of declarations and bindings removed.
	Removed int
}

// Strip removes the named exports from source with default options.
// The name "default" removes the default export.
func Strip(source string, remove []string) StripResult {
	return StripWithOptions(source, remove, StripOptions{Verify: true})
}

// StripWithOptions removes the named exports from source with custom
// options.
func StripWithOptions(source string, remove []string, opts StripOptions) StripResult {
	s := stripper.New(stripper.Options{
		Targets:          remove,
		MinifyWhitespace: opts.MinifyWhitespace,
		Verify:           opts.Verify,
	})

	result := s.Strip(source)

	errors := make([]string, len(result.Errors))
	for i, e := range result.Errors {
		errors[i] = e.Message
	}

	return StripResult{
		Code:         result.Code,
		Errors:       errors,
		OriginalSize: result.Stats.OriginalSize,
		StrippedSize: result.Stats.StrippedSize,
		Passes:       result.Stats.Passes,
		Removed:      result.Stats.Removed,
	}
}

// StripJSON removes exports named by a JSON array, the plugin
// configuration format: `["default", "helper"]`.
func StripJSON(source string, removeJSON []byte) StripResult {
	targets, err := config.DecodeTargets(removeJSON)
	if err != nil {
		return StripResult{
			Code:         source,
			Errors:       []string{err.Error()},
			OriginalSize: len(source),
			StrippedSize: len(source),
		}
	}
	return Strip(source, targets)
}

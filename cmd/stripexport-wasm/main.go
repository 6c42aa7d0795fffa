//go:build js && wasm

// Command stripexport-wasm is the WebAssembly build of the export
// remover. It exposes the transform to JavaScript via syscall/js.
package main

import (
	"syscall/js"

	"github.com/modfall/stripexport/internal/config"
	"github.com/modfall/stripexport/internal/stripper"
)

var version = "0.1.0"

func main() {
	// Export functions to JavaScript
	js.Global().Set("__stripexport", js.ValueOf(map[string]interface{}{
		"strip":   js.FuncOf(stripJS),
		"version": version,
	}))

	// Keep the Go runtime alive
	select {}
}

// stripJS is the JavaScript-callable strip function.
// Signature: __stripexport.strip(source: string, remove: string[] | string, options?: object) => object
func stripJS(this js.Value, args []js.Value) interface{} {
	if len(args) < 2 {
		return makeError("strip requires 2 arguments (source, remove)")
	}

	source := args[0].String()

	targets, err := parseTargets(args[1])
	if err != "" {
		return makeError(err)
	}

	opts := stripper.Options{Verify: true}
	if len(args) > 2 && !args[2].IsUndefined() && !args[2].IsNull() {
		jsOpts := args[2]
		if v := jsOpts.Get("minifyWhitespace"); !v.IsUndefined() {
			opts.MinifyWhitespace = v.Bool()
		}
		if v := jsOpts.Get("verify"); !v.IsUndefined() {
			opts.Verify = v.Bool()
		}
	}
	opts.Targets = targets

	s := stripper.New(opts)
	result := s.Strip(source)

	errors := make([]interface{}, len(result.Errors))
	for i, e := range result.Errors {
		errors[i] = map[string]interface{}{
			"message": e.Message,
			"line":    e.Line,
			"column":  e.Column,
		}
	}

	return map[string]interface{}{
		"code":         result.Code,
		"errors":       errors,
		"originalSize": result.Stats.OriginalSize,
		"strippedSize": result.Stats.StrippedSize,
		"passes":       result.Stats.Passes,
		"removed":      result.Stats.Removed,
	}
}

// parseTargets accepts a JS array of names or a JSON string in the
// plugin configuration format.
func parseTargets(v js.Value) ([]string, string) {
	switch v.Type() {
	case js.TypeString:
		targets, err := config.DecodeTargets([]byte(v.String()))
		if err != nil {
			return nil, err.Error()
		}
		return targets, ""
	case js.TypeObject:
		length := v.Get("length").Int()
		targets := make([]string, length)
		for i := 0; i < length; i++ {
			targets[i] = v.Index(i).String()
		}
		return targets, ""
	default:
		return nil, "remove must be an array of names or a JSON string"
	}
}

// makeError creates a result object with an error.
func makeError(msg string) interface{} {
	return map[string]interface{}{
		"code": "",
		"errors": []interface{}{
			map[string]interface{}{
				"message": msg,
				"line":    0,
				"column":  0,
			},
		},
		"originalSize": 0,
		"strippedSize": 0,
	}
}

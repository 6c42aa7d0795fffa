package api

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStrip(t *testing.T) {
	source := `function helper() { return 1; }
export function removed() { return helper(); }
export function kept() { return 2; }`

	result := Strip(source, []string{"removed"})

	require.Empty(t, result.Errors)
	assert.NotContains(t, result.Code, "removed")
	assert.NotContains(t, result.Code, "helper")
	assert.Contains(t, result.Code, "export function kept()")
	assert.Equal(t, len(source), result.OriginalSize)
	assert.Equal(t, len(result.Code), result.StrippedSize)
	assert.Greater(t, result.Removed, 0)
}

func TestStrip_DefaultExport(t *testing.T) {
	source := `export default function main() { return 1; }`

	result := Strip(source, []string{"default"})

	require.Empty(t, result.Errors)
	assert.Contains(t, result.Code, "export default function")
	assert.NotContains(t, result.Code, "main")
}

func TestStrip_ParseError(t *testing.T) {
	source := `export function (( {`

	result := Strip(source, []string{"x"})

	require.NotEmpty(t, result.Errors)
	assert.Equal(t, source, result.Code)
}

func TestStripWithOptions_Minify(t *testing.T) {
	result := StripWithOptions(`const x = 1;`, nil, StripOptions{MinifyWhitespace: true})

	require.Empty(t, result.Errors)
	assert.Equal(t, "const x=1;", result.Code)
}

func TestStripJSON(t *testing.T) {
	source := `export function a() { return 1; }
export function b() { return 2; }`

	result := StripJSON(source, []byte(`["a"]`))

	require.Empty(t, result.Errors)
	assert.NotContains(t, result.Code, "function a()")
	assert.Contains(t, result.Code, "export function b()")
}

func TestStripJSON_BadConfig(t *testing.T) {
	source := `export function a() { return 1; }`

	for _, blob := range [][]byte{nil, []byte(`{}`), []byte(`garbage`)} {
		result := StripJSON(source, blob)
		require.NotEmpty(t, result.Errors, "blob %q should fail", blob)
		assert.Equal(t, source, result.Code, "input must pass through on config errors")
	}
}

func TestStrip_Idempotent(t *testing.T) {
	source := `import { u } from "./u";
function helper() { return u; }
export function removed() { return helper(); }
export function kept() { return 1; }`

	first := Strip(source, []string{"removed"})
	require.Empty(t, first.Errors)
	second := Strip(first.Code, []string{"removed"})
	require.Empty(t, second.Errors)

	assert.Equal(t, first.Code, second.Code)
}

func TestStrip_VerifyCatchesNothingOnCleanInput(t *testing.T) {
	source := strings.TrimSpace(`
export function keep(list) {
    for (const v of list) {
        console.log(v);
    }
    return list.length;
}
export function removed() { return 1; }
`)

	result := Strip(source, []string{"removed"})
	require.Empty(t, result.Errors)
	assert.Contains(t, result.Code, "for (const v of list)")
}

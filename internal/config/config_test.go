package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
)

// ----------------------------------------------------------------------------
// DecodeTargets
// ----------------------------------------------------------------------------

func TestDecodeTargets_Valid(t *testing.T) {
	targets, err := DecodeTargets([]byte(`["default", "helper"]`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(targets) != 2 || targets[0] != "default" || targets[1] != "helper" {
		t.Errorf("targets = %v", targets)
	}
}

func TestDecodeTargets_EmptyList(t *testing.T) {
	targets, err := DecodeTargets([]byte(`[]`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(targets) != 0 {
		t.Errorf("targets = %v", targets)
	}
}

func TestDecodeTargets_Missing(t *testing.T) {
	if _, err := DecodeTargets(nil); err == nil {
		t.Error("expected error for missing configuration")
	}
}

func TestDecodeTargets_Malformed(t *testing.T) {
	for _, blob := range []string{`{"a": 1}`, `"x"`, `[1, 2]`, `not json`} {
		if _, err := DecodeTargets([]byte(blob)); err == nil {
			t.Errorf("expected error for %q", blob)
		}
	}
}

// ----------------------------------------------------------------------------
// Load
// ----------------------------------------------------------------------------

func newFlags() *pflag.FlagSet {
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	fs.StringSlice("remove", nil, "")
	fs.String("output", "", "")
	fs.Bool("minify", false, "")
	fs.Bool("verify", true, "")
	fs.Bool("stats", false, "")
	fs.Bool("watch", false, "")
	return fs
}

func TestLoad_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load("", newFlags())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(cfg.Remove) != 0 {
		t.Errorf("remove = %v, want empty", cfg.Remove)
	}
	if cfg.Minify {
		t.Error("minify should default to false")
	}
	if !cfg.Verify {
		t.Error("verify should default to true")
	}
}

func TestLoad_FromFile(t *testing.T) {
	dir := t.TempDir()
	content := "remove:\n  - default\n  - helper\nminify: true\n"
	if err := os.WriteFile(filepath.Join(dir, "stripexport.yaml"), []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	t.Chdir(dir)

	cfg, err := Load("", newFlags())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(cfg.Remove) != 2 || cfg.Remove[0] != "default" {
		t.Errorf("remove = %v", cfg.Remove)
	}
	if !cfg.Minify {
		t.Error("minify should come from the file")
	}
}

func TestLoad_FileFoundUpward(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "stripexport.yml"), []byte("minify: true\n"), 0644); err != nil {
		t.Fatal(err)
	}
	nested := filepath.Join(dir, "src", "components")
	if err := os.MkdirAll(nested, 0755); err != nil {
		t.Fatal(err)
	}
	t.Chdir(nested)

	cfg, err := Load("", newFlags())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !cfg.Minify {
		t.Error("config file in an ancestor directory should be found")
	}
}

func TestLoad_ExplicitFileMissing(t *testing.T) {
	t.Chdir(t.TempDir())

	if _, err := Load("no-such-file.yaml", newFlags()); err == nil {
		t.Error("expected error for missing explicit config file")
	}
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "stripexport.yaml"), []byte("minify: false\n"), 0644); err != nil {
		t.Fatal(err)
	}
	t.Chdir(dir)
	t.Setenv("STRIPEXPORT_MINIFY", "true")

	cfg, err := Load("", newFlags())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !cfg.Minify {
		t.Error("env var should override the config file")
	}
}

func TestLoad_FlagsOverrideEverything(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "stripexport.yaml"), []byte("remove:\n  - fromFile\n"), 0644); err != nil {
		t.Fatal(err)
	}
	t.Chdir(dir)

	fs := newFlags()
	if err := fs.Parse([]string{"--remove", "fromFlag", "--minify"}); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load("", fs)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(cfg.Remove) != 1 || cfg.Remove[0] != "fromFlag" {
		t.Errorf("remove = %v, want [fromFlag]", cfg.Remove)
	}
	if !cfg.Minify {
		t.Error("minify flag should apply")
	}
}

func TestLoad_UnchangedFlagsDoNotOverride(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "stripexport.yaml"), []byte("minify: true\n"), 0644); err != nil {
		t.Fatal(err)
	}
	t.Chdir(dir)

	// minify flag exists with default false but was never set.
	cfg, err := Load("", newFlags())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !cfg.Minify {
		t.Error("an unset flag must not override the config file")
	}
}

// Package config holds the transform configuration and its loading rules.
//
// Two entry points exist. DecodeTargets parses the bare serialized target
// list a host compiler hands the transform. Load builds the full CLI
// configuration by merging, lowest to highest precedence: built-in defaults,
// a stripexport.yaml project file, STRIPEXPORT_* environment variables, and
// explicitly set command-line flags.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"
)

// maxUpwardSearchLevels limits how far up the directory tree to search for
// config files.
const maxUpwardSearchLevels = 10

// Config is the resolved configuration of one stripexport run.
type Config struct {
	// Remove lists the export names to strip. "default" targets the
	// default export.
	Remove []string `koanf:"remove"`

	// Minify strips unnecessary whitespace from the output.
	Minify bool `koanf:"minify"`

	// Verify checks the output for dangling references after stripping.
	Verify bool `koanf:"verify"`

	// Output is the destination path; empty means stdout.
	Output string `koanf:"output"`

	// Stats prints a per-file summary table after processing.
	Stats bool `koanf:"stats"`

	// Watch re-runs the transform when an input file changes.
	Watch bool `koanf:"watch"`
}

// DecodeTargets parses the serialized removal target list: a JSON array of
// export names. A missing or malformed blob is a hard error; there is no
// degraded mode.
func DecodeTargets(blob []byte) ([]string, error) {
	if len(blob) == 0 {
		return nil, fmt.Errorf("missing removal target configuration")
	}
	var targets []string
	if err := json.Unmarshal(blob, &targets); err != nil {
		return nil, fmt.Errorf("invalid removal target configuration: %w", err)
	}
	return targets, nil
}

// ----------------------------------------------------------------------------
// File Discovery
// ----------------------------------------------------------------------------

// configExistsIn checks if a stripexport config file exists in the directory.
func configExistsIn(dir string) string {
	for _, name := range []string{"stripexport.yaml", "stripexport.yml"} {
		candidate := filepath.Join(dir, name)
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
	}
	return ""
}

// findConfigFile returns the config file to use: the explicit path when
// given, otherwise the nearest stripexport.yaml walking upward from the
// working directory.
func findConfigFile(explicit string) string {
	if explicit != "" {
		return explicit
	}
	dir, err := os.Getwd()
	if err != nil {
		return ""
	}
	for i := 0; i < maxUpwardSearchLevels; i++ {
		if found := configExistsIn(dir); found != "" {
			return found
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return ""
}

// ----------------------------------------------------------------------------
// Loading
// ----------------------------------------------------------------------------

// Load merges configuration from defaults, config file, environment and
// flags. Precedence (highest to lowest): flags > env vars > config file >
// defaults.
func Load(cfgFile string, flags *pflag.FlagSet) (*Config, error) {
	k := koanf.New(".")

	// 1. Defaults
	if err := k.Load(confmap.Provider(map[string]interface{}{
		"remove": []string{},
		"minify": false,
		"verify": true,
		"output": "",
		"stats":  false,
		"watch":  false,
	}, "."), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// 2. Config file
	if used := findConfigFile(cfgFile); used != "" {
		if err := k.Load(file.Provider(used), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("error reading config file %s: %w", used, err)
		}
	}

	// 3. Environment variables: STRIPEXPORT_REMOVE -> remove
	if err := k.Load(env.Provider("STRIPEXPORT_", ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, "STRIPEXPORT_"))
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load env vars: %w", err)
	}

	// 4. Flags, only the ones explicitly set
	if flags != nil {
		if err := k.Load(posflag.ProviderWithFlag(flags, ".", k, func(f *pflag.Flag) (string, interface{}) {
			if !f.Changed {
				return "", nil
			}
			return f.Name, posflag.FlagVal(flags, f)
		}), nil); err != nil {
			return nil, fmt.Errorf("failed to load flags: %w", err)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return &cfg, nil
}

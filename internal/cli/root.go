// Package cli provides the command-line interface for stripexport.
package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/modfall/stripexport/internal/config"
	"github.com/modfall/stripexport/internal/stripper"
	"github.com/modfall/stripexport/internal/watcher"
)

// Version information (set at build time).
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
)

// NewRootCmd creates and returns the root command.
func NewRootCmd() *cobra.Command {
	var (
		cfgFile string
		verbose bool
		cfg     *config.Config
	)

	rootCmd := &cobra.Command{
		Use:   "stripexport [files...]",
		Short: "stripexport - remove exports from JavaScript modules",
		Long: `stripexport removes selected exports from JavaScript modules, along
with every declaration, import, and binding that only those exports use.

Reads from stdin when no files are given.`,
		Version: Version,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Name() == "help" || cmd.Name() == "completion" || cmd.Name() == "__complete" {
				return nil
			}
			var err error
			cfg, err = config.Load(cfgFile, cmd.Root().PersistentFlags())
			return err
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStrip(cmd, cfg, args, verbose)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.SetVersionTemplate(fmt.Sprintf("{{.Name}} {{.Version}} (commit %s)\n", GitCommit))

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ./stripexport.yaml)")
	rootCmd.PersistentFlags().StringSlice("remove", nil, "Exported names to remove (use \"default\" for the default export)")
	rootCmd.PersistentFlags().StringP("output", "o", "", "Output file, or directory for multiple inputs (default: stdout)")
	rootCmd.PersistentFlags().Bool("minify", false, "Drop indentation and newlines from output")
	rootCmd.PersistentFlags().Bool("verify", true, "Check the result for dangling references")
	rootCmd.PersistentFlags().Bool("stats", false, "Print a per-file summary table to stderr")
	rootCmd.PersistentFlags().Bool("watch", false, "Rerun when input files change")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose output")

	return rootCmd
}

// fileResult pairs an input path with its transform outcome for the
// stats table.
type fileResult struct {
	path   string
	result stripper.Result
}

func runStrip(cmd *cobra.Command, cfg *config.Config, args []string, verbose bool) error {
	logger := newLogger(cmd.ErrOrStderr(), verbose)

	if len(cfg.Remove) == 0 {
		return fmt.Errorf("no exports to remove: pass --remove or set remove in stripexport.yaml")
	}

	s := stripper.New(stripper.Options{
		Targets:          cfg.Remove,
		MinifyWhitespace: cfg.Minify,
		Verify:           cfg.Verify,
		Logger:           logger,
	})

	// Stdin mode
	if len(args) == 0 {
		source, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return fmt.Errorf("reading stdin: %w", err)
		}
		result := s.Strip(string(source))
		if err := reportErrors(cmd.ErrOrStderr(), "<stdin>", result); err != nil {
			return err
		}
		if err := writeOutput(cmd, cfg.Output, "", len(args), result.Code); err != nil {
			return err
		}
		if cfg.Stats {
			printStats(cmd.ErrOrStderr(), []fileResult{{path: "<stdin>", result: result}})
		}
		return nil
	}

	stripAll := func() error {
		results, err := stripFiles(cmd, s, cfg, args)
		if err != nil {
			return err
		}
		if cfg.Stats {
			printStats(cmd.ErrOrStderr(), results)
		}
		return nil
	}

	if err := stripAll(); err != nil && !cfg.Watch {
		return err
	} else if err != nil {
		// In watch mode a failing first pass is reported, not fatal.
		fmt.Fprintf(cmd.ErrOrStderr(), "error: %v\n", err)
	}

	if !cfg.Watch {
		return nil
	}

	w := watcher.New(args, logger)
	err := w.Run(cmd.Context(), func(path string) {
		if err := stripAll(); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "error: %v\n", err)
		}
	})
	if err == context.Canceled {
		return nil
	}
	return err
}

// stripFiles transforms every input concurrently and writes each result
// as soon as it is ready.
func stripFiles(cmd *cobra.Command, s *stripper.Stripper, cfg *config.Config, paths []string) ([]fileResult, error) {
	results := make([]fileResult, len(paths))

	g, _ := errgroup.WithContext(cmd.Context())
	g.SetLimit(4)

	var outMu sync.Mutex
	for i, path := range paths {
		g.Go(func() error {
			source, err := os.ReadFile(path)
			if err != nil {
				return fmt.Errorf("reading %s: %w", path, err)
			}
			result := s.Strip(string(source))
			results[i] = fileResult{path: path, result: result}

			outMu.Lock()
			defer outMu.Unlock()
			if err := reportErrors(cmd.ErrOrStderr(), path, result); err != nil {
				return err
			}
			return writeOutput(cmd, cfg.Output, path, len(paths), result.Code)
		})
	}
	if err := g.Wait(); err != nil {
		return results, err
	}
	return results, nil
}

func reportErrors(w io.Writer, path string, result stripper.Result) error {
	for _, e := range result.Errors {
		if e.Line > 0 {
			fmt.Fprintf(w, "%s:%d:%d: %s\n", path, e.Line, e.Column, e.Message)
		} else {
			fmt.Fprintf(w, "%s: %s\n", path, e.Message)
		}
	}
	if len(result.Errors) > 0 {
		return fmt.Errorf("%s: transform failed with %d error(s)", path, len(result.Errors))
	}
	return nil
}

// writeOutput routes one result to stdout, the output file, or a file
// under the output directory when several inputs are given.
func writeOutput(cmd *cobra.Command, output, inputPath string, inputCount int, code string) error {
	if output == "" {
		_, err := io.WriteString(cmd.OutOrStdout(), code)
		return err
	}

	target := output
	if inputCount > 1 {
		if err := os.MkdirAll(output, 0755); err != nil {
			return fmt.Errorf("creating output directory: %w", err)
		}
		target = filepath.Join(output, filepath.Base(inputPath))
	}
	if err := os.WriteFile(target, []byte(code), 0644); err != nil {
		return fmt.Errorf("writing output: %w", err)
	}
	return nil
}

func printStats(w io.Writer, results []fileResult) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"File", "Original", "Stripped", "Passes", "Removed"})
	for _, r := range results {
		t.AppendRow(table.Row{
			r.path,
			r.result.Stats.OriginalSize,
			r.result.Stats.StrippedSize,
			r.result.Stats.Passes,
			r.result.Stats.Removed,
		})
	}
	t.Render()
}

func newLogger(w io.Writer, verbose bool) *slog.Logger {
	if !verbose {
		return slog.New(slog.DiscardHandler)
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))
}

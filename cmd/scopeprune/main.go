// Command scopeprune loads a fixture reactive function from a source
// file, runs the non-escaping scope pruner over it, and prints the
// memoized set and per-scope decisions as YAML.
package main

import (
	"context"
	"fmt"
	"os"

	charmlog "github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"github.com/viant/afs"
	"golang.org/x/tools/imports"
	"gopkg.in/yaml.v3"

	"github.com/viant/reactprune/hir"
	"github.com/viant/reactprune/hir/fixture"
	"github.com/viant/reactprune/hir/jsxscan"
	"github.com/viant/reactprune/memo"
	"github.com/viant/reactprune/prune"
)

type runOptions struct {
	location   string
	modulePath string
	memoizeJsx bool
	dryRun     bool
	verbose    bool
	dumpGo     bool
}

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	opts := &runOptions{}

	cmd := &cobra.Command{
		Use:   "scopeprune",
		Short: "Run the non-escaping scope pruner over a fixture function",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), opts)
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&opts.location, "file", "f", "", "source URL to load (file://, s3://, ...)")
	flags.StringVar(&opts.modulePath, "module", "github.com/viant/reactprune/fixture", "synthetic module path for the parsed fixture")
	flags.BoolVar(&opts.memoizeJsx, "memoize-jsx", false, "force JSX elements to memoization level Memoized")
	flags.BoolVar(&opts.dryRun, "dry-run", false, "report decisions without mutating the function")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "enable debug-level trace logging")
	flags.BoolVar(&opts.dumpGo, "dump-go", false, "also print the pruned function as import-sorted pseudo-Go")
	_ = cmd.MarkFlagRequired("file")

	return cmd
}

func run(ctx context.Context, opts *runOptions) error {
	service := afs.New()
	src, err := service.DownloadWithURL(ctx, opts.location)
	if err != nil {
		return fmt.Errorf("scopeprune: download %s: %w", opts.location, err)
	}

	jsxElements, err := jsxscan.ElementNames(src)
	if err != nil {
		return fmt.Errorf("scopeprune: scan JSX elements: %w", err)
	}

	parsed, err := fixture.Parse(opts.modulePath, src)
	if err != nil {
		return err
	}

	if opts.verbose {
		charmlog.SetLevel(charmlog.DebugLevel)
	}
	logger := prune.NewCharmLogger()

	options := memo.Options{MemoizeJsxElements: opts.memoizeJsx, DryRun: opts.dryRun}

	diagnostics, err := prune.Run(parsed.Fn, options, logger)
	if err != nil {
		if perr, ok := err.(*prune.Error); ok {
			fmt.Fprintln(os.Stderr, perr.Stack())
		}
		return err
	}

	if opts.dumpGo {
		if err := dumpPseudoGo(parsed); err != nil {
			return err
		}
	}

	return printDiagnostics(diagnostics, parsed, jsxElements)
}

// dumpPseudoGo renders the pruned function's top-level instructions and
// return as a pseudo-Go function body for human inspection (statements
// inside a kept scope or a nested block are not rendered), running it through
// golang.org/x/tools/imports for import sorting and gofmt-equivalent
// formatting (there are no imports to sort yet, but the same pass also
// normalizes spacing the way a real generated-code pretty-printer
// would).
func dumpPseudoGo(parsed *fixture.Function) error {
	var body string
	body += "package fixture\n\nfunc Pruned() {\n"
	for _, stmt := range parsed.Fn.Body {
		switch {
		case stmt.Instruction != nil:
			body += fmt.Sprintf("\t_ = %q // %s\n", labelOf(parsed, instructionLvalueOrZero(stmt.Instruction)), stmt.Instruction.Value.Kind)
		case stmt.Return != nil:
			body += "\treturn\n"
		}
	}
	body += "}\n"

	formatted, err := imports.Process("pruned.go", []byte(body), nil)
	if err != nil {
		return fmt.Errorf("scopeprune: format pseudo-Go: %w", err)
	}
	_, err = os.Stdout.Write(formatted)
	return err
}

func instructionLvalueOrZero(instr *hir.Instruction) hir.IdentifierId {
	if instr.Lvalue == nil {
		return 0
	}
	return instr.Lvalue.Identifier
}

type diagnosticsReport struct {
	Memoized    []string       `yaml:"memoized"`
	Scopes      []scopeReport  `yaml:"scopes"`
	Forced      []forcedReport `yaml:"forced_dependencies"`
	JsxElements []string       `yaml:"jsx_elements,omitempty"`
}

type scopeReport struct {
	Scope string `yaml:"scope"`
	Kept  bool   `yaml:"kept"`
}

type forcedReport struct {
	Scope      string `yaml:"scope"`
	Identifier string `yaml:"identifier"`
}

func printDiagnostics(d *prune.Diagnostics, parsed *fixture.Function, jsxElements []string) error {
	report := diagnosticsReport{JsxElements: jsxElements}
	for id := range d.Memoized {
		report.Memoized = append(report.Memoized, labelOf(parsed, id))
	}
	for _, s := range d.Scopes {
		report.Scopes = append(report.Scopes, scopeReport{Scope: s.ScopeId.String(), Kept: s.Kept})
	}
	for _, f := range d.ForcedScopes {
		report.Forced = append(report.Forced, forcedReport{Scope: f.ScopeId.String(), Identifier: labelOf(parsed, f.Identifier)})
	}

	out, err := yaml.Marshal(report)
	if err != nil {
		return fmt.Errorf("scopeprune: marshal diagnostics: %w", err)
	}
	_, err = os.Stdout.Write(out)
	return err
}

// labelOf prefers the fixture's source-level name/synthetic label for
// an identifier, falling back to its opaque handle string.
func labelOf(parsed *fixture.Function, id hir.IdentifierId) string {
	if label, ok := parsed.Labels[id]; ok {
		return label
	}
	return id.String()
}

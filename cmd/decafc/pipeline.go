package main

import (
	"fmt"
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/decaflang/decafc/ast"
	"github.com/decaflang/decafc/codegen"
	"github.com/decaflang/decafc/config"
	"github.com/decaflang/decafc/diag"
	"github.com/decaflang/decafc/lexer"
	"github.com/decaflang/decafc/llir"
	"github.com/decaflang/decafc/lower"
	"github.com/decaflang/decafc/optimize"
	"github.com/decaflang/decafc/parser"
	"github.com/decaflang/decafc/semcheck"
)

// runCompile drives the scan/parse/inter/assembly pipeline of spec.md §6.1,
// applying .decafc.yaml defaults beneath explicit flags (SPEC_FULL.md §6),
// and halting between stages on the first failed diag.Collector per
// spec.md §7's propagation rule.
func runCompile(cmd *cobra.Command, inputPath string) error {
	applyConfigDefaults(cmd)
	logger := newLogger()
	defer logger.Sync() //nolint:errcheck

	source, err := os.ReadFile(inputPath)
	if err != nil {
		return errors.Wrapf(err, "reading %s", inputPath)
	}

	out := os.Stdout
	if opts.output != "" {
		f, err := os.Create(opts.output)
		if err != nil {
			return errors.Wrapf(err, "creating %s", opts.output)
		}
		defer f.Close()
		out = f
	}

	target := string(opts.target)
	if target == "" {
		target = "assembly"
	}

	diags := diag.New()
	logger.Debug("scanning", zap.String("file", inputPath))
	toks, ok := lexer.New(inputPath, string(source), diags).Tokenize()
	if target == "scan" {
		printTokens(out, toks)
		return finish(diags)
	}
	if !ok {
		return finish(diags)
	}

	logger.Debug("parsing", zap.Int("tokens", len(toks)))
	prog, ok := parser.New(toks, diags).Parse()
	if target == "parse" || !ok {
		return finish(diags)
	}

	if !semcheck.Check(prog, diags) {
		return finish(diags)
	}

	llirProg, err := lowerProgram(prog, diags)
	if err != nil {
		return err
	}
	if diags.Failed() {
		return finish(diags)
	}

	passes, err := optimize.ParsePasses(opts.optimizations)
	if err != nil {
		return errors.WithStack(err)
	}
	logger.Debug("optimizing", zap.Any("passes", passes))
	optimize.Apply(llirProg, passes)

	if target == "inter" || opts.debug {
		llir.Fprint(out, llirProg)
		return nil
	}

	logger.Debug("emitting assembly")
	fmt.Fprint(out, codegen.Emit(llirProg))
	return nil
}

// lowerProgram recovers from lower's internal-invariant panics (spec.md §7's
// "internal errors" category — an unknown AST kind reaching lowering is a
// compiler bug, not a user diagnostic) and reports them through the normal
// pkg/errors-wrapped atExit path instead of crashing with a bare stack
// trace, the one place this CLI imports pkg/errors for a path lower itself
// only ever panics on (see DESIGN.md's C7 entry).
func lowerProgram(prog *ast.Program, diags *diag.Collector) (llirProg *llir.Program, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = errors.Errorf("internal compiler error during lowering: %v", r)
		}
	}()
	llirProg = lower.New(diags).Lower(prog)
	return llirProg, nil
}

// finish prints accumulated diagnostics to stderr and returns a non-nil
// error (so main exits non-zero) iff the collector recorded any failure.
func finish(diags *diag.Collector) error {
	if !diags.Failed() {
		return nil
	}
	diags.Fprint(os.Stderr)
	return errSilentFailure
}

// errSilentFailure signals "diagnostics already printed, just exit
// non-zero" up through cobra without atExit re-printing them.
var errSilentFailure = errors.New("compilation failed")

// applyConfigDefaults loads .decafc.yaml (if present) and fills any flag the
// user did not explicitly set (SPEC_FULL.md §6: flags always win).
func applyConfigDefaults(cmd *cobra.Command) {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return
	}
	flags := cmd.Flags()
	if !flags.Changed("target") && cfg.Target != "" {
		opts.target.Set(cfg.Target) //nolint:errcheck
	}
	if !flags.Changed("optimizations") && cfg.Optimizations != "" {
		opts.optimizations = cfg.Optimizations
	}
	if !flags.Changed("debug") && cfg.Debug {
		opts.debug = cfg.Debug
	}
}

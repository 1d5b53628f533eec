package optimize

import (
	"fmt"
	"strings"

	"github.com/decaflang/decafc/llir"
)

// Pass names one of the three rewrite passes, using the token vocabulary of
// the -O/--optimizations flag (spec.md §6.1).
type Pass string

const (
	ConstantFoldPass        Pass = "cse"
	CopyPropagationPass     Pass = "cp"
	DeadCodeEliminationPass Pass = "dce"
)

// order is the fixed application order (spec.md §4.5): constant folding,
// then copy propagation, and dead code elimination runs last so it sees
// whatever either earlier pass made dead.
var order = []Pass{ConstantFoldPass, CopyPropagationPass, DeadCodeEliminationPass}

// ParsePasses parses the -O/--optimizations flag: a comma-separated list of
// cse/cp/dce/all, each optionally prefixed "-" to disable. An empty spec
// means every pass runs. Grounded on
// original_source/src/optimizations/optimizations.c's bitmask flag, widened
// from a fixed bitmask to an ordered list since the original's flag parsing
// lived in its CLI layer, not optimizations.c itself.
func ParsePasses(spec string) ([]Pass, error) {
	enabled := map[Pass]bool{}
	if strings.TrimSpace(spec) == "" {
		for _, p := range order {
			enabled[p] = true
		}
	} else {
		for _, tok := range strings.Split(spec, ",") {
			tok = strings.TrimSpace(tok)
			if tok == "" {
				continue
			}
			disable := strings.HasPrefix(tok, "-")
			name := Pass(strings.TrimPrefix(tok, "-"))
			switch name {
			case "all":
				for _, p := range order {
					enabled[p] = !disable
				}
			case ConstantFoldPass, CopyPropagationPass, DeadCodeEliminationPass:
				enabled[name] = !disable
			default:
				return nil, fmt.Errorf("optimize: unknown pass %q", name)
			}
		}
	}

	var passes []Pass
	for _, p := range order {
		if enabled[p] {
			passes = append(passes, p)
		}
	}
	return passes, nil
}

// Apply runs each of passes over prog, in the fixed order regardless of the
// order the caller named them in.
func Apply(prog *llir.Program, passes []Pass) {
	enabled := map[Pass]bool{}
	for _, p := range passes {
		enabled[p] = true
	}
	for _, p := range order {
		if !enabled[p] {
			continue
		}
		switch p {
		case ConstantFoldPass:
			ConstantFold(prog)
		case CopyPropagationPass:
			CopyPropagate(prog)
		case DeadCodeEliminationPass:
			DeadCodeEliminate(prog)
		}
	}
}

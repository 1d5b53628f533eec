// Package optimize implements the three independent LLIR rewrite passes of
// spec.md §4.5 — constant folding, copy propagation, dead code elimination —
// plus a configurable driver composing them for the `-O/--optimizations`
// flag. Constant folding and copy propagation are each a single walk over
// every method's blocks, and dead code elimination repeats its walk until
// the live set stops growing; none require a prior CFG-analysis pass of
// their own, since every block
// already carries its predecessor list from lowering.
package optimize

import "github.com/decaflang/decafc/llir"

// globalFields returns the set of top-level field identifiers, the only
// operands constant folding and copy propagation are forbidden from touching
// (spec.md §4.5: a global may be mutated by a call between definition and
// use, so its reaching definition inside one method proves nothing).
func globalFields(prog *llir.Program) map[string]bool {
	globals := make(map[string]bool, len(prog.Fields))
	for _, f := range prog.Fields {
		globals[f.Identifier] = true
	}
	return globals
}

// blockIndex maps a method's blocks by their Index field. Blocks are
// referenced by index (jump targets, predecessor lists), not by slice
// position, so every cross-block lookup goes through this map.
func blockIndex(m *llir.Method) map[int]*llir.Block {
	idx := make(map[int]*llir.Block, len(m.Blocks))
	for _, b := range m.Blocks {
		idx[b.Index] = b
	}
	return idx
}

// findDefinitions walks backward from just before assignmentIndex in block
// looking for an assignment into identifier; if the scan reaches the top of
// the block without finding one, it recurses into every predecessor (guarded
// by a visited set, since loops and merges revisit blocks), collecting every
// definition found along every explored path and every destination mutated
// along the way. Grounded on
// original_source/src/optimizations/cf.c's find_definitions /
// find_definition_in_block (cp.c duplicates the identical walk; the mutated
// set it also collects is unused by constant folding but harmless to share).
func findDefinitions(blocks map[int]*llir.Block, block *llir.Block, assignmentIndex int, identifier string) (defs []*llir.Assignment, mutated map[string]bool) {
	visited := map[int]bool{}
	mutated = map[string]bool{}
	findDefinitionsIn(blocks, block, assignmentIndex-1, identifier, visited, &defs, mutated)
	return defs, mutated
}

func findDefinitionsIn(blocks map[int]*llir.Block, block *llir.Block, startIndex int, identifier string, visited map[int]bool, defs *[]*llir.Assignment, mutated map[string]bool) {
	for i := startIndex; i >= 0; i-- {
		a := block.Assignments[i]
		if a.Destination == identifier {
			*defs = append(*defs, a)
			return
		}
		mutated[a.Destination] = true
	}

	for _, predIndex := range block.Predecessors {
		if visited[predIndex] {
			continue
		}
		visited[predIndex] = true
		pred := blocks[predIndex]
		findDefinitionsIn(blocks, pred, len(pred.Assignments)-1, identifier, visited, defs, mutated)
	}
}

func boolInt(b bool) int64 {
	if b {
		return 1
	}
	return 0
}

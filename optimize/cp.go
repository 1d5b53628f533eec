package optimize

import "github.com/decaflang/decafc/llir"

// CopyPropagate implements spec.md §4.5.2: for every non-global field
// operand, walk reaching definitions; if every one is a MOVE from the same
// non-global field s, and s is not mutated on any path the walk explored
// between its definition and this use, replace the operand with s. Unlike
// constant folding this never changes an assignment's kind — it only
// renames operands, leaving later passes (or a second copy-propagation run)
// to notice any folding opportunity the rename exposes. Grounded on
// original_source/src/optimizations/cp.c, which duplicates cf.c's walk and
// per-kind dispatch wholesale with a different substitution test.
func CopyPropagate(prog *llir.Program) {
	globals := globalFields(prog)
	for _, m := range prog.Methods {
		if m.Imported {
			continue
		}
		blocks := blockIndex(m)
		for _, b := range m.Blocks {
			for i, a := range b.Assignments {
				cpOptimizeAssignment(globals, blocks, b, i, a)
			}
			cpOptimizeTerminal(globals, blocks, b)
		}
	}
}

func cpOptimizeOperand(globals map[string]bool, blocks map[int]*llir.Block, block *llir.Block, assignmentIndex int, op *llir.Operand) {
	if op.Kind != llir.OperandField || globals[op.Field] {
		return
	}
	defs, mutated := findDefinitions(blocks, block, assignmentIndex, op.Field)
	if field, ok := canPropagateCopy(globals, defs, mutated); ok {
		*op = llir.FieldOperand(field)
	}
}

func canPropagateCopy(globals map[string]bool, defs []*llir.Assignment, mutated map[string]bool) (string, bool) {
	if len(defs) == 0 {
		return "", false
	}
	var field string
	for i, d := range defs {
		if d.Kind != llir.Move || d.Src.Kind != llir.OperandField || globals[d.Src.Field] {
			return "", false
		}
		if i == 0 {
			field = d.Src.Field
		} else if d.Src.Field != field {
			return "", false
		}
	}
	if mutated[field] {
		return "", false
	}
	return field, true
}

func cpOptimizeAssignment(globals map[string]bool, blocks map[int]*llir.Block, block *llir.Block, idx int, a *llir.Assignment) {
	switch {
	case a.Kind.IsUnary():
		cpOptimizeOperand(globals, blocks, block, idx, &a.Src)
	case a.Kind.IsBinary():
		cpOptimizeOperand(globals, blocks, block, idx, &a.Left)
		cpOptimizeOperand(globals, blocks, block, idx, &a.Right)
	case a.Kind == llir.ArrayUpdate:
		cpOptimizeOperand(globals, blocks, block, idx, &a.Index)
		cpOptimizeOperand(globals, blocks, block, idx, &a.Value)
	case a.Kind == llir.ArrayAccess:
		cpOptimizeOperand(globals, blocks, block, idx, &a.Index)
	case a.Kind == llir.MethodCall:
		for i := range a.Arguments {
			cpOptimizeOperand(globals, blocks, block, idx, &a.Arguments[i])
		}
	}
}

func cpOptimizeTerminal(globals map[string]bool, blocks map[int]*llir.Block, block *llir.Block) {
	end := len(block.Assignments)
	switch block.Terminal.Kind {
	case llir.Branch:
		cpOptimizeOperand(globals, blocks, block, end, &block.Terminal.Left)
		cpOptimizeOperand(globals, blocks, block, end, &block.Terminal.Right)
	case llir.Return:
		if block.Terminal.HasValue {
			cpOptimizeOperand(globals, blocks, block, end, &block.Terminal.Value)
		}
	}
}

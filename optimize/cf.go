package optimize

import "github.com/decaflang/decafc/llir"

// ConstantFold implements spec.md §4.5.1: for every non-global field operand,
// walk reaching definitions; if every one is a MOVE from the same literal,
// replace the operand with that literal. An assignment whose operands are
// all literal after that substitution folds into a MOVE of the computed
// result — except division and modulo by a literal zero, left unfolded so
// the program still traps at runtime instead of folding away the trap.
// Grounded on original_source/src/optimizations/cf.c.
func ConstantFold(prog *llir.Program) {
	globals := globalFields(prog)
	for _, m := range prog.Methods {
		if m.Imported {
			continue
		}
		blocks := blockIndex(m)
		for _, b := range m.Blocks {
			for i, a := range b.Assignments {
				cfOptimizeAssignment(globals, blocks, b, i, a)
			}
			cfOptimizeTerminal(globals, blocks, b)
		}
	}
}

func cfOptimizeOperand(globals map[string]bool, blocks map[int]*llir.Block, block *llir.Block, assignmentIndex int, op *llir.Operand) {
	if op.Kind != llir.OperandField || globals[op.Field] {
		return
	}
	defs, _ := findDefinitions(blocks, block, assignmentIndex, op.Field)
	if v, ok := allDefinitionsAreConstant(defs); ok {
		*op = llir.LitOperand(v)
	}
}

func allDefinitionsAreConstant(defs []*llir.Assignment) (int64, bool) {
	if len(defs) == 0 {
		return 0, false
	}
	var value int64
	for i, d := range defs {
		if d.Kind != llir.Move || d.Src.Kind != llir.OperandLiteral {
			return 0, false
		}
		if i == 0 {
			value = d.Src.Literal
		} else if d.Src.Literal != value {
			return 0, false
		}
	}
	return value, true
}

func cfOptimizeAssignment(globals map[string]bool, blocks map[int]*llir.Block, block *llir.Block, idx int, a *llir.Assignment) {
	switch {
	case a.Kind.IsUnary():
		cfOptimizeOperand(globals, blocks, block, idx, &a.Src)
		if a.Kind != llir.Move && a.Src.Kind == llir.OperandLiteral {
			v := a.Src.Literal
			if a.Kind == llir.Not {
				v = boolInt(v == 0)
			} else {
				v = -v
			}
			a.Kind = llir.Move
			a.Src = llir.LitOperand(v)
		}
	case a.Kind.IsBinary():
		cfOptimizeOperand(globals, blocks, block, idx, &a.Left)
		cfOptimizeOperand(globals, blocks, block, idx, &a.Right)
		if a.Left.Kind == llir.OperandLiteral && a.Right.Kind == llir.OperandLiteral {
			if v, ok := foldBinary(a.Kind, a.Left.Literal, a.Right.Literal); ok {
				a.Kind = llir.Move
				a.Src = llir.LitOperand(v)
			}
		}
	case a.Kind == llir.ArrayUpdate:
		cfOptimizeOperand(globals, blocks, block, idx, &a.Index)
		cfOptimizeOperand(globals, blocks, block, idx, &a.Value)
	case a.Kind == llir.ArrayAccess:
		cfOptimizeOperand(globals, blocks, block, idx, &a.Index)
	case a.Kind == llir.MethodCall:
		for i := range a.Arguments {
			cfOptimizeOperand(globals, blocks, block, idx, &a.Arguments[i])
		}
	}
}

// cfOptimizeTerminal folds a block's BRANCH/RETURN operands using the
// reaching definitions at the end of the block (JUMP and EXIT carry nothing
// foldable — EXIT's code is always already a literal).
func cfOptimizeTerminal(globals map[string]bool, blocks map[int]*llir.Block, block *llir.Block) {
	end := len(block.Assignments)
	switch block.Terminal.Kind {
	case llir.Branch:
		cfOptimizeOperand(globals, blocks, block, end, &block.Terminal.Left)
		cfOptimizeOperand(globals, blocks, block, end, &block.Terminal.Right)
	case llir.Return:
		if block.Terminal.HasValue {
			cfOptimizeOperand(globals, blocks, block, end, &block.Terminal.Value)
		}
	}
}

// foldBinary computes a binary assignment's result once both operands are
// literal, using plain int64 arithmetic so overflow wraps two's-complement
// per spec.md §3.4. Division and modulo report !ok on a zero divisor so the
// caller leaves the assignment unfolded.
func foldBinary(kind llir.AssignKind, l, r int64) (int64, bool) {
	switch kind {
	case llir.Add:
		return l + r, true
	case llir.Sub:
		return l - r, true
	case llir.Mul:
		return l * r, true
	case llir.Div:
		if r == 0 {
			return 0, false
		}
		return l / r, true
	case llir.Mod:
		if r == 0 {
			return 0, false
		}
		return l % r, true
	case llir.Eq:
		return boolInt(l == r), true
	case llir.Ne:
		return boolInt(l != r), true
	case llir.Lt:
		return boolInt(l < r), true
	case llir.Le:
		return boolInt(l <= r), true
	case llir.Gt:
		return boolInt(l > r), true
	case llir.Ge:
		return boolInt(l >= r), true
	default:
		return 0, false
	}
}

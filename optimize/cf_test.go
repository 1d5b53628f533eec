package optimize_test

import (
	"testing"

	"github.com/decaflang/decafc/llir"
	"github.com/decaflang/decafc/optimize"
)

// singleBlockProgram builds a one-method, one-block program with assignments
// and a return terminal, enough surface for a reaching-definitions walk that
// never crosses a block boundary.
func singleBlockProgram(assignments []*llir.Assignment, ret llir.Operand) *llir.Program {
	block := &llir.Block{
		Index:       0,
		Assignments: assignments,
		Terminal:    &llir.Terminal{Kind: llir.Return, HasValue: true, Value: ret},
	}
	method := &llir.Method{Identifier: "f", Blocks: []*llir.Block{block}}
	return &llir.Program{Methods: []*llir.Method{method}}
}

func TestConstantFoldPropagatesLiteralThroughMove(t *testing.T) {
	prog := singleBlockProgram([]*llir.Assignment{
		{Kind: llir.Move, Destination: "t0", Src: llir.LitOperand(7)},
		{Kind: llir.Add, Destination: "t1", Left: llir.FieldOperand("t0"), Right: llir.LitOperand(3)},
	}, llir.FieldOperand("t1"))

	optimize.ConstantFold(prog)

	folded := prog.Methods[0].Blocks[0].Assignments[1]
	if folded.Kind != llir.Move || folded.Src.Kind != llir.OperandLiteral || folded.Src.Literal != 10 {
		t.Fatalf("got %+v, want a folded move of 10", folded)
	}
}

func TestConstantFoldLeavesDivisionByZeroUnfolded(t *testing.T) {
	prog := singleBlockProgram([]*llir.Assignment{
		{Kind: llir.Move, Destination: "t0", Src: llir.LitOperand(5)},
		{Kind: llir.Move, Destination: "t1", Src: llir.LitOperand(0)},
		{Kind: llir.Div, Destination: "t2", Left: llir.FieldOperand("t0"), Right: llir.FieldOperand("t1")},
	}, llir.FieldOperand("t2"))

	optimize.ConstantFold(prog)

	div := prog.Methods[0].Blocks[0].Assignments[2]
	if div.Kind != llir.Div {
		t.Fatalf("division by a literal zero should not be folded away, got %+v", div)
	}
	if div.Left.Kind != llir.OperandLiteral || div.Left.Literal != 5 {
		t.Fatalf("operands should still be constant-folded individually, got %+v", div.Left)
	}
}

func TestConstantFoldDoesNotTouchGlobals(t *testing.T) {
	block := &llir.Block{
		Index: 0,
		Assignments: []*llir.Assignment{
			{Kind: llir.Move, Destination: "g", Src: llir.LitOperand(1)},
			{Kind: llir.Add, Destination: "t0", Left: llir.FieldOperand("g"), Right: llir.LitOperand(1)},
		},
		Terminal: &llir.Terminal{Kind: llir.Return, HasValue: true, Value: llir.FieldOperand("t0")},
	}
	method := &llir.Method{Identifier: "f", Blocks: []*llir.Block{block}}
	prog := &llir.Program{Fields: []*llir.Field{{Identifier: "g", ValueCount: 1}}, Methods: []*llir.Method{method}}

	optimize.ConstantFold(prog)

	add := prog.Methods[0].Blocks[0].Assignments[1]
	if add.Kind != llir.Add || add.Left.Kind != llir.OperandField || add.Left.Field != "g" {
		t.Fatalf("global field operand should never be substituted, got %+v", add)
	}
}

func TestConstantFoldUnaryNegateAndNot(t *testing.T) {
	prog := singleBlockProgram([]*llir.Assignment{
		{Kind: llir.Move, Destination: "t0", Src: llir.LitOperand(4)},
		{Kind: llir.Negate, Destination: "t1", Src: llir.FieldOperand("t0")},
	}, llir.FieldOperand("t1"))

	optimize.ConstantFold(prog)

	negated := prog.Methods[0].Blocks[0].Assignments[1]
	if negated.Kind != llir.Move || negated.Src.Literal != -4 {
		t.Fatalf("got %+v, want a folded move of -4", negated)
	}
}

func TestConstantFoldDoesNotFoldWhenReachingDefinitionsDisagree(t *testing.T) {
	// t0 has two different reaching literal definitions across two
	// predecessor blocks, so it must not be folded to either one.
	pred1 := &llir.Block{Index: 0,
		Assignments: []*llir.Assignment{{Kind: llir.Move, Destination: "t0", Src: llir.LitOperand(1)}},
		Terminal:    &llir.Terminal{Kind: llir.Jump, Target: 2},
	}
	pred2 := &llir.Block{Index: 1,
		Assignments: []*llir.Assignment{{Kind: llir.Move, Destination: "t0", Src: llir.LitOperand(2)}},
		Terminal:    &llir.Terminal{Kind: llir.Jump, Target: 2},
	}
	merge := &llir.Block{Index: 2,
		Assignments:  []*llir.Assignment{{Kind: llir.Add, Destination: "t1", Left: llir.FieldOperand("t0"), Right: llir.LitOperand(1)}},
		Terminal:     &llir.Terminal{Kind: llir.Return, HasValue: true, Value: llir.FieldOperand("t1")},
		Predecessors: []int{0, 1},
	}
	method := &llir.Method{Identifier: "f", Blocks: []*llir.Block{pred1, pred2, merge}}
	prog := &llir.Program{Methods: []*llir.Method{method}}

	optimize.ConstantFold(prog)

	add := merge.Assignments[0]
	if add.Kind != llir.Add || add.Left.Kind != llir.OperandField {
		t.Fatalf("t0 has conflicting reaching definitions and must stay unfolded, got %+v", add)
	}
}

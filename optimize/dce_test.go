package optimize_test

import (
	"testing"

	"github.com/decaflang/decafc/llir"
	"github.com/decaflang/decafc/optimize"
)

func TestDeadCodeEliminateDropsUnusedTemp(t *testing.T) {
	prog := singleBlockProgram([]*llir.Assignment{
		{Kind: llir.Move, Destination: "t0", Src: llir.LitOperand(1)}, // dead: never read
		{Kind: llir.Move, Destination: "t1", Src: llir.LitOperand(2)},
	}, llir.FieldOperand("t1"))

	optimize.DeadCodeEliminate(prog)

	got := prog.Methods[0].Blocks[0].Assignments
	if len(got) != 1 || got[0].Destination != "t1" {
		t.Fatalf("got %+v, want only the t1 assignment to survive", got)
	}
}

func TestDeadCodeEliminateKeepsMethodCallUnconditionally(t *testing.T) {
	block := &llir.Block{
		Index: 0,
		Assignments: []*llir.Assignment{
			{Kind: llir.MethodCall, Destination: "t0", Callee: "sideEffect", Arguments: []llir.Operand{llir.LitOperand(1)}},
		},
		Terminal: &llir.Terminal{Kind: llir.Return},
	}
	method := &llir.Method{Identifier: "f", Blocks: []*llir.Block{block}}
	prog := &llir.Program{Methods: []*llir.Method{method}}

	optimize.DeadCodeEliminate(prog)

	if len(block.Assignments) != 1 {
		t.Fatalf("got %d assignments, want the call kept for its side effect", len(block.Assignments))
	}
}

func TestDeadCodeEliminateKeepsGlobalWrites(t *testing.T) {
	block := &llir.Block{
		Index:       0,
		Assignments: []*llir.Assignment{{Kind: llir.Move, Destination: "g", Src: llir.LitOperand(5)}},
		Terminal:    &llir.Terminal{Kind: llir.Return},
	}
	method := &llir.Method{Identifier: "f", Blocks: []*llir.Block{block}}
	prog := &llir.Program{Fields: []*llir.Field{{Identifier: "g", ValueCount: 1}}, Methods: []*llir.Method{method}}

	optimize.DeadCodeEliminate(prog)

	if len(block.Assignments) != 1 {
		t.Fatalf("a write to a global field must never be eliminated, got %+v", block.Assignments)
	}
}

func TestDeadCodeEliminateKeepsArrayFieldWritesConservatively(t *testing.T) {
	block := &llir.Block{
		Index:       0,
		Fields:      []*llir.Field{{Identifier: "arr", IsArray: true, ValueCount: 4}},
		Assignments: []*llir.Assignment{{Kind: llir.ArrayUpdate, Destination: "arr", Index: llir.LitOperand(0), Value: llir.LitOperand(7)}},
		Terminal:    &llir.Terminal{Kind: llir.Return},
	}
	method := &llir.Method{Identifier: "f", Blocks: []*llir.Block{block}}
	prog := &llir.Program{Methods: []*llir.Method{method}}

	optimize.DeadCodeEliminate(prog)

	if len(block.Assignments) != 1 {
		t.Fatalf("an array write must survive since any index could later be read, got %+v", block.Assignments)
	}
}

func TestDeadCodeEliminateTransitivelyKeepsChain(t *testing.T) {
	prog := singleBlockProgram([]*llir.Assignment{
		{Kind: llir.Move, Destination: "t0", Src: llir.LitOperand(1)},
		{Kind: llir.Add, Destination: "t1", Left: llir.FieldOperand("t0"), Right: llir.LitOperand(1)},
		{Kind: llir.Add, Destination: "t2", Left: llir.FieldOperand("t1"), Right: llir.LitOperand(1)},
	}, llir.FieldOperand("t2"))

	optimize.DeadCodeEliminate(prog)

	got := prog.Methods[0].Blocks[0].Assignments
	if len(got) != 3 {
		t.Fatalf("got %d assignments, want all 3 kept since t2 (the return value) transitively depends on each", len(got))
	}
}

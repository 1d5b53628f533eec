package codegen_test

import (
	"strings"
	"testing"

	"github.com/decaflang/decafc/codegen"
	"github.com/decaflang/decafc/llir"
)

func TestEmitGlobalDataSection(t *testing.T) {
	prog := &llir.Program{
		Fields: []*llir.Field{
			{Identifier: "total", ValueCount: 1},
			{Identifier: "vals", IsArray: true, ValueCount: 4},
		},
		Methods: []*llir.Method{{Identifier: "main", ReturnType: llir.Void, Blocks: []*llir.Block{{
			Terminal: &llir.Terminal{Kind: llir.Return},
		}}}},
	}
	out := codegen.Emit(prog)

	for _, want := range []string{".data", "total:", "\t.quad 0", "vals:", "\t.fill 32"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestEmitMethodPrologueAndEpilogue(t *testing.T) {
	prog := &llir.Program{Methods: []*llir.Method{{
		Identifier: "main", ReturnType: llir.Void,
		Blocks: []*llir.Block{{Terminal: &llir.Terminal{Kind: llir.Return}}},
	}}}
	out := codegen.Emit(prog)

	for _, want := range []string{".globl main", "main:", "pushq %rbp", "movq %rsp, %rbp", "leave", "ret"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestEmitArithmeticUsesScratchRegisters(t *testing.T) {
	prog := &llir.Program{Methods: []*llir.Method{{
		Identifier: "main", ReturnType: llir.Void,
		Blocks: []*llir.Block{{
			Assignments: []*llir.Assignment{
				{Kind: llir.Add, Destination: "t0", Left: llir.LitOperand(1), Right: llir.LitOperand(2)},
			},
			Terminal: &llir.Terminal{Kind: llir.Return},
		}},
	}}}
	out := codegen.Emit(prog)

	for _, want := range []string{"movq $1, %rax", "movq $2, %rcx", "addq %rcx, %rax"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestEmitDivModUsesCqtoIdivq(t *testing.T) {
	prog := &llir.Program{Methods: []*llir.Method{{
		Identifier: "main", ReturnType: llir.Void,
		Blocks: []*llir.Block{{
			Assignments: []*llir.Assignment{
				{Kind: llir.Mod, Destination: "t0", Left: llir.LitOperand(7), Right: llir.LitOperand(3)},
			},
			Terminal: &llir.Terminal{Kind: llir.Return},
		}},
	}}}
	out := codegen.Emit(prog)

	for _, want := range []string{"cqto", "idivq %rcx", "movq %rdx, "} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestEmitStringLiteralsDeduplicateInRodata(t *testing.T) {
	prog := &llir.Program{Methods: []*llir.Method{
		{Identifier: "printf", Imported: true},
		{Identifier: "main", ReturnType: llir.Void, Blocks: []*llir.Block{{
			Assignments: []*llir.Assignment{
				{Kind: llir.MethodCall, Destination: "t0", Callee: "printf", Arguments: []llir.Operand{llir.StringOperand("hi")}},
				{Kind: llir.MethodCall, Destination: "t1", Callee: "printf", Arguments: []llir.Operand{llir.StringOperand("hi")}},
			},
			Terminal: &llir.Terminal{Kind: llir.Return},
		}}},
	}}
	out := codegen.Emit(prog)

	if strings.Count(out, `.string "hi"`) != 1 {
		t.Fatalf("identical string literals should share one rodata entry:\n%s", out)
	}
	if !strings.Contains(out, "string_0:") {
		t.Errorf("output missing the string_0 label:\n%s", out)
	}
	if strings.Contains(out, "printf:") {
		t.Error("an imported method must not get its own label/body")
	}
}

func TestEmitBranchTerminalUsesUnsignedConditionForBoundsChecks(t *testing.T) {
	prog := &llir.Program{Methods: []*llir.Method{{
		Identifier: "main", ReturnType: llir.Void,
		Blocks: []*llir.Block{
			{Index: 0, Terminal: &llir.Terminal{
				Kind: llir.Branch, BranchKind: llir.BranchLt, Unsigned: true,
				Left: llir.LitOperand(0), Right: llir.LitOperand(4), TrueBlock: 1, FalseBlock: 2,
			}},
			{Index: 1, Terminal: &llir.Terminal{Kind: llir.Return}},
			{Index: 2, Terminal: &llir.Terminal{Kind: llir.Exit, ExitCode: llir.LitOperand(-1)}},
		},
	}}}
	out := codegen.Emit(prog)

	if !strings.Contains(out, "jb ") {
		t.Errorf("an unsigned BranchLt should emit jb, got:\n%s", out)
	}
	if strings.Contains(out, "jl ") {
		t.Errorf("an unsigned comparison must not emit the signed jl, got:\n%s", out)
	}
}

func TestEmitCallSpillsArgumentsBeyondSix(t *testing.T) {
	args := make([]llir.Operand, 7)
	for i := range args {
		args[i] = llir.LitOperand(int64(i))
	}
	prog := &llir.Program{Methods: []*llir.Method{
		{Identifier: "sum7", Imported: true},
		{Identifier: "main", ReturnType: llir.Void, Blocks: []*llir.Block{{
			Assignments: []*llir.Assignment{
				{Kind: llir.MethodCall, Destination: "t0", Callee: "sum7", Arguments: args},
			},
			Terminal: &llir.Terminal{Kind: llir.Return},
		}}},
	}}
	out := codegen.Emit(prog)

	if !strings.Contains(out, "subq $8, %rsp") {
		t.Errorf("an odd stack-arg count (1) needs alignment padding, got:\n%s", out)
	}
	if !strings.Contains(out, "pushq %rax") {
		t.Errorf("the 7th argument should be pushed onto the stack, got:\n%s", out)
	}
	if !strings.Contains(out, "call sum7") {
		t.Errorf("expected a call to sum7, got:\n%s", out)
	}
}

package lower_test

import (
	"testing"

	"github.com/decaflang/decafc/diag"
	"github.com/decaflang/decafc/lexer"
	"github.com/decaflang/decafc/llir"
	"github.com/decaflang/decafc/lower"
	"github.com/decaflang/decafc/parser"
	"github.com/decaflang/decafc/semcheck"
)

func lowerSource(t *testing.T, src string) *llir.Program {
	t.Helper()
	diags := diag.New()
	toks, ok := lexer.New("test", src, diags).Tokenize()
	if !ok {
		t.Fatalf("lex failed: %v", diags.Diagnostics())
	}
	prog, ok := parser.New(toks, diags).Parse()
	if !ok {
		t.Fatalf("parse failed: %v", diags.Diagnostics())
	}
	if !semcheck.Check(prog, diags) {
		t.Fatalf("semcheck failed: %v", diags.Diagnostics())
	}
	return lower.New(diags).Lower(prog)
}

func findMethod(t *testing.T, prog *llir.Program, name string) *llir.Method {
	t.Helper()
	for _, m := range prog.Methods {
		if m.Identifier == name {
			return m
		}
	}
	t.Fatalf("no method named %q", name)
	return nil
}

func TestLowerGlobalInitializersMaterializeIntoMain(t *testing.T) {
	prog := lowerSource(t, "int x = 5; void main() {}")
	main := findMethod(t, prog, "main")
	entry := main.Blocks[0]
	if len(entry.Assignments) == 0 {
		t.Fatal("expected main's entry block to materialize the global initializer")
	}
	a := entry.Assignments[0]
	if a.Kind != llir.Move || a.Destination != "x" || a.Src.Literal != 5 {
		t.Fatalf("got assignment %+v, want move x = 5", a)
	}
}

func TestLowerArrayInitializersUseArrayUpdate(t *testing.T) {
	prog := lowerSource(t, "int a[3] = {1, 2, 3}; void main() {}")
	main := findMethod(t, prog, "main")
	entry := main.Blocks[0]
	if len(entry.Assignments) != 3 {
		t.Fatalf("got %d assignments, want 3 array_update instructions", len(entry.Assignments))
	}
	for i, a := range entry.Assignments {
		if a.Kind != llir.ArrayUpdate || a.Destination != "a" || a.Index.Literal != int64(i) || a.Value.Literal != int64(i+1) {
			t.Errorf("assignment %d = %+v, want array_update a[%d] = %d", i, a, i, i+1)
		}
	}
}

func TestLowerVoidMethodFallsThroughToReturn(t *testing.T) {
	prog := lowerSource(t, "void main() { int x; }")
	main := findMethod(t, prog, "main")
	last := main.Blocks[len(main.Blocks)-1]
	if last.Terminal == nil || last.Terminal.Kind != llir.Return || !last.Terminal.HasValue || last.Terminal.Value.Literal != 0 {
		t.Fatalf("got terminal %+v, want return 0", last.Terminal)
	}
}

func TestLowerNonVoidMethodFallsThroughToExit(t *testing.T) {
	prog := lowerSource(t, "int f() { int x; }")
	f := findMethod(t, prog, "f")
	last := f.Blocks[len(f.Blocks)-1]
	if last.Terminal == nil || last.Terminal.Kind != llir.Exit || last.Terminal.ExitCode.Literal != -2 {
		t.Fatalf("got terminal %+v, want exit -2", last.Terminal)
	}
}

func TestLowerIfThenAndElseJumpToSameMergeBlock(t *testing.T) {
	prog := lowerSource(t, "void main() { int x; if (x == 1) { x = 2; } else { x = 3; } }")
	main := findMethod(t, prog, "main")
	entry := main.Blocks[0]
	if entry.Terminal.Kind != llir.Branch {
		t.Fatalf("entry block terminal = %+v, want a branch", entry.Terminal)
	}
	byIndex := map[int]*llir.Block{}
	for _, b := range main.Blocks {
		byIndex[b.Index] = b
	}
	trueBlock, falseBlock := byIndex[entry.Terminal.TrueBlock], byIndex[entry.Terminal.FalseBlock]
	if trueBlock == nil || falseBlock == nil {
		t.Fatal("true/false branch targets should resolve to real blocks")
	}
	if trueBlock.Terminal.Target != falseBlock.Terminal.Target {
		t.Fatal("then and else blocks should jump to the same merge block")
	}
}

func TestLowerArrayAccessEmitsBoundsCheck(t *testing.T) {
	prog := lowerSource(t, "int a[4]; void main() { int x; x = a[0]; }")
	main := findMethod(t, prog, "main")
	entry := main.Blocks[0]
	if entry.Terminal.Kind != llir.Branch || !entry.Terminal.Unsigned || entry.Terminal.BranchKind != llir.BranchLt {
		t.Fatalf("entry terminal = %+v, want an unsigned BranchLt bounds check", entry.Terminal)
	}
	if entry.Terminal.Right.Literal != 4 {
		t.Fatalf("bounds check compares against %d, want the array length 4", entry.Terminal.Right.Literal)
	}
	byIndex := map[int]*llir.Block{}
	for _, b := range main.Blocks {
		byIndex[b.Index] = b
	}
	oob := byIndex[entry.Terminal.FalseBlock]
	if oob.Terminal.Kind != llir.Exit || oob.Terminal.ExitCode.Literal != -1 {
		t.Fatalf("out-of-bounds block terminal = %+v, want exit -1", oob.Terminal)
	}
}

func TestLowerWhileLoopBackEdge(t *testing.T) {
	prog := lowerSource(t, "void main() { int x; while (x < 10) { x++; } }")
	main := findMethod(t, prog, "main")
	byIndex := map[int]*llir.Block{}
	for _, b := range main.Blocks {
		byIndex[b.Index] = b
	}
	var condBlock *llir.Block
	for _, b := range main.Blocks {
		if b.Terminal.Kind == llir.Branch {
			condBlock = b
			break
		}
	}
	if condBlock == nil {
		t.Fatal("expected a branch block for the while condition")
	}
	body := byIndex[condBlock.Terminal.FalseBlock]
	if body.Terminal.Kind != llir.Jump || body.Terminal.Target != condBlock.Index {
		t.Fatalf("loop body terminal = %+v, want a jump back to the condition block %d", body.Terminal, condBlock.Index)
	}
}

func TestLowerImportedMethodHasNoBlocks(t *testing.T) {
	prog := lowerSource(t, "import printf; void main() { printf(\"hi\"); }")
	printf := findMethod(t, prog, "printf")
	if !printf.Imported || printf.Blocks != nil {
		t.Fatalf("imported method should have Imported=true and no Blocks, got %+v", printf)
	}
	main := findMethod(t, prog, "main")
	entry := main.Blocks[0]
	var call *llir.Assignment
	for _, a := range entry.Assignments {
		if a.Kind == llir.MethodCall {
			call = a
		}
	}
	if call == nil || call.Callee != "printf" || len(call.Arguments) != 1 || call.Arguments[0].Kind != llir.OperandString {
		t.Fatalf("got call %+v, want a call to printf with one string argument", call)
	}
}

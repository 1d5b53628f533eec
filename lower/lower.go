// Package lower implements the single-pass AST-to-LLIR lowering of spec.md
// §4.4: one stateful walk that threads a per-method temporary counter, a
// per-program block counter, the block currently being appended to, and
// break/continue target stacks through the whole tree. It assumes its input
// AST has already passed semcheck (or an equivalent semantic check): lower
// itself never rejects a program, only panics on an invariant violation
// (spec.md §7's "internal errors" category — an unknown AST kind reaching
// lowering is a compiler bug, not a user-facing diagnostic).
package lower

import (
	"fmt"

	"github.com/decaflang/decafc/ast"
	"github.com/decaflang/decafc/diag"
	"github.com/decaflang/decafc/llir"
	"github.com/decaflang/decafc/symtab"
)

// Lowerer holds the persistent state of one lowering pass (spec.md §4.4's
// state list).
type Lowerer struct {
	diags *diag.Collector
	table *symtab.Table

	prog   *llir.Program
	method *llir.Method
	block  *llir.Block

	tempCounter  int // per-method, reset in lowerMethod
	blockCounter int // per-program, monotonic

	breakTargets    []*llir.Block
	continueTargets []*llir.Block
}

// New creates a Lowerer reporting diagnostics through diags.
func New(diags *diag.Collector) *Lowerer {
	return &Lowerer{diags: diags, table: symtab.New()}
}

// Lower runs the pass over prog, assumed already semantically checked, and
// returns the built llir.Program.
func (l *Lowerer) Lower(prog *ast.Program) *llir.Program {
	l.prog = &llir.Program{}

	for _, imp := range prog.Imports {
		name := imp.Identifier.Name()
		l.table.SetMethod(name, &symtab.MethodDescriptor{Imported: true, ReturnType: ast.RetInt})
		l.prog.Methods = append(l.prog.Methods, &llir.Method{Identifier: name, Imported: true})
	}

	for _, fd := range prog.Fields {
		l.declareGlobalField(fd)
	}
	for _, m := range prog.Methods {
		argTypes := make([]ast.ScalarType, len(m.Arguments))
		for i, a := range m.Arguments {
			argTypes[i] = a.Type
		}
		l.table.SetMethod(m.Identifier.Name(), &symtab.MethodDescriptor{ReturnType: m.ReturnType, ArgTypes: argTypes})
	}
	for _, m := range prog.Methods {
		l.prog.Methods = append(l.prog.Methods, l.lowerMethod(m))
	}
	return l.prog
}

// declareGlobalField adds one top-level field declaration's identifiers to
// the global scope and to prog.Fields, baking any literal initializer into
// the field's static Initializers (spec.md §4.4's field-initialization
// rule; the runtime MOVE/ARRAY_UPDATE materialization into main happens
// separately, in lowerMainEntry).
func (l *Lowerer) declareGlobalField(fd *ast.FieldDecl) {
	for _, fi := range fd.Identifiers {
		field := l.buildFieldRecord(fi, fd.Const, fd.Type, 0)
		l.prog.Fields = append(l.prog.Fields, field)
	}
}

func (l *Lowerer) buildFieldRecord(fi *ast.FieldIdentifier, isConst bool, ty ast.ScalarType, scopeLevel int) *llir.Field {
	name := fi.Identifier.Name()
	desc := &symtab.FieldDescriptor{Type: ty, Const: isConst, ScopeLevel: scopeLevel}
	field := &llir.Field{Identifier: name, ScopeLevel: scopeLevel, ValueCount: 1}

	if fi.IsArray() {
		n := fi.ArrayLength.Value()
		desc.IsArray = true
		desc.ArrayLength = n
		field.IsArray = true
		field.ValueCount = n
		field.Initializers = make([]int64, n)
		if fi.Initializer != nil {
			for i, lit := range fi.Initializer.ArrayLiteral {
				field.Initializers[i] = evalLiteral(lit)
			}
		}
	} else if fi.Initializer != nil {
		field.Initializers = []int64{evalLiteral(fi.Initializer.Literal)}
	}

	l.table.SetField(name, desc)
	return field
}

// evalLiteral computes a literal's signed 64-bit value (spec.md §3.4: field
// values are 64-bit signed integers).
func evalLiteral(lit *ast.Literal) int64 {
	var v int64
	switch lit.Kind {
	case ast.LitInt:
		v = lit.IntLit.Value()
	case ast.LitChar:
		v = lit.CharLit.Value()
	case ast.LitBool:
		if lit.BoolLit.Value == ast.BoolTrue {
			v = 1
		}
	}
	if lit.Negate {
		v = -v
	}
	return v
}

// newTemp allocates a fresh temporary identifier, declares it as a scalar
// field in the current block, and inserts it in the symbol table (spec.md
// §4.4's new_temp()).
func (l *Lowerer) newTemp() string {
	name := fmt.Sprintf("$%d", l.tempCounter)
	l.tempCounter++
	l.block.Fields = append(l.block.Fields, &llir.Field{Identifier: name, ScopeLevel: l.table.Level(), ValueCount: 1})
	l.table.SetField(name, &symtab.FieldDescriptor{Type: ast.Int, ScopeLevel: l.table.Level()})
	return name
}

// newBlock allocates a block with a fresh sequential index (spec.md §4.4's
// new_block()). The block is not yet part of any method's block list — that
// happens when it becomes current via switchTo.
func (l *Lowerer) newBlock() *llir.Block {
	b := &llir.Block{Index: l.blockCounter}
	l.blockCounter++
	return b
}

// switchTo appends b to the current method's block list and makes it the
// block subsequent lowering appends to (spec.md §4.4's switch_to()). Every
// block produced by newBlock passes through here exactly once, which is
// what guarantees every block ends up in Method.Blocks with no separate
// final-flush step.
func (l *Lowerer) switchTo(b *llir.Block) {
	l.method.Blocks = append(l.method.Blocks, b)
	l.block = b
}

// jumpTo sets the current block's terminal to JUMP(target) and records the
// predecessor edge. target need not yet be part of the method's block list.
func (l *Lowerer) jumpTo(target *llir.Block) {
	l.block.Terminal = &llir.Terminal{Kind: llir.Jump, Target: target.Index}
	target.Predecessors = append(target.Predecessors, l.block.Index)
}

// branchTo sets the current block's terminal to BRANCH and records both
// predecessor edges.
func (l *Lowerer) branchTo(kind llir.BranchKind, unsigned bool, left, right llir.Operand, trueBlock, falseBlock *llir.Block) {
	l.block.Terminal = &llir.Terminal{
		Kind: llir.Branch, BranchKind: kind, Unsigned: unsigned,
		Left: left, Right: right, TrueBlock: trueBlock.Index, FalseBlock: falseBlock.Index,
	}
	trueBlock.Predecessors = append(trueBlock.Predecessors, l.block.Index)
	falseBlock.Predecessors = append(falseBlock.Predecessors, l.block.Index)
}

// setReturn sets the current block's terminal to RETURN.
func (l *Lowerer) setReturn(value *llir.Operand) {
	t := &llir.Terminal{Kind: llir.Return}
	if value != nil {
		t.HasValue = true
		t.Value = *value
	}
	l.block.Terminal = t
}

// setExit sets the current block's terminal to EXIT(code).
func (l *Lowerer) setExit(code int64) {
	l.block.Terminal = &llir.Terminal{Kind: llir.Exit, ExitCode: llir.LitOperand(code)}
}

// emit appends an assignment to the current block.
func (l *Lowerer) emit(a *llir.Assignment) {
	l.block.Assignments = append(l.block.Assignments, a)
}

// lowerMethod lowers one declared (non-imported) method.
func (l *Lowerer) lowerMethod(m *ast.Method) *llir.Method {
	l.tempCounter = 0
	retType := llir.Int
	switch m.ReturnType {
	case ast.RetBool:
		retType = llir.Bool
	case ast.RetVoid:
		retType = llir.Void
	}
	llm := &llir.Method{Identifier: m.Identifier.Name(), ReturnType: retType}
	l.method = llm

	l.table.Push()
	defer l.table.Pop()

	for _, arg := range m.Arguments {
		name := arg.Identifier.Name()
		llm.Arguments = append(llm.Arguments, &llir.Field{Identifier: name, ScopeLevel: l.table.Level(), ValueCount: 1})
		l.table.SetField(name, &symtab.FieldDescriptor{Type: arg.Type, ScopeLevel: l.table.Level()})
	}

	entry := l.newBlock()
	l.switchTo(entry)
	if m.Identifier.Name() == "main" {
		l.materializeGlobalInitializers()
	}
	l.lowerBlockBody(m.Block)

	// Method epilogue (spec.md §4.4): a void method falling off the end
	// returns 0; a non-void method falling off the end hits EXIT(-2).
	if l.block.Terminal == nil {
		if m.ReturnType == ast.RetVoid {
			zero := llir.LitOperand(0)
			l.setReturn(&zero)
		} else {
			l.setExit(-2)
		}
	}
	return llm
}

// materializeGlobalInitializers emits MOVE/ARRAY_UPDATE assignments into
// main's entry block for every global field's initial value (spec.md
// §4.4's field-initialization rule).
func (l *Lowerer) materializeGlobalInitializers() {
	for _, f := range l.prog.Fields {
		if f.IsArray {
			for i, v := range f.Initializers {
				l.emit(&llir.Assignment{
					Kind: llir.ArrayUpdate, Destination: f.Identifier,
					Index: llir.LitOperand(int64(i)), Value: llir.LitOperand(v),
				})
			}
		} else if len(f.Initializers) > 0 {
			l.emit(&llir.Assignment{Kind: llir.Move, Destination: f.Identifier, Src: llir.LitOperand(f.Initializers[0])})
		}
	}
}

// lowerBlockBody lowers a block's own field declarations (materializing
// their initializers at the point of declaration) and then its statements,
// without pushing a new scope — callers that need a new scope use
// lowerNestedBlock instead.
func (l *Lowerer) lowerBlockBody(b *ast.Block) {
	for _, fd := range b.Fields {
		l.lowerLocalFieldDecl(fd)
	}
	for _, st := range b.Statements {
		l.lowerStatement(st)
	}
}

// lowerNestedBlock lowers a block that introduces its own scope (if/for/
// while bodies, per spec.md §4.4's "push ... on every non-outermost block
// entry").
func (l *Lowerer) lowerNestedBlock(b *ast.Block) {
	l.table.Push()
	defer l.table.Pop()
	l.lowerBlockBody(b)
}

func (l *Lowerer) lowerLocalFieldDecl(fd *ast.FieldDecl) {
	for _, fi := range fd.Identifiers {
		field := l.buildFieldRecord(fi, fd.Const, fd.Type, l.table.Level())
		l.block.Fields = append(l.block.Fields, field)
		if field.IsArray {
			for i, v := range field.Initializers {
				l.emit(&llir.Assignment{
					Kind: llir.ArrayUpdate, Destination: field.Identifier,
					Index: llir.LitOperand(int64(i)), Value: llir.LitOperand(v),
				})
			}
		} else if len(field.Initializers) > 0 {
			l.emit(&llir.Assignment{Kind: llir.Move, Destination: field.Identifier, Src: llir.LitOperand(field.Initializers[0])})
		}
	}
}

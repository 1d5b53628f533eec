// Package codegen emits GNU as, AT&T-syntax, x86-64 assembly from an
// optimized llir.Program (spec.md §6.2). It never allocates registers
// across instructions: every field (argument, local, temporary) lives in
// its own fixed stack slot for the method's whole lifetime, and every
// instruction loads its operands into %rax/%rcx/%rdx, computes, and stores
// straight back — the same memory-to-scratch-register discipline as
// other_examples/17cac395_y1yang0-falcon__src-compile-codegen-asm_x86.go's
// stack-slot Assembler, and the textual-opcode-table idiom of
// db47h-ngaro/asm/asm.go's Disassemble.
package codegen

import (
	"fmt"
	"runtime"
	"strings"

	"github.com/decaflang/decafc/llir"
)

// Emit renders prog as a complete assembly file.
func Emit(prog *llir.Program) string {
	e := newEmitter(prog)
	e.emitData()
	e.emitText()
	var out strings.Builder
	out.WriteString(e.data.String())
	out.WriteString(e.rodata.String())
	out.WriteString(e.text.String())
	return out.String()
}

type emitter struct {
	prog    *llir.Program
	globals map[string]bool
	strings *stringTable

	data   strings.Builder
	rodata strings.Builder
	text   strings.Builder

	darwin bool // host detected at compile time, per spec.md §6.2
	fl     *frameLayout
}

func newEmitter(prog *llir.Program) *emitter {
	globals := make(map[string]bool, len(prog.Fields))
	for _, f := range prog.Fields {
		globals[f.Identifier] = true
	}
	return &emitter{
		prog:    prog,
		globals: globals,
		strings: newStringTable(),
		darwin:  runtime.GOOS == "darwin",
	}
}

// sym applies the host's external-symbol naming convention: an underscore
// prefix on Darwin, none elsewhere (spec.md §6.2). Applied uniformly to
// every symbol the emitter and an external assembler/linker must agree on:
// method labels, call targets, and global data labels.
func (e *emitter) sym(name string) string {
	if e.darwin {
		return "_" + name
	}
	return name
}

func (e *emitter) emitData() {
	fmt.Fprintln(&e.data, ".data")
	for _, f := range e.prog.Fields {
		fmt.Fprintf(&e.data, "%s:\n", e.sym(f.Identifier))
		if f.IsArray {
			fmt.Fprintf(&e.data, "\t.fill %d\n", 8*f.ValueCount)
		} else {
			fmt.Fprintln(&e.data, "\t.quad 0")
		}
	}
}

func (e *emitter) emitText() {
	fmt.Fprintln(&e.text, ".text")
	for _, m := range e.prog.Methods {
		if m.Imported {
			continue
		}
		fmt.Fprintf(&e.text, ".globl %s\n", e.sym(m.Identifier))
		e.emitMethod(m)
	}
	// Strings are collected while emitting method bodies, so the rodata
	// section is only complete once the text section is fully rendered.
	if len(e.strings.order) > 0 {
		fmt.Fprintln(&e.rodata, ".section .rodata")
		for i, s := range e.strings.order {
			fmt.Fprintf(&e.rodata, "%s:\n\t.string %q\n", stringLabelName(i), s)
		}
	}
}

func (e *emitter) emitMethod(m *llir.Method) {
	e.fl = buildFrameLayout(m)
	fmt.Fprintf(&e.text, "%s:\n", e.sym(m.Identifier))
	e.emit("pushq %%rbp")
	e.emit("movq %%rsp, %%rbp")
	if e.fl.frameSize > 0 {
		e.emit("subq $%d, %%rsp", e.fl.frameSize)
	}
	for i, a := range m.Arguments {
		if i >= len(argRegisters) {
			break
		}
		e.emit("movq %s, %s", argRegisters[i], e.operand(a.Identifier))
	}

	for _, b := range m.Blocks {
		fmt.Fprintf(&e.text, ".L%s_block%d:\n", m.Identifier, b.Index)
		for _, a := range b.Assignments {
			e.emitAssignment(a)
		}
		e.emitTerminal(m.Identifier, b.Terminal)
	}
}

// blockLabel is the local label for one block of method, shared by jump
// targets and block-start definitions so a method's blocks never collide
// with another method's block0 (block indices are allocated program-wide
// by lower's per-program block counter, but the method prefix makes collision moot
// and keeps disassembly readable per-method).
func (e *emitter) blockLabel(method string, index int) string {
	return fmt.Sprintf(".L%s_block%d", method, index)
}

func (e *emitter) emit(format string, args ...interface{}) {
	fmt.Fprintf(&e.text, "\t"+format+"\n", args...)
}

// operand returns the memory operand for a scalar field reference: its
// data label for a global, its stack slot for a local.
func (e *emitter) operand(name string) string {
	if e.globals[name] {
		return fmt.Sprintf("%s(%%rip)", e.sym(name))
	}
	return fmt.Sprintf("%d(%%rbp)", e.fl.slot(name))
}

// loadOperand loads op into reg.
func (e *emitter) loadOperand(op llir.Operand, reg string) {
	switch op.Kind {
	case llir.OperandLiteral:
		e.emit("movq $%d, %s", op.Literal, reg)
	case llir.OperandString:
		e.emit("leaq %s(%%rip), %s", e.strings.label(op.String), reg)
	default:
		e.emit("movq %s, %s", e.operand(op.Field), reg)
	}
}

// arrayAddr loads index into %rax and, for a global array, the array's base
// address into %rcx, returning the memory operand for element [index].
// Locals address directly off %rbp, since their base is a compile-time
// constant; globals need the two-step lea+index because RIP-relative
// addressing has no index-register form.
func (e *emitter) arrayAddr(name string, index llir.Operand) string {
	e.loadOperand(index, "%rax")
	if e.globals[name] {
		e.emit("leaq %s(%%rip), %%rcx", e.sym(name))
		return "(%rcx,%rax,8)"
	}
	return fmt.Sprintf("%d(%%rbp,%%rax,8)", e.fl.slot(name))
}

var branchCC = map[llir.BranchKind]string{
	llir.BranchEq: "e", llir.BranchNe: "ne",
	llir.BranchLt: "l", llir.BranchLe: "le",
	llir.BranchGt: "g", llir.BranchGe: "ge",
}

var branchCCUnsigned = map[llir.BranchKind]string{
	llir.BranchEq: "e", llir.BranchNe: "ne",
	llir.BranchLt: "b", llir.BranchLe: "be",
	llir.BranchGt: "a", llir.BranchGe: "ae",
}

func (e *emitter) emitAssignment(a *llir.Assignment) {
	switch {
	case a.Kind == llir.Move:
		e.loadOperand(a.Src, "%rax")
		e.emit("movq %%rax, %s", e.operand(a.Destination))
	case a.Kind == llir.Not:
		e.loadOperand(a.Src, "%rax")
		e.emit("cmpq $0, %%rax")
		e.emit("sete %%al")
		e.emit("movzbq %%al, %%rax")
		e.emit("movq %%rax, %s", e.operand(a.Destination))
	case a.Kind == llir.Negate:
		e.loadOperand(a.Src, "%rax")
		e.emit("negq %%rax")
		e.emit("movq %%rax, %s", e.operand(a.Destination))
	case a.Kind == llir.Add, a.Kind == llir.Sub, a.Kind == llir.Mul:
		e.emitArithmetic(a)
	case a.Kind == llir.Div, a.Kind == llir.Mod:
		e.emitDivMod(a)
	case a.Kind.IsBinary(): // comparisons
		e.loadOperand(a.Left, "%rax")
		e.loadOperand(a.Right, "%rcx")
		e.emit("cmpq %%rcx, %%rax")
		e.emit("set%s %%al", branchCC[compareBranchKind(a.Kind)])
		e.emit("movzbq %%al, %%rax")
		e.emit("movq %%rax, %s", e.operand(a.Destination))
	case a.Kind == llir.ArrayAccess:
		addr := e.arrayAddr(a.Src.Field, a.Index)
		e.emit("movq %s, %%rax", addr)
		e.emit("movq %%rax, %s", e.operand(a.Destination))
	case a.Kind == llir.ArrayUpdate:
		addr := e.arrayAddr(a.Destination, a.Index)
		e.loadOperand(a.Value, "%rdx")
		e.emit("movq %%rdx, %s", addr)
	case a.Kind == llir.MethodCall:
		e.emitCall(a)
	}
}

func (e *emitter) emitArithmetic(a *llir.Assignment) {
	e.loadOperand(a.Left, "%rax")
	e.loadOperand(a.Right, "%rcx")
	switch a.Kind {
	case llir.Add:
		e.emit("addq %%rcx, %%rax")
	case llir.Sub:
		e.emit("subq %%rcx, %%rax")
	case llir.Mul:
		e.emit("imulq %%rcx, %%rax")
	}
	e.emit("movq %%rax, %s", e.operand(a.Destination))
}

// emitDivMod lowers DIV/MOD via idiv on %rax:%rdx, sign-extended with cqto
// (spec.md §6.2).
func (e *emitter) emitDivMod(a *llir.Assignment) {
	e.loadOperand(a.Left, "%rax")
	e.loadOperand(a.Right, "%rcx")
	e.emit("cqto")
	e.emit("idivq %%rcx")
	result := "%rax"
	if a.Kind == llir.Mod {
		result = "%rdx"
	}
	e.emit("movq %s, %s", result, e.operand(a.Destination))
}

func compareBranchKind(k llir.AssignKind) llir.BranchKind {
	switch k {
	case llir.Eq:
		return llir.BranchEq
	case llir.Ne:
		return llir.BranchNe
	case llir.Lt:
		return llir.BranchLt
	case llir.Le:
		return llir.BranchLe
	case llir.Gt:
		return llir.BranchGt
	default:
		return llir.BranchGe
	}
}

// emitCall loads up to six arguments into the SysV integer argument
// registers, pushes any remainder right-to-left (first lowering %rsp by 8
// to keep the stack 16-byte aligned at the call if the remainder is odd), and
// stores the result out of %rax.
func (e *emitter) emitCall(a *llir.Assignment) {
	regArgs := a.Arguments
	var stackArgs []llir.Operand
	if len(regArgs) > len(argRegisters) {
		stackArgs = regArgs[len(argRegisters):]
		regArgs = regArgs[:len(argRegisters)]
	}
	if len(stackArgs)%2 != 0 {
		e.emit("subq $8, %%rsp")
	}
	for i := len(stackArgs) - 1; i >= 0; i-- {
		e.loadOperand(stackArgs[i], "%rax")
		e.emit("pushq %%rax")
	}
	for i, arg := range regArgs {
		e.loadOperand(arg, argRegisters[i])
	}
	e.emit("call %s", e.sym(a.Callee))
	if len(stackArgs) > 0 {
		cleanup := len(stackArgs) * 8
		if len(stackArgs)%2 != 0 {
			cleanup += 8
		}
		e.emit("addq $%d, %%rsp", cleanup)
	}
	e.emit("movq %%rax, %s", e.operand(a.Destination))
}

func (e *emitter) emitTerminal(method string, t *llir.Terminal) {
	switch t.Kind {
	case llir.Jump:
		e.emit("jmp %s", e.blockLabel(method, t.Target))
	case llir.Branch:
		e.loadOperand(t.Left, "%rax")
		e.loadOperand(t.Right, "%rcx")
		e.emit("cmpq %%rcx, %%rax")
		cc := branchCC[t.BranchKind]
		if t.Unsigned {
			cc = branchCCUnsigned[t.BranchKind]
		}
		e.emit("j%s %s", cc, e.blockLabel(method, t.TrueBlock))
		e.emit("jmp %s", e.blockLabel(method, t.FalseBlock))
	case llir.Return:
		if t.HasValue {
			e.loadOperand(t.Value, "%rax")
		}
		e.emit("leave")
		e.emit("ret")
	case llir.Exit:
		e.loadOperand(t.ExitCode, "%rdi")
		e.emit("call %s", e.sym("exit"))
	}
}

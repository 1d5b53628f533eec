package llir

import (
	"fmt"
	"io"
	"strings"
)

// Fprint dumps prog in a human-readable textual form, used by the `-d`
// debug target in place of assembly (SPEC_FULL.md's supplemented debug
// dumper — original_source has no textual LLIR dump of its own since the
// reference compiler only ever emits assembly, so this is grounded on the
// shape of spec.md §3.4 itself rather than on original source text).
func Fprint(w io.Writer, prog *Program) {
	for _, f := range prog.Fields {
		fmt.Fprintf(w, "field %s %s\n", f.Identifier, formatFieldShape(f))
	}
	for _, m := range prog.Methods {
		fprintMethod(w, m)
	}
}

func formatFieldShape(f *Field) string {
	if !f.IsArray {
		return fmt.Sprintf("= %d", valueOr(f.Initializers, 0))
	}
	parts := make([]string, len(f.Initializers))
	for i, v := range f.Initializers {
		parts[i] = fmt.Sprintf("%d", v)
	}
	return fmt.Sprintf("[%d] = {%s}", f.ValueCount, strings.Join(parts, ", "))
}

func valueOr(vs []int64, i int) int64 {
	if i < len(vs) {
		return vs[i]
	}
	return 0
}

func fprintMethod(w io.Writer, m *Method) {
	if m.Imported {
		fmt.Fprintf(w, "import %s\n", m.Identifier)
		return
	}
	args := make([]string, len(m.Arguments))
	for i, a := range m.Arguments {
		args[i] = a.Identifier
	}
	fmt.Fprintf(w, "method %s(%s):\n", m.Identifier, strings.Join(args, ", "))
	for _, b := range m.Blocks {
		fprintBlock(w, b)
	}
}

func fprintBlock(w io.Writer, b *Block) {
	fmt.Fprintf(w, "  block%d:", b.Index)
	if len(b.Predecessors) > 0 {
		preds := make([]string, len(b.Predecessors))
		for i, p := range b.Predecessors {
			preds[i] = fmt.Sprintf("block%d", p)
		}
		fmt.Fprintf(w, " ; preds = %s", strings.Join(preds, ", "))
	}
	fmt.Fprintln(w)
	for _, fld := range b.Fields {
		fmt.Fprintf(w, "    field %s %s\n", fld.Identifier, formatFieldShape(fld))
	}
	for _, a := range b.Assignments {
		fmt.Fprintf(w, "    %s\n", formatAssignment(a))
	}
	fmt.Fprintf(w, "    %s\n", formatTerminal(b.Terminal))
}

func formatOperand(o Operand) string {
	switch o.Kind {
	case OperandLiteral:
		return fmt.Sprintf("%d", o.Literal)
	case OperandString:
		return fmt.Sprintf("%q", o.String)
	default:
		return o.Field
	}
}

var assignMnemonic = map[AssignKind]string{
	Move: "move", Not: "not", Negate: "negate",
	Add: "add", Sub: "sub", Mul: "mul", Div: "div", Mod: "mod",
	Eq: "eq", Ne: "ne", Lt: "lt", Le: "le", Gt: "gt", Ge: "ge",
	ArrayAccess: "array_access", ArrayUpdate: "array_update", MethodCall: "call",
}

func formatAssignment(a *Assignment) string {
	switch {
	case a.Kind.IsUnary():
		return fmt.Sprintf("%s = %s %s", a.Destination, assignMnemonic[a.Kind], formatOperand(a.Src))
	case a.Kind.IsBinary():
		return fmt.Sprintf("%s = %s %s, %s", a.Destination, assignMnemonic[a.Kind], formatOperand(a.Left), formatOperand(a.Right))
	case a.Kind == ArrayAccess:
		return fmt.Sprintf("%s = array_access %s[%s]", a.Destination, formatOperand(a.Src), formatOperand(a.Index))
	case a.Kind == ArrayUpdate:
		return fmt.Sprintf("%s[%s] = %s", a.Destination, formatOperand(a.Index), formatOperand(a.Value))
	case a.Kind == MethodCall:
		args := make([]string, len(a.Arguments))
		for i, arg := range a.Arguments {
			args[i] = formatOperand(arg)
		}
		return fmt.Sprintf("%s = call %s(%s)", a.Destination, a.Callee, strings.Join(args, ", "))
	default:
		return fmt.Sprintf("<unknown assignment kind %d>", a.Kind)
	}
}

var branchMnemonic = map[BranchKind]string{
	BranchEq: "eq", BranchNe: "ne", BranchLt: "lt", BranchLe: "le", BranchGt: "gt", BranchGe: "ge",
}

func formatTerminal(t *Terminal) string {
	switch t.Kind {
	case Jump:
		return fmt.Sprintf("jump block%d", t.Target)
	case Branch:
		sign := "signed"
		if t.Unsigned {
			sign = "unsigned"
		}
		return fmt.Sprintf("branch %s(%s) %s, %s -> block%d, block%d",
			branchMnemonic[t.BranchKind], sign, formatOperand(t.Left), formatOperand(t.Right), t.TrueBlock, t.FalseBlock)
	case Return:
		if t.HasValue {
			return fmt.Sprintf("return %s", formatOperand(t.Value))
		}
		return "return"
	case Exit:
		return fmt.Sprintf("exit %s", formatOperand(t.ExitCode))
	default:
		return fmt.Sprintf("<unknown terminal kind %d>", t.Kind)
	}
}

package codegen

import (
	"strconv"

	"github.com/decaflang/decafc/llir"
)

// argRegisters holds the SysV AMD64 integer argument registers, in order
// (spec.md §6.2).
var argRegisters = []string{"%rdi", "%rsi", "%rdx", "%rcx", "%r8", "%r9"}

// frameLayout assigns every field a method touches (arguments, locals,
// temporaries) a fixed %rbp-relative stack slot, the way a register-less
// stack machine would: no field is ever kept live in a register across
// instructions, so every LLIR field gets exactly one slot for its whole
// method (spec.md §6.2's stack frame). Grounded on the stack-slot-per-
// virtual-register allocation of
// other_examples/17cac395_y1yang0-falcon__src-compile-codegen-asm_x86.go's
// allocateStackSlot, adapted from a running per-instruction offset to a
// whole-method table built upfront, since every LLIR field name in a method
// is already known before any instruction is emitted.
type frameLayout struct {
	offsets   map[string]int
	frameSize int
}

// buildFrameLayout walks m once, assigning slots in first-use order: method
// arguments first (the first six in their SysV registers, copied into their
// slots by the prologue; the seventh and later read directly from the
// caller's stack arguments, at positive %rbp offsets per spec.md §6.2), then
// every field declared in every block, then every assignment's destination.
// Array fields reserve ValueCount*8 contiguous bytes; frameSize is rounded
// up to a multiple of 16 for the prologue's `subq $frame, %rsp`.
func buildFrameLayout(m *llir.Method) *frameLayout {
	offsets := map[string]int{}
	next := 0
	reserveLocal := func(name string, count int64) {
		if _, ok := offsets[name]; ok {
			return
		}
		if count < 1 {
			count = 1
		}
		next += int(count) * 8
		offsets[name] = -next
	}

	for i, a := range m.Arguments {
		if i < len(argRegisters) {
			reserveLocal(a.Identifier, 1)
		} else {
			// Caller-pushed: 16(%rbp) is the first stack argument, above
			// the saved return address and saved %rbp.
			offsets[a.Identifier] = 16 + (i-len(argRegisters))*8
		}
	}
	for _, b := range m.Blocks {
		for _, f := range b.Fields {
			count := int64(1)
			if f.IsArray {
				count = f.ValueCount
			}
			reserveLocal(f.Identifier, count)
		}
		for _, a := range b.Assignments {
			if a.Destination != "" {
				reserveLocal(a.Destination, 1)
			}
		}
	}

	frame := next
	if rem := frame % 16; rem != 0 {
		frame += 16 - rem
	}
	return &frameLayout{offsets: offsets, frameSize: frame}
}

// slot returns the %rbp-relative byte offset of a non-global field's
// element 0 (or its only element, if scalar).
func (fl *frameLayout) slot(name string) int { return fl.offsets[name] }

// stringTable assigns a stable, deduplicated `string_<N>` label to every
// distinct string constant emitted, in first-use order (spec.md §6.2).
type stringTable struct {
	labels map[string]string
	order  []string
}

func newStringTable() *stringTable {
	return &stringTable{labels: map[string]string{}}
}

func (st *stringTable) label(s string) string {
	if l, ok := st.labels[s]; ok {
		return l
	}
	l := stringLabelName(len(st.order))
	st.labels[s] = l
	st.order = append(st.order, s)
	return l
}

func stringLabelName(n int) string {
	return "string_" + strconv.Itoa(n)
}

package optimize

import "github.com/decaflang/decafc/llir"

// DeadCodeEliminate implements spec.md §4.5.3: seed a live set with every
// global field, every array field (conservatively — an array's elements
// could be read through any index, so the array as a whole is never proven
// dead), and every operand a branch/return terminal or a METHOD_CALL's
// arguments reference; then repeatedly sweep every assignment, adding its
// source operands to the live set whenever its destination is already live,
// until a full sweep adds nothing new. A final pass drops every assignment
// whose destination never made the live set — except METHOD_CALL, kept
// unconditionally for its side effects. Grounded on
// original_source/src/optimizations/dce.c.
func DeadCodeEliminate(prog *llir.Program) {
	live := map[string]bool{}
	for _, f := range prog.Fields {
		live[f.Identifier] = true
	}

	for _, m := range prog.Methods {
		if m.Imported {
			continue
		}
		for _, b := range m.Blocks {
			for _, f := range b.Fields {
				if f.IsArray {
					live[f.Identifier] = true
				}
			}
			for _, a := range b.Assignments {
				if a.Kind == llir.MethodCall {
					for _, arg := range a.Arguments {
						addLive(live, arg)
					}
				}
			}
			addTerminalLive(live, b.Terminal)
		}
	}

	for {
		before := len(live)
		for _, m := range prog.Methods {
			if m.Imported {
				continue
			}
			for _, b := range m.Blocks {
				for _, a := range b.Assignments {
					growLiveFromAssignment(live, a)
				}
			}
		}
		if len(live) == before {
			break
		}
	}

	for _, m := range prog.Methods {
		if m.Imported {
			continue
		}
		for _, b := range m.Blocks {
			kept := b.Assignments[:0]
			for _, a := range b.Assignments {
				if a.Kind == llir.MethodCall || live[a.Destination] {
					kept = append(kept, a)
				}
			}
			b.Assignments = kept
		}
	}
}

func addLive(live map[string]bool, op llir.Operand) {
	if op.Kind == llir.OperandField {
		live[op.Field] = true
	}
}

func addTerminalLive(live map[string]bool, t *llir.Terminal) {
	switch t.Kind {
	case llir.Branch:
		addLive(live, t.Left)
		addLive(live, t.Right)
	case llir.Return:
		if t.HasValue {
			addLive(live, t.Value)
		}
	}
}

func growLiveFromAssignment(live map[string]bool, a *llir.Assignment) {
	if !live[a.Destination] {
		return
	}
	switch {
	case a.Kind.IsUnary():
		addLive(live, a.Src)
	case a.Kind.IsBinary():
		addLive(live, a.Left)
		addLive(live, a.Right)
	case a.Kind == llir.ArrayUpdate:
		addLive(live, a.Index)
		addLive(live, a.Value)
	case a.Kind == llir.ArrayAccess:
		addLive(live, a.Index)
	case a.Kind == llir.MethodCall:
		for _, arg := range a.Arguments {
			addLive(live, arg)
		}
	}
}

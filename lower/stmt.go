package lower

import (
	"fmt"

	"github.com/decaflang/decafc/ast"
	"github.com/decaflang/decafc/llir"
)

func (l *Lowerer) lowerStatement(st *ast.Statement) {
	switch st.Kind {
	case ast.StmtAssign:
		l.lowerAssignStatement(st.Assign)
	case ast.StmtMethodCall:
		l.lowerMethodCallInto(st.Call)
	case ast.StmtIf:
		l.lowerIf(st.If)
	case ast.StmtFor:
		l.lowerFor(st.For)
	case ast.StmtWhile:
		l.lowerWhile(st.While)
	case ast.StmtReturn:
		l.lowerReturn(st.ReturnExpr)
	case ast.StmtBreak:
		target := l.breakTargets[len(l.breakTargets)-1]
		l.jumpTo(target)
		l.switchTo(l.newBlock())
	case ast.StmtContinue:
		target := l.continueTargets[len(l.continueTargets)-1]
		l.jumpTo(target)
		l.switchTo(l.newBlock())
	default:
		panic(fmt.Sprintf("lower: unknown statement kind %d", st.Kind))
	}
}

func (l *Lowerer) lowerReturn(expr *ast.Expression) {
	if expr == nil {
		l.setReturn(nil)
	} else {
		v := l.lowerExpression(expr)
		l.setReturn(&v)
	}
	l.switchTo(l.newBlock())
}

func (l *Lowerer) lowerIf(ifs *ast.IfStatement) {
	cond := l.lowerExpression(ifs.Condition)
	thenBlock := l.newBlock()
	falseBlock := l.newBlock() // else-block, or directly the end block if no else
	end := l.newBlock()

	l.branchTo(llir.BranchEq, false, cond, llir.LitOperand(0), falseBlock, thenBlock)

	l.switchTo(thenBlock)
	l.lowerNestedBlock(ifs.Then)
	if l.block.Terminal == nil {
		l.jumpTo(end)
	}

	l.switchTo(falseBlock)
	if ifs.Else != nil {
		l.lowerNestedBlock(ifs.Else)
	}
	if l.block.Terminal == nil {
		l.jumpTo(end)
	}

	l.switchTo(end)
}

// lowerFor lowers `for (iv = init; cond; update) body` (spec.md §4.4): the
// initializer runs in the current block, then control jumps to a condition
// block that branches between the body and the end block; the body falls
// into an update block that re-evaluates the condition.
func (l *Lowerer) lowerFor(f *ast.ForStatement) {
	init := l.lowerExpression(f.Init)
	l.emit(&llir.Assignment{Kind: llir.Move, Destination: f.InductionVar.Name(), Src: init})

	condBlock := l.newBlock()
	bodyBlock := l.newBlock()
	updateBlock := l.newBlock()
	end := l.newBlock()

	l.jumpTo(condBlock)

	l.switchTo(condBlock)
	cond := l.lowerExpression(f.Condition)
	l.branchTo(llir.BranchEq, false, cond, llir.LitOperand(0), end, bodyBlock)

	l.breakTargets = append(l.breakTargets, end)
	l.continueTargets = append(l.continueTargets, updateBlock)

	l.switchTo(bodyBlock)
	l.lowerNestedBlock(f.Body)
	if l.block.Terminal == nil {
		l.jumpTo(updateBlock)
	}

	l.breakTargets = l.breakTargets[:len(l.breakTargets)-1]
	l.continueTargets = l.continueTargets[:len(l.continueTargets)-1]

	l.switchTo(updateBlock)
	l.lowerForUpdate(f.Update)
	l.jumpTo(condBlock)

	l.switchTo(end)
}

func (l *Lowerer) lowerForUpdate(u *ast.ForUpdate) {
	switch u.Kind {
	case ast.ForUpdateAssign:
		l.lowerAssignStatement(u.Assign)
	case ast.ForUpdateCall:
		l.lowerMethodCallInto(u.Call)
	}
}

// lowerWhile lowers `while (cond) body`, identical to lowerFor minus the
// initializer and update block: the condition block is its own continue
// target.
func (l *Lowerer) lowerWhile(w *ast.WhileStatement) {
	condBlock := l.newBlock()
	bodyBlock := l.newBlock()
	end := l.newBlock()

	l.jumpTo(condBlock)

	l.switchTo(condBlock)
	cond := l.lowerExpression(w.Condition)
	l.branchTo(llir.BranchEq, false, cond, llir.LitOperand(0), end, bodyBlock)

	l.breakTargets = append(l.breakTargets, end)
	l.continueTargets = append(l.continueTargets, condBlock)

	l.switchTo(bodyBlock)
	l.lowerNestedBlock(w.Body)
	if l.block.Terminal == nil {
		l.jumpTo(condBlock)
	}

	l.breakTargets = l.breakTargets[:len(l.breakTargets)-1]
	l.continueTargets = l.continueTargets[:len(l.continueTargets)-1]

	l.switchTo(end)
}

// lowerAssignStatement lowers plain and compound assignment and increment/
// decrement (spec.md §4.4's statement rules).
func (l *Lowerer) lowerAssignStatement(as *ast.AssignStatement) {
	if as.IsIncrement {
		op := llir.Add
		if as.Increment == ast.IncSub {
			op = llir.Sub
		}
		// spec.md §4.4: ++/-- lower as compound assignment with literal RHS 1.
		l.lowerCompoundAssign(as.Location, op, llir.LitOperand(1))
		return
	}
	if as.Operator == ast.AssignSet {
		l.lowerPlainAssign(as.Location, as.Expression)
		return
	}
	l.lowerCompoundAssign(as.Location, compoundAssignKind(as.Operator), l.lowerExpression(as.Expression))
}

func compoundAssignKind(op ast.AssignOperator) llir.AssignKind {
	switch op {
	case ast.AssignAdd:
		return llir.Add
	case ast.AssignSub:
		return llir.Sub
	case ast.AssignMul:
		return llir.Mul
	case ast.AssignDiv:
		return llir.Div
	case ast.AssignMod:
		return llir.Mod
	default:
		panic(fmt.Sprintf("lower: assign operator %d is not compound", op))
	}
}

func (l *Lowerer) lowerPlainAssign(loc *ast.Location, rhs *ast.Expression) {
	value := l.lowerExpression(rhs)
	if !loc.IsIndexed() {
		l.emit(&llir.Assignment{Kind: llir.Move, Destination: loc.Identifier.Name(), Src: value})
		return
	}
	index := l.lowerExpression(loc.Index)
	l.emitBoundsCheck(index, loc.Identifier.Name())
	l.emit(&llir.Assignment{Kind: llir.ArrayUpdate, Destination: loc.Identifier.Name(), Index: index, Value: value})
}

// lowerCompoundAssign lowers `location op= rhs` (and ++/-- via a synthetic
// rhs operand) per spec.md §4.4: evaluate rhs; if indexed, evaluate the
// index and bounds-check once, then ARRAY_ACCESS the old value; apply the
// binary op; store back via MOVE or ARRAY_UPDATE.
func (l *Lowerer) lowerCompoundAssign(loc *ast.Location, op llir.AssignKind, rhsValue llir.Operand) {
	name := loc.Identifier.Name()
	if !loc.IsIndexed() {
		old := l.newTemp()
		l.emit(&llir.Assignment{Kind: llir.Move, Destination: old, Src: llir.FieldOperand(name)})
		dst := l.newTemp()
		l.emit(&llir.Assignment{Kind: op, Destination: dst, Left: llir.FieldOperand(old), Right: rhsValue})
		l.emit(&llir.Assignment{Kind: llir.Move, Destination: name, Src: llir.FieldOperand(dst)})
		return
	}

	index := l.lowerExpression(loc.Index)
	l.emitBoundsCheck(index, name)
	old := l.newTemp()
	l.emit(&llir.Assignment{Kind: llir.ArrayAccess, Destination: old, Src: llir.FieldOperand(name), Index: index})
	dst := l.newTemp()
	l.emit(&llir.Assignment{Kind: op, Destination: dst, Left: llir.FieldOperand(old), Right: rhsValue})
	l.emit(&llir.Assignment{Kind: llir.ArrayUpdate, Destination: name, Index: index, Value: llir.FieldOperand(dst)})
}

package lower

import (
	"fmt"

	"github.com/decaflang/decafc/ast"
	"github.com/decaflang/decafc/llir"
)

// lowerExpression lowers expr left-to-right, producing a field-operand
// naming the temporary that holds its result (spec.md §4.4's expression
// lowering list). Every case ends in a fresh temp, including bare literals,
// so callers never need to special-case "already a literal operand" — the
// constant-folding optimizer pass is what turns these back into literal
// operands where provable.
func (l *Lowerer) lowerExpression(expr *ast.Expression) llir.Operand {
	if expr.Kind == ast.ExprBinary {
		return l.lowerBinary(expr.Binary)
	}
	return l.lowerUnary(expr.Unary)
}

func (l *Lowerer) lowerBinary(b *ast.BinaryExpression) llir.Operand {
	if b.Operator.IsLogical() {
		return l.lowerShortCircuit(b)
	}
	left := l.lowerExpression(b.Left)
	right := l.lowerExpression(b.Right)
	dst := l.newTemp()
	l.emit(&llir.Assignment{Kind: binaryAssignKind(b.Operator), Destination: dst, Left: left, Right: right})
	return llir.FieldOperand(dst)
}

func binaryAssignKind(op ast.BinaryOperator) llir.AssignKind {
	switch op {
	case ast.OpEqual:
		return llir.Eq
	case ast.OpNotEqual:
		return llir.Ne
	case ast.OpLess:
		return llir.Lt
	case ast.OpLessEqual:
		return llir.Le
	case ast.OpGreaterEqual:
		return llir.Ge
	case ast.OpGreater:
		return llir.Gt
	case ast.OpAdd:
		return llir.Add
	case ast.OpSub:
		return llir.Sub
	case ast.OpMul:
		return llir.Mul
	case ast.OpDiv:
		return llir.Div
	case ast.OpMod:
		return llir.Mod
	default:
		panic(fmt.Sprintf("lower: operator %d has no non-logical binary assignment kind", op))
	}
}

// lowerShortCircuit lowers `L && R` / `L || R` per spec.md §4.4: compute L
// into the destination temp t; branch to a continuation that skips R when
// the result is already determined (t != 1 for &&, t == 1 for ||);
// otherwise fall into a block that computes R into t, then join.
func (l *Lowerer) lowerShortCircuit(b *ast.BinaryExpression) llir.Operand {
	dst := l.newTemp()
	left := l.lowerExpression(b.Left)
	l.emit(&llir.Assignment{Kind: llir.Move, Destination: dst, Src: left})

	evalRight := l.newBlock()
	join := l.newBlock()

	one := llir.LitOperand(1)
	dstOp := llir.FieldOperand(dst)
	if b.Operator == ast.OpAnd {
		// dst != 1 short-circuits to join with dst already 0 (false).
		l.branchTo(llir.BranchNe, false, dstOp, one, join, evalRight)
	} else {
		// dst == 1 short-circuits to join with dst already 1 (true).
		l.branchTo(llir.BranchEq, false, dstOp, one, join, evalRight)
	}

	l.switchTo(evalRight)
	right := l.lowerExpression(b.Right)
	l.emit(&llir.Assignment{Kind: llir.Move, Destination: dst, Src: right})
	l.jumpTo(join)

	l.switchTo(join)
	return dstOp
}

func (l *Lowerer) lowerUnary(u *ast.UnaryExpression) llir.Operand {
	switch u.Kind {
	case ast.UnaryLocation:
		return l.lowerLocationRead(u.Location)
	case ast.UnaryMethodCall:
		return l.lowerMethodCallExpr(u.Call)
	case ast.UnaryLiteral:
		dst := l.newTemp()
		l.emit(&llir.Assignment{Kind: llir.Move, Destination: dst, Src: llir.LitOperand(evalLiteral(u.Literal))})
		return llir.FieldOperand(dst)
	case ast.UnaryLen:
		desc, _ := l.table.GetField(u.LenIdent.Name())
		dst := l.newTemp()
		l.emit(&llir.Assignment{Kind: llir.Move, Destination: dst, Src: llir.LitOperand(desc.ArrayLength)})
		return llir.FieldOperand(dst)
	case ast.UnaryNegate:
		src := l.lowerUnary(u.Operand)
		dst := l.newTemp()
		l.emit(&llir.Assignment{Kind: llir.Negate, Destination: dst, Src: src})
		return llir.FieldOperand(dst)
	case ast.UnaryNot:
		src := l.lowerUnary(u.Operand)
		dst := l.newTemp()
		l.emit(&llir.Assignment{Kind: llir.Not, Destination: dst, Src: src})
		return llir.FieldOperand(dst)
	case ast.UnaryParen:
		return l.lowerExpression(u.Paren)
	default:
		panic(fmt.Sprintf("lower: unknown unary expression kind %d", u.Kind))
	}
}

// lowerLocationRead lowers a location used as an expression: MOVE for a
// scalar, bounds-checked ARRAY_ACCESS for an indexed one.
func (l *Lowerer) lowerLocationRead(loc *ast.Location) llir.Operand {
	name := loc.Identifier.Name()
	if !loc.IsIndexed() {
		dst := l.newTemp()
		l.emit(&llir.Assignment{Kind: llir.Move, Destination: dst, Src: llir.FieldOperand(name)})
		return llir.FieldOperand(dst)
	}
	index := l.lowerExpression(loc.Index)
	l.emitBoundsCheck(index, name)
	dst := l.newTemp()
	l.emit(&llir.Assignment{Kind: llir.ArrayAccess, Destination: dst, Src: llir.FieldOperand(name), Index: index})
	return llir.FieldOperand(dst)
}

// emitBoundsCheck emits the BRANCH(LT, unsigned) array-bounds check of
// spec.md §4.4: continue lowering in the "safe" block, terminate the
// "out-of-bounds" block with EXIT(-1).
func (l *Lowerer) emitBoundsCheck(index llir.Operand, arrayName string) {
	desc, _ := l.table.GetField(arrayName)
	safe := l.newBlock()
	oob := l.newBlock()
	l.branchTo(llir.BranchLt, true, index, llir.LitOperand(desc.ArrayLength), safe, oob)

	l.switchTo(oob)
	l.setExit(-1)

	l.switchTo(safe)
}

func (l *Lowerer) lowerMethodCallExpr(call *ast.MethodCall) llir.Operand {
	dst := l.lowerMethodCallInto(call)
	return llir.FieldOperand(dst)
}

// lowerMethodCallInto lowers a method call's arguments and emits the
// METHOD_CALL assignment, returning the destination temp's name.
func (l *Lowerer) lowerMethodCallInto(call *ast.MethodCall) string {
	args := make([]llir.Operand, len(call.Arguments))
	for i, arg := range call.Arguments {
		if arg.Kind == ast.ArgString {
			args[i] = llir.StringOperand(arg.String.Value())
		} else {
			args[i] = l.lowerExpression(arg.Expression)
		}
	}
	dst := l.newTemp()
	l.emit(&llir.Assignment{Kind: llir.MethodCall, Destination: dst, Callee: call.Identifier.Name(), Arguments: args})
	return dst
}

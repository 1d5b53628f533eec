package parser

import (
	"github.com/decaflang/decafc/ast"
	"github.com/decaflang/decafc/token"
)

// parseExpressionUntil locates the first occurrence, at paren/bracket depth
// zero, of one of stopKinds and parses the tokens strictly before it as one
// expression, advancing p.pos to (but not past) that stop token. The caller
// consumes the stop token itself. This is how the grammar's fixed
// terminators (';', ')', ']', ',') bound an expression without the
// expression grammar needing to know what follows it.
func (p *Parser) parseExpressionUntil(stopKinds ...token.Kind) *ast.Expression {
	lo := p.pos
	hi := p.findBoundary(stopKinds)
	if hi < 0 {
		p.errorHere("unterminated expression")
		return nil
	}
	if hi == lo {
		p.errorHere("expected an expression")
		return nil
	}
	expr := p.parseExpr(lo, hi)
	p.pos = hi
	return expr
}

// findBoundary scans forward from p.pos for the first token at depth zero
// whose kind is in stopKinds, returning its index, or -1 if the stream ends
// first.
func (p *Parser) findBoundary(stopKinds []token.Kind) int {
	depth := 0
	for i := p.pos; i < len(p.toks); i++ {
		k := p.toks[i].Kind
		if depth == 0 {
			for _, s := range stopKinds {
				if k == s {
					return i
				}
			}
		}
		switch k {
		case token.OpenParen, token.OpenBracket:
			depth++
		case token.CloseParen, token.CloseBracket:
			depth--
		}
	}
	return -1
}

// parseExpr resolves the token range [lo, hi) into an expression tree: it
// scans for the lowest-precedence top-level binary operator (ties broken
// rightmost, for left-associativity) and splits the range around it; with no
// top-level operator found, the whole range must be a single unary
// expression.
func (p *Parser) parseExpr(lo, hi int) *ast.Expression {
	opIdx, op := p.findSplitOperator(lo, hi)
	if opIdx < 0 {
		u := p.parseUnaryBounded(lo, hi)
		if u == nil {
			return nil
		}
		return &ast.Expression{Kind: ast.ExprUnary, Unary: u}
	}
	left := p.parseExpr(lo, opIdx)
	right := p.parseExpr(opIdx+1, hi)
	if left == nil || right == nil {
		return nil
	}
	return &ast.Expression{Kind: ast.ExprBinary, Binary: &ast.BinaryExpression{
		Left: left, Operator: op, Right: right, Tok: p.toks[opIdx],
	}}
}

// binaryOpKind maps a token kind to its BinaryOperator, reporting ok=false
// for tokens that are never binary operators.
func binaryOpKind(k token.Kind) (ast.BinaryOperator, bool) {
	switch k {
	case token.Or:
		return ast.OpOr, true
	case token.And:
		return ast.OpAnd, true
	case token.Equal:
		return ast.OpEqual, true
	case token.NotEqual:
		return ast.OpNotEqual, true
	case token.Less:
		return ast.OpLess, true
	case token.LessEqual:
		return ast.OpLessEqual, true
	case token.GreaterEqual:
		return ast.OpGreaterEqual, true
	case token.Greater:
		return ast.OpGreater, true
	case token.Add:
		return ast.OpAdd, true
	case token.Sub:
		return ast.OpSub, true
	case token.Mul:
		return ast.OpMul, true
	case token.Div:
		return ast.OpDiv, true
	case token.Mod:
		return ast.OpMod, true
	default:
		return 0, false
	}
}

// findSplitOperator scans [lo, hi) tracking parenthesization depth and
// collects every top-level binary-operator candidate; '-' only counts as
// binary if the immediately preceding top-level token is itself not a
// binary operator and not '!' (otherwise it is a unary negation that the
// unary parser will handle instead — this is the one ambiguous token in the
// grammar, e.g. "a - -b"). Among all candidates it returns the one with the
// lowest precedence, breaking ties toward the rightmost occurrence so that
// same-precedence operators associate left-to-right.
func (p *Parser) findSplitOperator(lo, hi int) (int, ast.BinaryOperator) {
	type candidate struct {
		idx  int
		op   ast.BinaryOperator
		prec int
	}
	var best candidate
	found := false

	depth := 0
	for i := lo; i < hi; i++ {
		k := p.toks[i].Kind
		switch k {
		case token.OpenParen, token.OpenBracket:
			depth++
			continue
		case token.CloseParen, token.CloseBracket:
			depth--
			continue
		}
		if depth != 0 {
			continue
		}
		op, ok := binaryOpKind(k)
		if !ok {
			continue
		}
		if k == token.Sub {
			prevIsOperand := i > lo && !isOperatorOrNot(p.toks[i-1].Kind)
			if !prevIsOperand {
				continue // unary minus, not a split point
			}
		}
		prec := op.Precedence()
		if !found || prec < best.prec || (prec == best.prec && i > best.idx) {
			best = candidate{idx: i, op: op, prec: prec}
			found = true
		}
	}
	if !found {
		return -1, 0
	}
	return best.idx, best.op
}

// isOperatorOrNot reports whether k is a binary operator or '!' — tokens
// after which a following '-' must be a unary negation, not subtraction.
func isOperatorOrNot(k token.Kind) bool {
	if k == token.Not {
		return true
	}
	_, ok := binaryOpKind(k)
	return ok
}

// parseUnaryBounded parses the token range [lo, hi) as exactly one of the
// unary expression forms (spec.md §3.2/§4.2, tried in this order): a
// literal with an optional leading '-', `len(ident)`, a method call, a
// location, `!`-negation, `-`-negation, or a parenthesized expression.
func (p *Parser) parseUnaryBounded(lo, hi int) *ast.UnaryExpression {
	if lo >= hi {
		p.errorHere("expected an expression")
		return nil
	}
	n := hi - lo

	// literal, with optional leading '-'
	if lit, ok := p.tryLiteralBounded(lo, hi); ok {
		return &ast.UnaryExpression{Kind: ast.UnaryLiteral, Literal: lit}
	}

	// len(ident)
	if n == 4 && p.toks[lo].Kind == token.KeywordLen && p.toks[lo+1].Kind == token.OpenParen &&
		p.toks[lo+2].Kind == token.Identifier && p.toks[lo+3].Kind == token.CloseParen {
		return &ast.UnaryExpression{Kind: ast.UnaryLen, LenIdent: &ast.Identifier{Tok: p.toks[lo+2]}}
	}

	// method call: ident ( args )
	if p.toks[lo].Kind == token.Identifier && lo+1 < hi && p.toks[lo+1].Kind == token.OpenParen &&
		p.toks[hi-1].Kind == token.CloseParen {
		call := p.parseMethodCallBounded(lo, hi)
		if call == nil {
			return nil
		}
		return &ast.UnaryExpression{Kind: ast.UnaryMethodCall, Call: call}
	}

	// location: ident, or ident [ index ]
	if p.toks[lo].Kind == token.Identifier {
		if n == 1 {
			return &ast.UnaryExpression{Kind: ast.UnaryLocation, Location: &ast.Location{Identifier: &ast.Identifier{Tok: p.toks[lo]}}}
		}
		if p.toks[lo+1].Kind == token.OpenBracket && p.toks[hi-1].Kind == token.CloseBracket {
			idx := p.parseExpr(lo+2, hi-1)
			if idx == nil {
				return nil
			}
			return &ast.UnaryExpression{Kind: ast.UnaryLocation, Location: &ast.Location{
				Identifier: &ast.Identifier{Tok: p.toks[lo]}, Index: idx,
			}}
		}
	}

	// !expr
	if p.toks[lo].Kind == token.Not {
		inner := p.parseUnaryBounded(lo+1, hi)
		if inner == nil {
			return nil
		}
		return &ast.UnaryExpression{Kind: ast.UnaryNot, Operand: inner}
	}

	// -expr (unary negation of a non-literal operand; literal negation was
	// already tried above)
	if p.toks[lo].Kind == token.Sub {
		inner := p.parseUnaryBounded(lo+1, hi)
		if inner == nil {
			return nil
		}
		return &ast.UnaryExpression{Kind: ast.UnaryNegate, Operand: inner}
	}

	// ( expr )
	if p.toks[lo].Kind == token.OpenParen && p.toks[hi-1].Kind == token.CloseParen && matchesParen(p.toks[lo:hi]) {
		inner := p.parseExpr(lo+1, hi-1)
		if inner == nil {
			return nil
		}
		return &ast.UnaryExpression{Kind: ast.UnaryParen, Paren: inner}
	}

	p.reportUnexpected(lo)
	return nil
}

// tryLiteralBounded recognizes [lo,hi) as a bare literal, with an optional
// leading '-' legal only before int/char literals.
func (p *Parser) tryLiteralBounded(lo, hi int) (*ast.Literal, bool) {
	n := hi - lo
	negate := false
	i := lo
	if n == 2 && p.toks[lo].Kind == token.Sub {
		negate = true
		i = lo + 1
	} else if n != 1 {
		return nil, false
	}
	t := p.toks[i]
	switch t.Kind {
	case token.DecimalLiteral:
		return &ast.Literal{Negate: negate, Kind: ast.LitInt, IntLit: &ast.IntLiteral{Base: ast.BaseDecimal, Tok: t}}, true
	case token.HexLiteral:
		return &ast.Literal{Negate: negate, Kind: ast.LitInt, IntLit: &ast.IntLiteral{Base: ast.BaseHex, Tok: t}}, true
	case token.CharLiteral:
		return &ast.Literal{Negate: negate, Kind: ast.LitChar, CharLit: &ast.CharLiteral{Tok: t}}, true
	case token.KeywordTrue:
		if negate {
			return nil, false
		}
		return &ast.Literal{Kind: ast.LitBool, BoolLit: &ast.BoolLiteral{Value: ast.BoolTrue, Tok: t}}, true
	case token.KeywordFalse:
		if negate {
			return nil, false
		}
		return &ast.Literal{Kind: ast.LitBool, BoolLit: &ast.BoolLiteral{Value: ast.BoolFalse, Tok: t}}, true
	default:
		return nil, false
	}
}

// parseMethodCallBounded parses [lo,hi) as `ident ( arg (, arg)* )`, known
// to start with an identifier and '(' and end with ')'.
func (p *Parser) parseMethodCallBounded(lo, hi int) *ast.MethodCall {
	call := &ast.MethodCall{Identifier: &ast.Identifier{Tok: p.toks[lo]}}
	argLo := lo + 2
	argHi := hi - 1
	if argLo == argHi {
		return call
	}
	depth := 0
	start := argLo
	for i := argLo; i < argHi; i++ {
		switch p.toks[i].Kind {
		case token.OpenParen, token.OpenBracket:
			depth++
		case token.CloseParen, token.CloseBracket:
			depth--
		case token.Comma:
			if depth == 0 {
				arg := p.parseMethodCallArgBounded(start, i)
				if arg == nil {
					return nil
				}
				call.Arguments = append(call.Arguments, arg)
				start = i + 1
			}
		}
	}
	last := p.parseMethodCallArgBounded(start, argHi)
	if last == nil {
		return nil
	}
	call.Arguments = append(call.Arguments, last)
	return call
}

func (p *Parser) parseMethodCallArgBounded(lo, hi int) *ast.MethodCallArgument {
	if hi-lo == 1 && p.toks[lo].Kind == token.StringLiteral {
		return &ast.MethodCallArgument{Kind: ast.ArgString, String: &ast.StringLiteral{Tok: p.toks[lo]}}
	}
	expr := p.parseExpr(lo, hi)
	if expr == nil {
		return nil
	}
	return &ast.MethodCallArgument{Kind: ast.ArgExpression, Expression: expr}
}

// matchesParen reports whether toks[0] and toks[len-1] are a matching
// opening/closing parenthesis pair for the whole span — i.e. depth never
// returns to zero before the final token. Without this check,
// "(a) + (b)" would wrongly be mistaken for a single parenthesized
// expression spanning the whole range (its leading '(' and trailing ')' do
// not actually pair with each other); findSplitOperator already prevents
// that case from reaching here since it would have found the top-level '+',
// but the check is kept as a direct guard against a malformed range.
func matchesParen(toks []token.Token) bool {
	depth := 0
	for i, t := range toks {
		switch t.Kind {
		case token.OpenParen, token.OpenBracket:
			depth++
		case token.CloseParen, token.CloseBracket:
			depth--
		}
		if depth == 0 && i != len(toks)-1 {
			return false
		}
	}
	return depth == 0
}

// reportUnexpected reports a generic "unexpected token" diagnostic anchored
// at index lo, or an end-of-file diagnostic if lo is past the last token.
func (p *Parser) reportUnexpected(lo int) {
	if lo >= len(p.toks) {
		if len(p.toks) > 0 {
			last := p.toks[len(p.toks)-1]
			p.diags.ErrorAt(last.Line(), last.Column(), "expected an expression")
			return
		}
		p.diags.Error("expected an expression")
		return
	}
	t := p.toks[lo]
	p.diags.ErrorAt(t.Line(), t.Column(), "unexpected token %q in expression", t.Text())
}

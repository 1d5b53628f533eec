package parser

import (
	"github.com/decaflang/decafc/ast"
	"github.com/decaflang/decafc/token"
)

// parseStatement dispatches on the leading token to one of the statement
// productions of spec.md §3.1. A bare identifier leads either a method-call
// statement (identifier directly followed by '(') or an assignment
// statement (identifier, optionally subscripted, followed by an assignment
// operator or ++/--).
func (p *Parser) parseStatement() *ast.Statement {
	startTok := p.peek(0)
	switch startTok.Kind {
	case token.KeywordIf:
		return p.parseIfStatement(startTok)
	case token.KeywordFor:
		return p.parseForStatement(startTok)
	case token.KeywordWhile:
		return p.parseWhileStatement(startTok)
	case token.KeywordReturn:
		return p.parseReturnStatement(startTok)
	case token.KeywordBreak:
		p.advance()
		if _, ok := p.expect(token.Semicolon, "expected ';' after 'break'"); !ok {
			return nil
		}
		return &ast.Statement{Kind: ast.StmtBreak, Tok: startTok}
	case token.KeywordContinue:
		p.advance()
		if _, ok := p.expect(token.Semicolon, "expected ';' after 'continue'"); !ok {
			return nil
		}
		return &ast.Statement{Kind: ast.StmtContinue, Tok: startTok}
	case token.Identifier:
		if p.peek(1).Kind == token.OpenParen {
			call := p.parseMethodCall()
			if call == nil {
				return nil
			}
			if _, ok := p.expect(token.Semicolon, "expected ';' after method call"); !ok {
				return nil
			}
			return &ast.Statement{Kind: ast.StmtMethodCall, Tok: startTok, Call: call}
		}
		assign := p.parseAssignStatement()
		if assign == nil {
			return nil
		}
		if _, ok := p.expect(token.Semicolon, "expected ';' after assignment"); !ok {
			return nil
		}
		return &ast.Statement{Kind: ast.StmtAssign, Tok: startTok, Assign: assign}
	default:
		p.errorHere("expected a statement")
		return nil
	}
}

func (p *Parser) parseIfStatement(startTok token.Token) *ast.Statement {
	p.advance() // 'if'
	if _, ok := p.expect(token.OpenParen, "expected '(' after 'if'"); !ok {
		return nil
	}
	cond := p.parseExpressionUntil(token.CloseParen)
	if cond == nil {
		return nil
	}
	if _, ok := p.expect(token.CloseParen, "expected ')' after if-condition"); !ok {
		return nil
	}
	then := p.parseBlock()
	if then == nil {
		return nil
	}
	ifs := &ast.IfStatement{Condition: cond, Then: then}
	if _, ok := p.accept(token.KeywordElse); ok {
		elseBlock := p.parseBlock()
		if elseBlock == nil {
			return nil
		}
		ifs.Else = elseBlock
	}
	return &ast.Statement{Kind: ast.StmtIf, Tok: startTok, If: ifs}
}

func (p *Parser) parseForStatement(startTok token.Token) *ast.Statement {
	p.advance() // 'for'
	if _, ok := p.expect(token.OpenParen, "expected '(' after 'for'"); !ok {
		return nil
	}
	iv := p.parseIdentifier("expected induction variable name")
	if iv == nil {
		return nil
	}
	if _, ok := p.expect(token.Assign, "expected '=' in for-loop initializer"); !ok {
		return nil
	}
	init := p.parseExpressionUntil(token.Semicolon)
	if init == nil {
		return nil
	}
	if _, ok := p.expect(token.Semicolon, "expected ';' after for-loop initializer"); !ok {
		return nil
	}
	cond := p.parseExpressionUntil(token.Semicolon)
	if cond == nil {
		return nil
	}
	if _, ok := p.expect(token.Semicolon, "expected ';' after for-loop condition"); !ok {
		return nil
	}
	update := p.parseForUpdate()
	if update == nil {
		return nil
	}
	if _, ok := p.expect(token.CloseParen, "expected ')' after for-loop update"); !ok {
		return nil
	}
	body := p.parseBlock()
	if body == nil {
		return nil
	}
	return &ast.Statement{Kind: ast.StmtFor, Tok: startTok, For: &ast.ForStatement{
		InductionVar: iv, Init: init, Condition: cond, Update: update, Body: body,
	}}
}

func (p *Parser) parseForUpdate() *ast.ForUpdate {
	if !p.at(token.Identifier) {
		p.errorHere("expected a for-loop update")
		return nil
	}
	if p.peek(1).Kind == token.OpenParen {
		call := p.parseMethodCall()
		if call == nil {
			return nil
		}
		return &ast.ForUpdate{Kind: ast.ForUpdateCall, Call: call}
	}
	assign := p.parseAssignStatement()
	if assign == nil {
		return nil
	}
	return &ast.ForUpdate{Kind: ast.ForUpdateAssign, Assign: assign}
}

func (p *Parser) parseWhileStatement(startTok token.Token) *ast.Statement {
	p.advance() // 'while'
	if _, ok := p.expect(token.OpenParen, "expected '(' after 'while'"); !ok {
		return nil
	}
	cond := p.parseExpressionUntil(token.CloseParen)
	if cond == nil {
		return nil
	}
	if _, ok := p.expect(token.CloseParen, "expected ')' after while-condition"); !ok {
		return nil
	}
	body := p.parseBlock()
	if body == nil {
		return nil
	}
	return &ast.Statement{Kind: ast.StmtWhile, Tok: startTok, While: &ast.WhileStatement{Condition: cond, Body: body}}
}

func (p *Parser) parseReturnStatement(startTok token.Token) *ast.Statement {
	p.advance() // 'return'
	if _, ok := p.accept(token.Semicolon); ok {
		return &ast.Statement{Kind: ast.StmtReturn, Tok: startTok}
	}
	expr := p.parseExpressionUntil(token.Semicolon)
	if expr == nil {
		return nil
	}
	if _, ok := p.expect(token.Semicolon, "expected ';' after return expression"); !ok {
		return nil
	}
	return &ast.Statement{Kind: ast.StmtReturn, Tok: startTok, ReturnExpr: expr}
}

// parseAssignStatement parses `location (= | += | -= | *= | /= | %= expr | ++ | --)`
// without consuming a trailing terminator; callers decide whether ';' or
// ')' ends the statement (for-loop updates use the latter).
func (p *Parser) parseAssignStatement() *ast.AssignStatement {
	loc := p.parseLocation()
	if loc == nil {
		return nil
	}
	as := &ast.AssignStatement{Location: loc}

	switch p.peek(0).Kind {
	case token.Increment:
		p.advance()
		as.IsIncrement = true
		as.Increment = ast.IncAdd
		return as
	case token.Decrement:
		p.advance()
		as.IsIncrement = true
		as.Increment = ast.IncSub
		return as
	}

	op, ok := p.parseAssignOperator()
	if !ok {
		return nil
	}
	as.Operator = op
	expr := p.parseExpressionUntil(token.Semicolon, token.CloseParen)
	if expr == nil {
		return nil
	}
	as.Expression = expr
	return as
}

func (p *Parser) parseAssignOperator() (ast.AssignOperator, bool) {
	switch p.peek(0).Kind {
	case token.Assign:
		p.advance()
		return ast.AssignSet, true
	case token.AddAssign:
		p.advance()
		return ast.AssignAdd, true
	case token.SubAssign:
		p.advance()
		return ast.AssignSub, true
	case token.MulAssign:
		p.advance()
		return ast.AssignMul, true
	case token.DivAssign:
		p.advance()
		return ast.AssignDiv, true
	case token.ModAssign:
		p.advance()
		return ast.AssignMod, true
	default:
		p.errorHere("expected an assignment operator")
		return 0, false
	}
}

func (p *Parser) parseLocation() *ast.Location {
	id := p.parseIdentifier("expected a location")
	if id == nil {
		return nil
	}
	loc := &ast.Location{Identifier: id}
	if _, ok := p.accept(token.OpenBracket); ok {
		idx := p.parseExpressionUntil(token.CloseBracket)
		if idx == nil {
			return nil
		}
		if _, ok := p.expect(token.CloseBracket, "expected ']' after array index"); !ok {
			return nil
		}
		loc.Index = idx
	}
	return loc
}

// parseMethodCall parses `identifier ( arg (, arg)* )`.
func (p *Parser) parseMethodCall() *ast.MethodCall {
	id := p.parseIdentifier("expected a method name")
	if id == nil {
		return nil
	}
	if _, ok := p.expect(token.OpenParen, "expected '(' after method name"); !ok {
		return nil
	}
	call := &ast.MethodCall{Identifier: id}
	if !p.at(token.CloseParen) {
		for {
			arg := p.parseMethodCallArgument()
			if arg == nil {
				return nil
			}
			call.Arguments = append(call.Arguments, arg)
			if _, ok := p.accept(token.Comma); !ok {
				break
			}
		}
	}
	if _, ok := p.expect(token.CloseParen, "expected ')' after call arguments"); !ok {
		return nil
	}
	return call
}

func (p *Parser) parseMethodCallArgument() *ast.MethodCallArgument {
	if p.at(token.StringLiteral) {
		t := p.advance()
		return &ast.MethodCallArgument{Kind: ast.ArgString, String: &ast.StringLiteral{Tok: t}}
	}
	expr := p.parseExpressionUntil(token.Comma, token.CloseParen)
	if expr == nil {
		return nil
	}
	return &ast.MethodCallArgument{Kind: ast.ArgExpression, Expression: expr}
}

package parser

import (
	"github.com/decaflang/decafc/ast"
	"github.com/decaflang/decafc/token"
)

// parseProgram parses imports, then field declarations, then methods, in
// that order (spec.md §3.1's top-level grammar). A declaration that fails to
// parse is skipped via synchronizeStatement so later declarations still get
// a chance to report their own errors.
func (p *Parser) parseProgram() *ast.Program {
	prog := &ast.Program{}

	for p.at(token.KeywordImport) {
		if imp := p.parseImport(); imp != nil {
			prog.Imports = append(prog.Imports, imp)
		} else {
			p.synchronizeStatement()
		}
	}

	for p.isFieldDeclStart() {
		if fd := p.parseFieldDecl(); fd != nil {
			prog.Fields = append(prog.Fields, fd)
		} else {
			p.synchronizeStatement()
		}
	}

	for p.isMethodStart() {
		if m := p.parseMethod(); m != nil {
			prog.Methods = append(prog.Methods, m)
		} else {
			p.synchronizeStatement()
		}
	}

	return prog
}

func (p *Parser) parseImport() *ast.Import {
	p.advance() // 'import'
	id := p.parseIdentifier("expected identifier after 'import'")
	if id == nil {
		return nil
	}
	if _, ok := p.expect(token.Semicolon, "expected ';' after import"); !ok {
		return nil
	}
	return &ast.Import{Identifier: id}
}

func (p *Parser) parseIdentifier(msg string) *ast.Identifier {
	t, ok := p.expect(token.Identifier, msg)
	if !ok {
		return nil
	}
	return &ast.Identifier{Tok: t}
}

// isFieldDeclStart reports whether the current position begins a field
// declaration: an optional 'const', a scalar type keyword, an identifier,
// and then anything other than '(' — the trailing check is what tells a
// field apart from a method declaration sharing the same type-keyword
// prefix ("int x;" vs "int main() {").
func (p *Parser) isFieldDeclStart() bool {
	k := 0
	if p.peek(0).Kind == token.KeywordConst {
		k = 1
	}
	kind := p.peek(k).Kind
	if kind != token.KeywordInt && kind != token.KeywordBool {
		return false
	}
	if p.peek(k+1).Kind != token.Identifier {
		return false
	}
	return p.peek(k+2).Kind != token.OpenParen
}

// isMethodStart reports whether the current position begins a method
// declaration: a return-type keyword (int/bool/void) followed by an
// identifier and '('. Distinguished from a field declaration by the absence
// of 'const' and by a following '(' rather than an identifier list.
func (p *Parser) isMethodStart() bool {
	kind := p.peek(0).Kind
	if kind != token.KeywordInt && kind != token.KeywordBool && kind != token.KeywordVoid {
		return false
	}
	return p.peek(1).Kind == token.Identifier && p.peek(2).Kind == token.OpenParen
}

func (p *Parser) parseScalarType() (ast.ScalarType, bool) {
	switch {
	case p.at(token.KeywordInt):
		p.advance()
		return ast.Int, true
	case p.at(token.KeywordBool):
		p.advance()
		return ast.Bool, true
	default:
		p.errorHere("expected 'int' or 'bool'")
		return 0, false
	}
}

// parseFieldDecl parses `[const] type ident (, ident)* ;`.
func (p *Parser) parseFieldDecl() *ast.FieldDecl {
	fd := &ast.FieldDecl{}
	if _, ok := p.accept(token.KeywordConst); ok {
		fd.Const = true
	}
	ty, ok := p.parseScalarType()
	if !ok {
		return nil
	}
	fd.Type = ty

	for {
		fi := p.parseFieldIdentifier()
		if fi == nil {
			return nil
		}
		fd.Identifiers = append(fd.Identifiers, fi)
		if _, ok := p.accept(token.Comma); !ok {
			break
		}
	}
	if _, ok := p.expect(token.Semicolon, "expected ';' after field declaration"); !ok {
		return nil
	}
	return fd
}

func (p *Parser) parseFieldIdentifier() *ast.FieldIdentifier {
	id := p.parseIdentifier("expected field name")
	if id == nil {
		return nil
	}
	fi := &ast.FieldIdentifier{Identifier: id}

	if _, ok := p.accept(token.OpenBracket); ok {
		lenTok, ok := p.expect(token.DecimalLiteral, "expected array length")
		if !ok {
			return nil
		}
		if _, ok := p.expect(token.CloseBracket, "expected ']' after array length"); !ok {
			return nil
		}
		fi.ArrayLength = &ast.IntLiteral{Base: ast.BaseDecimal, Tok: lenTok}
	}

	if _, ok := p.accept(token.Assign); ok {
		init := p.parseInitializer(fi.IsArray())
		if init == nil {
			return nil
		}
		fi.Initializer = init
	}
	return fi
}

// parseInitializer parses either a bare literal (scalar) or a brace-enclosed
// literal list (array), matching the shape expected for isArray.
func (p *Parser) parseInitializer(isArray bool) *ast.Initializer {
	if !isArray {
		lit := p.parseLiteral()
		if lit == nil {
			return nil
		}
		return &ast.Initializer{Kind: ast.InitLiteral, Literal: lit}
	}

	if _, ok := p.expect(token.OpenBrace, "expected '{' to begin array initializer"); !ok {
		return nil
	}
	init := &ast.Initializer{Kind: ast.InitArrayLiteral}
	for {
		lit := p.parseLiteral()
		if lit == nil {
			return nil
		}
		init.ArrayLiteral = append(init.ArrayLiteral, lit)
		if _, ok := p.accept(token.Comma); !ok {
			break
		}
	}
	if _, ok := p.expect(token.CloseBrace, "expected '}' after array initializer"); !ok {
		return nil
	}
	return init
}

// parseLiteral parses a bare int/char/bool literal, with an optional leading
// '-' (legal only in front of int and char literals, spec.md §3.2).
func (p *Parser) parseLiteral() *ast.Literal {
	negate := false
	if _, ok := p.accept(token.Sub); ok {
		negate = true
	}
	switch {
	case p.at(token.DecimalLiteral):
		t := p.advance()
		return &ast.Literal{Negate: negate, Kind: ast.LitInt, IntLit: &ast.IntLiteral{Base: ast.BaseDecimal, Tok: t}}
	case p.at(token.HexLiteral):
		t := p.advance()
		return &ast.Literal{Negate: negate, Kind: ast.LitInt, IntLit: &ast.IntLiteral{Base: ast.BaseHex, Tok: t}}
	case p.at(token.CharLiteral):
		t := p.advance()
		return &ast.Literal{Negate: negate, Kind: ast.LitChar, CharLit: &ast.CharLiteral{Tok: t}}
	case !negate && p.at(token.KeywordTrue):
		t := p.advance()
		return &ast.Literal{Kind: ast.LitBool, BoolLit: &ast.BoolLiteral{Value: ast.BoolTrue, Tok: t}}
	case !negate && p.at(token.KeywordFalse):
		t := p.advance()
		return &ast.Literal{Kind: ast.LitBool, BoolLit: &ast.BoolLiteral{Value: ast.BoolFalse, Tok: t}}
	default:
		p.errorHere("expected a literal")
		return nil
	}
}

// parseMethod parses `returnType ident ( args ) block`.
func (p *Parser) parseMethod() *ast.Method {
	rt, ok := p.parseReturnType()
	if !ok {
		return nil
	}
	id := p.parseIdentifier("expected method name")
	if id == nil {
		return nil
	}
	if _, ok := p.expect(token.OpenParen, "expected '(' after method name"); !ok {
		return nil
	}
	var args []*ast.MethodArgument
	if !p.at(token.CloseParen) {
		for {
			arg := p.parseMethodArgument()
			if arg == nil {
				return nil
			}
			args = append(args, arg)
			if _, ok := p.accept(token.Comma); !ok {
				break
			}
		}
	}
	if _, ok := p.expect(token.CloseParen, "expected ')' after method arguments"); !ok {
		return nil
	}
	block := p.parseBlock()
	if block == nil {
		return nil
	}
	return &ast.Method{ReturnType: rt, Identifier: id, Arguments: args, Block: block}
}

func (p *Parser) parseReturnType() (ast.ReturnType, bool) {
	switch {
	case p.at(token.KeywordInt):
		p.advance()
		return ast.RetInt, true
	case p.at(token.KeywordBool):
		p.advance()
		return ast.RetBool, true
	case p.at(token.KeywordVoid):
		p.advance()
		return ast.RetVoid, true
	default:
		p.errorHere("expected a return type")
		return 0, false
	}
}

func (p *Parser) parseMethodArgument() *ast.MethodArgument {
	ty, ok := p.parseScalarType()
	if !ok {
		return nil
	}
	id := p.parseIdentifier("expected argument name")
	if id == nil {
		return nil
	}
	return &ast.MethodArgument{Type: ty, Identifier: id}
}

// parseBlock parses `{ fieldDecl* statement* }`.
func (p *Parser) parseBlock() *ast.Block {
	if _, ok := p.expect(token.OpenBrace, "expected '{' to begin block"); !ok {
		return nil
	}
	block := &ast.Block{}
	for p.isFieldDeclStart() {
		fd := p.parseFieldDecl()
		if fd == nil {
			p.synchronizeStatement()
			continue
		}
		block.Fields = append(block.Fields, fd)
	}
	for !p.at(token.CloseBrace) && p.peek(0).Kind != eof {
		st := p.parseStatement()
		if st == nil {
			p.synchronizeStatement()
			continue
		}
		block.Statements = append(block.Statements, st)
	}
	if _, ok := p.expect(token.CloseBrace, "expected '}' to end block"); !ok {
		return nil
	}
	return block
}

package ast_test

import (
	"testing"

	"github.com/decaflang/decafc/ast"
	"github.com/decaflang/decafc/token"
)

func intTok(text string) token.Token {
	return token.Token{Kind: token.DecimalLiteral, Offset: 0, Length: len(text), Source: text}
}

func TestScalarTypeString(t *testing.T) {
	if got := ast.Int.String(); got != "int" {
		t.Errorf("Int.String() = %q, want %q", got, "int")
	}
	if got := ast.Bool.String(); got != "bool" {
		t.Errorf("Bool.String() = %q, want %q", got, "bool")
	}
}

func TestReturnTypeString(t *testing.T) {
	cases := map[ast.ReturnType]string{
		ast.RetInt:  "int",
		ast.RetBool: "bool",
		ast.RetVoid: "void",
	}
	for rt, want := range cases {
		if got := rt.String(); got != want {
			t.Errorf("%v.String() = %q, want %q", rt, got, want)
		}
	}
}

func TestFieldIdentifierIsArray(t *testing.T) {
	scalar := &ast.FieldIdentifier{Identifier: &ast.Identifier{}}
	if scalar.IsArray() {
		t.Error("a FieldIdentifier with no ArrayLength should not be an array")
	}
	array := &ast.FieldIdentifier{
		Identifier:  &ast.Identifier{},
		ArrayLength: &ast.IntLiteral{Tok: intTok("4")},
	}
	if !array.IsArray() {
		t.Error("a FieldIdentifier with an ArrayLength should be an array")
	}
}

func TestLocationIsIndexed(t *testing.T) {
	scalar := &ast.Location{Identifier: &ast.Identifier{}}
	if scalar.IsIndexed() {
		t.Error("a Location with no Index should not be indexed")
	}
	indexed := &ast.Location{
		Identifier: &ast.Identifier{},
		Index:      &ast.Expression{},
	}
	if !indexed.IsIndexed() {
		t.Error("a Location with an Index should be indexed")
	}
}

func TestBinaryOperatorPrecedenceOrdering(t *testing.T) {
	ops := []ast.BinaryOperator{
		ast.OpOr, ast.OpAnd, ast.OpEqual, ast.OpLess, ast.OpAdd, ast.OpMul,
	}
	for i := 1; i < len(ops); i++ {
		if ops[i].Precedence() <= ops[i-1].Precedence() {
			t.Errorf("%v.Precedence() = %d, want higher than %v.Precedence() = %d",
				ops[i], ops[i].Precedence(), ops[i-1], ops[i-1].Precedence())
		}
	}
	// equal-precedence siblings
	if ast.OpEqual.Precedence() != ast.OpNotEqual.Precedence() {
		t.Error("OpEqual and OpNotEqual should share a precedence level")
	}
	if ast.OpDiv.Precedence() != ast.OpMul.Precedence() || ast.OpMod.Precedence() != ast.OpMul.Precedence() {
		t.Error("OpMul, OpDiv, and OpMod should share the highest precedence level")
	}
}

func TestBinaryOperatorIsLogical(t *testing.T) {
	for _, op := range []ast.BinaryOperator{ast.OpOr, ast.OpAnd} {
		if !op.IsLogical() {
			t.Errorf("%v.IsLogical() = false, want true", op)
		}
	}
	for _, op := range []ast.BinaryOperator{ast.OpEqual, ast.OpAdd, ast.OpMul} {
		if op.IsLogical() {
			t.Errorf("%v.IsLogical() = true, want false", op)
		}
	}
}

func TestIntLiteralValueDecimalAndHex(t *testing.T) {
	dec := &ast.IntLiteral{Base: ast.BaseDecimal, Tok: intTok("42")}
	if got := dec.Value(); got != 42 {
		t.Errorf("decimal Value() = %d, want 42", got)
	}
	hexTok := token.Token{Kind: token.HexLiteral, Offset: 0, Length: 4, Source: "0x2a"}
	hex := &ast.IntLiteral{Base: ast.BaseHex, Tok: hexTok}
	if got := hex.Value(); got != 42 {
		t.Errorf("hex Value() = %d, want 42", got)
	}
}

func TestCharLiteralValue(t *testing.T) {
	tok := token.Token{Kind: token.CharLiteral, Offset: 0, Length: 3, Source: "'a'"}
	lit := &ast.CharLiteral{Tok: tok}
	if got := lit.Value(); got != int64('a') {
		t.Errorf("Value() = %d, want %d", got, int64('a'))
	}
}

func TestStringLiteralValue(t *testing.T) {
	src := `"hi\n"`
	tok := token.Token{Kind: token.StringLiteral, Offset: 0, Length: len(src), Source: src}
	lit := &ast.StringLiteral{Tok: tok}
	if got := lit.Value(); got != "hi\n" {
		t.Errorf("Value() = %q, want %q", got, "hi\n")
	}
}

func TestIdentifierName(t *testing.T) {
	tok := token.Token{Kind: token.Identifier, Offset: 0, Length: 3, Source: "foo"}
	id := &ast.Identifier{Tok: tok}
	if got := id.Name(); got != "foo" {
		t.Errorf("Name() = %q, want %q", got, "foo")
	}
}

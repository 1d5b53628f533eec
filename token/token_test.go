package token_test

import (
	"testing"

	"github.com/decaflang/decafc/token"
)

func TestTokenTextLineColumn(t *testing.T) {
	src := "int x;\nint y = 1;\n"
	tok := token.Token{Kind: token.KeywordInt, Offset: 7, Length: 3, Source: src}
	if tok.Text() != "int" {
		t.Fatalf("Text() = %q, want %q", tok.Text(), "int")
	}
	if tok.Line() != 2 {
		t.Fatalf("Line() = %d, want 2", tok.Line())
	}
	if tok.Column() != 1 {
		t.Fatalf("Column() = %d, want 1", tok.Column())
	}
}

func TestTokenIntValue(t *testing.T) {
	data := []struct {
		kind token.Kind
		text string
		want int64
	}{
		{token.DecimalLiteral, "1234", 1234},
		{token.HexLiteral, "0x1A", 26},
	}
	for _, d := range data {
		tok := token.Token{Kind: d.kind, Offset: 0, Length: len(d.text), Source: d.text}
		if got := tok.IntValue(); got != d.want {
			t.Errorf("IntValue(%q) = %d, want %d", d.text, got, d.want)
		}
	}
}

func TestTokenIntValuePanicsOnWrongKind(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic calling IntValue on a non-integer token")
		}
	}()
	tok := token.Token{Kind: token.Identifier, Offset: 0, Length: 1, Source: "x"}
	tok.IntValue()
}

func TestTokenCharValue(t *testing.T) {
	data := []struct {
		text string
		want int64
	}{
		{"'a'", int64('a')},
		{`'\n'`, int64('\n')},
		{`'\t'`, int64('\t')},
		{`'\\'`, int64('\\')},
	}
	for _, d := range data {
		tok := token.Token{Kind: token.CharLiteral, Offset: 0, Length: len(d.text), Source: d.text}
		if got := tok.CharValue(); got != d.want {
			t.Errorf("CharValue(%q) = %d, want %d", d.text, got, d.want)
		}
	}
}

func TestTokenStringValue(t *testing.T) {
	text := `"hello\nworld"`
	tok := token.Token{Kind: token.StringLiteral, Offset: 0, Length: len(text), Source: text}
	if got, want := tok.StringValue(), "hello\nworld"; got != want {
		t.Errorf("StringValue() = %q, want %q", got, want)
	}
}

func TestTokenBoolValue(t *testing.T) {
	trueTok := token.Token{Kind: token.KeywordTrue, Source: "true", Length: 4}
	falseTok := token.Token{Kind: token.KeywordFalse, Source: "false", Length: 5}
	if !trueTok.BoolValue() {
		t.Error("BoolValue() on KeywordTrue = false, want true")
	}
	if falseTok.BoolValue() {
		t.Error("BoolValue() on KeywordFalse = true, want false")
	}
}

func TestKindClassification(t *testing.T) {
	if !token.WHITESPACE.Ignored() {
		t.Error("WHITESPACE should be Ignored")
	}
	if token.Identifier.Ignored() {
		t.Error("Identifier should not be Ignored")
	}
	if !token.Unknown.IsError() {
		t.Error("Unknown should be IsError")
	}
	if token.Identifier.IsError() {
		t.Error("Identifier should not be IsError")
	}
	if !token.KeywordFor.IsKeyword() {
		t.Error("KeywordFor should be IsKeyword")
	}
	if token.Identifier.IsKeyword() {
		t.Error("Identifier should not be IsKeyword")
	}
}

func TestKindStringInvalid(t *testing.T) {
	if got := token.Kind(-1).String(); got != "INVALID" {
		t.Errorf("String() on an out-of-range Kind = %q, want INVALID", got)
	}
}

package lexer_test

import (
	"testing"

	"github.com/decaflang/decafc/diag"
	"github.com/decaflang/decafc/lexer"
	"github.com/decaflang/decafc/token"
)

func TestTokenizeKeywordsAndOperators(t *testing.T) {
	src := "int x = 1 + 2; if (x <= 3) { x++; }"
	diags := diag.New()
	toks, ok := lexer.New("test", src, diags).Tokenize()
	if !ok {
		t.Fatalf("unexpected failure: %v", diags.Diagnostics())
	}
	want := []token.Kind{
		token.KeywordInt, token.Identifier, token.Assign, token.DecimalLiteral,
		token.Add, token.DecimalLiteral, token.Semicolon,
		token.KeywordIf, token.OpenParen, token.Identifier, token.LessEqual,
		token.DecimalLiteral, token.CloseParen, token.OpenBrace,
		token.Identifier, token.Increment, token.Semicolon, token.CloseBrace,
	}
	if len(toks) != len(want) {
		t.Fatalf("got %d tokens, want %d: %v", len(toks), len(want), toks)
	}
	for i, k := range want {
		if toks[i].Kind != k {
			t.Errorf("token %d: kind = %s, want %s", i, toks[i].Kind, k)
		}
	}
}

func TestTokenizeIgnoresWhitespaceAndComments(t *testing.T) {
	src := "  // a comment\n  /* block */ x  "
	diags := diag.New()
	toks, ok := lexer.New("test", src, diags).Tokenize()
	if !ok {
		t.Fatalf("unexpected failure: %v", diags.Diagnostics())
	}
	if len(toks) != 1 || toks[0].Kind != token.Identifier {
		t.Fatalf("got %v, want a single Identifier token", toks)
	}
}

func TestTokenizeKeywordBeatsIdentifierPrefix(t *testing.T) {
	diags := diag.New()
	toks, ok := lexer.New("test", "intake", diags).Tokenize()
	if !ok {
		t.Fatalf("unexpected failure: %v", diags.Diagnostics())
	}
	if len(toks) != 1 || toks[0].Kind != token.Identifier || toks[0].Text() != "intake" {
		t.Fatalf("got %v, want a single Identifier %q", toks, "intake")
	}
}

func TestTokenizeLessEqualBeatsLess(t *testing.T) {
	diags := diag.New()
	toks, ok := lexer.New("test", "<=", diags).Tokenize()
	if !ok {
		t.Fatalf("unexpected failure: %v", diags.Diagnostics())
	}
	if len(toks) != 1 || toks[0].Kind != token.LessEqual {
		t.Fatalf("got %v, want a single LessEqual token", toks)
	}
}

func TestTokenizeReportsLexicalErrors(t *testing.T) {
	data := []struct {
		name string
		src  string
	}{
		{"unterminated char", "'a"},
		{"empty char", "''"},
		{"unterminated string", "\"hello"},
		{"unterminated comment", "/* never closes"},
		{"incomplete hex", "0x"},
	}
	for _, d := range data {
		diags := diag.New()
		_, ok := lexer.New(d.name, d.src, diags).Tokenize()
		if ok {
			t.Errorf("%s: expected failure, got success", d.name)
		}
		if !diags.Failed() {
			t.Errorf("%s: expected at least one diagnostic", d.name)
		}
	}
}

func TestTokenizeUnknownByteFallback(t *testing.T) {
	diags := diag.New()
	_, ok := lexer.New("test", "@", diags).Tokenize()
	if ok {
		t.Fatal("expected failure on an unrecognized byte")
	}
	diagsList := diags.Diagnostics()
	if len(diagsList) != 1 {
		t.Fatalf("got %d diagnostics, want 1: %v", len(diagsList), diagsList)
	}
}

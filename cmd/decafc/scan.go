package main

import (
	"fmt"
	"io"

	"github.com/decaflang/decafc/token"
)

// printTokens implements the `scan` target's output format (spec.md §6.1):
// one token per line, "<line> [CATEGORY ]<lexeme>".
func printTokens(w io.Writer, toks []token.Token) {
	for _, tok := range toks {
		if cat := tokenCategory(tok.Kind); cat != "" {
			fmt.Fprintf(w, "%d %s %s\n", tok.Line(), cat, tok.Text())
			continue
		}
		fmt.Fprintf(w, "%d %s\n", tok.Line(), tok.Text())
	}
}

func tokenCategory(k token.Kind) string {
	switch k {
	case token.CharLiteral:
		return "CHARLITERAL"
	case token.HexLiteral, token.DecimalLiteral:
		return "INTLITERAL"
	case token.KeywordTrue, token.KeywordFalse:
		return "BOOLEANLITERAL"
	case token.StringLiteral:
		return "STRINGLITERAL"
	case token.Identifier:
		return "IDENTIFIER"
	default:
		return ""
	}
}

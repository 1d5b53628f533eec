// Package lexer implements the Decaf scanner (spec.md §4.1): one merged
// alternation regex over every token.Kind in priority order, matched
// repeatedly at the current offset.
package lexer

import (
	"fmt"
	"regexp"
	"strings"
	"sync"

	"github.com/decaflang/decafc/diag"
	"github.com/decaflang/decafc/token"
)

// scanKinds is every token.Kind that carries a regex pattern, in priority
// order; Unknown has no pattern of its own (it is the scanner's one-byte
// fallback) and is excluded so its submatch index isn't needed. RE2 (Go's
// regexp) has no negative-lookahead primitive to spell "never matches", so
// rather than try to express one the unmatchable kind is simply left out of
// the alternation, and winningKind below indexes into this slice instead of
// the full token.Kinds() list.
var scanKinds = func() []token.Kind {
	var ks []token.Kind
	for _, k := range token.Kinds() {
		if k.Pattern() != "" {
			ks = append(ks, k)
		}
	}
	return ks
}()

// mergedRegex is built once: "(k0)|(k1)|...|(kn)" over scanKinds, exactly as
// original_source/src/scanner/scanner.c's merge_regex_patterns builds its
// GRegex.
var mergedRegex = sync.OnceValue(func() *regexp.Regexp {
	parts := make([]string, len(scanKinds))
	for i, k := range scanKinds {
		parts[i] = "(" + k.Pattern() + ")"
	}
	// Deliberately not re.Longest(): Go's regexp, like the original's PCRE-
	// based GRegex, defaults to leftmost-first alternation — the first
	// listed branch that matches at a position wins, even if a later branch
	// would match more text. That is exactly the priority spec.md §4.1
	// requires (LessEqual before Less, keywords before Identifier via \b).
	return regexp.MustCompile(strings.Join(parts, "|"))
})

// Lexer tokenizes one source buffer.
type Lexer struct {
	name   string
	source string
	pos    int
	diags  *diag.Collector
}

// New creates a Lexer over source, reporting diagnostics through diags.
// name is used only to make a notional "file" identity available to callers
// that want to tag diagnostics (the Decaf toolchain otherwise has no
// multi-file notion, matching spec.md's single-source-file scope).
func New(name, source string, diags *diag.Collector) *Lexer {
	return &Lexer{name: name, source: source, diags: diags}
}

// Tokenize scans the entire source and returns the non-ignored, non-error
// token stream plus a pass/fail flag, mirroring
// original_source/src/scanner/scanner.c's scanner_tokenize. Lexical errors
// are reported to the Lexer's diag.Collector and scanning continues past
// them (spec.md §7's propagation rule: a pass keeps going to surface more
// diagnostics).
func (l *Lexer) Tokenize() ([]token.Token, bool) {
	var out []token.Token
	for {
		tok, ok := l.next()
		if !ok {
			break
		}
		if tok.Kind.Ignored() {
			continue
		}
		if tok.Kind.IsError() {
			l.diags.ErrorAt(tok.Line(), tok.Column(), "%s: %s", tok.Kind.ErrorMessage(), tok.Text())
			if l.diags.Abort() {
				break
			}
			continue
		}
		out = append(out, tok)
	}
	return out, !l.diags.Failed()
}

// next returns the next token at the current scan position, or ok=false at
// end of source. It implements the priority-ordered match-at-offset-zero
// algorithm of spec.md §4.1 (leftmost-first, see mergedRegex): attempt a
// match anchored at the current position; if
// nothing captures starting at offset 0 of the remaining source, consume one
// byte as Unknown.
func (l *Lexer) next() (token.Token, bool) {
	if l.pos >= len(l.source) {
		return token.Token{}, false
	}

	rest := l.source[l.pos:]
	re := mergedRegex()
	loc := re.FindStringSubmatchIndex(rest)

	if loc == nil || loc[0] != 0 {
		// No capture starts at offset 0: one unrecognized byte, matching
		// scanner.c's fallback path ("*length = start; return UNKNOWN" when
		// start != 0, or "*length = strlen(source); return UNKNOWN" when no
		// match at all — here we only ever need to skip one byte at a time
		// since a single arbitrary byte always matches no group).
		tok := token.Token{Kind: token.Unknown, Offset: l.pos, Length: 1, Source: l.source}
		l.pos++
		return tok, true
	}

	kind := winningKind(loc)
	length := loc[1] - loc[0]
	tok := token.Token{Kind: kind, Offset: l.pos, Length: length, Source: l.source}
	l.pos += length
	return tok, true
}

// winningKind returns the token.Kind of the first capture group with a
// non -1 start in loc, mirroring scanner.c's get_matched_token_type: groups
// are tried in declaration (priority) order and the first to have matched
// wins, which is how keyword-vs-identifier and multi-char-vs-single-char
// operator priority is enforced.
func winningKind(loc []int) token.Kind {
	for i, k := range scanKinds {
		start := loc[2+2*i]
		if start != -1 {
			return k
		}
	}
	return token.Unknown
}

// Position describes a scanner location for error reporting outside the
// token stream (used by callers that only have a byte offset).
type Position struct {
	Line, Column int
}

// String implements fmt.Stringer.
func (p Position) String() string { return fmt.Sprintf("%d:%d", p.Line, p.Column) }

// Package parser implements the Decaf recursive-descent parser (spec.md
// §4.2): LL(2)-sufficient declaration and statement grammar, with a
// precedence-climbing resolver for binary expressions that scans forward for
// the lowest-precedence top-level operator and splits around it.
package parser

import (
	"github.com/decaflang/decafc/ast"
	"github.com/decaflang/decafc/diag"
	"github.com/decaflang/decafc/token"
)

// eof is a sentinel Kind returned by peek past the end of the token stream.
// It never matches any real token.Kind, so `at(anyRealKind)` is always false
// there; diagnostics fall back to the last real token's position.
const eof token.Kind = -1

// Parser consumes a token stream produced by lexer.Tokenize and builds an
// *ast.Program, or fails. It never panics; a failed parse simply returns
// ok=false with diagnostics recorded on its Collector (spec.md §4.2's error
// policy).
type Parser struct {
	toks  []token.Token
	pos   int
	diags *diag.Collector
}

// New creates a Parser over toks, reporting diagnostics through diags.
func New(toks []token.Token, diags *diag.Collector) *Parser {
	return &Parser{toks: toks, diags: diags}
}

// Parse parses the entire token stream as a Program. Extra tokens at end of
// stream are an error (spec.md §4.2).
func (p *Parser) Parse() (*ast.Program, bool) {
	prog := p.parseProgram()
	if p.pos != len(p.toks) {
		p.errorHere("unexpected token %q after end of program", p.peek(0).Text())
	}
	return prog, !p.diags.Failed()
}

// --- core lookahead/consumption primitives (spec.md §4.2) ---

// peek examines the kind at relative position k without advancing.
func (p *Parser) peek(k int) token.Token {
	i := p.pos + k
	if i < 0 || i >= len(p.toks) {
		return token.Token{Kind: eof}
	}
	return p.toks[i]
}

func (p *Parser) at(kind token.Kind) bool { return p.peek(0).Kind == kind }

// advance consumes and returns the current token. Calling it past eof is a
// parser bug (every call site checks at()/peek() first).
func (p *Parser) advance() token.Token {
	t := p.toks[p.pos]
	p.pos++
	return t
}

// accept conditionally consumes a token of the given kind.
func (p *Parser) accept(kind token.Kind) (token.Token, bool) {
	if p.at(kind) {
		return p.advance(), true
	}
	return token.Token{}, false
}

// expect consumes a token of the given kind or reports msg at the current
// position and returns ok=false, leaving the stream unmoved so the caller
// can attempt recovery.
func (p *Parser) expect(kind token.Kind, msg string) (token.Token, bool) {
	if t, ok := p.accept(kind); ok {
		return t, true
	}
	p.errorHere("%s", msg)
	return token.Token{}, false
}

// errorHere reports a diagnostic at the current token's position, or at the
// last token's position (pointing just past end of file) if the stream is
// exhausted.
func (p *Parser) errorHere(format string, args ...interface{}) {
	if p.diags.Abort() {
		return
	}
	if p.pos < len(p.toks) {
		t := p.toks[p.pos]
		p.diags.ErrorAt(t.Line(), t.Column(), format, args...)
		return
	}
	if len(p.toks) > 0 {
		last := p.toks[len(p.toks)-1]
		p.diags.ErrorAt(last.Line(), last.Column(), format, args...)
		return
	}
	p.diags.Error(format, args...)
}

// synchronizeStatement consumes tokens up to and including the next
// semicolon or closing brace, a minimal best-effort recovery so that one bad
// statement does not cascade into hundreds of spurious diagnostics. This is
// not re-synchronization in the sense spec.md's Non-goals forbid (we never
// try to recover parser *state*, only to stop burning through every
// remaining token as garbage); it merely bounds how much noise one error
// produces.
func (p *Parser) synchronizeStatement() {
	for p.pos < len(p.toks) {
		t := p.advance()
		if t.Kind == token.Semicolon || t.Kind == token.CloseBrace {
			return
		}
	}
}

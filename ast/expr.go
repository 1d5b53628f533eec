package ast

import "github.com/decaflang/decafc/token"

// ExpressionKind selects which payload of an Expression is populated.
type ExpressionKind int

const (
	ExprBinary ExpressionKind = iota
	ExprUnary
)

// Expression is the root of the mutually recursive expression tree:
// either a Binary node or a Unary node (spec.md §3.2).
type Expression struct {
	Kind   ExpressionKind
	Binary *BinaryExpression // ExprBinary
	Unary  *UnaryExpression  // ExprUnary
}

// BinaryOperator enumerates the binary connectives, in precedence order
// low-to-high as required by spec.md §4.2: Or, And, equality, relational,
// additive, multiplicative.
type BinaryOperator int

const (
	OpOr BinaryOperator = iota
	OpAnd
	OpEqual
	OpNotEqual
	OpLess
	OpLessEqual
	OpGreaterEqual
	OpGreater
	OpAdd
	OpSub
	OpMul
	OpDiv
	OpMod
)

// Precedence returns op's binding power: higher binds tighter. Used by the
// parser's lowest-precedence-operator search (spec.md §4.2).
func (op BinaryOperator) Precedence() int {
	switch op {
	case OpOr:
		return 1
	case OpAnd:
		return 2
	case OpEqual, OpNotEqual:
		return 3
	case OpLess, OpLessEqual, OpGreaterEqual, OpGreater:
		return 4
	case OpAdd, OpSub:
		return 5
	default: // OpMul, OpDiv, OpMod
		return 6
	}
}

// IsLogical reports whether op is one of the short-circuiting connectives.
func (op BinaryOperator) IsLogical() bool { return op == OpOr || op == OpAnd }

// BinaryExpression is `left op right`.
type BinaryExpression struct {
	Left     *Expression
	Operator BinaryOperator
	Right    *Expression
	Tok      token.Token // operator token, for diagnostics
}

// UnaryExpressionKind selects which payload of a UnaryExpression is
// populated.
type UnaryExpressionKind int

const (
	UnaryLocation UnaryExpressionKind = iota
	UnaryMethodCall
	UnaryLiteral
	UnaryLen
	UnaryNegate
	UnaryNot
	UnaryParen
)

// UnaryExpression covers every expression form that is not a binary
// connective: a location, a method call used as a value, a literal, `len`,
// logical/arithmetic negation, and parenthesization.
type UnaryExpression struct {
	Kind UnaryExpressionKind

	Location   *Location   // UnaryLocation
	Call       *MethodCall // UnaryMethodCall
	Literal    *Literal    // UnaryLiteral
	LenIdent   *Identifier // UnaryLen
	Operand    *UnaryExpression // UnaryNegate, UnaryNot
	Paren      *Expression // UnaryParen
}

// LiteralKind selects which payload of a Literal is populated.
type LiteralKind int

const (
	LitInt LiteralKind = iota
	LitChar
	LitBool
)

// Literal is an int, char, or bool literal, with an optional leading `-`
// (only meaningful, and only ever present, on int/char literals — spec.md
// §3.2 notes this negate flag belongs to literals, not to the general unary
// expression production).
type Literal struct {
	Negate bool
	Kind   LiteralKind

	IntLit  *IntLiteral  // LitInt
	CharLit *CharLiteral // LitChar
	BoolLit *BoolLiteral // LitBool
}

// IntLiteralBase distinguishes decimal from hex spelling (no semantic
// difference once parsed to an int64).
type IntLiteralBase int

const (
	BaseDecimal IntLiteralBase = iota
	BaseHex
)

// IntLiteral is a decimal or hex integer literal.
type IntLiteral struct {
	Base IntLiteralBase
	Tok  token.Token
}

// Value returns the literal's int64 value (never negated; Literal.Negate
// applies the sign).
func (l *IntLiteral) Value() int64 { return l.Tok.IntValue() }

// CharLiteral is a single-quoted character literal.
type CharLiteral struct{ Tok token.Token }

// Value returns the literal's integer value.
func (l *CharLiteral) Value() int64 { return l.Tok.CharValue() }

// BoolLiteralValue is the spelled boolean value.
type BoolLiteralValue int

const (
	BoolTrue BoolLiteralValue = iota
	BoolFalse
)

// BoolLiteral is `true` or `false`.
type BoolLiteral struct {
	Value BoolLiteralValue
	Tok   token.Token
}

// StringLiteral is a double-quoted string, legal only as an argument to an
// imported method (spec.md §1).
type StringLiteral struct{ Tok token.Token }

// Value returns the literal's unescaped string contents.
func (l *StringLiteral) Value() string { return l.Tok.StringValue() }

// Package ast defines the Decaf concrete syntax tree (spec.md §3.2): a
// tagged-variant tree where a Kind field selects which of several payload
// fields on a node is populated. The root owns the entire tree; there is no
// sharing between subtrees.
package ast

import "github.com/decaflang/decafc/token"

// ScalarType is the type of a field or method argument.
type ScalarType int

const (
	Int ScalarType = iota
	Bool
)

func (t ScalarType) String() string {
	if t == Bool {
		return "bool"
	}
	return "int"
}

// ReturnType extends ScalarType with Void for method declarations.
type ReturnType int

const (
	RetInt ReturnType = iota
	RetBool
	RetVoid
)

func (t ReturnType) String() string {
	switch t {
	case RetBool:
		return "bool"
	case RetVoid:
		return "void"
	default:
		return "int"
	}
}

// Identifier is a name occurrence, carrying the token it was spelled with so
// diagnostics can point at the source.
type Identifier struct {
	Tok token.Token
}

// Name returns the identifier's spelling.
func (id *Identifier) Name() string { return id.Tok.Text() }

// Program is the root of the tree: import declarations, then field
// declarations, then method declarations, in source order.
type Program struct {
	Imports []*Import
	Fields  []*FieldDecl
	Methods []*Method
}

// Import is a single `import <identifier>;` declaration naming an external
// (C runtime) method.
type Import struct {
	Identifier *Identifier
}

// FieldDecl is one `[const] (int|bool) ident[, ident ...];` declaration. It
// may introduce several field identifiers sharing the same constness and
// scalar type.
type FieldDecl struct {
	Const      bool
	Type       ScalarType
	Identifiers []*FieldIdentifier
}

// FieldIdentifier is one declared name within a FieldDecl: a plain scalar, or
// (if ArrayLength is non-nil) a fixed-size array, with an optional
// initializer.
type FieldIdentifier struct {
	Identifier  *Identifier
	ArrayLength *IntLiteral // nil for scalars
	Initializer *Initializer // nil if not initialized
}

// IsArray reports whether this declared identifier is an array.
func (f *FieldIdentifier) IsArray() bool { return f.ArrayLength != nil }

// InitializerKind selects which payload of an Initializer is populated.
type InitializerKind int

const (
	InitLiteral InitializerKind = iota
	InitArrayLiteral
)

// Initializer is either a single literal (scalar fields) or a brace-enclosed
// literal list (array fields). Its Kind must agree with the field's
// array-ness (spec.md §3.2 invariant).
type Initializer struct {
	Kind         InitializerKind
	Literal      *Literal   // InitLiteral
	ArrayLiteral []*Literal // InitArrayLiteral
}

// Method is a `(int|bool|void) ident(args) block` declaration.
type Method struct {
	ReturnType ReturnType
	Identifier *Identifier
	Arguments  []*MethodArgument
	Block      *Block
}

// MethodArgument is one (type, identifier) pair in a method's parameter
// list. Decaf passes all arguments by value (spec.md §1).
type MethodArgument struct {
	Type       ScalarType
	Identifier *Identifier
}

// Block is a brace-enclosed sequence of local field declarations followed by
// statements.
type Block struct {
	Fields     []*FieldDecl
	Statements []*Statement
}

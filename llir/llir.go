// Package llir defines the low-level intermediate representation lowering
// produces and the optimizer rewrites: a flat, three-address,
// block-structured form (spec.md §3.4). Blocks are identified by index into
// a Method's Blocks slice rather than by pointer, so that back-edges (loops)
// are plain integers and never need cycle-aware ownership management — the
// one deliberate redesign away from original_source/src/assembly/llir.h's
// pointer-linked node list, which this form replaces rather than adapts.
package llir

// DataType is the type of a field, matching ast.ScalarType plus Void for
// method return types with no value.
type DataType int

const (
	Int DataType = iota
	Bool
	Void
)

// Program is the root: every global field, then every method, in source
// declaration order (spec.md's ordering-determinism rule).
type Program struct {
	Fields  []*Field
	Methods []*Method
}

// Field is a declared scalar or array. Scalars have ValueCount 1.
// Initializers carries the literal initial values: an array always has
// ValueCount entries (zero-filled where the source gave none), a scalar
// without an initializer has none; Program.Fields' MOVE/ARRAY_UPDATE materialization of
// these happens at lowering time into main's entry block, per spec.md §4.4.
type Field struct {
	Identifier   string
	ScopeLevel   int
	IsArray      bool
	ValueCount   int64
	Initializers []int64
}

// Method is a declared or imported method. Imported methods have no block
// list and no Arguments, and the emitter treats them as external symbols.
type Method struct {
	Identifier string
	Imported   bool
	ReturnType DataType
	Arguments  []*Field
	Blocks     []*Block
}

// Block is a basic block: local field declarations, an ordered instruction
// list, and exactly one terminal. Predecessors is populated by lowering as
// it wires jumps/branches, not recomputed by a separate pass, since every
// terminal creation site already knows its own targets.
type Block struct {
	Index        int
	Fields       []*Field
	Assignments  []*Assignment
	Terminal     *Terminal
	Predecessors []int
}

// OperandKind selects which payload of an Operand is populated.
type OperandKind int

const (
	OperandLiteral OperandKind = iota
	OperandField
	OperandString
)

// Operand is one operand of an assignment or terminal: a literal, a
// reference to a field by identifier (resolved against globals or the
// emitter's stack-offset table), or a string constant (legal only as a
// METHOD_CALL argument).
type Operand struct {
	Kind    OperandKind
	Literal int64  // OperandLiteral
	Field   string // OperandField
	String  string // OperandString
}

// LitOperand builds a literal operand.
func LitOperand(v int64) Operand { return Operand{Kind: OperandLiteral, Literal: v} }

// FieldOperand builds a field-reference operand.
func FieldOperand(id string) Operand { return Operand{Kind: OperandField, Field: id} }

// StringOperand builds a string-constant operand.
func StringOperand(s string) Operand { return Operand{Kind: OperandString, String: s} }

// AssignKind is the opcode of an Assignment.
type AssignKind int

const (
	Move AssignKind = iota
	Not
	Negate
	Add
	Sub
	Mul
	Div
	Mod
	Eq
	Ne
	Lt
	Le
	Gt
	Ge
	ArrayAccess
	ArrayUpdate
	MethodCall
)

// unaryKinds and binaryKinds classify AssignKind for callers that need to
// know how many source operands a kind carries without a type switch.
var unaryKinds = map[AssignKind]bool{Move: true, Not: true, Negate: true}
var binaryKinds = map[AssignKind]bool{Add: true, Sub: true, Mul: true, Div: true, Mod: true, Eq: true, Ne: true, Lt: true, Le: true, Gt: true, Ge: true}

// IsUnary reports whether k takes exactly one source operand (Src).
func (k AssignKind) IsUnary() bool { return unaryKinds[k] }

// IsBinary reports whether k takes exactly two source operands (Left, Right).
func (k AssignKind) IsBinary() bool { return binaryKinds[k] }

// Assignment is one three-address instruction. Exactly the operand fields
// relevant to Kind are populated; see spec.md §3.4's per-kind operand list.
type Assignment struct {
	Kind        AssignKind
	Destination string // field identifier; for ArrayUpdate, the array name

	Src   Operand // Move, Not, Negate; also ArrayAccess's source array name
	Left  Operand // binary kinds
	Right Operand // binary kinds

	Index Operand // ArrayAccess, ArrayUpdate
	Value Operand // ArrayUpdate

	Callee    string    // MethodCall
	Arguments []Operand // MethodCall
}

// TerminalKind is the opcode of a block Terminal.
type TerminalKind int

const (
	Jump TerminalKind = iota
	Branch
	Return
	Exit
)

// BranchKind is the comparison a BRANCH terminal evaluates between Left and
// Right before choosing TrueBlock or FalseBlock.
type BranchKind int

const (
	BranchEq BranchKind = iota
	BranchNe
	BranchLt
	BranchLe
	BranchGt
	BranchGe
)

// Terminal ends a block. Exactly the fields relevant to Kind are populated.
type Terminal struct {
	Kind TerminalKind

	Target int // Jump: the single successor block index

	BranchKind BranchKind // Branch
	Unsigned   bool       // Branch (array-bounds checks compare unsigned)
	Left       Operand    // Branch
	Right      Operand    // Branch
	TrueBlock  int        // Branch
	FalseBlock int         // Branch

	HasValue bool    // Return: whether Value is populated
	Value    Operand // Return

	ExitCode Operand // Exit: literal exit code
}

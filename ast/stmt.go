package ast

import "github.com/decaflang/decafc/token"

// StatementKind selects which payload of a Statement is populated.
type StatementKind int

const (
	StmtAssign StatementKind = iota
	StmtMethodCall
	StmtIf
	StmtFor
	StmtWhile
	StmtReturn
	StmtBreak
	StmtContinue
)

// Statement is one statement node. Exactly one of the payload fields
// matching Kind is non-nil.
type Statement struct {
	Kind StatementKind
	Tok  token.Token // first token of the statement, for diagnostics

	Assign     *AssignStatement // StmtAssign
	Call       *MethodCall      // StmtMethodCall
	If         *IfStatement     // StmtIf
	For        *ForStatement    // StmtFor
	While      *WhileStatement  // StmtWhile
	ReturnExpr *Expression      // StmtReturn; nil means bare `return;`
}

// AssignOperator is the operator of a non-increment assignment.
type AssignOperator int

const (
	AssignSet AssignOperator = iota
	AssignAdd
	AssignSub
	AssignMul
	AssignDiv
	AssignMod
)

// IncrementOperator distinguishes `++` from `--`.
type IncrementOperator int

const (
	IncAdd IncrementOperator = iota
	IncSub
)

// AssignStatement is `location (assign-operator expr | ++ | --) ;`.
type AssignStatement struct {
	Location *Location

	IsIncrement bool
	Increment   IncrementOperator // valid when IsIncrement
	Operator    AssignOperator    // valid when !IsIncrement
	Expression  *Expression       // valid when !IsIncrement
}

// MethodCall is `identifier ( argument-list )`, usable both as a statement
// and (via UnaryMethodCall) as an expression.
type MethodCall struct {
	Identifier *Identifier
	Arguments  []*MethodCallArgument
}

// MethodCallArgumentKind selects the payload of a MethodCallArgument.
type MethodCallArgumentKind int

const (
	ArgExpression MethodCallArgumentKind = iota
	ArgString
)

// MethodCallArgument is one call argument: an expression, or (only legal as
// an argument to an imported method, per spec.md §1) a string literal.
type MethodCallArgument struct {
	Kind       MethodCallArgumentKind
	Expression *Expression    // ArgExpression
	String     *StringLiteral // ArgString
}

// IfStatement is `if (cond) thenBlock [else elseBlock]`.
type IfStatement struct {
	Condition *Expression
	Then      *Block
	Else      *Block // nil if no else clause
}

// ForStatement is `for (iv = init; cond; update) body`.
type ForStatement struct {
	InductionVar *Identifier
	Init         *Expression
	Condition    *Expression
	Update       *ForUpdate
	Body         *Block
}

// ForUpdateKind selects the payload of a ForUpdate.
type ForUpdateKind int

const (
	ForUpdateAssign ForUpdateKind = iota
	ForUpdateCall
)

// ForUpdate is the third clause of a for-loop: either an assignment
// (including increment/decrement) or a bare method call.
type ForUpdate struct {
	Kind   ForUpdateKind
	Assign *AssignStatement // ForUpdateAssign
	Call   *MethodCall      // ForUpdateCall
}

// WhileStatement is `while (cond) body`.
type WhileStatement struct {
	Condition *Expression
	Body      *Block
}

// Location is an identifier, optionally subscripted by an index expression
// denoting an array element.
type Location struct {
	Identifier *Identifier
	Index      *Expression // nil for a scalar location
}

// IsIndexed reports whether this location denotes an array element.
func (l *Location) IsIndexed() bool { return l.Index != nil }

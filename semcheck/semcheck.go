// Package semcheck is a minimal semantic analyzer bridging the parser's
// *ast.Program to the well-typed, scope-resolved tree that lowering
// assumes as its input (spec.md §1 treats semantic analysis as an external
// collaborator; this package supplements just enough of it — undeclared
// identifiers, type mismatches, redeclaration, wrong argument counts, per
// spec.md §7's semantic-error taxonomy — to drive the pipeline end to end).
// It does not build a separate typed tree: lower reads *ast.Program
// directly, re-resolving scopes itself as it walks (spec.md §4.4's lowering
// state already includes its own symbol table).
package semcheck

import (
	"github.com/decaflang/decafc/ast"
	"github.com/decaflang/decafc/diag"
	"github.com/decaflang/decafc/symtab"
)

// Checker holds the transient state of one semantic-checking pass.
type Checker struct {
	table *symtab.Table
	diags *diag.Collector

	// returnType is the declared return type of the method currently being
	// checked, used to validate `return` statements.
	returnType ast.ReturnType
	// inLoop counts nested for/while bodies, used to reject break/continue
	// outside a loop.
	inLoop int
}

// Check walks prog, reporting semantic errors to diags, and returns
// ok=false if any were found (spec.md §7's pass-level failure flag).
func Check(prog *ast.Program, diags *diag.Collector) bool {
	c := &Checker{table: symtab.New(), diags: diags}
	c.checkProgram(prog)
	return !diags.Failed()
}

func (c *Checker) checkProgram(prog *ast.Program) {
	for _, imp := range prog.Imports {
		name := imp.Identifier.Name()
		if err := c.table.SetMethod(name, &symtab.MethodDescriptor{Imported: true, ReturnType: ast.RetInt}); err != nil {
			c.diags.Error("%s", err)
		}
	}
	for _, fd := range prog.Fields {
		c.checkFieldDecl(fd)
	}
	for _, m := range prog.Methods {
		argTypes := make([]ast.ScalarType, len(m.Arguments))
		for i, a := range m.Arguments {
			argTypes[i] = a.Type
		}
		if err := c.table.SetMethod(m.Identifier.Name(), &symtab.MethodDescriptor{ReturnType: m.ReturnType, ArgTypes: argTypes}); err != nil {
			c.diags.Error("%s", err)
		}
	}
	for _, m := range prog.Methods {
		c.checkMethod(m)
	}
}

func (c *Checker) checkMethod(m *ast.Method) {
	c.table.Push()
	defer c.table.Pop()
	c.returnType = m.ReturnType

	for _, arg := range m.Arguments {
		desc := &symtab.FieldDescriptor{Type: arg.Type, ScopeLevel: c.table.Level()}
		if err := c.table.SetField(arg.Identifier.Name(), desc); err != nil {
			c.diags.Error("%s", err)
		}
	}
	c.checkBlockBody(m.Block)
}

// checkFieldDecl declares each identifier in fd, validating that any
// initializer's shape and literal types agree with the declared type and
// array-ness.
func (c *Checker) checkFieldDecl(fd *ast.FieldDecl) {
	for _, fi := range fd.Identifiers {
		desc := &symtab.FieldDescriptor{Type: fd.Type, Const: fd.Const, ScopeLevel: c.table.Level()}
		if fi.IsArray() {
			desc.IsArray = true
			desc.ArrayLength = fi.ArrayLength.Value()
			if desc.ArrayLength <= 0 {
				c.diags.Error("array %q must have a positive length", fi.Identifier.Name())
			}
		}
		if fi.Initializer != nil {
			c.checkInitializer(fi, fd.Type)
		} else if fd.Const {
			c.diags.Error("const field %q must have an initializer", fi.Identifier.Name())
		}
		if err := c.table.SetField(fi.Identifier.Name(), desc); err != nil {
			c.diags.Error("%s", err)
		}
	}
}

func (c *Checker) checkInitializer(fi *ast.FieldIdentifier, declared ast.ScalarType) {
	switch fi.Initializer.Kind {
	case ast.InitLiteral:
		if fi.IsArray() {
			c.diags.Error("array %q requires a brace-enclosed initializer", fi.Identifier.Name())
			return
		}
		c.checkLiteralType(fi.Initializer.Literal, declared)
	case ast.InitArrayLiteral:
		if !fi.IsArray() {
			c.diags.Error("scalar %q cannot take a brace-enclosed initializer", fi.Identifier.Name())
			return
		}
		if int64(len(fi.Initializer.ArrayLiteral)) != fi.ArrayLength.Value() {
			c.diags.Error("array %q has length %d but %d initializer(s)",
				fi.Identifier.Name(), fi.ArrayLength.Value(), len(fi.Initializer.ArrayLiteral))
		}
		for _, lit := range fi.Initializer.ArrayLiteral {
			c.checkLiteralType(lit, declared)
		}
	}
}

func (c *Checker) checkLiteralType(lit *ast.Literal, declared ast.ScalarType) {
	got := literalType(lit)
	if got != declared {
		c.diags.Error("cannot initialize a %s field with a %s literal", declared, got)
	}
}

func literalType(lit *ast.Literal) ast.ScalarType {
	if lit.Kind == ast.LitBool {
		return ast.Bool
	}
	return ast.Int // int and char literals are both int-typed in Decaf
}

// checkBlockBody checks a method's own top-level block without pushing a
// new scope (spec.md §4.4: the method's own scope already covers it).
func (c *Checker) checkBlockBody(b *ast.Block) {
	for _, fd := range b.Fields {
		c.checkFieldDecl(fd)
	}
	for _, st := range b.Statements {
		c.checkStatement(st)
	}
}

// checkNestedBlock checks a block that introduces its own scope (if/for/
// while bodies).
func (c *Checker) checkNestedBlock(b *ast.Block) {
	c.table.Push()
	defer c.table.Pop()
	c.checkBlockBody(b)
}

func (c *Checker) checkStatement(st *ast.Statement) {
	switch st.Kind {
	case ast.StmtAssign:
		c.checkAssignStatement(st.Assign)
	case ast.StmtMethodCall:
		c.checkMethodCall(st.Call)
	case ast.StmtIf:
		c.requireType(st.If.Condition, ast.Bool, "if condition")
		c.checkNestedBlock(st.If.Then)
		if st.If.Else != nil {
			c.checkNestedBlock(st.If.Else)
		}
	case ast.StmtFor:
		c.checkForStatement(st.For)
	case ast.StmtWhile:
		c.requireType(st.While.Condition, ast.Bool, "while condition")
		c.inLoop++
		c.checkNestedBlock(st.While.Body)
		c.inLoop--
	case ast.StmtReturn:
		c.checkReturn(st)
	case ast.StmtBreak, ast.StmtContinue:
		if c.inLoop == 0 {
			c.diags.Error("%s outside of a loop", map[ast.StatementKind]string{ast.StmtBreak: "break", ast.StmtContinue: "continue"}[st.Kind])
		}
	}
}

func (c *Checker) checkForStatement(f *ast.ForStatement) {
	ivDesc, ok := c.table.GetField(f.InductionVar.Name())
	if !ok {
		c.diags.Error("undeclared identifier %q", f.InductionVar.Name())
	} else if ivDesc.Type != ast.Int {
		c.diags.Error("for-loop induction variable %q must be int", f.InductionVar.Name())
	}
	c.requireType(f.Init, ast.Int, "for-loop initializer")
	c.requireType(f.Condition, ast.Bool, "for-loop condition")
	switch f.Update.Kind {
	case ast.ForUpdateAssign:
		c.checkAssignStatement(f.Update.Assign)
	case ast.ForUpdateCall:
		c.checkMethodCall(f.Update.Call)
	}
	c.inLoop++
	c.checkNestedBlock(f.Body)
	c.inLoop--
}

func (c *Checker) checkReturn(st *ast.Statement) {
	if st.ReturnExpr == nil {
		if c.returnType != ast.RetVoid {
			c.diags.Error("missing return value in a method declared to return %s", c.returnType)
		}
		return
	}
	if c.returnType == ast.RetVoid {
		c.diags.Error("void method must not return a value")
		return
	}
	want := ast.Int
	if c.returnType == ast.RetBool {
		want = ast.Bool
	}
	c.requireType(st.ReturnExpr, want, "return value")
}

func (c *Checker) checkAssignStatement(as *ast.AssignStatement) {
	desc := c.checkLocation(as.Location)
	if desc == nil {
		return
	}
	if desc.Const {
		c.diags.Error("cannot assign to const field %q", as.Location.Identifier.Name())
	}
	if as.IsIncrement {
		if desc.Type != ast.Int {
			c.diags.Error("++/-- requires an int location")
		}
		return
	}
	if as.Operator != ast.AssignSet && desc.Type != ast.Int {
		c.diags.Error("compound assignment requires an int location")
	}
	c.requireType(as.Expression, desc.Type, "assignment")
}

// checkLocation type-checks a location's identifier/index and returns its
// field descriptor, or nil (with a diagnostic already recorded) if
// resolution failed.
func (c *Checker) checkLocation(loc *ast.Location) *symtab.FieldDescriptor {
	desc, ok := c.table.GetField(loc.Identifier.Name())
	if !ok {
		c.diags.Error("undeclared identifier %q", loc.Identifier.Name())
		return nil
	}
	if loc.IsIndexed() {
		if !desc.IsArray {
			c.diags.Error("%q is not an array", loc.Identifier.Name())
		}
		c.requireType(loc.Index, ast.Int, "array index")
	} else if desc.IsArray {
		c.diags.Error("%q is an array and must be indexed", loc.Identifier.Name())
	}
	return desc
}

func (c *Checker) checkMethodCall(call *ast.MethodCall) {
	desc, ok := c.table.GetMethod(call.Identifier.Name())
	if !ok {
		c.diags.Error("undeclared method %q", call.Identifier.Name())
		for _, arg := range call.Arguments {
			if arg.Kind == ast.ArgExpression {
				c.checkExpression(arg.Expression)
			}
		}
		return
	}
	if !desc.Imported && len(call.Arguments) != len(desc.ArgTypes) {
		c.diags.Error("method %q expects %d argument(s), got %d", call.Identifier.Name(), len(desc.ArgTypes), len(call.Arguments))
	}
	for i, arg := range call.Arguments {
		if arg.Kind == ast.ArgString {
			if !desc.Imported {
				c.diags.Error("string arguments are only legal in calls to imported methods")
			}
			continue
		}
		got, ok := c.checkExpression(arg.Expression)
		if !ok || desc.Imported || i >= len(desc.ArgTypes) {
			continue
		}
		if got != desc.ArgTypes[i] {
			c.diags.Error("argument %d to %q has type %s, want %s", i+1, call.Identifier.Name(), got, desc.ArgTypes[i])
		}
	}
}

// requireType checks that expr has exactly type want, reporting a mismatch
// tagged with context.
func (c *Checker) requireType(expr *ast.Expression, want ast.ScalarType, context string) {
	got, ok := c.checkExpression(expr)
	if ok && got != want {
		c.diags.Error("%s must be %s, got %s", context, want, got)
	}
}

// checkExpression type-checks expr and returns its ScalarType, or ok=false
// if it could not be determined (a diagnostic has already been recorded).
func (c *Checker) checkExpression(expr *ast.Expression) (ast.ScalarType, bool) {
	if expr.Kind == ast.ExprBinary {
		return c.checkBinary(expr.Binary)
	}
	return c.checkUnary(expr.Unary)
}

func (c *Checker) checkBinary(b *ast.BinaryExpression) (ast.ScalarType, bool) {
	left, lok := c.checkExpression(b.Left)
	right, rok := c.checkExpression(b.Right)
	if !lok || !rok {
		return 0, false
	}
	switch b.Operator {
	case ast.OpOr, ast.OpAnd:
		c.mustBe(left, ast.Bool, b.Tok.Text())
		c.mustBe(right, ast.Bool, b.Tok.Text())
		return ast.Bool, true
	case ast.OpEqual, ast.OpNotEqual:
		if left != right {
			c.diags.ErrorAt(b.Tok.Line(), b.Tok.Column(), "cannot compare %s with %s", left, right)
		}
		return ast.Bool, true
	case ast.OpLess, ast.OpLessEqual, ast.OpGreaterEqual, ast.OpGreater:
		c.mustBe(left, ast.Int, b.Tok.Text())
		c.mustBe(right, ast.Int, b.Tok.Text())
		return ast.Bool, true
	default: // Add, Sub, Mul, Div, Mod
		c.mustBe(left, ast.Int, b.Tok.Text())
		c.mustBe(right, ast.Int, b.Tok.Text())
		return ast.Int, true
	}
}

func (c *Checker) mustBe(got, want ast.ScalarType, op string) {
	if got != want {
		c.diags.Error("operator %q requires %s operand(s), got %s", op, want, got)
	}
}

func (c *Checker) checkUnary(u *ast.UnaryExpression) (ast.ScalarType, bool) {
	switch u.Kind {
	case ast.UnaryLocation:
		desc := c.checkLocation(u.Location)
		if desc == nil {
			return 0, false
		}
		return desc.Type, true
	case ast.UnaryMethodCall:
		desc, ok := c.table.GetMethod(u.Call.Identifier.Name())
		c.checkMethodCall(u.Call)
		if !ok {
			return 0, false
		}
		if desc.ReturnType == ast.RetVoid {
			c.diags.Error("void method %q cannot be used as a value", u.Call.Identifier.Name())
			return 0, false
		}
		if desc.ReturnType == ast.RetBool {
			return ast.Bool, true
		}
		return ast.Int, true
	case ast.UnaryLiteral:
		return literalType(u.Literal), true
	case ast.UnaryLen:
		desc, ok := c.table.GetField(u.LenIdent.Name())
		if !ok {
			c.diags.Error("undeclared identifier %q", u.LenIdent.Name())
			return 0, false
		}
		if !desc.IsArray {
			c.diags.Error("len() requires an array, got scalar %q", u.LenIdent.Name())
		}
		return ast.Int, true
	case ast.UnaryNegate:
		got, ok := c.checkUnary(u.Operand)
		if ok && got != ast.Int {
			c.diags.Error("unary '-' requires an int operand, got %s", got)
		}
		return ast.Int, true
	case ast.UnaryNot:
		got, ok := c.checkUnary(u.Operand)
		if ok && got != ast.Bool {
			c.diags.Error("unary '!' requires a bool operand, got %s", got)
		}
		return ast.Bool, true
	case ast.UnaryParen:
		return c.checkExpression(u.Paren)
	default:
		c.diags.Error("internal error: unknown unary expression kind %d", u.Kind)
		return 0, false
	}
}

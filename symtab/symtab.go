// Package symtab implements the scope stack used during lowering (spec.md
// §3.3/§4.3): a stack of scopes, each holding two disjoint identifier maps —
// one for methods, one for fields. Lookups walk outward so inner scopes can
// shadow outer ones; redeclaration within the same scope is an error.
//
// Grounded on original_source/src/semantics/symbol_table.c's
// parent-pointer-plus-two-hash-tables design, translated from glib's
// GHashTable to Go's builtin map (spec.md's Non-goals exclude any particular
// memory-management strategy, so the C original's manual g_hash_table
// lifetime bookkeeping has no Go counterpart to adapt).
package symtab

import (
	"fmt"

	"github.com/decaflang/decafc/ast"
)

// MethodDescriptor records what lowering needs to know about a declared or
// imported method to resolve calls to it.
type MethodDescriptor struct {
	Imported   bool
	ReturnType ast.ReturnType
	ArgTypes   []ast.ScalarType
}

// FieldDescriptor records what lowering needs to know about a declared
// field (global or local) to resolve references to it: its type, whether it
// is a compile-time constant, and its array shape.
type FieldDescriptor struct {
	Type        ast.ScalarType
	Const       bool
	IsArray     bool
	ArrayLength int64
	// ScopeLevel is this field's depth in the scope stack at the point it
	// was declared (0 = global), mirroring the scope-level annotation
	// spec.md §3.4 requires LLIR fields to carry.
	ScopeLevel int
}

// Scope is one level of the stack: a disjoint method table and field table.
type Scope struct {
	parent  *Scope
	level   int
	methods map[string]*MethodDescriptor
	fields  map[string]*FieldDescriptor
}

// Table is the scope stack, rooted in a single global scope created by New.
type Table struct {
	top *Scope
}

// New creates a Table with one (global, level 0) scope already pushed.
func New() *Table {
	return &Table{top: &Scope{level: 0, methods: map[string]*MethodDescriptor{}, fields: map[string]*FieldDescriptor{}}}
}

// Push opens a new nested scope.
func (t *Table) Push() {
	t.top = &Scope{parent: t.top, level: t.top.level + 1, methods: map[string]*MethodDescriptor{}, fields: map[string]*FieldDescriptor{}}
}

// Pop closes the current scope, discarding its descriptors. Popping the
// global scope is a caller bug.
func (t *Table) Pop() {
	if t.top.parent == nil {
		panic("symtab: pop of global scope")
	}
	t.top = t.top.parent
}

// Level returns the current scope's nesting depth (0 = global).
func (t *Table) Level() int { return t.top.level }

// SetMethod declares method in the current scope. It returns an error if
// the identifier is already declared in this (not an outer) scope.
func (t *Table) SetMethod(identifier string, desc *MethodDescriptor) error {
	if _, exists := t.top.methods[identifier]; exists {
		return fmt.Errorf("illegal redeclaration of method %q", identifier)
	}
	t.top.methods[identifier] = desc
	return nil
}

// GetMethod walks outward from the current scope looking for identifier,
// returning ok=false if no scope declares it.
func (t *Table) GetMethod(identifier string) (*MethodDescriptor, bool) {
	for s := t.top; s != nil; s = s.parent {
		if d, ok := s.methods[identifier]; ok {
			return d, true
		}
	}
	return nil, false
}

// SetField declares field in the current scope. It returns an error if the
// identifier is already declared in this (not an outer) scope.
func (t *Table) SetField(identifier string, desc *FieldDescriptor) error {
	if _, exists := t.top.fields[identifier]; exists {
		return fmt.Errorf("illegal redeclaration of field %q", identifier)
	}
	t.top.fields[identifier] = desc
	return nil
}

// GetField walks outward from the current scope looking for identifier,
// returning ok=false if no scope declares it.
func (t *Table) GetField(identifier string) (*FieldDescriptor, bool) {
	for s := t.top; s != nil; s = s.parent {
		if d, ok := s.fields[identifier]; ok {
			return d, true
		}
	}
	return nil, false
}

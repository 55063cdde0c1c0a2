// Package ast defines the abstract syntax tree handed to semantic analysis.
// The set of node kinds is closed: consumers dispatch over it with a type
// switch and treat any other kind as an internal error.
package ast

import "xuc/report"

// Node is the abstract interface for all AST nodes.
type Node interface {
	// The text span of the AST.  This may be nil if the producer of the tree
	// did not record positions.
	Span() *report.TextSpan
}

// Stmt is a node which can appear in a block or at the top of a module.
type Stmt interface {
	Node

	stmtNode()
}

// Expr is a node which produces a value or names a type.
type Expr interface {
	Node

	exprNode()
}

// ASTBase is a utility base struct for all AST nodes.
type ASTBase struct {
	// The span over which the AST node occurs.
	span *report.TextSpan
}

// NewASTBaseOn creates a new AST base with the given span.
func NewASTBaseOn(span *report.TextSpan) ASTBase {
	return ASTBase{span: span}
}

func (ab ASTBase) Span() *report.TextSpan {
	return ab.span
}

// stmtBase is embedded in every statement node.
type stmtBase struct {
	ASTBase
}

func (stmtBase) stmtNode() {}

func stmtOn(span *report.TextSpan) stmtBase {
	return stmtBase{NewASTBaseOn(span)}
}

// exprBase is embedded in every expression node.
type exprBase struct {
	ASTBase
}

func (exprBase) exprNode() {}

func exprOn(span *report.TextSpan) exprBase {
	return exprBase{NewASTBaseOn(span)}
}

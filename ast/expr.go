package ast

import "xuc/common"

// The names of the literal types.
const (
	LiteralInt    = common.IntTypeName
	LiteralFloat  = common.FloatTypeName
	LiteralString = common.StringTypeName
)

// Literal is a constant value.
type Literal struct {
	exprBase

	// The literal text as written.
	Value string

	// The name of the literal's type: one of the enumerated literal types.
	Type string
}

// Name is a reference to a symbol.  Qualified names carry the expression
// being accessed as their parent: `a.b` or `a->b` if Deref is set.
type Name struct {
	exprBase

	ID     string
	Deref  bool
	Parent Expr
}

// UnaryOpExpr applies a unary operator.
type UnaryOpExpr struct {
	exprBase

	Op    *Oper
	Right Expr
}

// BinaryOpExpr applies an arithmetic or bitwise operator.
type BinaryOpExpr struct {
	exprBase

	Left  Expr
	Op    *Oper
	Right Expr
}

// AssignOpExpr assigns to a name, possibly applying an operator first.
type AssignOpExpr struct {
	exprBase

	Left  Expr
	Op    *Oper
	Right Expr
}

// LogicExpr applies a comparison or short-circuiting logical operator.
type LogicExpr struct {
	exprBase

	Left  Expr
	Op    *Oper
	Right Expr
}

// IfElseExpr is a conditional expression: `left if test else right`.
type IfElseExpr struct {
	exprBase

	Left  Expr
	Test  Expr
	Right Expr
}

// CallExpr calls an object.
type CallExpr struct {
	exprBase

	Obj Expr
	Op  *CallOperator
}

// SubscriptExpr subscripts an object.
type SubscriptExpr struct {
	exprBase

	Obj Expr
	Op  *SubscriptOperator
}

// -----------------------------------------------------------------------------

// Oper is a stateless operator.
type Oper struct {
	ASTBase

	Kind common.OpKind
}

// TypeArg is a named and typed argument: `name: Type`.
type TypeArg struct {
	Name string
	Type *Name
}

// Keyword is a keyword argument: `name := value`.
type Keyword struct {
	Name  string
	Value Expr
}

// CallOperator holds the arguments of a call or of a function definition.
type CallOperator struct {
	ASTBase

	Unnamed  []Expr
	TypeArgs []TypeArg

	// The keyword arguments sorted by name.
	Keywords []Keyword
}

// SubscriptDim is one dimension of a subscript: `begin:end:step`.  Each part
// may be nil.
type SubscriptDim struct {
	Begin, End, Step Expr
}

// SubscriptOperator holds the dimensions of a subscript.
type SubscriptOperator struct {
	ASTBase

	Dims []SubscriptDim
}

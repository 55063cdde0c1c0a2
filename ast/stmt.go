package ast

// Module is the root of the tree for a single source file.
type Module struct {
	ASTBase

	// The source file name: used for diagnostics and module markers.
	Filename string

	// The top-level statements of the module.
	Objs []Stmt
}

// Block is a braced sequence of statements opening a new scope.
type Block struct {
	stmtBase

	Statements []Stmt
}

// ExprStatement is an expression evaluated for its effect.
type ExprStatement struct {
	stmtBase

	Expr Expr
}

// Break exits the nearest enclosing loop.
type Break struct {
	stmtBase
}

// Continue jumps to the test of the nearest enclosing loop.
type Continue struct {
	stmtBase
}

// Return exits the enclosing function.
type Return struct {
	stmtBase

	// The returned value.  This may be nil.
	Expr Expr
}

// If is a conditional statement.
type If struct {
	stmtBase

	Test Expr
	Body *Block

	// The else branch: nil, a *Block, or an *If for an else-if chain.
	OrElse Stmt
}

// While is a loop with an optional else block run when the test fails.
type While struct {
	stmtBase

	Test   Expr
	Body   *Block
	OrElse *Block
}

// Raise raises an error value.
type Raise struct {
	stmtBase

	Error Expr
}

// Except is a single handler clause of a Try.
type Except struct {
	// The name the caught error is bound to.
	Alias string

	// The type of error handled.
	Error *Name

	Body *Block
}

// Try runs a block and handles the errors it raises.
type Try struct {
	stmtBase

	Body    *Block
	Excepts []Except
	OrElse  *Block
}

// ObjCreate binds a new object: `x := expr`.
type ObjCreate struct {
	stmtBase

	ID   string
	Init Expr
}

// Function defines a function.  The first positional argument of Args is the
// return type and its type arguments are the parameters.
type Function struct {
	stmtBase

	ID   string
	Args *CallOperator
	Body *Block
}

// Assemble defines a function implemented in assembly.
type Assemble struct {
	stmtBase

	ID   string
	Args *CallOperator
	Body *Block
}

// Struct defines a structure type.
type Struct struct {
	stmtBase

	ID   string
	Body *Block
}

// Class defines a class type.
type Class struct {
	stmtBase

	ID      string
	Parents *CallOperator
	Body    *Block
}

// Import binds an imported module.
type Import struct {
	stmtBase

	ID         string
	ModuleRoot *CallOperator
	Files      *Block
}

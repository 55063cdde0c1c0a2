package walk

import (
	"xuc/ast"
	"xuc/common"
	"xuc/report"
	"xuc/tac"
)

// operand is the outcome of walking an expression.
type operand struct {
	// The type of the expression.
	typ *common.TypeSymbol

	// The code computing the expression.  Its result holds the value.
	code *tac.Code

	// The symbol the expression names, if it is a bare name.
	sym common.Symbol
}

// walkExpr walks an expression.
func (w *Walker) walkExpr(expr ast.Expr) operand {
	switch v := expr.(type) {
	case *ast.Literal:
		return w.walkLiteral(v)
	case *ast.Name:
		return w.walkName(v)
	case *ast.BinaryOpExpr:
		return w.walkBinaryOp(v)
	case *ast.AssignOpExpr:
		return w.walkAssignOp(v)
	case *ast.LogicExpr:
		return w.walkLogic(v)
	case *ast.UnaryOpExpr:
		w.notImplemented(v, "unary operator `"+v.Op.Kind.Name()+"`")
	case *ast.IfElseExpr:
		w.notImplemented(v, "conditional expression")
	case *ast.CallExpr:
		w.notImplemented(v, "call expression")
	case *ast.SubscriptExpr:
		w.notImplemented(v, "subscript expression")
	default:
		report.ReportICE("walkExpr: unknown expression kind %T", expr)
	}

	return operand{}
}

// requireValue reports an error if the operand names a type.
func (w *Walker) requireValue(op operand, expr ast.Expr) {
	if ts, ok := op.sym.(*common.TypeSymbol); ok {
		w.error(expr.Span(), "expected a value but `%s` is a type", ts.Name())
	}
}

// walkTypeExpr walks an expression which must name a type.  The what
// describes the expression for error messages.
func (w *Walker) walkTypeExpr(expr ast.Expr, what string) *common.TypeSymbol {
	op := w.walkExpr(expr)

	ts, ok := op.sym.(*common.TypeSymbol)
	if !ok {
		w.error(expr.Span(), "%s must be a type", what)
	}

	return ts
}

// -----------------------------------------------------------------------------

// walkLiteral walks a literal.
func (w *Walker) walkLiteral(lit *ast.Literal) operand {
	w.rep.Tracef("checking literal `%s`", lit.Value)

	typ := w.ctx.Builtin(lit.Type)
	return operand{
		typ:  typ,
		code: w.ctx.Emit(tac.OpLiteral, lit.Value, typ.Name()),
	}
}

// walkName walks a name: a load of a value or a reference to a type.
func (w *Walker) walkName(name *ast.Name) operand {
	w.rep.Tracef("checking name `%s`", name.ID)

	if name.Parent != nil {
		w.notImplemented(name, "qualified name access")
	}

	sym, ok := w.ctx.FindSymbol(name.ID)
	if !ok {
		w.error(name.Span(), "undefined symbol: `%s`", name.ID)
	}

	op := tac.OpLoad
	if _, ok := sym.(*common.TypeSymbol); ok {
		op = tac.OpType
	}

	return operand{
		typ:  sym.Type(),
		code: w.ctx.Emit(op, sym.Key(), ""),
		sym:  sym,
	}
}

// operSpan returns the span of an operator application.
func operSpan(expr ast.Expr, left, right ast.Expr) *report.TextSpan {
	if span := expr.Span(); span != nil {
		return span
	}

	return report.NewSpanOver(left.Span(), right.Span())
}

// walkBinaryOp walks a binary operator application.  Only integer arithmetic
// is supported.
func (w *Walker) walkBinaryOp(bop *ast.BinaryOpExpr) operand {
	w.rep.Tracef("checking bop-expr `%s`", bop.Op.Kind)

	if bop.Op.Kind.Class() != common.OpClassBinary {
		w.error(bop.Op.Span(), "`%s` is not a binary operator", bop.Op.Kind)
	}

	left := w.walkExpr(bop.Left)
	w.requireValue(left, bop.Left)

	right := w.walkExpr(bop.Right)
	w.requireValue(right, bop.Right)

	intType := w.ctx.Builtin(common.IntTypeName)
	if left.typ != intType || right.typ != intType {
		w.error(
			operSpan(bop, bop.Left, bop.Right),
			"operands of `%s` must be `Int` but got `%s` and `%s`",
			bop.Op.Kind, left.typ.Name(), right.typ.Name(),
		)
	}

	return operand{
		typ:  intType,
		code: w.ctx.Emit(bop.Op.Kind.Name(), left.code.Res, right.code.Res),
	}
}

// walkAssignOp walks an assignment.  The target's load is rewritten in place
// into the store or compound operation rather than emitting a second code.
func (w *Walker) walkAssignOp(aop *ast.AssignOpExpr) operand {
	w.rep.Tracef("checking assign-expr `%s`", aop.Op.Kind)

	if aop.Op.Kind.Class() != common.OpClassAssign {
		w.error(aop.Op.Span(), "`%s` is not an assignment operator", aop.Op.Kind)
	}

	rhs := w.walkExpr(aop.Right)
	w.requireValue(rhs, aop.Right)

	target := w.walkExpr(aop.Left)
	if target.code == nil || target.code.Op != tac.OpLoad {
		w.error(aop.Left.Span(), "cannot assign to this expression")
	}

	key := target.sym.Key()

	if aop.Op.Kind == common.OpAssign {
		if rhs.typ != target.typ {
			w.error(
				operSpan(aop, aop.Left, aop.Right),
				"cannot assign a value of type `%s` to `%s` of type `%s`",
				rhs.typ.Name(), target.sym.Name(), target.typ.Name(),
			)
		}

		w.ctx.Stream().Rewrite(target.code, tac.OpStore, rhs.code.Res, "", key)
	} else {
		intType := w.ctx.Builtin(common.IntTypeName)
		if target.typ != intType || rhs.typ != intType {
			w.error(
				operSpan(aop, aop.Left, aop.Right),
				"operands of `%s` must be `Int` but got `%s` and `%s`",
				aop.Op.Kind, target.typ.Name(), rhs.typ.Name(),
			)
		}

		w.ctx.Stream().Rewrite(target.code, aop.Op.Kind.Name(), key, rhs.code.Res, key)
	}

	return target
}

// walkLogic walks a comparison or a short-circuiting logical operator.
func (w *Walker) walkLogic(le *ast.LogicExpr) operand {
	w.rep.Tracef("checking logic-expr `%s`", le.Op.Kind)

	if le.Op.Kind.Class() != common.OpClassLogic {
		w.error(le.Op.Span(), "`%s` is not a logical operator", le.Op.Kind)
	}

	left := w.walkExpr(le.Left)
	w.requireValue(left, le.Left)

	if le.Op.Kind.IsShortCircuit() {
		return w.walkShortCircuit(le, left)
	}

	right := w.walkExpr(le.Right)
	w.requireValue(right, le.Right)

	intType := w.ctx.Builtin(common.IntTypeName)
	if left.typ != intType || right.typ != intType {
		w.error(
			operSpan(le, le.Left, le.Right),
			"operands of `%s` must be `Int` but got `%s` and `%s`",
			le.Op.Kind, left.typ.Name(), right.typ.Name(),
		)
	}

	return operand{
		typ:  intType,
		code: w.ctx.Emit(le.Op.Kind.Name(), left.code.Res, right.code.Res),
	}
}

// walkShortCircuit walks the right operand of `or` or `and`.  Both operands
// are copied into one shared temporary which holds the result.
func (w *Walker) walkShortCircuit(le *ast.LogicExpr, left operand) operand {
	jumpOp := tac.OpJumpFalse
	if le.Op.Kind == common.OpAnd {
		jumpOp = tac.OpJumpTrue
	}

	toRight := w.ctx.EmitOpen(jumpOp, left.code.Res)
	w.ctx.EmitTo(tac.OpLoc, "", "", "logic_lt")

	copyLeft := w.ctx.Emit(tac.OpCopyTmp, left.code.Res, "")
	toEnd := w.ctx.EmitOpen(tac.OpJump, "")

	locRight := w.ctx.EmitTo(tac.OpLoc, "", "", "logic_rt")
	w.ctx.Stream().Resolve(toRight, locRight.ID)

	right := w.walkExpr(le.Right)
	w.requireValue(right, le.Right)

	if left.typ != right.typ {
		w.error(
			operSpan(le, le.Left, le.Right),
			"operands of `%s` must have the same type but got `%s` and `%s`",
			le.Op.Kind, left.typ.Name(), right.typ.Name(),
		)
	}

	w.ctx.EmitTo(tac.OpCopyTmp, right.code.Res, "", copyLeft.Res)
	locEnd := w.ctx.EmitTo(tac.OpLoc, "", "", "logic_ed")
	w.ctx.Stream().Resolve(toEnd, locEnd.ID)

	return operand{typ: left.typ, code: copyLeft}
}

package walk

import (
	"xuc/ast"
	"xuc/common"
	"xuc/report"
	"xuc/tac"
)

// walkModule walks the top-level statements of a module.  The statements are
// bound in the root block of the context.
func (w *Walker) walkModule(mod *ast.Module) {
	w.rep.Tracef("checking module `%s`", mod.Filename)

	w.ctx.EmitTo(tac.OpBeginModule, "", "", mod.Filename)

	for _, stmt := range mod.Objs {
		w.walkStmt(stmt)
		w.checkNoPending()
	}

	w.ctx.EmitTo(tac.OpEndModule, "", "", mod.Filename)

	if n := w.ctx.Stream().OpenCount(); n != 0 {
		report.ReportICE("%d unresolved codes left after checking module `%s`", n, mod.Filename)
	}

	if err := tac.Validate(w.ctx.Stream().Codes()); err != nil {
		report.ReportICE("malformed code stream for module `%s`: %s", mod.Filename, err)
	}
}

// walkStmt walks a statement.
func (w *Walker) walkStmt(stmt ast.Stmt) {
	switch v := stmt.(type) {
	case *ast.Block:
		w.walkBlock(v)
	case *ast.ExprStatement:
		w.walkExpr(v.Expr)
	case *ast.Break:
		w.rep.Tracef("checking break-stmt")
		w.walkLoopJump(v, "break")
	case *ast.Continue:
		w.rep.Tracef("checking continue-stmt")
		w.walkLoopJump(v, "continue")
	case *ast.Return:
		w.walkReturn(v)
	case *ast.If:
		w.walkIf(v)
	case *ast.While:
		w.walkWhile(v)
	case *ast.ObjCreate:
		w.walkObjCreate(v)
	case *ast.Function:
		w.walkFunction(v)
	case *ast.Raise:
		w.notImplemented(v, "raise statement")
	case *ast.Try:
		w.notImplemented(v, "try statement")
	case *ast.Assemble:
		w.notImplemented(v, "assemble definition")
	case *ast.Struct:
		w.notImplemented(v, "struct definition")
	case *ast.Class:
		w.notImplemented(v, "class definition")
	case *ast.Import:
		w.notImplemented(v, "import")
	default:
		report.ReportICE("walkStmt: unknown statement kind %T", stmt)
	}
}

// walkBlock walks a block in a new scope.  Pending control flow passes through
// the block unchanged.
func (w *Walker) walkBlock(block *ast.Block) {
	w.ctx.PushBlock()
	w.rep.Tracef("checking block `%s`", w.ctx.BlockID())

	for _, stmt := range block.Statements {
		w.walkStmt(stmt)
	}

	w.ctx.PopBlock()
}

// walkLoopJump walks a break or continue: an unconditional jump resolved by
// the nearest enclosing loop.
func (w *Walker) walkLoopJump(stmt ast.Stmt, label string) {
	jump := w.ctx.EmitOpen(tac.OpJump, "")
	w.ctx.EmitTo(tac.OpLoc, "", "", label)

	w.pushPending(stmt, jump)
}

// walkReturn walks a return statement.  Its target is resolved by the
// enclosing function.
func (w *Walker) walkReturn(ret *ast.Return) {
	w.rep.Tracef("checking return-stmt")

	value := ""
	if ret.Expr != nil {
		val := w.walkExpr(ret.Expr)
		w.requireValue(val, ret.Expr)

		if rt := w.enclosingReturnType; rt != nil {
			if rt.Name() == common.VoidTypeName {
				w.error(ret.Span(), "cannot return a value from a function returning `Void`")
			} else if val.typ != rt {
				w.error(ret.Expr.Span(), "expected a return value of type `%s` but got `%s`", rt.Name(), val.typ.Name())
			}
		}

		value = val.code.Res
	} else if rt := w.enclosingReturnType; rt != nil && rt.Name() != common.VoidTypeName {
		w.error(ret.Span(), "missing return value: expected a value of type `%s`", rt.Name())
	}

	w.pushPending(ret, w.ctx.EmitOpen(tac.OpRet, value))
}

// walkObjCreate walks an object creation: `x := expr`.
func (w *Walker) walkObjCreate(create *ast.ObjCreate) {
	w.rep.Tracef("checking create-stmt `%s`", create.ID)

	initVal := w.walkExpr(create.Init)
	w.requireValue(initVal, create.Init)

	sym := w.ctx.AddSymbol(common.NewObjectSymbol(create.ID, initVal.typ))
	w.ctx.EmitTo(tac.OpCreate, initVal.code.Res, "", sym.Key())
}

// walkFunction walks a function definition.  The function symbol is bound in
// the enclosing scope before the body is walked so the body can refer to it.
func (w *Walker) walkFunction(fn *ast.Function) {
	w.rep.Tracef("checking function `%s`", fn.ID)

	if fn.Args == nil || len(fn.Args.Unnamed) != 1 {
		w.error(fn.Span(), "function `%s` must be defined with exactly one unnamed argument: its return type", fn.ID)
	}

	if len(fn.Args.Keywords) != 0 {
		w.error(fn.Args.Span(), "keyword arguments are not implemented")
	}

	openBefore := w.ctx.Stream().OpenCount()

	fnKey := fn.ID + "@" + w.ctx.BlockID()
	w.ctx.EmitTo(tac.OpBeginFunc, "", "", fnKey)

	retType := w.walkTypeExpr(fn.Args.Unnamed[0], "the return type of a function")
	w.ctx.AddSymbol(w.ctx.Universe().NewFunctionSymbol(fn.ID, retType))

	// The body cannot see the enclosing pending jumps or return type.
	outerPending, outerReturnType := w.pending, w.enclosingReturnType
	w.pending, w.enclosingReturnType = nil, retType

	w.ctx.PushBlock()

	for _, arg := range fn.Args.TypeArgs {
		argType := w.walkTypeExpr(arg.Type, "the type of a parameter")
		sym := w.ctx.AddSymbol(common.NewObjectSymbol(arg.Name, argType))
		w.ctx.EmitTo(tac.OpArg, "", argType.Key(), sym.Key())
	}

	w.ctx.EmitTo(tac.OpBeginFuncBody, "", "", fnKey)

	var returns []*tac.Code
	for _, stmt := range fn.Body.Statements {
		w.walkStmt(stmt)

		returns = append(returns, extractPending[*ast.Return](w, 0)...)
		w.checkNoPending()
	}

	w.ctx.PopBlock()
	end := w.ctx.EmitTo(tac.OpEndFunc, "", "", fnKey)
	w.resolveAll(returns, end.ID)

	w.pending, w.enclosingReturnType = outerPending, outerReturnType

	if n := w.ctx.Stream().OpenCount(); n != openBefore {
		report.ReportICE("function `%s` left %d unresolved codes", fnKey, n-openBefore)
	}
}
